// Package config provides centralized default values for CineDash
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
	})
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s (default overridden)", key)
		}
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Local State
	StateDir string
	LogDir   string

	// Session Security
	JWTSecret     string
	AESKey        string
	SessionMaxAge time.Duration
	OpsPassword   string

	// Upstream APIs
	TicketingAPIBase      string
	ReportsAPIBase        string
	DisputesAPIBase       string
	ContentAPIBase        string
	UpstreamTimeout       time.Duration
	OrdersUpstreamTimeout time.Duration

	// Circuit Breaker
	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration

	// Content Tokens
	ContentTokenSecret string
	ContentTokenTTL    time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Local State
	StateDir = getEnvString("STATE_DIR", "state")
	LogDir = getEnvString("LOG_DIR", "log")

	// Session Security
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	SessionMaxAge = getEnvDuration("SESSION_MAX_AGE", 24*time.Hour)
	OpsPassword = getEnvString("OPS_PASSWORD_HASH", "")

	// Upstream APIs
	TicketingAPIBase = getEnvString("TICKETING_API_BASE", "https://api.kinoticket.example")
	ReportsAPIBase = getEnvString("REPORTS_API_BASE", "https://reports.kinoticket.example")
	DisputesAPIBase = getEnvString("DISPUTES_API_BASE", "https://disputes.kinoticket.example")
	ContentAPIBase = getEnvString("CONTENT_API_BASE", "https://content.kinowerk.example")
	UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second)
	OrdersUpstreamTimeout = getEnvDuration("ORDERS_UPSTREAM_TIMEOUT", 10*time.Second)

	// Circuit Breaker
	BreakerMaxFailures = getEnvInt("BREAKER_MAX_FAILURES", 5)
	BreakerOpenTimeout = getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second)

	// Content Tokens
	ContentTokenSecret = getEnvString("CONTENT_TOKEN_SECRET", "")
	ContentTokenTTL = getEnvDuration("CONTENT_TOKEN_TTL", time.Hour)
}
