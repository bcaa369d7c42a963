// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides the permissive CORS policy the dashboard proxy
// contract requires: any origin, standard methods, a fixed header
// allow-list. Preflight OPTIONS requests are answered with an empty 204,
// the library's convention; browsers accept any 2xx as preflight success.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		ExposeHeaders: []string{
			"Content-Type", "Content-Length",
		},
	}

	return cors.New(config)
}
