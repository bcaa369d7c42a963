package services

import (
	"sync"
	"time"

	"github.com/KinoWerk/cinedash-go/internal/domain/user"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/observability/logging"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/persistence/localstate"
	"github.com/KinoWerk/cinedash-go/internal/infrastructure/security"
)

const sessionStateKey = "session"

// persistedSession is the on-disk shape of the session blob. When an AES key
// is configured the apiKey field holds ciphertext.
type persistedSession struct {
	SessionID   string           `json:"sessionId"`
	Username    string           `json:"username"`
	APIKey      string           `json:"apiKey"`
	Permissions user.Permissions `json:"permissions"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// SessionService owns the single active session and its local-state mirror.
type SessionService struct {
	mu      sync.RWMutex
	current *user.Session
	store   *localstate.Store
	logger  *logging.ChanneledLogger
	aesKey  string
}

// NewSessionService creates the session holder backed by the given store.
func NewSessionService(store *localstate.Store, logger *logging.ChanneledLogger, aesKey string) *SessionService {
	return &SessionService{store: store, logger: logger, aesKey: aesKey}
}

// Restore loads any persisted session at startup. A missing, unparseable or
// undecryptable blob means no session; it never fails the boot.
func (s *SessionService) Restore() {
	var blob persistedSession
	if !s.store.Load(sessionStateKey, &blob) {
		return
	}

	apiKey := blob.APIKey
	if s.aesKey != "" {
		decrypted, err := security.Decrypt(blob.APIKey, s.aesKey)
		if err != nil {
			s.logger.Auth().Warn("Persisted session could not be decrypted, discarding", "error", err.Error())
			s.store.Clear(sessionStateKey)
			return
		}
		apiKey = decrypted
	}

	s.mu.Lock()
	s.current = &user.Session{
		ID:          blob.SessionID,
		Username:    blob.Username,
		APIKey:      apiKey,
		Permissions: blob.Permissions,
		CreatedAt:   blob.CreatedAt,
	}
	s.mu.Unlock()

	s.logger.Auth().Info("Restored persisted session", "username", blob.Username, "isAdmin", blob.Permissions.IsAdmin)
}

// Set replaces the active session and mirrors it to the local state store.
func (s *SessionService) Set(session *user.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	apiKey := session.APIKey
	if s.aesKey != "" {
		encrypted, err := security.Encrypt(session.APIKey, s.aesKey)
		if err != nil {
			s.logger.Auth().Warn("Session apiKey encryption failed, persisting skipped", "error", err.Error())
			return
		}
		apiKey = encrypted
	}

	s.store.Save(sessionStateKey, persistedSession{
		SessionID:   session.ID,
		Username:    session.Username,
		APIKey:      apiKey,
		Permissions: session.Permissions,
		CreatedAt:   session.CreatedAt,
	})
}

// Current returns the active session, or nil when nobody is logged in.
func (s *SessionService) Current() *user.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear destroys the active session and its persisted mirror.
func (s *SessionService) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.store.Clear(sessionStateKey)
}

// HasPermission checks the active session's capability map. No session means
// no permissions.
func (s *SessionService) HasPermission(name string, requireWrite bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return false
	}
	return s.current.Permissions.Has(name, requireWrite)
}
