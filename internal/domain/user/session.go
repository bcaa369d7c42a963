package user

import "time"

// Session is the authenticated identity for the lifetime of the dashboard
// session. Exactly one session is active at a time; a new authentication
// fully replaces it.
type Session struct {
	ID          string      `json:"sessionId"`
	Username    string      `json:"username"`
	APIKey      string      `json:"apiKey"`
	Permissions Permissions `json:"permissions"`
	CreatedAt   time.Time   `json:"createdAt"`
}
