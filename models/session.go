package models

// SessionRequest is the body of POST /api/session.
type SessionRequest struct {
	AccessCode string `json:"access_code"`
}
