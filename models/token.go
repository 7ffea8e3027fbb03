package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a signed session JWT.
//
// The "sub" claim carries the client identifier issued together with the
// token, so the server can tell clients apart in its logs.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// ClientID is a cached copy of the subject claim.
	ClientID string `json:"-"`
}

// GetClientID returns the subject claim of the token.
func (t *Token) GetClientID() (string, error) {
	clientID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting ClientID from token: %w", err)
	}
	if clientID == "" {
		return "", errors.New("empty subject in token")
	}
	return clientID, nil
}

func (t *Token) String() string {
	return t.SignedString
}
