package authcore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the structured claims carried by a session token.
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() string
	LoginMethod() AuthMethod
	Expires() time.Time
	IssuedAt() time.Time
}

// SessionClaims is the concrete implementation of AuthClaims.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string     `json:"uid,omitempty"`
	UserRole string     `json:"role,omitempty"`
	Method   AuthMethod `json:"method,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*SessionClaims)(nil)

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the user's role
func (c *SessionClaims) Role() string {
	return c.UserRole
}

// LoginMethod returns the method that established the session
func (c *SessionClaims) LoginMethod() AuthMethod {
	return c.Method
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
