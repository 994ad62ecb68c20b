package authcore

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Storage is the persistence port backing the user collection and the
// session slot. Get returns ErrKeyNotFound for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialHasher maps a plaintext secret to a stored digest.
type CredentialHasher interface {
	Hash(secret string) (string, error)
	Matches(secret, digest string) bool
}

// Matcher stands in for real biometric/QR matching. Implementations pick a
// user from the candidates or report that none could be matched.
type Matcher interface {
	MatchFace(ctx context.Context, candidates []*User) (*User, error)
	MatchQR(ctx context.Context, candidates []*User) (*User, error)
}

// Delayer injects the simulated network/biometric latency so tests can
// replace real timers with deterministic fakes.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// DelayerFunc adapts a function to the Delayer interface.
type DelayerFunc func(ctx context.Context, d time.Duration) error

// Delay implements Delayer.
func (f DelayerFunc) Delay(ctx context.Context, d time.Duration) error {
	if f == nil {
		return nil
	}
	return f(ctx, d)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// SimpleConfig is a plain value implementation of Config.
type SimpleConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
}

func (c SimpleConfig) GetSigningKey() string   { return c.SigningKey }
func (c SimpleConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c SimpleConfig) GetIssuer() string       { return c.Issuer }
func (c SimpleConfig) GetAudience() []string   { return c.Audience }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
