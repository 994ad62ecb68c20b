package authcore

import (
	"context"
	"encoding/json"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultSessionSlot is the storage key holding the current session.
const DefaultSessionSlot = "auravision.session"

// EncodeSession serializes a session for the persistence layer.
func EncodeSession(session *Session) (string, error) {
	if session == nil {
		return "", goerrors.New("session must not be nil", goerrors.CategoryBadInput)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session")
	}

	return string(raw), nil
}

// DecodeSession deserializes a persisted session and validates its expiry
// against now. Malformed payloads yield ErrSessionInvalid, expired sessions
// ErrSessionExpired; callers are expected to discard the slot either way.
func DecodeSession(raw string, now time.Time) (*Session, error) {
	session := &Session{}
	if err := json.Unmarshal([]byte(raw), session); err != nil {
		return nil, ErrSessionInvalid.WithMetadata(map[string]any{
			"cause": err.Error(),
		})
	}

	if session.User == nil || session.ExpiresAt.IsZero() {
		return nil, ErrSessionInvalid
	}

	if !session.ExpiresAt.After(now) {
		return nil, ErrSessionExpired.WithMetadata(map[string]any{
			"expires_at": session.ExpiresAt,
		})
	}

	return session, nil
}

// SessionStore persists the current session in its own storage slot.
type SessionStore struct {
	storage Storage
	slot    string
	logger  Logger
	now     func() time.Time
}

// SessionStoreOption customizes a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionSlot overrides the storage key holding the session.
func WithSessionSlot(key string) SessionStoreOption {
	return func(s *SessionStore) {
		if key != "" {
			s.slot = key
		}
	}
}

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithSessionLogger overrides the logger used for degraded reads.
func WithSessionLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSessionStore returns a SessionStore over the given storage port.
func NewSessionStore(storage Storage, opts ...SessionStoreOption) *SessionStore {
	store := &SessionStore{
		storage: storage,
		slot:    DefaultSessionSlot,
		logger:  defLogger{},
		now:     time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

// Load returns the persisted session when present and unexpired. Expired or
// malformed payloads are deleted before reporting absence: a discarded
// session is never resurrected.
func (s *SessionStore) Load(ctx context.Context) (*Session, error) {
	raw, err := s.storage.Get(ctx, s.slot)
	if err != nil {
		if IsKeyNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read session slot")
	}

	session, err := DecodeSession(raw, s.now())
	if err != nil {
		s.logger.Debug("discarding stored session: %v", err)
		if derr := s.storage.Delete(ctx, s.slot); derr != nil {
			s.logger.Warn("failed to clear stale session slot: %v", derr)
		}
		return nil, nil
	}

	return session, nil
}

// Save persists session, replacing any previous one. Last writer wins.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	raw, err := EncodeSession(session)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, s.slot, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session")
	}

	return nil
}

// Clear removes the persisted session unconditionally.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.slot); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session")
	}
	return nil
}
