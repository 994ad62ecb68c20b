package authcore_test

import (
	"context"
	"sync"
	"time"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/mock"
)

// noDelay removes the simulated latency from tests.
var noDelay = authcore.DelayerFunc(func(context.Context, time.Duration) error {
	return nil
})

// firstMatcher deterministically picks the first candidate.
type firstMatcher struct{}

func (firstMatcher) MatchFace(_ context.Context, candidates []*authcore.User) (*authcore.User, error) {
	if len(candidates) == 0 {
		return nil, authcore.ErrNoUsersForBiometric
	}
	return candidates[0], nil
}

func (firstMatcher) MatchQR(_ context.Context, candidates []*authcore.User) (*authcore.User, error) {
	if len(candidates) == 0 {
		return nil, authcore.ErrInvalidQR
	}
	return candidates[0], nil
}

// recordingSink collects emitted activity events.
type recordingSink struct {
	mu     sync.Mutex
	events []authcore.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event authcore.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Events() []authcore.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]authcore.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingSink) Types() []authcore.ActivityEventType {
	events := r.Events()
	types := make([]authcore.ActivityEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

// MockStorage implements authcore.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// discardLogger silences expected warning noise in tests.
type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
