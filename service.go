package authcore

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the lifetime of a session established by any
// successful login or registration.
const DefaultSessionTTL = 24 * time.Hour

// DefaultSimulatedLatency stands in for the network/biometric round trip
// the real backend will eventually add.
const DefaultSimulatedLatency = 1500 * time.Millisecond

// AuthService is the authentication state machine. It owns the current
// AuthState and orchestrates login (password/face/QR), registration, logout
// and password-reset flows over its injected collaborators.
//
// Operations are serialized per instance: a mutex is held for the full span
// of each operation, so concurrent callers observe each operation as an
// atomic sequence and the persisted session slot never races. In-flight
// operations cannot be aborted.
type AuthService struct {
	mu    sync.Mutex
	state AuthState

	users    Users
	sessions *SessionStore
	hasher   CredentialHasher
	tokens   TokenService
	matcher  Matcher
	delayer  Delayer

	latency    time.Duration
	sessionTTL time.Duration
	now        func() time.Time

	logger       Logger
	activitySink ActivitySink
	listeners    []func(AuthState)
}

// AuthServiceOption customizes service construction.
type AuthServiceOption func(*AuthService)

// WithHasher overrides the credential hasher. The default is the
// deterministic SHA256Hasher; pass BcryptHasher{} for salted digests.
func WithHasher(h CredentialHasher) AuthServiceOption {
	return func(s *AuthService) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithMatcher overrides the simulated biometric/QR matcher.
func WithMatcher(m Matcher) AuthServiceOption {
	return func(s *AuthService) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithDelayer overrides the simulated latency source (tests pass a no-op).
func WithDelayer(d Delayer) AuthServiceOption {
	return func(s *AuthService) {
		if d != nil {
			s.delayer = d
		}
	}
}

// WithLatency overrides the simulated latency applied before each check.
func WithLatency(d time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		if d >= 0 {
			s.latency = d
		}
	}
}

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(d time.Duration) AuthServiceOption {
	return func(s *AuthService) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger Logger) AuthServiceOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func WithActivitySink(sink ActivitySink) AuthServiceOption {
	return func(s *AuthService) {
		s.activitySink = normalizeActivitySink(sink)
	}
}

// WithTokenService overrides the session token minting service.
func WithTokenService(ts TokenService) AuthServiceOption {
	return func(s *AuthService) {
		if ts != nil {
			s.tokens = ts
		}
	}
}

// WithStateListener registers a callback invoked with a snapshot after
// every settled transition. Listeners run synchronously inside the
// operation and must not call back into the service.
func WithStateListener(fn func(AuthState)) AuthServiceOption {
	return func(s *AuthService) {
		if fn != nil {
			s.listeners = append(s.listeners, fn)
		}
	}
}

// NewAuthService constructs the state machine and restores any persisted,
// unexpired session: restored sessions transition straight to Authenticated
// without re-validating the password, expired or malformed ones are deleted
// and the machine starts Anonymous.
func NewAuthService(users Users, sessions *SessionStore, cfg Config, opts ...AuthServiceOption) *AuthService {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	s := &AuthService{
		users:        users,
		sessions:     sessions,
		hasher:       SHA256Hasher{},
		tokens:       tokenService,
		matcher:      randomMatcher{},
		delayer:      realDelayer{},
		latency:      DefaultSimulatedLatency,
		sessionTTL:   DefaultSessionTTL,
		now:          time.Now,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.restore(context.Background())

	return s
}

// State returns a snapshot of the current projection.
func (s *AuthService) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login verifies identifier (email, falling back to nickname) and password.
// Expected failures settle the machine in Anonymous with a displayable
// message and return (false, nil); only unexpected internal failures return
// a non-nil error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transition(s.state.Pending())

	if err := s.delayer.Delay(ctx, s.latency); err != nil {
		return false, s.settleInternal(err, "login interrupted")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil && !IsUserNotFound(err) {
		return false, s.settleInternal(err, "login lookup failed")
	}

	if user == nil || !s.hasher.Matches(password, user.PasswordHash) {
		s.transition(s.state.Failed(MsgInvalidCredentials))
		s.emit(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", MethodPassword, map[string]any{
			"identifier": identifier,
		})
		return false, nil
	}

	s.establishSession(ctx, user, MethodPassword)
	s.transition(s.state.Authenticated(user))
	s.emit(ctx, ActivityEventLoginSuccess, actorFor(user), user.ID, MethodPassword, map[string]any{
		"identifier": identifier,
	})

	return true, nil
}

// LoginWithFace simulates a facial match: any user existing in the store is
// a match, chosen by the configured Matcher (uniformly random by default).
// An empty store is the only failure.
func (s *AuthService) LoginWithFace(ctx context.Context) (bool, error) {
	return s.loginSimulated(ctx, MethodFacial)
}

// LoginWithQR simulates a QR match with the same contract as LoginWithFace.
func (s *AuthService) LoginWithQR(ctx context.Context) (bool, error) {
	return s.loginSimulated(ctx, MethodQR)
}

func (s *AuthService) loginSimulated(ctx context.Context, method AuthMethod) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	failureEvent := ActivityEventFaceLoginFailure
	successEvent := ActivityEventFaceLoginSuccess
	failureMsg := MsgNoUsersForBiometric
	if method == MethodQR {
		failureEvent = ActivityEventQRLoginFailure
		successEvent = ActivityEventQRLoginSuccess
		failureMsg = MsgInvalidQR
	}

	s.transition(s.state.Pending())

	if err := s.delayer.Delay(ctx, s.latency); err != nil {
		return false, s.settleInternal(err, "simulated match interrupted")
	}

	candidates, err := s.users.All(ctx)
	if err != nil {
		return false, s.settleInternal(err, "simulated match lookup failed")
	}

	var user *User
	if len(candidates) > 0 {
		if method == MethodQR {
			user, err = s.matcher.MatchQR(ctx, candidates)
		} else {
			user, err = s.matcher.MatchFace(ctx, candidates)
		}
		if err != nil {
			s.logger.Debug("matcher rejected candidates: %v", err)
			user = nil
		}
	}

	if user == nil {
		s.transition(s.state.Failed(failureMsg))
		s.emit(ctx, failureEvent, ActorRef{Type: "unknown"}, "", method, nil)
		return false, nil
	}

	s.establishSession(ctx, user, method)
	s.transition(s.state.Authenticated(user))
	s.emit(ctx, successEvent, actorFor(user), user.ID, method, nil)

	return true, nil
}

// Register constructs a new user from userData, appends it to the store and
// establishes a session. It performs no validation and no uniqueness check:
// well-formed or not, registration succeeds unless persistence itself fails.
func (s *AuthService) Register(ctx context.Context, userData RegisterPayload) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transition(s.state.Pending())

	if err := s.delayer.Delay(ctx, s.latency); err != nil {
		return false, s.settleRegistration(err, "registration interrupted")
	}

	hash, err := s.hasher.Hash(userData.Password)
	if err != nil {
		return false, s.settleRegistration(err, "failed to hash password")
	}

	now := s.now()
	user := &User{
		ID:            NewUserID(now),
		Email:         userData.Email,
		Phone:         NormalizePhone(userData.Phone),
		Birthdate:     userData.Birthdate,
		Nickname:      userData.Nickname,
		Role:          RoleAnalista,
		PasswordHash:  hash,
		FaceData:      FaceDataPlaceholder,
		QRCode:        NewQRPayload(userData.Email),
		Notifications: userData.Notifications,
		RegisteredAt:  now.UTC().Format(time.RFC3339),
	}

	if err := s.users.Add(ctx, user); err != nil {
		return false, s.settleRegistration(err, "failed to persist user")
	}

	s.establishSession(ctx, user, MethodPassword)
	s.transition(s.state.Authenticated(user))
	s.emit(ctx, ActivityEventRegistration, actorFor(user), user.ID, MethodPassword, map[string]any{
		"email": user.Email,
	})

	return true, nil
}

// Logout clears the persisted session unconditionally and settles in
// Anonymous with no error. Calling it while already Anonymous is a no-op
// with the same outcome.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state.User

	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted session: %v", err)
	}

	s.transition(s.state.Anonymous())

	actor := ActorRef{Type: "unknown"}
	userID := ""
	if previous != nil {
		actor = actorFor(previous)
		userID = previous.ID
	}
	s.emit(ctx, ActivityEventLogout, actor, userID, "", nil)
}

// ResetPassword looks the user up by email and reports whether a reset
// notification would be sent. It is a notification stub: the stored hash
// and the machine's state are never touched.
func (s *AuthService) ResetPassword(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.delayer.Delay(ctx, s.latency); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryOperation, "password reset interrupted")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if IsUserNotFound(err) {
			return false, nil
		}
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "password reset lookup failed")
	}

	s.printResetNotification(user.Email)
	s.emit(ctx, ActivityEventPasswordResetSent, actorFor(user), user.ID, "", map[string]any{
		"email": user.Email,
	})

	return true, nil
}

// restore loads the persisted session on construction.
func (s *AuthService) restore(ctx context.Context) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		s.logger.Warn("session restore failed, starting anonymous: %v", err)
		s.state = AuthState{}
		return
	}

	if session == nil {
		s.state = AuthState{}
		return
	}

	session.User.EnsureRole()
	s.state = s.state.Authenticated(session.User)
}

// establishSession mints a token, builds the session and persists it.
// Failures here are unexpected: they are logged and the login still settles
// as Authenticated, the session just will not survive a restart.
func (s *AuthService) establishSession(ctx context.Context, user *User, method AuthMethod) {
	token, err := s.tokens.Generate(user, method)
	if err != nil {
		s.logger.Warn("token mint failed, falling back to opaque token: %v", err)
		token = uuid.NewString()
	}

	session := &Session{
		User:      user,
		Token:     token,
		Method:    method,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("failed to persist session: %v", err)
	}
}

// settleInternal logs an unexpected failure, settles the machine in
// Anonymous with the generic message and returns the wrapped error.
func (s *AuthService) settleInternal(err error, msg string) error {
	s.logger.Error("%s: %v", msg, err)
	s.transition(s.state.Failed(MsgGenericFailure))
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}

func (s *AuthService) settleRegistration(err error, msg string) error {
	s.logger.Error("%s: %v", msg, err)
	s.transition(s.state.Failed(MsgRegistrationFailed))
	return goerrors.Wrap(err, ErrRegistrationFailed.Category, msg).WithTextCode(ErrRegistrationFailed.TextCode)
}

func (s *AuthService) transition(next AuthState) {
	s.state = next
	for _, listener := range s.listeners {
		listener(next)
	}
}

func (s *AuthService) emit(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, method AuthMethod, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		UserID:     userID,
		Method:     method,
		Metadata:   metadata,
		OccurredAt: s.now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func (s *AuthService) printResetNotification(email string) {
	s.logger.Info("====== SENDING EMAIL NOTIFICATION =======")
	s.logger.Info("to: %s", email)
	s.logger.Info("link: /password-reset")
}

func actorFor(user *User) ActorRef {
	if user == nil {
		return ActorRef{Type: "unknown"}
	}
	return ActorRef{
		ID:   user.ID,
		Type: "user",
	}
}

// randomMatcher is the default simulated matcher: any candidate matches,
// picked uniformly at random.
type randomMatcher struct{}

func (randomMatcher) MatchFace(_ context.Context, candidates []*User) (*User, error) {
	return pickRandom(candidates)
}

func (randomMatcher) MatchQR(_ context.Context, candidates []*User) (*User, error) {
	return pickRandom(candidates)
}

func pickRandom(candidates []*User) (*User, error) {
	if len(candidates) == 0 {
		return nil, ErrNoUsersForBiometric
	}
	return candidates[rand.IntN(len(candidates))], nil
}

// realDelayer sleeps for the requested duration, honoring ctx.
type realDelayer struct{}

func (realDelayer) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
