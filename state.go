package authcore

// AuthStatus is the machine's position: Anonymous, Pending or Authenticated.
type AuthStatus string

const (
	StatusAnonymous     AuthStatus = "anonymous"
	StatusPending       AuthStatus = "pending"
	StatusAuthenticated AuthStatus = "authenticated"
)

// AuthState is the in-memory, UI-facing projection of the machine. It is
// derived from the current session and in-flight operation status and is
// never persisted directly. Values are immutable: transitions return a new
// state.
type AuthState struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	User            *User  `json:"user,omitempty"`
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
}

// Status derives the machine position from the projection.
func (s AuthState) Status() AuthStatus {
	switch {
	case s.Loading:
		return StatusPending
	case s.IsAuthenticated:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Pending marks an operation in flight. The previous error is cleared; an
// authenticated user stays visible while the operation runs.
func (s AuthState) Pending() AuthState {
	return AuthState{
		IsAuthenticated: s.IsAuthenticated,
		User:            s.User,
		Loading:         true,
	}
}

// Authenticated settles a successful operation.
func (AuthState) Authenticated(user *User) AuthState {
	return AuthState{
		IsAuthenticated: true,
		User:            user,
	}
}

// Failed settles a failed operation: Anonymous with the displayable message.
func (AuthState) Failed(message string) AuthState {
	return AuthState{
		Error: message,
	}
}

// Anonymous clears everything, including the last error.
func (AuthState) Anonymous() AuthState {
	return AuthState{}
}
