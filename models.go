package authcore

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAnalista is the default role assigned at registration (i.e. view, analyze)
	RoleAnalista UserRole = "analista"
	// RoleAdmin manages users and credentials (i.e. view, analyze, manage)
	RoleAdmin UserRole = "admin"
	// RoleUser is a plain account (i.e. view)
	RoleUser UserRole = "user"
)

// AuthMethod tags how a session was established.
type AuthMethod string

const (
	MethodPassword AuthMethod = "password"
	MethodFacial   AuthMethod = "facial"
	MethodQR       AuthMethod = "qr"
)

// UserIDPrefix is the fixed prefix of generated user identifiers.
const UserIDPrefix = "AV"

// User is a persisted identity record. The plaintext secret never appears
// here: PasswordHash is its only stored representation.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Birthdate    string   `json:"birthdate,omitempty"`
	Nickname     string   `json:"nickname,omitempty"`
	Role         UserRole `json:"role,omitempty"`
	PasswordHash string   `json:"password_hash,omitempty"`

	// Derived media captured during onboarding. Data-URL strings, opaque to
	// this package.
	OriginalPhoto  string `json:"original_photo,omitempty"`
	ProcessedPhoto string `json:"processed_photo,omitempty"`
	FaceData       string `json:"face_data,omitempty"`
	QRCode         string `json:"qr_code,omitempty"`

	Notifications bool   `json:"notifications"`
	RegisteredAt  string `json:"registered_at,omitempty"`
}

// EnsureRole backfills the default role on records persisted without one.
func (u *User) EnsureRole() {
	if u.Role == "" {
		u.Role = RoleAnalista
	}
}

// UserUpdate carries a partial update: nil fields are left untouched.
type UserUpdate struct {
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Birthdate      *string   `json:"birthdate,omitempty"`
	Nickname       *string   `json:"nickname,omitempty"`
	Role           *UserRole `json:"role,omitempty"`
	PasswordHash   *string   `json:"password_hash,omitempty"`
	OriginalPhoto  *string   `json:"original_photo,omitempty"`
	ProcessedPhoto *string   `json:"processed_photo,omitempty"`
	FaceData       *string   `json:"face_data,omitempty"`
	QRCode         *string   `json:"qr_code,omitempty"`
	Notifications  *bool     `json:"notifications,omitempty"`
}

func (p UserUpdate) apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Birthdate != nil {
		u.Birthdate = *p.Birthdate
	}
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.OriginalPhoto != nil {
		u.OriginalPhoto = *p.OriginalPhoto
	}
	if p.ProcessedPhoto != nil {
		u.ProcessedPhoto = *p.ProcessedPhoto
	}
	if p.FaceData != nil {
		u.FaceData = *p.FaceData
	}
	if p.QRCode != nil {
		u.QRCode = *p.QRCode
	}
	if p.Notifications != nil {
		u.Notifications = *p.Notifications
	}
}

// NewUserID generates an identifier of the form AV_<unix-millis>_<random>.
func NewUserID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", UserIDPrefix, now.UnixMilli(), random)
}

// Session is the ephemeral proof of authentication. It owns a snapshot of
// the user it references: deleting the session never touches the user record.
type Session struct {
	User      *User      `json:"user,omitempty"`
	Token     string     `json:"token,omitempty"`
	Method    AuthMethod `json:"login_method,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Valid reports whether the session has not yet expired.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.User == nil {
		return false
	}
	return s.ExpiresAt.After(now)
}
