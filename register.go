package authcore

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse phone numbers given
// without a country prefix.
var DefaultPhoneRegion = "ES"

// FaceDataPlaceholder stands in for a real biometric profile until a
// matcher backend exists.
const FaceDataPlaceholder = "simulated-face-profile"

// RegisterPayload carries the registration form fields. The core Register
// operation accepts any payload; Validate is for boundary surfaces that
// want to reject malformed input before reaching the core.
type RegisterPayload struct {
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	Birthdate     string `json:"birthdate" form:"birthdate"`
	Nickname      string `json:"nickname" form:"nickname"`
	Password      string `json:"password" form:"password"`
	Notifications bool   `json:"notifications" form:"notifications"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Nickname, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Birthdate, validation.Date("2006-01-02")),
	)
}

// NormalizePhone formats a raw phone number to E.164. Best effort: input
// that cannot be parsed is returned untouched, never an error, so
// registration stays infallible.
func NormalizePhone(raw string) string {
	if raw == "" {
		return raw
	}

	parsed, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}

	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// NewQRPayload derives the user's stable QR-code payload from their email.
func NewQRPayload(email string) string {
	if id, err := hashid.NewUUID(email); err == nil {
		return fmt.Sprintf("%s-QR:%s", UserIDPrefix, id.String())
	}
	return fmt.Sprintf("%s-QR:%s", UserIDPrefix, email)
}
