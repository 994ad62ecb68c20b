package authcore

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	textCodeNoUsersForBiometric = "NO_USERS_FOR_BIOMETRIC"
	textCodeInvalidQR           = "INVALID_QR"
	textCodeRegistrationFailed  = "REGISTRATION_FAILED"
	textCodeSessionExpired      = "SESSION_EXPIRED"
	textCodeSessionInvalid      = "SESSION_INVALID"
	textCodeKeyNotFound         = "KEY_NOT_FOUND"
)

// User-facing messages surfaced through AuthState.Error. The product ships
// a Spanish UI, so these stay in Spanish.
const (
	MsgInvalidCredentials  = "Credenciales incorrectas"
	MsgNoUsersForBiometric = "No hay usuarios registrados"
	MsgInvalidQR           = "Código QR no válido"
	MsgRegistrationFailed  = "Error al registrar el usuario"
	MsgGenericFailure      = "Error al procesar la solicitud"
)

// ErrInvalidCredentials is returned when the identifier/password pair does
// not match a stored user.
var ErrInvalidCredentials = goerrors.New(MsgInvalidCredentials, goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoUsersForBiometric is returned by the facial flow when the store is empty.
var ErrNoUsersForBiometric = goerrors.New(MsgNoUsersForBiometric, goerrors.CategoryNotFound).
	WithTextCode(textCodeNoUsersForBiometric).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidQR is returned by the QR flow when no user can be matched.
var ErrInvalidQR = goerrors.New(MsgInvalidQR, goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidQR).
	WithCode(goerrors.CodeUnauthorized)

// ErrRegistrationFailed wraps unexpected internal failures during Register.
var ErrRegistrationFailed = goerrors.New(MsgRegistrationFailed, goerrors.CategoryInternal).
	WithTextCode(textCodeRegistrationFailed)

// ErrSessionExpired marks a stored session whose expiry is in the past. It is
// internal only: callers see a clean Anonymous state, never this message.
var ErrSessionExpired = goerrors.New("session expired", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionInvalid marks a stored session payload that cannot be decoded.
var ErrSessionInvalid = goerrors.New("session payload invalid", goerrors.CategoryBadInput).
	WithTextCode(textCodeSessionInvalid).
	WithCode(goerrors.CodeBadRequest)

// ErrKeyNotFound is the sentinel returned by Storage backends for absent slots.
var ErrKeyNotFound = goerrors.New("storage key not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeKeyNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrNoEmptyString rejects empty secrets handed to a hasher.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_STRING").
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a secret does not match its digest.
var ErrMismatchedHashAndPassword = goerrors.New("mismatched password and digest", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail validation for any
// reason other than expiry.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryBadInput).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeBadRequest)

// IsKeyNotFound reports whether err is the storage absence sentinel.
func IsKeyNotFound(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == textCodeKeyNotFound
	}
	return false
}

// IsSessionExpired reports whether err marks an expired stored session.
func IsSessionExpired(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == textCodeSessionExpired
	}
	return false
}

// UserMessage extracts the displayable message for an expected domain
// failure. Unexpected errors degrade to a generic message so internals are
// never shown to the UI.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.TextCode {
		case textCodeInvalidCredentials,
			textCodeNoUsersForBiometric,
			textCodeInvalidQR,
			textCodeRegistrationFailed:
			return rich.Message
		}
	}
	return MsgGenericFailure
}
