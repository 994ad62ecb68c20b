package authcore

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SHA256Hasher is the default CredentialHasher: a deterministic, unsalted
// hex-encoded SHA-256 digest over the UTF-8 bytes of the secret. Digests are
// stable across processes, which the credential comparison contract relies
// on. Use BcryptHasher where salted hashes are preferred.
type SHA256Hasher struct{}

var _ CredentialHasher = SHA256Hasher{}

// Hash returns the hex SHA-256 digest of secret. Empty secrets are hashed
// like any other: registration accepts whatever the form submits.
func (SHA256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

// Matches reports whether secret hashes to digest.
func (h SHA256Hasher) Matches(secret, digest string) bool {
	computed, err := h.Hash(secret)
	if err != nil {
		return false
	}
	return computed == digest
}

// BcryptHasher is a salted CredentialHasher. Digests are not deterministic,
// so it cannot back flows that compare raw digest strings.
type BcryptHasher struct {
	// Cost defaults to 14 when zero.
	Cost int
}

var _ CredentialHasher = BcryptHasher{}

func (b BcryptHasher) cost() int {
	if b.Cost > 0 {
		return b.Cost
	}
	return 14
}

// Hash will generate a password hash
func (b BcryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost())
	return string(h), err
}

// Matches will validate the given cleartext secret against the hashed digest
func (BcryptHasher) Matches(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// CompareSecretAndDigest is the error-returning variant of Matches.
func CompareSecretAndDigest(hasher CredentialHasher, secret, digest string) error {
	if !hasher.Matches(secret, digest) {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash is a temporary password digest.
func RandomPasswordHash(hasher CredentialHasher) string {
	pwd := uuid.New()

	h, err := hasher.Hash(pwd.String())
	if err != nil {
		return RandomPasswordHash(hasher)
	}

	return h
}
