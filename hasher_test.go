package authcore_test

import (
	"testing"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256HasherHash(t *testing.T) {
	hasher := authcore.SHA256Hasher{}

	tests := []struct {
		name   string
		secret string
	}{
		{
			name:   "Valid secret",
			secret: "Secr3t!",
		},
		{
			// the store is permissive, so empty passwords hash too
			name:   "Empty secret",
			secret: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := hasher.Hash(tt.secret)

			assert.NoError(t, err)
			assert.Len(t, digest, 64)
			assert.True(t, hasher.Matches(tt.secret, digest))
		})
	}
}

func TestSHA256HasherIsDeterministic(t *testing.T) {
	hasher := authcore.SHA256Hasher{}

	first, err := hasher.Hash("Secr3t!")
	require.NoError(t, err)
	second, err := hasher.Hash("Secr3t!")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSHA256HasherMatches(t *testing.T) {
	hasher := authcore.SHA256Hasher{}
	digest, err := hasher.Hash("testPassword123!")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		digest string
		want   bool
	}{
		{
			name:   "Matching secret",
			secret: "testPassword123!",
			digest: digest,
			want:   true,
		},
		{
			name:   "Wrong secret",
			secret: "wrongPassword",
			digest: digest,
			want:   false,
		},
		{
			name:   "Garbage digest",
			secret: "testPassword123!",
			digest: "notahexdigest",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Matches(tt.secret, tt.digest))
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := authcore.BcryptHasher{Cost: 4}

	digest, err := hasher.Hash("securePassword123!")
	require.NoError(t, err)
	assert.NotEmpty(t, digest)

	// salted: two hashes of the same secret differ
	second, err := hasher.Hash("securePassword123!")
	require.NoError(t, err)
	assert.NotEqual(t, digest, second)

	assert.True(t, hasher.Matches("securePassword123!", digest))
	assert.False(t, hasher.Matches("wrongPassword", digest))

	_, err = hasher.Hash("")
	assert.Error(t, err)
}

func TestCompareSecretAndDigest(t *testing.T) {
	hasher := authcore.SHA256Hasher{}
	digest, err := hasher.Hash("Secr3t!")
	require.NoError(t, err)

	assert.NoError(t, authcore.CompareSecretAndDigest(hasher, "Secr3t!", digest))
	assert.Equal(t, authcore.ErrMismatchedHashAndPassword, authcore.CompareSecretAndDigest(hasher, "nope", digest))
}

func TestRandomPasswordHash(t *testing.T) {
	hash1 := authcore.RandomPasswordHash(authcore.SHA256Hasher{})
	hash2 := authcore.RandomPasswordHash(authcore.SHA256Hasher{})

	assert.NotEmpty(t, hash1)
	assert.NotEmpty(t, hash2)
	assert.NotEqual(t, hash1, hash2)
}
