package credential_test

import (
	"strings"
	"testing"

	"storefront/pkg/credential"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptCodec_HashAndVerify(t *testing.T) {
	codec := credential.NewBcryptCodec(bcrypt.MinCost)

	digest, err := codec.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", digest)

	assert.True(t, codec.Verify("password123", digest))
	assert.False(t, codec.Verify("wrongpassword", digest))
	assert.False(t, codec.Verify("", digest))
}

func TestBcryptCodec_SaltsEachDigest(t *testing.T) {
	codec := credential.NewBcryptCodec(bcrypt.MinCost)

	first, err := codec.Hash("password123")
	require.NoError(t, err)
	second, err := codec.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, codec.Verify("password123", first))
	assert.True(t, codec.Verify("password123", second))
}

func TestBcryptCodec_MalformedDigest(t *testing.T) {
	codec := credential.NewBcryptCodec(bcrypt.MinCost)
	assert.False(t, codec.Verify("password123", "not-a-bcrypt-digest"))
	assert.False(t, codec.Verify("password123", ""))
}

func TestNewBcryptCodec_OutOfRangeCost(t *testing.T) {
	codec := credential.NewBcryptCodec(100)

	digest, err := codec.Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptCodec_PasswordTooLong(t *testing.T) {
	codec := credential.NewBcryptCodec(bcrypt.MinCost)

	digest, err := codec.Hash(strings.Repeat("a", credential.MaxPasswordBytes+1))
	assert.Empty(t, digest)
	assert.ErrorIs(t, err, credential.ErrPasswordTooLong)

	longest := strings.Repeat("a", credential.MaxPasswordBytes)
	digest, err = codec.Hash(longest)
	require.NoError(t, err)
	assert.True(t, codec.Verify(longest, digest))
}
