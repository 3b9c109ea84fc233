// Package credential hashes and verifies user passwords.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest plaintext bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for plaintexts over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password too long")

// Codec turns plaintext passwords into digests and checks them back.
// Hash fails with ErrPasswordTooLong for plaintexts over MaxPasswordBytes.
type Codec interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptCodec is a Codec backed by bcrypt.
type BcryptCodec struct {
	cost int
}

// NewBcryptCodec creates a BcryptCodec. Costs outside bcrypt's accepted
// range fall back to bcrypt.DefaultCost.
func NewBcryptCodec(cost int) *BcryptCodec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodec{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (c *BcryptCodec) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest never matches.
func (c *BcryptCodec) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
