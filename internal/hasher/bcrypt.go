// Package hasher provides one-way salted hashing of secrets such as
// passwords and card PINs.
package hasher

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashFormatError reports a digest that is not a structurally valid bcrypt hash.
type HashFormatError struct {
	Err error
}

func (e *HashFormatError) Error() string {
	return fmt.Sprintf("malformed hash: %v", e.Err)
}

func (e *HashFormatError) Unwrap() error {
	return e.Err
}

// BcryptHasher hashes and verifies secrets with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using bcrypt.DefaultCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewBcryptHasherWithCost returns a hasher with the given work factor.
// Values outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// prehash maps a secret of any length to a fixed 44-byte input, keeping it
// under bcrypt's 72-byte limit.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// Hash returns a salted bcrypt digest of secret. Two calls with the same
// secret yield different digests. Secrets of any length are accepted.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(b), nil
}

// Verify reports whether secret matches digest. A mismatch is not an error;
// a digest bcrypt cannot parse yields a *HashFormatError.
func (h *BcryptHasher) Verify(secret, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), prehash(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	var (
		prefixErr  bcrypt.InvalidHashPrefixError
		costErr    bcrypt.InvalidCostError
		versionErr bcrypt.HashVersionTooNewError
	)
	if errors.Is(err, bcrypt.ErrHashTooShort) ||
		errors.As(err, &prefixErr) ||
		errors.As(err, &costErr) ||
		errors.As(err, &versionErr) {
		return false, &HashFormatError{Err: err}
	}
	// Anything else (e.g. a corrupt salt) still means the secret did not match.
	return false, nil
}
