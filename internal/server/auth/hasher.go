// Package auth provides the credential primitives of the server: password
// policy validation, one-way password hashing, and signed identity tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; hashing is deliberately slow to resist brute force.
const bcryptCost = 10

// PasswordHasher provides one-way password hashing and verification.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the password. Hashing the same
	// password twice yields different outputs.
	Hash(password string) (string, error)

	// Verify reports whether the password matches the hash. A malformed
	// hash yields false, never an error.
	Verify(password, hash string) bool
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct{}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify recomputes using the salt embedded in the hash and compares in
// constant time.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
