package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier with bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare returns nil only when password matches hashedPassword.
func (BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
