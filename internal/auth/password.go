package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rodrymza/app-novedades/internal/domain"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned when a password exceeds MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// CredentialManager hashes and verifies passwords with bcrypt.
type CredentialManager struct {
	cost      int
	dummyHash []byte
}

// NewCredentialManager builds a manager; out of range costs fall back to bcrypt.DefaultCost.
func NewCredentialManager(cost int) *CredentialManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("novedades-dummy-password"), cost)
	return &CredentialManager{cost: cost, dummyHash: dummy}
}

// HashPassword hashes a plaintext password with a fresh salt.
func (m *CredentialManager) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches hashed. Malformed or empty hashes fail closed.
func (m *CredentialManager) VerifyPassword(plain, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// BurnComparison spends the same effort as a real verification. Used when the account
// does not exist so both failure paths cost the same.
func (m *CredentialManager) BurnComparison(plain string) {
	_ = bcrypt.CompareHashAndPassword(m.dummyHash, []byte(plain))
}

// ResetPasswordToDocument overwrites the user's hash with one derived from their document.
func (m *CredentialManager) ResetPasswordToDocument(user *domain.User) error {
	if user == nil || user.Document == "" {
		return errors.New("user has no document")
	}
	hash, err := m.HashPassword(user.Document)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}
