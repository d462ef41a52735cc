package security

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher is the default password hashing collaborator.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UUIDTokenGenerator issues opaque verification tokens.
type UUIDTokenGenerator struct{}

func NewUUIDTokenGenerator() *UUIDTokenGenerator { return &UUIDTokenGenerator{} }

func (UUIDTokenGenerator) NewToken() string { return uuid.NewString() }
