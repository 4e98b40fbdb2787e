package auth

import (
	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher реализует хэширование паролей через bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cfg *cfg.AuthCfg) *BcryptHasher {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

func (b *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (b *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
