package auth

import (
	"testing"
	"time"

	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAuthCfg() *cfg.AuthCfg {
	return &cfg.AuthCfg{
		JWTSecret:  []byte("test-secret-at-least-32-bytes-long"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := NewTokenManager(testAuthCfg())

	token, err := tm.Issue(42, "owner@shop.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	tm := NewTokenManager(testAuthCfg())
	other := NewTokenManager(&cfg.AuthCfg{JWTSecret: []byte("another-secret"), TokenTTL: time.Hour})

	token, err := other.Issue(42, "owner@shop.com")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	require.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager(testAuthCfg())
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.Issue(42, "owner@shop.com")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(token)
	require.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testAuthCfg())

	_, err := tm.Parse("not.a.token")
	require.ErrorIs(t, err, e.ErrUnauthorized)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(testAuthCfg())

	hash, err := h.Hash("secret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", hash)

	require.NoError(t, h.Compare(hash, "secret-pass"))
	require.Error(t, h.Compare(hash, "wrong-pass"))
}

func TestBcryptHasher_ClampsInvalidCost(t *testing.T) {
	h := NewBcryptHasher(&cfg.AuthCfg{BcryptCost: 99})
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
