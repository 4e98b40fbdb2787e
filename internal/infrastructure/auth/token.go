package auth

import (
	"fmt"
	"time"

	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager выпускает и проверяет HS256 JWT с идентификатором владельца.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg *cfg.AuthCfg) *TokenManager {
	return &TokenManager{
		secret: cfg.JWTSecret,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
}

// Issue выпускает токен с user_id и сроком действия.
func (t *TokenManager) Issue(userID int64, email string) (string, error) {
	const op = "TokenManager.Issue"

	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return signed, nil
}

// Parse проверяет подпись и срок действия, возвращает идентификатор владельца.
func (t *TokenManager) Parse(tokenString string) (int64, error) {
	const op = "TokenManager.Parse"

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, e.Wrap(op, e.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, e.Wrap(op, e.ErrUnauthorized)
	}

	// Числовые claims после разбора JSON приходят как float64
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, e.Wrap(op, e.ErrUnauthorized)
	}

	return int64(rawID), nil
}
