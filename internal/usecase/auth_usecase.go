package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
)

const minPasswordLen = 8

// AuthUseCase реализует регистрацию и вход владельцев.
type AuthUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	tokens   TokenManager
	logger   logger.Logger
}

func NewAuthUC(userRepo UserRepository, hasher PasswordHasher, tokens TokenManager, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register создаёт новую учётную запись с захэшированным паролем.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*UserInfo, error) {
	const op = "AuthUseCase.Register"

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateCredentials(email, req.Password); err != nil {
		return nil, e.Wrap(op, err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(email, hash))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewUserInfo(user.ID, user.Email), nil
}

// Login проверяет пароль и выпускает токен доступа.
// Несуществующий email и неверный пароль неразличимы для вызывающего.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*LoginRes, error) {
	const op = "AuthUseCase.Login"

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := a.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	token, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &LoginRes{
		Token:  token,
		UserID: user.ID,
		Email:  user.Email,
	}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return e.ErrEmailRequired
	}

	if len(password) < minPasswordLen {
		return e.ErrPasswordTooShort
	}

	return nil
}
