package http

import (
	"net/http"

	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// register
//
//	@Summary		Регистрация учётной записи
//	@Description	Создаёт новую учётную запись по email и паролю
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RegisterRequest	true	"Данные учётной записи"
//	@Success		201		{object}	RegisterResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"Email уже занят"
//	@Router			/auth/register [post]
func (a *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	info, err := a.authUsecase.Register(r.Context(), usecase.NewRegisterReq(req.Email, req.Password))
	if err != nil {
		a.logger.Warnf("register failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &RegisterResponse{
		ID:    info.ID,
		Email: info.Email,
	})
}

// login
//
//	@Summary		Вход
//	@Description	Проверяет учётные данные и выдаёт JWT-токен
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Учётные данные"
//	@Success		200		{object}	LoginResponse
//	@Failure		401		{object}	ErrorResponse	"Неверные учётные данные"
//	@Router			/auth/login [post]
func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := a.authUsecase.Login(r.Context(), usecase.NewLoginReq(req.Email, req.Password))
	if err != nil {
		a.logger.Warnf("login failed for %s: %s", req.Email, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &LoginResponse{
		Token:  res.Token,
		UserID: res.UserID,
		Email:  res.Email,
	})
}
