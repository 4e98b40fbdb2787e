package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse переводит доменную ошибку в HTTP-статус: ошибки валидации в
// 400, авторизации в 401, отсутствия в 404, конфликты (нехватка остатка,
// дубликаты) в 409, всё остальное в 500 без деталей.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest),
		errors.Is(err, e.ErrExpectedMultipart),
		errors.Is(err, e.ErrMissingFields),
		errors.Is(err, e.ErrSKURequired),
		errors.Is(err, e.ErrProductNameRequired),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrNegativeStock),
		errors.Is(err, e.ErrEmptyItems),
		errors.Is(err, e.ErrInvalidQuantity),
		errors.Is(err, e.ErrEmailRequired),
		errors.Is(err, e.ErrPasswordTooShort),
		errors.Is(err, e.ErrNoImage),
		errors.Is(err, e.ErrUnsupportedMediaType),
		errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, e.ErrUnauthorized),
		errors.Is(err, e.ErrInvalidCredentials):
		return http.StatusUnauthorized, rootMessage(err)
	case errors.Is(err, e.ErrProductNotFound),
		errors.Is(err, e.ErrSaleNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, e.ErrInsufficientStock),
		errors.Is(err, e.ErrEmailTaken),
		errors.Is(err, e.ErrSKUTaken):
		return http.StatusConflict, rootMessage(err)
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// rootMessage достаёт последнюю ошибку из цепочки обёрток, чтобы не
// отдавать клиенту пути исходников из whereami. Привязка к виновному
// продукту (e.ProductError) при этом сохраняется.
func rootMessage(err error) string {
	var productErr *e.ProductError
	if errors.As(err, &productErr) {
		return fmt.Sprintf("product %d: %s", productErr.ProductID, rootMessage(productErr.Err))
	}

	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseMoneyToCents переводит денежную величину из JSON ("599.99" или 600)
// в int64 центы. Больше двух знаков после запятой, отрицательные значения
// и суммы свыше миллиарда отклоняются.
func parseMoneyToCents(d decimal.Decimal) (int64, error) {
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// formatCents форматирует центы в строку с двумя знаками: 1234 -> "12.34".
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
