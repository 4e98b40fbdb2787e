package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrSKURequired          = fmt.Errorf("sku is required")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrNegativeStock        = fmt.Errorf("stock must be non-negative")
	ErrEmptyItems           = fmt.Errorf("sale must contain at least one item")
	ErrInvalidQuantity      = fmt.Errorf("quantity must be positive")
	ErrEmailRequired        = fmt.Errorf("email is required")
	ErrPasswordTooShort     = fmt.Errorf("password is too short")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")

	// 401 Unauthorized
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrSaleNotFound    = fmt.Errorf("sale not found")
	ErrUserNotFound    = fmt.Errorf("user not found")

	// 409 Conflict
	ErrInsufficientStock = fmt.Errorf("insufficient stock")
	ErrEmailTaken        = fmt.Errorf("email already registered")
	ErrSKUTaken          = fmt.Errorf("sku already exists")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ProductError привязывает ошибку к виновной позиции. Идентификатор
// продукта доступен программно, поэтому HTTP-слой может сохранить его в
// ответе клиенту, срезав остальные обёртки.
type ProductError struct {
	ProductID int64
	Err       error
}

func (p *ProductError) Error() string {
	return fmt.Sprintf("product %d: %s", p.ProductID, p.Err)
}

func (p *ProductError) Unwrap() error {
	return p.Err
}

// WrapProduct оборачивает ошибку с указанием виновной позиции.
// Нужен при коммите продажи: вызывающий должен видеть, какой продукт провалил запрос.
func WrapProduct(productID int64, err error) error {
	return &ProductError{ProductID: productID, Err: err}
}
