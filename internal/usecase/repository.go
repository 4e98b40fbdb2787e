package usecase

import (
	"context"

	"github.com/DRSN-tech/pos-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, userID, productID int64) (*domain.Product, error)
	List(ctx context.Context, userID int64) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, userID, productID int64) error
	SetImageKey(ctx context.Context, userID, productID int64, key string) error

	// GetForUpdate и DecrementStock работают только внутри транзакции,
	// переданной через контекст (pkg/tr).
	GetForUpdate(ctx context.Context, userID, productID int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID, quantity int64) error
}

type SaleRepository interface {
	// CreateSale вставляет продажу вместе с позициями. Требует транзакции в контексте.
	CreateSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) (*domain.Sale, error)
	GetSale(ctx context.Context, userID, saleID int64) (*SaleRow, error)
	ListSales(ctx context.Context, userID int64) ([]SaleRow, error)
}

type OutboxRepository interface {
	// Create вставляет событие в рамках транзакции из контекста.
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе кэша.
	GetProduct(ctx context.Context, userID, productID int64) (*ProductInfo, error)
	SetProduct(ctx context.Context, userID int64, info *ProductInfo) error
	DeleteProducts(ctx context.Context, userID int64, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
