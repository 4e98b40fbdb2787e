package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/internal/infrastructure"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
	"github.com/google/uuid"
)

// ProductUseCase реализует управление каталогом товаров владельца.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	imageRepo   ImageRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		imageRepo:   imageRepo,
		logger:      logger,
	}
}

// CreateProduct добавляет новый товар в каталог владельца.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := validateProductFields(req.SKU, req.Name, req.Price, req.Cost, req.Stock); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(
		req.UserID, req.SKU, req.Name, req.Category, req.Price, req.Cost, req.Stock,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return toProductInfo(product), nil
}

// GetProduct возвращает товар владельца, сначала заглядывая в кэш.
func (p *ProductUseCase) GetProduct(ctx context.Context, userID, productID int64) (*ProductInfo, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, userID, productID)
	if err != nil {
		p.logger.Warnf("Product cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, userID, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := toProductInfo(product)

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, userID, info); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return info, nil
}

// ListProducts возвращает все товары владельца.
func (p *ProductUseCase) ListProducts(ctx context.Context, userID int64) ([]ProductInfo, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductInfo, 0, len(products))
	for i := range products {
		result = append(result, *toProductInfo(&products[i]))
	}

	return result, nil
}

// UpdateProduct полностью обновляет товар владельца.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := validateProductFields(req.SKU, req.Name, req.Price, req.Cost, req.Stock); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.UserID, req.SKU, req.Name, req.Category, req.Price, req.Cost, req.Stock)
	product.ID = req.ProductID

	product, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateProduct(req.UserID, req.ProductID)

	return toProductInfo(product), nil
}

// DeleteProduct удаляет товар владельца. Исторические продажи при этом не
// меняются: позиции хранят снимок цены и мягкую ссылку на товар.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, userID, productID int64) error {
	const op = "ProductUseCase.DeleteProduct"

	product, err := p.productRepo.GetByID(ctx, userID, productID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.Delete(ctx, userID, productID); err != nil {
		return e.Wrap(op, err)
	}

	if product.ImageKey != "" {
		if err := p.imageRepo.Delete(ctx, product.ImageKey); err != nil {
			p.logger.Warnf("Failed to delete product image %s: %v", product.ImageKey, err)
		}
	}

	p.invalidateProduct(userID, productID)

	return nil
}

// UploadProductImage сохраняет изображение товара в MinIO и привязывает
// ключ объекта к товару. Возвращает ключ загруженного объекта.
func (p *ProductUseCase) UploadProductImage(ctx context.Context, req *UploadImageReq) (string, error) {
	const op = "ProductUseCase.UploadProductImage"

	if len(req.Data) == 0 {
		return "", e.Wrap(op, e.ErrNoImage)
	}

	ext, err := infrastructure.GetExtensionFromMIME(req.MimeType)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	product, err := p.productRepo.GetByID(ctx, req.UserID, req.ProductID)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	imageID := uuid.NewString()
	objKey := fmt.Sprintf("%d/%d-%s.%s", req.UserID, req.ProductID, imageID, ext)
	image := domain.NewImage(imageID, objKey, req.Data, req.Size, req.MimeType)

	key, err := p.imageRepo.Upload(ctx, image)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if err := p.productRepo.SetImageKey(ctx, req.UserID, req.ProductID, key); err != nil {
		// Привязка не удалась — подчищаем осиротевший объект
		if cleanupErr := p.imageRepo.Delete(ctx, key); cleanupErr != nil {
			p.logger.Warnf("Failed to clean up orphaned image %s: %v", key, cleanupErr)
		}
		return "", e.Wrap(op, err)
	}

	if product.ImageKey != "" && product.ImageKey != key {
		if err := p.imageRepo.Delete(ctx, product.ImageKey); err != nil {
			p.logger.Warnf("Failed to delete replaced image %s: %v", product.ImageKey, err)
		}
	}

	p.invalidateProduct(req.UserID, req.ProductID)

	return key, nil
}

// invalidateProduct сбрасывает кэш товара в фоне.
func (p *ProductUseCase) invalidateProduct(userID, productID int64) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.DeleteProducts(bgCtx, userID, []int64{productID}); err != nil {
			p.logger.Warnf("Failed to invalidate product cache: %v", err)
		}
	}()
}

func validateProductFields(sku, name string, price, cost, stock int64) error {
	if strings.TrimSpace(sku) == "" {
		return e.ErrSKURequired
	}

	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if price < 0 || cost < 0 {
		return e.ErrInvalidPrice
	}

	if stock < 0 {
		return e.ErrNegativeStock
	}

	return nil
}

func toProductInfo(product *domain.Product) *ProductInfo {
	return NewProductInfo(
		product.ID,
		product.SKU,
		product.Name,
		product.Category,
		product.Price,
		product.Cost,
		product.Stock,
		product.ImageKey,
	)
}
