package converter

import (
	"github.com/DRSN-tech/pos-backend/internal/usecase"
)

// ProductInfoConverter преобразует продукты между usecase и моделью Redis.
type ProductInfoConverter struct{}

func NewProductInfoConverter() ProductInfoConverter {
	return ProductInfoConverter{}
}

func (ProductInfoConverter) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:       entity.ID,
		SKU:      entity.SKU,
		Name:     entity.Name,
		Category: entity.Category,
		Price:    entity.Price,
		Cost:     entity.Cost,
		Stock:    entity.Stock,
		ImageKey: entity.ImageKey,
	}
}

func (ProductInfoConverter) ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	return &usecase.ProductInfo{
		ID:       model.ID,
		SKU:      model.SKU,
		Name:     model.Name,
		Category: model.Category,
		Price:    model.Price,
		Cost:     model.Cost,
		Stock:    model.Stock,
		ImageKey: model.ImageKey,
	}
}
