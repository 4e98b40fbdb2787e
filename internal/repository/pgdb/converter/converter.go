package converter

import (
	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func NewProductConverter() ProductConverter {
	return ProductConverter{}
}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:        entity.ID,
		UserID:    entity.UserID,
		SKU:       entity.SKU,
		Name:      entity.Name,
		Category:  entity.Category,
		Price:     entity.Price,
		Cost:      entity.Cost,
		Stock:     entity.Stock,
		ImageKey:  entity.ImageKey,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        model.ID,
		UserID:    model.UserID,
		SKU:       model.SKU,
		Name:      model.Name,
		Category:  model.Category,
		Price:     model.Price,
		Cost:      model.Cost,
		Stock:     model.Stock,
		ImageKey:  model.ImageKey,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// SaleConverter преобразует сущности Sale/SaleItem между domain и моделями PostgreSQL.
type SaleConverter struct{}

func NewSaleConverter() SaleConverter {
	return SaleConverter{}
}

func (SaleConverter) ToModel(entity *domain.Sale) *SaleModel {
	return &SaleModel{
		ID:        entity.ID,
		UserID:    entity.UserID,
		Total:     entity.Total,
		Cost:      entity.Cost,
		CreatedAt: entity.CreatedAt,
	}
}

func (SaleConverter) ToEntity(model *SaleModel) *domain.Sale {
	return &domain.Sale{
		ID:        model.ID,
		UserID:    model.UserID,
		Total:     model.Total,
		Cost:      model.Cost,
		CreatedAt: model.CreatedAt,
	}
}

func (SaleConverter) ItemToModel(entity *domain.SaleItem) *SaleItemModel {
	return &SaleItemModel{
		ID:        entity.ID,
		SaleID:    entity.SaleID,
		ProductID: entity.ProductID,
		Quantity:  entity.Quantity,
		Subtotal:  entity.Subtotal,
		CostTotal: entity.CostTotal,
	}
}

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
type UserConverter struct{}

func NewUserConverter() UserConverter {
	return UserConverter{}
}

func (UserConverter) ToModel(entity *domain.User) *UserModel {
	return &UserModel{
		ID:           entity.ID,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		CreatedAt:    entity.CreatedAt,
	}
}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
	}
}

// OutboxEventConverter преобразует события outbox между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return OutboxEventConverter{}
}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		SaleID:      entity.SaleID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		SaleID:      model.SaleID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
