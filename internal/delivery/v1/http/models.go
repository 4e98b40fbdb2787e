package http

import (
	"time"

	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// Денежные значения на границе HTTP представлены десятичными строками
// ("12.34"); внутри системы всё считается в целых центах.

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

type ProductRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int64           `json:"stock"`
}

type ProductResponse struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Cost     string `json:"cost"`
	Stock    int64  `json:"stock"`
	ImageKey string `json:"image_key,omitempty"`
}

type UploadImageResponse struct {
	ImageKey string `json:"image_key"`
}

type SaleLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CommitSaleRequest struct {
	Items []SaleLineRequest `json:"items"`
}

type CommitSaleResponse struct {
	SaleID int64  `json:"sale_id"`
	Total  string `json:"total"`
}

type SaleItemResponse struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	UnitCost    string `json:"unit_cost"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
	CostTotal   string `json:"cost_total"`
}

type SaleResponse struct {
	ID        int64              `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Total     string             `json:"total"`
	Cost      string             `json:"cost"`
	Profit    string             `json:"profit"`
	Items     []SaleItemResponse `json:"items"`
}

func NewProductResponse(info *usecase.ProductInfo) *ProductResponse {
	return &ProductResponse{
		ID:       info.ID,
		SKU:      info.SKU,
		Name:     info.Name,
		Category: info.Category,
		Price:    formatCents(info.Price),
		Cost:     formatCents(info.Cost),
		Stock:    info.Stock,
		ImageKey: info.ImageKey,
	}
}

func NewSaleResponse(view *usecase.SaleView) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   formatCents(item.UnitPrice),
			UnitCost:    formatCents(item.UnitCost),
			Quantity:    item.Quantity,
			Subtotal:    formatCents(item.Subtotal),
			CostTotal:   formatCents(item.CostTotal),
		})
	}

	return &SaleResponse{
		ID:        view.ID,
		CreatedAt: view.CreatedAt,
		Total:     formatCents(view.Total),
		Cost:      formatCents(view.Cost),
		Profit:    formatCents(view.Profit),
		Items:     items,
	}
}
