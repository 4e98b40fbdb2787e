package usecase

import "time"

// AUTH

type RegisterReq struct {
	Email    string
	Password string
}

type LoginReq struct {
	Email    string
	Password string
}

type LoginRes struct {
	Token  string
	UserID int64
	Email  string
}

// UserInfo — DTO с публичными данными учётной записи.
type UserInfo struct {
	ID    int64
	Email string
}

// PRODUCT

// CreateProductReq — запрос на создание товара. Денежные поля в центах.
type CreateProductReq struct {
	UserID   int64
	SKU      string
	Name     string
	Category string
	Price    int64
	Cost     int64
	Stock    int64
}

type UpdateProductReq struct {
	UserID    int64
	ProductID int64
	SKU       string
	Name      string
	Category  string
	Price     int64
	Cost      int64
	Stock     int64
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID       int64
	SKU      string
	Name     string
	Category string
	Price    int64
	Cost     int64
	Stock    int64
	ImageKey string
}

// UploadImageReq — запрос на загрузку изображения товара.
type UploadImageReq struct {
	UserID    int64
	ProductID int64
	Data      []byte
	MimeType  string
	Size      int64
	Name      string
}

// SALE

// SaleLine — одна запрошенная позиция продажи.
type SaleLine struct {
	ProductID int64
	Quantity  int64
}

type CommitSaleReq struct {
	UserID int64
	Items  []SaleLine
}

type CommitSaleRes struct {
	SaleID int64
	Total  int64
}

// SaleItemRow — сырая строка позиции из хранилища. ProductName уже
// разрешён на стороне SQL ('N/A', если товар удалён).
type SaleItemRow struct {
	ProductID   int64
	ProductName string
	Quantity    int64
	Subtotal    int64
	CostTotal   int64
}

// SaleRow — сырая продажа из хранилища, до обогащения.
type SaleRow struct {
	ID        int64
	CreatedAt time.Time
	Total     int64
	Cost      int64
	UserID    int64
	Items     []SaleItemRow
}

// SaleItemView — позиция продажи, готовая к отображению.
type SaleItemView struct {
	ProductID   int64
	ProductName string
	UnitPrice   int64
	UnitCost    int64
	Quantity    int64
	Subtotal    int64
	CostTotal   int64
}

// SaleView — отображаемое представление продажи. Profit вычисляется
// при каждом чтении и не хранится.
type SaleView struct {
	ID        int64
	CreatedAt time.Time
	Total     int64
	Cost      int64
	Profit    int64
	Items     []SaleItemView
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	SaleCommitted OutboxEventType = "sale.committed"
)

type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	SaleID      int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SaleCommittedPayload — тело события sale.committed, сериализуется в JSON.
type SaleCommittedPayload struct {
	EventID     string                  `json:"event_id"`
	SaleID      int64                   `json:"sale_id"`
	UserID      int64                   `json:"user_id"`
	Total       int64                   `json:"total_cents"`
	Cost        int64                   `json:"cost_cents"`
	CommittedAt time.Time               `json:"committed_at"`
	Items       []SaleCommittedLineItem `json:"items"`
}

type SaleCommittedLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Subtotal  int64 `json:"subtotal_cents"`
	CostTotal int64 `json:"cost_total_cents"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	SaleID  int64
	Payload []byte
}

// MAPPERS

func NewRegisterReq(email, password string) *RegisterReq {
	return &RegisterReq{Email: email, Password: password}
}

func NewLoginReq(email, password string) *LoginReq {
	return &LoginReq{Email: email, Password: password}
}

func NewUserInfo(id int64, email string) *UserInfo {
	return &UserInfo{ID: id, Email: email}
}

func NewProductInfo(id int64, sku, name, category string, price, cost, stock int64, imageKey string) *ProductInfo {
	return &ProductInfo{
		ID:       id,
		SKU:      sku,
		Name:     name,
		Category: category,
		Price:    price,
		Cost:     cost,
		Stock:    stock,
		ImageKey: imageKey,
	}
}

func NewCommitSaleReq(userID int64, items []SaleLine) *CommitSaleReq {
	return &CommitSaleReq{UserID: userID, Items: items}
}

func NewCommitSaleRes(saleID, total int64) *CommitSaleRes {
	return &CommitSaleRes{SaleID: saleID, Total: total}
}

func NewWriteRawMessageReq(saleID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{SaleID: saleID, Payload: payload}
}
