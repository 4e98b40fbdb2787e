package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	SKU       string     `db:"sku"`
	Name      string     `db:"name"`
	Category  string     `db:"category"`
	Price     int64      `db:"price_cents"`
	Cost      int64      `db:"cost_cents"`
	Stock     int64      `db:"stock"`
	ImageKey  string     `db:"image_key"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// SaleModel представляет запись таблицы sales в PostgreSQL.
type SaleModel struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Total     int64     `db:"total_cents"`
	Cost      int64     `db:"cost_cents"`
	CreatedAt time.Time `db:"created_at"`
}

// SaleItemModel представляет запись таблицы sale_items в PostgreSQL.
type SaleItemModel struct {
	ID        int64 `db:"id"`
	SaleID    int64 `db:"sale_id"`
	ProductID int64 `db:"product_id"`
	Quantity  int64 `db:"quantity"`
	Subtotal  int64 `db:"subtotal_cents"`
	CostTotal int64 `db:"cost_total_cents"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	SaleID      int64      `db:"sale_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
