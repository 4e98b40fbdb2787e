package domain

import "time"

// Product описывает товар в каталоге владельца.
type Product struct {
	ID        int64
	SKU       string
	Name      string
	Category  string // Пустая строка — без категории
	Price     int64  // Цена продажи хранится в центах
	Cost      int64  // Закупочная стоимость в центах
	Stock     int64  // Текущий остаток, никогда не уходит ниже нуля
	ImageKey  string // Ключ изображения в MinIO, пустая строка — без изображения
	UserID    int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewProduct(userID int64, sku, name, category string, price, cost, stock int64) *Product {
	return &Product{
		SKU:      sku,
		Name:     name,
		Category: category,
		Price:    price,
		Cost:     cost,
		Stock:    stock,
		UserID:   userID,
	}
}
