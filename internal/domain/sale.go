package domain

import "time"

// Sale описывает совершённую продажу. Запись неизменяема после коммита.
type Sale struct {
	ID        int64
	Total     int64 // Суммарная выручка в центах, Σ subtotal позиций
	Cost      int64 // Суммарная себестоимость в центах, Σ cost_total позиций
	UserID    int64
	CreatedAt time.Time // Фиксируется сервером в момент коммита
}

func NewSale(userID int64, total, cost int64, createdAt time.Time) *Sale {
	return &Sale{
		Total:     total,
		Cost:      cost,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// Profit — прибыль продажи. Вычисляется при чтении и никогда не хранится.
func (s *Sale) Profit() int64 {
	return s.Total - s.Cost
}
