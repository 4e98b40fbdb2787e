package converter

type ProductInfoRedisModel struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    int64  `json:"price_cents"`
	Cost     int64  `json:"cost_cents"`
	Stock    int64  `json:"stock"`
	ImageKey string `json:"image_key,omitempty"`
}
