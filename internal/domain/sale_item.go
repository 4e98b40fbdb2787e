package domain

// SaleItem — позиция продажи. Subtotal и CostTotal — снимок цены на момент
// коммита: последующие изменения цены товара не трогают исторические продажи.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int64
	Subtotal  int64 // Price * Quantity в центах на момент продажи
	CostTotal int64 // Cost * Quantity в центах на момент продажи
}

func NewSaleItem(productID, quantity, subtotal, costTotal int64) *SaleItem {
	return &SaleItem{
		ProductID: productID,
		Quantity:  quantity,
		Subtotal:  subtotal,
		CostTotal: costTotal,
	}
}
