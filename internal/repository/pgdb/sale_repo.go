package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// Имя товара разрешается при чтении; для удалённых товаров подставляется sentinel.
const deletedProductName = "N/A"

// SaleRepo реализует репозиторий продаж поверх PostgreSQL.
type SaleRepo struct {
	pool *pgxpool.Pool
	conv converter.SaleConverter
}

func NewSaleRepo(pool *pgxpool.Pool, conv converter.SaleConverter) *SaleRepo {
	return &SaleRepo{
		pool: pool,
		conv: conv,
	}
}

// CreateSale вставляет продажу и все её позиции в рамках транзакции из контекста.
func (s *SaleRepo) CreateSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) (*domain.Sale, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	saleQuery := `
		INSERT INTO sales (user_id, total_cents, cost_cents, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	model := s.conv.ToModel(sale)
	if err := tx.QueryRow(ctx, saleQuery,
		model.UserID, model.Total, model.Cost, model.CreatedAt,
	).Scan(&model.ID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemQuery := `
		INSERT INTO sale_items (sale_id, product_id, quantity, subtotal_cents, cost_total_cents)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for i := range items {
		item := s.conv.ItemToModel(&items[i])
		batch.Queue(itemQuery, model.ID, item.ProductID, item.Quantity, item.Subtotal, item.CostTotal)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(model), nil
}

// GetSale возвращает продажу владельца с позициями или e.ErrSaleNotFound.
func (s *SaleRepo) GetSale(ctx context.Context, userID, saleID int64) (*usecase.SaleRow, error) {
	query := `
		SELECT id, user_id, total_cents, cost_cents, created_at
		FROM sales
		WHERE id = $1 AND user_id = $2
	`

	var row usecase.SaleRow
	err := s.pool.QueryRow(ctx, query, saleID, userID).
		Scan(&row.ID, &row.UserID, &row.Total, &row.Cost, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrSaleNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemsBySale, err := s.loadItems(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	row.Items = itemsBySale[row.ID]

	return &row, nil
}

// ListSales возвращает продажи владельца от новых к старым, с позициями.
func (s *SaleRepo) ListSales(ctx context.Context, userID int64) ([]usecase.SaleRow, error) {
	query := `
		SELECT id, user_id, total_cents, cost_cents, created_at
		FROM sales
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	sales := make([]usecase.SaleRow, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var row usecase.SaleRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Total, &row.Cost, &row.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		sales = append(sales, row)
		ids = append(ids, row.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return sales, nil
	}

	itemsBySale, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
	}

	return sales, nil
}

// loadItems загружает позиции указанных продаж одним запросом. Имя товара
// разрешается через LEFT JOIN: удалённый товар даёт sentinel вместо ошибки.
func (s *SaleRepo) loadItems(ctx context.Context, saleIDs []int64) (map[int64][]usecase.SaleItemRow, error) {
	query := `
		SELECT si.sale_id, si.product_id, COALESCE(p.name, $2), si.quantity, si.subtotal_cents, si.cost_total_cents
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.id
	`

	rows, err := s.pool.Query(ctx, query, saleIDs, deletedProductName)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64][]usecase.SaleItemRow, len(saleIDs))
	for rows.Next() {
		var saleID int64
		var item usecase.SaleItemRow
		if err := rows.Scan(&saleID, &item.ProductID, &item.ProductName, &item.Quantity, &item.Subtotal, &item.CostTotal); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[saleID] = append(result[saleID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
