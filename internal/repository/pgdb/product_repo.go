package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет новый товар. Дубликат (user_id, sku) возвращает e.ErrSKUTaken.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (user_id, sku, name, category, price_cents, cost_cents, stock, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	model := p.conv.ToModel(product)
	err := p.pool.QueryRow(ctx, query,
		model.UserID, model.SKU, model.Name, model.Category,
		model.Price, model.Cost, model.Stock, model.ImageKey,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSKUTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// GetByID возвращает товар владельца или e.ErrProductNotFound.
func (p *ProductRepo) GetByID(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	query := `
		SELECT id, user_id, sku, name, category, price_cents, cost_cents, stock, image_key, created_at, updated_at
		FROM products
		WHERE id = $1 AND user_id = $2
	`

	model, err := p.scanProduct(p.pool.QueryRow(ctx, query, productID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.WrapProduct(productID, e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// List возвращает все товары владельца.
func (p *ProductRepo) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	query := `
		SELECT id, user_id, sku, name, category, price_cents, cost_cents, stock, image_key, created_at, updated_at
		FROM products
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := p.scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Update полностью перезаписывает поля товара владельца.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET sku = $3, name = $4, category = $5, price_cents = $6, cost_cents = $7, stock = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, sku, name, category, price_cents, cost_cents, stock, image_key, created_at, updated_at
	`

	model := p.conv.ToModel(product)
	updated, err := p.scanProduct(p.pool.QueryRow(ctx, query,
		model.ID, model.UserID, model.SKU, model.Name, model.Category,
		model.Price, model.Cost, model.Stock,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.WrapProduct(product.ID, e.ErrProductNotFound)
		}
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrSKUTaken)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(updated), nil
}

// Delete удаляет товар владельца. Позиции исторических продаж хранят мягкую
// ссылку на товар и при удалении не затрагиваются.
func (p *ProductRepo) Delete(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`

	tag, err := p.pool.Exec(ctx, query, productID, userID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.WrapProduct(productID, e.ErrProductNotFound)
	}

	return nil
}

// SetImageKey привязывает ключ изображения в MinIO к товару.
func (p *ProductRepo) SetImageKey(ctx context.Context, userID, productID int64, key string) error {
	query := `UPDATE products SET image_key = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`

	tag, err := p.pool.Exec(ctx, query, productID, userID, key)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.WrapProduct(productID, e.ErrProductNotFound)
	}

	return nil
}

// GetForUpdate блокирует строку товара до конца транзакции (SELECT ... FOR UPDATE):
// конкурентные коммиты продаж по тому же товару выстраиваются в очередь.
func (p *ProductRepo) GetForUpdate(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT id, user_id, sku, name, category, price_cents, cost_cents, stock, image_key, created_at, updated_at
		FROM products
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`

	model, err := p.scanProduct(tx.QueryRow(ctx, query, productID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.WrapProduct(productID, e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(model), nil
}

// DecrementStock списывает количество с повторной проверкой остатка в самом
// запросе. Ноль затронутых строк означает нехватку остатка.
func (p *ProductRepo) DecrementStock(ctx context.Context, productID, quantity int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.WrapProduct(productID, e.ErrInsufficientStock)
	}

	return nil
}

func (p *ProductRepo) scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.UserID, &model.SKU, &model.Name, &model.Category,
		&model.Price, &model.Cost, &model.Stock, &model.ImageKey,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
