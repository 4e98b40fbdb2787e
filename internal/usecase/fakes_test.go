package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeStore — общее in-memory хранилище для фейковых репозиториев.
// BeginTx снимает слепок состояния, Rollback восстанавливает его, так что
// сценарии отката проверяются теми же путями, что и в PostgreSQL.
type fakeStore struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	sales    []*SaleRow
	saleSeq  int64
	events   []*OutboxEvent
	eventSeq int64

	snapshot *storeSnapshot
}

type storeSnapshot struct {
	products map[int64]*domain.Product
	sales    int
	saleSeq  int64
	events   int
	eventSeq int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[int64]*domain.Product)}
}

func (s *fakeStore) addProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[cp.ID] = &cp
}

func (s *fakeStore) productStock(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return -1
}

func (s *fakeStore) takeSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make(map[int64]*domain.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}

	s.snapshot = &storeSnapshot{
		products: products,
		sales:    len(s.sales),
		saleSeq:  s.saleSeq,
		events:   len(s.events),
		eventSeq: s.eventSeq,
	}
}

func (s *fakeStore) rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return
	}
	s.products = s.snapshot.products
	s.sales = s.sales[:s.snapshot.sales]
	s.saleSeq = s.snapshot.saleSeq
	s.events = s.events[:s.snapshot.events]
	s.eventSeq = s.snapshot.eventSeq
	s.snapshot = nil
}

func (s *fakeStore) commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

// fakeDB реализует transaction.Transactional поверх fakeStore.
type fakeDB struct {
	store      *fakeStore
	beginCount int
}

func (db *fakeDB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	db.beginCount++
	db.store.takeSnapshot()
	return &fakeTx{store: db.store}, nil
}

// fakeTx — минимальный pgx.Tx: фейковым репозиториям соединение не нужно,
// важны только Commit и Rollback.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.store.commit()
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.store.rollback()
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

// fakeProductRepo повторяет контракт Postgres-репозитория товаров, включая
// охранную проверку остатка при списании.
type fakeProductRepo struct {
	store *fakeStore
	seq   int64

	createErr      error
	setImageKeyErr error
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.products {
		if p.UserID == product.UserID && p.SKU == product.SKU {
			return nil, e.ErrSKUTaken
		}
	}

	r.seq++
	cp := *product
	cp.ID = r.seq
	r.store.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[productID]
	if !ok || p.UserID != userID {
		return nil, e.WrapProduct(productID, e.ErrProductNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]domain.Product, 0)
	for _, p := range r.store.products {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.products[product.ID]
	if !ok || existing.UserID != product.UserID {
		return nil, e.WrapProduct(product.ID, e.ErrProductNotFound)
	}

	cp := *product
	cp.ImageKey = existing.ImageKey
	cp.CreatedAt = existing.CreatedAt
	r.store.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, userID, productID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[productID]
	if !ok || p.UserID != userID {
		return e.WrapProduct(productID, e.ErrProductNotFound)
	}
	delete(r.store.products, productID)
	return nil
}

func (r *fakeProductRepo) SetImageKey(ctx context.Context, userID, productID int64, key string) error {
	if r.setImageKeyErr != nil {
		return r.setImageKeyErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[productID]
	if !ok || p.UserID != userID {
		return e.WrapProduct(productID, e.ErrProductNotFound)
	}
	p.ImageKey = key
	return nil
}

func (r *fakeProductRepo) GetForUpdate(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	return r.GetByID(ctx, userID, productID)
}

func (r *fakeProductRepo) DecrementStock(ctx context.Context, productID, quantity int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.products[productID]
	if !ok || p.Stock < quantity {
		return e.WrapProduct(productID, e.ErrInsufficientStock)
	}
	p.Stock -= quantity
	return nil
}

type fakeSaleRepo struct {
	store *fakeStore
}

func (r *fakeSaleRepo) CreateSale(ctx context.Context, sale *domain.Sale, items []domain.SaleItem) (*domain.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.saleSeq++
	cp := *sale
	cp.ID = r.store.saleSeq

	rows := make([]SaleItemRow, 0, len(items))
	for _, item := range items {
		name := "N/A"
		if p, ok := r.store.products[item.ProductID]; ok {
			name = p.Name
		}
		rows = append(rows, SaleItemRow{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
			CostTotal:   item.CostTotal,
		})
	}

	r.store.sales = append(r.store.sales, &SaleRow{
		ID:        cp.ID,
		CreatedAt: cp.CreatedAt,
		Total:     cp.Total,
		Cost:      cp.Cost,
		UserID:    cp.UserID,
		Items:     rows,
	})

	out := cp
	return &out, nil
}

func (r *fakeSaleRepo) GetSale(ctx context.Context, userID, saleID int64) (*SaleRow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, row := range r.store.sales {
		if row.ID == saleID && row.UserID == userID {
			cp := *row
			cp.Items = r.resolveNames(row.Items)
			return &cp, nil
		}
	}
	return nil, e.ErrSaleNotFound
}

func (r *fakeSaleRepo) ListSales(ctx context.Context, userID int64) ([]SaleRow, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]SaleRow, 0)
	for i := len(r.store.sales) - 1; i >= 0; i-- {
		row := r.store.sales[i]
		if row.UserID != userID {
			continue
		}
		cp := *row
		cp.Items = r.resolveNames(row.Items)
		result = append(result, cp)
	}
	return result, nil
}

// resolveNames повторяет LEFT JOIN: имя удалённого товара заменяется на 'N/A'.
func (r *fakeSaleRepo) resolveNames(items []SaleItemRow) []SaleItemRow {
	out := make([]SaleItemRow, len(items))
	for i, item := range items {
		out[i] = item
		if p, ok := r.store.products[item.ProductID]; ok {
			out[i].ProductName = p.Name
		} else {
			out[i].ProductName = "N/A"
		}
	}
	return out
}

type fakeOutboxRepo struct {
	store     *fakeStore
	createErr error
}

func (r *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.eventSeq++
	cp := *event
	cp.ID = r.store.eventSeq
	r.store.events = append(r.store.events, &cp)
	out := cp
	return &out, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]*OutboxEvent, 0, limit)
	for _, ev := range r.store.events {
		if len(result) == limit {
			break
		}
		if ev.Status == Pending {
			ev.Status = Processing
			cp := *ev
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, ev := range r.store.events {
		if ev.ID == id && ev.Status == Processing {
			ev.Status = Processed
		}
	}
	return nil
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	values  map[string]*ProductInfo
	deleted []int64
	getErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]*ProductInfo)}
}

func cacheKey(userID, productID int64) string {
	return fmt.Sprintf("%d:%d", userID, productID)
}

func (c *fakeCacheRepo) GetProduct(ctx context.Context, userID, productID int64) (*ProductInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, c.getErr
	}
	if info, ok := c.values[cacheKey(userID, productID)]; ok {
		cp := *info
		return &cp, nil
	}
	return nil, nil
}

func (c *fakeCacheRepo) SetProduct(ctx context.Context, userID int64, info *ProductInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := *info
	c.values[cacheKey(userID, info.ID)] = &cp
	return nil
}

func (c *fakeCacheRepo) DeleteProducts(ctx context.Context, userID int64, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.values, cacheKey(userID, id))
		c.deleted = append(c.deleted, id)
	}
	return nil
}

func (c *fakeCacheRepo) deletedIDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.deleted...)
}

func (c *fakeCacheRepo) has(userID, productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[cacheKey(userID, productID)]
	return ok
}

type fakeImageRepo struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (r *fakeImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	if r.uploadErr != nil {
		return "", r.uploadErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploaded = append(r.uploaded, image.ObjectKey)
	return image.ObjectKey, nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, key)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, e.ErrEmailTaken
	}

	r.seq++
	cp := *user
	cp.ID = r.seq
	r.users[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return nil, e.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// fakeHasher хранит пароль как есть с префиксом, чтобы тесты не зависели
// от стоимости bcrypt.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return e.ErrInvalidCredentials
	}
	return nil
}

type fakeTokenManager struct{}

func (fakeTokenManager) Issue(userID int64, email string) (string, error) {
	return "token-for-user", nil
}

func (fakeTokenManager) Parse(token string) (int64, error) {
	if token != "token-for-user" {
		return 0, e.ErrUnauthorized
	}
	return 1, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...interface{})            {}
func (nopLogger) Infof(format string, args ...interface{})             {}
func (nopLogger) Warnf(format string, args ...interface{})             {}
func (nopLogger) Errorf(err error, format string, args ...interface{}) {}
