package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaleUseCase реализует бизнес-логику продаж: атомарный коммит продажи
// со списанием остатков и чтение исторических продаж.
type SaleUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
	now         func() time.Time
}

func NewSaleUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
		now:         time.Now,
	}
}

// CommitSale проводит продажу как единую транзакцию: для каждой позиции в
// порядке запроса товар блокируется (SELECT ... FOR UPDATE), проверяется
// остаток и списывается количество; затем вставляются продажа, позиции и
// outbox-событие. Любая ошибка откатывает всё — частичных списаний не бывает.
func (s *SaleUseCase) CommitSale(ctx context.Context, req *CommitSaleReq) (*CommitSaleRes, error) {
	const op = "SaleUseCase.CommitSale"

	// Валидация до любого обращения к хранилищу
	var err error
	err = s.validateCommit(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	var (
		total int64
		cost  int64
		items = make([]domain.SaleItem, 0, len(req.Items))
	)

	// Позиции обрабатываются строго в порядке запроса: при нескольких
	// проблемных строках наружу уходит первая.
	for _, line := range req.Items {
		item, lineErr := s.applyLine(ctx, req.UserID, line)
		if lineErr != nil {
			err = lineErr
			return nil, e.Wrap(op, err)
		}

		total += item.Subtotal
		cost += item.CostTotal
		items = append(items, *item)
	}

	sale := domain.NewSale(req.UserID, total, cost, s.now().UTC())
	sale, err = s.saleRepo.CreateSale(ctx, sale, items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := s.buildOutboxEvent(sale, items)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	_, err = s.outboxRepo.Create(ctx, event)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Остатки изменились — сбрасываем кэш затронутых товаров в фоне
	s.invalidateProducts(req.UserID, items)

	return NewCommitSaleRes(sale.ID, sale.Total), nil
}

// GetSaleDetail возвращает обогащённое представление продажи владельца.
func (s *SaleUseCase) GetSaleDetail(ctx context.Context, userID, saleID int64) (*SaleView, error) {
	const op = "SaleUseCase.GetSaleDetail"

	row, err := s.saleRepo.GetSale(ctx, userID, saleID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view := buildSaleView(row)
	return &view, nil
}

// ListSales возвращает продажи владельца от новых к старым.
func (s *SaleUseCase) ListSales(ctx context.Context, userID int64) ([]SaleView, error) {
	const op = "SaleUseCase.ListSales"

	rows, err := s.saleRepo.ListSales(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	views := make([]SaleView, 0, len(rows))
	for i := range rows {
		views = append(views, buildSaleView(&rows[i]))
	}

	return views, nil
}

// applyLine проводит одну позицию: блокирующая выборка товара в рамках
// аккаунта, проверка остатка, списание и снимок цены/себестоимости.
func (s *SaleUseCase) applyLine(ctx context.Context, userID int64, line SaleLine) (*domain.SaleItem, error) {
	product, err := s.productRepo.GetForUpdate(ctx, userID, line.ProductID)
	if err != nil {
		return nil, err
	}

	if product.Stock < line.Quantity {
		return nil, e.WrapProduct(line.ProductID, e.ErrInsufficientStock)
	}

	// Списание с повторной проверкой остатка на стороне SQL: конкурентный
	// коммит не сможет увести stock в минус.
	if err := s.productRepo.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
		return nil, err
	}

	return domain.NewSaleItem(
		product.ID,
		line.Quantity,
		product.Price*line.Quantity,
		product.Cost*line.Quantity,
	), nil
}

// buildOutboxEvent собирает событие sale.committed с JSON-телом.
func (s *SaleUseCase) buildOutboxEvent(sale *domain.Sale, items []domain.SaleItem) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	lines := make([]SaleCommittedLineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, SaleCommittedLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
			CostTotal: item.CostTotal,
		})
	}

	payload, err := json.Marshal(SaleCommittedPayload{
		EventID:     eventID,
		SaleID:      sale.ID,
		UserID:      sale.UserID,
		Total:       sale.Total,
		Cost:        sale.Cost,
		CommittedAt: sale.CreatedAt,
		Items:       lines,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: SaleCommitted,
		SaleID:    sale.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: sale.CreatedAt,
	}, nil
}

// invalidateProducts удаляет затронутые товары из кэша в фоне.
func (s *SaleUseCase) invalidateProducts(userID int64, items []domain.SaleItem) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := s.cacheRepo.DeleteProducts(bgCtx, userID, ids); err != nil {
			s.logger.Warnf("Failed to invalidate product cache after sale: %v", err)
		}
	}()
}

func (s *SaleUseCase) validateCommit(req *CommitSaleReq) error {
	if len(req.Items) == 0 {
		return e.ErrEmptyItems
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return e.WrapProduct(line.ProductID, e.ErrInvalidQuantity)
		}
	}

	return nil
}

// buildSaleView восстанавливает отображаемое представление: цена и
// себестоимость за единицу выводятся из сохранённого снимка делением на
// количество (ноль — защита от деления), прибыль считается на лету.
func buildSaleView(row *SaleRow) SaleView {
	items := make([]SaleItemView, 0, len(row.Items))
	for _, item := range row.Items {
		var unitPrice, unitCost int64
		if item.Quantity > 0 {
			unitPrice = item.Subtotal / item.Quantity
			unitCost = item.CostTotal / item.Quantity
		}

		items = append(items, SaleItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   unitPrice,
			UnitCost:    unitCost,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
			CostTotal:   item.CostTotal,
		})
	}

	return SaleView{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Total:     row.Total,
		Cost:      row.Cost,
		Profit:    row.Total - row.Cost,
		Items:     items,
	}
}
