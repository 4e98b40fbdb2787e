package http

import (
	"net/http"

	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
)

type SaleHandler struct {
	saleUsecase usecase.SaleUC
	logger      logger.Logger
}

func NewSaleHandler(saleUsecase usecase.SaleUC, logger logger.Logger) *SaleHandler {
	return &SaleHandler{saleUsecase: saleUsecase, logger: logger}
}

// commitSale
//
//	@Summary		Коммит продажи
//	@Description	Атомарно списывает остатки по всем позициям и фиксирует продажу. При нехватке остатка хотя бы по одной позиции вся продажа отклоняется.
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CommitSaleRequest	true	"Позиции продажи"
//	@Success		201		{object}	CommitSaleResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Failure		409		{object}	ErrorResponse	"Недостаточно остатка"
//	@Security		BearerAuth
//	@Router			/sales [post]
func (s *SaleHandler) commitSale(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var req CommitSaleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	lines := make([]usecase.SaleLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, usecase.SaleLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	res, err := s.saleUsecase.CommitSale(r.Context(), usecase.NewCommitSaleReq(userID, lines))
	if err != nil {
		s.logger.Warnf("commit sale failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &CommitSaleResponse{
		SaleID: res.SaleID,
		Total:  formatCents(res.Total),
	})
}

// getSale
//
//	@Summary		Детали продажи
//	@Description	Возвращает продажу с позициями и вычисленной прибылью
//	@Tags			sales
//	@Produce		json
//	@Param			id	path		int	true	"ID продажи"
//	@Success		200	{object}	SaleResponse
//	@Failure		404	{object}	ErrorResponse	"Продажа не найдена"
//	@Security		BearerAuth
//	@Router			/sales/{id} [get]
func (s *SaleHandler) getSale(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	saleID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := s.saleUsecase.GetSaleDetail(r.Context(), userID, saleID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewSaleResponse(view))
}

// listSales
//
//	@Summary		История продаж
//	@Description	Возвращает продажи владельца от новых к старым
//	@Tags			sales
//	@Produce		json
//	@Success		200	{array}	SaleResponse
//	@Security		BearerAuth
//	@Router			/sales [get]
func (s *SaleHandler) listSales(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	views, err := s.saleUsecase.ListSales(r.Context(), userID)
	if err != nil {
		s.logger.Warnf("list sales failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]SaleResponse, 0, len(views))
	for i := range views {
		result = append(result, *NewSaleResponse(&views[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}
