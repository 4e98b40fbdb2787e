package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	minioCfg       *cfg.MinIOCfg
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, minioCfg *cfg.MinIOCfg, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, minioCfg: minioCfg, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Добавляет товар в каталог владельца
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ProductRequest	true	"Данные товара"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"SKU уже занят"
//	@Security		BearerAuth
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := p.parseProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		UserID:   userID,
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.price,
		Cost:     req.cost,
		Stock:    req.Stock,
	})
	if err != nil {
		p.logger.Warnf("create product failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, NewProductResponse(info))
}

// getProduct
//
//	@Summary		Карточка товара
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	ProductResponse
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Security		BearerAuth
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.GetProduct(r.Context(), userID, productID)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponse(info))
}

// listProducts
//
//	@Summary		Каталог товаров владельца
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}	ProductResponse
//	@Security		BearerAuth
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	infos, err := p.productUsecase.ListProducts(r.Context(), userID)
	if err != nil {
		p.logger.Warnf("list products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]ProductResponse, 0, len(infos))
	for i := range infos {
		result = append(result, *NewProductResponse(&infos[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			body	body		ProductRequest	true	"Новые данные товара"
//	@Success		200		{object}	ProductResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Failure		409		{object}	ErrorResponse	"SKU уже занят"
//	@Security		BearerAuth
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := p.parseProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		UserID:    userID,
		ProductID: productID,
		SKU:       req.SKU,
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.price,
		Cost:      req.cost,
		Stock:     req.Stock,
	})
	if err != nil {
		p.logger.Warnf("update product %d failed: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, NewProductResponse(info))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удаляет товар из каталога; исторические продажи сохраняются
//	@Tags			products
//	@Param			id	path	int	true	"ID товара"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Security		BearerAuth
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), userID, productID); err != nil {
		p.logger.Warnf("delete product %d failed: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Принимает multipart/form-data с одним файлом в поле image
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			image	formData	file	true	"Изображение (jpeg/png/webp)"
//	@Success		200		{object}	UploadImageResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Security		BearerAuth
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 32 << 20

	userID, err := UserIDFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	productID, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.minioCfg.MaxImageSize+maxMemory)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImage)
		return
	}

	data, mimeType, err := readFile(files[0], p.minioCfg.MaxImageSize)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	key, err := p.productUsecase.UploadProductImage(r.Context(), &usecase.UploadImageReq{
		UserID:    userID,
		ProductID: productID,
		Data:      data,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		Name:      files[0].Filename,
	})
	if err != nil {
		p.logger.Warnf("upload image for product %d failed: %s", productID, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &UploadImageResponse{ImageKey: key})
}

// parsedProduct — ProductRequest с деньгами, уже переведёнными в центы.
type parsedProduct struct {
	ProductRequest
	price int64
	cost  int64
}

func (p *ProductHandler) parseProductRequest(r *http.Request) (*parsedProduct, error) {
	var req ProductRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}

	price, err := parseMoneyToCents(req.Price)
	if err != nil {
		return nil, err
	}

	cost, err := parseMoneyToCents(req.Cost)
	if err != nil {
		return nil, err
	}

	return &parsedProduct{ProductRequest: req, price: price, cost: cost}, nil
}

func pathID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrStatusBadRequest
	}

	return id, nil
}
