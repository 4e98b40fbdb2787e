package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUC struct {
	registerRes *usecase.UserInfo
	registerErr error
	loginRes    *usecase.LoginRes
	loginErr    error
}

func (s *stubAuthUC) Register(ctx context.Context, req *usecase.RegisterReq) (*usecase.UserInfo, error) {
	return s.registerRes, s.registerErr
}

func (s *stubAuthUC) Login(ctx context.Context, req *usecase.LoginReq) (*usecase.LoginRes, error) {
	return s.loginRes, s.loginErr
}

type stubProductUC struct {
	createRes *usecase.ProductInfo
	createErr error
	getRes    *usecase.ProductInfo
	getErr    error
	listRes   []usecase.ProductInfo
	deleteErr error

	lastCreate *usecase.CreateProductReq
}

func (s *stubProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*usecase.ProductInfo, error) {
	s.lastCreate = req
	return s.createRes, s.createErr
}

func (s *stubProductUC) GetProduct(ctx context.Context, userID, productID int64) (*usecase.ProductInfo, error) {
	return s.getRes, s.getErr
}

func (s *stubProductUC) ListProducts(ctx context.Context, userID int64) ([]usecase.ProductInfo, error) {
	return s.listRes, nil
}

func (s *stubProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) (*usecase.ProductInfo, error) {
	return s.createRes, s.createErr
}

func (s *stubProductUC) DeleteProduct(ctx context.Context, userID, productID int64) error {
	return s.deleteErr
}

func (s *stubProductUC) UploadProductImage(ctx context.Context, req *usecase.UploadImageReq) (string, error) {
	return "", nil
}

type stubSaleUC struct {
	commitRes *usecase.CommitSaleRes
	commitErr error
	detailRes *usecase.SaleView
	detailErr error
	listRes   []usecase.SaleView

	lastCommit *usecase.CommitSaleReq
}

func (s *stubSaleUC) CommitSale(ctx context.Context, req *usecase.CommitSaleReq) (*usecase.CommitSaleRes, error) {
	s.lastCommit = req
	return s.commitRes, s.commitErr
}

func (s *stubSaleUC) GetSaleDetail(ctx context.Context, userID, saleID int64) (*usecase.SaleView, error) {
	return s.detailRes, s.detailErr
}

func (s *stubSaleUC) ListSales(ctx context.Context, userID int64) ([]usecase.SaleView, error) {
	return s.listRes, nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID int64, email string) (string, error) { return "valid-token", nil }

func (stubTokens) Parse(token string) (int64, error) {
	if token != "valid-token" {
		return 0, e.ErrUnauthorized
	}
	return 7, nil
}

type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{})            {}
func (testLogger) Infof(format string, args ...interface{})             {}
func (testLogger) Warnf(format string, args ...interface{})             {}
func (testLogger) Errorf(err error, format string, args ...interface{}) {}

func newTestServer(authUC usecase.AuthUC, productUC usecase.ProductUC, saleUC usecase.SaleUC) *httptest.Server {
	r := chi.NewRouter()
	router := NewRouter(r, testLogger{})
	router.Init(authUC, productUC, saleUC, stubTokens{}, &cfg.MinIOCfg{MaxImageSize: 15 << 20})
	return httptest.NewServer(r)
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	authUC := &stubAuthUC{registerRes: &usecase.UserInfo{ID: 1, Email: "owner@shop.com"}}
	srv := newTestServer(authUC, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", RegisterRequest{
		Email: "owner@shop.com", Password: "secret-pass",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	body := decodeBody[RegisterResponse](t, res)
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "owner@shop.com", body.Email)
}

func TestRegisterEndpoint_EmailTaken(t *testing.T) {
	authUC := &stubAuthUC{registerErr: e.ErrEmailTaken}
	srv := newTestServer(authUC, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/register", "", RegisterRequest{
		Email: "owner@shop.com", Password: "secret-pass",
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)

	body := decodeBody[ErrorResponse](t, res)
	assert.Equal(t, http.StatusConflict, body.Code)
	assert.Equal(t, e.ErrEmailTaken.Error(), body.Message)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	authUC := &stubAuthUC{loginErr: e.ErrInvalidCredentials}
	srv := newTestServer(authUC, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/auth/login", "", LoginRequest{
		Email: "owner@shop.com", Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/products/"},
		{http.MethodPost, "/api/v1/sales/"},
		{http.MethodGet, "/api/v1/sales/1"},
	} {
		res := doJSON(t, tc.method, srv.URL+tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "%s %s", tc.method, tc.path)
		res.Body.Close()
	}

	res := doJSON(t, http.MethodGet, srv.URL+"/api/v1/products/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	res.Body.Close()
}

func TestCreateProductEndpoint_ParsesMoneyToCents(t *testing.T) {
	productUC := &stubProductUC{createRes: &usecase.ProductInfo{
		ID: 3, SKU: "CF-01", Name: "Кофе", Price: 1599, Cost: 900, Stock: 25,
	}}
	srv := newTestServer(&stubAuthUC{}, productUC, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/products/", "valid-token", map[string]interface{}{
		"sku": "CF-01", "name": "Кофе", "category": "напитки",
		"price": "15.99", "cost": "9.00", "stock": 25,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.NotNil(t, productUC.lastCreate)
	assert.Equal(t, int64(7), productUC.lastCreate.UserID)
	assert.Equal(t, int64(1599), productUC.lastCreate.Price)
	assert.Equal(t, int64(900), productUC.lastCreate.Cost)

	body := decodeBody[ProductResponse](t, res)
	assert.Equal(t, "15.99", body.Price)
	assert.Equal(t, "9.00", body.Cost)
}

func TestCreateProductEndpoint_RejectsPrecision(t *testing.T) {
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/products/", "valid-token", map[string]interface{}{
		"sku": "CF-01", "name": "Кофе", "price": "15.999", "cost": "9.00", "stock": 25,
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	body := decodeBody[ErrorResponse](t, res)
	assert.Equal(t, e.ErrPricePrecision.Error(), body.Message)
}

func TestCommitSaleEndpoint(t *testing.T) {
	saleUC := &stubSaleUC{commitRes: &usecase.CommitSaleRes{SaleID: 12, Total: 3000}}
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, saleUC)
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sales/", "valid-token", CommitSaleRequest{
		Items: []SaleLineRequest{{ProductID: 1, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.NotNil(t, saleUC.lastCommit)
	assert.Equal(t, int64(7), saleUC.lastCommit.UserID)
	require.Len(t, saleUC.lastCommit.Items, 1)

	body := decodeBody[CommitSaleResponse](t, res)
	assert.Equal(t, int64(12), body.SaleID)
	assert.Equal(t, "30.00", body.Total)
}

func TestCommitSaleEndpoint_InsufficientStock(t *testing.T) {
	saleUC := &stubSaleUC{commitErr: e.WrapProduct(1, e.ErrInsufficientStock)}
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, saleUC)
	defer srv.Close()

	res := doJSON(t, http.MethodPost, srv.URL+"/api/v1/sales/", "valid-token", CommitSaleRequest{
		Items: []SaleLineRequest{{ProductID: 1, Quantity: 99}},
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)

	// Ответ называет виновный продукт
	body := decodeBody[ErrorResponse](t, res)
	assert.Equal(t, "product 1: "+e.ErrInsufficientStock.Error(), body.Message)
}

func TestGetSaleEndpoint_FormatsMoney(t *testing.T) {
	saleUC := &stubSaleUC{detailRes: &usecase.SaleView{
		ID: 12, Total: 3000, Cost: 1800, Profit: 1200,
		Items: []usecase.SaleItemView{
			{ProductID: 1, ProductName: "Кофе", UnitPrice: 1000, UnitCost: 600, Quantity: 3, Subtotal: 3000, CostTotal: 1800},
		},
	}}
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, saleUC)
	defer srv.Close()

	res := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sales/12", "valid-token", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody[SaleResponse](t, res)
	assert.Equal(t, "30.00", body.Total)
	assert.Equal(t, "18.00", body.Cost)
	assert.Equal(t, "12.00", body.Profit)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "10.00", body.Items[0].UnitPrice)
	assert.Equal(t, "6.00", body.Items[0].UnitCost)
	assert.Equal(t, "30.00", body.Items[0].Subtotal)
	assert.Equal(t, "18.00", body.Items[0].CostTotal)
}

func TestGetSaleEndpoint_NotFound(t *testing.T) {
	saleUC := &stubSaleUC{detailErr: e.ErrSaleNotFound}
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, saleUC)
	defer srv.Close()

	res := doJSON(t, http.MethodGet, srv.URL+"/api/v1/sales/404", "valid-token", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteProductEndpoint(t *testing.T) {
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/products/3", "valid-token", nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	res.Body.Close()
}

func TestPathIDValidation(t *testing.T) {
	srv := newTestServer(&stubAuthUC{}, &stubProductUC{}, &stubSaleUC{})
	defer srv.Close()

	res := doJSON(t, http.MethodGet, srv.URL+"/api/v1/products/abc", "valid-token", nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}
