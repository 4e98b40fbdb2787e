package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/pos-backend/internal/domain"
	"github.com/DRSN-tech/pos-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture() (*ProductUseCase, *fakeStore, *fakeProductRepo, *fakeCacheRepo, *fakeImageRepo) {
	store := newFakeStore()
	productRepo := &fakeProductRepo{store: store}
	cache := newFakeCacheRepo()
	images := &fakeImageRepo{}

	uc := NewProductUC(productRepo, cache, images, nopLogger{})
	return uc, store, productRepo, cache, images
}

func TestCreateProduct(t *testing.T) {
	uc, _, _, _, _ := newProductFixture()

	info, err := uc.CreateProduct(context.Background(), &CreateProductReq{
		UserID: 10, SKU: "CF-01", Name: "Кофе", Category: "напитки",
		Price: 1599, Cost: 900, Stock: 25,
	})
	require.NoError(t, err)

	assert.NotZero(t, info.ID)
	assert.Equal(t, "CF-01", info.SKU)
	assert.Equal(t, int64(1599), info.Price)
	assert.Equal(t, int64(25), info.Stock)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc, _, _, _, _ := newProductFixture()

	cases := []struct {
		name string
		req  CreateProductReq
		want error
	}{
		{"пустой sku", CreateProductReq{UserID: 10, Name: "Кофе", Price: 100, Stock: 1}, e.ErrSKURequired},
		{"пустое имя", CreateProductReq{UserID: 10, SKU: "CF-01", Price: 100, Stock: 1}, e.ErrProductNameRequired},
		{"отрицательная цена", CreateProductReq{UserID: 10, SKU: "CF-01", Name: "Кофе", Price: -1, Stock: 1}, e.ErrInvalidPrice},
		{"отрицательная себестоимость", CreateProductReq{UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Cost: -5, Stock: 1}, e.ErrInvalidPrice},
		{"отрицательный остаток", CreateProductReq{UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: -1}, e.ErrNegativeStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(context.Background(), &tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	uc, _, _, _, _ := newProductFixture()

	req := &CreateProductReq{UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 1}
	_, err := uc.CreateProduct(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.CreateProduct(context.Background(), req)
	require.ErrorIs(t, err, e.ErrSKUTaken)
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	uc, _, _, cache, _ := newProductFixture()

	cache.SetProduct(context.Background(), 10, &ProductInfo{ID: 7, SKU: "CF-01", Name: "Кофе из кэша"})

	// Товара нет в хранилище: ответ может прийти только из кэша
	info, err := uc.GetProduct(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, "Кофе из кэша", info.Name)
}

func TestGetProduct_CacheMissPopulatesInBackground(t *testing.T) {
	uc, store, _, cache, _ := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Cost: 50, Stock: 3})

	info, err := uc.GetProduct(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, "Кофе", info.Name)

	assert.Eventually(t, func() bool {
		return cache.has(10, 7)
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_CacheFailureFallsThrough(t *testing.T) {
	uc, store, _, cache, _ := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Cost: 50, Stock: 3})
	cache.getErr = fmt.Errorf("redis down")

	info, err := uc.GetProduct(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, "Кофе", info.Name)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	uc, store, _, cache, _ := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Cost: 50, Stock: 3})
	cache.SetProduct(context.Background(), 10, &ProductInfo{ID: 7, Name: "Кофе"})

	info, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{
		UserID: 10, ProductID: 7, SKU: "CF-01", Name: "Кофе крепкий", Price: 120, Cost: 50, Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Кофе крепкий", info.Name)

	assert.Eventually(t, func() bool {
		return !cache.has(10, 7)
	}, time.Second, 10*time.Millisecond)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	uc, _, _, _, _ := newProductFixture()

	_, err := uc.UpdateProduct(context.Background(), &UpdateProductReq{
		UserID: 10, ProductID: 404, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 1,
	})
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestDeleteProduct_RemovesImage(t *testing.T) {
	uc, store, _, _, images := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 3, ImageKey: "10/7-abc.jpg"})

	require.NoError(t, uc.DeleteProduct(context.Background(), 10, 7))

	_, err := uc.GetProduct(context.Background(), 10, 7)
	require.ErrorIs(t, err, e.ErrProductNotFound)
	assert.Contains(t, images.deleted, "10/7-abc.jpg")
}

func TestUploadProductImage(t *testing.T) {
	uc, store, _, _, images := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 3})

	key, err := uc.UploadProductImage(context.Background(), &UploadImageReq{
		UserID: 10, ProductID: 7, Data: []byte{0xFF, 0xD8}, MimeType: "image/jpeg", Size: 2, Name: "coffee.jpg",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "10/7-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Contains(t, images.uploaded, key)

	info, err := uc.GetProduct(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, key, info.ImageKey)
}

func TestUploadProductImage_UnsupportedMediaType(t *testing.T) {
	uc, store, _, _, _ := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 3})

	_, err := uc.UploadProductImage(context.Background(), &UploadImageReq{
		UserID: 10, ProductID: 7, Data: []byte("GIF89a"), MimeType: "image/gif", Size: 6, Name: "x.gif",
	})
	require.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}

func TestUploadProductImage_BindFailureCleansUpOrphan(t *testing.T) {
	uc, store, productRepo, _, images := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 3})
	productRepo.setImageKeyErr = fmt.Errorf("connection reset")

	_, err := uc.UploadProductImage(context.Background(), &UploadImageReq{
		UserID: 10, ProductID: 7, Data: []byte{0xFF, 0xD8}, MimeType: "image/jpeg", Size: 2, Name: "coffee.jpg",
	})
	require.Error(t, err)

	// Объект был загружен, привязка не удалась — сирота удалён
	require.Len(t, images.uploaded, 1)
	assert.Equal(t, images.uploaded, images.deleted)
}

func TestUploadProductImage_ReplacesOldImage(t *testing.T) {
	uc, store, _, _, images := newProductFixture()
	store.addProduct(&domain.Product{ID: 7, UserID: 10, SKU: "CF-01", Name: "Кофе", Price: 100, Stock: 3, ImageKey: "10/7-old.jpg"})

	key, err := uc.UploadProductImage(context.Background(), &UploadImageReq{
		UserID: 10, ProductID: 7, Data: []byte{0xFF, 0xD8}, MimeType: "image/jpeg", Size: 2, Name: "coffee.jpg",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "10/7-old.jpg", key)
	assert.Contains(t, images.deleted, "10/7-old.jpg")
}
