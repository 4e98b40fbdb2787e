package usecase

import "context"

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*UserInfo, error)
	Login(ctx context.Context, req *LoginReq) (*LoginRes, error)
}

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
	GetProduct(ctx context.Context, userID, productID int64) (*ProductInfo, error)
	ListProducts(ctx context.Context, userID int64) ([]ProductInfo, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error)
	DeleteProduct(ctx context.Context, userID, productID int64) error
	UploadProductImage(ctx context.Context, req *UploadImageReq) (string, error)
}

type SaleUC interface {
	CommitSale(ctx context.Context, req *CommitSaleReq) (*CommitSaleRes, error)
	GetSaleDetail(ctx context.Context, userID, saleID int64) (*SaleView, error)
	ListSales(ctx context.Context, userID int64) ([]SaleView, error)
}
