package http

import (
	_ "github.com/DRSN-tech/pos-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/pos-backend/internal/cfg"
	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(authUC usecase.AuthUC, productUC usecase.ProductUC, saleUC usecase.SaleUC,
	tokens usecase.TokenManager, minioCfg *cfg.MinIOCfg) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		authHandler := NewAuthHandler(authUC, r.logger)
		registerAuthRoutes(v1, authHandler)

		v1.Group(func(protected chi.Router) {
			protected.Use(AuthMiddleware(tokens))

			productHandler := NewProductHandler(productUC, minioCfg, r.logger)
			registerProductRoutes(protected, productHandler)

			saleHandler := NewSaleHandler(saleUC, r.logger)
			registerSaleRoutes(protected, saleHandler)
		})
	})
}

func registerAuthRoutes(router chi.Router, authHandler *AuthHandler) {
	router.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", authHandler.register)
		auth.Post("/login", authHandler.login)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.listProducts)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
		pr.Post("/{id}/image", prHandler.uploadImage)
	})
}

func registerSaleRoutes(router chi.Router, saleHandler *SaleHandler) {
	router.Route("/sales", func(sl chi.Router) {
		sl.Post("/", saleHandler.commitSale)
		sl.Get("/", saleHandler.listSales)
		sl.Get("/{id}", saleHandler.getSale)
	})
}
