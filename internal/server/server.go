package server

import (
	"context"
	"net/http"
	"time"

	billdomain "github.com/boqbill/boqbill/internal/bill/domain"
	billtemplatedomain "github.com/boqbill/boqbill/internal/billtemplate/domain"
	categorydomain "github.com/boqbill/boqbill/internal/category/domain"
	companydomain "github.com/boqbill/boqbill/internal/company/domain"
	"github.com/boqbill/boqbill/internal/config"
	"github.com/boqbill/boqbill/internal/observability"
	obsmiddleware "github.com/boqbill/boqbill/internal/observability/logger"
	obsmetrics "github.com/boqbill/boqbill/internal/observability/metrics"
	paymentdomain "github.com/boqbill/boqbill/internal/payment/domain"
	pricingdomain "github.com/boqbill/boqbill/internal/pricing/domain"
	productdomain "github.com/boqbill/boqbill/internal/product/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	companySvc  companydomain.Service
	categorySvc categorydomain.Service
	productSvc  productdomain.Service
	pricingSvc  pricingdomain.Service
	billSvc     billdomain.Service
	templateSvc billtemplatedomain.Service
	paymentSvc  paymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	CompanySvc  companydomain.Service
	CategorySvc categorydomain.Service
	ProductSvc  productdomain.Service
	PricingSvc  pricingdomain.Service
	BillSvc     billdomain.Service
	TemplateSvc billtemplatedomain.Service
	PaymentSvc  paymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		companySvc:  p.CompanySvc,
		categorySvc: p.CategorySvc,
		productSvc:  p.ProductSvc,
		pricingSvc:  p.PricingSvc,
		billSvc:     p.BillSvc,
		templateSvc: p.TemplateSvc,
		paymentSvc:  p.PaymentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(ActorMiddleware())

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PUT("/companies/:id", s.UpdateCompany)
	api.DELETE("/companies/:id", s.DeleteCompany)

	// -------- Categories --------
	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/categories/:id", s.GetCategoryByID)
	api.GET("/categories/:id/children", s.ListCategoryChildren)
	api.PUT("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.GET("/products/category/:categoryId", s.ListProductsByCategory)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Pricing --------
	api.GET("/pricing", s.ListPricing)
	api.POST("/pricing", s.CreatePricing)
	api.POST("/pricing/calculate", s.CalculatePrice)
	api.GET("/pricing/history/:productId", s.GetPricingHistory)
	api.GET("/pricing/:id", s.GetPricingByID)
	api.PUT("/pricing/:id", s.UpdatePricing)
	api.DELETE("/pricing/:id", s.DeletePricing)

	// -------- Bills --------
	api.GET("/bills", s.ListBills)
	api.POST("/bills", s.CreateBill)
	api.GET("/bills/:id", s.GetBillByID)
	api.GET("/bills/:id/pdf", s.DownloadBillPDF)
	api.GET("/bills/:id/csv", s.DownloadBillCSV)
	api.POST("/bills/:id/finalize", s.FinalizeBill)
	api.PUT("/bills/:id", s.UpdateBill)
	api.DELETE("/bills/:id", s.DeleteBill)

	// -------- Templates --------
	api.GET("/templates", s.ListTemplates)
	api.POST("/templates", s.CreateTemplate)
	api.GET("/templates/:id", s.GetTemplateByID)
	api.PUT("/templates/:id", s.UpdateTemplate)
	api.DELETE("/templates/:id", s.DeleteTemplate)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.GET("/payments/:id", s.GetPaymentByID)
}
