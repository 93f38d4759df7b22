// Package server wires the HTTP surface: routing, error mapping, and the
// middleware stack.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/billforge/billforge/internal/adhoccharge"
	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/customer"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	"github.com/billforge/billforge/internal/dispute"
	disputedomain "github.com/billforge/billforge/internal/dispute/domain"
	"github.com/billforge/billforge/internal/fee"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/feesync"
	"github.com/billforge/billforge/internal/invoicing"
	invoicingdomain "github.com/billforge/billforge/internal/invoicing/domain"
	obsmetrics "github.com/billforge/billforge/internal/observability/metrics"
	obstracing "github.com/billforge/billforge/internal/observability/tracing"
	"github.com/billforge/billforge/internal/ratelimit"
	"github.com/billforge/billforge/internal/rating"
	"github.com/billforge/billforge/internal/usage"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	cache.Module,
	customer.Module,
	fee.Module,
	usage.Module,
	rating.Module,
	invoicing.Module,
	adhoccharge.Module,
	dispute.Module,
	ratelimit.Module,
	feesync.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine       *gin.Engine
	cfg          config.Config
	genID        *snowflake.Node
	customerSvc  customerdomain.Service
	feeSvc       feedomain.Service
	usageSvc     usagedomain.Service
	invoicingSvc invoicingdomain.Service
	adhocSvc     adhocdomain.Service
	disputeSvc   disputedomain.Service
	syncer       *feesync.Syncer
	usageLimiter *ratelimit.UsageIngestLimiter
	obsMetrics   *obsmetrics.Metrics
}

type Params struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	GenID        *snowflake.Node
	CustomerSvc  customerdomain.Service
	FeeSvc       feedomain.Service
	UsageSvc     usagedomain.Service
	InvoicingSvc invoicingdomain.Service
	AdhocSvc     adhocdomain.Service
	DisputeSvc   disputedomain.Service
	Syncer       *feesync.Syncer
	UsageLimiter *ratelimit.UsageIngestLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics           `optional:"true"`
}

func NewServer(p Params) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		genID:        p.GenID,
		customerSvc:  p.CustomerSvc,
		feeSvc:       p.FeeSvc,
		usageSvc:     p.UsageSvc,
		invoicingSvc: p.InvoicingSvc,
		adhocSvc:     p.AdhocSvc,
		disputeSvc:   p.DisputeSvc,
		syncer:       p.Syncer,
		usageLimiter: p.UsageLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) registerRoutes() {
	r := s.engine

	invoicingGroup := r.Group("/invoicing")
	{
		invoicingGroup.POST("", s.GenerateInvoice)
		invoicingGroup.POST("/fee", s.CreateFee)
		invoicingGroup.GET("/fee", s.ListFees)
		invoicingGroup.POST("/fee/sync", s.SyncFees)
	}

	customers := r.Group("/customers")
	{
		customers.POST("", s.CreateCustomer)
		customers.GET("", s.ListCustomers)
		customers.GET("/:id", s.GetCustomer)
	}

	usageGroup := r.Group("/usage")
	{
		usageGroup.POST("", s.UsageIngestRateLimit(), s.IngestUsage)
		usageGroup.GET("", s.ListUsage)
	}

	adhoc := r.Group("/adhoc-charges")
	{
		adhoc.POST("", s.CreateAdhocCharge)
		adhoc.GET("", s.ListAdhocCharges)
		adhoc.POST("/:id/approve", s.ApproveAdhocCharge)
		adhoc.DELETE("/:id", s.DeleteAdhocCharge)
	}

	disputes := r.Group("/disputes")
	{
		disputes.POST("", s.CreateDispute)
		disputes.GET("", s.ListDisputes)
		disputes.POST("/:id/resolve", s.ResolveDispute)
	}
}
