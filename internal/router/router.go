package router

import (
	"time"

	"bebop/internal/config"
	"bebop/internal/handler"
	"bebop/internal/middleware"
	"bebop/internal/repository"
	"bebop/internal/service"
	"bebop/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	operatorRepo := repository.NewOperatorRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentSource := repository.NewPaymentSource(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(operatorRepo, cfg)
	aggregator := service.NewIncomeAggregator(paymentSource)
	sessionSvc := service.NewSessionService(sessionRepo, aggregator, dispatcher, cfg)
	orderSvc := service.NewOrderService(orderRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Session lifecycle — any operator may open/close/print
		session := v1.Group("/session", middleware.RequireRole("cashier", "manager"))
		{
			session.POST("/open", sessionH.Open)
			session.POST("/:id/close", sessionH.Close)
			session.POST("/:id/x-ticket", sessionH.GenerateXTicket)
			session.GET("/active", sessionH.GetActive)
			session.GET("/:id", sessionH.GetReport)
			session.GET("/history", sessionH.History)
		}

		// Order recording — the payment producer side
		v1.POST("/orders", middleware.RequireRole("cashier", "manager"), ordersH.Record)

		// Operator management — manager only
		ops := v1.Group("/operators", middleware.RequireRole("manager"))
		{
			ops.POST("", authH.CreateOperator)
			ops.GET("", authH.ListOperators)
			ops.DELETE("/:id", authH.DeactivateOperator)
		}
	}

	return r
}
