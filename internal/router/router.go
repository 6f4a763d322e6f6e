package router

import (
	"commissionhub/config"
	"commissionhub/internal/domain"
	"commissionhub/internal/handler"
	"commissionhub/internal/middleware"
	"commissionhub/internal/repository"
	"commissionhub/internal/service"
	"commissionhub/pkg/cloudinary"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-level resources the HTTP stack is built on.
// Cloud, Locker and Reminders are optional.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Cloud     cloudinary.Client
	Locker    service.Locker
	Reminders service.ReminderScheduler
	Log       *zap.Logger
}

// App is the wired HTTP engine plus the product service, which the
// reminder worker shares.
type App struct {
	Engine   *gin.Engine
	Products *service.ProductService

	limiter *middleware.IPRateLimiter
}

// Close stops the background work started by Setup.
func (a *App) Close() {
	a.limiter.Close()
}

func Setup(d Deps) *App {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	limiter := middleware.NewIPRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	productRepo := repository.NewProductRepository(d.DB)
	notificationRepo := repository.NewNotificationRepository(d.DB)
	interestRepo := repository.NewInterestRepository(d.DB)
	auditRepo := repository.NewAuditRepository(d.DB)
	statsRepo := repository.NewStatsRepository(d.DB)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, interestRepo, d.Log.Named("notify"))
	productSvc := service.NewProductService(productRepo, userRepo, auditRepo, notifSvc, d.Locker, d.Log.Named("product"))
	if d.Reminders != nil {
		productSvc.SetReminderScheduler(d.Reminders)
	}
	statsSvc := service.NewStatsService(statsRepo)
	profileSvc := service.NewProfileService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, cfg, d.Log)
	productHandler := handler.NewProductHandler(productSvc, d.Log)
	notifHandler := handler.NewNotificationHandler(notifSvc, d.Log)
	statsHandler := handler.NewStatsHandler(statsSvc, d.Log)
	profileHandler := handler.NewProfileHandler(profileSvc, d.Log)
	uploadHandler := handler.NewUploadHandler(d.Cloud, profileSvc, cfg.Cloudinary.Folder, d.Log)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)

		// role and ownership checks for transitions live in the product service
		products := api.Group("/products", authMw)
		products.GET("", productHandler.List)
		products.POST("", productHandler.Create)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id/approve", productHandler.Approve)
		products.PUT("/:id/reject", productHandler.Reject)
		products.PUT("/:id/accept", productHandler.Accept)
		products.POST("/:id/demo", productHandler.SubmitDemo)
		products.PUT("/:id/demo/approve", productHandler.ApproveDemo)
		products.PUT("/:id/demo/reject", productHandler.RejectDemo)
		products.POST("/:id/demo/notify", productHandler.NotifyUser)
		products.POST("/:id/payment", productHandler.Pay)
		products.GET("/:id/payment", productHandler.GetPayment)
		products.GET("/:id/history", productHandler.History)

		notifications := api.Group("/notifications", authMw)
		notifications.GET("", notifHandler.ListSeller)
		notifications.PUT("/:id/read", notifHandler.MarkRead)

		me := api.Group("/me", authMw)
		me.GET("/profile", profileHandler.Get)
		me.PATCH("/profile", profileHandler.Update)
		me.POST("/avatar", uploadHandler.UploadAvatar)
		me.GET("/user-notifications", notifHandler.ListUser)
		me.PUT("/user-notifications/:id/read", notifHandler.MarkUserRead)

		api.POST("/uploads", authMw, middleware.RequireRole(domain.RoleSeller), uploadHandler.UploadDemoFile)

		admin := api.Group("/admin", authMw, middleware.RequireRole(domain.RoleAdmin))
		admin.GET("/stats", statsHandler.Dashboard)
	}

	return &App{Engine: r, Products: productSvc, limiter: limiter}
}
