package app

import (
	"time"

	"github.com/codewiththura/stratum-planner/internal/auth"
	"github.com/codewiththura/stratum-planner/internal/cache"
	"github.com/codewiththura/stratum-planner/internal/config"
	"github.com/codewiththura/stratum-planner/internal/events"
	"github.com/codewiththura/stratum-planner/internal/handlers"
	"github.com/codewiththura/stratum-planner/internal/repo"
	"github.com/codewiththura/stratum-planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, 24*time.Hour)
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	planRepo := repo.NewPGPlanRepo(db)
	planCache := cache.NewPlanCache(rdb, cfg.Redis.DefaultTTL.Duration())
	bus := events.NewBus(rdb)
	planSvc := service.NewPlanService(planRepo, planCache, bus)
	planHandler := handlers.NewPlanHandler(planSvc, bus, cfg.App.Location())
	registerPlanRoutes(protected, planHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Stratum Planner API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerPlanRoutes(api *gin.RouterGroup, h *handlers.PlanHandler) {
	api.POST("/plans", h.Create)
	api.GET("/plans", h.List)
	api.GET("/plans/history", h.History)
	api.GET("/plans/subscribe", h.Subscribe)
	api.GET("/plans/:id", h.GetByID)
	api.PUT("/plans/:id", h.Update)
	api.DELETE("/plans/:id", h.Delete)
	api.POST("/plans/:id/actions/:index/cycle", h.CycleStatus)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
