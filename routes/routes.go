package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/travelora/crm-backend/config"
	"github.com/travelora/crm-backend/internal/auditlog"
	"github.com/travelora/crm-backend/internal/auth"
	"github.com/travelora/crm-backend/internal/booking"
	"github.com/travelora/crm-backend/internal/customer"
	"github.com/travelora/crm-backend/internal/deal"
	"github.com/travelora/crm-backend/internal/lead"
	"github.com/travelora/crm-backend/internal/reports"
	"github.com/travelora/crm-backend/internal/tenant"
	"github.com/travelora/crm-backend/internal/travelpackage"
	"github.com/travelora/crm-backend/middleware"
)

// Setup wires repositories, services, handlers and the middleware
// chain. The order on the protected group matters: the request scope
// must exist before the tenant resolver and auth middleware write into
// it, and both must run before any handler touches a repository.
func Setup(r *gin.Engine, cfg *config.Config, db *gorm.DB, rdb *redis.Client, recorder auth.Recorder, mailer auth.Mailer) {
	tenantRepo := tenant.NewRepository(db)
	tenantSvc := tenant.NewService(tenantRepo)
	tenantHandler := tenant.NewHandler(tenantSvc)

	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, tenantRepo, mailer, recorder, cfg)
	authHandler := auth.NewHandler(authSvc)

	leadRepo := lead.NewRepository(db)
	leadHandler := lead.NewHandler(lead.NewService(leadRepo))

	customerRepo := customer.NewRepository(db)
	customerHandler := customer.NewHandler(customer.NewService(customerRepo, leadRepo))

	dealHandler := deal.NewHandler(deal.NewService(deal.NewRepository(db), customerRepo))

	packageRepo := travelpackage.NewRepository(db)
	packageHandler := travelpackage.NewHandler(travelpackage.NewService(packageRepo))

	bookingHandler := booking.NewHandler(booking.NewService(booking.NewRepository(db), customerRepo, packageRepo))

	auditHandler := auditlog.NewHandler(auditlog.NewService(auditlog.NewRepository(db)))

	reportsHandler := reports.NewHandler(reports.NewService(reports.NewRepository(db), reports.NewExporter()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RequestScope())
	api.Use(middleware.AuditMiddleware())
	api.Use(middleware.APIRateLimiter(rdb))
	api.Use(middleware.TenantResolver(tenantRepo))

	// Public auth surface. Login and reset get their own tight limits.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", middleware.LoginRateLimiter(rdb), authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/password-reset/request", middleware.ResetRateLimiter(rdb), authHandler.RequestReset)
		authGroup.POST("/password-reset/confirm", authHandler.Reset)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	protected.GET("/me", authHandler.Me)

	leadRoutes := protected.Group("/leads")
	{
		leadRoutes.POST("", leadHandler.Create)
		leadRoutes.GET("", leadHandler.List)
		leadRoutes.GET("/:id", leadHandler.Get)
		leadRoutes.PATCH("/:id", leadHandler.Update)
		leadRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager), leadHandler.Delete)
		leadRoutes.POST("/:id/convert", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager, auth.RoleAgent), customerHandler.ConvertLead)
	}

	customerRoutes := protected.Group("/customers")
	{
		customerRoutes.POST("", customerHandler.Create)
		customerRoutes.GET("", customerHandler.List)
		customerRoutes.GET("/:id", customerHandler.Get)
		customerRoutes.PATCH("/:id", customerHandler.Update)
		customerRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager), customerHandler.Delete)
	}

	dealRoutes := protected.Group("/deals")
	{
		dealRoutes.POST("", dealHandler.Create)
		dealRoutes.GET("", dealHandler.List)
		dealRoutes.GET("/pipeline", dealHandler.Pipeline)
		dealRoutes.GET("/:id", dealHandler.Get)
		dealRoutes.PATCH("/:id", dealHandler.Update)
		dealRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager), dealHandler.Delete)
	}

	packageRoutes := protected.Group("/packages")
	{
		packageRoutes.GET("", packageHandler.List)
		packageRoutes.GET("/:id", packageHandler.Get)

		writeRoutes := packageRoutes.Group("")
		writeRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager))
		{
			writeRoutes.POST("", packageHandler.Create)
			writeRoutes.PATCH("/:id", packageHandler.Update)
			writeRoutes.DELETE("/:id", packageHandler.Delete)
		}
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", bookingHandler.Create)
		bookingRoutes.GET("", bookingHandler.List)
		bookingRoutes.GET("/:id", bookingHandler.Get)
		bookingRoutes.PATCH("/:id/status", bookingHandler.UpdateStatus)
		bookingRoutes.DELETE("/:id", middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager), bookingHandler.Delete)
	}

	reportRoutes := protected.Group("/reports")
	reportRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin, auth.RoleManager))
	{
		reportRoutes.GET("/summary", reportsHandler.Summary)
		reportRoutes.GET("/export", reportsHandler.Export)
	}

	// Admin-only surface: user management, impersonation, audit trail,
	// tenant provisioning.
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RBACMiddleware(auth.RoleAdmin))
	{
		adminRoutes.GET("/users", authHandler.ListUsers)
		adminRoutes.POST("/impersonate", authHandler.Impersonate)
		adminRoutes.GET("/audit-events", auditHandler.List)
		adminRoutes.POST("/tenants", tenantHandler.Provision)
		adminRoutes.GET("/tenants", tenantHandler.List)
	}
}
