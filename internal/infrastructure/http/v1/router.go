// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"timebill/internal/core/security"
	"timebill/internal/domain/auth"
	"timebill/internal/domain/catalogs/business"
	"timebill/internal/domain/catalogs/client"
	"timebill/internal/domain/catalogs/holiday"
	"timebill/internal/domain/catalogs/internalstaff"
	"timebill/internal/domain/catalogs/ratecard"
	"timebill/internal/domain/reports"
	"timebill/internal/domain/timesheet"
	"timebill/internal/infrastructure/http/v1/handlers"
	"timebill/internal/infrastructure/http/v1/middleware"
	"timebill/internal/infrastructure/storage/postgres"
	"timebill/pkg/logger"
)

// RouterConfig holds the wired services the API serves.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService          *auth.Service
	BusinessService      *business.Service
	ClientService        *client.Service
	InternalStaffService *internalstaff.Service
	RateCardService      *ratecard.Service
	HolidayService       *holiday.Service
	TimesheetService     *timesheet.Service
	ReportsService       *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	businessHandler := handlers.NewBusinessHandler(base, cfg.BusinessService)
	clientHandler := handlers.NewClientHandler(base, cfg.ClientService)
	staffHandler := handlers.NewInternalStaffHandler(base, cfg.InternalStaffService)
	rateCardHandler := handlers.NewRateCardHandler(base, cfg.RateCardService)
	holidayHandler := handlers.NewHolidayHandler(base, cfg.HolidayService)
	timesheetHandler := handlers.NewTimesheetHandler(base, cfg.TimesheetService)
	reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)

	api := router.Group("/api/v1")

	// Public endpoints
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", authHandler.Login)
		authPublic.POST("/register", authHandler.Register)
	}

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	authPrivate := protected.Group("/auth")
	{
		authPrivate.GET("/me", authHandler.Me)
		authPrivate.POST("/change-password", authHandler.ChangePassword)
	}

	users := protected.Group("/users")
	users.Use(middleware.RequireAction(security.ActionManageUsers))
	{
		users.GET("", authHandler.ListUsers)
		users.GET("/:id", authHandler.GetUser)
		users.PUT("/:id", authHandler.UpdateUser)
	}

	businesses := protected.Group("/businesses")
	{
		businesses.GET("", businessHandler.List)
		businesses.GET("/:id", businessHandler.Get)
		businesses.PUT("/:id", businessHandler.Update)

		admin := businesses.Group("")
		admin.Use(middleware.RequireSystemAdmin())
		{
			admin.POST("", businessHandler.Create)
			admin.DELETE("/:id", businessHandler.Delete)
			admin.POST("/:id/status", businessHandler.SetStatus)
			admin.POST("/:id/login-enabled", businessHandler.SetLoginEnabled)
		}
	}

	clients := protected.Group("/clients")
	{
		clients.GET("", clientHandler.List)
		clients.GET("/:id", clientHandler.Get)

		manage := clients.Group("")
		manage.Use(middleware.RequireAction(security.ActionManageCatalogs))
		{
			manage.POST("", clientHandler.Create)
			manage.PUT("/:id", clientHandler.Update)
			manage.DELETE("/:id", clientHandler.Delete)
			manage.POST("/:id/deletion-mark", clientHandler.SetDeletionMark)
		}
	}

	staff := protected.Group("/internal-users")
	{
		staff.GET("", staffHandler.List)
		staff.GET("/:id", staffHandler.Get)
		staff.GET("/by-type/:type", staffHandler.ListByType)

		manage := staff.Group("")
		manage.Use(middleware.RequireAction(security.ActionManageCatalogs))
		{
			manage.POST("", staffHandler.Create)
			manage.PUT("/:id", staffHandler.Update)
			manage.DELETE("/:id", staffHandler.Delete)
			manage.POST("/:id/deletion-mark", staffHandler.SetDeletionMark)
		}
	}

	rateCards := protected.Group("/rate-cards")
	{
		rateCards.GET("", rateCardHandler.List)
		rateCards.GET("/active", rateCardHandler.GetActiveForUser)
		rateCards.GET("/by-user/:id", rateCardHandler.ListForUser)
		rateCards.GET("/:id", rateCardHandler.Get)

		manage := rateCards.Group("")
		manage.Use(middleware.RequireAction(security.ActionManageCatalogs))
		{
			manage.POST("", rateCardHandler.Create)
			manage.PUT("/:id", rateCardHandler.Update)
			manage.DELETE("/:id", rateCardHandler.Delete)
		}
	}

	holidays := protected.Group("/holidays")
	{
		holidays.GET("", holidayHandler.List)
		holidays.GET("/:id", holidayHandler.Get)
		holidays.GET("/by-year/:year", holidayHandler.ListByYear)

		manage := holidays.Group("")
		manage.Use(middleware.RequireAction(security.ActionManageCatalogs))
		{
			manage.POST("", holidayHandler.Create)
			manage.PUT("/:id", holidayHandler.Update)
			manage.DELETE("/:id", holidayHandler.Delete)
		}
	}

	timesheets := protected.Group("/timesheet")
	{
		timesheets.POST("", timesheetHandler.Create)
		timesheets.GET("", timesheetHandler.List)
		timesheets.GET("/:id", timesheetHandler.Get)
		timesheets.PUT("/:id", timesheetHandler.Update)
		timesheets.DELETE("/:id", timesheetHandler.Delete)
		// Status transition rides PATCH on the document itself
		timesheets.PATCH("/:id", timesheetHandler.ChangeStatus)
	}

	charts := protected.Group("/chart")
	{
		charts.GET("/summary", reportsHandler.Summary)
		charts.GET("/trend", reportsHandler.Trend)
		charts.GET("/status", reportsHandler.StatusCounts)
	}

	protected.GET("/reports", reportsHandler.Export)

	return router
}
