package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/config"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/handler"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopdesk-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Location       *handler.LocationHandler
	Shop           *handler.ShopHandler
	Bill           *handler.BillHandler
	BillPayment    *handler.PaymentHandler
	Supplier       *handler.SupplierHandler
	Invoice        *handler.InvoiceHandler
	InvoicePayment *handler.PaymentHandler
	CriticalCase   *handler.CriticalCaseHandler
	Ticket         *handler.TicketHandler
	Warning        *handler.WarningHandler
	Note           *handler.NoteHandler
	Dashboard      *handler.DashboardHandler
	Report         *handler.ReportHandler
	Printer        *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Log             *logrus.Logger
}

const adminRole = "admin"

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.Cfg.Storage.Provider == "local" {
		router.Static("/uploads", deps.Cfg.Storage.Path)
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Requests: deps.Cfg.RateLimit.Requests,
			Window:   time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
		})
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", h.Dashboard.GetStats)

	registerLocationRoutes(protected, h)
	registerShopRoutes(protected, h)
	registerBillRoutes(protected, h, deps)
	registerSupplierRoutes(protected, h)
	registerInvoiceRoutes(protected, h, deps)
	registerCaseRoutes(protected, h)
	registerReportRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	registerPrinterRoutes(protected, h)
}

func idempotent(deps *Deps) gin.HandlerFunc {
	return middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})
}

func registerLocationRoutes(protected *gin.RouterGroup, h *Handlers) {
	locations := protected.Group("/locations")
	{
		locations.GET("/districts", h.Location.Districts)
		locations.GET("/districts/:district/towns", h.Location.Towns)
	}
}

func registerShopRoutes(protected *gin.RouterGroup, h *Handlers) {
	shops := protected.Group("/shops")
	{
		shops.GET("", h.Shop.List)
		shops.POST("", h.Shop.Create)
		shops.GET("/:id", h.Shop.Get)
		shops.PUT("/:id", h.Shop.Update)
		shops.DELETE("/:id", middleware.RequireRole(adminRole), h.Shop.Delete)
		shops.POST("/:id/logo", h.Shop.UploadLogo)
		shops.GET("/:id/bills", h.Bill.List)
		shops.POST("/:id/bills", h.Bill.Create)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := protected.Group("/bills")
	{
		bills.GET("/:id", h.Bill.Get)
		bills.PUT("/:id", h.Bill.Update)
		bills.DELETE("/:id", h.Bill.Delete)
		bills.GET("/:id/summary", h.Bill.Summary)
		bills.POST("/:id/print", h.Printer.PrintBill)
		bills.GET("/:id/payments", h.BillPayment.List)
		// Payment creation replays retried requests instead of paying twice
		bills.POST("/:id/payments", idempotent(deps), h.BillPayment.Create)
		bills.PUT("/:id/payments/:paymentId", h.BillPayment.Update)
		bills.DELETE("/:id/payments/:paymentId", h.BillPayment.Delete)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", middleware.RequireRole(adminRole), h.Supplier.Delete)
		suppliers.GET("/:id/invoices", h.Invoice.List)
		suppliers.POST("/:id/invoices", h.Invoice.Create)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.GET("/:id/summary", h.Invoice.Summary)
		invoices.GET("/:id/payments", h.InvoicePayment.List)
		invoices.POST("/:id/payments", idempotent(deps), h.InvoicePayment.Create)
		invoices.PUT("/:id/payments/:paymentId", h.InvoicePayment.Update)
		invoices.DELETE("/:id/payments/:paymentId", h.InvoicePayment.Delete)
	}
}

func registerCaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	cases := protected.Group("/critical-cases")
	{
		cases.GET("", h.CriticalCase.List)
		cases.POST("", h.CriticalCase.Create)
		cases.GET("/:id", h.CriticalCase.Get)
		cases.PUT("/:id", h.CriticalCase.Update)
		cases.DELETE("/:id", h.CriticalCase.Delete)
	}

	tickets := protected.Group("/tickets")
	{
		tickets.GET("", h.Ticket.List)
		tickets.POST("", h.Ticket.Create)
		tickets.GET("/:id", h.Ticket.Get)
		tickets.PUT("/:id", h.Ticket.Update)
		tickets.PUT("/:id/status", h.Ticket.UpdateStatus)
		tickets.DELETE("/:id", h.Ticket.Delete)
	}

	warnings := protected.Group("/warnings")
	{
		warnings.GET("", h.Warning.List)
		warnings.POST("", h.Warning.Create)
		warnings.GET("/:id", h.Warning.Get)
		warnings.PUT("/:id", h.Warning.Update)
		warnings.POST("/:id/send", h.Warning.Send)
		warnings.PUT("/:id/status", h.Warning.UpdateStatus)
		warnings.DELETE("/:id", h.Warning.Delete)
	}

	notes := protected.Group("/notes")
	{
		notes.GET("", h.Note.List)
		notes.POST("", h.Note.Create)
		notes.GET("/:id", h.Note.Get)
		notes.PUT("/:id", h.Note.Update)
		notes.DELETE("/:id", h.Note.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/bills/outstanding.xlsx", h.Report.OutstandingBills)
		reports.GET("/invoices/outstanding.xlsx", h.Report.OutstandingInvoices)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(adminRole))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
