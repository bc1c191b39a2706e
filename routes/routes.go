package routes

import (
	"time"

	"lashstudio/handlers"
	"lashstudio/middleware"
	"lashstudio/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	adminOnly = middleware.RequireRoles(models.RoleAdmin)
	staffOnly = middleware.RequireRoles(models.RoleAdmin, models.RoleTechnician)
)

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	users := api.Group("/users")
	{
		users.POST("/register", middleware.VerifiedIdentity(hb.Verifier), hb.Users.RegisterHandler)

		users.Use(authed)
		users.POST("", adminOnly, hb.Users.CreateHandler)
		users.GET("", adminOnly, hb.Users.ListHandler)
		users.GET("/:id", hb.Users.GetHandler)
		users.PUT("/:id", hb.Users.UpdateHandler)
	}
}

// RegisterCatalogRoutes registers the service package endpoints.
func RegisterCatalogRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	services := api.Group("/services")
	{
		services.GET("", hb.Catalog.ListHandler)
		services.POST("", authed, staffOnly, hb.Catalog.CreateHandler)
		services.PUT("/:id", authed, staffOnly, hb.Catalog.UpdateHandler)
	}
}

// RegisterAppointmentRoutes registers booking endpoints. Ownership rules are
// applied by the service.
func RegisterAppointmentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	appts := api.Group("/appointments", authed)
	{
		appts.POST("", hb.Appointments.CreateHandler)
		appts.GET("", hb.Appointments.ListHandler)
		appts.GET("/:id", hb.Appointments.GetHandler)
		appts.PUT("/:id", hb.Appointments.UpdateStatusHandler)
		appts.POST("/:id/notes", hb.Appointments.AddNoteHandler)
		appts.PUT("/:id/payment", staffOnly, hb.Appointments.SetPaymentHandler)
	}
}

// RegisterPaymentRoutes registers the Stripe endpoints.
func RegisterPaymentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	payments := api.Group("/payments")
	{
		payments.POST("/create-intent", authed, hb.Payments.CreateIntentHandler)
		// Authenticated by the Stripe-Signature header.
		payments.POST("/webhook", hb.Payments.WebhookHandler)
	}
}

// RegisterPromoRoutes registers promo code endpoints.
func RegisterPromoRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	promos := api.Group("/promo-codes", authed)
	{
		promos.POST("/validate", hb.Promos.ValidateHandler)
		promos.POST("", adminOnly, hb.Promos.CreateHandler)
		promos.GET("", adminOnly, hb.Promos.ListHandler)
	}
}

// RegisterSiteRoutes registers site settings, page content and testimonials.
func RegisterSiteRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	api.GET("/site-settings", hb.Settings.GetHandler)
	api.PUT("/site-settings", authed, adminOnly, hb.Settings.UpdateHandler)

	api.GET("/content/:pageSlug", hb.Content.PageHandler)
	api.POST("/content/:pageSlug/blocks", authed, adminOnly, hb.Content.CreateBlockHandler)

	api.GET("/testimonials", hb.Content.TestimonialsHandler)
	api.POST("/testimonials", authed, hb.Content.SubmitTestimonialHandler)
}

// RegisterAdminRoutes registers the media library and analytics endpoints.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle, authed gin.HandlerFunc) {
	media := api.Group("/media", authed, adminOnly)
	{
		media.POST("/upload", hb.Media.UploadHandler)
		media.GET("", hb.Media.ListHandler)
	}

	analytics := api.Group("/analytics", authed, staffOnly)
	{
		analytics.GET("/dashboard", hb.Analytics.DashboardHandler)
		analytics.GET("/reports", hb.Analytics.ReportsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	api.GET("/health", handlers.HealthHandler)

	authed := middleware.Authenticate(hb.Verifier, hb.Resolver)
	RegisterUserRoutes(api, hb, authed)
	RegisterCatalogRoutes(api, hb, authed)
	RegisterAppointmentRoutes(api, hb, authed)
	RegisterPaymentRoutes(api, hb, authed)
	RegisterPromoRoutes(api, hb, authed)
	RegisterSiteRoutes(api, hb, authed)
	RegisterAdminRoutes(api, hb, authed)
}
