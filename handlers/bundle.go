package handlers

import "lashstudio/middleware"

// HandlerBundle groups the endpoint handlers and the auth dependencies the routes need.
type HandlerBundle struct {
	Verifier middleware.TokenVerifier
	Resolver middleware.PrincipalResolver

	Users        *UserHandler
	Catalog      *CatalogHandler
	Appointments *AppointmentHandler
	Payments     *PaymentHandler
	Promos       *PromoHandler
	Settings     *SettingsHandler
	Content      *ContentHandler
	Media        *MediaHandler
	Analytics    *AnalyticsHandler
}
