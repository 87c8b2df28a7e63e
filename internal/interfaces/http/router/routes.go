package router

import (
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the endpoint groups mounted under the API prefix
type Handlers struct {
	SMS     *handler.SMSHandler
	Orders  *handler.OrderHandler
	Dates   *handler.DateHandler
	Catalog *handler.CatalogHandler
	Auth    *handler.AuthHandler
}

// Guards are the per-route middleware of the API. Admin is required, the
// limits are skipped when nil.
type Guards struct {
	Admin       gin.HandlerFunc
	SMSLimit    gin.HandlerFunc
	UploadLimit gin.HandlerFunc
}

// with prepends mw to h unless mw is nil
func with(mw gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{mw, h}
}

// APIGroups builds the route groups of the booking API
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	sms := NewDomainGroup("sms", "/sms")
	sms.POST("/send", with(g.SMSLimit, h.SMS.SendCode)...)
	sms.POST("/send-code", with(g.SMSLimit, h.SMS.SendCode)...)
	sms.POST("/verify", with(g.SMSLimit, h.SMS.VerifyCode)...)
	sms.POST("/verify-code", with(g.SMSLimit, h.SMS.VerifyCode)...)
	sms.GET("/status", h.SMS.Status)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", with(g.UploadLimit, h.Orders.Create)...)
	adminOrders := orders.Group("orders-admin", "").Use(g.Admin)
	adminOrders.GET("", h.Orders.List)
	adminOrders.GET("/stats", h.Orders.Stats)
	adminOrders.GET("/:id", h.Orders.Get)
	adminOrders.GET("/:id/print", h.Orders.Print)
	adminOrders.PATCH("/:id/status", h.Orders.UpdateStatus)
	adminOrders.DELETE("/:id", h.Orders.Delete)

	dates := NewDomainGroup("dates", "/dates")
	dates.GET("/available", h.Dates.ListAvailable)
	adminDates := dates.Group("dates-admin", "").Use(g.Admin)
	adminDates.GET("/all", h.Dates.ListAll)
	adminDates.POST("", h.Dates.Create)
	adminDates.POST("/bulk", h.Dates.BulkCreate)
	adminDates.PATCH("/:id", h.Dates.Update)
	adminDates.DELETE("/:id", h.Dates.Delete)

	availability := NewDomainGroup("availability", "/availability")
	availability.GET("/check-dates", h.Dates.ListAvailable)

	services := NewDomainGroup("services", "/services")
	services.GET("", h.Catalog.List)
	services.GET("/:slug", h.Catalog.Get)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	adminAuth := auth.Group("auth-admin", "").Use(g.Admin)
	adminAuth.POST("/logout", h.Auth.Logout)
	adminAuth.GET("/me", h.Auth.Me)

	return []*DomainGroup{sms, orders, dates, availability, services, auth}
}

// RegisterAPI mounts every API group on r
func RegisterAPI(r *Router, h Handlers, g Guards) {
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
}
