package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/config"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/logger"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http/handler"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Orders     *handler.OrderHandler
	Shipments  *handler.ShipmentHandler
	Inventory  *handler.InventoryHandler
	Products   *handler.ProductHandler
	Affiliates *handler.AffiliateHandler
	Payouts    *handler.PayoutHandler
}

// Pinger reports backend health
type Pinger interface {
	Ping() error
}

// NewRouter builds the gin engine with all routes and middleware
func NewRouter(cfg config.Config, log *zap.Logger, h Handlers, db Pinger) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	r := gin.New()
	r.Use(logger.RequestID())
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = r.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// Storefront
		v1.GET("/products", h.Products.List)
		v1.GET("/products/:id", h.Products.Get)
		v1.GET("/products/:id/availability", h.Inventory.GetAvailability)

		v1.POST("/orders", h.Orders.Create)
		v1.GET("/orders/:orderNumber", h.Orders.Get)
		v1.POST("/orders/:orderNumber/payment", h.Orders.InitiatePayment)
		v1.POST("/orders/:orderNumber/payment/capture", h.Orders.CapturePayment)
		v1.POST("/orders/:orderNumber/cancellation", h.Orders.RequestCancellation)
		v1.POST("/orders/:orderNumber/refund", h.Orders.RequestRefund)
		v1.GET("/customers/:customerID/orders", h.Orders.ListByCustomer)

		// Partner portal
		v1.POST("/shipments", h.Shipments.RecordShipment)
		v1.POST("/shipments/:id/delivery", h.Shipments.CompleteDelivery)
		v1.GET("/partners/:id/commission", h.Payouts.GetPendingCommission)

		// Admin
		admin := v1.Group("/admin")
		{
			admin.POST("/products", h.Products.Create)
			admin.PUT("/products/:id/price", h.Products.UpdatePrice)

			admin.POST("/partners", h.Inventory.RegisterPartner)
			admin.GET("/partners", h.Inventory.ListPartners)
			admin.PUT("/partners/:id/active", h.Inventory.SetPartnerActive)
			admin.POST("/partners/:id/stock", h.Inventory.AssignStock)
			admin.PUT("/partners/:id/stock", h.Inventory.AdjustStock)

			admin.GET("/orders/awaiting-allocation", h.Orders.ListAwaitingAllocation)
			admin.POST("/orders/:orderNumber/allocate", h.Orders.RetryAllocation)
			admin.POST("/orders/:orderNumber/cancellation/approve", h.Orders.ApproveCancellation)
			admin.POST("/orders/:orderNumber/refund/approve", h.Orders.ApproveRefund)

			admin.POST("/partners/:id/payouts", h.Payouts.CreatePayout)
			admin.GET("/partners/:id/payouts", h.Payouts.ListPayouts)
			admin.POST("/payouts/:id/approve", h.Payouts.ApprovePayout)
			admin.POST("/payouts/:id/reject", h.Payouts.RejectPayout)

			admin.POST("/affiliates", h.Affiliates.Create)
			admin.GET("/affiliates/:code/sales", h.Affiliates.ListSales)
		}
	}

	return r
}
