package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
)

// CreateOrderRequest carries the storefront checkout input
type CreateOrderRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" binding:"required"`
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	Quantity      int       `json:"quantity" binding:"required,min=1"`
	Region        string    `json:"region" binding:"required,region"`
	AffiliateCode string    `json:"affiliate_code"`
}

// OrderItemResponse is the API representation of a line item
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	OrderNumber        string              `json:"order_number"`
	CustomerID         uuid.UUID           `json:"customer_id"`
	Items              []OrderItemResponse `json:"items"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	ShippingFee        decimal.Decimal     `json:"shipping_fee"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	Region             string              `json:"region"`
	PaymentStatus      string              `json:"payment_status"`
	PaidAt             *time.Time          `json:"paid_at,omitempty"`
	ShippingStatus     string              `json:"shipping_status"`
	ShippedAt          *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time          `json:"delivered_at,omitempty"`
	ShippingCommission decimal.Decimal     `json:"shipping_commission"`
	CancellationStatus *string             `json:"cancellation_status,omitempty"`
	RefundStatus       *string             `json:"refund_status,omitempty"`
	AffiliateCode      string              `json:"affiliate_code,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its API representation
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount(),
		})
	}

	resp := &OrderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		CustomerID:         o.CustomerID,
		Items:              items,
		Subtotal:           o.Subtotal,
		ShippingFee:        o.ShippingFee,
		TotalPrice:         o.TotalPrice,
		Region:             o.Region,
		PaymentStatus:      string(o.PaymentStatus),
		PaidAt:             o.PaidAt,
		ShippingStatus:     string(o.ShippingStatus),
		ShippedAt:          o.ShippedAt,
		DeliveredAt:        o.DeliveredAt,
		ShippingCommission: o.ShippingCommission,
		AffiliateCode:      o.AffiliateCode,
		CreatedAt:          o.CreatedAt,
	}
	if o.CancellationStatus != nil {
		s := string(*o.CancellationStatus)
		resp.CancellationStatus = &s
	}
	if o.RefundStatus != nil {
		s := string(*o.RefundStatus)
		resp.RefundStatus = &s
	}
	return resp
}

// CapturePaymentResult reports the outcome of a payment capture,
// including whether fulfillment could start immediately
type CapturePaymentResult struct {
	Order     *OrderResponse `json:"order"`
	Allocated bool           `json:"allocated"`
}
