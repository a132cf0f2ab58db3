package order

import (
	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated          = "OrderCreated"
	EventTypeOrderPaid             = "OrderPaid"
	EventTypePaymentFailed         = "PaymentFailed"
	EventTypeOrderAllocated        = "OrderAllocated"
	EventTypeOrderShipped          = "OrderShipped"
	EventTypeOrderDelivered        = "OrderDelivered"
	EventTypeCancellationRequested = "CancellationRequested"
	EventTypeOrderCancelled        = "OrderCancelled"
	EventTypeRefundRequested       = "RefundRequested"
	EventTypeOrderRefunded         = "OrderRefunded"
)

// orderEventBase captures the fields every order event carries
type orderEventBase struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

func newOrderEventBase(eventType string, o *Order) orderEventBase {
	return orderEventBase{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
	}
}

// OrderCreatedEvent is raised when a checkout creates an order
type OrderCreatedEvent struct {
	orderEventBase
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		orderEventBase: newOrderEventBase(EventTypeOrderCreated, o),
		TotalPrice:     o.TotalPrice,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderPaidEvent is raised when payment capture succeeds.
// Consumed by the order-confirmation email collaborator.
type OrderPaidEvent struct {
	orderEventBase
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		orderEventBase: newOrderEventBase(EventTypeOrderPaid, o),
		TotalPrice:     o.TotalPrice,
	}
}

// EventType returns the event type name
func (e *OrderPaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// PaymentFailedEvent is raised when payment capture fails
type PaymentFailedEvent struct {
	orderEventBase
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent
func NewPaymentFailedEvent(o *Order) *PaymentFailedEvent {
	return &PaymentFailedEvent{orderEventBase: newOrderEventBase(EventTypePaymentFailed, o)}
}

// EventType returns the event type name
func (e *PaymentFailedEvent) EventType() string {
	return EventTypePaymentFailed
}

// OrderAllocatedEvent is raised when allocation succeeds and shipping moves
// to preparing. Triggers commission recording.
type OrderAllocatedEvent struct {
	orderEventBase
	AffiliateCode string `json:"affiliate_code,omitempty"`
}

// NewOrderAllocatedEvent creates a new OrderAllocatedEvent
func NewOrderAllocatedEvent(o *Order) *OrderAllocatedEvent {
	return &OrderAllocatedEvent{
		orderEventBase: newOrderEventBase(EventTypeOrderAllocated, o),
		AffiliateCode:  o.AffiliateCode,
	}
}

// EventType returns the event type name
func (e *OrderAllocatedEvent) EventType() string {
	return EventTypeOrderAllocated
}

// OrderShippedEvent is raised when the order is shipped.
// Consumed by the shipment-notification email collaborator.
type OrderShippedEvent struct {
	orderEventBase
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{orderEventBase: newOrderEventBase(EventTypeOrderShipped, o)}
}

// EventType returns the event type name
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderDeliveredEvent is raised when the order is delivered
type OrderDeliveredEvent struct {
	orderEventBase
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{orderEventBase: newOrderEventBase(EventTypeOrderDelivered, o)}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// CancellationRequestedEvent is raised when a cancellation is requested
type CancellationRequestedEvent struct {
	orderEventBase
	Reason string `json:"reason"`
}

// NewCancellationRequestedEvent creates a new CancellationRequestedEvent
func NewCancellationRequestedEvent(o *Order, reason string) *CancellationRequestedEvent {
	return &CancellationRequestedEvent{
		orderEventBase: newOrderEventBase(EventTypeCancellationRequested, o),
		Reason:         reason,
	}
}

// EventType returns the event type name
func (e *CancellationRequestedEvent) EventType() string {
	return EventTypeCancellationRequested
}

// OrderCancelledEvent is raised when a cancellation is approved
type OrderCancelledEvent struct {
	orderEventBase
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{orderEventBase: newOrderEventBase(EventTypeOrderCancelled, o)}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// RefundRequestedEvent is raised when a refund is requested
type RefundRequestedEvent struct {
	orderEventBase
	Reason string `json:"reason"`
}

// NewRefundRequestedEvent creates a new RefundRequestedEvent
func NewRefundRequestedEvent(o *Order, reason string) *RefundRequestedEvent {
	return &RefundRequestedEvent{
		orderEventBase: newOrderEventBase(EventTypeRefundRequested, o),
		Reason:         reason,
	}
}

// EventType returns the event type name
func (e *RefundRequestedEvent) EventType() string {
	return EventTypeRefundRequested
}

// OrderRefundedEvent is raised when a refund is approved. The actual
// payment-gateway reversal is performed by the payment collaborator.
type OrderRefundedEvent struct {
	orderEventBase
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(o *Order) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		orderEventBase: newOrderEventBase(EventTypeOrderRefunded, o),
		TotalPrice:     o.TotalPrice,
	}
}

// EventType returns the event type name
func (e *OrderRefundedEvent) EventType() string {
	return EventTypeOrderRefunded
}
