package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// EmailSender abstracts the outbound mail transport. Implementations live
// in infrastructure; tests use a recording fake.
type EmailSender interface {
	Send(ctx context.Context, customerID, subject, body string) error
}

// OrderEmailHandler sends customer notifications for order lifecycle
// events. Delivery is best effort: a failed send is logged and never
// propagated, so mail outages cannot fail order processing.
type OrderEmailHandler struct {
	sender EmailSender
	logger *zap.Logger
}

// NewOrderEmailHandler creates a new OrderEmailHandler
func NewOrderEmailHandler(sender EmailSender, logger *zap.Logger) *OrderEmailHandler {
	return &OrderEmailHandler{
		sender: sender,
		logger: logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderEmailHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPaid,
		order.EventTypeOrderShipped,
		order.EventTypeOrderDelivered,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderRefunded,
	}
}

// Handle sends the notification matching the event type
func (h *OrderEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		customerID  string
		orderNumber string
		subject     string
		body        string
	)

	switch e := event.(type) {
	case *order.OrderPaidEvent:
		customerID, orderNumber = e.CustomerID.String(), e.OrderNumber
		subject = fmt.Sprintf("Order %s confirmed", e.OrderNumber)
		body = fmt.Sprintf("We received your payment of %s for order %s. We are preparing your shipment.", e.TotalPrice.StringFixed(2), e.OrderNumber)
	case *order.OrderShippedEvent:
		customerID, orderNumber = e.CustomerID.String(), e.OrderNumber
		subject = fmt.Sprintf("Order %s shipped", e.OrderNumber)
		body = fmt.Sprintf("Your order %s is on its way.", e.OrderNumber)
	case *order.OrderDeliveredEvent:
		customerID, orderNumber = e.CustomerID.String(), e.OrderNumber
		subject = fmt.Sprintf("Order %s delivered", e.OrderNumber)
		body = fmt.Sprintf("Your order %s has been delivered. Enjoy!", e.OrderNumber)
	case *order.OrderCancelledEvent:
		customerID, orderNumber = e.CustomerID.String(), e.OrderNumber
		subject = fmt.Sprintf("Order %s cancelled", e.OrderNumber)
		body = fmt.Sprintf("Your order %s has been cancelled.", e.OrderNumber)
	case *order.OrderRefundedEvent:
		customerID, orderNumber = e.CustomerID.String(), e.OrderNumber
		subject = fmt.Sprintf("Order %s refunded", e.OrderNumber)
		body = fmt.Sprintf("Your refund of %s for order %s has been processed.", e.TotalPrice.StringFixed(2), e.OrderNumber)
	default:
		return nil
	}

	if err := h.sender.Send(ctx, customerID, subject, body); err != nil {
		h.logger.Error("failed to send order email",
			zap.String("order_number", orderNumber),
			zap.String("subject", subject),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*OrderEmailHandler)(nil)
