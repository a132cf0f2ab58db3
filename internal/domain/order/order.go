package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "payment_failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// CanTransitionTo checks if the payment status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusPaid || target == PaymentStatusFailed
	case PaymentStatusPaid:
		return target == PaymentStatusCancelled
	case PaymentStatusFailed, PaymentStatusCancelled:
		return false
	}
	return false
}

// ShippingStatus represents the shipping state of an order
type ShippingStatus string

const (
	ShippingStatusPending   ShippingStatus = "pending"
	ShippingStatusPreparing ShippingStatus = "preparing"
	ShippingStatusShipped   ShippingStatus = "shipped"
	ShippingStatusDelivered ShippingStatus = "delivered"
)

// CanTransitionTo checks if the shipping status can transition to the target status
func (s ShippingStatus) CanTransitionTo(target ShippingStatus) bool {
	switch s {
	case ShippingStatusPending:
		return target == ShippingStatusPreparing
	case ShippingStatusPreparing:
		return target == ShippingStatusShipped
	case ShippingStatusShipped:
		return target == ShippingStatusDelivered
	case ShippingStatusDelivered:
		return false
	}
	return false
}

// CancellationStatus represents the cancellation sub-flow state
type CancellationStatus string

const (
	CancellationStatusRequested CancellationStatus = "cancel_requested"
	CancellationStatusCancelled CancellationStatus = "cancelled"
)

// RefundStatus represents the refund sub-flow state
type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "refund_requested"
	RefundStatusRefunded  RefundStatus = "refunded"
)

// OrderItem is a line item in an order. The unit price is snapshotted at
// order time, so historical orders are immune to later price changes.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Amount returns quantity * unit price
func (i *OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a customer order. Its lifecycle is
// tracked on four axes: payment, shipping, and the optional cancellation
// and refund sub-flows. Orders are never physically deleted.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string      `gorm:"size:50;uniqueIndex;not null"`
	CustomerID  uuid.UUID   `gorm:"type:uuid;not null;index"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;references:ID"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Region      string          `gorm:"size:50"`

	PaymentStatus   PaymentStatus `gorm:"size:50;default:pending;index"`
	PaypalOrderID   string        `gorm:"size:255"`
	PaypalCaptureID string        `gorm:"size:255"`
	PaidAt          *time.Time

	ShippingStatus     ShippingStatus  `gorm:"size:50;default:pending;index"`
	ShippedAt          *time.Time
	DeliveredAt        *time.Time
	ShippingCommission decimal.Decimal `gorm:"type:decimal(10,2);default:0"`

	CancellationStatus *CancellationStatus `gorm:"size:50"`
	CancellationReason string              `gorm:"type:text"`
	CancelRequestedAt  *time.Time
	CancelledAt        *time.Time

	RefundStatus      *RefundStatus `gorm:"size:50"`
	RefundReason      string        `gorm:"type:text"`
	RefundRequestedAt *time.Time
	RefundedAt        *time.Time

	AffiliateCode string `gorm:"size:100"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order awaiting payment
func NewOrder(orderNumber string, customerID uuid.UUID, region string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Region:            region,
		Items:             make([]OrderItem, 0),
		Subtotal:          decimal.Zero,
		ShippingFee:       decimal.Zero,
		TotalPrice:        decimal.Zero,
		PaymentStatus:     PaymentStatusPending,
		ShippingStatus:    ShippingStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line item, snapshotting the unit price.
// Only allowed before payment.
func (o *Order) AddItem(productID uuid.UUID, quantity int, unitPrice valueobject.Money) (*OrderItem, error) {
	if o.PaymentStatus != PaymentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items after payment")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := OrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice.Amount(),
		CreatedAt: time.Now(),
	}
	o.Items = append(o.Items, item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return &o.Items[len(o.Items)-1], nil
}

// SetShippingFee sets the region-based shipping fee and recalculates the total
func (o *Order) SetShippingFee(fee valueobject.Money) error {
	if o.PaymentStatus != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change shipping fee after payment")
	}
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Shipping fee cannot be negative")
	}

	o.ShippingFee = fee.Amount()
	o.TotalPrice = o.Subtotal.Add(o.ShippingFee)
	o.UpdatedAt = time.Now()

	return nil
}

// SetAffiliateCode attaches a validated affiliate code to the order
func (o *Order) SetAffiliateCode(code string) {
	o.AffiliateCode = code
	o.UpdatedAt = time.Now()
}

// TotalQuantity returns the sum of all line item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	o.Subtotal = subtotal
	o.TotalPrice = subtotal.Add(o.ShippingFee)
}

// CapturePayment records a successful payment capture
func (o *Order) CapturePayment(paypalOrderID, paypalCaptureID string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot capture payment for order in %s status", o.PaymentStatus))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot capture payment for an order without items")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaypalOrderID = paypalOrderID
	o.PaypalCaptureID = paypalCaptureID
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// FailPayment records a failed payment capture
func (o *Order) FailPayment() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payment for order in %s status", o.PaymentStatus))
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPaymentFailedEvent(o))

	return nil
}

// MarkPreparing advances shipping to preparing after a successful allocation.
// The order must be paid. A paid-but-unallocated order is a valid, retryable
// state, so this is the only shipping transition gated on payment.
func (o *Order) MarkPreparing() error {
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("NOT_PAID", "Order must be paid before allocation")
	}
	if !o.ShippingStatus.CanTransitionTo(ShippingStatusPreparing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start preparing order in %s shipping status", o.ShippingStatus))
	}
	if o.CancellationStatus != nil {
		return shared.NewDomainError("CANCELLATION_PENDING", "Cannot allocate an order with a pending or approved cancellation")
	}

	o.ShippingStatus = ShippingStatusPreparing
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderAllocatedEvent(o))

	return nil
}

// MarkShipped advances shipping to shipped. The caller is responsible for
// verifying that allocations exist for all line items.
func (o *Order) MarkShipped() error {
	if !o.ShippingStatus.CanTransitionTo(ShippingStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship order in %s shipping status", o.ShippingStatus))
	}

	now := time.Now()
	o.ShippingStatus = ShippingStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// MarkDelivered advances shipping to delivered
func (o *Order) MarkDelivered() error {
	if !o.ShippingStatus.CanTransitionTo(ShippingStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s shipping status", o.ShippingStatus))
	}

	now := time.Now()
	o.ShippingStatus = ShippingStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// RecordShippingCommission stores the total partner commission earned on
// this order. Set once the order is delivered, from the sum of its
// shipment allocations.
func (o *Order) RecordShippingCommission(total decimal.Decimal) error {
	if o.ShippingStatus != ShippingStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record shipping commission in %s shipping status", o.ShippingStatus))
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Shipping commission cannot be negative")
	}

	o.ShippingCommission = total.Round(2)
	o.UpdatedAt = time.Now()
	return nil
}

// RequestCancellation opens the cancellation sub-flow.
// Shipped and delivered orders are not cancellable, only refundable.
func (o *Order) RequestCancellation(reason string) error {
	if o.ShippingStatus != ShippingStatusPending && o.ShippingStatus != ShippingStatusPreparing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s shipping status", o.ShippingStatus))
	}
	if o.CancellationStatus != nil {
		return shared.NewDomainError("ALREADY_REQUESTED", "Cancellation has already been requested")
	}

	now := time.Now()
	status := CancellationStatusRequested
	o.CancellationStatus = &status
	o.CancellationReason = reason
	o.CancelRequestedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewCancellationRequestedEvent(o, reason))

	return nil
}

// ApproveCancellation completes the cancellation sub-flow
func (o *Order) ApproveCancellation() error {
	if o.CancellationStatus == nil || *o.CancellationStatus != CancellationStatusRequested {
		return shared.NewDomainError("NO_PENDING_REQUEST", "No pending cancellation request")
	}

	now := time.Now()
	status := CancellationStatusCancelled
	o.CancellationStatus = &status
	o.CancelledAt = &now
	if o.PaymentStatus == PaymentStatusPaid {
		o.PaymentStatus = PaymentStatusCancelled
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// RequestRefund opens the refund sub-flow. Only delivered orders are refundable.
func (o *Order) RequestRefund(reason string) error {
	if o.ShippingStatus != ShippingStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund order in %s shipping status", o.ShippingStatus))
	}
	if o.RefundStatus != nil {
		return shared.NewDomainError("ALREADY_REQUESTED", "Refund has already been requested")
	}

	now := time.Now()
	status := RefundStatusRequested
	o.RefundStatus = &status
	o.RefundReason = reason
	o.RefundRequestedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewRefundRequestedEvent(o, reason))

	return nil
}

// ApproveRefund completes the refund sub-flow. The payment-gateway refund
// call is the caller's concern; shipped stock is not returned to the ledger.
func (o *Order) ApproveRefund() error {
	if o.RefundStatus == nil || *o.RefundStatus != RefundStatusRequested {
		return shared.NewDomainError("NO_PENDING_REQUEST", "No pending refund request")
	}

	now := time.Now()
	status := RefundStatusRefunded
	o.RefundStatus = &status
	o.RefundedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderRefundedEvent(o))

	return nil
}

// GetSubtotalMoney returns the subtotal as a Money value object
func (o *Order) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyPHP(o.Subtotal)
}

// GetTotalMoney returns the total price as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyPHP(o.TotalPrice)
}
