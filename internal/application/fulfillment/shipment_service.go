package fulfillment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// ShipmentService handles the partner-facing side of fulfillment:
// recording carrier and tracking info, and marking deliveries.
type ShipmentService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(scope TransactionScope, eventPublisher shared.EventPublisher, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		scope:          scope,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// RecordShipmentRequest carries a partner's tracking submission
type RecordShipmentRequest struct {
	OrderID        uuid.UUID `json:"order_id" binding:"required"`
	PartnerID      uuid.UUID `json:"partner_id" binding:"required"`
	Carrier        string    `json:"carrier" binding:"required"`
	TrackingNumber string    `json:"tracking_number" binding:"required"`
}

// RecordShipment records carrier and tracking info for a partner's share of
// an order. The partner must hold an allocation for the order, and every
// line item must be fully allocated before the order can advance to shipped.
// An order split across partners advances on the first tracking submission;
// later submissions only update their own shipment.
func (s *ShipmentService) RecordShipment(ctx context.Context, req RecordShipmentRequest) (*fulfillment.Shipment, error) {
	var (
		shipment *fulfillment.Shipment
		events   []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ord, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		allocations, err := repos.AllocationRepo().FindByOrder(ctx, ord.ID)
		if err != nil {
			return err
		}
		if !partnerHoldsAllocation(allocations, req.PartnerID) {
			return shared.NewDomainError("NOT_ALLOCATED_TO_PARTNER",
				fmt.Sprintf("partner %s holds no allocation for order %s", req.PartnerID, ord.OrderNumber))
		}
		if err := verifyFullyAllocated(ord, allocations); err != nil {
			return err
		}

		shipment, err = s.findOrCreateShipment(ctx, repos, ord.ID, req.PartnerID)
		if err != nil {
			return err
		}
		if err := shipment.RecordTracking(req.Carrier, req.TrackingNumber); err != nil {
			return err
		}
		if err := repos.ShipmentRepo().Save(ctx, shipment); err != nil {
			return err
		}
		events = append(events, shipment.GetDomainEvents()...)
		shipment.ClearDomainEvents()

		if ord.ShippingStatus == order.ShippingStatusPreparing {
			if err := ord.MarkShipped(); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, ord); err != nil {
				return err
			}
			events = append(events, ord.GetDomainEvents()...)
			ord.ClearDomainEvents()
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	s.logger.Info("shipment recorded",
		zap.String("order_id", req.OrderID.String()),
		zap.String("partner_id", req.PartnerID.String()),
		zap.String("carrier", req.Carrier))

	return shipment, nil
}

// CompleteDelivery marks a partner's shipment as delivered. Once every
// shipment of the order is delivered, the order itself advances to delivered.
func (s *ShipmentService) CompleteDelivery(ctx context.Context, shipmentID uuid.UUID) (*fulfillment.Shipment, error) {
	var (
		shipment *fulfillment.Shipment
		events   []shared.DomainEvent
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		shipment, err = repos.ShipmentRepo().FindByID(ctx, shipmentID)
		if err != nil {
			return err
		}
		if err := shipment.MarkDelivered(); err != nil {
			return err
		}
		if err := repos.ShipmentRepo().Save(ctx, shipment); err != nil {
			return err
		}
		events = append(events, shipment.GetDomainEvents()...)
		shipment.ClearDomainEvents()

		siblings, err := repos.ShipmentRepo().FindByOrder(ctx, shipment.OrderID)
		if err != nil {
			return err
		}
		if !allDelivered(siblings) {
			return nil
		}

		ord, err := repos.OrderRepo().FindByID(ctx, shipment.OrderID)
		if err != nil {
			return err
		}
		if err := ord.MarkDelivered(); err != nil {
			return err
		}

		allocations, err := repos.AllocationRepo().FindByOrder(ctx, ord.ID)
		if err != nil {
			return err
		}
		if err := ord.RecordShippingCommission(totalCommission(allocations)); err != nil {
			return err
		}

		if err := repos.OrderRepo().Save(ctx, ord); err != nil {
			return err
		}
		events = append(events, ord.GetDomainEvents()...)
		ord.ClearDomainEvents()

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	return shipment, nil
}

func (s *ShipmentService) findOrCreateShipment(
	ctx context.Context,
	repos TransactionalRepositories,
	orderID, partnerID uuid.UUID,
) (*fulfillment.Shipment, error) {
	shipment, err := repos.ShipmentRepo().FindByOrderAndPartner(ctx, orderID, partnerID)
	if err == nil {
		return shipment, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return fulfillment.NewShipment(orderID, partnerID)
}

// verifyFullyAllocated checks that every line item's allocations sum to
// exactly its ordered quantity
func verifyFullyAllocated(ord *order.Order, allocations []fulfillment.ShipmentAllocation) error {
	allocated := make(map[uuid.UUID]int, len(ord.Items))
	for _, a := range allocations {
		allocated[a.OrderItemID] += a.Quantity
	}
	for _, item := range ord.Items {
		if allocated[item.ID] != item.Quantity {
			return shared.NewDomainError("ORDER_NOT_FULLY_ALLOCATED",
				fmt.Sprintf("order %s has unallocated quantity and cannot be shipped", ord.OrderNumber))
		}
	}
	return nil
}

func partnerHoldsAllocation(allocations []fulfillment.ShipmentAllocation, partnerID uuid.UUID) bool {
	for _, a := range allocations {
		if a.PartnerID == partnerID {
			return true
		}
	}
	return false
}

// totalCommission sums the shipping commission earned across all of an
// order's allocations. The sum lands on the order once every shipment is
// delivered and feeds partner payout settlement.
func totalCommission(allocations []fulfillment.ShipmentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.ShippingCommission)
	}
	return total
}

func allDelivered(shipments []fulfillment.Shipment) bool {
	for _, sh := range shipments {
		if sh.Status != fulfillment.ShipmentStatusDelivered {
			return false
		}
	}
	return len(shipments) > 0
}

func (s *ShipmentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish shipment events", zap.Error(err))
	}
}
