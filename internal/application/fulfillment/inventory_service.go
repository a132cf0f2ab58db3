package fulfillment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// InventoryService covers the admin side of partner stock: registering
// partners, assigning and replenishing stock, and manual count corrections.
// These writes are uncontended (single admin), so they go through plain
// repository saves rather than the version-guarded decrement path.
type InventoryService struct {
	partnerRepo    fulfillment.PartnerRepository
	ledger         fulfillment.InventoryLedger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	partnerRepo fulfillment.PartnerRepository,
	ledger fulfillment.InventoryLedger,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		partnerRepo:    partnerRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// RegisterPartnerRequest carries the admin input for creating a partner
type RegisterPartnerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Region  string `json:"region" binding:"required,region"`
}

// RegisterPartner creates a new fulfillment partner
func (s *InventoryService) RegisterPartner(ctx context.Context, req RegisterPartnerRequest) (*fulfillment.FulfillmentPartner, error) {
	partner, err := fulfillment.NewFulfillmentPartner(req.Name, req.Email, req.Region)
	if err != nil {
		return nil, err
	}
	partner.Phone = req.Phone
	partner.Address = req.Address

	if err := s.partnerRepo.Save(ctx, partner); err != nil {
		return nil, err
	}

	s.logger.Info("fulfillment partner registered",
		zap.String("partner_id", partner.ID.String()),
		zap.String("name", partner.Name),
		zap.String("region", partner.Region))

	return partner, nil
}

// SetPartnerActive activates or deactivates a partner's allocation eligibility
func (s *InventoryService) SetPartnerActive(ctx context.Context, partnerID uuid.UUID, active bool) (*fulfillment.FulfillmentPartner, error) {
	partner, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if active {
		partner.Activate()
	} else {
		partner.Deactivate()
	}

	if err := s.partnerRepo.Save(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// AssignStock assigns product stock to a partner. Creates the ledger row
// on first assignment, replenishes it on subsequent ones.
func (s *InventoryService) AssignStock(ctx context.Context, partnerID, productID uuid.UUID, quantity int) (*fulfillment.PartnerInventory, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Assigned quantity must be positive")
	}

	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return nil, err
	}

	inv, err := s.ledger.FindByPartnerAndProduct(ctx, partnerID, productID)
	switch {
	case err == nil:
		if err := inv.Replenish(quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		inv, err = fulfillment.NewPartnerInventory(partnerID, productID, quantity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.ledger.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("partner stock assigned",
		zap.String("partner_id", partnerID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
		zap.Int("remaining", inv.RemainingQuantity))

	return inv, nil
}

// AdjustStock corrects a partner's remaining quantity to a counted value.
// A reason is mandatory; the correction is published as an audit event.
func (s *InventoryService) AdjustStock(ctx context.Context, partnerID, productID uuid.UUID, newRemaining int, reason string) (*fulfillment.PartnerInventory, error) {
	inv, err := s.ledger.FindByPartnerAndProduct(ctx, partnerID, productID)
	if err != nil {
		return nil, err
	}

	if err := inv.Adjust(newRemaining, reason); err != nil {
		return nil, err
	}
	if err := s.ledger.Save(ctx, inv); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, inv.GetDomainEvents()...); err != nil {
			s.logger.Error("failed to publish stock adjustment event", zap.Error(err))
		}
		inv.ClearDomainEvents()
	}

	s.logger.Info("partner stock adjusted",
		zap.String("partner_id", partnerID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("new_remaining", newRemaining),
		zap.String("reason", reason))

	return inv, nil
}

// Availability reports per-partner and total availability for a product
type Availability struct {
	ProductID      uuid.UUID                      `json:"product_id"`
	TotalAvailable int                            `json:"total_available"`
	Partners       []fulfillment.PartnerInventory `json:"partners"`
}

// GetAvailability returns the current availability snapshot for a product
func (s *InventoryService) GetAvailability(ctx context.Context, productID uuid.UUID) (*Availability, error) {
	total, err := s.ledger.TotalAvailableQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}
	rows, err := s.ledger.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &Availability{
		ProductID:      productID,
		TotalAvailable: total,
		Partners:       rows,
	}, nil
}

// ListPartners returns partners matching the filter
func (s *InventoryService) ListPartners(ctx context.Context, filter shared.Filter) ([]fulfillment.FulfillmentPartner, error) {
	return s.partnerRepo.FindAll(ctx, filter)
}
