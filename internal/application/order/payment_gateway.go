package order

import (
	"context"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
)

// PaymentGateway abstracts the external payment provider (PayPal in
// production). Implementations live in infrastructure.
type PaymentGateway interface {
	// CreateOrder registers a pending payment with the provider and
	// returns the provider's order ID.
	CreateOrder(ctx context.Context, amount valueobject.Money, description string) (string, error)

	// CaptureOrder captures a previously created payment and returns
	// the provider's capture ID.
	CaptureOrder(ctx context.Context, gatewayOrderID string) (string, error)
}
