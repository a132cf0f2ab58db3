package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	apporder "github.com/keepselvesreal/k-beauty-landing-page/internal/application/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/config"
)

// PayPalGateway implements the payment gateway against the PayPal Orders v2
// API. Access tokens are cached until shortly before expiry.
type PayPalGateway struct {
	cfg    config.PaymentConfig
	client *http.Client
	logger *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewPayPalGateway creates a new PayPalGateway
func NewPayPalGateway(cfg config.PaymentConfig, logger *zap.Logger) *PayPalGateway {
	return &PayPalGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type captureResponse struct {
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder registers a pending payment and returns PayPal's order ID
func (g *PayPalGateway) CreateOrder(ctx context.Context, amount valueobject.Money, description string) (string, error) {
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"description": description,
			"amount": map[string]string{
				"currency_code": string(amount.Currency()),
				"value":         amount.Amount().StringFixed(2),
			},
		}},
	}

	var resp createOrderResponse
	if err := g.post(ctx, "/v2/checkout/orders", body, &resp); err != nil {
		return "", fmt.Errorf("paypal create order: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("paypal create order: empty order id in response")
	}
	return resp.ID, nil
}

// CaptureOrder captures a previously created payment
func (g *PayPalGateway) CaptureOrder(ctx context.Context, gatewayOrderID string) (string, error) {
	var resp captureResponse
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", gatewayOrderID)
	if err := g.post(ctx, path, map[string]interface{}{}, &resp); err != nil {
		return "", fmt.Errorf("paypal capture order: %w", err)
	}
	if resp.Status != "COMPLETED" {
		return "", fmt.Errorf("paypal capture order: unexpected status %q", resp.Status)
	}
	for _, unit := range resp.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			return unit.Payments.Captures[0].ID, nil
		}
	}
	return "", fmt.Errorf("paypal capture order: no capture id in response")
}

func (g *PayPalGateway) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	token, err := g.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		g.logger.Warn("paypal api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw))
		return fmt.Errorf("paypal returned status %d", resp.StatusCode)
	}
	return json.Unmarshal(raw, out)
}

// token returns a cached OAuth access token, refreshing when expired
func (g *PayPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.cfg.ClientID, g.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}

	g.accessToken = tr.AccessToken
	// Refresh a minute early so in-flight requests never carry a stale token
	g.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)

	return g.accessToken, nil
}

var _ apporder.PaymentGateway = (*PayPalGateway)(nil)
