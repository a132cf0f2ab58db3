package order

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	fulfillmentapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/affiliate"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/catalog"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
)

type memoryOrderRepo struct {
	mu           sync.Mutex
	orders       map[uuid.UUID]*order.Order
	existsAlways bool
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *ord
	return &cp, nil
}

func (r *memoryOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.OrderNumber == orderNumber {
			cp := *ord
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, ord := range r.orders {
		if ord.CustomerID == customerID {
			out = append(out, *ord)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) FindPaidUnallocated(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, ord := range r.orders {
		if ord.PaymentStatus == order.PaymentStatusPaid &&
			ord.ShippingStatus == order.ShippingStatusPending &&
			ord.CancellationStatus == nil {
			out = append(out, *ord)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	// The real repository never persists pending domain events
	// (the field is gorm:"-"), so the stored copy must not either.
	cp.ClearDomainEvents()
	r.orders[o.ID] = &cp
	return nil
}

func (r *memoryOrderRepo) ExistsByOrderNumber(_ context.Context, orderNumber string) (bool, error) {
	if r.existsAlways {
		return true, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

type memoryProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProductRepo) FindActive(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type memoryRateRepo struct {
	rates map[string]*order.ShippingRate
}

func newMemoryRateRepo() *memoryRateRepo {
	repo := &memoryRateRepo{rates: make(map[string]*order.ShippingRate)}
	for region, fee := range map[string]string{
		order.RegionNCR:      "80",
		order.RegionLuzon:    "120",
		order.RegionVisayas:  "150",
		order.RegionMindanao: "180",
	} {
		rate, _ := order.NewShippingRate(region, decimal.RequireFromString(fee))
		repo.rates[region] = rate
	}
	return repo
}

func (r *memoryRateRepo) FindByRegion(_ context.Context, region string) (*order.ShippingRate, error) {
	rate, ok := r.rates[region]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rate, nil
}

func (r *memoryRateRepo) FindAll(_ context.Context) ([]order.ShippingRate, error) {
	var out []order.ShippingRate
	for _, rate := range r.rates {
		out = append(out, *rate)
	}
	return out, nil
}

func (r *memoryRateRepo) Save(_ context.Context, rate *order.ShippingRate) error {
	r.rates[rate.Region] = rate
	return nil
}

type memoryAffiliateRepo struct {
	affiliates map[string]*affiliate.Affiliate
}

func newMemoryAffiliateRepo() *memoryAffiliateRepo {
	return &memoryAffiliateRepo{affiliates: make(map[string]*affiliate.Affiliate)}
}

func (r *memoryAffiliateRepo) FindByCode(_ context.Context, code string) (*affiliate.Affiliate, error) {
	a, ok := r.affiliates[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *memoryAffiliateRepo) Save(_ context.Context, a *affiliate.Affiliate) error {
	r.affiliates[a.Code] = a
	return nil
}

// stubLedger serves the checkout availability preflight. Checkout only sums
// per-product availability; the write-side methods are not reachable from
// the order service.
type stubLedger struct {
	totals map[uuid.UUID]int
}

func newStubLedger() *stubLedger {
	return &stubLedger{totals: make(map[uuid.UUID]int)}
}

func (l *stubLedger) FindByPartnerAndProduct(context.Context, uuid.UUID, uuid.UUID) (*fulfillment.PartnerInventory, error) {
	return nil, shared.ErrNotFound
}

func (l *stubLedger) FindByProduct(context.Context, uuid.UUID) ([]fulfillment.PartnerInventory, error) {
	return nil, nil
}

func (l *stubLedger) AvailableQuantity(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return 0, nil
}

func (l *stubLedger) TotalAvailableQuantity(_ context.Context, productID uuid.UUID) (int, error) {
	return l.totals[productID], nil
}

func (l *stubLedger) TryDecrement(context.Context, uuid.UUID, uuid.UUID, int, int) (*fulfillment.DecrementResult, error) {
	return nil, shared.ErrNotFound
}

func (l *stubLedger) Save(context.Context, *fulfillment.PartnerInventory) error {
	return nil
}

type stubGateway struct {
	createErr    error
	captureErr   error
	createCalls  int
	captureCalls int
	lastAmount   valueobject.Money
}

func (g *stubGateway) CreateOrder(_ context.Context, amount valueobject.Money, _ string) (string, error) {
	g.createCalls++
	g.lastAmount = amount
	if g.createErr != nil {
		return "", g.createErr
	}
	return "PAYPAL-ORDER-1", nil
}

func (g *stubGateway) CaptureOrder(_ context.Context, _ string) (string, error) {
	g.captureCalls++
	if g.captureErr != nil {
		return "", g.captureErr
	}
	return "CAPTURE-1", nil
}

// stubAllocator stands in for the allocation engine. On success it advances
// the order to preparing the way the real engine does inside its transaction.
type stubAllocator struct {
	repo  *memoryOrderRepo
	err   error
	calls int
}

func (a *stubAllocator) AllocateOrder(ctx context.Context, orderID uuid.UUID) (*fulfillmentapp.AllocationResult, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	ord, err := a.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ord.MarkPreparing(); err != nil {
		return nil, err
	}
	ord.ClearDomainEvents()
	if err := a.repo.Save(ctx, ord); err != nil {
		return nil, err
	}
	return &fulfillmentapp.AllocationResult{OrderID: orderID, OrderNumber: ord.OrderNumber}, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

func (p *capturingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
