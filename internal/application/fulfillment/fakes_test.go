package fulfillment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/fulfillment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
)

// memoryLedger is an in-memory InventoryLedger with real version-guard
// semantics. conflictsFor injects version conflicts: the first n
// TryDecrement calls for a partner fail with ErrVersionConflict while the
// row's version silently advances, mimicking a concurrent writer.
type memoryLedger struct {
	mu           sync.Mutex
	rows         map[string]*fulfillment.PartnerInventory
	conflictsFor map[uuid.UUID]int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		rows:         make(map[string]*fulfillment.PartnerInventory),
		conflictsFor: make(map[uuid.UUID]int),
	}
}

func ledgerKey(partnerID, productID uuid.UUID) string {
	return partnerID.String() + "/" + productID.String()
}

func (l *memoryLedger) put(inv *fulfillment.PartnerInventory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows[ledgerKey(inv.PartnerID, inv.ProductID)] = inv
}

func (l *memoryLedger) FindByPartnerAndProduct(_ context.Context, partnerID, productID uuid.UUID) (*fulfillment.PartnerInventory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	inv, ok := l.rows[ledgerKey(partnerID, productID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (l *memoryLedger) FindByProduct(_ context.Context, productID uuid.UUID) ([]fulfillment.PartnerInventory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []fulfillment.PartnerInventory
	for _, inv := range l.rows {
		if inv.ProductID == productID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (l *memoryLedger) AvailableQuantity(ctx context.Context, partnerID, productID uuid.UUID) (int, error) {
	inv, err := l.FindByPartnerAndProduct(ctx, partnerID, productID)
	if err != nil {
		return 0, err
	}
	return inv.RemainingQuantity, nil
}

func (l *memoryLedger) TotalAvailableQuantity(_ context.Context, productID uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, inv := range l.rows {
		if inv.ProductID == productID {
			total += inv.RemainingQuantity
		}
	}
	return total, nil
}

func (l *memoryLedger) TryDecrement(_ context.Context, partnerID, productID uuid.UUID, quantity, expectedVersion int) (*fulfillment.DecrementResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inv, ok := l.rows[ledgerKey(partnerID, productID)]
	if !ok {
		return nil, shared.ErrNotFound
	}

	if n := l.conflictsFor[partnerID]; n > 0 {
		l.conflictsFor[partnerID] = n - 1
		inv.IncrementVersion()
		return nil, shared.ErrVersionConflict
	}

	if inv.GetVersion() != expectedVersion {
		return nil, shared.ErrVersionConflict
	}
	if inv.RemainingQuantity < quantity {
		return nil, shared.ErrInsufficientStock
	}

	inv.RemainingQuantity -= quantity
	inv.IncrementVersion()
	return &fulfillment.DecrementResult{
		InventoryID:  inv.ID,
		NewRemaining: inv.RemainingQuantity,
		NewVersion:   inv.GetVersion(),
	}, nil
}

func (l *memoryLedger) Save(_ context.Context, inv *fulfillment.PartnerInventory) error {
	l.put(inv)
	return nil
}

type memoryPartnerRepo struct {
	mu       sync.Mutex
	partners map[uuid.UUID]*fulfillment.FulfillmentPartner
	ledger   *memoryLedger
}

func newMemoryPartnerRepo(ledger *memoryLedger) *memoryPartnerRepo {
	return &memoryPartnerRepo{
		partners: make(map[uuid.UUID]*fulfillment.FulfillmentPartner),
		ledger:   ledger,
	}
}

func (r *memoryPartnerRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.FulfillmentPartner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPartnerRepo) FindActive(_ context.Context) ([]fulfillment.FulfillmentPartner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.FulfillmentPartner
	for _, p := range r.partners {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memoryPartnerRepo) FindActiveByProduct(ctx context.Context, productID uuid.UUID) ([]fulfillment.FulfillmentPartner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.FulfillmentPartner
	for _, p := range r.partners {
		if !p.IsActive {
			continue
		}
		if _, ok := r.ledger.rows[ledgerKey(p.ID, productID)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memoryPartnerRepo) FindAll(_ context.Context, _ shared.Filter) ([]fulfillment.FulfillmentPartner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.FulfillmentPartner
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryPartnerRepo) Save(_ context.Context, partner *fulfillment.FulfillmentPartner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *memoryPartnerRepo) UpdateLastAllocatedAt(_ context.Context, partnerID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[partnerID]
	if !ok {
		return shared.ErrNotFound
	}
	p.LastAllocatedAt = &at
	return nil
}

type memoryAllocationRepo struct {
	mu          sync.Mutex
	allocations []fulfillment.ShipmentAllocation
	// orders backs the delivered-order check in commission sums; tests
	// that never query commissions can leave it nil
	orders *memoryOrderRepo
}

func newMemoryAllocationRepo() *memoryAllocationRepo {
	return &memoryAllocationRepo{}
}

func (r *memoryAllocationRepo) Save(_ context.Context, allocation *fulfillment.ShipmentAllocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocations = append(r.allocations, *allocation)
	return nil
}

func (r *memoryAllocationRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]fulfillment.ShipmentAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.ShipmentAllocation
	for _, a := range r.allocations {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryAllocationRepo) FindByOrderItem(_ context.Context, orderItemID uuid.UUID) ([]fulfillment.ShipmentAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.ShipmentAllocation
	for _, a := range r.allocations {
		if a.OrderItemID == orderItemID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryAllocationRepo) SumQuantityByOrderItem(_ context.Context, orderItemID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, a := range r.allocations {
		if a.OrderItemID == orderItemID {
			sum += a.Quantity
		}
	}
	return sum, nil
}

func (r *memoryAllocationRepo) SumShippingCommissionByPartner(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	allocations := append([]fulfillment.ShipmentAllocation(nil), r.allocations...)
	r.mu.Unlock()

	total := decimal.Zero
	for _, a := range allocations {
		if a.PartnerID != partnerID {
			continue
		}
		o, err := r.orders.FindByID(ctx, a.OrderID)
		if err != nil {
			return decimal.Zero, err
		}
		if o.ShippingStatus != order.ShippingStatusDelivered {
			continue
		}
		total = total.Add(a.ShippingCommission)
	}
	return total, nil
}

type memoryShipmentRepo struct {
	mu        sync.Mutex
	shipments map[uuid.UUID]*fulfillment.Shipment
}

func newMemoryShipmentRepo() *memoryShipmentRepo {
	return &memoryShipmentRepo{shipments: make(map[uuid.UUID]*fulfillment.Shipment)}
}

func (r *memoryShipmentRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memoryShipmentRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]fulfillment.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.Shipment
	for _, s := range r.shipments {
		if s.OrderID == orderID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memoryShipmentRepo) FindByOrderAndPartner(_ context.Context, orderID, partnerID uuid.UUID) (*fulfillment.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shipments {
		if s.OrderID == orderID && s.PartnerID == partnerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryShipmentRepo) Save(_ context.Context, shipment *fulfillment.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *shipment
	r.shipments[shipment.ID] = &cp
	return nil
}

type memoryOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order
}

func newMemoryOrderRepo() *memoryOrderRepo {
	return &memoryOrderRepo{orders: make(map[uuid.UUID]*order.Order)}
}

func (r *memoryOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *memoryOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			cp.Items = append([]order.OrderItem(nil), o.Items...)
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID, _ shared.Filter) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) FindPaidUnallocated(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []order.Order
	for _, o := range r.orders {
		if o.PaymentStatus == order.PaymentStatusPaid &&
			o.ShippingStatus == order.ShippingStatusPending &&
			o.CancellationStatus == nil {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	cp.Items = append([]order.OrderItem(nil), o.Items...)
	r.orders[o.ID] = &cp
	return nil
}

func (r *memoryOrderRepo) ExistsByOrderNumber(_ context.Context, orderNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

type memoryPayoutRepo struct {
	mu      sync.Mutex
	payouts map[uuid.UUID]*fulfillment.CommissionPayout
}

func newMemoryPayoutRepo() *memoryPayoutRepo {
	return &memoryPayoutRepo{payouts: make(map[uuid.UUID]*fulfillment.CommissionPayout)}
}

func (r *memoryPayoutRepo) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.CommissionPayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payouts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPayoutRepo) FindByPartner(_ context.Context, partnerID uuid.UUID, status fulfillment.PayoutStatus) ([]fulfillment.CommissionPayout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []fulfillment.CommissionPayout
	for _, p := range r.payouts {
		if p.PartnerID != partnerID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryPayoutRepo) Save(_ context.Context, payout *fulfillment.CommissionPayout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payout
	r.payouts[payout.ID] = &cp
	return nil
}

// capturingPublisher records every published event
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
	var types []string
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

// snapshottingScope wraps NoOpTransactionScope and restores the ledger and
// allocation repo when the wrapped function fails, imitating a rollback.
type snapshottingScope struct {
	inner       *NoOpTransactionScope
	ledger      *memoryLedger
	allocations *memoryAllocationRepo
	orders      *memoryOrderRepo
}

func (s *snapshottingScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	ledgerSnap := make(map[string]fulfillment.PartnerInventory, len(s.ledger.rows))
	for k, v := range s.ledger.rows {
		ledgerSnap[k] = *v
	}
	allocSnap := append([]fulfillment.ShipmentAllocation(nil), s.allocations.allocations...)
	orderSnap := make(map[uuid.UUID]order.Order, len(s.orders.orders))
	for k, v := range s.orders.orders {
		cp := *v
		cp.Items = append([]order.OrderItem(nil), v.Items...)
		orderSnap[k] = cp
	}

	err := s.inner.Execute(ctx, fn)
	if err != nil {
		s.ledger.rows = make(map[string]*fulfillment.PartnerInventory, len(ledgerSnap))
		for k, v := range ledgerSnap {
			cp := v
			s.ledger.rows[k] = &cp
		}
		s.allocations.allocations = allocSnap
		s.orders.orders = make(map[uuid.UUID]*order.Order, len(orderSnap))
		for k, v := range orderSnap {
			cp := v
			s.orders.orders[k] = &cp
		}
	}
	return err
}

// NoOpTransactionScope runs the callback without a real transaction,
// handing back the in-memory repositories it was built over.
type NoOpTransactionScope struct {
	ledger         fulfillment.InventoryLedger
	partnerRepo    fulfillment.PartnerRepository
	allocationRepo fulfillment.ShipmentAllocationRepository
	shipmentRepo   fulfillment.ShipmentRepository
	orderRepo      order.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	ledger fulfillment.InventoryLedger,
	partnerRepo fulfillment.PartnerRepository,
	allocationRepo fulfillment.ShipmentAllocationRepository,
	shipmentRepo fulfillment.ShipmentRepository,
	orderRepo order.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		ledger:         ledger,
		partnerRepo:    partnerRepo,
		allocationRepo: allocationRepo,
		shipmentRepo:   shipmentRepo,
		orderRepo:      orderRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Ledger() fulfillment.InventoryLedger { return s.ledger }

func (s *NoOpTransactionScope) PartnerRepo() fulfillment.PartnerRepository { return s.partnerRepo }

func (s *NoOpTransactionScope) AllocationRepo() fulfillment.ShipmentAllocationRepository {
	return s.allocationRepo
}

func (s *NoOpTransactionScope) ShipmentRepo() fulfillment.ShipmentRepository { return s.shipmentRepo }

func (s *NoOpTransactionScope) OrderRepo() order.Repository { return s.orderRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
