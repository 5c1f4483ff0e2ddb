package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"staymi/internal/orders/repository"
	paymentservice "staymi/internal/payments/service"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// memoryOrders keeps orders in a map and applies the same pending-only
// transitions as the Mongo repository.
type memoryOrders struct {
	orders map[string]*model.Order
	nextID int
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: map[string]*model.Order{}}
}

func (m *memoryOrders) put(o *model.Order) {
	cp := *o
	m.orders[o.ID] = &cp
}

func (m *memoryOrders) Create(_ context.Context, order *model.Order) error {
	m.nextID++
	order.ID = fmt.Sprintf("%024x", m.nextID)
	order.CreatedAt = fixedNow
	order.UpdatedAt = fixedNow
	m.put(order)
	return nil
}

// seed stores an order placed by someone else on the fixture's room type.
func (m *memoryOrders) seed(status model.OrderStatus, checkIn, checkOut string, createdAt time.Time) *model.Order {
	m.nextID++
	o := &model.Order{
		ID:         fmt.Sprintf("%024x", m.nextID),
		UserID:     "user-9",
		HotelID:    hotelID,
		BrandID:    brandID,
		RoomPlanID: planID,
		RoomTypeID: roomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	m.put(o)
	return o
}

func (m *memoryOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryOrders) Find(_ context.Context, filter repository.Filter, _ int, _ int64) ([]*model.Order, int64, error) {
	var out []*model.Order
	for _, o := range m.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.HotelID != "" && o.HotelID != filter.HotelID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *memoryOrders) CountOverlapping(_ context.Context, roomTypeID, checkIn, checkOut string, pendingSince time.Time, excludeID string) (int64, error) {
	var n int64
	for _, o := range m.orders {
		if o.ID == excludeID || o.RoomTypeID != roomTypeID {
			continue
		}
		if o.CheckIn >= checkOut || o.CheckOut <= checkIn {
			continue
		}
		if o.Status == model.OrderPaid || (o.Status == model.OrderPending && o.CreatedAt.After(pendingSince)) {
			n++
		}
	}
	return n, nil
}

func (m *memoryOrders) CountActiveByHotel(context.Context, string) (int64, error) {
	return 0, nil
}

func (m *memoryOrders) SetPayment(_ context.Context, id, paymentID, paypalOrderID, approvalURL string) error {
	o, ok := m.orders[id]
	if !ok {
		return mongodb.ErrNotFound
	}
	o.PaymentID = paymentID
	o.PayPalOrderID = paypalOrderID
	o.ApprovalURL = approvalURL
	return nil
}

func (m *memoryOrders) transition(id string, to model.OrderStatus, apply func(o *model.Order)) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != model.OrderPending {
		return false, nil
	}
	o.Status = to
	apply(o)
	return true, nil
}

func (m *memoryOrders) MarkPaid(_ context.Context, id string, at time.Time) (bool, error) {
	return m.transition(id, model.OrderPaid, func(o *model.Order) { o.PaidAt = &at })
}

func (m *memoryOrders) MarkPaymentFailed(_ context.Context, id string) (bool, error) {
	return m.transition(id, model.OrderPaymentFailed, func(*model.Order) {})
}

func (m *memoryOrders) Cancel(_ context.Context, id string, at time.Time) (bool, error) {
	return m.transition(id, model.OrderCancelled, func(o *model.Order) { o.CancelledAt = &at })
}

func (m *memoryOrders) FindStalePending(_ context.Context, cutoff time.Time, limit int) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range m.orders {
		if o.Status == model.OrderPending && !o.CreatedAt.After(cutoff) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryOrders) Expire(_ context.Context, id string, cutoff, at time.Time) (bool, error) {
	if o, ok := m.orders[id]; !ok || o.CreatedAt.After(cutoff) {
		return false, nil
	}
	return m.transition(id, model.OrderCancelled, func(o *model.Order) { o.CancelledAt = &at })
}

type fakeCatalog struct {
	hotel      *model.Hotel
	roomType   *model.RoomType
	plan       *model.RoomPlan
	product    *model.ProductPlan
	available  int64
	reserveErr error
	reserved   int
	restored   int
}

func (c *fakeCatalog) Hotel(_ context.Context, id string) (*model.Hotel, error) {
	if c.hotel == nil || c.hotel.ID != id {
		return nil, apperrors.NotFoundWithID("Hotel", id)
	}
	return c.hotel, nil
}

func (c *fakeCatalog) RoomType(_ context.Context, id string) (*model.RoomType, error) {
	if c.roomType == nil || c.roomType.ID != id {
		return nil, apperrors.NotFoundWithID("Room type", id)
	}
	return c.roomType, nil
}

func (c *fakeCatalog) RoomPlan(_ context.Context, id string) (*model.RoomPlan, error) {
	if c.plan == nil || c.plan.ID != id {
		return nil, apperrors.NotFoundWithID("Room plan", id)
	}
	return c.plan, nil
}

func (c *fakeCatalog) ProductPlan(_ context.Context, id string) (*model.ProductPlan, error) {
	if c.product == nil || c.product.ID != id {
		return nil, apperrors.NotFoundWithID("Product plan", id)
	}
	return c.product, nil
}

func (c *fakeCatalog) CountAvailableRooms(context.Context, string) (int64, error) {
	return c.available, nil
}

func (c *fakeCatalog) ReserveStock(_ context.Context, _ *model.ProductPlan, quantity int) error {
	if c.reserveErr != nil {
		return c.reserveErr
	}
	c.reserved += quantity
	return nil
}

func (c *fakeCatalog) RestoreStock(_ context.Context, productPlanID string, quantity int) error {
	if productPlanID != "" {
		c.restored += quantity
	}
	return nil
}

type fakeAccounts struct {
	err     error
	checked []string
}

func (a *fakeAccounts) EnsureActive(_ context.Context, userID string) error {
	a.checked = append(a.checked, userID)
	return a.err
}

type stubTier model.SubscriptionTier

func (s stubTier) EffectiveTier(context.Context, string) (model.SubscriptionTier, error) {
	return model.SubscriptionTier(s), nil
}

type fakeLocks struct {
	err      error
	keys     []string
	released int
}

func (l *fakeLocks) Acquire(_ context.Context, key, _ string, _ time.Duration) (func(context.Context), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	return func(context.Context) { l.released++ }, nil
}

// fakePayments embeds the interface so unused methods panic if reached.
type fakePayments struct {
	paymentservice.PaymentService

	initiate  func(in paymentservice.InitiateInput) (*model.Payment, error)
	capture   func(p *model.Payment) (*paymentservice.CaptureResult, error)
	payments  map[string]*model.Payment
	captures  int
	published []model.PaymentStatus
}

func newFakePayments() *fakePayments {
	f := &fakePayments{payments: map[string]*model.Payment{}}
	f.initiate = func(in paymentservice.InitiateInput) (*model.Payment, error) {
		p := &model.Payment{
			ID:              fmt.Sprintf("pay-%d", len(f.payments)+1),
			UserID:          in.UserID,
			Purpose:         in.Purpose,
			ReferenceID:     in.ReferenceID,
			Amount:          in.Amount,
			Currency:        in.Currency,
			Status:          model.PaymentCreated,
			ProviderOrderID: "PP-ORDER-1",
			ApprovalURL:     "https://www.sandbox.paypal.com/checkoutnow?token=PP-ORDER-1",
		}
		f.payments[p.ID] = p
		return p, nil
	}
	f.capture = func(p *model.Payment) (*paymentservice.CaptureResult, error) {
		return &paymentservice.CaptureResult{Completed: true, CaptureID: "CAP-1", ProviderStatus: "COMPLETED"}, nil
	}
	return f
}

func (f *fakePayments) Initiate(_ context.Context, in paymentservice.InitiateInput) (*model.Payment, error) {
	return f.initiate(in)
}

func (f *fakePayments) FindByID(_ context.Context, id string) (*model.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.NotFoundWithID("Payment", id)
	}
	return p, nil
}

func (f *fakePayments) Capture(_ context.Context, p *model.Payment) (*paymentservice.CaptureResult, error) {
	f.captures++
	return f.capture(p)
}

func (f *fakePayments) RecordCapture(_ context.Context, p *model.Payment, result *paymentservice.CaptureResult) error {
	if result.Completed {
		p.Status = model.PaymentCompleted
		p.CaptureID = result.CaptureID
	} else {
		p.Status = model.PaymentFailed
		p.FailureReason = result.FailureReason
	}
	p.ProviderStatus = result.ProviderStatus
	return nil
}

func (f *fakePayments) PublishOutcome(_ context.Context, p *model.Payment) {
	f.published = append(f.published, p.Status)
}

type inlineTransactions struct {
	calls int
}

func (m *inlineTransactions) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	m.calls++
	return fn(mongo.NewSessionContext(ctx, nil))
}
