package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staymi/internal/orders/repository"
	"staymi/internal/orders/validator"
	paymentservice "staymi/internal/payments/service"
	"staymi/pkg/auth"
	"staymi/pkg/config"
	mongodb "staymi/pkg/db/mongo"
	apperrors "staymi/pkg/errors"
	"staymi/pkg/events"
	"staymi/pkg/flow"
	"staymi/pkg/model"
	"staymi/pkg/sanitizer"
	"staymi/pkg/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// Catalog is the part of the hotel catalog checkout reads and reserves from.
type Catalog interface {
	Hotel(ctx context.Context, id string) (*model.Hotel, error)
	RoomType(ctx context.Context, id string) (*model.RoomType, error)
	RoomPlan(ctx context.Context, id string) (*model.RoomPlan, error)
	ProductPlan(ctx context.Context, id string) (*model.ProductPlan, error)
	CountAvailableRooms(ctx context.Context, roomTypeID string) (int64, error)
	ReserveStock(ctx context.Context, product *model.ProductPlan, quantity int) error
	RestoreStock(ctx context.Context, productPlanID string, quantity int) error
}

// AccountChecker rejects users whose account was disabled or removed after
// their token was issued.
type AccountChecker interface {
	EnsureActive(ctx context.Context, userID string) error
}

// TierResolver answers which subscription tier a user currently enjoys.
type TierResolver interface {
	EffectiveTier(ctx context.Context, userID string) (model.SubscriptionTier, error)
}

type OrderService interface {
	Quote(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Quote, error)
	Create(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error)
	Capture(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error)
	Cancel(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error)

	GetByID(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error)
	ListMine(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Order, int64, error)
	ListByHotel(ctx context.Context, principal *auth.Principal, hotelID string, limit int, offset int64) ([]*model.Order, int64, error)
	ListAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Order, int64, error)

	ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.PaymentReturn, error)

	// ExpireStale cancels up to limit pending orders whose hold lapsed and
	// gives their product stock back.
	ExpireStale(ctx context.Context, limit int) (int, error)
}

// checkout is the state threaded through the quote and order pipelines.
type checkout struct {
	principal *auth.Principal
	req       *model.CreateOrderRequest
	stay      *validator.Stay
	plan      *model.RoomPlan
	hotel     *model.Hotel
	roomType  *model.RoomType
	product   *model.ProductPlan
	tier      model.SubscriptionTier
	pricing   model.Pricing
	order     *model.Order
}

type orderService struct {
	orders    repository.OrderRepository
	catalog   Catalog
	accounts  AccountChecker
	tiers     TierResolver
	payments  paymentservice.PaymentService
	locks     mongodb.LockManager
	txManager mongodb.TransactionManager
	publisher events.Publisher
	validator *validator.OrderValidator
	cfg       *config.Config
	now       func() time.Time

	quotePipeline    *flow.Pipeline[checkout]
	checkoutPipeline *flow.Pipeline[checkout]
}

func NewOrderService(
	orders repository.OrderRepository,
	catalog Catalog,
	accounts AccountChecker,
	tiers TierResolver,
	payments paymentservice.PaymentService,
	locks mongodb.LockManager,
	txManager mongodb.TransactionManager,
	publisher events.Publisher,
	validator *validator.OrderValidator,
	cfg *config.Config,
) OrderService {
	s := &orderService{
		orders:    orders,
		catalog:   catalog,
		accounts:  accounts,
		tiers:     tiers,
		payments:  payments,
		locks:     locks,
		txManager: txManager,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       mongodb.Now,
	}

	validate := flow.NewStep("validate", s.validate)
	load := flow.NewStep("load catalog", s.load)
	tier := flow.NewStep("resolve tier", s.resolveTier)
	price := flow.NewStep("price", s.price)

	s.quotePipeline = flow.NewPipeline("quote", validate, load, tier, price)
	s.checkoutPipeline = flow.NewPipeline("checkout",
		flow.NewStep("check account", s.checkAccount),
		validate, load, tier, price,
		flow.NewStep("reserve", s.reserve),
		flow.NewStep("open payment", s.openPayment),
	)
	return s
}

func (s *orderService) Quote(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Quote, error) {
	c := &checkout{principal: principal, req: req}
	if err := s.quotePipeline.Run(ctx, c); err != nil {
		return nil, err
	}
	return &model.Quote{
		RoomPlanID:      c.plan.ID,
		HotelID:         c.hotel.ID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Nights:          c.stay.Nights,
		Guests:          req.Guests,
		ProductPlanID:   req.ProductPlanID,
		ProductQuantity: req.ProductQuantity,
		Pricing:         c.pricing,
	}, nil
}

func (s *orderService) Create(ctx context.Context, principal *auth.Principal, req *model.CreateOrderRequest) (*model.Order, error) {
	c := &checkout{principal: principal, req: req}
	if err := s.checkoutPipeline.Run(ctx, c); err != nil {
		return nil, err
	}

	s.cfg.Log.Ctx(ctx).Info("Order created",
		"order_id", c.order.ID,
		"hotel_id", c.order.HotelID,
		"room_type_id", c.order.RoomTypeID,
		"nights", c.order.Nights,
		"total", c.order.TotalAmount.StringFixed(2),
		"currency", c.order.Currency,
		"tier", c.order.SubscriptionTier,
	)
	s.publisher.Publish(ctx, model.EventOrderCreated, c.order.ID, c.order)
	return c.order, nil
}

func (s *orderService) checkAccount(ctx context.Context, c *checkout) error {
	return s.accounts.EnsureActive(ctx, c.principal.ID)
}

func (s *orderService) validate(ctx context.Context, c *checkout) error {
	req := c.req
	req.ContactName = sanitizer.NormalizeName(req.ContactName)
	req.ContactEmail = sanitizer.NormalizeEmail(req.ContactEmail)
	req.Note = strings.TrimSpace(req.Note)
	if req.ContactPhone != "" {
		if phone := sanitizer.NormalizePhone(req.ContactPhone); phone != "" {
			req.ContactPhone = phone
		}
	}
	if req.ProductPlanID == "" {
		req.ProductQuantity = 0
	}

	stay, err := s.validator.ValidateRequest(req, validator.Today(s.now()))
	if err != nil {
		s.cfg.Log.Ctx(ctx).Warn("Order validation failed", "room_plan_id", req.RoomPlanID, "error", err)
		return validation.ToAppError(err)
	}
	c.stay = stay
	return nil
}

func (s *orderService) load(ctx context.Context, c *checkout) error {
	plan, err := s.catalog.RoomPlan(ctx, c.req.RoomPlanID)
	if err != nil {
		return err
	}
	if !plan.Active {
		return apperrors.NotFoundWithID("Room plan", plan.ID)
	}

	hotel, err := s.catalog.Hotel(ctx, plan.HotelID)
	if err != nil {
		return err
	}
	if !hotel.IsActive() {
		return apperrors.NotFoundWithID("Hotel", hotel.ID)
	}

	roomType, err := s.catalog.RoomType(ctx, plan.RoomTypeID)
	if err != nil {
		return err
	}
	if c.req.Guests > roomType.Capacity {
		return validation.ToAppError(validation.Fail("guests", fmt.Sprintf("room sleeps at most %d guests", roomType.Capacity)))
	}
	if c.stay.Nights < plan.MinNights {
		return validation.ToAppError(validation.Fail("check_out", fmt.Sprintf("plan requires at least %d nights", plan.MinNights)))
	}

	if c.req.ProductPlanID != "" {
		product, err := s.catalog.ProductPlan(ctx, c.req.ProductPlanID)
		if err != nil {
			return err
		}
		switch {
		case !product.Active || product.HotelID != hotel.ID:
			return validation.ToAppError(validation.Fail("product_plan_id", "is not sold at this hotel"))
		case product.Currency != plan.Currency:
			return validation.ToAppError(validation.Fail("product_plan_id", "is priced in "+product.Currency+", plan in "+plan.Currency))
		}
		c.product = product
	}

	c.plan = plan
	c.hotel = hotel
	c.roomType = roomType
	return nil
}

func (s *orderService) resolveTier(ctx context.Context, c *checkout) error {
	tier, err := s.tiers.EffectiveTier(ctx, c.principal.ID)
	if err != nil {
		return err
	}
	c.tier = tier
	return nil
}

func (s *orderService) price(_ context.Context, c *checkout) error {
	c.pricing = ComputePrice(c.plan, c.stay.Nights, c.tier, c.product, c.req.ProductQuantity)
	return nil
}

func inventoryLockKey(roomTypeID string) string {
	return "inventory:room_type:" + roomTypeID
}

func (s *orderService) lockRoomType(ctx context.Context, roomTypeID string) (func(context.Context), error) {
	release, err := s.locks.Acquire(ctx, inventoryLockKey(roomTypeID), uuid.NewString(), s.cfg.InventoryLockTTL)
	if err != nil {
		if errors.Is(err, mongodb.ErrLocked) {
			return nil, apperrors.Conflict("This room type is being booked right now, please retry")
		}
		s.cfg.Log.Ctx(ctx).Error("Failed to acquire inventory lock", "room_type_id", roomTypeID, "error", err)
		return nil, apperrors.Internal("Failed to reserve room", err)
	}
	return release, nil
}

// ensureRoomFree answers 409 unless a room of the type is left for the stay
// once every other order holding one is counted. Callers hold the room type's
// lock.
func (s *orderService) ensureRoomFree(ctx context.Context, roomTypeID, checkIn, checkOut, excludeOrderID string) error {
	available, err := s.catalog.CountAvailableRooms(ctx, roomTypeID)
	if err != nil {
		return err
	}
	taken, err := s.orders.CountOverlapping(ctx, roomTypeID, checkIn, checkOut, s.now().Add(-s.cfg.PendingOrderTTL), excludeOrderID)
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "")
	}
	if taken < available {
		return nil
	}

	s.cfg.Log.Ctx(ctx).Info("Room type sold out", "room_type_id", roomTypeID, "available", available, "taken", taken)
	return apperrors.Conflict("No rooms left for the selected dates").WithDetails(map[string]any{
		"room_type_id": roomTypeID,
		"check_in":     checkIn,
		"check_out":    checkOut,
	})
}

// reserve holds the room type's lock while it counts free rooms and writes the
// pending order, so two checkouts cannot both take the last room.
func (s *orderService) reserve(ctx context.Context, c *checkout) error {
	roomTypeID := c.plan.RoomTypeID

	release, err := s.lockRoomType(ctx, roomTypeID)
	if err != nil {
		return err
	}
	defer release(context.WithoutCancel(ctx))

	if err := s.ensureRoomFree(ctx, roomTypeID, c.req.CheckIn, c.req.CheckOut, ""); err != nil {
		return err
	}

	order := s.newOrder(c)
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		order.ID = ""
		if c.product != nil {
			if err := s.catalog.ReserveStock(sessCtx, c.product, c.req.ProductQuantity); err != nil {
				return err
			}
		}
		return s.orders.Create(sessCtx, order)
	})
	if err != nil {
		return repoError(ctx, s.cfg.Log, err, "")
	}
	c.order = order
	return nil
}

func (s *orderService) newOrder(c *checkout) *model.Order {
	req := c.req
	return &model.Order{
		UserID:          c.principal.ID,
		HotelID:         c.hotel.ID,
		BrandID:         c.hotel.BrandID,
		RoomPlanID:      c.plan.ID,
		RoomTypeID:      c.plan.RoomTypeID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Nights:          c.stay.Nights,
		Guests:          req.Guests,
		ProductPlanID:   req.ProductPlanID,
		ProductQuantity: req.ProductQuantity,
		Pricing:         c.pricing,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Note:            req.Note,
		Status:          model.OrderPending,
	}
}

func (s *orderService) openPayment(ctx context.Context, c *checkout) error {
	order := c.order
	payment, err := s.payments.Initiate(ctx, paymentservice.InitiateInput{
		UserID:      order.UserID,
		Purpose:     model.PurposeOrder,
		ReferenceID: order.ID,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		Description: fmt.Sprintf("%s, %d night(s) at %s", c.plan.Name, order.Nights, c.hotel.Name),
	})
	if err != nil {
		if payment != nil {
			order.PaymentID = payment.ID
			if linkErr := s.orders.SetPayment(ctx, order.ID, payment.ID, "", ""); linkErr != nil {
				s.cfg.Log.Ctx(ctx).Error("Failed to link failed payment", "order_id", order.ID, "error", linkErr)
			}
		}
		s.failOpenedOrder(ctx, order)
		return err
	}

	if err := s.orders.SetPayment(ctx, order.ID, payment.ID, payment.ProviderOrderID, payment.ApprovalURL); err != nil {
		s.cfg.Log.Ctx(ctx).Error("Failed to link payment", "order_id", order.ID, "payment_id", payment.ID, "error", err)
		return apperrors.Internal("Failed to open payment", err)
	}
	order.PaymentID = payment.ID
	order.PayPalOrderID = payment.ProviderOrderID
	order.ApprovalURL = payment.ApprovalURL
	return nil
}

// failOpenedOrder gives the room and the product stock back when no PayPal
// order could be opened for a freshly reserved order.
func (s *orderService) failOpenedOrder(ctx context.Context, order *model.Order) {
	var failed bool
	err := s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		ok, err := s.orders.MarkPaymentFailed(sessCtx, order.ID)
		if err != nil || !ok {
			failed = false
			return err
		}
		failed = true
		return s.catalog.RestoreStock(sessCtx, order.ProductPlanID, order.ProductQuantity)
	})
	if err != nil {
		s.cfg.Log.Ctx(ctx).Error("Failed to release order after payment error", "order_id", order.ID, "error", err)
		return
	}
	if failed {
		order.Status = model.OrderPaymentFailed
		s.publisher.Publish(ctx, model.EventOrderPaymentFailed, order.ID, order)
	}
}

func (s *orderService) Capture(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
	order, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case model.OrderPaid:
		return order, nil
	case model.OrderPending:
	default:
		return nil, errNotPending(string(order.Status))
	}

	order, payment, err := s.settle(ctx, order)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPaid {
		return nil, apperrors.PaymentRequired("Payment was not completed").WithDetails(map[string]any{
			"order_id":     order.ID,
			"order_status": order.Status,
			"reason":       payment.FailureReason,
		})
	}
	return order, nil
}

// settle captures the order's payment and records the outcome on the payment
// and the order in one transaction. Gateway errors leave both untouched.
func (s *orderService) settle(ctx context.Context, order *model.Order) (*model.Order, *model.Payment, error) {
	log := s.cfg.Log.Ctx(ctx)
	if order.PaymentID == "" {
		return nil, nil, apperrors.Conflict("Order has no payment to capture")
	}

	release, err := s.rehold(ctx, order)
	if err != nil {
		return nil, nil, err
	}
	defer release(context.WithoutCancel(ctx))

	payment, err := s.payments.FindByID(ctx, order.PaymentID)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.payments.Capture(ctx, payment)
	if err != nil {
		return nil, nil, err
	}

	var transitioned bool
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		transitioned = false
		if err := s.payments.RecordCapture(sessCtx, payment, result); err != nil {
			return err
		}
		if result.Completed {
			ok, err := s.orders.MarkPaid(sessCtx, order.ID, s.now())
			transitioned = ok
			return err
		}
		ok, err := s.orders.MarkPaymentFailed(sessCtx, order.ID)
		if err != nil || !ok {
			return err
		}
		transitioned = true
		return s.catalog.RestoreStock(sessCtx, order.ProductPlanID, order.ProductQuantity)
	})
	if err != nil {
		return nil, nil, repoError(ctx, s.cfg.Log, err, order.ID)
	}

	updated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, nil, repoError(ctx, s.cfg.Log, err, order.ID)
	}
	if result.Completed && updated.Status != model.OrderPaid {
		// TODO: refund captures that land on an order cancelled while the capture was in flight.
		log.Error("Payment captured for an order that is no longer pending",
			"order_id", order.ID,
			"status", updated.Status,
			"payment_id", payment.ID,
			"capture_id", result.CaptureID,
		)
	}
	if !transitioned {
		return updated, payment, nil
	}

	s.payments.PublishOutcome(ctx, payment)
	if result.Completed {
		log.Info("Order paid", "order_id", order.ID, "payment_id", payment.ID)
		s.publisher.Publish(ctx, model.EventOrderPaid, order.ID, updated)
	} else {
		log.Warn("Order payment failed", "order_id", order.ID, "payment_id", payment.ID, "reason", result.FailureReason)
		s.publisher.Publish(ctx, model.EventOrderPaymentFailed, order.ID, updated)
	}
	return updated, payment, nil
}

// rehold makes sure a pending order still has its room before the payment is
// captured. Once the hold lapsed the room type is locked and recounted without
// the order; the lock stays held until the capture is recorded. When the room
// went to another order, this one expires and 409 is returned.
func (s *orderService) rehold(ctx context.Context, order *model.Order) (func(context.Context), error) {
	if order.HoldsInventory(s.now(), s.cfg.PendingOrderTTL) {
		return func(context.Context) {}, nil
	}

	release, err := s.lockRoomType(ctx, order.RoomTypeID)
	if err != nil {
		return nil, err
	}
	freeErr := s.ensureRoomFree(ctx, order.RoomTypeID, order.CheckIn, order.CheckOut, order.ID)
	if freeErr == nil {
		s.cfg.Log.Ctx(ctx).Info("Renewed lapsed room hold", "order_id", order.ID, "room_type_id", order.RoomTypeID)
		return release, nil
	}
	defer release(context.WithoutCancel(ctx))
	if !apperrors.HasCode(freeErr, apperrors.CodeConflict) {
		return nil, freeErr
	}

	if _, err := s.expire(ctx, order); err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, order.ID)
	}
	return nil, apperrors.Conflict("The room hold lapsed and the room was booked by someone else").WithDetails(map[string]any{
		"order_id":     order.ID,
		"order_status": model.OrderCancelled,
	})
}

// expire cancels a pending order whose hold lapsed and restores its product
// stock. False means the order was no longer pending or still inside its hold.
func (s *orderService) expire(ctx context.Context, order *model.Order) (bool, error) {
	now := s.now()
	var expired bool
	err := s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		ok, err := s.orders.Expire(sessCtx, order.ID, now.Add(-s.cfg.PendingOrderTTL), now)
		expired = ok
		if err != nil || !ok {
			return err
		}
		return s.catalog.RestoreStock(sessCtx, order.ProductPlanID, order.ProductQuantity)
	})
	if err != nil || !expired {
		return false, err
	}

	order.Status = model.OrderCancelled
	order.CancelledAt = &now
	s.cfg.Log.Ctx(ctx).Info("Pending order expired", "order_id", order.ID, "created_at", order.CreatedAt)
	s.publisher.Publish(ctx, model.EventOrderExpired, order.ID, order)
	return true, nil
}

func (s *orderService) ExpireStale(ctx context.Context, limit int) (int, error) {
	log := s.cfg.Log.Ctx(ctx)
	stale, err := s.orders.FindStalePending(ctx, s.now().Add(-s.cfg.PendingOrderTTL), limit)
	if err != nil {
		return 0, repoError(ctx, s.cfg.Log, err, "")
	}

	var expired int
	for _, order := range stale {
		// A checkout renewing this order's hold owns the lock; leave it alone.
		release, err := s.lockRoomType(ctx, order.RoomTypeID)
		if err != nil {
			log.Debug("Skipping stale order", "order_id", order.ID, "error", err)
			continue
		}
		ok, err := s.expire(ctx, order)
		release(context.WithoutCancel(ctx))
		if err != nil {
			log.Error("Failed to expire order", "order_id", order.ID, "error", err)
			continue
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (s *orderService) Cancel(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
	order, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderPending {
		return nil, errNotPending(string(order.Status))
	}

	var cancelled bool
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		ok, err := s.orders.Cancel(sessCtx, order.ID, s.now())
		cancelled = ok
		if err != nil || !ok {
			return err
		}
		return s.catalog.RestoreStock(sessCtx, order.ProductPlanID, order.ProductQuantity)
	})
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, id)
	}

	updated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, id)
	}
	if !cancelled {
		return nil, errNotPending(string(updated.Status))
	}

	s.cfg.Log.Ctx(ctx).Info("Order cancelled", "order_id", id)
	s.publisher.Publish(ctx, model.EventOrderCancelled, id, updated)
	return updated, nil
}

func (s *orderService) GetByID(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, id)
	}
	if !canView(principal, order) {
		return nil, apperrors.NotFoundWithID("Order", id)
	}
	return order, nil
}

func canView(principal *auth.Principal, order *model.Order) bool {
	switch principal.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleStore:
		return principal.BrandID != "" && principal.BrandID == order.BrandID
	}
	return order.UserID == principal.ID
}

// owned loads an order the principal placed. Other users' orders look missing.
func (s *orderService) owned(ctx context.Context, principal *auth.Principal, id string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, id)
	}
	if order.UserID != principal.ID {
		return nil, apperrors.NotFoundWithID("Order", id)
	}
	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, principal *auth.Principal, limit int, offset int64) ([]*model.Order, int64, error) {
	return s.find(ctx, repository.Filter{UserID: principal.ID}, limit, offset)
}

func (s *orderService) ListByHotel(ctx context.Context, principal *auth.Principal, hotelID string, limit int, offset int64) ([]*model.Order, int64, error) {
	hotel, err := s.catalog.Hotel(ctx, hotelID)
	if err != nil {
		return nil, 0, err
	}
	if principal.Role != auth.RoleAdmin && (principal.BrandID == "" || principal.BrandID != hotel.BrandID) {
		return nil, 0, apperrors.Forbidden("Hotel belongs to another brand")
	}
	return s.find(ctx, repository.Filter{HotelID: hotel.ID}, limit, offset)
}

func (s *orderService) ListAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Order, int64, error) {
	filter := repository.Filter{Status: model.OrderStatus(status)}
	switch filter.Status {
	case "", model.OrderPending, model.OrderPaid, model.OrderCancelled, model.OrderPaymentFailed:
	default:
		return nil, 0, apperrors.InvalidInput("Unknown order status: " + status)
	}
	return s.find(ctx, filter, limit, offset)
}

func (s *orderService) find(ctx context.Context, filter repository.Filter, limit int, offset int64) ([]*model.Order, int64, error) {
	orders, total, err := s.orders.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, repoError(ctx, s.cfg.Log, err, "")
	}
	return orders, total, nil
}

// ReconcilePayment settles the order a PayPal redirect came back for. Orders
// that already left pending are answered as they are.
func (s *orderService) ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.PaymentReturn, error) {
	order, err := s.orders.FindByID(ctx, payment.ReferenceID)
	if err != nil {
		return nil, repoError(ctx, s.cfg.Log, err, payment.ReferenceID)
	}
	if order.Status != model.OrderPending || order.PaymentID != payment.ID {
		return &model.PaymentReturn{Payment: payment, Order: order}, nil
	}

	order, settled, err := s.settle(ctx, order)
	if err != nil {
		return nil, err
	}
	return &model.PaymentReturn{Payment: settled, Order: order}, nil
}
