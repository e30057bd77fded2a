package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storehours"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const orderCodeLength = 6

// checkoutService implements CheckoutService as a staged pipeline:
// form, schedule, items, pricing, persistence. Each stage either hands a
// richer state to the next one or rejects with a domain error.
type checkoutService struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	couponRepo  repository.CouponRepository
	metrics     *metrics.Registry
	now         func() time.Time
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	couponRepo repository.CouponRepository,
	m *metrics.Registry,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		couponRepo:  couponRepo,
		metrics:     m,
		now:         time.Now,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// checkoutState accumulates what each stage learns about the attempt.
type checkoutState struct {
	req          *model.CheckoutRequest
	store        *model.Store
	now          time.Time
	scheduledFor *time.Time
	products     map[string]*model.Product
	options      map[string]model.ModifierOption
	lines        []model.LineTotal
	quantities   map[string]int
	coupon       *model.Coupon
	totals       model.Totals
}

// Submit runs the checkout pipeline.
func (s *checkoutService) Submit(ctx context.Context, req *model.CheckoutRequest) (result *model.CheckoutResult, err error) {
	start := time.Now()
	defer func() {
		code := "OK"
		if err != nil {
			code = model.ErrorCode(err)
		}
		s.metrics.ObserveCheckout(code, time.Since(start))
	}()

	if req == nil {
		return nil, model.ErrValidation.WithDetails(checkout.ErrCartEmpty)
	}

	st := &checkoutState{req: req, now: s.now()}

	stages := []struct {
		name string
		run  func(context.Context, *checkoutState) error
	}{
		{"store", s.loadStore},
		{"form", s.validateForm},
		{"schedule", s.checkSchedule},
		{"items", s.checkItems},
		{"pricing", s.price},
	}
	for _, stage := range stages {
		if err := stage.run(ctx, st); err != nil {
			s.logRejection(stage.name, req, err)
			return nil, err
		}
	}

	result, err = s.persist(ctx, st)
	if err != nil {
		s.logRejection("persist", req, err)
		return nil, err
	}

	s.logger.Info().
		Str("order_id", result.Order.ID.String()).
		Str("order_code", result.Order.Code).
		Str("store_id", st.store.ID).
		Str("channel", req.Channel).
		Float64("total", result.Totals.Total).
		Bool("scheduled", st.scheduledFor != nil).
		Msg("order created successfully")

	return result, nil
}

func (s *checkoutService) logRejection(stage string, req *model.CheckoutRequest, err error) {
	var de *model.DomainError
	if errors.As(err, &de) {
		s.logger.Info().
			Str("stage", stage).
			Str("store_id", req.StoreID).
			Str("code", de.Code).
			Strs("details", de.Details).
			Msg("checkout rejected")
		return
	}
	s.logger.Error().Err(err).Str("stage", stage).Str("store_id", req.StoreID).Msg("checkout failed")
}

func (s *checkoutService) loadStore(ctx context.Context, st *checkoutState) error {
	if strings.TrimSpace(st.req.StoreID) == "" {
		return model.ErrStoreNotFound
	}

	store, err := s.storeRepo.GetByID(ctx, st.req.StoreID)
	if err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if store == nil || !store.IsActive {
		return model.ErrStoreNotFound
	}

	st.store = store
	return nil
}

func (s *checkoutService) validateForm(_ context.Context, st *checkoutState) error {
	v := checkout.ValidateForm(st.req, st.store.Settings.Checkout.Mode)
	if !v.IsValid {
		return model.ErrValidation.WithDetails(v.Errors...)
	}
	return nil
}

// checkSchedule admits the order when the store is open now or when a
// valid future slot is requested. While the store is closed any schedule
// problem is reported as STORE_CLOSED, with the reason in the details.
func (s *checkoutService) checkSchedule(_ context.Context, st *checkoutState) error {
	store := st.store

	loc, err := storehours.LoadLocation(store.Timezone)
	if err != nil {
		s.logger.Warn().Err(err).Str("store_id", store.ID).Msg("invalid store timezone, using default")
		loc, _ = storehours.LoadLocation("")
	}

	hours := store.Settings.BusinessHours
	open := storehours.GetStatus(hours, st.now, loc).IsOpen

	reject := func(reason string) error {
		if !open {
			return model.ErrStoreClosed.WithDetails(reason)
		}
		return model.ErrScheduleInvalid.WithDetails(reason)
	}

	if !st.req.IsScheduled() {
		if !open {
			return model.ErrStoreClosed
		}
		return nil
	}

	if !store.Settings.Scheduling.Enabled {
		return reject("this store does not accept scheduled orders")
	}

	requested, err := requestedTime(st.req, loc)
	if err != nil {
		return reject(err.Error())
	}

	v := storehours.ValidateScheduledTime(requested, st.now, hours, loc,
		storehours.OptionsFromSettings(store.Settings.Scheduling))
	if !v.Valid {
		return reject(v.Reason)
	}

	st.scheduledFor = &requested
	return nil
}

func requestedTime(req *model.CheckoutRequest, loc *time.Location) (time.Time, error) {
	if req.ScheduledFor != nil {
		return *req.ScheduledFor, nil
	}
	return storehours.CombineDateAndTime(req.ScheduledDate, req.ScheduledTime, loc)
}

// checkItems re-reads every product and modifier option server-side.
// Unavailable lines are reported before stock shortages, each with all
// offending lines listed.
func (s *checkoutService) checkItems(ctx context.Context, st *checkoutState) error {
	var productIDs, optionIDs []string
	seen := make(map[string]bool)
	for _, item := range st.req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
		optionIDs = append(optionIDs, item.ModifierOptionIDs...)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	options, err := s.productRepo.GetModifierOptions(ctx, optionIDs)
	if err != nil {
		return fmt.Errorf("failed to load modifier options: %w", err)
	}

	st.products = make(map[string]*model.Product, len(products))
	for i := range products {
		st.products[products[i].ID] = &products[i]
	}
	st.options = make(map[string]model.ModifierOption, len(options))
	for _, o := range options {
		st.options[o.ID] = o
	}

	var unavailable []string
	st.quantities = make(map[string]int)
	for i, item := range st.req.Items {
		p, ok := st.products[item.ProductID]
		if !ok || !p.IsActive || p.StoreID != st.store.ID {
			unavailable = append(unavailable, fmt.Sprintf("Item %d: product %s is unavailable", i+1, item.ProductID))
			continue
		}
		for _, id := range item.ModifierOptionIDs {
			o, ok := st.options[id]
			if !ok || !o.IsActive || o.ProductID != p.ID {
				unavailable = append(unavailable, fmt.Sprintf("Item %d: option %s for %s is unavailable", i+1, id, p.Name))
			}
		}
		st.quantities[p.ID] += item.Quantity
	}
	if len(unavailable) > 0 {
		return model.ErrProductUnavailable.WithDetails(unavailable...)
	}

	var short []string
	for _, id := range productIDs {
		p := st.products[id]
		if !p.HasStock(st.quantities[id]) {
			short = append(short, fmt.Sprintf("%s: %d requested, %d available", p.Name, st.quantities[id], *p.StockQuantity))
		}
	}
	if len(short) > 0 {
		return model.ErrOutOfStock.WithDetails(short...)
	}

	return nil
}

// price computes every amount from server-held prices. Client amounts are
// only compared for logging.
func (s *checkoutService) price(ctx context.Context, st *checkoutState) error {
	st.lines = make([]model.LineTotal, 0, len(st.req.Items))
	var subtotal float64
	for _, item := range st.req.Items {
		line := checkout.PriceLine(st.products[item.ProductID], item.Quantity, s.selectedOptions(st, item))
		if item.ClientSubtotal != 0 && checkout.RoundMoney(item.ClientSubtotal) != line.Subtotal {
			s.logger.Warn().
				Str("product_id", item.ProductID).
				Float64("client_subtotal", item.ClientSubtotal).
				Float64("server_subtotal", line.Subtotal).
				Msg("client subtotal disagrees with server price")
		}
		st.lines = append(st.lines, line)
		subtotal += line.Subtotal
	}
	subtotal = checkout.RoundMoney(subtotal)

	var quote checkout.DeliveryQuote
	if st.req.Channel == model.ChannelDelivery {
		var err error
		quote, err = checkout.QuoteDelivery(st.store, st.req.DeliveryAddress, subtotal)
		if err != nil {
			return err
		}
	}

	var discount float64
	if code := checkout.NormalizeCouponCode(st.req.CouponCode); code != "" {
		c, err := s.couponRepo.GetByCode(ctx, st.store.ID, code)
		if err != nil {
			return fmt.Errorf("failed to load coupon: %w", err)
		}
		if c == nil {
			return model.ErrInvalidCoupon
		}
		discount, err = checkout.CouponDiscount(c, subtotal, st.now)
		if err != nil {
			return err
		}
		st.coupon = c
	}

	st.totals = checkout.ComputeTotals(st.lines, quote.Fee, discount)
	st.totals.DistanceKm = quote.DistanceKm

	if st.req.ClientTotal != 0 && checkout.RoundMoney(st.req.ClientTotal) != st.totals.Total {
		s.logger.Warn().
			Float64("client_total", st.req.ClientTotal).
			Float64("server_total", st.totals.Total).
			Msg("client total disagrees with server total")
	}

	return nil
}

func (s *checkoutService) selectedOptions(st *checkoutState, item model.CartItem) []model.ModifierOption {
	options := make([]model.ModifierOption, 0, len(item.ModifierOptionIDs))
	for _, id := range item.ModifierOptionIDs {
		options = append(options, st.options[id])
	}
	return options
}

// persist writes the order in one transaction: order row, items with
// modifier snapshots, stock decrements and coupon usage. Any failure
// rolls everything back.
func (s *checkoutService) persist(ctx context.Context, st *checkoutState) (*model.CheckoutResult, error) {
	order := s.buildOrder(st)
	items := buildItems(st, order.ID)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, id := range slices.Sorted(maps.Keys(st.quantities)) {
		p := st.products[id]
		if !p.TrackInventory || p.StockQuantity == nil {
			continue
		}
		if err = s.orderRepo.DecrementStock(ctx, tx, id, st.quantities[id]); err != nil {
			if errors.Is(err, model.ErrOutOfStock) {
				return nil, model.ErrOutOfStock.WithDetails(p.Name + ": sold out while checking out")
			}
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
	}

	if st.coupon != nil {
		if err = s.couponRepo.IncrementUsage(ctx, tx, st.coupon.ID); err != nil {
			if errors.Is(err, model.ErrInvalidCoupon) {
				return nil, model.NewDomainError(model.ErrCodeInvalidCoupon, "This coupon has reached its usage limit")
			}
			return nil, fmt.Errorf("failed to apply coupon: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	committed = true

	return &model.CheckoutResult{Order: order, Items: items, Totals: st.totals}, nil
}

func (s *checkoutService) buildOrder(st *checkoutState) *model.Order {
	req := st.req
	id := uuid.New()

	order := &model.Order{
		ID:            id,
		StoreID:       st.store.ID,
		Code:          orderCode(id),
		Channel:       req.Channel,
		Status:        model.OrderStatusPending,
		CustomerName:  strings.TrimSpace(req.Customer.Name),
		CustomerPhone: strings.TrimSpace(req.Customer.Phone),
		CustomerEmail: strings.TrimSpace(req.Customer.Email),
		ScheduledFor:  st.scheduledFor,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Subtotal:      st.totals.Subtotal,
		DeliveryFee:   st.totals.DeliveryFee,
		Discount:      st.totals.Discount,
		Total:         st.totals.Total,
		CreatedAt:     st.now,
		UpdatedAt:     st.now,
	}
	if req.Channel == model.ChannelDelivery {
		order.DeliveryAddress = req.DeliveryAddress
	}
	if st.coupon != nil {
		code := st.coupon.Code
		order.CouponCode = &code
	}
	return order
}

func buildItems(st *checkoutState, orderID uuid.UUID) []model.OrderItem {
	items := make([]model.OrderItem, len(st.lines))
	for i, line := range st.lines {
		itemID := uuid.New()
		items[i] = model.OrderItem{
			ID:             itemID,
			OrderID:        orderID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPrice:      line.UnitPrice,
			Quantity:       line.Quantity,
			ModifiersTotal: line.ModifiersTotal,
			Subtotal:       line.Subtotal,
		}
		for _, optionID := range st.req.Items[i].ModifierOptionIDs {
			o := st.options[optionID]
			items[i].Modifiers = append(items[i].Modifiers, model.OrderItemModifier{
				ID:               uuid.New(),
				OrderItemID:      itemID,
				ModifierOptionID: o.ID,
				Name:             o.Name,
				ExtraPrice:       o.ExtraPrice,
			})
		}
	}
	return items
}

// orderCode derives the short code customers quote at the counter.
func orderCode(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:orderCodeLength])
}
