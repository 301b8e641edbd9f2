package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/payment"
	"github.com/tastehub/api/internal/pricing"
)

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidQuantity      = errors.New("quantity must be >= 1")
	ErrInvalidMenuItemID    = errors.New("invalid menuItem id")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrMenuItemUnavailable  = errors.New("menu item is not available")
	ErrInvalidPaymentMethod = errors.New("invalid paymentMethod")
	ErrInvalidPaymentStatus = errors.New("invalid paymentStatus")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for creating an order. UserID is nil for
// guest checkout. PaymentStatus and TransactionID carry a payment result the
// client already obtained; when PaymentStatus is empty the gateway is charged.
type CreateOrderRequest struct {
	UserID          *uuid.UUID
	Items           []CreateOrderItemRequest
	DeliveryAddress database.Address
	PaymentMethod   string
	PaymentStatus   string
	TransactionID   string
}

// CreateOrderItemRequest is a single line of the order. Any client-side price
// is deliberately absent: lines are priced from the current menu.
type CreateOrderItemRequest struct {
	MenuItemID    string
	Quantity      int32
	Customization pricing.Customization
}

// CreateOrderResult is the created order with its lines.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	gateway  payment.Gateway
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, gateway payment.Gateway) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, gateway: gateway}
}

// CreateOrder prices every line against the current menu and persists the
// order and its lines in one transaction. A single missing menu item aborts
// the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !enum.IsPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if req.PaymentStatus != "" && !enum.IsPaymentStatus(req.PaymentStatus) {
		return nil, ErrInvalidPaymentStatus
	}

	// --- Validate lines ---
	ids := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		id, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidMenuItemID)
		}
		ids[i] = id
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Resolve and price lines ---
	total := decimal.Zero
	lines := make([]database.CreateOrderItemParams, len(req.Items))
	for i, item := range req.Items {
		menuItem, err := store.GetMenuItem(ctx, ids[i])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrMenuItemUnavailable)
		}

		pricingItem := PricingItem(menuItem)
		sel, err := pricing.Resolve(pricingItem, item.Customization)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		unitPrice := sel.UnitPrice(pricingItem)
		total = total.Add(pricing.LineTotal(unitPrice, int(item.Quantity)))

		lines[i] = database.CreateOrderItemParams{
			MenuItemID:     menuItem.ID,
			Name:           menuItem.Name,
			Quantity:       item.Quantity,
			Price:          unitPrice,
			Customizations: ToDBCustomizations(sel.Customization()),
		}
	}

	// --- Payment ---
	paymentStatus, transactionID := req.PaymentStatus, req.TransactionID
	if paymentStatus == "" {
		result, err := s.gateway.Charge(ctx, req.PaymentMethod, total)
		if err != nil {
			return nil, fmt.Errorf("charge: %w", err)
		}
		paymentStatus, transactionID = result.Status, result.TransactionID
	}

	// --- Insert order ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		UserID:          req.UserID,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   paymentStatus,
		TransactionID:   transactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items ---
	items := make([]database.OrderItem, 0, len(lines))
	for _, line := range lines {
		line.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items}, nil
}

// IsValidationError reports whether err was caused by bad input rather than
// a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyItems) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidMenuItemID) ||
		errors.Is(err, ErrMenuItemUnavailable) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidPaymentStatus) ||
		errors.Is(err, pricing.ErrInvalidCustomization)
}

// --- Helpers ---

// PricingItem converts a stored menu item to the pricing engine's view.
func PricingItem(m database.MenuItem) pricing.Item {
	item := pricing.Item{BasePrice: m.Price}
	if m.SubCategory != nil {
		item.SubCategory = *m.SubCategory
	}
	sizes := map[string]pricing.SizeOption{}
	if m.Sizes.Small != nil {
		sizes[enum.SizeSmall] = pricing.SizeOption{Price: m.Sizes.Small.Price, Available: m.Sizes.Small.Available}
	}
	if m.Sizes.Large != nil {
		sizes[enum.SizeLarge] = pricing.SizeOption{Price: m.Sizes.Large.Price, Available: m.Sizes.Large.Available}
	}
	if len(sizes) > 0 {
		item.Sizes = sizes
	}
	return item
}

// ToDBCustomizations returns nil for an empty customization so that plain
// lines store NULL.
func ToDBCustomizations(c pricing.Customization) *database.Customizations {
	if c.IsZero() {
		return nil
	}
	return &database.Customizations{
		Size:                c.Size,
		Variant:             c.Variant,
		Ingredient:          c.Ingredient,
		SpecialInstructions: c.SpecialInstructions,
		SpecialItems:        c.SpecialItems,
	}
}
