package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/middleware"
	"github.com/tastehub/api/internal/pricing"
	"github.com/tastehub/api/internal/service"
)

// Order event types published to the realtime feed.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderAssociated    = "order.associated"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]database.Order, error)
	ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	MarkOrderDelivered(ctx context.Context, arg database.MarkOrderDeliveredParams) (database.Order, error)
	AssociateGuestOrders(ctx context.Context, arg database.AssociateGuestOrdersParams) (int64, error)
	CountOrderedMenuItems(ctx context.Context) ([]database.MenuItemOrderCount, error)
}

// OrderEvents receives order lifecycle notifications. Satisfied by *ws.Hub.
type OrderEvents interface {
	PublishOrderEvent(eventType string, userID *uuid.UUID, payload any)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc    OrderServicer
	store  OrderStore
	events OrderEvents
}

// NewOrderHandler creates a new OrderHandler. events may be nil.
func NewOrderHandler(svc OrderServicer, store OrderStore, events OrderEvents) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, events: events}
}

// RegisterPublicRoutes registers endpoints open to guests. POST / expects
// middleware.OptionalAuthenticate so signed-in customers own their orders.
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/counts/menu-items", h.MenuItemCounts)
}

// RegisterCustomerRoutes registers endpoints for any signed-in user.
func (h *OrderHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Get("/myorders", h.ListMine)
	r.Post("/associate-guest-orders", h.AssociateGuestOrders)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers order administration endpoints.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Put("/{id}/deliver", h.Deliver)
}

// --- Request / Response types ---

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress addressRequest           `json:"deliveryAddress"`
	PaymentMethod   string                   `json:"paymentMethod" validate:"required,oneof=credit-card paypal cash-on-delivery"`
	PaymentStatus   string                   `json:"paymentStatus" validate:"omitempty,oneof=pending completed failed"`
	TransactionID   string                   `json:"transactionId" validate:"max=200"`
}

// createOrderItemRequest carries no price: lines are priced server-side.
type createOrderItemRequest struct {
	MenuItem       string                 `json:"menuItem" validate:"required"`
	Quantity       int32                  `json:"quantity" validate:"min=1"`
	Customizations *pricing.Customization `json:"customizations"`
}

type associateRequest struct {
	OrderIDs []string `json:"orderIds" validate:"required,min=1,dive,uuid"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderItemResponse struct {
	ID             uuid.UUID                `json:"id"`
	MenuItem       uuid.UUID                `json:"menuItem"`
	Name           string                   `json:"name"`
	Quantity       int32                    `json:"quantity"`
	Price          string                   `json:"price"`
	Subtotal       string                   `json:"subtotal"`
	Customizations *database.Customizations `json:"customizations,omitempty"`
}

type orderResponse struct {
	ID              uuid.UUID           `json:"id"`
	User            *uuid.UUID          `json:"user"`
	Items           []orderItemResponse `json:"items"`
	TotalAmount     string              `json:"totalAmount"`
	Status          string              `json:"status"`
	DeliveryAddress database.Address    `json:"deliveryAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	PaymentStatus   string              `json:"paymentStatus"`
	TransactionID   string              `json:"transactionId,omitempty"`
	DeliveredAt     *time.Time          `json:"deliveredAt"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /orders for guests and signed-in customers.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svcReq := service.CreateOrderRequest{
		DeliveryAddress: req.DeliveryAddress.toDB(),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   req.PaymentStatus,
		TransactionID:   req.TransactionID,
		Items:           make([]service.CreateOrderItemRequest, len(req.Items)),
	}
	if p := middleware.PrincipalFromContext(r.Context()); p != nil {
		uid := p.UserID
		svcReq.UserID = &uid
	}
	for i, item := range req.Items {
		svcReq.Items[i] = service.CreateOrderItemRequest{
			MenuItemID: item.MenuItem,
			Quantity:   item.Quantity,
		}
		if item.Customizations != nil {
			svcReq.Items[i].Customization = *item.Customizations
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), svcReq)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case service.IsValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, "create order", err)
		}
		return
	}

	resp := toOrderResponse(result.Order, result.Items)
	h.publish(EventOrderCreated, result.Order.UserID, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders (admin), newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 1, 100)
	offset := queryInt(r, "offset", 0, 0, 1<<30)

	params := database.ListOrdersParams{Limit: int32(limit), Offset: int32(offset)}
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.IsOrderStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		params.Status = &s
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		internalError(w, "list orders", err)
		return
	}

	resp, err := h.withItems(r.Context(), orders)
	if err != nil {
		internalError(w, "list orders: items", err)
		return
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// ListMine handles GET /orders/myorders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	orders, err := h.store.ListOrdersByUser(r.Context(), p.UserID)
	if err != nil {
		internalError(w, "list my orders", err)
		return
	}

	resp, err := h.withItems(r.Context(), orders)
	if err != nil {
		internalError(w, "list my orders: items", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}. Owners and admins only.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	orderID, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		internalError(w, "get order", err)
		return
	}
	if !ownerOrAdmin(p, order.UserID) {
		writeError(w, http.StatusForbidden, "not authorized to view this order")
		return
	}

	resp, err := h.withItems(r.Context(), []database.Order{order})
	if err != nil {
		internalError(w, "get order: items", err)
		return
	}
	writeJSON(w, http.StatusOK, resp[0])
}

// AssociateGuestOrders handles POST /orders/associate-guest-orders. Only
// orders without an owner are claimed; the operation is idempotent.
func (h *OrderHandler) AssociateGuestOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req associateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ids := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, s := range req.OrderIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid order ID")
			return
		}
		ids = append(ids, id)
	}

	n, err := h.store.AssociateGuestOrders(r.Context(), database.AssociateGuestOrdersParams{
		UserID:   p.UserID,
		OrderIDs: ids,
	})
	if err != nil {
		internalError(w, "associate guest orders", err)
		return
	}

	if n > 0 {
		uid := p.UserID
		h.publish(EventOrderAssociated, &uid, map[string]any{"orderIds": ids, "modifiedCount": n})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("%d guest order(s) associated with your account", n),
		"modifiedCount": n,
	})
}

// UpdateStatus handles PUT /orders/{id}/status (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !enum.IsOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		internalError(w, "get order for status update", err)
		return
	}

	if err := validateStatusTransition(current.Status, req.Status); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	var updated database.Order
	if req.Status == enum.OrderStatusDelivered {
		updated, err = h.store.MarkOrderDelivered(r.Context(), database.MarkOrderDeliveredParams{
			ID:         orderID,
			FromStatus: current.Status,
		})
	} else {
		updated, err = h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
			ID:         orderID,
			FromStatus: current.Status,
			ToStatus:   req.Status,
		})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Status moved between read and write.
			writeError(w, http.StatusConflict, "order status changed, please retry")
			return
		}
		internalError(w, "update order status", err)
		return
	}

	h.respondChanged(w, r, updated)
}

// Deliver handles PUT /orders/{id}/deliver (admin). Delivering an already
// delivered order returns it unchanged.
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseID(w, r, "id", "order")
	if !ok {
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		internalError(w, "get order for deliver", err)
		return
	}

	switch current.Status {
	case enum.OrderStatusDelivered:
		resp, err := h.withItems(r.Context(), []database.Order{current})
		if err != nil {
			internalError(w, "deliver: items", err)
			return
		}
		writeJSON(w, http.StatusOK, resp[0])
		return
	case enum.OrderStatusCancelled:
		writeError(w, http.StatusConflict, "cannot deliver a cancelled order")
		return
	}

	updated, err := h.store.MarkOrderDelivered(r.Context(), database.MarkOrderDeliveredParams{
		ID:         orderID,
		FromStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusConflict, "order status changed, please retry")
			return
		}
		internalError(w, "deliver order", err)
		return
	}

	h.respondChanged(w, r, updated)
}

// MenuItemCounts handles GET /orders/counts/menu-items.
func (h *OrderHandler) MenuItemCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountOrderedMenuItems(r.Context())
	if err != nil {
		internalError(w, "count ordered menu items", err)
		return
	}

	resp := make(map[string]int64, len(counts))
	for _, c := range counts {
		resp[c.MenuItemID.String()] = c.TotalQuantity
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *OrderHandler) publish(eventType string, userID *uuid.UUID, payload any) {
	if h.events != nil {
		h.events.PublishOrderEvent(eventType, userID, payload)
	}
}

func (h *OrderHandler) respondChanged(w http.ResponseWriter, r *http.Request, order database.Order) {
	resp, err := h.withItems(r.Context(), []database.Order{order})
	if err != nil {
		internalError(w, "order items", err)
		return
	}
	h.publish(EventOrderStatusChanged, order.UserID, resp[0])
	writeJSON(w, http.StatusOK, resp[0])
}

// withItems loads the lines of every order in one query.
func (h *OrderHandler) withItems(ctx context.Context, orders []database.Order) ([]orderResponse, error) {
	resp := make([]orderResponse, len(orders))
	if len(orders) == 0 {
		return resp, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	items, err := h.store.ListOrderItemsByOrders(ctx, ids)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID][]database.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i, o := range orders {
		resp[i] = toOrderResponse(o, byOrder[o.ID])
	}
	return resp, nil
}

func toOrderResponse(o database.Order, items []database.OrderItem) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		User:            o.UserID,
		TotalAmount:     money(o.TotalAmount),
		Status:          o.Status,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		TransactionID:   o.TransactionID,
		DeliveredAt:     o.DeliveredAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           make([]orderItemResponse, len(items)),
	}
	for i, it := range items {
		resp.Items[i] = orderItemResponse{
			ID:             it.ID,
			MenuItem:       it.MenuItemID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			Price:          money(it.Price),
			Subtotal:       money(pricing.LineTotal(it.Price, int(it.Quantity))),
			Customizations: it.Customizations,
		}
	}
	return resp
}

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can transition to.
// delivered and cancelled are terminal.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending:        {enum.OrderStatusConfirmed, enum.OrderStatusCancelled},
	enum.OrderStatusConfirmed:      {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing:      {enum.OrderStatusOutForDelivery, enum.OrderStatusCancelled},
	enum.OrderStatusOutForDelivery: {enum.OrderStatusDelivered, enum.OrderStatusCancelled},
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}
