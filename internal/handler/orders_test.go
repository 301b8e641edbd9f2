package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/handler"
	"github.com/tastehub/api/internal/middleware"
	"github.com/tastehub/api/internal/service"
)

// --- Mock store ---

type mockOrderStore struct {
	mu     sync.Mutex
	orders map[uuid.UUID]database.Order
	items  map[uuid.UUID][]database.OrderItem
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders: make(map[uuid.UUID]database.Order),
		items:  make(map[uuid.UUID][]database.OrderItem),
	}
}

func (m *mockOrderStore) addOrder(userID *uuid.UUID, status string, lines ...database.OrderItem) database.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().Add(time.Duration(len(m.orders)) * time.Second)
	o := database.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Status:        status,
		PaymentMethod: enum.PaymentMethodCashOnDelivery,
		PaymentStatus: enum.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	total := decimal.Zero
	for _, it := range lines {
		it.ID = uuid.New()
		it.OrderID = o.ID
		total = total.Add(it.Price.Mul(decimal.NewFromInt32(it.Quantity)))
		m.items[o.ID] = append(m.items[o.ID], it)
	}
	o.TotalAmount = total
	m.orders[o.ID] = o
	return o
}

func (m *mockOrderStore) GetOrder(_ context.Context, id uuid.UUID) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (m *mockOrderStore) sorted(keep func(database.Order) bool) []database.Order {
	out := []database.Order{}
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *mockOrderStore) ListOrders(_ context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(func(o database.Order) bool {
		return arg.Status == nil || o.Status == *arg.Status
	})
	if int(arg.Offset) >= len(out) {
		return []database.Order{}, nil
	}
	out = out[arg.Offset:]
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (m *mockOrderStore) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(o database.Order) bool {
		return o.UserID != nil && *o.UserID == userID
	}), nil
}

func (m *mockOrderStore) ListOrderItemsByOrders(_ context.Context, orderIDs []uuid.UUID) ([]database.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []database.OrderItem{}
	for _, id := range orderIDs {
		out = append(out, m.items[id]...)
	}
	return out, nil
}

func (m *mockOrderStore) UpdateOrderStatus(_ context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[arg.ID]
	if !ok || o.Status != arg.FromStatus {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.ToStatus
	o.UpdatedAt = time.Now()
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderStore) MarkOrderDelivered(_ context.Context, arg database.MarkOrderDeliveredParams) (database.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[arg.ID]
	if !ok || o.Status != arg.FromStatus {
		return database.Order{}, pgx.ErrNoRows
	}
	now := time.Now()
	o.Status = enum.OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderStore) AssociateGuestOrders(_ context.Context, arg database.AssociateGuestOrdersParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range arg.OrderIDs {
		o, ok := m.orders[id]
		if !ok || o.UserID != nil {
			continue
		}
		uid := arg.UserID
		o.UserID = &uid
		m.orders[id] = o
		n++
	}
	return n, nil
}

func (m *mockOrderStore) CountOrderedMenuItems(_ context.Context) ([]database.MenuItemOrderCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	totals := map[uuid.UUID]int64{}
	for _, lines := range m.items {
		for _, it := range lines {
			totals[it.MenuItemID] += int64(it.Quantity)
		}
	}
	out := []database.MenuItemOrderCount{}
	for id, n := range totals {
		out = append(out, database.MenuItemOrderCount{MenuItemID: id, TotalQuantity: n})
	}
	return out, nil
}

// --- Fake service and event sink ---

// fakeOrderService records the request and answers with a canned result or error.
type fakeOrderService struct {
	got *service.CreateOrderRequest
	err error
}

func (f *fakeOrderService) CreateOrder(_ context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
	f.got = &req
	if f.err != nil {
		return nil, f.err
	}
	order := database.Order{
		ID:            uuid.New(),
		UserID:        req.UserID,
		TotalAmount:   decimal.NewFromInt(1550),
		Status:        enum.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: enum.PaymentStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	item := database.OrderItem{
		ID:         uuid.New(),
		OrderID:    order.ID,
		MenuItemID: uuid.New(),
		Name:       "Chicken Kottu",
		Quantity:   1,
		Price:      decimal.NewFromInt(1550),
	}
	return &service.CreateOrderResult{Order: order, Items: []database.OrderItem{item}}, nil
}

type publishedEvent struct {
	Type   string
	UserID *uuid.UUID
}

type recordingEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingEvents) PublishOrderEvent(eventType string, userID *uuid.UUID, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{Type: eventType, UserID: userID})
}

func (r *recordingEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// --- Router setup ---

type orderFixture struct {
	users  *mockUserStore
	store  *mockOrderStore
	svc    *fakeOrderService
	events *recordingEvents
	router *chi.Mux
}

// newOrderFixture mounts the order routes the way router.New does.
func newOrderFixture() *orderFixture {
	f := &orderFixture{
		users:  newMockUserStore(),
		store:  newMockOrderStore(),
		svc:    &fakeOrderService{},
		events: &recordingEvents{},
	}
	h := handler.NewOrderHandler(f.svc, f.store, f.events)

	r := chi.NewRouter()
	r.Route("/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthenticate(testSecret, f.users))
			h.RegisterPublicRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(testSecret, f.users))
			h.RegisterCustomerRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware(f.users)...)
			h.RegisterAdminRoutes(r)
		})
	})
	f.router = r
	return f
}

func validOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"menuItem": uuid.NewString(),
				"quantity": 1,
				"customizations": map[string]interface{}{
					"variant":      "chicken full",
					"specialItems": []string{"Extra Cheese"},
				},
			},
		},
		"deliveryAddress": map[string]string{"street": "12 Galle Road", "city": "Colombo"},
		"paymentMethod":   "cash-on-delivery",
	}
}

// --- Create tests ---

func TestOrderCreate_Guest(t *testing.T) {
	f := newOrderFixture()

	rr := postJSON(t, f.router, "/orders/", validOrderBody())
	expectStatus(t, rr, http.StatusCreated)

	if f.svc.got == nil || f.svc.got.UserID != nil {
		t.Fatalf("guest order must have no owner, got %+v", f.svc.got)
	}
	line := f.svc.got.Items[0]
	if line.Customization.Variant != "chicken full" || len(line.Customization.SpecialItems) != 1 {
		t.Errorf("customization not forwarded: %+v", line.Customization)
	}

	resp := decodeResponse(t, rr)
	if resp["totalAmount"] != "1550.00" {
		t.Errorf("totalAmount: got %v", resp["totalAmount"])
	}
	if resp["user"] != nil {
		t.Errorf("user: got %v, want null", resp["user"])
	}
	if got := f.events.types(); len(got) != 1 || got[0] != handler.EventOrderCreated {
		t.Errorf("events: got %v", got)
	}
}

func TestOrderCreate_SignedInOwnsOrder(t *testing.T) {
	f := newOrderFixture()
	u := makeCustomer(t, f.users, "c@test.com")

	rr := doRequest(t, f.router, "POST", "/orders/", tokenFor(t, u), validOrderBody())
	expectStatus(t, rr, http.StatusCreated)

	if f.svc.got.UserID == nil || *f.svc.got.UserID != u.ID {
		t.Errorf("owner: got %v, want %s", f.svc.got.UserID, u.ID)
	}
}

func TestOrderCreate_InvalidTokenRejected(t *testing.T) {
	f := newOrderFixture()

	rr := doRequest(t, f.router, "POST", "/orders/", "garbage", validOrderBody())
	expectError(t, rr, http.StatusUnauthorized, "invalid token")
	if f.svc.got != nil {
		t.Error("service must not be called")
	}
}

func TestOrderCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		want   string
	}{
		{"no items", func(b map[string]interface{}) { b["items"] = []interface{}{} }, "items must be at least 1"},
		{"bad payment method", func(b map[string]interface{}) { b["paymentMethod"] = "bitcoin" }, "paymentMethod must be one of: credit-card paypal cash-on-delivery"},
		{"zero quantity", func(b map[string]interface{}) {
			b["items"] = []map[string]interface{}{{"menuItem": uuid.NewString(), "quantity": 0}}
		}, "items[0].quantity must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			body := validOrderBody()
			tt.mutate(body)
			rr := postJSON(t, f.router, "/orders/", body)
			expectError(t, rr, http.StatusBadRequest, tt.want)
		})
	}
}

func TestOrderCreate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"menu item missing", fmt.Errorf("item[0]: %w", service.ErrMenuItemNotFound), http.StatusNotFound},
		{"unavailable", fmt.Errorf("item[0]: %w", service.ErrMenuItemUnavailable), http.StatusBadRequest},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			f.svc.err = tt.err
			rr := postJSON(t, f.router, "/orders/", validOrderBody())
			expectStatus(t, rr, tt.status)
			if len(f.events.types()) != 0 {
				t.Error("no event expected on failure")
			}
		})
	}
}

// --- Read tests ---

func TestOrderListMine(t *testing.T) {
	f := newOrderFixture()
	u := makeCustomer(t, f.users, "c@test.com")
	other := makeCustomer(t, f.users, "o@test.com")
	f.store.addOrder(&u.ID, enum.OrderStatusPending, database.OrderItem{Name: "Chicken Kottu", Quantity: 2, Price: decimal.NewFromInt(1550)})
	f.store.addOrder(&other.ID, enum.OrderStatusPending)
	f.store.addOrder(nil, enum.OrderStatusPending)

	rr := doRequest(t, f.router, "GET", "/orders/myorders", tokenFor(t, u), nil)
	expectStatus(t, rr, http.StatusOK)

	list := decodeList(t, rr)
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list))
	}
	items := list[0]["items"].([]interface{})
	line := items[0].(map[string]interface{})
	if line["subtotal"] != "3100.00" {
		t.Errorf("subtotal: got %v, want 3100.00", line["subtotal"])
	}
	if list[0]["totalAmount"] != "3100.00" {
		t.Errorf("totalAmount: got %v", list[0]["totalAmount"])
	}
}

func TestOrderGet_OwnerOrAdmin(t *testing.T) {
	f := newOrderFixture()
	owner := makeCustomer(t, f.users, "owner@test.com")
	stranger := makeCustomer(t, f.users, "stranger@test.com")
	admin := makeAdmin(t, f.users)
	order := f.store.addOrder(&owner.ID, enum.OrderStatusPending)
	guest := f.store.addOrder(nil, enum.OrderStatusPending)
	path := "/orders/" + order.ID.String()

	expectStatus(t, doRequest(t, f.router, "GET", path, tokenFor(t, owner), nil), http.StatusOK)
	expectStatus(t, doRequest(t, f.router, "GET", path, tokenFor(t, admin), nil), http.StatusOK)
	expectError(t, doRequest(t, f.router, "GET", path, tokenFor(t, stranger), nil),
		http.StatusForbidden, "not authorized to view this order")

	// Guest orders are visible to admins only.
	guestPath := "/orders/" + guest.ID.String()
	expectStatus(t, doRequest(t, f.router, "GET", guestPath, tokenFor(t, stranger), nil), http.StatusForbidden)
	expectStatus(t, doRequest(t, f.router, "GET", guestPath, tokenFor(t, admin), nil), http.StatusOK)

	expectError(t, doRequest(t, f.router, "GET", "/orders/"+uuid.NewString(), tokenFor(t, admin), nil),
		http.StatusNotFound, "order not found")
}

func TestOrderList_AdminFilterAndPaging(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	for i := 0; i < 3; i++ {
		f.store.addOrder(nil, enum.OrderStatusPending)
	}
	f.store.addOrder(nil, enum.OrderStatusDelivered)

	rr := doRequest(t, f.router, "GET", "/orders/?status=pending&limit=2", tokenFor(t, admin), nil)
	expectStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	if orders := resp["orders"].([]interface{}); len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}
	if resp["limit"] != float64(2) {
		t.Errorf("limit: got %v", resp["limit"])
	}

	rr = doRequest(t, f.router, "GET", "/orders/?status=lost", tokenFor(t, admin), nil)
	expectError(t, rr, http.StatusBadRequest, "invalid status")
}

func TestOrderList_CustomerForbidden(t *testing.T) {
	f := newOrderFixture()
	u := makeCustomer(t, f.users, "c@test.com")

	rr := doRequest(t, f.router, "GET", "/orders/", tokenFor(t, u), nil)
	expectError(t, rr, http.StatusForbidden, "insufficient permissions")
}

func TestOrderMenuItemCounts(t *testing.T) {
	f := newOrderFixture()
	menuID := uuid.New()
	f.store.addOrder(nil, enum.OrderStatusPending, database.OrderItem{MenuItemID: menuID, Quantity: 2, Price: decimal.NewFromInt(10)})
	f.store.addOrder(nil, enum.OrderStatusPending, database.OrderItem{MenuItemID: menuID, Quantity: 3, Price: decimal.NewFromInt(10)})

	rr := doRequest(t, f.router, "GET", "/orders/counts/menu-items", "", nil)
	expectStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp[menuID.String()] != float64(5) {
		t.Errorf("count: got %v, want 5", resp[menuID.String()])
	}
}

// --- Guest association tests ---

func TestAssociateGuestOrders_ClaimsOnlyUnowned(t *testing.T) {
	f := newOrderFixture()
	u := makeCustomer(t, f.users, "c@test.com")
	other := makeCustomer(t, f.users, "o@test.com")
	guest := f.store.addOrder(nil, enum.OrderStatusPending)
	owned := f.store.addOrder(&other.ID, enum.OrderStatusPending)

	rr := doRequest(t, f.router, "POST", "/orders/associate-guest-orders", tokenFor(t, u), map[string]interface{}{
		"orderIds": []string{guest.ID.String(), owned.ID.String()},
	})
	expectStatus(t, rr, http.StatusOK)

	resp := decodeResponse(t, rr)
	if resp["modifiedCount"] != float64(1) {
		t.Errorf("modifiedCount: got %v, want 1", resp["modifiedCount"])
	}

	got, _ := f.store.GetOrder(t.Context(), guest.ID)
	if got.UserID == nil || *got.UserID != u.ID {
		t.Errorf("guest order owner: got %v, want %s", got.UserID, u.ID)
	}
	kept, _ := f.store.GetOrder(t.Context(), owned.ID)
	if *kept.UserID != other.ID {
		t.Error("owned order must keep its owner")
	}

	// Idempotent: a second call claims nothing.
	rr = doRequest(t, f.router, "POST", "/orders/associate-guest-orders", tokenFor(t, u), map[string]interface{}{
		"orderIds": []string{guest.ID.String()},
	})
	expectStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["modifiedCount"] != float64(0) {
		t.Errorf("second call modifiedCount: got %v, want 0", resp["modifiedCount"])
	}

	// Then the claimed order shows up in the customer's history.
	rr = doRequest(t, f.router, "GET", "/orders/myorders", tokenFor(t, u), nil)
	expectStatus(t, rr, http.StatusOK)
	if list := decodeList(t, rr); len(list) != 1 || list[0]["id"] != guest.ID.String() {
		t.Errorf("myorders: got %v", list)
	}
}

func TestAssociateGuestOrders_Validation(t *testing.T) {
	f := newOrderFixture()
	u := makeCustomer(t, f.users, "c@test.com")

	rr := doRequest(t, f.router, "POST", "/orders/associate-guest-orders", tokenFor(t, u), map[string]interface{}{
		"orderIds": []string{},
	})
	expectError(t, rr, http.StatusBadRequest, "orderIds must be at least 1")

	rr = doRequest(t, f.router, "POST", "/orders/associate-guest-orders", tokenFor(t, u), map[string]interface{}{
		"orderIds": []string{"nope"},
	})
	expectError(t, rr, http.StatusBadRequest, "orderIds[0] must be a valid id")

	rr = doRequest(t, f.router, "POST", "/orders/associate-guest-orders", "", map[string]interface{}{
		"orderIds": []string{uuid.NewString()},
	})
	expectStatus(t, rr, http.StatusUnauthorized)
}

// --- Status tests ---

func TestOrderUpdateStatus_FollowsTransitions(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	order := f.store.addOrder(nil, enum.OrderStatusPending)
	path := "/orders/" + order.ID.String() + "/status"
	tok := tokenFor(t, admin)

	for _, next := range []string{"confirmed", "preparing", "out-for-delivery", "delivered"} {
		rr := doRequest(t, f.router, "PUT", path, tok, map[string]string{"status": next})
		expectStatus(t, rr, http.StatusOK)
		if resp := decodeResponse(t, rr); resp["status"] != next {
			t.Fatalf("status: got %v, want %s", resp["status"], next)
		}
	}

	got, _ := f.store.GetOrder(t.Context(), order.ID)
	if got.DeliveredAt == nil {
		t.Error("deliveredAt must be set when delivered through the status endpoint")
	}

	rr := doRequest(t, f.router, "PUT", path, tok, map[string]string{"status": "cancelled"})
	expectError(t, rr, http.StatusConflict, "cannot transition from delivered")
}

func TestOrderUpdateStatus_RejectsSkips(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	order := f.store.addOrder(nil, enum.OrderStatusPending)
	path := "/orders/" + order.ID.String() + "/status"

	rr := doRequest(t, f.router, "PUT", path, tokenFor(t, admin), map[string]string{"status": "out-for-delivery"})
	expectError(t, rr, http.StatusConflict, "cannot transition from pending to out-for-delivery")

	rr = doRequest(t, f.router, "PUT", path, tokenFor(t, admin), map[string]string{"status": "teleported"})
	expectError(t, rr, http.StatusBadRequest, "invalid status")
}

func TestOrderUpdateStatus_CancelPublishesToOwner(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	owner := makeCustomer(t, f.users, "c@test.com")
	order := f.store.addOrder(&owner.ID, enum.OrderStatusConfirmed)

	rr := doRequest(t, f.router, "PUT", "/orders/"+order.ID.String()+"/status", tokenFor(t, admin), map[string]string{"status": "cancelled"})
	expectStatus(t, rr, http.StatusOK)

	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	if len(f.events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.events.events))
	}
	ev := f.events.events[0]
	if ev.Type != handler.EventOrderStatusChanged || ev.UserID == nil || *ev.UserID != owner.ID {
		t.Errorf("event: got %+v", ev)
	}
}

// --- Deliver tests ---

func TestOrderDeliver(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	order := f.store.addOrder(nil, enum.OrderStatusOutForDelivery)
	path := "/orders/" + order.ID.String() + "/deliver"

	rr := doRequest(t, f.router, "PUT", path, tokenFor(t, admin), nil)
	expectStatus(t, rr, http.StatusOK)
	resp := decodeResponse(t, rr)
	if resp["status"] != enum.OrderStatusDelivered || resp["deliveredAt"] == nil {
		t.Fatalf("expected delivered with timestamp, got %v", resp)
	}
	firstDeliveredAt := resp["deliveredAt"]

	// Delivering again is a no-op.
	rr = doRequest(t, f.router, "PUT", path, tokenFor(t, admin), nil)
	expectStatus(t, rr, http.StatusOK)
	if resp := decodeResponse(t, rr); resp["deliveredAt"] != firstDeliveredAt {
		t.Errorf("deliveredAt changed: %v -> %v", firstDeliveredAt, resp["deliveredAt"])
	}
	if n := len(f.events.types()); n != 1 {
		t.Errorf("expected a single status event, got %d", n)
	}
}

func TestOrderDeliver_Cancelled(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)
	order := f.store.addOrder(nil, enum.OrderStatusCancelled)

	rr := doRequest(t, f.router, "PUT", "/orders/"+order.ID.String()+"/deliver", tokenFor(t, admin), nil)
	expectError(t, rr, http.StatusConflict, "cannot deliver a cancelled order")
}

func TestOrderDeliver_NotFound(t *testing.T) {
	f := newOrderFixture()
	admin := makeAdmin(t, f.users)

	rr := doRequest(t, f.router, "PUT", "/orders/"+uuid.NewString()+"/deliver", tokenFor(t, admin), nil)
	expectError(t, rr, http.StatusNotFound, "order not found")
}
