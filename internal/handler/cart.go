package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tastehub/api/internal/cart"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/pricing"
	"github.com/tastehub/api/internal/service"
)

// CartStore defines the database methods needed to quote a cart.
// Satisfied by *database.Queries; narrow interface for testability.
type CartStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// CartHandler prices a client cart with the same engine used at checkout.
type CartHandler struct {
	store CartStore
}

func NewCartHandler(store CartStore) *CartHandler {
	return &CartHandler{store: store}
}

// RegisterRoutes registers cart endpoints. Expected at /cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quote", h.Quote)
}

type quoteRequest struct {
	Items []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type quoteLineResponse struct {
	Key            string                `json:"key"`
	MenuItem       uuid.UUID             `json:"menuItem"`
	Name           string                `json:"name"`
	Customizations pricing.Customization `json:"customizations"`
	UnitPrice      string                `json:"unitPrice"`
	Quantity       int                   `json:"quantity"`
	Subtotal       string                `json:"subtotal"`
}

type quoteResponse struct {
	Items []quoteLineResponse `json:"items"`
	Total string              `json:"total"`
	Count int                 `json:"count"`
}

// Quote handles POST /cart/quote. Identical selections merge into one line.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := cart.New()
	for i, item := range req.Items {
		id, err := uuid.Parse(item.MenuItem)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item[%d]: %v", i, service.ErrInvalidMenuItemID))
			return
		}

		m, err := h.store.GetMenuItem(r.Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, fmt.Sprintf("item[%d]: %v", i, service.ErrMenuItemNotFound))
				return
			}
			internalError(w, "quote: get menu item", err)
			return
		}
		if !m.Available {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item[%d]: %v", i, service.ErrMenuItemUnavailable))
			return
		}

		var cust pricing.Customization
		if item.Customizations != nil {
			cust = *item.Customizations
		}
		product := cart.Product{ID: m.ID, Name: m.Name, Pricing: service.PricingItem(m)}
		if _, err := c.Add(product, cust, int(item.Quantity)); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item[%d]: %v", i, err))
			return
		}
	}

	lines := c.Lines()
	resp := quoteResponse{
		Items: make([]quoteLineResponse, len(lines)),
		Total: money(c.Total()),
		Count: c.Count(),
	}
	for i, l := range lines {
		resp.Items[i] = quoteLineResponse{
			Key:            l.Key,
			MenuItem:       l.MenuItemID,
			Name:           l.Name,
			Customizations: l.Customization,
			UnitPrice:      money(l.UnitPrice),
			Quantity:       l.Quantity,
			Subtotal:       money(l.Subtotal()),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
