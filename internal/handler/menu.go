package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/pricing"
	"github.com/tastehub/api/internal/storage"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	ListMenuItems(ctx context.Context, arg database.ListMenuItemsParams) ([]database.MenuItem, error)
	ListMenuItemSummaries(ctx context.Context, ids []uuid.UUID) ([]database.MenuItemSummary, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error)
}

// MenuHandler handles menu catalog endpoints.
type MenuHandler struct {
	store MenuStore
	files storage.FileStore
}

func NewMenuHandler(store MenuStore, files storage.FileStore) *MenuHandler {
	return &MenuHandler{store: store, files: files}
}

// RegisterRoutes registers public menu endpoints. Expected at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers catalog management endpoints.
// Expected behind RequireRole(admin) at /menu.
func (h *MenuHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/all", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

// priceInput accepts a JSON number or a numeric string.
type priceInput string

func (p *priceInput) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceInput(s)
		return nil
	}
	*p = priceInput(b)
	return nil
}

type sizeOptionRequest struct {
	Price     priceInput `json:"price"`
	Available *bool      `json:"available"`
}

type sizesRequest struct {
	Small *sizeOptionRequest `json:"small"`
	Large *sizeOptionRequest `json:"large"`
}

// menuItemRequest is used for create and partial update. Nil fields keep
// their current value on update.
type menuItemRequest struct {
	Name         *string       `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string       `json:"description" validate:"omitempty,max=1000"`
	Price        *priceInput   `json:"price"`
	Category     *string       `json:"category" validate:"omitempty,oneof=starter main dessert drink"`
	SubCategory  *string       `json:"subCategory"`
	Vegetarian   *bool         `json:"vegetarian"`
	Available    *bool         `json:"available"`
	ImageURL     *string       `json:"imageUrl"`
	Sizes        *sizesRequest `json:"sizes"`
	RelatedItems []string      `json:"relatedItems" validate:"omitempty,dive,uuid"`
}

type sizeOptionResponse struct {
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

type sizesResponse struct {
	Small *sizeOptionResponse `json:"small,omitempty"`
	Large *sizeOptionResponse `json:"large,omitempty"`
}

type menuItemSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    string    `json:"price"`
	Category string    `json:"category"`
	ImageURL string    `json:"imageUrl"`
}

type variantResponse struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type menuItemResponse struct {
	ID                uuid.UUID                 `json:"id"`
	Name              string                    `json:"name"`
	Description       string                    `json:"description"`
	Price             string                    `json:"price"`
	Category          string                    `json:"category"`
	SubCategory       *string                   `json:"subCategory"`
	Vegetarian        bool                      `json:"vegetarian"`
	Available         bool                      `json:"available"`
	ImageURL          string                    `json:"imageUrl"`
	Sizes             *sizesResponse            `json:"sizes,omitempty"`
	RelatedItems      []menuItemSummaryResponse `json:"relatedItems"`
	IngredientOptions []variantResponse         `json:"ingredientOptions,omitempty"`
	SpecialItems      []string                  `json:"specialItems,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toMenuItemResponse(m database.MenuItem, related map[uuid.UUID]database.MenuItemSummary) menuItemResponse {
	resp := menuItemResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        money(m.Price),
		Category:     m.Category,
		SubCategory:  m.SubCategory,
		Vegetarian:   m.Vegetarian,
		Available:    m.Available,
		ImageURL:     m.ImageURL,
		RelatedItems: []menuItemSummaryResponse{},
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.Sizes.Small != nil || m.Sizes.Large != nil {
		resp.Sizes = &sizesResponse{}
		if s := m.Sizes.Small; s != nil {
			resp.Sizes.Small = &sizeOptionResponse{Price: money(s.Price), Available: s.Available}
		}
		if s := m.Sizes.Large; s != nil {
			resp.Sizes.Large = &sizeOptionResponse{Price: money(s.Price), Available: s.Available}
		}
	}

	// Dangling ids and self-references are dropped silently.
	for _, id := range m.RelatedItems {
		if id == m.ID {
			continue
		}
		if s, ok := related[id]; ok {
			resp.RelatedItems = append(resp.RelatedItems, menuItemSummaryResponse{
				ID:       s.ID,
				Name:     s.Name,
				Price:    money(s.Price),
				Category: s.Category,
				ImageURL: s.ImageURL,
			})
		}
	}

	return resp
}

// withOptions adds the customization choices a client needs to build a line.
func withOptions(resp menuItemResponse) menuItemResponse {
	if resp.SubCategory == nil {
		return resp
	}
	for _, v := range pricing.VariantTable(*resp.SubCategory) {
		resp.IngredientOptions = append(resp.IngredientOptions, variantResponse{Name: v.Name, Price: money(v.Price)})
	}
	if pricing.AllowsSpecialItems(*resp.SubCategory) {
		resp.SpecialItems = append([]string(nil), pricing.SpecialItems...)
	}
	return resp
}

// --- Handlers ---

// List handles GET /menu: available items, optionally filtered.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll handles GET /menu/admin/all, including unavailable items.
func (h *MenuHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *MenuHandler) list(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	params := database.ListMenuItemsParams{AvailableOnly: availableOnly}
	if s := r.URL.Query().Get("category"); s != "" {
		if !enum.IsCategory(s) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		params.Category = &s
	}
	if s := r.URL.Query().Get("subCategory"); s != "" {
		if !enum.IsSubCategory(s) {
			writeError(w, http.StatusBadRequest, "invalid subCategory")
			return
		}
		params.SubCategory = &s
	}

	items, err := h.store.ListMenuItems(r.Context(), params)
	if err != nil {
		internalError(w, "list menu items", err)
		return
	}

	related, err := h.relatedSummaries(r.Context(), items...)
	if err != nil {
		internalError(w, "list related items", err)
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m, related)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "menu item")
	if !ok {
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		internalError(w, "get menu item", err)
		return
	}

	related, err := h.relatedSummaries(r.Context(), item)
	if err != nil {
		internalError(w, "get related items", err)
		return
	}

	writeJSON(w, http.StatusOK, withOptions(toMenuItemResponse(item, related)))
}

// Create handles POST /menu (JSON or multipart).
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Price == nil {
		writeError(w, http.StatusBadRequest, "price is required")
		return
	}
	if req.Category == nil {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	item := database.MenuItem{Available: true}
	if msg := applyMenuItemRequest(&item, req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		Category:     item.Category,
		SubCategory:  item.SubCategory,
		Vegetarian:   item.Vegetarian,
		Available:    item.Available,
		ImageURL:     item.ImageURL,
		Sizes:        item.Sizes,
		RelatedItems: item.RelatedItems,
	})
	if err != nil {
		internalError(w, "create menu item", err)
		return
	}

	related, err := h.relatedSummaries(r.Context(), created)
	if err != nil {
		internalError(w, "create menu item: related", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMenuItemResponse(created, related))
}

// Update handles PUT /menu/{id}. Omitted fields keep their value.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "menu item")
	if !ok {
		return
	}
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		internalError(w, "update menu item: get", err)
		return
	}

	if msg := applyMenuItemRequest(&item, req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		Category:     item.Category,
		SubCategory:  item.SubCategory,
		Vegetarian:   item.Vegetarian,
		Available:    item.Available,
		ImageURL:     item.ImageURL,
		Sizes:        item.Sizes,
		RelatedItems: item.RelatedItems,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		internalError(w, "update menu item", err)
		return
	}

	related, err := h.relatedSummaries(r.Context(), updated)
	if err != nil {
		internalError(w, "update menu item: related", err)
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(updated, related))
}

// Delete handles DELETE /menu/{id}. Orders and related lists that still
// reference the item are left alone.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "menu item")
	if !ok {
		return
	}

	n, err := h.store.DeleteMenuItem(r.Context(), id)
	if err != nil {
		internalError(w, "delete menu item", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item removed"})
}

// --- Helpers ---

func (h *MenuHandler) relatedSummaries(ctx context.Context, items ...database.MenuItem) (map[uuid.UUID]database.MenuItemSummary, error) {
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, m := range items {
		for _, id := range m.RelatedItems {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	summaries, err := h.store.ListMenuItemSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]database.MenuItemSummary, len(summaries))
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

// readRequest decodes a JSON body, or a multipart form whose "image" file is
// stored and whose sizes/relatedItems fields carry JSON strings.
func (h *MenuHandler) readRequest(w http.ResponseWriter, r *http.Request) (menuItemRequest, bool) {
	var req menuItemRequest
	if !isMultipart(r) {
		return req, decodeJSON(w, r, &req)
	}

	if err := r.ParseMultipartForm(storage.MaxImageSize + multipartOverhead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return req, false
	}
	form := r.MultipartForm.Value
	field := func(name string) *string {
		if v, ok := form[name]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}
	boolField := func(name string) (*bool, bool) {
		s := field(name)
		if s == nil {
			return nil, true
		}
		b, err := strconv.ParseBool(*s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+name)
			return nil, false
		}
		return &b, true
	}

	req.Name = field("name")
	req.Description = field("description")
	req.Category = field("category")
	req.SubCategory = field("subCategory")
	req.ImageURL = field("imageUrl")
	if s := field("price"); s != nil {
		p := priceInput(*s)
		req.Price = &p
	}
	var ok bool
	if req.Vegetarian, ok = boolField("vegetarian"); !ok {
		return req, false
	}
	if req.Available, ok = boolField("available"); !ok {
		return req, false
	}
	if s := field("sizes"); s != nil && *s != "" {
		req.Sizes = &sizesRequest{}
		if err := json.Unmarshal([]byte(*s), req.Sizes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid sizes")
			return req, false
		}
	}
	if s := field("relatedItems"); s != nil {
		req.RelatedItems = []string{}
		if *s != "" {
			if err := json.Unmarshal([]byte(*s), &req.RelatedItems); err != nil {
				writeError(w, http.StatusBadRequest, "invalid relatedItems")
				return req, false
			}
		}
	}
	if !validateRequest(w, &req) {
		return req, false
	}

	url, status, msg := saveUploadedImage(r, h.files, "menu")
	if status != 0 {
		writeError(w, status, msg)
		return req, false
	}
	if url != "" {
		req.ImageURL = &url
	}
	return req, true
}

// applyMenuItemRequest merges req into item and checks the cross-field
// rules. It returns a client-facing message on invalid input.
func applyMenuItemRequest(item *database.MenuItem, req menuItemRequest) string {
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		price, err := pricing.ParsePrice(string(*req.Price))
		if err != nil {
			return "price must be a non-negative number"
		}
		item.Price = price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.SubCategory != nil {
		if s := strings.TrimSpace(*req.SubCategory); s == "" {
			item.SubCategory = nil
		} else {
			item.SubCategory = &s
		}
	} else if item.Category != enum.CategoryMain {
		// Leaving main drops the subCategory unless one is sent explicitly.
		item.SubCategory = nil
	}
	if req.Vegetarian != nil {
		item.Vegetarian = *req.Vegetarian
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Sizes != nil {
		sizes, msg := toDBSizes(*req.Sizes)
		if msg != "" {
			return msg
		}
		item.Sizes = sizes
	}
	if req.RelatedItems != nil {
		ids := make([]uuid.UUID, 0, len(req.RelatedItems))
		for _, s := range req.RelatedItems {
			id, err := uuid.Parse(s)
			if err != nil {
				return "relatedItems must contain valid ids"
			}
			if id != item.ID {
				ids = append(ids, id)
			}
		}
		item.RelatedItems = ids
	}

	if item.SubCategory != nil {
		if !enum.IsSubCategory(*item.SubCategory) {
			return "invalid subCategory"
		}
		if item.Category != enum.CategoryMain {
			return "subCategory is only allowed for main dishes"
		}
	}
	return ""
}

func toDBSizes(req sizesRequest) (database.Sizes, string) {
	var out database.Sizes
	convert := func(name string, in *sizeOptionRequest) (*database.SizeOption, string) {
		if in == nil {
			return nil, ""
		}
		price, err := pricing.ParsePrice(string(in.Price))
		if err != nil {
			return nil, "sizes." + name + ".price must be a non-negative number"
		}
		available := true
		if in.Available != nil {
			available = *in.Available
		}
		return &database.SizeOption{Price: price, Available: available}, ""
	}

	var msg string
	if out.Small, msg = convert(enum.SizeSmall, req.Small); msg != "" {
		return out, msg
	}
	if out.Large, msg = convert(enum.SizeLarge, req.Large); msg != "" {
		return out, msg
	}
	return out, ""
}
