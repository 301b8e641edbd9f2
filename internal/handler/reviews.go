package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tastehub/api/internal/database"
)

// ReviewStore defines the database methods needed by review handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReviewStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateReview(ctx context.Context, arg database.CreateReviewParams) (database.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (database.Review, error)
	GetReviewByUserAndMenuItem(ctx context.Context, arg database.GetReviewByUserAndMenuItemParams) (database.Review, error)
	ListReviewsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.ReviewWithNames, error)
	ListReviews(ctx context.Context) ([]database.ReviewWithNames, error)
	UpdateReview(ctx context.Context, arg database.UpdateReviewParams) (database.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) (int64, error)
}

// ReviewHandler handles menu item review endpoints.
type ReviewHandler struct {
	store ReviewStore
}

func NewReviewHandler(store ReviewStore) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// RegisterPublicRoutes registers read endpoints open to everyone.
func (h *ReviewHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/menu/{id}", h.ListForMenuItem)
}

// RegisterCustomerRoutes registers endpoints for signed-in users.
func (h *ReviewHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/menu/{id}", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// RegisterAdminRoutes registers review moderation endpoints.
func (h *ReviewHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// --- Request / Response types ---

type createReviewRequest struct {
	Rating  int32  `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

type updateReviewRequest struct {
	Rating  *int32  `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=1000"`
}

type reviewResponse struct {
	ID           uuid.UUID `json:"id"`
	MenuItem     uuid.UUID `json:"menuItem"`
	MenuItemName string    `json:"menuItemName,omitempty"`
	User         uuid.UUID `json:"user"`
	UserName     string    `json:"userName,omitempty"`
	Rating       int32     `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toReviewResponse(rv database.Review) reviewResponse {
	return reviewResponse{
		ID:        rv.ID,
		MenuItem:  rv.MenuItemID,
		User:      rv.UserID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func toReviewResponses(list []database.ReviewWithNames, withMenuItem bool) []reviewResponse {
	resp := make([]reviewResponse, len(list))
	for i, rv := range list {
		resp[i] = toReviewResponse(rv.Review)
		resp[i].UserName = rv.UserName
		if withMenuItem {
			resp[i].MenuItemName = rv.MenuItemName
		}
	}
	return resp
}

// --- Handlers ---

// ListForMenuItem handles GET /reviews/menu/{id}.
func (h *ReviewHandler) ListForMenuItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, ok := parseID(w, r, "id", "menu item")
	if !ok {
		return
	}
	if !h.menuItemExists(w, r, menuItemID) {
		return
	}

	list, err := h.store.ListReviewsByMenuItem(r.Context(), menuItemID)
	if err != nil {
		internalError(w, "list reviews for menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponses(list, false))
}

// List handles GET /reviews (admin), newest first.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListReviews(r.Context())
	if err != nil {
		internalError(w, "list reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponses(list, true))
}

// Create handles POST /reviews/menu/{id}. One review per user and item.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	menuItemID, ok := parseID(w, r, "id", "menu item")
	if !ok {
		return
	}

	var req createReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.menuItemExists(w, r, menuItemID) {
		return
	}

	_, err := h.store.GetReviewByUserAndMenuItem(r.Context(), database.GetReviewByUserAndMenuItemParams{
		UserID:     p.UserID,
		MenuItemID: menuItemID,
	})
	if err == nil {
		writeError(w, http.StatusConflict, "you have already reviewed this item")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		internalError(w, "create review: lookup", err)
		return
	}

	review, err := h.store.CreateReview(r.Context(), database.CreateReviewParams{
		MenuItemID: menuItemID,
		UserID:     p.UserID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	})
	if err != nil {
		// Concurrent duplicate that slipped past the lookup.
		if database.IsUniqueViolation(err, "reviews_user_id_menu_item_id_key") {
			writeError(w, http.StatusConflict, "you have already reviewed this item")
			return
		}
		internalError(w, "create review", err)
		return
	}

	resp := toReviewResponse(review)
	resp.UserName = p.Name
	writeJSON(w, http.StatusCreated, resp)
}

// Update handles PUT /reviews/{id}. Only the author may edit.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "review")
	if !ok {
		return
	}

	var req updateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, ok := h.load(w, r, id)
	if !ok {
		return
	}
	if review.UserID != p.UserID {
		writeError(w, http.StatusForbidden, "not authorized to update this review")
		return
	}

	params := database.UpdateReviewParams{ID: id, Rating: review.Rating, Comment: review.Comment}
	if req.Rating != nil {
		params.Rating = *req.Rating
	}
	if req.Comment != nil {
		params.Comment = strings.TrimSpace(*req.Comment)
	}

	updated, err := h.store.UpdateReview(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "review not found")
			return
		}
		internalError(w, "update review", err)
		return
	}
	writeJSON(w, http.StatusOK, toReviewResponse(updated))
}

// Delete handles DELETE /reviews/{id} for the author or an admin.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "review")
	if !ok {
		return
	}

	review, ok := h.load(w, r, id)
	if !ok {
		return
	}
	if !ownerOrAdmin(p, &review.UserID) {
		writeError(w, http.StatusForbidden, "not authorized to delete this review")
		return
	}

	n, err := h.store.DeleteReview(r.Context(), id)
	if err != nil {
		internalError(w, "delete review", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "review removed"})
}

// --- Helpers ---

func (h *ReviewHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (database.Review, bool) {
	review, err := h.store.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "review not found")
			return review, false
		}
		internalError(w, "get review", err)
		return review, false
	}
	return review, true
}

func (h *ReviewHandler) menuItemExists(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	if _, err := h.store.GetMenuItem(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return false
		}
		internalError(w, "get menu item", err)
		return false
	}
	return true
}
