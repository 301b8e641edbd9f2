package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tastehub/api/internal/auth"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/storage"
)

// UserStore defines the database methods needed by user handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	ListUsers(ctx context.Context) ([]database.User, error)
	UpdateUserProfile(ctx context.Context, arg database.UpdateUserProfileParams) (database.User, error)
	UpdateUserProfilePicture(ctx context.Context, arg database.UpdateUserProfilePictureParams) (database.User, error)
	SetUserActive(ctx context.Context, arg database.SetUserActiveParams) (database.User, error)
}

// UserHandler handles profile and user administration endpoints.
type UserHandler struct {
	store UserStore
	files storage.FileStore
}

func NewUserHandler(store UserStore, files storage.FileStore) *UserHandler {
	return &UserHandler{store: store, files: files}
}

// RegisterProfileRoutes registers the caller's own profile endpoints.
// Expected behind middleware.Authenticate at /users.
func (h *UserHandler) RegisterProfileRoutes(r chi.Router) {
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Put("/profile/picture", h.UpdatePicture)
}

// RegisterAdminRoutes registers user administration endpoints.
// Expected behind RequireRole(admin) at /users.
func (h *UserHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/{id}/status", h.SetStatus)
}

// --- Request / Response types ---

type addressRequest struct {
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

func (a addressRequest) toDB() database.Address {
	return database.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: strings.TrimSpace(a.Country),
	}
}

type updateProfileRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Phone    *string         `json:"phone" validate:"omitempty,max=30"`
	Address  *addressRequest `json:"address"`
	Password *string         `json:"password" validate:"omitempty,min=6"`
}

type updatePictureRequest struct {
	ProfilePicture string `json:"profilePicture" validate:"required"`
}

type setStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type userResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Role           string           `json:"role"`
	IsActive       bool             `json:"isActive"`
	Phone          string           `json:"phone"`
	Address        database.Address `json:"address"`
	ProfilePicture string           `json:"profilePicture"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toUserResponse(u database.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		IsActive:       u.IsActive,
		Phone:          u.Phone,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// --- Handlers ---

// GetProfile returns the authenticated user.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		internalError(w, "get profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		internalError(w, "update profile: get user", err)
		return
	}

	params := database.UpdateUserProfileParams{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Address:        user.Address,
		HashedPassword: user.HashedPassword,
	}
	if req.Name != nil {
		params.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		params.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		params.Address = req.Address.toDB()
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			existing, err := h.store.GetUserByEmail(r.Context(), email)
			if err == nil && existing.ID != user.ID {
				writeError(w, http.StatusConflict, "email already registered")
				return
			}
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				internalError(w, "update profile: lookup email", err)
				return
			}
		}
		params.Email = email
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			internalError(w, "update profile: hash password", err)
			return
		}
		params.HashedPassword = hashed
	}

	updated, err := h.store.UpdateUserProfile(r.Context(), params)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		internalError(w, "update profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// UpdatePicture accepts a multipart "image" file, or JSON with a data URL or
// an already hosted URL.
func (h *UserHandler) UpdatePicture(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var url string
	if isMultipart(r) {
		u, status, msg := saveUploadedImage(r, h.files, "profiles")
		if status != 0 {
			writeError(w, status, msg)
			return
		}
		if u == "" {
			writeError(w, http.StatusBadRequest, "image is required")
			return
		}
		url = u
	} else {
		var req updatePictureRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.HasPrefix(req.ProfilePicture, "data:") {
			contentType, data, err := storage.ParseDataURL(req.ProfilePicture)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			u, err := h.files.Save(r.Context(), "profiles", contentType, bytes.NewReader(data))
			if err != nil {
				internalError(w, "update picture: save", err)
				return
			}
			url = u
		} else {
			url = req.ProfilePicture
		}
	}

	updated, err := h.store.UpdateUserProfilePicture(r.Context(), database.UpdateUserProfilePictureParams{
		ID:             p.UserID,
		ProfilePicture: url,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		internalError(w, "update picture", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// List returns every user. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		internalError(w, "list users", err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SetStatus activates or deactivates an account. Admin only.
func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r, "id", "user")
	if !ok {
		return
	}

	var req setStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if id == p.UserID && !*req.IsActive {
		writeError(w, http.StatusBadRequest, "cannot deactivate your own account")
		return
	}

	updated, err := h.store.SetUserActive(r.Context(), database.SetUserActiveParams{
		ID:       id,
		IsActive: *req.IsActive,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		internalError(w, "set user status", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}
