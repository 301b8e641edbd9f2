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
	"github.com/sirupsen/logrus"

	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/enum"
	"github.com/tastehub/api/internal/mail"
)

const dateLayout = "2006-01-02"

// mailTimeout bounds a notification send inside a request.
const mailTimeout = 10 * time.Second

// ReservationStore defines the database methods needed by reservation handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReservationStore interface {
	CreateReservation(ctx context.Context, arg database.CreateReservationParams) (database.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (database.Reservation, error)
	ListReservations(ctx context.Context) ([]database.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]database.Reservation, error)
	UpdateReservationStatus(ctx context.Context, arg database.UpdateReservationStatusParams) (database.Reservation, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) (int64, error)
}

// ReservationHandler handles table reservation endpoints.
type ReservationHandler struct {
	store  ReservationStore
	mailer mail.Mailer
}

func NewReservationHandler(store ReservationStore, mailer mail.Mailer) *ReservationHandler {
	return &ReservationHandler{store: store, mailer: mailer}
}

// RegisterCustomerRoutes registers endpoints for signed-in users.
func (h *ReservationHandler) RegisterCustomerRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/my", h.ListMine)
}

// RegisterAdminRoutes registers reservation administration endpoints.
func (h *ReservationHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createReservationRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Guests int32  `json:"guests" validate:"required,min=1,max=50"`
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required,max=30"`
}

type updateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Confirmed Cancelled"`
}

type reservationResponse struct {
	ID        uuid.UUID `json:"id"`
	User      uuid.UUID `json:"user"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Guests    int32     `json:"guests"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type createReservationResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Reservation reservationResponse `json:"reservation"`
}

func toReservationResponse(res database.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID,
		User:      res.UserID,
		Date:      res.Date.Format(dateLayout),
		Time:      res.Time,
		Guests:    res.Guests,
		Name:      res.Name,
		Email:     res.Email,
		Phone:     res.Phone,
		Status:    res.Status,
		CreatedAt: res.CreatedAt,
		UpdatedAt: res.UpdatedAt,
	}
}

func toReservationResponses(list []database.Reservation) []reservationResponse {
	resp := make([]reservationResponse, len(list))
	for i, res := range list {
		resp[i] = toReservationResponse(res)
	}
	return resp
}

// --- Handlers ---

// Create handles POST /reservations. New reservations start Pending.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	res, err := h.store.CreateReservation(r.Context(), database.CreateReservationParams{
		UserID: p.UserID,
		Date:   date,
		Time:   req.Time,
		Guests: req.Guests,
		Name:   strings.TrimSpace(req.Name),
		Email:  normalizeEmail(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
	})
	if err != nil {
		internalError(w, "create reservation", err)
		return
	}

	writeJSON(w, http.StatusCreated, createReservationResponse{
		Success:     true,
		Message:     "Reservation created successfully",
		Reservation: toReservationResponse(res),
	})
}

// ListMine handles GET /reservations/my.
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.store.ListReservationsByUser(r.Context(), p.UserID)
	if err != nil {
		internalError(w, "list my reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponses(list))
}

// List handles GET /reservations (admin).
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListReservations(r.Context())
	if err != nil {
		internalError(w, "list reservations", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponses(list))
}

// Get handles GET /reservations/{id} (admin).
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "reservation")
	if !ok {
		return
	}

	res, err := h.store.GetReservation(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		internalError(w, "get reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(res))
}

// UpdateStatus handles PUT /reservations/{id}/status (admin). Only Pending
// reservations can change; the guest is notified by mail.
func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "reservation")
	if !ok {
		return
	}

	var req updateReservationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	current, err := h.store.GetReservation(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "reservation not found")
			return
		}
		internalError(w, "get reservation for status update", err)
		return
	}

	if current.Status != enum.ReservationStatusPending {
		writeError(w, http.StatusConflict, "reservation is already "+current.Status)
		return
	}
	if req.Status == enum.ReservationStatusPending {
		writeError(w, http.StatusConflict, "reservation is already Pending")
		return
	}

	updated, err := h.store.UpdateReservationStatus(r.Context(), database.UpdateReservationStatusParams{
		ID:         id,
		FromStatus: current.Status,
		ToStatus:   req.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusConflict, "reservation status changed, please retry")
			return
		}
		internalError(w, "update reservation status", err)
		return
	}

	h.notify(r.Context(), updated)
	writeJSON(w, http.StatusOK, toReservationResponse(updated))
}

// Delete handles DELETE /reservations/{id} (admin).
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "reservation")
	if !ok {
		return
	}

	n, err := h.store.DeleteReservation(r.Context(), id)
	if err != nil {
		internalError(w, "delete reservation", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "reservation not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reservation removed"})
}

// notify mails the guest about a status change. Failures are logged only.
func (h *ReservationHandler) notify(ctx context.Context, res database.Reservation) {
	if h.mailer == nil {
		return
	}
	subject, body, err := mail.RenderReservationStatus(mail.ReservationStatus{
		Name:   res.Name,
		Date:   res.Date.Format(dateLayout),
		Time:   res.Time,
		Guests: res.Guests,
		Status: res.Status,
	})
	if err != nil {
		logrus.Errorf("reservation mail: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()
	if err := h.mailer.Send(ctx, res.Email, subject, body); err != nil {
		logrus.WithField("reservation_id", res.ID).Warnf("reservation mail: %v", err)
	}
}
