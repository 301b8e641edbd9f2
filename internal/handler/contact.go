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

// ContactStore defines the database methods needed by contact handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ContactStore interface {
	CreateContactMessage(ctx context.Context, arg database.CreateContactMessageParams) (database.ContactMessage, error)
	GetContactMessage(ctx context.Context, id uuid.UUID) (database.ContactMessage, error)
	ListContactMessages(ctx context.Context, status *string) ([]database.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, arg database.UpdateContactMessageStatusParams) (database.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id uuid.UUID) (int64, error)
}

// ContactHandler handles the public contact form and its inbox.
type ContactHandler struct {
	store  ContactStore
	mailer mail.Mailer
}

func NewContactHandler(store ContactStore, mailer mail.Mailer) *ContactHandler {
	return &ContactHandler{store: store, mailer: mailer}
}

func (h *ContactHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/", h.Create)
}

func (h *ContactHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type updateContactRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=new read replied archived"`
	Reply  string `json:"reply" validate:"max=5000"`
}

type contactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toContactResponse(m database.ContactMessage) contactResponse {
	return contactResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// --- Handlers ---

// Create handles POST /contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.store.CreateContactMessage(r.Context(), database.CreateContactMessageParams{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		internalError(w, "create contact message", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Your message has been sent",
		"data":    toContactResponse(msg),
	})
}

// List handles GET /contact (admin), newest first, optional status filter.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		if !enum.IsContactStatus(s) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = &s
	}

	list, err := h.store.ListContactMessages(r.Context(), status)
	if err != nil {
		internalError(w, "list contact messages", err)
		return
	}

	resp := make([]contactResponse, len(list))
	for i, m := range list {
		resp[i] = toContactResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /contact/{id}. Opening a new message marks it read.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "message")
	if !ok {
		return
	}

	msg, ok := h.load(w, r, id)
	if !ok {
		return
	}

	if msg.Status == enum.ContactStatusNew {
		updated, err := h.store.UpdateContactMessageStatus(r.Context(), database.UpdateContactMessageStatusParams{
			ID:     id,
			Status: enum.ContactStatusRead,
		})
		if err != nil {
			internalError(w, "mark contact message read", err)
			return
		}
		msg = updated
	}

	writeJSON(w, http.StatusOK, toContactResponse(msg))
}

// Update handles PUT /contact/{id}. A reply is mailed to the sender and
// moves the message to replied.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "message")
	if !ok {
		return
	}

	var req updateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply := strings.TrimSpace(req.Reply)
	if req.Status == "" && reply == "" {
		writeError(w, http.StatusBadRequest, "status or reply is required")
		return
	}

	msg, ok := h.load(w, r, id)
	if !ok {
		return
	}

	status := req.Status
	if reply != "" {
		h.sendReply(r.Context(), msg, reply)
		if status == "" {
			status = enum.ContactStatusReplied
		}
	}

	updated, err := h.store.UpdateContactMessageStatus(r.Context(), database.UpdateContactMessageStatusParams{
		ID:     id,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		internalError(w, "update contact message", err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponse(updated))
}

// Delete handles DELETE /contact/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "message")
	if !ok {
		return
	}

	n, err := h.store.DeleteContactMessage(r.Context(), id)
	if err != nil {
		internalError(w, "delete contact message", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message removed"})
}

// --- Helpers ---

func (h *ContactHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (database.ContactMessage, bool) {
	msg, err := h.store.GetContactMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "message not found")
			return msg, false
		}
		internalError(w, "get contact message", err)
		return msg, false
	}
	return msg, true
}

func (h *ContactHandler) sendReply(ctx context.Context, msg database.ContactMessage, reply string) {
	if h.mailer == nil {
		return
	}
	subject, body, err := mail.RenderContactReply(mail.ContactReply{
		Name:    msg.Name,
		Subject: msg.Subject,
		Reply:   reply,
	})
	if err != nil {
		logrus.Errorf("contact reply mail: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	defer cancel()
	if err := h.mailer.Send(ctx, msg.Email, subject, body); err != nil {
		logrus.WithField("message_id", msg.ID).Warnf("contact reply mail: %v", err)
	}
}
