package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tastehub/api/internal/database"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetDashboardStats(ctx context.Context) (database.DashboardStats, error)
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.DailySalesRow, error)
	GetPopularItems(ctx context.Context, limit int32) ([]database.PopularItemRow, error)
	GetReservationStatusCounts(ctx context.Context) ([]database.ReservationStatusCount, error)
}

// ReportsHandler handles admin report endpoints.
type ReportsHandler struct {
	store ReportsStore
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store, now: time.Now}
}

// RegisterRoutes registers report endpoints.
// Expected behind RequireRole(admin) at /reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
	r.Get("/daily-sales", h.DailySales)
	r.Get("/popular-items", h.PopularItems)
	r.Get("/reservations", h.Reservations)
}

// --- Response types ---

type dashboardResponse struct {
	TotalOrders         int64  `json:"totalOrders"`
	TotalRevenue        string `json:"totalRevenue"`
	PendingOrders       int64  `json:"pendingOrders"`
	TotalCustomers      int64  `json:"totalCustomers"`
	TotalMenuItems      int64  `json:"totalMenuItems"`
	PendingReservations int64  `json:"pendingReservations"`
	UnreadMessages      int64  `json:"unreadMessages"`
}

type dailySalesResponse struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"orderCount"`
	Revenue    string `json:"revenue"`
}

type popularItemResponse struct {
	MenuItem      uuid.UUID `json:"menuItem"`
	Name          string    `json:"name"`
	TotalQuantity int64     `json:"totalQuantity"`
	Revenue       string    `json:"revenue"`
}

type reservationCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// --- Handlers ---

// Dashboard returns the headline counters of the admin dashboard.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetDashboardStats(r.Context())
	if err != nil {
		internalError(w, "get dashboard stats", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalOrders:         stats.TotalOrders,
		TotalRevenue:        money(stats.TotalRevenue),
		PendingOrders:       stats.PendingOrders,
		TotalCustomers:      stats.TotalCustomers,
		TotalMenuItems:      stats.TotalMenuItems,
		PendingReservations: stats.PendingReservations,
		UnreadMessages:      stats.UnreadMessages,
	})
}

// DailySales returns per-day order counts and revenue. The range is either
// start_date/end_date or the last ?days days (default 7) ending today.
func (h *ReportsHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{From: from, To: to})
	if err != nil {
		internalError(w, "get daily sales", err)
		return
	}

	resp := make([]dailySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesResponse{
			Date:       row.Day.Format(dateLayout),
			OrderCount: row.OrderCount,
			Revenue:    money(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// PopularItems returns the best selling menu items by quantity.
func (h *ReportsHandler) PopularItems(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10, 1, 100)

	rows, err := h.store.GetPopularItems(r.Context(), int32(limit))
	if err != nil {
		internalError(w, "get popular items", err)
		return
	}

	resp := make([]popularItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = popularItemResponse{
			MenuItem:      row.MenuItemID,
			Name:          row.Name,
			TotalQuantity: row.TotalQuantity,
			Revenue:       money(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reservations returns reservation counts by status.
func (h *ReportsHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.GetReservationStatusCounts(r.Context())
	if err != nil {
		internalError(w, "get reservation counts", err)
		return
	}

	resp := make([]reservationCountResponse, len(rows))
	for i, row := range rows {
		resp[i] = reservationCountResponse{Status: row.Status, Count: row.Count}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (h *ReportsHandler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if s, e := q.Get("start_date"), q.Get("end_date"); s != "" || e != "" {
		if s == "" || e == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date and end_date must be given together")
		}
		from, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format, use YYYY-MM-DD")
		}
		to, err := time.Parse(dateLayout, e)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format, use YYYY-MM-DD")
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date must not be before start_date")
		}
		if to.Sub(from) > 366*24*time.Hour {
			return time.Time{}, time.Time{}, fmt.Errorf("date range must not exceed one year")
		}
		return from, to, nil
	}

	days := queryInt(r, "days", 7, 1, 90)
	now := h.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -(days - 1)), to, nil
}
