package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const getDashboardStats = `-- name: GetDashboardStats :one
SELECT
    (SELECT COUNT(*) FROM orders)                                                  AS total_orders,
    (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled') AS total_revenue,
    (SELECT COUNT(*) FROM orders WHERE status = 'pending')                         AS pending_orders,
    (SELECT COUNT(*) FROM users WHERE role = 'customer')                           AS total_customers,
    (SELECT COUNT(*) FROM menu_items)                                              AS total_menu_items,
    (SELECT COUNT(*) FROM reservations WHERE status = 'Pending')                   AS pending_reservations,
    (SELECT COUNT(*) FROM contact_messages WHERE status = 'new')                   AS unread_messages`

type DashboardStats struct {
	TotalOrders         int64
	TotalRevenue        decimal.Decimal
	PendingOrders       int64
	TotalCustomers      int64
	TotalMenuItems      int64
	PendingReservations int64
	UnreadMessages      int64
}

func (q *Queries) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var i DashboardStats
	err := q.db.QueryRow(ctx, getDashboardStats).Scan(
		&i.TotalOrders,
		&i.TotalRevenue,
		&i.PendingOrders,
		&i.TotalCustomers,
		&i.TotalMenuItems,
		&i.PendingReservations,
		&i.UnreadMessages,
	)
	return i, err
}

const getDailySales = `-- name: GetDailySales :many
SELECT
    d::date AS day,
    COUNT(o.id) AS order_count,
    COALESCE(SUM(o.total_amount), 0) AS revenue
FROM generate_series($1::date, $2::date, interval '1 day') AS d
LEFT JOIN orders o
    ON o.created_at::date = d::date AND o.status <> 'cancelled'
GROUP BY d
ORDER BY d`

type GetDailySalesParams struct {
	From time.Time
	To   time.Time
}

type DailySalesRow struct {
	Day        time.Time
	OrderCount int64
	Revenue    decimal.Decimal
}

func (q *Queries) GetDailySales(ctx context.Context, arg GetDailySalesParams) ([]DailySalesRow, error) {
	rows, err := q.db.Query(ctx, getDailySales, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []DailySalesRow{}
	for rows.Next() {
		var i DailySalesRow
		if err := rows.Scan(&i.Day, &i.OrderCount, &i.Revenue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPopularItems = `-- name: GetPopularItems :many
SELECT
    oi.menu_item_id,
    MAX(oi.name) AS name,
    SUM(oi.quantity)::bigint AS total_quantity,
    SUM(oi.price * oi.quantity) AS revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.status <> 'cancelled'
GROUP BY oi.menu_item_id
ORDER BY total_quantity DESC, name
LIMIT $1`

type PopularItemRow struct {
	MenuItemID    uuid.UUID
	Name          string
	TotalQuantity int64
	Revenue       decimal.Decimal
}

func (q *Queries) GetPopularItems(ctx context.Context, limit int32) ([]PopularItemRow, error) {
	rows, err := q.db.Query(ctx, getPopularItems, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []PopularItemRow{}
	for rows.Next() {
		var i PopularItemRow
		if err := rows.Scan(&i.MenuItemID, &i.Name, &i.TotalQuantity, &i.Revenue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getReservationStatusCounts = `-- name: GetReservationStatusCounts :many
SELECT status, COUNT(*) AS count FROM reservations GROUP BY status ORDER BY status`

type ReservationStatusCount struct {
	Status string
	Count  int64
}

func (q *Queries) GetReservationStatusCounts(ctx context.Context) ([]ReservationStatusCount, error) {
	rows, err := q.db.Query(ctx, getReservationStatusCounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReservationStatusCount{}
	for rows.Next() {
		var i ReservationStatusCount
		if err := rows.Scan(&i.Status, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
