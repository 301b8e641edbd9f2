package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, user_id, total_amount, status, delivery_address, payment_method, payment_status, transaction_id, delivered_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.TotalAmount,
		&i.Status,
		&i.DeliveryAddress,
		&i.PaymentMethod,
		&i.PaymentStatus,
		&i.TransactionID,
		&i.DeliveredAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectOrders(q *Queries, ctx context.Context, sql string, args ...interface{}) ([]Order, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Order{}
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (user_id, total_amount, delivery_address, payment_method, payment_status, transaction_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	UserID          *uuid.UUID
	TotalAmount     decimal.Decimal
	DeliveryAddress Address
	PaymentMethod   string
	PaymentStatus   string
	TransactionID   string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.UserID,
		arg.TotalAmount,
		arg.DeliveryAddress,
		arg.PaymentMethod,
		arg.PaymentStatus,
		arg.TransactionID,
	)
	return scanOrder(row)
}

const orderItemColumns = `id, order_id, menu_item_id, name, quantity, price, customizations, created_at`

func scanOrderItem(row interface{ Scan(...interface{}) error }) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.OrderID,
		&i.MenuItemID,
		&i.Name,
		&i.Quantity,
		&i.Price,
		&i.Customizations,
		&i.CreatedAt,
	)
	return i, err
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (order_id, menu_item_id, name, quantity, price, customizations)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + orderItemColumns

type CreateOrderItemParams struct {
	OrderID        uuid.UUID
	MenuItemID     uuid.UUID
	Name           string
	Quantity       int32
	Price          decimal.Decimal
	Customizations *Customizations
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.MenuItemID,
		arg.Name,
		arg.Quantity,
		arg.Price,
		arg.Customizations,
	)
	return scanOrderItem(row)
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + ` FROM orders
WHERE ($1::text IS NULL OR status = $1::text)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

type ListOrdersParams struct {
	Status *string
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	return collectOrders(q, ctx, listOrders, arg.Status, arg.Limit, arg.Offset)
}

const listOrdersByUser = `-- name: ListOrdersByUser :many
SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

func (q *Queries) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return collectOrders(q, ctx, listOrdersByUser, userID)
}

const listOrderItemsByOrders = `-- name: ListOrderItemsByOrders :many
SELECT ` + orderItemColumns + ` FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY created_at, id`

func (q *Queries) ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrders, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

// UpdateOrderStatusParams moves an order from FromStatus to ToStatus.
// No row is returned when the order is no longer in FromStatus.
type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	FromStatus string
	ToStatus   string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.FromStatus, arg.ToStatus))
}

const markOrderDelivered = `-- name: MarkOrderDelivered :one
UPDATE orders SET status = 'delivered', delivered_at = now(), updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

type MarkOrderDeliveredParams struct {
	ID         uuid.UUID
	FromStatus string
}

func (q *Queries) MarkOrderDelivered(ctx context.Context, arg MarkOrderDeliveredParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, markOrderDelivered, arg.ID, arg.FromStatus))
}

const associateGuestOrders = `-- name: AssociateGuestOrders :execrows
UPDATE orders SET user_id = $1, updated_at = now()
WHERE id = ANY($2::uuid[]) AND user_id IS NULL`

type AssociateGuestOrdersParams struct {
	UserID   uuid.UUID
	OrderIDs []uuid.UUID
}

// AssociateGuestOrders claims the unowned orders among OrderIDs for UserID.
// Orders that already have an owner are left untouched.
func (q *Queries) AssociateGuestOrders(ctx context.Context, arg AssociateGuestOrdersParams) (int64, error) {
	result, err := q.db.Exec(ctx, associateGuestOrders, arg.UserID, arg.OrderIDs)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const countOrderedMenuItems = `-- name: CountOrderedMenuItems :many
SELECT menu_item_id, SUM(quantity)::bigint AS total_quantity
FROM order_items
GROUP BY menu_item_id`

type MenuItemOrderCount struct {
	MenuItemID    uuid.UUID
	TotalQuantity int64
}

func (q *Queries) CountOrderedMenuItems(ctx context.Context) ([]MenuItemOrderCount, error) {
	rows, err := q.db.Query(ctx, countOrderedMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MenuItemOrderCount{}
	for rows.Next() {
		var i MenuItemOrderCount
		if err := rows.Scan(&i.MenuItemID, &i.TotalQuantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
