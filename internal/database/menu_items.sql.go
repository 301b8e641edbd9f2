package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const menuItemColumns = `id, name, description, price, category, sub_category, vegetarian, available, image_url, sizes, related_items, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.Category,
		&i.SubCategory,
		&i.Vegetarian,
		&i.Available,
		&i.ImageURL,
		&i.Sizes,
		&i.RelatedItems,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if i.RelatedItems == nil {
		i.RelatedItems = []uuid.UUID{}
	}
	return i, err
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (name, description, price, category, sub_category, vegetarian, available, image_url, sizes, related_items)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + menuItemColumns

type CreateMenuItemParams struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	SubCategory  *string
	Vegetarian   bool
	Available    bool
	ImageURL     string
	Sizes        Sizes
	RelatedItems []uuid.UUID
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.SubCategory,
		arg.Vegetarian,
		arg.Available,
		arg.ImageURL,
		arg.Sizes,
		relatedOrEmpty(arg.RelatedItems),
	)
	return scanMenuItem(row)
}

const getMenuItem = `-- name: GetMenuItem :one
SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItem, id))
}

const listMenuItems = `-- name: ListMenuItems :many
SELECT ` + menuItemColumns + ` FROM menu_items
WHERE ($1::boolean = false OR available = true)
  AND ($2::text IS NULL OR category = $2::text)
  AND ($3::text IS NULL OR sub_category = $3::text)
ORDER BY category, name`

type ListMenuItemsParams struct {
	AvailableOnly bool
	Category      *string
	SubCategory   *string
}

func (q *Queries) ListMenuItems(ctx context.Context, arg ListMenuItemsParams) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems, arg.AvailableOnly, arg.Category, arg.SubCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MenuItem{}
	for rows.Next() {
		i, err := scanMenuItem(rows)
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

const listMenuItemSummaries = `-- name: ListMenuItemSummaries :many
SELECT id, name, price, category, image_url FROM menu_items WHERE id = ANY($1::uuid[])`

func (q *Queries) ListMenuItemSummaries(ctx context.Context, ids []uuid.UUID) ([]MenuItemSummary, error) {
	rows, err := q.db.Query(ctx, listMenuItemSummaries, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MenuItemSummary{}
	for rows.Next() {
		var i MenuItemSummary
		if err := rows.Scan(&i.ID, &i.Name, &i.Price, &i.Category, &i.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMenuItem = `-- name: UpdateMenuItem :one
UPDATE menu_items
SET name = $2, description = $3, price = $4, category = $5, sub_category = $6,
    vegetarian = $7, available = $8, image_url = $9, sizes = $10, related_items = $11,
    updated_at = now()
WHERE id = $1
RETURNING ` + menuItemColumns

type UpdateMenuItemParams struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	SubCategory  *string
	Vegetarian   bool
	Available    bool
	ImageURL     string
	Sizes        Sizes
	RelatedItems []uuid.UUID
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Category,
		arg.SubCategory,
		arg.Vegetarian,
		arg.Available,
		arg.ImageURL,
		arg.Sizes,
		relatedOrEmpty(arg.RelatedItems),
	)
	return scanMenuItem(row)
}

const deleteMenuItem = `-- name: DeleteMenuItem :execrows
DELETE FROM menu_items WHERE id = $1`

func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteMenuItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func relatedOrEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
