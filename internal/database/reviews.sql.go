package database

import (
	"context"

	"github.com/google/uuid"
)

const reviewColumns = `id, menu_item_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row interface{ Scan(...interface{}) error }) (Review, error) {
	var i Review
	err := row.Scan(
		&i.ID,
		&i.MenuItemID,
		&i.UserID,
		&i.Rating,
		&i.Comment,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// ReviewWithNames carries the reviewer and menu item names alongside a review.
// Names are empty when the referenced row no longer exists.
type ReviewWithNames struct {
	Review
	UserName     string
	MenuItemName string
}

func collectReviewsWithNames(q *Queries, ctx context.Context, sql string, args ...interface{}) ([]ReviewWithNames, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ReviewWithNames{}
	for rows.Next() {
		var i ReviewWithNames
		if err := rows.Scan(
			&i.ID,
			&i.MenuItemID,
			&i.UserID,
			&i.Rating,
			&i.Comment,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.UserName,
			&i.MenuItemName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createReview = `-- name: CreateReview :one
INSERT INTO reviews (menu_item_id, user_id, rating, comment)
VALUES ($1, $2, $3, $4)
RETURNING ` + reviewColumns

type CreateReviewParams struct {
	MenuItemID uuid.UUID
	UserID     uuid.UUID
	Rating     int32
	Comment    string
}

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error) {
	row := q.db.QueryRow(ctx, createReview, arg.MenuItemID, arg.UserID, arg.Rating, arg.Comment)
	return scanReview(row)
}

const getReview = `-- name: GetReview :one
SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

func (q *Queries) GetReview(ctx context.Context, id uuid.UUID) (Review, error) {
	return scanReview(q.db.QueryRow(ctx, getReview, id))
}

const getReviewByUserAndMenuItem = `-- name: GetReviewByUserAndMenuItem :one
SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND menu_item_id = $2`

type GetReviewByUserAndMenuItemParams struct {
	UserID     uuid.UUID
	MenuItemID uuid.UUID
}

func (q *Queries) GetReviewByUserAndMenuItem(ctx context.Context, arg GetReviewByUserAndMenuItemParams) (Review, error) {
	return scanReview(q.db.QueryRow(ctx, getReviewByUserAndMenuItem, arg.UserID, arg.MenuItemID))
}

const listReviewsByMenuItem = `-- name: ListReviewsByMenuItem :many
SELECT r.id, r.menu_item_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
       COALESCE(u.name, '') AS user_name, COALESCE(m.name, '') AS menu_item_name
FROM reviews r
LEFT JOIN users u ON u.id = r.user_id
LEFT JOIN menu_items m ON m.id = r.menu_item_id
WHERE r.menu_item_id = $1
ORDER BY r.created_at DESC`

func (q *Queries) ListReviewsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]ReviewWithNames, error) {
	return collectReviewsWithNames(q, ctx, listReviewsByMenuItem, menuItemID)
}

const listReviews = `-- name: ListReviews :many
SELECT r.id, r.menu_item_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
       COALESCE(u.name, '') AS user_name, COALESCE(m.name, '') AS menu_item_name
FROM reviews r
LEFT JOIN users u ON u.id = r.user_id
LEFT JOIN menu_items m ON m.id = r.menu_item_id
ORDER BY r.created_at DESC`

func (q *Queries) ListReviews(ctx context.Context) ([]ReviewWithNames, error) {
	return collectReviewsWithNames(q, ctx, listReviews)
}

const updateReview = `-- name: UpdateReview :one
UPDATE reviews SET rating = $2, comment = $3, updated_at = now()
WHERE id = $1
RETURNING ` + reviewColumns

type UpdateReviewParams struct {
	ID      uuid.UUID
	Rating  int32
	Comment string
}

func (q *Queries) UpdateReview(ctx context.Context, arg UpdateReviewParams) (Review, error) {
	return scanReview(q.db.QueryRow(ctx, updateReview, arg.ID, arg.Rating, arg.Comment))
}

const deleteReview = `-- name: DeleteReview :execrows
DELETE FROM reviews WHERE id = $1`

func (q *Queries) DeleteReview(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteReview, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
