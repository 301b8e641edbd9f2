package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const reservationColumns = `id, user_id, date, time, guests, name, email, phone, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (Reservation, error) {
	var i Reservation
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Date,
		&i.Time,
		&i.Guests,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectReservations(q *Queries, ctx context.Context, sql string, args ...interface{}) ([]Reservation, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Reservation{}
	for rows.Next() {
		i, err := scanReservation(rows)
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

const createReservation = `-- name: CreateReservation :one
INSERT INTO reservations (user_id, date, time, guests, name, email, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + reservationColumns

type CreateReservationParams struct {
	UserID uuid.UUID
	Date   time.Time
	Time   string
	Guests int32
	Name   string
	Email  string
	Phone  string
}

func (q *Queries) CreateReservation(ctx context.Context, arg CreateReservationParams) (Reservation, error) {
	row := q.db.QueryRow(ctx, createReservation,
		arg.UserID,
		arg.Date,
		arg.Time,
		arg.Guests,
		arg.Name,
		arg.Email,
		arg.Phone,
	)
	return scanReservation(row)
}

const getReservation = `-- name: GetReservation :one
SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

func (q *Queries) GetReservation(ctx context.Context, id uuid.UUID) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, getReservation, id))
}

const listReservations = `-- name: ListReservations :many
SELECT ` + reservationColumns + ` FROM reservations ORDER BY date DESC, time DESC`

func (q *Queries) ListReservations(ctx context.Context) ([]Reservation, error) {
	return collectReservations(q, ctx, listReservations)
}

const listReservationsByUser = `-- name: ListReservationsByUser :many
SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY date DESC, time DESC`

func (q *Queries) ListReservationsByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	return collectReservations(q, ctx, listReservationsByUser, userID)
}

const updateReservationStatus = `-- name: UpdateReservationStatus :one
UPDATE reservations SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + reservationColumns

type UpdateReservationStatusParams struct {
	ID         uuid.UUID
	FromStatus string
	ToStatus   string
}

func (q *Queries) UpdateReservationStatus(ctx context.Context, arg UpdateReservationStatusParams) (Reservation, error) {
	return scanReservation(q.db.QueryRow(ctx, updateReservationStatus, arg.ID, arg.FromStatus, arg.ToStatus))
}

const deleteReservation = `-- name: DeleteReservation :execrows
DELETE FROM reservations WHERE id = $1`

func (q *Queries) DeleteReservation(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteReservation, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
