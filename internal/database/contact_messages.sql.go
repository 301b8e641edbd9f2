package database

import (
	"context"

	"github.com/google/uuid"
)

const contactMessageColumns = `id, name, email, subject, message, status, created_at, updated_at`

func scanContactMessage(row interface{ Scan(...interface{}) error }) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Subject,
		&i.Message,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, subject, message)
VALUES ($1, $2, $3, $4)
RETURNING ` + contactMessageColumns

type CreateContactMessageParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRow(ctx, createContactMessage, arg.Name, arg.Email, arg.Subject, arg.Message)
	return scanContactMessage(row)
}

const getContactMessage = `-- name: GetContactMessage :one
SELECT ` + contactMessageColumns + ` FROM contact_messages WHERE id = $1`

func (q *Queries) GetContactMessage(ctx context.Context, id uuid.UUID) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRow(ctx, getContactMessage, id))
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
WHERE ($1::text IS NULL OR status = $1::text)
ORDER BY created_at DESC`

func (q *Queries) ListContactMessages(ctx context.Context, status *string) ([]ContactMessage, error) {
	rows, err := q.db.Query(ctx, listContactMessages, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ContactMessage{}
	for rows.Next() {
		i, err := scanContactMessage(rows)
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

const updateContactMessageStatus = `-- name: UpdateContactMessageStatus :one
UPDATE contact_messages SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + contactMessageColumns

type UpdateContactMessageStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateContactMessageStatus(ctx context.Context, arg UpdateContactMessageStatusParams) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRow(ctx, updateContactMessageStatus, arg.ID, arg.Status))
}

const deleteContactMessage = `-- name: DeleteContactMessage :execrows
DELETE FROM contact_messages WHERE id = $1`

func (q *Queries) DeleteContactMessage(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
