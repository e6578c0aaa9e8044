// Package submissions provides the lead submission ingestion bounded context:
// normalization, validation, priority classification, persistence, and the
// public intake endpoints.
package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// CodeSchemaNotConfigured marks a missing backing table: a deployment
	// defect ("needs migration"), not a transient store error.
	CodeSchemaNotConfigured = "schema_not_configured"
	// CodeWriteFailed marks a generic store failure on the ingest path.
	CodeWriteFailed = "write_failed"
	// CodeReadFailed marks a store failure while listing submissions.
	CodeReadFailed = "read_failed"

	// undefinedTable is the SQLSTATE Postgres raises for a missing relation.
	undefinedTable = "42P01"
)

// Repository persists canonical submissions.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new submissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert durably stores a validated submission and fills in the
// database-assigned ID and creation timestamp. The record is written exactly
// once and never mutated afterwards.
func (r *Repository) Insert(ctx context.Context, sub *domain.Submission) error {
	formData, err := json.Marshal(sub.FormData)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to store submission", err).
			WithCode(CodeWriteFailed).WithOp("submissions.insert")
	}
	utm, err := json.Marshal(sub.Context.UTM)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to store submission", err).
			WithCode(CodeWriteFailed).WithOp("submissions.insert")
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO submissions
			(type, name, email, phone, company, role, form_data,
			 ip, user_agent, referrer, utm, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`,
		sub.Type, sub.Contact.Name, sub.Contact.Email, sub.Contact.Phone,
		sub.Contact.Company, sub.Contact.Role, formData,
		sub.Context.IP, sub.Context.UserAgent, sub.Context.Referrer, utm,
		sub.Priority, sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return classifyInsertError(err)
	}

	return nil
}

// classifyInsertError maps driver failures onto the pipeline's persistence
// error taxonomy. The raw driver message is preserved on the wrapped error
// for logs but never reaches untrusted callers.
func classifyInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return apperr.Wrap(apperr.KindInternal, "submission storage is not configured", err).
			WithCode(CodeSchemaNotConfigured).WithOp("submissions.insert")
	}
	return apperr.Wrap(apperr.KindInternal, "failed to store submission", err).
		WithCode(CodeWriteFailed).WithOp("submissions.insert")
}

// classifyListError is the read-path counterpart: the missing-table case is
// still a deployment defect, everything else is a read failure.
func classifyListError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
		return apperr.Wrap(apperr.KindInternal, "submission storage is not configured", err).
			WithCode(CodeSchemaNotConfigured).WithOp("submissions.list")
	}
	return apperr.Wrap(apperr.KindInternal, "failed to read submissions", err).
		WithCode(CodeReadFailed).WithOp("submissions.list")
}

// ListFilter narrows the admin submission listing.
type ListFilter struct {
	Type     string
	Priority string
	Limit    int
	Offset   int
}

// List returns persisted submissions for the admin console, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]domain.Submission, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	query := `
		SELECT id, type, name, email, phone, company, role, form_data,
		       ip, user_agent, referrer, utm, priority, status, created_at
		FROM submissions
	`
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyListError(err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var (
			sub      domain.Submission
			formData []byte
			utm      []byte
		)
		if err := rows.Scan(
			&sub.ID, &sub.Type, &sub.Contact.Name, &sub.Contact.Email,
			&sub.Contact.Phone, &sub.Contact.Company, &sub.Contact.Role, &formData,
			&sub.Context.IP, &sub.Context.UserAgent, &sub.Context.Referrer, &utm,
			&sub.Priority, &sub.Status, &sub.CreatedAt,
		); err != nil {
			return nil, classifyListError(err)
		}
		if len(formData) > 0 {
			_ = json.Unmarshal(formData, &sub.FormData)
		}
		if len(utm) > 0 {
			_ = json.Unmarshal(utm, &sub.Context.UTM)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyListError(err)
	}
	return subs, nil
}
