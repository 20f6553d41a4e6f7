package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nauticare/internal/entities"
	"nauticare/internal/workflow"
	apperrors "nauticare/pkg/errors"
	"nauticare/pkg/types"
)

// RequestRepositoryInterface is the narrow port the workflow services use to
// load and persist service requests. UpdateStatusInTx is the optimistic write
// every transition goes through.
type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.RequestFilter) ([]entities.ServiceRequest, uint64, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error)
	CreateRequest(ctx context.Context, req *entities.ServiceRequest) error
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, next workflow.Status, extra map[string]interface{}) error
	SetUrgency(ctx context.Context, id uuid.UUID, urgency workflow.Urgency) error
	InvoiceReferenceExists(ctx context.Context, reference string) (bool, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const requestColumns = `
	r.id, r.title, r.description, r.category, r.status, r.urgency,
	r.client_id, c.name,
	r.boat_id, b.name,
	r.boat_manager_id, m.name,
	r.company_id, co.name,
	r.amount, r.deposit,
	r.invoice_reference, r.invoice_date, r.payment_due_date,
	r.scheduled_at, r.scheduled_location, r.scheduled_notes,
	r.created_at, r.updated_at`

func requestBase() sq.SelectBuilder {
	return psql.Select(requestColumns).
		From("service_requests r").
		Join("clients c ON c.id = r.client_id").
		LeftJoin("boats b ON b.id = r.boat_id").
		LeftJoin("boat_managers m ON m.id = r.boat_manager_id").
		LeftJoin("companies co ON co.id = r.company_id")
}

func scanRequest(row pgx.Row) (*entities.ServiceRequest, error) {
	var r entities.ServiceRequest
	err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.Category, &r.Status, &r.Urgency,
		&r.ClientID, &r.ClientName,
		&r.BoatID, &r.BoatName,
		&r.BoatManagerID, &r.BoatManagerName,
		&r.CompanyID, &r.CompanyName,
		&r.Amount, &r.Deposit,
		&r.InvoiceReference, &r.InvoiceDate, &r.PaymentDueDate,
		&r.ScheduledAt, &r.ScheduledLocation, &r.ScheduledNotes,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func applyFilter(b sq.SelectBuilder, filter types.RequestFilter) sq.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"r.title": pattern},
			sq.ILike{"r.category": pattern},
			sq.ILike{"c.name": pattern},
			sq.ILike{"b.name": pattern},
			sq.ILike{"m.name": pattern},
			sq.ILike{"co.name": pattern},
		})
	}

	// status_group and urgency are mutually exclusive by construction
	// (types.RequestFilter radio semantics); guard anyway.
	if filter.StatusGroup != "" {
		if group, err := workflow.ParseStatusGroup(filter.StatusGroup); err == nil {
			statuses := group.Statuses()
			values := make([]string, len(statuses))
			for i, s := range statuses {
				values[i] = string(s)
			}
			b = b.Where(sq.Eq{"r.status": values})
		}
	} else if filter.Urgency != "" {
		b = b.Where(sq.Eq{"r.urgency": filter.Urgency})
	}

	return b
}

func applySort(b sq.SelectBuilder, filter types.RequestFilter) sq.SelectBuilder {
	dir := "DESC"
	if filter.SortOrder == types.SortAsc {
		dir = "ASC"
	}

	switch filter.SortBy {
	case types.SortByClient:
		b = b.OrderBy("c.name "+dir, "r.created_at DESC")
	case types.SortByBoatManager:
		b = b.OrderBy("COALESCE(m.name, '') "+dir, "r.created_at DESC")
	case types.SortByCompany:
		b = b.OrderBy("COALESCE(co.name, '') "+dir, "r.created_at DESC")
	default:
		b = b.OrderBy("r.created_at " + dir)
	}

	return b
}

func (r *RequestRepository) GetRequests(ctx context.Context, filter types.RequestFilter) ([]entities.ServiceRequest, uint64, error) {
	countSQL, countArgs, err := applyFilter(
		psql.Select("COUNT(*)").
			From("service_requests r").
			Join("clients c ON c.id = r.client_id").
			LeftJoin("boats b ON b.id = r.boat_id").
			LeftJoin("boat_managers m ON m.id = r.boat_manager_id").
			LeftJoin("companies co ON co.id = r.company_id"),
		filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	b := applySort(applyFilter(requestBase(), filter), filter)
	if filter.Limit > 0 {
		b = b.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.ServiceRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *req)
	}

	return requests, total, rows.Err()
}

func (r *RequestRepository) FindRequest(ctx context.Context, id uuid.UUID) (*entities.ServiceRequest, error) {
	query, args, err := requestBase().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find query: %w", err)
	}

	req, err := scanRequest(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan request: %w", err)
	}
	return req, nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.ServiceRequest) error {
	query := `
		INSERT INTO service_requests
			(id, title, description, category, status, urgency,
			 client_id, boat_id, boat_manager_id, company_id,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	_, err := r.storage.Exec(ctx, query,
		req.ID, req.Title, req.Description, req.Category, req.Status, req.Urgency,
		req.ClientID, req.BoatID, req.BoatManagerID, req.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// UpdateStatusInTx is the conditional write at the heart of the workflow:
// status only changes when the row still carries the status the decision was
// made against. Zero rows updated means either the request is gone or someone
// else moved it on; the two cases are distinguished so the caller can react.
func (r *RequestRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, expected, next workflow.Status, extra map[string]interface{}) error {
	setMap := map[string]interface{}{
		"status":     string(next),
		"updated_at": sq.Expr("NOW()"),
	}
	for column, value := range extra {
		setMap[column] = value
	}

	query, args, err := psql.Update("service_requests").
		SetMap(setMap).
		Where(sq.Eq{"id": id, "status": string(expected)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build status update: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM service_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check request existence: %w", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrConcurrentModification
}

func (r *RequestRepository) SetUrgency(ctx context.Context, id uuid.UUID, urgency workflow.Urgency) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE service_requests SET urgency = $1, updated_at = NOW() WHERE id = $2`,
		string(urgency), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update urgency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) InvoiceReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE reference = $1)`,
		reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invoice reference: %w", err)
	}
	return exists, nil
}
