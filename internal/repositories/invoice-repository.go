package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nauticare/internal/entities"
	apperrors "nauticare/pkg/errors"
)

type InvoiceRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, invoice *entities.Invoice) error
	MarkPaidInTx(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) error
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entities.Invoice, error)
	GetBillingRows(ctx context.Context) ([]BillingRow, error)
}

// BillingRow is the denormalized line the corporate billing report exports.
type BillingRow struct {
	Reference  string
	ClientName string
	PayerName  string
	Amount     float64
	Deposit    float64
	IssuedAt   string
	DueAt      string
	Status     string
}

type InvoiceRepository struct {
	storage *pgxpool.Pool
}

func NewInvoiceRepository(storage *pgxpool.Pool) InvoiceRepositoryInterface {
	return &InvoiceRepository{storage: storage}
}

func (r *InvoiceRepository) CreateInTx(ctx context.Context, tx pgx.Tx, invoice *entities.Invoice) error {
	query := `
		INSERT INTO invoices (id, request_id, reference, amount, deposit, issued_at, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	if _, err := tx.Exec(ctx, query,
		invoice.ID, invoice.RequestID, invoice.Reference,
		invoice.Amount, invoice.Deposit, invoice.IssuedAt, invoice.DueAt,
	); err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) MarkPaidInTx(ctx context.Context, tx pgx.Tx, requestID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE invoices SET paid_at = NOW() WHERE request_id = $1 AND paid_at IS NULL`,
		requestID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConcurrentModification
	}
	return nil
}

func (r *InvoiceRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entities.Invoice, error) {
	var inv entities.Invoice
	err := r.storage.QueryRow(ctx,
		`SELECT id, request_id, reference, amount, deposit, issued_at, due_at, paid_at, created_at
		 FROM invoices WHERE request_id = $1`,
		requestID,
	).Scan(&inv.ID, &inv.RequestID, &inv.Reference, &inv.Amount, &inv.Deposit,
		&inv.IssuedAt, &inv.DueAt, &inv.PaidAt, &inv.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetBillingRows(ctx context.Context) ([]BillingRow, error) {
	query := `
		SELECT i.reference, c.name,
		       COALESCE(co.name, COALESCE(m.name, c.name)),
		       i.amount, i.deposit,
		       to_char(i.issued_at, 'YYYY-MM-DD'), to_char(i.due_at, 'YYYY-MM-DD'),
		       r.status
		FROM invoices i
		JOIN service_requests r ON r.id = i.request_id
		JOIN clients c ON c.id = r.client_id
		LEFT JOIN boat_managers m ON m.id = r.boat_manager_id
		LEFT JOIN companies co ON co.id = r.company_id
		ORDER BY i.issued_at DESC`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query billing rows: %w", err)
	}
	defer rows.Close()

	var out []BillingRow
	for rows.Next() {
		var row BillingRow
		if err := rows.Scan(&row.Reference, &row.ClientName, &row.PayerName,
			&row.Amount, &row.Deposit, &row.IssuedAt, &row.DueAt, &row.Status); err != nil {
			return nil, fmt.Errorf("failed to scan billing row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
