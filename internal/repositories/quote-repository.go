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

type QuoteRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, quote *entities.Quote) error
	SetStatusInTx(ctx context.Context, tx pgx.Tx, requestID uuid.UUID, status entities.QuoteStatus) error
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entities.Quote, error)
}

type QuoteRepository struct {
	storage *pgxpool.Pool
}

func NewQuoteRepository(storage *pgxpool.Pool) QuoteRepositoryInterface {
	return &QuoteRepository{storage: storage}
}

func (r *QuoteRepository) CreateInTx(ctx context.Context, tx pgx.Tx, quote *entities.Quote) error {
	query := `
		INSERT INTO quotes (id, request_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())`
	if _, err := tx.Exec(ctx, query, quote.ID, quote.RequestID, quote.Amount, quote.Status); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// SetStatusInTx updates the pending quote of a request; accepting or rejecting
// a quote that is no longer pending means the decision raced something else.
func (r *QuoteRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, requestID uuid.UUID, status entities.QuoteStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE quotes SET status = $1, updated_at = NOW() WHERE request_id = $2 AND status = $3`,
		status, requestID, entities.QuoteStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConcurrentModification
	}
	return nil
}

func (r *QuoteRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entities.Quote, error) {
	var q entities.Quote
	err := r.storage.QueryRow(ctx,
		`SELECT id, request_id, amount, status, created_at, updated_at
		 FROM quotes WHERE request_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		requestID,
	).Scan(&q.ID, &q.RequestID, &q.Amount, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	return &q, nil
}
