package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nauticare/internal/entities"
)

type RequestHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.RequestHistory) error
	FindByRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.RequestHistory, error)
}

type RequestHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewRequestHistoryRepository(storage *pgxpool.Pool) RequestHistoryRepositoryInterface {
	return &RequestHistoryRepository{storage: storage}
}

func (r *RequestHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.RequestHistory) error {
	query := `
		INSERT INTO request_history
			(id, request_id, actor_id, actor_role, intent, old_status, new_status, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`
	if _, err := tx.Exec(ctx, query,
		history.ID, history.RequestID, history.ActorID, history.ActorRole,
		history.Intent, history.OldStatus, history.NewStatus, history.Comment,
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *RequestHistoryRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) ([]entities.RequestHistory, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, request_id, actor_id, actor_role, intent, old_status, new_status, comment, created_at
		 FROM request_history WHERE request_id = $1
		 ORDER BY created_at ASC, id ASC`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []entities.RequestHistory
	for rows.Next() {
		var h entities.RequestHistory
		if err := rows.Scan(&h.ID, &h.RequestID, &h.ActorID, &h.ActorRole,
			&h.Intent, &h.OldStatus, &h.NewStatus, &h.Comment, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
