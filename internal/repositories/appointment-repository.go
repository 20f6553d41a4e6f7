package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nauticare/internal/entities"
)

type AppointmentRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, appointment *entities.Appointment) error
}

type AppointmentRepository struct {
	storage *pgxpool.Pool
}

func NewAppointmentRepository(storage *pgxpool.Pool) AppointmentRepositoryInterface {
	return &AppointmentRepository{storage: storage}
}

func (r *AppointmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, appointment *entities.Appointment) error {
	query := `
		INSERT INTO appointments (id, request_id, at, location, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`
	if _, err := tx.Exec(ctx, query,
		appointment.ID, appointment.RequestID, appointment.At,
		appointment.Location, appointment.Notes,
	); err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}
