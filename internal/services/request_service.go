package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"nauticare/internal/dto"
	"nauticare/internal/entities"
	"nauticare/internal/repositories"
	"nauticare/internal/workflow"
	apperrors "nauticare/pkg/errors"
	"nauticare/pkg/types"
)

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.RequestFilter) ([]dto.ServiceRequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uuid.UUID) (dto.ServiceRequestDTO, error)
	CreateRequest(ctx context.Context, actor workflow.ActorContext, payload dto.CreateRequestDTO) (dto.ServiceRequestDTO, error)
	AttemptTransition(ctx context.Context, actor workflow.ActorContext, id uuid.UUID, payload dto.TransitionRequestDTO) (dto.ServiceRequestDTO, error)
	SetUrgency(ctx context.Context, id uuid.UUID, payload dto.SetUrgencyDTO) (dto.ServiceRequestDTO, error)
	GetHistory(ctx context.Context, id uuid.UUID) ([]dto.HistoryEntryDTO, error)
}

// RequestService orchestrates the lifecycle: it loads the snapshot, asks the
// transition engine for a decision, then persists the status change, the side
// record and the audit line in one transaction.
type RequestService struct {
	txManager       repositories.TxManagerInterface
	requestRepo     repositories.RequestRepositoryInterface
	quoteRepo       repositories.QuoteRepositoryInterface
	invoiceRepo     repositories.InvoiceRepositoryInterface
	appointmentRepo repositories.AppointmentRepositoryInterface
	historyRepo     repositories.RequestHistoryRepositoryInterface
	billing         BillingServiceInterface
	flags           ActivityFlagServiceInterface
	logger          *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	quoteRepo repositories.QuoteRepositoryInterface,
	invoiceRepo repositories.InvoiceRepositoryInterface,
	appointmentRepo repositories.AppointmentRepositoryInterface,
	historyRepo repositories.RequestHistoryRepositoryInterface,
	billing BillingServiceInterface,
	flags ActivityFlagServiceInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:       txManager,
		requestRepo:     requestRepo,
		quoteRepo:       quoteRepo,
		invoiceRepo:     invoiceRepo,
		appointmentRepo: appointmentRepo,
		historyRepo:     historyRepo,
		billing:         billing,
		flags:           flags,
		logger:          logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.RequestFilter) ([]dto.ServiceRequestDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.ServiceRequestDTO, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewServiceRequestDTO(&requests[i], s.flags.Flags(ctx, requests[i].ID)))
	}
	return out, total, nil
}

// FindRequest returns the request with its activity flags as they were before
// this read, then clears them: opening a request acknowledges its activity.
func (s *RequestService) FindRequest(ctx context.Context, id uuid.UUID) (dto.ServiceRequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	flags := s.flags.Flags(ctx, id)
	s.flags.ClearOnOpen(ctx, id)

	return dto.NewServiceRequestDTO(req, flags), nil
}

func (s *RequestService) CreateRequest(ctx context.Context, actor workflow.ActorContext, payload dto.CreateRequestDTO) (dto.ServiceRequestDTO, error) {
	category, err := entities.ParseCategory(payload.Category)
	if err != nil {
		return dto.ServiceRequestDTO{}, apperrors.NewValidationError("%v", err)
	}
	if category.RequiresBoat() && !payload.BoatID.Valid {
		return dto.ServiceRequestDTO{}, apperrors.NewValidationError("category %q requires a boat", payload.Category)
	}

	urgency := workflow.UrgencyNormal
	if payload.Urgency != "" {
		if urgency, err = workflow.ParseUrgency(payload.Urgency); err != nil {
			return dto.ServiceRequestDTO{}, apperrors.NewValidationError("%v", err)
		}
	}

	req := &entities.ServiceRequest{
		ID:            uuid.New(),
		Title:         payload.Title,
		Description:   payload.Description,
		Category:      category,
		Status:        workflow.StatusSubmitted,
		Urgency:       urgency,
		ClientID:      payload.ClientID,
		BoatID:        payload.BoatID,
		BoatManagerID: payload.BoatManagerID,
		CompanyID:     payload.CompanyID,
	}

	if err := s.requestRepo.CreateRequest(ctx, req); err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	s.flags.MarkNew(ctx, req.ID)
	s.logger.Info("service request created",
		zap.String("requestId", req.ID.String()),
		zap.String("category", string(category)),
		zap.String("actorRole", string(actor.Role)),
	)

	// Refetch to pick up the joined party names.
	created, err := s.requestRepo.FindRequest(ctx, req.ID)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}
	return dto.NewServiceRequestDTO(created, dto.ActivityFlagsDTO{IsNew: true}), nil
}

// AttemptTransition is the single write path for every workflow action. The
// decision is made against a snapshot; the conditional update inside the
// transaction guarantees the snapshot still held when the write landed.
func (s *RequestService) AttemptTransition(ctx context.Context, actor workflow.ActorContext, id uuid.UUID, payload dto.TransitionRequestDTO) (dto.ServiceRequestDTO, error) {
	intent, err := workflow.ParseIntent(payload.Intent)
	if err != nil {
		return dto.ServiceRequestDTO{}, apperrors.NewValidationError("%v", err)
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	now := time.Now()
	input := workflow.TransitionInput{
		CompanyID:        payload.CompanyID,
		QuoteAmount:      payload.QuoteAmount,
		ScheduleDate:     payload.ScheduleDate,
		ScheduleTime:     payload.ScheduleTime,
		ScheduleLocation: payload.ScheduleLocation,
		ScheduleNotes:    payload.ScheduleNotes,
	}

	decision, err := workflow.Decide(req.State(), intent, actor, input, now)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	extra := map[string]interface{}{}
	var sideEffect func(tx pgx.Tx) error

	switch decision.Effect {
	case workflow.SideEffectNone:

	case workflow.SideEffectAttachCompany:
		extra["company_id"] = payload.CompanyID.UUID

	case workflow.SideEffectCreateQuote:
		extra["amount"] = payload.QuoteAmount.Float64
		quote := &entities.Quote{
			ID:        uuid.New(),
			RequestID: id,
			Amount:    payload.QuoteAmount.Float64,
			Status:    entities.QuoteStatusPending,
		}
		sideEffect = func(tx pgx.Tx) error {
			return s.quoteRepo.CreateInTx(ctx, tx, quote)
		}

	case workflow.SideEffectAcceptQuote:
		sideEffect = func(tx pgx.Tx) error {
			return s.quoteRepo.SetStatusInTx(ctx, tx, id, entities.QuoteStatusAccepted)
		}

	case workflow.SideEffectRejectQuote:
		sideEffect = func(tx pgx.Tx) error {
			return s.quoteRepo.SetStatusInTx(ctx, tx, id, entities.QuoteStatusRejected)
		}

	case workflow.SideEffectCreateAppointment:
		at, parseErr := workflow.ParseScheduleAt(payload.ScheduleDate, payload.ScheduleTime)
		if parseErr != nil {
			return dto.ServiceRequestDTO{}, apperrors.NewValidationError("invalid schedule date or time: %v", parseErr)
		}
		extra["scheduled_at"] = at
		extra["scheduled_location"] = payload.ScheduleLocation
		extra["scheduled_notes"] = payload.ScheduleNotes
		appointment := &entities.Appointment{
			ID:        uuid.New(),
			RequestID: id,
			At:        at,
			Location:  payload.ScheduleLocation,
			Notes:     payload.ScheduleNotes,
		}
		sideEffect = func(tx pgx.Tx) error {
			return s.appointmentRepo.CreateInTx(ctx, tx, appointment)
		}

	case workflow.SideEffectCreateInvoice:
		reference, refErr := s.billing.NextReference(ctx)
		if refErr != nil {
			return dto.ServiceRequestDTO{}, refErr
		}
		deposit := s.billing.DepositFor(req.Amount.Float64)
		dueAt := s.billing.DueDate(now)
		extra["invoice_reference"] = reference
		extra["invoice_date"] = now
		extra["payment_due_date"] = dueAt
		extra["deposit"] = deposit
		invoice := &entities.Invoice{
			ID:        uuid.New(),
			RequestID: id,
			Reference: reference,
			Amount:    req.Amount.Float64,
			Deposit:   deposit,
			IssuedAt:  now,
			DueAt:     dueAt,
		}
		sideEffect = func(tx pgx.Tx) error {
			return s.invoiceRepo.CreateInTx(ctx, tx, invoice)
		}

	case workflow.SideEffectRecordPayment:
		sideEffect = func(tx pgx.Tx) error {
			return s.invoiceRepo.MarkPaidInTx(ctx, tx, id)
		}
	}

	history := &entities.RequestHistory{
		ID:        uuid.New(),
		RequestID: id,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Intent:    decision.Intent,
		OldStatus: decision.From,
		NewStatus: decision.To,
		Comment:   null.NewString(payload.Comment, payload.Comment != ""),
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.requestRepo.UpdateStatusInTx(ctx, tx, id, decision.From, decision.To, extra); err != nil {
			return err
		}
		if sideEffect != nil {
			if err := sideEffect(tx); err != nil {
				return err
			}
		}
		return s.historyRepo.CreateInTx(ctx, tx, history)
	})
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	s.flags.MarkStatusUpdate(ctx, id)
	s.logger.Info("request transitioned",
		zap.String("requestId", id.String()),
		zap.String("intent", string(decision.Intent)),
		zap.String("from", string(decision.From)),
		zap.String("to", string(decision.To)),
		zap.String("actorRole", string(actor.Role)),
	)

	updated, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}
	return dto.NewServiceRequestDTO(updated, s.flags.Flags(ctx, id)), nil
}

// SetUrgency flips the urgency flag outside the state machine: urgency is an
// attribute of the demand, not a workflow stage.
func (s *RequestService) SetUrgency(ctx context.Context, id uuid.UUID, payload dto.SetUrgencyDTO) (dto.ServiceRequestDTO, error) {
	urgency, err := workflow.ParseUrgency(payload.Urgency)
	if err != nil {
		return dto.ServiceRequestDTO{}, apperrors.NewValidationError("%v", err)
	}

	if err := s.requestRepo.SetUrgency(ctx, id, urgency); err != nil {
		return dto.ServiceRequestDTO{}, err
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return dto.ServiceRequestDTO{}, err
	}
	return dto.NewServiceRequestDTO(req, s.flags.Flags(ctx, id)), nil
}

func (s *RequestService) GetHistory(ctx context.Context, id uuid.UUID) ([]dto.HistoryEntryDTO, error) {
	if _, err := s.requestRepo.FindRequest(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByRequestID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]dto.HistoryEntryDTO, 0, len(entries))
	for _, h := range entries {
		out = append(out, dto.HistoryEntryDTO{
			ActorRole: string(h.ActorRole),
			Intent:    string(h.Intent),
			OldStatus: string(h.OldStatus),
			NewStatus: string(h.NewStatus),
			Comment:   h.Comment.String,
			CreatedAt: h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
