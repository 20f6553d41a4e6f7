package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nauticare/internal/dto"
	"nauticare/internal/entities"
	"nauticare/internal/repositories"
	"nauticare/internal/workflow"
	apperrors "nauticare/pkg/errors"
	"nauticare/pkg/types"
)

// In-memory doubles for the storage ports. The fake transaction manager runs
// the callback with a nil tx; the fakes never touch it.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeRequestRepo struct {
	store map[uuid.UUID]*entities.ServiceRequest
	refs  map[string]bool

	// staleReads makes FindRequest serve an outdated status snapshot for the
	// next n reads, simulating another actor landing a write in between.
	staleReads  int
	staleStatus workflow.Status
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		store: make(map[uuid.UUID]*entities.ServiceRequest),
		refs:  make(map[string]bool),
	}
}

func (f *fakeRequestRepo) GetRequests(_ context.Context, _ types.RequestFilter) ([]entities.ServiceRequest, uint64, error) {
	out := make([]entities.ServiceRequest, 0, len(f.store))
	for _, r := range f.store {
		out = append(out, *r)
	}
	return out, uint64(len(out)), nil
}

func (f *fakeRequestRepo) FindRequest(_ context.Context, id uuid.UUID) (*entities.ServiceRequest, error) {
	r, ok := f.store[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *r
	if f.staleReads > 0 {
		f.staleReads--
		copied.Status = f.staleStatus
	}
	return &copied, nil
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, req *entities.ServiceRequest) error {
	copied := *req
	copied.CreatedAt = time.Now()
	f.store[req.ID] = &copied
	return nil
}

func (f *fakeRequestRepo) UpdateStatusInTx(_ context.Context, _ pgx.Tx, id uuid.UUID, expected, next workflow.Status, extra map[string]interface{}) error {
	r, ok := f.store[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if r.Status != expected {
		return apperrors.ErrConcurrentModification
	}

	r.Status = next
	for column, value := range extra {
		switch column {
		case "company_id":
			r.CompanyID = uuid.NullUUID{UUID: value.(uuid.UUID), Valid: true}
		case "amount":
			r.Amount = null.Float64From(value.(float64))
		case "deposit":
			r.Deposit = null.Float64From(value.(float64))
		case "invoice_reference":
			r.InvoiceReference = null.StringFrom(value.(string))
		case "invoice_date":
			r.InvoiceDate = null.TimeFrom(value.(time.Time))
		case "payment_due_date":
			r.PaymentDueDate = null.TimeFrom(value.(time.Time))
		case "scheduled_at":
			r.ScheduledAt = null.TimeFrom(value.(time.Time))
		case "scheduled_location":
			r.ScheduledLocation = null.StringFrom(value.(string))
		case "scheduled_notes":
			r.ScheduledNotes = null.StringFrom(value.(string))
		}
	}
	return nil
}

func (f *fakeRequestRepo) SetUrgency(_ context.Context, id uuid.UUID, urgency workflow.Urgency) error {
	r, ok := f.store[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Urgency = urgency
	return nil
}

func (f *fakeRequestRepo) InvoiceReferenceExists(_ context.Context, reference string) (bool, error) {
	return f.refs[reference], nil
}

type fakeQuoteRepo struct {
	quotes map[uuid.UUID]*entities.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[uuid.UUID]*entities.Quote)}
}

func (f *fakeQuoteRepo) CreateInTx(_ context.Context, _ pgx.Tx, quote *entities.Quote) error {
	copied := *quote
	f.quotes[quote.RequestID] = &copied
	return nil
}

func (f *fakeQuoteRepo) SetStatusInTx(_ context.Context, _ pgx.Tx, requestID uuid.UUID, status entities.QuoteStatus) error {
	q, ok := f.quotes[requestID]
	if !ok || q.Status != entities.QuoteStatusPending {
		return apperrors.ErrConcurrentModification
	}
	q.Status = status
	return nil
}

func (f *fakeQuoteRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*entities.Quote, error) {
	q, ok := f.quotes[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return q, nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*entities.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entities.Invoice)}
}

func (f *fakeInvoiceRepo) CreateInTx(_ context.Context, _ pgx.Tx, invoice *entities.Invoice) error {
	copied := *invoice
	f.invoices[invoice.RequestID] = &copied
	return nil
}

func (f *fakeInvoiceRepo) MarkPaidInTx(_ context.Context, _ pgx.Tx, requestID uuid.UUID) error {
	inv, ok := f.invoices[requestID]
	if !ok || inv.PaidAt.Valid {
		return apperrors.ErrConcurrentModification
	}
	inv.PaidAt = null.TimeFrom(time.Now())
	return nil
}

func (f *fakeInvoiceRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*entities.Invoice, error) {
	inv, ok := f.invoices[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) GetBillingRows(_ context.Context) ([]repositories.BillingRow, error) {
	return nil, nil
}

type fakeAppointmentRepo struct {
	appointments []entities.Appointment
}

func (f *fakeAppointmentRepo) CreateInTx(_ context.Context, _ pgx.Tx, a *entities.Appointment) error {
	f.appointments = append(f.appointments, *a)
	return nil
}

type fakeHistoryRepo struct {
	entries []entities.RequestHistory
}

func (f *fakeHistoryRepo) CreateInTx(_ context.Context, _ pgx.Tx, h *entities.RequestHistory) error {
	copied := *h
	copied.CreatedAt = time.Now()
	f.entries = append(f.entries, copied)
	return nil
}

func (f *fakeHistoryRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) ([]entities.RequestHistory, error) {
	var out []entities.RequestHistory
	for _, h := range f.entries {
		if h.RequestID == requestID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeBilling struct {
	nextRef string
}

func (f *fakeBilling) NextReference(_ context.Context) (string, error) { return f.nextRef, nil }
func (f *fakeBilling) DepositFor(total float64) float64                { return total * 0.30 }
func (f *fakeBilling) DueDate(issuedAt time.Time) time.Time            { return issuedAt.AddDate(0, 0, 30) }

type fakeFlags struct {
	newMarks    int
	updateMarks int
	clears      int
}

func (f *fakeFlags) MarkNew(_ context.Context, _ uuid.UUID)          { f.newMarks++ }
func (f *fakeFlags) MarkStatusUpdate(_ context.Context, _ uuid.UUID) { f.updateMarks++ }
func (f *fakeFlags) ClearOnOpen(_ context.Context, _ uuid.UUID)      { f.clears++ }
func (f *fakeFlags) Flags(_ context.Context, _ uuid.UUID) dto.ActivityFlagsDTO {
	return dto.ActivityFlagsDTO{}
}

type serviceFixture struct {
	service      RequestServiceInterface
	requests     *fakeRequestRepo
	quotes       *fakeQuoteRepo
	invoices     *fakeInvoiceRepo
	appointments *fakeAppointmentRepo
	history      *fakeHistoryRepo
	flags        *fakeFlags
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		requests:     newFakeRequestRepo(),
		quotes:       newFakeQuoteRepo(),
		invoices:     newFakeInvoiceRepo(),
		appointments: &fakeAppointmentRepo{},
		history:      &fakeHistoryRepo{},
		flags:        &fakeFlags{},
	}
	f.service = NewRequestService(
		&fakeTxManager{}, f.requests, f.quotes, f.invoices, f.appointments, f.history,
		&fakeBilling{nextRef: "FAC-2025-000001"}, f.flags, zap.NewNop(),
	)
	return f
}

func (f *serviceFixture) seed(status workflow.Status) *entities.ServiceRequest {
	req := &entities.ServiceRequest{
		ID:              uuid.New(),
		Title:           "Révision moteur hors-bord",
		Description:     "Entretien 100h",
		Category:        entities.CategoryMaintenance,
		Status:          status,
		Urgency:         workflow.UrgencyUrgent,
		ClientID:        uuid.New(),
		ClientName:      "Paul Moreau",
		BoatID:          uuid.NullUUID{UUID: uuid.New(), Valid: true},
		BoatName:        null.StringFrom("Albatros II"),
		BoatManagerID:   uuid.NullUUID{UUID: uuid.New(), Valid: true},
		BoatManagerName: null.StringFrom("Marina Gestion"),
		CreatedAt:       time.Now(),
	}
	f.requests.store[req.ID] = req
	return req
}

func futureSchedule() (string, string) {
	at := time.Now().Add(72 * time.Hour)
	return at.Format("2006-01-02"), at.Format("15:04")
}

func TestAttemptTransitionFullLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusSubmitted)

	manager := workflow.ActorContext{Role: workflow.RoleBoatManager, ID: req.BoatManagerID.UUID}
	client := workflow.ActorContext{Role: workflow.RoleClient, ID: req.ClientID}
	company := workflow.ActorContext{Role: workflow.RoleCompany, ID: uuid.New()}
	corporate := workflow.ActorContext{Role: workflow.RoleCorporate, ID: uuid.New()}

	date, clock := futureSchedule()
	steps := []struct {
		actor   workflow.ActorContext
		payload dto.TransitionRequestDTO
		want    workflow.Status
	}{
		{manager, dto.TransitionRequestDTO{Intent: "take_charge"}, workflow.StatusInProgress},
		{manager, dto.TransitionRequestDTO{
			Intent:    "forward",
			CompanyID: uuid.NullUUID{UUID: company.ID, Valid: true},
		}, workflow.StatusForwarded},
		{company, dto.TransitionRequestDTO{
			Intent:      "request_quote",
			QuoteAmount: null.Float64From(2400),
		}, workflow.StatusQuoteSent},
		{client, dto.TransitionRequestDTO{Intent: "accept_quote"}, workflow.StatusQuoteAccepted},
		{company, dto.TransitionRequestDTO{
			Intent:           "schedule",
			ScheduleDate:     date,
			ScheduleTime:     clock,
			ScheduleLocation: "Port Camargue",
			ScheduleNotes:    "Grutage prévu",
		}, workflow.StatusScheduled},
		{company, dto.TransitionRequestDTO{Intent: "mark_complete"}, workflow.StatusCompleted},
		{company, dto.TransitionRequestDTO{Intent: "mark_billable"}, workflow.StatusReadyToBill},
		{corporate, dto.TransitionRequestDTO{Intent: "generate_invoice"}, workflow.StatusToPay},
		{client, dto.TransitionRequestDTO{Intent: "pay"}, workflow.StatusPaid},
	}

	for _, step := range steps {
		result, err := f.service.AttemptTransition(ctx, step.actor, req.ID, step.payload)
		require.NoError(t, err, "intent %s", step.payload.Intent)
		assert.Equal(t, string(step.want), result.Status.Code, "intent %s", step.payload.Intent)
	}

	stored := f.requests.store[req.ID]
	assert.Equal(t, workflow.StatusPaid, stored.Status)
	assert.Equal(t, company.ID, stored.CompanyID.UUID)
	assert.Equal(t, 2400.0, stored.Amount.Float64)
	assert.Equal(t, "FAC-2025-000001", stored.InvoiceReference.String)
	assert.InDelta(t, 720.0, stored.Deposit.Float64, 0.001, "deposit is 30% of the quote")
	assert.True(t, stored.ScheduledAt.Valid)
	assert.True(t, stored.InvoiceDate.Valid)
	assert.True(t, stored.PaymentDueDate.Valid)

	quote, err := f.quotes.FindByRequestID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuoteStatusAccepted, quote.Status)

	invoice, err := f.invoices.FindByRequestID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, invoice.PaidAt.Valid)
	assert.Equal(t, invoice.IssuedAt.AddDate(0, 0, 30), invoice.DueAt)

	require.Len(t, f.appointments.appointments, 1)
	assert.Equal(t, "Port Camargue", f.appointments.appointments[0].Location)

	assert.Len(t, f.history.entries, len(steps), "one audit line per transition")
	assert.Equal(t, len(steps), f.flags.updateMarks)
}

func TestAttemptTransitionStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusInProgress)

	// The decision is made against a snapshot still showing submitted while
	// another manager already took charge.
	f.requests.staleReads = 1
	f.requests.staleStatus = workflow.StatusSubmitted

	_, err := f.service.AttemptTransition(ctx,
		workflow.ActorContext{Role: workflow.RoleBoatManager, ID: uuid.New()},
		req.ID, dto.TransitionRequestDTO{Intent: "take_charge"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConcurrentModification))
	assert.Equal(t, workflow.StatusInProgress, f.requests.store[req.ID].Status, "the stored status is untouched")
	assert.Empty(t, f.history.entries, "no audit line for a failed transition")
}

func TestAttemptTransitionRefusedIntent(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusSubmitted)

	_, err := f.service.AttemptTransition(ctx,
		workflow.ActorContext{Role: workflow.RoleClient, ID: req.ClientID},
		req.ID, dto.TransitionRequestDTO{Intent: "take_charge"})

	require.Error(t, err)
	var invalid *apperrors.InvalidTransitionError
	assert.True(t, errors.As(err, &invalid), "clients cannot take charge")
	assert.Equal(t, workflow.StatusSubmitted, f.requests.store[req.ID].Status)
}

func TestAttemptTransitionDoubleInvoice(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusReadyToBill)
	req.Amount = null.Float64From(1000)
	corporate := workflow.ActorContext{Role: workflow.RoleCorporate, ID: uuid.New()}

	first, err := f.service.AttemptTransition(ctx, corporate, req.ID,
		dto.TransitionRequestDTO{Intent: "generate_invoice"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusToPay), first.Status.Code)

	_, err = f.service.AttemptTransition(ctx, corporate, req.ID,
		dto.TransitionRequestDTO{Intent: "generate_invoice"})
	require.Error(t, err, "a second invoice on the same request must be refused")

	assert.Len(t, f.invoices.invoices, 1)
}

func TestAttemptTransitionRejectQuote(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusQuoteSent)
	req.Amount = null.Float64From(800)
	f.quotes.quotes[req.ID] = &entities.Quote{
		ID: uuid.New(), RequestID: req.ID, Amount: 800, Status: entities.QuoteStatusPending,
	}

	result, err := f.service.AttemptTransition(ctx,
		workflow.ActorContext{Role: workflow.RoleClient, ID: req.ClientID},
		req.ID, dto.TransitionRequestDTO{Intent: "reject_quote", Comment: "Trop cher"})

	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusCancelled), result.Status.Code)
	assert.Equal(t, entities.QuoteStatusRejected, f.quotes.quotes[req.ID].Status)

	require.Len(t, f.history.entries, 1)
	assert.Equal(t, "Trop cher", f.history.entries[0].Comment.String)
}

func TestCreateRequestBoatRequirement(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	client := workflow.ActorContext{Role: workflow.RoleClient, ID: uuid.New()}

	_, err := f.service.CreateRequest(ctx, client, dto.CreateRequestDTO{
		Title:       "Carénage",
		Description: "Carénage complet",
		Category:    "maintenance",
		ClientID:    client.ID,
	})
	require.Error(t, err)
	var validation *apperrors.ValidationError
	assert.True(t, errors.As(err, &validation), "maintenance without a boat must fail")

	created, err := f.service.CreateRequest(ctx, client, dto.CreateRequestDTO{
		Title:       "Recherche d'un semi-rigide",
		Description: "Accompagnement à l'achat",
		Category:    "sale_purchase",
		ClientID:    client.ID,
	})
	require.NoError(t, err, "sale/purchase needs no boat")
	assert.Equal(t, string(workflow.StatusSubmitted), created.Status.Code)
	assert.Equal(t, 1, f.flags.newMarks)
}

func TestSetUrgencyAndHistory(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	req := f.seed(workflow.StatusSubmitted)

	updated, err := f.service.SetUrgency(ctx, req.ID, dto.SetUrgencyDTO{Urgency: "normal"})
	require.NoError(t, err)
	assert.Equal(t, "normal", updated.Urgency)

	_, err = f.service.SetUrgency(ctx, uuid.New(), dto.SetUrgencyDTO{Urgency: "urgent"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.service.AttemptTransition(ctx,
		workflow.ActorContext{Role: workflow.RoleBoatManager, ID: req.BoatManagerID.UUID},
		req.ID, dto.TransitionRequestDTO{Intent: "take_charge", Comment: "Je m'en occupe"})
	require.NoError(t, err)

	history, err := f.service.GetHistory(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "take_charge", history[0].Intent)
	assert.Equal(t, "submitted", history[0].OldStatus)
	assert.Equal(t, "in_progress", history[0].NewStatus)
	assert.Equal(t, "Je m'en occupe", history[0].Comment)
}
