package dto

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"nauticare/internal/entities"
)

type CreateRequestDTO struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,max=4000"`
	Category    string `json:"category" validate:"required"`
	Urgency     string `json:"urgency" validate:"omitempty,oneof=normal urgent"`

	ClientID      uuid.UUID     `json:"client_id" validate:"required"`
	BoatID        uuid.NullUUID `json:"boat_id"`
	BoatManagerID uuid.NullUUID `json:"boat_manager_id"`
	CompanyID     uuid.NullUUID `json:"company_id"`
}

// TransitionRequestDTO is the single entry point for every workflow action:
// the intent plus whichever form inputs the target status needs.
type TransitionRequestDTO struct {
	Intent string `json:"intent" validate:"required"`

	CompanyID   uuid.NullUUID `json:"company_id"`
	QuoteAmount null.Float64  `json:"quote_amount" validate:"omitempty,gte=0"`

	ScheduleDate     string `json:"schedule_date" validate:"omitempty,date_format"`
	ScheduleTime     string `json:"schedule_time" validate:"omitempty,clock_format"`
	ScheduleLocation string `json:"schedule_location" validate:"omitempty,max=300"`
	ScheduleNotes    string `json:"schedule_notes" validate:"omitempty,max=2000"`

	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type SetUrgencyDTO struct {
	Urgency string `json:"urgency" validate:"required,oneof=normal urgent"`
}

type StatusDTO struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type NextActionDTO struct {
	Intent string `json:"intent"`
	Label  string `json:"label"`
}

type HandlerDTO struct {
	Actor       string `json:"actor"`
	PartyName   string `json:"party_name"`
	DisplayText string `json:"display_text"`
	ColorClass  string `json:"color_class"`
}

// ActivityFlagsDTO is presentation state kept apart from the durable record;
// it never reaches the transition engine.
type ActivityFlagsDTO struct {
	IsNew           bool `json:"is_new"`
	HasStatusUpdate bool `json:"has_status_update"`
}

type ServiceRequestDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Urgency       string    `json:"urgency"`

	Status     StatusDTO      `json:"status"`
	Handler    HandlerDTO     `json:"handler"`
	NextAction *NextActionDTO `json:"next_action,omitempty"`

	ClientID        uuid.UUID     `json:"client_id"`
	ClientName      string        `json:"client_name"`
	BoatID          uuid.NullUUID `json:"boat_id"`
	BoatName        null.String   `json:"boat_name"`
	BoatManagerID   uuid.NullUUID `json:"boat_manager_id"`
	BoatManagerName null.String   `json:"boat_manager_name"`
	CompanyID       uuid.NullUUID `json:"company_id"`
	CompanyName     null.String   `json:"company_name"`

	Amount           null.Float64 `json:"amount"`
	Deposit          null.Float64 `json:"deposit"`
	InvoiceReference null.String  `json:"invoice_reference"`
	InvoiceDate      null.Time    `json:"invoice_date"`
	PaymentDueDate   null.Time    `json:"payment_due_date"`

	ScheduledAt       null.Time   `json:"scheduled_at"`
	ScheduledLocation null.String `json:"scheduled_location"`
	ScheduledNotes    null.String `json:"scheduled_notes"`

	CreatedAt time.Time `json:"created_at"`

	Flags ActivityFlagsDTO `json:"flags"`
}

// NewServiceRequestDTO derives the full read model: stored fields plus the
// recomputed handler, catalog metadata and next legal action.
func NewServiceRequestDTO(req *entities.ServiceRequest, flags ActivityFlagsDTO) ServiceRequestDTO {
	handler := req.ResolveHandler()

	out := ServiceRequestDTO{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      string(req.Category),
		CategoryLabel: req.Category.Label(),
		Urgency:       string(req.Urgency),
		Status: StatusDTO{
			Code:        string(req.Status),
			Label:       req.Status.Label(),
			Description: req.Status.Description(),
			Color:       req.Status.Color(),
		},
		Handler: HandlerDTO{
			Actor:       string(handler.Actor),
			PartyName:   handler.PartyName,
			DisplayText: handler.DisplayText,
			ColorClass:  handler.ColorClass,
		},
		ClientID:          req.ClientID,
		ClientName:        req.ClientName,
		BoatID:            req.BoatID,
		BoatName:          req.BoatName,
		BoatManagerID:     req.BoatManagerID,
		BoatManagerName:   req.BoatManagerName,
		CompanyID:         req.CompanyID,
		CompanyName:       req.CompanyName,
		Amount:            req.Amount,
		Deposit:           req.Deposit,
		InvoiceReference:  req.InvoiceReference,
		InvoiceDate:       req.InvoiceDate,
		PaymentDueDate:    req.PaymentDueDate,
		ScheduledAt:       req.ScheduledAt,
		ScheduledLocation: req.ScheduledLocation,
		ScheduledNotes:    req.ScheduledNotes,
		CreatedAt:         req.CreatedAt,
		Flags:             flags,
	}

	if intent, ok := req.Status.NextAction(); ok {
		out.NextAction = &NextActionDTO{Intent: string(intent), Label: intent.Label()}
	}

	return out
}
