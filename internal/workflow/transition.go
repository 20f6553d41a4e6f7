package workflow

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	apperrors "nauticare/pkg/errors"
)

// SideEffect tells the caller which linked record the transition requires.
// The engine only decides; creating the record and persisting the status are
// the service layer's job, inside one transaction.
type SideEffect string

const (
	SideEffectNone              SideEffect = ""
	SideEffectAttachCompany     SideEffect = "attach_company"
	SideEffectCreateQuote       SideEffect = "create_quote"
	SideEffectAcceptQuote       SideEffect = "accept_quote"
	SideEffectRejectQuote       SideEffect = "reject_quote"
	SideEffectCreateAppointment SideEffect = "create_appointment"
	SideEffectCreateInvoice     SideEffect = "create_invoice"
	SideEffectRecordPayment     SideEffect = "record_payment"
)

// RequestState is the snapshot of a request the engine decides against. It is
// read immediately before the conditional write; the persisted row may have
// moved on, which the optimistic update catches.
type RequestState struct {
	Status     Status
	HasCompany bool
	Amount     null.Float64
}

// TransitionInput carries the form inputs a target status may require.
type TransitionInput struct {
	CompanyID        uuid.NullUUID
	QuoteAmount      null.Float64
	ScheduleDate     string
	ScheduleTime     string
	ScheduleLocation string
	ScheduleNotes    string
}

// Decision is the engine's verdict: the status to write and the side record
// to create alongside it.
type Decision struct {
	From   Status
	To     Status
	Intent Intent
	Effect SideEffect
}

type rule struct {
	from     Status
	roles    []Role
	to       Status
	effect   SideEffect
	validate func(state RequestState, in TransitionInput, now time.Time) error
}

func (r rule) allows(role Role) bool {
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// transitionRules is the single source of truth for the lifecycle: one entry
// per intent, except cancel which is handled separately because it applies to
// every non-terminal status.
var transitionRules = map[Intent]rule{
	IntentTakeCharge: {
		from:  StatusSubmitted,
		roles: []Role{RoleBoatManager, RoleCompany},
		to:    StatusInProgress,
	},
	IntentForward: {
		from:   StatusInProgress,
		roles:  []Role{RoleBoatManager},
		to:     StatusForwarded,
		effect: SideEffectAttachCompany,
		validate: func(_ RequestState, in TransitionInput, _ time.Time) error {
			if !in.CompanyID.Valid {
				return apperrors.NewValidationError("a target company is required to forward the request")
			}
			return nil
		},
	},
	IntentRequestQuote: {
		from:   StatusForwarded,
		roles:  []Role{RoleCompany, RoleBoatManager},
		to:     StatusQuoteSent,
		effect: SideEffectCreateQuote,
		validate: func(_ RequestState, in TransitionInput, _ time.Time) error {
			if !in.QuoteAmount.Valid {
				return apperrors.NewValidationError("a quote amount is required")
			}
			if in.QuoteAmount.Float64 < 0 {
				return apperrors.NewValidationError("the quote amount cannot be negative")
			}
			return nil
		},
	},
	IntentAcceptQuote: {
		from:   StatusQuoteSent,
		roles:  []Role{RoleClient},
		to:     StatusQuoteAccepted,
		effect: SideEffectAcceptQuote,
	},
	// Rejection is not a status of its own: the request ends cancelled and the
	// linked quote is marked rejected.
	IntentRejectQuote: {
		from:   StatusQuoteSent,
		roles:  []Role{RoleClient},
		to:     StatusCancelled,
		effect: SideEffectRejectQuote,
	},
	IntentSchedule: {
		from:     StatusQuoteAccepted,
		roles:    []Role{RoleBoatManager, RoleCompany},
		to:       StatusScheduled,
		effect:   SideEffectCreateAppointment,
		validate: validateSchedule,
	},
	IntentMarkComplete: {
		from:  StatusScheduled,
		roles: []Role{RoleBoatManager, RoleCompany},
		to:    StatusCompleted,
	},
	IntentMarkBillable: {
		from:  StatusCompleted,
		roles: []Role{RoleBoatManager, RoleCompany},
		to:    StatusReadyToBill,
	},
	IntentGenerateInvoice: {
		from:   StatusReadyToBill,
		roles:  []Role{RoleCorporate, RoleCompany},
		to:     StatusToPay,
		effect: SideEffectCreateInvoice,
		validate: func(state RequestState, _ TransitionInput, _ time.Time) error {
			if !state.Amount.Valid {
				return apperrors.NewValidationError("the request has no amount to invoice")
			}
			if state.Amount.Float64 < 0 {
				return apperrors.NewValidationError("the invoiced amount cannot be negative")
			}
			return nil
		},
	},
	IntentPay: {
		from:   StatusToPay,
		roles:  []Role{RoleClient},
		to:     StatusPaid,
		effect: SideEffectRecordPayment,
	},
	// Back-office override when the payment arrived outside the app.
	IntentMarkPaid: {
		from:   StatusToPay,
		roles:  []Role{RoleCorporate},
		to:     StatusPaid,
		effect: SideEffectRecordPayment,
	},
}

func validateSchedule(_ RequestState, in TransitionInput, now time.Time) error {
	if strings.TrimSpace(in.ScheduleDate) == "" ||
		strings.TrimSpace(in.ScheduleTime) == "" ||
		strings.TrimSpace(in.ScheduleLocation) == "" ||
		strings.TrimSpace(in.ScheduleNotes) == "" {
		return apperrors.NewValidationError("date, time, location and notes are all required to schedule the intervention")
	}
	at, err := ParseScheduleAt(in.ScheduleDate, in.ScheduleTime)
	if err != nil {
		return apperrors.NewValidationError("invalid schedule date or time: %v", err)
	}
	if at.Before(now) {
		return apperrors.NewValidationError("the intervention cannot be scheduled in the past")
	}
	return nil
}

// ParseScheduleAt combines the date ("2006-01-02") and clock ("15:04") form
// fields into one timestamp.
func ParseScheduleAt(date, clock string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock))
}

// Decide checks whether intent is legal from the given snapshot for the acting
// role and returns the resulting status and required side effect. It mutates
// nothing. An invalid stored status panics: that is corruption, not input.
func Decide(state RequestState, intent Intent, actor ActorContext, in TransitionInput, now time.Time) (Decision, error) {
	if !state.Status.IsValid() {
		panic("workflow: request has unknown status " + string(state.Status))
	}
	if !intent.IsValid() {
		return Decision{}, apperrors.NewInvalidTransition(string(state.Status), string(intent), string(actor.Role))
	}

	if intent == IntentCancel {
		return decideCancel(state, actor)
	}

	r, ok := transitionRules[intent]
	if !ok {
		return Decision{}, apperrors.NewInvalidTransition(string(state.Status), string(intent), string(actor.Role))
	}
	if r.from != state.Status || !r.allows(actor.Role) {
		return Decision{}, apperrors.NewInvalidTransition(string(state.Status), string(intent), string(actor.Role))
	}
	if r.validate != nil {
		if err := r.validate(state, in, now); err != nil {
			return Decision{}, err
		}
	}

	return Decision{From: state.Status, To: r.to, Intent: intent, Effect: r.effect}, nil
}

func decideCancel(state RequestState, actor ActorContext) (Decision, error) {
	if state.Status.IsTerminal() {
		return Decision{}, apperrors.NewInvalidTransition(string(state.Status), string(IntentCancel), string(actor.Role))
	}
	if actor.Role != RoleBoatManager && actor.Role != RoleCorporate {
		return Decision{}, apperrors.NewInvalidTransition(string(state.Status), string(IntentCancel), string(actor.Role))
	}
	return Decision{From: state.Status, To: StatusCancelled, Intent: IntentCancel}, nil
}
