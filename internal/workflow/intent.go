package workflow

import "fmt"

// Intent names a workflow action an actor may attempt on a request.
type Intent string

const (
	IntentTakeCharge      Intent = "take_charge"
	IntentForward         Intent = "forward"
	IntentRequestQuote    Intent = "request_quote"
	IntentAcceptQuote     Intent = "accept_quote"
	IntentRejectQuote     Intent = "reject_quote"
	IntentSchedule        Intent = "schedule"
	IntentMarkComplete    Intent = "mark_complete"
	IntentMarkBillable    Intent = "mark_billable"
	IntentGenerateInvoice Intent = "generate_invoice"
	IntentPay             Intent = "pay"
	IntentMarkPaid        Intent = "mark_paid"
	IntentCancel          Intent = "cancel"
)

func AllIntents() []Intent {
	return []Intent{
		IntentTakeCharge, IntentForward, IntentRequestQuote, IntentAcceptQuote,
		IntentRejectQuote, IntentSchedule, IntentMarkComplete, IntentMarkBillable,
		IntentGenerateInvoice, IntentPay, IntentMarkPaid, IntentCancel,
	}
}

func (i Intent) IsValid() bool {
	switch i {
	case IntentTakeCharge, IntentForward, IntentRequestQuote, IntentAcceptQuote,
		IntentRejectQuote, IntentSchedule, IntentMarkComplete, IntentMarkBillable,
		IntentGenerateInvoice, IntentPay, IntentMarkPaid, IntentCancel:
		return true
	}
	return false
}

func ParseIntent(v string) (Intent, error) {
	i := Intent(v)
	if !i.IsValid() {
		return "", fmt.Errorf("unknown intent %q", v)
	}
	return i, nil
}

// Label is the human label the UI puts on the action button.
func (i Intent) Label() string {
	switch i {
	case IntentTakeCharge:
		return "Take charge"
	case IntentForward:
		return "Forward to a company"
	case IntentRequestQuote:
		return "Send a quote"
	case IntentAcceptQuote:
		return "Accept the quote"
	case IntentRejectQuote:
		return "Reject the quote"
	case IntentSchedule:
		return "Schedule the intervention"
	case IntentMarkComplete:
		return "Mark as completed"
	case IntentMarkBillable:
		return "Mark as ready to bill"
	case IntentGenerateInvoice:
		return "Generate the invoice"
	case IntentPay:
		return "Pay the invoice"
	case IntentMarkPaid:
		return "Mark as paid"
	case IntentCancel:
		return "Cancel the request"
	}
	panic(fmt.Sprintf("unhandled intent %q", string(i)))
}
