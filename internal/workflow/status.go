package workflow

import "fmt"

// Status is the closed set of lifecycle states a service request moves
// through. The engine never accepts any other value; an unknown status
// reaching this package means the stored data is corrupt and we fail loudly.
type Status string

const (
	StatusSubmitted     Status = "submitted"
	StatusInProgress    Status = "in_progress"
	StatusForwarded     Status = "forwarded"
	StatusQuoteSent     Status = "quote_sent"
	StatusQuoteAccepted Status = "quote_accepted"
	StatusScheduled     Status = "scheduled"
	StatusCompleted     Status = "completed"
	StatusReadyToBill   Status = "ready_to_bill"
	StatusToPay         Status = "to_pay"
	StatusPaid          Status = "paid"
	StatusCancelled     Status = "cancelled"
)

// AllStatuses returns the catalog in display order. The order is for lists and
// summaries only; transition legality lives in the rules table.
func AllStatuses() []Status {
	return []Status{
		StatusSubmitted,
		StatusInProgress,
		StatusForwarded,
		StatusQuoteSent,
		StatusQuoteAccepted,
		StatusScheduled,
		StatusCompleted,
		StatusReadyToBill,
		StatusToPay,
		StatusPaid,
		StatusCancelled,
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusForwarded, StatusQuoteSent,
		StatusQuoteAccepted, StatusScheduled, StatusCompleted, StatusReadyToBill,
		StatusToPay, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition, including cancel, may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// IsBillingStage reports whether s belongs to the invoice sub-workflow.
func (s Status) IsBillingStage() bool {
	return s == StatusReadyToBill || s == StatusToPay || s == StatusPaid
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown request status %q", v)
	}
	return s, nil
}

// MustParseStatus is for values read back from our own storage, where an
// unknown status indicates corruption rather than bad input.
func MustParseStatus(v string) Status {
	s, err := ParseStatus(v)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusInProgress:
		return "Being handled"
	case StatusForwarded:
		return "Forwarded to a company"
	case StatusQuoteSent:
		return "Quote sent"
	case StatusQuoteAccepted:
		return "Quote accepted"
	case StatusScheduled:
		return "Intervention scheduled"
	case StatusCompleted:
		return "Work completed"
	case StatusReadyToBill:
		return "Ready to bill"
	case StatusToPay:
		return "Awaiting payment"
	case StatusPaid:
		return "Paid"
	case StatusCancelled:
		return "Cancelled"
	}
	panic(fmt.Sprintf("unhandled status %q", string(s)))
}

func (s Status) Description() string {
	switch s {
	case StatusSubmitted:
		return "The request has been sent and awaits a professional"
	case StatusInProgress:
		return "A boat manager or company has taken charge of the request"
	case StatusForwarded:
		return "The request was passed on to a nautical company"
	case StatusQuoteSent:
		return "A quote awaits the client's decision"
	case StatusQuoteAccepted:
		return "The client accepted the quote, the work can be scheduled"
	case StatusScheduled:
		return "An intervention date has been agreed"
	case StatusCompleted:
		return "The work has been carried out"
	case StatusReadyToBill:
		return "The work is done and awaits invoicing"
	case StatusToPay:
		return "An invoice has been issued and awaits payment"
	case StatusPaid:
		return "The invoice has been settled"
	case StatusCancelled:
		return "The request was cancelled"
	}
	panic(fmt.Sprintf("unhandled status %q", string(s)))
}

// Color is the severity color class used by the list views.
func (s Status) Color() string {
	switch s {
	case StatusSubmitted:
		return "blue"
	case StatusInProgress, StatusForwarded:
		return "indigo"
	case StatusQuoteSent, StatusQuoteAccepted:
		return "violet"
	case StatusScheduled:
		return "teal"
	case StatusCompleted:
		return "green"
	case StatusReadyToBill, StatusToPay:
		return "orange"
	case StatusPaid:
		return "gray"
	case StatusCancelled:
		return "red"
	}
	panic(fmt.Sprintf("unhandled status %q", string(s)))
}

// NextAction returns the intent available to the currently responsible actor,
// or false when the status is terminal or awaits another party (e.g. a sent
// quote awaits the client, an issued invoice awaits payment).
func (s Status) NextAction() (Intent, bool) {
	switch s {
	case StatusSubmitted:
		return IntentTakeCharge, true
	case StatusInProgress:
		return IntentForward, true
	case StatusForwarded:
		return IntentRequestQuote, true
	case StatusQuoteSent:
		return "", false
	case StatusQuoteAccepted:
		return IntentSchedule, true
	case StatusScheduled:
		return IntentMarkComplete, true
	case StatusCompleted:
		return IntentMarkBillable, true
	case StatusReadyToBill:
		return IntentGenerateInvoice, true
	case StatusToPay:
		return "", false
	case StatusPaid, StatusCancelled:
		return "", false
	}
	panic(fmt.Sprintf("unhandled status %q", string(s)))
}
