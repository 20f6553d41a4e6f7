package workflow

import "fmt"

// StatusGroup names the list-screen buckets the status filter works on.
type StatusGroup string

const (
	StatusGroupOpen      StatusGroup = "open"
	StatusGroupQuotes    StatusGroup = "quotes"
	StatusGroupPlanned   StatusGroup = "planned"
	StatusGroupBilling   StatusGroup = "billing"
	StatusGroupCancelled StatusGroup = "cancelled"
)

func (g StatusGroup) IsValid() bool {
	switch g {
	case StatusGroupOpen, StatusGroupQuotes, StatusGroupPlanned,
		StatusGroupBilling, StatusGroupCancelled:
		return true
	}
	return false
}

func ParseStatusGroup(v string) (StatusGroup, error) {
	g := StatusGroup(v)
	if !g.IsValid() {
		return "", fmt.Errorf("unknown status group %q", v)
	}
	return g, nil
}

func (g StatusGroup) Statuses() []Status {
	switch g {
	case StatusGroupOpen:
		return []Status{StatusSubmitted, StatusInProgress, StatusForwarded}
	case StatusGroupQuotes:
		return []Status{StatusQuoteSent, StatusQuoteAccepted}
	case StatusGroupPlanned:
		return []Status{StatusScheduled, StatusCompleted}
	case StatusGroupBilling:
		return []Status{StatusReadyToBill, StatusToPay, StatusPaid}
	case StatusGroupCancelled:
		return []Status{StatusCancelled}
	}
	panic(fmt.Sprintf("unhandled status group %q", string(g)))
}

// Contains reports whether the group covers s.
func (g StatusGroup) Contains(s Status) bool {
	for _, member := range g.Statuses() {
		if member == s {
			return true
		}
	}
	return false
}
