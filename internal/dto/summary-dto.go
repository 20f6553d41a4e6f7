package dto

// StatusCountDTO is one row of the per-status summary, in catalog display
// order.
type StatusCountDTO struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// BillingSourceCountDTO sub-buckets one billing-stage status by the party
// that fulfilled the work.
type BillingSourceCountDTO struct {
	Status      string `json:"status"`
	BoatManager int    `json:"boat_manager"`
	Company     int    `json:"company"`
}

type SummaryDTO struct {
	Total          int                     `json:"total"`
	Urgent         int                     `json:"urgent"`
	ByStatus       []StatusCountDTO        `json:"by_status"`
	BillingSources []BillingSourceCountDTO `json:"billing_sources"`
}

type HistoryEntryDTO struct {
	ActorRole string `json:"actor_role"`
	Intent    string `json:"intent"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}
