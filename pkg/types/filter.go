package types

// RequestFilter carries the compound list-view filter. The status-group and
// urgency dimensions are a single radio group: selecting one clears the other.
type RequestFilter struct {
	Search      string `json:"search,omitempty"`
	StatusGroup string `json:"status_group,omitempty"`
	Urgency     string `json:"urgency,omitempty"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`

	Limit          uint64 `json:"limit"`
	Offset         uint64 `json:"offset"`
	Page           uint64 `json:"page"`
	WithPagination bool   `json:"with_pagination"`
}

// SelectStatusGroup activates the status dimension and drops any urgency
// selection, mirroring the single-selection semantics of the list screens.
func (f *RequestFilter) SelectStatusGroup(group string) {
	f.StatusGroup = group
	f.Urgency = ""
}

// SelectUrgency activates the urgency dimension and drops any status-group
// selection.
func (f *RequestFilter) SelectUrgency(urgency string) {
	f.Urgency = urgency
	f.StatusGroup = ""
}

// Sort keys accepted by the request list.
const (
	SortByDate        = "date"
	SortByClient      = "client_name"
	SortByBoatManager = "boat_manager_name"
	SortByCompany     = "company_name"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
