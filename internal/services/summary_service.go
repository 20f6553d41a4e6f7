package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"nauticare/internal/dto"
	"nauticare/internal/entities"
	"nauticare/internal/repositories"
	"nauticare/internal/workflow"
	"nauticare/pkg/types"
)

// frenchCollator orders party and boat names the way a French directory would,
// so "Éric" files next to "Eric" instead of after "Z".
var frenchCollator = collate.New(language.French, collate.IgnoreCase)

// BuildSummary computes the dashboard counters from a snapshot of requests:
// totals, per-status counts in catalog order, and for the billing stages a
// sub-bucket by the party that fulfilled the work.
func BuildSummary(requests []entities.ServiceRequest) dto.SummaryDTO {
	byStatus := make(map[workflow.Status]int, len(requests))
	bySource := make(map[workflow.Status]map[workflow.Role]int)
	urgent := 0

	for i := range requests {
		r := &requests[i]
		byStatus[r.Status]++
		if r.Urgency == workflow.UrgencyUrgent {
			urgent++
		}
		if r.Status.IsBillingStage() {
			if bySource[r.Status] == nil {
				bySource[r.Status] = make(map[workflow.Role]int)
			}
			bySource[r.Status][r.SourceRole()]++
		}
	}

	summary := dto.SummaryDTO{
		Total:          len(requests),
		Urgent:         urgent,
		ByStatus:       make([]dto.StatusCountDTO, 0, len(workflow.AllStatuses())),
		BillingSources: make([]dto.BillingSourceCountDTO, 0, 3),
	}

	for _, status := range workflow.AllStatuses() {
		summary.ByStatus = append(summary.ByStatus, dto.StatusCountDTO{
			Status: string(status),
			Label:  status.Label(),
			Color:  status.Color(),
			Count:  byStatus[status],
		})
		if status.IsBillingStage() {
			summary.BillingSources = append(summary.BillingSources, dto.BillingSourceCountDTO{
				Status:      string(status),
				BoatManager: bySource[status][workflow.RoleBoatManager],
				Company:     bySource[status][workflow.RoleCompany],
			})
		}
	}

	return summary
}

// FilterRequests applies the compound filter to an in-memory snapshot, with
// the same semantics as the storage-side filter: substring search across the
// visible text fields, and the status-group or urgency radio dimension.
func FilterRequests(requests []entities.ServiceRequest, filter types.RequestFilter) []entities.ServiceRequest {
	out := make([]entities.ServiceRequest, 0, len(requests))

	var group workflow.StatusGroup
	if filter.StatusGroup != "" {
		parsed, err := workflow.ParseStatusGroup(filter.StatusGroup)
		if err != nil {
			return out
		}
		group = parsed
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	for i := range requests {
		r := &requests[i]

		if group != "" && !group.Contains(r.Status) {
			continue
		}
		if group == "" && filter.Urgency != "" && string(r.Urgency) != filter.Urgency {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, *r)
	}

	return out
}

func matchesSearch(r *entities.ServiceRequest, search string) bool {
	for _, field := range []string{
		r.Title,
		string(r.Category),
		r.ClientName,
		r.BoatName.String,
		r.BoatManagerName.String,
		r.CompanyName.String,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// SortRequests orders a snapshot by the given sort key, names under the French
// collation, with newest-first creation date as tiebreak.
func SortRequests(requests []entities.ServiceRequest, sortBy, order string) {
	asc := order == types.SortAsc

	key := func(r *entities.ServiceRequest) string {
		switch sortBy {
		case types.SortByClient:
			return r.ClientName
		case types.SortByBoatManager:
			return r.BoatManagerName.String
		case types.SortByCompany:
			return r.CompanyName.String
		default:
			return ""
		}
	}

	sort.SliceStable(requests, func(i, j int) bool {
		if sortBy == types.SortByDate || sortBy == "" {
			if asc {
				return requests[i].CreatedAt.Before(requests[j].CreatedAt)
			}
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}

		cmp := frenchCollator.CompareString(key(&requests[i]), key(&requests[j]))
		if cmp == 0 {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
}

type SummaryServiceInterface interface {
	GetSummary(ctx context.Context, filter types.RequestFilter) (dto.SummaryDTO, error)
}

type SummaryService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewSummaryService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) SummaryServiceInterface {
	return &SummaryService{requestRepo: requestRepo, logger: logger}
}

// GetSummary counts over the full snapshot matching the filter; pagination
// never applies to counters.
func (s *SummaryService) GetSummary(ctx context.Context, filter types.RequestFilter) (dto.SummaryDTO, error) {
	filter.Limit = 0
	filter.Offset = 0
	filter.WithPagination = false

	requests, _, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return dto.SummaryDTO{}, err
	}
	return BuildSummary(requests), nil
}
