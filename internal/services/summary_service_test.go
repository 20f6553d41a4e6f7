package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nauticare/internal/entities"
	"nauticare/internal/workflow"
	"nauticare/pkg/types"
)

func snapshotRequest(title string, status workflow.Status, urgency workflow.Urgency, manager, company bool) entities.ServiceRequest {
	r := entities.ServiceRequest{
		ID:         uuid.New(),
		Title:      title,
		Category:   entities.CategoryRepair,
		Status:     status,
		Urgency:    urgency,
		ClientID:   uuid.New(),
		ClientName: "Client",
		CreatedAt:  time.Now(),
	}
	if manager {
		r.BoatManagerID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
		r.BoatManagerName = null.StringFrom("Manager")
	}
	if company {
		r.CompanyID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
		r.CompanyName = null.StringFrom("Company")
	}
	return r
}

func TestBuildSummary(t *testing.T) {
	snapshot := []entities.ServiceRequest{
		snapshotRequest("a", workflow.StatusSubmitted, workflow.UrgencyUrgent, false, false),
		snapshotRequest("b", workflow.StatusSubmitted, workflow.UrgencyNormal, true, false),
		snapshotRequest("c", workflow.StatusInProgress, workflow.UrgencyNormal, true, false),
		snapshotRequest("d", workflow.StatusQuoteSent, workflow.UrgencyUrgent, true, true),
		snapshotRequest("e", workflow.StatusScheduled, workflow.UrgencyNormal, true, true),
		snapshotRequest("f", workflow.StatusReadyToBill, workflow.UrgencyNormal, true, false),
		snapshotRequest("g", workflow.StatusReadyToBill, workflow.UrgencyUrgent, true, true),
		snapshotRequest("h", workflow.StatusToPay, workflow.UrgencyNormal, false, true),
		snapshotRequest("i", workflow.StatusPaid, workflow.UrgencyNormal, true, false),
		snapshotRequest("j", workflow.StatusCancelled, workflow.UrgencyNormal, false, false),
	}

	summary := BuildSummary(snapshot)

	assert.Equal(t, 10, summary.Total)
	assert.Equal(t, 3, summary.Urgent)

	counts := make(map[string]int)
	for _, row := range summary.ByStatus {
		counts[row.Status] = row.Count
	}
	assert.Equal(t, 2, counts["submitted"])
	assert.Equal(t, 1, counts["in_progress"])
	assert.Equal(t, 0, counts["forwarded"])
	assert.Equal(t, 2, counts["ready_to_bill"])
	assert.Equal(t, 1, counts["cancelled"])

	require.Len(t, summary.ByStatus, len(workflow.AllStatuses()), "every status appears, zeros included")
	assert.Equal(t, "submitted", summary.ByStatus[0].Status, "catalog display order")

	require.Len(t, summary.BillingSources, 3)
	sources := make(map[string][2]int)
	for _, row := range summary.BillingSources {
		sources[row.Status] = [2]int{row.BoatManager, row.Company}
	}
	assert.Equal(t, [2]int{1, 1}, sources["ready_to_bill"], "one manager-fulfilled, one company-fulfilled")
	assert.Equal(t, [2]int{0, 1}, sources["to_pay"])
	assert.Equal(t, [2]int{1, 0}, sources["paid"])
}

func TestFilterRequestsRadioSemantics(t *testing.T) {
	snapshot := []entities.ServiceRequest{
		snapshotRequest("Osmose sur coque", workflow.StatusSubmitted, workflow.UrgencyUrgent, false, false),
		snapshotRequest("Changement d'hélice", workflow.StatusQuoteSent, workflow.UrgencyNormal, true, true),
		snapshotRequest("Hivernage", workflow.StatusPaid, workflow.UrgencyUrgent, true, false),
	}

	var filter types.RequestFilter
	filter.SelectUrgency("urgent")
	assert.Len(t, FilterRequests(snapshot, filter), 2)

	// Selecting a status group clears the urgency dimension.
	filter.SelectStatusGroup("billing")
	out := FilterRequests(snapshot, filter)
	require.Len(t, out, 1)
	assert.Equal(t, "Hivernage", out[0].Title)

	filter = types.RequestFilter{Search: "hélice"}
	out = FilterRequests(snapshot, filter)
	require.Len(t, out, 1)
	assert.Equal(t, "Changement d'hélice", out[0].Title)

	filter = types.RequestFilter{StatusGroup: "nonsense"}
	assert.Empty(t, FilterRequests(snapshot, filter))
}

func TestSortRequestsFrenchCollation(t *testing.T) {
	base := time.Now()
	mk := func(client string, age time.Duration) entities.ServiceRequest {
		r := snapshotRequest("r", workflow.StatusSubmitted, workflow.UrgencyNormal, false, false)
		r.ClientName = client
		r.CreatedAt = base.Add(-age)
		return r
	}

	snapshot := []entities.ServiceRequest{
		mk("Zoé", time.Hour),
		mk("Éric", 2*time.Hour),
		mk("Anne", 3*time.Hour),
		mk("eric", 4*time.Hour),
	}

	SortRequests(snapshot, types.SortByClient, types.SortAsc)

	names := make([]string, len(snapshot))
	for i, r := range snapshot {
		names[i] = r.ClientName
	}
	// Accents and case fold together: the two Erics are adjacent and before Z.
	assert.Equal(t, "Anne", names[0])
	assert.ElementsMatch(t, []string{"Éric", "eric"}, names[1:3])
	assert.Equal(t, "Zoé", names[3])

	SortRequests(snapshot, types.SortByDate, types.SortDesc)
	assert.Equal(t, "Zoé", snapshot[0].ClientName, "newest first")
	assert.Equal(t, "eric", snapshot[3].ClientName)
}
