package insights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/config"
	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	statuses      []statusCount
	projects      []projectRow
	collaborators []collaboratorRow
	days          []DayBucket

	statusErr, projectErr, collaboratorErr, dayErr error

	gotFrom, gotTo time.Time
	gotLimit       int
}

func (s *stubRepository) CountByStatus(context.Context) ([]statusCount, error) {
	return s.statuses, s.statusErr
}

func (s *stubRepository) ProjectCounts(context.Context) ([]projectRow, error) {
	if s.projectErr != nil {
		return nil, s.projectErr
	}
	// callers sort in place; hand each one its own copy
	return append([]projectRow(nil), s.projects...), nil
}

func (s *stubRepository) AcceptedByUser(_ context.Context, limit int) ([]collaboratorRow, error) {
	s.gotLimit = limit
	return s.collaborators, s.collaboratorErr
}

func (s *stubRepository) DailyCounts(_ context.Context, from, to time.Time) ([]DayBucket, error) {
	s.gotFrom, s.gotTo = from, to
	return s.days, s.dayErr
}

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }

var reportNow = time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository, cfg config.InsightsConfig) *service {
	svc := NewService(repo, cfg, logger.NewDiscard(), metrics.NewMock()).(*service)
	svc.now = func() time.Time { return reportNow }
	return svc
}

func TestAcceptanceRate(t *testing.T) {
	tests := []struct {
		accepted, total int64
		want            float64
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{3, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AcceptanceRate(tt.accepted, tt.total), "%d/%d", tt.accepted, tt.total)
	}
}

func TestReport_Overview(t *testing.T) {
	repo := &stubRepository{statuses: []statusCount{
		{Status: "pending", Count: 4},
		{Status: "accepted", Count: 2},
		{Status: "rejected", Count: 1},
	}}

	o := newTestService(repo, config.InsightsConfig{}).Report(context.Background()).Overview

	assert.Equal(t, int64(7), o.TotalRequests)
	assert.Equal(t, o.TotalRequests, o.PendingRequests+o.AcceptedRequests+o.RejectedRequests)
	assert.Equal(t, int64(4), o.PendingRequests)
}

func TestReport_ProjectStats(t *testing.T) {
	repo := &stubRepository{projects: []projectRow{
		{ProjectID: 1, ProjectRefID: intPtr(1), AdminName: strPtr("Asha"), Department: strPtr("CSE"), Domain: strPtr("AI"), Total: 2, Accepted: 1, Pending: 1},
		{ProjectID: 2, Total: 5, Accepted: 5},
		{ProjectID: 3, ProjectRefID: intPtr(3), AdminName: strPtr("Vik"), Department: strPtr(""), Total: 2, Accepted: 2},
		{ProjectID: 4, ProjectRefID: intPtr(4), AdminName: strPtr("Mei"), Total: 3, Rejected: 3},
	}}

	report := newTestService(repo, config.InsightsConfig{}).Report(context.Background())

	stats := report.ProjectStats
	require.Len(t, stats, 4)
	assert.Equal(t, []int64{2, 4, 1, 3}, projectIDs(stats), "total descending, ties in input order")

	assert.Equal(t, joinrequest.UnknownProject, stats[0].ProjectName)
	assert.Equal(t, UnknownValue, stats[0].Department)
	assert.Equal(t, UnknownValue, stats[0].Domain)
	assert.Equal(t, 100.0, stats[0].AcceptanceRate)
	assert.Equal(t, 50.0, stats[2].AcceptanceRate)
	assert.Equal(t, UnknownValue, stats[1].Department, "NULL department on an existing project")
	assert.Equal(t, "", stats[3].Department, "stored empty department is kept")
	assert.Equal(t, "Vik", stats[3].ProjectName)

	highest := report.HighestAcceptanceRatio
	assert.Equal(t, []int64{2, 3, 1, 4}, projectIDs(highest), "rate descending, ties in input order")
	for i := 1; i < len(highest); i++ {
		assert.GreaterOrEqual(t, highest[i-1].AcceptanceRate, highest[i].AcceptanceRate)
	}
}

func TestReport_TopNFromConfig(t *testing.T) {
	repo := &stubRepository{}
	for i := int64(1); i <= 15; i++ {
		repo.projects = append(repo.projects, projectRow{ProjectID: i, Total: i, Accepted: 1})
	}

	report := newTestService(repo, config.InsightsConfig{TopN: 3}).Report(context.Background())

	assert.Equal(t, []int64{15, 14, 13}, projectIDs(report.ProjectStats))
	assert.Equal(t, []int64{1, 2, 3}, projectIDs(report.HighestAcceptanceRatio))
	assert.Equal(t, 3, repo.gotLimit)

	report = newTestService(repo, config.InsightsConfig{}).Report(context.Background())
	assert.Len(t, report.ProjectStats, DefaultTopN)
}

func TestReport_TopCollaboratorsPlaceholders(t *testing.T) {
	repo := &stubRepository{collaborators: []collaboratorRow{
		{UserID: 7, UserRefID: intPtr(7), Name: strPtr("Ravi"), Email: strPtr("ravi@example.com"), Department: strPtr("ECE"), RegNo: intPtr(2101), AcceptedCount: 3},
		{UserID: 9, AcceptedCount: 1},
		{UserID: 11, UserRefID: intPtr(11), Name: strPtr("Noor"), Email: strPtr("noor@example.com"), Department: strPtr(""), RegNo: intPtr(2102), AcceptedCount: 1},
	}}

	got := newTestService(repo, config.InsightsConfig{}).Report(context.Background()).TopCollaborators

	require.Len(t, got, 3)
	assert.Equal(t, "", got[2].Department, "stored empty department is kept")
	assert.Equal(t, Collaborator{UserID: 7, Name: "Ravi", Email: "ravi@example.com", Department: "ECE", RegNo: 2101, AcceptedCount: 3}, got[0])
	assert.Equal(t, Collaborator{UserID: 9, Name: joinrequest.UnknownUser, Email: "", Department: UnknownValue, RegNo: 0, AcceptedCount: 1}, got[1])
}

func TestReport_DayWiseWindow(t *testing.T) {
	repo := &stubRepository{days: []DayBucket{{Date: "2025-03-30", Total: 1, Pending: 1}}}

	report := newTestService(repo, config.InsightsConfig{WindowDays: 7}).Report(context.Background())

	assert.Equal(t, reportNow, repo.gotTo)
	assert.Equal(t, reportNow.AddDate(0, 0, -7), repo.gotFrom)
	assert.Equal(t, repo.days, report.DayWiseData)
}

func TestReport_SectionIsolation(t *testing.T) {
	repo := &stubRepository{
		statuses:   []statusCount{{Status: "accepted", Count: 2}},
		projectErr: errors.New("projects relation missing"),
		dayErr:     errors.New("statement timeout"),
		collaborators: []collaboratorRow{
			{UserID: 1, Name: strPtr("Ravi"), AcceptedCount: 2},
		},
	}

	report := newTestService(repo, config.InsightsConfig{}).Report(context.Background())

	assert.Equal(t, int64(2), report.Overview.AcceptedRequests)
	assert.Len(t, report.TopCollaborators, 1)
	assert.NotNil(t, report.ProjectStats)
	assert.Empty(t, report.ProjectStats)
	assert.Empty(t, report.HighestAcceptanceRatio)
	assert.NotNil(t, report.DayWiseData)
	assert.Empty(t, report.DayWiseData)
}

type panickingRepository struct {
	stubRepository
}

func (panickingRepository) CountByStatus(context.Context) ([]statusCount, error) {
	panic("driver bug")
}

func TestReport_PanicInSectionIsContained(t *testing.T) {
	repo := &panickingRepository{stubRepository{days: []DayBucket{{Date: "2025-03-01", Total: 1}}}}

	report := newTestService(repo, config.InsightsConfig{}).Report(context.Background())

	assert.Equal(t, Overview{}, report.Overview)
	assert.Len(t, report.DayWiseData, 1)
}

func TestHandler_AlwaysOK(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &stubRepository{
		statusErr:       errors.New("down"),
		projectErr:      errors.New("down"),
		collaboratorErr: errors.New("down"),
		dayErr:          errors.New("down"),
	}
	router := gin.New()
	NewHandler(newTestService(repo, config.InsightsConfig{})).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `{"totalRequests":0,"pendingRequests":0,"acceptedRequests":0,"rejectedRequests":0}`, string(body["overview"]))
	for _, key := range []string{"projectStats", "topCollaborators", "dayWiseData", "highestAcceptanceRatio"} {
		assert.JSONEq(t, `[]`, string(body[key]), key)
	}
}

func projectIDs(stats []ProjectStat) []int64 {
	ids := make([]int64, 0, len(stats))
	for _, s := range stats {
		ids = append(ids, s.ProjectID)
	}
	return ids
}
