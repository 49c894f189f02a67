package insights_test

import (
	"context"
	"testing"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/config"
	"github.com/nagumeena22/ColabSphere/internal/insights"
	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/logger"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
	"github.com/nagumeena22/ColabSphere/internal/project"
	"github.com/nagumeena22/ColabSphere/internal/user"
	"github.com/nagumeena22/ColabSphere/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsights_Shared(t *testing.T) {
	ctx := context.Background()

	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	pg.RunMigrations(t,
		[]interface{}{(*user.User)(nil), (*project.Project)(nil), (*joinrequest.JoinRequest)(nil)},
		joinrequest.Migrations...)

	mockMetrics := metrics.NewMock()
	users := user.NewService(user.NewRepository(pg.DB, mockMetrics))
	projects := project.NewRepository(pg.DB, mockMetrics)
	requests := joinrequest.NewRepository(pg.DB, mockMetrics)
	svc := insights.NewService(insights.NewRepository(pg.DB, mockMetrics), config.InsightsConfig{}, logger.NewDiscard(), mockMetrics)

	insert := func(t *testing.T, projectID, userID int64, status joinrequest.Status, at time.Time) {
		t.Helper()
		_, err := requests.Create(ctx, &joinrequest.JoinRequest{
			ProjectID: projectID, UserID: userID, Status: status, RequestedAt: at,
		})
		require.NoError(t, err)
	}

	t.Run("EmptyStore", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "join_requests", "projects", "users")

		report := svc.Report(ctx)
		assert.Equal(t, insights.Overview{}, report.Overview)
		assert.NotNil(t, report.ProjectStats)
		assert.Empty(t, report.ProjectStats)
		assert.Empty(t, report.TopCollaborators)
		assert.Empty(t, report.DayWiseData)
		assert.Empty(t, report.HighestAcceptanceRatio)
	})

	t.Run("Aggregates", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "join_requests", "projects", "users")

		ravi, err := users.CreateUser(ctx, user.CreateRequest{
			RegNo: 2101, Name: "Ravi", Email: "ravi@example.com", Password: "secret123",
			Age: 20, Gender: "male", Department: "ECE",
		})
		require.NoError(t, err)
		mei, err := users.CreateUser(ctx, user.CreateRequest{
			RegNo: 2102, Name: "Mei", Email: "mei@example.com", Password: "secret123",
			Age: 21, Gender: "female", Department: "CSE",
		})
		require.NoError(t, err)
		p, err := projects.Create(ctx, &project.Project{
			AdminID: "ADMIN001", AdminName: "Asha", Department: "CSE", Domain: "AI",
			ProjectDescription: "Chatbot",
		})
		require.NoError(t, err)

		now := time.Now().UTC()
		day := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

		insert(t, p.ID, ravi.ID, joinrequest.StatusAccepted, day(1))
		insert(t, p.ID, mei.ID, joinrequest.StatusRejected, day(1))
		insert(t, p.ID, mei.ID, joinrequest.StatusPending, day(0))
		insert(t, 9999, ravi.ID, joinrequest.StatusAccepted, day(2))
		insert(t, 9999, 8888, joinrequest.StatusAccepted, day(45))

		report := svc.Report(ctx)

		o := report.Overview
		assert.Equal(t, int64(5), o.TotalRequests)
		assert.Equal(t, o.TotalRequests, o.PendingRequests+o.AcceptedRequests+o.RejectedRequests)
		assert.Equal(t, int64(3), o.AcceptedRequests)

		require.Len(t, report.ProjectStats, 2)
		assert.Equal(t, p.ID, report.ProjectStats[0].ProjectID)
		assert.Equal(t, "Asha", report.ProjectStats[0].ProjectName)
		assert.Equal(t, int64(3), report.ProjectStats[0].Total)
		assert.Equal(t, 33.3, report.ProjectStats[0].AcceptanceRate)
		assert.Equal(t, joinrequest.UnknownProject, report.ProjectStats[1].ProjectName)
		assert.Equal(t, insights.UnknownValue, report.ProjectStats[1].Domain)

		require.Len(t, report.HighestAcceptanceRatio, 2)
		assert.Equal(t, int64(9999), report.HighestAcceptanceRatio[0].ProjectID)
		assert.Equal(t, 100.0, report.HighestAcceptanceRatio[0].AcceptanceRate)

		require.Len(t, report.TopCollaborators, 2)
		assert.Equal(t, "Ravi", report.TopCollaborators[0].Name)
		assert.Equal(t, int64(2), report.TopCollaborators[0].AcceptedCount)
		assert.Equal(t, int64(2101), report.TopCollaborators[0].RegNo)
		assert.Equal(t, joinrequest.UnknownUser, report.TopCollaborators[1].Name)
		assert.Equal(t, int64(0), report.TopCollaborators[1].RegNo)

		var total int64
		for i, b := range report.DayWiseData {
			total += b.Total
			assert.Equal(t, b.Total, b.Accepted+b.Rejected+b.Pending)
			if i > 0 {
				assert.Less(t, report.DayWiseData[i-1].Date, b.Date)
			}
		}
		assert.Equal(t, int64(4), total, "the 45 day old request is outside the window")
		require.NotEmpty(t, report.DayWiseData)
		assert.Equal(t, now.Format("2006-01-02"), report.DayWiseData[len(report.DayWiseData)-1].Date)
	})
}
