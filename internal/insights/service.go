package insights

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/config"
	"github.com/nagumeena22/ColabSphere/internal/joinrequest"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
)

const (
	DefaultTopN       = 10
	DefaultWindowDays = 30
)

const (
	SectionOverview         = "overview"
	SectionProjectStats     = "projectStats"
	SectionTopCollaborators = "topCollaborators"
	SectionDayWise          = "dayWiseData"
	SectionHighestRatio     = "highestAcceptanceRatio"
)

type Service interface {
	// Report never fails as a whole. A section that errors is logged and left empty.
	Report(ctx context.Context) *Report
}

type service struct {
	repo       Repository
	logger     *slog.Logger
	metrics    *metrics.Metrics
	topN       int
	windowDays int
	now        func() time.Time
}

func NewService(repo Repository, cfg config.InsightsConfig, logger *slog.Logger, m *metrics.Metrics) Service {
	s := &service{
		repo:       repo,
		logger:     logger,
		metrics:    m,
		topN:       cfg.TopN,
		windowDays: cfg.WindowDays,
		now:        time.Now,
	}
	if s.topN <= 0 {
		s.topN = DefaultTopN
	}
	if s.windowDays <= 0 {
		s.windowDays = DefaultWindowDays
	}
	return s
}

// section is the outcome of one independently computed part of the report.
type section[T any] struct {
	name  string
	value T
	err   error
}

func start[T any](ctx context.Context, wg *sync.WaitGroup, name string, compute func(context.Context) (T, error)) *section[T] {
	out := &section[T]{name: name}
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				out.err = fmt.Errorf("panic: %v", r)
			}
		}()
		out.value, out.err = compute(ctx)
	}()
	return out
}

// settle returns the section value, or empty when the section failed.
func settle[T any](ctx context.Context, s *service, sec *section[T], empty T) T {
	if sec.err != nil {
		s.logger.ErrorContext(ctx, "insights section failed", "section", sec.name, "error", sec.err)
		s.metrics.RecordInsightsSectionFailure(ctx, sec.name)
		return empty
	}
	return sec.value
}

func (s *service) Report(ctx context.Context) *Report {
	var wg sync.WaitGroup
	overview := start(ctx, &wg, SectionOverview, s.overview)
	projectStats := start(ctx, &wg, SectionProjectStats, s.projectStats)
	collaborators := start(ctx, &wg, SectionTopCollaborators, s.topCollaborators)
	dayWise := start(ctx, &wg, SectionDayWise, s.dayWise)
	highest := start(ctx, &wg, SectionHighestRatio, s.highestAcceptanceRatio)
	wg.Wait()

	return &Report{
		Overview:               settle(ctx, s, overview, Overview{}),
		ProjectStats:           settle(ctx, s, projectStats, []ProjectStat{}),
		TopCollaborators:       settle(ctx, s, collaborators, []Collaborator{}),
		DayWiseData:            settle(ctx, s, dayWise, []DayBucket{}),
		HighestAcceptanceRatio: settle(ctx, s, highest, []ProjectStat{}),
	}
}

func (s *service) overview(ctx context.Context) (Overview, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Overview{}, err
	}

	var o Overview
	for _, c := range counts {
		switch joinrequest.Status(c.Status) {
		case joinrequest.StatusPending:
			o.PendingRequests = c.Count
		case joinrequest.StatusAccepted:
			o.AcceptedRequests = c.Count
		case joinrequest.StatusRejected:
			o.RejectedRequests = c.Count
		default:
			continue
		}
		o.TotalRequests += c.Count
	}
	return o, nil
}

func (s *service) projectStats(ctx context.Context) ([]ProjectStat, error) {
	stats, err := s.loadProjectStats(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Total > stats[j].Total
	})
	return limit(stats, s.topN), nil
}

func (s *service) highestAcceptanceRatio(ctx context.Context) ([]ProjectStat, error) {
	stats, err := s.loadProjectStats(ctx)
	if err != nil {
		return nil, err
	}

	ranked := stats[:0]
	for _, st := range stats {
		if st.Total >= 1 {
			ranked = append(ranked, st)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AcceptanceRate > ranked[j].AcceptanceRate
	})
	return limit(ranked, s.topN), nil
}

func (s *service) loadProjectStats(ctx context.Context) ([]ProjectStat, error) {
	rows, err := s.repo.ProjectCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]ProjectStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, ProjectStat{
			ProjectID:      r.ProjectID,
			ProjectName:    orDefault(r.AdminName, joinrequest.UnknownProject),
			Department:     orDefault(r.Department, UnknownValue),
			Domain:         orDefault(r.Domain, UnknownValue),
			Total:          r.Total,
			Accepted:       r.Accepted,
			Rejected:       r.Rejected,
			Pending:        r.Pending,
			AcceptanceRate: AcceptanceRate(r.Accepted, r.Total),
		})
	}
	return stats, nil
}

func (s *service) topCollaborators(ctx context.Context) ([]Collaborator, error) {
	rows, err := s.repo.AcceptedByUser(ctx, s.topN)
	if err != nil {
		return nil, err
	}

	out := make([]Collaborator, 0, len(rows))
	for _, r := range rows {
		c := Collaborator{
			UserID:        r.UserID,
			Name:          orDefault(r.Name, joinrequest.UnknownUser),
			Email:         orDefault(r.Email, ""),
			Department:    orDefault(r.Department, UnknownValue),
			AcceptedCount: r.AcceptedCount,
		}
		if r.RegNo != nil {
			c.RegNo = *r.RegNo
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *service) dayWise(ctx context.Context) ([]DayBucket, error) {
	to := s.now().UTC()
	from := to.AddDate(0, 0, -s.windowDays)

	buckets, err := s.repo.DailyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []DayBucket{}
	}
	return buckets, nil
}

// AcceptanceRate is accepted/total as a percentage rounded to one decimal. Zero when total is zero.
func AcceptanceRate(accepted, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(accepted)/float64(total)*1000) / 10
}

// orDefault substitutes fallback only for a NULL column; stored empty strings pass through.
func orDefault(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
