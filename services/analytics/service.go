package analytics

import (
	"context"
	"fmt"
	"time"

	analyticsRepo "lashstudio/database/repository/analytics"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

// ReportTypeDaily marks reports produced by the daily job.
const ReportTypeDaily = "daily"

// Scanner streams appointments created in a window.
type Scanner interface {
	ForEachCreatedBetween(ctx context.Context, start, end time.Time, fn func(*models.Appointment) error) error
}

type AnalyticsService interface {
	// Dashboard aggregates [start, end] for staff. Zero times default to the last 30 days.
	Dashboard(ctx context.Context, p access.Principal, start, end time.Time) (*models.AnalyticsSummary, error)
	// Aggregate recomputes the summary for [start, end] from the store.
	Aggregate(ctx context.Context, start, end time.Time) (*models.AnalyticsSummary, error)
	// GenerateDaily stores the summary of the UTC day containing day.
	GenerateDaily(ctx context.Context, day time.Time) (*models.AnalyticsReport, error)
	ListReports(ctx context.Context, p access.Principal, limit int) ([]models.AnalyticsReport, error)
}

type DefaultAnalyticsService struct {
	Appointments Scanner
	Reports      analyticsRepo.ReportRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultAnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultAnalyticsService) Dashboard(ctx context.Context, p access.Principal, start, end time.Time) (*models.AnalyticsSummary, error) {
	if err := access.Authorize(p, access.AnalyticsRead, ""); err != nil {
		return nil, err
	}
	if end.IsZero() {
		end = s.now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	return s.Aggregate(ctx, start, end)
}

func (s *DefaultAnalyticsService) Aggregate(ctx context.Context, start, end time.Time) (*models.AnalyticsSummary, error) {
	if start.After(end) {
		return nil, utils.NewValidationError("invalid_range", "start must not be after end")
	}

	acc := NewAccumulator()
	err := s.Appointments.ForEachCreatedBetween(ctx, start, end, func(a *models.Appointment) error {
		acc.Add(a)
		return nil
	})
	if err != nil {
		return nil, utils.NewInternalError("analytics scan failed", err)
	}

	summary := acc.Summary()
	summary.RangeStart = start
	summary.RangeEnd = end
	return &summary, nil
}

func (s *DefaultAnalyticsService) GenerateDaily(ctx context.Context, day time.Time) (*models.AnalyticsReport, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	summary, err := s.Aggregate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report := &models.AnalyticsReport{
		ID:          fmt.Sprintf("%s-%s", ReportTypeDaily, start.Format("2006-01-02")),
		Type:        ReportTypeDaily,
		Metrics:     *summary,
		GeneratedAt: s.now(),
	}
	if err := s.Reports.Save(ctx, report); err != nil {
		return nil, utils.NewInternalError("failed to store daily analytics", err)
	}
	s.Logger.Info("daily analytics generated",
		zap.String("report", report.ID),
		zap.Int("appointments", summary.TotalAppointments),
		zap.Float64("revenue", summary.TotalRevenue))
	return report, nil
}

func (s *DefaultAnalyticsService) ListReports(ctx context.Context, p access.Principal, limit int) ([]models.AnalyticsReport, error) {
	if err := access.Authorize(p, access.AnalyticsRead, ""); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	reports, err := s.Reports.List(ctx, ReportTypeDaily, limit)
	if err != nil {
		return nil, utils.NewInternalError("failed to list analytics reports", err)
	}
	return reports, nil
}
