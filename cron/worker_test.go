package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"lashstudio/models"
	"lashstudio/services/notification"
	"lashstudio/services/tasks"

	"go.uber.org/zap"
)

type stubDispatcher struct {
	calls int
	err   error
}

func (s *stubDispatcher) DispatchDue(context.Context) (notification.DispatchStats, error) {
	s.calls++
	return notification.DispatchStats{Sent: 3}, s.err
}

type stubReports struct {
	days []time.Time
}

func (s *stubReports) GenerateDaily(_ context.Context, day time.Time) (*models.AnalyticsReport, error) {
	s.days = append(s.days, day)
	return &models.AnalyticsReport{}, nil
}

func TestHandleDispatch(t *testing.T) {
	d := &stubDispatcher{}
	h := handleDispatch(d, zap.NewNop())
	if err := h(context.Background(), tasks.NewDispatchTask()); err != nil || d.calls != 1 {
		t.Fatalf("dispatch = %v, calls %d", err, d.calls)
	}
	d.err = errors.New("mongo down")
	if err := h(context.Background(), tasks.NewDispatchTask()); err == nil {
		t.Fatalf("expected dispatch error to propagate")
	}
}

func TestHandleDailyAnalytics(t *testing.T) {
	r := &stubReports{}
	day := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)
	task, err := tasks.NewDailyAnalyticsTask(&day)
	if err != nil {
		t.Fatalf("NewDailyAnalyticsTask: %v", err)
	}
	if err := handleDailyAnalytics(r, zap.NewNop())(context.Background(), task); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(r.days) != 1 || !r.days[0].Equal(day) {
		t.Fatalf("generated days = %v", r.days)
	}
}
