package tasks

import (
	"testing"
	"time"
)

func TestReportDay(t *testing.T) {
	now := time.Date(2026, 5, 2, 1, 0, 0, 0, time.UTC)
	explicit := time.Date(2026, 4, 20, 15, 0, 0, 0, time.UTC)

	task, err := NewDailyAnalyticsTask(&explicit)
	if err != nil {
		t.Fatalf("NewDailyAnalyticsTask: %v", err)
	}
	day, err := ReportDay(task.Payload(), now)
	if err != nil || day.Format("2006-01-02") != "2026-04-20" {
		t.Fatalf("explicit day = %s, %v", day, err)
	}

	task, _ = NewDailyAnalyticsTask(nil)
	day, err = ReportDay(task.Payload(), now)
	if err != nil || day.Format("2006-01-02") != "2026-05-01" {
		t.Fatalf("default day = %s, %v", day, err)
	}

	if _, err := ReportDay([]byte(`{"day":"yesterday"}`), now); err == nil {
		t.Fatalf("expected error for malformed day")
	}
}
