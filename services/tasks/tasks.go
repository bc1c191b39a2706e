package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeDispatchNotifications = "notifications:dispatch"
	TypeDailyAnalytics        = "analytics:daily"

	dayLayout = "2006-01-02"
)

// DailyAnalyticsPayload selects the UTC day to summarize. An empty Day means
// the day before the task runs.
type DailyAnalyticsPayload struct {
	Day string `json:"day,omitempty"`
}

// NewDispatchTask builds one notification dispatch pass. A failed pass is not
// retried; the next periodic pass picks the entries up again.
func NewDispatchTask() *asynq.Task {
	return asynq.NewTask(TypeDispatchNotifications, nil,
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
		asynq.Unique(10*time.Minute),
	)
}

func NewDailyAnalyticsTask(day *time.Time) (*asynq.Task, error) {
	var payload DailyAnalyticsPayload
	if day != nil {
		payload.Day = day.UTC().Format(dayLayout)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDailyAnalytics, b,
		asynq.MaxRetry(0),
		asynq.Timeout(5*time.Minute),
	), nil
}

// ReportDay resolves the day a daily analytics task covers.
func ReportDay(payload []byte, now time.Time) (time.Time, error) {
	var p DailyAnalyticsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return time.Time{}, fmt.Errorf("invalid analytics payload: %w", err)
		}
	}
	if p.Day == "" {
		return now.UTC().AddDate(0, 0, -1), nil
	}
	day, err := time.Parse(dayLayout, p.Day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid analytics day %q: %w", p.Day, err)
	}
	return day, nil
}
