package analytics

import (
	"context"
	"testing"
	"time"

	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

type sliceScanner []models.Appointment

func (s sliceScanner) ForEachCreatedBetween(_ context.Context, start, end time.Time, fn func(*models.Appointment) error) error {
	for i := range s {
		if s[i].CreatedAt.Before(start) || s[i].CreatedAt.After(end) {
			continue
		}
		if err := fn(&s[i]); err != nil {
			return err
		}
	}
	return nil
}

type memReports struct {
	saved []*models.AnalyticsReport
}

func (m *memReports) Save(_ context.Context, r *models.AnalyticsReport) error {
	m.saved = append(m.saved, r)
	return nil
}

func (m *memReports) List(context.Context, string, int) ([]models.AnalyticsReport, error) {
	return nil, nil
}

var day = time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

func appt(serviceID string, status models.AppointmentStatus, pay models.PaymentStatus, method string, total float64, created time.Time) models.Appointment {
	return models.Appointment{
		Service:   models.ServiceSnapshot{ID: serviceID, Name: serviceID + " lashes"},
		Status:    status,
		Payment:   models.Payment{Status: pay, Method: method, TotalPrice: total},
		CreatedAt: created,
	}
}

func TestAggregateSumsPaidRevenueOnly(t *testing.T) {
	data := sliceScanner{
		appt("classic", models.StatusCompleted, models.PaymentPaid, models.MethodStripe, 108, day.Add(time.Hour)),
		appt("classic", models.StatusConfirmed, models.PaymentPending, "", 120, day.Add(2*time.Hour)),
		appt("volume", models.StatusCompleted, models.PaymentPaid, models.MethodCash, 180, day.Add(3*time.Hour)),
		appt("volume", models.StatusCancelled, models.PaymentFailed, models.MethodStripe, 180, day.Add(4*time.Hour)),
		appt("classic", models.StatusCompleted, models.PaymentPaid, models.MethodStripe, 120, day.Add(-time.Hour)),
	}
	svc := &DefaultAnalyticsService{Appointments: data, Logger: zap.NewNop()}

	got, err := svc.Aggregate(context.Background(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.TotalAppointments != 4 {
		t.Fatalf("total = %d, want 4", got.TotalAppointments)
	}
	if got.TotalRevenue != 288 {
		t.Fatalf("revenue = %.2f, want 288", got.TotalRevenue)
	}
	if got.ByStatus[models.StatusCompleted] != 2 || got.ByStatus[models.StatusCancelled] != 1 || got.ByStatus[models.StatusConfirmed] != 1 {
		t.Fatalf("byStatus = %+v", got.ByStatus)
	}
	if got.ByService["classic"].Count != 2 || got.ByService["volume"].Revenue != 180 {
		t.Fatalf("byService = %+v", got.ByService)
	}
	if got.ByPaymentMethod[models.MethodStripe] != 2 || got.ByPaymentMethod[MethodUnspecified] != 1 {
		t.Fatalf("byPaymentMethod = %+v", got.ByPaymentMethod)
	}
	if got.CompletionRate != 50 || got.CancellationRate != 25 || got.NoShowRate != 0 {
		t.Fatalf("rates = %.2f/%.2f/%.2f", got.CompletionRate, got.CancellationRate, got.NoShowRate)
	}
	if got.AverageBookingValue != 144 {
		t.Fatalf("average = %.2f, want 144", got.AverageBookingValue)
	}
}

func TestAggregateEmptyRange(t *testing.T) {
	svc := &DefaultAnalyticsService{Appointments: sliceScanner{}, Logger: zap.NewNop()}
	got, err := svc.Aggregate(context.Background(), day, day)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.TotalAppointments != 0 || got.TotalRevenue != 0 || got.CompletionRate != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestAggregateRejectsInvertedRange(t *testing.T) {
	svc := &DefaultAnalyticsService{Appointments: sliceScanner{}, Logger: zap.NewNop()}
	_, err := svc.Aggregate(context.Background(), day.Add(time.Hour), day)
	if utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestDashboardRequiresStaff(t *testing.T) {
	svc := &DefaultAnalyticsService{Appointments: sliceScanner{}, Logger: zap.NewNop()}
	_, err := svc.Dashboard(context.Background(), access.Principal{UserID: "c1", Role: models.RoleClient}, time.Time{}, time.Time{})
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}

	now := day.Add(12 * time.Hour)
	svc.Now = func() time.Time { return now }
	got, err := svc.Dashboard(context.Background(), access.Principal{UserID: "t1", Role: models.RoleTechnician}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !got.RangeEnd.Equal(now) || !got.RangeStart.Equal(now.AddDate(0, 0, -30)) {
		t.Fatalf("default window = %s..%s", got.RangeStart, got.RangeEnd)
	}
}

func TestGenerateDailyStoresReport(t *testing.T) {
	data := sliceScanner{
		appt("classic", models.StatusCompleted, models.PaymentPaid, models.MethodStripe, 120, day.Add(23*time.Hour)),
		appt("classic", models.StatusCompleted, models.PaymentPaid, models.MethodStripe, 120, day.Add(25*time.Hour)),
	}
	reports := &memReports{}
	svc := &DefaultAnalyticsService{Appointments: data, Reports: reports, Logger: zap.NewNop()}

	report, err := svc.GenerateDaily(context.Background(), day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("GenerateDaily: %v", err)
	}
	if report.ID != "daily-2026-04-10" || report.Metrics.TotalAppointments != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(reports.saved) != 1 {
		t.Fatalf("report was not saved")
	}
}
