package analytics

import (
	"lashstudio/models"
	"lashstudio/utils"
)

// MethodUnspecified buckets appointments without a payment method.
const MethodUnspecified = "unspecified"

// Accumulator folds appointments into a summary in a single pass.
type Accumulator struct {
	summary models.AnalyticsSummary
	paid    int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{summary: models.AnalyticsSummary{
		ByStatus:        map[models.AppointmentStatus]int{},
		ByService:       map[string]models.ServiceBreakdown{},
		ByPaymentMethod: map[string]int{},
	}}
}

// Add counts one appointment.
func (a *Accumulator) Add(appt *models.Appointment) {
	s := &a.summary
	s.TotalAppointments++
	s.ByStatus[appt.Status]++

	paid := appt.Payment.Status == models.PaymentPaid
	if paid {
		a.paid++
		s.TotalRevenue += appt.Payment.TotalPrice
	}

	svc := s.ByService[appt.Service.ID]
	svc.Name = appt.Service.Name
	svc.Count++
	if paid {
		svc.Revenue += appt.Payment.TotalPrice
	}
	s.ByService[appt.Service.ID] = svc

	method := appt.Payment.Method
	if method == "" {
		method = MethodUnspecified
	}
	s.ByPaymentMethod[method]++
}

// Summary returns the totals with derived rates. Money is rounded to cents and
// rates are percentages with two decimals.
func (a *Accumulator) Summary() models.AnalyticsSummary {
	s := a.summary
	s.TotalRevenue = utils.RoundCents(s.TotalRevenue)

	byService := make(map[string]models.ServiceBreakdown, len(s.ByService))
	for id, b := range s.ByService {
		b.Revenue = utils.RoundCents(b.Revenue)
		byService[id] = b
	}
	s.ByService = byService

	if a.paid > 0 {
		s.AverageBookingValue = utils.RoundCents(s.TotalRevenue / float64(a.paid))
	}
	if s.TotalAppointments > 0 {
		total := float64(s.TotalAppointments)
		s.CompletionRate = utils.RoundCents(float64(s.ByStatus[models.StatusCompleted]) / total * 100)
		s.CancellationRate = utils.RoundCents(float64(s.ByStatus[models.StatusCancelled]) / total * 100)
		s.NoShowRate = utils.RoundCents(float64(s.ByStatus[models.StatusNoShow]) / total * 100)
	}
	return s
}
