package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"lashstudio/database/repository"
	appointmentRepo "lashstudio/database/repository/appointment"
	catalogRepo "lashstudio/database/repository/catalog"
	"lashstudio/models"

	"go.mongodb.org/mongo-driver/bson"
)

// store backs every fake below so multi-document writes can be applied under one lock.
type store struct {
	mu       sync.Mutex
	appts    map[string]*models.Appointment
	services map[string]*models.ServicePackage
	users    map[string]*models.User
	promos   map[string]*models.PromoCode

	// beforePaymentWrite runs under the lock just before a conditional payment write.
	beforePaymentWrite func(a *models.Appointment)
}

func newStore() *store {
	return &store{
		appts:    map[string]*models.Appointment{},
		services: map[string]*models.ServicePackage{},
		users:    map[string]*models.User{},
		promos:   map[string]*models.PromoCode{},
	}
}

func cloneAppt(a *models.Appointment) *models.Appointment {
	cp := *a
	cp.Notes = append([]models.Note(nil), a.Notes...)
	cp.Notifications = append([]models.NotificationEntry(nil), a.Notifications...)
	cp.Timeline = append(models.Timeline(nil), a.Timeline...)
	if a.Payment.Discount != nil {
		d := *a.Payment.Discount
		cp.Payment.Discount = &d
	}
	return &cp
}

type fakeAppointments struct{ s *store }

func (f fakeAppointments) Create(_ context.Context, a *models.Appointment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.appts[a.ID] = cloneAppt(a)
	return nil
}

func (f fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAppt(a), nil
}

func (f fakeAppointments) GetByPaymentIntent(_ context.Context, intentID string) (*models.Appointment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, a := range f.s.appts {
		if a.Payment.PaymentIntentID == intentID {
			return cloneAppt(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeAppointments) List(_ context.Context, filter appointmentRepo.ListFilter) ([]models.Appointment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range f.s.appts {
		if filter.ClientID != "" && a.Client.ID != filter.ClientID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *cloneAppt(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Date.After(out[j].DateTime.Date) })
	return out, nil
}

func (f fakeAppointments) applyStatus(c appointmentRepo.StatusChange) error {
	a, ok := f.s.appts[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.Status != c.From {
		return repository.ErrStateChanged
	}
	a.Status = c.To
	at := c.At
	switch c.To {
	case models.StatusCompleted:
		a.CompletedAt = &at
	case models.StatusCancelled:
		a.CancelledAt = &at
		a.CancellationReason = c.CancellationReason
	}
	a.Timeline = a.Timeline.Append(c.Entry)
	return nil
}

func (f fakeAppointments) Transition(_ context.Context, c appointmentRepo.StatusChange) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.applyStatus(c)
}

func (f fakeAppointments) Complete(_ context.Context, c appointmentRepo.StatusChange, serviceID string, revenue float64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	svc, ok := f.s.services[serviceID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := f.applyStatus(c); err != nil {
		return err
	}
	svc.BookingCount++
	svc.TotalRevenue += revenue
	return nil
}

func (f fakeAppointments) MarkPaid(_ context.Context, c appointmentRepo.PaymentChange) (appointmentRepo.PaidResult, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.appts[c.ID]
	if !ok {
		return appointmentRepo.PaidResult{}, repository.ErrNotFound
	}
	if f.s.beforePaymentWrite != nil {
		f.s.beforePaymentWrite(a)
	}
	if !containsStatus(c.AllowedFrom, a.Payment.Status) {
		if a.Payment.Status == models.PaymentPaid {
			return appointmentRepo.PaidResult{}, nil
		}
		return appointmentRepo.PaidResult{}, repository.ErrStateChanged
	}
	at := c.At
	a.Payment.Status = c.Status
	a.Payment.ProcessedAt = &at
	if c.Method != "" {
		a.Payment.Method = c.Method
	}
	a.Payment.Reference = c.Reference
	a.Timeline = a.Timeline.Append(c.Entry)

	res := appointmentRepo.PaidResult{Applied: true}
	d := a.Payment.Discount
	if d == nil || d.Redeemed {
		return res, nil
	}
	p, ok := f.s.promos[d.Code]
	if !ok || p.UsageCount >= p.UsageLimit {
		return res, nil
	}
	p.UsageCount++
	d.Redeemed = true
	res.Redeemed = true
	return res, nil
}

func (f fakeAppointments) SetPaymentStatus(_ context.Context, c appointmentRepo.PaymentChange) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.appts[c.ID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if !containsStatus(c.AllowedFrom, a.Payment.Status) {
		return false, nil
	}
	a.Payment.Status = c.Status
	if c.Method != "" {
		a.Payment.Method = c.Method
	}
	a.Timeline = a.Timeline.Append(c.Entry)
	return true, nil
}

func (f fakeAppointments) SetPaymentIntent(_ context.Context, id, intentID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Payment.PaymentIntentID = intentID
	return nil
}

func (f fakeAppointments) AddNote(_ context.Context, id string, note models.Note, entry models.TimelineEntry) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	a, ok := f.s.appts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Notes = append(a.Notes, note)
	a.Timeline = a.Timeline.Append(entry)
	return nil
}

func (f fakeAppointments) ForEachCreatedBetween(context.Context, time.Time, time.Time, func(*models.Appointment) error) error {
	return nil
}

func (f fakeAppointments) FindDueNotifications(context.Context, time.Time, int) ([]models.Appointment, error) {
	return nil, nil
}

func (f fakeAppointments) UpdateNotification(context.Context, string, string, models.NotificationStatus, *time.Time, string) error {
	return nil
}

type fakeCatalog struct{ s *store }

func (f fakeCatalog) List(context.Context, catalogRepo.ListFilter) ([]models.ServicePackage, error) {
	return nil, nil
}

func (f fakeCatalog) GetByID(_ context.Context, id string) (*models.ServicePackage, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeCatalog) Create(_ context.Context, p *models.ServicePackage) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.services[p.ID] = p
	return nil
}

func (f fakeCatalog) UpdateFields(context.Context, string, bson.M) (*models.ServicePackage, error) {
	return nil, repository.ErrNotFound
}

type fakeUsers struct{ s *store }

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (f fakeUsers) List(context.Context, models.Role) ([]models.User, error) { return nil, nil }

func (f fakeUsers) Create(context.Context, *models.User) error { return nil }

func (f fakeUsers) UpdateFields(context.Context, string, bson.M) (*models.User, error) {
	return nil, repository.ErrNotFound
}

type fakePromos struct{ s *store }

func (f fakePromos) GetByCode(_ context.Context, code string) (*models.PromoCode, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.promos[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakePromos) Create(_ context.Context, p *models.PromoCode) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.promos[p.Code] = p
	return nil
}

func (f fakePromos) List(context.Context) ([]models.PromoCode, error) { return nil, nil }
