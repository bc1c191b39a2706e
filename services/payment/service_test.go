package payment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/services/appointment"
	"lashstudio/utils"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type fakeAppointments struct {
	appointment.AppointmentService
	appts    map[string]*models.Appointment
	intents  map[string]string
	payments []appointment.PaymentInput
}

func (f *fakeAppointments) Get(_ context.Context, p access.Principal, id string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, utils.NewNotFoundError("appointment_not_found", "appointment not found")
	}
	if err := access.Authorize(p, access.AppointmentRead, a.Client.ID); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointments) AttachPaymentIntent(_ context.Context, id, intentID string) error {
	f.intents[id] = intentID
	return nil
}

func (f *fakeAppointments) GetByPaymentIntent(_ context.Context, intentID string) (*models.Appointment, error) {
	for id, pi := range f.intents {
		if pi == intentID {
			cp := *f.appts[id]
			return &cp, nil
		}
	}
	return nil, utils.NewNotFoundError("appointment_not_found", "appointment not found")
}

func (f *fakeAppointments) UpdatePaymentStatus(_ context.Context, _, id string, in appointment.PaymentInput) (*appointment.PaymentOutcome, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, utils.NewNotFoundError("appointment_not_found", "appointment not found")
	}
	f.payments = append(f.payments, in)
	if a.Payment.Status == in.Status {
		return &appointment.PaymentOutcome{Appointment: a, AlreadyApplied: true}, nil
	}
	if a.Payment.Status == models.PaymentPaid {
		return nil, utils.NewConflictError("invalid_payment_transition", "paid")
	}
	a.Payment.Status = in.Status
	return &appointment.PaymentOutcome{Appointment: a}, nil
}

type fakeGateway struct {
	last IntentRequest
	err  error
}

func (g *fakeGateway) CreateIntent(_ context.Context, req IntentRequest) (*Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.last = req
	return &Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

var owner = access.Principal{UserID: "c1", Role: models.RoleClient}

func newPaymentService() (*DefaultPaymentService, *fakeAppointments, *fakeGateway) {
	appts := &fakeAppointments{
		appts: map[string]*models.Appointment{
			"a1": {
				ID:      "a1",
				Client:  models.ClientSnapshot{ID: "c1", Email: "c1@example.com"},
				Service: models.ServiceSnapshot{ID: "classic", Name: "Classic Lashes"},
				Status:  models.StatusConfirmed,
				Payment: models.Payment{Status: models.PaymentPending, Currency: "usd", Subtotal: 120, TotalPrice: 108},
			},
		},
		intents: map[string]string{},
	}
	gw := &fakeGateway{}
	return &DefaultPaymentService{
		Appointments:   appts,
		Gateway:        gw,
		Currency:       "usd",
		PublishableKey: "pk_test",
		Logger:         zap.NewNop(),
	}, appts, gw
}

func TestCreateIntent(t *testing.T) {
	svc, appts, gw := newPaymentService()

	res, err := svc.CreateIntent(context.Background(), owner, "a1")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if gw.last.Amount != 10800 || gw.last.Currency != "usd" || gw.last.Metadata["appointment_id"] != "a1" || gw.last.Metadata["client_id"] != "c1" {
		t.Fatalf("unexpected intent request %+v", gw.last)
	}
	if res.ClientSecret != "pi_123_secret" || appts.intents["a1"] != "pi_123" {
		t.Fatalf("intent not recorded: %+v", res)
	}

	other := access.Principal{UserID: "c2", Role: models.RoleClient}
	if _, err := svc.CreateIntent(context.Background(), other, "a1"); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}

	gw.err = errors.New("card network down")
	if _, err := svc.CreateIntent(context.Background(), owner, "a1"); utils.KindOf(err) != utils.KindUpstream {
		t.Fatalf("want upstream, got %v", err)
	}

	appts.appts["a1"].Payment.Status = models.PaymentPaid
	if _, err := svc.CreateIntent(context.Background(), owner, "a1"); utils.CodeOf(err) != CodeAlreadyPaid {
		t.Fatalf("want %s, got %v", CodeAlreadyPaid, err)
	}
}

func event(id, typ, raw string) stripe.Event {
	return stripe.Event{ID: id, Type: stripe.EventType(typ), Data: &stripe.EventData{Raw: json.RawMessage(raw)}}
}

func TestHandleEvent(t *testing.T) {
	svc, appts, _ := newPaymentService()
	ctx := context.Background()
	succeeded := `{"id":"pi_123","object":"payment_intent","metadata":{"appointment_id":"a1"}}`

	res, err := svc.HandleEvent(ctx, event("evt_1", "payment_intent.succeeded", succeeded))
	if err != nil || res.Outcome != OutcomeProcessed {
		t.Fatalf("first delivery = %+v, %v", res, err)
	}
	got := appts.payments[0]
	if got.Status != models.PaymentPaid || got.Reference != "pi_123" || got.EventRef != "evt_1" || got.Method != models.MethodStripe {
		t.Fatalf("payment input = %+v", got)
	}

	res, err = svc.HandleEvent(ctx, event("evt_1", "payment_intent.succeeded", succeeded))
	if err != nil || res.Outcome != OutcomeDuplicate {
		t.Fatalf("redelivery = %+v, %v", res, err)
	}

	failed := `{"id":"pi_123","object":"payment_intent","metadata":{"appointment_id":"a1"}}`
	res, err = svc.HandleEvent(ctx, event("evt_2", "payment_intent.payment_failed", failed))
	if err != nil || res.Outcome != OutcomeIgnored || appts.appts["a1"].Payment.Status != models.PaymentPaid {
		t.Fatalf("late failure must not overwrite paid: %+v, %v", res, err)
	}

	res, err = svc.HandleEvent(ctx, event("evt_3", "payment_intent.succeeded", `{"id":"pi_9","object":"payment_intent","metadata":{}}`))
	if err != nil || res.Outcome != OutcomeIgnored {
		t.Fatalf("missing metadata = %+v, %v", res, err)
	}

	appts.appts["a2"] = &models.Appointment{
		ID:      "a2",
		Client:  models.ClientSnapshot{ID: "c1"},
		Status:  models.StatusConfirmed,
		Payment: models.Payment{Status: models.PaymentPending, Currency: "usd", TotalPrice: 180},
	}
	appts.intents["a2"] = "pi_77"
	res, err = svc.HandleEvent(ctx, event("evt_5", "payment_intent.succeeded", `{"id":"pi_77","object":"payment_intent","metadata":{}}`))
	if err != nil || res.Outcome != OutcomeProcessed || res.AppointmentID != "a2" {
		t.Fatalf("lookup by intent id = %+v, %v", res, err)
	}
	if appts.appts["a2"].Payment.Status != models.PaymentPaid {
		t.Fatalf("a2 payment = %s, want paid", appts.appts["a2"].Payment.Status)
	}

	res, err = svc.HandleEvent(ctx, event("evt_4", "charge.refunded", `{}`))
	if err != nil || res.Outcome != OutcomeIgnored {
		t.Fatalf("other event = %+v, %v", res, err)
	}
}
