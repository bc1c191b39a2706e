package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a rendered message over one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// EmailSender sends HTML email through SendGrid.
type EmailSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailSender(apiKey, fromAddress, fromName string) *EmailSender {
	return &EmailSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	to := mail.NewEmail(msg.Name, msg.To)
	m := mail.NewSingleEmail(s.from, msg.Subject, to, msg.Text, msg.HTML)
	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SMSSender sends text messages through Twilio.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(accountSID, authToken, from string) *SMSSender {
	return &SMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *SMSSender) Send(_ context.Context, msg Message) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Text)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSender sends FCM notifications; msg.To is the device token.
type PushSender struct {
	client fcmClient
}

func NewPushSender(client *messaging.Client) *PushSender {
	return &PushSender{client: client}
}

func (s *PushSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: msg.To,
		Notification: &messaging.Notification{
			Title: msg.Subject,
			Body:  msg.Text,
		},
		Data: msg.Data,
	})
	if err != nil {
		return fmt.Errorf("fcm: %w", err)
	}
	return nil
}
