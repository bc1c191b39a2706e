package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"lashstudio/models"
)

// Message is a rendered notification ready for a channel sender.
type Message struct {
	To      string
	Name    string
	Subject string
	Text    string
	HTML    string
	Data    map[string]string
}

var confirmationEmail = template.Must(template.New("confirmation").Parse(`<html>
<body>
	<h2>Appointment Confirmed!</h2>
	<p>Dear {{.Client}},</p>
	<p>Your appointment has been confirmed for:</p>
	<ul>
		<li><strong>Service:</strong> {{.Service}}</li>
		<li><strong>Date:</strong> {{.Date}}</li>
		<li><strong>Time:</strong> {{.Time}}</li>
	</ul>
	<p>We look forward to seeing you!</p>
	<p>Best regards,<br>Your Beauty Team</p>
</body>
</html>`))

var reminderEmail = template.Must(template.New("reminder").Parse(`<html>
<body>
	<h2>Appointment Reminder</h2>
	<p>Dear {{.Client}},</p>
	<p>This is a friendly reminder that you have an appointment in {{.Hours}} hours:</p>
	<ul>
		<li><strong>Service:</strong> {{.Service}}</li>
		<li><strong>Date:</strong> {{.Date}}</li>
		<li><strong>Time:</strong> {{.Time}}</li>
	</ul>
	<p>Please arrive 10 minutes early. If you need to reschedule, please contact us as soon as possible.</p>
	<p>Best regards,<br>Your Beauty Team</p>
</body>
</html>`))

type contentData struct {
	Client  string
	Service string
	Date    string
	Time    string
	Hours   int
}

// Render builds the message for entry. Reminders report the lead time of their
// type, except past-due ones, which report the real time left at now.
func Render(entry models.NotificationEntry, appt *models.Appointment, now time.Time) (Message, error) {
	loc := time.UTC
	if tz := appt.DateTime.Timezone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	local := appt.DateTime.Date.In(loc)
	clock := appt.DateTime.Time
	if clock == "" {
		clock = local.Format("15:04")
	}

	d := contentData{
		Client:  appt.Client.Name,
		Service: appt.Service.Name,
		Date:    local.Format("January 02, 2006"),
		Time:    clock,
	}
	msg := Message{
		Name: appt.Client.Name,
		Data: map[string]string{
			"appointmentId": appt.ID,
			"type":          entry.Type,
		},
	}

	var tmpl *template.Template
	switch {
	case entry.Type == models.NotificationConfirmation:
		tmpl = confirmationEmail
		msg.Subject = "Appointment Confirmation - " + d.Service
		msg.Text = fmt.Sprintf("Hi %s! Your %s appointment is confirmed for %s at %s. See you soon!", d.Client, d.Service, d.Date, d.Time)
	case strings.HasPrefix(entry.Type, "reminder_"):
		hours, err := reminderHours(entry, appt, now)
		if err != nil {
			return Message{}, err
		}
		d.Hours = hours
		tmpl = reminderEmail
		msg.Subject = "Reminder: Upcoming Appointment - " + d.Service
		msg.Text = fmt.Sprintf("Reminder: Your %s appointment is in %d hours on %s at %s. Please arrive 10 mins early!", d.Service, d.Hours, d.Date, d.Time)
	default:
		return Message{}, fmt.Errorf("unknown notification type %q", entry.Type)
	}

	if entry.Method == models.ChannelEmail {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, d); err != nil {
			return Message{}, fmt.Errorf("render %s email: %w", entry.Type, err)
		}
		msg.HTML = buf.String()
	}
	return msg, nil
}

func reminderHours(entry models.NotificationEntry, appt *models.Appointment, now time.Time) (int, error) {
	if entry.PastDue {
		left := appt.DateTime.Date.Sub(now).Hours()
		return int(math.Max(1, math.Ceil(left))), nil
	}
	var hours int
	if _, err := fmt.Sscanf(entry.Type, "reminder_%dh", &hours); err != nil {
		return 0, fmt.Errorf("bad reminder type %q: %w", entry.Type, err)
	}
	return hours, nil
}
