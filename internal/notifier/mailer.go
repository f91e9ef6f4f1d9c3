package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"
)

// Mailer builds the portal's standard emails and hands them to a Notifier.
// Keeping templates here means the business modules only deal with typed
// send calls.
type Mailer struct {
	notifier Notifier
	clubName string
	baseURL  string
}

func NewMailer(n Notifier, clubName, baseURL string) *Mailer {
	return &Mailer{
		notifier: n,
		clubName: clubName,
		baseURL:  baseURL,
	}
}

var credentialsTmpl = template.Must(template.New("credentials").Parse(`<html><body>
<h2>Welcome to {{.ClubName}} Recruitment Portal</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Your account has been created. Use the credentials below to sign in and book your interview slot:</p>
<p>Email: <strong>{{.Email}}</strong><br>Temporary password: <strong>{{.Password}}</strong></p>
<p><a href="{{.LoginURL}}">Sign in</a> and change your password after first login.</p>
</body></html>`))

var bookingConfirmationTmpl = template.Must(template.New("booking").Parse(`<html><body>
<h2>Interview Slot Confirmed - {{.ClubName}}</h2>
<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Your interview has been scheduled for:</p>
<p><strong>{{.Date}}</strong><br>{{.TimeRange}}</p>
<p>If you need to change it, cancel the booking in the portal and pick a different slot.</p>
</body></html>`))

var announcementTmpl = template.Must(template.New("announcement").Parse(`<html><body>
<h2>{{.Title}}</h2>
<p>{{.Content}}</p>
<p>— {{.ClubName}} Recruitment Team</p>
</body></html>`))

// SendCredentials emails a freshly registered candidate their generated password.
func (m *Mailer) SendCredentials(ctx context.Context, name, email, password string) error {
	var body bytes.Buffer
	err := credentialsTmpl.Execute(&body, map[string]string{
		"ClubName": m.clubName,
		"Name":     name,
		"Email":    email,
		"Password": password,
		"LoginURL": m.baseURL + "/auth/login",
	})
	if err != nil {
		return fmt.Errorf("render credentials email failed: %w", err)
	}

	return m.notifier.Send(ctx, Email{
		To:      []string{email},
		Subject: fmt.Sprintf("Welcome to %s Recruitment Portal", m.clubName),
		HTML:    body.String(),
		Text:    fmt.Sprintf("Your %s recruitment portal password: %s", m.clubName, password),
	})
}

// SendBookingConfirmation emails a candidate after a successful reservation.
func (m *Mailer) SendBookingConfirmation(ctx context.Context, name, email string, date time.Time, start, end time.Time) error {
	var body bytes.Buffer
	err := bookingConfirmationTmpl.Execute(&body, map[string]string{
		"ClubName":  m.clubName,
		"Name":      name,
		"Date":      date.Format("Monday, January 2, 2006"),
		"TimeRange": fmt.Sprintf("%s - %s", start.Format("3:04 PM"), end.Format("3:04 PM")),
	})
	if err != nil {
		return fmt.Errorf("render booking confirmation failed: %w", err)
	}

	return m.notifier.Send(ctx, Email{
		To:      []string{email},
		Subject: fmt.Sprintf("Interview Slot Confirmed - %s", m.clubName),
		HTML:    body.String(),
	})
}

// SendAnnouncement emails an announcement to the given recipients.
func (m *Mailer) SendAnnouncement(ctx context.Context, recipients []string, title, content string) error {
	var body bytes.Buffer
	err := announcementTmpl.Execute(&body, map[string]string{
		"ClubName": m.clubName,
		"Title":    title,
		"Content":  content,
	})
	if err != nil {
		return fmt.Errorf("render announcement failed: %w", err)
	}

	return m.notifier.Send(ctx, Email{
		To:      recipients,
		Subject: fmt.Sprintf("New Announcement: %s - %s", title, m.clubName),
		HTML:    body.String(),
	})
}
