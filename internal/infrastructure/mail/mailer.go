package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/kaspiwatch/backend/internal/domain"
	gomail "gopkg.in/gomail.v2"
)

// Config holds the SMTP relay settings
type Config struct {
	Host     string
	Port     int
	From     string
	To       string
	Password string
}

// Mailer sends in-stock notifications over an authenticated SMTP session.
// Every failure is reported through the outcome; Notify never returns an error.
type Mailer struct {
	cfg  Config
	send func(*gomail.Message) (string, error)
}

// NewMailer creates a mailer for the given SMTP settings.
func NewMailer(cfg Config) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = m.dialAndSend
	return m
}

// dialAndSend opens the SMTP session and transmits the message. The returned
// string distinguishes which step failed for the outcome detail.
func (m *Mailer) dialAndSend(msg *gomail.Message) (string, error) {
	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.From, m.cfg.Password)
	d.SSL = m.cfg.Port == 465

	sender, err := d.Dial()
	if err != nil {
		return "authentication failed", err
	}
	defer sender.Close()

	if err := gomail.Send(sender, msg); err != nil {
		return "transmission failed", err
	}
	return "", nil
}

// Notify composes and sends the two-part notification message.
func (m *Mailer) Notify(snapshot *domain.ProductSnapshot, target domain.TargetSpec) domain.NotificationOutcome {
	if m.cfg.From == "" || m.cfg.To == "" || m.cfg.Password == "" {
		return domain.NotificationOutcome{Sent: false, Detail: "mail settings not configured"}
	}

	msg, err := m.compose(snapshot, target)
	if err != nil {
		return domain.NotificationOutcome{Sent: false, Detail: fmt.Sprintf("failed to compose message: %v", err)}
	}

	if step, err := m.send(msg); err != nil {
		return domain.NotificationOutcome{Sent: false, Detail: fmt.Sprintf("%s: %v", step, err)}
	}

	return domain.NotificationOutcome{Sent: true, Detail: fmt.Sprintf("email sent to %s", m.cfg.To)}
}

const notificationSubject = "Product is back in stock!"

// htmlBodyTmpl renders the rich part of the message with a link back to the listing
var htmlBodyTmpl = template.Must(template.New("notification").Parse(`<html>
  <body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2 style="color: #4CAF50;">{{.Subject}}</h2>
    <p style="font-size: 16px; line-height: 1.6;">
      Product "{{.Name}}" is available again.<br>
      Price: {{.Price}}
    </p>
    <hr style="margin: 20px 0;">
    <p>
      <a href="{{.URL}}"
         style="background-color: #4CAF50; color: white; padding: 12px 24px;
                text-decoration: none; border-radius: 5px; display: inline-block;">
        Open product page
      </a>
    </p>
  </body>
</html>`))

// compose builds the plain-text and HTML alternative bodies.
func (m *Mailer) compose(snapshot *domain.ProductSnapshot, target domain.TargetSpec) (*gomail.Message, error) {
	plain := fmt.Sprintf("Product %q is available again!\n\nPrice: %s\n\nLink: %s",
		snapshot.Name, snapshot.PriceLabel(), target.URL)

	var html bytes.Buffer
	err := htmlBodyTmpl.Execute(&html, struct {
		Subject string
		Name    string
		Price   string
		URL     string
	}{
		Subject: notificationSubject,
		Name:    snapshot.Name,
		Price:   snapshot.PriceLabel(),
		URL:     target.URL,
	})
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", notificationSubject)
	msg.SetBody("text/plain", plain)
	msg.AddAlternative("text/html", html.String())
	return msg, nil
}
