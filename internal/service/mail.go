package service

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kejiahp/QRcode-event-manager/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:embed templates/mail/*.html
var mailFS embed.FS

var mailTemplates = template.Must(template.ParseFS(mailFS, "templates/mail/*.html"))

// Mailer delivers a rendered HTML email. Sending is synchronous and errors
// are returned to the caller as is
type Mailer interface {
	Send(to, subject, html string) error
}

type SMTPMailer struct {
	from   string
	name   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(c config.MailConfig) *SMTPMailer {
	d := gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	d.SSL = c.SSL

	return &SMTPMailer{
		from:   c.FromEmail,
		name:   c.FromName,
		dialer: d,
	}
}

func (s *SMTPMailer) Send(to, subject, html string) error {
	if strings.EqualFold(to, s.from) {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}

	zap.L().Debug("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type invitationMail struct {
	Fullname             string
	QRCodeImgURL         string
	EventName            string
	OrganiserName        string
	OrganiserContactInfo string
}

func renderInvitationMail(d invitationMail) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, "event_invitation_mail.html", d); err != nil {
		return "", "", fmt.Errorf("failed to render invitation mail, %w", err)
	}

	return fmt.Sprintf("✨✨Your Exclusive Invitation to %s✨✨", d.EventName), buf.String(), nil
}

func renderPasswordResetMail(link string, ttl time.Duration) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, "reset_password_mail.html", map[string]any{
		"PasswordResetLink": link,
		"ExpiresIn":         humanDuration(ttl),
	}); err != nil {
		return "", "", fmt.Errorf("failed to render password reset mail, %w", err)
	}

	return "Password Reset Request", buf.String(), nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		if d < 2*time.Minute {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
