// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// Config describes the SMTP relay.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	AppName  string
}

// SendFunc matches smtp.SendMail so tests can capture outgoing mail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends sign-in links.
type Mailer struct {
	cfg  Config
	send SendFunc
}

// New returns a Mailer that delivers through smtp.SendMail.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host cannot be empty")
	}
	if cfg.From == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// WithSendFunc replaces the transport.
func (m *Mailer) WithSendFunc(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

var signInTemplate = template.Must(template.New("signin").Parse(
	`<p>Click the link below to sign in to {{.AppName}}:</p>` +
		`<p><a href="{{.Link}}">Sign in to {{.AppName}}</a></p>` +
		`<p>If you did not request this email you can ignore it.</p>`))

// SendSignInLink emails a one-time sign-in link.
func (m *Mailer) SendSignInLink(ctx context.Context, recipient, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body strings.Builder
	if err := signInTemplate.Execute(&body, struct{ AppName, Link string }{m.appName(), link}); err != nil {
		return fmt.Errorf("render sign-in email: %w", err)
	}
	return m.SendEmail(recipient, "Your sign-in link", body.String())
}

func (m *Mailer) appName() string {
	if m.cfg.AppName != "" {
		return m.cfg.AppName
	}
	return "Arctic Homeowner Portal"
}

// SendEmail sends an HTML email.
func (m *Mailer) SendEmail(recipient, subject, htmlBody string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if strings.ContainsAny(recipient, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("email headers cannot contain line breaks")
	}

	message := []byte("To: " + recipient + "\r\n" +
		"From: " + m.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		htmlBody + "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.From, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
