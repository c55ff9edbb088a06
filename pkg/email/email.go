// Package email delivers shop notifications over SMTP.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when SMTP_HOST is empty.
var ErrNotConfigured = errors.New("email: SMTP is not configured")

// Config holds SMTP settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	AppName      string
	// ResetURL is the dashboard page that accepts ?token= for a reset.
	ResetURL string
}

// WarningMessage is the content of a warning notice sent to a shop.
type WarningMessage struct {
	ShopName    string
	OwnerName   string
	Title       string
	Message     string
	BillNumbers []string
	IssuedAt    time.Time
}

// Sender sends warning notices and password reset links.
type Sender interface {
	SendWarning(ctx context.Context, to string, msg WarningMessage) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service sends HTML mail through an SMTP relay.
type Service struct {
	config   Config
	tmpl     *template.Template
	reset    *template.Template
	sendMail sendMailFunc
}

// NewService parses the templates once; it panics only on a broken
// built-in template.
func NewService(config Config) *Service {
	if config.AppName == "" {
		config.AppName = "ShopDesk"
	}
	return &Service{
		config:   config,
		tmpl:     template.Must(template.New("warning").Parse(warningTemplate)),
		reset:    template.Must(template.New("reset").Parse(resetTemplate)),
		sendMail: smtp.SendMail,
	}
}

// IsConfigured reports whether an SMTP host is set.
func (s *Service) IsConfigured() bool {
	return s.config.SMTPHost != ""
}

// SendWarning renders and sends a warning notice to one recipient.
func (s *Service) SendWarning(ctx context.Context, to string, msg WarningMessage) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.renderWarning(msg)
	if err != nil {
		return fmt.Errorf("email: render warning: %w", err)
	}
	subject := fmt.Sprintf("%s - %s", s.config.AppName, msg.Title)
	return s.send(to, s.buildHTMLEmail(to, subject, body))
}

// SendPasswordReset mails a single-use reset link built from ResetURL.
func (s *Service) SendPasswordReset(ctx context.Context, to, name, token string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	link, err := resetLink(s.config.ResetURL, token)
	if err != nil {
		return fmt.Errorf("email: reset link: %w", err)
	}
	data := struct {
		Name    string
		Link    string
		AppName string
	}{Name: name, Link: link, AppName: s.config.AppName}

	var buf bytes.Buffer
	if err := s.reset.Execute(&buf, data); err != nil {
		return fmt.Errorf("email: render reset: %w", err)
	}
	subject := fmt.Sprintf("%s - Reset your password", s.config.AppName)
	return s.send(to, s.buildHTMLEmail(to, subject, buf.String()))
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Service) send(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}
	if err := s.sendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}

func (s *Service) buildHTMLEmail(to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *Service) renderWarning(msg WarningMessage) (string, error) {
	data := struct {
		WarningMessage
		AppName string
		Date    string
	}{
		WarningMessage: msg,
		AppName:        s.config.AppName,
		Date:           msg.IssuedAt.Format("02 Jan 2006"),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const warningTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #b45309;">{{.Title}}</h2>
    <p>Dear {{if .OwnerName}}{{.OwnerName}}{{else}}{{.ShopName}}{{end}},</p>
    <p style="white-space: pre-line;">{{.Message}}</p>
    {{if .BillNumbers}}
    <p>This notice concerns the following bills:</p>
    <ul>
        {{range .BillNumbers}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
    <p style="font-size: 12px; color: #888;">Issued {{.Date}} by {{.AppName}} for {{.ShopName}}.</p>
</body>
</html>
`

const resetTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Reset your password</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Reset your password</h2>
    <p>Hello {{.Name}},</p>
    <p>A password reset was requested for your {{.AppName}} account. The link below is valid for one hour.</p>
    <p><a href="{{.Link}}" style="background: #2563eb; color: #fff; padding: 10px 18px; text-decoration: none; border-radius: 4px;">Choose a new password</a></p>
    <p style="font-size: 12px; color: #888;">If you did not ask for this, you can ignore this email.</p>
</body>
</html>
`
