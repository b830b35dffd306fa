package impl

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"

	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const productName = "Reach CRM"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type emailData struct {
	Name    string
	URL     string
	Product string
}

var _ service.EmailService = (*SMTPEmailService)(nil)

// SMTPEmailService renders the HTML templates and delivers one message per
// call over a fresh SMTP connection.
type SMTPEmailService struct {
	cfg SMTPConfig
}

func NewSMTPEmailService(cfg SMTPConfig) (*SMTPEmailService, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = mail.DefaultPortTLS
	}
	return &SMTPEmailService{cfg: cfg}, nil
}

func (s *SMTPEmailService) SendActivation(ctx context.Context, to, name, activateURL string) error {
	return s.send(ctx, "activation", to, "Activate Your Account", "activation.html", emailData{Name: name, URL: activateURL, Product: productName})
}

func (s *SMTPEmailService) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return s.send(ctx, "password_reset", to, "Reset Your Password", "reset_password.html", emailData{Name: name, URL: resetURL, Product: productName})
}

func (s *SMTPEmailService) send(ctx context.Context, kind, to, subject, tmpl string, data emailData) error {
	if to == "" {
		return fmt.Errorf("send %s email: no recipient", kind)
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("send %s email: from: %w", kind, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("send %s email: to: %w", kind, err)
	}
	msg.Subject(subject)
	if err := msg.SetBodyHTMLTemplate(emailTemplates.Lookup(tmpl), data); err != nil {
		return fmt.Errorf("send %s email: render: %w", kind, err)
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("send %s email: client: %w", kind, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send %s email: deliver: %w", kind, err)
	}
	return nil
}

func (s *SMTPEmailService) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

var _ service.EmailService = (*LogEmailService)(nil)

// LogEmailService writes the link to the log instead of mailing it. Used when
// no SMTP host is configured.
type LogEmailService struct{}

func (LogEmailService) SendActivation(ctx context.Context, to, name, activateURL string) error {
	slog.Info("activation email (not sent)", "to", to, "url", activateURL)
	return nil
}

func (LogEmailService) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	slog.Info("password reset email (not sent)", "to", to, "url", resetURL)
	return nil
}
