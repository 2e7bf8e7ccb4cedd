package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	a11y "github.com/richardissailing/PyAccessibility"
)

// SMTPConfig holds delivery settings for emailed reports.
type SMTPConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// Validate checks the config has the fields delivery needs.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("smtp host is required")
	}
	if c.From == "" {
		return errors.New("smtp from address is required")
	}
	if len(c.To) == 0 {
		return errors.New("at least one recipient is required")
	}
	return nil
}

// Mailer sends rendered reports over SMTP.
type Mailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewMailer validates the config and creates a Mailer.
func NewMailer(cfg SMTPConfig, logger *slog.Logger) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, a11y.NewConfigurationError("report.NewMailer", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, logger: logger}, nil
}

// Send renders the report as HTML and delivers it to the configured
// recipients.
func (m *Mailer) Send(ctx context.Context, r *Report) error {
	msg, err := m.buildMessage(r)
	if err != nil {
		return err
	}

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return a11y.NewConfigurationError("Mailer.Send", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &a11y.Error{
			Op:      "Mailer.Send",
			Kind:    a11y.KindNetwork,
			Err:     err,
			Context: map[string]any{"host": m.cfg.Host},
		}
	}

	m.logger.Info("report emailed", "recipients", len(m.cfg.To), "url", r.URL)
	return nil
}

// buildMessage assembles the email without dialing anything.
func (m *Mailer) buildMessage(r *Report) (*mail.Msg, error) {
	body, err := RenderString(FormatHTML, r)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, a11y.NewConfigurationError("Mailer.Send", err)
	}
	if err := msg.To(m.cfg.To...); err != nil {
		return nil, a11y.NewConfigurationError("Mailer.Send", err)
	}

	subject := fmt.Sprintf("Accessibility report: score %.1f", r.Result.Score)
	if r.URL != "" {
		subject = fmt.Sprintf("Accessibility report for %s: score %.1f", r.URL, r.Result.Score)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	alt, err := RenderString(FormatText, r)
	if err != nil {
		return nil, err
	}
	msg.AddAlternativeString(mail.TypeTextPlain, alt)

	raw, err := RenderString(FormatJSON, r)
	if err != nil {
		return nil, err
	}
	if err := msg.AttachReader("report.json", strings.NewReader(raw)); err != nil {
		return nil, a11y.NewInternalError("Mailer.Send", err)
	}

	return msg, nil
}
