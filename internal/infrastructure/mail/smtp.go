package mail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender delivers through an SMTP relay, upgrading to STARTTLS when the
// server offers it.
type SMTPSender struct {
	cfg  SMTPConfig
	lg   zerolog.Logger
	opts []gomail.Option

	// dial is replaced in tests.
	dial func(ctx context.Context, host string, opts []gomail.Option, m *gomail.Msg) error
}

func NewSMTPSender(cfg SMTPConfig, lg zerolog.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("MAIL_SERVER is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("MAIL_FROM is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	return &SMTPSender{
		cfg:  cfg,
		lg:   lg.With().Str("component", "smtp_sender").Logger(),
		opts: opts,
		dial: dialAndSend,
	}, nil
}

func dialAndSend(ctx context.Context, host string, opts []gomail.Option, m *gomail.Msg) error {
	c, err := gomail.NewClient(host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client init: %w", err)
	}
	return c.DialAndSendWithContext(ctx, m)
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}

	if err := s.dial(ctx, s.cfg.Host, s.opts, msg); err != nil {
		s.lg.Error().Err(err).Str("host", s.cfg.Host).Msg("smtp send failed")
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	var err error
	if s.cfg.FromName != "" {
		err = msg.FromFormat(s.cfg.FromName, s.cfg.From)
	} else {
		err = msg.From(s.cfg.From)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, m.HTMLBody)
	return msg, nil
}

func (s *SMTPSender) Name() string { return "smtp" }
