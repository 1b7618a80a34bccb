package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	lg zerolog.Logger
}

func NewLogSender(lg zerolog.Logger) *LogSender {
	return &LogSender{lg: lg}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.lg.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Str("body", m.HTMLBody).
		Msg("mail (log transport)")
	return nil
}

func (s *LogSender) Name() string { return "log" }
