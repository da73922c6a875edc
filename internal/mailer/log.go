package mailer

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// LogSender writes codes to the log instead of sending mail. Development only.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendResetCode(ctx context.Context, email, code string) error {
	s.log.Info(ctx, "password reset code", "email", email, "code", code)
	return nil
}
