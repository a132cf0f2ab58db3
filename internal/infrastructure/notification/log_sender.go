package notification

import (
	"context"

	"go.uber.org/zap"

	appnotification "github.com/keepselvesreal/k-beauty-landing-page/internal/application/notification"
)

// LogSender is an EmailSender that only logs. Used in development and when
// email delivery is disabled in config.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger.Named("email")}
}

// Send logs the email instead of delivering it
func (s *LogSender) Send(_ context.Context, customerID, subject, body string) error {
	s.logger.Info("email (log only)",
		zap.String("customer_id", customerID),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

var _ appnotification.EmailSender = (*LogSender)(nil)
