// Package notify provides Notifier implementations for the dispatch
// loop: structured-log delivery for headless runs and Telegram
// delivery for actual notifications.
package notify

import (
	"go.uber.org/zap"

	"github.com/zamanak-app/zamanak/internal/domain"
	"github.com/zamanak-app/zamanak/internal/jalali"
)

// LogNotifier writes reminders to the structured log. Useful as a
// default when no delivery channel is configured, and in tests.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(r *domain.Reminder, resolvedTitle string) error {
	n.log.Info("reminder due",
		zap.String("title", resolvedTitle),
		zap.String("source_type", string(r.SourceType)),
		zap.String("fire_time", r.FireTime.Format("2006-01-02 15:04")),
		zap.String("jalali_date", jalali.FromTime(r.FireTime).String()))
	return nil
}
