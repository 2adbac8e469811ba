package notify

import (
	"context"

	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
)

// LogOnly records notifications in the log instead of publishing them. It is
// used when no notifications topic is configured.
type LogOnly struct {
	logger logx.Logger
}

// NewLogOnly returns a LogOnly notifier.
func NewLogOnly(logger logx.Logger) *LogOnly {
	return &LogOnly{logger: logger}
}

// Notify logs n at debug level.
func (l *LogOnly) Notify(_ context.Context, n domain.Notification) error {
	l.logger.Debug("notification",
		logx.String("kind", string(n.Kind)),
		logx.String("recipient_id", n.RecipientID),
		logx.String("job_id", n.JobID.String()),
	)
	return nil
}
