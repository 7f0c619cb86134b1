// Package notify delivers digest messages to their readers.
package notify

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// LogNotifier writes messages to the structured log. It is the fallback when no
// messaging channel is configured.
type LogNotifier struct {
	logger log.FieldLogger
}

func NewLogNotifier(logger log.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg digest.Message) error {
	n.logger.WithFields(log.Fields{
		"component": "notify",
		"type":      msg.Type,
		"title":     msg.Title,
	}).Info(msg.Text)
	return nil
}
