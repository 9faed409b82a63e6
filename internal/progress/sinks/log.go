package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/bookscrape/bookscrape/internal/progress"
)

// LogSink emits structured logs for debugging progress streams. It is useful
// during development or when no metrics endpoint is exposed.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Record logs the event using structured fields.
func (s *LogSink) Record(_ context.Context, evt progress.Event) error {
	s.logger.Info("progress event",
		zap.String("run_id", evt.RunUUID().String()),
		zap.String("stage", string(evt.Stage)),
		zap.Int("page", evt.Page),
		zap.String("url", evt.URL),
		zap.Int("status", evt.StatusCode),
		zap.Int64("bytes", evt.Bytes),
		zap.Int("items", evt.Items),
		zap.Duration("dur", evt.Dur),
		zap.String("note", evt.Note),
	)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
