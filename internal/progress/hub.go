package progress

import (
	"context"

	"go.uber.org/zap"
)

// Hub fans events out to its sinks in emit order. Delivery is synchronous;
// a sink failure is logged and never aborts the run or starves later sinks.
type Hub struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewHub builds a Hub over the supplied sinks. The returned Hub is
// immediately ready to accept events.
func NewHub(logger *zap.Logger, sinks ...Sink) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sinks:  append([]Sink(nil), sinks...),
		logger: logger,
	}
}

// Emit validates evt and delivers it to every sink. Invalid events are
// discarded with a debug log.
func (h *Hub) Emit(ctx context.Context, evt Event) {
	if h == nil {
		return
	}
	if err := evt.Validate(); err != nil {
		h.logger.Debug("discarding invalid progress event", zap.Error(err))
		return
	}
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, evt); err != nil {
			h.logger.Warn("progress sink record failed",
				zap.String("stage", string(evt.Stage)),
				zap.Error(err),
			)
		}
	}
}

// Close closes every sink and reports the first failure. It is safe to call
// on a nil Hub.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	var firstErr error
	for _, sink := range h.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
