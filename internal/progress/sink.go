package progress

import "context"

// Sink consumes individual progress events. Implementations must be safe for
// repeated calls and should honor ctx deadlines.
type Sink interface {
	Record(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events; Hub satisfies this interface so the
// pipeline can remain agnostic about which sinks are attached.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}
