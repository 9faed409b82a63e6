package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordingSink collects events and optionally fails.
type recordingSink struct {
	events    []Event
	recordErr error
	closeErr  error
	closed    bool
}

func (s *recordingSink) Record(_ context.Context, evt Event) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *recordingSink) Close(context.Context) error {
	s.closed = true
	return s.closeErr
}

func TestHubDeliversToAllSinks(t *testing.T) {
	t.Parallel()

	first := &recordingSink{}
	second := &recordingSink{}
	hub := NewHub(nil, first, second)

	evt := Event{RunID: UUIDToBytes(uuid.New()), TS: time.Now(), Stage: StageRunStart}
	hub.Emit(context.Background(), evt)

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, evt, first.events[0])
}

func TestHubDiscardsInvalidEvents(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	hub := NewHub(nil, sink)

	hub.Emit(context.Background(), Event{Stage: StageRunStart})
	assert.Empty(t, sink.events)
}

func TestHubSinkFailureDoesNotStarveLaterSinks(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	failing := &recordingSink{recordErr: errors.New("sink unavailable")}
	healthy := &recordingSink{}
	hub := NewHub(zap.New(core), failing, healthy)

	hub.Emit(context.Background(), Event{RunID: UUIDToBytes(uuid.New()), TS: time.Now(), Stage: StageRunStart})

	require.Len(t, healthy.events, 1)
	require.Equal(t, 1, logs.FilterMessage("progress sink record failed").Len())
}

func TestHubCloseReportsFirstFailure(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("flush failed")
	first := &recordingSink{closeErr: closeErr}
	second := &recordingSink{}
	hub := NewHub(nil, first, second)

	err := hub.Close(context.Background())
	require.ErrorIs(t, err, closeErr)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestNilHubIsSafe(t *testing.T) {
	t.Parallel()

	var hub *Hub
	hub.Emit(context.Background(), Event{})
	require.NoError(t, hub.Close(context.Background()))
}
