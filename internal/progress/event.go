package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart    Stage = "RUN_START"
	StagePageFetched Stage = "PAGE_FETCHED"
	StagePageParsed  Stage = "PAGE_PARSED"
	StageRunDone     Stage = "RUN_DONE"
	StageRunError    Stage = "RUN_ERROR"
)

// Event captures a single milestone of scrape progress.
type Event struct {
	// RunID uniquely identifies a scrape run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which run or page milestone occurred.
	Stage Stage
	// Page is the 1-based listing page number for page-scoped stages.
	Page int
	// URL is the page URL for page-scoped stages.
	URL string
	// StatusCode is the HTTP status observed by the fetch.
	StatusCode int
	// Bytes carries the response body size for the fetch.
	Bytes int64
	// Items counts the records extracted from a page, or the run total on
	// RUN_DONE.
	Items int
	// Dur captures fetch latency on page stages and run wall time on
	// terminal stages.
	Dur time.Duration
	// Note lets emitters attach low-volume context such as error text.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StagePageFetched:
		if e.Page < 1 {
			return errors.New("page fetched requires a page number")
		}
		if e.StatusCode == 0 {
			return errors.New("page fetched requires a status code")
		}
	case StagePageParsed:
		if e.Page < 1 {
			return errors.New("page parsed requires a page number")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	if e.Bytes < 0 {
		return errors.New("bytes must be >= 0")
	}
	if e.Items < 0 {
		return errors.New("item count must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID form.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
