// Package progress provides the event primitives, fan-out hub, and emitter
// interfaces that the scrape pipeline uses to report run milestones. The
// pipeline is strictly sequential, so the hub delivers each event to its
// sinks synchronously and in emit order.
package progress
