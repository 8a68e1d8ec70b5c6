// Package metrics defines the observability hooks for directive dispatch,
// page rendering and index maintenance.
package metrics

import "time"

// Recorder defines observability hooks for render and index metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe for nil receivers when using the NoopRecorder (allowing
// optional injection).
type Recorder interface {
	IncDirective(name string)
	IncLinkEmitted(directive string)
	IncLinkSuppressed(directive string)
	IncExistenceCheckFailed()
	ObservePageRenderDuration(d time.Duration)
	ObserveIndexRebuildDuration(d time.Duration)
	SetIndexedPages(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDirective(string)                      {}
func (NoopRecorder) IncLinkEmitted(string)                    {}
func (NoopRecorder) IncLinkSuppressed(string)                 {}
func (NoopRecorder) IncExistenceCheckFailed()                 {}
func (NoopRecorder) ObservePageRenderDuration(time.Duration)  {}
func (NoopRecorder) ObserveIndexRebuildDuration(time.Duration) {}
func (NoopRecorder) SetIndexedPages(int)                      {}
