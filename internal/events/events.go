// Package events publishes per-page link reports for downstream consumers
// (e.g. dashboards flagging pages that reference missing targets).
package events

import (
	"context"
	"time"
)

// LinkRef identifies one deduplicated link occurrence.
type LinkRef struct {
	Target   string `json:"target"`
	Category string `json:"category,omitempty"`
}

// PageReport summarizes link resolution for one page render session.
type PageReport struct {
	Page      string    `json:"page"`       // source-relative page path
	Title     string    `json:"title"`      // wiki title of the page
	SessionID string    `json:"session_id"` // render session identifier
	Timestamp time.Time `json:"timestamp"`  // when the render finished

	// Outcomes
	Emitted        []LinkRef `json:"emitted,omitempty"`         // rendered as links
	Suppressed     []LinkRef `json:"suppressed,omitempty"`      // duplicates rendered as text
	MissingTargets []string  `json:"missing_targets,omitempty"` // failed the existence check
}

// Publisher delivers page reports. Implementations must tolerate being
// called from concurrent page renders.
type Publisher interface {
	PublishReport(ctx context.Context, report *PageReport) error
	Close() error
}

// NoopPublisher is a Publisher that drops every report (events disabled).
type NoopPublisher struct{}

func (NoopPublisher) PublishReport(context.Context, *PageReport) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }
