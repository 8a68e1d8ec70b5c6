package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/linkonce/internal/config"
)

// NATSPublisher publishes page reports to a NATS subject as JSON.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to NATS using the events configuration.
func NewNATSPublisher(cfg config.EventsConfig) (*NATSPublisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized for link reports",
		"url", cfg.NATSURL,
		"subject", cfg.Subject)

	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishReport publishes a page report. A publish failure is returned to the
// caller but never fails the render itself; the pipeline logs and continues.
func (p *NATSPublisher) PublishReport(ctx context.Context, report *PageReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal page report: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish page report: %w", err)
	}

	slog.Debug("Published page report",
		"page", report.Page,
		"emitted", len(report.Emitted),
		"suppressed", len(report.Suppressed),
		"missing", len(report.MissingTargets))
	return nil
}

// Close flushes and closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Flush(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	p.conn.Close()
	return nil
}

// NewPublisher returns the configured Publisher: NATS when events are
// enabled, a no-op otherwise.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg)
}
