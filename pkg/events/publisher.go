package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// SearchCompletedSubject carries one message per finished search
const SearchCompletedSubject = "jobs.search.completed"

var tracer = otel.Tracer("github.com/honeycarbs/company-hunter/pkg/events")

var _ job.Publisher = (*Publisher)(nil)

// Config configures the NATS connection
type Config struct {
	URL         string
	ConnTimeout time.Duration
	Subject     string
}

// conn is the part of *nats.Conn used for publishing
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher sends search events to NATS
type Publisher struct {
	conn    conn
	subject string
	logger  *logging.Logger
}

// NewPublisher connects to NATS, reconnecting forever in the background
func NewPublisher(cfg Config, logger *logging.Logger) (*Publisher, error) {
	timeout := cfg.ConnTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("company-hunter"),
		nats.Timeout(timeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect to %s: %w", cfg.URL, err)
	}

	return newPublisher(nc, cfg.Subject, logger), nil
}

func newPublisher(c conn, subject string, logger *logging.Logger) *Publisher {
	if subject == "" {
		subject = SearchCompletedSubject
	}
	return &Publisher{
		conn:    c,
		subject: subject,
		logger:  logging.OrNop(logger).Named("events"),
	}
}

func (p *Publisher) PublishSearchCompleted(ctx context.Context, event job.SearchCompleted) error {
	_, span := tracer.Start(ctx, "events.publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("events: marshal search %s: %w", event.SearchID, err)
	}

	span.SetAttributes(
		attribute.String("messaging.destination", p.subject),
		attribute.Int("messaging.message.size", len(data)),
	)

	if err := p.conn.Publish(p.subject, data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("events: publish search %s: %w", event.SearchID, err)
	}

	p.logger.Debug("published search event", "search_id", event.SearchID, "subject", p.subject)
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
