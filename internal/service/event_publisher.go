package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, event model.AnalysisCompletedEvent) error
	Close()
}

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

// NewEventPublisher connects to NATS, or returns a publisher that drops
// events when no URL is configured.
func NewEventPublisher(cfg *config.NATSConfig, log *zap.Logger) (EventPublisher, error) {
	log = logger.OrNop(log)
	if cfg.URL == "" {
		log.Info("NATS_URL not set, analysis events disabled")
		return NopPublisher{}, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(cfg.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return &natsPublisher{conn: conn, subject: cfg.Subject, log: log}, nil
}

func (p *natsPublisher) PublishAnalysisCompleted(_ context.Context, event model.AnalysisCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}
	p.log.Debug("published analysis event",
		zap.String("session_id", event.SessionID),
		zap.String("subject", p.subject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type NopPublisher struct{}

func (NopPublisher) PublishAnalysisCompleted(context.Context, model.AnalysisCompletedEvent) error {
	return nil
}

func (NopPublisher) Close() {}
