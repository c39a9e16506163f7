package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// ExplanationEvent is the compact message published after each successful
// explanation. Downstream consumers re-fetch the full explanation if needed.
type ExplanationEvent struct {
	TxHash        string    `json:"tx_hash"`
	RiskLevel     string    `json:"risk_level"`
	Category      string    `json:"category"`
	GasEfficiency string    `json:"gas_efficiency"`
	Degraded      bool      `json:"degraded"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// NATSPublisher publishes explanation events. When disabled or disconnected
// it is a no-op; event delivery is best effort and never fails a request.
type NATSPublisher struct {
	conn   *nats.Conn
	config *config.NATSConfig
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(cfg *config.NATSConfig, logger *logger.Logger) *NATSPublisher {
	return &NATSPublisher{
		config: cfg,
		logger: logger.WithComponent("nats-publisher"),
	}
}

// Connect connects to the NATS server
func (p *NATSPublisher) Connect(ctx context.Context) error {
	if !p.config.Enabled {
		p.logger.Info("NATS is disabled, skipping connection")
		return nil
	}

	p.logger.Info("Connecting to NATS server", zap.String("url", p.config.URL))

	opts := []nats.Option{
		nats.Name("tx-explainer"),
		nats.Timeout(p.config.ConnectTimeout),
		nats.ReconnectWait(p.config.ReconnectDelay),
		nats.MaxReconnects(p.config.ReconnectAttempts),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			p.logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			p.logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(p.config.URL, opts...)
	if err != nil {
		p.logger.Error("Failed to connect to NATS", zap.Error(err))
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p.conn = conn
	p.logger.Info("Successfully connected to NATS")
	return nil
}

// Close drains and closes the NATS connection
func (p *NATSPublisher) Close(ctx context.Context) error {
	if p.conn == nil {
		return nil
	}
	p.logger.Info("Closing NATS connection")
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}

// PublishExplanation publishes an event for a completed explanation
func (p *NATSPublisher) PublishExplanation(ctx context.Context, result *entity.ExplanationResult) {
	if !p.config.Enabled || p.conn == nil {
		return
	}

	event := ExplanationEvent{
		TxHash:        result.TxHash,
		RiskLevel:     string(result.FraudAnalysis.RiskLevel),
		Category:      result.Classification.Category,
		GasEfficiency: string(result.GasAnalysis.Efficiency),
		Degraded:      !result.FraudAnalysis.Available || !result.GasAnalysis.Available || !result.Classification.Available,
		GeneratedAt:   result.GeneratedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal explanation event", zap.Error(err))
		return
	}

	if err := p.conn.Publish(p.config.Subject, payload); err != nil {
		p.logger.Warn("Failed to publish explanation event",
			zap.String("tx_hash", result.TxHash),
			zap.Error(err))
		return
	}

	p.logger.Debug("Published explanation event",
		zap.String("tx_hash", result.TxHash),
		zap.String("subject", p.config.Subject))
}
