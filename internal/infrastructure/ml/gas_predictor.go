package ml

import (
	"context"
	"time"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// minPredictedGwei floors regression output; the chain never prices gas at zero
const minPredictedGwei = 1.0

// GasPredictor estimates a fair gas price in gwei with the linear gas model.
// The observed gas price is filled in by the orchestrator, which owns the
// transaction record.
type GasPredictor struct {
	basePredictor
}

// NewGasPredictor creates a gas-fee predictor backed by the registry
func NewGasPredictor(registry *ModelRegistry, timeout time.Duration, logger *logger.Logger) service.Predictor {
	return &GasPredictor{basePredictor{
		domain:   entity.DomainGas,
		registry: registry,
		timeout:  timeout,
		logger:   logger.WithComponent("gas-predictor"),
	}}
}

// Predict returns the predicted gas price in gwei, floored at 1.0
func (p *GasPredictor) Predict(ctx context.Context, features *entity.FeatureVector) (entity.PredictionResult, error) {
	model, err := p.prepare(features)
	if err != nil {
		return nil, err
	}
	return p.score(ctx, func() entity.PredictionResult {
		predicted := model.LinearScore(features.Values)
		if predicted < minPredictedGwei {
			predicted = minPredictedGwei
		}
		return &entity.GasResult{PredictedGwei: predicted}
	})
}
