package ml

import (
	"context"
	"time"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// TxClassifier assigns a transaction category with the multinomial model
type TxClassifier struct {
	basePredictor
}

// NewTxClassifier creates a transaction-type classifier backed by the registry
func NewTxClassifier(registry *ModelRegistry, timeout time.Duration, logger *logger.Logger) service.Predictor {
	return &TxClassifier{basePredictor{
		domain:   entity.DomainClassification,
		registry: registry,
		timeout:  timeout,
		logger:   logger.WithComponent("tx-classifier"),
	}}
}

// Predict returns the most probable category together with the full
// distribution. Ties break alphabetically so the result is deterministic.
func (p *TxClassifier) Predict(ctx context.Context, features *entity.FeatureVector) (entity.PredictionResult, error) {
	model, err := p.prepare(features)
	if err != nil {
		return nil, err
	}
	return p.score(ctx, func() entity.PredictionResult {
		dist := model.Softmax(features.Values)
		best, bestProb := "", -1.0
		for _, cat := range model.Categories {
			prob := dist[cat]
			if prob > bestProb || (prob == bestProb && cat < best) {
				best, bestProb = cat, prob
			}
		}
		return &entity.ClassificationResult{
			Category:     best,
			Confidence:   bestProb,
			Distribution: dist,
		}
	})
}
