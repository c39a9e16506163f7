package ml

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// maxContributingFactors caps the per-prediction factor list
const maxContributingFactors = 3

// FraudPredictor scores fraud risk with the logistic fraud model and reports
// which features pushed the score up
type FraudPredictor struct {
	basePredictor
}

// NewFraudPredictor creates a fraud risk predictor backed by the registry
func NewFraudPredictor(registry *ModelRegistry, timeout time.Duration, logger *logger.Logger) service.Predictor {
	return &FraudPredictor{basePredictor{
		domain:   entity.DomainFraud,
		registry: registry,
		timeout:  timeout,
		logger:   logger.WithComponent("fraud-predictor"),
	}}
}

// Predict returns a risk score in [0,1] with the model's top positive
// contributors as risk factors
func (p *FraudPredictor) Predict(ctx context.Context, features *entity.FeatureVector) (entity.PredictionResult, error) {
	model, err := p.prepare(features)
	if err != nil {
		return nil, err
	}
	return p.score(ctx, func() entity.PredictionResult {
		score := model.LogisticScore(features.Values)
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		return &entity.FraudResult{
			RiskScore:   score,
			RiskFactors: contributingFactors(model, features),
		}
	})
}

// contributingFactors ranks features by their positive contribution to the
// logit and renders the strongest ones as readable factor strings
func contributingFactors(model *ModelArtifact, features *entity.FeatureVector) []string {
	type contribution struct {
		name  string
		value float64
	}
	contribs := make([]contribution, 0, len(model.Weights))
	normalized := model.normalize(features.Values)
	for i, w := range model.Weights {
		c := w * normalized[i]
		if c > 0 {
			contribs = append(contribs, contribution{model.FeatureNames[i], c})
		}
	}
	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].value != contribs[j].value {
			return contribs[i].value > contribs[j].value
		}
		return contribs[i].name < contribs[j].name
	})
	if len(contribs) > maxContributingFactors {
		contribs = contribs[:maxContributingFactors]
	}
	factors := make([]string, 0, len(contribs))
	for _, c := range contribs {
		factors = append(factors, "Elevated "+strings.ReplaceAll(c.name, "_", " "))
	}
	return factors
}
