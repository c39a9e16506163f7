package ml

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// basePredictor carries the shared mechanics of the three adapters: artifact
// lookup, schema verification and deadline handling around the scoring call.
type basePredictor struct {
	domain   entity.PredictionDomain
	registry *ModelRegistry
	timeout  time.Duration
	logger   *logger.Logger
}

func (p *basePredictor) Domain() entity.PredictionDomain { return p.domain }

func (p *basePredictor) Available() bool { return p.registry.Artifact(p.domain) != nil }

// prepare resolves the artifact and verifies the feature vector against its
// trained schema
func (p *basePredictor) prepare(features *entity.FeatureVector) (*ModelArtifact, error) {
	model := p.registry.Artifact(p.domain)
	if model == nil {
		return nil, entity.ErrPredictorUnavailable
	}
	if features == nil {
		return nil, fmt.Errorf("%w: nil feature vector", entity.ErrPredictorInput)
	}
	if features.Domain != p.domain {
		return nil, fmt.Errorf("%w: vector for %s given to %s predictor",
			entity.ErrPredictorInput, features.Domain, p.domain)
	}
	if err := model.CheckFeatures(features); err != nil {
		return nil, err
	}
	return model, nil
}

// score runs fn under the adapter deadline. Inference is pure arithmetic, but
// the deadline keeps one misbehaving model from stalling the whole fan-out.
func (p *basePredictor) score(ctx context.Context, fn func() entity.PredictionResult) (entity.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	done := make(chan entity.PredictionResult, 1)
	go func() { done <- fn() }()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, entity.ErrPredictorTimeout
		}
		return nil, ctx.Err()
	case res := <-done:
		return res, nil
	}
}

// NewPredictorSet wires one adapter per prediction domain against the registry
func NewPredictorSet(cfg *config.Config, registry *ModelRegistry, logger *logger.Logger) *service.PredictorSet {
	timeout := cfg.Models.PredictTimeout
	return &service.PredictorSet{
		Fraud:          NewFraudPredictor(registry, timeout, logger),
		Gas:            NewGasPredictor(registry, timeout, logger),
		Classification: NewTxClassifier(registry, timeout, logger),
	}
}
