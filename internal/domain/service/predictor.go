package service

import (
	"context"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// Predictor is the uniform contract over one trained model. Adapters hold the
// loaded model as process-wide read-only state; concurrent Predict calls
// against the same model are safe.
type Predictor interface {
	// Domain identifies which feature vector and result variant the adapter handles
	Domain() entity.PredictionDomain

	// Available reports whether the model artifact was loaded at startup
	Available() bool

	// Predict runs inference over a feature vector. Fails with
	// entity.ErrPredictorUnavailable, entity.ErrPredictorInput or
	// entity.ErrPredictorTimeout; feature-name mismatch against the trained
	// schema surfaces as *entity.InvariantViolation.
	Predict(ctx context.Context, features *entity.FeatureVector) (entity.PredictionResult, error)
}

// PredictorSet groups the three adapters the orchestrator fans out to. Any of
// the fields may be an unavailable adapter; the pipeline degrades per domain.
type PredictorSet struct {
	Fraud          Predictor
	Gas            Predictor
	Classification Predictor
}
