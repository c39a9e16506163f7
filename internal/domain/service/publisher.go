package service

import (
	"context"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// ExplanationPublisher emits an event for each completed explanation.
// Delivery is best effort; implementations must never fail the pipeline.
type ExplanationPublisher interface {
	PublishExplanation(ctx context.Context, result *entity.ExplanationResult)
}
