package service

import (
	"context"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// QuickSummary is the reduced response of the summary endpoint
type QuickSummary struct {
	TxHash         string           `json:"tx_hash"`
	Summary        string           `json:"summary"`
	Classification string           `json:"classification"`
	ValueTier      entity.ValueTier `json:"value_tier"`
}

// ExplanationService is the top-level pipeline contract exposed to the API layer
type ExplanationService interface {
	// Explain runs the full pipeline for a validated transaction hash and
	// returns a best-effort result whenever decoding succeeded.
	Explain(ctx context.Context, txHash string) (*entity.ExplanationResult, error)

	// QuickSummary decodes the transaction and returns a one-line summary
	// without invoking the predictors.
	QuickSummary(ctx context.Context, txHash string) (*QuickSummary, error)
}
