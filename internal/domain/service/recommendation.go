package service

import (
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// RecommendationGenerator derives user-facing action items from tier
// combinations. Deterministic and rule-table driven; returns an empty list,
// never nil, when no rule fires.
type RecommendationGenerator struct{}

// NewRecommendationGenerator creates a recommendation generator
func NewRecommendationGenerator() *RecommendationGenerator {
	return &RecommendationGenerator{}
}

// Recommend produces the ordered recommendation list. Security cautions come
// first, then gas timing advice, then category-specific guidance.
func (rg *RecommendationGenerator) Recommend(tiers entity.TierSet, classification *entity.Classification) []string {
	recs := []string{}

	switch tiers.RiskLevel {
	case entity.RiskLevelHigh:
		recs = append(recs,
			"Consider verifying the recipient address before future transactions.",
			"Check the recipient's transaction history on blockchain explorers.")
	case entity.RiskLevelCritical:
		recs = append(recs,
			"Do not proceed with similar transactions until verified.",
			"Report suspicious addresses to community blacklists.")
	}

	if tiers.GasEfficiency == entity.GasEfficiencyCongested || tiers.GasEfficiency == entity.GasEfficiencyAboveAverage {
		recs = append(recs,
			"Consider waiting for lower gas periods (UTC 2-6 AM) for non-urgent transactions.",
			"Use gas tracking tools to identify optimal transaction times.")
	}

	if classification != nil && classification.Category == "Contract Deployment" {
		recs = append(recs, "Verify the deployed contract source code on a block explorer.")
	}

	return recs
}
