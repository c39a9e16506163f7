package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

func TestRecommendEmptyNotNil(t *testing.T) {
	rg := NewRecommendationGenerator()

	recs := rg.Recommend(entity.TierSet{
		RiskLevel:     entity.RiskLevelLow,
		GasEfficiency: entity.GasEfficiencyNormal,
		ValueTier:     entity.ValueTierSmall,
	}, nil)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendHighRisk(t *testing.T) {
	rg := NewRecommendationGenerator()

	recs := rg.Recommend(entity.TierSet{
		RiskLevel:     entity.RiskLevelHigh,
		GasEfficiency: entity.GasEfficiencyNormal,
	}, nil)

	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "verifying the recipient address")
}

func TestRecommendCriticalRisk(t *testing.T) {
	rg := NewRecommendationGenerator()

	recs := rg.Recommend(entity.TierSet{
		RiskLevel:     entity.RiskLevelCritical,
		GasEfficiency: entity.GasEfficiencyNormal,
	}, nil)

	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "Do not proceed")
	assert.Contains(t, recs[1], "community blacklists")
}

func TestRecommendGasTiming(t *testing.T) {
	rg := NewRecommendationGenerator()

	for _, eff := range []entity.GasEfficiency{entity.GasEfficiencyCongested, entity.GasEfficiencyAboveAverage} {
		recs := rg.Recommend(entity.TierSet{
			RiskLevel:     entity.RiskLevelLow,
			GasEfficiency: eff,
		}, nil)
		require.Len(t, recs, 2)
		assert.Contains(t, recs[0], "lower gas periods")
	}
}

func TestRecommendContractDeployment(t *testing.T) {
	rg := NewRecommendationGenerator()

	recs := rg.Recommend(entity.TierSet{
		RiskLevel:     entity.RiskLevelLow,
		GasEfficiency: entity.GasEfficiencyNormal,
	}, &entity.Classification{Category: "Contract Deployment"})

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "contract source code")
}

func TestRecommendOrdering(t *testing.T) {
	rg := NewRecommendationGenerator()

	recs := rg.Recommend(entity.TierSet{
		RiskLevel:     entity.RiskLevelCritical,
		GasEfficiency: entity.GasEfficiencyCongested,
	}, &entity.Classification{Category: "Contract Deployment"})

	// security first, then gas timing, then category guidance
	require.Len(t, recs, 5)
	assert.Contains(t, recs[0], "Do not proceed")
	assert.Contains(t, recs[2], "lower gas periods")
	assert.Contains(t, recs[4], "contract source code")
}
