package service

import (
	"fmt"
	"sort"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// ValueTierConfig holds the native-unit cutoffs for value-tier bucketing.
// Token-denominated transfers use per-symbol overrides since token magnitudes
// vary by asset.
type ValueTierConfig struct {
	SmallMax float64
	HighMin  float64
}

// RuleEngineConfig carries the tunable thresholds of the rule engine
type RuleEngineConfig struct {
	DefaultValueTiers ValueTierConfig
	TokenValueTiers   map[string]ValueTierConfig
	TopK              int
}

// DefaultRuleEngineConfig returns the shipped thresholds: ETH cutoffs at 1/10,
// stablecoin cutoffs at 1000/10000 token units, top-5 category ranking.
func DefaultRuleEngineConfig() RuleEngineConfig {
	stable := ValueTierConfig{SmallMax: 1000, HighMin: 10000}
	return RuleEngineConfig{
		DefaultValueTiers: ValueTierConfig{SmallMax: 1, HighMin: 10},
		TokenValueTiers: map[string]ValueTierConfig{
			"USDT": stable,
			"USDC": stable,
			"DAI":  stable,
		},
		TopK: 5,
	}
}

// riskBound is one row of the risk threshold table. Lower bounds are
// inclusive, upper bounds exclusive except the final bucket which includes 1.0.
type riskBound struct {
	lower float64
	upper float64
	tier  entity.RiskLevel
}

// gasBound is one row of the gas-deviation threshold table, expressed over
// delta = (actual - predicted) / predicted. strict marks an exclusive upper
// bound (delta < maxDelta) instead of the inclusive default.
type gasBound struct {
	maxDelta float64
	strict   bool
	tier     entity.GasEfficiency
}

// RuleEngine maps raw prediction outputs to discrete tiers using fixed
// threshold tables. All methods are pure and total over valid inputs;
// out-of-range inputs are caller contract violations and fail fast.
type RuleEngine struct {
	cfg       RuleEngineConfig
	riskTable []riskBound
	gasTable  []gasBound
}

// NewRuleEngine creates a rule engine with the given thresholds
func NewRuleEngine(cfg RuleEngineConfig) *RuleEngine {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	return &RuleEngine{
		cfg: cfg,
		riskTable: []riskBound{
			{0.00, 0.30, entity.RiskLevelLow},
			{0.30, 0.60, entity.RiskLevelMedium},
			{0.60, 0.80, entity.RiskLevelHigh},
			{0.80, 1.00, entity.RiskLevelCritical},
		},
		gasTable: []gasBound{
			{maxDelta: -0.20, strict: true, tier: entity.GasEfficiencyExcellent},
			{maxDelta: 0.20, tier: entity.GasEfficiencyNormal},
			{maxDelta: 0.80, tier: entity.GasEfficiencyAboveAverage},
		},
	}
}

// RiskLevel buckets a fraud score in [0,1] into a risk tier
func (re *RuleEngine) RiskLevel(score float64) (entity.RiskLevel, error) {
	if score < 0 || score > 1 {
		return entity.RiskLevelUnknown, &entity.InvariantViolation{
			Component: "rule-engine",
			Detail:    fmt.Sprintf("risk score %v outside [0,1]", score),
		}
	}
	for _, b := range re.riskTable {
		if score >= b.lower && score < b.upper {
			return b.tier, nil
		}
	}
	// score == 1.0 falls through the exclusive upper bounds
	return entity.RiskLevelCritical, nil
}

// GasEfficiency buckets the deviation of the actual gas price from the
// predicted one. A non-positive prediction yields delta 0 (NORMAL).
func (re *RuleEngine) GasEfficiency(predictedGwei, actualGwei float64) (entity.GasEfficiency, error) {
	if predictedGwei < 0 || actualGwei < 0 {
		return entity.GasEfficiencyUnknown, &entity.InvariantViolation{
			Component: "rule-engine",
			Detail:    fmt.Sprintf("negative gas price: predicted=%v actual=%v", predictedGwei, actualGwei),
		}
	}
	delta := 0.0
	if predictedGwei > 0 {
		delta = (actualGwei - predictedGwei) / predictedGwei
	}
	for _, b := range re.gasTable {
		if delta < b.maxDelta || (!b.strict && delta == b.maxDelta) {
			return b.tier, nil
		}
	}
	return entity.GasEfficiencyCongested, nil
}

// GasDeltaPercent returns the deviation in percent for display
func (re *RuleEngine) GasDeltaPercent(predictedGwei, actualGwei float64) float64 {
	if predictedGwei <= 0 {
		return 0
	}
	return (actualGwei - predictedGwei) / predictedGwei * 100
}

// ValueTier buckets an amount in native units. For token transfers the
// symbol selects configured per-asset cutoffs, falling back to the defaults.
func (re *RuleEngine) ValueTier(amount float64, tokenSymbol string) entity.ValueTier {
	tiers := re.cfg.DefaultValueTiers
	if tokenSymbol != "" {
		if t, ok := re.cfg.TokenValueTiers[tokenSymbol]; ok {
			tiers = t
		}
	}
	switch {
	case amount < tiers.SmallMax:
		return entity.ValueTierSmall
	case amount > tiers.HighMin:
		return entity.ValueTierHigh
	default:
		return entity.ValueTierMedium
	}
}

// CategoryRanking sorts a category distribution descending by probability,
// breaking ties alphabetically so output is reproducible, and returns the
// top-K entries.
func (re *RuleEngine) CategoryRanking(distribution map[string]float64) []entity.CategoryScore {
	ranked := make([]entity.CategoryScore, 0, len(distribution))
	for cat, p := range distribution {
		ranked = append(ranked, entity.CategoryScore{Category: cat, Probability: p})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Probability != ranked[j].Probability {
			return ranked[i].Probability > ranked[j].Probability
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > re.cfg.TopK {
		ranked = ranked[:re.cfg.TopK]
	}
	return ranked
}
