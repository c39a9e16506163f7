package entity

// RiskLevel is the discrete fraud-risk tier derived from a model risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
	RiskLevelUnknown  RiskLevel = "UNKNOWN"
)

// GasEfficiency is the discrete gas-fee tier derived from the deviation of the
// actual gas price from the predicted one
type GasEfficiency string

const (
	GasEfficiencyExcellent    GasEfficiency = "EXCELLENT"
	GasEfficiencyNormal       GasEfficiency = "NORMAL"
	GasEfficiencyAboveAverage GasEfficiency = "ABOVE_AVERAGE"
	GasEfficiencyCongested    GasEfficiency = "CONGESTED"
	GasEfficiencyUnknown      GasEfficiency = "UNKNOWN"
)

// ValueTier buckets a transfer amount in native units
type ValueTier string

const (
	ValueTierSmall  ValueTier = "SMALL"
	ValueTierMedium ValueTier = "MEDIUM"
	ValueTierHigh   ValueTier = "HIGH"
)

// DisplayName returns the human-readable form used in narratives
func (v ValueTier) DisplayName() string {
	switch v {
	case ValueTierSmall:
		return "Small"
	case ValueTierMedium:
		return "Medium"
	case ValueTierHigh:
		return "High Value"
	default:
		return string(v)
	}
}

// TierSet groups the derived tiers for one explanation
type TierSet struct {
	RiskLevel     RiskLevel     `json:"risk_level"`
	GasEfficiency GasEfficiency `json:"gas_efficiency"`
	ValueTier     ValueTier     `json:"value_tier"`
}
