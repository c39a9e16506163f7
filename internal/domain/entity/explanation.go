package entity

import "time"

// SectionImportance weights a narrative section for presentation
type SectionImportance string

const (
	ImportanceHigh   SectionImportance = "high"
	ImportanceMedium SectionImportance = "medium"
	ImportanceLow    SectionImportance = "low"
)

// Section is one block of the composed narrative
type Section struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Icon       string            `json:"icon"`
	Importance SectionImportance `json:"importance"`
}

// Narrative is the composed natural-language explanation: a one-line summary,
// the five ordered sections and the joined full text
type Narrative struct {
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
	FullText string    `json:"full_text"`
}

// FraudAnalysis is the fraud prediction reconciled with its risk tier
type FraudAnalysis struct {
	RiskScore   float64   `json:"risk_score"`
	RiskLevel   RiskLevel `json:"risk_level"`
	RiskFactors []string  `json:"risk_factors"`
	Confidence  float64   `json:"confidence"`
	Available   bool      `json:"available"`
}

// GasAnalysis is the gas prediction reconciled with its efficiency tier
type GasAnalysis struct {
	PredictedGasGwei  float64       `json:"predicted_gas_gwei"`
	ActualGasGwei     float64       `json:"actual_gas_gwei"`
	DifferencePercent float64       `json:"difference_percent"`
	Efficiency        GasEfficiency `json:"efficiency"`
	Explanation       string        `json:"explanation"`
	FeeETH            float64       `json:"fee_eth"`
	FeeUSD            float64       `json:"fee_usd"`
	GasUsed           uint64        `json:"gas_used"`
	Confidence        float64       `json:"confidence"`
	Available         bool          `json:"available"`
}

// Classification is the transaction-type prediction with its ranked
// distribution and the derived value tier
type Classification struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	ValueTier     ValueTier       `json:"value_tier"`
	Confidence    float64         `json:"confidence"`
	AllCategories []CategoryScore `json:"all_categories"`
	Available     bool            `json:"available"`
}

// ExplanationResult is the terminal aggregate returned to the API layer.
// Constructed once per request, immutable, request-scoped.
type ExplanationResult struct {
	TxHash             string             `json:"tx_hash"`
	Summary            string             `json:"summary"`
	Sections           []Section          `json:"sections"`
	Transaction        *TransactionRecord `json:"transaction"`
	FraudAnalysis      *FraudAnalysis     `json:"fraud_analysis"`
	GasAnalysis        *GasAnalysis       `json:"gas_analysis"`
	Classification     *Classification    `json:"classification"`
	NaturalExplanation string             `json:"natural_explanation"`
	ContextInsight     string             `json:"context_insight"`
	Recommendations    []string           `json:"recommendations"`
	GeneratedAt        time.Time          `json:"generated_at"`
	ConfidenceScore    float64            `json:"confidence_score"`
}
