package entity

// PredictionResult is the closed set of model outputs. Exactly one concrete
// type exists per prediction domain; consumers type-switch over all three so
// a new result shape cannot be silently mishandled.
type PredictionResult interface {
	ResultDomain() PredictionDomain
}

// FraudResult is the raw output of the fraud model
type FraudResult struct {
	RiskScore   float64  `json:"risk_score"`
	RiskFactors []string `json:"risk_factors"`
}

func (*FraudResult) ResultDomain() PredictionDomain { return DomainFraud }

// GasResult is the raw output of the gas-fee model paired with the observed
// gas price of the transaction
type GasResult struct {
	PredictedGwei float64 `json:"predicted_gwei"`
	ActualGwei    float64 `json:"actual_gwei"`
}

func (*GasResult) ResultDomain() PredictionDomain { return DomainGas }

// CategoryScore is one entry of a ranked category distribution
type CategoryScore struct {
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
}

// ClassificationResult is the raw output of the transaction-type classifier
type ClassificationResult struct {
	Category     string             `json:"category"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
}

func (*ClassificationResult) ResultDomain() PredictionDomain { return DomainClassification }

// PredictionSet holds the per-domain results of one explanation run. A nil
// field means that predictor failed or was unavailable and the explanation is
// degraded for that domain.
type PredictionSet struct {
	Fraud          *FraudResult
	Gas            *GasResult
	Classification *ClassificationResult
}

// Degraded reports whether any of the three predictions is missing
func (p *PredictionSet) Degraded() bool {
	return p.Fraud == nil || p.Gas == nil || p.Classification == nil
}
