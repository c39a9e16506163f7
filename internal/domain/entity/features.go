package entity

import "fmt"

// PredictionDomain identifies which model a feature vector or result belongs to
type PredictionDomain string

const (
	DomainFraud          PredictionDomain = "fraud"
	DomainGas            PredictionDomain = "gas"
	DomainClassification PredictionDomain = "classification"
)

// FeatureVector is a named, fixed-order numeric feature mapping for one
// prediction domain. The name ordering must match the ordering the target
// model was trained with; adapters verify this before inference.
type FeatureVector struct {
	Domain PredictionDomain
	Names  []string
	Values []float64
}

// NewFeatureVector builds a feature vector, rejecting name/value arity mismatch
func NewFeatureVector(domain PredictionDomain, names []string, values []float64) (*FeatureVector, error) {
	if len(names) != len(values) {
		return nil, &InvariantViolation{
			Component: "feature-vector",
			Detail:    fmt.Sprintf("domain %s: %d feature names but %d values", domain, len(names), len(values)),
		}
	}
	return &FeatureVector{Domain: domain, Names: names, Values: values}, nil
}

// Get returns the value of a named feature
func (fv *FeatureVector) Get(name string) (float64, bool) {
	for i, n := range fv.Names {
		if n == name {
			return fv.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector as a name->value mapping
func (fv *FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(fv.Names))
	for i, n := range fv.Names {
		m[n] = fv.Values[i]
	}
	return m
}

// FeatureSet carries the three domain vectors extracted from one transaction
type FeatureSet struct {
	Fraud          *FeatureVector
	Gas            *FeatureVector
	Classification *FeatureVector
}

// WalletStats captures historical behavior of an address, used both for the
// fraud feature set and for the address stats endpoint
type WalletStats struct {
	Address                   string  `json:"address"`
	BalanceETH                float64 `json:"balance_eth"`
	TransactionCount          int64   `json:"transaction_count"`
	TotalValueSent            float64 `json:"total_value_sent"`
	TotalValueReceived        float64 `json:"total_value_received"`
	UniqueAddressesInteracted int64   `json:"unique_addresses_interacted"`
	AvgTransactionValue       float64 `json:"avg_transaction_value"`
	MaxTransactionValue       float64 `json:"max_transaction_value"`
	MinTransactionValue       float64 `json:"min_transaction_value"`
	AvgGasPriceGwei           float64 `json:"avg_gas_price"`
	ContractCreationCount     int64   `json:"contract_creation_count"`
	FailedTransactionRatio    float64 `json:"failed_transaction_ratio"`
	TimeBetweenTxsAvgSec      float64 `json:"time_between_txs_avg"`

	KnownLabel *AddressLabel `json:"known_info,omitempty"`
}
