package service

import (
	"math"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// Fixed feature orderings. These must match the orderings the corresponding
// models were trained with; the adapters re-verify against the artifact schema
// and treat a mismatch as a configuration error.
var (
	fraudFeatureOrder = []string{
		"transaction_count", "total_value_sent", "total_value_received",
		"unique_addresses_interacted", "avg_transaction_value",
		"max_transaction_value", "min_transaction_value", "avg_gas_price",
		"contract_creation_count", "failed_transaction_ratio", "time_between_txs_avg",
	}
	gasFeatureOrder = []string{
		"value_eth", "gas_limit", "is_contract_call", "input_data_size",
		"network_congestion", "time_of_day", "day_of_week",
	}
	txFeatureOrder = []string{
		"value_eth", "gas_used", "input_data_length",
		"to_address_type", "from_address_type",
	}
)

var addressTypeCodes = map[entity.AddressType]float64{
	entity.AddressTypeEOA:      0,
	entity.AddressTypeContract: 1,
	entity.AddressTypeExchange: 2,
	entity.AddressTypeDEX:      3,
	entity.AddressTypeNFT:      3,
}

// FeatureExtractor converts a decoded transaction record into the fixed-shape
// feature vectors the predictors expect. Pure: no I/O, identical output for
// identical input. Monetary values are normalized to base native units (ETH,
// gwei) to match the units used at training time.
type FeatureExtractor struct {
	// DefaultCongestion stands in for a live congestion estimate (0..1)
	DefaultCongestion float64
}

// NewFeatureExtractor creates a feature extractor with default settings
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{DefaultCongestion: 0.5}
}

// Extract builds the feature vector for one prediction domain
func (fe *FeatureExtractor) Extract(tx *entity.TransactionRecord, stats *entity.WalletStats, domain entity.PredictionDomain) (*entity.FeatureVector, error) {
	if err := fe.validate(tx, domain); err != nil {
		return nil, err
	}
	switch domain {
	case entity.DomainFraud:
		return fe.fraudFeatures(tx, stats)
	case entity.DomainGas:
		return fe.gasFeatures(tx)
	case entity.DomainClassification:
		return fe.txFeatures(tx)
	default:
		return nil, &entity.InvariantViolation{
			Component: "feature-extractor",
			Detail:    "unknown prediction domain " + string(domain),
		}
	}
}

// ExtractAll builds the three domain vectors in one pass
func (fe *FeatureExtractor) ExtractAll(tx *entity.TransactionRecord, stats *entity.WalletStats) (*entity.FeatureSet, error) {
	fraud, err := fe.Extract(tx, stats, entity.DomainFraud)
	if err != nil {
		return nil, err
	}
	gas, err := fe.Extract(tx, stats, entity.DomainGas)
	if err != nil {
		return nil, err
	}
	classification, err := fe.Extract(tx, stats, entity.DomainClassification)
	if err != nil {
		return nil, err
	}
	return &entity.FeatureSet{Fraud: fraud, Gas: gas, Classification: classification}, nil
}

func (fe *FeatureExtractor) validate(tx *entity.TransactionRecord, domain entity.PredictionDomain) error {
	if tx == nil {
		return &entity.FeatureError{Domain: domain, Field: "transaction", Reason: "record is nil"}
	}
	if tx.Hash == "" {
		return &entity.FeatureError{Domain: domain, Field: "hash", Reason: "missing"}
	}
	if tx.ValueETH < 0 || math.IsNaN(tx.ValueETH) {
		return &entity.FeatureError{Domain: domain, Field: "value_eth", Reason: "out of range"}
	}
	if tx.GasPriceGwei < 0 || math.IsNaN(tx.GasPriceGwei) {
		return &entity.FeatureError{Domain: domain, Field: "gas_price_gwei", Reason: "out of range"}
	}
	if tx.IsTokenTransfer && tx.Token == nil {
		return &entity.FeatureError{Domain: domain, Field: "token_info", Reason: "token transfer without token metadata"}
	}
	return nil
}

// fraudFeatures builds wallet-behavior features. When no historical stats are
// available it falls back to a synthetic profile derived from the transaction
// itself so the fraud model still receives a well-formed vector.
func (fe *FeatureExtractor) fraudFeatures(tx *entity.TransactionRecord, stats *entity.WalletStats) (*entity.FeatureVector, error) {
	if stats == nil {
		stats = SyntheticWalletStats(tx)
	}
	return FraudVector(stats)
}

// FraudVector builds the fraud feature vector from a behavioral profile
func FraudVector(stats *entity.WalletStats) (*entity.FeatureVector, error) {
	values := []float64{
		float64(stats.TransactionCount),
		stats.TotalValueSent,
		stats.TotalValueReceived,
		float64(stats.UniqueAddressesInteracted),
		stats.AvgTransactionValue,
		stats.MaxTransactionValue,
		stats.MinTransactionValue,
		stats.AvgGasPriceGwei,
		float64(stats.ContractCreationCount),
		stats.FailedTransactionRatio,
		stats.TimeBetweenTxsAvgSec,
	}
	return entity.NewFeatureVector(entity.DomainFraud, fraudFeatureOrder, values)
}

// GasFeatureInputs mirrors the direct gas prediction payload
type GasFeatureInputs struct {
	ValueETH          float64
	GasLimit          uint64
	IsContractCall    bool
	InputDataSize     int
	NetworkCongestion float64
	TimeOfDay         int
	DayOfWeek         int
}

// GasVector builds the gas feature vector from explicit inputs
func GasVector(in GasFeatureInputs) (*entity.FeatureVector, error) {
	isContractCall := 0.0
	if in.IsContractCall {
		isContractCall = 1.0
	}
	values := []float64{
		in.ValueETH,
		float64(in.GasLimit),
		isContractCall,
		float64(in.InputDataSize),
		in.NetworkCongestion,
		float64(in.TimeOfDay),
		float64(in.DayOfWeek),
	}
	return entity.NewFeatureVector(entity.DomainGas, gasFeatureOrder, values)
}

// TxFeatureInputs mirrors the direct classification payload
type TxFeatureInputs struct {
	ValueETH        float64
	GasUsed         uint64
	InputDataLength int
	ToAddressType   entity.AddressType
	FromAddressType entity.AddressType
}

// ClassificationVector builds the classification feature vector from explicit inputs
func ClassificationVector(in TxFeatureInputs) (*entity.FeatureVector, error) {
	values := []float64{
		in.ValueETH,
		float64(in.GasUsed),
		float64(in.InputDataLength),
		addressTypeCodes[in.ToAddressType],
		addressTypeCodes[in.FromAddressType],
	}
	return entity.NewFeatureVector(entity.DomainClassification, txFeatureOrder, values)
}

func (fe *FeatureExtractor) gasFeatures(tx *entity.TransactionRecord) (*entity.FeatureVector, error) {
	isContractCall := 0.0
	if tx.ContractInteraction {
		isContractCall = 1.0
	}
	timeOfDay, dayOfWeek := 12.0, 3.0
	if tx.Timestamp != nil {
		timeOfDay = float64(tx.Timestamp.UTC().Hour())
		dayOfWeek = float64(tx.Timestamp.UTC().Weekday())
	}
	values := []float64{
		tx.ValueETH,
		float64(tx.GasLimit),
		isContractCall,
		float64(inputDataBytes(tx.InputData)),
		fe.DefaultCongestion,
		timeOfDay,
		dayOfWeek,
	}
	return entity.NewFeatureVector(entity.DomainGas, gasFeatureOrder, values)
}

func (fe *FeatureExtractor) txFeatures(tx *entity.TransactionRecord) (*entity.FeatureVector, error) {
	toType := entity.AddressTypeEOA
	if tx.ContractInteraction {
		toType = entity.AddressTypeContract
	}
	if tx.ToLabel != nil {
		toType = tx.ToLabel.Type
	}
	fromType := entity.AddressTypeEOA
	if tx.FromLabel != nil {
		fromType = tx.FromLabel.Type
	}
	values := []float64{
		tx.ValueETH,
		float64(tx.GasUsed),
		float64(len(tx.InputData)),
		addressTypeCodes[toType],
		addressTypeCodes[fromType],
	}
	return entity.NewFeatureVector(entity.DomainClassification, txFeatureOrder, values)
}

// inputDataBytes returns the payload size in bytes for a 0x-prefixed hex string
func inputDataBytes(data string) int {
	n := len(data)
	if n >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		n -= 2
	}
	return n / 2
}

// SyntheticWalletStats derives a stand-in behavioral profile from a single
// transaction when no wallet history is available
func SyntheticWalletStats(tx *entity.TransactionRecord) *entity.WalletStats {
	return &entity.WalletStats{
		Address:                   tx.From,
		TransactionCount:          50,
		TotalValueSent:            tx.ValueETH,
		TotalValueReceived:        tx.ValueETH * 0.8,
		UniqueAddressesInteracted: 25,
		AvgTransactionValue:       tx.ValueETH,
		MaxTransactionValue:       tx.ValueETH * 2,
		MinTransactionValue:       tx.ValueETH * 0.1,
		AvgGasPriceGwei:           30.0,
		ContractCreationCount:     0,
		FailedTransactionRatio:    0.02,
		TimeBetweenTxsAvgSec:      3600,
	}
}

// IdentifyRiskFactors derives human-readable risk factors from wallet behavior
func IdentifyRiskFactors(stats *entity.WalletStats) []string {
	var factors []string
	if stats == nil {
		return []string{"No wallet history available"}
	}
	if stats.FailedTransactionRatio > 0.1 {
		factors = append(factors, "High failed transaction ratio")
	}
	if stats.TransactionCount < 5 {
		factors = append(factors, "New wallet with limited history")
	}
	if stats.MaxTransactionValue > 100 {
		factors = append(factors, "Large value transactions detected")
	}
	if stats.TimeBetweenTxsAvgSec > 0 && stats.TimeBetweenTxsAvgSec < 60 {
		factors = append(factors, "Rapid transaction frequency")
	}
	if len(factors) == 0 {
		factors = append(factors, "No significant risk factors identified")
	}
	return factors
}
