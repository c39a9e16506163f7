package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	appservice "github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/application/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/ml"
)

const serviceVersion = "1.0.0"

// Handlers carries the dependencies of all HTTP endpoints
type Handlers struct {
	explainer  service.ExplanationService
	decoder    service.TransactionDecoder
	extractor  *service.FeatureExtractor
	predictors *service.PredictorSet
	rules      *service.RuleEngine
	models     *ml.ModelRegistry
	config     *config.Config
	logger     *logger.Logger
}

// NewHandlers creates the endpoint handler set
func NewHandlers(
	explainer service.ExplanationService,
	decoder service.TransactionDecoder,
	extractor *service.FeatureExtractor,
	predictors *service.PredictorSet,
	rules *service.RuleEngine,
	models *ml.ModelRegistry,
	cfg *config.Config,
	logger *logger.Logger,
) *Handlers {
	return &Handlers{
		explainer:  explainer,
		decoder:    decoder,
		extractor:  extractor,
		predictors: predictors,
		rules:      rules,
		models:     models,
		config:     cfg,
		logger:     logger.WithComponent("http-handlers"),
	}
}

// txHashRequest is the body of hash-driven POST endpoints
type txHashRequest struct {
	TxHash string `json:"tx_hash"`
}

// Root reports basic service identity
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "Blockchain Transaction Explainer",
		"version": serviceVersion,
	})
}

// Health reports model and RPC readiness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"models_loaded":  h.models.Info(),
		"rpc_configured": h.config.Ethereum.RPCURL != "",
	})
}

// NotFound is the JSON 404 handler
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}

// Explain runs the full pipeline for a transaction hash
func (h *Handlers) Explain(w http.ResponseWriter, r *http.Request) {
	var req txHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.explainer.Explain(r.Context(), req.TxHash)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// QuickSummary returns the one-line summary for a transaction hash
func (h *Handlers) QuickSummary(w http.ResponseWriter, r *http.Request) {
	txHash := mux.Vars(r)["tx_hash"]
	summary, err := h.explainer.QuickSummary(r.Context(), txHash)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DecodeTx returns the decoded transaction record without predictions
func (h *Handlers) DecodeTx(w http.ResponseWriter, r *http.Request) {
	var req txHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := appservice.ValidateTxHash(req.TxHash); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	record, err := h.decoder.Decode(r.Context(), req.TxHash)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Features returns the three extracted feature sets for a transaction
func (h *Handlers) Features(w http.ResponseWriter, r *http.Request) {
	txHash := mux.Vars(r)["tx_hash"]
	if err := appservice.ValidateTxHash(txHash); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	record, err := h.decoder.Decode(r.Context(), txHash)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	stats, err := h.decoder.AddressStats(r.Context(), record.From)
	if err != nil {
		stats = nil
	}
	features, err := h.extractor.ExtractAll(record, stats)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tx_hash":         txHash,
		"wallet_features": features.Fraud.Map(),
		"gas_features":    features.Gas.Map(),
		"tx_features":     features.Classification.Map(),
	})
}

// AddressStats returns behavioral statistics for an address
func (h *Handlers) AddressStats(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	stats, err := h.decoder.AddressStats(r.Context(), address)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// fraudPredictionRequest mirrors the behavioral feature payload
type fraudPredictionRequest struct {
	WalletAddress             string  `json:"wallet_address,omitempty"`
	TransactionCount          int64   `json:"transaction_count"`
	TotalValueSent            float64 `json:"total_value_sent"`
	TotalValueReceived        float64 `json:"total_value_received"`
	UniqueAddressesInteracted int64   `json:"unique_addresses_interacted"`
	AvgTransactionValue       float64 `json:"avg_transaction_value"`
	MaxTransactionValue       float64 `json:"max_transaction_value"`
	MinTransactionValue       float64 `json:"min_transaction_value"`
	AvgGasPrice               float64 `json:"avg_gas_price"`
	ContractCreationCount     int64   `json:"contract_creation_count"`
	FailedTransactionRatio    float64 `json:"failed_transaction_ratio"`
	TimeBetweenTxsAvg         float64 `json:"time_between_txs_avg"`
}

func (r *fraudPredictionRequest) validate() string {
	switch {
	case r.TransactionCount < 0 || r.UniqueAddressesInteracted < 0 || r.ContractCreationCount < 0:
		return "counts must be non-negative"
	case r.TotalValueSent < 0 || r.TotalValueReceived < 0 || r.AvgTransactionValue < 0 ||
		r.MaxTransactionValue < 0 || r.MinTransactionValue < 0 || r.AvgGasPrice < 0 || r.TimeBetweenTxsAvg < 0:
		return "values must be non-negative"
	case r.FailedTransactionRatio < 0 || r.FailedTransactionRatio > 1:
		return "failed_transaction_ratio must be within [0,1]"
	}
	return ""
}

// PredictFraud runs the fraud model against an explicit behavioral payload
func (h *Handlers) PredictFraud(w http.ResponseWriter, r *http.Request) {
	var req fraudPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	stats := &entity.WalletStats{
		Address:                   req.WalletAddress,
		TransactionCount:          req.TransactionCount,
		TotalValueSent:            req.TotalValueSent,
		TotalValueReceived:        req.TotalValueReceived,
		UniqueAddressesInteracted: req.UniqueAddressesInteracted,
		AvgTransactionValue:       req.AvgTransactionValue,
		MaxTransactionValue:       req.MaxTransactionValue,
		MinTransactionValue:       req.MinTransactionValue,
		AvgGasPriceGwei:           req.AvgGasPrice,
		ContractCreationCount:     req.ContractCreationCount,
		FailedTransactionRatio:    req.FailedTransactionRatio,
		TimeBetweenTxsAvgSec:      req.TimeBetweenTxsAvg,
	}

	vector, err := service.FraudVector(stats)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	result, err := h.predictors.Fraud.Predict(r.Context(), vector)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	fraud, ok := result.(*entity.FraudResult)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Unexpected prediction result")
		return
	}

	level, err := h.rules.RiskLevel(fraud.RiskScore)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"risk_score":     fraud.RiskScore,
		"risk_level":     level,
		"confidence":     1 - (absFloat(0.5-fraud.RiskScore) * 0.5),
		"risk_factors":   service.IdentifyRiskFactors(stats),
		"recommendation": service.FraudRecommendation(level),
	})
}

// gasPredictionRequest mirrors the direct gas estimation payload
type gasPredictionRequest struct {
	ValueETH          float64  `json:"value_eth"`
	GasLimit          uint64   `json:"gas_limit"`
	IsContractCall    bool     `json:"is_contract_call"`
	InputDataSize     int      `json:"input_data_size"`
	NetworkCongestion *float64 `json:"network_congestion,omitempty"`
	TimeOfDay         *int     `json:"time_of_day,omitempty"`
	DayOfWeek         *int     `json:"day_of_week,omitempty"`
}

// PredictGas runs the gas model and derives fee and timing guidance
func (h *Handlers) PredictGas(w http.ResponseWriter, r *http.Request) {
	var req gasPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ValueETH < 0 || req.InputDataSize < 0 {
		writeError(w, http.StatusUnprocessableEntity, "values must be non-negative")
		return
	}
	if req.GasLimit < 21000 {
		writeError(w, http.StatusUnprocessableEntity, "gas_limit must be at least 21000")
		return
	}

	congestion := 0.5
	if req.NetworkCongestion != nil {
		congestion = *req.NetworkCongestion
	}
	if congestion < 0 || congestion > 1 {
		writeError(w, http.StatusUnprocessableEntity, "network_congestion must be within [0,1]")
		return
	}
	timeOfDay, dayOfWeek := 12, 0
	if req.TimeOfDay != nil {
		timeOfDay = *req.TimeOfDay
	}
	if req.DayOfWeek != nil {
		dayOfWeek = *req.DayOfWeek
	}
	if timeOfDay < 0 || timeOfDay > 23 || dayOfWeek < 0 || dayOfWeek > 6 {
		writeError(w, http.StatusUnprocessableEntity, "time_of_day or day_of_week out of range")
		return
	}

	vector, err := service.GasVector(service.GasFeatureInputs{
		ValueETH:          req.ValueETH,
		GasLimit:          req.GasLimit,
		IsContractCall:    req.IsContractCall,
		InputDataSize:     req.InputDataSize,
		NetworkCongestion: congestion,
		TimeOfDay:         timeOfDay,
		DayOfWeek:         dayOfWeek,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	result, err := h.predictors.Gas.Predict(r.Context(), vector)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	gas, ok := result.(*entity.GasResult)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Unexpected prediction result")
		return
	}

	// Intrinsic gas plus calldata cost unless the limit is fully consumed by
	// a contract call
	gasToUse := req.GasLimit
	if !req.IsContractCall {
		if estimate := uint64(21000 + req.InputDataSize*16); estimate < gasToUse {
			gasToUse = estimate
		}
	}
	feeETH := gas.PredictedGwei * float64(gasToUse) / 1e9

	status, savings := gasTimingGuidance(congestion)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predicted_gas_price_gwei": gas.PredictedGwei,
		"predicted_total_fee_eth":  feeETH,
		"confidence_interval": map[string]float64{
			"low":  gas.PredictedGwei * 0.85,
			"high": gas.PredictedGwei * 1.15,
		},
		"network_status":    status,
		"savings_potential": savings,
	})
}

func gasTimingGuidance(congestion float64) (string, string) {
	switch {
	case congestion < 0.3:
		return "Low congestion - Good time to transact",
			"Wait for even lower gas during off-peak hours (UTC 2-6 AM)"
	case congestion < 0.6:
		return "Moderate congestion - Normal fees expected",
			"Consider waiting 1-2 hours for potential savings"
	default:
		return "High congestion - Elevated fees",
			"Postpone non-urgent transactions if possible"
	}
}

// txTypePredictionRequest mirrors the direct classification payload
type txTypePredictionRequest struct {
	ValueETH        float64 `json:"value_eth"`
	GasUsed         uint64  `json:"gas_used"`
	InputDataLength int     `json:"input_data_length"`
	ToAddressType   string  `json:"to_address_type"`
	FromAddressType string  `json:"from_address_type"`
	MethodID        string  `json:"method_id,omitempty"`
}

// PredictTxType runs the classifier against explicit transaction features
func (h *Handlers) PredictTxType(w http.ResponseWriter, r *http.Request) {
	var req txTypePredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.InputDataLength < 0 {
		writeError(w, http.StatusUnprocessableEntity, "input_data_length must be non-negative")
		return
	}

	vector, err := service.ClassificationVector(service.TxFeatureInputs{
		ValueETH:        req.ValueETH,
		GasUsed:         req.GasUsed,
		InputDataLength: req.InputDataLength,
		ToAddressType:   entity.AddressType(req.ToAddressType),
		FromAddressType: entity.AddressType(req.FromAddressType),
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	result, err := h.predictors.Classification.Predict(r.Context(), vector)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	classification, ok := result.(*entity.ClassificationResult)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Unexpected prediction result")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":       classification.Category,
		"subcategory":    nil,
		"confidence":     classification.Confidence,
		"all_categories": classification.Distribution,
		"description":    service.CategoryDescription(classification.Category),
	})
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
