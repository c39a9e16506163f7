package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appservice "github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/application/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/service"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/ml"
)

const testTxHash = "0x3e3a0a8f6f0f1f91cbd1aa3f4f28c663ff3a1a1988c89c72e21c54d171cfe2ac"

type stubDecoder struct {
	tx        *entity.TransactionRecord
	stats     *entity.WalletStats
	decodeErr error
	decoded   int
}

func (d *stubDecoder) Decode(ctx context.Context, txHash string) (*entity.TransactionRecord, error) {
	d.decoded++
	if d.decodeErr != nil {
		return nil, d.decodeErr
	}
	return d.tx, nil
}

func (d *stubDecoder) AddressStats(ctx context.Context, address string) (*entity.WalletStats, error) {
	if d.stats == nil {
		return nil, errors.New("no stats")
	}
	return d.stats, nil
}

type stubPredictor struct {
	domain entity.PredictionDomain
	result entity.PredictionResult
	err    error
}

func (p *stubPredictor) Domain() entity.PredictionDomain { return p.domain }
func (p *stubPredictor) Available() bool                 { return p.err == nil }
func (p *stubPredictor) Predict(ctx context.Context, features *entity.FeatureVector) (entity.PredictionResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type testHarness struct {
	server     *Server
	decoder    *stubDecoder
	predictors *service.PredictorSet
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.HTTPPort = 8080
	cfg.API.RequestTimeout = 5 * time.Second
	cfg.API.CORSOrigins = []string{"http://localhost:3000"}
	cfg.Ethereum.RPCURL = "https://example.invalid/rpc"
	cfg.Models = config.ModelsConfig{
		Dir:          t.TempDir(),
		FraudModel:   "fraud.json",
		GasModel:     "gas.json",
		TxClassifier: "txtype.json",
	}

	log := logger.NewNop()
	decoder := &stubDecoder{
		tx: &entity.TransactionRecord{
			Hash:         testTxHash,
			From:         "0x1111111111111111111111111111111111111111",
			To:           "0x2222222222222222222222222222222222222222",
			ValueETH:     1.5,
			GasUsed:      21000,
			GasLimit:     21000,
			GasPriceGwei: 25.0,
			FeeETH:       0.000525,
			InputData:    "0x",
			Status:       entity.TxStatusSuccess,
		},
	}
	predictors := &service.PredictorSet{
		Fraud: &stubPredictor{
			domain: entity.DomainFraud,
			result: &entity.FraudResult{RiskScore: 0.12},
		},
		Gas: &stubPredictor{
			domain: entity.DomainGas,
			result: &entity.GasResult{PredictedGwei: 24.0},
		},
		Classification: &stubPredictor{
			domain: entity.DomainClassification,
			result: &entity.ClassificationResult{
				Category:     "Simple Transfer",
				Confidence:   0.9,
				Distribution: map[string]float64{"Simple Transfer": 0.9, "Other": 0.1},
			},
		},
	}

	extractor := service.NewFeatureExtractor()
	rules := service.NewRuleEngine(service.DefaultRuleEngineConfig())
	explainer := appservice.NewExplanationApplicationService(
		decoder,
		predictors,
		extractor,
		rules,
		service.NewNarrativeComposer(service.DefaultComposerConfig()),
		service.NewRecommendationGenerator(),
		nil,
		appservice.Options{ETHPriceUSD: 2000},
		log,
	)

	handlers := NewHandlers(explainer, decoder, extractor, predictors, rules,
		ml.NewModelRegistry(cfg, log), cfg, log)
	return &testHarness{
		server:     NewServer(cfg, handlers, log),
		decoder:    decoder,
		predictors: predictors,
	}
}

func (h *testHarness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRootEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Blockchain Transaction Explainer", body["service"])
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["rpc_configured"])

	// no artifacts on disk, so nothing is loaded
	models, ok := body["models_loaded"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, models["fraud_model"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, rec)["detail"])
}

func TestExplainEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/explain", map[string]string{"tx_hash": testTxHash})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, testTxHash, body["tx_hash"])
	assert.Equal(t, "LOW", body["fraud_analysis"].(map[string]interface{})["risk_level"])
}

func TestExplainRejectsMalformedHashBeforeDecoding(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/explain", map[string]string{"tx_hash": "0x123"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid transaction hash format", decodeBody(t, rec)["detail"])
	assert.Zero(t, h.decoder.decoded)
}

func TestExplainTransactionNotFound(t *testing.T) {
	h := newTestHarness(t)
	h.decoder.decodeErr = entity.ErrTransactionNotFound

	rec := h.do(t, http.MethodPost, "/api/explain", map[string]string{"tx_hash": testTxHash})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found", decodeBody(t, rec)["detail"])
}

func TestExplainInvalidBody(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/api/explain", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickSummaryEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/api/explain/"+testTxHash+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Success: Transferred 1.5000 ETH", body["summary"])
}

func TestDecodeTxEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/decode_tx", map[string]string{"tx_hash": testTxHash})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, testTxHash, body["hash"])
	assert.Equal(t, 1.5, body["value_eth"])
}

func TestFeaturesEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/api/tx/"+testTxHash+"/features", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "wallet_features")
	assert.Contains(t, body, "gas_features")
	assert.Contains(t, body, "tx_features")
}

func TestPredictFraudEndpoint(t *testing.T) {
	h := newTestHarness(t)

	payload := map[string]interface{}{
		"transaction_count":           120,
		"total_value_sent":            45.5,
		"total_value_received":        50.2,
		"unique_addresses_interacted": 30,
		"avg_transaction_value":       0.8,
		"max_transaction_value":       12.0,
		"min_transaction_value":       0.01,
		"avg_gas_price":               28.0,
		"failed_transaction_ratio":    0.03,
		"time_between_txs_avg":        5400,
	}

	rec := h.do(t, http.MethodPost, "/api/predict/fraud", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 0.12, body["risk_score"])
	assert.Equal(t, "LOW", body["risk_level"])
	assert.Contains(t, body["recommendation"], "appears safe")
}

func TestPredictFraudValidation(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/predict/fraud", map[string]interface{}{
		"failed_transaction_ratio": 1.5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/predict/fraud", map[string]interface{}{
		"transaction_count": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPredictFraudModelUnavailable(t *testing.T) {
	h := newTestHarness(t)
	h.predictors.Fraud = &stubPredictor{domain: entity.DomainFraud, err: entity.ErrPredictorUnavailable}

	rec := h.do(t, http.MethodPost, "/api/predict/fraud", map[string]interface{}{
		"transaction_count": 10,
	})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Model not loaded", decodeBody(t, rec)["detail"])
}

func TestPredictGasEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/predict/gas", map[string]interface{}{
		"value_eth": 0.5,
		"gas_limit": 21000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 24.0, body["predicted_gas_price_gwei"])
	// simple transfer consumes intrinsic gas only: 24 gwei * 21000 / 1e9
	assert.InDelta(t, 0.000504, body["predicted_total_fee_eth"].(float64), 1e-9)
	assert.Equal(t, "Moderate congestion - Normal fees expected", body["network_status"])

	interval := body["confidence_interval"].(map[string]interface{})
	assert.InDelta(t, 24.0*0.85, interval["low"].(float64), 1e-9)
	assert.InDelta(t, 24.0*1.15, interval["high"].(float64), 1e-9)
}

func TestPredictGasValidation(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/predict/gas", map[string]interface{}{
		"gas_limit": 1000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/predict/gas", map[string]interface{}{
		"gas_limit":          21000,
		"network_congestion": 1.5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPredictTxTypeEndpoint(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodPost, "/api/predict/tx_type", map[string]interface{}{
		"value_eth":         1.5,
		"gas_used":          21000,
		"input_data_length": 0,
		"to_address_type":   "eoa",
		"from_address_type": "eoa",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Simple Transfer", body["category"])
	assert.Equal(t, "A basic ETH transfer between two addresses", body["description"])
	assert.Nil(t, body["subcategory"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/explain", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	h := newTestHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.server.Router().ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHarness(t)

	rec := h.do(t, http.MethodGet, "/health", nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 8)
}
