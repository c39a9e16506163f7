package ml

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

const gasArtifact = `{
	"name": "gas-v1",
	"kind": "linear",
	"feature_names": ["a", "b"],
	"weights": [2.0, 1.0],
	"intercept": 10.0
}`

func testRegistry(t *testing.T, artifacts map[string]string) *ModelRegistry {
	t.Helper()
	dir := t.TempDir()
	for name, content := range artifacts {
		writeArtifact(t, dir, name, content)
	}
	cfg := &config.Config{}
	cfg.Models = config.ModelsConfig{
		Dir:            dir,
		FraudModel:     "fraud.json",
		GasModel:       "gas.json",
		TxClassifier:   "txtype.json",
		PredictTimeout: time.Second,
	}
	return NewModelRegistry(cfg, logger.NewNop())
}

func TestRegistryPartialLoad(t *testing.T) {
	registry := testRegistry(t, map[string]string{
		"fraud.json": logisticArtifact,
		// gas and classifier artifacts missing
	})

	assert.NotNil(t, registry.Fraud())
	assert.Nil(t, registry.Gas())
	assert.Nil(t, registry.Classifier())

	info := registry.Info()
	assert.True(t, info.Fraud)
	assert.False(t, info.Gas)
	assert.False(t, info.Classification)
}

func TestRegistryReloadClearsCorruptSlot(t *testing.T) {
	registry := testRegistry(t, map[string]string{
		"fraud.json": logisticArtifact,
	})
	require.NotNil(t, registry.Fraud())

	writeArtifact(t, registry.config.Dir, "fraud.json", "{broken")
	registry.Reload()

	assert.Nil(t, registry.Fraud())
}

func TestFraudPredictorPredict(t *testing.T) {
	registry := testRegistry(t, map[string]string{"fraud.json": logisticArtifact})
	predictor := NewFraudPredictor(registry, time.Second, logger.NewNop())
	require.True(t, predictor.Available())

	fv, err := entity.NewFeatureVector(entity.DomainFraud, []string{"a", "b"}, []float64{3.0, 0.5})
	require.NoError(t, err)

	res, err := predictor.Predict(context.Background(), fv)
	require.NoError(t, err)
	fraud, ok := res.(*entity.FraudResult)
	require.True(t, ok)

	assert.GreaterOrEqual(t, fraud.RiskScore, 0.0)
	assert.LessOrEqual(t, fraud.RiskScore, 1.0)
	// only feature "a" contributes positively (weight 1.0, value 3.0)
	assert.Equal(t, []string{"Elevated a"}, fraud.RiskFactors)
}

func TestGasPredictorPredict(t *testing.T) {
	registry := testRegistry(t, map[string]string{"gas.json": gasArtifact})
	predictor := NewGasPredictor(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainGas, []string{"a", "b"}, []float64{5.0, 2.0})
	require.NoError(t, err)

	res, err := predictor.Predict(context.Background(), fv)
	require.NoError(t, err)
	gas, ok := res.(*entity.GasResult)
	require.True(t, ok)
	assert.InDelta(t, 22.0, gas.PredictedGwei, 1e-9)
}

func TestGasPredictorFloorsPrediction(t *testing.T) {
	registry := testRegistry(t, map[string]string{"gas.json": gasArtifact})
	predictor := NewGasPredictor(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainGas, []string{"a", "b"}, []float64{-100, 0})
	require.NoError(t, err)

	res, err := predictor.Predict(context.Background(), fv)
	require.NoError(t, err)
	gas := res.(*entity.GasResult)
	assert.Equal(t, 1.0, gas.PredictedGwei)
}

func TestTxClassifierPredict(t *testing.T) {
	registry := testRegistry(t, map[string]string{"txtype.json": multinomialArtifact})
	predictor := NewTxClassifier(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainClassification, []string{"a", "b"}, []float64{4.0, 1.0})
	require.NoError(t, err)

	res, err := predictor.Predict(context.Background(), fv)
	require.NoError(t, err)
	cls, ok := res.(*entity.ClassificationResult)
	require.True(t, ok)

	assert.Equal(t, "X", cls.Category)
	assert.Len(t, cls.Distribution, 3)
	assert.InDelta(t, cls.Distribution["X"], cls.Confidence, 1e-9)
}

func TestPredictorUnavailable(t *testing.T) {
	registry := testRegistry(t, nil)
	predictor := NewFraudPredictor(registry, time.Second, logger.NewNop())
	assert.False(t, predictor.Available())

	fv, err := entity.NewFeatureVector(entity.DomainFraud, []string{"a", "b"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = predictor.Predict(context.Background(), fv)
	assert.ErrorIs(t, err, entity.ErrPredictorUnavailable)
}

func TestPredictorRejectsWrongDomainVector(t *testing.T) {
	registry := testRegistry(t, map[string]string{"fraud.json": logisticArtifact})
	predictor := NewFraudPredictor(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainGas, []string{"a", "b"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = predictor.Predict(context.Background(), fv)
	assert.ErrorIs(t, err, entity.ErrPredictorInput)

	_, err = predictor.Predict(context.Background(), nil)
	assert.ErrorIs(t, err, entity.ErrPredictorInput)
}

func TestPredictorSchemaMismatch(t *testing.T) {
	registry := testRegistry(t, map[string]string{"fraud.json": logisticArtifact})
	predictor := NewFraudPredictor(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainFraud, []string{"b", "a"}, []float64{1, 2})
	require.NoError(t, err)

	_, err = predictor.Predict(context.Background(), fv)
	var iv *entity.InvariantViolation
	assert.ErrorAs(t, err, &iv)
}

func TestPredictorCancelledContext(t *testing.T) {
	registry := testRegistry(t, map[string]string{"fraud.json": logisticArtifact})
	predictor := NewFraudPredictor(registry, time.Second, logger.NewNop())

	fv, err := entity.NewFeatureVector(entity.DomainFraud, []string{"a", "b"}, []float64{1, 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = predictor.Predict(ctx, fv)
	assert.Error(t, err)
}
