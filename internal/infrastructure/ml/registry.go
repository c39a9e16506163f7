package ml

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/config"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// ModelInfo summarizes loaded artifacts for the health endpoint
type ModelInfo struct {
	Fraud          bool `json:"fraud_model"`
	Gas            bool `json:"gas_model"`
	Classification bool `json:"tx_classifier"`
}

// ModelRegistry loads the three model artifacts at startup and serves them to
// the predictor adapters. A missing or corrupt artifact is logged and leaves
// that slot nil; the corresponding predictor reports itself unavailable and
// explanations degrade for that domain instead of failing.
type ModelRegistry struct {
	config *config.ModelsConfig
	logger *logger.Logger

	mu         sync.RWMutex
	fraud      *ModelArtifact
	gas        *ModelArtifact
	classifier *ModelArtifact
}

// NewModelRegistry creates the registry and performs the initial load
func NewModelRegistry(cfg *config.Config, logger *logger.Logger) *ModelRegistry {
	r := &ModelRegistry{
		config: &cfg.Models,
		logger: logger.WithComponent("model-registry"),
	}
	r.Reload()
	return r
}

// Reload re-reads all artifacts from disk. Slots whose artifact fails to load
// are cleared so stale coefficients are never served.
func (r *ModelRegistry) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fraud = r.load(r.config.FraudModel, "fraud")
	r.gas = r.load(r.config.GasModel, "gas")
	r.classifier = r.load(r.config.TxClassifier, "classification")

	r.logger.Info("Model artifacts loaded",
		zap.Bool("fraud", r.fraud != nil),
		zap.Bool("gas", r.gas != nil),
		zap.Bool("classification", r.classifier != nil))
}

func (r *ModelRegistry) load(filename, domain string) *ModelArtifact {
	path := filepath.Join(r.config.Dir, filename)
	artifact, err := LoadArtifact(path)
	if err != nil {
		r.logger.Warn("Model artifact unavailable, predictions will degrade",
			zap.String("domain", domain),
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	r.logger.Info("Loaded model artifact",
		zap.String("domain", domain),
		zap.String("name", artifact.Name),
		zap.String("kind", artifact.Kind),
		zap.Int("features", len(artifact.FeatureNames)))
	return artifact
}

// Fraud returns the fraud model, or nil if it failed to load
func (r *ModelRegistry) Fraud() *ModelArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fraud
}

// Gas returns the gas-fee model, or nil if it failed to load
func (r *ModelRegistry) Gas() *ModelArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gas
}

// Classifier returns the transaction-type model, or nil if it failed to load
func (r *ModelRegistry) Classifier() *ModelArtifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classifier
}

// Artifact returns the model for a prediction domain
func (r *ModelRegistry) Artifact(domain entity.PredictionDomain) *ModelArtifact {
	switch domain {
	case entity.DomainFraud:
		return r.Fraud()
	case entity.DomainGas:
		return r.Gas()
	case entity.DomainClassification:
		return r.Classifier()
	}
	return nil
}

// Info reports which artifacts are currently loaded
func (r *ModelRegistry) Info() ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ModelInfo{
		Fraud:          r.fraud != nil,
		Gas:            r.gas != nil,
		Classification: r.classifier != nil,
	}
}
