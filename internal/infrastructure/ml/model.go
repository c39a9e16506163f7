package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rotisserie/eris"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

// Model kinds supported by the artifact format
const (
	KindLogistic    = "logistic"
	KindLinear      = "linear"
	KindMultinomial = "multinomial"
)

// ModelArtifact is the on-disk JSON representation of a trained model:
// the feature schema it was trained on plus its coefficients. The feature
// name ordering in the artifact is authoritative; a vector that does not
// match it exactly is a configuration error, not a data error.
type ModelArtifact struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names"`

	// Optional standardization applied before scoring
	Means  []float64 `json:"means,omitempty"`
	Scales []float64 `json:"scales,omitempty"`

	// Binary / regression coefficients
	Weights   []float64 `json:"weights,omitempty"`
	Intercept float64   `json:"intercept,omitempty"`

	// Multinomial coefficients, one row per category
	Categories         []string    `json:"categories,omitempty"`
	CategoryWeights    [][]float64 `json:"category_weights,omitempty"`
	CategoryIntercepts []float64   `json:"category_intercepts,omitempty"`
}

// LoadArtifact reads and validates a model artifact from disk
func LoadArtifact(path string) (*ModelArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read artifact %s", path)
	}
	var m ModelArtifact
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "model: parse artifact %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, eris.Wrapf(err, "model: invalid artifact %s", path)
	}
	return &m, nil
}

func (m *ModelArtifact) validate() error {
	if len(m.FeatureNames) == 0 {
		return fmt.Errorf("no feature names")
	}
	switch m.Kind {
	case KindLogistic, KindLinear:
		if len(m.Weights) != len(m.FeatureNames) {
			return fmt.Errorf("%d weights for %d features", len(m.Weights), len(m.FeatureNames))
		}
	case KindMultinomial:
		if len(m.Categories) == 0 {
			return fmt.Errorf("multinomial model without categories")
		}
		if len(m.CategoryWeights) != len(m.Categories) {
			return fmt.Errorf("%d weight rows for %d categories", len(m.CategoryWeights), len(m.Categories))
		}
		for i, row := range m.CategoryWeights {
			if len(row) != len(m.FeatureNames) {
				return fmt.Errorf("category %d: %d weights for %d features", i, len(row), len(m.FeatureNames))
			}
		}
		if len(m.CategoryIntercepts) != 0 && len(m.CategoryIntercepts) != len(m.Categories) {
			return fmt.Errorf("%d intercepts for %d categories", len(m.CategoryIntercepts), len(m.Categories))
		}
	default:
		return fmt.Errorf("unknown model kind %q", m.Kind)
	}
	if len(m.Means) != 0 && len(m.Means) != len(m.FeatureNames) {
		return fmt.Errorf("%d means for %d features", len(m.Means), len(m.FeatureNames))
	}
	if len(m.Scales) != 0 && len(m.Scales) != len(m.FeatureNames) {
		return fmt.Errorf("%d scales for %d features", len(m.Scales), len(m.FeatureNames))
	}
	return nil
}

// CheckFeatures verifies that a feature vector matches the trained schema,
// name for name and in order
func (m *ModelArtifact) CheckFeatures(fv *entity.FeatureVector) error {
	if len(fv.Names) != len(m.FeatureNames) {
		return &entity.InvariantViolation{
			Component: "model:" + m.Name,
			Detail:    fmt.Sprintf("feature count mismatch: got %d, trained on %d", len(fv.Names), len(m.FeatureNames)),
		}
	}
	for i, name := range m.FeatureNames {
		if fv.Names[i] != name {
			return &entity.InvariantViolation{
				Component: "model:" + m.Name,
				Detail:    fmt.Sprintf("feature %d: got %q, trained on %q", i, fv.Names[i], name),
			}
		}
	}
	return nil
}

// normalize applies the artifact's standardization, if any
func (m *ModelArtifact) normalize(values []float64) []float64 {
	if len(m.Means) == 0 && len(m.Scales) == 0 {
		return values
	}
	out := make([]float64, len(values))
	copy(out, values)
	for i := range out {
		if len(m.Means) > 0 {
			out[i] -= m.Means[i]
		}
		if len(m.Scales) > 0 && m.Scales[i] != 0 {
			out[i] /= m.Scales[i]
		}
	}
	return out
}

// LinearScore evaluates the regression output for a feature vector
func (m *ModelArtifact) LinearScore(values []float64) float64 {
	v := m.normalize(values)
	score := m.Intercept
	for i, w := range m.Weights {
		score += w * v[i]
	}
	return score
}

// LogisticScore evaluates the positive-class probability in [0,1]
func (m *ModelArtifact) LogisticScore(values []float64) float64 {
	return 1 / (1 + math.Exp(-m.LinearScore(values)))
}

// Softmax evaluates the per-category probability distribution
func (m *ModelArtifact) Softmax(values []float64) map[string]float64 {
	v := m.normalize(values)
	logits := make([]float64, len(m.Categories))
	maxLogit := math.Inf(-1)
	for c, row := range m.CategoryWeights {
		s := 0.0
		if len(m.CategoryIntercepts) > 0 {
			s = m.CategoryIntercepts[c]
		}
		for i, w := range row {
			s += w * v[i]
		}
		logits[c] = s
		if s > maxLogit {
			maxLogit = s
		}
	}
	sum := 0.0
	exps := make([]float64, len(logits))
	for i, l := range logits {
		exps[i] = math.Exp(l - maxLogit)
		sum += exps[i]
	}
	dist := make(map[string]float64, len(m.Categories))
	for i, cat := range m.Categories {
		dist[cat] = exps[i] / sum
	}
	return dist
}
