package entity

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Decode-level failures are fatal for the request;
// predictor-level failures degrade a single prediction domain; invariant
// violations indicate a programming or configuration error.
var (
	// ErrInvalidTxHash rejects malformed hashes before the pipeline runs
	ErrInvalidTxHash = errors.New("invalid transaction hash format")

	// ErrTransactionNotFound means the chain has no transaction for the hash
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDecodeFailed wraps RPC or decoding failures while building the record
	ErrDecodeFailed = errors.New("failed to decode transaction")

	// ErrPredictorUnavailable means the model artifact was never loaded
	ErrPredictorUnavailable = errors.New("predictor unavailable")

	// ErrPredictorTimeout means a predict call exceeded its deadline
	ErrPredictorTimeout = errors.New("predictor timed out")

	// ErrPredictorInput means the feature vector did not match the model shape
	ErrPredictorInput = errors.New("predictor input mismatch")
)

// FeatureError reports a transaction record that cannot produce a valid
// feature vector for one domain. Fatal only for that prediction domain.
type FeatureError struct {
	Domain PredictionDomain
	Field  string
	Reason string
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature extraction failed for %s: field %q: %s", e.Domain, e.Field, e.Reason)
}

// InvariantViolation reports a caller contract violation such as an
// out-of-range tier input or a mismatched feature schema. It should never
// occur in correct operation and is logged distinctly from user-facing errors.
type InvariantViolation struct {
	Component string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Component, e.Detail)
}
