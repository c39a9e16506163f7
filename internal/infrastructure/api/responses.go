package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/infrastructure/logger"
)

// errorResponse is the uniform error envelope
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeDomainError maps pipeline errors onto HTTP status codes
func writeDomainError(w http.ResponseWriter, log *logger.Logger, err error) {
	var featureErr *entity.FeatureError
	var invariantErr *entity.InvariantViolation

	switch {
	case errors.Is(err, entity.ErrInvalidTxHash):
		writeError(w, http.StatusBadRequest, "Invalid transaction hash format")
	case errors.Is(err, entity.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, entity.ErrPredictorUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Model not loaded")
	case errors.Is(err, entity.ErrPredictorInput), errors.As(err, &featureErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &invariantErr):
		log.Error("Invariant violation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal processing error")
	default:
		log.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
