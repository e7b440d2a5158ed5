package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/sui"
	"github.com/vedran77/devfolio/internal/walrus"
	"github.com/vedran77/devfolio/pkg/validator"
)

// statusClientClosedRequest is the nginx convention for a request whose
// client went away before the response was ready.
const statusClientClosedRequest = 499

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return false
	}
	return true
}

// writeUpstreamError reports a failure of the Sui node or the Walrus
// publisher. A cancelled request is logged at debug level only. Anything
// else is an internal error.
func writeUpstreamError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var (
		rpcErr    *sui.RPCError
		httpErr   *sui.HTTPError
		walrusErr *walrus.HTTPError
	)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Debug(op, zap.Error(err))
		writeError(w, statusClientClosedRequest, "REQUEST_CANCELLED", "The request was cancelled")
	case errors.As(err, &rpcErr), errors.As(err, &httpErr), errors.As(err, &walrusErr), isTransportError(err):
		logger.Warn(op, zap.Error(err))
		writeError(w, http.StatusBadGateway, "CHAIN_UNAVAILABLE", "The network could not be reached, please try again")
	default:
		logger.Error(op, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func isTransportError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}
