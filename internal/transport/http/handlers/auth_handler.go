package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/service"
)

// AuthHandler runs the wallet sign-in flow.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	var input service.ChallengeInput
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.authService.Challenge(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, "INVALID_ADDRESS", "Invalid Sui address")
			return
		}
		h.logger.Error("auth challenge", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input service.VerifyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.authService.Verify(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAddress):
			writeError(w, http.StatusBadRequest, "INVALID_ADDRESS", "Invalid Sui address")
		case errors.Is(err, service.ErrNoChallenge):
			writeError(w, http.StatusUnauthorized, "NO_CHALLENGE", "Sign-in challenge is missing or expired")
		case errors.Is(err, service.ErrInvalidWalletSig):
			writeError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "Signature does not match the wallet")
		default:
			h.logger.Error("auth verify", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
