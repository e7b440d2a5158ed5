package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/service"
	"github.com/vedran77/devfolio/internal/sui"
	"github.com/vedran77/devfolio/internal/transport/http/middleware"
	"github.com/vedran77/devfolio/pkg/validator"
)

// TxHandler prepares wallet transactions and executes them once signed.
type TxHandler struct {
	txService *service.TxService
	logger    *zap.Logger
}

func NewTxHandler(txService *service.TxService, logger *zap.Logger) *TxHandler {
	return &TxHandler{txService: txService, logger: logger}
}

func (h *TxHandler) VerifyProfile(w http.ResponseWriter, r *http.Request) {
	var input service.ProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.ValidateProfile(input.Name, input.Username, input.Github, input.Linkedin, input.Bio, input.AvatarBlobID); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	sub, err := h.txService.PrepareVerifyProfile(r.Context(), middleware.GetAddress(r.Context()), input)
	h.writePrepared(w, "prepare verify profile", sub, err)
}

func (h *TxHandler) RemoveProfile(w http.ResponseWriter, r *http.Request) {
	var input service.RemoveProfileInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.ValidateObjectID("profileId", input.ProfileID); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	sub, err := h.txService.PrepareRemoveProfile(r.Context(), middleware.GetAddress(r.Context()), input)
	h.writePrepared(w, "prepare remove profile", sub, err)
}

func (h *TxHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input service.ProjectInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.ValidateProject(input.ProfileID, input.Title, input.Description, input.Technologies, input.GithubLink, input.YoutubeLink); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	sub, err := h.txService.PrepareCreateProject(r.Context(), middleware.GetAddress(r.Context()), input)
	h.writePrepared(w, "prepare create project", sub, err)
}

func (h *TxHandler) CreateCertificate(w http.ResponseWriter, r *http.Request) {
	var input service.CertificateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if errs := validator.ValidateCertificate(input.ProfileID, input.Title, input.Organization, input.IssueDate, input.ExpiryDate, input.VerifyLink); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	sub, err := h.txService.PrepareCreateCertificate(r.Context(), middleware.GetAddress(r.Context()), input)
	h.writePrepared(w, "prepare create certificate", sub, err)
}

func (h *TxHandler) Vote(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if errs := validator.ValidateObjectID("id", projectID); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	sub, err := h.txService.PrepareVote(r.Context(), middleware.GetAddress(r.Context()), projectID)
	h.writePrepared(w, "prepare vote", sub, err)
}

func (h *TxHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID")
		return
	}

	var input service.ExecuteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	sub, err := h.txService.Execute(r.Context(), middleware.GetAddress(r.Context()), id, input)
	if err != nil {
		var execErr *sui.ExecutionError
		switch {
		case errors.Is(err, service.ErrWalletNotConnected):
			writeError(w, http.StatusUnauthorized, "WALLET_NOT_CONNECTED", "Please connect your wallet first")
		case errors.Is(err, service.ErrMissingSignature):
			writeError(w, http.StatusBadRequest, "MISSING_SIGNATURE", "Signature is required")
		case errors.Is(err, service.ErrSubmissionNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Submission not found")
		case errors.Is(err, service.ErrNotSubmissionOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Submission belongs to another wallet")
		case errors.Is(err, service.ErrAlreadyExecuted):
			writeError(w, http.StatusConflict, "ALREADY_EXECUTED", "Submission was already executed")
		case errors.As(err, &execErr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error": map[string]string{
					"code":    "TX_FAILED",
					"message": "Transaction failed: " + execErr.Message,
				},
				"submission": sub,
			})
		case errors.As(err, new(*sui.RPCError)):
			// The node refused the signed transaction.
			writeError(w, http.StatusUnprocessableEntity, "TX_FAILED", "Transaction failed: "+err.Error())
		default:
			writeUpstreamError(w, h.logger, "execute", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

func (h *TxHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.txService.Submissions(r.Context(), middleware.GetAddress(r.Context()), limit)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotConnected) {
			writeError(w, http.StatusUnauthorized, "WALLET_NOT_CONNECTED", "Please connect your wallet first")
			return
		}
		h.logger.Error("list submissions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *TxHandler) writePrepared(w http.ResponseWriter, op string, sub *domain.Submission, err error) {
	if err != nil {
		if errors.Is(err, service.ErrWalletNotConnected) {
			writeError(w, http.StatusUnauthorized, "WALLET_NOT_CONNECTED", "Please connect your wallet first")
			return
		}
		var rpcErr *sui.RPCError
		if errors.As(err, &rpcErr) {
			// The node could not build the call, e.g. a wrong object id or
			// no gas coins for the sender.
			writeError(w, http.StatusUnprocessableEntity, "TX_BUILD_FAILED", rpcErr.Message)
			return
		}
		writeUpstreamError(w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
