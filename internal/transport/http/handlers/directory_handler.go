package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/service"
)

// DirectoryHandler serves the read side: dashboard, profiles, projects,
// certificates and vote state.
type DirectoryHandler struct {
	directoryService *service.DirectoryService
	logger           *zap.Logger
}

func NewDirectoryHandler(directoryService *service.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService, logger: logger}
}

func (h *DirectoryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.directoryService.Dashboard(r.Context())
	if err != nil {
		writeUpstreamError(w, h.logger, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (h *DirectoryHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.directoryService.Profiles(r.Context())
	if err != nil {
		writeUpstreamError(w, h.logger, "list profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *DirectoryHandler) ProfileByOwner(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !domain.IsAddress(address) {
		writeError(w, http.StatusBadRequest, "INVALID_ADDRESS", "Invalid Sui address")
		return
	}

	profile, err := h.directoryService.ProfileByOwner(r.Context(), address)
	h.writeProfile(w, "profile by owner", profile, err)
}

func (h *DirectoryHandler) ProfileByUsername(w http.ResponseWriter, r *http.Request) {
	profile, err := h.directoryService.ProfileByUsername(r.Context(), r.PathValue("username"))
	h.writeProfile(w, "profile by username", profile, err)
}

func (h *DirectoryHandler) Developer(w http.ResponseWriter, r *http.Request) {
	dev, err := h.directoryService.Developer(r.Context(), r.PathValue("handle"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Developer not found")
			return
		}
		writeUpstreamError(w, h.logger, "developer", err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// Projects lists the projects named by ?ids=, or every verified profile's
// projects when ids is not given.
func (h *DirectoryHandler) Projects(w http.ResponseWriter, r *http.Request) {
	var (
		projects []domain.Project
		err      error
	)
	if r.URL.Query().Has("ids") {
		projects, err = h.directoryService.Projects(r.Context(), parseIDs(r))
	} else {
		projects, err = h.directoryService.AllProjects(r.Context())
	}
	if err != nil {
		writeUpstreamError(w, h.logger, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *DirectoryHandler) Certificates(w http.ResponseWriter, r *http.Request) {
	certs, err := h.directoryService.Certificates(r.Context(), parseIDs(r))
	if err != nil {
		writeUpstreamError(w, h.logger, "list certificates", err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (h *DirectoryHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	voted, err := h.directoryService.HasVoted(r.Context(), r.PathValue("id"), r.PathValue("address"))
	if err != nil {
		writeUpstreamError(w, h.logger, "has voted", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasVoted": voted})
}

func (h *DirectoryHandler) writeProfile(w http.ResponseWriter, op string, profile *domain.Profile, err error) {
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		writeUpstreamError(w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// parseIDs reads ?ids=a,b and repeated ?ids=a&ids=b alike.
func parseIDs(r *http.Request) []domain.ObjectID {
	var ids []domain.ObjectID
	for _, v := range r.URL.Query()["ids"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
