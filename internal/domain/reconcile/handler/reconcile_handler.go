// Package handler exposes the import pipeline over HTTP/JSON.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FACorreiaa/stockflow/internal/domain/document"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/engine"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/executor"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/service"
)

// 10 MiB upload cap, matching the largest stocktake sheets seen in practice
const maxUploadBytes = 10 << 20

// ReconcileHandler handles import session endpoints.
type ReconcileHandler struct {
	svc            *service.Service
	autoMapDefault bool
	logger         *slog.Logger
}

// NewReconcileHandler creates a new reconcile handler. autoMapDefault applies
// when an upload does not set the autoMap form field.
func NewReconcileHandler(svc *service.Service, autoMapDefault bool, logger *slog.Logger) *ReconcileHandler {
	return &ReconcileHandler{svc: svc, autoMapDefault: autoMapDefault, logger: logger}
}

// Register mounts all session routes on the mux.
func (h *ReconcileHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/import/sessions", h.startSession)
	mux.HandleFunc("GET /v1/import/sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /v1/import/sessions/{id}", h.abortSession)
	mux.HandleFunc("POST /v1/import/sessions/{id}/remap", h.remap)
	mux.HandleFunc("POST /v1/import/sessions/{id}/run", h.runImport)
	mux.HandleFunc("PATCH /v1/import/sessions/{id}/items/{itemId}", h.editCandidate)
	mux.HandleFunc("DELETE /v1/import/sessions/{id}/items/{itemId}", h.deleteCandidate)
	mux.HandleFunc("GET /v1/import/sessions/{id}/items/{itemId}/suggestions", h.suggestions)
	mux.HandleFunc("PATCH /v1/import/sessions/{id}/mappings/{itemId}", h.updateMapping)
}

func (h *ReconcileHandler) startSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		h.writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	autoMap := h.autoMapDefault
	if v := r.FormValue("autoMap"); v != "" {
		autoMap = v == "true"
	}
	session, err := h.svc.StartSession(r.Context(), header.Filename, data, autoMap)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, session)
}

func (h *ReconcileHandler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	session, err := h.svc.Session(id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *ReconcileHandler) abortSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Abort(id); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReconcileHandler) remap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AutoMap bool `json:"autoMap"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.svc.Remap(id, req.AutoMap)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *ReconcileHandler) runImport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	summary, err := h.svc.RunImport(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="import-report.csv"`)
		if err := executor.WriteCSV(w, summary); err != nil {
			h.logger.Error("failed to stream import report", slog.Any("error", err))
		}
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *ReconcileHandler) editCandidate(w http.ResponseWriter, r *http.Request) {
	sessionID, itemID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	var edit engine.CandidateEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.svc.EditCandidate(sessionID, itemID, edit)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *ReconcileHandler) deleteCandidate(w http.ResponseWriter, r *http.Request) {
	sessionID, itemID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	session, err := h.svc.DeleteCandidate(sessionID, itemID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *ReconcileHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	sessionID, itemID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			h.writeError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}
	suggestions, err := h.svc.Suggestions(sessionID, itemID, limit)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (h *ReconcileHandler) updateMapping(w http.ResponseWriter, r *http.Request) {
	sessionID, itemID, ok := h.pathIDs(w, r)
	if !ok {
		return
	}
	var change service.MappingChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.svc.UpdateMapping(sessionID, itemID, change)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

func (h *ReconcileHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReconcileHandler) pathIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	sessionID, ok := h.pathID(w, r, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return sessionID, itemID, true
}

func (h *ReconcileHandler) handleError(w http.ResponseWriter, err error) {
	var invalid *engine.InvalidMappingError
	var extraction *document.ExtractionError

	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrCandidateNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		h.writeError(w, http.StatusUnprocessableEntity, invalid.Error())
	case errors.As(err, &extraction):
		h.writeError(w, http.StatusBadRequest, extraction.Error())
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *ReconcileHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *ReconcileHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
