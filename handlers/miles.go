// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/miles-for-meals/middleware"
	"github.com/danielhkuo/miles-for-meals/models"
	"github.com/danielhkuo/miles-for-meals/records"
)

type MilesHandler struct {
	svc *records.Service
}

func NewMilesHandler(svc *records.Service) *MilesHandler {
	return &MilesHandler{svc: svc}
}

// GetMiles handles GET /api/miles
func (h *MilesHandler) GetMiles(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Current(r.Context())
	if err != nil {
		slog.Error("failed to read current record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// UpdateMiles handles POST /api/miles
func (h *MilesHandler) UpdateMiles(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMilesRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	rec, err := h.svc.Update(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to update data")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WriteResponse{
		Success: true,
		Data:    rec,
	})
}

// ListBackups handles GET /api/backups
func (h *MilesHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.svc.ListBackups(r.Context())
	if err != nil {
		slog.Error("failed to list backups", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to list backups")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, backups)
}

// Restore handles POST /api/restore
// Copies a backup into the current record without re-stamping it
func (h *MilesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req models.RestoreRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	rec, err := h.svc.Restore(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to restore backup")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WriteResponse{
		Success: true,
		Data:    rec,
	})
}

func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
}

// writeServiceError maps record service errors onto status codes.
// Anything unrecognized is a 500 with the generic message.
func writeServiceError(w http.ResponseWriter, err error, internalMessage string) {
	var validationErr *records.ValidationError

	switch {
	case errors.Is(err, records.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid PIN")
	case errors.As(err, &validationErr):
		middleware.ErrorResponse(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, records.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Backup not found")
	default:
		slog.Error(internalMessage, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, internalMessage)
	}
}
