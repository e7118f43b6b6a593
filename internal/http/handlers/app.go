package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/ledger"
	"studio/internal/storage"
	"studio/internal/studio"
)

// StatsReader serves the render ledger summary.
type StatsReader interface {
	Summary(ctx context.Context) (ledger.Summary, error)
}

// App carries the dependencies shared by the HTTP handlers.
type App struct {
	Studio         *studio.Studio
	Ledger         StatsReader
	Logger         *infra.Logger
	MaxUploadBytes int64
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// fail maps domain errors onto the JSON error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrImageNotFound):
		a.error(w, http.StatusNotFound, "image_not_found", err.Error())
	case errors.Is(err, domain.ErrLogoNotFound):
		a.error(w, http.StatusNotFound, "logo_not_found", err.Error())
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		a.error(w, http.StatusNotFound, "blob_not_found", "blob not found")
	case errors.Is(err, domain.ErrAlreadyProcessing):
		a.error(w, http.StatusConflict, "already_processing", err.Error())
	case errors.Is(err, domain.ErrNotCompleted):
		a.error(w, http.StatusConflict, "not_completed", err.Error())
	case errors.Is(err, domain.ErrUnknownPreset):
		a.error(w, http.StatusBadRequest, "unknown_preset", err.Error())
	case errors.Is(err, domain.ErrUnknownColor):
		a.error(w, http.StatusBadRequest, "unknown_color", err.Error())
	case errors.Is(err, domain.ErrInvalidOpacity):
		a.error(w, http.StatusBadRequest, "invalid_opacity", err.Error())
	case errors.Is(err, domain.ErrInvalidPosition):
		a.error(w, http.StatusBadRequest, "invalid_position", err.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		a.error(w, http.StatusUnsupportedMediaType, "unsupported_media", err.Error())
	default:
		if a.Logger != nil {
			a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handler failed")
		}
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}
