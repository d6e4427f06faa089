// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/docstitch/internal/delivery"
	"github.com/pdiddy/docstitch/internal/history"
	"github.com/pdiddy/docstitch/internal/stitch"
	"github.com/pdiddy/docstitch/pkg/types"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	File  string `json:"file,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var orderErr *types.OrderError
	switch {
	case errors.Is(err, types.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, types.ErrUnsupportedImageFormat),
		errors.Is(err, types.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrConversionFailed):
		return http.StatusBadGateway
	case errors.Is(err, delivery.ErrNoName),
		errors.Is(err, stitch.ErrEmptyBatch),
		errors.As(err, &orderErr):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// kindOf names the error kind for clients.
func kindOf(err error) string {
	switch {
	case errors.Is(err, types.ErrUnsupportedFileType):
		return "unsupported_file_type"
	case errors.Is(err, types.ErrUnsupportedImageFormat):
		return "unsupported_image_format"
	case errors.Is(err, types.ErrMalformedDocument):
		return "malformed_document"
	case errors.Is(err, types.ErrConversionFailed):
		return "conversion_failed"
	}
	return ""
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error(), Kind: kindOf(err)}
	var fe *types.FileError
	if errors.As(err, &fe) {
		body.File = fe.Name
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
