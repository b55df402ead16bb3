package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/tsimport/internal/core"
	"github.com/JonMunkholm/tsimport/internal/ingest"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/web/middleware"
	"github.com/JonMunkholm/tsimport/internal/web/views"
)

// ErrorResponse is the JSON body of every API error. Error is the one-line
// display form "Message (Code: XXX). Action".
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrImportNotFound), errors.Is(err, core.ErrUnknownColumn):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrEmptyFile), errors.Is(err, core.ErrNoDataRows), errors.Is(err, core.ErrNoFile),
		errors.Is(err, ingest.ErrUnknownTimeColumn), errors.Is(err, ingest.ErrTimeFormatNeedsName),
		errors.Is(err, errBadRequest), strings.Contains(err.Error(), "parse error"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errBadRequest marks malformed bodies and parameters.
var errBadRequest = errors.New("invalid request")

// respondError logs err with the request ID and client, then writes the mapped user message.
// API paths get JSON; pages get an HTML alert. Errors that fall through to the
// generic message are logged at error level whatever their status.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ue := core.NewUserError(err)
	msg := ue.User

	logger := logging.WithFields(r.Context(),
		"path", r.URL.Path,
		"method", r.Method,
		"client_ip", middleware.ClientIP(r),
		"user_agent", r.UserAgent(),
	)
	attrs := []any{"status", status, "code", msg.Code, "error", ue.Technical.Error()}
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") || strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeJSON(w, status, ErrorResponse{
			Error:   core.FormatUserError(err),
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = views.Layout("Error", views.ErrorAlert(msg)).Render(r.Context(), w)
}

// writeJSON encodes v with the given status. Encoding failures are logged only.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// render writes an HTML component with status 200.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
