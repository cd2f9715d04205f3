// Package api exposes the notification endpoint over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shineum/notify-mailer/internal/compose"
	"github.com/shineum/notify-mailer/internal/gate"
	"github.com/shineum/notify-mailer/internal/provider"
)

const (
	successMessage = "Email sent successfully"
	failureError   = "Failed to send email"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandlerConfig holds the collaborators of a Handler.
type HandlerConfig struct {
	Gate     *gate.Gate
	Builder  *compose.Builder
	Provider provider.Provider

	// MaxBodySize caps the request body in bytes. Zero means unlimited.
	MaxBodySize int64
}

// Handler serves the send endpoint. Every request is gated, decoded, built
// into a message and handed to the provider exactly once.
type Handler struct {
	gate     *gate.Gate
	builder  *compose.Builder
	provider provider.Provider
	maxBody  int64
}

// NewHandler creates a Handler from the given configuration.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		gate:     cfg.Gate,
		builder:  cfg.Builder,
		provider: cfg.Provider,
		maxBody:  cfg.MaxBodySize,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if rej := h.gate.Check(r); rej != nil {
		slog.DebugContext(ctx, "request rejected",
			"request_id", RequestIDFromContext(ctx),
			"status", rej.Status,
			"reason", rej.Error,
		)
		writeJSON(w, rej.Status, errorResponse{Error: rej.Error, Message: rej.Message})
		return
	}

	if err := h.send(w, r); err != nil {
		slog.ErrorContext(ctx, "failed to send email",
			"request_id", RequestIDFromContext(ctx),
			"provider", h.provider.Name(),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: failureError, Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: successMessage})
}

// send runs the processing pipeline for an admitted request.
func (h *Handler) send(w http.ResponseWriter, r *http.Request) error {
	body := r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	req, err := compose.Decode(body)
	if err != nil {
		return err
	}

	msg, err := h.builder.Build(req)
	if err != nil {
		return err
	}

	if err := h.provider.Send(r.Context(), msg); err != nil {
		return fmt.Errorf("%s: %w", h.provider.Name(), err)
	}

	slog.InfoContext(r.Context(), "email sent",
		"request_id", RequestIDFromContext(r.Context()),
		"provider", h.provider.Name(),
		"to", msg.To,
		"size", len(msg.Raw),
	)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
