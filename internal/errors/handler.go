package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
)

// ErrorHandler provides centralized error handling with RFC 7807 responses
// and structured logging.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a centralized error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError converts any error into an RFC 7807 problem response and
// writes it to the client. Internal details are logged, not exposed.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err, r.URL.Path)

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()),
	)

	if renderErr := render.Render(w, r, problem); renderErr != nil {
		h.logger.ErrorContext(r.Context(), "failed to render error response",
			slog.String("error", renderErr.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ErrorToProblem maps an application error to RFC 7807 problem details
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error, instance string) *ProblemDetails {
	traceID := infrastructure.GetTraceID(ctx)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problem := NewProblemDetails(
			apiErr.StatusCode,
			"/errors/"+apiErr.Code,
			http.StatusText(apiErr.StatusCode),
			apiErr.Message,
			instance,
		).WithExtension("code", apiErr.Code)
		if apiErr.Details != "" {
			problem = problem.WithExtension("details", apiErr.Details)
		}
		return problem.WithTraceID(traceID)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			"/errors/timeout",
			"Gateway Timeout",
			"The upstream spreadsheet source did not respond in time",
			instance,
		).WithTraceID(traceID)
	case errors.Is(err, context.Canceled):
		return NewProblemDetails(
			499,
			"/errors/cancelled",
			"Client Closed Request",
			"The request was cancelled",
			instance,
		).WithTraceID(traceID)
	}

	// Unknown errors get a generic 500; details stay in the log.
	return NewProblemDetails(
		http.StatusInternalServerError,
		"/errors/internal",
		"Internal Server Error",
		"An unexpected error occurred",
		instance,
	).WithTraceID(traceID)
}
