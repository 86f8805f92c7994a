package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestErrorToProblem_APIError(t *testing.T) {
	h := testHandler()

	problem := h.ErrorToProblem(context.Background(), ErrNoData, "/api/data")

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, "/errors/NO_DATA", problem.Type)
	assert.Equal(t, "No data available in sheet", problem.Detail)
	assert.Equal(t, "/api/data", problem.Instance)
	assert.Equal(t, "NO_DATA", problem.Extensions["code"])
}

func TestErrorToProblem_WrappedAPIError(t *testing.T) {
	h := testHandler()
	err := Wrap(errors.New("dial tcp: refused"), "SHEET_UNAVAILABLE", "Spreadsheet source could not be read", http.StatusBadGateway)

	problem := h.ErrorToProblem(context.Background(), err, "/api/budget")

	assert.Equal(t, http.StatusBadGateway, problem.Status)
	assert.Equal(t, "SHEET_UNAVAILABLE", problem.Extensions["code"])
	// Internal cause is not exposed to the client.
	assert.NotContains(t, problem.Detail, "dial tcp")
}

func TestErrorToProblem_UnknownError(t *testing.T) {
	h := testHandler()

	problem := h.ErrorToProblem(context.Background(), errors.New("boom"), "/api/data")

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, "An unexpected error occurred", problem.Detail)
}

func TestErrorToProblem_Timeout(t *testing.T) {
	h := testHandler()

	problem := h.ErrorToProblem(context.Background(), context.DeadlineExceeded, "/api/data")

	assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
}

func TestErrorToProblem_TraceID(t *testing.T) {
	h := testHandler()
	ctx := infrastructure.WithTraceID(context.Background(), "trace-42")

	problem := h.ErrorToProblem(ctx, ErrNoData, "/api/data")

	assert.Equal(t, "trace-42", problem.TraceID)
}

func TestHandleError_WritesProblemJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrNoData)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NO_DATA", body["code"])
	assert.Equal(t, "No data available in sheet", body["detail"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, "/errors/SHEET_NOT_FOUND", "Not Found", "tab Sheet9 does not exist", "/api/operations").
		WithExtension("tab", "Sheet9")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, float64(404), m["status"])
	assert.Equal(t, "Sheet9", m["tab"])
	assert.NotContains(t, m, "trace_id")
}
