package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/config"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
)

// testWorkbook writes a minimal register workbook so the application can be
// wired end to end without network access.
func testWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Register"))
	require.NoError(t, f.SetSheetRow("Register", "A1", &[]interface{}{"Sr. No", "Name of Student", "Department", "Gender", "Sport", "Points"}))
	require.NoError(t, f.SetSheetRow("Register", "A2", &[]interface{}{"1", "Asha", "Green Valley", "Girl", "Chess", "10"}))

	path := filepath.Join(t.TempDir(), "register.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Sheets.WorkbookPath = testWorkbook(t)
	cfg.Sheets.DashboardTab = "Register"
	cfg.Logging.Output = "console"
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	app, err := NewApplicationWithConfig(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { app.DashboardService.Close() })
	return app
}

func TestNewApplicationWithConfig(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.DashboardService)
	assert.NotNil(t, app.HealthService)
	assert.Equal(t, ":8080", app.Server.Addr)
}

func TestRouter_DataEndToEnd(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "kpiMetrics")
	assert.Contains(t, body, "sportByGender")
}

func TestRouter_HealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready", "/api/version"} {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildSource_RequiresCredentialsWithoutWorkbook(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := testConfig(t)
	cfg.Sheets.WorkbookPath = ""
	cfg.Sheets.DashboardID = "some-id"
	cfg.Sheets.CredentialsFile = ""
	cfg.Sheets.CredentialsJSON = ""

	_, err := NewApplicationWithConfig(cfg)
	assert.Error(t, err)
}
