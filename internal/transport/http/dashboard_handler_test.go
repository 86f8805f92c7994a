package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/errors"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/pkg/contracts/domain"
)

// stubService records arguments and returns canned responses.
type stubService struct {
	err error

	gotGender, gotSchool string
	gotSport             string
	gotMonth, gotTab     string
	gotLimit             int
}

func (s *stubService) Dashboard(ctx context.Context, gender, school string) (*domain.DashboardData, error) {
	s.gotGender, s.gotSchool = gender, school
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DashboardData{
		KPIMetrics:         domain.KPIMetrics{TotalAchievements: 4, TotalPoints: 24, UniqueSports: 3},
		GenderDistribution: domain.ChartData{Labels: []string{"Girl", "Boy"}, Series: []float64{2, 1}},
	}, nil
}

func (s *stubService) StudentsBySport(ctx context.Context, sport string) ([]domain.Record, error) {
	s.gotSport = sport
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Record{{"Name": "Asha", "School": "Green Valley"}}, nil
}

func (s *stubService) WinnersBySport(ctx context.Context, sport string) ([]domain.Record, error) {
	s.gotSport = sport
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Record{{"Name": "Asha", "Points": "10"}}, nil
}

func (s *stubService) Department(ctx context.Context, month, tab string, limit int) (*domain.DepartmentData, error) {
	s.gotMonth, s.gotTab, s.gotLimit = month, tab, limit
	if s.err != nil {
		return nil, s.err
	}
	return &domain.DepartmentData{}, nil
}

func (s *stubService) Budget(ctx context.Context) (*domain.GroupedChartData, error) {
	if s.err != nil {
		return nil, s.err
	}
	data := domain.EmptyGroupedChartData()
	data.Categories = []string{"Equipment"}
	return &data, nil
}

func (s *stubService) Operations(ctx context.Context, tab string) (*domain.UtilizationData, error) {
	s.gotTab = tab
	if s.err != nil {
		return nil, s.err
	}
	return &domain.UtilizationData{
		Facilities: []string{"Football"},
		Used:       []float64{60},
		Unused:     []float64{40},
		Totals:     []float64{100},
	}, nil
}

func newTestHandler(svc DashboardService) *DashboardHandler {
	return NewDashboardHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doRequest(t *testing.T, h *DashboardHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestData(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestHandler(svc), "/data?GENDER=Girl&School=Green%20Valley")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Girl", svc.gotGender)
	assert.Equal(t, "Green Valley", svc.gotSchool)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "kpiMetrics")
	assert.Contains(t, body, "genderDistribution")
}

func TestData_NoData(t *testing.T) {
	svc := &stubService{err: apierrors.ErrNoData}
	rec := doRequest(t, newTestHandler(svc), "/data")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NO_DATA", body["code"])
}

func TestStudentsBySport(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestHandler(svc), "/students_by_sport?sport=chess")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chess", svc.gotSport)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Asha", records[0]["Name"])
}

func TestStudentsBySport_MissingSport(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubService{}), "/students_by_sport")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWinners(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestHandler(svc), "/winners?sport=chess")

	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "10", records[0]["Points"])
}

func TestWinners_MissingSport(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubService{}), "/winners")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDepartment(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestHandler(svc), "/department?month=June&tab=Register&limit=15")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "June", svc.gotMonth)
	assert.Equal(t, "Register", svc.gotTab)
	assert.Equal(t, 15, svc.gotLimit)
}

func TestDepartment_BadLimit(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubService{}), "/department?limit=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudget(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubService{}), "/budget")

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "categories")
	assert.Contains(t, body, "series")
}

func TestBudget_SchemaError(t *testing.T) {
	svc := &stubService{err: apierrors.NewWithDetails("BUDGET_SCHEMA", "Budget sheet is missing a required column", `column "Actual Spend" not found`, http.StatusInternalServerError)}
	rec := doRequest(t, newTestHandler(svc), "/budget")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BUDGET_SCHEMA", body["code"])
}

func TestOperations(t *testing.T) {
	svc := &stubService{}
	rec := doRequest(t, newTestHandler(svc), "/operations?tab=Sheet2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sheet2", svc.gotTab)

	var body map[string][]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["facilities"], 1)
	assert.Len(t, body["unused"], 1)
}

func TestOperations_UnknownTab(t *testing.T) {
	svc := &stubService{err: apierrors.NewWithDetails("SHEET_NOT_FOUND", "Requested sheet tab not found", "no sheet", http.StatusNotFound)}
	rec := doRequest(t, newTestHandler(svc), "/operations?tab=Sheet9")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
