// Package services orchestrates the sheet ingestion and aggregation pipeline
// behind the HTTP transport. Each operation is one fetch, normalize, type,
// filter, aggregate, assemble pass over a spreadsheet tab, fronted by a TTL
// response cache.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/config"
	apierrors "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/errors"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/sheets"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/tabular"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/pkg/contracts/domain"
)

const (
	// topAchievementTypes limits the achievement-type charts.
	topAchievementTypes = 5
	// topPopularSports limits the popular-sports bar chart.
	topPopularSports = 6
	// Department views are clamped to this window.
	minDepartmentLimit = 10
	maxDepartmentLimit = 25
)

// winnerScores are the point values awarded to scored positions. Rows with
// any other score are participants, not winners.
var winnerScores = []float64{10, 7, 5}

// Required budget sheet columns; the finance sheet is hand-maintained and a
// rename there must fail loudly instead of charting zeros.
const (
	budgetDescriptionCol = "Description"
	budgetActualCol      = "Actual Spend"
	budgetUnutilizedCol  = "Unutilized Amount"
)

// Operations sheet pass-through columns.
const (
	opsUsedCol     = "utilized"
	opsCapacityCol = "Capacity_month"
)

// DashboardService runs the aggregation pipeline over the configured
// spreadsheets and caches assembled responses.
type DashboardService struct {
	source sheets.Source
	cfg    config.SheetsConfig
	cache  *responseCache
	logger *slog.Logger

	normalizer *tabular.Normalizer
	builder    *tabular.Builder
	aggregator *tabular.Aggregator
	assembler  *tabular.Assembler
}

// NewDashboardService creates the dashboard service with its pipeline
// components and response cache.
func NewDashboardService(source sheets.Source, cfg config.SheetsConfig, cacheCfg config.CacheConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source:     source,
		cfg:        cfg,
		cache:      newResponseCache(cacheCfg.TTL, cacheCfg.MaxEntries, logger),
		logger:     logger,
		normalizer: tabular.NewNormalizer(logger),
		builder:    tabular.NewBuilder(logger),
		aggregator: tabular.NewAggregator(logger),
		assembler:  tabular.NewAssembler(),
	}
}

// Close stops the background cache maintenance.
func (s *DashboardService) Close() {
	s.cache.Stop()
}

// CacheStats exposes cache counters for health reporting.
func (s *DashboardService) CacheStats() (hits, misses int64, size int) {
	return s.cache.Stats()
}

// Dashboard computes the main dashboard payload, optionally filtered by
// gender and school. Filter values are normalized the same way the table
// cells are, so "boy" matches a "Boy" cell.
func (s *DashboardService) Dashboard(ctx context.Context, gender, school string) (*domain.DashboardData, error) {
	key := cacheKey("dashboard", gender, school)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.DashboardData), nil
	}

	table, err := s.fetchTable(ctx, s.cfg.DashboardID, s.cfg.DashboardTab)
	if err != nil {
		return nil, err
	}

	predicates := make(map[tabular.Role]string)
	if strings.TrimSpace(gender) != "" {
		predicates[tabular.RoleGender] = tabular.TitleCase(gender)
	}
	if strings.TrimSpace(school) != "" {
		predicates[tabular.RoleGroup] = tabular.TitleCase(school)
	}
	view := table.Filter(predicates)

	// Achievement types come from the result labels; participation charts
	// count distinct students while schoolParticipation counts achievement
	// rows.
	resultCounts := s.aggregator.Frequency(view, tabular.RoleResult)
	sportParticipants := s.aggregator.DistinctEntityCount(view, tabular.RoleSport)
	data := &domain.DashboardData{
		KPIMetrics:          s.kpis(view),
		SchoolParticipation: s.assembler.Records(s.aggregator.Frequency(view, tabular.RoleGroup), "School", "Achievements"),
		GenderDistribution:  s.assembler.Series(s.aggregator.DistinctFrequency(view, tabular.RoleGender)),
		AchievementTypesBar: s.assembler.Records(tabular.TopN(resultCounts, topAchievementTypes), "Type", "Count"),
		AchievementTypesPie: s.assembler.Series(resultCounts),
		PopularSportsBar:    s.assembler.Records(tabular.TopN(sportParticipants, topPopularSports), "Sport", "Participants"),
		SportsPie:           s.assembler.Series(sportParticipants),
		SportByGender:       s.assembler.Grouped(s.aggregator.Pivot(view, tabular.RoleSport, tabular.RoleGender)),
	}

	s.cache.Set(key, data)
	return data, nil
}

// StudentsBySport returns the deduplicated participant records of one sport.
func (s *DashboardService) StudentsBySport(ctx context.Context, sport string) ([]domain.Record, error) {
	key := cacheKey("students", sport)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]domain.Record), nil
	}

	table, err := s.fetchTable(ctx, s.cfg.DashboardID, s.cfg.DashboardTab)
	if err != nil {
		return nil, err
	}

	records := s.assembler.RecordList(
		s.aggregator.Drilldown(table, tabular.RoleSport, tabular.TitleCase(sport)))

	s.cache.Set(key, records)
	return records, nil
}

// WinnersBySport returns the scored-position records of one sport, highest
// score first.
func (s *DashboardService) WinnersBySport(ctx context.Context, sport string) ([]domain.Record, error) {
	key := cacheKey("winners", sport)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]domain.Record), nil
	}

	table, err := s.fetchTable(ctx, s.cfg.DashboardID, s.cfg.DashboardTab)
	if err != nil {
		return nil, err
	}

	records := s.assembler.RecordList(
		s.aggregator.Winners(table, tabular.RoleSport, tabular.TitleCase(sport), winnerScores))

	s.cache.Set(key, records)
	return records, nil
}

// Department computes the per-school breakdown, optionally restricted to one
// month and an alternate sheet tab. The result size is clamped to the
// [10, 25] window the widget can render.
func (s *DashboardService) Department(ctx context.Context, month, tab string, limit int) (*domain.DepartmentData, error) {
	limit = clampLimit(limit)
	if tab == "" {
		tab = s.cfg.DashboardTab
	}

	key := cacheKey("department", month, tab, fmt.Sprint(limit))
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.DepartmentData), nil
	}

	table, err := s.fetchTable(ctx, s.cfg.DashboardID, tab)
	if err != nil {
		return nil, err
	}

	view := table
	if strings.TrimSpace(month) != "" {
		view = table.Filter(map[tabular.Role]string{tabular.RoleMonth: strings.TrimSpace(month)})
	}

	data := &domain.DepartmentData{
		KPI: s.kpis(view),
		Department: s.assembler.Records(
			tabular.TopN(s.aggregator.Frequency(view, tabular.RoleGroup), limit), "School", "Achievements"),
		DepartmentPoints: s.assembler.Records(
			tabular.TopN(s.aggregator.GroupedSum(view, tabular.RoleGroup, tabular.RoleScore), limit), "School", "Points"),
	}

	s.cache.Set(key, data)
	return data, nil
}

// Budget charts actual against unutilized spend per budget line. The three
// finance columns are required by their exact pass-through names.
func (s *DashboardService) Budget(ctx context.Context) (*domain.GroupedChartData, error) {
	key := cacheKey("budget")
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.GroupedChartData), nil
	}

	table, err := s.fetchTable(ctx, s.financeID(), s.cfg.BudgetTab)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{budgetDescriptionCol, budgetActualCol, budgetUnutilizedCol} {
		if !table.HasColumn(col) {
			return nil, apierrors.NewWithDetails("BUDGET_SCHEMA", "Budget sheet is missing a required column",
				fmt.Sprintf("column %q not found", col), http.StatusInternalServerError)
		}
	}

	labels, _ := table.Strings(budgetDescriptionCol)
	actual, _ := table.Numbers(budgetActualCol)
	unutilized, _ := table.Numbers(budgetUnutilizedCol)

	data := domain.EmptyGroupedChartData()
	data.Categories = append(data.Categories, labels...)
	data.Series = append(data.Series,
		domain.NamedSeries{Name: budgetActualCol, Data: actual},
		domain.NamedSeries{Name: budgetUnutilizedCol, Data: unutilized},
	)

	s.cache.Set(key, &data)
	return &data, nil
}

// Operations computes facility utilization from the operations tab.
func (s *DashboardService) Operations(ctx context.Context, tab string) (*domain.UtilizationData, error) {
	if tab == "" {
		tab = s.cfg.OperationsTab
	}

	key := cacheKey("operations", tab)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.UtilizationData), nil
	}

	table, err := s.fetchTable(ctx, s.financeID(), tab)
	if err != nil {
		return nil, err
	}

	facilities, used, unused, totals := s.aggregator.Utilization(table, tabular.RoleSport, opsUsedCol, opsCapacityCol)
	data := &domain.UtilizationData{
		Facilities: facilities,
		Used:       used,
		Unused:     unused,
		Totals:     totals,
	}

	s.cache.Set(key, data)
	return data, nil
}

// WarmCache primes the cache with the unfiltered views of every sheet,
// fetching the tabs concurrently. Individual sheet failures are logged and
// do not abort the others.
func (s *DashboardService) WarmCache(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.Dashboard(ctx, "", ""); err != nil {
			s.logger.Warn("cache warm failed for dashboard", slog.String("error", err.Error()))
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Budget(ctx); err != nil {
			s.logger.Warn("cache warm failed for budget", slog.String("error", err.Error()))
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.Operations(ctx, ""); err != nil {
			s.logger.Warn("cache warm failed for operations", slog.String("error", err.Error()))
		}
		return nil
	})

	_ = g.Wait()
	s.logger.Info("response cache warmed")
}

// kpis computes the scalar headline metrics over a (possibly filtered) view.
func (s *DashboardService) kpis(view *tabular.Table) domain.KPIMetrics {
	return domain.KPIMetrics{
		TotalAchievements: view.Len(),
		TotalPoints:       s.aggregator.Sum(view, tabular.RoleScore),
		UniqueSports:      s.aggregator.DistinctValues(view, tabular.RoleSport),
	}
}

// fetchTable runs the ingestion half of the pipeline: fetch raw rows,
// normalize the header row, build the typed table. A source failure is
// logged and folds into the no-data path, except for an unknown tab, which
// is the caller's error and surfaces as-is. A table with zero data rows
// yields ErrNoData before any filter is applied; a filter that matches
// nothing is a valid empty view, never an error.
func (s *DashboardService) fetchTable(ctx context.Context, spreadsheetID, tab string) (*tabular.Table, error) {
	logger := infrastructure.LoggerFromContext(ctx)

	rows, err := s.source.Fetch(ctx, spreadsheetID, tab)
	if err != nil {
		if apiErr, ok := apierrors.GetAPIError(err); ok && apiErr.Code == "SHEET_NOT_FOUND" {
			return nil, err
		}
		logger.Error("sheet fetch failed, treating as empty",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("tab", tab),
			slog.String("error", err.Error()),
		)
		rows = nil
	}

	if len(rows) <= 1 {
		logger.Warn("sheet has no data rows",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("tab", tab),
		)
		return nil, noData()
	}

	headerMap := s.normalizer.Normalize(rows[0])
	return s.builder.Build(rows[0], rows[1:], headerMap), nil
}

// financeID returns the finance spreadsheet ID, falling back to the
// dashboard spreadsheet when the deployment keeps everything in one
// document.
func (s *DashboardService) financeID() string {
	if s.cfg.FinanceID != "" {
		return s.cfg.FinanceID
	}
	return s.cfg.DashboardID
}

// noData builds the top-level empty-dataset error: an APIError for the
// transport wrapping tabular.ErrNoData so callers can test with errors.Is.
func noData() error {
	return apierrors.Wrap(tabular.ErrNoData, "NO_DATA", "No data available in sheet", http.StatusInternalServerError)
}

func clampLimit(limit int) int {
	if limit < minDepartmentLimit {
		return minDepartmentLimit
	}
	if limit > maxDepartmentLimit {
		return maxDepartmentLimit
	}
	return limit
}

// cacheKey joins an endpoint name with its normalized parameters.
func cacheKey(parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}
