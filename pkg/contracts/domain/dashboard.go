package domain

// KPIMetrics holds the scalar headline numbers for the main dashboard.
type KPIMetrics struct {
	TotalAchievements int     `json:"totalAchievements"`
	TotalPoints       float64 `json:"totalPoints"`
	UniqueSports      int     `json:"uniqueSports"`
}

// DashboardData is the payload of the main dashboard view. Every field name is
// consumed verbatim by the frontend chart widgets.
type DashboardData struct {
	KPIMetrics          KPIMetrics       `json:"kpiMetrics"`
	SchoolParticipation []Record         `json:"schoolParticipation"`
	GenderDistribution  ChartData        `json:"genderDistribution"`
	AchievementTypesBar []Record         `json:"achievementTypesBar"`
	AchievementTypesPie ChartData        `json:"achievementTypesPie"`
	PopularSportsBar    []Record         `json:"popularSportsBar"`
	SportsPie           ChartData        `json:"sportsPie"`
	SportByGender       GroupedChartData `json:"sportByGender"`
}

// DepartmentData is the payload of the per-department breakdown view.
type DepartmentData struct {
	KPI              KPIMetrics `json:"kpi"`
	Department       []Record   `json:"department"`
	DepartmentPoints []Record   `json:"department_points"`
}

// UtilizationData is the payload of the facility-operations view. Used and
// Unused are parallel to Facilities; Totals carries the monthly capacity so
// the widget can render a stacked bar against its ceiling.
type UtilizationData struct {
	Facilities []string  `json:"facilities"`
	Used       []float64 `json:"used"`
	Unused     []float64 `json:"unused"`
	Totals     []float64 `json:"totals"`
}
