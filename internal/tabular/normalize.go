package tabular

import (
	"log/slog"
	"strings"
)

// headerRule matches a trimmed, lower-cased header against substring tests.
// When all is set every substring must be present; otherwise any one of the
// any substrings suffices. exact requires the whole header to equal the term.
type headerRule struct {
	role  Role
	all   []string
	any   []string
	exact string
}

// headerRules is evaluated in priority order; the first matching rule wins.
// More specific rules come before generic ones ("name of student" before
// "name") so sheet variants normalize consistently.
var headerRules = []headerRule{
	{role: RoleName, all: []string{"name", "student"}},
	{role: RoleName, any: []string{"name"}},
	{role: RoleGroup, any: []string{"department", "school", "dept"}},
	{role: RoleGender, any: []string{"gender", "sex"}},
	{role: RoleSport, any: []string{"sport", "game"}},
	{role: RoleScore, any: []string{"point"}},
	{role: RoleIdentifier, all: []string{"sr", "no"}},
	{role: RoleEvent, any: []string{"event", "category"}},
	{role: RoleResult, any: []string{"result"}},
	{role: RoleVenue, any: []string{"venue"}},
	{role: RoleRank, any: []string{"rank", "position"}},
	{role: RoleMonth, exact: "month"},
}

func (r headerRule) matches(lower string) bool {
	if r.exact != "" {
		return lower == r.exact
	}
	if len(r.all) > 0 {
		for _, sub := range r.all {
			if !strings.Contains(lower, sub) {
				return false
			}
		}
		return true
	}
	for _, sub := range r.any {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// matchRole returns the canonical role for a trimmed header, if any rule
// matches.
func matchRole(trimmed string) (Role, bool) {
	lower := strings.ToLower(trimmed)
	for _, rule := range headerRules {
		if rule.matches(lower) {
			return rule.role, true
		}
	}
	return "", false
}

// Normalizer maps raw sheet headers to the canonical schema.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a header normalizer. A nil logger falls back to the
// default slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize maps each raw header to a canonical role name or, when no rule
// matches, to the trimmed original header. Headers that trim to the empty
// string are dropped. At most one header is assigned to each role: when a
// second header would claim an already-assigned role, the first occurrence
// keeps it and the later header degrades to pass-through with a logged
// warning, never an error. Every non-empty input header appears exactly once
// in the result.
func (n *Normalizer) Normalize(headers []string) map[string]string {
	out := make(map[string]string, len(headers))
	assigned := make(map[Role]string)

	for _, raw := range headers {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if _, seen := out[raw]; seen {
			// Identical duplicate header: the first mapping stands.
			continue
		}
		role, ok := matchRole(trimmed)
		if !ok {
			out[raw] = trimmed
			continue
		}
		if first, taken := assigned[role]; taken {
			n.logger.Warn("duplicate header for canonical role, keeping first occurrence",
				slog.String("role", string(role)),
				slog.String("kept", first),
				slog.String("passed_through", trimmed))
			out[raw] = trimmed
			continue
		}
		assigned[role] = trimmed
		out[raw] = string(role)
	}

	return out
}
