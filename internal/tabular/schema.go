package tabular

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is a canonical column meaning, independent of the literal header text
// in the source sheet.
type Role string

const (
	RoleIdentifier Role = "Identifier"
	RoleName       Role = "Name"
	RoleGroup      Role = "Group"
	RoleSport      Role = "SportOrCategory"
	RoleGender     Role = "Gender"
	RoleScore      Role = "Score"
	RoleResult     Role = "ResultLabel"
	RoleEvent      Role = "Event"
	RoleVenue      Role = "Venue"
	RoleRank       Role = "Rank"
	RoleMonth      Role = "Month"
)

// Kind describes how a column's raw cells are coerced.
type Kind int

const (
	// KindText keeps the cell as-is apart from trimming.
	KindText Kind = iota
	// KindCategorical trims and title-cases the cell so case variants of the
	// same category collapse into one grouping key.
	KindCategorical
	// KindNumeric parses the cell after stripping every character that is not
	// a digit or a decimal point. Unparseable cells become 0.
	KindNumeric
	// KindPercentage parses the cell after removing percent signs and
	// thousands separators. Unparseable cells become 0.
	KindPercentage
)

// roleKinds assigns a coercion rule to each canonical role. Roles not listed
// here, and all pass-through columns, are plain text.
var roleKinds = map[Role]Kind{
	RoleScore:  KindNumeric,
	RoleGroup:  KindCategorical,
	RoleSport:  KindCategorical,
	RoleGender: KindCategorical,
}

// KindOf returns the coercion rule for a normalized column name.
func KindOf(name string) Kind {
	if k, ok := roleKinds[Role(name)]; ok {
		return k
	}
	return KindText
}

var titleCaser = cases.Title(language.English)

// TitleCase normalizes a categorical cell: trims whitespace and title-cases
// each word, so "chess" and "Chess " become the same grouping key.
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// CoerceNumber parses a numeric cell after discarding currency symbols,
// separators and any other non-numeric characters. "$1,234.50" parses as
// 1234.50 and "85%" as 85. Cells with no parseable digits coerce to 0; this
// function never fails.
func CoerceNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// CoercePercent parses a percentage or utilization cell: percent signs and
// thousands separators are removed before parsing. Unparseable cells coerce
// to 0.
func CoercePercent(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Coerce applies the coercion rule for the given kind and returns the
// normalized string form of the cell. Numeric kinds keep the trimmed raw text
// so the cell can still be matched by equality filters.
func Coerce(kind Kind, raw string) string {
	switch kind {
	case KindCategorical:
		return TitleCase(raw)
	default:
		return strings.TrimSpace(raw)
	}
}
