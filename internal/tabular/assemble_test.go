package tabular

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembler_Series(t *testing.T) {
	as := NewAssembler()

	got := as.Series([]Entry{
		{Label: "Winner", Value: 3},
		{Label: "Runner Up", Value: 1},
	})

	assert.Equal(t, []string{"Winner", "Runner Up"}, got.Labels)
	assert.Equal(t, []float64{3, 1}, got.Series)
}

func TestAssembler_Series_EmptySerializesAsArrays(t *testing.T) {
	as := NewAssembler()

	raw, err := json.Marshal(as.Series(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels":[],"series":[]}`, string(raw))
}

func TestAssembler_Records(t *testing.T) {
	as := NewAssembler()

	got := as.Records([]Entry{
		{Label: "East High", Value: 3},
		{Label: "West High", Value: 2},
	}, "School", "Achievements")

	require.Len(t, got, 2)
	assert.Equal(t, "East High", got[0]["School"])
	assert.Equal(t, float64(3), got[0]["Achievements"])
	assert.Equal(t, "West High", got[1]["School"])
}

func TestAssembler_Grouped(t *testing.T) {
	as := NewAssembler()

	got := as.Grouped(PivotTable{
		RowLabels: []string{"Chess", "Kabaddi"},
		ColLabels: []string{"Boy", "Girl"},
		Cells:     [][]float64{{1, 2}, {3, 0}},
	})

	assert.Equal(t, []string{"Chess", "Kabaddi"}, got.Categories)
	require.Len(t, got.Series, 2)
	assert.Equal(t, "Boy", got.Series[0].Name)
	assert.Equal(t, []float64{1, 3}, got.Series[0].Data)
	assert.Equal(t, "Girl", got.Series[1].Name)
	assert.Equal(t, []float64{2, 0}, got.Series[1].Data)
}

func TestAssembler_RecordList(t *testing.T) {
	as := NewAssembler()

	got := as.RecordList([]map[string]string{
		{"Name": "Asha Rao", "Gender": "Girl"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Asha Rao", got[0]["Name"])

	raw, err := json.Marshal(as.RecordList(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
