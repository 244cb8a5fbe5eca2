package exportsvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darasa/core/grouping"
	"github.com/trezcool/darasa/core/roster"
)

func TestXLSXExporter_Export(t *testing.T) {
	groups := []grouping.Group{
		{Name: "Team 1", Members: []roster.Student{
			{ID: "a", Name: "Amani", Gender: "F", NeedsHelp: true},
			{ID: "b", Name: "Baraka", Gender: "M"},
		}},
		{Name: "Team 2", Members: []roster.Student{{ID: "c", Name: "Chausiku", Gender: "F"}}},
	}
	unplaced := []roster.Student{{ID: "d", Name: "Daudi", Gender: "M"}}

	buf := new(bytes.Buffer)
	exp := NewXLSXExporter()
	require.NoError(t, exp.Export(buf, "class-1", groups, unplaced))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)

	tests := []struct {
		row  int
		want []string
	}{
		{0, []string{"Class class-1"}},
		{2, []string{"Group", "Student", "Gender", "Needs help"}},
		{3, []string{"Team 1", "Amani", "F", "yes"}},
		{4, []string{"Team 1", "Baraka", "M", "no"}},
		{5, []string{"Team 2", "Chausiku", "F", "no"}},
		{6, []string{"Unplaced", "Daudi", "M", "no"}},
	}
	require.Len(t, rows, 7)
	for _, tt := range tests {
		assert.Equal(t, tt.want, rows[tt.row], "row %d", tt.row)
	}
}

func TestXLSXExporter_Filename(t *testing.T) {
	exp := NewXLSXExporter()
	assert.Equal(t, "groups-class_1.xlsx", exp.Filename("class 1"))
	assert.Equal(t, contentType, exp.ContentType())
}
