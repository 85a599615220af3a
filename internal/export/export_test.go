package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var at = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func TestWriteCSV_QuotesEveryCell(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, Table{
		Columns: []string{"a", "b"},
		Rows: [][]string{
			{`say "hi"`, ""},
			{"x,y", "line\nbreak"},
		},
	})
	require.NoError(t, err)

	want := `"a","b"` + "\n" +
		`"say ""hi""",""` + "\n" +
		`"x,y","line` + "\n" + `break"`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, TasksTable(nil)))
	assert.Equal(t, `"id","title","description","status","assignees","plannedHours","projectId","createdAt"`, buf.String())
}

func TestTasksTable(t *testing.T) {
	tbl := TasksTable([]models.Task{{
		ID: "t1", Title: "Paint", Status: models.TaskInProgress,
		Assignees: []string{"daniel", "sasha"}, PlannedHours: 2.5, CreatedAt: at,
	}})
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"t1", "Paint", "", "in progress", "daniel; sasha", "2.5", "", "2026-05-01T08:00:00Z"}, tbl.Rows[0])
}

func TestOrdersTable(t *testing.T) {
	arrival := at.AddDate(0, 0, 3)
	tbl := OrdersTable([]models.Order{
		{ID: "o1", Title: "Glue", Date: at, Status: models.OrderOrdered, RequestedBy: "daniel", IsUrgent: true, ArrivalDate: &arrival},
		{ID: "o2", Title: "Tape", Date: at, Status: models.OrderPending, RequestedBy: "sasha"},
	})
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "true", tbl.Rows[0][6])
	assert.Equal(t, "2026-05-04T08:00:00Z", tbl.Rows[0][7])
	assert.Equal(t, "", tbl.Rows[1][7])
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(tbl.Columns))
	}
}

func TestWriteXLSX_ReadsBack(t *testing.T) {
	var buf bytes.Buffer
	tbl := Table{Columns: []string{"id", "title"}, Rows: [][]string{{"o1", "Glue"}, {"o2", "Tape"}}}
	require.NoError(t, WriteXLSX(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "title"}, {"o1", "Glue"}, {"o2", "Tape"}}, rows)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	tbl := OrdersTable(nil)

	path, err := ToFile(dir, "orders", FormatCSV, tbl, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orders-20260501-080000.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `"id","title"`))

	path, err = ToFile(dir, "orders", FormatXLSX, tbl, at)
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(path))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
}
