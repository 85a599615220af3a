// Package export renders task and order listings as CSV or XLSX files.
//
// Callers pass records that are already filtered for the caller's role;
// this package never decides what may be exported.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
)

// Table is a header row plus data rows of equal width.
type Table struct {
	Columns []string
	Rows    [][]string
}

var taskColumns = []string{
	"id", "title", "description", "status", "assignees", "plannedHours", "projectId", "createdAt",
}

var orderColumns = []string{
	"id", "title", "description", "date", "status", "requestedBy", "isUrgent", "arrivalDate", "notes",
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func TasksTable(tasks []models.Task) Table {
	t := Table{Columns: taskColumns}
	for _, task := range tasks {
		t.Rows = append(t.Rows, []string{
			task.ID,
			task.Title,
			task.Description,
			string(task.Status),
			strings.Join(task.Assignees, "; "),
			formatHours(task.PlannedHours),
			task.ProjectID,
			dbx.FormatTime(task.CreatedAt),
		})
	}
	return t
}

func OrdersTable(orders []models.Order) Table {
	t := Table{Columns: orderColumns}
	for _, o := range orders {
		arrival := ""
		if o.ArrivalDate != nil {
			arrival = dbx.FormatTime(*o.ArrivalDate)
		}
		t.Rows = append(t.Rows, []string{
			o.ID,
			o.Title,
			o.Description,
			dbx.FormatTime(o.Date),
			string(o.Status),
			o.RequestedBy,
			strconv.FormatBool(o.IsUrgent),
			arrival,
			o.Notes,
		})
	}
	return t
}

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}
