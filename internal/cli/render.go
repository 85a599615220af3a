package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/brimon/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func printTasks(w io.Writer, tasks []models.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tASSIGNEES\tHOURS\tCREATED")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%s\n",
			t.ID, t.Title, t.Status, strings.Join(t.Assignees, ","), t.PlannedHours, formatDate(t.CreatedAt))
	}
	return tw.Flush()
}

func printTask(w io.Writer, t *models.Task) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", t.Description)
	fmt.Fprintf(tw, "Project:\t%s\n", t.ProjectID)
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Assignees:\t%s\n", strings.Join(t.Assignees, ", "))
	fmt.Fprintf(tw, "Planned hours:\t%g\n", t.PlannedHours)
	fmt.Fprintf(tw, "Created:\t%s\n", formatDate(t.CreatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(t.TimeLog) > 0 {
		fmt.Fprintln(w, "Time log:")
		for _, e := range t.TimeLog {
			fmt.Fprintf(w, "  %s  %-6s %g h by %s\n", formatDate(e.At), e.Type, e.Hours, e.By)
		}
	}
	if len(t.Comments) > 0 {
		fmt.Fprintln(w, "Comments:")
		for _, c := range t.Comments {
			fmt.Fprintf(w, "  %s  %s: %s\n", formatDate(c.At), c.By, c.Text)
		}
	}
	return nil
}

func printOrders(w io.Writer, orders []models.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tREQUESTED BY\tURGENT\tDATE\tARRIVAL")
	for _, o := range orders {
		urgent := ""
		if o.IsUrgent {
			urgent = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Title, o.Status, o.RequestedBy, urgent, formatDate(o.Date), formatOptionalDate(o.ArrivalDate))
	}
	return tw.Flush()
}

func printOrder(w io.Writer, o *models.Order) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", o.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", o.Title)
	fmt.Fprintf(tw, "Description:\t%s\n", o.Description)
	fmt.Fprintf(tw, "Status:\t%s\n", o.Status)
	fmt.Fprintf(tw, "Requested by:\t%s\n", o.RequestedBy)
	fmt.Fprintf(tw, "Urgent:\t%t\n", o.IsUrgent)
	fmt.Fprintf(tw, "Date:\t%s\n", formatDate(o.Date))
	fmt.Fprintf(tw, "Arrival:\t%s\n", formatOptionalDate(o.ArrivalDate))
	fmt.Fprintf(tw, "Notes:\t%s\n", o.Notes)
	return tw.Flush()
}

func printUsers(w io.Writer, users []models.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "USERNAME\tNAME\tROLE\tPASSWORD")
	for _, u := range users {
		cred := "set"
		if !u.HasCredentials() {
			cred = "none"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.DisplayName, u.Role, cred)
	}
	return tw.Flush()
}

func printProjects(w io.Writer, projects []models.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, formatDate(p.Start), formatOptionalDate(p.End))
	}
	return tw.Flush()
}
