package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fieldtrack/internal/client/models"
)

func (a *App) addReport(ctx context.Context) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}

	projects, err := a.refdata.Projects(ctx, true)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(projects) == 0 {
		fmt.Println("No projects loaded yet; run 'refresh' while online.")
		return
	}
	for _, p := range projects {
		fmt.Printf("  %d: %s\n", p.ID, p.Name)
	}
	projectID, err := GetInt64(a.reader, "Project id", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	workTypes, err := a.refdata.WorkTypes(ctx, true)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, w := range workTypes {
		fmt.Printf("  %d: %s\n", w.ID, w.Name)
	}
	workTypeID, err := GetInt64(a.reader, "Work type id", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	hours, err := GetFloat(a.reader, "Hours", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	description, err := GetMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rep := &models.TimeReport{
		ProjectID:   projectID,
		EmployeeID:  sess.EmployeeID,
		WorkTypeID:  workTypeID,
		ReportDate:  date,
		Hours:       hours,
		Description: description,
	}
	if p, err := a.refdata.Project(ctx, projectID); err == nil {
		rep.ProjectName = p.Name
	}
	for _, w := range workTypes {
		if w.ID == workTypeID {
			rep.WorkTypeName = w.Name
		}
	}

	id, err := a.reports.Create(ctx, rep)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Report #%d saved locally; it will sync on the next pass.\n", id)
}

func (a *App) listReports(ctx context.Context, args []string) {
	sess, ok := a.currentSession(ctx)
	if !ok {
		return
	}
	if len(args) != 2 {
		fmt.Println("Usage: reports <from> <to>  (YYYY-MM-DD)")
		return
	}

	reports, err := a.reports.ListByDateRange(ctx, sess.EmployeeID, args[0], args[1])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(reports) == 0 {
		fmt.Println("No reports in range.")
		return
	}
	for _, r := range reports {
		fmt.Printf("  #%d %s %s %.1fh [%s] %s\n",
			r.LocalID, r.ReportDate, r.ProjectName, r.Hours, r.SyncStatus, r.Description)
	}
}
