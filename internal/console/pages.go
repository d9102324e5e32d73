package console

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mediwound/wardview/internal/api"
	"github.com/mediwound/wardview/internal/domain/session"
	"github.com/mediwound/wardview/internal/domain/views"
	apperrors "github.com/mediwound/wardview/internal/errors"
)

// Pages renders the read side of every authenticated view. Mutating
// actions (dismissing an alert, completing a task) are shell commands.
type Pages struct {
	client *api.Client
}

// NewPages constructs the view renderers over the api client.
func NewPages(client *api.Client) *Pages {
	return &Pages{client: client}
}

// Render writes the named view for user to w.
func (p *Pages) Render(ctx context.Context, w io.Writer, user session.User, view session.ViewID) error {
	switch view {
	case views.Dashboard:
		return p.renderAdminDashboard(ctx, w)
	case views.DoctorDashboard:
		return p.renderDoctorDashboard(ctx, w)
	case views.NurseDashboard:
		return p.renderNurseDashboard(ctx, w)
	case views.Users:
		return p.renderUsers(ctx, w)
	case views.Logs:
		return p.renderLogs(ctx, w)
	case views.Storage:
		return p.renderStorage(ctx, w)
	case views.Alerts:
		return p.renderAlerts(ctx, w)
	case views.Settings:
		return p.renderSettings(w, user)
	case views.Patients:
		return p.renderPatients(ctx, w)
	case views.AddPatient:
		fmt.Fprintln(w, "Admit a patient with: admit <name> <mrn> <date-of-birth>")
		return nil
	case views.Assessments:
		return p.renderAssessments(ctx, w)
	case views.Reports:
		return p.renderReports(ctx, w)
	default:
		return apperrors.NotFound(fmt.Sprintf("unknown view %q", view))
	}
}

func (p *Pages) renderAdminDashboard(ctx context.Context, w io.Writer) error {
	stats, err := p.client.Alerts().Stats(ctx)
	if err != nil {
		return err
	}
	storage, err := p.client.Storage().Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Open alerts: %d (%d critical, %d warning, %d info)\n",
		stats.Total, stats.Critical, stats.Warning, stats.Info)
	fmt.Fprintf(w, "Storage: %s of %s used (%.1f%%)\n",
		storage.UsedCapacity, storage.TotalCapacity, storage.UsedPercentage)
	return nil
}

func (p *Pages) renderDoctorDashboard(ctx context.Context, w io.Writer) error {
	stats, err := p.client.Doctor().Stats(ctx)
	if err != nil {
		return err
	}
	summary, err := p.client.Doctor().Summary(ctx)
	if err != nil {
		return err
	}
	schedule, err := p.client.Doctor().Schedule(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", summary.Headline)
	for _, h := range summary.Highlights {
		fmt.Fprintf(w, "  - %s\n", h)
	}
	fmt.Fprintf(w, "Patients today: %d  Pending assessments: %d  Critical alerts: %d  Open tasks: %d\n",
		stats.PatientsToday, stats.PendingAssessments, stats.CriticalAlerts, stats.OpenTasks)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPATIENT\tMRN\tPURPOSE\tSTATUS")
	for _, item := range schedule {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Time, item.PatientName, item.PatientMRN, item.Purpose, item.Status)
	}
	return tw.Flush()
}

func (p *Pages) renderNurseDashboard(ctx context.Context, w io.Writer) error {
	stats, err := p.client.Nurse().Stats(ctx)
	if err != nil {
		return err
	}
	tasks, err := p.client.Nurse().Tasks(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Assigned patients: %d  Tasks due: %d  Completed: %d  Critical alerts: %d\n",
		stats.AssignedPatients, stats.TasksDue, stats.TasksCompleted, stats.CriticalAlerts)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tTASK\tPRIORITY\tDUE\tSTATUS")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			task.ID, task.PatientName, task.Description, task.Priority, task.DueDate, task.Status)
	}
	return tw.Flush()
}

func (p *Pages) renderUsers(ctx context.Context, w io.Writer) error {
	accounts, err := p.client.Users().List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", a.ID, a.Name, a.Email, a.Role, a.IsActive)
	}
	return tw.Flush()
}

func (p *Pages) renderLogs(ctx context.Context, w io.Writer) error {
	entries, err := p.client.Logs().List(ctx, api.LogQuery{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tUSER\tIP\tACTION\tSEVERITY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp, e.UserName, e.IPAddress, e.Action, e.Severity)
	}
	return tw.Flush()
}

func (p *Pages) renderStorage(ctx context.Context, w io.Writer) error {
	summary, err := p.client.Storage().Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Used: %s of %s (%.1f%%)\n", summary.UsedCapacity, summary.TotalCapacity, summary.UsedPercentage)
	fmt.Fprintf(w, "Database: %.1f GB (%.1f%%)  Files: %.1f GB (%.1f%%)\n",
		summary.DatabaseUsageGB, summary.DatabasePercentage,
		summary.FileStorageGB, summary.FileStoragePercentage)
	for _, b := range summary.Breakdown {
		fmt.Fprintf(w, "  %-20s %.1f GB (%.1f%%)\n", b.Label, b.UsageGB, b.Percentage)
	}
	return nil
}

func (p *Pages) renderAlerts(ctx context.Context, w io.Writer) error {
	alerts, err := p.client.Alerts().List(ctx, api.AlertQuery{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEVERITY\tTYPE\tPATIENT\tMRN\tTIME\tDESCRIPTION")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Severity, a.AlertType, a.PatientName, a.PatientMRN, a.Timestamp, a.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "Dismiss with: dismiss <id>")
	return nil
}

func (p *Pages) renderSettings(w io.Writer, user session.User) error {
	fmt.Fprintf(w, "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
	fmt.Fprintln(w, "Change password with: passwd")
	return nil
}

func (p *Pages) renderPatients(ctx context.Context, w io.Writer) error {
	patients, err := p.client.Patients().List(ctx, "")
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMRN\tSTATUS\tADMITTED\tACTIVE WOUNDS")
	for _, p := range patients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, p.MRN, p.Status, p.AdmissionDate, p.ActiveWounds)
	}
	return tw.Flush()
}

func (p *Pages) renderAssessments(ctx context.Context, w io.Writer) error {
	assessments, err := p.client.Assessments().List(ctx, 0)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATIENT\tMRN\tWOUND\tLOCATION\tSEVERITY\tSTATUS\tBY")
	for _, a := range assessments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.PatientName, a.PatientMRN, a.WoundType, a.Location, a.Severity, a.Status, a.AssessedBy)
	}
	return tw.Flush()
}

func (p *Pages) renderReports(ctx context.Context, w io.Writer) error {
	stats, err := p.client.Doctor().Stats(ctx)
	if err != nil {
		return err
	}
	assessments, err := p.client.Assessments().List(ctx, 0)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Assessments on file: %d  Pending: %d\n", len(assessments), stats.PendingAssessments)
	byStatus := map[string]int{}
	for _, a := range assessments {
		byStatus[a.Status]++
	}
	for status, n := range byStatus {
		fmt.Fprintf(w, "  %-12s %d\n", status, n)
	}
	return nil
}
