package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/mediwound/wardview/internal/api"
	"github.com/mediwound/wardview/internal/domain/session"
	"github.com/mediwound/wardview/internal/domain/views"
	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/service"
)

// Shell is the interactive console loop. It owns the session state
// machine; every transition happens here and is mirrored to the vault
// before the next prompt.
type Shell struct {
	auth   *service.AuthService
	client *api.Client
	pages  *Pages
	logger *slog.Logger

	in  *bufio.Scanner
	out io.Writer

	state session.State

	// expired is set from the api client's session-expired callback, which
	// can fire from any in-flight request.
	expired atomic.Bool
}

// ShellOptions groups dependencies for Shell.
type ShellOptions struct {
	Auth   *service.AuthService
	Client *api.Client
	Pages  *Pages
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer
}

// NewShell constructs the console shell.
func NewShell(opts ShellOptions) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		auth:   opts.Auth,
		client: opts.Client,
		pages:  opts.Pages,
		logger: logger,
		in:     bufio.NewScanner(opts.In),
		out:    opts.Out,
	}
}

// NotifySessionExpired is wired as the api client's OnSessionExpired
// callback. Safe to call from any goroutine.
func (s *Shell) NotifySessionExpired() {
	s.expired.Store(true)
}

// State returns the current session state. Exposed for the admin command
// and tests.
func (s *Shell) State() session.State { return s.state }

// Run restores the session and processes commands until EOF or quit.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "wardview - hospital wound care console")
	s.state = Restore(ctx, s.auth, s.logger)
	if s.state.IsAuthenticated() {
		s.showActiveView(ctx)
	} else {
		fmt.Fprintln(s.out, "Signed out. Type 'login' to sign in.")
	}

	for {
		fmt.Fprint(s.out, s.prompt())
		line, ok := s.readLine()
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}

		s.dispatch(ctx, line)

		if s.expired.Swap(false) {
			s.state = s.state.Expired()
			fmt.Fprintln(s.out, "Your session has expired. Please sign in again.")
		}
	}
}

func (s *Shell) prompt() string {
	if user, ok := s.state.User(); ok {
		return fmt.Sprintf("%s:%s> ", user.Email, s.state.ActiveView())
	}
	return "signed-out> "
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	if !s.state.IsAuthenticated() {
		switch cmd {
		case "login":
			s.cmdLogin(ctx)
		case "help":
			fmt.Fprintln(s.out, "Commands: login, help, quit")
		default:
			fmt.Fprintln(s.out, "Sign in first. Type 'login'.")
		}
		return
	}

	switch cmd {
	case "go":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: go <view>")
			return
		}
		s.cmdGo(ctx, session.ViewID(args[0]))
	case "views":
		s.cmdViews()
	case "show":
		s.showActiveView(ctx)
	case "whoami":
		user, _ := s.state.User()
		fmt.Fprintf(s.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	case "done":
		s.cmdDone(ctx)
	case "dismiss":
		s.cmdDismiss(ctx, args)
	case "complete":
		s.cmdComplete(ctx, args)
	case "admit":
		s.cmdAdmit(ctx, args)
	case "passwd":
		s.cmdPasswd(ctx)
	case "logout":
		s.cmdLogout(ctx)
	case "help":
		fmt.Fprintln(s.out, "Commands: go <view>, views, show, whoami, done, dismiss <id>, complete <id>, admit <name> <mrn> <dob>, passwd, logout, quit")
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help'.\n", cmd)
	}
}

func (s *Shell) cmdLogin(ctx context.Context) {
	remembered := s.auth.RememberedEmail(ctx)
	if remembered != "" {
		fmt.Fprintf(s.out, "Email [%s]: ", remembered)
	} else {
		fmt.Fprint(s.out, "Email: ")
	}
	email, ok := s.readLine()
	if !ok {
		return
	}
	if email == "" {
		email = remembered
	}

	fmt.Fprint(s.out, "Password: ")
	password, ok := s.readLine()
	if !ok {
		return
	}

	fmt.Fprint(s.out, "Stay signed in? [y/N]: ")
	answer, _ := s.readLine()
	persist := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")

	user, err := s.auth.Login(ctx, service.LoginInput{Email: email, Password: password, Persist: persist})
	if err != nil {
		s.printError(err)
		return
	}

	s.state = s.state.LoggedIn(user, views.Home(user.Role))
	if err := s.auth.Vault().SetActiveView(ctx, s.state.ActiveView()); err != nil {
		s.logger.WarnContext(ctx, "persist active view failed", slog.String("error", err.Error()))
	}
	fmt.Fprintf(s.out, "Welcome, %s.\n", user.Name)
	s.showActiveView(ctx)
}

func (s *Shell) cmdLogout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		s.printError(err)
		return
	}
	s.state = s.state.LoggedOut()
	fmt.Fprintln(s.out, "Signed out.")
}

// cmdGo opens a view. A denied view falls back to the role's home view so
// the screen is never left blank; a missing session drops to login.
func (s *Shell) cmdGo(ctx context.Context, view session.ViewID) {
	decision := Guard(s.state, view)
	switch decision.Outcome {
	case RedirectLogin:
		s.state = s.state.LoggedOut()
		fmt.Fprintln(s.out, "Sign in first. Type 'login'.")
		return
	case RedirectHome:
		fmt.Fprintf(s.out, "View %q is not available for your role; showing %s.\n", view, decision.View)
	}

	s.state = s.state.Navigated(decision.View)
	if err := s.auth.Vault().SetActiveView(ctx, decision.View); err != nil {
		s.logger.WarnContext(ctx, "persist active view failed", slog.String("error", err.Error()))
	}
	s.showActiveView(ctx)
}

func (s *Shell) cmdViews() {
	role, _ := s.state.Role()
	for _, v := range views.AllowedViews(role) {
		fmt.Fprintf(s.out, "  %s\n", v)
	}
}

// cmdDone leaves a view that carries a back-navigation continuation,
// resuming its return view.
func (s *Shell) cmdDone(ctx context.Context) {
	ret, ok := views.ReturnView(s.state.ActiveView())
	if !ok {
		fmt.Fprintln(s.out, "Nothing to return to from here.")
		return
	}
	s.cmdGo(ctx, ret)
}

func (s *Shell) cmdDismiss(ctx context.Context, args []string) {
	id, ok := s.parseID(args, "dismiss <id>")
	if !ok {
		return
	}
	if err := s.client.Alerts().Dismiss(ctx, id); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Alert dismissed.")
}

func (s *Shell) cmdComplete(ctx context.Context, args []string) {
	id, ok := s.parseID(args, "complete <id>")
	if !ok {
		return
	}
	if err := s.client.Nurse().CompleteTask(ctx, id); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Task completed.")
}

func (s *Shell) cmdAdmit(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: admit <name> <mrn> <date-of-birth>")
		return
	}
	name := strings.Join(args[:len(args)-2], " ")
	mrn, dob := args[len(args)-2], args[len(args)-1]

	patient, err := s.client.Patients().Create(ctx, api.NewPatient{Name: name, MRN: mrn, DateOfBirth: dob})
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Admitted %s (MRN %s).\n", patient.Name, patient.MRN)
	s.cmdDone(ctx)
}

func (s *Shell) cmdPasswd(ctx context.Context) {
	fmt.Fprint(s.out, "Current password: ")
	oldPw, ok := s.readLine()
	if !ok {
		return
	}
	fmt.Fprint(s.out, "New password: ")
	newPw, ok := s.readLine()
	if !ok {
		return
	}
	fmt.Fprint(s.out, "Confirm new password: ")
	confirm, ok := s.readLine()
	if !ok {
		return
	}

	if err := s.auth.ChangePassword(ctx, oldPw, newPw, confirm); err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, "Password changed.")
}

// showActiveView renders the current view, running the staff data
// disclaimer gate for nurses opening patient records.
func (s *Shell) showActiveView(ctx context.Context) {
	user, ok := s.state.User()
	if !ok {
		return
	}
	view := s.state.ActiveView()

	if view == views.Patients && user.Role == session.RoleNurse {
		if !s.confirmDisclaimer(ctx) {
			s.cmdGo(ctx, views.Home(user.Role))
			return
		}
	}

	if err := s.pages.Render(ctx, s.out, user, view); err != nil {
		s.printError(err)
	}
}

// confirmDisclaimer asks for the patient data handling acknowledgement
// once per session.
func (s *Shell) confirmDisclaimer(ctx context.Context) bool {
	acked, err := s.auth.Vault().DisclaimerAcked(ctx)
	if err == nil && acked {
		return true
	}

	fmt.Fprintln(s.out, "Patient records contain protected health information.")
	fmt.Fprint(s.out, "Acknowledge responsible handling? [y/N]: ")
	answer, ok := s.readLine()
	if !ok || !(strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")) {
		return false
	}
	if err := s.auth.Vault().AckDisclaimer(ctx); err != nil {
		s.logger.WarnContext(ctx, "persist disclaimer ack failed", slog.String("error", err.Error()))
	}
	return true
}

func (s *Shell) parseID(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Usage: %s\n", usage)
		return 0, false
	}
	return id, true
}

func (s *Shell) printError(err error) {
	switch {
	case apperrors.IsInvalidCredentials(err):
		fmt.Fprintln(s.out, "Invalid email or password.")
	case apperrors.IsForbidden(err):
		fmt.Fprintf(s.out, "Not permitted: %s\n", err.Error())
	case apperrors.IsNetwork(err):
		fmt.Fprintln(s.out, "Cannot reach the server. Check your connection and try again.")
	case apperrors.IsValidation(err):
		fmt.Fprintf(s.out, "Invalid input: %s\n", err.Error())
	case apperrors.IsSessionExpired(err):
		// The expired flag handles the banner and state transition.
	default:
		fmt.Fprintf(s.out, "Error: %s\n", err.Error())
	}
}
