package console

import (
	"github.com/mediwound/wardview/internal/domain/session"
	"github.com/mediwound/wardview/internal/domain/views"
)

// Outcome is the result of guarding a view open.
type Outcome int

const (
	// Allow means the view opens as requested.
	Allow Outcome = iota
	// RedirectLogin means no session exists; show the login screen.
	RedirectLogin
	// RedirectHome means the role may not open the view; View carries the
	// role's home view instead. The screen is never left blank.
	RedirectHome
)

// Decision is a guard outcome plus the view to actually show.
type Decision struct {
	Outcome Outcome
	View    session.ViewID
}

// Guard decides what to show for an attempt to open view in state.
func Guard(state session.State, view session.ViewID) Decision {
	role, ok := state.Role()
	if !ok {
		return Decision{Outcome: RedirectLogin}
	}
	if views.Allowed(role, view) {
		return Decision{Outcome: Allow, View: view}
	}
	return Decision{Outcome: RedirectHome, View: views.Home(role)}
}
