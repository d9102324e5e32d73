package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediwound/wardview/internal/domain/session"
	"github.com/mediwound/wardview/internal/domain/views"
)

func TestGuardUnauthenticatedRedirectsToLogin(t *testing.T) {
	d := Guard(session.Unauthenticated(), views.Patients)
	assert.Equal(t, RedirectLogin, d.Outcome)
}

func TestGuardAllowsPermittedView(t *testing.T) {
	state := session.Authenticated(session.User{ID: 1, Role: session.RoleNurse}, views.NurseDashboard)
	d := Guard(state, views.Patients)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, views.Patients, d.View)
}

func TestGuardDeniedViewFallsBackToRoleHome(t *testing.T) {
	tests := []struct {
		role session.Role
		view session.ViewID
		home session.ViewID
	}{
		{session.RoleNurse, views.Users, views.NurseDashboard},
		{session.RoleNurse, views.AddPatient, views.NurseDashboard},
		{session.RoleDoctor, views.Logs, views.DoctorDashboard},
		{session.RoleAdmin, views.Patients, views.Dashboard},
	}

	for _, tt := range tests {
		state := session.Authenticated(session.User{ID: 1, Role: tt.role}, views.Home(tt.role))
		d := Guard(state, tt.view)
		assert.Equal(t, RedirectHome, d.Outcome, "%s opening %s", tt.role, tt.view)
		assert.Equal(t, tt.home, d.View, "%s opening %s", tt.role, tt.view)
	}
}

func TestGuardNeverLeavesScreenBlank(t *testing.T) {
	for _, role := range []session.Role{session.RoleAdmin, session.RoleDoctor, session.RoleNurse} {
		state := session.Authenticated(session.User{ID: 1, Role: role}, views.Home(role))
		for _, view := range append(views.All(), "no-such-view") {
			d := Guard(state, view)
			assert.NotEmpty(t, d.View, "%s opening %s", role, view)
		}
	}
}
