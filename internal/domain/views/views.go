package views

// Package views holds the role-scoped routing table for the authenticated
// console. Adding a role or a view is a data change here, not a code change
// anywhere else.

import (
	"sort"

	"github.com/mediwound/wardview/internal/domain/session"
)

// Known view ids. Values are persisted as the active view, so they must
// stay stable across releases.
const (
	Dashboard       session.ViewID = "dashboard"
	DoctorDashboard session.ViewID = "doctor-dashboard"
	NurseDashboard  session.ViewID = "nurse-dashboard"
	Users           session.ViewID = "users"
	Logs            session.ViewID = "logs"
	Storage         session.ViewID = "storage"
	Alerts          session.ViewID = "alerts"
	Settings        session.ViewID = "settings"
	Patients        session.ViewID = "patients"
	AddPatient      session.ViewID = "add-patient"
	Assessments     session.ViewID = "assessments"
	Reports         session.ViewID = "reports"
)

// routes is the authoritative (view, role) permission table.
type roleSet struct {
	admin, doctor, nurse bool
}

var routes = map[session.ViewID]roleSet{
	Dashboard:       {admin: true},
	DoctorDashboard: {doctor: true},
	NurseDashboard:  {nurse: true},
	Users:           {admin: true},
	Logs:            {admin: true},
	Storage:         {admin: true},
	Alerts:          {admin: true},
	Settings:        {admin: true, doctor: true, nurse: true},
	Patients:        {doctor: true, nurse: true},
	AddPatient:      {doctor: true},
	Assessments:     {doctor: true, nurse: true},
	Reports:         {doctor: true},
}

// returnViews maps views that carry caller-supplied back-navigation to the
// view to resume on completion. add-patient is currently the only one.
var returnViews = map[session.ViewID]session.ViewID{
	AddPatient: Patients,
}

func (rs roleSet) has(role session.Role) bool {
	switch role {
	case session.RoleAdmin:
		return rs.admin
	case session.RoleDoctor:
		return rs.doctor
	case session.RoleNurse:
		return rs.nurse
	}
	return false
}

// Home returns the landing view for a role.
func Home(role session.Role) session.ViewID {
	switch role {
	case session.RoleDoctor:
		return DoctorDashboard
	case session.RoleNurse:
		return NurseDashboard
	default:
		return Dashboard
	}
}

// Allowed reports whether role may open view.
func Allowed(role session.Role, view session.ViewID) bool {
	rs, ok := routes[view]
	return ok && rs.has(role)
}

// Resolve returns view when role may open it, and the role's home view
// otherwise. An authenticated screen always resolves to something.
func Resolve(role session.Role, view session.ViewID) session.ViewID {
	if Allowed(role, view) {
		return view
	}
	return Home(role)
}

// ReturnView returns the view to resume when leaving view, for views that
// carry a back-navigation continuation.
func ReturnView(view session.ViewID) (session.ViewID, bool) {
	ret, ok := returnViews[view]
	return ret, ok
}

// AllowedViews lists every view reachable by role, sorted for stable menus.
func AllowedViews(role session.Role) []session.ViewID {
	out := make([]session.ViewID, 0, len(routes))
	for v, rs := range routes {
		if rs.has(role) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All lists every known view id, sorted.
func All() []session.ViewID {
	out := make([]session.ViewID, 0, len(routes))
	for v := range routes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
