package session

// ViewID identifies an authenticated sub-page of the console.
// The set of valid ids and their role scoping live in the views package.
type ViewID string

// State is the explicit session state machine:
// either unauthenticated, or authenticated as a user looking at a view.
//
// Transitions are pure functions from state to state. Persisting the
// result is a side effect applied by the caller after the transition,
// never interleaved with it.
type State struct {
	user       *User
	activeView ViewID
}

// Unauthenticated returns the initial, signed-out state.
func Unauthenticated() State {
	return State{}
}

// Authenticated returns a signed-in state for user showing view.
// The caller is responsible for passing a view valid for the user's
// role (resolve through the views routing table first).
func Authenticated(user User, view ViewID) State {
	return State{user: &user, activeView: view}
}

// IsAuthenticated reports whether a user is signed in.
func (s State) IsAuthenticated() bool { return s.user != nil }

// User returns the signed-in identity, or false when unauthenticated.
func (s State) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Role returns the signed-in role, or false when unauthenticated.
func (s State) Role() (Role, bool) {
	if s.user == nil {
		return "", false
	}
	return s.user.Role, true
}

// ActiveView returns the currently shown view id; empty when unauthenticated.
func (s State) ActiveView() ViewID {
	if s.user == nil {
		return ""
	}
	return s.activeView
}

// LoggedIn transitions to an authenticated state for user at view.
func (s State) LoggedIn(user User, view ViewID) State {
	return Authenticated(user, view)
}

// LoggedOut transitions to the unauthenticated state.
func (s State) LoggedOut() State {
	return Unauthenticated()
}

// Expired transitions to the unauthenticated state after a rejected refresh.
// Identical to LoggedOut; kept distinct so call sites read as what happened.
func (s State) Expired() State {
	return Unauthenticated()
}

// Navigated transitions to the same identity showing view.
// A navigation while unauthenticated is a no-op.
func (s State) Navigated(view ViewID) State {
	if s.user == nil {
		return s
	}
	next := s
	next.activeView = view
	return next
}
