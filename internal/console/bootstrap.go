package console

// Package console is the interactive terminal frontend. It owns the
// in-memory session state machine and renders one view at a time; all
// backend access goes through the api client.

import (
	"context"
	"log/slog"

	"github.com/mediwound/wardview/internal/domain/session"
	"github.com/mediwound/wardview/internal/domain/views"
	"github.com/mediwound/wardview/internal/service"
)

// Restore rebuilds the session state machine from stored state at startup.
// A stored session lands on its persisted active view when that view is
// still allowed for the stored role, and on the role's home view otherwise.
// Anything unreadable or malformed restores as signed out; the auth service
// has already scrubbed the offending scope by the time this returns.
func Restore(ctx context.Context, auth *service.AuthService, logger *slog.Logger) session.State {
	user, ok := auth.CurrentUser(ctx)
	if !ok || !auth.IsAuthenticated(ctx) {
		return session.Unauthenticated()
	}

	view := views.Home(user.Role)
	if stored, found, err := auth.Vault().ActiveView(ctx); err == nil && found && stored != "" {
		view = views.Resolve(user.Role, stored)
	}

	logger.InfoContext(ctx, "session restored",
		slog.String("role", string(user.Role)),
		slog.String("view", string(view)),
	)
	return session.Authenticated(user, view)
}
