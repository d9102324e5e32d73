package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mediwound/wardview/internal/domain/session"
	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/ports"
)

// Vault wraps the two state scopes behind one abstraction so the
// "check persistent, then session" read order and the "never both scopes
// at once" write discipline live in exactly one place.
type Vault struct {
	persistent ports.StateStore
	session    ports.StateStore
}

// NewVault creates a vault over the two state scopes.
func NewVault(persistent, sessionScoped ports.StateStore) *Vault {
	return &Vault{persistent: persistent, session: sessionScoped}
}

// Store returns the underlying store for a scope.
func (v *Vault) Store(scope session.Scope) ports.StateStore {
	if scope == session.ScopePersistent {
		return v.persistent
	}
	return v.session
}

// Read returns the value for key from the persistent scope first, then the
// session scope, reporting which scope held it.
func (v *Vault) Read(ctx context.Context, key ports.Key) (string, session.Scope, bool, error) {
	if val, ok, err := v.persistent.Get(ctx, key); err != nil {
		return "", "", false, err
	} else if ok {
		return val, session.ScopePersistent, true, nil
	}
	if val, ok, err := v.session.Get(ctx, key); err != nil {
		return "", "", false, err
	} else if ok {
		return val, session.ScopeSession, true, nil
	}
	return "", "", false, nil
}

// OwningScope returns the scope currently holding the session, determined
// by where the access token lives.
func (v *Vault) OwningScope(ctx context.Context) (session.Scope, bool, error) {
	_, scope, ok, err := v.Read(ctx, ports.KeyAccessToken)
	return scope, ok, err
}

// WriteSession stores the credential set in scope and purges the same keys
// from the other scope, so a session never exists in both at once.
func (v *Vault) WriteSession(ctx context.Context, scope session.Scope, tokens session.TokenPair, user session.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return apperrors.Internal("encode user", err)
	}

	dst := v.Store(scope)
	writes := []struct {
		key ports.Key
		val string
	}{
		{ports.KeyAccessToken, tokens.Access},
		{ports.KeyRefreshToken, tokens.Refresh},
		{ports.KeyUser, string(userJSON)},
		{ports.KeyIsAuthenticated, "true"},
	}
	for _, w := range writes {
		if err := dst.Set(ctx, w.key, w.val); err != nil {
			return fmt.Errorf("write %s: %w", w.key, err)
		}
	}

	if err := v.Store(scope.Other()).Delete(ctx, ports.AuthKeys...); err != nil {
		return fmt.Errorf("purge other scope: %w", err)
	}
	return nil
}

// WriteTokens replaces the credentials in scope, keeping user and flag.
// Refresh is left untouched when the backend did not rotate it.
func (v *Vault) WriteTokens(ctx context.Context, scope session.Scope, access, rotatedRefresh string) error {
	dst := v.Store(scope)
	if err := dst.Set(ctx, ports.KeyAccessToken, access); err != nil {
		return fmt.Errorf("write access token: %w", err)
	}
	if rotatedRefresh != "" {
		if err := dst.Set(ctx, ports.KeyRefreshToken, rotatedRefresh); err != nil {
			return fmt.Errorf("write refresh token: %w", err)
		}
	}
	return nil
}

// ClearSession removes the credential set and the session-scoped UI keys
// from both scopes. It is unconditional: partial prior state never
// prevents the clear.
func (v *Vault) ClearSession(ctx context.Context) error {
	keys := append([]ports.Key{}, ports.AuthKeys...)
	keys = append(keys, ports.SessionScopedKeys...)

	if err := v.persistent.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear persistent scope: %w", err)
	}
	if err := v.session.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear session scope: %w", err)
	}
	return nil
}

// ClearAuthScope removes only the credential keys from one scope. Used
// when a malformed stored user makes that scope's session unusable.
func (v *Vault) ClearAuthScope(ctx context.Context, scope session.Scope) error {
	return v.Store(scope).Delete(ctx, ports.AuthKeys...)
}

// SetActiveView mirrors the active view into the scope owning the session.
// A no-op when no session exists.
func (v *Vault) SetActiveView(ctx context.Context, view session.ViewID) error {
	scope, ok, err := v.OwningScope(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return v.Store(scope).Set(ctx, ports.KeyActiveView, string(view))
}

// ActiveView returns the stored active view, if any.
func (v *Vault) ActiveView(ctx context.Context) (session.ViewID, bool, error) {
	val, _, ok, err := v.Read(ctx, ports.KeyActiveView)
	return session.ViewID(val), ok, err
}

// AckDisclaimer records that the user acknowledged the staff data
// disclaimer, in the scope owning the session.
func (v *Vault) AckDisclaimer(ctx context.Context) error {
	scope, ok, err := v.OwningScope(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return v.Store(scope).Set(ctx, ports.KeyDisclaimerAck, "true")
}

// DisclaimerAcked reports whether the disclaimer was acknowledged this session.
func (v *Vault) DisclaimerAcked(ctx context.Context) (bool, error) {
	val, _, ok, err := v.Read(ctx, ports.KeyDisclaimerAck)
	if err != nil {
		return false, err
	}
	return ok && val == "true", nil
}
