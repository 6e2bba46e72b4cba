package auth

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

const (
	LoginPath        = "/auth/login"
	AccessDeniedPath = "/auth/access-denied"
)

// RouteMeta is the navigation metadata a route declares. An empty Permission
// means no permission is required, which is not the same as requiring "no
// permission": such routes are implicitly granted to any authenticated
// caller.
type RouteMeta struct {
	Path       string
	Permission string
}

// Decision is the guard's verdict for one navigation attempt. ClearSession
// marks the expiry branch, where the transport layer must run logout before
// redirecting; the decision itself performs no side effect.
type Decision struct {
	Allow        bool
	RedirectTo   string
	ClearSession bool
}

// Guard decides whether a navigation may proceed. Checks run in a fixed
// fail-closed order: authentication before expiry, expiry before permission.
// An expired session is therefore never evaluated against permissions.
type Guard struct {
	eval     Evaluator
	resolver *Resolver
	logger   *slog.Logger
}

func NewGuard(eval Evaluator, resolver *Resolver, logger *slog.Logger) *Guard {
	return &Guard{eval: eval, resolver: resolver, logger: logger}
}

// Decide evaluates one navigation attempt, terminal in a single step:
//  1. no session held: redirect to login carrying the requested target;
//  2. token expired: clear the session, redirect to login without a return
//     target since the session is being discarded;
//  3. declared permission not held: redirect to access-denied;
//  4. otherwise allow.
func (g *Guard) Decide(ctx context.Context, sess *Session, route RouteMeta, now time.Time) Decision {
	if sess == nil || sess.Claims == nil {
		return Decision{RedirectTo: loginRedirect(route.Path)}
	}

	if g.eval.IsExpired(sess.Claims, now) {
		return Decision{ClearSession: true, RedirectTo: LoginPath}
	}

	if route.Permission == "" {
		return Decision{Allow: true}
	}

	userID, err := strconv.ParseInt(sess.Claims.UserID, 10, 64)
	if err != nil {
		g.logger.Warn("guard: unparseable subject in claims", "value", sess.Claims.UserID)
		return Decision{RedirectTo: AccessDeniedPath}
	}

	allowed, err := g.resolver.HasPermission(ctx, userID, route.Permission)
	if err != nil || !allowed {
		if err != nil {
			g.logger.Error("guard: permission check failed", "user_id", userID, "permission", route.Permission, "error", err)
		}
		return Decision{RedirectTo: AccessDeniedPath}
	}

	return Decision{Allow: true}
}

func loginRedirect(target string) string {
	if target == "" {
		return LoginPath
	}
	return LoginPath + "?returnUrl=" + url.QueryEscape(target)
}
