package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/customer-onboarding/internal/transport"
	"github.com/frahmantamala/customer-onboarding/pkg/logger"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "onboarding_session"
	rememberMaxAge    = 7 * 24 * time.Hour
)

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	sessions *SessionStore
	guard    *Guard
}

func NewHandler(svc ServiceAPI, sessions *SessionStore, guard *Guard) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		sessions:    sessions,
		guard:       guard,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The guard may have put the requested target on the query string.
	if dto.ReturnURL == "" {
		dto.ReturnURL = r.URL.Query().Get("returnUrl")
	}

	sessionKey := h.sessionKey(r)
	if sessionKey == "" {
		sessionKey = uuid.NewString()
	}

	result, err := h.Service.Login(sessionKey, dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)

		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, ErrUserInactive):
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionKey,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if dto.Remember {
		cookie.MaxAge = int(rememberMaxAge.Seconds())
	}
	http.SetCookie(w, cookie)

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.Service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.Logger.Error("token refresh failed", "error", err)

		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
			h.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			h.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout clears the session unconditionally and points the client at the
// login entry point. Callable as an explicit action or by the guard's
// expiry branch.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if key := h.sessionKey(r); key != "" {
		h.Service.Logout(key)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.WriteJSON(w, http.StatusOK, map[string]string{"redirect_to": LoginPath})
}

// AccessDenied is the guard's redirect destination for permission denials,
// distinguishable from the login entry point so the client can explain why
// access was refused.
func (h *Handler) AccessDenied(w http.ResponseWriter, r *http.Request) {
	h.WriteError(w, http.StatusForbidden, "insufficient permissions for the requested resource")
}

// Guard wraps a route with the navigation decision chain. Denials become
// redirects (login for missing/expired sessions, access-denied for
// permission failures); allowed requests proceed with the identity and its
// freshly resolved permissions on the context.
func (h *Handler) Guard(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, sess := h.sessionFromRequest(r)

			route := RouteMeta{Path: r.URL.Path, Permission: permission}
			decision := h.guard.Decide(r.Context(), sess, route, time.Now())

			if decision.ClearSession && key != "" {
				h.Service.Logout(key)
			}

			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
				return
			}

			userID, err := strconv.ParseInt(sess.Claims.UserID, 10, 64)
			if err != nil {
				h.Logger.Error("guard: unparseable subject in claims", "value", sess.Claims.UserID)
				h.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := h.Service.GetUserWithPermissions(userID)
			if err != nil {
				h.Logger.Error("guard: failed to load user", "user_id", userID, "error", err)
				h.WriteError(w, http.StatusUnauthorized, "user not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

func (h *Handler) sessionKey(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// sessionFromRequest resolves the caller's session: the cookie-keyed store
// entry for browser sessions, or an ephemeral view of the bearer token for
// API clients, so both go through the same guard decision. A malformed
// token yields no session at all (fail closed).
func (h *Handler) sessionFromRequest(r *http.Request) (string, *Session) {
	key := h.sessionKey(r)
	if key != "" {
		if sess := h.sessions.Current(key); sess != nil {
			return key, sess
		}
	}

	if token := h.ExtractTokenFromHeader(r); token != "" {
		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil && !errors.Is(err, ErrTokenExpired) {
			return key, nil
		}
		if claims != nil {
			return key, &Session{Token: token, Claims: claims}
		}
	}

	return key, nil
}
