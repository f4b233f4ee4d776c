package httpx

import (
	"net/http"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/service"
)

// deniedResponse is the JSON body sent to htmx and API callers instead of a 303.
type deniedResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirect_to"`
}

// deny carries out a refused access decision. Browsers are redirected with a
// notice keyed by the reason; htmx and API callers get 401/403 JSON, plus an
// Hx-Redirect header for htmx.
func (h *UIHandlers) deny(w http.ResponseWriter, r *http.Request, decision domainauth.AccessDecision) {
	target := decision.RedirectTo
	if target == "" {
		target = domainauth.LoginPath
	}
	h.logger().InfoContext(r.Context(), "access denied",
		"path", r.URL.Path,
		"reason", decision.Reason,
		"redirect_to", target,
	)

	setNotice(w, r, ReasonNotice(decision.Reason))
	if !IsHTMX(r) && IsBrowserRequest(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	status := http.StatusUnauthorized
	if decision.Reason == domainauth.ReasonRoleMismatch {
		status = http.StatusForbidden
	}
	if IsHTMX(r) {
		SetHXRedirect(w, target)
	}
	WriteJSON(w, status, deniedResponse{Error: string(decision.Reason), RedirectTo: target})
}

// RequireRole guards mutation routes. It runs the same resolve-and-guard step as
// page loads and places the authorized Viewer in the request context.
func (h *UIHandlers) RequireRole(required domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, ok := GetTokenStoreFromContext(r.Context())
			if !ok {
				http.Error(w, errMsgSessionStore, http.StatusInternalServerError)
				return
			}
			res, decision := h.Loader.Authorize(r.Context(), store, service.ViewRequest{
				Name:     r.Method + " " + r.URL.Path,
				Required: required,
				Path:     r.URL.Path,
			})
			if r.Context().Err() != nil {
				return
			}
			if !decision.Allowed {
				h.deny(w, r, decision)
				return
			}
			viewer := service.Viewer{Identity: *res.Identity, Token: res.Token}
			next.ServeHTTP(w, r.WithContext(SetViewerInContext(r.Context(), viewer)))
		})
	}
}

// viewer returns the Viewer placed by RequireRole. Handlers mounted behind
// RequireRole can rely on it being present.
func viewer(r *http.Request) service.Viewer {
	v, _ := GetViewerFromContext(r.Context())
	return v
}

// sessionRejected handles an API 401/403 seen during a mutation the same way a
// page load does: the session is cleared and the caller is sent to sign in.
// It reports whether err was such a rejection.
func (h *UIHandlers) sessionRejected(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apperrors.IsSessionInvalid(err) {
		return false
	}
	if store, ok := GetTokenStoreFromContext(r.Context()); ok {
		if clearErr := store.ClearSession(r.Context()); clearErr != nil {
			h.logger().WarnContext(r.Context(), "failed to clear rejected session", "error", clearErr)
		}
	}
	h.deny(w, r, domainauth.InvalidSession())
	return true
}

// actionFailed reports a failed mutation: a toast for htmx, a notice plus
// redirect to fallback for plain form posts, JSON for API callers.
func (h *UIHandlers) actionFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if h.sessionRejected(w, r, err) {
		return
	}
	h.logger().WarnContext(r.Context(), "action failed", "path", r.URL.Path, "error", err)
	switch {
	case IsHTMX(r):
		triggerToast(w, apperrors.UserMessage(err), "error")
		w.WriteHeader(http.StatusNoContent)
	case IsBrowserRequest(r):
		setNotice(w, r, NoticeActionFailed)
		http.Redirect(w, r, fallback, http.StatusSeeOther)
	default:
		WriteAppError(w, err)
	}
}

// actionSucceeded finishes a mutation by redirecting to target with a notice.
func actionSucceeded(w http.ResponseWriter, r *http.Request, key NoticeKey, target string) {
	setNotice(w, r, key)
	redirect(w, r, target)
}
