package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

const (
	errMsgBadCredentials = "Invalid email or password."
	errMsgTooManyLogins  = "Too many sign-in attempts. Please wait a minute and try again."
)

// authStatusResponse is the body of GET /auth/status.
type authStatusResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *domainauth.Identity `json:"user,omitempty"`
}

// Home sends a signed-in user to their role's home page and everyone else to sign in.
// GET /.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	store, ok := GetTokenStoreFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
		return
	}
	home, ok := h.signedInHome(r, store)
	if !ok {
		http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, home, http.StatusSeeOther)
}

// signedInHome returns the home page of the resolved identity when that page would admit it.
// A session its own home page refuses is cleared so /login renders instead of bouncing back.
func (h *UIHandlers) signedInHome(r *http.Request, store ports.TokenStore) (string, bool) {
	ctx := r.Context()
	identity, resolved := h.Loader.Resolver().ResolveIdentity(ctx, store)
	if !resolved {
		return "", false
	}
	if domainauth.CheckAccess(identity, identity.Role).Allowed {
		if home := domainauth.RoleHomePage(identity.Role); home != domainauth.LoginPath {
			return home, true
		}
	}
	if err := store.ClearSession(ctx); err != nil {
		h.logger().WarnContext(ctx, "failed to clear unusable session", "error", err)
	}
	return "", false
}

// LoginPage renders the sign-in form. A user who is already signed in goes straight home.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if store, ok := GetTokenStoreFromContext(r.Context()); ok {
		if home, signedIn := h.signedInHome(r, store); signedIn {
			redirect(w, r, home)
			return
		}
	}
	h.renderLogin(w, r, http.StatusOK, loginForm{})
}

type loginForm struct {
	Email       string
	Error       string
	FieldErrors map[string]string
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, form loginForm) {
	b := NewTemplateData(r, meta(PageLogin, "Sign In")).
		With("Email", form.Email).
		WithFieldErrors(form.FieldErrors)
	if form.Error != "" {
		b.WithError(form.Error)
	}
	h.renderPage(w, r, status, b.Build())
}

// Login forwards the submitted credentials to the API and, on success, stores the
// session and redirects by role.
// POST /login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginForm{Error: "The form could not be read."})
		return
	}
	req := model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if !h.Limiter.Allow(r) {
		h.logger().WarnContext(r.Context(), "login rate limited")
		w.Header().Set("Retry-After", "60")
		h.renderLogin(w, r, http.StatusTooManyRequests, loginForm{Email: req.Email, Error: errMsgTooManyLogins})
		return
	}

	store, ok := GetTokenStoreFromContext(r.Context())
	if !ok {
		http.Error(w, errMsgSessionStore, http.StatusInternalServerError)
		return
	}

	outcome, err := h.Auth.Login(r.Context(), store, req)
	if err != nil {
		h.renderLoginError(w, r, req.Email, err)
		return
	}
	redirect(w, r, outcome.RedirectTo)
}

func (h *UIHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, email string, err error) {
	var fe model.FieldErrors
	switch {
	case errors.As(err, &fe):
		h.renderLogin(w, r, http.StatusBadRequest, loginForm{Email: email, Error: errMsgFixBelow, FieldErrors: fe})
	case apperrors.IsUnauthorized(err), apperrors.IsForbidden(err), apperrors.IsValidation(err):
		h.renderLogin(w, r, http.StatusUnauthorized, loginForm{Email: email, Error: errMsgBadCredentials})
	default:
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		status := apperrors.HTTPStatus(err)
		if WantsPartial(r) {
			status = http.StatusOK
		}
		h.renderLogin(w, r, status, loginForm{Email: email, Error: apperrors.UserMessage(err)})
	}
}

// Logout clears the session and returns to the sign-in page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if store, ok := GetTokenStoreFromContext(r.Context()); ok {
		if err := h.Auth.Logout(r.Context(), store); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	actionSucceeded(w, r, NoticeSignedOut, domainauth.LoginPath)
}

// AuthStatus reports whether the caller has a resolvable session.
// GET /auth/status.
func (h *UIHandlers) AuthStatus(w http.ResponseWriter, r *http.Request) {
	resp := authStatusResponse{}
	if store, ok := GetTokenStoreFromContext(r.Context()); ok {
		if identity, resolved := h.Loader.Resolver().ResolveIdentity(r.Context(), store); resolved {
			resp.Authenticated = true
			resp.User = identity
		}
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, resp)
}
