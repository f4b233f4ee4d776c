package httpx

import (
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/http/ui/viewmodel"
	"github.com/optitrack/optitrack-ui/internal/service"
)

const (
	errMsgFixBelow     = "Please fix the errors below."
	errMsgSessionStore = "Your session could not be read. Please sign in again."
	appTitleSuffix     = " - OptiTrack"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	Loader  *service.ViewLoader
	Pages   *service.PageService
	Auth    *service.AuthService
	Limiter *LoginLimiter
	IsDev   bool
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

func meta(page, title string) PageMeta {
	return PageMeta{Title: title + appTitleSuffix, PageTitle: title, CurrentPage: page}
}

//nolint:gochecknoglobals // static navigation per role
var (
	adminNav = []viewmodel.NavItem{
		{Page: PageAdminDashboard, Label: "Dashboard", Href: domainauth.AdminHomePath},
		{Page: PageEmployees, Label: "Employees", Href: "/admin-dashboard/employees"},
		{Page: PagePunchLogs, Label: "Punch Logs", Href: "/admin-dashboard/punch-logs"},
		{Page: PageOvertimeQueue, Label: "Overtime", Href: "/admin-dashboard/overtime"},
		{Page: PageReports, Label: "Reports", Href: "/admin-dashboard/reports"},
	}
	employeeNav = []viewmodel.NavItem{
		{Page: PageEmployeeDashboard, Label: "Dashboard", Href: domainauth.EmployeeHomePath},
		{Page: PageMyOvertime, Label: "Overtime", Href: "/employee-dashboard/overtime"},
	}
)

// buildLayout constructs shared layout metadata from the request context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Notice:      noticeFromContext(r.Context()),
	}

	if id := identityFromContext(r.Context()); id != nil {
		layout.IsAuthenticated = true
		layout.IsAdmin = id.IsAdmin()
		layout.User = &viewmodel.User{
			Email:      id.Email,
			Name:       id.DisplayName(),
			Role:       string(id.Role),
			Department: id.Department,
		}
		if layout.IsAdmin {
			layout.Nav = adminNav
		} else {
			layout.Nav = employeeNav
		}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
		"Nav":             layout.Nav,
		"CSRFToken":       layout.CSRFToken,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	if layout.Notice != nil {
		data["Notice"] = layout.Notice
	}
	return data
}

// renderPage renders data as a full page, or as the content fragment for htmx
// navigation with out-of-band title updates.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	page, _ := data["CurrentPage"].(string)
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, status, data); err != nil {
			h.renderTemplateFailure(w, r, err)
		}
		return
	}

	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})
	var prefix string
	if title, ok := data["Title"].(string); ok {
		prefix += `<title>` + html.EscapeString(title) + `</title>`
	}
	if pageTitle, ok := data["PageTitle"].(string); ok {
		prefix += `<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
			html.EscapeString(pageTitle) + `</h1>`
	}
	// #nosec G203 - built from escaped values only
	data["PartialPrefix"] = template.HTML(prefix)
	if err := h.T.RenderPartial(w, status, page, data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}

func (h *UIHandlers) renderTemplateFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "render failed", "path", r.URL.Path, "error", err)
	msg := "Internal Server Error"
	if h.IsDev {
		msg += ": " + err.Error()
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

// pageSpec describes a protected page served through the view loader.
type pageSpec struct {
	Meta     PageMeta
	Required domainauth.Role
	// Status overrides 200 for the ready state, e.g. 400 when re-rendering an invalid form.
	Status int
}

// servePage runs the view loader for spec and renders the resulting state: a
// redirect for denials, an inline error with a retry link, or the ready page
// assembled by build.
func servePage[T any](
	h *UIHandlers,
	w http.ResponseWriter,
	r *http.Request,
	spec pageSpec,
	fetch service.FetchFunc[T],
	build func(b *TemplateDataBuilder, data T),
) {
	store, ok := GetTokenStoreFromContext(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "no token store on request", "path", r.URL.Path)
		http.Error(w, errMsgSessionStore, http.StatusInternalServerError)
		return
	}

	res := service.LoadView(r.Context(), h.Loader, store, service.ViewRequest{
		Name:     spec.Meta.CurrentPage,
		Required: spec.Required,
		Path:     r.URL.Path,
	}, fetch)

	switch {
	case res.Discarded:
		h.logger().DebugContext(r.Context(), "page load discarded", "path", r.URL.Path)
		return
	case res.State == service.ViewRedirect:
		h.deny(w, r, res.Decision)
		return
	}

	r = r.WithContext(SetViewerInContext(r.Context(), service.Viewer{Identity: *res.Identity}))
	b := NewTemplateData(r, spec.Meta)
	status := http.StatusOK
	if res.State == service.ViewError {
		b.WithError(res.ErrorMessage).With("RetryURL", r.URL.RequestURI())
		// htmx does not swap error statuses by default.
		if !WantsPartial(r) {
			status = apperrors.HTTPStatus(res.Err)
		}
	} else {
		build(b, res.Data)
		if spec.Status != 0 && !WantsPartial(r) {
			status = spec.Status
		}
	}
	h.renderPage(w, r, status, b.Build())
}

// NotFound renders a 404 page for browsers and a JSON error for API clients.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: string(apperrors.ErrCodeNotFound)})
		return
	}
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	data := map[string]any{
		"Title":   "Page Not Found" + appTitleSuffix,
		"Code":    "404",
		"Message": "The page you're looking for doesn't exist.",
	}
	if err := h.T.RenderError(w, http.StatusNotFound, data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}

// pathID parses the {id} path value. ok is false for anything but a positive integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
