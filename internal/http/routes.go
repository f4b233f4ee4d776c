package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	optitrack "github.com/optitrack/optitrack-ui"
	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/service"
	"github.com/optitrack/optitrack-ui/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Loader   *service.ViewLoader
	Pages    *service.PageService
	Auth     *service.AuthService
	Sessions *session.Manager
	Limiter  *LoginLimiter
	CSRF     CSRFConfig
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// TemplateFS overrides template discovery (tests).
	TemplateFS fs.FS
	// StaticFS overrides static asset discovery (tests).
	StaticFS fs.FS
	IsDev    bool
	Logger   *slog.Logger
}

func (s RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// NewRouter builds the application handler. Health, metrics and static assets are
// served without a session; every other route runs behind browser detection,
// the session store, CSRF protection and flash notices.
func NewRouter(services RouterServices) (http.Handler, error) {
	ui, err := setupUIHandlers(services)
	if err != nil {
		return nil, err
	}

	pages := http.NewServeMux()
	registerAuthRoutes(pages, ui)
	registerAdminRoutes(pages, ui)
	registerEmployeeRoutes(pages, ui)
	pages.HandleFunc("/", ui.NotFound)

	var app http.Handler = pages
	app = Notices()(app)
	app = CSRFProtection(services.CSRF)(app)
	app = Sessions(services.Sessions)(app)
	app = BrowserDetection()(app)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", healthHandler)
	root.HandleFunc("HEAD /healthz", healthHandler)
	if services.Metrics != nil {
		root.Handle("GET /metrics", services.Metrics)
	}
	root.Handle("GET /static/", staticHandler(services))
	root.Handle("/", app)
	return root, nil
}

func templateFS(services RouterServices) (fs.FS, error) {
	if services.TemplateFS != nil {
		return services.TemplateFS, nil
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	return fs.Sub(optitrack.TemplateFS, "frontend/templates")
}

func setupUIHandlers(services RouterServices) (*UIHandlers, error) {
	tfs, err := templateFS(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: tfs,
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		services.logger().Error("failed to create template renderer", slog.Any("error", err))
		return nil, err
	}
	return &UIHandlers{
		T:       tr,
		Loader:  services.Loader,
		Pages:   services.Pages,
		Auth:    services.Auth,
		Limiter: services.Limiter,
		IsDev:   services.IsDev,
		Logger:  services.Logger,
	}, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(services RouterServices) http.Handler {
	var fsys fs.FS
	switch {
	case services.StaticFS != nil:
		fsys = services.StaticFS
	case services.IsDev:
		fsys = os.DirFS("frontend/static")
	default:
		sub, err := fs.Sub(optitrack.StaticFS, "frontend/static")
		if err != nil {
			services.logger().Error("failed to open embedded static assets", slog.Any("error", err))
			sub = os.DirFS("frontend/static")
		}
		fsys = sub
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServerFS(fsys)), services.IsDev)
}

//nolint:gochecknoglobals // compiled once
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders marks content-hashed assets immutable and everything else
// revalidated (always uncached in dev mode).
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case hashedFilePattern.MatchString(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case isDev:
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.AuthStatus)
}

// registerAdminRoutes wires the administrator pages. Page GETs guard themselves
// through the view loader; mutations are wrapped in RequireRole.
func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers) {
	admin := h.RequireRole(domainauth.RoleAdmin)

	mux.HandleFunc("GET /admin-dashboard", h.AdminDashboard)
	mux.HandleFunc("GET /admin-dashboard/employees", h.Employees)
	mux.HandleFunc("GET /admin-dashboard/employees/new", h.EmployeeNew)
	mux.HandleFunc("GET /admin-dashboard/employees/{id}", h.EmployeeView)
	mux.HandleFunc("GET /admin-dashboard/employees/{id}/edit", h.EmployeeEdit)
	mux.Handle("POST /admin-dashboard/employees", admin(http.HandlerFunc(h.EmployeeCreate)))
	mux.Handle("POST /admin-dashboard/employees/{id}", admin(http.HandlerFunc(h.EmployeeUpdate)))
	mux.Handle("DELETE /admin-dashboard/employees/{id}", admin(http.HandlerFunc(h.EmployeeDelete)))
	mux.Handle("POST /admin-dashboard/employees/{id}/delete", admin(http.HandlerFunc(h.EmployeeDelete)))

	mux.HandleFunc("GET /admin-dashboard/punch-logs", h.PunchLogs)
	mux.Handle("GET /admin-dashboard/punch-logs/export", admin(http.HandlerFunc(h.PunchLogsExport)))

	mux.HandleFunc("GET /admin-dashboard/overtime", h.OvertimeQueue)
	mux.Handle("POST /admin-dashboard/overtime/{id}/{decision}", admin(http.HandlerFunc(h.OvertimeDecide)))

	mux.HandleFunc("GET /admin-dashboard/reports", h.Reports)
}

func registerEmployeeRoutes(mux *http.ServeMux, h *UIHandlers) {
	employee := h.RequireRole(domainauth.RoleEmployee)

	mux.HandleFunc("GET /employee-dashboard", h.EmployeeDashboard)
	mux.Handle("POST /employee-dashboard/punch/{direction}", employee(http.HandlerFunc(h.Punch)))
	mux.HandleFunc("GET /employee-dashboard/overtime", h.MyOvertime)
	mux.Handle("POST /employee-dashboard/overtime", employee(http.HandlerFunc(h.SubmitOvertime)))
}
