package httpx

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	"github.com/optitrack/optitrack-ui/internal/service"
	"github.com/optitrack/optitrack-ui/internal/session"
	"github.com/optitrack/optitrack-ui/internal/testutil"
)

const (
	testCSRFToken = "tok"
	adminToken    = "admin-token"
	employeeToken = "employee-token"
	testEmployee  = int64(42)
)

// uiHarness drives the full router against an in-memory API.
type uiHarness struct {
	t        *testing.T
	api      *testutil.FakeAPI
	sessions *session.Manager
	handler  http.Handler
}

func newUIHarness(t *testing.T, configure ...func(*RouterServices)) *uiHarness {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	api := testutil.NewFakeAPI()

	sessions, err := session.NewManager(session.Config{
		HashKey: bytes.Repeat([]byte("k"), 32),
		Logger:  logger,
	})
	require.NoError(t, err)

	resolver := service.NewSessionResolver(service.SessionResolverOptions{WhoAmI: api, Logger: logger})
	services := RouterServices{
		Loader:     service.NewViewLoader(service.ViewLoaderOptions{Resolver: resolver, Logger: logger}),
		Pages:      service.NewPageService(service.PageServiceOptions{API: api, Logger: logger}),
		Auth:       service.NewAuthService(service.AuthServiceOptions{Login: api, Logger: logger}),
		Sessions:   sessions,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   fstest.MapFS{"css/styles.css": {Data: []byte("body{}")}},
		Logger:     logger,
	}
	for _, fn := range configure {
		fn(&services)
	}
	handler, err := NewRouter(services)
	require.NoError(t, err)

	h := &uiHarness{t: t, api: api, sessions: sessions, handler: handler}
	api.AddUser("admin-pass", adminToken, testutil.AdminIdentity())
	api.AddUser("employee-pass", employeeToken, testutil.EmployeeIdentity(testEmployee))
	api.AddEmployee(model.Employee{
		ID:         testEmployee,
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@optitrack.test",
		Department: "Operations",
	})
	return h
}

// sessionCookie builds the cookie a browser would hold after signing in.
func (h *uiHarness) sessionCookie(token string, id domainauth.Identity) *http.Cookie {
	h.t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(h.t, h.sessions.Open(rec, req).SetSession(context.Background(), token, id))
	for _, c := range rec.Result().Cookies() {
		if c.Name == h.sessions.CookieName() {
			return c
		}
	}
	h.t.Fatal("session cookie not written")
	return nil
}

func (h *uiHarness) adminCookie() *http.Cookie {
	return h.sessionCookie(adminToken, testutil.AdminIdentity())
}

func (h *uiHarness) employeeCookie() *http.Cookie {
	return h.sessionCookie(employeeToken, testutil.EmployeeIdentity(testEmployee))
}

type requestOption func(*http.Request)

func withCookie(c *http.Cookie) requestOption {
	return func(r *http.Request) { r.AddCookie(c) }
}

func asHTMX() requestOption {
	return func(r *http.Request) { r.Header.Set("Hx-Request", "true") }
}

func asJSONClient() requestOption {
	return func(r *http.Request) { r.Header.Set("Accept", "application/json") }
}

func withoutCSRF() requestOption {
	return func(r *http.Request) { r.Header.Del(DefaultCSRFHeaderName) }
}

// do serves one request. form, when non-nil, is sent url-encoded. Every request
// carries a matching CSRF cookie and header unless withoutCSRF is given.
func (h *uiHarness) do(method, target string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// responseCookie returns the named cookie set on the response, if any.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
