package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
)

func TestRouter_PageGuard(t *testing.T) {
	h := newUIHarness(t)

	t.Run("anonymous browser is sent to sign in with a notice", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin-dashboard/employees", nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"))
		notice := responseCookie(rec, noticeCookieName)
		require.NotNil(t, notice)
		assert.Equal(t, string(domainauth.ReasonNoToken), notice.Value)
		assert.Equal(t, 0, h.api.Calls("ListEmployees"))
	})

	t.Run("employee on an admin page goes to their own home", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin-dashboard", nil, withCookie(h.employeeCookie()))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, domainauth.EmployeeHomePath, rec.Header().Get("Location"))
		notice := responseCookie(rec, noticeCookieName)
		require.NotNil(t, notice)
		assert.Equal(t, string(domainauth.ReasonRoleMismatch), notice.Value)
	})

	t.Run("admin on an employee page goes to the admin home", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/employee-dashboard", nil, withCookie(h.adminCookie()))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, domainauth.AdminHomePath, rec.Header().Get("Location"))
	})

	t.Run("json client gets 401 with redirect target", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin-dashboard", nil, asJSONClient())

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var body deniedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(domainauth.ReasonNoToken), body.Error)
		assert.Equal(t, domainauth.LoginPath, body.RedirectTo)
	})

	t.Run("htmx role mismatch gets 403 and Hx-Redirect", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin-dashboard/overtime", nil, asHTMX(), withCookie(h.employeeCookie()))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, domainauth.EmployeeHomePath, rec.Header().Get("Hx-Redirect"))
	})
}

func TestRouter_MutationGuard(t *testing.T) {
	h := newUIHarness(t)

	rec := h.do(http.MethodPost, "/employee-dashboard/punch/in", nil, withCookie(h.adminCookie()))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domainauth.AdminHomePath, rec.Header().Get("Location"))
	assert.Equal(t, 0, h.api.Calls("ClockIn"))

	anon := h.do(http.MethodDelete, "/admin-dashboard/employees/42", nil, asHTMX())
	assert.Equal(t, http.StatusUnauthorized, anon.Code)
	assert.Equal(t, domainauth.LoginPath, anon.Header().Get("Hx-Redirect"))
	assert.Equal(t, 0, h.api.Calls("DeleteEmployee"))
}

func TestRouter_RevokedTokenClearsSession(t *testing.T) {
	h := newUIHarness(t)
	cookie := h.adminCookie()
	h.api.RevokeToken(adminToken)

	rec := h.do(http.MethodGet, "/admin-dashboard/employees", nil, withCookie(cookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"))
	notice := responseCookie(rec, noticeCookieName)
	require.NotNil(t, notice)
	assert.Equal(t, string(domainauth.ReasonInvalidSession), notice.Value)
	cleared := responseCookie(rec, h.sessions.CookieName())
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestRouter_FetchErrorRendersInline(t *testing.T) {
	h := newUIHarness(t)
	h.api.FailWith("ListEmployees", apperrors.FromStatus(http.StatusServiceUnavailable, ""))

	rec := h.do(http.MethodGet, "/admin-dashboard/employees", nil, withCookie(h.adminCookie()))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
	assert.Contains(t, rec.Body.String(), "/admin-dashboard/employees")
	assert.Nil(t, responseCookie(rec, h.sessions.CookieName()), "session must survive an outage")

	partial := h.do(http.MethodGet, "/admin-dashboard/employees", nil, asHTMX(), withCookie(h.adminCookie()))
	assert.Equal(t, http.StatusOK, partial.Code, "htmx swaps only 2xx responses")
}

func TestRouter_NoticeShownOnce(t *testing.T) {
	h := newUIHarness(t)
	notice := &http.Cookie{Name: noticeCookieName, Value: string(domainauth.ReasonNoToken)}

	rec := h.do(http.MethodGet, "/login", nil, withCookie(notice))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-notice="NO_TOKEN"`)
	assert.Contains(t, rec.Body.String(), "Not Authenticated")
	expired := responseCookie(rec, noticeCookieName)
	require.NotNil(t, expired)
	assert.Negative(t, expired.MaxAge)

	// htmx navigations leave the notice for the next full page.
	partial := h.do(http.MethodGet, "/login", nil, asHTMX(), withCookie(notice))
	assert.NotContains(t, partial.Body.String(), "data-notice")
	assert.Nil(t, responseCookie(partial, noticeCookieName))
}

func TestRouter_PartialNavigation(t *testing.T) {
	h := newUIHarness(t)
	rec := h.do(http.MethodGet, "/admin-dashboard", nil, asHTMX(), withCookie(h.adminCookie()))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!doctype html>")
	assert.Contains(t, body, `<title>Admin Dashboard`)
	assert.Contains(t, body, `hx-swap-oob="outerHTML"`)
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "nav:activate")
}

func TestRouter_NotFound(t *testing.T) {
	h := newUIHarness(t)

	page := h.do(http.MethodGet, "/no-such-page", nil)
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Body.String(), "404")

	api := h.do(http.MethodGet, "/no-such-page", nil, asJSONClient())
	assert.Equal(t, http.StatusNotFound, api.Code)
	assert.Contains(t, api.Header().Get("Content-Type"), "application/json")

	badID := h.do(http.MethodGet, "/admin-dashboard/employees/abc", nil, withCookie(h.adminCookie()))
	assert.Equal(t, http.StatusNotFound, badID.Code)
}

func TestRouter_UnauthenticatedEndpoints(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	h := newUIHarness(t, func(s *RouterServices) { s.Metrics = metrics })

	health := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())
	assert.Nil(t, responseCookie(health, DefaultCSRFCookieName))

	head := h.do(http.MethodHead, "/healthz", nil)
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())

	m := h.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Equal(t, "# metrics", m.Body.String())

	css := h.do(http.MethodGet, "/static/css/styles.css", nil)
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Equal(t, "body{}", css.Body.String())
}
