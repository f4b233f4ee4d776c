package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMXHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "TRUE")
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))

	r.Header.Set("Hx-Boosted", "true")
	assert.True(t, IsBoosted(r))
	assert.False(t, WantsPartial(r))
}

func TestSetHXTrigger(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXTrigger(rec, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rec.Header().Get("Hx-Trigger"))

	rec = httptest.NewRecorder()
	triggerToast(rec, "Saved", "success")
	assert.JSONEq(t, `{"showToast":{"message":"Saved","type":"success"}}`, rec.Header().Get("Hx-Trigger"))

	rec = httptest.NewRecorder()
	triggerToast(rec, "  ", "success")
	assert.Empty(t, rec.Header().Get("Hx-Trigger"))
}

func TestRedirect(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()
	redirect(rec, r, "/login")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	r.Header.Set("Hx-Request", "true")
	rec = httptest.NewRecorder()
	redirect(rec, r, "/login")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
}
