package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optitrack/optitrack-ui/internal/http/ui/viewmodel"
)

func TestNewTemplateData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	meta := PageMeta{
		Title:       "Test Title",
		PageTitle:   "Test Page",
		CurrentPage: "test",
	}

	data := NewTemplateData(r, meta).Build()

	if data["Title"] != "Test Title" {
		t.Errorf("Title = %v, want %v", data["Title"], "Test Title")
	}
	if data["PageTitle"] != "Test Page" {
		t.Errorf("PageTitle = %v, want %v", data["PageTitle"], "Test Page")
	}
	if data["CurrentPage"] != "test" {
		t.Errorf("CurrentPage = %v, want %v", data["CurrentPage"], "test")
	}
	if data["IsAuthenticated"] != false {
		t.Errorf("IsAuthenticated = %v, want %v", data["IsAuthenticated"], false)
	}
	if _, ok := data["User"]; ok {
		t.Error("User should not be set for an anonymous request")
	}
}

func TestTemplateDataBuilder_WithPagination(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin-dashboard/punch-logs?type=IN&q=&page=2", nil)
	pm := meta(PagePunchLogs, "Punch Logs")

	_, p := viewmodel.Paginate(make([]int, 60), 2, 25)
	data := NewTemplateData(r, pm).WithPagination(p).Build()

	got, ok := data["Pagination"].(viewmodel.Pagination)
	if !ok {
		t.Fatal("Pagination is not a viewmodel.Pagination")
	}
	assert.Equal(t, "/admin-dashboard/punch-logs?page=1&page_size=25&type=IN", got.PrevURL)
	assert.Equal(t, "/admin-dashboard/punch-logs?page=3&page_size=25&type=IN", got.NextURL)
	assert.Equal(t, 26, got.StartIndex)
	assert.Equal(t, 50, got.EndIndex)
}

func TestTemplateDataBuilder_WithPagination_FirstAndLastPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin-dashboard/punch-logs", nil)
	pm := meta(PagePunchLogs, "Punch Logs")

	_, first := viewmodel.Paginate(make([]int, 30), 1, 25)
	got := NewTemplateData(r, pm).WithPagination(first).Build()["Pagination"].(viewmodel.Pagination)
	assert.Empty(t, got.PrevURL)
	assert.NotEmpty(t, got.NextURL)

	_, last := viewmodel.Paginate(make([]int, 30), 2, 25)
	got = NewTemplateData(r, pm).WithPagination(last).Build()["Pagination"].(viewmodel.Pagination)
	assert.NotEmpty(t, got.PrevURL)
	assert.Empty(t, got.NextURL)
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	meta := PageMeta{Title: "Test", PageTitle: "Test", CurrentPage: "test"}

	data := NewTemplateData(r, meta).
		WithError("Something went wrong").
		Build()

	if data["Error"] != true {
		t.Errorf("Error = %v, want %v", data["Error"], true)
	}
	if data["ErrorMessage"] != "Something went wrong" {
		t.Errorf("ErrorMessage = %v, want %v", data["ErrorMessage"], "Something went wrong")
	}
}

func TestTemplateDataBuilder_WithFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	meta := PageMeta{Title: "Test", PageTitle: "Test", CurrentPage: "test"}

	t.Run("with errors", func(t *testing.T) {
		data := NewTemplateData(r, meta).
			WithFieldErrors(map[string]string{"email": "is required"}).
			Build()
		errs, ok := data["Errors"].(map[string]string)
		if !ok {
			t.Fatal("Errors is not a map[string]string")
		}
		assert.Equal(t, "is required", errs["email"])
	})

	t.Run("with empty errors", func(t *testing.T) {
		data := NewTemplateData(r, meta).WithFieldErrors(nil).Build()
		errs, ok := data["Errors"].(map[string]string)
		if !ok {
			t.Fatal("Errors should default to an empty map")
		}
		assert.Empty(t, errs)
	})
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, 25},
		{"page=3", 3, 25},
		{"page=0&page_size=50", 1, 50},
		{"page=x&page_size=500", 1, 25},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		page, size := pageParams(q, DefaultPunchLogPageSize, MaxPunchLogPageSize)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantPageSize, size, tt.query)
	}
}
