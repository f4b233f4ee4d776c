package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/optitrack/optitrack-ui/internal/http/ui/viewmodel"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds pagination data with Prev/Next URLs that keep the current filters.
func (b *TemplateDataBuilder) WithPagination(p viewmodel.Pagination) *TemplateDataBuilder {
	if p.HasPrev {
		p.PrevURL = buildPageURL(b.r.URL.Path, b.r.URL.Query(), p.Page-1, p.PageSize)
	}
	if p.HasNext {
		p.NextURL = buildPageURL(b.r.URL.Path, b.r.URL.Query(), p.Page+1, p.PageSize)
	}
	b.data["Pagination"] = p
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildPageURL returns path with page and page_size set, preserving other non-empty
// query params and dropping htmx bookkeeping params.
func buildPageURL(path string, q url.Values, page, pageSize int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		kept := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			qq[k] = kept
		}
	}
	qq.Set("page", strconv.Itoa(page))
	qq.Set("page_size", strconv.Itoa(pageSize))
	return path + "?" + qq.Encode()
}

// pageParams reads page and page_size with defaults and an upper bound on size.
func pageParams(q url.Values, defaultSize, maxSize int) (int, int) {
	page, size := 1, defaultSize
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 && n <= maxSize {
		size = n
	}
	return page, size
}
