package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/optitrack/optitrack-ui/internal/domain/model"
	"github.com/optitrack/optitrack-ui/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": friendlyTime,
		"relativeTime": relativeTime,
		"timeTag":      timeTag,
		"dateValue":    dateValue,
		"hours":        formatHours,
		"statusClass":  statusClass,
		"punchClass":   punchClass,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"formatNumber": formatNumber,
		"truncateText": TruncateText,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// asTime unwraps the time shapes templates receive.
func asTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case model.LocalTime:
		return v.Time
	case *model.LocalTime:
		if v != nil {
			return v.Time
		}
	case model.Date:
		return v.Time
	case *model.Date:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(asTime(ts))
}

func relativeTime(ts any) string {
	t := asTime(ts)
	if t.IsZero() {
		return ""
	}
	return uiutil.FriendlyRelativeTime(t)
}

func timeTag(ts any) template.HTML {
	t0 := asTime(ts)
	if t0.IsZero() {
		return ""
	}
	friendly := uiutil.FormatFriendlyDateTime(t0)
	dt := t0.Format(time.RFC3339)
	title := t0.Local().Format(time.RFC1123)
	// #nosec G203 - constructed from escaped values only
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\" title=\"%s\">%s</time>",
		dt,
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(friendly),
	))
}

// dateValue formats a date for an <input type="date"> value.
func dateValue(ts any) string {
	t := asTime(ts)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatHours(v any) string {
	switch h := v.(type) {
	case model.Hours:
		return h.String()
	case float64:
		return model.Hours(h).String()
	default:
		return fmt.Sprint(v)
	}
}

func statusClass(s model.ClockStatus) string {
	switch s {
	case model.StatusClockedIn:
		return "badge-success"
	case model.StatusClockedOut:
		return "badge-secondary"
	default:
		return "badge-light"
	}
}

func punchClass(p model.PunchType) string {
	if p == model.PunchIn {
		return "punch-in"
	}
	return "punch-out"
}

// formatNumber formats an integer with comma separators for thousands.
func formatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		prefix := len(s) % 3
		if prefix == 0 {
			prefix = 3
		}
		b.WriteString(s[:prefix])
		for i := prefix; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	return uiutil.TruncateWithEllipsis(s, maxLen)
}
