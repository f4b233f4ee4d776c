package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/http/ui/viewmodel"
)

const noticeCookieName = "optitrack_notice"

// NoticeKey names a one-shot message shown on the next full page render.
type NoticeKey string

const (
	NoticeSignedOut         NoticeKey = "signed_out"
	NoticeEmployeeCreated   NoticeKey = "employee_created"
	NoticeEmployeeUpdated   NoticeKey = "employee_updated"
	NoticeEmployeeDeleted   NoticeKey = "employee_deleted"
	NoticeClockedIn         NoticeKey = "clocked_in"
	NoticeClockedOut        NoticeKey = "clocked_out"
	NoticeOvertimeSubmitted NoticeKey = "overtime_submitted"
	NoticeOvertimeApproved  NoticeKey = "overtime_approved"
	NoticeOvertimeRejected  NoticeKey = "overtime_rejected"
	NoticeActionFailed      NoticeKey = "action_failed"
)

type noticeText struct {
	kind    string
	message string
}

//nolint:gochecknoglobals // static lookup of notice copy
var notices = map[NoticeKey]noticeText{
	NoticeKey(domainauth.ReasonNoToken): {
		"error", "Not Authenticated: please sign in.",
	},
	NoticeKey(domainauth.ReasonInvalidSession): {
		"error", "Authentication Failed: your session has expired.",
	},
	NoticeKey(domainauth.ReasonRoleMismatch): {
		"error", "Access Denied: you do not have permission to view that page.",
	},
	NoticeSignedOut:         {"info", "You have been signed out."},
	NoticeEmployeeCreated:   {"success", "Employee added."},
	NoticeEmployeeUpdated:   {"success", "Employee updated."},
	NoticeEmployeeDeleted:   {"success", "Employee deleted."},
	NoticeClockedIn:         {"success", "Clocked in."},
	NoticeClockedOut:        {"success", "Clocked out."},
	NoticeOvertimeSubmitted: {"success", "Overtime request submitted."},
	NoticeOvertimeApproved:  {"success", "Overtime request approved."},
	NoticeOvertimeRejected:  {"success", "Overtime request rejected."},
	NoticeActionFailed:      {"error", "That action could not be completed. Please try again."},
}

// ReasonNotice maps an access-denial reason to its notice.
func ReasonNotice(reason domainauth.ReasonCode) NoticeKey { return NoticeKey(reason) }

// NoticeFor returns the notice for key, or nil when the key is unknown.
func NoticeFor(key NoticeKey) *viewmodel.Notice {
	text, ok := notices[key]
	if !ok {
		return nil
	}
	return &viewmodel.Notice{Key: string(key), Kind: text.kind, Message: text.message}
}

// setNotice queues key for the next full page render. Unknown keys are ignored.
func setNotice(w http.ResponseWriter, r *http.Request, key NoticeKey) {
	if _, ok := notices[key]; !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    string(key),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

type noticeKey struct{}

// Notices consumes a queued notice on full-page GET requests, exposing it to the
// page's layout and expiring the cookie so it shows exactly once.
func Notices() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || IsHTMX(r) || !IsBrowserRequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			c, err := r.Cookie(noticeCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     noticeCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			if n := NoticeFor(NoticeKey(c.Value)); n != nil {
				r = r.WithContext(context.WithValue(r.Context(), noticeKey{}, n))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func noticeFromContext(ctx context.Context) *viewmodel.Notice {
	n, _ := ctx.Value(noticeKey{}).(*viewmodel.Notice)
	return n
}
