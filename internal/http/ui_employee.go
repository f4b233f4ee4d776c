package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/service"
)

const myOvertimePath = "/employee-dashboard/overtime"

func employeePage(page, title string) pageSpec {
	return pageSpec{Meta: meta(page, title), Required: domainauth.RoleEmployee}
}

// EmployeeDashboard shows the signed-in employee's hours, status and recent punches.
// GET /employee-dashboard.
func (h *UIHandlers) EmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, employeePage(PageEmployeeDashboard, "My Dashboard"),
		func(ctx context.Context, v service.Viewer) (*model.EmployeeDashboardStats, error) {
			return h.Pages.EmployeeDashboard(ctx, v.Token, v.Identity.EmployeeIDValue())
		},
		func(b *TemplateDataBuilder, stats *model.EmployeeDashboardStats) {
			b.With("Stats", stats).With("ClockedIn", stats.IsClockedIn())
		},
	)
}

// Punch clocks the signed-in employee in or out.
// POST /employee-dashboard/punch/{direction}.
func (h *UIHandlers) Punch(w http.ResponseWriter, r *http.Request) {
	direction := model.ParsePunchType(r.PathValue("direction"))
	if direction == "" {
		h.NotFound(w, r)
		return
	}
	v := viewer(r)
	employeeID := v.Identity.EmployeeIDValue()

	var err error
	key := NoticeClockedIn
	if direction == model.PunchIn {
		_, err = h.Pages.API().ClockIn(r.Context(), v.Token, employeeID)
	} else {
		key = NoticeClockedOut
		_, err = h.Pages.API().ClockOut(r.Context(), v.Token, employeeID)
	}
	if err != nil {
		h.actionFailed(w, r, err, domainauth.EmployeeHomePath)
		return
	}
	h.logger().InfoContext(r.Context(), "punch recorded", "employee_id", employeeID, "type", direction)
	actionSucceeded(w, r, key, domainauth.EmployeeHomePath)
}

// overtimeForm is the submitted overtime form as typed, for re-rendering.
type overtimeForm struct {
	OvertimeDate   string
	RequestedHours string
	Reason         string
}

func overtimeRequestFromForm(r *http.Request) (overtimeForm, model.SubmitOvertimeRequest, map[string]string) {
	form := overtimeForm{
		OvertimeDate:   strings.TrimSpace(r.PostFormValue("overtimeDate")),
		RequestedHours: strings.TrimSpace(r.PostFormValue("requestedHours")),
		Reason:         r.PostFormValue("reason"),
	}
	req := model.SubmitOvertimeRequest{Reason: form.Reason}
	errs := map[string]string{}

	if form.OvertimeDate != "" {
		d, err := model.ParseDate(form.OvertimeDate)
		if err != nil {
			errs["overtimeDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			req.OvertimeDate = d
		}
	}
	if form.RequestedHours != "" {
		hours, err := strconv.ParseFloat(form.RequestedHours, 64)
		if err != nil {
			errs["requestedHours"] = "must be a number"
		} else {
			req.RequestedHours = hours
		}
	}

	var fe model.FieldErrors
	if err := req.Validate(); errors.As(err, &fe) {
		for k, msg := range fe {
			if _, exists := errs[k]; !exists {
				errs[k] = msg
			}
		}
	}
	return form, req, errs
}

// MyOvertime lists the employee's pending and approved requests with the submit form.
// GET /employee-dashboard/overtime.
func (h *UIHandlers) MyOvertime(w http.ResponseWriter, r *http.Request) {
	h.serveMyOvertime(w, r, http.StatusOK, overtimeForm{}, nil)
}

func (h *UIHandlers) serveMyOvertime(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form overtimeForm,
	errs map[string]string,
) {
	spec := employeePage(PageMyOvertime, "My Overtime")
	spec.Status = status
	servePage(h, w, r, spec,
		func(ctx context.Context, v service.Viewer) (*service.MyOvertime, error) {
			return h.Pages.MyOvertime(ctx, v.Token)
		},
		func(b *TemplateDataBuilder, mine *service.MyOvertime) {
			b.With("Pending", mine.Pending).
				With("Approved", mine.Approved).
				With("Form", form).
				WithFieldErrors(errs)
			if len(errs) > 0 {
				b.WithError(errMsgFixBelow)
			}
		},
	)
}

// SubmitOvertime sends a new overtime request for the signed-in employee.
// POST /employee-dashboard/overtime.
func (h *UIHandlers) SubmitOvertime(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.actionFailed(w, r, apperrors.Validation("The form could not be read."), myOvertimePath)
		return
	}
	form, req, errs := overtimeRequestFromForm(r)
	if len(errs) > 0 {
		h.serveMyOvertime(w, r, http.StatusBadRequest, form, errs)
		return
	}

	v := viewer(r)
	if _, err := h.Pages.API().SubmitOvertime(r.Context(), v.Token, req); err != nil {
		if h.sessionRejected(w, r, err) {
			return
		}
		if apperrors.IsValidation(err) {
			field := apperrors.GetField(err)
			if field == "" {
				field = "reason"
			}
			h.serveMyOvertime(w, r, http.StatusBadRequest, form, map[string]string{field: apperrors.UserMessage(err)})
			return
		}
		h.actionFailed(w, r, err, myOvertimePath)
		return
	}
	actionSucceeded(w, r, NoticeOvertimeSubmitted, myOvertimePath)
}
