package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	"github.com/optitrack/optitrack-ui/internal/domain/optimistic"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/http/ui/viewmodel"
	"github.com/optitrack/optitrack-ui/internal/service"
)

const employeesPath = "/admin-dashboard/employees"

func adminPage(page, title string) pageSpec {
	return pageSpec{Meta: meta(page, title), Required: domainauth.RoleAdmin}
}

// AdminDashboard shows headline stats and recent clock activity.
// GET /admin-dashboard.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, adminPage(PageAdminDashboard, "Admin Dashboard"),
		func(ctx context.Context, v service.Viewer) (*service.AdminDashboard, error) {
			return h.Pages.AdminDashboard(ctx, v.Token)
		},
		func(b *TemplateDataBuilder, d *service.AdminDashboard) {
			b.With("Stats", d.Stats).With("Activity", d.Activity)
		},
	)
}

// Employees lists employees with their clock status.
// GET /admin-dashboard/employees.
func (h *UIHandlers) Employees(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, adminPage(PageEmployees, "Employees"),
		func(ctx context.Context, v service.Viewer) ([]service.EmployeeRow, error) {
			return h.Pages.EmployeeDirectory(ctx, v.Token)
		},
		func(b *TemplateDataBuilder, rows []service.EmployeeRow) {
			b.With("Rows", rows)
		},
	)
}

// EmployeeView shows one employee with their punch history.
// GET /admin-dashboard/employees/{id}.
func (h *UIHandlers) EmployeeView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	servePage(h, w, r, adminPage(PageEmployeeView, "Employee Details"),
		func(ctx context.Context, v service.Viewer) (*service.EmployeeDetail, error) {
			return h.Pages.EmployeeDetail(ctx, v.Token, id)
		},
		func(b *TemplateDataBuilder, d *service.EmployeeDetail) {
			b.With("Employee", d.Employee).With("Status", d.Status).With("Punches", d.Punches)
		},
	)
}

// employeeFormView is the data an employee form needs besides the layout.
type employeeFormView struct {
	Mode   FormMode
	ID     int64
	Form   model.EmployeeRequest
	Errors map[string]string
	Error  string
}

func (v employeeFormView) meta() PageMeta {
	if v.Mode == FormModeEdit {
		return meta(PageEmployeeForm, "Edit Employee")
	}
	return meta(PageEmployeeForm, "Add Employee")
}

func (v employeeFormView) action() string {
	if v.Mode == FormModeEdit {
		return employeesPath + "/" + strconv.FormatInt(v.ID, 10)
	}
	return employeesPath
}

func (v employeeFormView) apply(b *TemplateDataBuilder) {
	b.With("Mode", string(v.Mode)).
		With("EmployeeID", v.ID).
		With("Form", v.Form).
		With("Action", v.action()).
		WithFieldErrors(v.Errors)
	if v.Error != "" {
		b.WithError(v.Error)
	}
}

// EmployeeNew renders the add-employee form.
// GET /admin-dashboard/employees/new.
func (h *UIHandlers) EmployeeNew(w http.ResponseWriter, r *http.Request) {
	view := employeeFormView{Mode: FormModeCreate}
	servePage(h, w, r, pageSpec{Meta: view.meta(), Required: domainauth.RoleAdmin},
		func(context.Context, service.Viewer) (struct{}, error) { return struct{}{}, nil },
		func(b *TemplateDataBuilder, _ struct{}) { view.apply(b) },
	)
}

// EmployeeEdit renders the edit form prefilled from the API.
// GET /admin-dashboard/employees/{id}/edit.
func (h *UIHandlers) EmployeeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	view := employeeFormView{Mode: FormModeEdit, ID: id}
	servePage(h, w, r, pageSpec{Meta: view.meta(), Required: domainauth.RoleAdmin},
		func(ctx context.Context, v service.Viewer) (*model.Employee, error) {
			return h.Pages.API().GetEmployee(ctx, v.Token, id)
		},
		func(b *TemplateDataBuilder, e *model.Employee) {
			if e != nil {
				view.Form = model.RequestFromEmployee(*e)
			}
			view.apply(b)
		},
	)
}

// renderEmployeeForm re-renders a submitted form with its errors.
func (h *UIHandlers) renderEmployeeForm(w http.ResponseWriter, r *http.Request, status int, view employeeFormView) {
	b := NewTemplateData(r, view.meta())
	view.apply(b)
	if WantsPartial(r) {
		status = http.StatusOK
	}
	h.renderPage(w, r, status, b.Build())
}

func employeeRequestFromForm(r *http.Request) (model.EmployeeRequest, map[string]string) {
	req := model.EmployeeRequest{
		FirstName:     r.PostFormValue("firstName"),
		LastName:      r.PostFormValue("lastName"),
		Email:         r.PostFormValue("email"),
		ContactNumber: r.PostFormValue("contactNumber"),
		Address:       r.PostFormValue("address"),
		Position:      r.PostFormValue("position"),
		Department:    r.PostFormValue("department"),
	}
	errs := map[string]string{}
	if raw := strings.TrimSpace(r.PostFormValue("hireDate")); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			errs["hireDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			req.HireDate = &d
		}
	}
	var fe model.FieldErrors
	if err := req.Validate(); errors.As(err, &fe) {
		for k, v := range fe {
			errs[k] = v
		}
	}
	return req, errs
}

// EmployeeCreate submits the add-employee form.
// POST /admin-dashboard/employees.
func (h *UIHandlers) EmployeeCreate(w http.ResponseWriter, r *http.Request) {
	h.saveEmployee(w, r, employeeFormView{Mode: FormModeCreate})
}

// EmployeeUpdate submits the edit form.
// POST /admin-dashboard/employees/{id}.
func (h *UIHandlers) EmployeeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	h.saveEmployee(w, r, employeeFormView{Mode: FormModeEdit, ID: id})
}

func (h *UIHandlers) saveEmployee(w http.ResponseWriter, r *http.Request, view employeeFormView) {
	if err := r.ParseForm(); err != nil {
		view.Error = "The form could not be read."
		h.renderEmployeeForm(w, r, http.StatusBadRequest, view)
		return
	}
	req, errs := employeeRequestFromForm(r)
	view.Form = req
	if len(errs) > 0 {
		view.Errors, view.Error = errs, errMsgFixBelow
		h.renderEmployeeForm(w, r, http.StatusBadRequest, view)
		return
	}

	v := viewer(r)
	var (
		saved *model.Employee
		err   error
	)
	if view.Mode == FormModeEdit {
		saved, err = h.Pages.API().UpdateEmployee(r.Context(), v.Token, view.ID, req)
	} else {
		saved, err = h.Pages.API().CreateEmployee(r.Context(), v.Token, req)
	}
	if err != nil {
		if h.sessionRejected(w, r, err) {
			return
		}
		h.logger().WarnContext(r.Context(), "saving employee failed", "mode", view.Mode, "error", err)
		view.Error = apperrors.UserMessage(err)
		if field := apperrors.GetField(err); field != "" {
			view.Errors = map[string]string{field: view.Error}
		}
		h.renderEmployeeForm(w, r, apperrors.HTTPStatus(err), view)
		return
	}

	key, target := NoticeEmployeeCreated, employeesPath
	if view.Mode == FormModeEdit {
		key = NoticeEmployeeUpdated
	}
	if saved != nil && saved.ID > 0 {
		target = employeesPath + "/" + saved.Key()
	}
	actionSucceeded(w, r, key, target)
}

// EmployeeDelete removes an employee. The directory is snapshotted first; the
// response re-renders the table body from the tentative list on success or from
// the snapshot on failure, so a row hidden client-side comes back on rollback.
// DELETE /admin-dashboard/employees/{id}.
func (h *UIHandlers) EmployeeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	v := viewer(r)

	if !IsHTMX(r) {
		if err := h.Pages.API().DeleteEmployee(r.Context(), v.Token, id); err != nil {
			h.actionFailed(w, r, err, employeesPath)
			return
		}
		actionSucceeded(w, r, NoticeEmployeeDeleted, employeesPath)
		return
	}

	prev, err := h.Pages.EmployeeDirectory(r.Context(), v.Token)
	if err != nil {
		h.actionFailed(w, r, err, employeesPath)
		return
	}
	rows, err := optimistic.Run(prev, optimistic.Remove[service.EmployeeRow](strconv.FormatInt(id, 10)), func() error {
		return h.Pages.API().DeleteEmployee(r.Context(), v.Token, id)
	})
	if err != nil {
		if h.sessionRejected(w, r, err) {
			return
		}
		h.logger().WarnContext(r.Context(), "employee delete rolled back", "employee_id", id, "error", err)
		triggerToast(w, apperrors.UserMessage(err), "error")
	} else {
		triggerToast(w, NoticeFor(NoticeEmployeeDeleted).Message, "success")
	}
	h.renderFragment(w, r, "employee-rows", map[string]any{"Rows": rows, "CSRFToken": GetCSRFToken(r)})
}

func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.T.RenderFragment(w, http.StatusOK, name, data); err != nil {
		h.renderTemplateFailure(w, r, err)
	}
}

// punchLogQuery reads the punch log filters. Invalid values are ignored and
// reported back so the form can show them.
func punchLogQuery(r *http.Request) (service.PunchLogQuery, map[string]string) {
	q := r.URL.Query()
	errs := map[string]string{}
	out := service.PunchLogQuery{Search: strings.TrimSpace(q.Get("q"))}

	if raw := strings.TrimSpace(q.Get("employee")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			out.Filter.EmployeeID = id
		} else {
			errs["employee"] = "is invalid"
		}
	}
	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		if t := model.ParsePunchType(raw); t != "" {
			out.Filter.Type = t
		} else {
			errs["type"] = "must be IN or OUT"
		}
	}
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		if d, err := model.ParseDate(raw); err == nil {
			out.Filter.From = d.Time
		} else {
			errs["from"] = "must be a date (YYYY-MM-DD)"
		}
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		if d, err := model.ParseDate(raw); err == nil {
			// The "to" date is inclusive in the form.
			out.Filter.To = d.AddDate(0, 0, 1)
		} else {
			errs["to"] = "must be a date (YYYY-MM-DD)"
		}
	}
	return out, errs
}

// PunchLogs lists every punch with employee names, filters and pagination.
// GET /admin-dashboard/punch-logs.
func (h *UIHandlers) PunchLogs(w http.ResponseWriter, r *http.Request) {
	query, errs := punchLogQuery(r)
	page, size := pageParams(r.URL.Query(), DefaultPunchLogPageSize, MaxPunchLogPageSize)

	servePage(h, w, r, adminPage(PagePunchLogs, "Punch Logs"),
		func(ctx context.Context, v service.Viewer) (*service.PunchLog, error) {
			return h.Pages.PunchLog(ctx, v.Token, query)
		},
		func(b *TemplateDataBuilder, log *service.PunchLog) {
			rows, p := viewmodel.Paginate(log.Rows, page, size)
			b.With("Rows", rows).
				With("Employees", log.Employees).
				With("Summary", log.Summary).
				With("Filter", r.URL.Query()).
				With("ExportCSVURL", exportURL(r, ExportCSV)).
				With("ExportXLSXURL", exportURL(r, ExportXLSX)).
				WithFieldErrors(errs).
				WithPagination(p)
		},
	)
}

// exportURL keeps the current punch log filters on the download link.
func exportURL(r *http.Request, format ExportFormat) string {
	q := r.URL.Query()
	q.Del("page")
	q.Del("page_size")
	q.Set("format", string(format))
	return "/admin-dashboard/punch-logs/export?" + q.Encode()
}

// PunchLogsExport downloads the filtered punch log as CSV or XLSX.
// GET /admin-dashboard/punch-logs/export?format=csv|xlsx.
func (h *UIHandlers) PunchLogsExport(w http.ResponseWriter, r *http.Request) {
	format, ok := ParseExportFormat(r.URL.Query().Get("format"))
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.ErrCodeValidation),
			Err:     apperrors.ValidationField("format", "Export format must be csv or xlsx."),
		})
		return
	}
	query, _ := punchLogQuery(r)
	log, err := h.Pages.PunchLog(r.Context(), viewer(r).Token, query)
	if err != nil {
		if h.sessionRejected(w, r, err) {
			return
		}
		h.logger().WarnContext(r.Context(), "punch log export failed", "error", err)
		http.Error(w, apperrors.UserMessage(err), apperrors.HTTPStatus(err))
		return
	}
	if err := WritePunchLogExport(w, format, log.Rows, time.Now()); err != nil {
		h.logger().ErrorContext(r.Context(), "writing punch log export failed", "format", format, "error", err)
	}
}

// OvertimeQueue lists overtime requests awaiting a decision.
// GET /admin-dashboard/overtime.
func (h *UIHandlers) OvertimeQueue(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, adminPage(PageOvertimeQueue, "Overtime Requests"),
		func(ctx context.Context, v service.Viewer) ([]model.OvertimeRequest, error) {
			return h.Pages.PendingOvertime(ctx, v.Token)
		},
		func(b *TemplateDataBuilder, list []model.OvertimeRequest) {
			b.With("Requests", list)
		},
	)
}

// OvertimeDecide approves or rejects a pending request. htmx callers get the
// queue re-rendered from the settled list: without the request on success, with
// it restored on failure.
// POST /admin-dashboard/overtime/{id}/{decision}.
func (h *UIHandlers) OvertimeDecide(w http.ResponseWriter, r *http.Request) {
	const queuePath = "/admin-dashboard/overtime"
	id, ok := pathID(r)
	decision, valid := model.ParseOvertimeDecision(r.PathValue("decision"))
	if !ok || !valid {
		h.NotFound(w, r)
		return
	}
	v := viewer(r)
	key := NoticeOvertimeApproved
	if decision == model.DecisionReject {
		key = NoticeOvertimeRejected
	}
	decide := func() error {
		_, err := h.Pages.API().DecideOvertime(r.Context(), v.Token, id, decision)
		return err
	}

	if !IsHTMX(r) {
		if err := decide(); err != nil {
			h.actionFailed(w, r, err, queuePath)
			return
		}
		actionSucceeded(w, r, key, queuePath)
		return
	}

	prev, err := h.Pages.PendingOvertime(r.Context(), v.Token)
	if err != nil {
		h.actionFailed(w, r, err, queuePath)
		return
	}
	list, err := optimistic.Run(prev, optimistic.Remove[model.OvertimeRequest](strconv.FormatInt(id, 10)), decide)
	if err != nil {
		if h.sessionRejected(w, r, err) {
			return
		}
		h.logger().WarnContext(r.Context(), "overtime decision rolled back", "request_id", id, "error", err)
		triggerToast(w, apperrors.UserMessage(err), "error")
	} else {
		triggerToast(w, NoticeFor(key).Message, "success")
	}
	h.renderFragment(w, r, "overtime-rows", map[string]any{"Requests": list, "CSRFToken": GetCSRFToken(r)})
}

// Reports shows today's and this week's hours per employee.
// GET /admin-dashboard/reports.
func (h *UIHandlers) Reports(w http.ResponseWriter, r *http.Request) {
	servePage(h, w, r, adminPage(PageReports, "Hours Report"),
		func(ctx context.Context, v service.Viewer) ([]model.EmployeeHours, error) {
			return h.Pages.HoursReport(ctx, v.Token)
		},
		func(b *TemplateDataBuilder, rows []model.EmployeeHours) {
			var today, weekly model.Hours
			for _, row := range rows {
				today += row.TodayHours
				weekly += row.WeeklyHours
			}
			b.With("Rows", rows).With("TotalToday", today).With("TotalWeekly", weekly)
		},
	)
}
