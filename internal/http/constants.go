package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLogin    = "login"
	PageNotFound = "not-found"

	// Administrator pages.
	PageAdminDashboard = "admin-dashboard"
	PageEmployees      = "employees"
	PageEmployeeView   = "employee-view"
	PageEmployeeForm   = "employee-form"
	PagePunchLogs      = "punch-logs"
	PageOvertimeQueue  = "overtime-queue"
	PageReports        = "reports"

	// Employee self-service pages.
	PageEmployeeDashboard = "employee-dashboard"
	PageMyOvertime        = "my-overtime"
)

const (
	// DefaultPunchLogPageSize is the number of punch log rows per page.
	DefaultPunchLogPageSize = 25
	// MaxPunchLogPageSize caps the page_size query parameter.
	MaxPunchLogPageSize = 200
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageLogin:             "login-content",
	PageNotFound:          "not-found-content",
	PageAdminDashboard:    "admin-dashboard-content",
	PageEmployees:         "employees-content",
	PageEmployeeView:      "employee-view-content",
	PageEmployeeForm:      "employee-form-content",
	PagePunchLogs:         "punch-logs-content",
	PageOvertimeQueue:     "overtime-queue-content",
	PageReports:           "reports-content",
	PageEmployeeDashboard: "employee-dashboard-content",
	PageMyOvertime:        "my-overtime-content",
}

// ContentTemplateFor maps a page identifier to its content template name.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return "not-found-content"
}
