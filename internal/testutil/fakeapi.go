package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainauth "github.com/optitrack/optitrack-ui/internal/domain/auth"
	"github.com/optitrack/optitrack-ui/internal/domain/model"
	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/ports"
)

var _ ports.OptiTrackAPI = (*FakeAPI)(nil)

// FakeAPI is an in-memory OptiTrack API. Tokens are registered with AddUser; any
// other token is rejected with 401. Failures are injected per operation name
// with FailWith.
type FakeAPI struct {
	mu sync.Mutex

	users     map[string]fakeUser // by email
	tokens    map[string]domainauth.Identity
	employees map[int64]model.Employee
	punches   []model.Punch
	overtime  []model.OvertimeRequest
	stats     model.AdminDashboardStats
	activity  []model.RecentActivity
	hours     map[int64][2]model.Hours // today, weekly

	nextID   int64
	failures map[string]error
	calls    map[string]int

	Now func() time.Time
}

type fakeUser struct {
	password string
	token    string
	identity domainauth.Identity
}

// NewFakeAPI returns an empty API.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		users:     map[string]fakeUser{},
		tokens:    map[string]domainauth.Identity{},
		employees: map[int64]model.Employee{},
		hours:     map[int64][2]model.Hours{},
		failures:  map[string]error{},
		calls:     map[string]int{},
		nextID:    1000,
		Now:       TestTime,
	}
}

// AddUser registers credentials and the token the API issues for them.
func (f *FakeAPI) AddUser(password, token string, id domainauth.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(id.Email)] = fakeUser{password: password, token: token, identity: id}
	f.tokens[token] = id
}

// AddToken makes token resolve to id without registering credentials.
func (f *FakeAPI) AddToken(token string, id domainauth.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = id
}

// RevokeToken makes every later call with token fail with 401.
func (f *FakeAPI) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// AddEmployee stores e and returns it.
func (f *FakeAPI) AddEmployee(e model.Employee) model.Employee {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		f.nextID++
		e.ID = f.nextID
	}
	f.employees[e.ID] = e
	return e
}

// AddPunch records p.
func (f *FakeAPI) AddPunch(p model.Punch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
	}
	f.punches = append(f.punches, p)
}

// AddOvertime records o.
func (f *FakeAPI) AddOvertime(o model.OvertimeRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID == 0 {
		f.nextID++
		o.ID = f.nextID
	}
	f.overtime = append(f.overtime, o)
}

// SetAdminStats sets the admin dashboard figures and recent activity.
func (f *FakeAPI) SetAdminStats(stats model.AdminDashboardStats, activity []model.RecentActivity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
	f.activity = activity
}

// SetHours sets the report hours for one employee.
func (f *FakeAPI) SetHours(employeeID int64, today, weekly model.Hours) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours[employeeID] = [2]model.Hours{today, weekly}
}

// FailWith makes every later call to op return err. A nil err clears it.
func (f *FakeAPI) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Calls reports how many times op was invoked.
func (f *FakeAPI) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Employee returns the stored employee with id.
func (f *FakeAPI) Employee(id int64) (model.Employee, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	return e, ok
}

// Overtime returns a copy of every stored overtime request.
func (f *FakeAPI) Overtime() []model.OvertimeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.OvertimeRequest(nil), f.overtime...)
}

// begin records the call and returns the caller's identity, or the injected
// failure, or 401 for an unknown token. Callers must hold f.mu.
func (f *FakeAPI) begin(op, token string) (domainauth.Identity, error) {
	f.calls[op]++
	if err := f.failures[op]; err != nil {
		return domainauth.Identity{}, err
	}
	id, ok := f.tokens[token]
	if !ok {
		return domainauth.Identity{}, apperrors.FromStatus(401, "Invalid or expired token")
	}
	return id, nil
}

func (f *FakeAPI) requireAdmin(id domainauth.Identity) error {
	if !id.IsAdmin() {
		return apperrors.FromStatus(403, "Access denied")
	}
	return nil
}

// Login implements ports.LoginClient.
func (f *FakeAPI) Login(_ context.Context, req model.LoginRequest) (*model.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Login"]++
	if err := f.failures["Login"]; err != nil {
		return nil, err
	}
	u, ok := f.users[strings.ToLower(req.Email)]
	if !ok || u.password != req.Password {
		return nil, apperrors.FromStatus(401, "Invalid email or password")
	}
	return &model.LoginResult{
		Token:            u.token,
		Role:             string(u.identity.Role),
		EmployeeID:       u.identity.EmployeeID,
		EmployeeFullName: strings.TrimSpace(u.identity.FirstName + " " + u.identity.LastName),
		Department:       u.identity.Department,
	}, nil
}

// WhoAmI implements ports.WhoAmIClient.
func (f *FakeAPI) WhoAmI(_ context.Context, token string) (*model.WhoAmI, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := f.begin("WhoAmI", token)
	if err != nil {
		return nil, err
	}
	role := string(id.Role)
	return &model.WhoAmI{
		ID:         &id.UserID,
		Email:      &id.Email,
		Role:       &role,
		EmployeeID: id.EmployeeID,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
		Department: id.Department,
	}, nil
}

// ListEmployees implements ports.EmployeeAPI.
func (f *FakeAPI) ListEmployees(_ context.Context, token string) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("ListEmployees", token); err != nil {
		return nil, err
	}
	out := make([]model.Employee, 0, len(f.employees))
	for _, e := range f.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetEmployee implements ports.EmployeeAPI.
func (f *FakeAPI) GetEmployee(_ context.Context, token string, id int64) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("GetEmployee", token); err != nil {
		return nil, err
	}
	e, ok := f.employees[id]
	if !ok {
		return nil, apperrors.FromStatus(404, "Employee not found")
	}
	return &e, nil
}

// CreateEmployee implements ports.EmployeeAPI.
func (f *FakeAPI) CreateEmployee(_ context.Context, token string, req model.EmployeeRequest) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("CreateEmployee", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	f.nextID++
	e := employeeFromRequest(f.nextID, req)
	f.employees[e.ID] = e
	return &e, nil
}

// UpdateEmployee implements ports.EmployeeAPI.
func (f *FakeAPI) UpdateEmployee(
	_ context.Context,
	token string,
	id int64,
	req model.EmployeeRequest,
) (*model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("UpdateEmployee", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	if _, ok := f.employees[id]; !ok {
		return nil, apperrors.FromStatus(404, "Employee not found")
	}
	e := employeeFromRequest(id, req)
	f.employees[id] = e
	return &e, nil
}

// DeleteEmployee implements ports.EmployeeAPI.
func (f *FakeAPI) DeleteEmployee(_ context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("DeleteEmployee", token)
	if err != nil {
		return err
	}
	if err := f.requireAdmin(caller); err != nil {
		return err
	}
	if _, ok := f.employees[id]; !ok {
		return apperrors.FromStatus(404, "Employee not found")
	}
	delete(f.employees, id)
	return nil
}

func employeeFromRequest(id int64, req model.EmployeeRequest) model.Employee {
	return model.Employee{
		ID:            id,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Position:      req.Position,
		Department:    req.Department,
		HireDate:      req.HireDate,
	}
}

// ClockIn implements ports.PunchAPI.
func (f *FakeAPI) ClockIn(_ context.Context, token string, employeeID int64) (*model.Punch, error) {
	return f.punch("ClockIn", token, employeeID, model.PunchIn)
}

// ClockOut implements ports.PunchAPI.
func (f *FakeAPI) ClockOut(_ context.Context, token string, employeeID int64) (*model.Punch, error) {
	return f.punch("ClockOut", token, employeeID, model.PunchOut)
}

func (f *FakeAPI) punch(op, token string, employeeID int64, t model.PunchType) (*model.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin(op, token); err != nil {
		return nil, err
	}
	var own []model.Punch
	for _, p := range f.punches {
		if p.EmployeeID == employeeID {
			own = append(own, p)
		}
	}
	status := model.StatusFromPunches(own)
	if t == model.PunchIn && status == model.StatusClockedIn {
		return nil, apperrors.FromStatus(400, "Employee is already clocked in")
	}
	if t == model.PunchOut && status != model.StatusClockedIn {
		return nil, apperrors.FromStatus(400, "Employee is not clocked in")
	}
	f.nextID++
	p := model.Punch{
		ID:         f.nextID,
		EmployeeID: employeeID,
		PunchType:  t,
		Timestamp:  model.LocalTime{Time: f.Now()},
	}
	f.punches = append(f.punches, p)
	return &p, nil
}

// ListEmployeePunches implements ports.PunchAPI.
func (f *FakeAPI) ListEmployeePunches(_ context.Context, token string, employeeID int64) ([]model.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("ListEmployeePunches", token); err != nil {
		return nil, err
	}
	var out []model.Punch
	for _, p := range f.punches {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListAllPunches implements ports.PunchAPI.
func (f *FakeAPI) ListAllPunches(_ context.Context, token string) ([]model.Punch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("ListAllPunches", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	return append([]model.Punch(nil), f.punches...), nil
}

// SubmitOvertime implements ports.OvertimeAPI.
func (f *FakeAPI) SubmitOvertime(
	_ context.Context,
	token string,
	req model.SubmitOvertimeRequest,
) (*model.OvertimeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("SubmitOvertime", token)
	if err != nil {
		return nil, err
	}
	f.nextID++
	o := model.OvertimeRequest{
		ID:              f.nextID,
		EmployeeID:      caller.EmployeeIDValue(),
		RequestDateTime: model.LocalTime{Time: f.Now()},
		OvertimeDate:    req.OvertimeDate,
		RequestedHours:  model.Hours(req.RequestedHours),
		Status:          model.OvertimePending,
		Reason:          req.Reason,
	}
	f.overtime = append(f.overtime, o)
	return &o, nil
}

// ListMyOvertime implements ports.OvertimeAPI.
func (f *FakeAPI) ListMyOvertime(
	_ context.Context,
	token string,
	status model.OvertimeStatus,
) ([]model.OvertimeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("ListMyOvertime", token)
	if err != nil {
		return nil, err
	}
	var out []model.OvertimeRequest
	for _, o := range f.overtime {
		if o.EmployeeID == caller.EmployeeIDValue() && o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListPendingOvertime implements ports.OvertimeAPI.
func (f *FakeAPI) ListPendingOvertime(_ context.Context, token string) ([]model.OvertimeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("ListPendingOvertime", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	var out []model.OvertimeRequest
	for _, o := range f.overtime {
		if o.Status == model.OvertimePending {
			out = append(out, o)
		}
	}
	return out, nil
}

// DecideOvertime implements ports.OvertimeAPI.
func (f *FakeAPI) DecideOvertime(
	_ context.Context,
	token string,
	id int64,
	decision model.OvertimeDecision,
) (*model.OvertimeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("DecideOvertime", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	for i := range f.overtime {
		if f.overtime[i].ID != id {
			continue
		}
		if f.overtime[i].Status != model.OvertimePending {
			return nil, apperrors.FromStatus(400, "Request has already been decided")
		}
		f.overtime[i].Status = decision.ResultingStatus()
		o := f.overtime[i]
		return &o, nil
	}
	return nil, apperrors.FromStatus(404, "Overtime request not found")
}

// AdminStats implements ports.DashboardAPI.
func (f *FakeAPI) AdminStats(_ context.Context, token string) (*model.AdminDashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	caller, err := f.begin("AdminStats", token)
	if err != nil {
		return nil, err
	}
	if err := f.requireAdmin(caller); err != nil {
		return nil, err
	}
	stats := f.stats
	return &stats, nil
}

// RecentActivity implements ports.DashboardAPI.
func (f *FakeAPI) RecentActivity(_ context.Context, token string, limit int) ([]model.RecentActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("RecentActivity", token); err != nil {
		return nil, err
	}
	out := append([]model.RecentActivity(nil), f.activity...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EmployeeStats implements ports.DashboardAPI.
func (f *FakeAPI) EmployeeStats(_ context.Context, token string, employeeID int64) (*model.EmployeeDashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("EmployeeStats", token); err != nil {
		return nil, err
	}
	e, ok := f.employees[employeeID]
	if !ok {
		return nil, apperrors.FromStatus(404, "Employee not found")
	}
	var own []model.Punch
	var pending int64
	for _, p := range f.punches {
		if p.EmployeeID == employeeID {
			own = append(own, p)
		}
	}
	for _, o := range f.overtime {
		if o.EmployeeID == employeeID && o.Status == model.OvertimePending {
			pending++
		}
	}
	model.SortPunchesNewestFirst(own)
	stats := &model.EmployeeDashboardStats{
		EmployeeID:                      employeeID,
		EmployeeFullName:                e.FullName(),
		Department:                      e.Department,
		Role:                            string(domainauth.RoleEmployee),
		TodayHours:                      f.hours[employeeID][0],
		WeeklyHours:                     f.hours[employeeID][1],
		CurrentStatus:                   model.StatusFromPunches(own),
		PendingEmployeeOvertimeRequests: pending,
	}
	if latest := model.LatestPunch(own); latest != nil {
		ts := latest.Timestamp
		stats.LastPunchTime = &ts
	}
	for _, p := range own {
		stats.RecentPunches = append(stats.RecentPunches, model.RecentPunch{
			ID: p.ID, Timestamp: p.Timestamp, PunchType: p.PunchType,
		})
	}
	return stats, nil
}

// TodayHours implements ports.ReportAPI.
func (f *FakeAPI) TodayHours(_ context.Context, token string, employeeID int64) (model.Hours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("TodayHours", token); err != nil {
		return 0, err
	}
	return f.hours[employeeID][0], nil
}

// WeeklyHours implements ports.ReportAPI.
func (f *FakeAPI) WeeklyHours(_ context.Context, token string, employeeID int64) (model.Hours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.begin("WeeklyHours", token); err != nil {
		return 0, err
	}
	return f.hours[employeeID][1], nil
}
