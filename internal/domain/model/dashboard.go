package model

// AdminDashboardStats are the headline numbers on the admin dashboard.
type AdminDashboardStats struct {
	TotalEmployees                    int64 `json:"totalEmployees"`
	PendingOvertimeRequests           int64 `json:"pendingOvertimeRequests"`
	EmployeesClockedIn                int64 `json:"employeesClockedIn"`
	TotalHoursAcrossAllEmployeesToday Hours `json:"totalHoursAcrossAllEmployeesToday"`
}

// RecentActivity is one entry of the admin activity feed.
type RecentActivity struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	PunchType    PunchType `json:"punchType"`
	Timestamp    LocalTime `json:"timestamp"`
}

// RecentPunch is a punch summary on the employee dashboard.
type RecentPunch struct {
	ID        int64     `json:"id"`
	Timestamp LocalTime `json:"timestamp"`
	PunchType PunchType `json:"punchType"`
}

// EmployeeDashboardStats is everything the employee dashboard shows.
type EmployeeDashboardStats struct {
	EmployeeID                      int64         `json:"employeeId"`
	EmployeeFullName                string        `json:"employeeFullName"`
	Department                      string        `json:"department"`
	Role                            string        `json:"role"`
	TodayHours                      Hours         `json:"todayHours"`
	WeeklyHours                     Hours         `json:"weeklyHours"`
	CurrentStatus                   ClockStatus   `json:"currentStatus"`
	LastPunchTime                   *LocalTime    `json:"lastPunchTime"`
	RecentPunches                   []RecentPunch `json:"recentPunches"`
	PendingEmployeeOvertimeRequests int64         `json:"pendingEmployeeOvertimeRequests"`
}

// IsClockedIn reports whether the last punch was a clock-in.
func (s EmployeeDashboardStats) IsClockedIn() bool { return s.CurrentStatus == StatusClockedIn }

// EmployeeHours is one row of the hours report.
type EmployeeHours struct {
	Employee    Employee
	TodayHours  Hours
	WeeklyHours Hours
}
