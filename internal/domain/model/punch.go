package model

import (
	"sort"
	"strings"
	"time"
)

// PunchType is the direction of a clock event.
type PunchType string

const (
	PunchIn  PunchType = "IN"
	PunchOut PunchType = "OUT"
)

// ParsePunchType normalizes "in"/"out" in any case; other values return "".
func ParsePunchType(s string) PunchType {
	switch PunchType(strings.ToUpper(strings.TrimSpace(s))) {
	case PunchIn:
		return PunchIn
	case PunchOut:
		return PunchOut
	default:
		return ""
	}
}

// Punch is a single clock-in or clock-out event.
type Punch struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	PunchType  PunchType `json:"punchType"`
	Timestamp  LocalTime `json:"timestamp"`
}

// ClockStatus summarizes an employee's latest punch.
type ClockStatus string

const (
	StatusClockedIn    ClockStatus = "Clocked In"
	StatusClockedOut   ClockStatus = "Clocked Out"
	StatusNotClockedIn ClockStatus = "Not Clocked In"
)

// LatestPunch returns the most recent punch, or nil for an empty slice.
func LatestPunch(punches []Punch) *Punch {
	var latest *Punch
	for i := range punches {
		if latest == nil || punches[i].Timestamp.After(latest.Timestamp.Time) {
			latest = &punches[i]
		}
	}
	return latest
}

// StatusFromPunches derives the clock status from an employee's punches.
func StatusFromPunches(punches []Punch) ClockStatus {
	latest := LatestPunch(punches)
	switch {
	case latest == nil:
		return StatusNotClockedIn
	case latest.PunchType == PunchIn:
		return StatusClockedIn
	default:
		return StatusClockedOut
	}
}

// SortPunchesNewestFirst orders punches by timestamp descending, ties broken by id.
func SortPunchesNewestFirst(punches []Punch) {
	sort.SliceStable(punches, func(i, j int) bool {
		if punches[i].Timestamp.Equal(punches[j].Timestamp.Time) {
			return punches[i].ID > punches[j].ID
		}
		return punches[i].Timestamp.After(punches[j].Timestamp.Time)
	})
}

// PunchFilter narrows the admin punch log.
type PunchFilter struct {
	EmployeeID int64
	Type       PunchType
	From       time.Time // inclusive, zero for unbounded
	To         time.Time // exclusive, zero for unbounded
}

// Match reports whether p passes the filter.
func (f PunchFilter) Match(p Punch) bool {
	if f.EmployeeID != 0 && p.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Type != "" && p.PunchType != f.Type {
		return false
	}
	if !f.From.IsZero() && p.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !p.Timestamp.Before(f.To) {
		return false
	}
	return true
}

// Apply returns the punches that match, preserving order.
func (f PunchFilter) Apply(punches []Punch) []Punch {
	out := make([]Punch, 0, len(punches))
	for _, p := range punches {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// PunchRow is a punch joined with the employee directory for display and export.
type PunchRow struct {
	Punch
	EmployeeName string
	Department   string
}

// JoinPunches attaches employee names and departments to punches.
// Punches of unknown employees keep an "Employee #id" placeholder name.
func JoinPunches(punches []Punch, employees []Employee) []PunchRow {
	byID := make(map[int64]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	rows := make([]PunchRow, 0, len(punches))
	for _, p := range punches {
		row := PunchRow{Punch: p}
		if e, ok := byID[p.EmployeeID]; ok {
			row.EmployeeName = e.FullName()
			row.Department = e.Department
		} else {
			row.EmployeeName = "Employee #" + Employee{ID: p.EmployeeID}.Key()
		}
		rows = append(rows, row)
	}
	return rows
}
