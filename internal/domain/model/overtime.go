package model

import (
	"errors"
	"strconv"
	"strings"
)

// OvertimeStatus is the lifecycle state of an overtime request.
type OvertimeStatus string

const (
	OvertimePending  OvertimeStatus = "PENDING"
	OvertimeApproved OvertimeStatus = "APPROVED"
	OvertimeRejected OvertimeStatus = "REJECTED"
)

// OvertimeRequest is an employee's request for extra hours.
type OvertimeRequest struct {
	ID               int64          `json:"id"`
	EmployeeID       int64          `json:"employeeId"`
	EmployeeFullName string         `json:"employeeFullName,omitempty"`
	EmployeeEmail    string         `json:"employeeEmail,omitempty"`
	RequestDateTime  LocalTime      `json:"requestDateTime"`
	OvertimeDate     Date           `json:"overtimeDate"`
	RequestedHours   Hours          `json:"requestedHours"`
	Status           OvertimeStatus `json:"status"`
	Reason           string         `json:"reason,omitempty"`
}

// Key identifies the request in list operations.
func (o OvertimeRequest) Key() string { return strconv.FormatInt(o.ID, 10) }

// OvertimeDecision is an administrator's verdict on a pending request.
type OvertimeDecision string

const (
	DecisionApprove OvertimeDecision = "approve"
	DecisionReject  OvertimeDecision = "reject"
)

// ParseOvertimeDecision accepts "approve" or "reject" in any case.
func ParseOvertimeDecision(s string) (OvertimeDecision, bool) {
	switch OvertimeDecision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionApprove:
		return DecisionApprove, true
	case DecisionReject:
		return DecisionReject, true
	default:
		return "", false
	}
}

// ResultingStatus is the status a pending request moves to under the decision.
func (d OvertimeDecision) ResultingStatus() OvertimeStatus {
	if d == DecisionApprove {
		return OvertimeApproved
	}
	return OvertimeRejected
}

// SubmitOvertimeRequest is the employee's overtime form.
type SubmitOvertimeRequest struct {
	OvertimeDate   Date    `json:"overtimeDate"`
	RequestedHours float64 `json:"requestedHours" validate:"gt=0,lte=24"`
	Reason         string  `json:"reason"         validate:"required,max=500"`
}

// Validate checks the form. Failures are FieldErrors.
func (r *SubmitOvertimeRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	fe := FieldErrors{}
	if err := validateStruct(r); err != nil && !errors.As(err, &fe) {
		return err
	}
	if r.OvertimeDate.IsZero() {
		fe["overtimeDate"] = "is required"
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
