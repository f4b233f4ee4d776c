package model

import (
	"strconv"
	"strings"
)

// Employee is an employee record as listed and edited by administrators.
type Employee struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Address       string `json:"address,omitempty"`
	Position      string `json:"position,omitempty"`
	Department    string `json:"department"`
	HireDate      *Date  `json:"hireDate,omitempty"`
}

// FullName returns "First Last".
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Key identifies the employee in list operations.
func (e Employee) Key() string { return strconv.FormatInt(e.ID, 10) }

// EmployeeRequest carries the editable employee fields for create and update.
type EmployeeRequest struct {
	FirstName     string `json:"firstName"               validate:"required,max=100"`
	LastName      string `json:"lastName"                validate:"required,max=100"`
	Email         string `json:"email"                   validate:"required,email,max=255"`
	ContactNumber string `json:"contactNumber,omitempty" validate:"max=50"`
	Address       string `json:"address,omitempty"       validate:"max=255"`
	Position      string `json:"position,omitempty"      validate:"max=100"`
	Department    string `json:"department"              validate:"required,max=100"`
	HireDate      *Date  `json:"hireDate,omitempty"`
}

// Normalize trims whitespace from every text field.
func (r *EmployeeRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.Position = strings.TrimSpace(r.Position)
	r.Department = strings.TrimSpace(r.Department)
}

// Validate normalizes and checks the request. Failures are FieldErrors.
func (r *EmployeeRequest) Validate() error {
	r.Normalize()
	return validateStruct(r)
}

// RequestFromEmployee prefills an edit form.
func RequestFromEmployee(e Employee) EmployeeRequest {
	return EmployeeRequest{
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		ContactNumber: e.ContactNumber,
		Address:       e.Address,
		Position:      e.Position,
		Department:    e.Department,
		HireDate:      e.HireDate,
	}
}
