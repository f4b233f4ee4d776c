package model

import "strings"

// LoginRequest carries the credentials forwarded to the API's login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}

// Validate trims the email and checks both fields. Failures are FieldErrors.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// LoginResult is the API's answer to a successful login.
type LoginResult struct {
	Message          string `json:"message,omitempty"`
	Token            string `json:"token"`
	Role             string `json:"role"`
	EmployeeID       *int64 `json:"employeeId,omitempty"`
	EmployeeFullName string `json:"employeeFullName,omitempty"`
	Department       string `json:"department,omitempty"`
}

// SplitFullName splits "First Rest Of Name" at the first space.
func SplitFullName(full string) (string, string) {
	full = strings.TrimSpace(full)
	first, last, _ := strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

// WhoAmI is the profile returned by the whoami endpoint.
// Required fields are pointers so a missing value can be told apart from a zero value.
type WhoAmI struct {
	ID         *int64  `json:"id"`
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	EmployeeID *int64  `json:"employeeId,omitempty"`
	FirstName  string  `json:"firstName,omitempty"`
	LastName   string  `json:"lastName,omitempty"`
	Department string  `json:"department,omitempty"`
}
