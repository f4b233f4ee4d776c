// Package auth contains domain-level types for sessions, identities and access decisions.
// It is pure and free of framework/adapter concerns.
package auth

import "strings"

// Role represents a coarse capability label gating which pages a session may access.
// Values are compared case-insensitively; ParseRole normalizes to the upper-case form.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole normalizes a role string as returned by the API or read from storage.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Is reports whether r and other name the same role, ignoring case.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

// Known reports whether r is one of the roles this application routes.
func (r Role) Known() bool {
	return r.Is(RoleAdmin) || r.Is(RoleEmployee)
}

func (r Role) String() string { return string(r) }

// Identity is the resolved, trusted representation of the signed-in user.
// Handlers receive it read-only for the duration of one request.
type Identity struct {
	UserID     int64  `json:"id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Department string `json:"department,omitempty"`
}

// Complete reports whether the required fields (user id, role, email) are populated.
func (i Identity) Complete() bool {
	return i.UserID > 0 && strings.TrimSpace(string(i.Role)) != "" && strings.TrimSpace(i.Email) != ""
}

// HasEmployee reports whether the identity is linked to an employee record.
func (i Identity) HasEmployee() bool { return i.EmployeeID != nil }

// EmployeeIDValue returns the linked employee id, or 0 when there is none.
func (i Identity) EmployeeIDValue() int64 {
	if i.EmployeeID == nil {
		return 0
	}
	return *i.EmployeeID
}

// DisplayName returns "First Last", falling back to the email.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	if name != "" {
		return name
	}
	return i.Email
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role.Is(RoleAdmin) }

// Normalized returns a copy with trimmed strings and an upper-case role.
func (i Identity) Normalized() Identity {
	out := i
	out.Email = strings.TrimSpace(i.Email)
	out.Role = ParseRole(string(i.Role))
	out.FirstName = strings.TrimSpace(i.FirstName)
	out.LastName = strings.TrimSpace(i.LastName)
	out.Department = strings.TrimSpace(i.Department)
	if i.EmployeeID != nil {
		id := *i.EmployeeID
		out.EmployeeID = &id
	}
	return out
}

// PersistedSession is the bearer token plus the optionally cached identity, as read from storage.
// A cached identity without a token is untrusted and must never be returned as resolved.
type PersistedSession struct {
	Token          string
	CachedIdentity *Identity
}

// HasToken reports whether a token is stored.
func (s PersistedSession) HasToken() bool { return strings.TrimSpace(s.Token) != "" }

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
