package auth

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Persisted session keys. Each identity attribute is stored under its own key so
// a reader that only needs one value (the role, say) does not decode a record.
const (
	FieldAuthToken   = "authToken"
	FieldCurrentUser = "currentUser"
	FieldUserRole    = "userRole"
	FieldEmployeeID  = "employeeId"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldDepartment  = "department"
)

// Fields is the flat key/value form of a persisted session.
type Fields map[string]string

// SessionKeys lists every key a session may write; clearing removes all of them.
func SessionKeys() []string {
	return []string{
		FieldAuthToken,
		FieldCurrentUser,
		FieldUserRole,
		FieldEmployeeID,
		FieldFirstName,
		FieldLastName,
		FieldDepartment,
	}
}

// currentUser is the serialized identity subset kept under FieldCurrentUser.
type currentUser struct {
	ID         int64  `json:"id,omitempty"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
}

// SessionFields flattens a token and identity into persisted fields.
// Absent optional attributes produce no key.
func SessionFields(token string, id Identity) Fields {
	id = id.Normalized()
	f := Fields{FieldAuthToken: token}

	cu, err := json.Marshal(currentUser{
		ID:         id.UserID,
		Email:      id.Email,
		Role:       string(id.Role),
		EmployeeID: id.EmployeeID,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
	})
	if err == nil {
		f[FieldCurrentUser] = string(cu)
	}

	putIfSet(f, FieldUserRole, string(id.Role))
	if id.EmployeeID != nil {
		f[FieldEmployeeID] = strconv.FormatInt(*id.EmployeeID, 10)
	}
	putIfSet(f, FieldFirstName, id.FirstName)
	putIfSet(f, FieldLastName, id.LastName)
	putIfSet(f, FieldDepartment, id.Department)
	return f
}

func putIfSet(f Fields, key, value string) {
	if strings.TrimSpace(value) != "" {
		f[key] = value
	}
}

// SessionFromFields rebuilds a PersistedSession from stored fields.
// Unparseable values are ignored; the cached identity is nil when nothing identity-related is stored.
func SessionFromFields(f Fields) PersistedSession {
	s := PersistedSession{Token: strings.TrimSpace(f[FieldAuthToken])}

	var id Identity
	found := false

	if raw := strings.TrimSpace(f[FieldCurrentUser]); raw != "" {
		var cu currentUser
		if err := json.Unmarshal([]byte(raw), &cu); err == nil {
			id = Identity{
				UserID:     cu.ID,
				Email:      cu.Email,
				Role:       Role(cu.Role),
				EmployeeID: cu.EmployeeID,
				FirstName:  cu.FirstName,
				LastName:   cu.LastName,
			}
			found = true
		}
	}

	if v := strings.TrimSpace(f[FieldUserRole]); v != "" && id.Role == "" {
		id.Role = Role(v)
		found = true
	}
	if v := strings.TrimSpace(f[FieldEmployeeID]); v != "" && id.EmployeeID == nil {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			id.EmployeeID = &n
			found = true
		}
	}
	if v := f[FieldFirstName]; v != "" && id.FirstName == "" {
		id.FirstName = v
		found = true
	}
	if v := f[FieldLastName]; v != "" && id.LastName == "" {
		id.LastName = v
		found = true
	}
	if v := f[FieldDepartment]; v != "" {
		id.Department = v
		found = true
	}

	if found {
		n := id.Normalized()
		s.CachedIdentity = &n
	}
	return s
}
