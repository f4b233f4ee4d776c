package auth

// ReasonCode explains why access was denied.
type ReasonCode string

const (
	ReasonNone           ReasonCode = ""
	ReasonNoToken        ReasonCode = "NO_TOKEN"
	ReasonInvalidSession ReasonCode = "INVALID_SESSION"
	ReasonRoleMismatch   ReasonCode = "ROLE_MISMATCH"
)

// Entry points used as redirect targets.
const (
	LoginPath        = "/login"
	AdminHomePath    = "/admin-dashboard"
	EmployeeHomePath = "/employee-dashboard"
)

// AccessDecision is the transient outcome of an access check. It is never persisted.
type AccessDecision struct {
	Allowed    bool
	RedirectTo string
	Reason     ReasonCode
}

// Allow is the decision granting access.
func Allow() AccessDecision { return AccessDecision{Allowed: true} }

// Deny builds a refusal that redirects to target.
func Deny(target string, reason ReasonCode) AccessDecision {
	return AccessDecision{RedirectTo: target, Reason: reason}
}

// InvalidSession is the decision used when the API rejects a token mid-use.
func InvalidSession() AccessDecision { return Deny(LoginPath, ReasonInvalidSession) }

// RoleHomePage maps a role to its landing page. Unknown roles land on the login page.
func RoleHomePage(r Role) string {
	switch {
	case r.Is(RoleAdmin):
		return AdminHomePath
	case r.Is(RoleEmployee):
		return EmployeeHomePath
	default:
		return LoginPath
	}
}

// CheckAccess decides whether identity may view a page requiring required.
// An empty required role admits any resolved identity. The function performs no I/O.
func CheckAccess(identity *Identity, required Role) AccessDecision {
	if identity == nil {
		return Deny(LoginPath, ReasonNoToken)
	}
	if required == "" {
		return Allow()
	}
	if !identity.Role.Is(required) {
		return Deny(RoleHomePage(identity.Role), ReasonRoleMismatch)
	}
	if required.Is(RoleEmployee) && !identity.HasEmployee() {
		return Deny(LoginPath, ReasonRoleMismatch)
	}
	return Allow()
}
