package viewmodel

// User represents the signed-in user exposed to templates.
type User struct {
	Email      string
	Name       string
	Role       string
	Department string
}

// Notice is a one-shot banner carried over a redirect.
type Notice struct {
	Key     string
	Kind    string // success, info or error
	Message string
}

// NavItem is one entry of the role-specific navigation bar.
type NavItem struct {
	Page  string
	Label string
	Href  string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	IsAdmin         bool
	User            *User
	Notice          *Notice
	Nav             []NavItem
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
