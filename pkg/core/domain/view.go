package domain

type View int

const (
	ViewLanding View = iota
	ViewLogin
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewLogin:
		return "login"
	case ViewDashboard:
		return "dashboard"
	}
	return "unknown"
}

// ParseView maps a route name to a View. Unknown names resolve to the landing view.
func ParseView(name string) View {
	switch name {
	case "login", "/login":
		return ViewLogin
	case "dashboard", "/dashboard":
		return ViewDashboard
	}
	return ViewLanding
}
