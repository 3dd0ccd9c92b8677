package services

import "github.com/wadjakorntonsri/linklet-dashboard/pkg/core/domain"

// ResolveView maps the requested view and session status to the view to render.
func ResolveView(requested domain.View, status domain.SessionStatus) domain.View {
	authed := status == domain.Authenticated
	switch requested {
	case domain.ViewLogin:
		if authed {
			return domain.ViewDashboard
		}
		return domain.ViewLogin
	case domain.ViewDashboard:
		if authed {
			return domain.ViewDashboard
		}
		return domain.ViewLogin
	}
	return domain.ViewLanding
}
