package auth

import "pareto_backend/internal/models"

// Route areas a signed-in user is sent to
const (
	RedirectChangePassword = "/change-password"
	RedirectAdmin          = "/admin"
	RedirectPortal         = "/portal"
	RedirectOnboarding     = "/portal/onboarding"
)

var (
	StaffRoles  = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}
	PortalRoles = []models.Role{models.RoleFellow, models.RoleAlumni, models.RoleAdmin, models.RoleSuperAdmin}
)

// RedirectFor picks where to land after sign-in. A pending password change wins over the role.
func RedirectFor(role models.Role, mustChangePassword, onboardingCompleted bool) string {
	if mustChangePassword {
		return RedirectChangePassword
	}
	if role.IsStaff() {
		return RedirectAdmin
	}
	if !onboardingCompleted {
		return RedirectOnboarding
	}
	return RedirectPortal
}

// HasAnyRole reports whether role is one of allowed
func HasAnyRole(role models.Role, allowed ...models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CanAssignRoles - only super admins manage roles
func CanAssignRoles(role models.Role) bool {
	return role == models.RoleSuperAdmin
}
