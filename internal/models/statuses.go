package models

type ApplicationStatus string
type Role string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	RoleFellow     Role = "fellow"
	RoleAlumni     Role = "alumni"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ApplicationStatuses - the closed set of statuses an application can hold
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleFellow, RoleAlumni, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsStaff reports admin access to the review console
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ParseRole falls back to fellow for anything unknown
func ParseRole(s string) Role {
	r := Role(s)
	if !r.Valid() {
		return RoleFellow
	}
	return r
}
