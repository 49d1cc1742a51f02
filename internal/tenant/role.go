package tenant

// Role is the fixed set of franchise roles. Membership rows written by older
// builds may carry the legacy "super_admin" string; NormalizeRole maps it to
// RoleOwner at the boundary so nothing downstream ever sees it.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
)

// legacy alias still present in old membership rows
const legacyRoleSuperAdmin = "super_admin"

func NormalizeRole(raw string) Role {
	switch raw {
	case string(RoleOwner), legacyRoleSuperAdmin:
		return RoleOwner
	case string(RoleManager):
		return RoleManager
	case string(RoleDriver):
		return RoleDriver
	default:
		// Unknown strings get least privilege.
		return RoleDriver
	}
}

// CanManage reports whether the role may perform manager-level operations
// (resolving issues, configuring policies, sending notifications).
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleManager
}
