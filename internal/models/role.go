package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleMaster         UserRole = "master"
	RoleAdmin          UserRole = "admin"
	RoleGeneralManager UserRole = "general_manager"
	RoleLawyer         UserRole = "lawyer"
	RoleOwner          UserRole = "owner"
	RoleManager        UserRole = "manager"
	RoleUser           UserRole = "user"
	RoleStaff          UserRole = "staff"
)

// ElevatedRoles are firm-level staff with access across all tenants.
var ElevatedRoles = []UserRole{RoleMaster, RoleAdmin, RoleGeneralManager, RoleLawyer}

// SubordinateRoles are company employees whose consumption bills the
// company owner account.
var SubordinateRoles = []UserRole{RoleManager, RoleUser, RoleStaff}

// IsElevated reports whether the role has firm-wide administrative access.
func IsElevated(role UserRole) bool {
	switch role {
	case RoleMaster, RoleAdmin, RoleGeneralManager, RoleLawyer:
		return true
	}
	return false
}

// IsOwner reports whether the role is a company owner (CEO) account.
func IsOwner(role UserRole) bool {
	return role == RoleOwner
}

// IsSubordinate reports whether the role is a non-owner company employee.
func IsSubordinate(role UserRole) bool {
	switch role {
	case RoleManager, RoleUser, RoleStaff:
		return true
	}
	return false
}

// CanApproveFor reports whether the role may resolve approval requests for
// the given tenant. Elevated staff approve everywhere; owners only approve
// within their own company.
func CanApproveFor(role UserRole, callerBizNum, requestBizNum string) bool {
	if IsElevated(role) {
		return true
	}
	return IsOwner(role) && callerBizNum == requestBizNum
}
