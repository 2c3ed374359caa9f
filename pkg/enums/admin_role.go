package enums

import "fmt"

// AdminRole represents a console-level permissions role.
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleVendorUser AdminRole = "vendor_user"
	AdminRoleHubUser    AdminRole = "hub_user"
)

var validAdminRoles = []AdminRole{
	AdminRoleSuperAdmin,
	AdminRoleAdmin,
	AdminRoleVendorUser,
	AdminRoleHubUser,
}

// String implements fmt.Stringer.
func (r AdminRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AdminRole.
func (r AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsSuper reports whether the role bypasses page permission checks entirely.
func (r AdminRole) IsSuper() bool {
	return r == AdminRoleSuperAdmin
}

// ParseAdminRole converts raw input into an AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
