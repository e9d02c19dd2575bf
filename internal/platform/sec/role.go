// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Roles

// UserRole represents the authorization level carried by a session token.
type UserRole string

const (
	// Full catalogue management
	RoleAdmin UserRole = "admin"

	// Read access plus engagement endpoints; never mutates the catalogue
	RoleViewer UserRole = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
