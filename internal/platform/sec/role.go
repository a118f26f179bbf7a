// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package sec

// # User Roles

// Role represents the authorization level granted to a profile.
//
// The role is always derived from the server-side profile record, never from
// client input, and is re-resolved on every session check.
type Role string

const (
	// Elevated visibility: raw table inspection, owner ids on records
	RoleAdmin Role = "admin"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
