package wishlist

import (
	"fmt"
	"strings"
)

// Role is the server-assigned capability tier carried by the role cookie.
type Role string

const (
	RoleCreator Role = "creator"
	RoleViewer  Role = "viewer"
)

// RoleCookie is the cookie name the backend uses for the caller's role.
const RoleCookie = "role"

// ParseRole accepts "creator" or "viewer" in any case.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleCreator:
		return RoleCreator, nil
	case RoleViewer:
		return RoleViewer, nil
	}
	return "", fmt.Errorf("unknown role %q (want creator or viewer)", value)
}

// Other returns the opposite role.
func (r Role) Other() Role {
	if r == RoleCreator {
		return RoleViewer
	}
	return RoleCreator
}

// Capabilities is the set of actions the UI exposes for a role.
type Capabilities struct {
	CanEdit            bool
	CanDelete          bool
	CanAddItems        bool
	CanTogglePurchased bool
}

// Capabilities derives the capability set once from the role.
func (r Role) Capabilities() Capabilities {
	if r == RoleCreator {
		return Capabilities{
			CanEdit:            true,
			CanDelete:          true,
			CanAddItems:        true,
			CanTogglePurchased: true,
		}
	}
	return Capabilities{CanTogglePurchased: true}
}
