package access

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleConservador Role = "conservador"
	RoleLector      Role = "lector"
)

var allRoles = []Role{RoleAdmin, RoleEditor, RoleConservador, RoleLector}

// ParseRole accepts exactly the four known role names, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleEditor, RoleConservador, RoleLector:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Roles lists every role, most privileged first.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}
