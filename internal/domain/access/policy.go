package access

// RoleSet is the set of roles allowed through a route.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Allows(r Role) bool {
	_, ok := s[r]
	return ok
}

var (
	AllUsers         = []Role{RoleAdmin, RoleEditor, RoleLector, RoleConservador}
	EditorsAndAdmins = []Role{RoleAdmin, RoleEditor}
	ContentEditors   = []Role{RoleAdmin, RoleEditor, RoleConservador}
	AdminsOnly       = []Role{RoleAdmin}
)
