package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"admin", "Editor", " conservador ", "LECTOR"} {
		r, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.True(t, r.Valid())
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleSetAllows(t *testing.T) {
	sets := map[string][]Role{
		"all":     AllUsers,
		"editors": EditorsAndAdmins,
		"content": ContentEditors,
		"admins":  AdminsOnly,
	}
	expected := map[string]map[Role]bool{
		"all":     {RoleAdmin: true, RoleEditor: true, RoleConservador: true, RoleLector: true},
		"editors": {RoleAdmin: true, RoleEditor: true},
		"content": {RoleAdmin: true, RoleEditor: true, RoleConservador: true},
		"admins":  {RoleAdmin: true},
	}

	for name, roles := range sets {
		set := NewRoleSet(roles...)
		for _, r := range Roles() {
			assert.Equalf(t, expected[name][r], set.Allows(r), "set %s role %s", name, r)
		}
	}
}
