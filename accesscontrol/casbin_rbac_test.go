// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accesscontrol

import (
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCasbinRBAC(t *testing.T) {
	alice := models.User{Username: "alice"}
	bob := models.User{Username: "bob"}
	carol := models.User{Username: "carol"}

	newRBAC := func(t *testing.T) *casbinRBAC {
		rbac, err := NewInMemoryRBAC()
		require.NoError(t, err)
		return rbac
	}

	t.Run("users without a role have no permission", func(t *testing.T) {
		rbac := newRBAC(t)
		ok, err := rbac.HasProjectPermission(alice, "R0001_p", shared.PermissionCanView)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("edit permission implies view permission", func(t *testing.T) {
		rbac := newRBAC(t)
		require.NoError(t, rbac.GrantProjectPermission(alice, "R0001_p", shared.PermissionCanEdit))

		canEdit, err := rbac.HasProjectPermission(alice, "R0001_p", shared.PermissionCanEdit)
		require.NoError(t, err)
		assert.True(t, canEdit)
		canView, err := rbac.HasProjectPermission(alice, "R0001_p", shared.PermissionCanView)
		require.NoError(t, err)
		assert.True(t, canView)
	})

	t.Run("view permission does not imply edit permission", func(t *testing.T) {
		rbac := newRBAC(t)
		require.NoError(t, rbac.GrantProjectPermission(bob, "R0001_p", shared.PermissionCanView))

		canEdit, err := rbac.HasProjectPermission(bob, "R0001_p", shared.PermissionCanEdit)
		require.NoError(t, err)
		assert.False(t, canEdit)
	})

	t.Run("permissions are scoped to the project", func(t *testing.T) {
		rbac := newRBAC(t)
		require.NoError(t, rbac.GrantProjectPermission(alice, "R0001_p", shared.PermissionCanEdit))

		ok, err := rbac.HasProjectPermission(alice, "R0002_other", shared.PermissionCanView)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("revoke removes the permission", func(t *testing.T) {
		rbac := newRBAC(t)
		require.NoError(t, rbac.GrantProjectPermission(alice, "R0001_p", shared.PermissionCanView))
		require.NoError(t, rbac.RevokeProjectPermission(alice, "R0001_p", shared.PermissionCanView))

		ok, err := rbac.HasProjectPermission(alice, "R0001_p", shared.PermissionCanView)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("collaborators include users inheriting the permission", func(t *testing.T) {
		rbac := newRBAC(t)
		require.NoError(t, rbac.GrantProjectPermission(alice, "R0001_p", shared.PermissionCanEdit))
		require.NoError(t, rbac.GrantProjectPermission(bob, "R0001_p", shared.PermissionCanView))
		require.NoError(t, rbac.GrantProjectPermission(carol, "R0002_other", shared.PermissionCanView))

		viewers, err := rbac.GetProjectCollaborators("R0001_p", shared.PermissionCanView)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alice", "bob"}, viewers)

		editors, err := rbac.GetProjectCollaborators("R0001_p", shared.PermissionCanEdit)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, editors)
	})

	t.Run("analyst role", func(t *testing.T) {
		rbac := newRBAC(t)
		ok, err := rbac.IsAnalyst(alice)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, rbac.GrantAnalyst(alice))
		ok, err = rbac.IsAnalyst(alice)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCasbinRBACPersistsPolicies(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	alice := models.User{Username: "alice"}

	rbac, err := NewCasbinRBAC(db, nil)
	require.NoError(t, err)
	require.NoError(t, rbac.GrantProjectPermission(alice, "R0001_p", shared.PermissionCanEdit))

	// a second instance loads the stored rules
	other, err := NewCasbinRBAC(db, nil)
	require.NoError(t, err)
	ok, err := other.HasProjectPermission(alice, "R0001_p", shared.PermissionCanView)
	require.NoError(t, err)
	assert.True(t, ok)
}
