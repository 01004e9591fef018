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
	"log/slog"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/utils"
	"gorm.io/gorm"
)

// users are granted roles, roles are allowed actions on objects.
// can_edit inherits can_view within the same project.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const analystRole = "role::analyst"

var _ shared.AccessControl = &casbinRBAC{}

type casbinRBAC struct {
	enforcer *casbin.SyncedEnforcer
}

// NewCasbinRBAC stores the policies in the casbin_rule table. When a redis client is given, policy changes
// are broadcast to the other instances.
func NewCasbinRBAC(db *gorm.DB, rdb *redis.Client) (*casbinRBAC, error) {
	a, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, errors.Wrap(err, "could not create casbin adapter")
	}
	enforcer, err := buildEnforcer(a)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		watcher := newCasbinRedisWatcher(rdb)
		if err := enforcer.SetWatcher(watcher); err != nil {
			return nil, errors.Wrap(err, "could not set watcher")
		}
		err = watcher.SetUpdateCallback(func(string) {
			if err := enforcer.LoadPolicy(); err != nil {
				slog.Error("error while loading policy after update", "err", err)
			} else {
				slog.Debug("policy successfully reloaded after update")
			}
		})
		if err != nil {
			return nil, errors.Wrap(err, "could not set update callback")
		}
	}
	return &casbinRBAC{enforcer: enforcer}, nil
}

// NewInMemoryRBAC keeps the policies in memory only.
func NewInMemoryRBAC() (*casbinRBAC, error) {
	enforcer, err := buildEnforcer(nil)
	if err != nil {
		return nil, err
	}
	return &casbinRBAC{enforcer: enforcer}, nil
}

func buildEnforcer(a persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse rbac model")
	}
	var e *casbin.SyncedEnforcer
	if a == nil {
		e, err = casbin.NewSyncedEnforcer(m)
	} else {
		e, err = casbin.NewSyncedEnforcer(m, a)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not create enforcer")
	}
	e.EnableLog(false)
	return e, nil
}

func userSubject(user models.User) string {
	return "user::" + user.Username
}

func projectObject(projectGUID string) string {
	return "project::" + projectGUID
}

func projectRoleName(projectGUID string, permission shared.Permission) string {
	return projectObject(projectGUID) + "|role::" + string(permission)
}

func (c *casbinRBAC) HasProjectPermission(user models.User, projectGUID string, permission shared.Permission) (bool, error) {
	return c.enforcer.Enforce(userSubject(user), projectObject(projectGUID), string(permission))
}

// GrantProjectPermission makes the user a member of the project role. The role and its policies are created
// on first use.
func (c *casbinRBAC) GrantProjectPermission(user models.User, projectGUID string, permission shared.Permission) error {
	if err := c.ensureProjectRoles(projectGUID); err != nil {
		return err
	}
	_, err := c.enforcer.AddRoleForUser(userSubject(user), projectRoleName(projectGUID, permission))
	return err
}

func (c *casbinRBAC) RevokeProjectPermission(user models.User, projectGUID string, permission shared.Permission) error {
	_, err := c.enforcer.DeleteRoleForUser(userSubject(user), projectRoleName(projectGUID, permission))
	return err
}

func (c *casbinRBAC) ensureProjectRoles(projectGUID string) error {
	viewRole := projectRoleName(projectGUID, shared.PermissionCanView)
	editRole := projectRoleName(projectGUID, shared.PermissionCanEdit)
	obj := projectObject(projectGUID)

	policies := [][]string{
		{viewRole, obj, string(shared.PermissionCanView)},
		{editRole, obj, string(shared.PermissionCanEdit)},
	}
	for _, p := range policies {
		if ok, _ := c.enforcer.HasPolicy(p); ok {
			continue
		}
		if _, err := c.enforcer.AddPolicy(p); err != nil {
			return errors.Wrap(err, "could not add project policy")
		}
	}
	if ok, _ := c.enforcer.HasRoleForUser(editRole, viewRole); !ok {
		if _, err := c.enforcer.AddRoleForUser(editRole, viewRole); err != nil {
			return errors.Wrap(err, "could not link project roles")
		}
	}
	return nil
}

// GetProjectCollaborators returns the usernames holding the permission directly or through an inheriting role.
func (c *casbinRBAC) GetProjectCollaborators(projectGUID string, permission shared.Permission) ([]string, error) {
	users, err := c.enforcer.GetImplicitUsersForRole(projectRoleName(projectGUID, permission))
	if err != nil {
		return nil, err
	}
	return utils.Map(utils.Filter(users, func(u string) bool {
		return strings.HasPrefix(u, "user::")
	}), func(u string) string {
		return strings.TrimPrefix(u, "user::")
	}), nil
}

func (c *casbinRBAC) IsAnalyst(user models.User) (bool, error) {
	return c.enforcer.HasRoleForUser(userSubject(user), analystRole)
}

func (c *casbinRBAC) GrantAnalyst(user models.User) error {
	_, err := c.enforcer.AddRoleForUser(userSubject(user), analystRole)
	return err
}
