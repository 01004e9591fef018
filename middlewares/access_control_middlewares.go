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

package middlewares

import (
	"log/slog"

	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProjectAccessControl loads the project of the :projectGuid param into the context if the user holds the
// permission. Staff may access every project. A project the user may not see is reported as missing.
func ProjectAccessControl(projectRepository shared.ProjectRepository, accessControl shared.AccessControl, permission shared.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			user := shared.GetUser(ctx)
			projectGUID := shared.GetParam(ctx, "projectGuid")

			project, err := projectRepository.ReadByGUID(ctx.Request().Context(), projectGUID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(404, "could not find project")
				}
				return echo.NewHTTPError(500, "could not fetch project").WithInternal(err)
			}

			if !user.IsStaff {
				allowed, err := accessControl.HasProjectPermission(user, project.GUID, permission)
				if err != nil {
					return echo.NewHTTPError(500, "could not determine if the user has access").WithInternal(err)
				}
				if !allowed {
					slog.Warn("access denied in ProjectAccessControl", "user", user.Username, "project", project.GUID, "permission", permission)
					if permission == shared.PermissionCanEdit {
						if canView, _ := accessControl.HasProjectPermission(user, project.GUID, shared.PermissionCanView); canView {
							return echo.NewHTTPError(403, "user does not have edit permission for the project")
						}
					}
					return echo.NewHTTPError(404, "could not find project")
				}
			}

			shared.SetProject(ctx, project)
			return next(ctx)
		}
	}
}
