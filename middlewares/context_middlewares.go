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
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IndividualMiddleware loads the :individualGuid param. It has to run after ProjectAccessControl,
// individuals of other projects are reported as missing.
func IndividualMiddleware(individualRepository shared.IndividualRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			project, err := shared.GetProject(ctx)
			if err != nil {
				return echo.NewHTTPError(500, "could not get project").WithInternal(err)
			}

			individual, err := individualRepository.ReadByGUID(ctx.Request().Context(), shared.GetParam(ctx, "individualGuid"))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(404, "could not find individual")
				}
				return echo.NewHTTPError(500, "could not fetch individual").WithInternal(err)
			}
			if individual.Family == nil || individual.Family.ProjectID != project.ID {
				return echo.NewHTTPError(404, "could not find individual")
			}

			shared.SetIndividual(ctx, individual)
			return next(ctx)
		}
	}
}
