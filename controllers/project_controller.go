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

package controllers

import (
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
)

type ProjectController struct {
	projectContextService shared.ProjectContextService
	cacheService          shared.CacheService
}

func NewProjectController(projectContextService shared.ProjectContextService, cacheService shared.CacheService) *ProjectController {
	return &ProjectController{
		projectContextService: projectContextService,
		cacheService:          cacheService,
	}
}

// @Summary Read a project with its tag types and analysis groups
// @Tags Projects
// @Param projectGuid path string true "Project guid"
// @Success 200 {object} object{projectsByGuid=object,analysisGroupsByGuid=object}
// @Router /projects/{projectGuid} [get]
func (c *ProjectController) Read(ctx shared.Context) error {
	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	overview, err := c.projectContextService.GetProjectOverview(ctx.Request().Context(), project, shared.GetUser(ctx))
	if err != nil {
		return echo.NewHTTPError(500, "could not load project").WithInternal(err)
	}
	return ctx.JSON(200, overview)
}

// @Summary List project collaborators
// @Tags Projects
// @Param projectGuid path string true "Project guid"
// @Success 200 {object} object{collaborators=[]object}
// @Router /projects/{projectGuid}/collaborators [get]
func (c *ProjectController) Collaborators(ctx shared.Context) error {
	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	collaborators, err := c.projectContextService.GetCollaborators(ctx.Request().Context(), project)
	if err != nil {
		return echo.NewHTTPError(500, "could not fetch collaborators").WithInternal(err)
	}

	return ctx.JSON(200, map[string]any{"collaborators": collaborators})
}

// @Summary Reset cached search results of a project
// @Tags Projects
// @Param projectGuid path string true "Project guid"
// @Param indexMetadata query bool false "Also reset the cached index metadata"
// @Success 200
// @Router /projects/{projectGuid}/cached-results/reset [post]
func (c *ProjectController) ResetCache(ctx shared.Context) error {
	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	// failures are logged by the cache service, the reset never fails the request
	c.cacheService.ResetCachedSearchResults(ctx.Request().Context(), &project, shared.GetBoolQueryParam(ctx, "indexMetadata"))
	return ctx.JSON(200, map[string]bool{"success": true})
}
