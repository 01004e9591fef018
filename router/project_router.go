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

package router

import (
	"github.com/l3montree-dev/genoguard/controllers"
	"github.com/l3montree-dev/genoguard/middlewares"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
)

type ProjectRouter struct {
	*echo.Group
}

func NewProjectRouter(
	sessionRouter SessionRouter,
	savedVariantController *controllers.SavedVariantController,
	igvController *controllers.IgvController,
	projectController *controllers.ProjectController,
	projectRepository shared.ProjectRepository,
	individualRepository shared.IndividualRepository,
	accessControl shared.AccessControl,
) ProjectRouter {
	/**
	Project scoped router
	All routes below this line are scoped to a specific project.
	*/
	projectRouter := sessionRouter.Group.Group("/projects/:projectGuid", middlewares.ProjectAccessControl(projectRepository, accessControl, shared.PermissionCanView))
	projectRouter.GET("/", projectController.Read)
	projectRouter.GET("/saved-variants/", savedVariantController.List)
	projectRouter.GET("/saved-variants/:variantGuids/", savedVariantController.GetByGUIDs)
	projectRouter.DELETE("/saved-variants/:variantGuids/notes/:noteGuid/", savedVariantController.DeleteNote)
	projectRouter.GET("/collaborators/", projectController.Collaborators)
	projectRouter.POST("/cached-results/reset/", projectController.ResetCache, middlewares.StaffOnly())
	projectRouter.GET("/igv-track/*", igvController.FetchTrack)

	projectEditRouter := sessionRouter.Group.Group("/projects/:projectGuid", middlewares.ProjectAccessControl(projectRepository, accessControl, shared.PermissionCanEdit))
	projectEditRouter.POST("/individuals/:individualGuid/igv/", igvController.Update, middlewares.IndividualMiddleware(individualRepository))
	projectEditRouter.POST("/igv/upload/", igvController.ReceiveTable)

	return ProjectRouter{
		Group: projectRouter,
	}
}
