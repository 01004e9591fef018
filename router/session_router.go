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
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	*echo.Group
}

// @Summary Get current user info
// @Success 200 {object} object{username=string,isStaff=bool}
// @Router /whoami [get]
func whoami(ctx echo.Context) error {
	return ctx.JSON(200, transformer.UserToJSON(shared.GetUser(ctx)))
}

func NewSessionRouter(apiV1Router APIV1Router, userRepository shared.UserRepository, savedSearchController *controllers.SavedSearchController) SessionRouter {
	sessionRouter := apiV1Router.Group.Group("", middlewares.SessionMiddleware(userRepository))
	sessionRouter.GET("/whoami/", whoami)
	sessionRouter.GET("/saved-searches/", savedSearchController.List)

	return SessionRouter{
		Group: sessionRouter,
	}
}
