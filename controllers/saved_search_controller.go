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
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/labstack/echo/v4"
)

type SavedSearchController struct {
	variantSearchRepository shared.VariantSearchRepository
	accessControl           shared.AccessControl
}

func NewSavedSearchController(variantSearchRepository shared.VariantSearchRepository, accessControl shared.AccessControl) *SavedSearchController {
	return &SavedSearchController{
		variantSearchRepository: variantSearchRepository,
		accessControl:           accessControl,
	}
}

// @Summary List the saved searches of the current user and the shared ones
// @Tags Searches
// @Success 200 {object} object{savedSearchesByGuid=object}
// @Router /saved-searches [get]
func (c *SavedSearchController) List(ctx shared.Context) error {
	user := shared.GetUser(ctx)

	searches, err := c.variantSearchRepository.ListVisible(ctx.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(500, "could not fetch saved searches").WithInternal(err)
	}

	isAnalyst, err := c.accessControl.IsAnalyst(user)
	if err != nil {
		return echo.NewHTTPError(500, "could not check analyst access").WithInternal(err)
	}

	searchesJSON, err := transformer.SavedSearchesToJSON(ctx.Request().Context(), searches, isAnalyst)
	if err != nil {
		return echo.NewHTTPError(500, "could not transform saved searches").WithInternal(err)
	}
	return ctx.JSON(200, map[string]any{"savedSearchesByGuid": dtos.ByGUID(searchesJSON, "savedSearchGuid")})
}
