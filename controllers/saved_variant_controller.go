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
	"slices"
	"strings"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SavedVariantController struct {
	savedVariantRepository shared.SavedVariantRepository
	variantNoteRepository  shared.VariantNoteRepository
	savedVariantService    shared.SavedVariantService
	variantResponseService shared.VariantResponseService
}

func NewSavedVariantController(
	savedVariantRepository shared.SavedVariantRepository,
	variantNoteRepository shared.VariantNoteRepository,
	savedVariantService shared.SavedVariantService,
	variantResponseService shared.VariantResponseService,
) *SavedVariantController {
	return &SavedVariantController{
		savedVariantRepository: savedVariantRepository,
		variantNoteRepository:  variantNoteRepository,
		savedVariantService:    savedVariantService,
		variantResponseService: variantResponseService,
	}
}

// splitParam splits a comma separated list and drops empty entries.
func splitParam(s string) []string {
	return slices.DeleteFunc(strings.Split(s, ","), func(e string) bool {
		return strings.TrimSpace(e) == ""
	})
}

func responseOptions(ctx shared.Context) shared.VariantsResponseOptions {
	opts := shared.DefaultVariantsResponseOptions()
	opts.LoadProjectTagTypes = shared.GetBoolQueryParam(ctx, "loadProjectTagTypes")
	opts.LoadFamilyContext = shared.GetBoolQueryParam(ctx, "loadFamilyContext")
	opts.IncludeMissingVariants = shared.GetBoolQueryParam(ctx, "includeMissingVariants")
	return opts
}

// @Summary List saved variants of a project
// @Tags SavedVariants
// @Param projectGuid path string true "Project guid"
// @Param families query string false "Comma separated family guids"
// @Success 200 {object} dtos.VariantsResponse
// @Router /projects/{projectGuid}/saved-variants [get]
func (c *SavedVariantController) List(ctx shared.Context) error {
	project, err := shared.GetProject(ctx)
	if err != nil {
		return echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	variants, err := c.savedVariantRepository.ListByProject(ctx.Request().Context(), project.ID, splitParam(ctx.QueryParam("families")))
	if err != nil {
		return echo.NewHTTPError(500, "could not fetch saved variants").WithInternal(err)
	}

	return c.respond(ctx, variants)
}

// @Summary Read saved variants by guid
// @Tags SavedVariants
// @Param projectGuid path string true "Project guid"
// @Param variantGuids path string true "Comma separated saved variant guids"
// @Success 200 {object} dtos.VariantsResponse
// @Router /projects/{projectGuid}/saved-variants/{variantGuids} [get]
func (c *SavedVariantController) GetByGUIDs(ctx shared.Context) error {
	variants, err := c.readVariants(ctx)
	if err != nil {
		return err
	}
	return c.respond(ctx, variants)
}

// @Summary Delete a variant note
// @Tags SavedVariants
// @Param projectGuid path string true "Project guid"
// @Param variantGuids path string true "Comma separated saved variant guids"
// @Param noteGuid path string true "Note guid"
// @Success 200
// @Router /projects/{projectGuid}/saved-variants/{variantGuids}/notes/{noteGuid} [delete]
func (c *SavedVariantController) DeleteNote(ctx shared.Context) error {
	variants, err := c.readVariants(ctx)
	if err != nil {
		return err
	}

	noteGUID := shared.GetParam(ctx, "noteGuid")
	note, err := c.variantNoteRepository.ReadByGUID(ctx.Request().Context(), noteGUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(404, "could not find note")
		}
		return echo.NewHTTPError(500, "could not fetch note").WithInternal(err)
	}

	user := shared.GetUser(ctx)
	if err := c.variantNoteRepository.DeleteModel(ctx.Request().Context(), user, &note, false); err != nil {
		if errors.Is(err, shared.ErrPermissionDenied) {
			return echo.NewHTTPError(403, err.Error())
		}
		return echo.NewHTTPError(500, "could not delete note").WithInternal(err)
	}

	res, err := c.savedVariantService.GetSavedVariantsWithTags(ctx.Request().Context(), variants, shared.SavedVariantsWithTagsOptions{User: &user})
	if err != nil {
		return echo.NewHTTPError(500, "could not fetch saved variant notes").WithInternal(err)
	}

	savedVariantsByGUID := make(map[string]any, len(variants))
	for _, v := range variants {
		noteGUIDs := []string{}
		if saved, ok := res.SavedVariantsByGUID[v.GUID]; ok {
			if guids, ok := saved["noteGuids"].([]string); ok {
				noteGUIDs = guids
			}
		}
		savedVariantsByGUID[v.GUID] = map[string]any{"noteGuids": noteGUIDs}
	}

	return ctx.JSON(200, map[string]any{
		"savedVariantsByGuid": savedVariantsByGUID,
		"variantNotesByGuid":  map[string]any{noteGUID: nil},
	})
}

func (c *SavedVariantController) readVariants(ctx shared.Context) ([]models.SavedVariant, error) {
	project, err := shared.GetProject(ctx)
	if err != nil {
		return nil, echo.NewHTTPError(500, "could not get project").WithInternal(err)
	}

	guids := splitParam(shared.GetParam(ctx, "variantGuids"))
	if len(guids) == 0 {
		return nil, echo.NewHTTPError(400, "no saved variant guids provided")
	}
	variants, err := c.savedVariantRepository.ListByProjectAndGUIDs(ctx.Request().Context(), project.ID, guids)
	if err != nil {
		return nil, echo.NewHTTPError(500, "could not fetch saved variants").WithInternal(err)
	}
	if len(variants) != len(slices.Compact(slices.Sorted(slices.Values(guids)))) {
		return nil, echo.NewHTTPError(404, "could not find saved variants")
	}
	return variants, nil
}

func (c *SavedVariantController) respond(ctx shared.Context, variants []models.SavedVariant) error {
	res, err := c.variantResponseService.GetVariantsResponse(ctx.Request().Context(), shared.GetUser(ctx), variants, responseOptions(ctx))
	if err != nil {
		return echo.NewHTTPError(500, "could not build saved variants response").WithInternal(err)
	}
	return ctx.JSON(200, res)
}
