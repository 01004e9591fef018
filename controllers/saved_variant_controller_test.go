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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/database/repositories"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/mocks"
	"github.com/l3montree-dev/genoguard/services"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func newSavedVariantController(db *gorm.DB, variantResponseService shared.VariantResponseService) *SavedVariantController {
	return NewSavedVariantController(
		repositories.NewSavedVariantRepository(db),
		repositories.NewVariantNoteRepository(db),
		services.NewSavedVariantService(
			repositories.NewSavedVariantRepository(db),
			repositories.NewVariantTagRepository(db),
			repositories.NewVariantNoteRepository(db),
			repositories.NewVariantFunctionalDataRepository(db),
			repositories.NewPreloader(db),
			nil,
		),
		variantResponseService,
	)
}

func newProjectContext(method, target string, user models.User, project models.Project) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(httptest.NewRequest(method, target, nil), rec)
	shared.SetUser(ctx, user)
	shared.SetProject(ctx, project)
	return ctx, rec
}

func TestSavedVariantControllerList(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	t.Run("should pass the project variants and the query flags to the response service", func(t *testing.T) {
		variantResponseService := mocks.NewVariantResponseService(t)
		expectedOpts := shared.DefaultVariantsResponseOptions()
		expectedOpts.LoadFamilyContext = true
		expectedOpts.IncludeMissingVariants = true
		variantResponseService.On("GetVariantsResponse", mock.Anything, f.User, mock.MatchedBy(func(variants []models.SavedVariant) bool {
			return len(variants) == 2 && variants[0].GUID == f.Variants[0].GUID && variants[1].GUID == f.Variants[1].GUID
		}), expectedOpts).Return(dtos.VariantsResponse{GenesByID: map[string]dtos.JSON{}}, nil)

		ctx, rec := newProjectContext(http.MethodGet, "/?families="+f.Family.GUID+"&loadFamilyContext=true&includeMissingVariants=true", f.User, f.Project)
		require.NoError(t, newSavedVariantController(db, variantResponseService).List(ctx))
		assert.Equal(t, 200, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]any{}, body["genesById"])
	})

	t.Run("should only list variants of the requested families", func(t *testing.T) {
		variantResponseService := mocks.NewVariantResponseService(t)
		variantResponseService.On("GetVariantsResponse", mock.Anything, f.User, mock.MatchedBy(func(variants []models.SavedVariant) bool {
			return len(variants) == 0
		}), shared.DefaultVariantsResponseOptions()).Return(dtos.VariantsResponse{}, nil)

		ctx, rec := newProjectContext(http.MethodGet, "/?families=F999999_unknown", f.User, f.Project)
		require.NoError(t, newSavedVariantController(db, variantResponseService).List(ctx))
		assert.Equal(t, 200, rec.Code)
	})
}

func TestSavedVariantControllerGetByGUIDs(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	other := models.Project{Name: "Other"}
	require.NoError(t, db.Create(&other).Error)
	otherFamily := models.Family{ProjectID: other.ID, FamilyIdentifier: "other"}
	require.NoError(t, db.Create(&otherFamily).Error)
	foreign := integrationtestutil.CreateSavedVariant(t, db, otherFamily.ID, "1", 248367227, "TC", "T")

	newContext := func(variantGUIDs string) (echo.Context, *httptest.ResponseRecorder) {
		ctx, rec := newProjectContext(http.MethodGet, "/", f.User, f.Project)
		ctx.SetParamNames("variantGuids")
		ctx.SetParamValues(variantGUIDs)
		return ctx, rec
	}

	t.Run("should respond with the requested variants", func(t *testing.T) {
		variantResponseService := mocks.NewVariantResponseService(t)
		variantResponseService.On("GetVariantsResponse", mock.Anything, f.User, mock.MatchedBy(func(variants []models.SavedVariant) bool {
			return len(variants) == 1 && variants[0].GUID == f.Variants[1].GUID
		}), shared.DefaultVariantsResponseOptions()).Return(dtos.VariantsResponse{}, nil)

		ctx, rec := newContext(f.Variants[1].GUID + "," + f.Variants[1].GUID)
		require.NoError(t, newSavedVariantController(db, variantResponseService).GetByGUIDs(ctx))
		assert.Equal(t, 200, rec.Code)
	})

	t.Run("should return 404 if any variant is unknown", func(t *testing.T) {
		ctx, _ := newContext(f.Variants[0].GUID + ",SV9999999_unknown")
		err := newSavedVariantController(db, mocks.NewVariantResponseService(t)).GetByGUIDs(ctx)
		assert.Equal(t, 404, httpCode(t, err))
	})

	t.Run("should return 404 for variants of other projects", func(t *testing.T) {
		ctx, _ := newContext(foreign.GUID)
		err := newSavedVariantController(db, mocks.NewVariantResponseService(t)).GetByGUIDs(ctx)
		assert.Equal(t, 404, httpCode(t, err))
	})
}

func TestSavedVariantControllerDeleteNote(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	variant := f.Variants[0]

	newContext := func(user models.User, noteGUID string) (echo.Context, *httptest.ResponseRecorder) {
		ctx, rec := newProjectContext(http.MethodDelete, "/", user, f.Project)
		ctx.SetParamNames("variantGuids", "noteGuid")
		ctx.SetParamValues(variant.GUID, noteGUID)
		return ctx, rec
	}

	note := integrationtestutil.CreateNote(t, db, "interesting", f.User, variant)
	remaining := integrationtestutil.CreateNote(t, db, "still here", f.User, variant)

	t.Run("should forbid deleting notes of other users", func(t *testing.T) {
		ctx, _ := newContext(f.Staff, note.GUID)
		err := newSavedVariantController(db, nil).DeleteNote(ctx)
		assert.Equal(t, 403, httpCode(t, err))

		var count int64
		require.NoError(t, db.Model(&models.VariantNote{}).Where("id = ?", note.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("should delete the note of the creator", func(t *testing.T) {
		ctx, rec := newContext(f.User, note.GUID)
		require.NoError(t, newSavedVariantController(db, nil).DeleteNote(ctx))
		assert.Equal(t, 200, rec.Code)

		var body struct {
			SavedVariantsByGUID map[string]struct {
				NoteGUIDs []string `json:"noteGuids"`
			} `json:"savedVariantsByGuid"`
			VariantNotesByGUID map[string]any `json:"variantNotesByGuid"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, []string{remaining.GUID}, body.SavedVariantsByGUID[variant.GUID].NoteGUIDs)
		assert.Contains(t, body.VariantNotesByGUID, note.GUID)
		assert.Nil(t, body.VariantNotesByGUID[note.GUID])
	})

	t.Run("should return an empty note list once the last note is gone", func(t *testing.T) {
		ctx, rec := newContext(f.User, remaining.GUID)
		require.NoError(t, newSavedVariantController(db, nil).DeleteNote(ctx))
		assert.JSONEq(t, `{"savedVariantsByGuid":{"`+variant.GUID+`":{"noteGuids":[]}},"variantNotesByGuid":{"`+remaining.GUID+`":null}}`, rec.Body.String())
	})

	t.Run("should return 404 for unknown notes", func(t *testing.T) {
		ctx, _ := newContext(f.User, "VN9999999_unknown")
		err := newSavedVariantController(db, nil).DeleteNote(ctx)
		assert.Equal(t, 404, httpCode(t, err))
	})
}
