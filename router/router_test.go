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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/l3montree-dev/genoguard/common"
	"github.com/l3montree-dev/genoguard/controllers"
	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/database/repositories"
	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/middlewares"
	"github.com/l3montree-dev/genoguard/mocks"
	"github.com/l3montree-dev/genoguard/services"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/storage"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T, db *gorm.DB, accessControl shared.AccessControl) *echo.Echo {
	t.Helper()
	srv := middlewares.Server()

	preloader := repositories.NewPreloader(db)
	savedVariantRepository := repositories.NewSavedVariantRepository(db)
	variantNoteRepository := repositories.NewVariantNoteRepository(db)
	savedVariantService := services.NewSavedVariantService(
		savedVariantRepository,
		repositories.NewVariantTagRepository(db),
		variantNoteRepository,
		repositories.NewVariantFunctionalDataRepository(db),
		preloader,
		nil,
	)
	projectContextService := services.NewProjectContextService(
		repositories.NewProjectRepository(db),
		repositories.NewVariantTagTypeRepository(db),
		repositories.NewIndividualRepository(db),
		repositories.NewSampleRepository(db),
		repositories.NewIgvSampleRepository(db),
		repositories.NewAnalysisGroupRepository(db),
		repositories.NewUserRepository(db),
		accessControl,
		preloader,
	)
	variantResponseService := services.NewVariantResponseService(
		savedVariantService,
		projectContextService,
		repositories.NewFamilyRepository(db),
		repositories.NewGeneRepository(db),
		repositories.NewLocusListRepository(db),
		repositories.NewRnaSeqRepository(db),
		accessControl,
		preloader,
	)
	cacheService := services.NewCacheService(common.NewLRUCacheClient(10, time.Minute), repositories.NewVariantSearchResultsRepository(db))

	sessionRouter := NewSessionRouter(
		NewAPIV1Router(srv, db),
		repositories.NewUserRepository(db),
		controllers.NewSavedSearchController(repositories.NewVariantSearchRepository(db), accessControl),
	)
	NewProjectRouter(
		sessionRouter,
		controllers.NewSavedVariantController(savedVariantRepository, variantNoteRepository, savedVariantService, variantResponseService),
		controllers.NewIgvController(services.NewIgvService(repositories.NewIgvSampleRepository(db), repositories.NewIndividualRepository(db), storage.NewFileStore(nil), preloader)),
		controllers.NewProjectController(projectContextService, cacheService),
		repositories.NewProjectRepository(db),
		repositories.NewIndividualRepository(db),
		accessControl,
	)
	return srv
}

func do(srv *echo.Echo, method, target, username string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if username != "" {
		req.Header.Set(middlewares.UserHeader, username)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	srv := newTestServer(t, db, mocks.NewAccessControl(t))

	rec := do(srv, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSessionRoutes(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	integrationtestutil.CreateFixtures(t, db)
	srv := newTestServer(t, db, mocks.NewAccessControl(t))

	assert.Equal(t, 401, do(srv, http.MethodGet, "/api/v1/whoami/", "").Code)

	rec := do(srv, http.MethodGet, "/api/v1/whoami/", "analyst")
	assert.Equal(t, 200, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "analyst", body["username"])
	assert.Equal(t, "Ada Lovelace", body["displayName"])
}

func TestSavedSearchRoutes(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	own := models.VariantSearch{Name: utils.Ptr("Mine"), Search: databasetypes.JSONB{"inheritance": "de_novo"}}
	own.CreatedByID = &f.User.ID
	public := models.VariantSearch{Name: utils.Ptr("Shared"), Search: databasetypes.JSONB{"pathogenicity": map[string]any{"hgmd": []any{"disease_causing"}}}}
	foreign := models.VariantSearch{Name: utils.Ptr("Staff Only")}
	foreign.CreatedByID = &f.Staff.ID
	require.NoError(t, db.Create(&own).Error)
	require.NoError(t, db.Create(&public).Error)
	require.NoError(t, db.Create(&foreign).Error)

	accessControl := mocks.NewAccessControl(t)
	accessControl.On("IsAnalyst", f.User).Return(false, nil)
	srv := newTestServer(t, db, accessControl)

	rec := do(srv, http.MethodGet, "/api/v1/saved-searches/", "analyst")
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var body struct {
		SavedSearchesByGUID map[string]map[string]any `json:"savedSearchesByGuid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.SavedSearchesByGUID, 2)
	assert.Contains(t, body.SavedSearchesByGUID, own.GUID)
	assert.NotContains(t, body.SavedSearchesByGUID, foreign.GUID)
	assert.Equal(t, map[string]any{"pathogenicity": map[string]any{}}, body.SavedSearchesByGUID[public.GUID]["search"])
}

func TestProjectRoutes(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	tag := integrationtestutil.CreateTag(t, db, f.ProjectTag, f.User, f.Variants[0])

	t.Run("should list the tagged saved variants of the project", func(t *testing.T) {
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("HasProjectPermission", f.User, f.Project.GUID, shared.PermissionCanView).Return(true, nil)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil).Maybe()
		srv := newTestServer(t, db, accessControl)

		rec := do(srv, http.MethodGet, "/api/v1/projects/"+f.Project.GUID+"/saved-variants", "analyst")
		require.Equal(t, 200, rec.Code, rec.Body.String())

		var body struct {
			SavedVariantsByGUID map[string]map[string]any `json:"savedVariantsByGuid"`
			VariantTagsByGUID   map[string]map[string]any `json:"variantTagsByGuid"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.SavedVariantsByGUID, 1)
		assert.Contains(t, body.SavedVariantsByGUID, f.Variants[0].GUID)
		assert.Contains(t, body.VariantTagsByGUID, tag.GUID)
	})

	t.Run("should return the project overview", func(t *testing.T) {
		srv := newTestServer(t, db, mocks.NewAccessControl(t))

		rec := do(srv, http.MethodGet, "/api/v1/projects/"+f.Project.GUID+"/", "staff")
		require.Equal(t, 200, rec.Code, rec.Body.String())

		var body struct {
			ProjectsByGUID       map[string]map[string]any `json:"projectsByGuid"`
			AnalysisGroupsByGUID map[string]any            `json:"analysisGroupsByGuid"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Contains(t, body.ProjectsByGUID, f.Project.GUID)
		assert.Equal(t, true, body.ProjectsByGUID[f.Project.GUID]["canEdit"])
		assert.Len(t, body.ProjectsByGUID[f.Project.GUID]["variantTagTypes"], 2)
		assert.Empty(t, body.AnalysisGroupsByGUID)
	})

	t.Run("should hide projects from users without access", func(t *testing.T) {
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("HasProjectPermission", f.User, f.Project.GUID, shared.PermissionCanView).Return(false, nil)
		srv := newTestServer(t, db, accessControl)

		rec := do(srv, http.MethodGet, "/api/v1/projects/"+f.Project.GUID+"/saved-variants/", "analyst")
		assert.Equal(t, 404, rec.Code)
	})

	t.Run("should only let staff reset the cache", func(t *testing.T) {
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("HasProjectPermission", f.User, f.Project.GUID, shared.PermissionCanView).Return(true, nil)
		srv := newTestServer(t, db, accessControl)

		assert.Equal(t, 403, do(srv, http.MethodPost, "/api/v1/projects/"+f.Project.GUID+"/cached-results/reset/", "analyst").Code)

		rec := do(srv, http.MethodPost, "/api/v1/projects/"+f.Project.GUID+"/cached-results/reset/?indexMetadata=true", "staff")
		assert.Equal(t, 200, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	})
}

func TestIgvTrackRoutes(t *testing.T) {
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	track := filepath.Join(t.TempDir(), "child.bam")
	require.NoError(t, os.WriteFile(track, []byte("0123456789"), 0o600))
	require.NoError(t, db.Create(&models.IgvSample{IndividualID: f.Proband.ID, FilePath: track, SampleType: models.IgvSampleTypeAlignment}).Error)

	accessControl := mocks.NewAccessControl(t)
	accessControl.On("HasProjectPermission", f.User, f.Project.GUID, shared.PermissionCanView).Return(true, nil)
	srv := newTestServer(t, db, accessControl)
	target := "/api/v1/projects/" + f.Project.GUID + "/igv-track/" + url.PathEscape(track)

	t.Run("should serve a byte range of the track", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(middlewares.UserHeader, "analyst")
		req.Header.Set("Range", "bytes=2-5")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusPartialContent, rec.Code, rec.Body.String())
		assert.Equal(t, "2345", rec.Body.String())
		assert.Equal(t, "bytes 2-5/10", rec.Header().Get("Content-Range"))
	})

	t.Run("should serve the whole track", func(t *testing.T) {
		rec := do(srv, http.MethodGet, target, "analyst")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "0123456789", rec.Body.String())
	})

	t.Run("should not serve unregistered files", func(t *testing.T) {
		rec := do(srv, http.MethodGet, "/api/v1/projects/"+f.Project.GUID+"/igv-track/"+url.PathEscape("/etc/hostname"), "analyst")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
