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

package services

import (
	"context"
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/mocks"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProjectTagTypes(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	s := newProjectContextService(db, nil)

	other := models.Project{Name: "Other", GenomeVersion: "38"}
	require.NoError(t, db.Create(&other).Error)

	t.Run("should list the project tag types before the global ones", func(t *testing.T) {
		projectsByGUID := map[string]dtos.JSON{
			f.Project.GUID: {"projectGuid": f.Project.GUID},
			other.GUID:     {"projectGuid": other.GUID},
		}
		require.NoError(t, s.AddProjectTagTypes(ctx, projectsByGUID))

		tagTypes := projectsByGUID[f.Project.GUID]["variantTagTypes"].([]dtos.JSON)
		require.Len(t, tagTypes, 2)
		assert.Equal(t, "Review", tagTypes[0]["name"])
		assert.Equal(t, f.ProjectTag.GUID, tagTypes[0]["variantTagTypeGuid"])
		assert.Equal(t, f.TagType.Name, tagTypes[1]["name"])

		otherTagTypes := projectsByGUID[other.GUID]["variantTagTypes"].([]dtos.JSON)
		require.Len(t, otherTagTypes, 1)
		assert.Equal(t, f.TagType.GUID, otherTagTypes[0]["variantTagTypeGuid"])

		assert.Len(t, projectsByGUID[f.Project.GUID]["variantFunctionalTagTypes"], len(models.FunctionalDataTags))
	})

	t.Run("should ignore an empty map", func(t *testing.T) {
		assert.NoError(t, s.AddProjectTagTypes(ctx, map[string]dtos.JSON{}))
	})
}

func TestAddFamiliesContext(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	s := newProjectContextService(db, nil)

	inactive := models.Sample{IndividualID: f.Mother.ID, SampleIdentifier: "NA12891", SampleType: models.SampleTypeWES, DatasetType: models.DatasetTypeVariantCalls}
	require.NoError(t, db.Create(&inactive).Error)
	igv := models.IgvSample{IndividualID: f.Proband.ID, FilePath: "/c.cram", SampleType: models.IgvSampleTypeAlignment}
	require.NoError(t, db.Create(&igv).Error)

	t.Run("should add families, individuals and active samples", func(t *testing.T) {
		response := dtos.VariantsResponse{}
		err := s.AddFamiliesContext(ctx, &response, []models.Family{f.Family}, f.User, shared.FamiliesContextOptions{IncludeIgv: true})
		require.NoError(t, err)

		require.Contains(t, response.FamiliesByGUID, f.Family.GUID)
		assert.Equal(t, f.Project.GUID, response.FamiliesByGUID[f.Family.GUID]["projectGuid"])

		require.Len(t, response.IndividualsByGUID, 3)
		proband := response.IndividualsByGUID[f.Proband.GUID]
		assert.Equal(t, f.Mother.GUID, proband["maternalGuid"])
		assert.Equal(t, []string{f.Sample.GUID}, proband["sampleGuids"])
		assert.Equal(t, []string{igv.GUID}, proband["igvSampleGuids"])

		assert.Len(t, response.SamplesByGUID, 1)
		assert.Contains(t, response.SamplesByGUID, f.Sample.GUID)
		require.Contains(t, response.IgvSamplesByGUID, igv.GUID)
		assert.Equal(t, f.Family.GUID, response.IgvSamplesByGUID[igv.GUID]["familyGuid"])
	})

	t.Run("should keep families already in the response", func(t *testing.T) {
		response := dtos.VariantsResponse{}
		response.FamiliesByGUID = map[string]dtos.JSON{"F000099_other": {"familyGuid": "F000099_other"}}
		err := s.AddFamiliesContext(ctx, &response, []models.Family{f.Family}, f.User, shared.FamiliesContextOptions{})
		require.NoError(t, err)
		assert.Len(t, response.FamiliesByGUID, 2)
		assert.Nil(t, response.IgvSamplesByGUID)
	})
}

func TestGetCollaborators(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	accessControl := mocks.NewAccessControl(t)
	s := newProjectContextService(db, accessControl)

	accessControl.On("GetProjectCollaborators", f.Project.GUID, shared.PermissionCanView).Return([]string{"analyst", "staff"}, nil)
	accessControl.On("GetProjectCollaborators", f.Project.GUID, shared.PermissionCanEdit).Return([]string{"staff"}, nil)

	collaborators, err := s.GetCollaborators(ctx, f.Project)
	require.NoError(t, err)
	require.Len(t, collaborators, 2)

	byUsername := dtos.ByGUID(collaborators, "username")
	assert.Equal(t, true, byUsername["staff"]["hasEditPermissions"])
	assert.Equal(t, false, byUsername["analyst"]["hasEditPermissions"])
	assert.Equal(t, true, byUsername["analyst"]["hasViewPermissions"])
}

func TestGetProjectOverview(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	group := models.AnalysisGroup{ProjectID: f.Project.ID, Name: "Trios"}
	require.NoError(t, db.Create(&group).Error)
	require.NoError(t, db.Exec("INSERT INTO analysis_group_families (analysis_group_id, family_id) VALUES (?, ?)", group.ID, f.Family.ID).Error)

	t.Run("should add tag types and analysis groups with their families", func(t *testing.T) {
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("HasProjectPermission", f.User, f.Project.GUID, shared.PermissionCanEdit).Return(false, nil)
		s := newProjectContextService(db, accessControl)

		overview, err := s.GetProjectOverview(ctx, f.Project, f.User)
		require.NoError(t, err)

		projects := overview["projectsByGuid"].(map[string]dtos.JSON)
		require.Contains(t, projects, f.Project.GUID)
		assert.Equal(t, false, projects[f.Project.GUID]["canEdit"])
		assert.Equal(t, "Test Project", projects[f.Project.GUID]["name"])
		assert.Len(t, projects[f.Project.GUID]["variantTagTypes"], 2)

		groups := overview["analysisGroupsByGuid"].(map[string]dtos.JSON)
		require.Contains(t, groups, group.GUID)
		assert.Equal(t, f.Project.GUID, groups[group.GUID]["projectGuid"])
		assert.Equal(t, []string{f.Family.GUID}, groups[group.GUID]["familyGuids"])
	})

	t.Run("should let staff edit without asking the access control", func(t *testing.T) {
		accessControl := mocks.NewAccessControl(t)
		s := newProjectContextService(db, accessControl)

		overview, err := s.GetProjectOverview(ctx, f.Project, f.Staff)
		require.NoError(t, err)
		assert.Equal(t, true, overview["projectsByGuid"].(map[string]dtos.JSON)[f.Project.GUID]["canEdit"])
	})
}
