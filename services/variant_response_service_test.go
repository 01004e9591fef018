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
	"github.com/l3montree-dev/genoguard/database/repositories"
	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/mocks"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testGeneID = "ENSG00000135953"

func newProjectContextService(db *gorm.DB, accessControl shared.AccessControl) *projectContextService {
	return NewProjectContextService(
		repositories.NewProjectRepository(db),
		repositories.NewVariantTagTypeRepository(db),
		repositories.NewIndividualRepository(db),
		repositories.NewSampleRepository(db),
		repositories.NewIgvSampleRepository(db),
		repositories.NewAnalysisGroupRepository(db),
		repositories.NewUserRepository(db),
		accessControl,
		repositories.NewPreloader(db),
	)
}

func newVariantResponseService(db *gorm.DB, accessControl shared.AccessControl) *variantResponseService {
	return NewVariantResponseService(
		newSavedVariantService(db, nil),
		newProjectContextService(db, accessControl),
		repositories.NewFamilyRepository(db),
		repositories.NewGeneRepository(db),
		repositories.NewLocusListRepository(db),
		repositories.NewRnaSeqRepository(db),
		accessControl,
		repositories.NewPreloader(db),
	)
}

type responseFixtures struct {
	integrationtestutil.Fixtures
	LocusList models.LocusList
	Tag       models.VariantTag
}

// createResponseFixtures tags the first fixture variant and adds gene, locus list and rna seq data for its transcript.
func createResponseFixtures(t *testing.T, db *gorm.DB) responseFixtures {
	t.Helper()
	f := responseFixtures{Fixtures: integrationtestutil.CreateFixtures(t, db)}

	require.NoError(t, db.Model(&models.SavedVariant{}).Where("id = ?", f.Variants[0].ID).
		Update("saved_variant_json", databasetypes.JSONB{"transcripts": map[string]any{testGeneID: []any{}}}).Error)
	require.NoError(t, db.Order("id").Find(&f.Variants).Error)
	f.Tag = integrationtestutil.CreateTag(t, db, f.ProjectTag, f.User, f.Variants[0])

	require.NoError(t, db.Create(&models.GeneInfo{GeneID: testGeneID, GeneSymbol: "MFSD9"}).Error)
	require.NoError(t, db.Create(&models.GeneConstraint{GeneID: testGeneID, MisZ: 1.2, MisZRank: 10, PLI: 0.9, PLIRank: 5}).Error)

	f.LocusList = models.LocusList{Name: "Epilepsy"}
	require.NoError(t, db.Create(&f.LocusList).Error)
	require.NoError(t, db.Exec("INSERT INTO locus_list_projects (locus_list_id, project_id) VALUES (?, ?)", f.LocusList.ID, f.Project.ID).Error)
	require.NoError(t, db.Create(&models.LocusListGene{
		LocusListID:     f.LocusList.ID,
		GeneID:          testGeneID,
		PaLocusListGene: &models.PaLocusListGene{ConfidenceLevel: 3},
	}).Error)
	require.NoError(t, db.Create(&models.LocusListInterval{
		LocusListID:   f.LocusList.ID,
		GenomeVersion: "37",
		Chrom:         "1",
		Start:         248367000,
		End:           248368000,
	}).Error)

	require.NoError(t, db.Create(&models.RnaSeqOutlier{SampleID: f.Sample.ID, GeneID: testGeneID, PValue: 0.0001, PAdjust: 0.01, ZScore: 4.5}).Error)
	require.NoError(t, db.Create(&models.RnaSeqOutlier{SampleID: f.Sample.ID, GeneID: "ENSG00000000001", PValue: 0.2, PAdjust: 0.5, ZScore: 0.1}).Error)
	require.NoError(t, db.Create(&models.RnaSeqTpm{SampleID: f.Sample.ID, GeneID: testGeneID, Tpm: 12.5}).Error)
	return f
}

func TestGetVariantsResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("should assemble genes, locus lists and rna seq data", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.DefaultVariantsResponseOptions())
		require.NoError(t, err)

		require.Len(t, res.SavedVariantsByGUID, 1)
		variant := res.SavedVariantsByGUID[f.Variants[0].GUID]
		assert.Equal(t, []string{f.LocusList.GUID}, variant["locusListGuids"])
		assert.NotContains(t, variant, "discoveryTags")

		require.Contains(t, res.GenesByID, testGeneID)
		gene := res.GenesByID[testGeneID]
		assert.Equal(t, "MFSD9", gene["geneSymbol"])
		assert.Equal(t, []string{f.LocusList.GUID}, gene["locusListGuids"])
		assert.Equal(t, 3, gene["panelAppDetail"].(dtos.JSON)[f.LocusList.GUID].(dtos.JSON)["confidence"])
		assert.Equal(t, int64(1), gene["constraints"].(dtos.JSON)["totalGenes"])
		assert.Equal(t, []dtos.JSON{}, gene["notes"])

		require.Contains(t, res.LocusListsByGUID, f.LocusList.GUID)
		locusList := res.LocusListsByGUID[f.LocusList.GUID]
		assert.NotContains(t, locusList, "name")
		require.Len(t, locusList["intervals"], 1)
		assert.Equal(t, "1", locusList["intervals"].([]dtos.JSON)[0]["chrom"])

		require.Contains(t, res.RnaSeqData, f.Proband.GUID)
		outliers := res.RnaSeqData[f.Proband.GUID].Outliers
		require.Len(t, outliers, 1)
		assert.Equal(t, 0.01, outliers[testGeneID]["pAdjust"])

		assert.Nil(t, res.ProjectsByGUID)
		assert.Nil(t, res.FamiliesByGUID)
		assert.Nil(t, res.IndividualsByGUID)
	})

	t.Run("should add the locus list detail", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{AddLocusListDetail: true})
		require.NoError(t, err)
		locusList := res.LocusListsByGUID[f.LocusList.GUID]
		assert.Equal(t, "Epilepsy", locusList["name"])
		assert.Len(t, locusList["intervals"], 1)
		assert.Nil(t, res.RnaSeqData)
	})

	t.Run("should add the full context", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		opts := shared.DefaultVariantsResponseOptions()
		opts.AddAllContext = true
		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, opts)
		require.NoError(t, err)

		require.Contains(t, res.ProjectsByGUID, f.Project.GUID)
		assert.Len(t, res.ProjectsByGUID[f.Project.GUID]["variantTagTypes"], 2)

		require.Contains(t, res.FamiliesByGUID, f.Family.GUID)
		family := res.FamiliesByGUID[f.Family.GUID]
		assert.Equal(t, true, family["hasRnaTpmData"])
		assert.Len(t, family["individualGuids"], 3)
		assert.NotContains(t, family, "caseReviewNotes")

		assert.Len(t, res.IndividualsByGUID, 3)
		assert.Contains(t, res.SamplesByGUID, f.Sample.GUID)
		assert.NotNil(t, res.IgvSamplesByGUID)
		assert.Empty(t, res.IgvSamplesByGUID)
	})

	t.Run("should load the family context without tag types", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{LoadFamilyContext: true})
		require.NoError(t, err)
		assert.Nil(t, res.ProjectsByGUID)
		assert.Contains(t, res.FamiliesByGUID, f.Family.GUID)
		assert.NotContains(t, res.FamiliesByGUID[f.Family.GUID], "hasRnaTpmData")
		assert.Nil(t, res.IgvSamplesByGUID)
	})

	t.Run("should show case review fields to editors", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		require.NoError(t, db.Model(&models.Project{}).Where("id = ?", f.Project.ID).Update("has_case_review", true).Error)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		accessControl.On("HasProjectPermission", mock.Anything, f.Project.GUID, shared.PermissionCanEdit).Return(true, nil).Once()
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{LoadFamilyContext: true})
		require.NoError(t, err)
		assert.Contains(t, res.FamiliesByGUID[f.Family.GUID], "caseReviewNotes")
	})

	t.Run("should add the discovery tags of other families for analysts", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		fam2 := createFamily(t, db, f.Project.ID, "fam 2")
		other := integrationtestutil.CreateSavedVariant(t, db, fam2.ID, "1", 248367227, "TC", "T")
		discoveryTag := integrationtestutil.CreateTag(t, db, f.Discovery, f.User, other)
		// the variant's own discovery tag is not repeated
		integrationtestutil.CreateTag(t, db, f.Discovery, f.User, f.Variants[0])

		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(true, nil)
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{})
		require.NoError(t, err)

		tags, ok := res.SavedVariantsByGUID[f.Variants[0].GUID]["discoveryTags"].([]dtos.JSON)
		require.True(t, ok)
		require.Len(t, tags, 1)
		assert.Equal(t, discoveryTag.GUID, tags[0]["tagGuid"])
		assert.Equal(t, fam2.GUID, tags[0]["savedVariant"].(dtos.JSON)["familyGuid"])
		assert.Contains(t, res.FamiliesByGUID, fam2.GUID)
	})

	t.Run("should not fail when the analyst check fails", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, assert.AnError)
		s := newVariantResponseService(db, accessControl)

		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{})
		require.NoError(t, err)
		assert.Len(t, res.SavedVariantsByGUID, 1)
		assert.Nil(t, res.DiscoveryTags)
	})

	t.Run("should use the given response variants", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		responseVariant := dtos.JSON{"variantId": "21-3343353-GAGA-G", "familyGuids": []string{f.Family.GUID}, "xpos": f.Variants[1].Xpos}
		res, err := s.GetVariantsResponse(ctx, f.User, f.Variants, shared.VariantsResponseOptions{ResponseVariants: []dtos.JSON{responseVariant}})
		require.NoError(t, err)
		assert.Empty(t, res.GenesByID)
		assert.NotContains(t, responseVariant, "locusListGuids")
		assert.Contains(t, res.LocusListsByGUID, f.LocusList.GUID)
	})

	t.Run("should return empty containers for no variants", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := integrationtestutil.CreateFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		opts := shared.DefaultVariantsResponseOptions()
		opts.AddAllContext = true
		res, err := s.GetVariantsResponse(ctx, f.User, nil, opts)
		require.NoError(t, err)
		assert.Empty(t, res.SavedVariantsByGUID)
		assert.Empty(t, res.GenesByID)
		assert.Empty(t, res.LocusListsByGUID)
		assert.Empty(t, res.ProjectsByGUID)
		assert.Empty(t, res.RnaSeqData)
	})

	t.Run("should be a pure read", func(t *testing.T) {
		db := integrationtestutil.InitSQLiteDB(t)
		f := createResponseFixtures(t, db)
		accessControl := mocks.NewAccessControl(t)
		accessControl.On("IsAnalyst", mock.Anything).Return(false, nil)
		s := newVariantResponseService(db, accessControl)

		opts := shared.DefaultVariantsResponseOptions()
		opts.AddAllContext = true
		first, err := s.GetVariantsResponse(ctx, f.User, f.Variants, opts)
		require.NoError(t, err)
		second, err := s.GetVariantsResponse(ctx, f.User, f.Variants, opts)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestAddIntervalMembership(t *testing.T) {
	interval := models.LocusListInterval{GenomeVersion: "37", Chrom: "X", Start: 100, End: 200}

	inside := dtos.JSON{"xpos": float64(23_000_000_150)}
	outside := dtos.JSON{"xpos": int64(23_000_000_250)}
	otherBuild := dtos.JSON{"xpos": int64(23_000_000_150), "genomeVersion": "38"}
	noPosition := dtos.JSON{}

	variants := []dtos.JSON{inside, outside, otherBuild, noPosition}
	addIntervalMembership(variants, interval, "LL00001_x")
	addIntervalMembership(variants, interval, "LL00001_x")

	assert.Equal(t, []string{"LL00001_x"}, inside["locusListGuids"])
	assert.NotContains(t, outside, "locusListGuids")
	assert.NotContains(t, otherBuild, "locusListGuids")
	assert.NotContains(t, noPosition, "locusListGuids")
}
