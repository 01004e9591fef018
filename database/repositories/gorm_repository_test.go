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

package repositories_test

import (
	"context"
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/database/repositories"
	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	repo := repositories.NewFamilyRepository(db)

	t.Run("audited fields record who changed them", func(t *testing.T) {
		family := f.Family
		err := repo.Update(ctx, nil, f.User, &family, map[string]any{"analysis_status": models.AnalysisStatusSolved})
		require.NoError(t, err)

		var stored models.Family
		require.NoError(t, db.First(&stored, f.Family.ID).Error)
		assert.Equal(t, models.AnalysisStatusSolved, stored.AnalysisStatus)
		require.NotNil(t, stored.AnalysisStatusLastModifiedByID)
		assert.Equal(t, f.User.ID, *stored.AnalysisStatusLastModifiedByID)
		assert.NotNil(t, stored.AnalysisStatusLastModifiedDate)
		assert.NotNil(t, stored.LastModifiedDate)
	})

	t.Run("other fields leave the audit columns alone", func(t *testing.T) {
		family := models.Family{ProjectID: f.Project.ID, FamilyIdentifier: "fam 2"}
		require.NoError(t, repo.Create(ctx, nil, f.User, &family))

		err := repo.Update(ctx, nil, f.User, &family, map[string]any{"description": "new"})
		require.NoError(t, err)

		var stored models.Family
		require.NoError(t, db.First(&stored, family.ID).Error)
		assert.Equal(t, "new", *stored.Description)
		assert.Nil(t, stored.AnalysisStatusLastModifiedByID)
		assert.NotNil(t, stored.LastModifiedDate)
	})

	t.Run("no updates is a no-op", func(t *testing.T) {
		family := f.Family
		assert.NoError(t, repo.Update(ctx, nil, f.User, &family, nil))
	})

	t.Run("unknown columns fail", func(t *testing.T) {
		family := f.Family
		assert.Error(t, repo.Update(ctx, nil, f.User, &family, map[string]any{"not_a_column": 1}))
	})
}

func TestGormRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	repo := repositories.NewIgvSampleRepository(db)

	sample := models.IgvSample{IndividualID: f.Proband.ID, FilePath: "/c.cram", SampleType: models.IgvSampleTypeAlignment}
	require.NoError(t, repo.Create(ctx, nil, f.User, &sample))

	assert.Equal(t, "S0000000001_c_cram", sample.GUID)
	require.NotNil(t, sample.CreatedByID)
	assert.Equal(t, f.User.ID, *sample.CreatedByID)
	assert.False(t, sample.CreatedDate.IsZero())

	found, err := repo.FindByIndividualAndType(ctx, f.Proband.ID, models.IgvSampleTypeAlignment)
	require.NoError(t, err)
	assert.Equal(t, sample.GUID, found.GUID)
}

func TestGormRepositoryDeleteModel(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	repo := repositories.NewVariantNoteRepository(db)

	t.Run("other users may not delete", func(t *testing.T) {
		note := integrationtestutil.CreateNote(t, db, "mine", f.User, f.Variants[0])
		err := repo.DeleteModel(ctx, f.Staff, &note, false)
		assert.True(t, errors.Is(err, shared.ErrPermissionDenied))

		_, err = repo.ReadByGUID(ctx, note.GUID)
		assert.NoError(t, err)
	})

	t.Run("the creator may delete", func(t *testing.T) {
		note := integrationtestutil.CreateNote(t, db, "mine", f.User, f.Variants[0])
		require.NoError(t, repo.DeleteModel(ctx, f.User, &note, false))

		_, err := repo.ReadByGUID(ctx, note.GUID)
		assert.Error(t, err)
	})

	t.Run("userCanDelete overrides the creator check", func(t *testing.T) {
		note := integrationtestutil.CreateNote(t, db, "mine", f.User, f.Variants[0])
		require.NoError(t, repo.DeleteModel(ctx, f.Staff, &note, true))
	})
}

func TestSavedVariantRepository(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	repo := repositories.NewSavedVariantRepository(db)

	otherFamily := models.Family{ProjectID: f.Project.ID, FamilyIdentifier: "fam 2"}
	require.NoError(t, db.Create(&otherFamily).Error)
	sharedVariant := integrationtestutil.CreateSavedVariant(t, db, otherFamily.ID, "1", 248367227, "TC", "T")

	t.Run("list by project filters by family guid", func(t *testing.T) {
		variants, err := repo.ListByProject(ctx, f.Project.ID, []string{otherFamily.GUID})
		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.Equal(t, sharedVariant.GUID, variants[0].GUID)

		variants, err = repo.ListByProject(ctx, f.Project.ID, nil)
		require.NoError(t, err)
		assert.Len(t, variants, 3)
	})

	t.Run("list for reload filters by family id and loads the family", func(t *testing.T) {
		variants, err := repo.ListForReload(ctx, f.Project.ID, "fam 2")
		require.NoError(t, err)
		require.Len(t, variants, 1)
		require.NotNil(t, variants[0].Family)
		assert.Equal(t, otherFamily.GUID, variants[0].Family.GUID)
	})

	t.Run("list by variant ids spans families", func(t *testing.T) {
		variants, err := repo.ListByVariantIDs(ctx, []string{"1-248367227-TC-T"})
		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.Equal(t, f.Project.GUID, variants[0].Family.Project.GUID)
	})

	t.Run("update replaces the saved json", func(t *testing.T) {
		v := f.Variants[0]
		require.NoError(t, repo.Update(ctx, nil, f.User, &v, map[string]any{"saved_variant_json": databasetypes.JSONB{"variantId": "1-248367227-TC-T", "pos": 248367227}}))
		stored, err := repo.ListByGUIDs(ctx, []string{v.GUID})
		require.NoError(t, err)
		assert.Equal(t, "1-248367227-TC-T", stored[0].SavedVariantJSON["variantId"])
	})
}

func TestAnnotationRepositories(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	discovery := integrationtestutil.CreateTag(t, db, f.Discovery, f.User, f.Variants...)
	review := integrationtestutil.CreateTag(t, db, f.ProjectTag, f.User, f.Variants[0])
	note := integrationtestutil.CreateNote(t, db, "n", f.User, f.Variants[1])
	data := integrationtestutil.CreateFunctionalData(t, db, "Rescue", f.User, f.Variants[0])

	ids := []uint{f.Variants[0].ID, f.Variants[1].ID}

	tags, err := repositories.NewVariantTagRepository(db).ListBySavedVariantIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{discovery.GUID, review.GUID}, []string{tags[0].GUID, tags[1].GUID})

	discoveryTags, err := repositories.NewVariantTagRepository(db).ListDiscoveryTagsBySavedVariantIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, discoveryTags, 1)
	assert.Equal(t, discovery.GUID, discoveryTags[0].GUID)

	notes, err := repositories.NewVariantNoteRepository(db).ListBySavedVariantIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.GUID, notes[0].GUID)

	functionalData, err := repositories.NewVariantFunctionalDataRepository(db).ListBySavedVariantIDs(ctx, []uint{f.Variants[1].ID})
	require.NoError(t, err)
	assert.Empty(t, functionalData)
	functionalData, err = repositories.NewVariantFunctionalDataRepository(db).ListBySavedVariantIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, functionalData, 1)
	assert.Equal(t, data.GUID, functionalData[0].GUID)

	tagTypes, err := repositories.NewVariantTagTypeRepository(db).ListForProjects(ctx, []uint{f.Project.ID})
	require.NoError(t, err)
	assert.Len(t, tagTypes, 2)
	tagTypes, err = repositories.NewVariantTagTypeRepository(db).ListForProjects(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tagTypes, 1)
}

func TestPreloader(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	var individuals []models.Individual
	err := repositories.NewPreloader(db).Preload(ctx, &individuals, []uint{f.Proband.ID}, "Mother", "Family.Project")
	require.NoError(t, err)
	require.Len(t, individuals, 1)
	require.NotNil(t, individuals[0].Mother)
	assert.Equal(t, "mom", individuals[0].Mother.IndividualIdentifier)
	assert.Equal(t, f.Project.GUID, individuals[0].Family.Project.GUID)
}

func TestBelongsToRelationsLoadTheOwner(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)
	preloader := repositories.NewPreloader(db)

	t.Run("saved variants load their family and project", func(t *testing.T) {
		var variants []models.SavedVariant
		require.NoError(t, preloader.Preload(ctx, &variants, []uint{f.Variants[0].ID}, "Family.Project"))
		require.Len(t, variants, 1)
		require.NotNil(t, variants[0].Family)
		assert.Equal(t, f.Family.ID, variants[0].Family.ID)
		assert.Equal(t, "fam 1", variants[0].Family.FamilyIdentifier)
		assert.Equal(t, f.Project.GUID, variants[0].Family.Project.GUID)
	})

	t.Run("individuals load their family", func(t *testing.T) {
		var individuals []models.Individual
		require.NoError(t, db.Preload("Family").Where("id IN ?", []uint{f.Mother.ID, f.Father.ID, f.Proband.ID}).Find(&individuals).Error)
		require.Len(t, individuals, 3)
		for _, individual := range individuals {
			require.NotNil(t, individual.Family)
			assert.Equal(t, f.Family.GUID, individual.Family.GUID)
		}
	})

	t.Run("samples and igv samples load their individual", func(t *testing.T) {
		var sample models.Sample
		require.NoError(t, db.Preload("Individual.Family").First(&sample, f.Sample.ID).Error)
		require.NotNil(t, sample.Individual)
		assert.Equal(t, f.Proband.GUID, sample.Individual.GUID)
		assert.Equal(t, f.Family.GUID, sample.Individual.Family.GUID)

		igv := models.IgvSample{IndividualID: f.Proband.ID, FilePath: "/a.bam", SampleType: models.IgvSampleTypeAlignment}
		require.NoError(t, db.Create(&igv).Error)
		var stored models.IgvSample
		require.NoError(t, db.Preload("Individual").First(&stored, igv.ID).Error)
		require.NotNil(t, stored.Individual)
		assert.Equal(t, f.Proband.GUID, stored.Individual.GUID)
	})

	t.Run("rna seq outliers load their sample", func(t *testing.T) {
		outlier := models.RnaSeqOutlier{SampleID: f.Sample.ID, GeneID: "ENSG00000135953", PValue: 0.0001, PAdjust: 0.01, ZScore: 4}
		require.NoError(t, db.Create(&outlier).Error)

		var stored models.RnaSeqOutlier
		require.NoError(t, db.Preload("Sample.Individual").First(&stored, outlier.ID).Error)
		require.NotNil(t, stored.Sample)
		assert.Equal(t, "NA12878", stored.Sample.SampleIdentifier)
		assert.Equal(t, f.Proband.GUID, stored.Sample.Individual.GUID)
	})
}

func TestProjectScopedLookups(t *testing.T) {
	ctx := context.Background()
	db := integrationtestutil.InitSQLiteDB(t)
	f := integrationtestutil.CreateFixtures(t, db)

	other := models.Project{Name: "Other"}
	require.NoError(t, db.Create(&other).Error)
	family := models.Family{ProjectID: other.ID, FamilyIdentifier: "fam 2"}
	require.NoError(t, db.Create(&family).Error)
	stranger := models.Individual{FamilyID: family.ID, IndividualIdentifier: "child"}
	require.NoError(t, db.Create(&stranger).Error)

	t.Run("individuals are matched by individual_id within the project", func(t *testing.T) {
		individuals, err := repositories.NewIndividualRepository(db).ListByProjectAndIdentifiers(ctx, f.Project.ID, []string{"child", "mom", "ghost"})
		require.NoError(t, err)
		require.Len(t, individuals, 2)
		assert.Equal(t, f.Mother.GUID, individuals[0].GUID)
		assert.Equal(t, f.Proband.GUID, individuals[1].GUID)
	})

	t.Run("igv samples are listed per project", func(t *testing.T) {
		repo := repositories.NewIgvSampleRepository(db)
		mine := models.IgvSample{IndividualID: f.Proband.ID, FilePath: "/child.bam", SampleType: models.IgvSampleTypeAlignment}
		require.NoError(t, repo.Create(ctx, nil, f.User, &mine))
		require.NoError(t, repo.Create(ctx, nil, f.User, &models.IgvSample{IndividualID: stranger.ID, FilePath: "/stranger.bam", SampleType: models.IgvSampleTypeAlignment}))

		samples, err := repo.ListByProject(ctx, f.Project.ID)
		require.NoError(t, err)
		require.Len(t, samples, 1)
		assert.Equal(t, mine.GUID, samples[0].GUID)
	})
}
