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

package integrationtestutil

import (
	"strconv"
	"testing"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixtures creates a minimal project tree: one project with one family, a trio of individuals,
// an active sample for the proband and two saved variants.
type Fixtures struct {
	User       models.User
	Staff      models.User
	Project    models.Project
	Family     models.Family
	Proband    models.Individual
	Mother     models.Individual
	Father     models.Individual
	Sample     models.Sample
	Variants   []models.SavedVariant
	TagType    models.VariantTagType
	Discovery  models.VariantTagType
	ProjectTag models.VariantTagType
}

func CreateFixtures(t *testing.T, db *gorm.DB) Fixtures {
	t.Helper()
	f := Fixtures{}

	f.User = CreateUser(t, db, "analyst", "Ada", "Lovelace", false)
	f.Staff = CreateUser(t, db, "staff", "", "", true)

	f.Project = models.Project{Name: "Test Project", GenomeVersion: "37"}
	f.Project.CreatedByID = &f.User.ID
	require.NoError(t, db.Create(&f.Project).Error)

	f.Family = models.Family{ProjectID: f.Project.ID, FamilyIdentifier: "fam 1", PedigreeImage: utils.Ptr("ped/fam1.png")}
	require.NoError(t, db.Create(&f.Family).Error)

	f.Mother = models.Individual{FamilyID: f.Family.ID, IndividualIdentifier: "mom", Sex: models.SexFemale}
	require.NoError(t, db.Create(&f.Mother).Error)
	f.Father = models.Individual{FamilyID: f.Family.ID, IndividualIdentifier: "dad", Sex: models.SexMale, DisplayName: "Father"}
	require.NoError(t, db.Create(&f.Father).Error)
	f.Proband = models.Individual{
		FamilyID:             f.Family.ID,
		IndividualIdentifier: "child",
		MotherID:             &f.Mother.ID,
		FatherID:             &f.Father.ID,
		Affected:             models.AffectedStatusAffected,
		PhenotipsData:        utils.Ptr(`{"features": [{"id": "HP:0001250"}]}`),
	}
	require.NoError(t, db.Create(&f.Proband).Error)

	f.Sample = models.Sample{IndividualID: f.Proband.ID, SampleIdentifier: "NA12878", SampleType: models.SampleTypeWES, DatasetType: models.DatasetTypeVariantCalls, IsActive: true}
	require.NoError(t, db.Create(&f.Sample).Error)

	f.Variants = []models.SavedVariant{
		CreateSavedVariant(t, db, f.Family.ID, "1", 248367227, "TC", "T"),
		CreateSavedVariant(t, db, f.Family.ID, "21", 3343353, "GAGA", "G"),
	}

	f.TagType = models.VariantTagType{Name: "Tier 1 - Novel gene and phenotype", Category: utils.Ptr("CMG Discovery Tags"), Color: "#03441E"}
	require.NoError(t, db.Create(&f.TagType).Error)
	f.Discovery = f.TagType
	f.ProjectTag = models.VariantTagType{Name: "Review", ProjectID: &f.Project.ID, Color: "#668FE3"}
	require.NoError(t, db.Create(&f.ProjectTag).Error)

	return f
}

func CreateUser(t *testing.T, db *gorm.DB, username, firstName, lastName string, isStaff bool) models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: firstName,
		LastName:  lastName,
		IsStaff:   isStaff,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateSavedVariant(t *testing.T, db *gorm.DB, familyID uint, chrom string, pos int64, ref, alt string) models.SavedVariant {
	t.Helper()
	xpos, err := utils.GetXpos(chrom, pos)
	require.NoError(t, err)
	variant := models.SavedVariant{
		FamilyID:         familyID,
		Xpos:             xpos,
		XposEnd:          xpos + int64(len(ref)) - 1,
		Ref:              &ref,
		Alt:              &alt,
		VariantID:        chrom + "-" + strconv.FormatInt(pos, 10) + "-" + ref + "-" + alt,
		SavedVariantJSON: map[string]any{"transcripts": map[string]any{}},
	}
	require.NoError(t, db.Create(&variant).Error)
	return variant
}

func CreateTag(t *testing.T, db *gorm.DB, tagType models.VariantTagType, user models.User, variants ...models.SavedVariant) models.VariantTag {
	t.Helper()
	tag := models.VariantTag{VariantTagTypeID: tagType.ID, SavedVariants: variants}
	tag.CreatedByID = &user.ID
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func CreateNote(t *testing.T, db *gorm.DB, note string, user models.User, variants ...models.SavedVariant) models.VariantNote {
	t.Helper()
	n := models.VariantNote{Note: note, SavedVariants: variants}
	n.CreatedByID = &user.ID
	require.NoError(t, db.Create(&n).Error)
	return n
}

func CreateFunctionalData(t *testing.T, db *gorm.DB, tag string, user models.User, variants ...models.SavedVariant) models.VariantFunctionalData {
	t.Helper()
	d := models.VariantFunctionalData{FunctionalDataTag: tag, SavedVariants: variants}
	d.CreatedByID = &user.ID
	require.NoError(t, db.Create(&d).Error)
	return d
}
