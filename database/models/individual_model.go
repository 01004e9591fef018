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

package models

import (
	"time"

	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SexMale    = "M"
	SexFemale  = "F"
	SexUnknown = "U"

	AffectedStatusAffected   = "A"
	AffectedStatusUnaffected = "N"
	AffectedStatusUnknown    = "U"

	CaseReviewStatusInReview = "I"
	CaseReviewStatusAccepted = "A"
)

// Individual is a member of a pedigree. Mother and father are plain nullable
// references. Cycles are not validated.
type Individual struct {
	Model
	FamilyID             uint    `json:"familyId" gorm:"not null;index"`
	Family               *Family `json:"family,omitempty" gorm:"belongsTo;foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE;"`
	IndividualIdentifier string  `json:"individualId" gorm:"column:individual_id;type:text;not null;index"`

	MotherID *uint       `json:"motherId"`
	Mother   *Individual `json:"mother,omitempty" gorm:"foreignKey:MotherID;references:ID;constraint:OnDelete:SET NULL;"`
	FatherID *uint       `json:"fatherId"`
	Father   *Individual `json:"father,omitempty" gorm:"foreignKey:FatherID;references:ID;constraint:OnDelete:SET NULL;"`

	Sex         string  `json:"sex" gorm:"type:varchar(1);default:'U';not null"`
	Affected    string  `json:"affected" gorm:"type:varchar(1);default:'U';not null"`
	DisplayName string  `json:"displayName" gorm:"type:text;default:''"`
	Notes       *string `json:"notes" gorm:"type:text"`

	CaseReviewStatus                 string     `json:"caseReviewStatus" gorm:"type:varchar(2);default:'I';not null"`
	CaseReviewDiscussion             *string    `json:"caseReviewDiscussion" gorm:"type:text"`
	CaseReviewStatusLastModifiedDate *time.Time `json:"caseReviewStatusLastModifiedDate"`
	CaseReviewStatusLastModifiedByID *uint      `json:"caseReviewStatusLastModifiedById"`
	CaseReviewStatusLastModifiedBy   *User      `json:"caseReviewStatusLastModifiedBy,omitempty" gorm:"foreignKey:CaseReviewStatusLastModifiedByID;references:ID;constraint:OnDelete:SET NULL;"`

	PhenotipsData       *string                   `json:"phenotipsData" gorm:"type:text"`
	FilterFlags         datatypes.JSON            `json:"filterFlags" gorm:"type:jsonb"`
	PopPlatformFilters  datatypes.JSON            `json:"popPlatformFilters" gorm:"type:jsonb"`
	Population          *string                   `json:"population" gorm:"type:varchar(5)"`
	SvFlags             datatypes.JSON            `json:"svFlags" gorm:"type:jsonb"`
	BirthYear           *int                      `json:"birthYear"`
	DeathYear           *int                      `json:"deathYear"`
	OnsetAge            *string                   `json:"onsetAge" gorm:"type:varchar(1)"`
	MaternalEthnicity   databasetypes.StringArray `json:"maternalEthnicity" gorm:"type:jsonb"`
	PaternalEthnicity   databasetypes.StringArray `json:"paternalEthnicity" gorm:"type:jsonb"`
	Consanguinity       *bool                     `json:"consanguinity"`
	AffectedRelatives   *bool                     `json:"affectedRelatives"`
	ExpectedInheritance databasetypes.StringArray `json:"expectedInheritance" gorm:"type:jsonb"`
	Disorders           databasetypes.StringArray `json:"disorders" gorm:"type:jsonb"`
	CandidateGenes      datatypes.JSON            `json:"candidateGenes" gorm:"type:jsonb"`
	RejectedGenes       datatypes.JSON            `json:"rejectedGenes" gorm:"type:jsonb"`
	ArFertilityMeds     *bool                     `json:"arFertilityMeds"`
	ArIui               *bool                     `json:"arIui"`
	ArIvf               *bool                     `json:"arIvf"`
	ArIcsi              *bool                     `json:"arIcsi"`
	ArSurrogacy         *bool                     `json:"arSurrogacy"`
	ArDonoregg          *bool                     `json:"arDonoregg"`
	ArDonorsperm        *bool                     `json:"arDonorsperm"`
	ProbandRelationship *string                   `json:"probandRelationship" gorm:"type:varchar(1)"`

	Samples    []Sample    `json:"samples,omitempty" gorm:"foreignKey:IndividualID;references:ID;constraint:OnDelete:CASCADE;"`
	IgvSamples []IgvSample `json:"igvSamples,omitempty" gorm:"foreignKey:IndividualID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (i Individual) TableName() string {
	return "individuals"
}

func (i Individual) JSONFields() []string {
	return []string{
		"guid", "individual_id", "father", "mother", "sex", "affected", "display_name", "notes",
		"created_date", "last_modified_date", "filter_flags", "pop_platform_filters", "population", "sv_flags",
		"birth_year", "death_year", "onset_age", "maternal_ethnicity", "paternal_ethnicity", "consanguinity",
		"affected_relatives", "expected_inheritance", "disorders", "candidate_genes", "rejected_genes",
		"ar_iui", "ar_ivf", "ar_icsi", "ar_surrogacy", "ar_donoregg", "ar_donorsperm", "ar_fertility_meds",
		"case_review_status", "case_review_discussion", "case_review_status_last_modified_date",
		"case_review_status_last_modified_by", "phenotips_data",
	}
}

func (i Individual) InternalJSONFields() []string {
	return []string{"proband_relationship"}
}

func (i Individual) AuditFields() []string {
	return []string{"case_review_status"}
}

func (i *Individual) AfterCreate(tx *gorm.DB) error {
	return i.assignGUID(tx, i, formatGUID("I%07d_%s", i.ID, i.IndividualIdentifier))
}
