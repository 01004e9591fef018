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
	"strings"
	"time"

	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalysisStatus = string

const (
	AnalysisStatusSolved             AnalysisStatus = "S"
	AnalysisStatusAnalysisInProgress AnalysisStatus = "I"
	AnalysisStatusWaitingForData     AnalysisStatus = "Q"
	AnalysisStatusClosed             AnalysisStatus = "C"
)

type Family struct {
	Model
	ProjectID uint     `json:"projectId" gorm:"not null;uniqueIndex:idx_family_project_family_id"`
	Project   *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	// FamilyIdentifier is stored as family_id. Relations pointing at Family are tagged belongsTo so gorm
	// does not take this column for their foreign key.
	FamilyIdentifier        string                    `json:"familyId" gorm:"column:family_id;type:varchar(100);not null;uniqueIndex:idx_family_project_family_id"`
	DisplayName             string                    `json:"displayName" gorm:"type:varchar(100);default:''"`
	Description             *string                   `json:"description" gorm:"type:text"`
	PedigreeImage           *string                   `json:"pedigreeImage" gorm:"type:text"`
	PedigreeDataset         datatypes.JSON            `json:"pedigreeDataset" gorm:"type:jsonb"`
	AssignedAnalystID       *uint                     `json:"assignedAnalystId"`
	AssignedAnalyst         *User                     `json:"assignedAnalyst,omitempty" gorm:"foreignKey:AssignedAnalystID;references:ID;constraint:OnDelete:SET NULL;"`
	CodedPhenotype          *string                   `json:"codedPhenotype" gorm:"type:text"`
	PostDiscoveryOmimNumber *string                   `json:"postDiscoveryOmimNumber" gorm:"type:text"`
	SuccessStoryTypes       databasetypes.StringArray `json:"successStoryTypes" gorm:"type:jsonb"`
	SuccessStory            *string                   `json:"successStory" gorm:"type:text"`
	PubmedIDs               databasetypes.StringArray `json:"pubmedIds" gorm:"type:jsonb"`
	CaseReviewNotes         *string                   `json:"caseReviewNotes" gorm:"type:text"`
	CaseReviewSummary       *string                   `json:"caseReviewSummary" gorm:"type:text"`

	AnalysisStatus                 AnalysisStatus `json:"analysisStatus" gorm:"type:varchar(10);default:'Q';not null"`
	AnalysisStatusLastModifiedDate *time.Time     `json:"analysisStatusLastModifiedDate"`
	AnalysisStatusLastModifiedByID *uint          `json:"analysisStatusLastModifiedById"`

	Individuals []Individual       `json:"individuals,omitempty" gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE;"`
	AnalysedBy  []FamilyAnalysedBy `json:"analysedBy,omitempty" gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (f Family) TableName() string {
	return "families"
}

func (f Family) JSONFields() []string {
	return []string{
		"guid", "family_id", "display_name", "description", "analysis_status", "pedigree_image", "created_date",
		"post_discovery_omim_number", "assigned_analyst", "pedigree_dataset", "coded_phenotype",
	}
}

func (f Family) InternalJSONFields() []string {
	return []string{"success_story_types", "success_story", "pubmed_ids"}
}

func (f Family) AuditFields() []string {
	return []string{"analysis_status"}
}

func (f *Family) AfterCreate(tx *gorm.DB) error {
	return f.assignGUID(tx, f, formatGUID("F%06d_%s", f.ID, strings.TrimSpace(f.FamilyIdentifier)))
}

type FamilyAnalysedBy struct {
	Model
	FamilyID  uint    `json:"familyId" gorm:"not null;index"`
	Family    *Family `json:"family,omitempty" gorm:"belongsTo;foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE;"`
	DataType  string  `json:"dataType" gorm:"type:varchar(10);default:'SNP';not null"`
	CreatedBy *User   `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (a FamilyAnalysedBy) TableName() string {
	return "family_analysed_by"
}

func (a FamilyAnalysedBy) JSONFields() []string {
	return []string{"last_modified_date", "data_type", "created_by"}
}

func (a *FamilyAnalysedBy) AfterCreate(tx *gorm.DB) error {
	return a.assignGUID(tx, a, formatGUID("FAB%06d_%s", a.ID, a.DataType))
}
