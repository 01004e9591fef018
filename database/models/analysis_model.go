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

type AnalysisGroup struct {
	Model
	ProjectID   uint     `json:"projectId" gorm:"not null;index"`
	Project     *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	Name        string   `json:"name" gorm:"type:text;not null"`
	Description *string  `json:"description" gorm:"type:text"`
	Families    []Family `json:"families,omitempty" gorm:"many2many:analysis_group_families;constraint:OnDelete:CASCADE;"`
}

func (g AnalysisGroup) TableName() string {
	return "analysis_groups"
}

func (g AnalysisGroup) JSONFields() []string {
	return []string{"guid", "name", "description"}
}

func (g *AnalysisGroup) AfterCreate(tx *gorm.DB) error {
	return g.assignGUID(tx, g, formatGUID("AG%07d_%s", g.ID, g.Name))
}

type VariantSearch struct {
	Model
	Name      *string             `json:"name" gorm:"type:text"`
	Order     *float64            `json:"order"`
	Search    databasetypes.JSONB `json:"search" gorm:"type:jsonb"`
	CreatedBy *User               `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (s VariantSearch) TableName() string {
	return "variant_searches"
}

func (s VariantSearch) JSONFields() []string {
	return []string{"guid", "name", "order", "search", "created_by_id"}
}

func (s *VariantSearch) AfterCreate(tx *gorm.DB) error {
	label := ""
	if s.Name != nil {
		label = *s.Name
	}
	return s.assignGUID(tx, s, formatGUID("VS%07d_%s", s.ID, label))
}

// VariantSearchResults ties a cached search result set to the families it was run on.
type VariantSearchResults struct {
	Model
	VariantSearchID uint           `json:"variantSearchId" gorm:"not null;index"`
	VariantSearch   *VariantSearch `json:"variantSearch,omitempty" gorm:"foreignKey:VariantSearchID;references:ID;constraint:OnDelete:CASCADE;"`
	SearchHash      string         `json:"searchHash" gorm:"type:varchar(50);not null;uniqueIndex"`
	Families        []Family       `json:"families,omitempty" gorm:"many2many:variant_search_results_families;constraint:OnDelete:CASCADE;"`
}

func (r VariantSearchResults) TableName() string {
	return "variant_search_results"
}

func (r VariantSearchResults) JSONFields() []string {
	return []string{"guid", "search_hash"}
}

func (r *VariantSearchResults) AfterCreate(tx *gorm.DB) error {
	return r.assignGUID(tx, r, formatGUID("VSR%07d_%s", r.ID, r.SearchHash))
}

type MatchmakerSubmission struct {
	Model
	IndividualID    uint           `json:"individualId" gorm:"not null;uniqueIndex"`
	Individual      *Individual    `json:"individual,omitempty" gorm:"belongsTo;foreignKey:IndividualID;references:ID;constraint:OnDelete:CASCADE;"`
	SubmissionID    string         `json:"submissionId" gorm:"type:text;not null;index"`
	Label           *string        `json:"label" gorm:"type:text"`
	ContactName     *string        `json:"contactName" gorm:"type:text"`
	ContactHref     *string        `json:"contactHref" gorm:"type:text"`
	Features        datatypes.JSON `json:"features" gorm:"type:jsonb"`
	GenomicFeatures datatypes.JSON `json:"genomicFeatures" gorm:"type:jsonb"`
	DeletedDate     *time.Time     `json:"deletedDate"`
}

func (s MatchmakerSubmission) TableName() string {
	return "matchmaker_submissions"
}

func (s MatchmakerSubmission) JSONFields() []string {
	return []string{
		"guid", "created_date", "last_modified_date", "deleted_date", "submission_id", "label", "contact_name",
		"contact_href", "features", "genomic_features",
	}
}

func (s *MatchmakerSubmission) AfterCreate(tx *gorm.DB) error {
	return s.assignGUID(tx, s, formatGUID("MS%07d_%s", s.ID, s.SubmissionID))
}
