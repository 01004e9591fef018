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

	"gorm.io/gorm"
)

type Project struct {
	Model
	Name                  string     `json:"name" gorm:"type:text;not null"`
	Description           *string    `json:"description" gorm:"type:text"`
	GenomeVersion         string     `json:"genomeVersion" gorm:"type:varchar(5);default:'37';not null"`
	MmeContactInstitution *string    `json:"mmeContactInstitution" gorm:"type:text"`
	MmePrimaryDataOwner   *string    `json:"mmePrimaryDataOwner" gorm:"type:text"`
	MmeContactURL         *string    `json:"mmeContactUrl" gorm:"type:text"`
	IsMmeEnabled          bool       `json:"isMmeEnabled" gorm:"default:true;not null"`
	LastAccessedDate      *time.Time `json:"lastAccessedDate"`
	WorkspaceNamespace    *string    `json:"workspaceNamespace" gorm:"type:text"`
	WorkspaceName         *string    `json:"workspaceName" gorm:"type:text"`
	HasCaseReview         bool       `json:"hasCaseReview" gorm:"default:false;not null"`
	EnableHgmd            bool       `json:"enableHgmd" gorm:"default:false;not null"`
	IsDemo                bool       `json:"isDemo" gorm:"default:false;not null"`
	AllUserDemo           bool       `json:"allUserDemo" gorm:"default:false;not null"`

	ProjectCategories []ProjectCategory `json:"projectCategories" gorm:"many2many:project_category_projects;"`
	Families          []Family          `json:"families" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (p Project) TableName() string {
	return "projects"
}

func (p Project) JSONFields() []string {
	return []string{
		"name", "description", "created_date", "last_modified_date", "genome_version", "mme_contact_institution",
		"last_accessed_date", "is_mme_enabled", "mme_primary_data_owner", "mme_contact_url", "guid",
		"workspace_namespace", "workspace_name", "has_case_review", "enable_hgmd", "is_demo", "all_user_demo",
	}
}

func (p *Project) AfterCreate(tx *gorm.DB) error {
	return p.assignGUID(tx, p, formatGUID("R%04d_%s", p.ID, p.Name))
}

type ProjectCategory struct {
	Model
	Name     string    `json:"name" gorm:"type:text;not null"`
	Projects []Project `json:"projects" gorm:"many2many:project_category_projects;"`
}

func (c ProjectCategory) TableName() string {
	return "project_categories"
}

func (c ProjectCategory) JSONFields() []string {
	return []string{"guid", "name"}
}

func (c *ProjectCategory) AfterCreate(tx *gorm.DB) error {
	return c.assignGUID(tx, c, formatGUID("PC%06d_%s", c.ID, c.Name))
}
