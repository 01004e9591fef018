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
	"fmt"
	"strings"

	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"github.com/l3montree-dev/genoguard/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedVariant is a family scoped snapshot of a variant together with the
// annotation json the search index returned when it was saved.
type SavedVariant struct {
	Model
	FamilyID                 uint                `json:"familyId" gorm:"not null;uniqueIndex:idx_saved_variant_key"`
	Family                   *Family             `json:"family,omitempty" gorm:"belongsTo;foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE;"`
	Xpos                     int64               `json:"xpos" gorm:"not null;uniqueIndex:idx_saved_variant_key"`
	XposEnd                  int64               `json:"xposEnd" gorm:"not null;uniqueIndex:idx_saved_variant_key"`
	Ref                      *string             `json:"ref" gorm:"type:text"`
	Alt                      *string             `json:"alt" gorm:"type:text"`
	VariantID                string              `json:"variantId" gorm:"type:text;not null;index;uniqueIndex:idx_saved_variant_key"`
	SelectedMainTranscriptID *string             `json:"selectedMainTranscriptId" gorm:"type:varchar(20)"`
	SavedVariantJSON         databasetypes.JSONB `json:"savedVariantJson" gorm:"type:jsonb"`
	AcmgClassification       datatypes.JSON      `json:"acmgClassification" gorm:"type:jsonb"`
}

func (v SavedVariant) TableName() string {
	return "saved_variants"
}

func (v SavedVariant) JSONFields() []string {
	return []string{"guid", "xpos", "ref", "alt", "variant_id", "selected_main_transcript_id", "acmg_classification"}
}

func (v SavedVariant) Chrom() (string, int64) {
	return utils.GetChromPos(v.Xpos)
}

func (v *SavedVariant) AfterCreate(tx *gorm.DB) error {
	familyGUID := ""
	if v.Family != nil {
		familyGUID = v.Family.GUID
	} else {
		tx.Model(&Family{}).Where("id = ?", v.FamilyID).Pluck("guid", &familyGUID)
	}
	chrom, pos := v.Chrom()
	return v.assignGUID(tx, v, formatGUID("SV%07d_%s", v.ID, fmt.Sprintf("%s %d %s", chrom, pos, familyGUID)))
}

type VariantTagType struct {
	Model
	ProjectID     *uint    `json:"projectId" gorm:"index"`
	Project       *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	Name          string   `json:"name" gorm:"type:text;not null"`
	Category      *string  `json:"category" gorm:"type:text"`
	Description   *string  `json:"description" gorm:"type:text"`
	Color         string   `json:"color" gorm:"type:varchar(20);default:'#1f78b4'"`
	Order         *float64 `json:"order"`
	MetadataTitle *string  `json:"metadataTitle" gorm:"type:text"`
}

func (t VariantTagType) TableName() string {
	return "variant_tag_types"
}

func (t VariantTagType) JSONFields() []string {
	return []string{"guid", "name", "category", "description", "color", "order", "metadata_title"}
}

func (t *VariantTagType) AfterCreate(tx *gorm.DB) error {
	return t.assignGUID(tx, t, formatGUID("VTT%05d_%s", t.ID, t.Name))
}

type VariantTag struct {
	Model
	SavedVariants    []SavedVariant  `json:"savedVariants,omitempty" gorm:"many2many:variant_tag_saved_variants;constraint:OnDelete:CASCADE;"`
	VariantTagTypeID uint            `json:"variantTagTypeId" gorm:"not null;index"`
	VariantTagType   *VariantTagType `json:"variantTagType,omitempty" gorm:"foreignKey:VariantTagTypeID;references:ID;constraint:OnDelete:CASCADE;"`
	SearchHash       *string         `json:"searchHash" gorm:"type:varchar(50)"`
	Metadata         *string         `json:"metadata" gorm:"type:text"`
	CreatedBy        *User           `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (t VariantTag) TableName() string {
	return "variant_tags"
}

func (t VariantTag) JSONFields() []string {
	return []string{"guid", "search_hash", "metadata", "last_modified_date", "created_by"}
}

func (t *VariantTag) AfterCreate(tx *gorm.DB) error {
	name := ""
	if t.VariantTagType != nil {
		name = t.VariantTagType.Name
	} else {
		tx.Model(&VariantTagType{}).Where("id = ?", t.VariantTagTypeID).Pluck("name", &name)
	}
	return t.assignGUID(tx, t, formatGUID("VT%07d_%s", t.ID, savedVariantsLabel(t.SavedVariants)+" "+name))
}

type VariantNote struct {
	Model
	SavedVariants   []SavedVariant `json:"savedVariants,omitempty" gorm:"many2many:variant_note_saved_variants;constraint:OnDelete:CASCADE;"`
	Note            string         `json:"note" gorm:"type:text;not null"`
	SubmitToClinvar bool           `json:"submitToClinvar" gorm:"default:false;not null"`
	SearchHash      *string        `json:"searchHash" gorm:"type:varchar(50)"`
	CreatedBy       *User          `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (n VariantNote) TableName() string {
	return "variant_notes"
}

func (n VariantNote) JSONFields() []string {
	return []string{"guid", "note", "submit_to_clinvar", "last_modified_date", "created_by"}
}

func (n *VariantNote) AfterCreate(tx *gorm.DB) error {
	return n.assignGUID(tx, n, formatGUID("VN%07d_%s", n.ID, savedVariantsLabel(n.SavedVariants)))
}

type VariantFunctionalData struct {
	Model
	SavedVariants     []SavedVariant `json:"savedVariants,omitempty" gorm:"many2many:variant_functional_data_saved_variants;constraint:OnDelete:CASCADE;"`
	FunctionalDataTag string         `json:"functionalDataTag" gorm:"type:text;not null"`
	Metadata          *string        `json:"metadata" gorm:"type:text"`
	SearchHash        *string        `json:"searchHash" gorm:"type:varchar(50)"`
	CreatedBy         *User          `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (d VariantFunctionalData) TableName() string {
	return "variant_functional_data"
}

func (d VariantFunctionalData) JSONFields() []string {
	return []string{"guid", "functional_data_tag", "metadata", "last_modified_date", "created_by"}
}

func (d *VariantFunctionalData) AfterCreate(tx *gorm.DB) error {
	return d.assignGUID(tx, d, formatGUID("VFD%07d_%s", d.ID, savedVariantsLabel(d.SavedVariants)+" "+d.FunctionalDataTag))
}

type GeneNote struct {
	Model
	Note      string `json:"note" gorm:"type:text;not null"`
	GeneID    string `json:"geneId" gorm:"type:varchar(20);not null;index"`
	CreatedBy *User  `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (n GeneNote) TableName() string {
	return "gene_notes"
}

func (n GeneNote) JSONFields() []string {
	return []string{"guid", "note", "gene_id", "last_modified_date", "created_by"}
}

func (n *GeneNote) AfterCreate(tx *gorm.DB) error {
	return n.assignGUID(tx, n, formatGUID("GN%07d_%s", n.ID, n.GeneID))
}

func savedVariantsLabel(variants []SavedVariant) string {
	return strings.Join(utils.Map(variants, func(v SavedVariant) string {
		chrom, pos := v.Chrom()
		return fmt.Sprintf("%s %d", chrom, pos)
	}), " ")
}
