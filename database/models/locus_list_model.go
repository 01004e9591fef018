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

	"gorm.io/gorm"
)

type LocusList struct {
	Model
	Name        string              `json:"name" gorm:"type:text;not null"`
	Description *string             `json:"description" gorm:"type:text"`
	IsPublic    bool                `json:"isPublic" gorm:"default:false;not null"`
	Projects    []Project           `json:"projects,omitempty" gorm:"many2many:locus_list_projects;constraint:OnDelete:CASCADE;"`
	Genes       []LocusListGene     `json:"genes,omitempty" gorm:"foreignKey:LocusListID;references:ID;constraint:OnDelete:CASCADE;"`
	Intervals   []LocusListInterval `json:"intervals,omitempty" gorm:"foreignKey:LocusListID;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedBy   *User               `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL;"`
}

func (l LocusList) TableName() string {
	return "locus_lists"
}

func (l LocusList) JSONFields() []string {
	return []string{"guid", "created_by", "created_date", "last_modified_date", "name", "description", "is_public"}
}

func (l *LocusList) AfterCreate(tx *gorm.DB) error {
	return l.assignGUID(tx, l, formatGUID("LL%05d_%s", l.ID, l.Name))
}

type LocusListGene struct {
	Model
	LocusListID     uint             `json:"locusListId" gorm:"not null;uniqueIndex:idx_locus_list_gene"`
	LocusList       *LocusList       `json:"locusList,omitempty" gorm:"foreignKey:LocusListID;references:ID;constraint:OnDelete:CASCADE;"`
	GeneID          string           `json:"geneId" gorm:"type:varchar(20);not null;index;uniqueIndex:idx_locus_list_gene"`
	Description     *string          `json:"description" gorm:"type:text"`
	PaLocusListGene *PaLocusListGene `json:"paLocusListGene,omitempty" gorm:"foreignKey:LocusListGeneID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (g LocusListGene) TableName() string {
	return "locus_list_genes"
}

func (g LocusListGene) JSONFields() []string {
	return []string{"gene_id"}
}

func (g *LocusListGene) AfterCreate(tx *gorm.DB) error {
	return g.assignGUID(tx, g, formatGUID("LLG%07d_%s", g.ID, g.GeneID))
}

// PaLocusListGene holds the PanelApp review of a locus list gene.
type PaLocusListGene struct {
	ID                uint    `json:"id" gorm:"primaryKey"`
	LocusListGeneID   uint    `json:"locusListGeneId" gorm:"not null;uniqueIndex"`
	ConfidenceLevel   int     `json:"confidenceLevel" gorm:"not null"`
	Biotype           *string `json:"biotype" gorm:"type:text"`
	Penetrance        *string `json:"penetrance" gorm:"type:text"`
	ModeOfInheritance *string `json:"modeOfInheritance" gorm:"type:text"`
}

func (g PaLocusListGene) TableName() string {
	return "pa_locus_list_genes"
}

type LocusListInterval struct {
	Model
	LocusListID   uint       `json:"locusListId" gorm:"not null;index"`
	LocusList     *LocusList `json:"locusList,omitempty" gorm:"foreignKey:LocusListID;references:ID;constraint:OnDelete:CASCADE;"`
	GenomeVersion string     `json:"genomeVersion" gorm:"type:varchar(5);not null"`
	Chrom         string     `json:"chrom" gorm:"type:varchar(2);not null"`
	Start         int64      `json:"start" gorm:"not null"`
	End           int64      `json:"end" gorm:"not null"`
}

func (i LocusListInterval) TableName() string {
	return "locus_list_intervals"
}

func (i LocusListInterval) JSONFields() []string {
	return []string{"guid", "genome_version", "chrom", "start", "end"}
}

func (i *LocusListInterval) AfterCreate(tx *gorm.DB) error {
	return i.assignGUID(tx, i, formatGUID("LLI%07d_%s", i.ID, fmt.Sprintf("%s:%d-%d", i.Chrom, i.Start, i.End)))
}
