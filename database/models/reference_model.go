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

// RnaSeqSignificanceThreshold is the adjusted p-value below which an outlier is reported.
const RnaSeqSignificanceThreshold = 0.05

type RnaSeqOutlier struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	SampleID uint    `json:"sampleId" gorm:"not null;uniqueIndex:idx_rna_seq_outlier_sample_gene"`
	Sample   *Sample `json:"sample,omitempty" gorm:"belongsTo;foreignKey:SampleID;references:ID;constraint:OnDelete:CASCADE;"`
	GeneID   string  `json:"geneId" gorm:"type:varchar(20);not null;index;uniqueIndex:idx_rna_seq_outlier_sample_gene"`
	PValue   float64 `json:"pValue" gorm:"not null"`
	PAdjust  float64 `json:"pAdjust" gorm:"not null;index"`
	ZScore   float64 `json:"zScore" gorm:"not null"`
}

func (o RnaSeqOutlier) TableName() string {
	return "rna_seq_outliers"
}

func (o RnaSeqOutlier) GetID() uint {
	return o.ID
}

func (o RnaSeqOutlier) JSONFields() []string {
	return []string{"gene_id", "p_value", "p_adjust", "z_score"}
}

type RnaSeqTpm struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	SampleID uint    `json:"sampleId" gorm:"not null;uniqueIndex:idx_rna_seq_tpm_sample_gene"`
	Sample   *Sample `json:"sample,omitempty" gorm:"belongsTo;foreignKey:SampleID;references:ID;constraint:OnDelete:CASCADE;"`
	GeneID   string  `json:"geneId" gorm:"type:varchar(20);not null;index;uniqueIndex:idx_rna_seq_tpm_sample_gene"`
	Tpm      float64 `json:"tpm" gorm:"not null"`
}

func (t RnaSeqTpm) TableName() string {
	return "rna_seq_tpms"
}

func (t RnaSeqTpm) GetID() uint {
	return t.ID
}

func (t RnaSeqTpm) JSONFields() []string {
	return []string{"gene_id", "tpm"}
}

// GeneInfo is gencode reference data.
type GeneInfo struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	GeneID          string  `json:"geneId" gorm:"type:varchar(20);not null;uniqueIndex"`
	GeneSymbol      string  `json:"geneSymbol" gorm:"type:varchar(30);index"`
	ChromGrch37     *string `json:"chromGrch37" gorm:"column:chrom_grch37;type:varchar(2)"`
	StartGrch37     *int64  `json:"startGrch37" gorm:"column:start_grch37"`
	EndGrch37       *int64  `json:"endGrch37" gorm:"column:end_grch37"`
	ChromGrch38     *string `json:"chromGrch38" gorm:"column:chrom_grch38;type:varchar(2)"`
	StartGrch38     *int64  `json:"startGrch38" gorm:"column:start_grch38"`
	EndGrch38       *int64  `json:"endGrch38" gorm:"column:end_grch38"`
	GencodeGeneType *string `json:"gencodeGeneType" gorm:"type:varchar(40)"`
}

func (g GeneInfo) TableName() string {
	return "gene_infos"
}

func (g GeneInfo) GetID() uint {
	return g.ID
}

func (g GeneInfo) JSONFields() []string {
	return []string{
		"gene_id", "gene_symbol", "chrom_grch37", "start_grch37", "end_grch37", "chrom_grch38", "start_grch38",
		"end_grch38", "gencode_gene_type",
	}
}

type GeneConstraint struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	GeneID   string  `json:"geneId" gorm:"type:varchar(20);not null;uniqueIndex"`
	MisZ     float64 `json:"misZ" gorm:"column:mis_z"`
	MisZRank int     `json:"misZRank" gorm:"column:mis_z_rank"`
	PLI      float64 `json:"pli" gorm:"column:pli"`
	PLIRank  int     `json:"pliRank" gorm:"column:pli_rank"`
}

func (c GeneConstraint) TableName() string {
	return "gene_constraints"
}
