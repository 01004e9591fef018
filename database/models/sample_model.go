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

const (
	SampleTypeWES = "WES"
	SampleTypeWGS = "WGS"
	SampleTypeRNA = "RNA"

	DatasetTypeVariantCalls = "VARIANTS"
	DatasetTypeSV           = "SV"

	IgvSampleTypeAlignment = "alignment"
	IgvSampleTypeCoverage  = "wig"
	IgvSampleTypeJunctions = "spliceJunctions"
	IgvSampleTypeGcnv      = "gcnv"
)

type Sample struct {
	Model
	IndividualID       uint        `json:"individualId" gorm:"not null;index"`
	Individual         *Individual `json:"individual,omitempty" gorm:"belongsTo;foreignKey:IndividualID;references:ID;constraint:OnDelete:CASCADE;"`
	SampleType         string      `json:"sampleType" gorm:"type:varchar(10)"`
	DatasetType        string      `json:"datasetType" gorm:"type:varchar(13)"`
	SampleIdentifier   string      `json:"sampleId" gorm:"column:sample_id;type:text;index;not null"`
	IsActive           bool        `json:"isActive" gorm:"default:false;not null"`
	LoadedDate         *time.Time  `json:"loadedDate"`
	ElasticsearchIndex *string     `json:"elasticsearchIndex" gorm:"type:text"`
}

func (s Sample) TableName() string {
	return "samples"
}

func (s Sample) JSONFields() []string {
	return []string{
		"guid", "created_date", "sample_type", "dataset_type", "sample_id", "is_active", "loaded_date",
		"elasticsearch_index",
	}
}

func (s *Sample) AfterCreate(tx *gorm.DB) error {
	return s.assignGUID(tx, s, formatGUID("S%010d_%s", s.ID, s.SampleIdentifier))
}

// IgvSample is a track file (bam, cram, coverage, junctions) shown in the IGV browser.
type IgvSample struct {
	Model
	IndividualID uint        `json:"individualId" gorm:"not null;uniqueIndex:idx_igv_sample_individual_file"`
	Individual   *Individual `json:"individual,omitempty" gorm:"belongsTo;foreignKey:IndividualID;references:ID;constraint:OnDelete:CASCADE;"`
	SampleType   string      `json:"sampleType" gorm:"type:varchar(15)"`
	FilePath     string      `json:"filePath" gorm:"type:text;not null;uniqueIndex:idx_igv_sample_individual_file"`
	SampleID     *string     `json:"sampleId" gorm:"type:text"`
}

func (s IgvSample) TableName() string {
	return "igv_samples"
}

func (s IgvSample) JSONFields() []string {
	return []string{"guid", "file_path", "sample_type", "sample_id"}
}

func (s *IgvSample) AfterCreate(tx *gorm.DB) error {
	label := s.FilePath
	if s.SampleID != nil {
		label = *s.SampleID
	}
	return s.assignGUID(tx, s, formatGUID("S%010d_%s", s.ID, label))
}
