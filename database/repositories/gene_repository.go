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

package repositories

import (
	"context"

	"github.com/l3montree-dev/genoguard/database/models"
	"gorm.io/gorm"
)

type geneRepository struct {
	db *gorm.DB
}

func NewGeneRepository(db *gorm.DB) *geneRepository {
	return &geneRepository{db: db}
}

func (r *geneRepository) ListByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneInfo, error) {
	if len(geneIDs) == 0 {
		return []models.GeneInfo{}, nil
	}
	var genes []models.GeneInfo
	err := r.db.WithContext(ctx).Where("gene_id IN ?", geneIDs).Order("gene_id").Find(&genes).Error
	return genes, err
}

func (r *geneRepository) ListConstraintsByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneConstraint, error) {
	if len(geneIDs) == 0 {
		return []models.GeneConstraint{}, nil
	}
	var constraints []models.GeneConstraint
	err := r.db.WithContext(ctx).Where("gene_id IN ?", geneIDs).Find(&constraints).Error
	return constraints, err
}

func (r *geneRepository) CountConstraints(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GeneConstraint{}).Count(&count).Error
	return count, err
}

func (r *geneRepository) ListNotesByGeneIDs(ctx context.Context, geneIDs []string) ([]models.GeneNote, error) {
	if len(geneIDs) == 0 {
		return []models.GeneNote{}, nil
	}
	var notes []models.GeneNote
	err := r.db.WithContext(ctx).Where("gene_id IN ?", geneIDs).Order("id").Find(&notes).Error
	return notes, err
}

type locusListRepository struct {
	db *gorm.DB
	*GormRepository[models.LocusList]
}

func NewLocusListRepository(db *gorm.DB) *locusListRepository {
	return &locusListRepository{
		db:             db,
		GormRepository: newGormRepository[models.LocusList](db),
	}
}

func (r *locusListRepository) ListByProjectIDs(ctx context.Context, projectIDs []uint) ([]models.LocusList, error) {
	if len(projectIDs) == 0 {
		return []models.LocusList{}, nil
	}
	var lists []models.LocusList
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("locus_list_projects").Select("locus_list_id").Where("project_id IN ?", projectIDs)).
		Order("id").Find(&lists).Error
	return lists, err
}

func (r *locusListRepository) ListGenes(ctx context.Context, locusListIDs []uint, geneIDs []string) ([]models.LocusListGene, error) {
	if len(locusListIDs) == 0 || len(geneIDs) == 0 {
		return []models.LocusListGene{}, nil
	}
	var genes []models.LocusListGene
	err := r.db.WithContext(ctx).
		Preload("LocusList").
		Preload("PaLocusListGene").
		Where("locus_list_id IN ? AND gene_id IN ?", locusListIDs, geneIDs).
		Order("id").Find(&genes).Error
	return genes, err
}

func (r *locusListRepository) ListIntervals(ctx context.Context, locusListIDs []uint) ([]models.LocusListInterval, error) {
	if len(locusListIDs) == 0 {
		return []models.LocusListInterval{}, nil
	}
	var intervals []models.LocusListInterval
	err := r.db.WithContext(ctx).Preload("LocusList").Where("locus_list_id IN ?", locusListIDs).Order("id").Find(&intervals).Error
	return intervals, err
}

type rnaSeqRepository struct {
	db *gorm.DB
}

func NewRnaSeqRepository(db *gorm.DB) *rnaSeqRepository {
	return &rnaSeqRepository{db: db}
}

func (r *rnaSeqRepository) ListSignificantOutliers(ctx context.Context, geneIDs []string, familyIDs []uint) ([]models.RnaSeqOutlier, error) {
	if len(geneIDs) == 0 || len(familyIDs) == 0 {
		return []models.RnaSeqOutlier{}, nil
	}
	var outliers []models.RnaSeqOutlier
	err := r.db.WithContext(ctx).
		Preload("Sample.Individual").
		Joins("JOIN samples ON samples.id = rna_seq_outliers.sample_id").
		Joins("JOIN individuals ON individuals.id = samples.individual_id").
		Where("individuals.family_id IN ?", familyIDs).
		Where("rna_seq_outliers.gene_id IN ?", geneIDs).
		Where("rna_seq_outliers.p_adjust < ?", models.RnaSeqSignificanceThreshold).
		Order("rna_seq_outliers.id").
		Find(&outliers).Error
	return outliers, err
}

func (r *rnaSeqRepository) FamilyIDsWithTpm(ctx context.Context, familyIDs []uint) ([]uint, error) {
	if len(familyIDs) == 0 {
		return []uint{}, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("rna_seq_tpms").
		Joins("JOIN samples ON samples.id = rna_seq_tpms.sample_id").
		Joins("JOIN individuals ON individuals.id = samples.individual_id").
		Where("individuals.family_id IN ?", familyIDs).
		Distinct().
		Pluck("individuals.family_id", &ids).Error
	return ids, err
}

type variantSearchResultsRepository struct {
	db *gorm.DB
}

func NewVariantSearchResultsRepository(db *gorm.DB) *variantSearchResultsRepository {
	return &variantSearchResultsRepository{db: db}
}

func (r *variantSearchResultsRepository) GUIDsByProject(ctx context.Context, projectID uint) ([]string, error) {
	var guids []string
	err := r.db.WithContext(ctx).
		Table("variant_search_results").
		Joins("JOIN variant_search_results_families ON variant_search_results_families.variant_search_results_id = variant_search_results.id").
		Joins("JOIN families ON families.id = variant_search_results_families.family_id").
		Where("families.project_id = ?", projectID).
		Distinct().
		Order("variant_search_results.guid").
		Pluck("variant_search_results.guid", &guids).Error
	return guids, err
}

type variantSearchRepository struct {
	db *gorm.DB
}

func NewVariantSearchRepository(db *gorm.DB) *variantSearchRepository {
	return &variantSearchRepository{db: db}
}

// ListVisible returns the searches created by the user and the shared ones without a creator.
func (r *variantSearchRepository) ListVisible(ctx context.Context, userID uint) ([]models.VariantSearch, error) {
	var searches []models.VariantSearch
	err := r.db.WithContext(ctx).
		Where("created_by_id = ? OR created_by_id IS NULL", userID).
		Order("id").
		Find(&searches).Error
	return searches, err
}
