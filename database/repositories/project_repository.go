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

type projectRepository struct {
	db *gorm.DB
	*GormRepository[models.Project]
}

func NewProjectRepository(db *gorm.DB) *projectRepository {
	return &projectRepository{
		db:             db,
		GormRepository: newGormRepository[models.Project](db),
	}
}

func (r *projectRepository) FindByNameOrGUID(ctx context.Context, identifiers []string) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.WithContext(ctx).Order("id")
	if len(identifiers) > 0 {
		q = q.Where("name IN ? OR guid IN ?", identifiers, identifiers)
	}
	err := q.Find(&projects).Error
	return projects, err
}

type familyRepository struct {
	db *gorm.DB
	*GormRepository[models.Family]
}

func NewFamilyRepository(db *gorm.DB) *familyRepository {
	return &familyRepository{
		db:             db,
		GormRepository: newGormRepository[models.Family](db),
	}
}

func (r *familyRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Family, error) {
	var families []models.Family
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&families).Error
	return families, err
}

type individualRepository struct {
	db *gorm.DB
	*GormRepository[models.Individual]
}

func NewIndividualRepository(db *gorm.DB) *individualRepository {
	return &individualRepository{
		db:             db,
		GormRepository: newGormRepository[models.Individual](db),
	}
}

// ReadByGUID loads the individual with its family and project.
func (r *individualRepository) ReadByGUID(ctx context.Context, guid string) (models.Individual, error) {
	var individual models.Individual
	err := r.db.WithContext(ctx).Preload("Family.Project").Where("guid = ?", guid).First(&individual).Error
	return individual, err
}

func (r *individualRepository) ListByFamilyIDs(ctx context.Context, familyIDs []uint) ([]models.Individual, error) {
	if len(familyIDs) == 0 {
		return []models.Individual{}, nil
	}
	var individuals []models.Individual
	err := r.db.WithContext(ctx).Where("family_id IN ?", familyIDs).Order("id").Find(&individuals).Error
	return individuals, err
}

func (r *individualRepository) ListByProjectAndIdentifiers(ctx context.Context, projectID uint, identifiers []string) ([]models.Individual, error) {
	if len(identifiers) == 0 {
		return []models.Individual{}, nil
	}
	var individuals []models.Individual
	err := r.db.WithContext(ctx).
		Joins("JOIN families ON families.id = individuals.family_id").
		Where("families.project_id = ? AND individuals.individual_id IN ?", projectID, identifiers).
		Order("individuals.id").
		Find(&individuals).Error
	return individuals, err
}

type sampleRepository struct {
	db *gorm.DB
	*GormRepository[models.Sample]
}

func NewSampleRepository(db *gorm.DB) *sampleRepository {
	return &sampleRepository{
		db:             db,
		GormRepository: newGormRepository[models.Sample](db),
	}
}

func (r *sampleRepository) ListActiveByIndividualIDs(ctx context.Context, individualIDs []uint) ([]models.Sample, error) {
	if len(individualIDs) == 0 {
		return []models.Sample{}, nil
	}
	var samples []models.Sample
	err := r.db.WithContext(ctx).Where("individual_id IN ? AND is_active = ?", individualIDs, true).Order("id").Find(&samples).Error
	return samples, err
}

type igvSampleRepository struct {
	db *gorm.DB
	*GormRepository[models.IgvSample]
}

func NewIgvSampleRepository(db *gorm.DB) *igvSampleRepository {
	return &igvSampleRepository{
		db:             db,
		GormRepository: newGormRepository[models.IgvSample](db),
	}
}

func (r *igvSampleRepository) ListByIndividualIDs(ctx context.Context, individualIDs []uint) ([]models.IgvSample, error) {
	if len(individualIDs) == 0 {
		return []models.IgvSample{}, nil
	}
	var samples []models.IgvSample
	err := r.db.WithContext(ctx).Where("individual_id IN ?", individualIDs).Order("id").Find(&samples).Error
	return samples, err
}

func (r *igvSampleRepository) ListByProject(ctx context.Context, projectID uint) ([]models.IgvSample, error) {
	var samples []models.IgvSample
	err := r.db.WithContext(ctx).
		Joins("JOIN individuals ON individuals.id = igv_samples.individual_id").
		Joins("JOIN families ON families.id = individuals.family_id").
		Where("families.project_id = ?", projectID).
		Order("igv_samples.id").
		Find(&samples).Error
	return samples, err
}

func (r *igvSampleRepository) FindByIndividualAndType(ctx context.Context, individualID uint, sampleType string) (models.IgvSample, error) {
	var sample models.IgvSample
	err := r.db.WithContext(ctx).Where("individual_id = ? AND sample_type = ?", individualID, sampleType).First(&sample).Error
	return sample, err
}

type analysisGroupRepository struct {
	db *gorm.DB
}

func NewAnalysisGroupRepository(db *gorm.DB) *analysisGroupRepository {
	return &analysisGroupRepository{db: db}
}

func (r *analysisGroupRepository) ListByProject(ctx context.Context, projectID uint) ([]models.AnalysisGroup, error) {
	var groups []models.AnalysisGroup
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&groups).Error
	return groups, err
}
