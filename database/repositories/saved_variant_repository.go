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

const DiscoveryTagCategory = "CMG Discovery Tags"

type savedVariantRepository struct {
	db *gorm.DB
	*GormRepository[models.SavedVariant]
}

func NewSavedVariantRepository(db *gorm.DB) *savedVariantRepository {
	return &savedVariantRepository{
		db:             db,
		GormRepository: newGormRepository[models.SavedVariant](db),
	}
}

func (r *savedVariantRepository) ListByProject(ctx context.Context, projectID uint, familyGUIDs []string) ([]models.SavedVariant, error) {
	var variants []models.SavedVariant
	q := r.db.WithContext(ctx).
		Joins("JOIN families ON families.id = saved_variants.family_id").
		Where("families.project_id = ?", projectID)
	if len(familyGUIDs) > 0 {
		q = q.Where("families.guid IN ?", familyGUIDs)
	}
	err := q.Order("saved_variants.id").Find(&variants).Error
	return variants, err
}

// ListByProjectAndGUIDs returns the saved variants with the guids that belong to the project.
func (r *savedVariantRepository) ListByProjectAndGUIDs(ctx context.Context, projectID uint, guids []string) ([]models.SavedVariant, error) {
	if len(guids) == 0 {
		return []models.SavedVariant{}, nil
	}
	var variants []models.SavedVariant
	err := r.db.WithContext(ctx).
		Joins("JOIN families ON families.id = saved_variants.family_id").
		Where("families.project_id = ? AND saved_variants.guid IN ?", projectID, guids).
		Order("saved_variants.id").Find(&variants).Error
	return variants, err
}

func (r *savedVariantRepository) ListForReload(ctx context.Context, projectID uint, familyID string) ([]models.SavedVariant, error) {
	var variants []models.SavedVariant
	q := r.db.WithContext(ctx).
		Preload("Family").
		Joins("JOIN families ON families.id = saved_variants.family_id").
		Where("families.project_id = ?", projectID)
	if familyID != "" {
		q = q.Where("families.family_id = ?", familyID)
	}
	err := q.Order("saved_variants.id").Find(&variants).Error
	return variants, err
}

func (r *savedVariantRepository) ListByVariantIDs(ctx context.Context, variantIDs []string) ([]models.SavedVariant, error) {
	if len(variantIDs) == 0 {
		return []models.SavedVariant{}, nil
	}
	var variants []models.SavedVariant
	err := r.db.WithContext(ctx).Preload("Family.Project").Where("variant_id IN ?", variantIDs).Order("id").Find(&variants).Error
	return variants, err
}

type variantTagRepository struct {
	db *gorm.DB
	*GormRepository[models.VariantTag]
}

func NewVariantTagRepository(db *gorm.DB) *variantTagRepository {
	return &variantTagRepository{
		db:             db,
		GormRepository: newGormRepository[models.VariantTag](db),
	}
}

func (r *variantTagRepository) ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantTag, error) {
	if len(savedVariantIDs) == 0 {
		return []models.VariantTag{}, nil
	}
	var tags []models.VariantTag
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("variant_tag_saved_variants").Select("variant_tag_id").Where("saved_variant_id IN ?", savedVariantIDs)).
		Order("id").Find(&tags).Error
	return tags, err
}

func (r *variantTagRepository) ListDiscoveryTagsBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantTag, error) {
	if len(savedVariantIDs) == 0 {
		return []models.VariantTag{}, nil
	}
	var tags []models.VariantTag
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("variant_tag_saved_variants").Select("variant_tag_id").Where("saved_variant_id IN ?", savedVariantIDs)).
		Where("variant_tag_type_id IN (?)", r.db.Model(&models.VariantTagType{}).Select("id").Where("category = ?", DiscoveryTagCategory)).
		Order("id").Find(&tags).Error
	return tags, err
}

type variantTagTypeRepository struct {
	db *gorm.DB
	*GormRepository[models.VariantTagType]
}

func NewVariantTagTypeRepository(db *gorm.DB) *variantTagTypeRepository {
	return &variantTagTypeRepository{
		db:             db,
		GormRepository: newGormRepository[models.VariantTagType](db),
	}
}

func (r *variantTagTypeRepository) ListForProjects(ctx context.Context, projectIDs []uint) ([]models.VariantTagType, error) {
	var tagTypes []models.VariantTagType
	q := r.db.WithContext(ctx)
	if len(projectIDs) > 0 {
		q = q.Where("project_id IN ? OR project_id IS NULL", projectIDs)
	} else {
		q = q.Where("project_id IS NULL")
	}
	err := q.Order(`"order"`).Order("id").Find(&tagTypes).Error
	return tagTypes, err
}

type variantNoteRepository struct {
	db *gorm.DB
	*GormRepository[models.VariantNote]
}

func NewVariantNoteRepository(db *gorm.DB) *variantNoteRepository {
	return &variantNoteRepository{
		db:             db,
		GormRepository: newGormRepository[models.VariantNote](db),
	}
}

func (r *variantNoteRepository) ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantNote, error) {
	if len(savedVariantIDs) == 0 {
		return []models.VariantNote{}, nil
	}
	var notes []models.VariantNote
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("variant_note_saved_variants").Select("variant_note_id").Where("saved_variant_id IN ?", savedVariantIDs)).
		Order("id").Find(&notes).Error
	return notes, err
}

type variantFunctionalDataRepository struct {
	db *gorm.DB
	*GormRepository[models.VariantFunctionalData]
}

func NewVariantFunctionalDataRepository(db *gorm.DB) *variantFunctionalDataRepository {
	return &variantFunctionalDataRepository{
		db:             db,
		GormRepository: newGormRepository[models.VariantFunctionalData](db),
	}
}

func (r *variantFunctionalDataRepository) ListBySavedVariantIDs(ctx context.Context, savedVariantIDs []uint) ([]models.VariantFunctionalData, error) {
	if len(savedVariantIDs) == 0 {
		return []models.VariantFunctionalData{}, nil
	}
	var data []models.VariantFunctionalData
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("variant_functional_data_saved_variants").Select("variant_functional_data_id").Where("saved_variant_id IN ?", savedVariantIDs)).
		Order("id").Find(&data).Error
	return data, err
}
