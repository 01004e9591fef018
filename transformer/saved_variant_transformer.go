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

package transformer

import (
	"context"
	"fmt"
	"maps"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/utils"
)

// SavedVariantsToJSON projects saved variants keyed by variantGuid.
// With addDetails the stored annotation is merged on top of the projected fields.
func SavedVariantsToJSON(ctx context.Context, preloader shared.Preloader, variants []models.SavedVariant, addDetails bool) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, variants, Options[models.SavedVariant]{
		GUIDKey: "variantGuid",
		Enricher: EnrichFunc[models.SavedVariant]{
			Preload: []string{"Family"},
			Fn: func(result dtos.JSON, variant *models.SavedVariant) {
				if addDetails {
					maps.Copy(result, variant.SavedVariantJSON)
				}
				if id, ok := result["variantId"].(string); !ok || id == "" {
					chrom, pos := variant.Chrom()
					result["variantId"] = fmt.Sprintf("%s-%d-%s-%s", chrom, pos, utils.OrDefault(variant.Ref, ""), utils.OrDefault(variant.Alt, ""))
				}
				familyGUIDs := []string{}
				if variant.Family != nil {
					familyGUIDs = append(familyGUIDs, variant.Family.GUID)
				}
				result["familyGuids"] = familyGUIDs
			},
		},
	})
}

func VariantTagsToJSON(ctx context.Context, preloader shared.Preloader, tags []models.VariantTag, addVariantGUIDs bool) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, tags, Options[models.VariantTag]{
		GUIDKey: "tagGuid",
		NestedFields: []NestedField{
			{Fields: []string{"variant_tag_type", "name"}, Key: "name"},
			{Fields: []string{"variant_tag_type", "category"}, Key: "category"},
			{Fields: []string{"variant_tag_type", "color"}, Key: "color"},
		},
		Enricher: variantGUIDsEnricher(addVariantGUIDs, func(t *models.VariantTag) []models.SavedVariant { return t.SavedVariants }),
	})
}

func VariantFunctionalDataToJSON(ctx context.Context, preloader shared.Preloader, data []models.VariantFunctionalData, addVariantGUIDs bool) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, data, Options[models.VariantFunctionalData]{
		GUIDKey: "tagGuid",
		Enricher: chain[models.VariantFunctionalData]{
			variantGUIDsEnricher(addVariantGUIDs, func(d *models.VariantFunctionalData) []models.SavedVariant { return d.SavedVariants }),
			EnrichFunc[models.VariantFunctionalData]{Fn: func(result dtos.JSON, d *models.VariantFunctionalData) {
				delete(result, "functionalDataTag")
				result["name"] = d.FunctionalDataTag
				tag, ok := models.LookupFunctionalDataTag(d.FunctionalDataTag)
				if !ok {
					result["metadataTitle"] = "Notes"
					result["color"] = nil
					return
				}
				result["metadataTitle"] = tag.MetadataTitle
				result["color"] = tag.Color
			}},
		},
	})
}

func VariantNotesToJSON(ctx context.Context, preloader shared.Preloader, notes []models.VariantNote, addVariantGUIDs bool) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, notes, Options[models.VariantNote]{
		GUIDKey:  "noteGuid",
		Enricher: variantGUIDsEnricher(addVariantGUIDs, func(n *models.VariantNote) []models.SavedVariant { return n.SavedVariants }),
	})
}

// GeneNotesToJSON marks notes the user may edit: staff may edit all of them, everybody else their own.
func GeneNotesToJSON(ctx context.Context, preloader shared.Preloader, notes []models.GeneNote, user *models.User) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, notes, Options[models.GeneNote]{
		GUIDKey: "noteGuid",
		Enricher: EnrichFunc[models.GeneNote]{Fn: func(result dtos.JSON, note *models.GeneNote) {
			result["editable"] = isStaff(user) || (user != nil && note.CreatedByID != nil && *note.CreatedByID == user.ID)
		}},
	})
}

func variantGUIDsEnricher[T any](enabled bool, savedVariants func(*T) []models.SavedVariant) Enricher[T] {
	if !enabled {
		return nil
	}
	return EnrichFunc[T]{
		Preload: []string{"SavedVariants"},
		Fn: func(result dtos.JSON, entity *T) {
			result["variantGuids"] = guids(savedVariants(entity))
		},
	}
}

// VariantTagTypesToJSON projects tag types keyed by variantTagTypeGuid.
func VariantTagTypesToJSON(ctx context.Context, tagTypes []models.VariantTagType) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, nil, tagTypes, Options[models.VariantTagType]{GUIDKey: "variantTagTypeGuid"})
}

// FunctionalTagTypesToJSON lists the fixed functional data taxonomy.
func FunctionalTagTypesToJSON() []dtos.JSON {
	return utils.Map(models.FunctionalDataTags, func(t models.FunctionalDataTagType) dtos.JSON {
		return dtos.JSON{
			"category":      t.Category,
			"name":          t.Name,
			"metadataTitle": t.MetadataTitle,
			"color":         t.Color,
			"description":   t.Description,
		}
	})
}
