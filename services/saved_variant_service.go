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

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/l3montree-dev/genoguard/database/models"
	databasetypes "github.com/l3montree-dev/genoguard/database/types"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/monitoring"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// MaxVariantsFetch caps the variant ids of a single search index lookup.
const MaxVariantsFetch = 1000

var _ shared.SavedVariantService = &savedVariantService{}

type savedVariantService struct {
	savedVariantRepository          shared.SavedVariantRepository
	variantTagRepository            shared.VariantTagRepository
	variantNoteRepository           shared.VariantNoteRepository
	variantFunctionalDataRepository shared.VariantFunctionalDataRepository
	preloader                       shared.Preloader
	searchIndex                     shared.SearchIndex
}

func NewSavedVariantService(
	savedVariantRepository shared.SavedVariantRepository,
	variantTagRepository shared.VariantTagRepository,
	variantNoteRepository shared.VariantNoteRepository,
	variantFunctionalDataRepository shared.VariantFunctionalDataRepository,
	preloader shared.Preloader,
	searchIndex shared.SearchIndex,
) *savedVariantService {
	return &savedVariantService{
		savedVariantRepository:          savedVariantRepository,
		variantTagRepository:            variantTagRepository,
		variantNoteRepository:           variantNoteRepository,
		variantFunctionalDataRepository: variantFunctionalDataRepository,
		preloader:                       preloader,
		searchIndex:                     searchIndex,
	}
}

type annotationGUIDs struct {
	tags           []string
	notes          []string
	functionalData []string
}

func withAnnotationGUIDs(variant dtos.JSON, guids annotationGUIDs) dtos.JSON {
	variant["tagGuids"] = guids.tags
	variant["noteGuids"] = guids.notes
	variant["functionalDataGuids"] = guids.functionalData
	return variant
}

func newAnnotationGUIDs() *annotationGUIDs {
	return &annotationGUIDs{tags: []string{}, notes: []string{}, functionalData: []string{}}
}

// GetSavedVariantsWithTags groups the tags, notes and functional data of the variants onto them.
// Only variants with a tag or a note are returned. Variants that are referenced by an annotation
// but are not part of the input are added when IncludeMissingVariants is set.
func (s *savedVariantService) GetSavedVariantsWithTags(ctx context.Context, variants []models.SavedVariant, opts shared.SavedVariantsWithTagsOptions) (dtos.SavedVariantsWithTags, error) {
	response := dtos.NewSavedVariantsWithTags()
	if len(variants) == 0 {
		return response, nil
	}

	variantsJSON, err := transformer.SavedVariantsToJSON(ctx, s.preloader, variants, opts.AddDetails)
	if err != nil {
		return response, errors.Wrap(err, "could not transform saved variants")
	}
	byGUID := make(map[string]dtos.JSON, len(variantsJSON))
	annotations := make(map[string]*annotationGUIDs, len(variantsJSON))
	for _, v := range variantsJSON {
		guid := v["variantGuid"].(string)
		byGUID[guid] = v
		annotations[guid] = newAnnotationGUIDs()
	}
	ids := utils.Map(variants, func(v models.SavedVariant) uint { return v.ID })

	missing := map[string]struct{}{}
	attach := func(annotationGUID string, variantGUIDs []string, add func(a *annotationGUIDs, guid string)) {
		for _, variantGUID := range variantGUIDs {
			a, ok := annotations[variantGUID]
			if !ok {
				missing[variantGUID] = struct{}{}
				continue
			}
			add(a, annotationGUID)
		}
	}

	tags, err := s.variantTagRepository.ListBySavedVariantIDs(ctx, ids)
	if err != nil {
		return response, errors.Wrap(err, "could not fetch variant tags")
	}
	tagsJSON, err := transformer.VariantTagsToJSON(ctx, s.preloader, tags, true)
	if err != nil {
		return response, err
	}
	for _, tag := range tagsJSON {
		attach(tag["tagGuid"].(string), tag["variantGuids"].([]string), func(a *annotationGUIDs, guid string) {
			a.tags = append(a.tags, guid)
		})
	}

	functionalData, err := s.variantFunctionalDataRepository.ListBySavedVariantIDs(ctx, ids)
	if err != nil {
		return response, errors.Wrap(err, "could not fetch variant functional data")
	}
	functionalDataJSON, err := transformer.VariantFunctionalDataToJSON(ctx, s.preloader, functionalData, true)
	if err != nil {
		return response, err
	}
	for _, data := range functionalDataJSON {
		attach(data["tagGuid"].(string), data["variantGuids"].([]string), func(a *annotationGUIDs, guid string) {
			a.functionalData = append(a.functionalData, guid)
		})
	}

	notes, err := s.variantNoteRepository.ListBySavedVariantIDs(ctx, ids)
	if err != nil {
		return response, errors.Wrap(err, "could not fetch variant notes")
	}
	notesJSON, err := transformer.VariantNotesToJSON(ctx, s.preloader, notes, true)
	if err != nil {
		return response, err
	}
	for _, note := range notesJSON {
		attach(note["noteGuid"].(string), note["variantGuids"].([]string), func(a *annotationGUIDs, guid string) {
			a.notes = append(a.notes, guid)
		})
	}

	for guid, v := range byGUID {
		a := annotations[guid]
		if len(a.tags) == 0 && len(a.notes) == 0 {
			continue
		}
		response.SavedVariantsByGUID[guid] = withAnnotationGUIDs(v, *a)
	}

	if opts.IncludeMissingVariants && len(missing) > 0 {
		missingVariants, err := s.savedVariantRepository.ListByGUIDs(ctx, slices.Sorted(maps.Keys(missing)))
		if err != nil {
			return response, errors.Wrap(err, "could not fetch missing saved variants")
		}
		missingJSON, err := transformer.SavedVariantsToJSON(ctx, s.preloader, missingVariants, opts.AddDetails)
		if err != nil {
			return response, err
		}
		// backfilled variants carry no annotation guids of their own
		for _, v := range missingJSON {
			response.SavedVariantsByGUID[v["variantGuid"].(string)] = withAnnotationGUIDs(v, *newAnnotationGUIDs())
		}
	}

	response.VariantTagsByGUID = dtos.ByGUID(tagsJSON, "tagGuid")
	response.VariantNotesByGUID = dtos.ByGUID(notesJSON, "noteGuid")
	response.VariantFunctionalDataByGUID = dtos.ByGUID(functionalDataJSON, "tagGuid")

	return response, nil
}

// GetDiscoveryTags collects the discovery tags of every saved variant sharing a variant id with the given
// variants, across all families. The tags are keyed by VariantKey, the families of the tagged variants
// are returned by guid.
func (s *savedVariantService) GetDiscoveryTags(ctx context.Context, variants []dtos.JSON) (map[string][]dtos.JSON, map[string]dtos.JSON, error) {
	variantIDs := map[string]struct{}{}
	for _, v := range variants {
		if id, ok := v["variantId"].(string); ok && id != "" {
			variantIDs[id] = struct{}{}
		}
	}
	if len(variantIDs) == 0 {
		return map[string][]dtos.JSON{}, map[string]dtos.JSON{}, nil
	}

	savedVariants, err := s.savedVariantRepository.ListByVariantIDs(ctx, slices.Sorted(maps.Keys(variantIDs)))
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not fetch discovery saved variants")
	}
	savedVariantsByGUID := make(map[string]models.SavedVariant, len(savedVariants))
	for _, v := range savedVariants {
		savedVariantsByGUID[v.GUID] = v
	}

	tags, err := s.variantTagRepository.ListDiscoveryTagsBySavedVariantIDs(ctx, utils.Map(savedVariants, func(v models.SavedVariant) uint { return v.ID }))
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not fetch discovery tags")
	}
	tagsJSON, err := transformer.VariantTagsToJSON(ctx, s.preloader, tags, true)
	if err != nil {
		return nil, nil, err
	}

	discoveryTags := map[string][]dtos.JSON{}
	families := map[uint]models.Family{}
	for _, tag := range tagsJSON {
		variantGUIDs := tag["variantGuids"].([]string)
		delete(tag, "variantGuids")
		for _, guid := range variantGUIDs {
			variant, ok := savedVariantsByGUID[guid]
			if !ok || variant.Family == nil || variant.Family.Project == nil {
				continue
			}
			families[variant.Family.ID] = *variant.Family
			tagJSON := maps.Clone(tag)
			tagJSON["savedVariant"] = dtos.JSON{
				"variantGuid": variant.GUID,
				"familyGuid":  variant.Family.GUID,
				"projectGuid": variant.Family.Project.GUID,
			}
			key := VariantKey(variant.Xpos, utils.OrDefault(variant.Ref, ""), utils.OrDefault(variant.Alt, ""), variant.Family.Project.GenomeVersion)
			discoveryTags[key] = append(discoveryTags[key], tagJSON)
		}
	}
	if len(discoveryTags) == 0 {
		return discoveryTags, map[string]dtos.JSON{}, nil
	}

	familyList := slices.SortedFunc(maps.Values(families), func(a, b models.Family) int { return int(a.ID) - int(b.ID) })
	familiesJSON, err := transformer.FamiliesToJSON(ctx, s.preloader, familyList, transformer.FamilyOptions{})
	if err != nil {
		return nil, nil, err
	}
	return discoveryTags, dtos.ByGUID(familiesJSON, "familyGuid"), nil
}

// VariantKey identifies a genomic variant independent of the family it was saved in.
func VariantKey(xpos int64, ref, alt, genomeVersion string) string {
	return fmt.Sprintf("%d-%s-%s_%s", xpos, ref, alt, genomeVersion)
}

// variantKeyOf reads the key fields of a variant record. Numbers decoded from the stored annotation
// arrive as float64 or json.Number.
func variantKeyOf(variant dtos.JSON, defaultGenomeVersion string) (string, bool) {
	xpos, ok := toInt64(variant["xpos"])
	if !ok {
		return "", false
	}
	ref, _ := variant["ref"].(string)
	alt, _ := variant["alt"].(string)
	genomeVersion, _ := variant["genomeVersion"].(string)
	if genomeVersion == "" {
		genomeVersion = defaultGenomeVersion
	}
	return VariantKey(xpos, ref, alt, genomeVersion), true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		res := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				res = append(res, str)
			}
		}
		return res
	}
	return nil
}

type savedVariantKey struct {
	variantID  string
	familyGUID string
}

// UpdateProjectSavedVariantJSON replaces the stored annotation of the project's saved variants with the
// current search index result. It returns the guids of the updated variants.
func (s *savedVariantService) UpdateProjectSavedVariantJSON(ctx context.Context, project models.Project, familyID string, user *models.User) ([]string, error) {
	start := time.Now()
	defer func() {
		monitoring.SavedVariantsReloadDuration.Observe(time.Since(start).Minutes())
	}()

	savedVariants, err := s.savedVariantRepository.ListForReload(ctx, project.ID, familyID)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch saved variants")
	}
	if len(savedVariants) == 0 {
		return []string{}, nil
	}

	families := map[string]models.Family{}
	variantIDs := map[string]struct{}{}
	byKey := map[savedVariantKey]*models.SavedVariant{}
	for i := range savedVariants {
		v := &savedVariants[i]
		if v.Family == nil {
			continue
		}
		family := *v.Family
		family.Project = &project
		families[family.GUID] = family
		variantIDs[v.VariantID] = struct{}{}
		byKey[savedVariantKey{variantID: v.VariantID, familyGUID: family.GUID}] = v
	}

	sortedIDs := slices.Sorted(maps.Keys(variantIDs))
	sortedFamilies := make([]models.Family, 0, len(families))
	for _, guid := range slices.Sorted(maps.Keys(families)) {
		sortedFamilies = append(sortedFamilies, families[guid])
	}

	variantsJSON := []dtos.JSON{}
	for batch := range slices.Chunk(sortedIDs, MaxVariantsFetch) {
		res, err := s.searchIndex.GetVariantsForVariantIDs(ctx, sortedFamilies, batch, user)
		if err != nil {
			return nil, errors.Wrap(err, "could not fetch variants from search index")
		}
		variantsJSON = append(variantsJSON, res...)
	}

	actingUser := models.User{}
	if user != nil {
		actingUser = *user
	}

	updated := []string{}
	err = s.savedVariantRepository.Transaction(func(tx *gorm.DB) error {
		for _, variant := range variantsJSON {
			variantID, _ := variant["variantId"].(string)
			for _, familyGUID := range stringSlice(variant["familyGuids"]) {
				saved, ok := byKey[savedVariantKey{variantID: variantID, familyGUID: familyGUID}]
				if !ok {
					continue
				}
				err := s.savedVariantRepository.Update(ctx, tx, actingUser, saved, map[string]any{
					"saved_variant_json": databasetypes.JSONB(variant),
				})
				if err != nil {
					return errors.Wrapf(err, "could not update saved variant %s", saved.GUID)
				}
				updated = append(updated, saved.GUID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SavedVariantsReloadedAmount.Add(float64(len(updated)))
	slog.Info("reloaded saved variant json", "project", project.Name, "updated", len(updated), "fetched", len(variantsJSON))
	return updated, nil
}
