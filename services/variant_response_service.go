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
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/monitoring"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
)

var _ shared.VariantResponseService = &variantResponseService{}

type variantResponseService struct {
	savedVariantService   shared.SavedVariantService
	projectContextService shared.ProjectContextService
	familyRepository      shared.FamilyRepository
	geneRepository        shared.GeneRepository
	locusListRepository   shared.LocusListRepository
	rnaSeqRepository      shared.RnaSeqRepository
	accessControl         shared.AccessControl
	preloader             shared.Preloader
}

func NewVariantResponseService(
	savedVariantService shared.SavedVariantService,
	projectContextService shared.ProjectContextService,
	familyRepository shared.FamilyRepository,
	geneRepository shared.GeneRepository,
	locusListRepository shared.LocusListRepository,
	rnaSeqRepository shared.RnaSeqRepository,
	accessControl shared.AccessControl,
	preloader shared.Preloader,
) *variantResponseService {
	return &variantResponseService{
		savedVariantService:   savedVariantService,
		projectContextService: projectContextService,
		familyRepository:      familyRepository,
		geneRepository:        geneRepository,
		locusListRepository:   locusListRepository,
		rnaSeqRepository:      rnaSeqRepository,
		accessControl:         accessControl,
		preloader:             preloader,
	}
}

// GetVariantsResponse assembles the saved variants with their annotations and the genes, locus lists,
// projects, families and rna seq data they reference. Every optional section is only computed when its
// flag is set.
func (s *variantResponseService) GetVariantsResponse(ctx context.Context, user models.User, savedVariants []models.SavedVariant, opts shared.VariantsResponseOptions) (dtos.VariantsResponse, error) {
	start := time.Now()
	defer func() {
		monitoring.SavedVariantsResponseDuration.Observe(time.Since(start).Seconds())
	}()

	withTags, err := s.savedVariantService.GetSavedVariantsWithTags(ctx, savedVariants, shared.SavedVariantsWithTagsOptions{
		User:                   &user,
		AddDetails:             true,
		IncludeMissingVariants: opts.IncludeMissingVariants,
	})
	if err != nil {
		return dtos.VariantsResponse{}, err
	}
	response := dtos.VariantsResponse{SavedVariantsWithTags: withTags}

	variants := opts.ResponseVariants
	if variants == nil {
		variants = make([]dtos.JSON, 0, len(withTags.SavedVariantsByGUID))
		for _, guid := range slices.Sorted(maps.Keys(withTags.SavedVariantsByGUID)) {
			variants = append(variants, withTags.SavedVariantsByGUID[guid])
		}
	}

	families, err := s.loadFamilies(ctx, variants)
	if err != nil {
		return response, err
	}
	projects := distinctProjects(families)
	var project *models.Project
	if len(projects) == 1 {
		project = &projects[0]
	}

	isAnalyst, err := s.accessControl.IsAnalyst(user)
	if err != nil {
		slog.Error("could not check analyst role", "err", err, "user", user.Username)
	}

	var discoveryTags map[string][]dtos.JSON
	if isAnalyst {
		tags, discoveryFamilies, err := s.savedVariantService.GetDiscoveryTags(ctx, slices.Collect(maps.Values(withTags.SavedVariantsByGUID)))
		if err != nil {
			return response, err
		}
		if len(tags) > 0 {
			discoveryTags = tags
			response.DiscoveryTags = tags
			response.FamiliesByGUID = discoveryFamilies
		}
	}

	genes, err := s.savedVariantGenes(ctx, variants, &user)
	if err != nil {
		return response, err
	}
	response.LocusListsByGUID, err = s.addLocusLists(ctx, projects, genes, variants, opts.AddLocusListDetail, &user)
	if err != nil {
		return response, err
	}
	if discoveryTags != nil {
		addDiscoveryTags(variants, discoveryTags, familyGenomeVersions(families))
	}
	response.GenesByID = genes

	if opts.AddAllContext || opts.LoadProjectTagTypes {
		response.ProjectsByGUID = make(map[string]dtos.JSON, len(projects))
		for _, p := range projects {
			response.ProjectsByGUID[p.GUID] = dtos.JSON{"projectGuid": p.GUID}
		}
		if err := s.projectContextService.AddProjectTagTypes(ctx, response.ProjectsByGUID); err != nil {
			return response, err
		}
	}

	if opts.AddAllContext || opts.LoadFamilyContext {
		err := s.projectContextService.AddFamiliesContext(ctx, &response, families, user, shared.FamiliesContextOptions{
			HasCaseReviewPerm: project != nil && s.hasCaseReviewPermission(user, *project),
			IncludeIgv:        opts.IncludeIgv,
		})
		if err != nil {
			return response, err
		}
	}

	if opts.IncludeRnaSeq {
		response.RnaSeqData, err = s.rnaSeqOutliers(ctx, slices.Collect(maps.Keys(genes)), families)
		if err != nil {
			return response, err
		}
		if len(response.FamiliesByGUID) > 0 {
			if err := s.addFamilyRnaTpm(ctx, response.FamiliesByGUID); err != nil {
				return response, err
			}
		}
	}

	return response, nil
}

func (s *variantResponseService) loadFamilies(ctx context.Context, variants []dtos.JSON) ([]models.Family, error) {
	familyGUIDs := map[string]struct{}{}
	for _, v := range variants {
		for _, guid := range stringSlice(v["familyGuids"]) {
			familyGUIDs[guid] = struct{}{}
		}
	}
	if len(familyGUIDs) == 0 {
		return []models.Family{}, nil
	}
	families, err := s.familyRepository.ListByGUIDs(ctx, slices.Sorted(maps.Keys(familyGUIDs)))
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch families")
	}
	if err := s.preloader.Preload(ctx, &families, utils.Map(families, func(f models.Family) uint { return f.ID }), "Project"); err != nil {
		return nil, errors.Wrap(err, "could not fetch family projects")
	}
	return families, nil
}

func distinctProjects(families []models.Family) []models.Project {
	byID := map[uint]models.Project{}
	for _, f := range families {
		if f.Project != nil {
			byID[f.Project.ID] = *f.Project
		}
	}
	return slices.SortedFunc(maps.Values(byID), func(a, b models.Project) int { return int(a.ID) - int(b.ID) })
}

func familyGenomeVersions(families []models.Family) map[string]string {
	res := make(map[string]string, len(families))
	for _, f := range families {
		if f.Project != nil {
			res[f.GUID] = f.Project.GenomeVersion
		}
	}
	return res
}

// hasCaseReviewPermission requires case review to be enabled for the project and edit rights.
func (s *variantResponseService) hasCaseReviewPermission(user models.User, project models.Project) bool {
	if !project.HasCaseReview {
		return false
	}
	return canEditProject(s.accessControl, user, project)
}

func canEditProject(accessControl shared.AccessControl, user models.User, project models.Project) bool {
	if user.IsStaff {
		return true
	}
	ok, err := accessControl.HasProjectPermission(user, project.GUID, shared.PermissionCanEdit)
	if err != nil {
		slog.Error("could not check edit permission", "err", err, "user", user.Username, "project", project.GUID)
		return false
	}
	return ok
}

// savedVariantGenes loads every gene with a transcript in one of the variants.
func (s *variantResponseService) savedVariantGenes(ctx context.Context, variants []dtos.JSON, user *models.User) (map[string]dtos.JSON, error) {
	geneIDs := map[string]struct{}{}
	for _, v := range variants {
		if transcripts, ok := v["transcripts"].(map[string]any); ok {
			for geneID := range transcripts {
				geneIDs[geneID] = struct{}{}
			}
		}
	}
	genesByID := map[string]dtos.JSON{}
	if len(geneIDs) == 0 {
		return genesByID, nil
	}
	ids := slices.Sorted(maps.Keys(geneIDs))

	genes, err := s.geneRepository.ListByGeneIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch genes")
	}
	constraints, err := s.geneRepository.ListConstraintsByGeneIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch gene constraints")
	}
	totalConstrained := int64(0)
	if len(constraints) > 0 {
		if totalConstrained, err = s.geneRepository.CountConstraints(ctx); err != nil {
			return nil, errors.Wrap(err, "could not count gene constraints")
		}
	}
	constraintsByGene := make(map[string]models.GeneConstraint, len(constraints))
	for _, c := range constraints {
		constraintsByGene[c.GeneID] = c
	}

	notes, err := s.geneRepository.ListNotesByGeneIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch gene notes")
	}
	notesJSON, err := transformer.GeneNotesToJSON(ctx, s.preloader, notes, user)
	if err != nil {
		return nil, err
	}
	notesByGene := map[string][]dtos.JSON{}
	for _, n := range notesJSON {
		geneID, _ := n["geneId"].(string)
		notesByGene[geneID] = append(notesByGene[geneID], n)
	}

	genesJSON, err := transformer.GenesToJSON(ctx, genes, constraintsByGene, totalConstrained, notesByGene)
	if err != nil {
		return nil, err
	}
	for _, g := range genesJSON {
		g["locusListGuids"] = []string{}
		genesByID[g["geneId"].(string)] = g
	}
	return genesByID, nil
}

// addLocusLists records the locus lists of the projects on the genes and variants they contain.
func (s *variantResponseService) addLocusLists(ctx context.Context, projects []models.Project, genes map[string]dtos.JSON, variants []dtos.JSON, addDetail bool, user *models.User) (map[string]dtos.JSON, error) {
	locusListsByGUID := map[string]dtos.JSON{}
	if len(projects) == 0 {
		return locusListsByGUID, nil
	}
	locusLists, err := s.locusListRepository.ListByProjectIDs(ctx, utils.Map(projects, func(p models.Project) uint { return p.ID }))
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch locus lists")
	}
	if len(locusLists) == 0 {
		return locusListsByGUID, nil
	}
	locusListIDs := utils.Map(locusLists, func(l models.LocusList) uint { return l.ID })

	if addDetail {
		locusListsJSON, err := transformer.LocusListsToJSON(ctx, s.preloader, locusLists, transformer.LocusListOptions{User: user})
		if err != nil {
			return nil, err
		}
		for _, l := range locusListsJSON {
			l["intervals"] = []dtos.JSON{}
			locusListsByGUID[l["locusListGuid"].(string)] = l
		}
	}
	entry := func(guid string) dtos.JSON {
		if _, ok := locusListsByGUID[guid]; !ok {
			locusListsByGUID[guid] = dtos.JSON{"intervals": []dtos.JSON{}}
		}
		return locusListsByGUID[guid]
	}

	intervals, err := s.locusListRepository.ListIntervals(ctx, locusListIDs)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch locus list intervals")
	}
	intervalsJSON, err := transformer.ModelsToJSON(ctx, s.preloader, intervals, transformer.Options[models.LocusListInterval]{
		NestedFields: []transformer.NestedField{{Fields: []string{"locus_list", "guid"}}},
	})
	if err != nil {
		return nil, err
	}
	for i, interval := range intervalsJSON {
		l := entry(interval["locusListGuid"].(string))
		l["intervals"] = append(l["intervals"].([]dtos.JSON), interval)
		addIntervalMembership(variants, intervals[i], interval["locusListGuid"].(string))
	}

	if len(genes) == 0 {
		return locusListsByGUID, nil
	}
	locusListGenes, err := s.locusListRepository.ListGenes(ctx, locusListIDs, slices.Sorted(maps.Keys(genes)))
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch locus list genes")
	}
	for _, g := range locusListGenes {
		gene, ok := genes[g.GeneID]
		if !ok || g.LocusList == nil {
			continue
		}
		guid := g.LocusList.GUID
		gene["locusListGuids"] = append(gene["locusListGuids"].([]string), guid)
		if g.PaLocusListGene != nil {
			detail, _ := gene["panelAppDetail"].(dtos.JSON)
			if detail == nil {
				detail = dtos.JSON{}
				gene["panelAppDetail"] = detail
			}
			detail[guid] = dtos.JSON{
				"confidence": g.PaLocusListGene.ConfidenceLevel,
				"moi":        g.PaLocusListGene.ModeOfInheritance,
				"penetrance": g.PaLocusListGene.Penetrance,
				"biotype":    g.PaLocusListGene.Biotype,
			}
		}
	}
	return locusListsByGUID, nil
}

// addIntervalMembership adds the locus list guid to every variant inside the interval.
func addIntervalMembership(variants []dtos.JSON, interval models.LocusListInterval, locusListGUID string) {
	for _, v := range variants {
		xpos, ok := toInt64(v["xpos"])
		if !ok {
			continue
		}
		if genomeVersion, ok := v["genomeVersion"].(string); ok && genomeVersion != "" && genomeVersion != interval.GenomeVersion {
			continue
		}
		chrom, pos := utils.GetChromPos(xpos)
		if !strings.EqualFold(chrom, interval.Chrom) || pos < interval.Start || pos > interval.End {
			continue
		}
		existing := stringSlice(v["locusListGuids"])
		if !slices.Contains(existing, locusListGUID) {
			v["locusListGuids"] = append(existing, locusListGUID)
		}
	}
}

// addDiscoveryTags attaches the discovery tags of other families to each variant.
func addDiscoveryTags(variants []dtos.JSON, discoveryTags map[string][]dtos.JSON, genomeVersions map[string]string) {
	for _, v := range variants {
		familyGUIDs := stringSlice(v["familyGuids"])
		defaultGenomeVersion := ""
		if len(familyGUIDs) > 0 {
			defaultGenomeVersion = genomeVersions[familyGUIDs[0]]
		}
		key, ok := variantKeyOf(v, defaultGenomeVersion)
		if !ok {
			continue
		}
		tags := discoveryTags[key]
		if len(tags) == 0 {
			continue
		}
		existing, _ := v["discoveryTags"].([]dtos.JSON)
		for _, tag := range tags {
			savedVariant, _ := tag["savedVariant"].(dtos.JSON)
			if familyGUID, _ := savedVariant["familyGuid"].(string); slices.Contains(familyGUIDs, familyGUID) {
				continue
			}
			existing = append(existing, tag)
		}
		if existing == nil {
			existing = []dtos.JSON{}
		}
		v["discoveryTags"] = existing
	}
}

func (s *variantResponseService) rnaSeqOutliers(ctx context.Context, geneIDs []string, families []models.Family) (map[string]dtos.RnaSeqIndividualData, error) {
	data := map[string]dtos.RnaSeqIndividualData{}
	if len(geneIDs) == 0 || len(families) == 0 {
		return data, nil
	}
	outliers, err := s.rnaSeqRepository.ListSignificantOutliers(ctx, geneIDs, utils.Map(families, func(f models.Family) uint { return f.ID }))
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch rna seq outliers")
	}
	outliersJSON, err := transformer.RnaSeqOutliersToJSON(ctx, outliers)
	if err != nil {
		return nil, err
	}
	for i, o := range outliers {
		if o.Sample == nil || o.Sample.Individual == nil {
			continue
		}
		individualGUID := o.Sample.Individual.GUID
		d, ok := data[individualGUID]
		if !ok {
			d = dtos.RnaSeqIndividualData{Outliers: map[string]dtos.JSON{}}
			data[individualGUID] = d
		}
		d.Outliers[o.GeneID] = outliersJSON[i]
	}
	return data, nil
}

func (s *variantResponseService) addFamilyRnaTpm(ctx context.Context, familiesByGUID map[string]dtos.JSON) error {
	families, err := s.familyRepository.ListByGUIDs(ctx, slices.Sorted(maps.Keys(familiesByGUID)))
	if err != nil {
		return errors.Wrap(err, "could not fetch families")
	}
	guidByID := make(map[uint]string, len(families))
	for _, f := range families {
		guidByID[f.ID] = f.GUID
	}
	tpmFamilyIDs, err := s.rnaSeqRepository.FamilyIDsWithTpm(ctx, slices.Collect(maps.Keys(guidByID)))
	if err != nil {
		return errors.Wrap(err, "could not fetch rna tpm families")
	}
	for _, id := range tpmFamilyIDs {
		if family, ok := familiesByGUID[guidByID[id]]; ok {
			family["hasRnaTpmData"] = true
		}
	}
	return nil
}
