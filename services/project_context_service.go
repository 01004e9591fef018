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
	"maps"
	"slices"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/transformer"
	"github.com/l3montree-dev/genoguard/utils"
	"github.com/pkg/errors"
)

var _ shared.ProjectContextService = &projectContextService{}

type projectContextService struct {
	projectRepository        shared.ProjectRepository
	variantTagTypeRepository shared.VariantTagTypeRepository
	individualRepository     shared.IndividualRepository
	sampleRepository         shared.SampleRepository
	igvSampleRepository      shared.IgvSampleRepository
	analysisGroupRepository  shared.AnalysisGroupRepository
	userRepository           shared.UserRepository
	accessControl            shared.AccessControl
	preloader                shared.Preloader
}

func NewProjectContextService(
	projectRepository shared.ProjectRepository,
	variantTagTypeRepository shared.VariantTagTypeRepository,
	individualRepository shared.IndividualRepository,
	sampleRepository shared.SampleRepository,
	igvSampleRepository shared.IgvSampleRepository,
	analysisGroupRepository shared.AnalysisGroupRepository,
	userRepository shared.UserRepository,
	accessControl shared.AccessControl,
	preloader shared.Preloader,
) *projectContextService {
	return &projectContextService{
		projectRepository:        projectRepository,
		variantTagTypeRepository: variantTagTypeRepository,
		individualRepository:     individualRepository,
		sampleRepository:         sampleRepository,
		igvSampleRepository:      igvSampleRepository,
		analysisGroupRepository:  analysisGroupRepository,
		userRepository:           userRepository,
		accessControl:            accessControl,
		preloader:                preloader,
	}
}

// AddProjectTagTypes adds the tag types usable in each project, its own and the global ones,
// and the functional data taxonomy.
func (s *projectContextService) AddProjectTagTypes(ctx context.Context, projectsByGUID map[string]dtos.JSON) error {
	if len(projectsByGUID) == 0 {
		return nil
	}
	projects, err := s.projectRepository.FindByNameOrGUID(ctx, slices.Sorted(maps.Keys(projectsByGUID)))
	if err != nil {
		return errors.Wrap(err, "could not fetch projects")
	}
	projectGUIDs := make(map[uint]string, len(projects))
	for _, p := range projects {
		projectGUIDs[p.ID] = p.GUID
	}

	tagTypes, err := s.variantTagTypeRepository.ListForProjects(ctx, slices.Collect(maps.Keys(projectGUIDs)))
	if err != nil {
		return errors.Wrap(err, "could not fetch variant tag types")
	}
	tagTypesJSON, err := transformer.VariantTagTypesToJSON(ctx, tagTypes)
	if err != nil {
		return err
	}

	global := []dtos.JSON{}
	byProject := map[string][]dtos.JSON{}
	for i, tagType := range tagTypes {
		if tagType.ProjectID == nil {
			global = append(global, tagTypesJSON[i])
			continue
		}
		guid := projectGUIDs[*tagType.ProjectID]
		byProject[guid] = append(byProject[guid], tagTypesJSON[i])
	}

	functionalTagTypes := transformer.FunctionalTagTypesToJSON()
	for guid, project := range projectsByGUID {
		project["variantTagTypes"] = append(slices.Clone(byProject[guid]), global...)
		project["variantFunctionalTagTypes"] = functionalTagTypes
	}
	return nil
}

// AddFamiliesContext adds the families with their individuals, active samples and optionally igv samples.
func (s *projectContextService) AddFamiliesContext(ctx context.Context, response *dtos.VariantsResponse, families []models.Family, user models.User, opts shared.FamiliesContextOptions) error {
	familiesJSON, err := transformer.FamiliesToJSON(ctx, s.preloader, families, transformer.FamilyOptions{
		User:               &user,
		AddIndividualGUIDs: true,
		HasCaseReviewPerm:  opts.HasCaseReviewPerm,
	})
	if err != nil {
		return errors.Wrap(err, "could not transform families")
	}
	if response.FamiliesByGUID == nil {
		response.FamiliesByGUID = map[string]dtos.JSON{}
	}
	maps.Copy(response.FamiliesByGUID, dtos.ByGUID(familiesJSON, "familyGuid"))

	individuals, err := s.individualRepository.ListByFamilyIDs(ctx, utils.Map(families, func(f models.Family) uint { return f.ID }))
	if err != nil {
		return errors.Wrap(err, "could not fetch individuals")
	}
	individualsJSON, err := transformer.IndividualsToJSON(ctx, s.preloader, individuals, transformer.IndividualOptions{
		User:           &user,
		AddSampleGUIDs: true,
	})
	if err != nil {
		return errors.Wrap(err, "could not transform individuals")
	}
	response.IndividualsByGUID = dtos.ByGUID(individualsJSON, "individualGuid")

	individualIDs := utils.Map(individuals, func(i models.Individual) uint { return i.ID })
	samples, err := s.sampleRepository.ListActiveByIndividualIDs(ctx, individualIDs)
	if err != nil {
		return errors.Wrap(err, "could not fetch samples")
	}
	samplesJSON, err := transformer.SamplesToJSON(ctx, s.preloader, samples, transformer.SampleOptions{})
	if err != nil {
		return errors.Wrap(err, "could not transform samples")
	}
	response.SamplesByGUID = dtos.ByGUID(samplesJSON, "sampleGuid")

	if opts.IncludeIgv {
		igvSamples, err := s.igvSampleRepository.ListByIndividualIDs(ctx, individualIDs)
		if err != nil {
			return errors.Wrap(err, "could not fetch igv samples")
		}
		igvSamplesJSON, err := transformer.IgvSamplesToJSON(ctx, s.preloader, igvSamples, transformer.SampleOptions{})
		if err != nil {
			return errors.Wrap(err, "could not transform igv samples")
		}
		response.IgvSamplesByGUID = dtos.ByGUID(igvSamplesJSON, "igvSampleGuid")
	}
	return nil
}

// GetCollaborators lists everybody who may view the project, flagging who may also edit it.
func (s *projectContextService) GetCollaborators(ctx context.Context, project models.Project) ([]dtos.JSON, error) {
	viewers, err := s.accessControl.GetProjectCollaborators(project.GUID, shared.PermissionCanView)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch project viewers")
	}
	editors, err := s.accessControl.GetProjectCollaborators(project.GUID, shared.PermissionCanEdit)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch project editors")
	}
	canEdit := make(map[string]bool, len(editors))
	for _, e := range editors {
		canEdit[e] = true
	}

	users, err := s.userRepository.FindByUsernames(ctx, viewers)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch collaborators")
	}
	return transformer.CollaboratorsToJSON(users, canEdit), nil
}

// GetProjectOverview returns the project with its tag types and analysis groups.
func (s *projectContextService) GetProjectOverview(ctx context.Context, project models.Project, user models.User) (dtos.JSON, error) {
	projectsJSON, err := transformer.ProjectsToJSON(ctx, s.preloader, []models.Project{project}, &user, s.accessControl)
	if err != nil {
		return nil, errors.Wrap(err, "could not transform project")
	}
	projectsByGUID := dtos.ByGUID(projectsJSON, "projectGuid")
	if err := s.AddProjectTagTypes(ctx, projectsByGUID); err != nil {
		return nil, err
	}

	groups, err := s.analysisGroupRepository.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch analysis groups")
	}
	groupsJSON, err := transformer.AnalysisGroupsToJSON(ctx, s.preloader, groups, project.GUID)
	if err != nil {
		return nil, errors.Wrap(err, "could not transform analysis groups")
	}

	return dtos.JSON{
		"projectsByGuid":       projectsByGUID,
		"analysisGroupsByGuid": dtos.ByGUID(groupsJSON, "analysisGroupGuid"),
	}, nil
}
