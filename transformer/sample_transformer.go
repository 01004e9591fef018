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

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
)

// SampleOptions carries already known parent guids. Empty guids are read through the relations.
type SampleOptions struct {
	IndividualGUID string
	FamilyGUID     string
	ProjectGUID    string
}

func (o SampleOptions) nestedFields() []NestedField {
	return []NestedField{
		{Fields: []string{"individual", "guid"}, Value: o.IndividualGUID},
		{Fields: []string{"individual", "family", "guid"}, Key: "familyGuid", Value: o.FamilyGUID},
		{Fields: []string{"individual", "family", "project", "guid"}, Key: "projectGuid", Value: o.ProjectGUID},
	}
}

func SamplesToJSON(ctx context.Context, preloader shared.Preloader, samples []models.Sample, opts SampleOptions) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, samples, Options[models.Sample]{NestedFields: opts.nestedFields()})
}

func IgvSamplesToJSON(ctx context.Context, preloader shared.Preloader, samples []models.IgvSample, opts SampleOptions) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, samples, Options[models.IgvSample]{NestedFields: opts.nestedFields()})
}

func AnalysisGroupsToJSON(ctx context.Context, preloader shared.Preloader, groups []models.AnalysisGroup, projectGUID string) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, groups, Options[models.AnalysisGroup]{
		NestedFields: []NestedField{{Fields: []string{"project", "guid"}, Value: projectGUID}},
		Enricher: EnrichFunc[models.AnalysisGroup]{
			Preload: []string{"Families"},
			Fn: func(result dtos.JSON, group *models.AnalysisGroup) {
				result["familyGuids"] = guids(group.Families)
			},
		},
	})
}

func RnaSeqOutliersToJSON(ctx context.Context, outliers []models.RnaSeqOutlier) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, nil, outliers, Options[models.RnaSeqOutlier]{})
}
