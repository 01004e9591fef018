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

type FamilyOptions struct {
	User *models.User
	// ProjectGUID is used as projectGuid without loading the project.
	ProjectGUID        string
	AddIndividualGUIDs bool
	HasCaseReviewPerm  bool
}

func FamiliesToJSON(ctx context.Context, preloader shared.Preloader, families []models.Family, opts FamilyOptions) ([]dtos.JSON, error) {
	options := Options[models.Family]{User: opts.User}

	options.NestedFields = []NestedField{{Fields: []string{"project", "guid"}, Value: opts.ProjectGUID}}
	if opts.HasCaseReviewPerm {
		options.AdditionalFields = append(options.AdditionalFields, "case_review_notes", "case_review_summary")
	}

	relations := []string{"AnalysedBy.CreatedBy"}
	if opts.AddIndividualGUIDs {
		relations = append(relations, "Individuals")
	}

	options.Enricher = EnrichFunc[models.Family]{
		Preload: relations,
		Fn: func(result dtos.JSON, family *models.Family) {
			analysedBy := make([]dtos.JSON, 0, len(family.AnalysedBy))
			for _, a := range family.AnalysedBy {
				entry := dtos.JSON{"lastModifiedDate": a.LastModifiedDate, "dataType": a.DataType, "createdBy": nil}
				if a.CreatedBy != nil {
					entry["createdBy"] = dtos.JSON{
						"fullName": a.CreatedBy.FullName(),
						"email":    a.CreatedBy.Email,
						"isStaff":  a.CreatedBy.IsStaff,
					}
				}
				analysedBy = append(analysedBy, entry)
			}
			result["analysedBy"] = analysedBy

			result["pedigreeImage"] = pedigreeImageURL(family.PedigreeImage)

			if opts.AddIndividualGUIDs {
				result["individualGuids"] = guids(family.Individuals)
			}
			if family.DisplayName == "" {
				result["displayName"] = family.FamilyIdentifier
			}
			result["assignedAnalyst"] = userSummary(family.AssignedAnalyst)
		},
	}

	return ModelsToJSON(ctx, preloader, families, options)
}

func pedigreeImageURL(path *string) any {
	if path == nil || *path == "" {
		return nil
	}
	return "/media/" + *path
}
