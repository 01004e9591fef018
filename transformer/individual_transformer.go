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
	"encoding/json"
	"log/slog"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
)

type IndividualOptions struct {
	User           *models.User
	FamilyGUID     string
	ProjectGUID    string
	AddSampleGUIDs bool
}

func IndividualsToJSON(ctx context.Context, preloader shared.Preloader, individuals []models.Individual, opts IndividualOptions) ([]dtos.JSON, error) {
	nested := []NestedField{
		{Fields: []string{"family", "guid"}, Value: opts.FamilyGUID},
		{Fields: []string{"family", "project", "guid"}, Key: "projectGuid", Value: opts.ProjectGUID},
	}

	relations := []string{}
	if opts.AddSampleGUIDs {
		relations = append(relations, "Samples", "IgvSamples")
	}

	return ModelsToJSON(ctx, preloader, individuals, Options[models.Individual]{
		User:         opts.User,
		NestedFields: nested,
		Enricher: EnrichFunc[models.Individual]{
			Preload: relations,
			Fn: func(result dtos.JSON, individual *models.Individual) {
				delete(result, "mother")
				delete(result, "father")
				result["maternalGuid"], result["maternalId"] = parentRef(individual.Mother)
				result["paternalGuid"], result["paternalId"] = parentRef(individual.Father)

				if opts.AddSampleGUIDs {
					result["sampleGuids"] = guids(individual.Samples)
					result["igvSampleGuids"] = guids(individual.IgvSamples)
				}

				result["caseReviewStatusLastModifiedBy"] = emailOrUsername(individual.CaseReviewStatusLastModifiedBy)
				result["phenotipsData"] = parsePhenotipsData(individual)

				if individual.DisplayName == "" {
					result["displayName"] = individual.IndividualIdentifier
				}
			},
		},
	})
}

func parentRef(parent *models.Individual) (any, any) {
	if parent == nil {
		return nil, nil
	}
	return parent.GUID, parent.IndividualIdentifier
}

func emailOrUsername(user *models.User) any {
	if user == nil {
		return nil
	}
	if user.Email != "" {
		return user.Email
	}
	return user.Username
}

func parsePhenotipsData(individual *models.Individual) any {
	if individual.PhenotipsData == nil || *individual.PhenotipsData == "" {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(*individual.PhenotipsData), &data); err != nil {
		slog.Warn("could not parse phenotips data", "individual", individual.GUID, "err", err)
		return nil
	}
	return data
}
