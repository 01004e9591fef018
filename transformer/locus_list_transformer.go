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

type LocusListOptions struct {
	User                *models.User
	IncludeGenes        bool
	IncludePaGenes      bool
	IncludeProjectCount bool
}

func LocusListsToJSON(ctx context.Context, preloader shared.Preloader, locusLists []models.LocusList, opts LocusListOptions) ([]dtos.JSON, error) {
	relations := []string{"Genes", "Intervals"}
	if opts.IncludePaGenes {
		relations = append(relations, "Genes.PaLocusListGene")
	}
	if opts.IncludeProjectCount {
		relations = append(relations, "Projects")
	}

	var intervalErr error
	results, err := ModelsToJSON(ctx, preloader, locusLists, Options[models.LocusList]{
		User: opts.User,
		Enricher: EnrichFunc[models.LocusList]{
			Preload: relations,
			Fn: func(result dtos.JSON, locusList *models.LocusList) {
				if opts.IncludeGenes {
					intervals, err := ModelsToJSON(ctx, nil, locusList.Intervals, Options[models.LocusListInterval]{})
					if err != nil {
						intervalErr = err
						return
					}
					items := make([]dtos.JSON, 0, len(locusList.Genes)+len(intervals))
					for _, gene := range locusList.Genes {
						items = append(items, locusListGeneItem(gene, opts.IncludePaGenes))
					}
					items = append(items, intervals...)
					result["items"] = items
					result["intervalGenomeVersion"] = singleGenomeVersion(locusList.Intervals)
				}
				if opts.IncludeProjectCount {
					result["numProjects"] = len(locusList.Projects)
				}
				result["numEntries"] = len(locusList.Genes) + len(locusList.Intervals)
				result["canEdit"] = opts.User != nil && locusList.CreatedByID != nil && *locusList.CreatedByID == opts.User.ID
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if intervalErr != nil {
		return nil, intervalErr
	}
	return results, nil
}

func locusListGeneItem(gene models.LocusListGene, includePaGene bool) dtos.JSON {
	item := dtos.JSON{"geneId": gene.GeneID}
	if includePaGene && gene.PaLocusListGene != nil {
		item["pagene"] = dtos.JSON{
			"confidenceLevel":   gene.PaLocusListGene.ConfidenceLevel,
			"biotype":           gene.PaLocusListGene.Biotype,
			"penetrance":        gene.PaLocusListGene.Penetrance,
			"modeOfInheritance": gene.PaLocusListGene.ModeOfInheritance,
		}
	}
	return item
}

func singleGenomeVersion(intervals []models.LocusListInterval) any {
	versions := map[string]struct{}{}
	for _, i := range intervals {
		versions[i.GenomeVersion] = struct{}{}
	}
	if len(versions) != 1 {
		return nil
	}
	for v := range versions {
		return v
	}
	return nil
}
