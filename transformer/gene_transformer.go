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
)

// GenesToJSON adds constraint scores and the gene notes to the gencode record of each gene.
func GenesToJSON(ctx context.Context, genes []models.GeneInfo, constraints map[string]models.GeneConstraint, totalConstrainedGenes int64, notesByGeneID map[string][]dtos.JSON) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, nil, genes, Options[models.GeneInfo]{
		Enricher: EnrichFunc[models.GeneInfo]{Fn: func(result dtos.JSON, gene *models.GeneInfo) {
			result["constraints"] = dtos.JSON{}
			if c, ok := constraints[gene.GeneID]; ok {
				result["constraints"] = dtos.JSON{
					"misZ":       c.MisZ,
					"misZRank":   c.MisZRank,
					"pli":        c.PLI,
					"pliRank":    c.PLIRank,
					"totalGenes": totalConstrainedGenes,
				}
			}
			notes := notesByGeneID[gene.GeneID]
			if notes == nil {
				notes = []dtos.JSON{}
			}
			result["notes"] = notes
		}},
	})
}
