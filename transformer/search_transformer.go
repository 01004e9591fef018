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
	"maps"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
)

// SavedSearchesToJSON hides hgmd filters of shared searches from users without analyst access.
func SavedSearchesToJSON(ctx context.Context, searches []models.VariantSearch, isAnalyst bool) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, nil, searches, Options[models.VariantSearch]{
		GUIDKey: "savedSearchGuid",
		Enricher: EnrichFunc[models.VariantSearch]{Fn: func(result dtos.JSON, search *models.VariantSearch) {
			if isAnalyst || search.CreatedByID != nil {
				return
			}
			pathogenicity, ok := search.Search["pathogenicity"].(map[string]any)
			if !ok {
				return
			}
			if _, ok := pathogenicity["hgmd"]; !ok {
				return
			}
			updated := maps.Clone(map[string]any(search.Search))
			p := maps.Clone(pathogenicity)
			delete(p, "hgmd")
			updated["pathogenicity"] = p
			result["search"] = updated
		}},
	})
}
