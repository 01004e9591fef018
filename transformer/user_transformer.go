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
	"slices"
	"strings"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
)

func UserToJSON(user models.User) dtos.JSON {
	results, err := ModelsToJSON(context.Background(), nil, []models.User{user}, Options[models.User]{})
	if err != nil || len(results) == 0 {
		return dtos.JSON{"username": user.Username, "email": user.Email}
	}
	result := results[0]
	result["displayName"] = user.FullName()
	return result
}

// CollaboratorsToJSON lists the users of a project sorted by last name and display name.
// Every collaborator can view, canEdit decides the edit flag per username.
func CollaboratorsToJSON(users []models.User, canEdit map[string]bool) []dtos.JSON {
	sorted := slices.Clone(users)
	slices.SortStableFunc(sorted, func(a, b models.User) int {
		if c := strings.Compare(a.LastName, b.LastName); c != 0 {
			return c
		}
		return strings.Compare(a.FullName(), b.FullName())
	})

	res := make([]dtos.JSON, 0, len(sorted))
	for _, u := range sorted {
		collaborator := UserToJSON(u)
		collaborator["hasViewPermissions"] = true
		collaborator["hasEditPermissions"] = canEdit[u.Username]
		res = append(res, collaborator)
	}
	return res
}
