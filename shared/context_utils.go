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

package shared

import (
	"fmt"

	"github.com/l3montree-dev/genoguard/database/models"
)

func SetUser(ctx Context, user models.User) {
	ctx.Set("user", user)
}

func GetUser(ctx Context) models.User {
	return ctx.Get("user").(models.User)
}

func SetProject(ctx Context, project models.Project) {
	ctx.Set("project", project)
}

func GetProject(ctx Context) (models.Project, error) {
	project, ok := ctx.Get("project").(models.Project)
	if !ok {
		return models.Project{}, fmt.Errorf("could not get project")
	}
	return project, nil
}

func GetParam(ctx Context, param string) string {
	return SanitizeParam(ctx.Param(param))
}

// GetBoolQueryParam reads a boolean flag. Missing or unparsable values are false.
func GetBoolQueryParam(ctx Context, name string) bool {
	switch ctx.QueryParam(name) {
	case "true", "True", "1":
		return true
	}
	return false
}

func SetIndividual(ctx Context, individual models.Individual) {
	ctx.Set("individual", individual)
}

func GetIndividual(ctx Context) models.Individual {
	return ctx.Get("individual").(models.Individual)
}
