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
	"log/slog"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
)

func ProjectsToJSON(ctx context.Context, preloader shared.Preloader, projects []models.Project, user *models.User, accessControl shared.AccessControl) ([]dtos.JSON, error) {
	return ModelsToJSON(ctx, preloader, projects, Options[models.Project]{
		User: user,
		Enricher: EnrichFunc[models.Project]{
			Preload: []string{"ProjectCategories"},
			Fn: func(result dtos.JSON, project *models.Project) {
				result["projectCategoryGuids"] = guids(project.ProjectCategories)
				result["canEdit"] = canEditProject(user, project.GUID, accessControl)
			},
		},
	})
}

func canEditProject(user *models.User, projectGUID string, accessControl shared.AccessControl) bool {
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	if accessControl == nil {
		return false
	}
	ok, err := accessControl.HasProjectPermission(*user, projectGUID, shared.PermissionCanEdit)
	if err != nil {
		slog.Error("could not check project permission", "err", err, "project", projectGUID, "user", user.Username)
		return false
	}
	return ok
}
