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

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/l3montree-dev/genoguard/database/repositories"
	"github.com/l3montree-dev/genoguard/monitoring"
	"github.com/l3montree-dev/genoguard/services"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/variantsearch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type reloadConfig struct {
	FamilyID string `mapstructure:"family-id"`
}

type reloadResult struct {
	updated map[string]int
	// order keeps the project order of the run for the summary
	order  []string
	failed map[string]error
}

func NewReloadSavedVariantJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reload-saved-variant-json [projectName|projectGuid...]",
		Short: "Reloads the saved variant json of the projects from the search index",
		Long:  `Reloads the saved variant json of the given projects. Without arguments every project is reloaded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg reloadConfig
			if err := viper.Unmarshal(&cfg); err != nil {
				return err
			}

			db := openDatabase()
			savedVariantService := services.NewSavedVariantService(
				repositories.NewSavedVariantRepository(db),
				repositories.NewVariantTagRepository(db),
				repositories.NewVariantNoteRepository(db),
				repositories.NewVariantFunctionalDataRepository(db),
				repositories.NewPreloader(db),
				variantsearch.NewClient(os.Getenv("SEARCH_INDEX_URL")),
			)

			_, err := reloadSavedVariantJSON(cmd.Context(), repositories.NewProjectRepository(db), savedVariantService, args, cfg.FamilyID)
			return err
		},
	}

	cmd.Flags().String("family-id", "", "only reload the saved variants of the family with this family id")
	return cmd
}

func reloadSavedVariantJSON(ctx context.Context, projectRepository shared.ProjectRepository, savedVariantService shared.SavedVariantService, identifiers []string, familyID string) (reloadResult, error) {
	result := reloadResult{updated: map[string]int{}, failed: map[string]error{}}

	projects, err := projectRepository.FindByNameOrGUID(ctx, identifiers)
	if err != nil {
		return result, err
	}

	for _, project := range projects {
		slog.Info(fmt.Sprintf("Project: %s", project.Name))
		updated, err := savedVariantService.UpdateProjectSavedVariantJSON(ctx, project, familyID, nil)
		if err != nil {
			slog.Error(fmt.Sprintf("Error in project %s: %s", project.Name, err))
			monitoring.SavedVariantsReloadFailedAmount.Inc()
			result.failed[project.Name] = err
			result.order = append(result.order, project.Name)
			continue
		}
		slog.Info(fmt.Sprintf("Updated %d variants for project %s", len(updated), project.Name))
		result.updated[project.Name] = len(updated)
		result.order = append(result.order, project.Name)
	}

	slog.Info("Done")
	slog.Info("Summary: ")
	for _, name := range result.order {
		if n := result.updated[name]; n > 0 {
			slog.Info(fmt.Sprintf("  %s: Updated %d variants", name, n))
		}
	}
	if len(result.failed) > 0 {
		slog.Info(fmt.Sprintf("%d failed projects", len(result.failed)))
		for _, name := range result.order {
			if err, ok := result.failed[name]; ok {
				slog.Info(fmt.Sprintf("  %s: %s", name, err))
			}
		}
	}
	return result, nil
}
