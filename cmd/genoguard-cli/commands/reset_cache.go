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
	"os"

	"github.com/l3montree-dev/genoguard/common"
	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/database/repositories"
	"github.com/l3montree-dev/genoguard/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type resetCacheConfig struct {
	IndexMetadata bool `mapstructure:"index-metadata"`
}

func NewResetCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-cache [projectGuid]",
		Short: "Deletes cached search results",
		Long:  `Deletes the cached search results of the project. Without a project every cached search result is deleted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg resetCacheConfig
			if err := viper.Unmarshal(&cfg); err != nil {
				return err
			}

			db := openDatabase()
			cacheClient, err := common.NewCacheClient(os.Getenv("REDIS_URL"))
			if err != nil {
				return err
			}

			var project *models.Project
			if len(args) == 1 {
				p, err := repositories.NewProjectRepository(db).ReadByGUID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				project = &p
			}

			services.NewCacheService(cacheClient, repositories.NewVariantSearchResultsRepository(db)).
				ResetCachedSearchResults(cmd.Context(), project, cfg.IndexMetadata)
			return nil
		},
	}

	cmd.Flags().Bool("index-metadata", false, "also delete the cached index metadata")
	return cmd
}
