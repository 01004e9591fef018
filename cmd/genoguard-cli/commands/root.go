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
	"log/slog"
	"strings"

	"github.com/l3montree-dev/genoguard/database"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "genoguard-cli",
	Short: "Management cli",
	Long:  `The genoguard cli runs maintenance tasks against the genoguard database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// initializeConfig lets every flag be set through a GENOGUARD_ prefixed environment variable,
// e.g. --family-id through GENOGUARD_FAMILY_ID.
func initializeConfig(cmd *cobra.Command) error {
	if err := shared.LoadConfig(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	viper.SetEnvPrefix("GENOGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	return viper.BindPFlags(cmd.Flags())
}

func openDatabase() *gorm.DB {
	return database.NewGormDB(database.NewPgxConnPool(database.GetPoolConfigFromEnv()))
}
