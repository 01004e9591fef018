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

package database_test

import (
	"context"
	"testing"

	"github.com/l3montree-dev/genoguard/database"
	"github.com/l3montree-dev/genoguard/database/repositories"
	"github.com/l3montree-dev/genoguard/integrationtestutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	db, terminate := integrationtestutil.InitDatabaseContainer(t)
	defer terminate()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	t.Run("should leave a clean schema version", func(t *testing.T) {
		version, dirty, err := database.GetMigrationVersion(sqlDB)
		require.NoError(t, err)
		assert.Equal(t, uint(1), version)
		assert.False(t, dirty)
	})

	t.Run("should be a no-op when run twice", func(t *testing.T) {
		assert.NoError(t, database.RunMigrations(sqlDB))
	})

	t.Run("should store the fixtures with derived guids", func(t *testing.T) {
		f := integrationtestutil.CreateFixtures(t, db)
		assert.Regexp(t, `^R\d{4}_test_project$`, f.Project.GUID)
		assert.Regexp(t, `^F\d{6}_fam_1$`, f.Family.GUID)

		variants, err := repositories.NewSavedVariantRepository(db).ListByProjectAndGUIDs(context.Background(), f.Project.ID, []string{f.Variants[1].GUID})
		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.Equal(t, f.Variants[1].VariantID, variants[0].VariantID)
	})
}
