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

package integrationtestutil

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/l3montree-dev/genoguard/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// InitDatabaseContainer starts a postgres container, runs the sql migrations and the automigration.
// Tests are skipped when no container runtime is available.
func InitDatabaseContainer(t *testing.T) (*gorm.DB, func()) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	dbName := "genoguard"
	dbUser := "user"
	dbPassword := "password"

	postgresC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)

	terminate := func() {
		if err := testcontainers.TerminateContainer(postgresC); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if err != nil {
		slog.Info("failed to start postgres container", "error", err)
		t.Fatal(err)
	}

	host, _ := postgresC.Host(ctx)
	port, _ := postgresC.MappedPort(ctx, "5432")

	cfg := database.GetPoolConfigFromEnv()
	cfg.Host = host
	cfg.Port = port.Port()
	cfg.User = dbUser
	cfg.Password = dbPassword
	cfg.DBName = dbName
	cfg.MinConns = 0

	db := database.NewGormDB(database.NewPgxConnPool(cfg))

	if err := database.RunMigrationsWithDB(db); err != nil {
		terminate()
		t.Fatalf("failed to run migrations: %s", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		terminate()
		t.Fatalf("failed to automigrate: %s", err)
	}

	return db, terminate
}
