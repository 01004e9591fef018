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

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/l3montree-dev/genoguard/accesscontrol"
	"github.com/l3montree-dev/genoguard/common"
	"github.com/l3montree-dev/genoguard/controllers"
	"github.com/l3montree-dev/genoguard/database"
	"github.com/l3montree-dev/genoguard/database/repositories"
	"github.com/l3montree-dev/genoguard/middlewares"
	"github.com/l3montree-dev/genoguard/router"
	"github.com/l3montree-dev/genoguard/services"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/l3montree-dev/genoguard/storage"
	"github.com/l3montree-dev/genoguard/variantsearch"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var release string // Will be filled at build time

//	@title			genoguard API
//	@version		v1
//	@description	genoguard saved variant API

//	@license.name	AGPL-3

// @host		localhost:8080
// @BasePath	/api/v1
func main() {
	shared.LoadConfig() // nolint: errcheck
	shared.InitLogger()

	if os.Getenv("SENTRY_DSN") != "" {
		initSentry()

		defer func() {
			if err := recover(); err != nil {
				sentry.CurrentHub().Recover(err)
				sentry.Flush(time.Second * 5)
			}
		}()
	}

	pool := database.NewPgxConnPool(database.GetPoolConfigFromEnv())
	db := database.NewGormDB(pool)

	if os.Getenv("DISABLE_AUTOMIGRATE") != "true" {
		slog.Info("running database migrations...")
		if err := database.RunMigrationsWithDB(db); err != nil {
			slog.Error("failed to run database migrations", "error", err)
			panic(errors.New("Failed to run database migrations"))
		}
	} else {
		slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
	}
	if err := database.AutoMigrate(db); err != nil {
		panic(err)
	}

	cacheClient, err := common.NewCacheClient(os.Getenv("REDIS_URL"))
	if err != nil {
		slog.Error("could not create cache client", "err", err)
		panic(err)
	}

	var rdb *redis.Client
	if redisCacheClient, ok := cacheClient.(*common.RedisCacheClient); ok {
		rdb = redisCacheClient.Client()
	}
	rbac, err := accesscontrol.NewCasbinRBAC(db, rdb)
	if err != nil {
		panic(err)
	}

	fileStore, err := storage.NewFileStoreFromEnv(context.Background())
	if err != nil {
		panic(err)
	}

	fx.New(
		fx.Supply(db),
		fx.Provide(func() shared.CacheClient { return cacheClient }),
		fx.Provide(func() shared.AccessControl { return rbac }),
		fx.Provide(func() shared.FileStore { return fileStore }),
		fx.Provide(func() shared.SearchIndex { return variantsearch.NewClient(os.Getenv("SEARCH_INDEX_URL")) }),
		fx.Provide(middlewares.Server),
		repositories.Module,
		services.Module,
		controllers.Module,
		router.Module,

		// we need to invoke all routers to register their routes
		fx.Invoke(func(ProjectRouter router.ProjectRouter) {}),
		fx.Invoke(startServer),
	).Run()
}

func startServer(lc fx.Lifecycle, srv *echo.Echo) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				slog.Info("starting server", "port", port)
				if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("failed to start server", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func initSentry() {
	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "dev"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		Environment:      environment,
		Release:          release,
		Debug:            environment == "dev",
		AttachStacktrace: true,
		SendDefaultPII:   false,
	})
	if err != nil {
		slog.Error("Failed to init sentry", "err", err)
	}
}
