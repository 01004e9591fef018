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

package router

import (
	"database/sql"
	"os"
	"runtime"
	"time"

	"github.com/l3montree-dev/genoguard/database"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
)

// Version and Commit are set with -ldflags at build time.
var (
	Version string
	Commit  string
)

var startedAt = time.Now()

type InfoResponse struct {
	Version       string       `json:"version,omitempty"`
	Commit        string       `json:"commit,omitempty"`
	GoVersion     string       `json:"goVersion"`
	NumGoroutines int          `json:"numGoroutines"`
	Hostname      string       `json:"hostname,omitempty"`
	UptimeSeconds int          `json:"uptimeSeconds"`
	Database      DatabaseInfo `json:"database"`
}

type DatabaseInfo struct {
	sql.DBStats
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`

	MigrationVersion *uint   `json:"migrationVersion,omitempty"`
	MigrationDirty   *bool   `json:"migrationDirty,omitempty"`
	MigrationError   *string `json:"migrationError,omitempty"`
}

func info(db shared.DB) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		resp := InfoResponse{
			Version:       Version,
			Commit:        Commit,
			GoVersion:     runtime.Version(),
			NumGoroutines: runtime.NumGoroutine(),
			UptimeSeconds: int(time.Since(startedAt).Seconds()),
			Database:      databaseInfo(db),
		}
		resp.Hostname, _ = os.Hostname()

		return ctx.JSON(200, resp)
	}
}

func databaseInfo(db shared.DB) DatabaseInfo {
	dbInfo := DatabaseInfo{Status: "unknown"}
	sqlDB, err := db.DB()
	if err != nil {
		errMsg := "failed to get database instance"
		dbInfo.Status = "unhealthy"
		dbInfo.Error = &errMsg
		return dbInfo
	}
	if err := sqlDB.Ping(); err != nil {
		errMsg := "database ping failed"
		dbInfo.Status = "unhealthy"
		dbInfo.Error = &errMsg
		return dbInfo
	}

	dbInfo.Status = "healthy"
	dbInfo.DBStats = sqlDB.Stats()
	if ver, dirty, err := database.GetMigrationVersion(sqlDB); err == nil {
		dbInfo.MigrationVersion = &ver
		dbInfo.MigrationDirty = &dirty
	} else {
		errStr := err.Error()
		dbInfo.MigrationError = &errStr
	}
	return dbInfo
}
