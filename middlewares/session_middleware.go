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

package middlewares

import (
	"log/slog"
	"strings"

	"github.com/l3montree-dev/genoguard/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserHeader carries the username authenticated by the reverse proxy.
const UserHeader = "X-Forwarded-User"

// SessionMiddleware resolves the proxy authenticated user. Unknown and inactive users are rejected.
func SessionMiddleware(userRepository shared.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			username := strings.TrimSpace(ctx.Request().Header.Get(UserHeader))
			if username == "" {
				return echo.NewHTTPError(401, "no user provided")
			}

			user, err := userRepository.FindByUsername(ctx.Request().Context(), username)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					slog.Warn("unknown user", "username", username)
					return echo.NewHTTPError(401, "unknown user")
				}
				return echo.NewHTTPError(500, "could not fetch user").WithInternal(err)
			}

			shared.SetUser(ctx, user)
			return next(ctx)
		}
	}
}

// StaffOnly rejects every user without the staff flag.
func StaffOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !shared.GetUser(ctx).IsStaff {
				return echo.NewHTTPError(403, "staff only")
			}
			return next(ctx)
		}
	}
}
