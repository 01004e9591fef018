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

import "github.com/pkg/errors"

// ErrPermissionDenied is returned by destructive operations the acting user may not perform.
var ErrPermissionDenied = errors.New("permission denied")

// ErrInvalidRequest marks input the caller has to fix, e.g. an unsupported igv file extension.
var ErrInvalidRequest = errors.New("invalid request")

var ErrNotFound = errors.New("not found")

// ErrRangeNotSatisfiable is returned when a byte range starts past the end of a file.
var ErrRangeNotSatisfiable = errors.New("range not satisfiable")

type Permission string

const (
	PermissionCanView Permission = "can_view"
	PermissionCanEdit Permission = "can_edit"
)
