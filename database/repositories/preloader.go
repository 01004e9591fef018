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

package repositories

import (
	"context"

	"gorm.io/gorm"
)

type gormPreloader struct {
	db *gorm.DB
}

func NewPreloader(db *gorm.DB) *gormPreloader {
	return &gormPreloader{db: db}
}

// Preload reloads the rows by primary key and fetches every relation path with one query per hop.
func (p *gormPreloader) Preload(ctx context.Context, dest any, ids []uint, relations ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := p.db.WithContext(ctx)
	for _, r := range relations {
		q = q.Preload(r)
	}
	return q.Where("id IN ?", ids).Find(dest).Error
}
