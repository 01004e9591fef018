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

package transformer

import (
	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
)

// EnrichFunc adapts a plain function to an Enricher.
type EnrichFunc[T any] struct {
	Preload []string
	Fn      func(result dtos.JSON, entity *T)
}

func (e EnrichFunc[T]) Relations() []string {
	return e.Preload
}

func (e EnrichFunc[T]) Enrich(result dtos.JSON, entity *T) {
	if e.Fn != nil {
		e.Fn(result, entity)
	}
}

// chain runs enrichers in order. Nil entries are skipped.
type chain[T any] []Enricher[T]

func (c chain[T]) Relations() []string {
	relations := make([]string, 0)
	for _, e := range c {
		if e != nil {
			relations = append(relations, e.Relations()...)
		}
	}
	return relations
}

func (c chain[T]) Enrich(result dtos.JSON, entity *T) {
	for _, e := range c {
		if e != nil {
			e.Enrich(result, entity)
		}
	}
}

func guids[T interface{ GetGUID() string }](entities []T) []string {
	res := make([]string, 0, len(entities))
	for _, e := range entities {
		res = append(res, e.GetGUID())
	}
	return res
}

func userSummary(user *models.User) dtos.JSON {
	if user == nil {
		return nil
	}
	return dtos.JSON{"fullName": user.FullName(), "email": user.Email}
}

func isStaff(user *models.User) bool {
	return user != nil && user.IsStaff
}
