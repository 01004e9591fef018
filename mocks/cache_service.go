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

package mocks

import (
	"context"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/stretchr/testify/mock"
)

type CacheService struct {
	mock.Mock
}

func (m *CacheService) ResetCachedSearchResults(ctx context.Context, project *models.Project, resetIndexMetadata bool) {
	m.Called(ctx, project, resetIndexMetadata)
}

// NewCacheService creates a new instance of CacheService. It also registers a cleanup function to assert the mocks expectations.
func NewCacheService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CacheService {
	m := &CacheService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
