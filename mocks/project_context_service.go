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
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/mock"
)

type ProjectContextService struct {
	mock.Mock
}

func (m *ProjectContextService) AddProjectTagTypes(ctx context.Context, projectsByGUID map[string]dtos.JSON) error {
	return m.Called(ctx, projectsByGUID).Error(0)
}

func (m *ProjectContextService) AddFamiliesContext(ctx context.Context, response *dtos.VariantsResponse, families []models.Family, user models.User, opts shared.FamiliesContextOptions) error {
	return m.Called(ctx, response, families, user, opts).Error(0)
}

func (m *ProjectContextService) GetCollaborators(ctx context.Context, project models.Project) ([]dtos.JSON, error) {
	ret := m.Called(ctx, project)
	res, _ := ret.Get(0).([]dtos.JSON)
	return res, ret.Error(1)
}

func (m *ProjectContextService) GetProjectOverview(ctx context.Context, project models.Project, user models.User) (dtos.JSON, error) {
	ret := m.Called(ctx, project, user)
	res, _ := ret.Get(0).(dtos.JSON)
	return res, ret.Error(1)
}

// NewProjectContextService creates a new instance of ProjectContextService. It also registers a cleanup function to assert the mocks expectations.
func NewProjectContextService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProjectContextService {
	m := &ProjectContextService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
