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
	"io"

	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/dtos"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/mock"
)

type IgvService struct {
	mock.Mock
}

func (m *IgvService) UpdateIndividualIgvSample(ctx context.Context, user models.User, individual models.Individual, filePath string, sampleID *string) (dtos.JSON, error) {
	ret := m.Called(ctx, user, individual, filePath, sampleID)
	res, _ := ret.Get(0).(dtos.JSON)
	return res, ret.Error(1)
}

func (m *IgvService) ReceiveIgvTable(ctx context.Context, project models.Project, filename string, content io.Reader) (dtos.JSON, error) {
	ret := m.Called(ctx, project, filename, content)
	res, _ := ret.Get(0).(dtos.JSON)
	return res, ret.Error(1)
}

func (m *IgvService) FetchIgvTrack(ctx context.Context, project models.Project, trackPath string, rangeHeader string) (shared.FileStream, error) {
	ret := m.Called(ctx, project, trackPath, rangeHeader)
	stream, _ := ret.Get(0).(shared.FileStream)
	return stream, ret.Error(1)
}

// NewIgvService creates a new instance of IgvService. It also registers a cleanup function to assert the mocks expectations.
func NewIgvService(t interface {
	mock.TestingT
	Cleanup(func())
}) *IgvService {
	m := &IgvService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
