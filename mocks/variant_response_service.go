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

type VariantResponseService struct {
	mock.Mock
}

func (m *VariantResponseService) GetVariantsResponse(ctx context.Context, user models.User, savedVariants []models.SavedVariant, opts shared.VariantsResponseOptions) (dtos.VariantsResponse, error) {
	ret := m.Called(ctx, user, savedVariants, opts)
	res, _ := ret.Get(0).(dtos.VariantsResponse)
	return res, ret.Error(1)
}

// NewVariantResponseService creates a new instance of VariantResponseService. It also registers a cleanup function to assert the mocks expectations.
func NewVariantResponseService(t interface {
	mock.TestingT
	Cleanup(func())
}) *VariantResponseService {
	m := &VariantResponseService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
