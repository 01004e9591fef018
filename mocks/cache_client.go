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

	"github.com/stretchr/testify/mock"
)

type CacheClient struct {
	mock.Mock
}

func (m *CacheClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	ret := m.Called(ctx, pattern)
	keys, _ := ret.Get(0).([]string)
	return keys, ret.Error(1)
}

func (m *CacheClient) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

// NewCacheClient creates a new instance of CacheClient. It also registers a cleanup function to assert the mocks expectations.
func NewCacheClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *CacheClient {
	m := &CacheClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
