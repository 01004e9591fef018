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

	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/mock"
)

type FileStore struct {
	mock.Mock
}

func (m *FileStore) DoesFileExist(ctx context.Context, path string) (bool, error) {
	ret := m.Called(ctx, path)
	return ret.Bool(0), ret.Error(1)
}

func (m *FileStore) Open(ctx context.Context, path string, byteRange *shared.ByteRange) (shared.FileStream, error) {
	ret := m.Called(ctx, path, byteRange)
	stream, _ := ret.Get(0).(shared.FileStream)
	return stream, ret.Error(1)
}

// NewFileStore creates a new instance of FileStore. It also registers a cleanup function to assert the mocks expectations.
func NewFileStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *FileStore {
	m := &FileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
