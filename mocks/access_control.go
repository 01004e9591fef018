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
	"github.com/l3montree-dev/genoguard/database/models"
	"github.com/l3montree-dev/genoguard/shared"
	"github.com/stretchr/testify/mock"
)

type AccessControl struct {
	mock.Mock
}

func (m *AccessControl) HasProjectPermission(user models.User, projectGUID string, permission shared.Permission) (bool, error) {
	ret := m.Called(user, projectGUID, permission)
	return ret.Bool(0), ret.Error(1)
}

func (m *AccessControl) GrantProjectPermission(user models.User, projectGUID string, permission shared.Permission) error {
	return m.Called(user, projectGUID, permission).Error(0)
}

func (m *AccessControl) RevokeProjectPermission(user models.User, projectGUID string, permission shared.Permission) error {
	return m.Called(user, projectGUID, permission).Error(0)
}

func (m *AccessControl) GetProjectCollaborators(projectGUID string, permission shared.Permission) ([]string, error) {
	ret := m.Called(projectGUID, permission)
	usernames, _ := ret.Get(0).([]string)
	return usernames, ret.Error(1)
}

func (m *AccessControl) IsAnalyst(user models.User) (bool, error) {
	ret := m.Called(user)
	return ret.Bool(0), ret.Error(1)
}

func (m *AccessControl) GrantAnalyst(user models.User) error {
	return m.Called(user).Error(0)
}

// NewAccessControl creates a new instance of AccessControl. It also registers a cleanup function to assert the mocks expectations.
func NewAccessControl(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccessControl {
	m := &AccessControl{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
