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

package models

import (
	"strings"
	"time"
)

type User struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Username   string     `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"type:text"`
	FirstName  string     `json:"firstName" gorm:"type:text"`
	LastName   string     `json:"lastName" gorm:"type:text"`
	IsStaff    bool       `json:"isStaff" gorm:"default:false;not null"`
	IsActive   bool       `json:"isActive" gorm:"default:true;not null"`
	LastLogin  *time.Time `json:"lastLogin"`
	DateJoined time.Time  `json:"dateJoined"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) GetID() uint {
	return u.ID
}

func (u User) JSONFields() []string {
	return []string{"id", "username", "email", "first_name", "last_name", "last_login", "date_joined", "is_staff", "is_active"}
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name, falling back to the email address.
func (u User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}
