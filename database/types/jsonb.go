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

package databasetypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB is a json object column. Postgres hands out []byte, sqlite a string.
type JSONB map[string]any

func (jsonField JSONB) Value() (driver.Value, error) {
	if jsonField == nil {
		return nil, nil
	}
	return json.Marshal(jsonField)
}

func (jsonField *JSONB) Scan(value any) error {
	data, err := scanBytes(value)
	if err != nil || data == nil {
		return err
	}
	return json.Unmarshal(data, jsonField)
}

// StringArray is stored as a json array so it works for postgres and sqlite alike.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal([]string(a))
}

func (a *StringArray) Scan(value any) error {
	data, err := scanBytes(value)
	if err != nil || data == nil {
		return err
	}
	return json.Unmarshal(data, (*[]string)(a))
}

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported json column type %T", value)
	}
}
