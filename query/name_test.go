/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryName(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		fields []string
	}{
		{"FindAllByNameAndCity", KindFindAll, []string{"name", "city"}},
		{"findAllByNameAndCity", KindFindAll, []string{"name", "city"}},
		{"FindByEmail", KindFindOne, []string{"email"}},
		{"findByEmail", KindFindOne, []string{"email"}},
		{"FindByBrand", KindFindOne, []string{"brand"}},
		{"FindAllByAndrewAndCity", KindFindAll, []string{"andrew", "city"}},
		{"FindAllByLastNameAndUserID", KindFindAll, []string{"last_name", "user_id"}},
		{"FindByAddress2AndZip", KindFindOne, []string{"address2", "zip"}},
		{"FindAllByStandard", KindFindAll, []string{"standard"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := ParseQueryName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, desc.Name)
			assert.Equal(t, tt.kind, desc.Kind)
			assert.Equal(t, tt.fields, desc.Fields)
		})
	}
}

func TestParseQueryNameErrors(t *testing.T) {
	for _, name := range []string{"ThisMethodTakesNoConvention", "GetByName", "Find", ""} {
		_, err := ParseQueryName(name)
		assert.True(t, errors.Is(err, ErrNotQueryName), name)
		assert.False(t, IsQueryName(name), name)
	}

	for _, name := range []string{"FindBy", "FindAllBy", "findBy", "FindByNameAnd", "FindAllByNameAndCityAnd"} {
		_, err := ParseQueryName(name)
		assert.True(t, errors.Is(err, ErrInvalidQueryName), name)
		assert.True(t, IsQueryName(name), name)
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "name", ColumnName("Name"))
	assert.Equal(t, "name", ColumnName("name"))
	assert.Equal(t, "last_name", ColumnName("LastName"))
	assert.Equal(t, "user_id", ColumnName("UserID"))
	assert.Equal(t, "http_status", ColumnName("HTTPStatus"))
	assert.Equal(t, "updated_date", ColumnName("UpdatedDate"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "FindOne", KindFindOne.String())
	assert.Equal(t, "FindAll", KindFindAll.Name())
	assert.Equal(t, 1, KindFindAll.Number())
	assert.False(t, Kind(7).IsValid())
	assert.Equal(t, -1, Kind(7).Number())
}
