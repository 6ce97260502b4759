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

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID int `json:"id"`
}

func TestGetPagination(t *testing.T) {
	assert.Equal(t, Paging{Limit: 5, Offset: 10}, GetPagination(2, 5))
	assert.Equal(t, Paging{Limit: 10, Offset: 0}, GetPagination(0, 0))
	assert.Equal(t, Paging{Limit: 10, Offset: 30}, GetPagination(3, -1))
	assert.Equal(t, Paging{Limit: 20, Offset: 0}, GetPagination(-4, 20))
}

func TestGetPagingData(t *testing.T) {
	rows := []*row{{ID: 1}, {ID: 2}}

	page := GetPagingData(23, rows, 2, 5)
	assert.Equal(t, 23, page.TotalItems)
	assert.Equal(t, rows, page.Rows)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)

	page = GetPagingData(20, rows, -1, 5)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 0, page.CurrentPage)
}

func TestGetPagingDataEdges(t *testing.T) {
	page := GetPagingData[row](7, nil, 1, 0)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)

	page = GetPagingData[row](0, nil, 0, 10)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPageJSON(t *testing.T) {
	data, err := json.Marshal(GetPagingData(1, []*row{{ID: 9}}, 0, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalItems":1,"rows":[{"id":9}],"totalPages":1,"currentPage":0}`, string(data))
}
