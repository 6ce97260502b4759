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

import "math"

// DefaultPageSize is the limit used when no page size is given.
const DefaultPageSize = 10

// Paging is the limit/offset pair derived from a page request.
type Paging struct {
	Limit  int
	Offset int
}

// GetPagination converts a zero-based page and a page size into limit and
// offset. A size <= 0 means DefaultPageSize, a page <= 0 means offset 0.
func GetPagination(page int, size int) Paging {
	limit := DefaultPageSize
	if size > 0 {
		limit = size
	}
	offset := 0
	if page > 0 {
		offset = page * limit
	}
	return Paging{Limit: limit, Offset: offset}
}

// Page is the envelope returned by paginated queries.
type Page[T any] struct {
	TotalItems  int  `json:"totalItems"`
	Rows        []*T `json:"rows"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
}

// GetPagingData shapes a count and the rows of one page into a Page.
// TotalPages is 0 when limit is not positive.
func GetPagingData[T any](count int, rows []*T, page int, limit int) *Page[T] {
	if rows == nil {
		rows = make([]*T, 0)
	}
	current := 0
	if page > 0 {
		current = page
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(count) / float64(limit)))
	}
	return &Page[T]{
		TotalItems:  count,
		Rows:        rows,
		TotalPages:  totalPages,
		CurrentPage: current,
	}
}
