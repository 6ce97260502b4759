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
	"fmt"
)

var ErrInvalidOptions = errors.New("query: invalid options")

// Order sorts by a single field.
type Order struct {
	Field string
	Desc  bool
}

func Asc(field string) Order { return Order{Field: field} }

func Desc(field string) Order { return Order{Field: field, Desc: true} }

// Include describes which related entities are loaded with the result.
// All loads every relation known for the model; Relations names them one by one.
type Include struct {
	All       bool
	Relations []string
}

// IncludeAll eagerly loads every related entity.
var IncludeAll = Include{All: true}

// IncludeRelations loads only the named relations.
func IncludeRelations(names ...string) Include {
	return Include{Relations: names}
}

func (i Include) IsZero() bool {
	return !i.All && len(i.Relations) == 0
}

// Options is the structured form of the store query options. Zero Limit
// means no limit.
type Options struct {
	Where   *Where
	Limit   int
	Offset  int
	Order   []Order
	Include Include
}

// Validate rejects options the store cannot execute. Where fields are not
// checked here; the store reports unknown columns itself.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if o.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidOptions, o.Limit)
	}
	if o.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidOptions, o.Offset)
	}
	for i, ord := range o.Order {
		if ord.Field == "" {
			return fmt.Errorf("%w: order[%d] has no field", ErrInvalidOptions, i)
		}
	}
	if o.Include.All && len(o.Include.Relations) > 0 {
		return fmt.Errorf("%w: include all cannot be combined with named relations", ErrInvalidOptions)
	}
	for _, rel := range o.Include.Relations {
		if rel == "" {
			return fmt.Errorf("%w: empty relation name", ErrInvalidOptions)
		}
	}
	return nil
}
