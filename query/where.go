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
	"fmt"
	"strings"
)

// Where is an ordered mapping from field name to Condition. A nil *Where
// means "no filter". Setting a field twice keeps its first position and the
// last condition.
type Where struct {
	fields []string
	conds  map[string]Condition
}

// NewWhere returns an empty where-clause.
func NewWhere() *Where {
	return &Where{conds: make(map[string]Condition)}
}

// Set assigns cond to field and returns w for chaining.
func (w *Where) Set(field string, cond Condition) *Where {
	if w.conds == nil {
		w.conds = make(map[string]Condition)
	}
	if _, ok := w.conds[field]; !ok {
		w.fields = append(w.fields, field)
	}
	w.conds[field] = cond
	return w
}

func (w *Where) Get(field string) (Condition, bool) {
	if w == nil {
		return Condition{}, false
	}
	c, ok := w.conds[field]
	return c, ok
}

func (w *Where) Len() int {
	if w == nil {
		return 0
	}
	return len(w.fields)
}

// Fields returns the field names in insertion order.
func (w *Where) Fields() []string {
	if w == nil {
		return nil
	}
	fields := make([]string, len(w.fields))
	copy(fields, w.fields)
	return fields
}

// Each calls fn for every field in insertion order.
func (w *Where) Each(fn func(field string, cond Condition)) {
	if w == nil {
		return
	}
	for _, f := range w.fields {
		fn(f, w.conds[f])
	}
}

// Clone returns an independent copy of w.
func (w *Where) Clone() *Where {
	if w == nil {
		return nil
	}
	c := &Where{
		fields: make([]string, len(w.fields)),
		conds:  make(map[string]Condition, len(w.conds)),
	}
	copy(c.fields, w.fields)
	for k, v := range w.conds {
		c.conds[k] = v
	}
	return c
}

func (w *Where) String() string {
	parts := make([]string, 0, w.Len())
	w.Each(func(field string, cond Condition) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, cond))
	})
	return "{" + strings.Join(parts, ", ") + "}"
}
