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

import "reflect"

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks a value that was never provided. Terms carrying it are
// dropped by Criteria, unlike nil which is kept and compared as NULL.
var Undefined any = undefined{}

// Opt returns *p, or Undefined when p is nil.
func Opt[T any](p *T) any {
	if p == nil {
		return Undefined
	}
	return *p
}

// IsEmpty reports whether v is Undefined, an empty string or an empty
// slice/array. nil is not empty.
func IsEmpty(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(undefined); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

// IsNull reports whether v compares as SQL NULL: nil or a nil pointer.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// Term is a (field, value, condition) triple. Value only decides whether the
// term is kept; Condition is what ends up in the where-clause.
type Term struct {
	Field     string
	Value     any
	Condition Condition
}

// Criteria is an immutable where-clause composed from terms whose value is
// not empty.
type Criteria struct {
	where *Where
}

// NewCriteria folds terms in order, silently dropping the ones with an empty
// value. A later term on the same field replaces the earlier one.
func NewCriteria(terms []Term) *Criteria {
	w := NewWhere()
	for _, t := range terms {
		if IsEmpty(t.Value) {
			continue
		}
		w.Set(t.Field, t.Condition)
	}
	return &Criteria{where: w}
}

// Where returns a copy of the composed where-clause, ready to be passed to a
// repository.
func (c *Criteria) Where() *Where {
	if c == nil {
		return nil
	}
	return c.where.Clone()
}

func (c *Criteria) Len() int {
	if c == nil {
		return 0
	}
	return c.where.Len()
}

func (c *Criteria) Has(field string) bool {
	if c == nil {
		return false
	}
	_, ok := c.where.Get(field)
	return ok
}

func (c *Criteria) String() string {
	if c == nil {
		return "{}"
	}
	return c.where.String()
}

// CriteriaBuilder accumulates terms across conditional branches. It is meant
// for a single owner and is not safe for concurrent use.
type CriteriaBuilder struct {
	terms []Term
}

func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// Add appends a term and returns the builder.
func (b *CriteriaBuilder) Add(field string, value any, cond Condition) *CriteriaBuilder {
	b.terms = append(b.terms, Term{Field: field, Value: value, Condition: cond})
	return b
}

// Build snapshots the current terms into a new Criteria. The builder keeps
// its terms, so it can keep growing after a build.
func (b *CriteriaBuilder) Build() *Criteria {
	return NewCriteria(b.terms)
}

// Clean drops the accumulated terms. Criteria built earlier are unaffected.
func (b *CriteriaBuilder) Clean() {
	b.terms = nil
}

func (b *CriteriaBuilder) Len() int {
	return len(b.terms)
}
