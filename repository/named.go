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

package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/tomoncle/quarry/query"
)

// NamedQuery is a query derived once from a method name and reused for every
// call.
type NamedQuery[T any] struct {
	desc query.Descriptor
	run  func(ctx context.Context, where *query.Where) ([]*T, error)
	one  func(ctx context.Context, where *query.Where) (*T, error)
}

func newNamedQuery[T any](model Model[T], desc *query.Descriptor) *NamedQuery[T] {
	q := &NamedQuery[T]{desc: *desc}
	q.one = func(ctx context.Context, where *query.Where) (*T, error) {
		return model.FindOne(ctx, &query.Options{Where: where, Include: query.IncludeAll})
	}
	if desc.Kind == query.KindFindOne {
		q.run = func(ctx context.Context, where *query.Where) ([]*T, error) {
			entity, err := q.one(ctx, where)
			if err != nil {
				return nil, err
			}
			if entity == nil {
				return make([]*T, 0), nil
			}
			return []*T{entity}, nil
		}
		return q
	}
	q.run = func(ctx context.Context, where *query.Where) ([]*T, error) {
		return model.FindAll(ctx, &query.Options{Where: where, Include: query.IncludeAll})
	}
	return q
}

func (q *NamedQuery[T]) Name() string { return q.desc.Name }

func (q *NamedQuery[T]) Kind() query.Kind { return q.desc.Kind }

// Fields returns the column names parsed from the query name, in order.
func (q *NamedQuery[T]) Fields() []string {
	fields := make([]string, len(q.desc.Fields))
	copy(fields, q.desc.Fields)
	return fields
}

// Where builds the where-clause for args. Slices and arrays become an In
// condition, any other value an Eq condition. Undefined is rejected.
func (q *NamedQuery[T]) Where(args ...any) (*query.Where, error) {
	if len(args) != len(q.desc.Fields) {
		return nil, &ArityMismatchError{Query: q.desc.Name, Want: len(q.desc.Fields), Got: len(args)}
	}
	where := query.NewWhere()
	for i, field := range q.desc.Fields {
		if args[i] == query.Undefined {
			return nil, fmt.Errorf("%w: %s argument %d (%s)", ErrUndefinedArgument, q.desc.Name, i+1, field)
		}
		if isSequence(args[i]) {
			where.Set(field, query.In(args[i]))
			continue
		}
		where.Set(field, query.Eq(args[i]))
	}
	return where, nil
}

// Find runs the query. A FindOne query yields at most one entity.
func (q *NamedQuery[T]) Find(ctx context.Context, args ...any) ([]*T, error) {
	where, err := q.Where(args...)
	if err != nil {
		return nil, err
	}
	return q.run(ctx, where)
}

// One runs a FindOne query and returns nil when nothing matches.
func (q *NamedQuery[T]) One(ctx context.Context, args ...any) (*T, error) {
	if q.desc.Kind != query.KindFindOne {
		return nil, fmt.Errorf("%w: %s is a %s query", ErrQueryKind, q.desc.Name, q.desc.Kind)
	}
	where, err := q.Where(args...)
	if err != nil {
		return nil, err
	}
	return q.one(ctx, where)
}

// isSequence reports whether v is a slice or array of values. []byte is a
// single value.
func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}

// declaredQueryNames lists the query-shaped methods of self that are not
// promoted from the base type.
func declaredQueryNames(self any, base reflect.Type) []string {
	inherited := make(map[string]struct{}, base.NumMethod())
	for i := 0; i < base.NumMethod(); i++ {
		inherited[base.Method(i).Name] = struct{}{}
	}
	t := reflect.TypeOf(self)
	names := make([]string, 0)
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if _, ok := inherited[name]; ok {
			continue
		}
		if query.IsQueryName(name) {
			names = append(names, name)
		}
	}
	return names
}

func deriveNamedQueries[T any](model Model[T], names []string) (map[string]*NamedQuery[T], error) {
	queries := make(map[string]*NamedQuery[T], len(names))
	for _, name := range names {
		if _, ok := queries[name]; ok {
			continue
		}
		desc, err := query.ParseQueryName(name)
		if err != nil {
			return nil, err
		}
		queries[name] = newNamedQuery(model, desc)
	}
	return queries, nil
}

func sortedQueryNames[T any](queries map[string]*NamedQuery[T]) []string {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
