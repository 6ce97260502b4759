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
	"sync"
	"time"

	"github.com/tomoncle/quarry/query"

	"github.com/uptrace/bun"
)

type person struct {
	bun.BaseModel `bun:"table:people,alias:p"`

	ID          string `bun:"id,pk"`
	Name        string
	City        string
	Age         int
	UpdatedDate time.Time
}

type personRepository struct {
	*Base[person]
}

func (r *personRepository) FindAllByNameAndCity(ctx context.Context, name, city any) ([]*person, error) {
	return r.FindAllBy(ctx, "FindAllByNameAndCity", name, city)
}

func (r *personRepository) FindByName(ctx context.Context, name any) (*person, error) {
	return r.FindOneBy(ctx, "FindByName", name)
}

func (r *personRepository) ThisMethodTakesNoConvention() {}

type modelCall struct {
	method string
	field  string
	opts   *query.Options
	tx     *bun.Tx
}

// fakeModel records every call and answers with canned values.
type fakeModel[T any] struct {
	mu       sync.Mutex
	calls    []modelCall
	rows     []*T
	one      *T
	count    int
	sum      float64
	inserted bool
	err      error
}

func (m *fakeModel[T]) record(c modelCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *fakeModel[T]) last() modelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return modelCall{}
	}
	return m.calls[len(m.calls)-1]
}

func (m *fakeModel[T]) FindAll(_ context.Context, opts *query.Options) ([]*T, error) {
	m.record(modelCall{method: "FindAll", opts: opts})
	return m.rows, m.err
}

func (m *fakeModel[T]) FindOne(_ context.Context, opts *query.Options) (*T, error) {
	m.record(modelCall{method: "FindOne", opts: opts})
	return m.one, m.err
}

func (m *fakeModel[T]) FindAndCountAll(_ context.Context, opts *query.Options) ([]*T, int, error) {
	m.record(modelCall{method: "FindAndCountAll", opts: opts})
	return m.rows, m.count, m.err
}

func (m *fakeModel[T]) Upsert(_ context.Context, tx *bun.Tx, entity *T) (*T, bool, error) {
	m.record(modelCall{method: "Upsert", tx: tx})
	if m.err != nil {
		return nil, false, m.err
	}
	return entity, m.inserted, nil
}

func (m *fakeModel[T]) Sum(_ context.Context, field string, opts *query.Options) (float64, error) {
	m.record(modelCall{method: "Sum", field: field, opts: opts})
	return m.sum, m.err
}

func (m *fakeModel[T]) Count(_ context.Context, opts *query.Options) (int, error) {
	m.record(modelCall{method: "Count", opts: opts})
	return m.count, m.err
}
