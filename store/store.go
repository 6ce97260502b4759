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

package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"sort"
	"time"

	"github.com/tomoncle/quarry/query"
	"github.com/tomoncle/quarry/repository"
	"github.com/tomoncle/quarry/utils"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// Store is the Bun implementation of repository.Model for entity type T.
type Store[T any] struct {
	db     *bun.DB
	logger *utils.Logger
}

var _ repository.Model[struct{}] = (*Store[struct{}])(nil)

// New returns a store for T backed by db.
func New[T any](db *bun.DB) *Store[T] {
	return &Store[T]{db: db, logger: utils.NewLogger("STORE")}
}

func (s *Store[T]) DB() *bun.DB { return s.db }

func (s *Store[T]) table() *schema.Table {
	return s.db.Table(reflect.TypeOf((*T)(nil)).Elem())
}

// relations resolves include options to relation names. IncludeAll expands
// to every relation declared on the model, sorted.
func (s *Store[T]) relations(inc query.Include) []string {
	if !inc.All {
		return inc.Relations
	}
	names := make([]string, 0)
	for name := range s.table().Relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store[T]) selectQuery(dest any, opts *query.Options) (*bun.SelectQuery, error) {
	q := s.db.NewSelect().Model(dest)
	if opts == nil {
		return q, nil
	}
	q, err := applyWhere(q, opts.Where)
	if err != nil {
		return nil, err
	}
	for _, rel := range s.relations(opts.Include) {
		q = q.Relation(rel)
	}
	q = applyOrder(q, opts.Order)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	return q, nil
}

func (s *Store[T]) FindAll(ctx context.Context, opts *query.Options) ([]*T, error) {
	start := time.Now()
	entities := make([]*T, 0)
	q, err := s.selectQuery(&entities, opts)
	if err != nil {
		return nil, err
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	s.trace("find all", start, logrus.Fields{"rows": len(entities)})
	return entities, nil
}

// FindOne returns nil, nil when no row matches.
func (s *Store[T]) FindOne(ctx context.Context, opts *query.Options) (*T, error) {
	start := time.Now()
	entity := new(T)
	q, err := s.selectQuery(entity, opts)
	if err != nil {
		return nil, err
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.trace("find one", start, nil)
	return entity, nil
}

func (s *Store[T]) FindAndCountAll(ctx context.Context, opts *query.Options) ([]*T, int, error) {
	start := time.Now()
	entities := make([]*T, 0)
	q, err := s.selectQuery(&entities, opts)
	if err != nil {
		return nil, 0, err
	}
	count, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	s.trace("find and count all", start, logrus.Fields{"rows": len(entities), "count": count})
	return entities, count, nil
}

// Sum returns SUM(field) over the matching rows, 0 when none match.
func (s *Store[T]) Sum(ctx context.Context, field string, opts *query.Options) (float64, error) {
	var sum sql.NullFloat64
	q := s.db.NewSelect().Model((*T)(nil)).ColumnExpr("SUM(?TableAlias.?)", bun.Ident(field))
	if opts != nil {
		var err error
		if q, err = applyWhere(q, opts.Where); err != nil {
			return 0, err
		}
	}
	if err := q.Scan(ctx, &sum); err != nil {
		return 0, err
	}
	return sum.Float64, nil
}

func (s *Store[T]) Count(ctx context.Context, opts *query.Options) (int, error) {
	q := s.db.NewSelect().Model((*T)(nil))
	if opts != nil {
		var err error
		if q, err = applyWhere(q, opts.Where); err != nil {
			return 0, err
		}
	}
	return q.Count(ctx)
}

func (s *Store[T]) trace(op string, start time.Time, fields logrus.Fields) {
	if !s.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	entry := s.logger.WithField("elapsed", utils.Since(start))
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debugf("%s %T", op, (*T)(nil))
}
