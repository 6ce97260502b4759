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
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tomoncle/quarry/database"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

// Upsert inserts entity or updates the row with the same primary key. The
// returned flag is true when the row did not exist before. tx may be nil.
func (s *Store[T]) Upsert(ctx context.Context, tx *bun.Tx, entity *T) (*T, bool, error) {
	start := time.Now()
	var db bun.IDB = s.db
	if tx != nil {
		db = *tx
	}
	table := s.table()
	exists := false
	var err error
	if !hasZeroPK(table, entity) {
		if exists, err = db.NewSelect().Model(entity).WherePK().Exists(ctx); err != nil {
			return nil, false, err
		}
	}

	fields := columnNames(table.DataFields)
	keys := columnNames(table.PKs)
	switch {
	case len(fields) == 0:
		err = s.insertOrUpdate(ctx, db, entity)
	case s.db.HasFeature(feature.InsertOnConflict):
		err = s.upsertOnConflict(ctx, db, entity, fields, keys)
	case s.db.HasFeature(feature.InsertOnDuplicateKey):
		err = s.upsertOnDuplicateKey(ctx, db, entity, fields)
	default:
		err = s.insertOrUpdate(ctx, db, entity)
	}
	if err != nil {
		return nil, false, err
	}
	s.trace("upsert", start, logrus.Fields{"inserted": !exists})
	return entity, !exists, nil
}

func (s *Store[T]) upsertOnDuplicateKey(ctx context.Context, db bun.IDB, entity *T, fields []string) error {
	q := db.NewInsert().Model(entity).On("DUPLICATE KEY UPDATE")
	for _, field := range fields {
		q = q.Set("? = VALUES(?)", bun.Ident(field), bun.Ident(field))
	}
	_, err := q.Exec(ctx)
	return err
}

func (s *Store[T]) upsertOnConflict(ctx context.Context, db bun.IDB, entity *T, fields []string, keys []string) error {
	if len(keys) == 0 {
		keys = []string{"id"}
	}
	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		placeholders = append(placeholders, "?")
		args = append(args, bun.Ident(key))
	}
	q := db.NewInsert().
		Model(entity).
		On("CONFLICT ("+strings.Join(placeholders, ", ")+") DO UPDATE", args...)
	for _, field := range fields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(field), bun.Ident(field))
	}
	_, err := q.Exec(ctx)
	return err
}

// insertOrUpdate is used by dialects without a native upsert: insert, and
// update by primary key when the insert hits a duplicate key.
func (s *Store[T]) insertOrUpdate(ctx context.Context, db bun.IDB, entity *T) error {
	_, err := db.NewInsert().Model(entity).Exec(ctx)
	if err == nil {
		return nil
	}
	if _, kind := database.IsSqlError(err); kind != database.DuplicateKeyErr {
		return err
	}
	s.logger.WithError(err).Debug("insert hit a duplicate key, updating instead")
	if _, updateErr := db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
		return fmt.Errorf("upsert failed: insert error: %v, update error: %w", err, updateErr)
	}
	return nil
}

// hasZeroPK reports whether some primary key of entity is unset, in which
// case the row cannot exist yet.
func hasZeroPK(table *schema.Table, entity any) bool {
	if len(table.PKs) == 0 {
		return true
	}
	v := reflect.ValueOf(entity).Elem()
	for _, pk := range table.PKs {
		if pk.HasZeroValue(v) {
			return true
		}
	}
	return false
}

func columnNames(fields []*schema.Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}
