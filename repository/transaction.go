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
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// Transactor opens store transactions. *bun.DB and bun.Tx satisfy it.
type Transactor interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

// TxFunc is a unit of work executed under a transaction handle.
type TxFunc func(ctx context.Context, tx *bun.Tx) error

// RunInTransaction executes fn in a new transaction. The transaction is
// committed when fn returns nil and rolled back when it returns an error or
// panics; fn's error is returned unchanged.
func RunInTransaction(ctx context.Context, db Transactor, fn TxFunc) error {
	return RunInTransactionWithOptions(ctx, db, nil, fn)
}

// RunInTransactionWithOptions is RunInTransaction with explicit isolation
// and read-only settings.
func RunInTransactionWithOptions(ctx context.Context, db Transactor, opts *sql.TxOptions, fn TxFunc) error {
	if db == nil {
		return errors.New("repository: transactor cannot be nil")
	}
	if fn == nil {
		return errors.New("repository: transaction callback cannot be nil")
	}
	return db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &tx)
	})
}
