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

package quarry

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/tomoncle/quarry/database"
	"github.com/tomoncle/quarry/query"
	"github.com/tomoncle/quarry/repository"
	"github.com/tomoncle/quarry/store"
	"github.com/tomoncle/quarry/types"
	"github.com/tomoncle/quarry/utils"

	"github.com/uptrace/bun"
)

// ErrNotInitialized is returned when the global database has not been set up
// with database.InitDB or database.SetDB.
var ErrNotInitialized = errors.New("quarry: database not initialized")

// Init applies the configured log level and connects the global database.
func Init(cfg *database.Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, errors.New("quarry: configuration cannot be nil")
	}
	if cfg.LogLevel != "" {
		utils.ConfigureLogLevel(cfg.LogLevel)
	}
	if cfg.FileLog.Enabled {
		if cfg.FileLog.Format != "" {
			utils.ConfigureFileLogFormat(cfg.FileLog.Format)
		}
		utils.ConfigureFileLog(cfg.FileLog.Dir, cfg.FileLog.MaxAgeDays)
	}
	return database.InitDB(cfg)
}

// Close disconnects the global database and closes the open log files.
func Close() error {
	defer utils.CloseFileLogs()
	return database.CloseDB()
}

// NewRepository builds the base of a concrete repository backed by a store
// on the global database.
//
//	type UserRepository struct{ *repository.Base[User] }
//
//	repo := &UserRepository{}
//	base, err := quarry.NewRepository[User](repo)
//	repo.Base = base
func NewRepository[T any](self any, opts ...repository.Option) (*repository.Base[T], error) {
	db := database.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return repository.New[T](self, store.New[T](db), opts...)
}

// RunInTransaction runs fn in a transaction on the global database.
func RunInTransaction(ctx context.Context, fn repository.TxFunc) error {
	return RunInTransactionWithOptions(ctx, nil, fn)
}

// RunInTransactionWithOptions is RunInTransaction with explicit isolation
// and read-only settings.
func RunInTransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn repository.TxFunc) error {
	db := database.GetDB()
	if db == nil {
		return ErrNotInitialized
	}
	return repository.RunInTransactionWithOptions(ctx, db, opts, fn)
}

// Service is a ready made facade over a repository for entities that need
// no named queries.
type Service[T any] interface {
	// Get returns the entity with the given primary key, or nil.
	Get(ctx context.Context, id any) (*T, error)

	// All returns every entity with its relations.
	All(ctx context.Context) ([]*T, error)

	// List returns the entities matching criteria.
	List(ctx context.Context, criteria *query.Criteria) ([]*T, error)

	// Page returns one page of the entities matching the request.
	Page(ctx context.Context, req repository.PageCriteria) (*types.Page[T], error)

	// Save inserts or updates an entity.
	Save(ctx context.Context, entity *T) (*T, error)

	// SaveWithTx saves an entity within a transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) (*T, error)

	// Sum adds up field over the entities matching criteria.
	Sum(ctx context.Context, field string, criteria *query.Criteria) (float64, error)

	// Count returns the number of entities matching criteria.
	Count(ctx context.Context, criteria *query.Criteria) (int, error)
}

type baseServiceImpl[T any] struct {
	opts []repository.Option
	repo *repository.Base[T]
	err  error
	once sync.Once
}

// NewService returns a Service backed by the global database. The
// repository is created on first use.
func NewService[T any](opts ...repository.Option) Service[T] {
	return &baseServiceImpl[T]{opts: opts}
}

func (s *baseServiceImpl[T]) baseRepo() (*repository.Base[T], error) {
	s.once.Do(func() { s.repo, s.err = NewRepository[T](s, s.opts...) })
	return s.repo, s.err
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, criteria *query.Criteria) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAllWhere(ctx, criteria.Where())
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, req repository.PageCriteria) (*types.Page[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAllByCriteriaAndPaginated(ctx, req)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, entity *T) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Save(ctx, entity)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.SaveWithTx(ctx, tx, entity)
}

func (s *baseServiceImpl[T]) Sum(ctx context.Context, field string, criteria *query.Criteria) (float64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Sum(ctx, field, criteria)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, criteria *query.Criteria) (int, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx, criteria.Where())
}
