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
	"strings"
	"time"

	"github.com/tomoncle/quarry/query"
	"github.com/tomoncle/quarry/types"
	"github.com/tomoncle/quarry/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
)

const (
	DefaultPrimaryKey   = "id"
	DefaultUpdatedField = "updated_date"
)

type options struct {
	primaryKey   string
	updatedField string
	namedQueries []string
	logger       *utils.Logger
	newKey       func() string
	now          func() time.Time
}

// Option configures a Base repository.
type Option func(*options)

// WithPrimaryKey sets the primary key column, "id" by default.
func WithPrimaryKey(column string) Option {
	return func(o *options) { o.primaryKey = column }
}

// WithUpdatedField sets the column stamped on every save, "updated_date" by
// default. An empty column disables stamping.
func WithUpdatedField(column string) Option {
	return func(o *options) { o.updatedField = column }
}

// WithNamedQueries registers query names that have no method on the
// concrete repository.
func WithNamedQueries(names ...string) Option {
	return func(o *options) { o.namedQueries = append(o.namedQueries, names...) }
}

func WithLogger(logger *utils.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKeyGenerator replaces the primary key generator used by Save.
func WithKeyGenerator(fn func() string) Option {
	return func(o *options) { o.newKey = fn }
}

// NewKey returns a 32 character hex token.
func NewKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Base is the generic repository embedded by concrete repositories. It is
// safe for concurrent use once constructed.
type Base[T any] struct {
	model        Model[T]
	primaryKey   string
	updatedField string
	queries      map[string]*NamedQuery[T]
	logger       *utils.Logger
	newKey       func() string
	now          func() time.Time
}

var _ Repository[struct{}] = (*Base[struct{}])(nil)

// New builds the base of a concrete repository. self is the concrete
// repository (usually a pointer to a struct embedding *Base[T]); its
// FindBy*/FindAllBy* methods are turned into named queries here, once.
// Passing nil or a Base itself fails with ErrAbstractInstantiation.
//
//	type UserRepository struct{ *repository.Base[User] }
//
//	func (r *UserRepository) FindAllByNameAndCity(ctx context.Context, name, city any) ([]*User, error) {
//		return r.FindAllBy(ctx, "FindAllByNameAndCity", name, city)
//	}
func New[T any](self any, model Model[T], opts ...Option) (*Base[T], error) {
	switch self.(type) {
	case nil, *Base[T], Base[T]:
		return nil, ErrAbstractInstantiation
	}
	if model == nil {
		return nil, ErrNilModel
	}
	if t := reflect.TypeOf((*T)(nil)).Elem(); t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidEntity, t)
	}

	o := &options{
		primaryKey:   DefaultPrimaryKey,
		updatedField: DefaultUpdatedField,
		newKey:       NewKey,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.primaryKey == "" {
		o.primaryKey = DefaultPrimaryKey
	}
	if o.logger == nil {
		o.logger = utils.NewLogger("REPOSITORY")
	}

	r := &Base[T]{
		model:        model,
		primaryKey:   o.primaryKey,
		updatedField: o.updatedField,
		logger:       o.logger,
		newKey:       o.newKey,
		now:          o.now,
	}
	names := append(declaredQueryNames(self, reflect.TypeOf(r)), o.namedQueries...)
	queries, err := deriveNamedQueries[T](model, names)
	if err != nil {
		return nil, err
	}
	r.queries = queries
	for _, name := range sortedQueryNames(queries) {
		q := queries[name]
		r.logger.WithFields(logrus.Fields{"kind": q.Kind(), "fields": q.Fields()}).
			Debugf("named query %s registered for %s", name, reflect.TypeOf(self))
	}
	return r, nil
}

// PrimaryKey returns the primary key column.
func (r *Base[T]) PrimaryKey() string { return r.primaryKey }

// Model returns the underlying store model.
func (r *Base[T]) Model() Model[T] { return r.model }

// Save upserts entity, generating a primary key when it has none and
// stamping the updated column. The persisted entity is returned for inserts
// and updates alike; use Upsert to learn which one happened.
func (r *Base[T]) Save(ctx context.Context, entity *T) (*T, error) {
	saved, _, err := r.Upsert(ctx, nil, entity)
	return saved, err
}

// SaveWithTx is Save inside the given transaction.
func (r *Base[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) (*T, error) {
	saved, _, err := r.Upsert(ctx, tx, entity)
	return saved, err
}

// Upsert is Save that also reports whether the entity was newly inserted.
// tx may be nil.
func (r *Base[T]) Upsert(ctx context.Context, tx *bun.Tx, entity *T) (*T, bool, error) {
	if entity == nil {
		return nil, false, fmt.Errorf("%w: nil entity", ErrInvalidEntity)
	}
	v := reflect.ValueOf(entity).Elem()
	if err := r.assignKey(v); err != nil {
		return nil, false, err
	}
	if r.updatedField != "" {
		if f, ok := fieldByColumn(v, r.updatedField); ok {
			setTime(f, r.now())
		}
	}
	saved, inserted, err := r.model.Upsert(ctx, tx, entity)
	if err != nil {
		return nil, false, err
	}
	if saved == nil {
		saved = entity
	}
	r.logger.WithField("inserted", inserted).Debugf("%T saved", entity)
	return saved, inserted, nil
}

// assignKey generates a key for an empty string primary key. Other key types
// are left to the store (auto increment).
func (r *Base[T]) assignKey(v reflect.Value) error {
	f, ok := fieldByColumn(v, r.primaryKey)
	if !ok {
		return fmt.Errorf("%w: %s has no field for primary key %q", ErrInvalidEntity, v.Type(), r.primaryKey)
	}
	if !f.IsZero() || !f.CanSet() {
		return nil
	}
	switch {
	case f.Kind() == reflect.String:
		f.SetString(r.newKey())
	case f.Kind() == reflect.Pointer && f.Type().Elem().Kind() == reflect.String:
		key := reflect.New(f.Type().Elem())
		key.Elem().SetString(r.newKey())
		f.Set(key)
	}
	return nil
}

// FindAll returns every entity with all related entities attached.
func (r *Base[T]) FindAll(ctx context.Context) ([]*T, error) {
	return r.findAll(ctx, &query.Options{Include: query.IncludeAll})
}

// FindAllWhere returns the entities matching where, relations attached.
func (r *Base[T]) FindAllWhere(ctx context.Context, where *query.Where) ([]*T, error) {
	return r.findAll(ctx, &query.Options{Where: where, Include: query.IncludeAll})
}

// FindOne returns the first entity matching where, or nil.
func (r *Base[T]) FindOne(ctx context.Context, where *query.Where) (*T, error) {
	opts := &query.Options{Where: where, Include: query.IncludeAll}
	if err := r.validate(opts); err != nil {
		return nil, err
	}
	return r.model.FindOne(ctx, opts)
}

// FindByID returns the entity whose primary key equals id, or nil.
func (r *Base[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return r.FindOne(ctx, query.NewWhere().Set(r.primaryKey, query.Eq(id)))
}

// FindAllByCriteriaAndPaginated returns one page of the entities matching
// req.Criteria. Without OrderAttr the store's default order is used.
func (r *Base[T]) FindAllByCriteriaAndPaginated(ctx context.Context, req PageCriteria) (*types.Page[T], error) {
	paging := types.GetPagination(req.Page, req.Size)
	opts := &query.Options{
		Where:   req.Criteria.Where(),
		Limit:   paging.Limit,
		Offset:  paging.Offset,
		Include: query.IncludeAll,
	}
	if req.OrderAttr != "" {
		opts.Order = []query.Order{query.Desc(req.OrderAttr)}
	}
	return r.page(ctx, opts, req.Page, paging.Limit)
}

// FindAndCountAll returns one page using a caller supplied condition, order
// and include options.
func (r *Base[T]) FindAndCountAll(ctx context.Context, req PageQuery) (*types.Page[T], error) {
	paging := types.GetPagination(req.Page, req.Size)
	opts := &query.Options{
		Where:   req.Condition,
		Limit:   paging.Limit,
		Offset:  paging.Offset,
		Order:   req.Order,
		Include: req.Include,
	}
	return r.page(ctx, opts, req.Page, paging.Limit)
}

// Sum adds up field over the entities matching criteria, or over all of them
// when criteria is nil.
func (r *Base[T]) Sum(ctx context.Context, field string, criteria *query.Criteria) (float64, error) {
	var opts *query.Options
	if criteria != nil {
		opts = &query.Options{Where: criteria.Where()}
	}
	return r.model.Sum(ctx, field, opts)
}

// Count returns the number of entities matching where.
func (r *Base[T]) Count(ctx context.Context, where *query.Where) (int, error) {
	return r.model.Count(ctx, &query.Options{Where: where})
}

// NamedQuery returns the query derived for name.
func (r *Base[T]) NamedQuery(name string) (*NamedQuery[T], bool) {
	q, ok := r.queries[name]
	return q, ok
}

// NamedQueries lists the derived query names, sorted.
func (r *Base[T]) NamedQueries() []string {
	return sortedQueryNames(r.queries)
}

// FindAllBy runs the named query name with args.
func (r *Base[T]) FindAllBy(ctx context.Context, name string, args ...any) ([]*T, error) {
	q, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return q.Find(ctx, args...)
}

// FindOneBy runs the FindBy query name with args and returns nil when
// nothing matches.
func (r *Base[T]) FindOneBy(ctx context.Context, name string, args ...any) (*T, error) {
	q, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return q.One(ctx, args...)
}

func (r *Base[T]) lookup(name string) (*NamedQuery[T], error) {
	q, ok := r.queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNamedQueryNotFound, name)
	}
	return q, nil
}

func (r *Base[T]) findAll(ctx context.Context, opts *query.Options) ([]*T, error) {
	if err := r.validate(opts); err != nil {
		return nil, err
	}
	return r.model.FindAll(ctx, opts)
}

func (r *Base[T]) page(ctx context.Context, opts *query.Options, page, limit int) (*types.Page[T], error) {
	if err := r.validate(opts); err != nil {
		return nil, err
	}
	rows, count, err := r.model.FindAndCountAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return types.GetPagingData(count, rows, page, limit), nil
}

func (r *Base[T]) validate(opts *query.Options) error {
	if err := opts.Validate(); err != nil {
		r.logger.WithError(err).Warn("rejected query options")
		return err
	}
	return nil
}
