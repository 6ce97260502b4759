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

	"github.com/tomoncle/quarry/query"
	"github.com/tomoncle/quarry/types"

	"github.com/uptrace/bun"
)

// Model is the store collaborator a repository delegates to. FindOne returns
// nil and no error when nothing matches. Upsert reports whether the entity
// was newly inserted.
type Model[T any] interface {
	FindAll(ctx context.Context, opts *query.Options) ([]*T, error)
	FindOne(ctx context.Context, opts *query.Options) (*T, error)
	FindAndCountAll(ctx context.Context, opts *query.Options) ([]*T, int, error)
	Upsert(ctx context.Context, tx *bun.Tx, entity *T) (*T, bool, error)
	Sum(ctx context.Context, field string, opts *query.Options) (float64, error)
	Count(ctx context.Context, opts *query.Options) (int, error)
}

// CrudRepository defines lookups and writes for a generic entity type.
type CrudRepository[T any] interface {
	Save(ctx context.Context, entity *T) (*T, error)

	SaveWithTx(ctx context.Context, tx *bun.Tx, entity *T) (*T, error)

	Upsert(ctx context.Context, tx *bun.Tx, entity *T) (*T, bool, error)

	FindAll(ctx context.Context) ([]*T, error)

	FindAllWhere(ctx context.Context, where *query.Where) ([]*T, error)

	FindOne(ctx context.Context, where *query.Where) (*T, error)

	FindByID(ctx context.Context, id any) (*T, error)
}

// PageQueryRepository defines paginated listing.
type PageQueryRepository[T any] interface {
	FindAllByCriteriaAndPaginated(ctx context.Context, req PageCriteria) (*types.Page[T], error)
	FindAndCountAll(ctx context.Context, req PageQuery) (*types.Page[T], error)
}

// AggregateRepository defines aggregates over a filtered set.
type AggregateRepository[T any] interface {
	Sum(ctx context.Context, field string, criteria *query.Criteria) (float64, error)
	Count(ctx context.Context, where *query.Where) (int, error)
}

// NamedQueryRepository runs queries derived from method names.
type NamedQueryRepository[T any] interface {
	NamedQuery(name string) (*NamedQuery[T], bool)
	NamedQueries() []string
	FindAllBy(ctx context.Context, name string, args ...any) ([]*T, error)
	FindOneBy(ctx context.Context, name string, args ...any) (*T, error)
}

// Repository combines every operation offered by Base.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	AggregateRepository[T]
	NamedQueryRepository[T]
	PrimaryKey() string
}

// PageCriteria requests one page filtered by Criteria. When OrderAttr is set
// rows are sorted by it, descending.
type PageCriteria struct {
	Criteria  *query.Criteria
	Page      int
	Size      int
	OrderAttr string
}

// PageQuery requests one page with a raw condition, ordering and include options.
type PageQuery struct {
	Condition *query.Where
	Order     []query.Order
	Page      int
	Size      int
	Include   query.Include
}
