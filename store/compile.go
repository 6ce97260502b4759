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
	"errors"
	"fmt"

	"github.com/tomoncle/quarry/query"

	"github.com/uptrace/bun"
)

var ErrUnsupportedOperator = errors.New("store: unsupported operator")

// applyWhere adds one predicate per field, qualified with the model alias so
// joined relations do not make columns ambiguous.
func applyWhere(q *bun.SelectQuery, where *query.Where) (*bun.SelectQuery, error) {
	var err error
	where.Each(func(field string, cond query.Condition) {
		if err != nil {
			return
		}
		col := bun.Ident(field)
		switch cond.Op {
		case query.OpEq:
			if query.IsNull(cond.Value) {
				q = q.Where("?TableAlias.? IS NULL", col)
			} else {
				q = q.Where("?TableAlias.? = ?", col, cond.Value)
			}
		case query.OpNe:
			if query.IsNull(cond.Value) {
				q = q.Where("?TableAlias.? IS NOT NULL", col)
			} else {
				q = q.Where("?TableAlias.? <> ?", col, cond.Value)
			}
		case query.OpIn:
			q = q.Where("?TableAlias.? IN (?)", col, bun.In(cond.Value))
		case query.OpNotIn:
			q = q.Where("?TableAlias.? NOT IN (?)", col, bun.In(cond.Value))
		case query.OpGt:
			q = q.Where("?TableAlias.? > ?", col, cond.Value)
		case query.OpGte:
			q = q.Where("?TableAlias.? >= ?", col, cond.Value)
		case query.OpLt:
			q = q.Where("?TableAlias.? < ?", col, cond.Value)
		case query.OpLte:
			q = q.Where("?TableAlias.? <= ?", col, cond.Value)
		case query.OpLike:
			q = q.Where("?TableAlias.? LIKE ?", col, cond.Value)
		default:
			err = fmt.Errorf("%w: %q on %s", ErrUnsupportedOperator, cond.Op, field)
		}
	})
	return q, err
}

func applyOrder(q *bun.SelectQuery, orders []query.Order) *bun.SelectQuery {
	for _, o := range orders {
		if o.Desc {
			q = q.OrderExpr("?TableAlias.? DESC", bun.Ident(o.Field))
		} else {
			q = q.OrderExpr("?TableAlias.? ASC", bun.Ident(o.Field))
		}
	}
	return q
}
