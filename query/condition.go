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

import "fmt"

// Operator is the comparator applied to a field.
type Operator string

const (
	OpEq    Operator = "eq"
	OpNe    Operator = "ne"
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpLike  Operator = "like"
)

// Condition is a single predicate attachable to a field name.
type Condition struct {
	Op    Operator
	Value any
}

func (c Condition) String() string {
	return fmt.Sprintf("%s(%v)", c.Op, c.Value)
}

// Eq matches values equal to v. Eq(nil) and nil pointers match NULL.
func Eq(v any) Condition { return Condition{Op: OpEq, Value: v} }

// Ne matches values different from v. Ne(nil) and nil pointers match NOT NULL.
func Ne(v any) Condition { return Condition{Op: OpNe, Value: v} }

// In matches values that are members of the given slice or array.
func In(values any) Condition { return Condition{Op: OpIn, Value: values} }

// NotIn matches values that are not members of the given slice or array.
func NotIn(values any) Condition { return Condition{Op: OpNotIn, Value: values} }

// Gt matches values greater than v.
func Gt(v any) Condition { return Condition{Op: OpGt, Value: v} }

// Gte matches values greater than or equal to v.
func Gte(v any) Condition { return Condition{Op: OpGte, Value: v} }

// Lt matches values less than v.
func Lt(v any) Condition { return Condition{Op: OpLt, Value: v} }

// Lte matches values less than or equal to v.
func Lte(v any) Condition { return Condition{Op: OpLte, Value: v} }

// Like matches a SQL LIKE pattern.
func Like(pattern string) Condition { return Condition{Op: OpLike, Value: pattern} }
