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
	"errors"
	"fmt"
)

var (
	ErrAbstractInstantiation = errors.New("repository: can not instantiate an abstract repository")
	ErrArityMismatch         = errors.New("repository: named query arity mismatch")
	ErrNamedQueryNotFound    = errors.New("repository: named query not found")
	ErrQueryKind             = errors.New("repository: named query kind mismatch")
	ErrNilModel              = errors.New("repository: model cannot be nil")
	ErrInvalidEntity         = errors.New("repository: invalid entity")
	ErrUndefinedArgument     = errors.New("repository: named query argument is undefined")
)

// ArityMismatchError is returned when a named query is called with a number
// of arguments different from the number of properties in its name.
type ArityMismatchError struct {
	Query string
	Want  int
	Got   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("repository: named query %s expects %d argument(s), got %d", e.Query, e.Want, e.Got)
}

func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrArityMismatch
}
