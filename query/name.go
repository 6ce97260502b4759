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

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomoncle/quarry/types"
)

var (
	ErrNotQueryName     = errors.New("query: not a named query")
	ErrInvalidQueryName = errors.New("query: invalid named query")
)

const (
	findAllPrefix = "FindAllBy"
	findOnePrefix = "FindBy"
	connector     = "And"
)

// Kind tells whether a named query returns one entity or many.
type Kind int

const (
	KindFindOne Kind = iota
	KindFindAll
)

var _ types.BaseEnum = KindFindOne

func (k Kind) IsValid() bool { return k == KindFindOne || k == KindFindAll }

func (k Kind) Number() int {
	if !k.IsValid() {
		return types.IllegalValue
	}
	return int(k)
}

func (k Kind) Name() string {
	switch k {
	case KindFindOne:
		return "FindOne"
	case KindFindAll:
		return "FindAll"
	default:
		return types.IllegalName
	}
}

func (k Kind) Desc() string {
	switch k {
	case KindFindOne:
		return "returns at most one entity"
	case KindFindAll:
		return "returns every matching entity"
	default:
		return types.IllegalDesc
	}
}

func (k Kind) String() string { return k.Name() }

// Descriptor is the parsed form of a query method name such as
// FindAllByNameAndCity: Kind FindAll, Fields [name city].
type Descriptor struct {
	Name   string
	Kind   Kind
	Fields []string
}

// IsQueryName reports whether name starts with a recognised prefix.
func IsQueryName(name string) bool {
	_, _, ok := splitPrefix(name)
	return ok
}

// ParseQueryName parses a FindBy/FindAllBy method name. Properties are split
// on the And connector and converted to column names.
func ParseQueryName(name string) (*Descriptor, error) {
	kind, rest, ok := splitPrefix(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotQueryName, name)
	}
	if rest == "" {
		return nil, fmt.Errorf("%w: %q names no property", ErrInvalidQueryName, name)
	}
	props := splitConnector(rest)
	fields := make([]string, 0, len(props))
	for _, p := range props {
		if p == "" {
			return nil, fmt.Errorf("%w: %q has an empty property", ErrInvalidQueryName, name)
		}
		fields = append(fields, ColumnName(p))
	}
	return &Descriptor{Name: name, Kind: kind, Fields: fields}, nil
}

func splitPrefix(name string) (Kind, string, bool) {
	for _, p := range []string{findAllPrefix, lowerFirst(findAllPrefix)} {
		if strings.HasPrefix(name, p) {
			return KindFindAll, name[len(p):], true
		}
	}
	for _, p := range []string{findOnePrefix, lowerFirst(findOnePrefix)} {
		if strings.HasPrefix(name, p) {
			return KindFindOne, name[len(p):], true
		}
	}
	return 0, "", false
}

// splitConnector cuts s on "And" only where it starts a new word, so
// properties such as Brand or Andrew stay whole. A trailing "And" yields an
// empty last part.
func splitConnector(s string) []string {
	var parts []string
	start := 0
	for i := 1; i+len(connector) <= len(s); i++ {
		if i <= start || !strings.HasPrefix(s[i:], connector) {
			continue
		}
		end := i + len(connector)
		if end < len(s) && !isUpper(s[end]) && !isDigit(s[end]) {
			continue
		}
		parts = append(parts, s[start:i])
		start = end
		i = start - 1
	}
	return append(parts, s[start:])
}

// ColumnName converts a Go style property name to the snake_case column name
// Bun derives for the same struct field: LastName -> last_name, UserID -> user_id.
func ColumnName(s string) string {
	b := make([]byte, 0, len(s)+5)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUpper(c) {
			b = append(b, c)
			continue
		}
		if i > 0 && i+1 < len(s) && (isLower(s[i-1]) || isLower(s[i+1])) {
			b = append(b, '_')
		}
		b = append(b, c+('a'-'A'))
	}
	return string(b)
}

func lowerFirst(s string) string {
	if s == "" || !isUpper(s[0]) {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
