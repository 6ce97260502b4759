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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereKeepsInsertionOrder(t *testing.T) {
	w := NewWhere().
		Set("name", Eq("Ann")).
		Set("city", In([]string{"Oslo", "Bergen"})).
		Set("name", Like("A%"))

	assert.Equal(t, []string{"name", "city"}, w.Fields())
	assert.Equal(t, "{name: like(A%), city: in([Oslo Bergen])}", w.String())

	var seen []string
	w.Each(func(field string, _ Condition) { seen = append(seen, field) })
	assert.Equal(t, w.Fields(), seen)
}

func TestNilWhere(t *testing.T) {
	var w *Where
	assert.Equal(t, 0, w.Len())
	assert.Nil(t, w.Fields())
	assert.Nil(t, w.Clone())
	_, ok := w.Get("a")
	assert.False(t, ok)
	assert.Equal(t, "{}", w.String())
}

func TestOptionsValidate(t *testing.T) {
	var nilOpts *Options
	assert.NoError(t, nilOpts.Validate())
	assert.NoError(t, (&Options{}).Validate())
	assert.NoError(t, (&Options{
		Where:   NewWhere().Set("a", Eq(1)),
		Limit:   10,
		Offset:  20,
		Order:   []Order{Desc("created_at"), Asc("id")},
		Include: IncludeRelations("owner"),
	}).Validate())

	invalid := []*Options{
		{Limit: -1},
		{Offset: -5},
		{Order: []Order{{Desc: true}}},
		{Include: Include{All: true, Relations: []string{"owner"}}},
		{Include: IncludeRelations("")},
	}
	for _, opts := range invalid {
		err := opts.Validate()
		assert.True(t, errors.Is(err, ErrInvalidOptions), "%+v", opts)
	}
}

func TestInclude(t *testing.T) {
	assert.True(t, Include{}.IsZero())
	assert.False(t, IncludeAll.IsZero())
	assert.False(t, IncludeRelations("owner").IsZero())
}
