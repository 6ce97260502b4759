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
	"reflect"
	"strings"
	"time"

	"github.com/tomoncle/quarry/query"
)

var timeType = reflect.TypeOf(time.Time{})

// fieldByColumn finds the exported struct field stored in column, using the
// same naming as Bun: the name in the bun tag, else the snake_case Go name.
// Embedded structs without a column name are searched too.
func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("bun")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if strings.Contains(name, ":") {
			name = ""
		}
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			if f, ok := fieldByColumn(v.Field(i), column); ok {
				return f, true
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = query.ColumnName(sf.Name)
		}
		if name == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setTime stores now in a time.Time or *time.Time field. Other types are
// left untouched.
func setTime(f reflect.Value, now time.Time) bool {
	if !f.CanSet() {
		return false
	}
	switch {
	case f.Type() == timeType:
		f.Set(reflect.ValueOf(now))
	case f.Kind() == reflect.Pointer && f.Type().Elem() == timeType:
		t := now
		f.Set(reflect.ValueOf(&t))
	default:
		return false
	}
	return true
}
