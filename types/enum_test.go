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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type color int

func (c color) IsValid() bool  { return c >= 0 && c < 2 }
func (c color) Number() int    { return int(c) }
func (c color) Name() string   { return [...]string{"Red", "Blue"}[c] }
func (c color) Desc() string   { return "a color" }
func (c color) String() string { return c.Name() }

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Blue(1): a color", Describe(color(1)))
	assert.Equal(t, IllegalName, Describe(color(5)))
	assert.Equal(t, IllegalName, Describe(nil))
}
