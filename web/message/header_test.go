/*
 * Copyright 2024 caiflower Authors
 *
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

package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_CaseFolding(t *testing.T) {
	h := NewHeader().Set("X-Header", "a")
	for _, name := range []string{"X-Header", "x-header", strings.ToUpper("X-Header")} {
		assert.True(t, h.Has(name), name)
		assert.Equal(t, []string{"a"}, h.Get(name), name)
	}

	h = h.Add("x-HEADER", "b")
	assert.Equal(t, "a,b", h.Line("X-Header"))
	assert.Equal(t, []string{"X-HEADER"}, h.Names())
}

func TestHeader_CopyOnWrite(t *testing.T) {
	base := NewHeader().Set("A", "1")
	added := base.Add("A", "2").Set("B", "x")
	removed := added.Remove("a")

	assert.Equal(t, []string{"1"}, base.Get("a"))
	assert.False(t, base.Has("b"))
	assert.Equal(t, []string{"1", "2"}, added.Get("a"))
	assert.False(t, removed.Has("a"))
	assert.True(t, added.Has("a"))
	assert.Equal(t, 1, removed.Len())

	values := base.Get("a")
	values[0] = "changed"
	assert.Equal(t, "1", base.Line("a"))

	all := added.All()
	all["A"][0] = "changed"
	assert.Equal(t, "1,2", added.Line("a"))
}

func TestHeader_NoValues(t *testing.T) {
	h := NewHeader().Set("A", "1")
	assert.False(t, h.Set("a").Has("A"))
	assert.Equal(t, "1", h.Add("a").Line("A"))
	assert.False(t, NewHeader().Add("b").Has("b"))
	assert.True(t, h.Has("A"))
}

func TestHeader_Absent(t *testing.T) {
	var h Header
	assert.False(t, h.Has("x"))
	assert.Equal(t, []string{}, h.Get("x"))
	assert.Equal(t, "", h.Line("x"))
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Names())
	assert.Equal(t, h, h.Remove("x"))
}
