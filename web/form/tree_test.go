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

package form

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTree() *Node[string] {
	root := NewBranch[string]()
	user := NewBranch[string]()
	user.Set("name", NewLeaf("Ann"))
	user.Set("age", NewLeaf("30"))
	root.Set("user", user)
	root.Set("token", NewLeaf("t1"))
	return root
}

func TestNode_Access(t *testing.T) {
	root := buildTree()

	assert.False(t, root.IsLeaf())
	assert.Equal(t, 2, root.Len())
	assert.Equal(t, []string{"user", "token"}, root.Keys())

	name, ok := root.Lookup("user", "name")
	assert.True(t, ok)
	assert.True(t, name.IsLeaf())
	assert.Equal(t, "Ann", name.Value())
	assert.Equal(t, 0, name.Len())
	assert.Nil(t, name.Keys())

	_, ok = root.Lookup("user", "missing")
	assert.False(t, ok)
	_, ok = root.Lookup("token", "deeper")
	assert.False(t, ok)

	self, ok := root.Lookup()
	assert.True(t, ok)
	assert.Same(t, root, self)

	_, ok = root.LeafValue("user")
	assert.False(t, ok)

	assert.False(t, name.Set("x", NewLeaf("y")))
}

func TestNode_Append(t *testing.T) {
	list := NewBranch[string]()
	for i := 0; i < 3; i++ {
		key, ok := list.Append(NewLeaf(strconv.Itoa(i)))
		assert.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), key)
	}
	list.Set("10", NewLeaf("ten"))
	list.Set("07", NewLeaf("not an index"))
	key, _ := list.Append(NewLeaf("eleven"))
	assert.Equal(t, "11", key)
}

func TestNode_Clone(t *testing.T) {
	root := buildTree()
	c := root.Clone()

	user, _ := c.Get("user")
	user.Set("name", NewLeaf("Bob"))
	c.Set("extra", NewLeaf("1"))

	v, _ := root.LeafValue("user", "name")
	assert.Equal(t, "Ann", v)
	assert.Equal(t, 2, root.Len())
	assert.Equal(t, 3, c.Len())

	var nilNode *Node[string]
	assert.Nil(t, nilNode.Clone())
}

func TestTransform(t *testing.T) {
	idx := ParseQuery("a[b]=1&a[c]=2&d=3&e=9")
	table := map[string]int{"1": 10, "2": 20, "3": 30}

	out := Transform(idx, func(key string) (int, bool) {
		v, ok := table[key]
		return v, ok
	})

	b, ok := out.LeafValue("a", "b")
	assert.True(t, ok)
	assert.Equal(t, 10, b)
	d, _ := out.LeafValue("d")
	assert.Equal(t, 30, d)
	_, ok = out.Get("e")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "d"}, out.Keys())

	reject := func(string) (int, bool) { return 0, false }
	assert.Nil(t, Transform(NewLeaf("1"), reject))
	leaf := Transform(NewLeaf("3"), func(key string) (int, bool) {
		v, ok := table[key]
		return v, ok
	})
	assert.Equal(t, 30, leaf.Value())
}

func TestNode_MarshalJSON(t *testing.T) {
	root := buildTree()
	b, err := root.MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t, `{"user":{"name":"Ann","age":"30"},"token":"t1"}`, string(b))

	b, err = NewBranch[string]().MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t, `{}`, string(b))
}
