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
	"bytes"
	"strconv"

	"github.com/caiflower/http-message/pkg/basic"
	"github.com/caiflower/http-message/pkg/tools"
)

// Node is either a leaf holding a value or a branch holding ordered children.
type Node[T any] struct {
	value     T
	children  *basic.OrderedMap[string, *Node[T]]
	nextIndex int
}

func NewLeaf[T any](v T) *Node[T] {
	return &Node[T]{value: v}
}

func NewBranch[T any]() *Node[T] {
	return &Node[T]{children: basic.NewOrderedMap[string, *Node[T]]()}
}

func (n *Node[T]) IsLeaf() bool {
	return n.children == nil
}

// Value returns the leaf value, or the zero value for a branch.
func (n *Node[T]) Value() T {
	return n.value
}

func (n *Node[T]) Len() int {
	if n.IsLeaf() {
		return 0
	}
	return n.children.Size()
}

func (n *Node[T]) Keys() []string {
	if n.IsLeaf() {
		return nil
	}
	return n.children.Keys()
}

func (n *Node[T]) Get(key string) (*Node[T], bool) {
	if n.IsLeaf() {
		return nil, false
	}
	return n.children.Get(key)
}

// Lookup follows path from n. An empty path returns n itself.
func (n *Node[T]) Lookup(path ...string) (*Node[T], bool) {
	cur := n
	for _, key := range path {
		child, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// LeafValue is Lookup followed by Value for paths that end at a leaf.
func (n *Node[T]) LeafValue(path ...string) (T, bool) {
	var zero T
	node, ok := n.Lookup(path...)
	if !ok || !node.IsLeaf() {
		return zero, false
	}
	return node.value, true
}

// Set stores child under key. It reports false when n is a leaf.
func (n *Node[T]) Set(key string, child *Node[T]) bool {
	if n.IsLeaf() {
		return false
	}
	n.children.Put(key, child)
	if i, err := strconv.Atoi(key); err == nil && i >= n.nextIndex && strconv.Itoa(i) == key {
		n.nextIndex = i + 1
	}
	return true
}

// Append stores child under the next free integer key and returns that key.
func (n *Node[T]) Append(child *Node[T]) (string, bool) {
	key := strconv.Itoa(n.nextIndex)
	return key, n.Set(key, child)
}

func (n *Node[T]) Range(fn func(key string, child *Node[T]) bool) {
	if n.IsLeaf() {
		return
	}
	n.children.Range(fn)
}

// Clone copies the tree structure. Leaf values are copied by assignment.
func (n *Node[T]) Clone() *Node[T] {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return NewLeaf(n.value)
	}
	c := NewBranch[T]()
	c.nextIndex = n.nextIndex
	n.children.Range(func(key string, child *Node[T]) bool {
		c.children.Put(key, child.Clone())
		return true
	})
	return c
}

// ToMap converts the tree to nested map[string]interface{} values with T leaves.
func (n *Node[T]) ToMap() interface{} {
	if n.IsLeaf() {
		return n.value
	}
	m := make(map[string]interface{}, n.children.Size())
	n.children.Range(func(key string, child *Node[T]) bool {
		m[key] = child.ToMap()
		return true
	})
	return m
}

// MarshalJSON writes branches as objects in key order.
func (n *Node[T]) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		return tools.Marshal(n.value)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	var err error
	i := 0
	n.children.Range(func(key string, child *Node[T]) bool {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var k, v []byte
		if k, err = tools.Marshal(key); err != nil {
			return false
		}
		if v, err = child.MarshalJSON(); err != nil {
			return false
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Transform maps every leaf through fn. Leaves for which fn reports false are
// dropped; branches are kept even when they end up empty. A leaf root that fn
// rejects gives nil.
func Transform[T, U any](n *Node[T], fn func(T) (U, bool)) *Node[U] {
	if n.IsLeaf() {
		u, ok := fn(n.value)
		if !ok {
			return nil
		}
		return NewLeaf(u)
	}

	out := NewBranch[U]()
	out.nextIndex = n.nextIndex
	n.children.Range(func(key string, child *Node[T]) bool {
		if child.IsLeaf() {
			if u, ok := fn(child.value); ok {
				out.children.Put(key, NewLeaf(u))
			}
			return true
		}
		out.children.Put(key, Transform(child, fn))
		return true
	})
	return out
}
