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

package basic

// OrderedMap keeps keys in first-insertion order. Re-putting an existing key
// replaces its value in place.
type OrderedMap[K comparable, V any] struct {
	itemMap map[K]*orderedMapNode[K, V]
	head    *orderedMapNode[K, V]
	tail    *orderedMapNode[K, V]
}

type orderedMapNode[K comparable, V any] struct {
	key   K
	value V
	prev  *orderedMapNode[K, V]
	next  *orderedMapNode[K, V]
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		itemMap: make(map[K]*orderedMapNode[K, V]),
	}
}

func (m *OrderedMap[K, V]) Put(k K, v V) {
	if n, ok := m.itemMap[k]; ok {
		n.value = v
		return
	}

	n := &orderedMapNode[K, V]{
		key:   k,
		value: v,
	}
	m.itemMap[k] = n

	if m.tail == nil { // first node
		m.head = n
		m.tail = n
		return
	}

	n.prev = m.tail
	m.tail.next = n
	m.tail = n
}

func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	if n, ok := m.itemMap[k]; ok {
		return n.value, true
	}
	var zero V
	return zero, false
}

func (m *OrderedMap[K, V]) Remove(k K) {
	n, ok := m.itemMap[k]
	if !ok {
		return
	}

	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if m.head == n {
		m.head = n.next
	}
	if m.tail == n {
		m.tail = n.prev
	}
	delete(m.itemMap, k)
}

func (m *OrderedMap[K, V]) Size() int {
	return len(m.itemMap)
}

func (m *OrderedMap[K, V]) Contains(k K) bool {
	_, ok := m.itemMap[k]
	return ok
}

func (m *OrderedMap[K, V]) Keys() []K {
	res := make([]K, 0, len(m.itemMap))
	for p := m.head; p != nil; p = p.next {
		res = append(res, p.key)
	}
	return res
}

func (m *OrderedMap[K, V]) Values() []V {
	res := make([]V, 0, len(m.itemMap))
	for p := m.head; p != nil; p = p.next {
		res = append(res, p.value)
	}
	return res
}

// Range walks entries in order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(k K, v V) bool) {
	for p := m.head; p != nil; p = p.next {
		if !fn(p.key, p.value) {
			return
		}
	}
}

// Clone returns a shallow copy with the same order.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	c := NewOrderedMap[K, V]()
	for p := m.head; p != nil; p = p.next {
		c.Put(p.key, p.value)
	}
	return c
}
