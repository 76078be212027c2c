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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Header is a case-insensitive multi-valued header table. Names are stored
// upper-cased. Every mutation returns a new Header and leaves the receiver
// untouched, so a Header can be shared between message copies.
type Header struct {
	values map[string][]string
}

func NewHeader() Header {
	return Header{}
}

func normalizeName(name string) string {
	return strings.ToUpper(name)
}

func (h Header) clone() Header {
	c := Header{values: make(map[string][]string, len(h.values)+1)}
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}

// Set replaces all values under name. Without values it behaves like Remove.
func (h Header) Set(name string, values ...string) Header {
	if len(values) == 0 {
		return h.Remove(name)
	}
	c := h.clone()
	c.values[normalizeName(name)] = slices.Clone(values)
	return c
}

// Add appends values under name, or behaves like Set when name is absent.
// Without values it returns h unchanged.
func (h Header) Add(name string, values ...string) Header {
	if len(values) == 0 {
		return h
	}
	key := normalizeName(name)
	c := h.clone()
	merged := make([]string, 0, len(h.values[key])+len(values))
	merged = append(merged, h.values[key]...)
	c.values[key] = append(merged, values...)
	return c
}

func (h Header) Remove(name string) Header {
	key := normalizeName(name)
	if _, ok := h.values[key]; !ok {
		return h
	}
	c := h.clone()
	delete(c.values, key)
	return c
}

func (h Header) Has(name string) bool {
	_, ok := h.values[normalizeName(name)]
	return ok
}

// Get returns a copy of the values under name, empty when absent.
func (h Header) Get(name string) []string {
	v := h.values[normalizeName(name)]
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}

// Line joins the values under name with ",".
func (h Header) Line(name string) string {
	return strings.Join(h.values[normalizeName(name)], ",")
}

// Names returns the stored names in sorted order.
func (h Header) Names() []string {
	names := maps.Keys(h.values)
	slices.Sort(names)
	return names
}

func (h Header) Len() int {
	return len(h.values)
}

// All returns a copy of the table.
func (h Header) All() map[string][]string {
	out := make(map[string][]string, len(h.values))
	for k, v := range h.values {
		out[k] = slices.Clone(v)
	}
	return out
}
