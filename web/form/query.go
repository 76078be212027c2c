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
	"net/url"
	"strings"
)

// ParseQuery decodes an urlencoded string into a tree. Bracket suffixes in
// names nest values: "a[b][c]=1" gives {a: {b: {c: "1"}}} and an empty
// bracket "a[]" appends under the next free integer key. A later plain name
// replaces an earlier value at the same level.
func ParseQuery(query string) *Node[string] {
	root := NewBranch[string]()
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		Insert(root, unescape(rawKey), unescape(rawValue))
	}
	return root
}

// Insert places value into root at the path encoded by name.
func Insert(root *Node[string], name, value string) {
	path := SplitName(name)
	if len(path) == 0 {
		return
	}
	insertLeaf(root, path, NewLeaf(value))
}

func insertLeaf[T any](root *Node[T], path []string, leaf *Node[T]) {
	cur := root
	for i, key := range path {
		last := i == len(path)-1
		if last {
			if key == "" {
				cur.Append(leaf)
			} else {
				cur.Set(key, leaf)
			}
			return
		}

		var next *Node[T]
		if key != "" {
			if child, ok := cur.Get(key); ok && !child.IsLeaf() {
				next = child
			}
		}
		if next == nil {
			next = NewBranch[T]()
			if key == "" {
				cur.Append(next)
			} else {
				cur.Set(key, next)
			}
		}
		cur = next
	}
}

// SplitName breaks a bracketed field name into its path. "a[b][]" gives
// ["a", "b", ""]. A name whose first bracket is never closed is taken
// literally, and anything after the last well formed bracket is ignored.
// An empty base name yields no path.
func SplitName(name string) []string {
	name = strings.TrimLeft(name, " ")
	open := strings.IndexByte(name, '[')
	if open < 0 {
		if name == "" {
			return nil
		}
		return []string{name}
	}
	if open == 0 {
		return nil
	}

	base := name[:open]
	closing := strings.IndexByte(name[open+1:], ']')
	if closing < 0 {
		return []string{name}
	}

	path := []string{base}
	pos := open
	for pos < len(name) && name[pos] == '[' {
		end := strings.IndexByte(name[pos+1:], ']')
		if end < 0 {
			break
		}
		path = append(path, name[pos+1:pos+1+end])
		pos = pos + 1 + end + 1
	}
	return path
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}
