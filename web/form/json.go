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
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/caiflower/http-message/pkg/tools"
)

// ParseJSON decodes a JSON document into a tree, keeping object keys in
// document order. Arrays become branches keyed "0".."n-1"; scalars become
// their text, with null as "". ok is false when data is not a single JSON
// value or when the value is empty: null, false, 0, "", {} or [].
func ParseJSON(data []byte) (node *Node[string], ok bool) {
	if !tools.ValidJSON(data) {
		return nil, false
	}
	iter := tools.NewJSONIterator(data)
	node, ok = readJSON(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, false
	}
	// anything after the value is an error
	iter.WhatIsNext()
	if iter.Error != io.EOF {
		return nil, false
	}
	return node, ok
}

func readJSON(iter *jsoniter.Iterator) (*Node[string], bool) {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		branch := NewBranch[string]()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			child, _ := readJSON(it)
			branch.Set(key, child)
			return it.Error == nil
		})
		return branch, branch.Len() > 0
	case jsoniter.ArrayValue:
		branch := NewBranch[string]()
		i := 0
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			child, _ := readJSON(it)
			branch.Set(strconv.Itoa(i), child)
			i++
			return it.Error == nil
		})
		return branch, branch.Len() > 0
	case jsoniter.StringValue:
		s := iter.ReadString()
		return NewLeaf(s), s != ""
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		f, err := n.Float64()
		return NewLeaf(n.String()), err != nil || f != 0
	case jsoniter.BoolValue:
		b := iter.ReadBool()
		return NewLeaf(strconv.FormatBool(b)), b
	case jsoniter.NilValue:
		iter.ReadNil()
		return NewLeaf(""), false
	default:
		iter.ReportError("ParseJSON", "unexpected value")
		return nil, false
	}
}
