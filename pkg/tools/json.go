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

package tools

import jsoniter "github.com/json-iterator/go"

// jsonNumber decodes numbers as json.Number so large integers and decimals keep their text.
var jsonNumber = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

func Marshal(v interface{}) (bytes []byte, err error) {
	bytes, err = jsoniter.ConfigFastest.Marshal(v)
	return
}

// ValidJSON reports whether bytes starts with one complete JSON value.
func ValidJSON(bytes []byte) bool {
	return jsonNumber.Valid(bytes)
}

// NewJSONIterator returns a streaming iterator over bytes for callers that
// need to see object keys in document order.
func NewJSONIterator(bytes []byte) *jsoniter.Iterator {
	return jsoniter.ParseBytes(jsonNumber, bytes)
}
