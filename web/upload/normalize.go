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

package upload

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/caiflower/http-message/pkg/e"
	"github.com/caiflower/http-message/pkg/tools"
	"github.com/caiflower/http-message/web/form"
)

const (
	keyTmpName = "tmp_name"
	keyName    = "name"
	keyType    = "type"
	keySize    = "size"
	keyError   = "error"
)

// Descriptors is the conventional upload structure: per field either a record
// with tmp_name/name/type/size/error keys, a nested map of such records, or an
// *UploadedFile. For multi-file fields every record key maps to a parallel
// nested map keyed identically.
type Descriptors = map[string]interface{}

// Normalize reshapes descriptors into a tree of *UploadedFile leaves. Map keys
// are visited in sorted order.
func Normalize(files Descriptors) (*form.Node[*UploadedFile], error) {
	root := form.NewBranch[*UploadedFile]()
	for _, key := range sortedKeys(files) {
		child, err := normalizeItem(files[key])
		if err != nil {
			return nil, err
		}
		root.Set(key, child)
	}
	return root, nil
}

func normalizeItem(item interface{}) (*form.Node[*UploadedFile], error) {
	switch v := item.(type) {
	case *UploadedFile:
		return form.NewLeaf(v), nil
	case map[string]interface{}:
		if tmp, ok := v[keyTmpName]; ok && tmp != nil {
			return normalizeRecord(v)
		}
		return Normalize(v)
	default:
		return nil, e.NewApiError(e.InvalidArgument, "uploaded files structure invalid", fmt.Errorf("unexpected %T", item))
	}
}

func normalizeRecord(record map[string]interface{}) (*form.Node[*UploadedFile], error) {
	switch tmp := record[keyTmpName].(type) {
	case map[string]interface{}:
		if len(tmp) == 0 {
			return nil, e.NewApiError(e.InvalidArgument, `uploaded files "tmp_name" must be a non-empty map`, nil)
		}
		return normalizeParallel(tmp, record)
	case string:
		leaf, err := newLeaf(tmp, record[keyName], record[keyType], record[keySize], record[keyError])
		if err != nil {
			return nil, err
		}
		return form.NewLeaf(leaf), nil
	default:
		return nil, e.NewApiError(e.InvalidArgument, "uploaded files structure invalid", fmt.Errorf(`"tmp_name" is %T`, tmp))
	}
}

// normalizeParallel walks tmp_name and descends into size, error, name and type
// under the same keys. size and error must mirror every nested level of tmp_name.
func normalizeParallel(tmpNames map[string]interface{}, current map[string]interface{}) (*form.Node[*UploadedFile], error) {
	sizes, _ := current[keySize].(map[string]interface{})
	errs, _ := current[keyError].(map[string]interface{})
	names, _ := current[keyName].(map[string]interface{})
	types, _ := current[keyType].(map[string]interface{})

	out := form.NewBranch[*UploadedFile]()
	for _, key := range sortedKeys(tmpNames) {
		value := tmpNames[key]

		if nested, ok := value.(map[string]interface{}); ok {
			size, sizeOk := lookupMap(sizes, key)
			errCode, errOk := lookupMap(errs, key)
			if !sizeOk || !errOk {
				return nil, e.NewApiError(e.InvalidArgument,
					`uploaded files "size" and "error" must have the same structure as "tmp_name"`,
					fmt.Errorf("mismatch at key %q", key))
			}
			name, _ := lookupMap(names, key)
			typ, _ := lookupMap(types, key)

			child, err := normalizeParallel(nested, map[string]interface{}{
				keySize:  size,
				keyError: errCode,
				keyName:  name,
				keyType:  typ,
			})
			if err != nil {
				return nil, err
			}
			out.Set(key, child)
			continue
		}

		tmpName, ok := value.(string)
		if !ok {
			return nil, e.NewApiError(e.InvalidArgument, "uploaded files structure invalid", fmt.Errorf("tmp_name %q is %T", key, value))
		}
		leaf, err := newLeaf(tmpName, lookup(names, key), lookup(types, key), lookup(sizes, key), lookup(errs, key))
		if err != nil {
			return nil, err
		}
		out.Set(key, form.NewLeaf(leaf))
	}
	return out, nil
}

func newLeaf(tmpName string, name, typ, size, errCode interface{}) (*UploadedFile, error) {
	var opts []FileOption
	if name != nil {
		opts = append(opts, WithClientFilename(tools.ToString(name)))
	}
	if typ != nil {
		opts = append(opts, WithClientMediaType(tools.ToString(typ)))
	}
	if size != nil {
		n, ok := tools.ToInt64(size)
		if !ok {
			return nil, e.NewApiError(e.InvalidArgument, "uploaded file size invalid", fmt.Errorf("size is %v", size))
		}
		opts = append(opts, WithSize(n))
	}
	if errCode != nil {
		n, ok := tools.ToInt64(errCode)
		if !ok {
			return nil, e.NewApiError(e.InvalidArgument, "uploaded file error code invalid", fmt.Errorf("error is %v", errCode))
		}
		opts = append(opts, WithErrorCode(ErrorCode(n)))
	}
	return NewUploadedFile(tmpName, opts...), nil
}

func lookup(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func lookupMap(m map[string]interface{}, key string) (map[string]interface{}, bool) {
	v, ok := lookup(m, key).(map[string]interface{})
	return v, ok
}

func sortedKeys(m map[string]interface{}) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
