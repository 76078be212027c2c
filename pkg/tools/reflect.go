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

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/modern-go/reflect2"
)

type TagFunc func(reflect.StructField, reflect.Value) error

// DoTagFunc applies every fn to each field of the struct v points to.
func DoTagFunc(v interface{}, fn ...TagFunc) error {
	if reflect2.IsNil(v) {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("DoTagFunc expects a pointer to struct, got %T", v)
	}

	indirect := rv.Elem()
	for i := 0; i < indirect.NumField(); i++ {
		field := indirect.Field(i)
		fieldStruct := indirect.Type().Field(i)

		for _, f := range fn {
			if err := f(fieldStruct, field); err != nil {
				return err
			}
		}
	}

	return nil
}

// SetDefaultValueIfNil sets a zero field to the value of its default tag. Nested
// structs and non-nil struct pointers are walked.
func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) error {
	if !vValue.CanSet() {
		return nil
	}

	def, hasDefault := structField.Tag.Lookup("default")
	switch vValue.Kind() {
	case reflect.Struct:
		for i := 0; i < vValue.NumField(); i++ {
			if err := SetDefaultValueIfNil(vValue.Type().Field(i), vValue.Field(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr:
		if vValue.IsNil() || vValue.Elem().Kind() != reflect.Struct {
			return nil
		}
		return SetDefaultValueIfNil(reflect.StructField{Type: vValue.Elem().Type()}, vValue.Elem())
	}

	if !hasDefault || !vValue.IsZero() {
		return nil
	}

	switch vValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(def, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, def, err)
		}
		vValue.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(def, 10, 64)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, def, err)
		}
		vValue.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(def, 64)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, def, err)
		}
		vValue.SetFloat(v)
	case reflect.Bool:
		v, err := strconv.ParseBool(def)
		if err != nil {
			return fmt.Errorf("field %s default %q: %w", structField.Name, def, err)
		}
		vValue.SetBool(v)
	case reflect.String:
		vValue.SetString(def)
	}

	return nil
}
