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

package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApiError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewApiError(Internal, "write temp file failed", cause)

	assert.Equal(t, 500, err.GetCode())
	assert.Equal(t, "InternalError", err.GetType())
	assert.Equal(t, "write temp file failed", err.GetMessage())
	assert.Equal(t, cause, err.GetCause())
	assert.Equal(t, "InternalError: write temp file failed: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestIs(t *testing.T) {
	err := NewApiError(InvalidArgument, "invalid port", nil)
	assert.Equal(t, "InvalidArgument: invalid port", err.Error())
	assert.True(t, Is(err, InvalidArgument))
	assert.False(t, Is(err, FailedPrecondition))

	wrapped := fmt.Errorf("build uri: %w", err)
	assert.True(t, Is(wrapped, InvalidArgument))
	assert.False(t, Is(errors.New("plain"), InvalidArgument))
	assert.False(t, Is(nil, InvalidArgument))
}

func TestOnError(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer OnError("test")
		panic("boom")
	}()
	<-done
}
