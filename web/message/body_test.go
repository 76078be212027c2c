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
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caiflower/http-message/pkg/e"
)

func TestBuffer_ReadWriteSeek(t *testing.T) {
	b := NewBufferString("hello")
	size, ok := b.Size()
	assert.True(t, ok)
	assert.EqualValues(t, 5, size)

	p := make([]byte, 2)
	n, err := b.Read(p)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "he", string(p))

	pos, _ := b.Tell()
	assert.EqualValues(t, 2, pos)
	rest, _ := b.Contents()
	assert.Equal(t, "llo", string(rest))
	assert.True(t, b.EOF())
	_, err = b.Read(p)
	assert.Equal(t, io.EOF, err)

	_, err = b.Seek(-1, io.SeekEnd)
	assert.Nil(t, err)
	_, _ = b.Write([]byte("p!"))
	assert.Equal(t, "hellp!", b.String())

	assert.Nil(t, b.Rewind())
	all, _ := io.ReadAll(b)
	assert.Equal(t, "hellp!", string(all))

	_, err = b.Seek(-10, io.SeekCurrent)
	assert.True(t, e.Is(err, e.InvalidArgument))
}

func TestBuffer_Detach(t *testing.T) {
	b := NewBufferString("data")
	data, err := b.Detach()
	assert.Nil(t, err)
	assert.Equal(t, "data", string(data))

	assert.False(t, b.IsReadable())
	assert.False(t, b.IsSeekable())
	assert.False(t, b.IsWritable())
	_, ok := b.Size()
	assert.False(t, ok)
	_, err = b.Read(make([]byte, 1))
	assert.True(t, e.Is(err, e.FailedPrecondition))
	_, err = b.Detach()
	assert.True(t, e.Is(err, e.FailedPrecondition))
}

func TestSink(t *testing.T) {
	var mirror bytes.Buffer
	s := NewSink(&mirror)
	_, ok := s.Size()
	assert.False(t, ok)
	assert.False(t, s.IsReadable())
	assert.False(t, s.IsSeekable())
	assert.True(t, s.IsWritable())

	_, err := s.Write([]byte("abc"))
	assert.Nil(t, err)
	size, ok := s.Size()
	assert.True(t, ok)
	assert.EqualValues(t, 3, size)
	content, _ := s.Contents()
	assert.Equal(t, "abc", string(content))
	assert.Equal(t, "abc", mirror.String())

	_, err = s.Read(make([]byte, 1))
	assert.True(t, e.Is(err, e.FailedPrecondition))
	_, err = s.Seek(0, io.SeekStart)
	assert.True(t, e.Is(err, e.FailedPrecondition))
	_, err = s.Detach()
	assert.True(t, e.Is(err, e.FailedPrecondition))

	assert.Nil(t, s.Close())
	assert.False(t, s.IsWritable())
	_, err = s.Write([]byte("x"))
	assert.True(t, e.Is(err, e.FailedPrecondition))
}
