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
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/caiflower/http-message/pkg/e"
)

// Body is the byte stream carried by a message.
type Body interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	fmt.Stringer

	// Size reports false when the size is unknown.
	Size() (int64, bool)
	Tell() (int64, error)
	EOF() bool
	Rewind() error
	IsSeekable() bool
	IsReadable() bool
	IsWritable() bool
	// Contents returns the remaining bytes from the current position.
	Contents() ([]byte, error)
	// Detach returns the underlying bytes and leaves the body unusable.
	Detach() ([]byte, error)
}

var errDetached = e.NewApiError(e.FailedPrecondition, "stream is detached", nil)

// Buffer is a random access in-memory Body.
type Buffer struct {
	data     []byte
	pos      int64
	detached bool
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func NewBufferString(s string) *Buffer {
	return &Buffer{data: []byte(s)}
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.detached {
		return 0, errDetached
	}
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// Write writes at the current position, growing the buffer as needed.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.detached {
		return 0, errDetached
	}
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	if b.detached {
		return 0, errDetached
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid whence %d", whence), nil)
	}
	if abs < 0 {
		return 0, e.NewApiError(e.InvalidArgument, "unable to seek to negative position", nil)
	}
	b.pos = abs
	return abs, nil
}

func (b *Buffer) Close() error {
	b.data = nil
	b.pos = 0
	b.detached = true
	return nil
}

func (b *Buffer) Size() (int64, bool) {
	if b.detached {
		return 0, false
	}
	return int64(len(b.data)), true
}

func (b *Buffer) Tell() (int64, error) {
	if b.detached {
		return 0, errDetached
	}
	return b.pos, nil
}

func (b *Buffer) EOF() bool {
	return b.detached || b.pos >= int64(len(b.data))
}

func (b *Buffer) Rewind() error {
	_, err := b.Seek(0, io.SeekStart)
	return err
}

func (b *Buffer) IsSeekable() bool {
	return !b.detached
}

func (b *Buffer) IsReadable() bool {
	return !b.detached
}

func (b *Buffer) IsWritable() bool {
	return !b.detached
}

func (b *Buffer) Contents() ([]byte, error) {
	if b.detached {
		return nil, errDetached
	}
	if b.pos >= int64(len(b.data)) {
		return []byte{}, nil
	}
	out := append([]byte{}, b.data[b.pos:]...)
	b.pos = int64(len(b.data))
	return out, nil
}

func (b *Buffer) Detach() ([]byte, error) {
	if b.detached {
		return nil, errDetached
	}
	data := b.data
	b.data = nil
	b.pos = 0
	b.detached = true
	return data, nil
}

// String returns the whole buffer regardless of the position.
func (b *Buffer) String() string {
	return string(b.data)
}

// Sink is a write-only Body that keeps what was written and optionally
// mirrors it to another writer.
type Sink struct {
	buf    *bytebufferpool.ByteBuffer
	mirror io.Writer
}

// NewSink returns a Sink. mirror may be nil.
func NewSink(mirror io.Writer) *Sink {
	return &Sink{buf: bytebufferpool.Get(), mirror: mirror}
}

func (s *Sink) Read([]byte) (int, error) {
	return 0, e.NewApiError(e.FailedPrecondition, "sink is not readable", nil)
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.buf == nil {
		return 0, e.NewApiError(e.FailedPrecondition, "sink is closed", nil)
	}
	if s.mirror != nil {
		if _, err := s.mirror.Write(p); err != nil {
			return 0, e.NewApiError(e.Internal, "unable to write to stream", err)
		}
	}
	return s.buf.Write(p)
}

func (s *Sink) Seek(int64, int) (int64, error) {
	return 0, e.NewApiError(e.FailedPrecondition, "sink is not seekable", nil)
}

// Close discards the collected bytes.
func (s *Sink) Close() error {
	if s.buf != nil {
		bytebufferpool.Put(s.buf)
		s.buf = nil
	}
	return nil
}

// Size reports false until something was written.
func (s *Sink) Size() (int64, bool) {
	if s.buf == nil || s.buf.Len() == 0 {
		return 0, false
	}
	return int64(s.buf.Len()), true
}

func (s *Sink) Tell() (int64, error) {
	return 0, nil
}

func (s *Sink) EOF() bool {
	return true
}

func (s *Sink) Rewind() error {
	return e.NewApiError(e.FailedPrecondition, "sink is not rewindable", nil)
}

func (s *Sink) IsSeekable() bool {
	return false
}

func (s *Sink) IsReadable() bool {
	return false
}

func (s *Sink) IsWritable() bool {
	return s.buf != nil
}

func (s *Sink) Contents() ([]byte, error) {
	if s.buf == nil {
		return []byte{}, nil
	}
	return append([]byte{}, s.buf.B...), nil
}

func (s *Sink) Detach() ([]byte, error) {
	return nil, e.NewApiError(e.FailedPrecondition, "sink is not detachable", nil)
}

func (s *Sink) String() string {
	if s.buf == nil {
		return ""
	}
	return s.buf.String()
}
