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
	"io"
	"os"

	"github.com/caiflower/http-message/pkg/e"
	"github.com/caiflower/http-message/pkg/tools"
)

// ErrorCode is the status attached to an uploaded file. Values match the
// conventional upload error numbers so descriptors can carry them as ints.
type ErrorCode int

const (
	ErrOK        ErrorCode = 0
	ErrIniSize   ErrorCode = 1
	ErrFormSize  ErrorCode = 2
	ErrPartial   ErrorCode = 3
	ErrNoFile    ErrorCode = 4
	ErrNoTmpDir  ErrorCode = 6
	ErrCantWrite ErrorCode = 7
	ErrExtension ErrorCode = 8
)

func (c ErrorCode) String() string {
	switch c {
	case ErrOK:
		return "OK"
	case ErrIniSize:
		return "INI_SIZE"
	case ErrFormSize:
		return "FORM_SIZE"
	case ErrPartial:
		return "PARTIAL"
	case ErrNoFile:
		return "NO_FILE"
	case ErrNoTmpDir:
		return "NO_TMP_DIR"
	case ErrCantWrite:
		return "CANT_WRITE"
	case ErrExtension:
		return "EXTENSION"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// UploadedFile describes one uploaded file sitting in a temporary location.
// It can be moved to its final place once.
type UploadedFile struct {
	tmpName         string
	clientFilename  string
	clientMediaType string
	size            int64
	hasSize         bool
	errCode         ErrorCode
	moved           bool
}

type FileOption func(*UploadedFile)

func WithClientFilename(name string) FileOption {
	return func(f *UploadedFile) {
		f.clientFilename = name
	}
}

func WithClientMediaType(mediaType string) FileOption {
	return func(f *UploadedFile) {
		f.clientMediaType = mediaType
	}
}

func WithSize(size int64) FileOption {
	return func(f *UploadedFile) {
		f.size = size
		f.hasSize = true
	}
}

func WithErrorCode(code ErrorCode) FileOption {
	return func(f *UploadedFile) {
		f.errCode = code
	}
}

func NewUploadedFile(tmpName string, opts ...FileOption) *UploadedFile {
	f := &UploadedFile{tmpName: tmpName}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewEmptyUpload is the leaf for a file field that was submitted without a file.
func NewEmptyUpload() *UploadedFile {
	return &UploadedFile{errCode: ErrNoFile}
}

func (f *UploadedFile) ClientFilename() string {
	return f.clientFilename
}

func (f *UploadedFile) ClientMediaType() string {
	return f.clientMediaType
}

// Size reports false when the size is unknown.
func (f *UploadedFile) Size() (int64, bool) {
	return f.size, f.hasSize
}

func (f *UploadedFile) ErrorCode() ErrorCode {
	return f.errCode
}

func (f *UploadedFile) TmpName() string {
	return f.tmpName
}

func (f *UploadedFile) IsMoved() bool {
	return f.moved
}

// Stream opens the temporary file for reading.
func (f *UploadedFile) Stream() (io.ReadCloser, error) {
	if f.tmpName == "" {
		return nil, e.NewApiError(e.InvalidArgument, "upload file path not found", nil)
	}
	if f.moved {
		return nil, e.NewApiError(e.FailedPrecondition, fmt.Sprintf("uploaded file already moved from %s", f.tmpName), nil)
	}
	file, err := os.Open(f.tmpName)
	if err != nil {
		return nil, e.NewApiError(e.Internal, fmt.Sprintf("open uploaded file %s", f.tmpName), err)
	}
	return file, nil
}

// MoveTo moves the temporary file to targetPath and removes the source.
// Argument and state checks run before the filesystem is touched.
func (f *UploadedFile) MoveTo(targetPath string) error {
	if targetPath == "" {
		return e.NewApiError(e.InvalidArgument, "invalid target path", nil)
	}
	if f.tmpName == "" {
		return e.NewApiError(e.InvalidArgument, "upload file path not found", nil)
	}
	if f.moved {
		return e.NewApiError(e.FailedPrecondition, fmt.Sprintf("uploaded file already moved from %s", f.tmpName), nil)
	}

	switch f.errCode {
	case ErrOK:
	case ErrNoFile:
		return e.NewApiError(e.FailedPrecondition, "no file sent", nil)
	case ErrIniSize, ErrFormSize:
		return e.NewApiError(e.FailedPrecondition, "exceeded filesize limit", nil)
	default:
		return e.NewApiError(e.FailedPrecondition, fmt.Sprintf("unknown errors on file upload: %s", f.errCode), nil)
	}

	if err := tools.MoveFile(f.tmpName, targetPath); err != nil {
		return e.NewApiError(e.Internal, fmt.Sprintf("error moving uploaded file %s to %s", f.tmpName, targetPath), err)
	}

	f.moved = true
	return nil
}

type uploadedFileJSON struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  *int64 `json:"size"`
	Error int    `json:"error"`
}

func (f *UploadedFile) MarshalJSON() ([]byte, error) {
	v := uploadedFileJSON{
		Name:  f.clientFilename,
		Type:  f.clientMediaType,
		Error: int(f.errCode),
	}
	if f.hasSize {
		size := f.size
		v.Size = &size
	}
	return tools.Marshal(v)
}
