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
	"net/http"
)

type ApiError interface {
	GetCode() int
	GetType() string
	GetMessage() string
	GetCause() error
	Error() string
	Unwrap() error
}

type apiError struct {
	Code    int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *apiError) GetCode() int {
	return e.Code
}

func (e *apiError) GetType() string {
	return e.Type
}

func (e *apiError) GetMessage() string {
	return e.Message
}

func (e *apiError) GetCause() error {
	return e.Cause
}

func (e *apiError) Unwrap() error {
	return e.Cause
}

func (e *apiError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

type ErrorCode struct {
	Code int
	Type string
}

var (
	NotFound           = &ErrorCode{Code: http.StatusNotFound, Type: "NotFound"}
	Internal           = &ErrorCode{Code: http.StatusInternalServerError, Type: "InternalError"}
	FailedPrecondition = &ErrorCode{Code: http.StatusPreconditionFailed, Type: "FailedPrecondition"}
	InvalidArgument    = &ErrorCode{Code: http.StatusBadRequest, Type: "InvalidArgument"}
)

func NewApiError(errCode *ErrorCode, msg string, err error) ApiError {
	return &apiError{
		Code:    errCode.Code,
		Type:    errCode.Type,
		Message: msg,
		Cause:   err,
	}
}

// Is reports whether any error in err's chain is an ApiError of the given code.
func Is(err error, errCode *ErrorCode) bool {
	var apiErr ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.GetType() == errCode.Type
}
