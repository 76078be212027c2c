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
	"net/http"

	"github.com/caiflower/http-message/pkg/e"
)

// Response is an immutable response. Its default body is a Sink.
type Response struct {
	Message

	status       int
	reasonPhrase string
}

func NewResponse() *Response {
	return &Response{
		Message: Message{protocolVersion: defaultProtocolVersion, body: NewSink(nil)},
		status:  http.StatusOK,
	}
}

func (r *Response) StatusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// ReasonPhrase returns the custom phrase, or the registered one for the status.
func (r *Response) ReasonPhrase() string {
	if r.reasonPhrase != "" {
		return r.reasonPhrase
	}
	return http.StatusText(r.StatusCode())
}

// WithStatus sets the status code. An empty reasonPhrase falls back to the
// registered phrase.
func (r *Response) WithStatus(code int, reasonPhrase string) (*Response, error) {
	if !IsValidStatusCode(code) {
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid HTTP status code %d", code), nil)
	}
	c := *r
	c.status = code
	c.reasonPhrase = reasonPhrase
	return &c, nil
}

func (r *Response) WithProtocolVersion(version string) (*Response, error) {
	m, err := r.Message.withProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Response) WithHeader(name string, values ...string) (*Response, error) {
	m, err := r.Message.withHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Response) WithAddedHeader(name string, values ...string) (*Response, error) {
	m, err := r.Message.withAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Response) WithoutHeader(name string) *Response {
	c := *r
	c.Message = r.Message.withoutHeader(name)
	return &c
}

func (r *Response) WithBody(body Body) *Response {
	c := *r
	c.Message = r.Message.withBody(body)
	return &c
}
