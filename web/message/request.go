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
	"strings"

	"github.com/caiflower/http-message/pkg/e"
)

// Request is an immutable client or server request.
type Request struct {
	Message

	method        string
	uri           *URI
	requestTarget string
}

// NewRequest validates method and takes the Host header from uri when it has one.
// uri may be nil.
func NewRequest(method string, uri *URI) (*Request, error) {
	r := &Request{Message: newMessage()}
	if method != "" {
		if !IsValidMethod(method) {
			return nil, invalidMethod(method)
		}
		r.method = strings.ToUpper(method)
	}
	if uri != nil {
		r.uri = uri
		if uri.Host() != "" {
			r.headers = r.headers.Set("Host", uri.Host())
		}
	}
	return r, nil
}

func invalidMethod(method string) error {
	return e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid HTTP method [%s]", method), nil)
}

func (r *Request) Method() string {
	return r.method
}

// URI returns the request URI. A request built without one reports an empty URI.
func (r *Request) URI() *URI {
	if r.uri == nil {
		return NewURI()
	}
	return r.uri
}

// RequestTarget returns the override when one is set, otherwise the origin
// form built from the URI: path, query and fragment as stored.
func (r *Request) RequestTarget() string {
	if r.requestTarget != "" {
		return r.requestTarget
	}
	if r.uri == nil {
		return "/"
	}

	target := "/" + strings.TrimLeft(r.uri.Path(), "/")
	if q := r.uri.Query(); q != "" {
		target += "?" + q
	}
	if f := r.uri.Fragment(); f != "" {
		target += "#" + f
	}
	return target
}

func (r *Request) WithRequestTarget(target string) *Request {
	c := *r
	c.requestTarget = target
	return &c
}

func (r *Request) WithMethod(method string) (*Request, error) {
	if !IsValidMethod(method) {
		return nil, invalidMethod(method)
	}
	c := *r
	c.method = strings.ToUpper(method)
	return &c, nil
}

// WithURI replaces the URI. Unless preserveHost is set the Host header is
// overwritten from the new URI's host; with preserveHost it is only filled in
// when the request has no Host yet. An empty host never touches the header.
func (r *Request) WithURI(uri *URI, preserveHost bool) *Request {
	c := *r
	c.uri = uri
	if uri == nil || uri.Host() == "" {
		return &c
	}
	if !preserveHost || r.HeaderLine("Host") == "" {
		c.headers = c.headers.Set("Host", uri.Host())
	}
	return &c
}

func (r *Request) WithProtocolVersion(version string) (*Request, error) {
	m, err := r.Message.withProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Request) WithHeader(name string, values ...string) (*Request, error) {
	m, err := r.Message.withHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Request) WithAddedHeader(name string, values ...string) (*Request, error) {
	m, err := r.Message.withAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := *r
	c.Message = m
	return &c, nil
}

func (r *Request) WithoutHeader(name string) *Request {
	c := *r
	c.Message = r.Message.withoutHeader(name)
	return &c
}

func (r *Request) WithBody(body Body) *Request {
	c := *r
	c.Message = r.Message.withBody(body)
	return &c
}
