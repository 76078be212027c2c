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
	"golang.org/x/exp/maps"

	"github.com/caiflower/http-message/web/form"
	"github.com/caiflower/http-message/web/upload"
)

// ServerRequest is an incoming request together with what the server derived
// from it: server params, cookies, query params, parsed body, uploaded files
// and free-form attributes.
type ServerRequest struct {
	Request

	serverParams  map[string]string
	cookies       map[string]string
	attributes    map[string]interface{}
	parsedBody    *form.Node[string]
	uploadedFiles *form.Node[*upload.UploadedFile]
	queryParams   *form.Node[string]
}

// NewServerRequestWith builds a bare server request. serverParams is copied.
func NewServerRequestWith(method string, uri *URI, serverParams map[string]string) (*ServerRequest, error) {
	r, err := NewRequest(method, uri)
	if err != nil {
		return nil, err
	}
	return &ServerRequest{Request: *r, serverParams: maps.Clone(serverParams)}, nil
}

func (s *ServerRequest) ServerParams() map[string]string {
	return maps.Clone(s.serverParams)
}

func (s *ServerRequest) CookieParams() map[string]string {
	return maps.Clone(s.cookies)
}

func (s *ServerRequest) WithCookieParams(cookies map[string]string) *ServerRequest {
	c := *s
	c.cookies = maps.Clone(cookies)
	return &c
}

// QueryParams returns the query params, decoding the URI query on first use.
func (s *ServerRequest) QueryParams() *form.Node[string] {
	if s.queryParams == nil {
		s.queryParams = form.ParseQuery(s.URI().Query())
	}
	return s.queryParams.Clone()
}

func (s *ServerRequest) WithQueryParams(query *form.Node[string]) *ServerRequest {
	c := *s
	c.queryParams = query.Clone()
	return &c
}

// UploadedFiles returns the upload tree. It is an empty branch when nothing
// was uploaded.
func (s *ServerRequest) UploadedFiles() *form.Node[*upload.UploadedFile] {
	if s.uploadedFiles == nil {
		return form.NewBranch[*upload.UploadedFile]()
	}
	return s.uploadedFiles.Clone()
}

func (s *ServerRequest) WithUploadedFiles(files *form.Node[*upload.UploadedFile]) *ServerRequest {
	c := *s
	c.uploadedFiles = files.Clone()
	return &c
}

// ParsedBody returns the decoded body, or nil when the request had none.
func (s *ServerRequest) ParsedBody() *form.Node[string] {
	if s.parsedBody == nil {
		return nil
	}
	return s.parsedBody.Clone()
}

func (s *ServerRequest) WithParsedBody(body *form.Node[string]) *ServerRequest {
	c := *s
	c.parsedBody = body.Clone()
	return &c
}

func (s *ServerRequest) Attributes() map[string]interface{} {
	return maps.Clone(s.attributes)
}

// Attribute returns the named attribute, or def when it is not set.
func (s *ServerRequest) Attribute(name string, def interface{}) interface{} {
	if v, ok := s.attributes[name]; ok {
		return v
	}
	return def
}

func (s *ServerRequest) WithAttribute(name string, value interface{}) *ServerRequest {
	c := *s
	c.attributes = maps.Clone(s.attributes)
	if c.attributes == nil {
		c.attributes = make(map[string]interface{}, 1)
	}
	c.attributes[name] = value
	return &c
}

func (s *ServerRequest) WithoutAttribute(name string) *ServerRequest {
	if _, ok := s.attributes[name]; !ok {
		return s
	}
	c := *s
	c.attributes = maps.Clone(s.attributes)
	delete(c.attributes, name)
	return &c
}

func (s *ServerRequest) withRequest(r *Request) *ServerRequest {
	c := *s
	c.Request = *r
	return &c
}

func (s *ServerRequest) WithRequestTarget(target string) *ServerRequest {
	return s.withRequest(s.Request.WithRequestTarget(target))
}

func (s *ServerRequest) WithMethod(method string) (*ServerRequest, error) {
	r, err := s.Request.WithMethod(method)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

func (s *ServerRequest) WithURI(uri *URI, preserveHost bool) *ServerRequest {
	return s.withRequest(s.Request.WithURI(uri, preserveHost))
}

func (s *ServerRequest) WithProtocolVersion(version string) (*ServerRequest, error) {
	r, err := s.Request.WithProtocolVersion(version)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

func (s *ServerRequest) WithHeader(name string, values ...string) (*ServerRequest, error) {
	r, err := s.Request.WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

func (s *ServerRequest) WithAddedHeader(name string, values ...string) (*ServerRequest, error) {
	r, err := s.Request.WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return s.withRequest(r), nil
}

func (s *ServerRequest) WithoutHeader(name string) *ServerRequest {
	return s.withRequest(s.Request.WithoutHeader(name))
}

func (s *ServerRequest) WithBody(body Body) *ServerRequest {
	return s.withRequest(s.Request.WithBody(body))
}
