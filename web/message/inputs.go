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
	"net"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/caiflower/http-message/pkg/e"
	"github.com/caiflower/http-message/pkg/tools"
	"github.com/caiflower/http-message/web/form"
	"github.com/caiflower/http-message/web/multipart"
	"github.com/caiflower/http-message/web/upload"
)

// RawRequestInputs is everything a server hands over about one request.
// Server uses CGI variable names (REQUEST_METHOD, REQUEST_URI, QUERY_STRING,
// SERVER_PROTOCOL, SERVER_PORT, HTTPS, HTTP_HOST).
type RawRequestInputs struct {
	Server  map[string]string
	Headers map[string]string
	Cookies map[string]string
	Body    []byte
	Files   upload.Descriptors
}

type InputOptions struct {
	Parser *multipart.Parser
}

type InputOption func(*InputOptions) *InputOptions

// WithParser sets the parser used for non-JSON bodies.
func WithParser(p *multipart.Parser) InputOption {
	return func(o *InputOptions) *InputOptions {
		o.Parser = p
		return o
	}
}

var slashes = regexp.MustCompile(`/+`)

// NewServerRequest builds a ServerRequest from in without touching any
// process state. Files produced by a multipart body take precedence over
// in.Files.
func NewServerRequest(in RawRequestInputs, opts ...InputOption) (*ServerRequest, error) {
	options := &InputOptions{}
	for _, opt := range opts {
		options = opt(options)
	}
	if options.Parser == nil {
		options.Parser = multipart.NewParser()
	}

	server := maps.Clone(in.Server)
	if server == nil {
		server = make(map[string]string, len(in.Headers))
	}
	s := &ServerRequest{
		Request: Request{Message: newMessage()},
		cookies: maps.Clone(in.Cookies),
	}

	names := maps.Keys(in.Headers)
	slices.Sort(names)
	for _, name := range names {
		key := "HTTP_" + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
		if _, ok := server[key]; !ok {
			server[key] = in.Headers[name]
		}
		m, err := s.Message.withAddedHeader(name, in.Headers[name])
		if err != nil {
			return nil, err
		}
		s.Message = m
	}
	s.serverParams = server

	if proto, ok := server["SERVER_PROTOCOL"]; ok {
		m, err := s.Message.withProtocolVersion(strings.TrimPrefix(proto, "HTTP/"))
		if err != nil {
			return nil, err
		}
		s.Message = m
	}

	method := server["REQUEST_METHOD"]
	if method == "" {
		method = "GET"
	}
	if !IsValidMethod(method) {
		return nil, invalidMethod(method)
	}
	s.method = strings.ToUpper(method)

	uri, err := buildURI(server)
	if err != nil {
		return nil, err
	}
	if uri.Host() != "" {
		s.headers = s.headers.Set("Host", uri.Host())
	}

	target := uri.Path()
	if query := server["QUERY_STRING"]; query != "" {
		uri = uri.WithQuery(query)
		target += "?" + query
		s.queryParams = form.ParseQuery(query)
	}
	if fragment := uri.Fragment(); fragment != "" {
		target += "#" + fragment
	}
	s.uri = uri
	s.requestTarget = target

	if len(in.Files) > 0 {
		if s.uploadedFiles, err = upload.Normalize(in.Files); err != nil {
			return nil, err
		}
	}

	s.body = NewBuffer(slices.Clone(in.Body))
	if len(in.Body) > 0 {
		data, err := decodeContent(server["HTTP_CONTENT_ENCODING"], in.Body)
		if err != nil {
			return nil, err
		}
		if node, ok := form.ParseJSON(data); ok {
			s.parsedBody = node
		} else {
			result := options.Parser.Parse(data)
			s.parsedBody = result.Fields
			if result.Files.Len() > 0 {
				s.uploadedFiles = result.Files
			}
		}
	}
	return s, nil
}

func buildURI(server map[string]string) (*URI, error) {
	port, _ := strconv.Atoi(server["SERVER_PORT"])
	https := server["HTTPS"]
	scheme := "http"
	if (https != "" && strings.ToLower(https) != "off") || port == 443 {
		scheme = "https"
	}

	uri, err := NewURI().WithScheme(scheme)
	if err != nil {
		return nil, err
	}
	if port > 0 {
		if uri, err = uri.WithPort(port); err != nil {
			return nil, err
		}
	}
	if host := server["HTTP_HOST"]; host != "" {
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		uri = uri.WithHost(host)
	}

	requestURI := server["REQUEST_URI"]
	if before, fragment, found := strings.Cut(requestURI, "#"); found {
		uri = uri.WithFragment(fragment)
		requestURI = before
	}
	requestURI, _, _ = strings.Cut(requestURI, "?")
	path := strings.TrimRight(slashes.ReplaceAllString(requestURI, "/"), "/")
	if path == "" {
		path = "/"
	}
	return uri.WithPath(path), nil
}

func decodeContent(encoding string, body []byte) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip", "x-gzip":
		data, err = tools.Gunzip(body)
	case "br":
		data, err = tools.UnBrotli(body)
	default:
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("unsupported content encoding [%s]", encoding), nil)
	}
	if err != nil {
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("decode %s body failed", encoding), err)
	}
	return data, nil
}
