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
	"strings"

	"golang.org/x/exp/slices"

	"github.com/caiflower/http-message/pkg/e"
)

var protocolVersions = []string{"1", "1.0", "1.1", "2", "2.0", "3", "3.0"}

var requestMethods = []string{
	http.MethodHead,
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	"PURGE",
	http.MethodOptions,
	http.MethodTrace,
	http.MethodConnect,
}

const defaultProtocolVersion = "1.1"

func IsValidProtocolVersion(version string) bool {
	return slices.Contains(protocolVersions, version)
}

func IsValidMethod(method string) bool {
	return slices.Contains(requestMethods, strings.ToUpper(method))
}

// IsValidStatusCode reports whether code has a registered reason phrase.
func IsValidStatusCode(code int) bool {
	return http.StatusText(code) != ""
}

// Message holds what requests and responses share. Copies share the header
// table and the body; headers are copy-on-write.
type Message struct {
	protocolVersion string
	headers         Header
	body            Body
}

func newMessage() Message {
	return Message{protocolVersion: defaultProtocolVersion}
}

func (m *Message) ProtocolVersion() string {
	if m.protocolVersion == "" {
		return defaultProtocolVersion
	}
	return m.protocolVersion
}

func (m *Message) Header() Header {
	return m.headers
}

func (m *Message) Headers() map[string][]string {
	return m.headers.All()
}

func (m *Message) HasHeader(name string) bool {
	return m.headers.Has(name)
}

func (m *Message) HeaderValues(name string) []string {
	return m.headers.Get(name)
}

func (m *Message) HeaderLine(name string) string {
	return m.headers.Line(name)
}

// Body returns the body, creating an empty Buffer on first access.
func (m *Message) Body() Body {
	if m.body == nil {
		m.body = NewBuffer(nil)
	}
	return m.body
}

func (m Message) withProtocolVersion(version string) (Message, error) {
	if !IsValidProtocolVersion(version) {
		return m, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid HTTP protocol version [%s]", version), nil)
	}
	m.protocolVersion = version
	return m, nil
}

func (m Message) withHeader(name string, values ...string) (Message, error) {
	if err := validateHeader(name, values); err != nil {
		return m, err
	}
	m.headers = m.headers.Set(name, values...)
	return m, nil
}

func (m Message) withAddedHeader(name string, values ...string) (Message, error) {
	if err := validateHeader(name, values); err != nil {
		return m, err
	}
	m.headers = m.headers.Add(name, values...)
	return m, nil
}

func (m Message) withoutHeader(name string) Message {
	m.headers = m.headers.Remove(name)
	return m
}

func (m Message) withBody(body Body) Message {
	m.body = body
	return m
}

func validateHeader(name string, values []string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n:") {
		return e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid header name %q", name), nil)
	}
	if len(values) == 0 {
		return e.NewApiError(e.InvalidArgument, fmt.Sprintf("header %q needs at least one value", name), nil)
	}
	return nil
}
