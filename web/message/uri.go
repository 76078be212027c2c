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
	"net/url"
	"strconv"
	"strings"

	"github.com/caiflower/http-message/pkg/e"
)

// URI is an immutable URI reference. Components are stored exactly as given;
// callers pass text that is already percent-encoded and String never
// re-encodes it.
type URI struct {
	scheme   string
	user     string
	password string
	host     string
	port     int
	path     string
	query    string
	fragment string
}

func NewURI() *URI {
	return &URI{}
}

// ParseURI splits raw into components and routes each through the
// corresponding With method so the same validation applies.
func ParseURI(raw string) (*URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid uri %q", raw), err)
	}

	uri := NewURI()
	if u.Scheme != "" {
		if uri, err = uri.WithScheme(u.Scheme); err != nil {
			return nil, err
		}
	}
	if u.User != nil {
		// keep the escaped form
		user, password, _ := strings.Cut(u.User.String(), ":")
		uri = uri.WithUserInfo(user, password)
	}
	if host := u.Hostname(); host != "" {
		uri = uri.WithHost(host)
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid port %q", p), err)
		}
		if uri, err = uri.WithPort(port); err != nil {
			return nil, err
		}
	}
	return uri.WithPath(u.EscapedPath()).WithQuery(u.RawQuery).WithFragment(u.EscapedFragment()), nil
}

func (u *URI) Scheme() string {
	return u.scheme
}

func (u *URI) UserInfo() string {
	if u.password != "" {
		return u.user + ":" + u.password
	}
	return u.user
}

func (u *URI) Host() string {
	return u.host
}

// Port reports false when no port is set or when the port is the default
// for the scheme: 80 and 8080 for http, 443 for https.
func (u *URI) Port() (int, bool) {
	if u.port == 0 {
		return 0, false
	}
	switch {
	case u.scheme == "https" && u.port == 443:
		return 0, false
	case u.scheme == "http" && (u.port == 80 || u.port == 8080):
		return 0, false
	}
	return u.port, true
}

func (u *URI) Path() string {
	return u.path
}

func (u *URI) Query() string {
	return u.query
}

func (u *URI) Fragment() string {
	return u.fragment
}

// Authority renders [userinfo@]host[:port].
func (u *URI) Authority() string {
	var b strings.Builder
	if info := u.UserInfo(); info != "" {
		b.WriteString(info)
		b.WriteByte('@')
	}
	b.WriteString(u.host)
	if port, ok := u.Port(); ok {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(port))
	}
	return b.String()
}

func (u *URI) WithScheme(scheme string) (*URI, error) {
	s := strings.ToLower(scheme)
	if s != "http" && s != "https" {
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid HTTP scheme %q", scheme), nil)
	}
	c := *u
	c.scheme = s
	return &c, nil
}

// WithUserInfo sets user and password. An empty password keeps the current one.
func (u *URI) WithUserInfo(user, password string) *URI {
	c := *u
	c.user = user
	if password != "" {
		c.password = password
	}
	return &c
}

// WithHost lower-cases host and brackets IPv6 literals.
func (u *URI) WithHost(host string) *URI {
	if ip := net.ParseIP(host); ip != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	c := *u
	c.host = strings.ToLower(host)
	return &c
}

func (u *URI) WithPort(port int) (*URI, error) {
	if port < 1 || port > 65535 {
		return nil, e.NewApiError(e.InvalidArgument, fmt.Sprintf("invalid HTTP port %d", port), nil)
	}
	c := *u
	c.port = port
	return &c, nil
}

func (u *URI) WithPath(path string) *URI {
	c := *u
	c.path = path
	return &c
}

func (u *URI) WithQuery(query string) *URI {
	c := *u
	c.query = query
	return &c
}

func (u *URI) WithFragment(fragment string) *URI {
	c := *u
	c.fragment = fragment
	return &c
}

func (u *URI) String() string {
	var b strings.Builder
	if u.scheme != "" {
		b.WriteString(u.scheme)
		b.WriteByte(':')
	}
	if authority := u.Authority(); authority != "" {
		b.WriteString("//")
		b.WriteString(authority)
	}
	b.WriteString(u.path)
	if u.query != "" {
		b.WriteByte('?')
		b.WriteString(u.query)
	}
	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}
