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

package multipart

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/caiflower/http-message/pkg/tools"
	"github.com/caiflower/http-message/web/form"
	"github.com/caiflower/http-message/web/upload"
)

var (
	crlf        = []byte("\r\n")
	blankLine   = []byte("\r\n\r\n")
	closingPart = []byte("--\r\n")

	// name and filename must be double quoted and may not contain quotes
	dispositionRegexp = regexp.MustCompile(`^(.+); *name="([^"]+)"(; *filename="([^"]+)")?`)
)

const emptyFilenameSuffix = `; filename=""`

// Result holds the two trees decoded from a body.
type Result struct {
	Fields *form.Node[string]
	Files  *form.Node[*upload.UploadedFile]
}

// Parser decodes fully buffered multipart/form-data bodies. File parts are
// written to temporary files. A Parser keeps no state between calls.
type Parser struct {
	options *Options
	metric  *metric
}

func NewParser(opts ...Option) *Parser {
	return NewParserWithOptions(NewOptions(opts...))
}

func NewParserWithOptions(options *Options) *Parser {
	p := &Parser{options: applyDefaults(options)}
	if p.options.EnableMetric {
		p.metric = getMetric()
	}
	return p
}

type part struct {
	headers     map[string]string
	disposition string
	name        string
	filename    string
	body        []byte
}

// Parse splits body on the boundary found on its first line. A body without
// one is decoded as urlencoded instead. Malformed parts are skipped.
func (p *Parser) Parse(body []byte) *Result {
	res := &Result{
		Fields: form.NewBranch[string](),
		Files:  form.NewBranch[*upload.UploadedFile](),
	}

	var boundary []byte
	if i := bytes.Index(body, crlf); i > 0 {
		boundary = body[:i]
	}
	if len(boundary) == 0 {
		res.Fields = p.parseUrlencoded(body)
		return res
	}

	var (
		index       int
		fieldTokens strings.Builder
		fileTokens  strings.Builder
		leafTable   = make(map[string]interface{})
	)

	segments := bytes.Split(body, boundary)
	for _, seg := range segments[1:] {
		if bytes.Equal(seg, closingPart) {
			break
		}

		pt, ok := p.splitPart(seg)
		if !ok {
			p.metric.part(kindSkipped)
			continue
		}

		index++
		key := strconv.Itoa(index)
		token := url.QueryEscape(pt.name) + "=" + key

		switch {
		case pt.filename != "" && hasHeader(pt.headers, "content-type"):
			file, err := p.writeTmpFile(pt)
			if err != nil {
				p.options.Logger.Warn("[multipart] skip file part %q: %s", pt.name, err.Error())
				p.metric.part(kindSkipped)
				continue
			}
			leafTable[key] = file
			appendToken(&fileTokens, token)
			p.metric.part(kindFile)
		case strings.HasSuffix(pt.disposition, emptyFilenameSuffix):
			leafTable[key] = upload.NewEmptyUpload()
			appendToken(&fileTokens, token)
			p.metric.part(kindEmptyFile)
		default:
			leafTable[key] = string(pt.body)
			appendToken(&fieldTokens, token)
			p.metric.part(kindField)
		}
	}

	res.Fields = form.Transform(form.ParseQuery(fieldTokens.String()), func(k string) (string, bool) {
		v, ok := leafTable[k].(string)
		return v, ok
	})
	res.Files = form.Transform(form.ParseQuery(fileTokens.String()), func(k string) (*upload.UploadedFile, bool) {
		v, ok := leafTable[k].(*upload.UploadedFile)
		return v, ok
	})
	return res
}

// parseUrlencoded accepts the decoded body unless it is a single key that
// spans the whole input, which is what arbitrary text decodes to.
func (p *Parser) parseUrlencoded(body []byte) *form.Node[string] {
	fields := form.ParseQuery(string(body))
	if fields.Len() == 1 && len(fields.Keys()[0]) == len(body) {
		p.options.Logger.Debug("[multipart] body is neither multipart nor urlencoded, ignored")
		return form.NewBranch[string]()
	}
	return fields
}

func (p *Parser) splitPart(seg []byte) (*part, bool) {
	seg = bytes.TrimLeft(seg, "\r\n")
	rawHeaders, body, found := bytes.Cut(seg, blankLine)
	if !found {
		p.options.Logger.Debug("[multipart] skip part without header block")
		return nil, false
	}

	headers := make(map[string]string)
	for _, line := range strings.Split(string(rawHeaders), "\r\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(name)] = strings.TrimLeft(value, " ")
	}

	disposition, ok := headers["content-disposition"]
	if !ok {
		p.options.Logger.Debug("[multipart] skip part without content-disposition")
		return nil, false
	}
	matches := dispositionRegexp.FindStringSubmatch(disposition)
	if matches == nil {
		p.options.Logger.Debug("[multipart] skip part without name: %s", disposition)
		return nil, false
	}

	// drop the CRLF that precedes the next boundary
	if len(body) >= 2 {
		body = body[:len(body)-2]
	} else {
		body = body[:0]
	}

	return &part{
		headers:     headers,
		disposition: disposition,
		name:        matches[2],
		filename:    matches[4],
		body:        body,
	}, true
}

func (p *Parser) writeTmpFile(pt *part) (*upload.UploadedFile, error) {
	dir := p.options.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, tools.TempName(p.options.TmpPrefix, p.options.TmpSuffix))

	n, err := tools.WriteNewFile(path, pt.body)
	if err != nil {
		return nil, err
	}
	p.metric.written(n)

	return upload.NewUploadedFile(path,
		upload.WithClientFilename(pt.filename),
		upload.WithClientMediaType(pt.headers["content-type"]),
		upload.WithSize(int64(n)),
		upload.WithErrorCode(upload.ErrOK),
	), nil
}

func hasHeader(headers map[string]string, name string) bool {
	_, ok := headers[name]
	return ok
}

func appendToken(b *strings.Builder, token string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(token)
}

// Parse decodes body with default options.
func Parse(body []byte) *Result {
	return NewParser().Parse(body)
}
