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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/caiflower/http-message/pkg/logger"
	"github.com/caiflower/http-message/web/upload"
)

type testPart struct {
	headers []string
	body    string
}

func buildBody(boundary string, parts ...testPart) []byte {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("--" + boundary + "\r\n")
		for _, h := range p.headers {
			b.WriteString(h + "\r\n")
		}
		b.WriteString("\r\n")
		b.WriteString(p.body)
		b.WriteString("\r\n")
	}
	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

func field(name, value string) testPart {
	return testPart{
		headers: []string{`Content-Disposition: form-data; name="` + name + `"`},
		body:    value,
	}
}

func file(name, filename, contentType, content string) testPart {
	return testPart{
		headers: []string{
			`Content-Disposition: form-data; name="` + name + `"; filename="` + filename + `"`,
			"Content-Type: " + contentType,
		},
		body: content,
	}
}

func newTestParser(t *testing.T, opts ...Option) *Parser {
	quiet := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel})
	t.Cleanup(quiet.Close)
	return NewParser(append([]Option{WithTmpDir(t.TempDir()), WithLogger(quiet)}, opts...)...)
}

func TestParse_FieldsAndFiles(t *testing.T) {
	body := buildBody("X",
		field("user[name]", "Ann"),
		file("user[avatar]", "a.png", "image/png", "\x89PNG\r\n\x1a\n"),
	)

	res := newTestParser(t).Parse(body)

	want := map[string]interface{}{"user": map[string]interface{}{"name": "Ann"}}
	if diff := cmp.Diff(want, res.Fields.ToMap()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	avatar, ok := res.Files.LeafValue("user", "avatar")
	assert.True(t, ok)
	assert.Equal(t, "a.png", avatar.ClientFilename())
	assert.Equal(t, "image/png", avatar.ClientMediaType())
	assert.Equal(t, upload.ErrOK, avatar.ErrorCode())
	size, _ := avatar.Size()
	assert.EqualValues(t, 8, size)

	content, err := os.ReadFile(avatar.TmpName())
	assert.Nil(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\n", string(content))
	assert.Equal(t, []string{"user"}, res.Files.Keys())
}

func TestParse_EmptyFileField(t *testing.T) {
	body := buildBody("----WebKitFormBoundary7MA4YWxkTrZu0gW",
		testPart{
			headers: []string{
				`Content-Disposition: form-data; name="doc"; filename=""`,
				"Content-Type: application/octet-stream",
			},
		},
		field("title", "report"),
	)

	res := newTestParser(t).Parse(body)

	doc, ok := res.Files.LeafValue("doc")
	assert.True(t, ok)
	assert.Equal(t, upload.ErrNoFile, doc.ErrorCode())
	assert.Equal(t, "", doc.TmpName())
	title, _ := res.Fields.LeafValue("title")
	assert.Equal(t, "report", title)
}

func TestParse_SkipsUnusableParts(t *testing.T) {
	raw := "--B\r\n" +
		"Content-Disposition: form-data; name=\"first\"\r\n\r\none\r\n" +
		"--B\r\n" +
		"no blank line here\r\n" +
		"--B\r\n" +
		"Content-Type: text/plain\r\n\r\nno disposition\r\n" +
		"--B\r\n" +
		"Content-Disposition: form-data\r\n\r\nno name\r\n" +
		"--B\r\n" +
		"Content-Disposition: form-data; name=\"last\"\r\n\r\ntwo\r\n" +
		"--B--\r\n"

	res := newTestParser(t).Parse([]byte(raw))

	want := map[string]interface{}{"first": "one", "last": "two"}
	if diff := cmp.Diff(want, res.Fields.ToMap()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, res.Files.Len())
}

func TestParse_BracketConvention(t *testing.T) {
	body := buildBody("b",
		field("tags[]", "go"),
		field("tags[]", "http"),
		field("name", "first"),
		field("name", "second"),
		field("a b&c=d", "escaped"),
		file("docs[]", "1.txt", "text/plain", "one"),
		file("docs[]", "2.txt", "text/plain", "two"),
	)

	res := newTestParser(t).Parse(body)

	want := map[string]interface{}{
		"tags":    map[string]interface{}{"0": "go", "1": "http"},
		"name":    "second",
		"a b&c=d": "escaped",
	}
	if diff := cmp.Diff(want, res.Fields.ToMap()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	docs, ok := res.Files.Get("docs")
	assert.True(t, ok)
	assert.Equal(t, []string{"0", "1"}, docs.Keys())
	second, _ := docs.LeafValue("1")
	assert.Equal(t, "2.txt", second.ClientFilename())
}

func TestParse_RoundTripNestedNames(t *testing.T) {
	intended := map[string]interface{}{
		"order": map[string]interface{}{
			"id": "17",
			"customer": map[string]interface{}{
				"name":  "Ann Lee",
				"email": "ann@example.com",
			},
			"note": "multi\r\nline",
		},
		"page": "2",
	}

	body := buildBody("RT",
		field("order[id]", "17"),
		field("order[customer][name]", "Ann Lee"),
		field("order[customer][email]", "ann@example.com"),
		field("order[note]", "multi\r\nline"),
		field("page", "2"),
	)

	res := newTestParser(t).Parse(body)
	if diff := cmp.Diff(intended, res.Fields.ToMap()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"order", "page"}, res.Fields.Keys())
}

func TestParse_FilenameWithoutContentTypeIsField(t *testing.T) {
	body := buildBody("Z", testPart{
		headers: []string{`Content-Disposition: form-data; name="f"; filename="x.txt"`},
		body:    "inline text",
	})

	res := newTestParser(t).Parse(body)
	v, ok := res.Fields.LeafValue("f")
	assert.True(t, ok)
	assert.Equal(t, "inline text", v)
	assert.Equal(t, 0, res.Files.Len())
}

func TestParse_UrlencodedFallback(t *testing.T) {
	p := newTestParser(t)

	res := p.Parse([]byte("a=1&b=2"))
	want := map[string]interface{}{"a": "1", "b": "2"}
	if diff := cmp.Diff(want, res.Fields.ToMap()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, res.Files.Len())

	res = p.Parse([]byte("a=1"))
	v, _ := res.Fields.LeafValue("a")
	assert.Equal(t, "1", v)

	res = p.Parse([]byte("just some text"))
	assert.Equal(t, 0, res.Fields.Len())

	res = p.Parse([]byte("\r\nleading crlf=1"))
	assert.Equal(t, 1, res.Fields.Len())

	res = p.Parse(nil)
	assert.Equal(t, 0, res.Fields.Len())
}

func TestParse_TmpFileNaming(t *testing.T) {
	dir := t.TempDir()
	p := newTestParser(t, WithTmpDir(dir), WithTmpPrefix("up-"))
	body := buildBody("N",
		file("a", "a.txt", "text/plain", "A"),
		file("b", "b.txt", "text/plain", "B"),
	)

	res := p.Parse(body)
	a, _ := res.Files.LeafValue("a")
	b, _ := res.Files.LeafValue("b")

	assert.NotEqual(t, a.TmpName(), b.TmpName())
	for _, f := range []*upload.UploadedFile{a, b} {
		assert.Equal(t, dir, filepath.Dir(f.TmpName()))
		assert.True(t, strings.HasPrefix(filepath.Base(f.TmpName()), "up-"))
		assert.True(t, strings.HasSuffix(f.TmpName(), ".tmp"))
	}

	target := filepath.Join(t.TempDir(), "a.txt")
	assert.Nil(t, a.MoveTo(target))
	assert.NotNil(t, a.MoveTo(target))
	_, err := os.Stat(a.TmpName())
	assert.True(t, os.IsNotExist(err))
}

func TestParse_UnwritableTmpDirSkipsFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	assert.Nil(t, os.WriteFile(blocker, []byte("x"), 0644))

	p := newTestParser(t, WithTmpDir(filepath.Join(blocker, "sub")))
	res := p.Parse(buildBody("W",
		file("a", "a.txt", "text/plain", "A"),
		field("keep", "yes"),
	))

	assert.Equal(t, 0, res.Files.Len())
	v, _ := res.Fields.LeafValue("keep")
	assert.Equal(t, "yes", v)
}

func TestParse_Metric(t *testing.T) {
	p := newTestParser(t, WithMetric(true))
	m := getMetric()
	fields := testutil.ToFloat64(m.partTotal.WithLabelValues(kindField))
	files := testutil.ToFloat64(m.partTotal.WithLabelValues(kindFile))
	bytesBefore := testutil.ToFloat64(m.tmpFileBytes)

	p.Parse(buildBody("M", field("a", "1"), file("f", "f.txt", "text/plain", "12345")))

	assert.Equal(t, fields+1, testutil.ToFloat64(m.partTotal.WithLabelValues(kindField)))
	assert.Equal(t, files+1, testutil.ToFloat64(m.partTotal.WithLabelValues(kindFile)))
	assert.Equal(t, bytesBefore+5, testutil.ToFloat64(m.tmpFileBytes))
}

func TestLoadOptions(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "multipart.yaml")
	assert.Nil(t, os.WriteFile(filename, []byte("tmpDir: /var/uploads\nenableMetric: true\n"), 0644))

	opts, err := LoadOptions(filename)
	assert.Nil(t, err)
	assert.Equal(t, "/var/uploads", opts.TmpDir)
	assert.Equal(t, "upload_", opts.TmpPrefix)
	assert.Equal(t, ".tmp", opts.TmpSuffix)
	assert.True(t, opts.EnableMetric)
	assert.NotNil(t, opts.Logger)

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
