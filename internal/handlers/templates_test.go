package handlers

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/MeJR20270/project-book/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateCacheLoadsEmbeddedPages(t *testing.T) {
	tc := NewTemplateCache()
	require.NoError(t, tc.Load(web.Templates, "templates"))

	for _, name := range []string{
		"index.html", "book_detail.html", "login.html", "my_requests.html",
		"admin.html", "admin_requests.html", "error.html",
	} {
		assert.NotNil(t, tc.Get(name), name)
	}
	assert.Nil(t, tc.Get("partials.html"))
}

func TestTemplateCacheCustomFunc(t *testing.T) {
	fsys := fstest.MapFS{
		"t/partials.html": {Data: []byte(`{{define "header"}}<h1>{{shout .}}</h1>{{end}}`)},
		"t/page.html":     {Data: []byte(`{{template "header" .}}`)},
	}
	tc := NewTemplateCache()
	tc.AddFunc("shout", strings.ToUpper)
	require.NoError(t, tc.Load(fsys, "t"))

	var b strings.Builder
	require.NoError(t, tc.Get("page.html").ExecuteTemplate(&b, "page.html", "hi"))
	assert.Equal(t, "<h1>HI</h1>", b.String())
}

func TestRenderMarkdown(t *testing.T) {
	out := string(renderMarkdown("line one\nline **two**\n\n<b>raw</b>"))
	assert.Contains(t, out, "<br>")
	assert.Contains(t, out, "<strong>two</strong>")
	assert.NotContains(t, out, "<b>raw</b>")
}
