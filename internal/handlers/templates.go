package handlers

import (
	"bytes"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// partialsFile is parsed alongside every page and defines header, footer and
// shared fragments.
const partialsFile = "partials.html"

// mdRenderer escapes raw HTML found in descriptions (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"markdown": renderMarkdown,
		},
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses every page in dir of fsys together with the shared partials.
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	partials := path.Join(dir, partialsFile)
	for _, file := range files {
		name := path.Base(file)
		if name == partialsFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, partials, file)
		if err != nil {
			slog.Error("Failed to parse template", "file", file, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}
