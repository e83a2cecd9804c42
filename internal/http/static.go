package httpapp

import (
	"bytes"
	"compress/gzip"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/cesargomez89/tunedeck/internal/logger"
)

type asset struct {
	content     []byte
	gzipped     []byte
	contentType string
}

// Assets holds the web client's files minified and gzipped once at
// startup, keyed by their path below the root directory.
type Assets struct {
	files map[string]*asset
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// LoadAssets walks root inside fsys. A file that fails to minify is
// served as-is.
func LoadAssets(fsys fs.FS, root string, log *logger.Logger) (*Assets, error) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.WithComponent("static")
	m := newMinifier()
	a := &Assets{files: make(map[string]*asset)}

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		contentType := mime.TypeByExtension(filepath.Ext(p))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		name := strings.TrimPrefix(p, root+"/")

		content := data
		mediaType := strings.Split(contentType, ";")[0]
		if _, _, fn := m.Match(mediaType); fn != nil {
			var buf bytes.Buffer
			if err := m.Minify(mediaType, &buf, bytes.NewReader(data)); err != nil {
				log.Warn("Failed to minify asset", "path", name, "error", err)
			} else {
				content = buf.Bytes()
				log.Debug("Minified asset", "path", name, "from", len(data), "to", len(content))
			}
		}

		var gz bytes.Buffer
		zw, _ := gzip.NewWriterLevel(&gz, gzip.BestCompression)
		zw.Write(content)
		zw.Close()

		a.files[name] = &asset{content: content, gzipped: gz.Bytes(), contentType: contentType}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info("Loaded web assets", "count", len(a.files))
	return a, nil
}

// ServeHTTP serves an asset, falling back to index.html for unknown
// paths so the client can route on its own.
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || name == "." {
		name = "index.html"
	}
	f, ok := a.files[name]
	if !ok {
		if f, ok = a.files["index.html"]; !ok {
			http.NotFound(w, r)
			return
		}
	}

	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Vary", "Accept-Encoding")
	if strings.HasPrefix(f.contentType, "text/html") {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") && len(f.gzipped) > 0 {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(f.gzipped)
		return
	}
	w.Write(f.content)
}
