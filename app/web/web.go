// Package web serves the calendar page and its static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

//go:embed assets
var embedded embed.FS

const indexFile = "index.html"

// Assets serves index.html and the static directory from one file system.
type Assets struct {
	root fs.FS
}

// New returns embedded assets when dir is empty, otherwise the files under dir.
func New(dir string) (*Assets, error) {
	if dir != "" {
		return &Assets{root: os.DirFS(dir)}, nil
	}
	root, err := fs.Sub(embedded, "assets")
	if err != nil {
		return nil, fmt.Errorf("open embedded assets: %w", err)
	}
	return &Assets{root: root}, nil
}

// NewFromFS wraps an existing file system.
func NewFromFS(root fs.FS) *Assets {
	return &Assets{root: root}
}

// Index returns the contents of index.html.
func (a *Assets) Index() ([]byte, error) {
	return fs.ReadFile(a.root, indexFile)
}

// StaticHandler serves files under static/, to be mounted with the /static/ prefix stripped.
func (a *Assets) StaticHandler() http.Handler {
	static, err := fs.Sub(a.root, "static")
	if err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.FS(static))
}
