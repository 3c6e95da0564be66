// Package modelviewer holds the page served by the modelviewer commands.
package modelviewer

import (
	"embed"
	"io/fs"
)

//go:generate gopherjs build ./cmd/viewer-web -o web/viewer.js

//go:embed web
var embedded embed.FS

// Assets is the web/ directory: index.html plus the compiled viewer.js.
var Assets = mustSub(embedded, "web")

func mustSub(f fs.FS, dir string) fs.FS {
	s, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return s
}
