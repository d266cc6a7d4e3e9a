package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.html static
var files embed.FS

// Files holds the page and partial templates.
func Files() fs.FS {
	return files
}

// Static holds the assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
