package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed static
	embeddedStatic embed.FS

	//go:embed templates
	embeddedTemplates embed.FS
)

// subFS roots fsys at dir. The directories are embedded, so a failure is a build defect.
func subFS(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}

	return sub
}
