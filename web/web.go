// Package web embeds the sign-in page and the dashboard client.
package web

import (
	"embed"
	"io/fs"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed static/*
	staticFS embed.FS
)

// GetTemplatesFS returns index.html and login.html at the root
func GetTemplatesFS() fs.FS {
	return mustSub(templatesFS, "templates")
}

// GetStaticFS returns the files served under /static/
func GetStaticFS() fs.FS {
	return mustSub(staticFS, "static")
}

// The directory names are fixed at compile time, so fs.Sub cannot fail here.
func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
