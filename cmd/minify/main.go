// Command minify writes a production copy of templates/ and static/ into
// dist/, minifying HTML, CSS, JS and SVG files and copying the rest as is.
// The server serves from dist/ when it runs in production mode.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

var assetDirs = []string{"templates", "static"}

func main() {
	var (
		src = flag.String("src", ".", "Project root containing templates/ and static/")
		out = flag.String("out", "dist", "Output directory")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	m := newMinifier()
	total := 0
	for _, dir := range assetDirs {
		n, err := minifyTree(m, filepath.Join(*src, dir), filepath.Join(*out, dir))
		if err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("minify failed")
		}
		total += n
	}
	log.Info().Int("files", total).Str("out", *out).Msg("assets written")
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	// Templates keep their {{ }} actions and the tags html/template needs.
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
		TemplateDelims:   html.GoTemplateDelims,
	})
	return m
}

// mediaType returns the minifier media type for path, or false when the file
// should be copied unchanged.
func mediaType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return "text/html", true
	case ".css":
		return "text/css", true
	case ".js":
		return "application/javascript", true
	case ".svg":
		return "image/svg+xml", true
	}
	return "", false
}

// minifyTree mirrors src into dst and returns the number of files written.
func minifyTree(m *minify.M, src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if err := writeAsset(m, path, target); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debug().Str("file", rel).Msg("written")
		count++
		return nil
	})
	return count, err
}

func writeAsset(m *minify.M, path, target string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	outFile, err := os.Create(target)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if mt, ok := mediaType(path); ok {
		return m.Minify(mt, outFile, in)
	}
	_, err = io.Copy(outFile, in)
	return err
}
