// Package build orchestrates card generation: it runs the startup encoder
// check, renders each card in turn, and writes the JPEG files.
package build

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aellingwood/ogcards/internal/card"
	"github.com/aellingwood/ogcards/internal/config"
	"github.com/aellingwood/ogcards/internal/image"
	"github.com/aellingwood/ogcards/internal/seo"
)

// StateDir is the directory, relative to the output directory, that holds
// the render manifest.
const StateDir = ".ogcards"

// Options controls the behaviour of a generation run.
type Options struct {
	Force       bool // re-render even when the manifest says an output is current
	Verbose     bool
	ProjectRoot string // relative output dirs resolve against this; defaults to the working directory
}

// Output describes one card produced (or skipped) by a run.
type Output struct {
	Name    string
	Path    string
	Width   int
	Height  int
	Skipped bool     // output was already up to date
	Faces   []string // typeface kind used for each text line
}

// Result contains statistics about the completed run.
type Result struct {
	Outputs   []Output
	OutputDir string
	Quality   int
	Fallbacks []string // font files that could not be loaded
	Duration  time.Duration
}

// Written returns the number of outputs that were rendered and written.
func (r *Result) Written() int {
	n := 0
	for _, o := range r.Outputs {
		if !o.Skipped {
			n++
		}
	}
	return n
}

// Generator renders the configured cards and writes them to disk.
type Generator struct {
	config  *config.Config
	options Options
	specs   []card.Spec
	fonts   *card.FontLoader
	check   func() error
}

// NewGenerator creates a Generator for the built-in cards.
func NewGenerator(cfg *config.Config, opts Options) *Generator {
	return &Generator{
		config:  cfg,
		options: opts,
		specs:   card.Cards(),
		fonts:   card.NewFontLoader(cfg.Fonts.Bold, cfg.Fonts.Regular),
		check:   image.CheckEncoder,
	}
}

// Generate runs the pipeline:
//  1. Verify the JPEG encoder works
//  2. Open the render manifest
//  3. For each card: skip it if current, otherwise render, encode, and write
//  4. Save the manifest
//
// Cards are handled one at a time; the first failure aborts the run.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := g.check(); err != nil {
		return nil, fmt.Errorf("startup check: %w", err)
	}

	outputDir, err := g.outputDir()
	if err != nil {
		return nil, err
	}

	manifest, err := image.OpenManifest(filepath.Join(outputDir, StateDir))
	if err != nil {
		log.Printf("warning: ignoring render manifest: %v", err)
	}

	result := &Result{
		OutputDir: outputDir,
		Quality:   g.config.Output.Quality,
	}

	for _, spec := range g.specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := g.generateOne(spec, outputDir, manifest)
		if err != nil {
			// Persist the dropped entry so a partial file is never taken
			// as current.
			g.saveManifest(manifest)
			return nil, fmt.Errorf("generating %s: %w", spec.Name, err)
		}
		result.Outputs = append(result.Outputs, out)
	}

	g.saveManifest(manifest)

	result.Fallbacks = g.fonts.Fallbacks()
	if g.options.Verbose {
		for _, fb := range result.Fallbacks {
			log.Printf("font fallback: %s", fb)
		}
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (g *Generator) generateOne(spec card.Spec, outputDir string, manifest *image.Manifest) (Output, error) {
	out := Output{
		Name:   spec.Name,
		Path:   filepath.Join(outputDir, spec.File),
		Width:  spec.Width,
		Height: spec.Height,
		Faces:  g.faceKinds(spec),
	}

	key, err := image.RenderKey(spec, g.config.Output.Quality, g.fonts.Identity(card.Bold), g.fonts.Identity(card.Regular))
	if err != nil {
		return out, err
	}

	if manifest != nil && !g.options.Force && manifest.Fresh(out.Path, key) {
		out.Skipped = true
		if g.options.Verbose {
			log.Printf("%s is up to date", out.Path)
		}
		return out, nil
	}

	if manifest != nil {
		manifest.Forget(out.Path)
	}

	canvas := card.Render(spec, g.fonts)
	if err := image.WriteJPEG(out.Path, canvas, g.config.Output.Quality); err != nil {
		return out, err
	}
	if g.options.Verbose {
		log.Printf("wrote %s (%dx%d)", out.Path, spec.Width, spec.Height)
	}

	if manifest != nil {
		sum, err := image.FileSum(out.Path)
		if err != nil {
			return out, err
		}
		manifest.Record(out.Path, image.ManifestEntry{
			Key:     key,
			Sum:     sum,
			Width:   spec.Width,
			Height:  spec.Height,
			Quality: g.config.Output.Quality,
		})
	}
	return out, nil
}

func (g *Generator) saveManifest(manifest *image.Manifest) {
	if manifest == nil {
		return
	}
	if err := manifest.Save(); err != nil && g.options.Verbose {
		log.Printf("warning: saving render manifest: %v", err)
	}
}

// Meta returns the data for the HTML snippet that references the generated
// cards.
func (g *Generator) Meta() seo.ImageMeta {
	return seo.ImageMeta{
		BaseURL:      g.config.BaseURL,
		OGImage:      card.OpenGraph().File,
		TwitterImage: card.TwitterCard().File,
		Width:        card.Width,
		Height:       card.Height,
	}
}

func (g *Generator) faceKinds(spec card.Spec) []string {
	kinds := make([]string, 0, len(spec.Lines))
	for _, line := range spec.Lines {
		kinds = append(kinds, g.fonts.Face(line.Weight, line.Size).Kind())
	}
	return kinds
}

func (g *Generator) outputDir() (string, error) {
	dir := g.config.Output.Dir
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	root := g.options.ProjectRoot
	if root == "" {
		var err error
		root, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining project root: %w", err)
		}
	}
	return filepath.Join(root, dir), nil
}
