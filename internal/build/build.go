// Package build runs one complete export: discover, extract, fold, write.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"gmi/internal/domain/config"
	domainerr "gmi/internal/domain/errors"
	"gmi/internal/domain/ghost"
	"gmi/internal/export"
	"gmi/internal/index"
	"gmi/internal/ingest"
	"gmi/internal/logger"
	"gmi/internal/render"
	"os"
	"path/filepath"
)

type Runner struct {
	Cfg config.Config
	// Renderer is shared across runs; nil means a fresh one per run.
	Renderer *render.MarkdownRenderer
}

type Result struct {
	Output      string
	Posts       int
	Tags        int
	Users       int
	Images      int
	Excluded    int
	Warnings    []ingest.Warning
	Fingerprint Fingerprint
	Import      ghost.Import
}

// Skipped is the number of documents dropped during extraction.
func (r *Result) Skipped() int {
	return len(r.Warnings)
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.Cfg.Validate(); err != nil {
		return nil, err
	}

	files, excluded, err := r.sources()
	if err != nil {
		return nil, err
	}

	fp, err := NewFingerprint(r.Cfg, files)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs, warns := ingest.Ingest(files, ingest.Options{Renderer: r.Renderer})
	for _, w := range warns {
		fields := map[string]interface{}{"path": w.Path, "error": w.Msg}
		var de *domainerr.DocumentError
		if errors.As(w.Err, &de) {
			fields["stage"] = string(de.Stage)
		}
		logger.Warn("Skipping document", fields)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%d of %d documents failed: %w", len(warns), len(files), domainerr.ErrNoDocuments)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	imp := export.Build(docs, export.Options{
		DefaultAuthor: r.Cfg.Export.DefaultAuthor,
		DefaultTags:   r.Cfg.Export.DefaultTags,
		Now:           r.Cfg.Clock(),
	})

	payload, err := export.Encode(imp, r.Cfg.Export.Pretty)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	out := r.Cfg.ResolveOutput()
	images, err := r.writeOutput(out, payload)
	if err != nil {
		return nil, err
	}

	if path := r.Cfg.Export.IndexPath; path != "" {
		if err := writeIndex(path, imp); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Output:      out,
		Posts:       len(imp.Data.Posts),
		Tags:        len(imp.Data.Tags),
		Users:       len(imp.Data.Users),
		Images:      images,
		Excluded:    excluded,
		Warnings:    warns,
		Fingerprint: fp,
		Import:      imp,
	}
	logger.Info("Export written", map[string]interface{}{
		"output":  res.Output,
		"posts":   res.Posts,
		"tags":    res.Tags,
		"users":   res.Users,
		"skipped": res.Skipped(),
	})
	return res, nil
}

// Fingerprint discovers the current inputs and hashes them without running
// the export.
func (r *Runner) Fingerprint() (Fingerprint, error) {
	files, _, err := r.sources()
	if err != nil {
		return Fingerprint{}, err
	}
	return NewFingerprint(r.Cfg, files)
}

func (r *Runner) sources() ([]ingest.SourceFile, int, error) {
	in := r.Cfg.Input

	info, err := os.Stat(in.Dir)
	if err != nil {
		return nil, 0, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("input %s is not a directory", in.Dir)
	}

	files, err := ingest.DiscoverMarkdown(in.Dir, in.Recursive, in.Extensions)
	if err != nil {
		return nil, 0, fmt.Errorf("discover %s: %w", in.Dir, err)
	}

	kept, skipped := ingest.Exclude(files, in.Exclude)
	for _, f := range skipped {
		logger.Debug("Excluded file", map[string]interface{}{"path": f.Path})
	}
	if len(kept) == 0 {
		return nil, 0, fmt.Errorf("%s: %w", in.Dir, domainerr.ErrNoInput)
	}
	logger.Debug("Discovered markdown files", map[string]interface{}{
		"dir":      in.Dir,
		"files":    len(kept),
		"excluded": len(skipped),
	})
	return kept, len(skipped), nil
}

func (r *Runner) writeOutput(out string, payload []byte) (int, error) {
	if r.Cfg.Export.Format != config.FormatZip {
		if err := writeFile(out, payload); err != nil {
			return 0, fmt.Errorf("write %s: %w", out, err)
		}
		return 0, nil
	}

	var images []string
	if r.Cfg.Export.IncludeImages {
		var err error
		images, err = ingest.DiscoverImages(r.Cfg.Input.Dir)
		if err != nil {
			return 0, fmt.Errorf("discover images: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := export.WriteArchive(&buf, payload, r.Cfg.Input.Dir, images); err != nil {
		return 0, fmt.Errorf("build archive: %w", err)
	}
	if err := writeFile(out, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("write %s: %w", out, err)
	}
	return len(images), nil
}

func writeIndex(path string, imp ghost.Import) error {
	st, err := index.Open(index.OpenOptions{Path: path})
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(imp); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
