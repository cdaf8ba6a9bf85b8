package ingest

import (
	"errors"
	"gmi/internal/domain/content"
	domainerr "gmi/internal/domain/errors"
	"gmi/internal/logger"
	"gmi/internal/render"
	"os"
	"runtime"
	"sync"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

type Warning struct {
	Path string
	Msg  string
	Err  error
}

type Result struct {
	Index    int
	Document content.ProcessedDocument
	Warns    []Warning
	Skip     bool
}

type Options struct {
	Renderer *render.MarkdownRenderer
	// Workers defaults to GOMAXPROCS.
	Workers int
}

// ProcessFile reads one document and runs it through extraction. Errors
// are *DocumentError and only concern this file.
func ProcessFile(path string, md *render.MarkdownRenderer) (content.ProcessedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return content.ProcessedDocument{}, &domainerr.DocumentError{Path: path, Stage: domainerr.StageRead, Err: err}
	}
	if !utf8.Valid(raw) {
		return content.ProcessedDocument{}, &domainerr.DocumentError{Path: path, Stage: domainerr.StageRead, Err: errInvalidUTF8}
	}
	return ProcessSource(path, raw, md)
}

// ProcessSource splits, decodes and renders an in-memory document. The body
// is only rendered once the front matter has decoded.
func ProcessSource(path string, raw []byte, md *render.MarkdownRenderer) (content.ProcessedDocument, error) {
	fmText, body := SplitFrontMatter(string(raw))

	fm, err := ParseFrontMatter(fmText)
	if err != nil {
		return content.ProcessedDocument{}, &domainerr.DocumentError{Path: path, Stage: domainerr.StageFrontMatter, Err: err}
	}

	html := md.Render(body)
	images := render.ExtractImages(html)

	logger.Debug("Processed document", map[string]interface{}{
		"path":             path,
		"frontmatter_len":  len(fmText),
		"markdown_len":     len(body),
		"title":            fm.Title,
		"images":           len(images),
		"extra_fields_len": len(fm.Extra),
	})

	return content.ProcessedDocument{
		Frontmatter: fm,
		Markdown:    body,
		HTML:        html,
		Path:        path,
		Images:      images,
		Checksum:    HashBytes(raw),
	}, nil
}

// Ingest processes files in parallel and hands the survivors back in input
// order. Failed files become warnings; they never abort the batch.
func Ingest(files []SourceFile, opt Options) ([]content.ProcessedDocument, []Warning) {
	md := opt.Renderer
	if md == nil {
		md = render.NewMarkdownRenderer()
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type job struct {
		index int
		file  SourceFile
	}
	jobs := make(chan job)
	results := make(chan Result)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				doc, err := ProcessFile(j.file.Path, md)
				if err != nil {
					results <- Result{
						Index: j.index,
						Warns: []Warning{{Path: j.file.Path, Msg: err.Error(), Err: err}},
						Skip:  true,
					}
					continue
				}
				results <- Result{Index: j.index, Document: doc}
			}
		}()
	}

	go func() {
		for i, f := range files {
			jobs <- job{index: i, file: f}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	ordered := make([]Result, len(files))
	for r := range results {
		ordered[r.Index] = r
	}

	// 按输入顺序重新排列，后面的 fold 依赖这个顺序
	var out []content.ProcessedDocument
	var warns []Warning
	for _, r := range ordered {
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		out = append(out, r.Document)
	}
	return out, warns
}
