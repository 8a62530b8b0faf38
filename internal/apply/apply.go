// Package apply splices rendered rewrites into original file text. Each
// file is processed in a single pass over its original bytes: unrewritten
// text is copied through, rewritten spans are replaced by rendered text,
// and rewritten regions are never re-scanned. Every span offset refers to
// the unmodified original, so no edit invalidates another.
package apply

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"resurface/internal/diag"
	"resurface/internal/rewrite"
	"resurface/internal/source"
)

// Options configures an apply run.
type Options struct {
	// Jobs limits per-file parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Reporter receives per-file informational diagnostics. Nil discards.
	Reporter diag.Reporter
}

// FileResult is the complete new content for one file.
type FileResult struct {
	FileID    source.FileID
	Path      string
	Content   []byte
	EditCount int
	Changed   bool
}

// Apply produces new content for every file in fs. Files are independent,
// so they run through an errgroup worker pool; an internal-consistency
// fault in any file aborts the whole run.
func Apply(ctx context.Context, fs *source.FileSet, out *rewrite.Output, opts Options) ([]FileResult, error) {
	byFile := out.SpansByFile()

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	n := fs.Len()
	if n == 0 {
		return nil, nil
	}

	results := make([]FileResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))

	for i := 0; i < n; i++ {
		i := i
		id := source.FileID(i)
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := applyFile(fs, id, byFile[id], out)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if !res.Changed {
			diag.Info(opts.Reporter, diag.AplEmptyOutput, source.Span{File: res.FileID},
				fmt.Sprintf("%s: no rewrites, emitted verbatim", res.Path))
		}
	}
	return results, nil
}

// applyFile splices one file. Top-level spans must not overlap: nesting is
// expressed structurally inside nodes, never as separate top-level entries,
// so an overlap here is a distribution defect. The check runs to completion
// before a single byte is emitted.
func applyFile(fs *source.FileSet, id source.FileID, spans []source.Span, out *rewrite.Output) (FileResult, error) {
	file := fs.Get(id)
	res := FileResult{FileID: id, Path: file.Path}

	for i := 1; i < len(spans); i++ {
		if spans[i-1].Overlaps(spans[i]) {
			return res, fmt.Errorf(
				"apply: internal fault in %s: top-level spans %s and %s overlap",
				file.Path, spans[i-1], spans[i])
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(file.Content) + 64)
	pos := uint32(0)

	for _, span := range spans {
		node, ok := out.Get(span)
		if !ok {
			return res, fmt.Errorf("apply: internal fault in %s: no node for span %s", file.Path, span)
		}
		// Identity is "keep the original text": not an edit at all.
		if node.Kind() == rewrite.KindIdentity {
			continue
		}

		buf.Write(file.Content[pos:span.Start])
		text, err := rewrite.RenderSource(fs, span, node)
		if err != nil {
			return res, fmt.Errorf("apply: render %s in %s: %w", span, file.Path, err)
		}
		buf.WriteString(text)
		pos = span.End
		res.EditCount++
	}
	buf.Write(file.Content[pos:])

	res.Content = buf.Bytes()
	res.Changed = res.EditCount > 0
	return res, nil
}
