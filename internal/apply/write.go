package apply

import (
	"fmt"
	"os"
	"path/filepath"

	"resurface/internal/diag"
	"resurface/internal/source"
)

// WriteOptions selects where results land.
type WriteOptions struct {
	// Dir, when set, receives the rewritten tree instead of writing in
	// place. Every real file is written there, changed or not, so the
	// directory is a complete copy of the sources.
	Dir string
	// BaseDir is the root against which per-file relative paths are
	// computed when Dir is set.
	BaseDir string
}

// WriteStats summarises one write-back pass.
type WriteStats struct {
	Written int
	Skipped int
}

// WriteResults persists new file contents. In-place mode skips unchanged
// files; virtual files are always skipped. Each file is written atomically:
// the new content goes to a temp file in the target directory, then renames
// over the destination, so a crash mid-write never leaves a half-spliced
// file behind.
//
// Write failures are environment errors, not faults: each one is reported
// and the pass keeps going so one read-only file does not lose the rest of
// the run.
func WriteResults(fs *source.FileSet, results []FileResult, opts WriteOptions, rep diag.Reporter) (WriteStats, error) {
	var stats WriteStats
	var failed int

	for _, res := range results {
		file := fs.Get(res.FileID)
		if file.Flags&source.FileVirtual != 0 || (opts.Dir == "" && !res.Changed) {
			stats.Skipped++
			continue
		}
		target, err := targetPath(file.Path, opts)
		if err == nil {
			err = writeAtomic(target, res.Content)
		}
		if err != nil {
			failed++
			diag.Error(rep, diag.IOWriteFileError, source.Span{File: res.FileID},
				fmt.Sprintf("write %s: %v", file.Path, err))
			continue
		}
		stats.Written++
	}

	if failed > 0 {
		return stats, fmt.Errorf("apply: %d of %d files failed to write", failed, failed+stats.Written)
	}
	return stats, nil
}

func targetPath(path string, opts WriteOptions) (string, error) {
	if opts.Dir == "" {
		return path, nil
	}
	rel, err := filepath.Rel(opts.BaseDir, path)
	if err != nil || filepath.IsAbs(rel) {
		rel = filepath.Base(path)
	}
	target := filepath.Join(opts.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	return target, nil
}

func writeAtomic(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
