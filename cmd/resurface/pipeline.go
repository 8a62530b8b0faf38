package main

import (
	"errors"
	"fmt"
	"os"

	"resurface/internal/crashdetail"
	"resurface/internal/diag"
	"resurface/internal/distribute"
	"resurface/internal/mirop"
	"resurface/internal/observ"
	"resurface/internal/rewrite"
	"resurface/internal/source"
	"resurface/internal/unlower"
)

// pipelineState carries everything the subcommands share: loaded sources,
// the distributed rewrite output, and the run's diagnostics.
type pipelineState struct {
	manifest *projectManifest
	fs       *source.FileSet
	out      *rewrite.Output
	stats    distribute.Stats
	bag      *diag.Bag
	timer    *observ.Timer
	crashes  *crashdetail.Store
}

// runPipeline loads the project's sources and analysis artifacts, then
// distributes the request stream into per-span rewrite nodes. Distribution
// runs behind the crash boundary so an internal defect surfaces as a
// captured detail instead of a raw panic.
func runPipeline(manifest *projectManifest, maxDiagnostics int) (*pipelineState, error) {
	st := &pipelineState{
		manifest: manifest,
		bag:      diag.NewBag(maxDiagnostics),
		timer:    observ.NewTimer(),
		crashes:  crashdetail.NewStore(warnStderr),
	}
	if frames := manifest.Config.Crash.RelevantFrames; len(frames) > 0 {
		st.crashes.SetRelevant(frames...)
	}
	rep := diag.BagReporter{Bag: st.bag}

	done := st.timer.Phase("load")
	st.fs = source.NewFileSetWithBase(manifest.Root)
	for _, rel := range manifest.Config.Input.Files {
		path := manifest.resolve(rel)
		if _, err := st.fs.Load(path); err != nil {
			diag.Error(rep, diag.IOLoadFileError, source.Span{},
				fmt.Sprintf("load %s: %v", path, err))
			return st, fmt.Errorf("load %s: %w", path, err)
		}
	}
	done(fmt.Sprintf("%d files", st.fs.Len()))

	done = st.timer.Phase("decode")
	requests, err := mirop.LoadStream(manifest.resolve(manifest.Config.Input.Requests))
	if err != nil {
		diag.Error(rep, decodeCode(err), source.Span{}, err.Error())
		return st, err
	}
	table, err := unlower.LoadTable(manifest.resolve(manifest.Config.Input.Unlowering))
	if err != nil {
		diag.Error(rep, decodeCode(err), source.Span{}, err.Error())
		return st, err
	}
	if table.Len() == 0 && len(requests) > 0 {
		diag.Warn(rep, diag.DecMissingTable, source.Span{},
			fmt.Sprintf("unlowering table has no origins; all %d requests will be dropped", len(requests)))
	}
	done(fmt.Sprintf("%d requests, %d origins", len(requests), table.Len()))

	done = st.timer.Phase("distribute")
	err = st.crashes.Run(func() error {
		st.out, st.stats = distribute.Distribute(requests, table, distribute.Options{Reporter: rep})
		return nil
	})
	done(fmt.Sprintf("%d attributed, %d dropped", st.stats.Attributed, st.stats.Dropped))
	if err != nil {
		return st, err
	}
	return st, nil
}

// finish prints diagnostics and timings, honoring --quiet.
func (st *pipelineState) finish(quiet, timings bool) {
	st.bag.Sort()
	st.bag.Dedup()
	if out := diag.FormatShort(st.bag.Items(), st.fs, !quiet); out != "" {
		fmt.Fprint(os.Stderr, out)
	}
	if timings && !quiet {
		fmt.Fprint(os.Stderr, st.timer.Summary())
	}
	if detail, ok := st.crashes.Take(); ok && !quiet {
		fmt.Fprintln(os.Stderr, detail.StringFull())
	}
}

func decodeCode(err error) diag.Code {
	if errors.Is(err, mirop.ErrSchemaVersion) {
		return diag.DecSchemaVersion
	}
	return diag.DecCorruptPayload
}

func warnStderr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
