package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resurface/internal/apply"
	"resurface/internal/diag"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] [project-dir]",
	Short: "Rewrite the project's source files in place",
	Long:  "Distribute the recorded edit requests over their owning expressions, splice the rendered rewrites into the original files, and write the results back.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().Bool("dry-run", false, "render and report without writing any file")
	applyCmd.Flags().Int("jobs", 0, "files rewritten in parallel (0 = one per CPU)")
	applyCmd.Flags().String("out", "", "write the rewritten tree into this directory instead of in place")
}

func runApply(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	manifest, err := loadProjectManifest(startDir)
	if err != nil {
		return err
	}
	if jobs == 0 {
		jobs = manifest.Config.Apply.Jobs
	}
	if outDir == "" && manifest.Config.Output.Dir != "" {
		outDir = manifest.resolve(manifest.Config.Output.Dir)
	}

	st, err := runPipeline(manifest, maxDiagnostics)
	defer st.finish(quiet, timings)
	if err != nil {
		return err
	}
	rep := diag.BagReporter{Bag: st.bag}

	done := st.timer.Phase("apply")
	results, err := apply.Apply(cmd.Context(), st.fs, st.out, apply.Options{
		Jobs:     jobs,
		Reporter: rep,
	})
	if err != nil {
		done("failed")
		return err
	}
	var edits, changed int
	for _, res := range results {
		edits += res.EditCount
		if res.Changed {
			changed++
		}
	}
	done(fmt.Sprintf("%d edits in %d files", edits, changed))

	if dryRun {
		if !quiet {
			for _, res := range results {
				if res.Changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d edits\n",
						st.fs.Get(res.FileID).FormatPath(pathDisplay(manifest), st.fs.BaseDir()), res.EditCount)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d edits in %d files, nothing written\n", edits, changed)
		}
		return nil
	}

	done = st.timer.Phase("write")
	stats, err := apply.WriteResults(st.fs, results, apply.WriteOptions{
		Dir:     outDir,
		BaseDir: st.fs.BaseDir(),
	}, rep)
	done(fmt.Sprintf("%d written", stats.Written))
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d spans across %d files\n", edits, stats.Written)
	}
	return nil
}

func pathDisplay(manifest *projectManifest) string {
	if mode := manifest.Config.Apply.PathDisplay; mode != "" {
		return mode
	}
	return "relative"
}
