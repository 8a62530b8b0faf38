package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resurface/internal/rewrite"
)

var previewCmd = &cobra.Command{
	Use:   "preview [flags] [project-dir]",
	Short: "Show the rewrites a run would apply, without touching any file",
	Long:  "Distribute the recorded edit requests and print each rewritten span with its rewrite, either as a structural preview or as the exact replacement text.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var previewPathColor = color.New(color.FgCyan)

func init() {
	previewCmd.Flags().Bool("source", false, "print the exact replacement text instead of the structural preview")
}

func runPreview(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	asSource, err := cmd.Flags().GetBool("source")
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

	st, err := runPipeline(manifest, maxDiagnostics)
	defer st.finish(quiet, timings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, span := range st.out.Spans() {
		node, _ := st.out.Get(span)

		text := node.String()
		if asSource {
			text, err = rewrite.RenderSource(st.fs, span, node)
			if err != nil {
				return err
			}
		}

		file := st.fs.Get(span.File)
		start, _ := st.fs.Resolve(span)
		loc := previewPathColor.Sprintf("%s:%d:%d",
			file.FormatPath(pathDisplay(manifest), st.fs.BaseDir()), start.Line, start.Col)
		fmt.Fprintf(out, "%s: %s -> %s\n", loc, st.fs.Text(span), text)
	}
	if !quiet {
		fmt.Fprintf(out, "%d rewrites, %d requests dropped\n", st.out.Len(), st.stats.Dropped)
	}
	return nil
}
