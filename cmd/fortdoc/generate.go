package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/manifest"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outputDir  string
		workers    int
		failFast   bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "generate <manifest>",
		Short: "Write the LaTeX documentation and the comment report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			opts := a.options()
			if cmd.Flags().Changed("output") {
				opts.OutputDir = outputDir
			}
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("fail-fast") {
				opts.FailFast = failFast
			}

			var bar *console.ProgressBar
			if a.cfg.Progress && !noProgress && len(m.Entries) > 0 && terminal(os.Stderr) {
				if !a.verbose && zerolog.GlobalLevel() < zerolog.WarnLevel {
					zerolog.SetGlobalLevel(zerolog.WarnLevel)
				}
				options := console.DefaultProgressOptions()
				options.Label = "files"
				bar = console.NewProgressBar(options)
				opts.Progress = bar
			}

			summary, err := fortdoc.Generate(cmd.Context(), m, opts)
			if bar != nil {
				bar.Finish()
			}
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			if err != nil {
				return err
			}
			if failed := summary.Failed(); len(failed) > 0 {
				return &exitError{code: 2, err: fmt.Errorf("%d of %d files failed", len(failed), len(summary.Results))}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides output_dir)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "files processed in parallel (overrides workers)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing file")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "never show the progress bar")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <manifest>",
		Short: "Write only the !? comment report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			opts := a.options()
			if output != "" {
				opts.CommentsFile = output
			}
			n, err := fortdoc.Report(cmd.Context(), m, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %d comments written to %s", n, opts.CommentsFile)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "report file (overrides comments_file)")
	return cmd
}

func printSummary(w io.Writer, s *fortdoc.Summary) {
	failed := s.Failed()
	documented := len(s.Results) - len(failed)

	line := fmt.Sprintf("✓ %d of %d files documented in %s", documented, len(s.Results), s.Duration.Round(time.Millisecond))
	fmt.Fprintln(w, successStyle.Render(line))

	for _, r := range failed {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("✗ row %d: %v", r.Entry.Row, r.Err)))
	}
	for _, skipped := range s.Skipped {
		fmt.Fprintln(w, warningStyle.Render("! "+skipped.Error()))
	}
	if s.CommentsFile != "" {
		fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf("  %d comments in %s", s.Comments, s.CommentsFile)))
	}
}
