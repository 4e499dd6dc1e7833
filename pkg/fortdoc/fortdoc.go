// Package fortdoc generates LaTeX documentation for every file listed in a
// manifest and collects the "!?" review comments of those files into a
// report.
package fortdoc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/manifest"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/report"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/scanner"
)

// Progress receives the number of finished files.
type Progress interface {
	Update(total, count int64)
}

// Options control a batch run.
type Options struct {
	// OutputDir is joined with each entry's output name.
	OutputDir string
	// CommentsFile receives the comment report. Empty skips the report.
	CommentsFile  string
	Encoding      string
	Workers       int
	FailFast      bool
	MintedOptions string
	Progress      Progress
	// Filter limits the run to matching entries. Nil documents everything.
	Filter func(manifest.Entry) bool
}

func DefaultOptions() Options {
	return Options{
		OutputDir:     "doc",
		CommentsFile:  "comments.tex",
		Encoding:      "utf-8",
		Workers:       runtime.NumCPU(),
		MintedOptions: latex.DefaultMintedOptions,
	}
}

// Result is the outcome for one manifest entry.
type Result struct {
	Entry        manifest.Entry
	Source       string
	Output       string
	Declarations int
	Comments     []report.Comment
	Err          error
}

// Failed reports whether the entry produced no documentation.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Summary is the outcome of a batch run. Results are in manifest order.
type Summary struct {
	Results      []Result
	Skipped      []*manifest.RowError
	CommentsFile string
	Comments     int
	Duration     time.Duration
}

// Failed returns the results that carry an error.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the errors of all failed entries.
func (s *Summary) Err() error {
	var errs []error
	for _, r := range s.Failed() {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}

func (o *Options) normalize() {
	def := DefaultOptions()
	if o.OutputDir == "" {
		o.OutputDir = def.OutputDir
	}
	if o.Encoding == "" {
		o.Encoding = def.Encoding
	}
	if o.Workers < 1 {
		o.Workers = def.Workers
	}
}

func (o *Options) entries(m *manifest.Manifest) []manifest.Entry {
	if o.Filter == nil {
		return m.Entries
	}
	var entries []manifest.Entry
	for _, e := range m.Entries {
		if o.Filter(e) {
			entries = append(entries, e)
		}
	}
	return entries
}

// Generate documents the manifest entries in parallel. A failing entry is
// recorded in its Result and the others carry on, unless FailFast is set, in
// which case the first failure cancels the run, no report is written and the
// failure is returned.
func Generate(ctx context.Context, m *manifest.Manifest, opts Options) (*Summary, error) {
	start := time.Now()
	opts.normalize()

	renderer, err := latex.NewRenderer(latex.Options{MintedOptions: opts.MintedOptions})
	if err != nil {
		return nil, err
	}

	entries := opts.entries(m)
	summary := &Summary{
		Results: make([]Result, len(entries)),
		Skipped: m.Skipped,
	}

	var (
		g, gctx = errgroup.WithContext(ctx)
		done    atomic.Int64
		total   = int64(len(entries))
	)
	g.SetLimit(opts.Workers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				summary.Results[i] = Result{Entry: entry, Err: err}
				return err
			}

			res := ProcessEntry(gctx, m, entry, renderer, opts)
			summary.Results[i] = res
			if opts.Progress != nil {
				opts.Progress.Update(total, done.Add(1))
			}

			if res.Err != nil {
				log.Error().Err(res.Err).Str("file", entry.File).Int("row", entry.Row).Msg("documentation failed")
				if opts.FailFast {
					return res.Err
				}
				return nil
			}
			log.Info().Str("file", entry.File).Str("output", res.Output).Int("decls", res.Declarations).Msg("documented")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}

	if opts.CommentsFile != "" {
		var comments []report.Comment
		for _, r := range summary.Results {
			comments = append(comments, r.Comments...)
		}
		if err := writeReport(opts.CommentsFile, opts.Encoding, comments); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}
		summary.CommentsFile = opts.CommentsFile
		summary.Comments = len(comments)
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// ProcessEntry reads, scans and renders one entry and writes its LaTeX.
// Comments are collected whenever the source could be read, even if the
// documentation itself fails.
func ProcessEntry(ctx context.Context, m *manifest.Manifest, entry manifest.Entry, r *latex.Renderer, opts Options) Result {
	src := m.SourcePath(entry)
	res := Result{Entry: entry, Source: src.String()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if !src.IsSftp() && !src.Exists() {
		res.Err = fmt.Errorf("%s: no such source %s: %w", entry.File, src, pathmodels.ErrNotExist)
		return res
	}
	lines, err := src.Lines(opts.Encoding)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", entry.File, err)
		return res
	}
	res.Comments = report.Collect(entry.File, lines)

	unit := scanner.Scan(lines, entry.Kind)
	res.Declarations = len(unit.Documented())

	var sb strings.Builder
	if err := r.Render(&sb, unit, entry.RenderOptions()); err != nil {
		res.Err = fmt.Errorf("%s: %w", entry.File, err)
		return res
	}

	out := OutputPath(opts.OutputDir, entry)
	if err := out.Parent().MakeDir(true, true); err != nil {
		res.Err = fmt.Errorf("%s: %w", entry.File, err)
		return res
	}
	if err := out.WriteText(sb.String(), opts.Encoding); err != nil {
		res.Err = fmt.Errorf("%s: %w", entry.File, err)
		return res
	}
	res.Output = out.String()
	return res
}

// OutputPath is where the LaTeX of entry is written.
func OutputPath(outputDir string, entry manifest.Entry) *path.Path {
	return path.New(outputDir).Join(entry.Output)
}

// ScanEntry reads and scans the source of one entry.
func ScanEntry(m *manifest.Manifest, entry manifest.Entry, encoding string) (*scanner.Unit, []string, error) {
	lines, err := m.SourcePath(entry).Lines(encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", entry.File, err)
	}
	return scanner.Scan(lines, entry.Kind), lines, nil
}

// Report collects the comments of every entry and writes only the report.
// Unreadable sources are logged and left out.
func Report(ctx context.Context, m *manifest.Manifest, opts Options) (int, error) {
	opts.normalize()
	if opts.CommentsFile == "" {
		return 0, errors.New("no comments file configured")
	}

	entries := opts.entries(m)
	collected := make([][]report.Comment, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := m.SourcePath(entry).Lines(opts.Encoding)
			if err != nil {
				log.Warn().Err(err).Str("file", entry.File).Msg("skipping unreadable source")
				return nil
			}
			collected[i] = report.Collect(entry.File, lines)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var comments []report.Comment
	for _, c := range collected {
		comments = append(comments, c...)
	}
	if err := writeReport(opts.CommentsFile, opts.Encoding, comments); err != nil {
		return 0, err
	}
	return len(comments), nil
}

func writeReport(location, encoding string, comments []report.Comment) error {
	text, err := report.String(comments)
	if err != nil {
		return err
	}

	p := path.New(location)
	if p == nil {
		return fmt.Errorf("invalid comments file %q", location)
	}
	if err := p.Parent().MakeDir(true, true); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := p.WriteText(text, encoding); err != nil {
		return fmt.Errorf("writing %s: %w", location, err)
	}
	log.Info().Str("file", location).Int("comments", len(comments)).Msg("comment report written")
	return nil
}
