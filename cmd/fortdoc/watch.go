package main

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/manifest"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Regenerate documentation whenever a listed source changes",
		Long: `watch runs generate once and then keeps watching the source root. A changed
source regenerates its own manifest rows and the comment report; a changed
manifest regenerates everything. Only local source roots can be watched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifestPath, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			if root := path.New(m.Root); root == nil || root.IsSftp() {
				return errors.New("watch needs a local source root")
			}

			w := &watcher{app: a, manifestPath: manifestPath, manifest: m}
			w.regenerate(cmd.Context(), nil)

			log.Info().Str("root", m.Root).Msg("watching for changes, press ctrl+c to stop")
			return watch.Watch(cmd.Context(), []string{m.Root, manifestPath}, debounce, func(changed []string) {
				w.onChange(cmd.Context(), changed)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet time before regenerating")
	return cmd
}

type watcher struct {
	app          *app
	manifestPath string
	manifest     *manifest.Manifest
}

func (w *watcher) onChange(ctx context.Context, changed []string) {
	if slices.Contains(changed, w.manifestPath) {
		m, err := manifest.Load(w.manifestPath)
		if err != nil {
			log.Error().Err(err).Msg("keeping previous manifest")
			return
		}
		w.manifest = m
		w.regenerate(ctx, nil)
		return
	}

	entries := watch.Entries(w.manifest, changed)
	if len(entries) == 0 {
		return
	}
	w.regenerate(ctx, entries)
}

// regenerate documents entries, or the whole manifest when entries is nil,
// and rewrites the complete comment report.
func (w *watcher) regenerate(ctx context.Context, entries []manifest.Entry) {
	opts := w.app.options()
	opts.FailFast = false
	opts.CommentsFile = ""
	if entries != nil {
		rows := make(map[int]bool, len(entries))
		for _, e := range entries {
			rows[e.Row] = true
		}
		opts.Filter = func(e manifest.Entry) bool { return rows[e.Row] }
	}

	summary, err := fortdoc.Generate(ctx, w.manifest, opts)
	if err != nil {
		log.Error().Err(err).Msg("generate failed")
		return
	}
	log.Info().Int("files", len(summary.Results)).Int("failed", len(summary.Failed())).
		Dur("took", summary.Duration).Msg("regenerated")

	if n, err := fortdoc.Report(ctx, w.manifest, w.app.options()); err != nil {
		log.Error().Err(err).Msg("comment report failed")
	} else {
		log.Debug().Int("comments", n).Msg("comment report updated")
	}
}
