package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/latex"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/manifest"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/markdown"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		raw   bool
		asTeX bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "show <manifest> [file]",
		Short: "Preview the documentation of one manifest file in the terminal",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			var file string
			if len(args) == 2 {
				file = args[1]
			}
			entry, err := pickEntry(m, file)
			if err != nil {
				return err
			}

			unit, _, err := fortdoc.ScanEntry(m, entry, a.cfg.Encoding)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asTeX {
				r, err := latex.NewRenderer(latex.Options{MintedOptions: a.cfg.MintedOptions})
				if err != nil {
					return err
				}
				return r.Render(out, unit, entry.RenderOptions())
			}

			md, err := markdown.FromUnit(unit, entry.RenderOptions())
			if err != nil {
				return err
			}
			if raw {
				_, err = fmt.Fprint(out, md)
				return err
			}
			_, err = fmt.Fprint(out, markdown.RenderMarkdown(md, width))
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source")
	cmd.Flags().BoolVar(&asTeX, "latex", false, "print the LaTeX that generate would write")
	cmd.Flags().IntVarP(&width, "width", "w", 100, "wrap width")
	return cmd
}

// pickEntry finds file in the manifest, or lets the user choose one when no
// file is given. A file containing glob characters is matched against the
// source root and must hit listed files.
func pickEntry(m *manifest.Manifest, file string) (manifest.Entry, error) {
	if len(m.Entries) == 0 {
		return manifest.Entry{}, errors.New("manifest lists no files")
	}
	if file == "" {
		return chooseEntry(m.Entries)
	}

	for _, e := range m.Entries {
		if e.File == file {
			return e, nil
		}
	}
	if !strings.ContainsAny(file, "*?[") {
		return manifest.Entry{}, fmt.Errorf("%s is not listed in the manifest", file)
	}

	root := path.New(m.Root)
	if root == nil {
		return manifest.Entry{}, fmt.Errorf("invalid source root %q", m.Root)
	}
	matches, err := root.Glob(file)
	if err != nil {
		return manifest.Entry{}, err
	}
	found := make(map[string]bool, len(matches))
	for _, p := range matches {
		found[p.String()] = true
	}

	var entries []manifest.Entry
	for _, e := range m.Entries {
		if found[m.SourcePath(e).String()] {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return manifest.Entry{}, fmt.Errorf("%s matches no listed file", file)
	}
	return chooseEntry(entries)
}

// chooseEntry returns the only entry or asks on the terminal.
func chooseEntry(entries []manifest.Entry) (manifest.Entry, error) {
	if len(entries) == 1 {
		return entries[0], nil
	}
	if !terminal(os.Stdin) {
		return manifest.Entry{}, fmt.Errorf("no file given, %d files match", len(entries))
	}

	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.File
	}
	i, err := console.ListSelect(files, console.ListSelectOptions{Title: "Select a file:"})
	if err != nil {
		return manifest.Entry{}, err
	}
	return entries[i], nil
}

func newUnlistedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlisted <manifest>",
		Short: "Print manifest rows for Fortran sources the manifest leaves out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			entries, err := m.Unlisted()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, successStyle.Render("✓ every source under "+m.Root+" is listed"))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(out, e.String())
			}
			log.Debug().Int("unlisted", len(entries)).Str("root", m.Root).Msg("listed sources")
			return nil
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <manifest>",
		Short: "Browse the documentation of all manifest files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			return console.Browse(m.Root, browserItems(m, a.cfg.Encoding))
		},
	}
}

// browserItems turns every declaration into an item at
// "<file>/<declaration>". Files that cannot be previewed become a single
// item showing the error.
func browserItems(m *manifest.Manifest, encoding string) []console.BrowserItem {
	var items []console.BrowserItem
	for _, entry := range m.Entries {
		unit, _, err := fortdoc.ScanEntry(m, entry, encoding)
		var sections []markdown.Section
		if err == nil {
			sections, err = markdown.Sections(unit, entry.RenderOptions())
		}
		if err != nil {
			log.Warn().Err(err).Str("file", entry.File).Msg("cannot preview")
			items = append(items, console.BrowserItem{
				Title:       entry.File,
				Path:        entry.File,
				Description: fmt.Sprintf("**Cannot preview**\n\n`%v`", err),
			})
			continue
		}

		for _, s := range sections {
			name, title := s.Name, s.Title
			if name == "" {
				name = unit.Kind.String()
			}
			if title == "" {
				title = entry.File
			}
			items = append(items, console.BrowserItem{
				Title:       title,
				Path:        entry.File + "/" + name,
				Description: s.Body,
			})
		}
	}
	return items
}
