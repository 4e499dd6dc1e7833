package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

const (
	padding  = 2
	maxWidth = 80
)

type ProgressOptions struct {
	GradientColors []string
	Width          int
	Padding        int
	// Label is printed next to the bar, e.g. "files".
	Label  string
	Output io.Writer
}

func DefaultProgressOptions() ProgressOptions {
	return ProgressOptions{
		GradientColors: []string{"#5956e0", "#e86ef6"},
		Width:          maxWidth,
		Padding:        padding,
		Output:         os.Stderr,
	}
}

// ProgressBar draws a bar on its own bubbletea program. It is safe for
// concurrent use.
type ProgressBar struct {
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

type progressMsg struct {
	total int64
	count int64
}

type (
	progressFinishMsg struct{}
	progressQuitMsg   struct{}
)

type progressModel struct {
	progress progress.Model
	options  ProgressOptions
	percent  float64
	total    int64
	count    int64
}

func newProgressModel(options ProgressOptions) progressModel {
	return progressModel{
		progress: progress.New(
			progress.WithGradient(options.GradientColors[0], options.GradientColors[1]),
			progress.WithWidth(options.Width),
		),
		options: options,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-m.options.Padding*2-4, m.options.Width)
	case progressMsg:
		m.total, m.count = msg.total, msg.count
		if msg.total <= 0 {
			m.percent = 0
		} else {
			m.percent = min(float64(msg.count)/float64(msg.total), 1)
		}
	case progressFinishMsg:
		m.count = m.total
		m.percent = 1
	case progressQuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	pad := strings.Repeat(" ", m.options.Padding)
	line := pad + m.progress.ViewAs(m.percent)
	if m.options.Label != "" {
		line += fmt.Sprintf(" %d/%d %s", m.count, m.total, m.options.Label)
	}
	return "\n" + line + "\n\n"
}

func NewProgressBar(opts ...ProgressOptions) *ProgressBar {
	options := DefaultProgressOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	if options.Output == nil {
		options.Output = os.Stderr
	}

	bar := &ProgressBar{
		program: tea.NewProgram(newProgressModel(options), tea.WithOutput(options.Output), tea.WithInput(nil)),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(bar.done)
		if _, err := bar.program.Run(); err != nil {
			log.Debug().Err(err).Msg("progress bar stopped")
		}
	}()
	return bar
}

// Update moves the bar to count out of total.
func (b *ProgressBar) Update(total, count int64) {
	b.program.Send(progressMsg{total: total, count: count})
}

// Finish fills the bar and closes it.
func (b *ProgressBar) Finish() {
	b.program.Send(progressFinishMsg{})
	b.Close()
}

// Close stops the bar and waits until the terminal is restored.
func (b *ProgressBar) Close() {
	b.closeOnce.Do(func() {
		b.program.Send(progressQuitMsg{})
	})
	<-b.done
}
