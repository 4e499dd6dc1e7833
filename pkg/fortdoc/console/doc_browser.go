package console

import (
	"fmt"
	"sort"
	"strings"

	"github.com/76creates/stickers/flexbox"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	constants "github.com/ImGajeed76/fortdoc/internal"
)

var styles = struct {
	card         lipgloss.Style
	rightCard    lipgloss.Style
	topBar       lipgloss.Style
	selectedItem lipgloss.Style
	path         lipgloss.Style
	searchMatch  lipgloss.Style
	section      lipgloss.Style
	cursor       lipgloss.Style
	title        lipgloss.Style
	subtitle     lipgloss.Style
}{
	card: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")),
	rightCard: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(constants.Theme.PrimaryColor)),
	topBar: lipgloss.NewStyle().
		Padding(1).
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Align(lipgloss.Center),
	selectedItem: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
		Bold(true).
		Background(lipgloss.Color("236")),
	path: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Italic(true),
	searchMatch: lipgloss.NewStyle().
		Underline(true).
		Background(lipgloss.Color("237")),
	section: lipgloss.NewStyle().
		PaddingBottom(1),
	cursor: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
		Bold(true),
	title: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).
		Bold(true),
	subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color(constants.Theme.WarningColor)),
}

// BrowserItem is one documented declaration. Path is slash separated,
// "<source file>/<declaration>", and groups items into a tree.
type BrowserItem struct {
	Title       string
	Path        string
	Description string // Markdown
}

// DocBrowserModel is a two-pane browser: a navigable tree of items on the
// left and the rendered Markdown of the selected item on the right.
type DocBrowserModel struct {
	items       map[string]BrowserItem
	subtitle    string
	currentPath string
	options     []string
	cursor      int
	offset      int
	maxEntries  int
	searchTerm  string

	flexbox   *flexbox.FlexBox
	topBar    *flexbox.Cell
	leftCard  *flexbox.Cell
	rightCard *flexbox.Cell

	mouseX int

	previewOffset    int
	previewMaxHeight int
	previewMaxWidth  int
	previewLines     []string
	renderer         *glamour.TermRenderer
	previewCache     map[string][]string
}

// Browse opens the browser full screen until the user quits.
func Browse(subtitle string, items []BrowserItem) error {
	_, err := tea.NewProgram(
		NewDocBrowserModel(subtitle, items),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	return err
}

func NewDocBrowserModel(subtitle string, items []BrowserItem) *DocBrowserModel {
	topBar := flexbox.NewCell(1, 1).SetStyle(styles.topBar)
	leftCard := flexbox.NewCell(2, 7).SetStyle(styles.card)
	rightCard := flexbox.NewCell(3, 7).SetStyle(styles.rightCard)

	fb := flexbox.New(0, 0)
	fb.AddRows([]*flexbox.Row{
		fb.NewRow().AddCells(topBar),
		fb.NewRow().AddCells(leftCard, rightCard),
	})

	byPath := make(map[string]BrowserItem, len(items))
	for _, item := range items {
		byPath[strings.Trim(item.Path, "/")] = item
	}

	m := &DocBrowserModel{
		items:            byPath,
		subtitle:         subtitle,
		maxEntries:       10,
		previewMaxHeight: 20,
		previewMaxWidth:  80,
		flexbox:          fb,
		topBar:           topBar,
		leftCard:         leftCard,
		rightCard:        rightCard,
		previewCache:     make(map[string][]string),
	}
	m.renderer = newRenderer(m.previewMaxWidth)
	m.updateOptions()
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m *DocBrowserModel) Init() tea.Cmd {
	title := styles.title.Render(fmt.Sprintf("%s - v%s", constants.AppName, constants.Version))
	m.topBar.SetContent(title + "\n" + styles.subtitle.Render(m.subtitle))
	m.prerenderPreview()
	return nil
}

func (m *DocBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *DocBrowserModel) handleWindowSize(msg tea.WindowSizeMsg) {
	m.flexbox.SetWidth(msg.Width)
	m.flexbox.SetHeight(msg.Height)
	m.flexbox.ForceRecalculate()

	m.maxEntries = max(m.leftCard.GetHeight()-8, 1)
	m.previewMaxHeight = max(m.rightCard.GetHeight()-6, 1)
	m.previewMaxWidth = max(m.rightCard.GetWidth()-8, 20)
	m.renderer = newRenderer(m.previewMaxWidth)
	m.previewCache = make(map[string][]string)
	m.prerenderPreview()
}

func (m *DocBrowserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.searchTerm == "" {
			return m, tea.Quit
		}
		m.appendSearch(msg.String())
	case "up":
		m.navigateUp()
	case "down":
		m.navigateDown()
	case "pgup":
		m.scrollPreview(-m.previewMaxHeight / 2)
	case "pgdown":
		m.scrollPreview(m.previewMaxHeight / 2)
	case "enter", "right":
		m.enter()
	case "backspace":
		if m.searchTerm != "" {
			m.searchTerm = m.searchTerm[:len(m.searchTerm)-1]
			m.updateOptions()
			m.resetNavigation()
		} else {
			m.navigateBack()
		}
	case "esc", "left":
		if m.searchTerm != "" {
			m.searchTerm = ""
			m.updateOptions()
			m.resetNavigation()
		} else {
			m.navigateBack()
		}
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			m.appendSearch(msg.String())
		}
	}
	return m, nil
}

func (m *DocBrowserModel) handleMouse(msg tea.MouseMsg) {
	m.mouseX = msg.X
	onTree := m.mouseX < m.leftCard.GetWidth()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if onTree {
			m.navigateUp()
		} else {
			m.scrollPreview(-1)
		}
	case tea.MouseButtonWheelDown:
		if onTree {
			m.navigateDown()
		} else {
			m.scrollPreview(1)
		}
	}
}

func (m *DocBrowserModel) appendSearch(s string) {
	m.searchTerm += s
	m.updateOptions()
	m.resetNavigation()
}

func (m *DocBrowserModel) updateOptions() {
	if m.searchTerm == "" {
		m.options = AvailableOptions(m.items, m.currentPath)
		return
	}

	needle := strings.ToLower(m.searchTerm)
	filtered := make([]string, 0)
	for p, item := range m.items {
		if strings.Contains(strings.ToLower(p), needle) ||
			strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			filtered = append(filtered, p)
		}
	}
	sort.Strings(filtered)
	m.options = filtered
}

func (m *DocBrowserModel) selectedPath() string {
	if len(m.options) == 0 || m.cursor+m.offset >= len(m.options) {
		return ""
	}
	option := m.options[m.cursor+m.offset]
	if m.searchTerm != "" || option == ".." {
		return option
	}
	return m.currentPath + option
}

// Selected returns the item under the cursor, if it is a leaf.
func (m *DocBrowserModel) Selected() (BrowserItem, bool) {
	item, ok := m.items[m.selectedPath()]
	return item, ok
}

func (m *DocBrowserModel) navigateUp() {
	if m.cursor > 0 {
		m.cursor--
	} else if m.offset > 0 {
		m.offset--
	}
	m.prerenderPreview()
}

func (m *DocBrowserModel) navigateDown() {
	if m.cursor+m.offset >= len(m.options)-1 {
		return
	}
	if m.cursor < m.maxEntries-1 {
		m.cursor++
	} else {
		m.offset++
	}
	m.prerenderPreview()
}

func (m *DocBrowserModel) enter() {
	selected := m.selectedPath()
	switch {
	case selected == "":
		return
	case selected == "..":
		m.navigateBack()
		return
	case m.searchTerm != "":
		if _, leaf := m.items[selected]; leaf {
			return
		}
		m.searchTerm = ""
		m.currentPath = selected + "/"
	default:
		if _, leaf := m.items[selected]; leaf {
			return
		}
		m.currentPath = selected + "/"
	}
	m.updateOptions()
	m.resetNavigation()
}

func (m *DocBrowserModel) navigateBack() {
	if m.currentPath == "" {
		return
	}
	trimmed := strings.TrimSuffix(m.currentPath, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		m.currentPath = trimmed[:i+1]
	} else {
		m.currentPath = ""
	}
	m.updateOptions()
	m.resetNavigation()
}

func (m *DocBrowserModel) resetNavigation() {
	m.cursor = 0
	m.offset = 0
	m.prerenderPreview()
}

func (m *DocBrowserModel) scrollPreview(delta int) {
	limit := max(len(m.previewLines)-m.previewMaxHeight, 0)
	m.previewOffset = min(max(m.previewOffset+delta, 0), limit)
}

func (m *DocBrowserModel) prerenderPreview() {
	m.previewOffset = 0
	item, ok := m.Selected()
	if !ok {
		m.previewLines = nil
		return
	}

	if lines, ok := m.previewCache[item.Path]; ok {
		m.previewLines = lines
		return
	}

	rendered := item.Description
	if m.renderer != nil {
		if out, err := m.renderer.Render(item.Description); err == nil {
			rendered = out
		}
	}
	m.previewLines = strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	m.previewCache[item.Path] = m.previewLines
}

func (m *DocBrowserModel) View() string {
	var left strings.Builder

	location := "/" + m.currentPath
	left.WriteString(styles.section.Render(styles.path.Render("Location: " + location)))
	left.WriteString("\n")
	if m.searchTerm != "" {
		left.WriteString(styles.section.Render("Search: " + m.searchTerm))
		left.WriteString("\n")
	}
	m.renderOptions(&left)

	m.leftCard.SetContent(left.String())
	m.rightCard.SetContent(m.previewView())
	return m.flexbox.Render()
}

func (m *DocBrowserModel) renderOptions(b *strings.Builder) {
	if len(m.options) == 0 {
		b.WriteString(hintStyle.Render("nothing here"))
		return
	}
	if m.offset > 0 {
		b.WriteString("  ...\n")
	}

	end := min(m.offset+m.maxEntries, len(m.options))
	for i := m.offset; i < end; i++ {
		option := m.options[i]
		cursor := " "
		if i == m.cursor+m.offset {
			cursor = ">"
		}

		full := option
		if m.searchTerm == "" && option != ".." {
			full = m.currentPath + option
		}

		label := option
		if item, ok := m.items[full]; ok && item.Title != "" {
			label = fmt.Sprintf("%s (%s)", item.Title, option)
		} else if option != ".." {
			label = option + "/"
		}
		if m.searchTerm != "" {
			label = highlight(label, m.searchTerm)
		}

		text := styles.cursor.Render(cursor) + " " + label
		if i == m.cursor+m.offset {
			text = styles.selectedItem.Render(text)
		}
		b.WriteString(text + "\n")
	}

	if end < len(m.options) {
		b.WriteString("  ...")
	}
}

func (m *DocBrowserModel) previewView() string {
	if len(m.previewLines) == 0 {
		return hintStyle.Render("select a declaration to preview it\n\nq quit • / type to search • pgup/pgdown scroll")
	}

	end := min(m.previewOffset+m.previewMaxHeight, len(m.previewLines))
	var b strings.Builder
	if m.previewOffset > 0 {
		b.WriteString("↑ More above\n")
	}
	b.WriteString(strings.Join(m.previewLines[m.previewOffset:end], "\n"))
	if end < len(m.previewLines) {
		b.WriteString("\n↓ More below")
	}
	return b.String()
}

func highlight(text, term string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(term))
	if idx < 0 || term == "" {
		return text
	}
	return text[:idx] + styles.searchMatch.Render(text[idx:idx+len(term)]) + text[idx+len(term):]
}

// AvailableOptions lists the next path segments below currentPath, sorted,
// with ".." first when currentPath is not the root.
func AvailableOptions(items map[string]BrowserItem, currentPath string) []string {
	unique := make(map[string]bool)
	for p := range items {
		if !strings.HasPrefix(p, currentPath) {
			continue
		}
		remaining := strings.TrimPrefix(strings.TrimPrefix(p, currentPath), "/")
		if remaining != "" {
			unique[strings.Split(remaining, "/")[0]] = true
		}
	}

	options := make([]string, 0, len(unique))
	for option := range unique {
		options = append(options, option)
	}
	sort.Strings(options)

	if currentPath != "" {
		options = append([]string{".."}, options...)
	}
	return options
}
