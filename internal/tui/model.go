// Package tui presents a deck in the terminal. It applies the navigator's
// scene to the screen and maps keys and clicks onto navigator operations.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/schacon/slidetty/internal/deck"
	"github.com/schacon/slidetty/internal/navigator"
)

// Options tune the presentation. Zero values fall back to defaults.
type Options struct {
	Title    string
	Style    string
	WordWrap int
	Mouse    bool
	Logger   *zap.Logger
}

// Model is the bubbletea model. The navigator must have been built with the
// same Scheduler.
type Model struct {
	deck  *deck.Deck
	nav   *navigator.Navigator
	sched *Scheduler

	keys     keyMap
	help     help.Model
	showHelp bool

	renderer *glamour.TermRenderer
	style    string
	wordWrap int
	cache    map[renderKey]string

	progress    progress.Model
	percent     float64
	progressCmd tea.Cmd

	width  int
	height int
	title  string
	mouse  bool
	log    *zap.Logger
}

func New(d *deck.Deck, nav *navigator.Navigator, sched *Scheduler, opts Options) (Model, error) {
	if d.Len() != nav.Total() {
		return Model{}, fmt.Errorf("deck has %d slides but navigator has %d", d.Len(), nav.Total())
	}

	wrap := 80
	if opts.WordWrap > 0 {
		wrap = opts.WordWrap
	}
	r, err := newRenderer(opts.Style, wrap)
	if err != nil {
		return Model{}, err
	}

	title := opts.Title
	if title == "" {
		title = d.Title
	}
	if title == "" {
		title = defaultTitle
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		deck:     d,
		nav:      nav,
		sched:    sched,
		keys:     defaultKeyMap(),
		help:     help.New(),
		renderer: r,
		style:    opts.Style,
		wordWrap: opts.WordWrap,
		cache:    make(map[renderKey]string),
		progress: progress.New(progress.WithDefaultGradient()),
		title:    title,
		mouse:    opts.Mouse,
		log:      logger,
	}

	// Set initial progress percentage
	m.percent = nav.Scene().Status.Percent
	m.progressCmd = m.progress.SetPercent(m.percent / 100)
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.progressCmd, m.sched.Drain())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Update renderer word wrap based on terminal width
		wrap := msg.Width - 4
		if m.wordWrap > 0 && m.wordWrap < wrap {
			wrap = m.wordWrap
		}
		if wrap < 20 {
			wrap = 20
		}
		if r, err := newRenderer(m.style, wrap); err == nil {
			m.renderer = r
			m.cache = make(map[renderKey]string)
		} else {
			m.log.Warn("renderer rebuild failed", zap.Error(err))
		}
		m.progress.Width = msg.Width - 4
		m.help.Width = msg.Width
		return m, nil

	case continuationMsg:
		msg.fn()
		return m.afterNavigation()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Advance):
			m.nav.Advance()
		case key.Matches(msg, m.keys.Retreat):
			m.nav.Retreat()
		case key.Matches(msg, m.keys.PrevSlide):
			m.nav.PreviousSlide()
		case key.Matches(msg, m.keys.NextSlide):
			m.nav.NextSlideDirectly()
		case key.Matches(msg, m.keys.First):
			m.nav.First()
		case key.Matches(msg, m.keys.Last):
			m.nav.Last()
		default:
			return m, nil
		}
		return m.afterNavigation()

	case tea.MouseMsg:
		if !m.mouse || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.clickAdvances(msg.Y) {
			return m, nil
		}
		m.nav.Advance()
		return m.afterNavigation()

	// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// afterNavigation collects the scheduled continuations and moves the progress
// bar when the percentage changed.
func (m Model) afterNavigation() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.sched.Drain()}
	if p := m.nav.Scene().Status.Percent; p != m.percent {
		m.percent = p
		cmds = append(cmds, m.progress.SetPercent(p/100))
	}
	return m, tea.Batch(cmds...)
}

// chromeHeight is the number of rows below the slide area: status bar,
// progress bar and, when shown, the help.
func (m Model) chromeHeight() int {
	h := 2
	if m.showHelp {
		h += lipgloss.Height(m.help.View(m.keys))
	}
	return h
}

// clickAdvances reports whether a click on row y should advance. Clicks on
// the chrome rows and on lines carrying a link are ignored.
func (m Model) clickAdvances(y int) bool {
	if y < 0 || y >= m.height-m.chromeHeight() {
		return false
	}
	lines := m.contentLines()
	if y < len(lines) && hasLink(lines[y]) {
		return false
	}
	return true
}

func (m Model) View() string {
	// Calculate available height for content (reserve rows for the chrome)
	contentHeight := m.height - m.chromeHeight()
	if contentHeight < 0 {
		contentHeight = 0
	}

	lines := m.contentLines()
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	// Pad content to fill the available height
	content := strings.Join(lines, "\n")
	if len(lines) < contentHeight {
		content += strings.Repeat("\n", contentHeight-len(lines))
	}

	view := content + "\n" + m.statusLine() + "\n" + m.progress.View()
	if m.showHelp {
		view += "\n" + m.help.View(m.keys)
	}
	return view
}
