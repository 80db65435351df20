package tui

import (
	"strings"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schacon/slidetty/internal/deck"
	"github.com/schacon/slidetty/internal/navigator"
)

func newTestModel(t *testing.T, files fstest.MapFS) (Model, *navigator.Navigator) {
	t.Helper()
	d, err := deck.LoadFS(files, deck.ParseOptions{})
	require.NoError(t, err)

	sched := NewScheduler()
	nav, err := navigator.New(d.StepCounts(),
		navigator.WithScheduler(sched),
		navigator.WithExitDelay(0),
		navigator.WithSettleDelay(0))
	require.NoError(t, err)

	m, err := New(d, nav, sched, Options{Style: "notty", Mouse: true})
	require.NoError(t, err)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), nav
}

// run executes cmd and feeds continuations back into the model until none
// remain. Progress bar frames are dropped.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 100, "continuations did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case continuationMsg:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	return run(t, next.(Model), cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func click(y int) tea.MouseMsg {
	return tea.MouseMsg{X: 1, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

var threeSlides = fstest.MapFS{
	"_title.md": {Data: []byte("Test Deck")},
	"1.md":      {Data: []byte("# First\n\n<!-- step -->\nalpha\n\n<!-- step -->\nbeta\n")},
	"2.md":      {Data: []byte("# Second\n\nplain\n")},
	"3.md":      {Data: []byte("# Third\n\n<!-- step -->\ngamma\n")},
}

func TestKeys_Navigation(t *testing.T) {
	m, nav := newTestModel(t, threeSlides)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, nav.StepProgress(0))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 2, nav.StepProgress(0))
	m = press(t, m, runes("l"))
	assert.Equal(t, 1, nav.Index())
	assert.False(t, nav.Locked())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, nav.Index())
	assert.Equal(t, 2, nav.StepProgress(0))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 2, nav.Index())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, nav.Index())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, nav.Index())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, nav.Index())

	m = press(t, m, runes("x"))
	assert.Equal(t, 0, nav.Index())
	assert.False(t, nav.Locked())
}

func TestKeys_QuitAndHelp(t *testing.T) {
	m, _ := newTestModel(t, threeSlides)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	next, _ := m.Update(runes("?"))
	m = next.(Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "last slide")
	assert.Greater(t, m.chromeHeight(), 2)
}

func TestKeys_IgnoredWhileTransitioning(t *testing.T) {
	m, nav := newTestModel(t, threeSlides)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.True(t, nav.Locked())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_ = next
	assert.Equal(t, 0, nav.Index())
	assert.Zero(t, nav.StepProgress(0))
}

func TestView_StatusAndReveal(t *testing.T) {
	m, _ := newTestModel(t, threeSlides)

	view := m.View()
	assert.Contains(t, view, "Slide 1 / 3")
	assert.Contains(t, view, "step 0/2")
	assert.Contains(t, view, "Test Deck")
	assert.Contains(t, view, "First")
	assert.NotContains(t, view, "alpha")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	view = m.View()
	assert.Contains(t, view, "alpha")
	assert.NotContains(t, view, "beta")
	assert.Contains(t, view, "step 1/2")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	view = m.View()
	assert.Contains(t, view, "Slide 2 / 3")
	assert.NotContains(t, view, "step ")
	assert.Equal(t, 24, len(strings.Split(view, "\n")))
}

func TestView_ExitFrame(t *testing.T) {
	m, nav := newTestModel(t, threeSlides)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	require.Equal(t, 0, nav.Scene().Exiting)

	view := m.View()
	assert.Contains(t, view, "First", "the exiting slide stays on screen")
	assert.Contains(t, view, "Slide 1 / 3", "counter is refreshed only on activation")
}

func TestMouse_ClickAdvances(t *testing.T) {
	m, nav := newTestModel(t, threeSlides)

	next, cmd := m.Update(click(0))
	m = run(t, next.(Model), cmd)
	assert.Equal(t, 1, nav.StepProgress(0))

	next, cmd = m.Update(click(23))
	m = run(t, next.(Model), cmd)
	assert.Equal(t, 1, nav.StepProgress(0), "clicks on the chrome are ignored")

	down := tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	next, cmd = m.Update(down)
	run(t, next.(Model), cmd)
	assert.Equal(t, 1, nav.StepProgress(0), "only releases count")
}

func TestMouse_LinksAreIgnored(t *testing.T) {
	m, nav := newTestModel(t, fstest.MapFS{
		"1.md": {Data: []byte("# Links\n\nSee https://example.com for more.\n\n<!-- step -->\nhidden\n")},
	})

	row := -1
	for i, l := range m.contentLines() {
		if strings.Contains(l, "https://example.com") {
			row = i
			break
		}
	}
	require.GreaterOrEqual(t, row, 0)

	next, cmd := m.Update(click(row))
	run(t, next.(Model), cmd)
	assert.Zero(t, nav.StepProgress(0))
}

func TestMouse_Disabled(t *testing.T) {
	m, nav := newTestModel(t, threeSlides)
	m.mouse = false

	next, cmd := m.Update(click(0))
	run(t, next.(Model), cmd)
	assert.Zero(t, nav.StepProgress(0))
}

func TestNew_Validation(t *testing.T) {
	d, err := deck.LoadFS(threeSlides, deck.ParseOptions{})
	require.NoError(t, err)
	nav, err := navigator.New([]int{0})
	require.NoError(t, err)

	_, err = New(d, nav, NewScheduler(), Options{})
	assert.Error(t, err)

	nav, err = navigator.New(d.StepCounts())
	require.NoError(t, err)
	_, err = New(d, nav, NewScheduler(), Options{Style: "no-such-style"})
	assert.Error(t, err)

	m, err := New(&deck.Deck{Slides: d.Slides}, nav, NewScheduler(), Options{})
	require.NoError(t, err)
	assert.Equal(t, defaultTitle, m.title)
}

func TestScheduler_Drain(t *testing.T) {
	s := NewScheduler()
	assert.Nil(t, s.Drain())

	ran := false
	s.After(0, func() { ran = true })
	cmd := s.Drain()
	require.NotNil(t, cmd)
	assert.Nil(t, s.Drain())

	msg, ok := cmd().(continuationMsg)
	require.True(t, ok)
	msg.fn()
	assert.True(t, ran)
}
