package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const defaultTitle = "Slidetty"

var (
	statusStyle  = lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("15")).Padding(0, 1)
	exitingStyle = lipgloss.NewStyle().Faint(true)
)

func newRenderer(style string, wrap int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("glamour renderer (style %q): %w", style, err)
	}
	return r, nil
}

type renderKey struct {
	slide    int
	revealed string
}

// renderSlide renders slide i with the given reveal flags, caching the result
// until the next resize.
func (m Model) renderSlide(i int, revealed []bool) string {
	k := renderKey{slide: i, revealed: fmt.Sprint(revealed)}
	if out, ok := m.cache[k]; ok {
		return out
	}
	out, err := m.renderer.Render(m.deck.Slides[i].Render(revealed))
	if err != nil {
		out = "Error rendering markdown: " + err.Error()
	}
	m.cache[k] = out
	return out
}

// contentLines returns the lines of the slide area before clipping.
func (m Model) contentLines() []string {
	scene := m.nav.Scene()
	switch {
	case scene.Active >= 0:
		rendered := m.renderSlide(scene.Active, scene.Revealed[scene.Active])
		return strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	case scene.Exiting >= 0:
		rendered := m.renderSlide(scene.Exiting, scene.Revealed[scene.Exiting])
		lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
		for i, l := range lines {
			lines[i] = exitingStyle.Render(l)
		}
		return lines
	}
	return nil
}

func hasLink(line string) bool {
	return strings.Contains(line, "http://") ||
		strings.Contains(line, "https://") ||
		strings.Contains(line, "\x1b]8;")
}

func (m Model) statusLine() string {
	status := m.nav.Scene().Status

	statusLeft := "Slide " + status.Counter
	if status.StepIndicatorVisible {
		statusLeft += "  " + status.StepIndicator
	}
	statusRight := m.title

	// Calculate available width (account for padding)
	availableWidth := m.width - 4
	totalTextWidth := lipgloss.Width(statusLeft) + lipgloss.Width(statusRight)

	// If text is too long, truncate the title
	if totalTextWidth > availableWidth {
		maxTitleWidth := availableWidth - lipgloss.Width(statusLeft) - 4
		if maxTitleWidth < 10 {
			statusRight = defaultTitle
		} else if r := []rune(statusRight); maxTitleWidth < len(r) {
			statusRight = string(r[:maxTitleWidth-3]) + "..."
		}
	}

	totalTextWidth = lipgloss.Width(statusLeft) + lipgloss.Width(statusRight)
	remainingSpace := availableWidth - totalTextWidth

	var statusContent string
	if remainingSpace > 0 {
		statusContent = statusLeft + strings.Repeat(" ", remainingSpace+2) + statusRight
	} else {
		statusContent = statusLeft + " " + statusRight
	}

	return statusStyle.Width(m.width).Render(statusContent)
}
