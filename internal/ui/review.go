package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	reviewAddStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reviewDelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	reviewHunkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	reviewHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	reviewTitleStyle = lipgloss.NewStyle().Bold(true)
)

// ReviewDecision is the outcome of an interactive patch review.
type ReviewDecision int

const (
	ReviewPending ReviewDecision = iota
	ReviewAccepted
	ReviewRejected
)

// reviewModel is a bubbletea program that shows a colorized diff for a
// pending patch and waits for the user to accept or reject it.
type reviewModel struct {
	path     string
	diff     string
	viewport viewport.Model
	decision ReviewDecision
	copied   bool
	ready    bool
}

// NewReviewModel builds the bubbletea model for reviewing path's pending diff.
func NewReviewModel(path, diff string) tea.Model {
	return &reviewModel{path: path, diff: renderDiff(diff)}
}

func renderDiff(diff string) string {
	var b strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			b.WriteString(reviewTitleStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(reviewHunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(reviewAddStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(reviewDelStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *reviewModel) Init() tea.Cmd {
	return nil
}

func (m *reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "enter":
			m.decision = ReviewAccepted
			return m, tea.Quit
		case "n", "q", "esc", "ctrl+c":
			m.decision = ReviewRejected
			return m, tea.Quit
		case "c":
			_ = clipboard.WriteAll(m.diff)
			m.copied = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) View() string {
	if !m.ready {
		return "initializing review..."
	}
	header := reviewTitleStyle.Render(fmt.Sprintf("review: %s", m.path))
	footer := reviewHelpStyle.Render("[y] accept  [n] reject  [c] copy diff  [↑/↓] scroll")
	if m.copied {
		footer = reviewHelpStyle.Render("diff copied to clipboard — ") + footer
	}
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// Decision returns the final accept/reject outcome once the program exits.
func Decision(m tea.Model) ReviewDecision {
	rm, ok := m.(*reviewModel)
	if !ok {
		return ReviewRejected
	}
	return rm.decision
}
