package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"webpseq/internal/frames"
)

// ProgressModel follows a frame inspection until its update channel
// closes.
type ProgressModel struct {
	updates   <-chan frames.ProgressUpdate
	bar       progress.Model
	started   time.Time
	total     int
	inspected int
	errors    int
	quitting  bool
}

type doneMsg struct{}

type updateMsg frames.ProgressUpdate

func NewProgressModel(updates <-chan frames.ProgressUpdate) ProgressModel {
	bar := progress.New(
		progress.WithSolidFill(string(ColorAccent)),
		progress.WithWidth(40),
	)
	return ProgressModel{updates: updates, bar: bar, started: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.inspected += msg.InspectedDelta
		m.errors += msg.ErrorDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(60, max(20, msg.Width-10))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m ProgressModel) ratio() float64 {
	if m.total == 0 {
		return 0
	}
	return min(1, float64(m.inspected+m.errors)/float64(m.total))
}

func (m ProgressModel) View() string {
	if m.quitting {
		return ""
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render("webpseq frames"),
		labelStyle.Render(fmt.Sprintf("Frames: %d/%d", m.inspected+m.errors, m.total)) + dimStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(m.ratio()),
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan frames.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}
