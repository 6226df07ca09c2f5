// Package tui implements the --tui live progress dashboard: a bubbletea
// program that redraws nodes-expanded/generated/conflicts counters and the
// current incumbent cost as a solve runs. Grounded on
// vanderheijden86-beadwork/pkg/ui's lipgloss adaptive-color styling and
// bubbletea Model/Init/Update/View shape, trimmed to one read-only view with
// no keyboard-driven navigation.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elektrokombinacija/mapf-cbs/internal/result"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	doneStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
)

// Snapshot is one moment of solver progress, sent over Updates.
type Snapshot struct {
	NodesExpanded  int
	NodesGenerated int
	Conflicts      int
	IncumbentCost  int // -1 if no incumbent yet
	Elapsed        time.Duration
}

// tickMsg drives the periodic redraw; snapshotMsg carries new counters.
type tickMsg time.Time
type snapshotMsg Snapshot
type doneMsg result.Run

type model struct {
	mapName string
	latest  Snapshot
	final   *result.Run
	updates <-chan Snapshot
	done    <-chan result.Run
}

// Run blocks running the dashboard until done fires, reading progress
// snapshots from updates.
func Run(mapName string, updates <-chan Snapshot, done <-chan result.Run) error {
	m := model{mapName: mapName, updates: updates, done: done}
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.updates), waitForDone(m.done), tick())
}

func waitForSnapshot(ch <-chan Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func waitForDone(ch <-chan result.Run) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return doneMsg(r)
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case snapshotMsg:
		m.latest = Snapshot(msg)
		return m, waitForSnapshot(m.updates)
	case doneMsg:
		r := result.Run(msg)
		m.final = &r
		return m, nil
	case tickMsg:
		if m.final != nil {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	header := titleStyle.Render(fmt.Sprintf("mapf-cbs  %s", m.mapName))
	if m.final != nil {
		return fmt.Sprintf("%s\n\n%s  cost=%d  expanded=%d  generated=%d  conflicts=%d  runtime=%.3fs\n",
			header, doneStyle.Render(string(m.final.Status)), m.final.Cost,
			m.final.NodesExpanded, m.final.NodesGenerated, m.final.Conflicts, m.final.RuntimeSec)
	}
	cost := "none"
	if m.latest.IncumbentCost >= 0 {
		cost = fmt.Sprintf("%d", m.latest.IncumbentCost)
	}
	return fmt.Sprintf("%s\n\n%s %d    %s %d    %s %d    %s %s\n",
		header,
		labelStyle.Render("expanded"), m.latest.NodesExpanded,
		labelStyle.Render("generated"), m.latest.NodesGenerated,
		labelStyle.Render("conflicts"), m.latest.Conflicts,
		labelStyle.Render("incumbent"), cost)
}
