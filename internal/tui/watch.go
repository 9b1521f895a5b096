package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mc "github.com/jpalmerr/missioncontrol"
)

// Source is what the watch view refreshes and draws. *missioncontrol.MissionControl
// satisfies it.
type Source interface {
	RefreshAll(ctx context.Context) error
	Panels() []mc.PanelState
	Title() string
}

type tickMsg time.Time

type refreshMsg struct {
	panels []mc.PanelState
	err    error
	at     time.Time
}

// Watch is the bubbletea model of the terminal dashboard. It refreshes
// every panel on each tick and redraws.
type Watch struct {
	ctx      context.Context
	source   Source
	interval time.Duration
	styles   Styles

	panels      []mc.PanelState
	lastErr     error
	lastRefresh time.Time
	refreshing  bool
	width       int
	height      int
}

// NewWatch creates a watch model refreshing source every interval.
func NewWatch(ctx context.Context, source Source, interval time.Duration) *Watch {
	return &Watch{
		ctx:      ctx,
		source:   source,
		interval: interval,
		styles:   DefaultStyles(),
	}
}

// Run starts the bubbletea program on the alternate screen and blocks until
// the user quits or ctx is cancelled.
func (w *Watch) Run() error {
	program := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(w.ctx))
	_, err := program.Run()
	if err != nil && w.ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (w *Watch) Init() tea.Cmd {
	w.refreshing = true
	return tea.Batch(w.refreshCmd(), w.tickCmd())
}

// Update implements tea.Model.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil
	case refreshMsg:
		w.panels = msg.panels
		w.lastErr = msg.err
		w.lastRefresh = msg.at
		w.refreshing = false
		return w, nil
	case tickMsg:
		if w.refreshing {
			return w, w.tickCmd()
		}
		w.refreshing = true
		return w, tea.Batch(w.refreshCmd(), w.tickCmd())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return w, tea.Quit
		case "r":
			if w.refreshing {
				return w, nil
			}
			w.refreshing = true
			return w, w.refreshCmd()
		}
	}
	return w, nil
}

// View implements tea.Model.
func (w *Watch) View() string {
	header := w.styles.Title.Render(w.source.Title())

	status := "refreshing..."
	if !w.refreshing && !w.lastRefresh.IsZero() {
		status = "updated " + w.lastRefresh.Format(time.TimeOnly)
	}
	if w.lastErr != nil {
		status += fmt.Sprintf(" (%d panel errors)", countErrors(w.panels))
	}
	footer := w.styles.StatusBar.Render(status + "  r refresh  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		RenderPanels(w.panels, w.width, w.styles),
		footer,
	)
}

func (w *Watch) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		err := w.source.RefreshAll(w.ctx)
		return refreshMsg{panels: w.source.Panels(), err: err, at: time.Now()}
	}
}

func (w *Watch) tickCmd() tea.Cmd {
	return tea.Tick(w.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func countErrors(panels []mc.PanelState) int {
	n := 0
	for _, p := range panels {
		if p.Error != "" {
			n++
		}
	}
	return n
}
