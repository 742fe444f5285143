package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/raphaelgruber/noteblocks/internal/service"
)

const pollInterval = 100 * time.Millisecond

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the run state.
type tickMsg time.Time

// runDoneMsg carries the result of the finished migration run.
type runDoneMsg struct {
	err error
}

// progressModel is the bubbletea model for migration progress.
type progressModel struct {
	migrator *service.Migrator
	cancel   context.CancelFunc
	errCh    <-chan error

	snap     service.RunState
	progress progress.Model
	theme    Theme
	done     bool
	canceled bool
	err      error
}

func newProgressModel(m *service.Migrator, cancel context.CancelFunc, errCh <-chan error) progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return progressModel{
		migrator: m,
		cancel:   cancel,
		errCh:    errCh,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command (start polling).
func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Cooperative cancel: the run stops at the next entry
			// boundary, keeping everything already committed.
			m.canceled = true
			m.cancel()
			return m, tickCmd()
		}

	case tickMsg:
		select {
		case err := <-m.errCh:
			m.done = true
			if err != nil && !errors.Is(err, context.Canceled) {
				m.err = err
			}
			return m, tea.Quit
		default:
		}
		m.snap = m.migrator.Snapshot()
		return m, tickCmd()

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m progressModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	status := m.theme.statusStyle().Render("[migrating]")
	if m.canceled {
		status = m.theme.statusStyle().Render("[stopping]")
	}

	progressBar := m.progress.ViewAs(m.snap.Progress)
	counts := fmt.Sprintf("%d/%d entries", m.snap.Processed, m.snap.Total)

	current := ""
	if m.snap.CurrentTitle != "" {
		current = m.theme.hintStyle().Render(m.snap.CurrentTitle)
	}

	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop after the current entry")

	return fmt.Sprintf("%s %s %s\n%s\n%s\n", status, progressBar, counts, current, hint)
}

func (m progressModel) finalView() string {
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Migration failed: %s\n", m.err)) +
			m.theme.hintStyle().Render("Committed entries are kept; re-run to continue.\n")
	}

	if m.canceled {
		msg := fmt.Sprintf("\nStopped after %d/%d entries. Re-run 'noteblocks migrate' to continue.\n",
			m.snap.Processed, m.snap.Total)
		return m.theme.hintStyle().Render(msg)
	}

	return m.theme.completedStyle().Render("✓ Migration complete") +
		fmt.Sprintf("\n\n  Entries converted: %d\n", m.snap.Total)
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runMigrationProgress runs the full migration with an interactive
// progress display. The run itself happens on a separate goroutine; the UI
// polls the migrator's run-state snapshot until the run finishes.
func runMigrationProgress(ctx context.Context, m *service.Migrator) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.MigrateAll(runCtx)
	}()

	model := newProgressModel(m, cancel, errCh)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress UI error: %w", err)
	}

	if fm, ok := finalModel.(progressModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
