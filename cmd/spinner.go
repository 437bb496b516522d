package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// task is one blocking step of a command. run may call report to replace the
// status line; outcome, when set, is printed once run has succeeded.
type task struct {
	label   string
	run     func(ctx context.Context, report func(string)) error
	outcome func() string
}

type (
	taskProgressMsg string
	taskDoneMsg     struct{ err error }
)

var (
	taskLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	taskStatusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taskOutcomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type taskModel struct {
	spinner spinner.Model
	label   string
	status  string
	outcome func() string
	work    tea.Cmd

	err  error
	done bool
}

func newTaskModel(t task, work tea.Cmd) taskModel {
	return taskModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		label:   t.label,
		outcome: t.outcome,
		work:    work,
	}
}

func (m taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskProgressMsg:
		m.status = string(msg)
		return m, nil
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m taskModel) View() string {
	if m.done {
		// Errors are reported by the command itself.
		if m.err != nil || m.outcome == nil {
			return ""
		}
		if line := m.outcome(); line != "" {
			return taskOutcomeStyle.Render("✓ "+line) + "\n"
		}
		return ""
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), taskLabelStyle.Render(m.label))
	if m.status != "" {
		line += " " + taskStatusStyle.Render(m.status)
	}
	return line
}

// runTask shows t on output with a spinner until t.run returns.
func runTask(ctx context.Context, output io.Writer, t task) error {
	var p *tea.Program
	work := func() tea.Msg {
		report := func(status string) { p.Send(taskProgressMsg(status)) }
		return taskDoneMsg{err: t.run(ctx, report)}
	}

	p = tea.NewProgram(
		newTaskModel(t, work),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(taskModel)
	if !ok {
		return fmt.Errorf("unexpected final task model type %T", finalModel)
	}
	return result.err
}
