package terminal

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/copilot-usage/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// snapshotModel renders one state and quits.
type snapshotModel struct {
	state  application.UsageState
	opts   RenderOptions
	styles styles
	output string
}

func (m snapshotModel) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m snapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.state, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m snapshotModel) View() string {
	return m.output
}

// Render returns the usage view for state as a string.
func Render(state application.UsageState, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		snapshotModel{state: state, opts: opts, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(snapshotModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
