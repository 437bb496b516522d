package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

const (
	clockTick     = 30 * time.Second
	actionTimeout = 30 * time.Second
)

// Controller is what the interactive view drives. *application.Service
// satisfies it.
type Controller interface {
	RefreshNow(ctx context.Context) (application.UsageState, error)
	DisplayPreferences(ctx context.Context) (domain.DisplayPreferences, error)
	SetDisplayPreference(ctx context.Context, key string, value bool) error
	ToggleAutostart(ctx context.Context) (bool, error)
	StartDeviceFlow(ctx context.Context) (application.FlowStatus, error)
	CancelDeviceFlow() bool
}

type (
	textMsg    string
	menuMsg    domain.Menu
	stateMsg   application.UsageState
	flowMsg    application.FlowStatus
	clockMsg   time.Time
	detailsMsg struct{}
	actionDone struct {
		note string
		err  error
	}
)

type keyMap struct {
	Refresh   key.Binding
	Show      key.Binding
	Bar       key.Binding
	Percent   key.Binding
	Autostart key.Binding
	Login     key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Show:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "details")),
		Bar:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle bar")),
		Percent:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle percent")),
		Autostart: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "start at login")),
		Login:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel sign in")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Show, k.Bar, k.Percent, k.Autostart, k.Login, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Cancel}}
}

// Model is the long-running terminal indicator.
type Model struct {
	ctx        context.Context
	controller Controller
	now        func() time.Time

	text  string
	menu  domain.Menu
	state application.UsageState
	flow  *application.FlowStatus
	note  string
	err   error

	// hideDetails collapses the view to the indicator line.
	hideDetails bool

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles
}

func NewModel(ctx context.Context, controller Controller, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	return Model{
		ctx:        ctx,
		controller: controller,
		now:        now,
		menu:       domain.MenuSummary(nil),
		keys:       newKeyMap(),
		help:       help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		styles: newStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, clockCmd())
}

func clockCmd() tea.Cmd {
	return tea.Tick(clockTick, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case textMsg:
		m.text = string(msg)
		return m, nil
	case menuMsg:
		m.menu = domain.Menu(msg)
		return m, nil
	case stateMsg:
		m.state = application.UsageState(msg)
		return m, nil
	case flowMsg:
		flow := application.FlowStatus(msg)
		m.flow = &flow
		if flow.State == domain.FlowSucceeded {
			m.note = "Signed in."
			m.flow = nil
		}
		return m, nil
	case actionDone:
		m.note = msg.note
		m.err = msg.err
		return m, nil
	case detailsMsg:
		m.hideDetails = !m.hideDetails
		return m, nil
	case clockMsg:
		return m, clockCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.dispatch(domain.MenuActionRefresh)
	case key.Matches(msg, m.keys.Show):
		return m, m.dispatch(domain.MenuActionShow)
	case key.Matches(msg, m.keys.Autostart):
		return m, m.dispatch(domain.MenuActionToggleAutostart)
	case key.Matches(msg, m.keys.Bar):
		return m, m.togglePreference(domain.PrefShowBar)
	case key.Matches(msg, m.keys.Percent):
		return m, m.togglePreference(domain.PrefShowPercent)
	case key.Matches(msg, m.keys.Login):
		return m, m.run(func(ctx context.Context) (string, error) {
			if _, err := m.controller.StartDeviceFlow(ctx); err != nil {
				return "", err
			}
			return "", nil
		})
	case key.Matches(msg, m.keys.Cancel):
		return m, m.run(func(context.Context) (string, error) {
			if m.controller.CancelDeviceFlow() {
				return "Sign in cancelled.", nil
			}
			return "", nil
		})
	}
	return m, nil
}

// dispatch performs a menu action the same way a tray menu click would.
func (m Model) dispatch(action domain.MenuAction) tea.Cmd {
	switch action {
	case domain.MenuActionRefresh:
		return m.run(func(ctx context.Context) (string, error) {
			_, err := m.controller.RefreshNow(ctx)
			if err != nil {
				return "", err
			}
			return "Usage refreshed.", nil
		})
	case domain.MenuActionToggleAutostart:
		return m.run(func(ctx context.Context) (string, error) {
			enabled, err := m.controller.ToggleAutostart(ctx)
			if err != nil {
				return "", err
			}
			if enabled {
				return "Start at login enabled.", nil
			}
			return "Start at login disabled.", nil
		})
	case domain.MenuActionShow:
		return func() tea.Msg { return detailsMsg{} }
	case domain.MenuActionQuit:
		return tea.Quit
	default:
		return nil
	}
}

func (m Model) togglePreference(key string) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		prefs, err := m.controller.DisplayPreferences(ctx)
		if err != nil {
			return "", err
		}
		current := prefs.ShowBar
		if key == domain.PrefShowPercent {
			current = prefs.ShowPercent
		}
		if err := m.controller.SetDisplayPreference(ctx, key, !current); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s set to %t.", key, !current), nil
	})
}

func (m Model) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, actionTimeout)
		defer cancel()

		note, err := fn(ctx)
		return actionDone{note: note, err: err}
	}
}

func (m Model) View() string {
	state := m.state
	state.Text = m.text

	if m.hideDetails && (m.flow == nil || m.flow.State.Terminal()) {
		line := m.styles.indicator.Render(strings.TrimSpace(state.Text))
		return lipgloss.JoinVertical(lipgloss.Left, line, m.styles.section.Render(m.help.View(m.keys))) + "\n"
	}

	body := renderView(state, RenderOptions{Now: m.now(), Flow: m.flow}, m.styles)
	parts := []string{body}

	if state.Refreshing {
		parts = append(parts, m.spinner.View()+m.styles.meta.Render(" refreshing"))
	}
	if items := m.menuLines(); len(items) > 0 {
		parts = append(parts, m.styles.section.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
	}
	if m.err != nil {
		var fetchErr *domain.UsageFetchError
		if !errors.As(m.err, &fetchErr) {
			parts = append(parts, m.styles.warning.Render(m.err.Error()))
		}
	} else if m.note != "" {
		parts = append(parts, m.styles.meta.Render(m.note))
	}
	parts = append(parts, m.styles.section.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// menuLines lists the informational menu entries. Actions are reachable
// through the key bindings shown in the help line.
func (m Model) menuLines() []string {
	var lines []string
	for _, item := range m.menu.Items {
		if item.Separator || item.Enabled || item.Text == "" {
			continue
		}
		lines = append(lines, m.styles.menuItem.Render(item.Text))
	}
	return lines
}
