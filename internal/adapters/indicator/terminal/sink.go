package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

// Sender is the part of *tea.Program the sink needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Sink forwards indicator updates into a running bubbletea program.
type Sink struct {
	program Sender
}

var _ ports.IndicatorSink = (*Sink)(nil)

func NewSink(program Sender) *Sink {
	return &Sink{program: program}
}

func (s *Sink) SetText(text string) {
	s.program.Send(textMsg(text))
}

func (s *Sink) SetMenu(menu domain.Menu) {
	s.program.Send(menuMsg(menu))
}

// ObserveUsage and ObserveFlow are meant for Service.SubscribeUsage and
// Service.SubscribeDeviceFlow.
func (s *Sink) ObserveUsage(state application.UsageState) {
	s.program.Send(stateMsg(state))
}

func (s *Sink) ObserveFlow(status application.FlowStatus) {
	s.program.Send(flowMsg(status))
}
