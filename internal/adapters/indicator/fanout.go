// Package indicator holds sinks shared by the indicator front ends.
package indicator

import (
	"slices"
	"sync"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

// Fanout forwards every update to the attached sinks. The last text and menu
// are replayed to a sink when it is attached, so front ends that start late
// begin with the current state.
type Fanout struct {
	mu     sync.Mutex
	nextID int
	sinks  map[int]ports.IndicatorSink
	text   *string
	menu   *domain.Menu
}

var _ ports.IndicatorSink = (*Fanout)(nil)

func NewFanout() *Fanout {
	return &Fanout{sinks: make(map[int]ports.IndicatorSink)}
}

// Attach adds sink and returns a function that detaches it.
func (f *Fanout) Attach(sink ports.IndicatorSink) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.sinks[id] = sink

	if f.text != nil {
		sink.SetText(*f.text)
	}
	if f.menu != nil {
		sink.SetMenu(*f.menu)
	}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.sinks, id)
	}
}

func (f *Fanout) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.text = &text
	for _, id := range f.orderLocked() {
		f.sinks[id].SetText(text)
	}
}

func (f *Fanout) SetMenu(menu domain.Menu) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.menu = &menu
	for _, id := range f.orderLocked() {
		f.sinks[id].SetMenu(menu)
	}
}

func (f *Fanout) orderLocked() []int {
	ids := make([]int, 0, len(f.sinks))
	for id := range f.sinks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
