package sim

import (
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker/pipeline"
)

// Input fires press-down edges for a button on scripted polls. The Nth
// call to EdgeDown reports true exactly when N is listed in PressOnPolls,
// modelling edge (not held) semantics.
type Input struct {
	Button       pipeline.Button
	PressOnPolls map[int]bool

	polls int
}

// NewInput creates an input source that presses button on the given
// 1-based poll numbers.
func NewInput(button pipeline.Button, pressOnPolls ...int) *Input {
	presses := make(map[int]bool, len(pressOnPolls))
	for _, p := range pressOnPolls {
		presses[p] = true
	}
	return &Input{Button: button, PressOnPolls: presses}
}

// EdgeDown reports a scripted press edge for the matching button.
func (in *Input) EdgeDown(b pipeline.Button) bool {
	if b != in.Button {
		return false
	}
	in.polls++
	return in.PressOnPolls[in.polls]
}
