package gesture

import (
	"encoding/json"
	"fmt"
)

// replayStep is a single action in a replay script.
type replayStep struct {
	Action string  `json:"action"`
	Device int32   `json:"device,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// replayScript is the top-level JSON structure for a replay script.
type replayScript struct {
	Steps []replayStep `json:"steps"`
}

var replayActions = map[string]bool{
	"down": true, "move": true, "up": true, "interrupt": true,
	"tap": true, "drag": true, "wait": true,
}

// ReplayRunner sequences injected input across ticks from a JSON script.
// Attach it to a Processor with SetReplay.
//
//	{"steps": [
//	  {"action": "down", "device": 0, "x": 10, "y": 20},
//	  {"action": "move", "x": 26, "y": 4},
//	  {"action": "up", "x": 10, "y": 4},
//	  {"action": "wait", "frames": 3},
//	  {"action": "drag", "fromX": 0, "fromY": 0, "toX": 100, "toY": 0, "frames": 6}
//	]}
type ReplayRunner struct {
	steps     []replayStep
	cursor    int
	waitCount int
	done      bool
}

// LoadReplay parses a JSON replay script.
func LoadReplay(jsonData []byte) (*ReplayRunner, error) {
	var script replayScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay: no steps")
	}
	for i, st := range script.Steps {
		if !replayActions[st.Action] {
			return nil, fmt.Errorf("parse replay: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ReplayRunner{steps: script.Steps}, nil
}

// SetReplay attaches a runner. It advances once per Tick, before injected
// samples are fed. Pass nil to detach.
func (p *Processor) SetReplay(r *ReplayRunner) {
	p.replay = r
}

// Done reports whether every step has been executed and its input fed.
func (r *ReplayRunner) Done() bool {
	return r.done
}

// step queues the next action once earlier injections have drained.
func (r *ReplayRunner) step(p *Processor) {
	if r.done {
		return
	}
	if p.Injecting() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "down":
		p.InjectDown(st.Device, st.X, st.Y)
	case "move":
		p.InjectMove(st.Device, st.X, st.Y)
	case "up":
		p.InjectUp(st.Device, st.X, st.Y)
	case "interrupt":
		p.InjectInterrupt()
	case "tap":
		p.InjectTap(st.X, st.Y)
	case "drag":
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}
}
