// Command gesturetrace prints the gestures recognized from terminal mouse
// input. Drag with the left button in the "pan" box, click in the "tap" box
// and hold in the "press" box. Press Esc or Ctrl+C to quit.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/gesture"
)

// Terminal cells are mapped to pixels so the default thresholds apply.
const (
	cellWidth  = 8
	cellHeight = 16
	maxLines   = 200
	frameTime  = 16 * time.Millisecond
)

// mouseTracker converts terminal mouse reports into point samples.
type mouseTracker struct {
	down bool
	x, y int
}

func (m *mouseTracker) update(x, y int, pressed bool, now uint32) (gesture.PointSample, bool) {
	s := gesture.PointSample{
		Screen:   gesture.Vec2{X: float64(x*cellWidth + cellWidth/2), Y: float64(y*cellHeight + cellHeight/2)},
		Time:     now,
		Pressure: 1,
	}
	switch {
	case pressed && !m.down:
		s.State = gesture.PointDown
	case !pressed && m.down:
		s.State = gesture.PointUp
	case pressed && (x != m.x || y != m.y):
		s.State = gesture.PointMotion
	default:
		return gesture.PointSample{}, false
	}
	m.down, m.x, m.y = pressed, x, y
	return s, true
}

type box struct {
	actor *gesture.Actor
	label string
	color tcell.Color
}

type tracer struct {
	screen tcell.Screen
	cfg    gesture.Config
	proc   *gesture.Processor
	mouse  mouseTracker
	boxes  []box
	lines  []string
	start  time.Time
}

func (t *tracer) now() uint32 {
	return uint32(time.Since(t.start).Milliseconds())
}

func (t *tracer) logf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
	if len(t.lines) > maxLines {
		t.lines = t.lines[len(t.lines)-maxLines:]
	}
}

// layout creates one box per gesture kind across the top half of the terminal.
func (t *tracer) layout(cols, rows int) {
	stage := gesture.NewStage(float64(cols*cellWidth), float64(rows*cellHeight))
	t.proc = gesture.NewProcessor(stage, t.cfg)
	t.proc.SetClock(t.now)
	t.proc.SetErrorHandler(func(err error) { t.logf("error: %v", err) })
	t.boxes = t.boxes[:0]

	w := cols / 3
	h := rows / 2
	specs := []struct {
		label string
		color tcell.Color
		det   *gesture.Detector
	}{
		{"pan", tcell.ColorGreen, t.proc.NewPanDetector()},
		{"tap", tcell.ColorBlue, t.proc.NewTapDetector()},
		{"press", tcell.ColorYellow, t.proc.NewLongPressDetector()},
	}
	specs[1].det.SetTapRange(1, 2)
	for i, sp := range specs {
		a := stage.NewActor(sp.label)
		a.SetPosition(float64(i*w*cellWidth), 0)
		a.SetSize(float64((w-1)*cellWidth), float64(h*cellHeight))
		stage.Root().AddChild(a)
		sp.det.Attach(a)
		sp.det.Connect(t.report)
		t.boxes = append(t.boxes, box{actor: a, label: sp.label, color: sp.color})
	}
}

func (t *tracer) report(a *gesture.Actor, ev gesture.GestureEvent) {
	seq := ev.Sequence.String()[:8]
	switch ev.Kind {
	case gesture.KindPan:
		t.logf("%s %s %-10s local=(%.0f,%.0f) disp=(%.0f,%.0f) vel=(%.2f,%.2f)",
			seq, a.Name, ev.State, ev.Local.X, ev.Local.Y,
			ev.ScreenDisplacement.X, ev.ScreenDisplacement.Y, ev.ScreenVelocity.X, ev.ScreenVelocity.Y)
	case gesture.KindTap:
		t.logf("%s %s %-10s taps=%d", seq, a.Name, ev.State, ev.Taps)
	case gesture.KindLongPress:
		t.logf("%s %s %-10s held=%dms", seq, a.Name, ev.State, ev.Duration)
	default:
		t.logf("%s %s %-10s", seq, a.Name, ev.State)
	}
}

func (t *tracer) draw() {
	t.screen.Clear()
	for _, b := range t.boxes {
		x0 := int(b.actor.X) / cellWidth
		y0 := int(b.actor.Y) / cellHeight
		x1 := x0 + int(b.actor.Width)/cellWidth
		y1 := y0 + int(b.actor.Height)/cellHeight
		style := tcell.StyleDefault.Background(b.color).Foreground(tcell.ColorBlack)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				t.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		drawText(t.screen, x0+1, y0, b.label, style)
	}

	_, rows := t.screen.Size()
	top := rows/2 + 1
	visible := rows - top
	start := max(len(t.lines)-visible, 0)
	for i, line := range t.lines[start:] {
		drawText(t.screen, 0, top+i, line, tcell.StyleDefault)
	}
	t.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// handle processes one terminal event. It returns false to quit.
func (t *tracer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		t.proc.Reset()
		t.layout(cols, rows)
		t.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := ev.Buttons()&tcell.Button1 != 0
		if s, ok := t.mouse.update(x, y, pressed, t.now()); ok {
			t.proc.Feed(s)
		}
	}
	return true
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	debug := flag.Bool("debug", false, "log pipeline diagnostics to stderr")
	flag.Parse()

	cfg := gesture.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gesture.LoadConfig(*configPath); err != nil {
			log.Fatalf("Couldn't read config: %v", err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Couldn't create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Couldn't initialize screen: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseDragEvents)

	t := &tracer{screen: screen, cfg: cfg, start: time.Now()}
	cols, rows := screen.Size()
	t.layout(cols, rows)

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !t.handle(ev) {
				return
			}
		case <-ticker.C:
			t.proc.Tick()
			t.draw()
		}
	}
}
