package main

import (
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/lumen/pkg/scene"
)

// controlKeys are the key names the player understands, plus "r".
var controlKeys = []string{"w", "a", "s", "d", "space", "z", "left", "right", "up", "down", "r"}

// input is the interactive driver script. Terminal events are queued from
// the event goroutine and applied at the start of each frame, then the
// player moves the camera and the demo script runs.
type input struct {
	events   chan uv.Event
	player   *Player
	demo     scene.Script
	onResize func(cols, rows int) error

	dragging bool
	lastX    int
	lastY    int
}

func newInput(player *Player, demo scene.Script) *input {
	return &input{
		events: make(chan uv.Event, 256),
		player: player,
		demo:   demo,
	}
}

// push queues ev, dropping it when the frame loop has fallen behind.
func (in *input) push(ev uv.Event) {
	select {
	case in.events <- ev:
	default:
	}
}

// Init implements scene.Script.
func (in *input) Init(s *scene.Scene) error {
	return in.demo.Init(s)
}

// Run implements scene.Script.
func (in *input) Run(s *scene.Scene) error {
	for {
		select {
		case ev := <-in.events:
			if err := in.handle(ev); err != nil {
				return err
			}
		default:
			in.player.Step(s.Camera())
			return in.demo.Run(s)
		}
	}
}

func (in *input) handle(ev uv.Event) error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if in.onResize != nil {
			return in.onResize(ev.Width, ev.Height)
		}

	case uv.KeyPressEvent:
		key := keyName(ev)
		if key == "r" {
			in.player.Stop()
			return nil
		}
		in.player.Press(key)

	case uv.KeyReleaseEvent:
		for _, k := range controlKeys {
			if ev.MatchString(k) {
				in.player.Release(k)
				break
			}
		}

	case uv.MouseClickEvent:
		in.dragging = true
		in.lastX, in.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		in.dragging = false

	case uv.MouseMotionEvent:
		if in.dragging {
			in.player.Look(ev.X-in.lastX, ev.Y-in.lastY)
			in.lastX, in.lastY = ev.X, ev.Y
		}
	}
	return nil
}

func keyName(ev uv.KeyPressEvent) string {
	for _, k := range controlKeys {
		if ev.MatchString(k) {
			return k
		}
	}
	return ""
}
