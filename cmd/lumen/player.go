package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/lumen/pkg/render"
)

const (
	moveSpeed = 6.0  // Units per second at full input
	turnSpeed = 90.0 // Degrees per second at full input

	// Key release events are unreliable in most terminals, so held input
	// fades out each frame instead of waiting for a release.
	inputDecay = 0.85

	settle = 1e-4

	// Turn velocity added per dragged cell
	lookSensitivity = 0.08
)

// axis is one spring-smoothed control channel. Input sets the target; the
// spring eases the velocity toward it.
type axis struct {
	Velocity float64
	Target   float64
	accel    float64
	spring   harmonica.Spring
}

// newAxis creates an axis with harmonica spring for smooth velocity changes
func newAxis(fps int) axis {
	// Frequency 6.0 = responsive, damping 1.0 = critically damped (no overshoot)
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *axis) update() float64 {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, a.Target)
	a.Target *= inputDecay
	if math.Abs(a.Velocity) < settle && math.Abs(a.Target) < settle {
		a.Velocity, a.accel, a.Target = 0, 0, 0
	}
	return a.Velocity
}

// Player is the first-person controller: WASD to walk, space and z to fly,
// arrow keys to look around. It owns no camera; Step moves whichever camera
// it is given.
type Player struct {
	Forward, Strafe, Lift axis
	Yaw, Pitch            axis
	fps                   int
}

// NewPlayer creates a controller that steps at fps frames per second.
func NewPlayer(fps int) *Player {
	fps = max(fps, 1)
	return &Player{
		Forward: newAxis(fps),
		Strafe:  newAxis(fps),
		Lift:    newAxis(fps),
		Yaw:     newAxis(fps),
		Pitch:   newAxis(fps),
		fps:     fps,
	}
}

// Press handles a key. It reports whether the key is a movement key.
func (p *Player) Press(key string) bool {
	switch key {
	case "w":
		p.Forward.Target = 1
	case "s":
		p.Forward.Target = -1
	case "d":
		p.Strafe.Target = 1
	case "a":
		p.Strafe.Target = -1
	case "space":
		p.Lift.Target = 1
	case "z":
		p.Lift.Target = -1
	case "left":
		p.Yaw.Target = -1
	case "right":
		p.Yaw.Target = 1
	case "up":
		p.Pitch.Target = 1
	case "down":
		p.Pitch.Target = -1
	default:
		return false
	}
	return true
}

// Release zeroes the channel a key drives.
func (p *Player) Release(key string) {
	switch key {
	case "w", "s":
		p.Forward.Target = 0
	case "a", "d":
		p.Strafe.Target = 0
	case "space", "z":
		p.Lift.Target = 0
	case "left", "right":
		p.Yaw.Target = 0
	case "up", "down":
		p.Pitch.Target = 0
	}
}

// Look nudges the view by a mouse drag of dx, dy cells.
func (p *Player) Look(dx, dy int) {
	p.Yaw.Velocity += float64(dx) * lookSensitivity
	p.Pitch.Velocity -= float64(dy) * lookSensitivity * 2
}

// Stop cancels all input and motion.
func (p *Player) Stop() {
	*p = *NewPlayer(p.fps)
}

// Step advances the springs one frame and applies the motion to cam.
func (p *Player) Step(cam *render.Camera) {
	dt := 1 / float64(p.fps)
	forward := p.Forward.update()
	strafe := p.Strafe.update()
	lift := p.Lift.update()
	yaw := p.Yaw.update()
	pitch := p.Pitch.update()

	if yaw != 0 || pitch != 0 {
		cam.Turn(yaw*turnSpeed*dt, pitch*turnSpeed*dt)
	}
	if forward != 0 || strafe != 0 || lift != 0 {
		cam.Move(forward*moveSpeed*dt, strafe*moveSpeed*dt, lift*moveSpeed*dt)
	}
}
