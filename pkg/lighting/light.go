// Package lighting shades polygons with point and spot lights using
// Lambertian reflectance and inverse-square falloff, memoizing per-polygon
// contributions across frames.
package lighting

import (
	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
)

// Light is a point light with an optional cone. A light without a direction,
// or with a 360 degree cone, is omnidirectional.
type Light struct {
	id      uint64
	version uint64

	position  math3d.Vec3
	direction *math3d.Vec3 // Unit vector; nil for omnidirectional
	color     models.RGB
	power     float64
	fov       float64 // Cone angle in degrees, (0, 360]
	softEdge  float64 // Degrees past fov/2 over which the cone fades out
}

// Option configures a Light at construction.
type Option func(*Light)

// WithPosition sets the world-space position.
func WithPosition(p math3d.Vec3) Option {
	return func(l *Light) { l.position = p }
}

// WithDirection makes the light a spot light pointing along d.
func WithDirection(d math3d.Vec3) Option {
	return func(l *Light) { l.direction = &d }
}

// WithColor sets the light color.
func WithColor(c models.RGB) Option {
	return func(l *Light) { l.color = c }
}

// WithPower sets the power (irradiance numerator).
func WithPower(p float64) Option {
	return func(l *Light) { l.power = p }
}

// WithFOV sets the cone angle in degrees.
func WithFOV(fov float64) Option {
	return func(l *Light) { l.fov = fov }
}

// WithSoftEdge fades the cone out over deg degrees past its edge instead of
// cutting off hard.
func WithSoftEdge(deg float64) Option {
	return func(l *Light) { l.softEdge = deg }
}

// NewLight creates a light. Defaults: origin, white, power 10,
// omnidirectional.
func NewLight(opts ...Option) (*Light, error) {
	l := &Light{
		id:    models.NextID(),
		color: models.White,
		power: 10,
		fov:   360,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := config.ValidatePower(l.power); err != nil {
		return nil, err
	}
	if err := config.ValidateLightFOV(l.fov); err != nil {
		return nil, err
	}
	if err := validateSoftEdge(l.softEdge); err != nil {
		return nil, err
	}
	if l.direction != nil {
		d, err := unitDirection(*l.direction)
		if err != nil {
			return nil, err
		}
		l.direction = &d
	}
	return l, nil
}

func unitDirection(d math3d.Vec3) (math3d.Vec3, error) {
	u, err := d.Unit()
	if err != nil {
		return math3d.Vec3{}, config.Invalid("direction", "must be non-zero, got %v", d)
	}
	return u, nil
}

func validateSoftEdge(deg float64) error {
	if !(deg >= 0) {
		return config.Invalid("soft_edge", "must be >= 0, got %v", deg)
	}
	return nil
}

// ID returns the light's identity.
func (l *Light) ID() uint64 { return l.id }

// Version returns the mutation counter. Every setter bumps it.
func (l *Light) Version() uint64 { return l.version }

// Position returns the world-space position.
func (l *Light) Position() math3d.Vec3 { return l.position }

// Direction returns the cone axis and whether the light has one.
func (l *Light) Direction() (math3d.Vec3, bool) {
	if l.direction == nil {
		return math3d.Vec3{}, false
	}
	return *l.direction, true
}

// Color returns the light color.
func (l *Light) Color() models.RGB { return l.color }

// Power returns the light power.
func (l *Light) Power() float64 { return l.power }

// FOV returns the cone angle in degrees.
func (l *Light) FOV() float64 { return l.fov }

// SoftEdge returns the cone fade width in degrees.
func (l *Light) SoftEdge() float64 { return l.softEdge }

// SetPosition moves the light.
func (l *Light) SetPosition(p math3d.Vec3) {
	l.position = p
	l.version++
}

// Translate moves the light by delta.
func (l *Light) Translate(delta math3d.Vec3) {
	l.SetPosition(l.position.Add(delta))
}

// SetDirection points the light along d.
func (l *Light) SetDirection(d math3d.Vec3) error {
	u, err := unitDirection(d)
	if err != nil {
		return err
	}
	l.direction = &u
	l.version++
	return nil
}

// ClearDirection makes the light omnidirectional.
func (l *Light) ClearDirection() {
	l.direction = nil
	l.version++
}

// SetColor sets the light color.
func (l *Light) SetColor(c models.RGB) {
	l.color = c
	l.version++
}

// SetPower sets the light power.
func (l *Light) SetPower(p float64) error {
	if err := config.ValidatePower(p); err != nil {
		return err
	}
	l.power = p
	l.version++
	return nil
}

// SetFOV sets the cone angle in degrees.
func (l *Light) SetFOV(fov float64) error {
	if err := config.ValidateLightFOV(fov); err != nil {
		return err
	}
	l.fov = fov
	l.version++
	return nil
}

// SetSoftEdge sets the cone fade width in degrees.
func (l *Light) SetSoftEdge(deg float64) error {
	if err := validateSoftEdge(deg); err != nil {
		return err
	}
	l.softEdge = deg
	l.version++
	return nil
}

// coneFactor returns how much of the light reaches a point in direction
// toPoint from the light, in [0, 1].
func (l *Light) coneFactor(toPoint math3d.Vec3) float64 {
	if l.direction == nil || l.fov >= 360 {
		return 1
	}
	angle := math3d.Degrees(l.direction.Angle(toPoint))
	edge := l.fov / 2
	switch {
	case angle <= edge:
		return 1
	case l.softEdge <= 0 || angle >= edge+l.softEdge:
		return 0
	default:
		return 1 - (angle-edge)/l.softEdge
	}
}
