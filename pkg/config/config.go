// Package config holds the immutable engine configuration shared by the
// camera, the lighting system and the scene.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"runtime"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// ConfigError reports a construction-time invariant violation. The value
// being constructed is never usable.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalid.
func (e *ConfigError) Unwrap() error {
	return ErrInvalid
}

// Invalid builds a ConfigError for field.
func Invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Config is the engine-wide constant set. It is passed by value and never
// mutated after construction.
type Config struct {
	// Camera defaults
	FOV  float64 // Horizontal field of view in degrees, (0, 180)
	Near float64 // Near plane distance, > 0

	// Lighting
	Ambient    float64 // Fraction of the base color every face receives, >= 0
	Epsilon    float64 // Floor for squared light distance, > 0
	CacheLimit int     // Lighting cache entries before the table is dropped, > 0

	// Scene
	Workers    int        // Objects processed concurrently per frame, >= 1
	Background color.RGBA // Clear color
	ShowFPS    bool       // Overlay a frame-rate counter
	ShowAxes   bool       // Overlay world axes and an orientation gizmo
	TargetFPS  int        // Frame pacing for the driver loop, 0 = unpaced
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		FOV:        90,
		Near:       0.1,
		Ambient:    0.1,
		Epsilon:    1e-6,
		CacheLimit: 1 << 20,
		Workers:    1,
		Background: color.RGBA{30, 30, 40, 255},
		ShowFPS:    false,
		ShowAxes:   false,
		TargetFPS:  60,
	}
}

// Parallel returns a copy of c using one worker per CPU.
func (c Config) Parallel() Config {
	c.Workers = runtime.NumCPU()
	return c
}

// Validate checks every field and returns the first violation.
func (c Config) Validate() error {
	if err := ValidateCameraFOV(c.FOV); err != nil {
		return err
	}
	if !(c.Near > 0) {
		return Invalid("near", "must be > 0, got %v", c.Near)
	}
	if !(c.Ambient >= 0) {
		return Invalid("ambient", "must be >= 0, got %v", c.Ambient)
	}
	if !(c.Epsilon > 0) {
		return Invalid("epsilon", "must be > 0, got %v", c.Epsilon)
	}
	if c.CacheLimit <= 0 {
		return Invalid("cache_limit", "must be > 0, got %d", c.CacheLimit)
	}
	if c.Workers < 1 {
		return Invalid("workers", "must be >= 1, got %d", c.Workers)
	}
	if c.TargetFPS < 0 {
		return Invalid("target_fps", "must be >= 0, got %d", c.TargetFPS)
	}
	return nil
}

// ValidateCameraFOV checks a camera field of view in degrees.
func ValidateCameraFOV(fov float64) error {
	if !(fov > 0 && fov < 180) {
		return Invalid("fov", "camera fov must be in (0, 180) degrees, got %v", fov)
	}
	return nil
}

// ValidateLightFOV checks a light cone field of view in degrees.
func ValidateLightFOV(fov float64) error {
	if !(fov > 0 && fov <= 360) {
		return Invalid("light_fov", "must be in (0, 360] degrees, got %v", fov)
	}
	return nil
}

// ValidatePower checks a light power.
func ValidatePower(power float64) error {
	if !(power >= 0) {
		return Invalid("power", "must be >= 0, got %v", power)
	}
	return nil
}

// ValidateScreen checks a pixel screen size.
func ValidateScreen(width, height int) error {
	if width <= 0 || height <= 0 {
		return Invalid("screen", "size must be positive, got %dx%d", width, height)
	}
	return nil
}
