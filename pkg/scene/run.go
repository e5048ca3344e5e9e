package scene

import (
	"context"
	"fmt"
	"time"
)

// Script is driven by Run: Init once before the first frame, then Run once
// per frame before rendering. Both may add, remove or mutate objects and
// lights; changes show up in the frame rendered right after.
type Script interface {
	Init(s *Scene) error
	Run(s *Scene) error
}

// ScriptFuncs adapts plain functions to Script. Nil fields are no-ops.
type ScriptFuncs struct {
	InitFunc func(s *Scene) error
	RunFunc  func(s *Scene) error
}

// Init implements Script.
func (f ScriptFuncs) Init(s *Scene) error {
	if f.InitFunc == nil {
		return nil
	}
	return f.InitFunc(s)
}

// Run implements Script.
func (f ScriptFuncs) Run(s *Scene) error {
	if f.RunFunc == nil {
		return nil
	}
	return f.RunFunc(s)
}

// RunOptions controls the driver loop.
type RunOptions struct {
	MaxFrames int              // Stop after this many frames; 0 runs until cancelled
	OnFrame   func(FrameStats) // Called after every presented frame
}

// Run drives the scene: script Init, then script Run and Render each frame,
// paced to the configured target FPS. It returns nil when ctx is cancelled
// or MaxFrames is reached, and the first script or render error otherwise.
func Run(ctx context.Context, s *Scene, script Script, opts RunOptions) error {
	if script == nil {
		script = ScriptFuncs{}
	}
	if err := script.Init(s); err != nil {
		return fmt.Errorf("script init: %w", err)
	}

	var frameBudget time.Duration
	if fps := s.cfg.TargetFPS; fps > 0 {
		frameBudget = time.Second / time.Duration(fps)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for frame := 0; opts.MaxFrames == 0 || frame < opts.MaxFrames; frame++ {
		select {
		case <-ctx.Done():
			Logger().Info("driver stopped", "frames", frame)
			return nil
		default:
		}

		start := time.Now()
		if err := script.Run(s); err != nil {
			Logger().Warn("script failed", "frame", frame, "err", err)
			return fmt.Errorf("script run (frame %d): %w", frame, err)
		}
		if err := s.Render(); err != nil {
			return err
		}
		if opts.OnFrame != nil {
			opts.OnFrame(s.LastFrame())
		}

		if frameBudget == 0 {
			continue
		}
		if wait := frameBudget - time.Since(start); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				Logger().Info("driver stopped", "frames", frame+1)
				return nil
			case <-timer.C:
			}
		}
	}
	return nil
}
