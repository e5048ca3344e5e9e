// Package scene owns the objects, lights, camera and surface of a world and
// turns them into one presented frame per Render call.
package scene

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/lighting"
	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
	"github.com/taigrr/lumen/pkg/render"
	"golang.org/x/sync/errgroup"
)

// FrameStats describes the most recent frame.
type FrameStats struct {
	Objects     int
	Polygons    int // World polygons considered
	Culled      int // Backface, near plane or frustum rejections
	Degenerate  int // Skipped as degenerate geometry
	Drawn       int
	CacheHits   uint64
	CacheMisses uint64
	Duration    time.Duration
	FPS         float64 // Averaged over the last full second

	Cull render.CullStats // Per-reason counts for this frame only
}

// bounded is implemented by objects that know their local bounding box.
type bounded interface {
	LocalBounds() (lo, hi math3d.Vec3)
}

// drawItem is one polygon ready for the surface.
type drawItem struct {
	points []math3d.Vec2
	color  color.RGBA
	depth  float64
}

// objectResult is the output of steps 1-3 for one object.
type objectResult struct {
	items      []drawItem
	polygons   int
	culled     int
	degenerate int
}

// Scene holds everything needed to render a frame. Objects and lights may
// be added, removed or mutated freely between Render calls, never during.
// An object must not be added more than once.
type Scene struct {
	cfg      config.Config
	camera   *render.Camera
	surface  *render.Surface
	lighting *lighting.System
	overlay  *render.Wireframe

	objects []models.Object
	lights  []*lighting.Light

	last FrameStats
	fps  fpsCounter
}

// New assembles a scene. The camera and surface are owned by the scene from
// here on.
func New(cfg config.Config, camera *render.Camera, surface *render.Surface) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, config.Invalid("camera", "must not be nil")
	}
	if surface == nil {
		return nil, config.Invalid("surface", "must not be nil")
	}
	sys, err := lighting.NewSystem(cfg)
	if err != nil {
		return nil, err
	}
	w, h := surface.Size()
	Logger().Info("scene assembled", "width", w, "height", h, "workers", cfg.Workers)
	return &Scene{
		cfg:      cfg,
		camera:   camera,
		surface:  surface,
		lighting: sys,
		overlay:  render.NewWireframe(camera, surface),
		fps:      newFPSCounter(),
	}, nil
}

// Config returns the engine configuration.
func (s *Scene) Config() config.Config { return s.cfg }

// Camera returns the player camera.
func (s *Scene) Camera() *render.Camera { return s.camera }

// Surface returns the render target.
func (s *Scene) Surface() *render.Surface { return s.surface }

// Lighting returns the lighting system.
func (s *Scene) Lighting() *lighting.System { return s.lighting }

// Objects returns the objects in draw-submission order. The slice must not
// be modified; use AddObject and RemoveObject.
func (s *Scene) Objects() []models.Object { return s.objects }

// Lights returns the lights. The slice must not be modified; use AddLight
// and RemoveLight.
func (s *Scene) Lights() []*lighting.Light { return s.lights }

// AddObject appends objects to the scene.
func (s *Scene) AddObject(objs ...models.Object) {
	s.objects = append(s.objects, objs...)
}

// RemoveObject removes obj and reports whether it was present.
func (s *Scene) RemoveObject(obj models.Object) bool {
	i := slices.IndexFunc(s.objects, func(o models.Object) bool { return o.ID() == obj.ID() })
	if i < 0 {
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	return true
}

// AddLight appends lights to the scene.
func (s *Scene) AddLight(lights ...*lighting.Light) {
	s.lights = append(s.lights, lights...)
}

// RemoveLight removes l and reports whether it was present.
func (s *Scene) RemoveLight(l *lighting.Light) bool {
	i := slices.Index(s.lights, l)
	if i < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, i, i+1)
	return true
}

// LastFrame returns the stats of the most recent Render.
func (s *Scene) LastFrame() FrameStats { return s.last }

// Resize changes the surface and camera resolution.
func (s *Scene) Resize(width, height int) error {
	if err := s.surface.Resize(width, height); err != nil {
		return err
	}
	return s.camera.Resize(width, height)
}

// Render draws one frame: transform, cull and shade every object, sort the
// survivors far to near, fill them and present. Only a presentation failure
// is returned; bad polygons are skipped and counted.
func (s *Scene) Render() error {
	start := time.Now()
	cacheBefore := s.lighting.Stats()
	s.camera.ResetStats()

	results := make([]objectResult, len(s.objects))
	if s.cfg.Workers > 1 && len(s.objects) > 1 {
		var g errgroup.Group
		g.SetLimit(s.cfg.Workers)
		for i, obj := range s.objects {
			g.Go(func() error {
				results[i] = s.processObject(obj)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, obj := range s.objects {
			results[i] = s.processObject(obj)
		}
	}

	stats := FrameStats{Objects: len(s.objects)}
	total := 0
	for _, r := range results {
		total += len(r.items)
	}
	items := make([]drawItem, 0, total)
	for _, r := range results {
		items = append(items, r.items...)
		stats.Polygons += r.polygons
		stats.Culled += r.culled
		stats.Degenerate += r.degenerate
	}

	// Painter's algorithm: farthest first, submission order on ties
	slices.SortStableFunc(items, func(a, b drawItem) int {
		return cmp.Compare(b.depth, a.depth)
	})

	s.surface.Clear(s.cfg.Background)
	for _, it := range items {
		s.surface.FillPolygon(it.points, it.color)
	}
	stats.Drawn = len(items)

	if s.cfg.ShowAxes {
		s.overlay.DrawAxes(1)
		s.overlay.DrawGizmo(8)
	}
	s.fps.tick(start)
	if s.cfg.ShowFPS {
		s.surface.DrawFPS(s.fps.fps)
	}

	stats.Cull = s.camera.Stats()
	cacheAfter := s.lighting.Stats()
	stats.CacheHits = cacheAfter.Hits - cacheBefore.Hits
	stats.CacheMisses = cacheAfter.Misses - cacheBefore.Misses
	if cacheAfter.Resets != cacheBefore.Resets {
		Logger().Debug("lighting cache reset", "limit", s.cfg.CacheLimit)
	}
	if stats.Degenerate > 0 {
		Logger().Debug("skipped degenerate polygons", "count", stats.Degenerate)
	}

	err := s.surface.Present()
	stats.Duration = time.Since(start)
	stats.FPS = s.fps.fps
	s.last = stats
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// processObject runs the per-object steps: world transform, camera cull and
// projection, shading. It only reads shared state, so objects may be
// processed concurrently.
func (s *Scene) processObject(obj models.Object) objectResult {
	var r objectResult

	if b, ok := obj.(bounded); ok {
		lo, hi := b.LocalBounds()
		if !s.camera.BoxVisible(render.NewAABB(lo, hi), obj.Transform().World()) {
			for _, p := range obj.Polygons() {
				r.polygons++
				if p.Degenerate {
					r.degenerate++
				} else {
					r.culled++
				}
			}
			s.camera.CountCulled(render.CulledFrustum, r.culled)
			s.camera.CountCulled(render.CulledDegenerate, r.degenerate)
			return r
		}
	}

	polys, _ := models.WorldPolygons(obj)
	r.polygons = len(polys)
	for _, p := range polys {
		proj, reason := s.camera.Cull(p)
		switch reason {
		case render.Visible:
		case render.CulledDegenerate:
			r.degenerate++
			continue
		default:
			r.culled++
			continue
		}
		c := s.lighting.Shade(p, s.lights)
		r.items = append(r.items, drawItem{
			points: proj.Points,
			color:  color.RGBA{c.R, c.G, c.B, 255},
			depth:  proj.Depth,
		})
	}
	return r
}

// fpsCounter averages frame rate over one-second windows.
type fpsCounter struct {
	frames int
	since  time.Time
	fps    float64
}

func newFPSCounter() fpsCounter {
	return fpsCounter{since: time.Now()}
}

func (f *fpsCounter) tick(now time.Time) {
	f.frames++
	elapsed := now.Sub(f.since)
	if elapsed >= time.Second {
		f.fps = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.since = now
	}
}
