package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/taigrr/lumen/pkg/lighting"
	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/models"
	"github.com/taigrr/lumen/pkg/scene"
)

// demos maps -scene names to script constructors.
var demos = map[string]func(modelPath string, fps int) scene.Script{
	"rgb-lights": func(_ string, fps int) scene.Script { return newRGBLights(fps) },
	"flashlight": func(string, int) scene.Script { return &flashlight{} },
	"spin-model": func(path string, _ int) scene.Script { return &spinModel{path: path} },
}

func demoNames() string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func newDemo(name, modelPath string, fps int) (scene.Script, error) {
	ctor, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %s)", name, demoNames())
	}
	return ctor(modelPath, max(fps, 1)), nil
}

// rgbLights circles a red, a green and a blue light in front of a wall.
type rgbLights struct {
	Radius float64
	Speed  float64 // Radians per second

	lights [3]*lighting.Light
	wall   *models.Mesh
	dt     float64
	t      float64
}

func newRGBLights(fps int) *rgbLights {
	return &rgbLights{Radius: 1.5, Speed: 0.6, dt: 1 / float64(fps)}
}

func (d *rgbLights) Init(s *scene.Scene) error {
	cam := s.Camera()
	cam.SetPosition(math3d.V3(0, 0, 14))
	if err := cam.SetDirection(math3d.Forward()); err != nil {
		return err
	}

	colors := [3]models.RGB{{R: 255}, {G: 255}, {B: 255}}
	for i, c := range colors {
		l, err := lighting.NewLight(lighting.WithColor(c), lighting.WithPower(40))
		if err != nil {
			return fmt.Errorf("rgb light %d: %w", i, err)
		}
		d.lights[i] = l
		s.AddLight(l)
	}
	d.place()

	d.wall = models.NewPlane(10, 9,
		models.WithRotation(math3d.V3(90, 0, 0)),
		models.WithPosition(math3d.V3(0, 0, -7)),
	)
	s.AddObject(d.wall)
	return nil
}

func (d *rgbLights) Run(*scene.Scene) error {
	d.t += d.dt
	d.place()
	return nil
}

// place puts the lights on a circle at 120 degree spacing.
func (d *rgbLights) place() {
	base := d.t * d.Speed
	for i, l := range d.lights {
		angle := base + float64(i)*2*math.Pi/3
		l.SetPosition(math3d.V3(d.Radius*math.Cos(angle), d.Radius*math.Sin(angle), 0))
	}
}

// flashlight puts the player in a dark room with a narrow spot light that
// follows the camera.
type flashlight struct {
	light *lighting.Light
	room  *models.Mesh
}

func (d *flashlight) Init(s *scene.Scene) error {
	cam := s.Camera()
	cam.SetPosition(math3d.Zero3())
	if err := cam.SetDirection(math3d.Forward()); err != nil {
		return err
	}

	l, err := lighting.NewLight(
		lighting.WithPosition(cam.Position()),
		lighting.WithDirection(cam.Forward()),
		lighting.WithFOV(15),
		lighting.WithSoftEdge(5),
		lighting.WithPower(40),
	)
	if err != nil {
		return fmt.Errorf("flashlight: %w", err)
	}
	d.light = l
	s.AddLight(l)

	d.room = models.NewBox(20, 5,
		models.WithScale(math3d.V3(1, 2, 1)),
		models.WithInverted(true),
	)
	s.AddObject(d.room)
	return nil
}

func (d *flashlight) Run(s *scene.Scene) error {
	cam := s.Camera()
	d.light.SetPosition(cam.Position())
	return d.light.SetDirection(cam.Forward())
}

// spinModel tumbles an imported model (or a sphere when no path is given)
// under a spot light mounted on the camera.
type spinModel struct {
	path  string
	model *models.Mesh
	angle float64
}

func (d *spinModel) Init(s *scene.Scene) error {
	cam := s.Camera()
	cam.SetPosition(math3d.Zero3())
	if err := cam.SetDirection(math3d.Forward()); err != nil {
		return err
	}

	pos := models.WithPosition(math3d.V3(0, 0, -8))
	if d.path == "" {
		d.model = models.NewSphere(2, 10, 16, pos)
	} else {
		loader := models.NewGLTFLoader()
		loader.FitSize = 4
		m, err := loader.Load(d.path, pos)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		d.model = m
	}
	s.AddObject(d.model)
	scene.Logger().Info("model loaded",
		"name", d.model.Name,
		"vertices", d.model.VertexCount(),
		"polygons", d.model.PolygonCount(),
	)

	l, err := lighting.NewLight(
		lighting.WithDirection(math3d.Forward()),
		lighting.WithFOV(40),
		lighting.WithPower(30),
	)
	if err != nil {
		return fmt.Errorf("model light: %w", err)
	}
	s.AddLight(l)
	return nil
}

func (d *spinModel) Run(*scene.Scene) error {
	d.angle++
	d.model.Transform().SetRotation(math3d.V3(d.angle, d.angle, d.angle))
	return nil
}
