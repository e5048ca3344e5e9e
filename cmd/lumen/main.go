// lumen - Terminal 3D Scene Renderer
// Flat-shaded polygon scenes with point and spot lights, drawn in your
// terminal or written to PNG files.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Space/Z     - Move up/down
//	Arrows      - Turn
//	Mouse drag  - Look around
//	R           - Stop all motion
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/lumen/pkg/config"
	"github.com/taigrr/lumen/pkg/render"
	"github.com/taigrr/lumen/pkg/scene"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// options holds the command-line flags.
type options struct {
	targetFPS int
	bgColor   string
	fov       float64
	near      float64
	ambient   float64
	workers   int
	pngPath   string
	pngSize   string
	frames    int
	sceneName string
	showAxes  bool
	showFPS   bool
	verbose   bool
}

func main() {
	// Context for clean shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "lumen [model.glb]",
		Short: "Terminal 3D scene renderer",
		Long: `Flat-shaded polygon scenes with point and spot lights, drawn in your
terminal or written to PNG files.

Controls:
  W/S/A/D     Move and strafe
  Space/Z     Up/down
  Arrows      Turn
  Mouse drag  Look around
  R           Stop all motion
  Esc         Quit`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var model string
			if len(args) > 0 {
				model = args[0]
			}
			return run(cmd.Context(), opts, model)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.targetFPS, "fps", 60, "target FPS (0 = unpaced)")
	f.StringVar(&opts.bgColor, "bg", "30,30,40", "background color (R,G,B)")
	f.Float64Var(&opts.fov, "fov", 90, "horizontal field of view in degrees")
	f.Float64Var(&opts.near, "near", 0.1, "near plane distance")
	f.Float64Var(&opts.ambient, "ambient", 0.1, "ambient light factor")
	f.IntVar(&opts.workers, "workers", 1, "objects processed in parallel (0 = one per CPU)")
	f.StringVar(&opts.pngPath, "png", "", "render headless to PNG (use %d in the path for one file per frame)")
	f.StringVar(&opts.pngSize, "size", "320x180", "frame size for --png (WxH)")
	f.IntVar(&opts.frames, "frames", 0, "stop after N frames (0 = until quit; --png defaults to 1)")
	f.StringVar(&opts.sceneName, "scene", "rgb-lights", "demo scene: "+demoNames())
	f.BoolVar(&opts.showAxes, "axes", false, "draw world axes and orientation gizmo")
	f.BoolVar(&opts.showFPS, "show-fps", true, "draw the FPS counter")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log engine events to stderr")
	return cmd
}

func run(ctx context.Context, opts options, model string) error {
	if opts.verbose {
		scene.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := opts.config()
	if err != nil {
		return err
	}
	demo, err := newDemo(opts.sceneName, model, opts.targetFPS)
	if err != nil {
		return err
	}

	if opts.pngPath != "" {
		return runHeadless(ctx, cfg, opts, demo)
	}
	return runTerminal(ctx, cfg, opts.frames, demo)
}

// config turns the flags into a validated engine configuration.
func (o options) config() (config.Config, error) {
	cfg := config.Default()
	bg, err := parseRGB(o.bgColor)
	if err != nil {
		return cfg, err
	}
	cfg.Background = bg
	cfg.FOV = o.fov
	cfg.Near = o.near
	cfg.Ambient = o.ambient
	cfg.TargetFPS = o.targetFPS
	cfg.ShowAxes = o.showAxes
	cfg.ShowFPS = o.showFPS
	cfg.Workers = o.workers
	if cfg.Workers == 0 {
		cfg = cfg.Parallel()
	}
	return cfg, cfg.Validate()
}

func parseRGB(s string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return color.RGBA{}, config.Invalid("bg", "want R,G,B, got %q", s)
	}
	return color.RGBA{r, g, b, 255}, nil
}

func parseSize(s string) (w, h int, err error) {
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return 0, 0, config.Invalid("size", "want WxH, got %q", s)
	}
	return w, h, config.ValidateScreen(w, h)
}

// newScene builds camera, surface and scene for a w×h frame.
func newScene(cfg config.Config, w, h int, p render.Presenter) (*scene.Scene, error) {
	cam, err := render.NewCamera(cfg, w, h)
	if err != nil {
		return nil, err
	}
	surf, err := render.NewSurface(w, h, p)
	if err != nil {
		return nil, err
	}
	return scene.New(cfg, cam, surf)
}

func runHeadless(ctx context.Context, cfg config.Config, opts options, demo scene.Script) error {
	w, h, err := parseSize(opts.pngSize)
	if err != nil {
		return err
	}
	cfg.TargetFPS = 0
	cfg.ShowFPS = false

	png := render.NewPNGPresenter(opts.pngPath)
	sc, err := newScene(cfg, w, h, png)
	if err != nil {
		return err
	}
	n := opts.frames
	if n == 0 {
		n = 1
	}
	var drawn int
	err = scene.Run(ctx, sc, demo, scene.RunOptions{
		MaxFrames: n,
		OnFrame:   func(st scene.FrameStats) { drawn += st.Drawn },
	})
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "wrote %d frame(s) to %s, %d polygons drawn\n", png.Frames(), opts.pngPath, drawn)
	return err
}

func runTerminal(ctx context.Context, cfg config.Config, frames int, demo scene.Script) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create terminal
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	presenter := render.NewTerminalPresenter(term, term.Display, cols, rows)
	w, h := presenter.FramebufferSize()
	sc, err := newScene(cfg, w, h, presenter)
	if err != nil {
		return err
	}

	in := newInput(NewPlayer(cfg.TargetFPS), demo)
	in.onResize = func(cols, rows int) error {
		term.Erase()
		term.Resize(cols, rows)
		presenter.Resize(cols, rows)
		return sc.Resize(presenter.FramebufferSize())
	}

	// Event handler: quit keys act at once, everything else is queued for
	// the frame loop, which owns the scene.
	go func() {
		for ev := range term.Events() {
			if k, ok := ev.(uv.KeyPressEvent); ok && (k.MatchString("escape") || k.MatchString("ctrl+c")) {
				cancel()
				return
			}
			in.push(ev)
		}
	}()

	return scene.Run(ctx, sc, in, scene.RunOptions{MaxFrames: frames})
}
