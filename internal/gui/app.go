// Package gui is the raylib frontend: a window, the shared software
// rasterizer painting into it, cab controls on the keyboard and a HUD
// with the live section score.
package gui

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/railsim/internal/config"
	"github.com/san-kum/railsim/internal/render"
	"github.com/san-kum/railsim/internal/scene"
	"github.com/san-kum/railsim/internal/score"
	"github.com/san-kum/railsim/internal/sim"
	"github.com/san-kum/railsim/internal/track"
	"github.com/san-kum/railsim/internal/train"
)

var (
	colSky     = rl.NewColor(150, 190, 230, 255)
	colText    = rl.NewColor(245, 245, 245, 255)
	colTextDim = rl.NewColor(180, 180, 180, 255)
	colAlert   = rl.NewColor(255, 170, 60, 255)
	colBad     = rl.NewColor(235, 80, 80, 255)
	colGood    = rl.NewColor(120, 230, 140, 255)
	colShadow  = rl.NewColor(0, 0, 0, 120)
)

const (
	mouseLook = 0.003 // radians per pixel of mouse delta
	moveSpeed = 40.0  // free camera, m/s
)

type App struct {
	cfg *config.Config
	sim *sim.Simulator
	dt  float64

	notch  train.Notch
	paused bool
	debug  bool
	stats  bool
	quit   bool

	section   *score.Section
	session   *score.SessionScore
	history   *score.History
	lastScore *score.SectionScore
	lastPhase train.Phase
	atEnd     bool

	signals []track.Signal

	surface windowSurface
	font    rl.Font
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "railsim")
	rl.SetTargetFPS(int32(cfg.Window.FPS))
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wires a simulator for the scene and opens the score history.
// The window must already be initialized.
func NewApp(cfg *config.Config, sc *scene.Scene) (*App, error) {
	tr := train.New(cfg.TrainParams())
	s := sim.New(sc, tr)
	s.SetCars(cfg.Train.Cars)

	cam := s.Camera()
	cam.FOV = cfg.Camera.FOV
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far
	cam.Aspect = float64(cfg.Window.Width) / float64(cfg.Window.Height)

	history, err := score.LoadHistory(filepath.Join(cfg.DataDir, "scores.json"))
	if err != nil {
		return nil, err
	}
	session, err := history.NewSession()
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		sim:     s,
		dt:      cfg.Dt,
		section: score.NewSection(sc.Track, -1, scene.TrainLength(cfg.Train.Cars), 0),
		session: session,
		history: history,
		signals: sc.Track.Signals(),
		surface: windowSurface{w: cfg.Window.Width, h: cfg.Window.Height},
		font:    loadFont(),
	}, nil
}

// Run opens the window and drives the app until it is closed. The
// session score is recorded on the way out.
func Run(cfg *config.Config, sc *scene.Scene) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, sc)
	if err != nil {
		return err
	}
	app.RunLoop()
	return app.history.EndSession()
}

// RunLoop is one frame per iteration in strict order: input, frame
// (dynamics, camera, rasterize), scoring, HUD.
func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		in := a.readInput()

		rl.BeginDrawing()
		rl.ClearBackground(colSky)
		events := a.sim.Frame(in, a.dt, a.surface)
		a.updateScore(events)
		a.drawHUD()
		rl.EndDrawing()
	}
}

func (a *App) readInput() sim.Input {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.notch = a.notch.Inc()
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.notch = a.notch.Dec()
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		a.paused = !a.paused
	}
	if rl.IsKeyPressed(rl.KeyZ) {
		a.debug = !a.debug
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.stats = !a.stats
	}
	if rl.IsKeyPressed(rl.KeyC) {
		cam := a.sim.Camera()
		if cam.Mode == render.CabView {
			cam.Mode = render.FreeLook
		} else {
			cam.Mode = render.CabView
		}
	}
	if rl.IsKeyPressed(rl.KeyE) && a.section.Stage == score.Overrun {
		a.section.Extend()
	}

	in := sim.Input{
		Throttle: a.notch.Throttle(),
		Pause:    a.paused,
		Debug:    a.debug,
	}

	if a.sim.Camera().Mode == render.FreeLook {
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			delta := rl.GetMouseDelta()
			in.LookYaw = float64(delta.X) * mouseLook
			in.LookPitch = -float64(delta.Y) * mouseLook
		}
		step := moveSpeed * a.dt
		if rl.IsKeyDown(rl.KeyW) {
			in.Move.Y += step
		}
		if rl.IsKeyDown(rl.KeyS) {
			in.Move.Y -= step
		}
		if rl.IsKeyDown(rl.KeyA) {
			in.Move.X -= step
		}
		if rl.IsKeyDown(rl.KeyD) {
			in.Move.X += step
		}
		if rl.IsKeyDown(rl.KeyR) {
			in.Move.Z += step
		}
		if rl.IsKeyDown(rl.KeyF) {
			in.Move.Z -= step
		}
	}
	return in
}

// updateScore runs the section state machine against the post-step
// train state and rolls finished legs into the session.
func (a *App) updateScore(events []train.Event) {
	if a.atEnd || a.paused {
		a.lastPhase = a.sim.Train().Phase
		return
	}

	st := a.sim.State()
	a.section.TickSpeeding(st.V > st.Limit+0.1, a.sim.Time())
	changed := a.section.UpdateStage(st.S, st.V)
	if changed && a.section.Stage == score.Stopped && a.section.Score != nil {
		a.lastScore = a.section.Score
		a.session.Add(a.section.Score)
	}

	// Departure from a scored stop starts the next leg.
	if a.lastPhase == train.AtStation && st.Phase != train.AtStation {
		if a.section.To+1 < len(a.sim.Scene().Track.Stations()) {
			a.section = a.section.Advance(a.sim.Time())
		}
	}
	a.lastPhase = st.Phase

	for _, ev := range events {
		if _, ok := ev.(train.EndOfLine); ok {
			a.atEnd = true
		}
	}
}

func (a *App) drawHUD() {
	st := a.sim.State()
	trk := a.sim.Scene().Track
	h := a.cfg.Window.Height

	rl.DrawRectangle(0, int32(h-96), int32(a.cfg.Window.Width), 96, colShadow)

	a.drawText(fmt.Sprintf("%5.1f km/h", st.V*3.6), 30, h-84, 32, colText)
	limCol := colTextDim
	if st.V > st.Limit {
		limCol = colBad
	}
	a.drawText(fmt.Sprintf("limit %5.1f", st.Limit*3.6), 30, h-44, 20, limCol)

	a.drawText(fmt.Sprintf("notch %s", a.notch), 260, h-84, 24, colText)
	a.drawText(st.Phase.String(), 260, h-50, 18, colTextDim)

	if i, ok := trk.NextStation(st.S); ok {
		next := trk.Stations()[i]
		a.drawText(fmt.Sprintf("next %s  %4.0f m", next.Name, next.Start-st.S), 440, h-84, 20, colText)
	}
	if sig, ok := trk.NextSignal(a.signals, st.S); ok {
		a.drawText("signal "+sig.Aspect.String(), 900, h-84, 20, aspectCol(sig.Aspect))
	}
	a.drawSection(440, h-54)

	a.drawText(fmt.Sprintf("total %.0f pts  %.1f★", a.session.Points, a.session.Stars), 440, h-28, 16, colTextDim)

	status := ""
	switch {
	case a.atEnd:
		status = "END OF LINE"
	case a.paused:
		status = "PAUSED"
	}
	if status != "" {
		a.drawText(status, a.cfg.Window.Width/2-80, 40, 28, colAlert)
	}

	a.drawText("↑↓ notch  SPACE pause  C camera  Z wire  E extend  Q quit",
		30, h-20, 14, colTextDim)

	if a.stats {
		a.drawText(fmt.Sprintf("%d fps  faults %d  t %.1f s",
			int32(rl.GetFPS()), a.sim.Renderer().Faults, a.sim.Time()), 30, 20, 16, colTextDim)
	}
}

// drawSection shows the active leg: countdown while running, the grade
// after a proper stop, the recovery hint otherwise.
func (a *App) drawSection(x, y int) {
	switch a.section.Stage {
	case score.Stopped:
		if a.lastScore != nil {
			col := colGood
			if a.lastScore.Stars < 3 {
				col = colAlert
			}
			a.drawText(fmt.Sprintf("stop %+.1f m  %d★  %.0f pts",
				-a.lastScore.Distance, a.lastScore.Stars, a.lastScore.Points), x, y, 18, col)
		}
	case score.Overrun:
		a.drawText("OVERRUN  [E] continue to next station", x, y, 18, colBad)
	case score.BadStop:
		a.drawText("rear off the platform, pull forward", x, y, 18, colAlert)
	default:
		rem := a.section.RemainingTime(a.sim.Time())
		col := colTextDim
		if rem < 0 {
			col = colAlert
		}
		a.drawText(fmt.Sprintf("due in %+.0f s", rem), x, y, 18, col)
	}
}

func aspectCol(a track.Aspect) rl.Color {
	switch a {
	case track.Proceed:
		return colGood
	case track.StopAspect:
		return colBad
	}
	return colAlert
}

func (a *App) drawText(text string, x, y, size int, col rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}
