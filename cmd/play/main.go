// Command play is the raylib demo frontend for the survival/defense
// simulation: it owns the window, the input→sim.Input translation, and
// the grid/entity/portal rendering, while sim.World owns every rule of
// the simulation itself. Grounded on the teacher's main.go (the
// top-level Game loop: flag parsing, NewWindow/BeginDrawing/EndDrawing,
// per-tick Update/Draw split) and camera/camera.go for the viewport,
// adapted from the teacher's toroidal organism-soup scene to a finite
// tile grid with a single controllable player.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/holdline-games/warden/camera"
	"github.com/holdline-games/warden/cell"
	"github.com/holdline-games/warden/config"
	"github.com/holdline-games/warden/entity"
	"github.com/holdline-games/warden/sim"
	"github.com/holdline-games/warden/telemetry"
	"github.com/holdline-games/warden/ui"
)

var (
	configPath = flag.String("config", "", "config YAML file (empty = embedded defaults)")
	outputDir  = flag.String("output", "", "telemetry/perf CSV output directory (empty = disabled)")
	logJSON    = flag.Bool("log-json", false, "emit structured logs as JSON instead of text")
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

func main() {
	flag.Parse()

	logHandler := logHandlerFor(*logJSON)
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		logger.Error("failed to initialize telemetry output", "err", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		logger.Warn("failed to write config snapshot", "err", err)
	}

	rl.InitWindow(screenWidth, screenHeight, "warden")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	world := sim.NewWorld(cfg)
	worldW := float32(cfg.Grid.Cols) * float32(cfg.Grid.BlockWidth)
	worldH := float32(cfg.Grid.Rows) * float32(cfg.Grid.BlockHeight)
	cam := camera.New(screenWidth, screenHeight, worldW, worldH)
	hud := ui.NewHUD()

	for !rl.WindowShouldClose() {
		handleGlobalKeys(world, cam)

		if !world.Paused() {
			in := buildInput(cam)
			world.Tick(float64(rl.GetFrameTime()), in)
		}

		if stats, ok := world.DrainTelemetryWindow(); ok {
			if err := output.WriteTelemetry(stats); err != nil {
				logger.Warn("failed to write telemetry window", "err", err)
			}
		}
		for _, bm := range world.DrainBookmarks() {
			if err := output.WriteBookmark(bm); err != nil {
				logger.Warn("failed to write bookmark", "err", err)
			}
			logger.Info("bookmark", "type", bm.Type, "tick", bm.Tick, "description", bm.Description)
		}
		world.DrainChanges() // grid redraw is read straight off GridSnapshot each frame

		followPlayer(world, cam)
		draw(world, cam, hud)
	}
}

func logHandlerFor(asJSON bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if asJSON {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// handleGlobalKeys processes keys that control the demo shell rather
// than the simulated player: pause, reset, and camera zoom.
func handleGlobalKeys(world *sim.World, cam *camera.Camera) {
	if rl.IsKeyPressed(rl.KeyP) {
		if world.Paused() {
			world.Resume()
		} else {
			world.Pause()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		world.Reset()
	}
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		cam.ZoomBy(1.0 + wheel*0.1)
	}
}

// buildInput translates keyboard/mouse state into one tick's sim.Input,
// the boundary the renderer owns per the simulation's external-interface
// contract.
func buildInput(cam *camera.Camera) sim.Input {
	mouse := rl.GetMousePosition()
	aimX, aimY := cam.ScreenToWorld(mouse.X, mouse.Y)

	weaponSelect := 0
	switch {
	case rl.IsKeyDown(rl.KeyOne):
		weaponSelect = 0
	case rl.IsKeyDown(rl.KeyTwo):
		weaponSelect = 1
	case rl.IsKeyDown(rl.KeyThree):
		weaponSelect = 2
	}

	materialSelect := 0
	for k := rl.KeyZero; k <= rl.KeyNine; k++ {
		if rl.IsKeyDown(k) {
			materialSelect = int(k - rl.KeyZero)
		}
	}

	return sim.Input{
		Left:           rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:          rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Jump:           rl.IsKeyDown(rl.KeySpace) || rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW),
		Down:           rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Attack:         rl.IsMouseButtonDown(rl.MouseLeftButton),
		MaterialSelect: materialSelect,
		WeaponSelect:   weaponSelect,
		AimWorldX:      float64(aimX),
		AimWorldY:      float64(aimY),
	}
}

// followPlayer keeps the camera centered on the player entity, if one
// is alive.
func followPlayer(world *sim.World, cam *camera.Camera) {
	for _, e := range world.Entities() {
		if e.Kind == entity.KindPlayer {
			cam.X = float32(e.X)
			cam.Y = float32(e.Y)
			return
		}
	}
}

func draw(world *sim.World, cam *camera.Camera, hud *ui.HUD) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 18, G: 18, B: 26, A: 255})

	drawGrid(world, cam)
	drawEntities(world, cam)
	drawPortal(world, cam)

	wave := world.WaveInfo()
	portal := world.PortalView()
	var playerHP, playerMaxHP int32
	liveEnemies := 0
	for _, e := range world.Entities() {
		if e.Kind == entity.KindPlayer {
			playerMaxHP = 100
			playerHP = int32(e.HPRatio * float64(playerMaxHP))
		}
		if e.Kind == entity.KindEnemy {
			liveEnemies++
		}
	}
	hud.Draw(ui.HUDData{
		Tick:          world.CurrentTick(),
		WaveState:     string(wave.State),
		WaveIndex:     wave.WaveIndex,
		TimeRemaining: wave.TimeRemaining,
		PortalHP:      portal.HP,
		PortalMaxHP:   portal.MaxHP,
		PlayerHP:      playerHP,
		PlayerMaxHP:   playerMaxHP,
		LiveEnemies:   liveEnemies,
		Paused:        world.Paused(),
		FPS:           rl.GetFPS(),
	})
	hud.DrawControls(screenWidth, screenHeight, "WASD/arrows move, space/W jump, 1-3 select weapon, 0-9 select material, LMB act, P pause, R reset")
	drawControlButtons(world)

	rl.EndDrawing()
}

// drawControlButtons renders the pause/reset buttons, grounded on the
// teacher's cmd/potentialpreview tool (its gui.Button-driven transport
// controls), top-right.
func drawControlButtons(world *sim.World) {
	pauseLabel := "Pause"
	if world.Paused() {
		pauseLabel = "Resume"
	}
	if gui.Button(rl.Rectangle{X: screenWidth - 210, Y: 10, Width: 90, Height: 28}, pauseLabel) {
		if world.Paused() {
			world.Resume()
		} else {
			world.Pause()
		}
	}
	if gui.Button(rl.Rectangle{X: screenWidth - 110, Y: 10, Width: 90, Height: 28}, "Reset") {
		world.Reset()
	}
}

func drawGrid(world *sim.World, cam *camera.Camera) {
	g := world.GridSnapshot()
	bw, bh := float32(config.Cfg().Grid.BlockWidth), float32(config.Cfg().Grid.BlockHeight)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	minCol, minRow := int(minX/bw)-1, int(minY/bh)-1
	maxCol, maxRow := int(maxX/bw)+1, int(maxY/bh)+1
	if minCol < 0 {
		minCol = 0
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxCol > g.Cols() {
		maxCol = g.Cols()
	}
	if maxRow > g.Rows() {
		maxRow = g.Rows()
	}

	for r := minRow; r < maxRow; r++ {
		for c := minCol; c < maxCol; c++ {
			v, ok := g.Get(c, r)
			if !ok || v.Kind == cell.Air {
				continue
			}
			props := cell.PropertiesFor(v.Kind)
			sx, sy := cam.WorldToScreen(float32(c)*bw, float32(r)*bh)
			w, h := bw*cam.Zoom, bh*cam.Zoom
			shade := litColor(props.Color, g.LightLevel(c, r))
			rl.DrawRectangle(int32(sx), int32(sy), int32(w)+1, int32(h)+1, shade)
		}
	}
}

// litColor scales a cell's base color by its light level, matching the
// dim-to-bright curve lighting.Recompute produces for the sun-ray march.
func litColor(c cell.Color, light float32) rl.Color {
	if light > 1 {
		light = 1
	}
	if light < 0.08 {
		light = 0.08
	}
	scale := func(v uint8) uint8 { return uint8(float32(v) * light) }
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

func drawEntities(world *sim.World, cam *camera.Camera) {
	for _, e := range world.Entities() {
		sx, sy := cam.WorldToScreen(float32(e.X), float32(e.Y))
		w := float32(e.MaxX-e.MinX) * cam.Zoom
		h := float32(e.MaxY-e.MinY) * cam.Zoom

		col := rl.Blue
		if e.Kind == entity.KindEnemy {
			col = enemyColor(e.AI)
		}
		rl.DrawRectangle(int32(sx-w/2), int32(sy-h/2), int32(w), int32(h), col)

		barW := w
		barY := sy - h/2 - 6
		rl.DrawRectangle(int32(sx-barW/2), int32(barY), int32(barW), 3, rl.Color{R: 40, G: 40, B: 40, A: 255})
		rl.DrawRectangle(int32(sx-barW/2), int32(barY), int32(barW*float32(e.HPRatio)), 3, rl.Red)
	}
}

func enemyColor(k entity.AIKind) rl.Color {
	switch k {
	case entity.AIFlop:
		return rl.Color{R: 200, G: 120, B: 60, A: 255}
	case entity.AIFish:
		return rl.Color{R: 60, G: 160, B: 200, A: 255}
	case entity.AIDunkleosteus:
		return rl.Color{R: 160, G: 40, B: 40, A: 255}
	default:
		return rl.Red
	}
}

func drawPortal(world *sim.World, cam *camera.Camera) {
	p := world.PortalView()
	if !p.Alive {
		return
	}
	bw, bh := float32(config.Cfg().Grid.BlockWidth), float32(config.Cfg().Grid.BlockHeight)
	sx, sy := cam.WorldToScreen(float32(p.Col)*bw, float32(p.Row)*bh)
	r := float32(p.SafetyRadius) * cam.Zoom
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Color{R: 120, G: 200, B: 255, A: 120})
	rl.DrawCircle(int32(sx), int32(sy), 10*cam.Zoom, rl.Purple)

	ratio := float32(0)
	if p.MaxHP > 0 {
		ratio = float32(p.HP) / float32(p.MaxHP)
	}
	rl.DrawText(fmt.Sprintf("%.0f%%", ratio*100), int32(sx)-12, int32(sy)-28, 12, rl.White)
}
