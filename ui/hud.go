package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the data needed to render the main heads-up display.
// Adapted from the teacher's HUDData (population/tick counters) to this
// domain's run state: portal health, player health, wave progress, and
// inventory.
type HUDData struct {
	Tick          int64
	WaveState     string
	WaveIndex     int
	TimeRemaining float64
	PortalHP      int32
	PortalMaxHP   int32
	PlayerHP      int32
	PlayerMaxHP   int32
	LiveEnemies   int
	Paused        bool
	FPS           int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the top-left status panel.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)
	width := int32(260)

	r.DrawPanel(x, y, width, 130)
	y += r.Theme.Padding

	rl.DrawText(fmt.Sprintf("Wave %d: %s", data.WaveIndex+1, data.WaveState), x+r.Theme.Padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += r.Theme.LineHeight + 4

	y = r.DrawBar(x+r.Theme.Padding, y, "Portal", ratio(data.PortalHP, data.PortalMaxHP), width-2*r.Theme.Padding)
	y = r.DrawBar(x+r.Theme.Padding, y, "Player", ratio(data.PlayerHP, data.PlayerMaxHP), width-2*r.Theme.Padding)

	y = r.DrawLabelValue(x+r.Theme.Padding, y, "Enemies", fmt.Sprintf("%d", data.LiveEnemies), width)
	y = r.DrawLabelValue(x+r.Theme.Padding, y, "Remaining", fmt.Sprintf("%.0fs", data.TimeRemaining), width)
	y = r.DrawLabelValue(x+r.Theme.Padding, y, "Tick", fmt.Sprintf("%d", data.Tick), width)

	status := fmt.Sprintf("FPS %d", data.FPS)
	if data.Paused {
		status = "PAUSED — " + status
	}
	rl.DrawText(status, x+r.Theme.Padding, y, r.Theme.FontSize, rl.Yellow)
}

// DrawInventory renders the player's held-material counts bottom-left.
func (h *HUD) DrawInventory(screenHeight int32, items map[string]int) {
	if len(items) == 0 {
		return
	}
	r := h.renderer
	x, y := int32(10), screenHeight-int32(len(items))*r.Theme.LineHeight-20
	for _, k := range []string{"sand", "dirt", "stone", "granite", "wood", "gravel", "clay", "bedrock", "vegetation", "coal", "diamond"} {
		if n, ok := items[k]; ok && n > 0 {
			rl.DrawText(fmt.Sprintf("%s: %d", k, n), x, y, r.Theme.FontSize, rl.LightGray)
			y += r.Theme.LineHeight
		}
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func ratio(cur, max int32) float32 {
	if max <= 0 {
		return 0
	}
	v := float32(cur) / float32(max)
	if v < 0 {
		v = 0
	}
	return v
}
