package wave

import (
	"testing"

	"github.com/holdline-games/warden/config"
)

func oneWave() []config.WaveConfig {
	return []config.WaveConfig{
		{
			Label:                "wave-1",
			Duration:             10,
			IntermissionDuration: 2,
			AgingPasses:          3,
			SubWaves: []config.SubWave{
				{EnemyGroups: []config.EnemyGroup{
					{Type: "flop", Count: 3, DelayBetween: 1, StartDelay: 0},
				}},
			},
		},
	}
}

func twoWaves() []config.WaveConfig {
	return append(oneWave(), config.WaveConfig{
		Label:                "wave-2",
		Duration:             5,
		IntermissionDuration: 1,
		AgingPasses:          1,
		SubWaves: []config.SubWave{
			{EnemyGroups: []config.EnemyGroup{
				{Type: "fish", Count: 1, DelayBetween: 0, StartDelay: 0},
			}},
		},
	})
}

func TestPreGameAdvancesAfterStartDelay(t *testing.T) {
	s := NewScheduler(oneWave(), 3, 2, 0)
	if s.State() != StatePreGame {
		t.Fatalf("expected PreGame initially, got %v", s.State())
	}
	s.Step(2)
	if s.State() != StatePreGame {
		t.Fatalf("expected still PreGame before start delay elapses, got %v", s.State())
	}
	tick := s.Step(1.1)
	if s.State() != StateIntermission {
		t.Fatalf("expected Intermission after start delay, got %v", s.State())
	}
	if !tick.StateChanged {
		t.Fatal("expected StateChanged on the transitioning tick")
	}
}

// S6: a wave with duration=10s, aging_passes=3 reaches Warp no later than
// its 10s duration (here sooner: its only sub-wave finishes spawning with
// no live enemies), having run exactly 3 aging passes at the preceding
// Intermission→Active transition.
func TestWaveProgressionS6(t *testing.T) {
	s := NewScheduler(oneWave(), 0, 2, 0)
	s.Step(0.001) // PreGame -> Intermission (start delay 0)

	agingPasses := 0
	grewRadius := false
	elapsed := 0.0
	const dt = 0.1
	for elapsed < 30 && s.State() != StateWarp {
		tick := s.Step(dt)
		agingPasses += tick.AgingPasses
		if tick.GrowPortalRadius {
			grewRadius = true
		}
		elapsed += dt
	}

	if s.State() != StateWarp {
		t.Fatalf("expected Warp state, got %v after %.1fs", s.State(), elapsed)
	}
	if agingPasses != 3 {
		t.Fatalf("expected exactly 3 aging passes, got %d", agingPasses)
	}
	if !grewRadius {
		t.Fatal("expected portal radius growth to fire once during Intermission->Active")
	}
}

func TestActiveSpawnsEnemiesAccordingToGroupTiming(t *testing.T) {
	s := NewScheduler(oneWave(), 0, 2, 0)
	s.Step(0.001)               // -> Intermission
	s.Step(oneWave()[0].IntermissionDuration + 0.01) // -> Active, aging fires

	var spawned []string
	for i := 0; i < 40; i++ {
		tick := s.Step(0.1)
		for _, req := range tick.Spawns {
			spawned = append(spawned, req.Type)
		}
		if s.State() == StateWarp {
			break
		}
	}
	if len(spawned) != 3 {
		t.Fatalf("expected 3 spawns from the single enemy group, got %d: %v", len(spawned), spawned)
	}
	for _, kind := range spawned {
		if kind != "flop" {
			t.Fatalf("expected every spawn to be 'flop', got %q", kind)
		}
	}
}

func TestSubWaveAdvancesOnlyAfterLiveEnemiesDropToThreshold(t *testing.T) {
	waves := []config.WaveConfig{{
		Label:                "multi",
		Duration:             100,
		IntermissionDuration: 0,
		AgingPasses:          0,
		SubWaves: []config.SubWave{
			{EnemyGroups: []config.EnemyGroup{{Type: "a", Count: 1, DelayBetween: 0, StartDelay: 0}}},
			{EnemyGroups: []config.EnemyGroup{{Type: "b", Count: 1, DelayBetween: 0, StartDelay: 0}}},
		},
	}}
	s := NewScheduler(waves, 0, 1, 0)
	s.Step(0.001) // -> Intermission
	s.Step(0.001) // -> Active

	s.SetLiveEnemies(5) // above threshold: first sub-wave must not advance

	var allSpawns []string
	for i := 0; i < 5; i++ {
		tick := s.Step(0.1)
		for _, req := range tick.Spawns {
			allSpawns = append(allSpawns, req.Type)
		}
	}
	for _, kind := range allSpawns {
		if kind == "b" {
			t.Fatal("expected sub-wave 2 to not start while live enemies remain above threshold")
		}
	}

	s.SetLiveEnemies(0)
	for i := 0; i < 5; i++ {
		tick := s.Step(0.1)
		for _, req := range tick.Spawns {
			allSpawns = append(allSpawns, req.Type)
		}
	}
	foundB := false
	for _, kind := range allSpawns {
		if kind == "b" {
			foundB = true
		}
	}
	if !foundB {
		t.Fatal("expected sub-wave 2 to spawn once live enemies dropped to the threshold")
	}
}

func TestWarpAdvancesToNextWaveIntermission(t *testing.T) {
	s := NewScheduler(twoWaves(), 0, 1, 100) // high threshold: skip straight through sub-waves by duration
	s.Step(0.001)                            // -> Intermission
	s.Step(3)                                // -> Active (+ aging)
	s.Step(11)                               // wave-1 duration elapses -> Warp
	if s.State() != StateWarp {
		t.Fatalf("expected Warp, got %v", s.State())
	}
	if s.WaveIndex() != 0 {
		t.Fatalf("expected wave index still 0 during warp out of wave 0, got %d", s.WaveIndex())
	}
	s.Step(1.5) // warp duration elapses -> wave 2 Intermission
	if s.State() != StateIntermission {
		t.Fatalf("expected Intermission for wave 2, got %v", s.State())
	}
	if s.WaveIndex() != 1 {
		t.Fatalf("expected wave index 1, got %d", s.WaveIndex())
	}
}

func TestVictoryAfterFinalWave(t *testing.T) {
	s := NewScheduler(oneWave(), 0, 1, 100)
	s.Step(0.001) // -> Intermission
	s.Step(3)     // -> Active
	s.Step(11)    // -> Warp (final wave's only entry)
	s.Step(1.5)   // warp elapses with no more waves -> Victory
	if s.State() != StateVictory {
		t.Fatalf("expected Victory after the only wave completes, got %v", s.State())
	}
	tick := s.Step(5)
	if tick.StateChanged || len(tick.Spawns) != 0 {
		t.Fatal("expected Victory to be terminal: no further state changes or spawns")
	}
}

func TestPortalDeathEndsTheRunRegardlessOfState(t *testing.T) {
	s := NewScheduler(oneWave(), 0, 1, 0)
	s.Step(0.001)
	s.PortalDied()
	if s.State() != StateGameOver {
		t.Fatalf("expected GameOver after portal death, got %v", s.State())
	}
	tick := s.Step(100)
	if tick.StateChanged || len(tick.Spawns) != 0 {
		t.Fatal("expected GameOver to be terminal")
	}
}

func TestPlayerDeathEndsTheRun(t *testing.T) {
	s := NewScheduler(oneWave(), 0, 1, 0)
	s.PlayerDied()
	if s.State() != StateGameOver {
		t.Fatalf("expected GameOver after player death, got %v", s.State())
	}
}
