// Package wave implements WaveScheduler (C10): a tick-accumulated finite
// state machine driving aging cadence, spawn cadence, and the portal's
// safety-radius growth. Grounded on telemetry/bookmark.go's BookmarkType
// string-enum-plus-state-tracking-struct shape (adapted from a rolling
// stats detector to a tick-driven state machine) and game/game.go's
// per-phase tick sequencing, whose log/slog transition logging this
// package reuses for state changes.
package wave

import (
	"log/slog"

	"github.com/holdline-games/warden/config"
)

// State is one of the scheduler's finite states (§4.10).
type State string

const (
	StatePreGame       State = "pre_game"
	StateIntermission  State = "intermission"
	StateActive        State = "active"
	StateWarp          State = "warp"
	StateGameOver      State = "game_over"
	StateVictory       State = "victory"
)

// SpawnRequest is one enemy the scheduler wants the caller to spawn this
// tick. The caller (sim) maps Type to an entity.AIKind and does the
// actual entity.Arena.Spawn call; wave never imports entity.
type SpawnRequest struct {
	Type string
}

// Tick reports what the scheduler wants the caller to do this tick.
type Tick struct {
	// Spawns lists every enemy to spawn this tick, in order.
	Spawns []SpawnRequest
	// AgingPasses is how many aging passes the caller should run this
	// tick (almost always 0 or the wave's configured count, delivered
	// once at Intermission→Active).
	AgingPasses int
	// GrowPortalRadius is true exactly once, on the same tick
	// AgingPasses fires, per §4.10's Intermission→Active transition.
	GrowPortalRadius bool
	// StateChanged is true on the tick the state transitioned.
	StateChanged bool
}

// subWaveCursor tracks progress through one wave's ordered sub-waves.
type subWaveCursor struct {
	index        int
	groupIndex   int
	spawnedInGrp int
	elapsed      float64
}

// Scheduler drives wave progression per §4.10. Construct with NewScheduler
// and call Step once per simulation tick.
type Scheduler struct {
	waves []config.WaveConfig

	state        State
	waveIndex    int
	stateElapsed float64

	startDelay       float64
	warpDuration     float64
	liveEnemyThresh  int

	cursor subWaveCursor

	// liveEnemies is refreshed by the caller each tick via SetLiveEnemies,
	// since the scheduler has no entity.Arena reference of its own (§9:
	// break cyclic references with explicit parameter passing).
	liveEnemies int
}

// NewScheduler constructs a Scheduler over the given wave list. startDelay
// is WAVE_START_DELAY (PreGame→Intermission); warpDuration is
// WARPPHASE_DURATION; liveEnemyThreshold is the "live enemies remaining"
// threshold that, combined with a completed sub-wave's spawning, advances
// to the next sub-wave.
func NewScheduler(waves []config.WaveConfig, startDelay, warpDuration float64, liveEnemyThreshold int) *Scheduler {
	return &Scheduler{
		waves:           waves,
		state:           StatePreGame,
		startDelay:      startDelay,
		warpDuration:    warpDuration,
		liveEnemyThresh: liveEnemyThreshold,
	}
}

// State reports the scheduler's current state.
func (s *Scheduler) State() State { return s.state }

// WaveIndex reports the zero-based index of the wave currently active or
// about to start.
func (s *Scheduler) WaveIndex() int { return s.waveIndex }

// StateElapsed reports how many seconds the scheduler has spent in its
// current state.
func (s *Scheduler) StateElapsed() float64 { return s.stateElapsed }

// CurrentWaveDuration reports the active wave entry's configured
// duration, or 0 if the wave index is out of range (e.g. after Victory).
func (s *Scheduler) CurrentWaveDuration() float64 { return s.currentWave().Duration }

// SetLiveEnemies updates the scheduler's view of how many enemies remain
// alive, used to gate sub-wave advancement during Active.
func (s *Scheduler) SetLiveEnemies(n int) {
	s.liveEnemies = n
}

// PortalDied transitions the scheduler to GameOver. Idempotent once
// already terminal.
func (s *Scheduler) PortalDied() {
	s.transitionIf(s.state != StateGameOver && s.state != StateVictory, StateGameOver)
}

// PlayerDied transitions the scheduler to GameOver. Idempotent once
// already terminal.
func (s *Scheduler) PlayerDied() {
	s.transitionIf(s.state != StateGameOver && s.state != StateVictory, StateGameOver)
}

// Step advances the scheduler by dt seconds and reports what the caller
// should do this tick.
func (s *Scheduler) Step(dt float64) Tick {
	if s.state == StateGameOver || s.state == StateVictory {
		return Tick{}
	}

	s.stateElapsed += dt
	out := Tick{}

	switch s.state {
	case StatePreGame:
		if s.stateElapsed >= s.startDelay {
			s.enter(StateIntermission)
			out.StateChanged = true
		}
	case StateIntermission:
		if s.stateElapsed >= s.currentWave().IntermissionDuration {
			out.AgingPasses = s.currentWave().AgingPasses
			out.GrowPortalRadius = true
			s.cursor = subWaveCursor{}
			s.enter(StateActive)
			out.StateChanged = true
		}
	case StateActive:
		spawns, advanced := s.stepActive(dt)
		out.Spawns = spawns
		if advanced {
			out.StateChanged = true
		}
	case StateWarp:
		if s.stateElapsed >= s.warpDuration {
			s.waveIndex++
			if s.waveIndex >= len(s.waves) {
				s.enter(StateVictory)
			} else {
				s.enter(StateIntermission)
			}
			out.StateChanged = true
		}
	}

	return out
}

func (s *Scheduler) currentWave() config.WaveConfig {
	if s.waveIndex < 0 || s.waveIndex >= len(s.waves) {
		return config.WaveConfig{}
	}
	return s.waves[s.waveIndex]
}

// stepActive advances sub-wave spawning and reports spawn requests due
// this tick, plus whether the wave as a whole completed (→Warp).
func (s *Scheduler) stepActive(dt float64) ([]SpawnRequest, bool) {
	wave := s.currentWave()

	if s.stateElapsed >= wave.Duration {
		s.enter(StateWarp)
		return nil, true
	}

	var spawns []SpawnRequest
	for s.cursor.index < len(wave.SubWaves) {
		sub := wave.SubWaves[s.cursor.index]
		if s.cursor.groupIndex >= len(sub.EnemyGroups) {
			if s.subWaveDone(sub) {
				s.cursor.index++
				s.cursor.groupIndex = 0
				s.cursor.spawnedInGrp = 0
				s.cursor.elapsed = 0
				continue
			}
			break
		}

		group := sub.EnemyGroups[s.cursor.groupIndex]
		s.cursor.elapsed += dt

		due := group.StartDelay + float64(s.cursor.spawnedInGrp)*group.DelayBetween
		for s.cursor.spawnedInGrp < group.Count && s.cursor.elapsed >= due {
			spawns = append(spawns, SpawnRequest{Type: group.Type})
			s.cursor.spawnedInGrp++
			due = group.StartDelay + float64(s.cursor.spawnedInGrp)*group.DelayBetween
		}

		if s.cursor.spawnedInGrp >= group.Count {
			s.cursor.groupIndex++
			s.cursor.spawnedInGrp = 0
			continue
		}
		break
	}

	if s.cursor.index >= len(wave.SubWaves) && s.subWavesExhausted(wave) {
		s.enter(StateWarp)
		return spawns, true
	}

	return spawns, false
}

// subWaveDone reports whether every group in sub has finished spawning
// and live enemies have dropped to the configured threshold.
func (s *Scheduler) subWaveDone(sub config.SubWave) bool {
	return s.liveEnemies <= s.liveEnemyThresh
}

func (s *Scheduler) subWavesExhausted(wave config.WaveConfig) bool {
	return s.cursor.index >= len(wave.SubWaves)
}

func (s *Scheduler) enter(next State) {
	slog.Debug("wave: state transition", "from", s.state, "to", next, "wave", s.waveIndex)
	s.state = next
	s.stateElapsed = 0
}

func (s *Scheduler) transitionIf(cond bool, next State) {
	if !cond {
		return
	}
	s.enter(next)
}
