// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid     GridConfig     `yaml:"grid"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Water    WaterConfig    `yaml:"water"`
	Entity   EntityConfig   `yaml:"entity"`
	Aging    AgingConfig    `yaml:"aging"`
	Lighting LightingConfig `yaml:"lighting"`
	Portal   PortalConfig   `yaml:"portal"`
	WorldGen WorldGenConfig `yaml:"worldgen"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Waves    []WaveConfig   `yaml:"waves"`
	Seed     int64          `yaml:"seed"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds grid dimensions and cell-to-world scale.
type GridConfig struct {
	Cols        int     `yaml:"cols"`
	Rows        int     `yaml:"rows"`
	BlockWidth  float64 `yaml:"block_width"`
	BlockHeight float64 `yaml:"block_height"`
}

// PhysicsConfig holds terminal velocities, the step-up tiers, and the
// per-step delta clamp.
type PhysicsConfig struct {
	GravityAcceleration float64 `yaml:"gravity_acceleration"`
	MaxFallSpeed        float64 `yaml:"max_fall_speed"`
	MaxDeltaTime        float64 `yaml:"max_delta_time"`

	StepTier1MaxHeightFactor     float64 `yaml:"step_tier1_max_height_factor"`
	StepTier2MaxHeightFactor     float64 `yaml:"step_tier2_max_height_factor"`
	StepTier2HorizontalFriction  float64 `yaml:"step_tier2_horizontal_friction"`
	Epsilon                      float64 `yaml:"epsilon"`
}

// WaterConfig holds fluid-medium physics constants.
type WaterConfig struct {
	GravityFactor        float64 `yaml:"gravity_factor"`
	HorizontalDamping    float64 `yaml:"horizontal_damping"`
	VerticalDamping      float64 `yaml:"vertical_damping"`
	MaxSpeedFactor       float64 `yaml:"max_speed_factor"`
	AccelerationFactor   float64 `yaml:"acceleration_factor"`
	SwimVelocity         float64 `yaml:"swim_velocity"`
	MaxSwimUpSpeed       float64 `yaml:"max_swim_up_speed"`
	MaxSinkSpeed         float64 `yaml:"max_sink_speed"`
	JumpCooldownDuration float64 `yaml:"jump_cooldown_duration"`
}

// EntityConfig holds entity-level constants not owned by a more specific
// sub-config (fall-out kill threshold, rope grab cooldown, separation).
type EntityConfig struct {
	FallOutY                  float64 `yaml:"fall_out_y"`
	RopeGrabCooldownDuration   float64 `yaml:"rope_grab_cooldown_duration"`
	SeparationRadiusFactor     float64 `yaml:"separation_radius_factor"`
	SeparationStrength         float64 `yaml:"separation_strength"`
	OutOfWaterDamagePerSecond  float64 `yaml:"out_of_water_damage_per_second"`
}

// RingWeights maps ring radius (3, 5, or 7) to its influence weight.
type RingWeights struct {
	R3 float64 `yaml:"r3"`
	R5 float64 `yaml:"r5"`
	R7 float64 `yaml:"r7"`
}

// AgingConfig holds the aging pass's scalar constants and default ring
// weighting (§6). The concrete per-kind rule list stays in code
// (aging.DefaultRuleSet) since it expresses conditional logic
// (NeighborFilter, SplitOutcomes) that doesn't serialize cleanly to YAML
// scalars — the same split the teacher draws between its scalar yaml knobs
// and its in-code neural topology.
type AgingConfig struct {
	InitialPasses                 int         `yaml:"initial_passes"`
	DefaultRingWeights             RingWeights `yaml:"default_ring_weights"`
	ProbDiamondFormation           float64     `yaml:"prob_diamond_formation"`
	ProbVegetationToWoodSurrounded float64     `yaml:"prob_vegetation_to_wood_surrounded"`
	ProbDirtGrowsVegetation        float64     `yaml:"prob_dirt_grows_vegetation"`
	MinTreeSpacingRadius           int         `yaml:"min_tree_spacing_radius"`
}

// LightingConfig holds the sun-ray march constants.
type LightingConfig struct {
	MinLightThreshold       float32 `yaml:"min_light_threshold"`
	InitialLightRayPower    float32 `yaml:"initial_light_ray_power"`
	SunRaysPerPosition      int     `yaml:"sun_rays_per_position"`
	MaxLightRayLengthBlocks int     `yaml:"max_light_ray_length_blocks"`
	SunMovementStepColumns  int     `yaml:"sun_movement_step_columns"`
	SunMovementYRowOffset   int     `yaml:"sun_movement_y_row_offset"`
}

// PortalConfig holds the portal's starting health and safety-radius growth.
type PortalConfig struct {
	InitialHealth       int32   `yaml:"initial_health"`
	SafetyRadius        float64 `yaml:"safety_radius"`
	RadiusGrowthPerWave float64 `yaml:"radius_growth_per_wave"`
}

// WorldGenConfig holds initial grid generation parameters (C12, not present
// in the distilled spec — see SPEC_FULL.md's EXPANDED COMPONENT LIST).
type WorldGenConfig struct {
	SeaLevelRow    int     `yaml:"sea_level_row"`
	IslandCount    int     `yaml:"island_count"`
	CaveThreshold  float64 `yaml:"cave_threshold"`
	NoiseFrequency float64 `yaml:"noise_frequency"`
}

// SchedulerConfig holds the WaveScheduler's constants that apply across
// every wave rather than to one specific wave entry.
type SchedulerConfig struct {
	WaveStartDelay     float64 `yaml:"wave_start_delay"`
	WarpPhaseDuration  float64 `yaml:"warp_phase_duration"`
	LiveEnemyThreshold int     `yaml:"live_enemy_threshold"`
}

// BookmarksConfig holds the thresholds telemetry's BookmarkDetector uses to
// flag notable moments in a run for offline review.
type BookmarksConfig struct {
	PortalCriticalHPRatio   float64 `yaml:"portal_critical_hp_ratio"`
	PlayerLowHPRatio        float64 `yaml:"player_low_hp_ratio"`
	EnemySurgeMultiplier    float64 `yaml:"enemy_surge_multiplier"`
	EnemySurgeMinLive       int     `yaml:"enemy_surge_min_live"`
	FastClearWindows        int     `yaml:"fast_clear_windows"`
	StalemateWindows        int     `yaml:"stalemate_windows"`
}

// TelemetryConfig holds the telemetry Collector's window cadence.
type TelemetryConfig struct {
	WindowDurationSec float64 `yaml:"window_duration_sec"`
}

// EnemyGroup is one spawn group within a sub-wave.
type EnemyGroup struct {
	Type         string  `yaml:"type"`
	Count        int     `yaml:"count"`
	DelayBetween float64 `yaml:"delay_between"`
	StartDelay   float64 `yaml:"start_delay"`
}

// SubWave is an ordered group of enemy spawns within a wave.
type SubWave struct {
	EnemyGroups []EnemyGroup `yaml:"enemy_groups"`
}

// WaveConfig is one entry of the waves array (§6).
type WaveConfig struct {
	Label                string    `yaml:"label"`
	Duration             float64   `yaml:"duration"`
	IntermissionDuration float64   `yaml:"intermission_duration"`
	AgingPasses          int       `yaml:"aging_passes"`
	SubWaves             []SubWave `yaml:"sub_waves"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxDeltaTime32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.Grid.Cols <= 0 || cfg.Grid.Rows <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got cols=%d rows=%d", cfg.Grid.Cols, cfg.Grid.Rows)
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxDeltaTime32 = float32(c.Physics.MaxDeltaTime)
}

// WriteYAML serializes the configuration to path, for telemetry to record
// the exact settings a run was produced under alongside its CSV output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
