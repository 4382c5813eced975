package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// World configuration (bounds are half extents around the origin)
	WorldExtentX = 120.0
	WorldExtentY = 60.0
	WorldExtentZ = 120.0

	// Game loop configuration
	TickRate      = 60              // Simulation updates per second
	BroadcastRate = 20              // State broadcasts per second
	TickInterval  = 1000 / TickRate // milliseconds
	MaxDeltaTime  = 0.1             // clamp for frame stalls, seconds

	// Player configuration
	PlayerRadius    = 1.2
	SwimAccel       = 45.0 // added per second of held input
	MaxSwimSpeed    = 18.0
	BoostMultiplier = 1.8
	ViewDistance    = 90.0 // broadcast interest radius

	// Underwater forces
	BuoyancyAccel     = 0.8  // constant upward acceleration
	DragCoefficient   = 0.95 // per-step velocity decay, 0 < c < 1
	CurrentStrength   = 0.3
	GravityAccel      = -9.8 // above-water branch only
	RestitutionFactor = 0.3  // velocity scale on blocking collision

	// Particles
	MaxParticles     = 500
	BurstStarCount   = 24
	BurstPortalCount = 60

	// Levels
	BaseStarCount  = 5
	StarsPerLevel  = 2
	BaseRockCount  = 10
	RocksPerLevel  = 3
	BaseCoralCount = 6
	StarRadius     = 1.0
	RockRadiusMin  = 2.0
	RockRadiusMax  = 6.0
	GateRadius     = 6.0
	GateSegments   = 8

	// Network
	InputQueueSize   = 256
	WriteChannelSize = 256
	PingInterval     = 2000 // milliseconds
	MaxPlayerNameLen = 20

	// Challenge mode
	ChallengeMaxPlayers    = 8
	ChallengeLobbyWaitTime = 10 // seconds before a lobby auto-starts
	ChallengeCountdownTime = 3  // seconds of countdown
	ChallengeTargetStars   = 25 // stars to full progress
)

// Config holds the server-level settings that can be overridden from a
// YAML file; everything physics-side stays a compile-time constant above.
type Config struct {
	Addr         string  `yaml:"addr"`
	MaxParticles int     `yaml:"max_particles"`
	ViewDistance float64 `yaml:"view_distance"`
	CurrentScale float64 `yaml:"current_scale"` // multiplier on ambient current strength
}

// DefaultConfig returns the built-in server settings.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		MaxParticles: MaxParticles,
		ViewDistance: ViewDistance,
		CurrentScale: 1.0,
	}
}

// LoadConfig reads settings from a YAML file. A missing or invalid file
// falls back to defaults; a partial file overrides only what it names.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Invalid config %s, using defaults: %v", path, err)
		return DefaultConfig()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = MaxParticles
	}
	if cfg.ViewDistance <= 0 {
		cfg.ViewDistance = ViewDistance
	}
	if cfg.CurrentScale <= 0 {
		cfg.CurrentScale = 1.0
	}
	return cfg
}
