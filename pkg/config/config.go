// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig contains configuration for a race session
type GameConfig struct {
	Track     string          `json:"track"`
	FrameRate int             `json:"frameRate"`
	Motion    MotionConfig    `json:"motion"`
	Collision CollisionConfig `json:"collision"`
	Traffic   TrafficConfig   `json:"traffic"`
	Camera    CameraConfig    `json:"camera"`
	UI        UIConfig        `json:"ui"`
	Bridge    BridgeConfig    `json:"bridge"`
}

// MotionConfig contains the player vehicle constants. Rates are per
// millisecond of frame time.
type MotionConfig struct {
	AccelRate        float64 `json:"accelRate"`
	DecelRate        float64 `json:"decelRate"`
	ZeroEscape       float64 `json:"zeroEscape"`
	TurnRate         float64 `json:"turnRate"`
	TurnModel        string  `json:"turnModel"`
	ClampHeading     bool    `json:"clampHeading"`
	MaxHeadingOffset float64 `json:"maxHeadingOffset"`
}

// CollisionConfig contains hit detection settings
type CollisionConfig struct {
	Enabled       bool    `json:"enabled"`
	HitZoneModel  string  `json:"hitZoneModel"`
	HitZoneRadius float64 `json:"hitZoneRadius"`
}

// TrafficConfig contains obstacle vehicle settings
type TrafficConfig struct {
	Enabled             bool    `json:"enabled"`
	SpawnIntervalMs     int     `json:"spawnIntervalMs"`
	MaxVehicles         int     `json:"maxVehicles"`
	BaseAngularSpeed    float64 `json:"baseAngularSpeed"`
	CoupleToPlayerSpeed bool    `json:"coupleToPlayerSpeed"`
	Seed                uint64  `json:"seed"`
}

// CameraConfig contains the orthographic camera settings
type CameraConfig struct {
	Width float64 `json:"width"`
}

// UIConfig contains overlay settings
type UIConfig struct {
	RevealDelayMs int    `json:"revealDelayMs"`
	StatusText    string `json:"statusText"`
}

// BridgeConfig contains the browser renderer bridge settings
type BridgeConfig struct {
	ListenAddr        string        `json:"listenAddr"`
	StaticDir         string        `json:"staticDir"`
	MaxClients        int           `json:"maxClients"`
	InputRate         float64       `json:"inputRate"`
	InputBurst        int           `json:"inputBurst"`
	ReadTimeoutMs     int           `json:"readTimeoutMs"`
	WriteTimeout      int           `json:"writeTimeoutMs"`
	ShutdownTimeoutMs int           `json:"shutdownTimeoutMs"`
	Breaker           BreakerConfig `json:"breaker"`
}

// BreakerConfig contains circuit breaker settings for frame delivery
type BreakerConfig struct {
	MaxRequests         uint32 `json:"maxRequests"`
	IntervalMs          int    `json:"intervalMs"`
	TimeoutMs           int    `json:"timeoutMs"`
	MaxConsecutiveFails uint32 `json:"maxConsecutiveFails"`
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("failed to marshal config: %w", ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the configuration of the shipped game
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Track:     "monza",
		FrameRate: 60,
		Motion: MotionConfig{
			AccelRate:        1e-3,
			DecelRate:        2.5e-3,
			ZeroEscape:       1e-10,
			TurnRate:         2e-2,
			TurnModel:        "literal",
			ClampHeading:     false,
			MaxHeadingOffset: 0,
		},
		Collision: CollisionConfig{
			Enabled:       false,
			HitZoneModel:  "literal",
			HitZoneRadius: 20,
		},
		Traffic: TrafficConfig{
			Enabled:          false,
			SpawnIntervalMs:  3000,
			MaxVehicles:      4,
			BaseAngularSpeed: 0.0017,
			Seed:             1,
		},
		Camera: CameraConfig{
			Width: 1080,
		},
		UI: UIConfig{
			RevealDelayMs: 4000,
			StatusText:    "Press UP",
		},
		Bridge: BridgeConfig{
			ListenAddr:        "localhost:8080",
			MaxClients:        8,
			InputRate:         60,
			InputBurst:        20,
			ReadTimeoutMs:     30000,
			WriteTimeout:      1000,
			ShutdownTimeoutMs: 5000,
			Breaker: BreakerConfig{
				MaxRequests:         3,
				IntervalMs:          60000,
				TimeoutMs:           5000,
				MaxConsecutiveFails: 5,
			},
		},
	}
}

// Validate checks the configuration for values the simulation cannot run
// with. The returned error is a *ValidationError wrapping ErrInvalidConfig.
func (c *GameConfig) Validate() error {
	switch {
	case c.Track == "":
		return newValidationError("Track", c.Track, "must not be empty")
	case c.FrameRate < 1 || c.FrameRate > 240:
		return newValidationError("FrameRate", c.FrameRate, "must be between 1 and 240")
	case c.Motion.AccelRate <= 0:
		return newValidationError("Motion.AccelRate", c.Motion.AccelRate, "must be positive")
	case c.Motion.DecelRate <= 0:
		return newValidationError("Motion.DecelRate", c.Motion.DecelRate, "must be positive")
	case c.Motion.ZeroEscape < 0:
		return newValidationError("Motion.ZeroEscape", c.Motion.ZeroEscape, "must not be negative")
	case c.Motion.TurnModel != "literal" && c.Motion.TurnModel != "cuberoot":
		return newValidationError("Motion.TurnModel", c.Motion.TurnModel, "must be literal or cuberoot")
	case c.Collision.HitZoneModel != "literal" && c.Collision.HitZoneModel != "corrected":
		return newValidationError("Collision.HitZoneModel", c.Collision.HitZoneModel, "must be literal or corrected")
	case c.Collision.HitZoneRadius <= 0:
		return newValidationError("Collision.HitZoneRadius", c.Collision.HitZoneRadius, "must be positive")
	case c.Traffic.Enabled && c.Traffic.SpawnIntervalMs <= 0:
		return newValidationError("Traffic.SpawnIntervalMs", c.Traffic.SpawnIntervalMs, "must be positive when traffic is enabled")
	case c.Traffic.MaxVehicles < 0:
		return newValidationError("Traffic.MaxVehicles", c.Traffic.MaxVehicles, "must not be negative")
	case c.Camera.Width <= 0:
		return newValidationError("Camera.Width", c.Camera.Width, "must be positive")
	case c.UI.RevealDelayMs < 0:
		return newValidationError("UI.RevealDelayMs", c.UI.RevealDelayMs, "must not be negative")
	}
	return nil
}
