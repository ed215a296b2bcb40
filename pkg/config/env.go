// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvListenAddr         = "RACER_LISTEN_ADDR"
	EnvMaxClients         = "RACER_MAX_CLIENTS"
	EnvReadTimeout        = "RACER_READ_TIMEOUT"
	EnvWriteTimeout       = "RACER_WRITE_TIMEOUT"
	EnvFrameRate          = "RACER_FRAME_RATE"
	EnvTrack              = "RACER_TRACK"
	EnvCameraWidth        = "RACER_CAMERA_WIDTH"
	EnvCollision          = "RACER_COLLISION"
	EnvTraffic            = "RACER_TRAFFIC"
	EnvBreakerMaxRequests = "RACER_BREAKER_MAX_REQUESTS"
	EnvBreakerInterval    = "RACER_BREAKER_INTERVAL"
	EnvBreakerTimeout     = "RACER_BREAKER_TIMEOUT"
	EnvBreakerMaxFailures = "RACER_BREAKER_MAX_FAILURES"
	EnvShutdownTimeout    = "RACER_SHUTDOWN_TIMEOUT"
)

// EnvironmentConfig holds deployment settings read from RACER_* variables.
type EnvironmentConfig struct {
	ListenAddr   string
	MaxClients   int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	FrameRate    int
	Track        string
	CameraWidth  float64

	CollisionEnabled bool
	TrafficEnabled   bool

	// Circuit Breaker Configuration
	CircuitBreakerMaxRequests         uint32
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails uint32

	ShutdownTimeout time.Duration
}

// ValidationError reports the first invalid field of a configuration.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func newValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets callers match ErrInvalidConfig with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// LoadConfigFromEnv reads the environment, falling back to defaults for
// unset or malformed variables, and validates the result.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	defaults := DefaultConfig()
	config := &EnvironmentConfig{
		ListenAddr:   getEnvOrDefault(EnvListenAddr, defaults.Bridge.ListenAddr),
		MaxClients:   getEnvAsIntOrDefault(EnvMaxClients, defaults.Bridge.MaxClients),
		ReadTimeout:  getEnvAsDurationOrDefault(EnvReadTimeout, time.Duration(defaults.Bridge.ReadTimeoutMs)*time.Millisecond),
		WriteTimeout: getEnvAsDurationOrDefault(EnvWriteTimeout, time.Duration(defaults.Bridge.WriteTimeout)*time.Millisecond),
		FrameRate:    getEnvAsIntOrDefault(EnvFrameRate, defaults.FrameRate),
		Track:        getEnvOrDefault(EnvTrack, defaults.Track),
		CameraWidth:  getEnvAsFloatOrDefault(EnvCameraWidth, defaults.Camera.Width),

		CollisionEnabled: getEnvAsBoolOrDefault(EnvCollision, defaults.Collision.Enabled),
		TrafficEnabled:   getEnvAsBoolOrDefault(EnvTraffic, defaults.Traffic.Enabled),

		CircuitBreakerMaxRequests:         uint32(getEnvAsIntOrDefault(EnvBreakerMaxRequests, int(defaults.Bridge.Breaker.MaxRequests))),
		CircuitBreakerInterval:            getEnvAsDurationOrDefault(EnvBreakerInterval, time.Duration(defaults.Bridge.Breaker.IntervalMs)*time.Millisecond),
		CircuitBreakerTimeout:             getEnvAsDurationOrDefault(EnvBreakerTimeout, time.Duration(defaults.Bridge.Breaker.TimeoutMs)*time.Millisecond),
		CircuitBreakerMaxConsecutiveFails: uint32(getEnvAsIntOrDefault(EnvBreakerMaxFailures, int(defaults.Bridge.Breaker.MaxConsecutiveFails))),

		ShutdownTimeout: getEnvAsDurationOrDefault(EnvShutdownTimeout, time.Duration(defaults.Bridge.ShutdownTimeoutMs)*time.Millisecond),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateEnvironmentConfig(c *EnvironmentConfig) error {
	switch {
	case c.ListenAddr == "":
		return newValidationError("ListenAddr", c.ListenAddr, "must not be empty")
	case !strings.Contains(c.ListenAddr, ":"):
		return newValidationError("ListenAddr", c.ListenAddr, "must be host:port")
	case c.MaxClients < 1 || c.MaxClients > 1000:
		return newValidationError("MaxClients", c.MaxClients, "must be between 1 and 1000")
	case c.ReadTimeout < time.Second || c.ReadTimeout > time.Minute:
		return newValidationError("ReadTimeout", c.ReadTimeout, "must be between 1s and 1m")
	case c.WriteTimeout < 10*time.Millisecond || c.WriteTimeout > time.Minute:
		return newValidationError("WriteTimeout", c.WriteTimeout, "must be between 10ms and 1m")
	case c.FrameRate < 1 || c.FrameRate > 240:
		return newValidationError("FrameRate", c.FrameRate, "must be between 1 and 240")
	case c.Track == "":
		return newValidationError("Track", c.Track, "must not be empty")
	case c.CameraWidth < 100 || c.CameraWidth > 10000:
		return newValidationError("CameraWidth", c.CameraWidth, "must be between 100 and 10000")
	case c.CircuitBreakerMaxRequests < 1:
		return newValidationError("CircuitBreakerMaxRequests", c.CircuitBreakerMaxRequests, "must be at least 1")
	case c.CircuitBreakerInterval < time.Second:
		return newValidationError("CircuitBreakerInterval", c.CircuitBreakerInterval, "must be at least 1s")
	case c.CircuitBreakerTimeout < 100*time.Millisecond:
		return newValidationError("CircuitBreakerTimeout", c.CircuitBreakerTimeout, "must be at least 100ms")
	case c.CircuitBreakerMaxConsecutiveFails < 1:
		return newValidationError("CircuitBreakerMaxConsecutiveFails", c.CircuitBreakerMaxConsecutiveFails, "must be at least 1")
	case c.ShutdownTimeout < 100*time.Millisecond || c.ShutdownTimeout > 5*time.Minute:
		return newValidationError("ShutdownTimeout", c.ShutdownTimeout, "must be between 100ms and 5m")
	}
	return nil
}

// ApplyEnvironmentOverrides copies every RACER_* variable that is set onto
// config. Unset variables leave the file values alone.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	env, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	if isSet(EnvListenAddr) {
		config.Bridge.ListenAddr = env.ListenAddr
	}
	if isSet(EnvMaxClients) {
		config.Bridge.MaxClients = env.MaxClients
	}
	if isSet(EnvReadTimeout) {
		config.Bridge.ReadTimeoutMs = int(env.ReadTimeout / time.Millisecond)
	}
	if isSet(EnvWriteTimeout) {
		config.Bridge.WriteTimeout = int(env.WriteTimeout / time.Millisecond)
	}
	if isSet(EnvShutdownTimeout) {
		config.Bridge.ShutdownTimeoutMs = int(env.ShutdownTimeout / time.Millisecond)
	}
	if isSet(EnvFrameRate) {
		config.FrameRate = env.FrameRate
	}
	if isSet(EnvTrack) {
		config.Track = env.Track
	}
	if isSet(EnvCameraWidth) {
		config.Camera.Width = env.CameraWidth
	}
	if isSet(EnvCollision) {
		config.Collision.Enabled = env.CollisionEnabled
	}
	if isSet(EnvTraffic) {
		config.Traffic.Enabled = env.TrafficEnabled
	}
	if isSet(EnvBreakerMaxRequests) {
		config.Bridge.Breaker.MaxRequests = env.CircuitBreakerMaxRequests
	}
	if isSet(EnvBreakerInterval) {
		config.Bridge.Breaker.IntervalMs = int(env.CircuitBreakerInterval / time.Millisecond)
	}
	if isSet(EnvBreakerTimeout) {
		config.Bridge.Breaker.TimeoutMs = int(env.CircuitBreakerTimeout / time.Millisecond)
	}
	if isSet(EnvBreakerMaxFailures) {
		config.Bridge.Breaker.MaxConsecutiveFails = env.CircuitBreakerMaxConsecutiveFails
	}

	return config.Validate()
}

func isSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
