// Package config loads the optional TOML configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ayusman/fingercount/internal/detector"
)

//go:embed sample_config.toml
var sampleConfig string

// Camera contains capture device settings.
type Camera struct {
	Device                 int    `toml:"device"`
	Width                  int    `toml:"width"`
	Height                 int    `toml:"height"`
	FPS                    int    `toml:"fps"`
	Mirror                 bool   `toml:"mirror"`
	MaxConsecutiveFailures int    `toml:"max_consecutive_failures"`
	RetryDelayMs           int    `toml:"retry_delay_ms"`
	LockDir                string `toml:"lock_dir"`
}

// Detector contains hand landmark model settings.
type Detector struct {
	StaticImageMode        bool    `toml:"static_image_mode"`
	MaxHands               int     `toml:"max_hands"`
	MinDetectionConfidence float64 `toml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `toml:"min_tracking_confidence"`
	Python                 string  `toml:"python"`
	Script                 string  `toml:"script"`
}

// Pipeline contains frame handoff timing.
type Pipeline struct {
	FrameWaitMs int `toml:"frame_wait_ms"`
	// MotionGate reuses the previous detections while the scene is still.
	MotionGate          bool    `toml:"motion_gate"`
	MotionThreshold     float64 `toml:"motion_threshold"`
	MotionRefreshFrames int     `toml:"motion_refresh_frames"`
}

// Display contains on-screen window settings.
type Display struct {
	Enabled       bool   `toml:"enabled"`
	WindowTitle   string `toml:"window_title"`
	DrawLandmarks bool   `toml:"draw_landmarks"`
	QuitKey       int    `toml:"quit_key"`
}

// Server contains the optional HTTP mirror settings.
type Server struct {
	Enabled   bool   `toml:"enabled"`
	Bind      string `toml:"bind"`
	StaticDir string `toml:"static_dir"`
}

// Tray contains the optional system tray settings.
type Tray struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
//
// Configuration sections by subsystem:
//   - Camera: device, resolution, mirroring and read failure policy
//   - Detector: landmark model parameters
//   - Pipeline: processing stage wait interval and motion gate
//   - Display: window and overlay
//   - Server: HTTP/WebSocket mirror of the live count
//   - Tray: system tray indicator
//   - Logging: log format and level
type Config struct {
	Camera   Camera   `toml:"camera"`
	Detector Detector `toml:"detector"`
	Pipeline Pipeline `toml:"pipeline"`
	Display  Display  `toml:"display"`
	Server   Server   `toml:"server"`
	Tray     Tray     `toml:"tray"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fingercount/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults are returned with exists set to false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("fingercount.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Display.WindowTitle = strings.TrimSpace(c.Display.WindowTitle)
	if c.Display.WindowTitle == "" {
		c.Display.WindowTitle = defaultWindowTitle
	}

	for _, p := range []*string{&c.Camera.LockDir, &c.Detector.Python, &c.Detector.Script, &c.Server.StaticDir} {
		if *p == "" {
			continue
		}
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Clean(trimmed), nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// RetryDelay is the pause after a failed camera read.
func (c Camera) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// FrameWait bounds how long the processing stage waits for a new frame.
func (p Pipeline) FrameWait() time.Duration {
	return time.Duration(p.FrameWaitMs) * time.Millisecond
}

// DetectorConfig converts the detector section into detector settings.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		StaticImageMode: c.Detector.StaticImageMode,
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
		Python:          c.Detector.Python,
		Script:          c.Detector.Script,
	}
}
