package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if exists {
		t.Error("expected exists=false for missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %s, want %s", resolved, path)
	}
	if cfg.Detector.MaxHands != 4 {
		t.Errorf("MaxHands = %d, want 4", cfg.Detector.MaxHands)
	}
	if !cfg.Camera.Mirror {
		t.Error("Mirror should default to true")
	}
	if cfg.Display.QuitKey != 27 {
		t.Errorf("QuitKey = %d, want 27", cfg.Display.QuitKey)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[camera]
device = 2
mirror = false
max_consecutive_failures = 5

[detector]
max_hands = 2
min_detection_confidence = 0.7

[pipeline]
frame_wait_ms = 20

[logging]
format = " JSON "
level = "Debug"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
	if cfg.Camera.Device != 2 || cfg.Camera.Mirror {
		t.Errorf("camera = %+v", cfg.Camera)
	}
	if cfg.Camera.Width != 640 {
		t.Errorf("unset width should keep default, got %d", cfg.Camera.Width)
	}
	if cfg.Pipeline.FrameWait() != 20*time.Millisecond {
		t.Errorf("FrameWait() = %v", cfg.Pipeline.FrameWait())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging not normalized: %+v", cfg.Logging)
	}

	dc := cfg.DetectorConfig()
	if dc.MaxHands != 2 || dc.MinConfidence != 0.7 || dc.MinTrackingConf != 0.5 {
		t.Errorf("DetectorConfig() = %+v", dc)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "zero hands", content: "[detector]\nmax_hands = 0\n", wantErr: "detector.max_hands"},
		{name: "confidence", content: "[detector]\nmin_tracking_confidence = 2.0\n", wantErr: "min_tracking_confidence"},
		{name: "failure threshold", content: "[camera]\nmax_consecutive_failures = 0\n", wantErr: "max_consecutive_failures"},
		{name: "frame wait", content: "[pipeline]\nframe_wait_ms = 0\n", wantErr: "frame_wait_ms"},
		{name: "motion threshold", content: "[pipeline]\nmotion_gate = true\nmotion_threshold = 0.0\n", wantErr: "motion_threshold"},
		{name: "motion refresh", content: "[pipeline]\nmotion_gate = true\nmotion_refresh_frames = 0\n", wantErr: "motion_refresh_frames"},
		{name: "bad bind", content: "[server]\nenabled = true\nbind = \"nope\"\n", wantErr: "server.bind"},
		{name: "bad format", content: "[logging]\nformat = \"xml\"\n", wantErr: "logging.format"},
		{name: "unknown key", content: "[camera]\nzoom = 3\n", wantErr: "parse config"},
		{name: "syntax", content: "[camera\n", wantErr: "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ExpandsHomePaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg, _, _, err := Load(writeConfig(t, "[detector]\nscript = \"~/svc.py\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Detector.Script != filepath.Join(home, "svc.py") {
		t.Errorf("Script = %s", cfg.Detector.Script)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal([]byte(SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample does not parse: %v", err)
	}

	def := Default()
	if cfg.Camera != def.Camera {
		t.Errorf("camera sample %+v != default %+v", cfg.Camera, def.Camera)
	}
	if cfg.Detector != def.Detector {
		t.Errorf("detector sample %+v != default %+v", cfg.Detector, def.Detector)
	}
	if cfg.Pipeline != def.Pipeline {
		t.Errorf("pipeline sample %+v != default %+v", cfg.Pipeline, def.Pipeline)
	}
	if cfg.Display != def.Display {
		t.Errorf("display sample %+v != default %+v", cfg.Display, def.Display)
	}
	if cfg.Server != def.Server {
		t.Errorf("server sample %+v != default %+v", cfg.Server, def.Server)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample() error = %v", err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Errorf("sample should load cleanly: %v", err)
	}
	if err := CreateSample(path); err == nil {
		t.Error("expected error when file already exists")
	}
}
