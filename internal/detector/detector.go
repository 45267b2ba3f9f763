package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hands with
	// normalized coordinates, in the detector's native order.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// StaticImageMode treats every frame independently instead of tracking
	// hands between frames.
	StaticImageMode bool

	// MaxHands is the maximum number of hands to detect (default: 4).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Python and Script override interpreter and service script discovery.
	Python string
	Script string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		StaticImageMode: false,
		MaxHands:        4,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}

// Validate checks the ranges of the detection parameters.
func (c Config) Validate() error {
	if c.MaxHands < 1 {
		return fmt.Errorf("max hands must be at least 1, got %d", c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min detection confidence must be between 0 and 1, got %f", c.MinConfidence)
	}
	if c.MinTrackingConf < 0 || c.MinTrackingConf > 1 {
		return fmt.Errorf("min tracking confidence must be between 0 and 1, got %f", c.MinTrackingConf)
	}
	return nil
}

// args renders the configuration as command line flags for the service script.
func (c Config) args() []string {
	args := []string{
		"--max-hands", fmt.Sprint(c.MaxHands),
		"--min-detection-confidence", fmt.Sprint(c.MinConfidence),
		"--min-tracking-confidence", fmt.Sprint(c.MinTrackingConf),
	}
	if c.StaticImageMode {
		args = append(args, "--static-image-mode")
	}
	return args
}
