package config

const (
	defaultCameraDevice           = 0
	defaultCameraWidth            = 640
	defaultCameraHeight           = 480
	defaultCameraFPS              = 30
	defaultMaxConsecutiveFailures = 30
	defaultRetryDelayMs           = 10
	defaultMaxHands               = 4
	defaultMinDetectionConfidence = 0.5
	defaultMinTrackingConfidence  = 0.5
	defaultFrameWaitMs            = 50
	defaultMotionThreshold        = 1.0
	defaultMotionRefreshFrames    = 15
	defaultWindowTitle            = "Image"
	defaultQuitKey                = 27 // Esc
	defaultServerBind             = "127.0.0.1:8080"
	defaultLogFormat              = "auto"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Camera: Camera{
			Device:                 defaultCameraDevice,
			Width:                  defaultCameraWidth,
			Height:                 defaultCameraHeight,
			FPS:                    defaultCameraFPS,
			Mirror:                 true,
			MaxConsecutiveFailures: defaultMaxConsecutiveFailures,
			RetryDelayMs:           defaultRetryDelayMs,
		},
		Detector: Detector{
			StaticImageMode:        false,
			MaxHands:               defaultMaxHands,
			MinDetectionConfidence: defaultMinDetectionConfidence,
			MinTrackingConfidence:  defaultMinTrackingConfidence,
		},
		Pipeline: Pipeline{
			FrameWaitMs:         defaultFrameWaitMs,
			MotionGate:          false,
			MotionThreshold:     defaultMotionThreshold,
			MotionRefreshFrames: defaultMotionRefreshFrames,
		},
		Display: Display{
			Enabled:       true,
			WindowTitle:   defaultWindowTitle,
			DrawLandmarks: true,
			QuitKey:       defaultQuitKey,
		},
		Server: Server{
			Enabled: false,
			Bind:    defaultServerBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
