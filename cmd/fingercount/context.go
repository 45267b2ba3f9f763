package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingercount/internal/config"
)

// overrides are command line flags that take precedence over the file.
type overrides struct {
	camera   int
	noWindow bool
	logLevel string
	serve    bool
	tray     bool
}

type commandContext struct {
	configFlag *string
	flags      *overrides

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, flags *overrides) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		flags:      flags,
	}
}

func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if c.flags == nil {
		return
	}
	changed := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		return flag != nil && flag.Changed
	}
	if changed("camera") {
		cfg.Camera.Device = c.flags.camera
	}
	if c.flags.noWindow {
		cfg.Display.Enabled = false
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(c.flags.logLevel))
	}
	if c.flags.serve {
		cfg.Server.Enabled = true
	}
	if c.flags.tray {
		cfg.Tray.Enabled = true
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
