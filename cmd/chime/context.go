package main

import (
	"strings"
	"sync"

	"chime/internal/settings"
)

type commandContext struct {
	settingsFlag *string

	settingsOnce sync.Once
	settings     *settings.Settings
	settingsPath string
	settingsErr  error
}

func newCommandContext(settingsFlag *string) *commandContext {
	return &commandContext{settingsFlag: settingsFlag}
}

func (c *commandContext) ensureSettings() (*settings.Settings, error) {
	c.settingsOnce.Do(func() {
		var path string
		if c.settingsFlag != nil {
			path = strings.TrimSpace(*c.settingsFlag)
		}
		cfg, resolved, _, err := settings.Load(path)
		if err != nil {
			c.settingsErr = err
			return
		}
		c.settings = cfg
		c.settingsPath = resolved
	})
	return c.settings, c.settingsErr
}
