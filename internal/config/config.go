package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// Config holds application configuration and persisted user preferences
type Config struct {
	Hotkey         HotkeyConfig `json:"hotkey"`
	InputDeviceID  int          `json:"input_device_id"`  // -1 means system default
	OutputDeviceID int          `json:"output_device_id"` // -1 means system default
	InputVolume    float64      `json:"input_volume"`     // normalized [0,1]
	OutputVolume   float64      `json:"output_volume"`    // normalized [0,1]

	AspectRatio        string  `json:"aspect_ratio"`          // e.g. "16:9"
	UseCustomRatio     bool    `json:"use_custom_ratio"`      // custom ratio enabled flag
	CustomRatioWidth   float64 `json:"custom_ratio_width"`    // only meaningful when UseCustomRatio
	CustomRatioHeight  float64 `json:"custom_ratio_height"`

	ServerPort int    `json:"server_port"`
	LogLevel   string `json:"log_level"`   // "debug", "info", "warn", "error"
	UILanguage string `json:"ui_language"` // "en" or "zh"
	mu         sync.RWMutex
}

// HotkeyConfig holds the chord that opens the aspect-ratio prompt
type HotkeyConfig struct {
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Cmd   bool   `json:"cmd"`
	Key   string `json:"key"` // e.g. "R"
}

// PresetAspectRatios lists the selectable preset ratios in display order
var PresetAspectRatios = []string{"4:3", "16:9", "16:10", "5:4", "5:3", "21:9"}

// IsPresetAspectRatio reports whether name is one of the preset ratios
func IsPresetAspectRatio(name string) bool {
	for _, preset := range PresetAspectRatios {
		if name == preset {
			return true
		}
	}
	return false
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Hotkey: HotkeyConfig{
			Ctrl: true,
			Alt:  true,
			Key:  "R",
		},
		InputDeviceID:     -1,
		OutputDeviceID:    -1,
		InputVolume:       0.5,
		OutputVolume:      0.5,
		AspectRatio:       "16:9",
		UseCustomRatio:    false,
		CustomRatioWidth:  16,
		CustomRatioHeight: 9,
		ServerPort:        18790,
		LogLevel:          "info",
		UILanguage:        "en",
	}
}

// Load loads configuration from the specified path
func Load(path string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in fields older config files may miss
	if config.Hotkey.Key == "" {
		config.Hotkey.Key = "R"
	}
	if config.AspectRatio == "" {
		config.AspectRatio = "16:9"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.UILanguage == "" {
		config.UILanguage = "en"
	}
	if config.ServerPort == 0 {
		config.ServerPort = 18790
	}

	return &config, nil
}

// Save saves configuration to the specified path
func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	path, err := xdg.ConfigFile("openterface/config.json")
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".openterface", "config.json")
	}
	return path
}

// Update updates configuration fields from a key/value map (the shape the
// settings API sends). Unknown keys are ignored.
func (c *Config) Update(updates map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range updates {
		switch key {
		case "input_device_id":
			if v, ok := value.(float64); ok {
				c.InputDeviceID = int(v)
			}
		case "output_device_id":
			if v, ok := value.(float64); ok {
				c.OutputDeviceID = int(v)
			}
		case "input_volume":
			if v, ok := value.(float64); ok {
				if v < 0 || v > 1 {
					return fmt.Errorf("invalid input_volume: %v", v)
				}
				c.InputVolume = v
			}
		case "output_volume":
			if v, ok := value.(float64); ok {
				if v < 0 || v > 1 {
					return fmt.Errorf("invalid output_volume: %v", v)
				}
				c.OutputVolume = v
			}
		case "aspect_ratio":
			if v, ok := value.(string); ok {
				if !IsPresetAspectRatio(v) {
					return fmt.Errorf("invalid aspect_ratio: %s", v)
				}
				c.AspectRatio = v
			}
		case "use_custom_ratio":
			if v, ok := value.(bool); ok {
				c.UseCustomRatio = v
			}
		case "custom_ratio_width":
			if v, ok := value.(float64); ok {
				if v <= 0 {
					return fmt.Errorf("invalid custom_ratio_width: %v", v)
				}
				c.CustomRatioWidth = v
			}
		case "custom_ratio_height":
			if v, ok := value.(float64); ok {
				if v <= 0 {
					return fmt.Errorf("invalid custom_ratio_height: %v", v)
				}
				c.CustomRatioHeight = v
			}
		case "ui_language":
			if v, ok := value.(string); ok {
				if v != "en" && v != "zh" {
					return fmt.Errorf("invalid ui_language: %s", v)
				}
				c.UILanguage = v
			}
		case "log_level":
			if v, ok := value.(string); ok {
				if !isValidLogLevel(v) {
					return fmt.Errorf("invalid log_level: %s", v)
				}
				c.LogLevel = v
			}
		case "hotkey":
			if v, ok := value.(map[string]interface{}); ok {
				if ctrl, ok := v["ctrl"].(bool); ok {
					c.Hotkey.Ctrl = ctrl
				}
				if shift, ok := v["shift"].(bool); ok {
					c.Hotkey.Shift = shift
				}
				if alt, ok := v["alt"].(bool); ok {
					c.Hotkey.Alt = alt
				}
				if cmd, ok := v["cmd"].(bool); ok {
					c.Hotkey.Cmd = cmd
				}
				if key, ok := v["key"].(string); ok {
					c.Hotkey.Key = key
				}
			}
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Hotkey:            c.Hotkey,
		InputDeviceID:     c.InputDeviceID,
		OutputDeviceID:    c.OutputDeviceID,
		InputVolume:       c.InputVolume,
		OutputVolume:      c.OutputVolume,
		AspectRatio:       c.AspectRatio,
		UseCustomRatio:    c.UseCustomRatio,
		CustomRatioWidth:  c.CustomRatioWidth,
		CustomRatioHeight: c.CustomRatioHeight,
		ServerPort:        c.ServerPort,
		LogLevel:          c.LogLevel,
		UILanguage:        c.UILanguage,
	}
}

// SetAspectRatio records a confirmed aspect-ratio choice. The terms are
// stored alongside the name so a custom ratio survives a restart.
func (c *Config) SetAspectRatio(name string, width, height float64, useCustom bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.AspectRatio = name
	c.UseCustomRatio = useCustom
	if width > 0 && height > 0 {
		c.CustomRatioWidth = width
		c.CustomRatioHeight = height
	}
}

// SetHotkey replaces the stored hotkey chord
func (c *Config) SetHotkey(hotkey HotkeyConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Hotkey = hotkey
}

// SetSelection records the selected device ID for a direction ("input" or
// "output"); any other direction string is ignored
func (c *Config) SetSelection(direction string, deviceID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch direction {
	case "input":
		c.InputDeviceID = deviceID
	case "output":
		c.OutputDeviceID = deviceID
	}
}

// SetVolume records the volume level for a direction
func (c *Config) SetVolume(direction string, level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch direction {
	case "input":
		c.InputVolume = level
	case "output":
		c.OutputVolume = level
	}
}

// Validate validates all configuration fields
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.InputVolume < 0 || c.InputVolume > 1 {
		return fmt.Errorf("invalid input_volume: %v (must be in [0,1])", c.InputVolume)
	}

	if c.OutputVolume < 0 || c.OutputVolume > 1 {
		return fmt.Errorf("invalid output_volume: %v (must be in [0,1])", c.OutputVolume)
	}

	// A custom ratio carries a non-preset name; only the terms matter then
	if !c.UseCustomRatio && !IsPresetAspectRatio(c.AspectRatio) {
		return fmt.Errorf("invalid aspect_ratio: %s", c.AspectRatio)
	}

	if c.UseCustomRatio && (c.CustomRatioWidth <= 0 || c.CustomRatioHeight <= 0) {
		return fmt.Errorf("invalid custom ratio: %v:%v (both terms must be positive)",
			c.CustomRatioWidth, c.CustomRatioHeight)
	}

	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid server_port: %d", c.ServerPort)
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.UILanguage != "en" && c.UILanguage != "zh" {
		return fmt.Errorf("invalid ui_language: %s (must be 'en' or 'zh')", c.UILanguage)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
