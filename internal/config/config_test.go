package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("Expected default config to be created")
	}

	if config.Hotkey.Ctrl != true {
		t.Error("Expected Ctrl to be true")
	}

	if config.Hotkey.Alt != true {
		t.Error("Expected Alt to be true")
	}

	if config.Hotkey.Key != "R" {
		t.Errorf("Expected Key to be 'R', got '%s'", config.Hotkey.Key)
	}

	if config.InputDeviceID != -1 {
		t.Errorf("Expected InputDeviceID -1, got %d", config.InputDeviceID)
	}

	if config.OutputDeviceID != -1 {
		t.Errorf("Expected OutputDeviceID -1, got %d", config.OutputDeviceID)
	}

	if config.AspectRatio != "16:9" {
		t.Errorf("Expected AspectRatio '16:9', got '%s'", config.AspectRatio)
	}

	if config.UseCustomRatio {
		t.Error("Expected UseCustomRatio to be false")
	}

	if config.UILanguage != "en" {
		t.Errorf("Expected UILanguage 'en', got '%s'", config.UILanguage)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	config := DefaultConfig()
	config.AspectRatio = "4:3"
	config.OutputDeviceID = 3
	config.OutputVolume = 0.85

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.AspectRatio != "4:3" {
		t.Errorf("Expected AspectRatio '4:3', got '%s'", loaded.AspectRatio)
	}

	if loaded.OutputDeviceID != 3 {
		t.Errorf("Expected OutputDeviceID 3, got %d", loaded.OutputDeviceID)
	}

	if loaded.OutputVolume != 0.85 {
		t.Errorf("Expected OutputVolume 0.85, got %v", loaded.OutputVolume)
	}
}

func TestLoadNonexistent(t *testing.T) {
	// Load from nonexistent path should return default config
	config, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Expected no error when loading nonexistent file, got: %v", err)
	}

	if config == nil {
		t.Fatal("Expected default config to be returned")
	}

	if config.AspectRatio != "16:9" {
		t.Errorf("Expected default AspectRatio '16:9', got '%s'", config.AspectRatio)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// A config written by an older version without the aspect fields
	if err := os.WriteFile(configPath, []byte(`{"input_device_id": 2}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.InputDeviceID != 2 {
		t.Errorf("Expected InputDeviceID 2, got %d", loaded.InputDeviceID)
	}

	if loaded.AspectRatio != "16:9" {
		t.Errorf("Expected filled-in AspectRatio '16:9', got '%s'", loaded.AspectRatio)
	}

	if loaded.Hotkey.Key != "R" {
		t.Errorf("Expected filled-in Key 'R', got '%s'", loaded.Hotkey.Key)
	}

	if loaded.ServerPort != 18790 {
		t.Errorf("Expected filled-in ServerPort 18790, got %d", loaded.ServerPort)
	}
}

func TestUpdate(t *testing.T) {
	config := DefaultConfig()

	updates := map[string]interface{}{
		"output_device_id": float64(5),
		"output_volume":    0.7,
		"aspect_ratio":     "16:10",
		"use_custom_ratio": true,
		"ui_language":      "zh",
		"hotkey": map[string]interface{}{
			"cmd": true,
			"key": "K",
		},
	}

	if err := config.Update(updates); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if config.OutputDeviceID != 5 {
		t.Errorf("Expected OutputDeviceID 5, got %d", config.OutputDeviceID)
	}

	if config.OutputVolume != 0.7 {
		t.Errorf("Expected OutputVolume 0.7, got %v", config.OutputVolume)
	}

	if config.AspectRatio != "16:10" {
		t.Errorf("Expected AspectRatio '16:10', got '%s'", config.AspectRatio)
	}

	if !config.UseCustomRatio {
		t.Error("Expected UseCustomRatio to be true")
	}

	if config.UILanguage != "zh" {
		t.Errorf("Expected UILanguage 'zh', got '%s'", config.UILanguage)
	}

	if !config.Hotkey.Cmd || config.Hotkey.Key != "K" {
		t.Errorf("Expected hotkey Cmd+K, got %+v", config.Hotkey)
	}
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	config := DefaultConfig()

	tests := []map[string]interface{}{
		{"output_volume": 1.5},
		{"input_volume": -0.1},
		{"aspect_ratio": "7:2"},
		{"ui_language": "fr"},
		{"log_level": "verbose"},
		{"custom_ratio_width": 0.0},
	}

	for _, updates := range tests {
		if err := config.Update(updates); err == nil {
			t.Errorf("Expected Update(%v) to fail", updates)
		}
	}
}

func TestClone(t *testing.T) {
	config := DefaultConfig()
	config.AspectRatio = "5:4"

	clone := config.Clone()
	clone.AspectRatio = "16:9"

	if config.AspectRatio != "5:4" {
		t.Error("Mutating the clone should not affect the original")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"volume too high", func(c *Config) { c.OutputVolume = 1.2 }, true},
		{"volume negative", func(c *Config) { c.InputVolume = -0.5 }, true},
		{"unknown ratio", func(c *Config) { c.AspectRatio = "3:7" }, true},
		{"custom ratio zero term", func(c *Config) {
			c.UseCustomRatio = true
			c.CustomRatioHeight = 0
		}, true},
		{"custom ratio valid", func(c *Config) {
			c.UseCustomRatio = true
			c.CustomRatioWidth = 2.35
			c.CustomRatioHeight = 1
		}, false},
		{"custom ratio non-preset name", func(c *Config) {
			c.SetAspectRatio("2.35:1", 2.35, 1, true)
		}, false},
		{"bad port", func(c *Config) { c.ServerPort = 99999 }, true},
		{"bad language", func(c *Config) { c.UILanguage = "jp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestSetters(t *testing.T) {
	config := DefaultConfig()

	config.SetAspectRatio("21:9", 21, 9, false)
	if config.AspectRatio != "21:9" {
		t.Errorf("Expected AspectRatio '21:9', got '%s'", config.AspectRatio)
	}

	config.SetAspectRatio("2.35:1", 2.35, 1, true)
	if config.CustomRatioWidth != 2.35 || config.CustomRatioHeight != 1 {
		t.Errorf("Expected custom terms 2.35x1, got %vx%v",
			config.CustomRatioWidth, config.CustomRatioHeight)
	}
	if !config.UseCustomRatio {
		t.Error("Expected UseCustomRatio to be set")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Custom ratio config should validate, got: %v", err)
	}

	config.SetSelection("output", 4)
	if config.OutputDeviceID != 4 {
		t.Errorf("Expected OutputDeviceID 4, got %d", config.OutputDeviceID)
	}

	config.SetSelection("input", 2)
	if config.InputDeviceID != 2 {
		t.Errorf("Expected InputDeviceID 2, got %d", config.InputDeviceID)
	}

	config.SetVolume("input", 0.3)
	if config.InputVolume != 0.3 {
		t.Errorf("Expected InputVolume 0.3, got %v", config.InputVolume)
	}
}
