package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/config"
)

// SetupWizard manages the initial application setup flow
type SetupWizard struct {
	configDir     string
	configPath    string
	setupFlagFile string
	mu            sync.RWMutex
}

// NewSetupWizard creates a new setup wizard
func NewSetupWizard() (*SetupWizard, error) {
	configPath := config.GetConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &SetupWizard{
		configDir:     configDir,
		configPath:    configPath,
		setupFlagFile: filepath.Join(configDir, ".setup_completed"),
	}, nil
}

// IsFirstRun checks if this is the first run of the application
func (w *SetupWizard) IsFirstRun() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	// First run if config doesn't exist
	_, err := os.Stat(w.configPath)
	return os.IsNotExist(err)
}

// IsSetupCompleted checks if the initial setup has been completed
func (w *SetupWizard) IsSetupCompleted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, err := os.Stat(w.setupFlagFile)
	return !os.IsNotExist(err)
}

// MarkSetupCompleted marks the setup as completed
func (w *SetupWizard) MarkSetupCompleted() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Create(w.setupFlagFile)
	if err != nil {
		return fmt.Errorf("failed to create setup flag file: %w", err)
	}
	file.Close()

	return nil
}

// ShouldShowWizard returns true if the settings page should open on launch:
// either the application is running for the first time, or the setup has not
// been completed yet.
func (w *SetupWizard) ShouldShowWizard() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, configErr := os.Stat(w.configPath)
	if os.IsNotExist(configErr) {
		return true
	}

	_, setupErr := os.Stat(w.setupFlagFile)
	return os.IsNotExist(setupErr)
}

// SetupProgress tracks which setup steps already have a persisted result
type SetupProgress struct {
	PermissionsGranted   bool `json:"permissions_granted"`
	InputDeviceSelected  bool `json:"input_device_selected"`
	OutputDeviceSelected bool `json:"output_device_selected"`
	AspectConfigured     bool `json:"aspect_configured"`
}

// Progress derives setup progress from the current configuration and
// permission state
func (w *SetupWizard) Progress(cfg *config.Config, permissionsGranted bool) SetupProgress {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if cfg == nil {
		return SetupProgress{PermissionsGranted: permissionsGranted}
	}

	snapshot := cfg.Clone()
	return SetupProgress{
		PermissionsGranted:   permissionsGranted,
		InputDeviceSelected:  snapshot.InputDeviceID >= 0,
		OutputDeviceSelected: snapshot.OutputDeviceID >= 0,
		AspectConfigured:     snapshot.AspectRatio != "",
	}
}

// ResetSetup resets the setup state (for testing or manual reset)
func (w *SetupWizard) ResetSetup() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.Remove(w.setupFlagFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove setup flag file: %w", err)
	}

	return nil
}

// GetConfigDir returns the configuration directory
func (w *SetupWizard) GetConfigDir() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.configDir
}

// GetConfigPath returns the configuration file path
func (w *SetupWizard) GetConfigPath() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.configPath
}
