package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/api"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/aspect"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/audio"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/config"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/events"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/hotkey"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/i18n"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/logger"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/notification"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/permissions"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/selection"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/server"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/tray"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/window"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/wizard"
)

const (
	appName = "Openterface"
	version = "0.2.0"
)

// notifier is the notification surface the app depends on
type notifier interface {
	Send(title, message string) error
	SwitchFailed(deviceName string, reason string) error
	DeviceGone(direction string) error
	NoDevices(direction string) error
	AspectApplied(ratio string) error
	VolumeFailed(direction string) error
}

// App holds all application state
type App struct {
	logger     *logger.Logger
	config     *config.Config
	bus        *events.Bus
	registry   audio.Registry
	controller *selection.Controller
	gate       *aspect.Gate
	resizer    *window.Resizer
	trayMgr    *tray.Manager
	httpServer *server.Server
	apiHandler *api.Handler
	hotkeyMgr  *hotkey.Manager
	notifier   notifier
	translator *i18n.Translator
	wizard     *wizard.SetupWizard

	micGranted bool
	accGranted bool
	isFirstRun bool
}

func init() {
	// macOS UI and CGO calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	app := &App{}

	var err error
	app.logger, err = logger.New(logger.DefaultConfig())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer app.logger.Close()

	app.logger.Info("%s v%s starting", appName, version)

	configPath := config.GetConfigPath()
	app.config, err = config.Load(configPath)
	if err != nil {
		app.logger.Error("failed to load config: %v", err)
		log.Fatalf("failed to load config: %v", err)
	}
	app.logger.SetLevel(logger.ParseLevel(app.config.LogLevel))
	app.logger.Info("config loaded from %s", configPath)

	app.wizard, err = wizard.NewSetupWizard()
	if err != nil {
		app.logger.Error("failed to initialize setup wizard: %v", err)
	}
	app.isFirstRun = app.wizard != nil && app.wizard.ShouldShowWizard()

	app.translator = i18n.NewTranslator(i18n.Language(app.config.UILanguage))
	app.notifier = notification.NewManager(appName)
	app.bus = events.NewBus()

	// The selection controller needs a registry from the start; fall back
	// to the in-memory stub when no audio hardware is reachable so the
	// settings page and tray still work
	app.registry, err = audio.NewPortAudioRegistry()
	if err != nil {
		app.logger.Error("failed to open audio registry: %v", err)
		app.registry = audio.NewStubRegistry()
	}
	defer app.registry.Close()

	app.controller = selection.NewController(app.registry, app.bus, app.logger)

	app.gate = aspect.NewGate(
		aspect.NewOsascriptPrompter(),
		&configFileStore{cfg: app.config, path: configPath},
		app.bus,
		app.logger,
	)

	app.resizer = window.NewResizer(appName, app.logger)
	go app.resizer.HandleEvents(app.bus.Subscribe(8), app.currentRatio)
	go app.watchDeviceEvents(app.bus.Subscribe(8))

	app.httpServer = server.New(server.Config{
		Port:            app.config.ServerPort,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	})
	app.apiHandler = api.New(app.config, app.wizard, app.controller, app.gate,
		permissions.NewChecker(), app.translator, app.ReloadHotkey)
	app.apiHandler.RegisterRoutes(app.httpServer.Mux())
	app.logger.Info("API routes registered")

	app.trayMgr = tray.NewManager(tray.Config{
		Translator:     app.translator,
		OnReady:        app.onReady,
		OnSettings:     app.handleOpenSettings,
		OnAspectRatio:  app.handleAspectPrompt,
		OnDeviceChange: app.handleDeviceChange,
		OnVolumeChange: app.handleVolumeChange,
		OnQuit:         app.handleQuit,
	})

	app.logger.Info("starting systray")

	// Blocking call; everything else happens in onReady and callbacks
	app.trayMgr.Run()
}

// onReady runs once the systray loop is up
func (a *App) onReady() {
	a.logger.Info("systray ready, initializing application")

	checker := permissions.NewChecker()
	perms := checker.CheckAllPermissions()
	a.micGranted = perms["microphone"]
	a.accGranted = perms["accessibility"]

	if a.micGranted {
		a.logger.Info("microphone permission: granted")
	} else {
		a.logger.Warn("microphone permission: not granted, input device control is limited")
		a.notifier.Send(appName, "Microphone permission is not granted. Input devices may not be listed.")
	}

	if a.accGranted {
		a.logger.Info("accessibility permission: granted")
	} else {
		a.logger.Warn("accessibility permission: not granted, hotkey and window resize are disabled")
		a.notifier.Send(appName, "Accessibility permission is not granted. Enable it in System Settings to use the hotkey and window resizing.")
	}

	a.restoreAudioState()
	a.refreshDeviceMenus()

	if a.accGranted {
		a.hotkeyMgr = hotkey.New()

		stored := a.config.Clone().Hotkey
		chord, err := hotkey.FromSettings(stored.Ctrl, stored.Shift, stored.Alt, stored.Cmd, stored.Key)
		if err != nil {
			a.logger.Error("invalid hotkey in config: %v", err)
		} else if err := a.hotkeyMgr.Register(chord); err != nil {
			a.logger.Error("failed to register hotkey: %v", err)
			a.notifier.Send(appName, fmt.Sprintf("Failed to register hotkey: %v", err))
		} else {
			a.logger.Info("hotkey registered: %s", hotkey.FormatHotkey(chord.Modifiers, chord.Key))
			go a.hotkeyEventLoop()
		}
	}

	// First run opens the settings page so devices and ratio can be picked
	if a.isFirstRun && a.wizard != nil {
		a.logger.Info("first run detected, opening settings page")
		a.handleOpenSettings()
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("failed to start HTTP server: %v", err)
		a.notifier.Send(appName, "The settings page could not be started.")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		a.logger.Info("received shutdown signal")
		a.handleQuit()
		a.trayMgr.Quit()
	}()

	a.logger.Info("application initialized")
	fmt.Printf("%s running. Settings: %s\n", appName, a.httpServer.URL())
}

// restoreAudioState replays persisted selections and volumes through the
// controller so the registry matches the stored preferences
func (a *App) restoreAudioState() {
	cfg := a.config.Clone()

	for _, dir := range audio.Directions() {
		if _, err := a.controller.ListDevices(dir); err != nil {
			a.logger.Warn("failed to enumerate %s devices: %v", dir, err)
			continue
		}

		deviceID := cfg.InputDeviceID
		level := cfg.InputVolume
		if dir == audio.Output {
			deviceID = cfg.OutputDeviceID
			level = cfg.OutputVolume
		}

		// -1 keeps the system default device
		if deviceID >= 0 {
			if err := a.controller.SelectDevice(dir, deviceID); err != nil {
				a.logger.Warn("failed to restore %s device %d: %v", dir, deviceID, err)
			}
		}

		if err := a.controller.SetVolume(dir, level); err != nil {
			a.logger.Warn("failed to restore %s volume: %v", dir, err)
		}
	}
}

// refreshDeviceMenus re-enumerates both directions and rebuilds the tray
// submenus
func (a *App) refreshDeviceMenus() {
	for _, dir := range audio.Directions() {
		devices, err := a.controller.ListDevices(dir)
		if err != nil {
			a.logger.Warn("failed to enumerate %s devices: %v", dir, err)
			continue
		}

		selectedID, hasSelection := a.controller.Selection(dir)

		entries := make([]tray.Device, 0, len(devices))
		for _, dev := range devices {
			entries = append(entries, tray.Device{
				ID:        dev.ID,
				Name:      dev.Name,
				IsDefault: dev.IsDefault,
				IsCurrent: hasSelection && dev.ID == selectedID,
			})
		}

		a.trayMgr.UpdateDeviceMenu(dir, entries)
	}
}

// watchDeviceEvents notifies the user when the selected device disappears
// or an enumeration comes back empty. Empty refreshes are announced once per
// transition, not on every poll.
func (a *App) watchDeviceEvents(ch <-chan events.Event) {
	wasEmpty := make(map[audio.Direction]bool)

	for ev := range ch {
		switch e := ev.(type) {
		case events.SelectionChanged:
			if !e.HasDevice {
				a.notifier.DeviceGone(string(e.Direction))
			}
		case events.DevicesRefreshed:
			empty := len(e.Devices) == 0
			if empty && !wasEmpty[e.Direction] {
				a.notifier.NoDevices(string(e.Direction))
			}
			wasEmpty[e.Direction] = empty
		}
	}
}

// hotkeyEventLoop opens the aspect-ratio prompt on each chord press
func (a *App) hotkeyEventLoop() {
	a.logger.Info("hotkey event loop started")

	for range a.hotkeyMgr.Events() {
		a.handleAspectPrompt()
	}

	a.logger.Info("hotkey event loop stopped")
}

// handleAspectPrompt runs the modal aspect-ratio choice
func (a *App) handleAspectPrompt() {
	go func() {
		ratio, ok, err := a.gate.Prompt(a.config.Clone().AspectRatio)
		if err != nil {
			a.logger.Error("aspect-ratio prompt failed: %v", err)
			return
		}
		if !ok {
			a.logger.Debug("aspect-ratio prompt canceled")
			return
		}

		a.notifier.AspectApplied(ratio.Name)
	}()
}

// handleDeviceChange switches the active device from a tray menu click
func (a *App) handleDeviceChange(dir audio.Direction, deviceID int) {
	if err := a.controller.SelectDevice(dir, deviceID); err != nil {
		a.logger.Error("failed to select %s device %d: %v", dir, deviceID, err)
		a.notifier.SwitchFailed(fmt.Sprintf("%s device %d", dir, deviceID), err.Error())
		return
	}

	a.config.SetSelection(string(dir), deviceID)
	if err := a.config.Save(config.GetConfigPath()); err != nil {
		a.logger.Warn("failed to persist device selection: %v", err)
	}

	a.refreshDeviceMenus()
}

// handleVolumeChange nudges the stored volume from a tray menu click
func (a *App) handleVolumeChange(dir audio.Direction, delta float64) {
	level := a.controller.Volume(dir) + delta

	if err := a.controller.SetVolume(dir, level); err != nil {
		a.logger.Warn("failed to apply %s volume: %v", dir, err)
		a.notifier.VolumeFailed(string(dir))
	}

	a.config.SetVolume(string(dir), a.controller.Volume(dir))
	if err := a.config.Save(config.GetConfigPath()); err != nil {
		a.logger.Warn("failed to persist volume: %v", err)
	}

	a.trayMgr.SetTooltip(fmt.Sprintf("%s - %s volume %d%%",
		appName, dir, a.controller.VolumePercentage(dir)))
}

// currentRatio resolves the preferred width/height ratio for window resizing
func (a *App) currentRatio() float64 {
	cfg := a.config.Clone()

	if cfg.UseCustomRatio {
		if ratio, err := aspect.Custom(cfg.CustomRatioWidth, cfg.CustomRatioHeight); err == nil {
			return ratio.Value()
		}
	}

	if ratio, ok := aspect.ParsePreset(cfg.AspectRatio); ok {
		return ratio.Value()
	}

	return 0
}

// handleOpenSettings opens the settings page in the default browser
func (a *App) handleOpenSettings() {
	a.logger.Info("opening settings page")

	if !a.httpServer.IsRunning() {
		// During first-run startup the server starts right after this;
		// point the browser at the configured URL anyway
		a.logger.Warn("settings requested before the HTTP server is running")
	}

	url := a.httpServer.URL()

	go func() {
		if err := exec.Command("open", url).Run(); err != nil {
			a.logger.Error("failed to open browser: %v", err)
			fmt.Printf("Settings page: %s\n", url)
		}
	}()
}

// handleQuit tears the application down
func (a *App) handleQuit() {
	a.logger.Info("shutting down")

	if a.httpServer != nil && a.httpServer.IsRunning() {
		if err := a.httpServer.Stop(); err != nil {
			a.logger.Error("failed to stop HTTP server: %v", err)
		}
	}

	if a.hotkeyMgr != nil {
		a.hotkeyMgr.Close()
	}

	a.bus.Close()

	a.logger.Info("shutdown complete")
}

// ReloadHotkey re-registers the chord after the settings page changed it
func (a *App) ReloadHotkey() error {
	a.logger.Info("hotkey reload requested")

	if !a.accGranted {
		a.logger.Warn("hotkey reload: accessibility permission not granted")
		return fmt.Errorf("accessibility permission not granted")
	}

	if a.hotkeyMgr == nil {
		a.logger.Warn("hotkey reload: hotkey manager not initialized")
		return fmt.Errorf("hotkey manager not initialized")
	}

	// Re-read the file so the chord matches what the API just saved
	freshConfig, err := config.Load(config.GetConfigPath())
	if err != nil {
		a.logger.Error("failed to reload config: %v", err)
		return fmt.Errorf("failed to reload config: %w", err)
	}

	chord, err := hotkey.FromSettings(freshConfig.Hotkey.Ctrl, freshConfig.Hotkey.Shift,
		freshConfig.Hotkey.Alt, freshConfig.Hotkey.Cmd, freshConfig.Hotkey.Key)
	if err != nil {
		return fmt.Errorf("invalid hotkey: %w", err)
	}

	var oldChord hotkey.Config
	needsRollback := false

	if a.hotkeyMgr.IsRunning() {
		oldChord = a.hotkeyMgr.GetConfig()
		needsRollback = true

		if err := a.hotkeyMgr.Close(); err != nil {
			a.logger.Error("failed to unregister old hotkey: %v", err)
			return fmt.Errorf("failed to unregister old hotkey: %w", err)
		}
		// Let the event loop drain before re-registering
		time.Sleep(200 * time.Millisecond)
	}

	if err := a.hotkeyMgr.Register(chord); err != nil {
		a.logger.Error("failed to register new hotkey: %v", err)

		if needsRollback {
			a.logger.Warn("rolling back to previous hotkey")
			if rollbackErr := a.hotkeyMgr.Register(oldChord); rollbackErr != nil {
				a.logger.Error("rollback failed: %v", rollbackErr)
				a.notifier.Send(appName, "Hotkey registration failed. Please restart the application.")
				return fmt.Errorf("failed to register new hotkey and rollback failed: %w, rollback error: %v", err, rollbackErr)
			}
			go a.hotkeyEventLoop()
		}

		return fmt.Errorf("failed to register new hotkey: %w", err)
	}

	go a.hotkeyEventLoop()

	a.config.SetHotkey(freshConfig.Hotkey)

	display := hotkey.FormatHotkey(chord.Modifiers, chord.Key)
	a.logger.Info("hotkey re-registered: %s", display)
	a.notifier.Send(appName, fmt.Sprintf("New hotkey: %s", display))

	return nil
}

// configFileStore persists the aspect-ratio preference through the config file
type configFileStore struct {
	cfg  *config.Config
	path string
}

func (s *configFileStore) SaveAspectRatio(ratio aspect.Ratio, useCustom bool) error {
	s.cfg.SetAspectRatio(ratio.Name, ratio.Width, ratio.Height, useCustom)
	return s.cfg.Save(s.path)
}
