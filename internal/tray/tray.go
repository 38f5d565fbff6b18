package tray

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/getlantern/systray"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/audio"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/i18n"
)

// VolumeStep is the increment applied by the volume menu items
const VolumeStep = 0.05

// Device represents an audio device entry for the menu
type Device struct {
	ID        int
	Name      string
	IsDefault bool
	IsCurrent bool
}

// Config holds tray manager configuration
type Config struct {
	Translator     *i18n.Translator
	OnReady        func() // Called when systray is ready for initialization
	OnSettings     func()
	OnAspectRatio  func()
	OnDeviceChange func(direction audio.Direction, deviceID int)
	OnVolumeChange func(direction audio.Direction, delta float64)
	OnQuit         func()
}

// Manager manages the system tray icon and menu
type Manager struct {
	mu    sync.RWMutex
	ready bool

	translator      *i18n.Translator
	onReadyCallback func()
	onSettings      func()
	onAspectRatio   func()
	onDeviceChange  func(direction audio.Direction, deviceID int)
	onVolumeChange  func(direction audio.Direction, delta float64)
	onQuit          func()

	menuSettings *systray.MenuItem
	menuAspect   *systray.MenuItem
	menuQuit     *systray.MenuItem

	// Parent menus for device selection, one per direction
	deviceParents map[audio.Direction]*systray.MenuItem
	volumeUp      map[audio.Direction]*systray.MenuItem
	volumeDown    map[audio.Direction]*systray.MenuItem

	deviceMenuItems   map[audio.Direction][]*systray.MenuItem
	deviceCancelFuncs map[audio.Direction][]context.CancelFunc

	icon []byte
}

// NewManager creates a new tray manager
func NewManager(config Config) *Manager {
	translator := config.Translator
	if translator == nil {
		translator = i18n.NewTranslator(i18n.LanguageEnglish)
	}

	m := &Manager{
		translator:        translator,
		onReadyCallback:   config.OnReady,
		onSettings:        config.OnSettings,
		onAspectRatio:     config.OnAspectRatio,
		onDeviceChange:    config.OnDeviceChange,
		onVolumeChange:    config.OnVolumeChange,
		onQuit:            config.OnQuit,
		deviceParents:     make(map[audio.Direction]*systray.MenuItem),
		volumeUp:          make(map[audio.Direction]*systray.MenuItem),
		volumeDown:        make(map[audio.Direction]*systray.MenuItem),
		deviceMenuItems:   make(map[audio.Direction][]*systray.MenuItem),
		deviceCancelFuncs: make(map[audio.Direction][]context.CancelFunc),
	}

	m.icon = loadIconData("openterface_tray_32.png", getFallbackIcon())

	return m
}

// Run starts the system tray (blocking call)
func (m *Manager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// onReady is called when systray is ready
func (m *Manager) onReady() {
	systray.SetIcon(m.icon)
	systray.SetTooltip(m.translator.T("tooltip.app"))

	t := m.translator

	m.deviceParents[audio.Input] = systray.AddMenuItem(
		t.T("menu.input_devices"), "Select input device")
	m.deviceParents[audio.Output] = systray.AddMenuItem(
		t.T("menu.output_devices"), "Select output device")

	// Volume items live at the top of each device submenu; device entries
	// are appended below them by UpdateDeviceMenu
	for _, dir := range audio.Directions() {
		parent := m.deviceParents[dir]
		m.volumeUp[dir] = parent.AddSubMenuItem(t.T("menu.volume_up"), "")
		m.volumeDown[dir] = parent.AddSubMenuItem(t.T("menu.volume_down"), "")
	}

	systray.AddSeparator()

	m.menuAspect = systray.AddMenuItem(t.T("menu.aspect_ratio"), "Choose display aspect ratio")
	m.menuSettings = systray.AddMenuItem(t.T("menu.settings"), "Open settings page")

	systray.AddSeparator()

	m.menuQuit = systray.AddMenuItem(t.T("menu.quit"), "Quit the application")

	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()

	go m.handleMenuEvents()

	if m.onReadyCallback != nil {
		m.onReadyCallback()
	}
}

// onExit is called when systray is exiting
func (m *Manager) onExit() {
}

// handleMenuEvents handles menu item clicks
func (m *Manager) handleMenuEvents() {
	for {
		select {
		case <-m.menuSettings.ClickedCh:
			if m.onSettings != nil {
				m.onSettings()
			}
		case <-m.menuAspect.ClickedCh:
			if m.onAspectRatio != nil {
				m.onAspectRatio()
			}
		case <-m.volumeUp[audio.Input].ClickedCh:
			m.volumeClicked(audio.Input, VolumeStep)
		case <-m.volumeDown[audio.Input].ClickedCh:
			m.volumeClicked(audio.Input, -VolumeStep)
		case <-m.volumeUp[audio.Output].ClickedCh:
			m.volumeClicked(audio.Output, VolumeStep)
		case <-m.volumeDown[audio.Output].ClickedCh:
			m.volumeClicked(audio.Output, -VolumeStep)
		case <-m.menuQuit.ClickedCh:
			if m.onQuit != nil {
				m.onQuit()
			}
			systray.Quit()
			return
		}
	}
}

func (m *Manager) volumeClicked(direction audio.Direction, delta float64) {
	if m.onVolumeChange != nil {
		m.onVolumeChange(direction, delta)
	}
}

// UpdateDeviceMenu replaces the device entries of one direction's submenu.
// Call it after every enumeration so disconnected devices disappear and
// the checkmark follows the active selection.
func (m *Manager) UpdateDeviceMenu(direction audio.Direction, devices []Device) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ready {
		return
	}

	parent := m.deviceParents[direction]
	if parent == nil {
		return
	}

	// Cancel the click goroutines of the previous entries
	for _, cancel := range m.deviceCancelFuncs[direction] {
		if cancel != nil {
			cancel()
		}
	}
	m.deviceCancelFuncs[direction] = nil

	for _, item := range m.deviceMenuItems[direction] {
		item.Hide()
	}
	m.deviceMenuItems[direction] = nil

	if len(devices) == 0 {
		item := parent.AddSubMenuItem(m.translator.T("menu.no_devices"), "")
		item.Disable()
		m.deviceMenuItems[direction] = append(m.deviceMenuItems[direction], item)
		return
	}

	for _, device := range devices {
		deviceID := device.ID
		deviceName := device.Name

		prefix := ""
		if device.IsCurrent {
			prefix = "✓ "
		}

		tooltip := ""
		if device.IsDefault {
			tooltip = m.translator.T("tooltip.default")
		}

		menuItem := parent.AddSubMenuItem(prefix+deviceName, tooltip)
		m.deviceMenuItems[direction] = append(m.deviceMenuItems[direction], menuItem)

		ctx, cancel := context.WithCancel(context.Background())
		m.deviceCancelFuncs[direction] = append(m.deviceCancelFuncs[direction], cancel)

		go func(dir audio.Direction, id int, item *systray.MenuItem, ctx context.Context) {
			for {
				select {
				case <-ctx.Done():
					return
				case <-item.ClickedCh:
					if m.onDeviceChange != nil {
						m.onDeviceChange(dir, id)
					}
				}
			}
		}(direction, deviceID, menuItem, ctx)
	}
}

// SetTooltip updates the tray tooltip
func (m *Manager) SetTooltip(text string) {
	m.mu.RLock()
	ready := m.ready
	m.mu.RUnlock()

	if ready {
		systray.SetTooltip(text)
	}
}

// Quit quits the system tray
func (m *Manager) Quit() {
	systray.Quit()
}

// loadIconData loads an icon from the assets directory
// If the file cannot be loaded, it returns a fallback placeholder icon
func loadIconData(filename string, fallback []byte) []byte {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("warning: could not resolve executable path: %v", err)
		return fallback
	}
	exeDir := filepath.Dir(exe)

	iconPath := filepath.Join(exeDir, "assets", "icon", filename)
	data, err := os.ReadFile(iconPath)
	if err != nil {
		log.Printf("warning: could not load icon file (%s): %v", iconPath, err)
		return fallback
	}

	return data
}

// getFallbackIcon returns a minimal placeholder icon
func getFallbackIcon() []byte {
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff,
		0x61, 0x00, 0x00, 0x00, 0x19, 0x74, 0x45, 0x58,
		0x74, 0x53, 0x6f, 0x66, 0x74, 0x77, 0x61, 0x72,
		0x65, 0x00, 0x41, 0x64, 0x6f, 0x62, 0x65, 0x20,
		0x49, 0x6d, 0x61, 0x67, 0x65, 0x52, 0x65, 0x61,
		0x64, 0x79, 0x71, 0xc9, 0x65, 0x3c, 0x00, 0x00,
		0x00, 0x18, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda,
		0x62, 0xfc, 0xff, 0xff, 0x3f, 0x03, 0x00, 0x00,
		0x00, 0xff, 0xff, 0x03, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60,
		0x82,
	}
}
