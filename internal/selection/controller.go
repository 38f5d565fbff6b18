package selection

import (
	"fmt"
	"math"
	"sync"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/audio"
	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/events"
)

// Logger is the subset of the application logger the controller needs
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Controller mediates between UI selection events and the device registry.
// It is the sole mutator of per-direction selection and volume state; the
// presentation layers (tray, HTTP API) only read and request.
//
// Invariants:
//   - at most one selected device per direction, and the selected ID always
//     exists in the last enumeration (dangling selections are cleared on the
//     next ListDevices call)
//   - stored volume levels are always in [0,1]
type Controller struct {
	mu       sync.Mutex
	registry audio.Registry
	bus      *events.Bus
	log      Logger

	selection map[audio.Direction]int
	selected  map[audio.Direction]bool
	volume    map[audio.Direction]float64
	lastSeen  map[audio.Direction]map[int]audio.Device
}

// NewController creates a controller over the given registry. The event bus
// and logger may be nil; both are optional observers of the controller's
// state changes. The controller is constructed once at startup and passed by
// reference to every component that needs it.
func NewController(registry audio.Registry, bus *events.Bus, log Logger) *Controller {
	c := &Controller{
		registry:  registry,
		bus:       bus,
		log:       log,
		selection: make(map[audio.Direction]int),
		selected:  make(map[audio.Direction]bool),
		volume:    make(map[audio.Direction]float64),
		lastSeen:  make(map[audio.Direction]map[int]audio.Device),
	}

	// Adopt whatever the registry already has applied so the first
	// enumeration does not clear a selection made before startup
	for _, dir := range audio.Directions() {
		if id, ok := registry.CurrentSelection(dir); ok {
			c.selection[dir] = id
			c.selected[dir] = true
		}
	}

	return c
}

// ListDevices returns the current enumeration for the direction. An empty
// slice is a valid, displayable state. If the previously selected device has
// disappeared from the enumeration (hotplug removal), the selection for that
// direction is cleared before returning.
func (c *Controller) ListDevices(dir audio.Direction) ([]audio.Device, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("invalid direction: %q", dir)
	}

	devices, err := c.registry.Devices(dir)
	if err != nil {
		c.warnf("failed to enumerate %s devices: %v", dir, err)
		return nil, fmt.Errorf("failed to enumerate %s devices: %w", dir, err)
	}

	c.mu.Lock()

	byID := make(map[int]audio.Device, len(devices))
	for _, dev := range devices {
		byID[dev.ID] = dev
	}
	c.lastSeen[dir] = byID

	cleared := false
	if c.selected[dir] {
		if _, present := byID[c.selection[dir]]; !present {
			c.infof("selected %s device %d disappeared, clearing selection", dir, c.selection[dir])
			delete(c.selection, dir)
			c.selected[dir] = false
			cleared = true
		}
	}

	c.mu.Unlock()

	c.publish(events.DevicesRefreshed{Direction: dir, Devices: devices})
	if cleared {
		c.publish(events.SelectionChanged{Direction: dir, DeviceID: -1, HasDevice: false})
	}

	return devices, nil
}

// Selection returns the currently selected device ID for the direction
func (c *Controller) Selection(dir audio.Direction) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.selected[dir] {
		return -1, false
	}
	return c.selection[dir], true
}

// SelectDevice makes deviceID the active device for the direction. A device
// ID not present in the current enumeration is a logged no-op, not an error.
// If the registry rejects the switch, the previous selection is restored and
// the failure is returned to the caller.
func (c *Controller) SelectDevice(dir audio.Direction, deviceID int) error {
	if !dir.Valid() {
		return fmt.Errorf("invalid direction: %q", dir)
	}

	c.mu.Lock()

	if _, present := c.lastSeen[dir][deviceID]; !present {
		c.mu.Unlock()
		c.warnf("ignoring selection of unknown %s device %d", dir, deviceID)
		return nil
	}

	prevID, prevSelected := c.selection[dir], c.selected[dir]
	c.selection[dir] = deviceID
	c.selected[dir] = true
	c.mu.Unlock()

	if err := c.registry.ApplySelection(dir, deviceID); err != nil {
		c.mu.Lock()
		c.selection[dir] = prevID
		c.selected[dir] = prevSelected
		c.mu.Unlock()

		c.errorf("registry rejected %s device %d, rolled back: %v", dir, deviceID, err)
		return fmt.Errorf("failed to switch %s device: %w", dir, err)
	}

	c.infof("selected %s device %d", dir, deviceID)
	c.publish(events.SelectionChanged{Direction: dir, DeviceID: deviceID, HasDevice: true})
	return nil
}

// SetVolume stores clamp(level, 0, 1) for the direction and propagates it to
// the registry. A registry failure is reported but does not revert the stored
// level: the clamped level is what the user asked for, and it will be
// reapplied on the next change.
func (c *Controller) SetVolume(dir audio.Direction, level float64) error {
	if !dir.Valid() {
		return fmt.Errorf("invalid direction: %q", dir)
	}

	clamped := clamp01(level)

	c.mu.Lock()
	c.volume[dir] = clamped
	c.mu.Unlock()

	c.publish(events.VolumeChanged{Direction: dir, Level: clamped})

	if err := c.registry.ApplyVolume(dir, clamped); err != nil {
		c.errorf("failed to apply %s volume %.2f: %v", dir, clamped, err)
		return fmt.Errorf("failed to apply %s volume: %w", dir, err)
	}

	return nil
}

// Volume returns the stored volume level for the direction
func (c *Controller) Volume(dir audio.Direction) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.volume[dir]
}

// VolumePercentage returns the stored volume as an integer percentage in
// 0..100. Pure projection, no side effects.
func (c *Controller) VolumePercentage(dir audio.Direction) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return int(math.Round(c.volume[dir] * 100))
}

// clamp01 clamps v into [0,1]. NaN collapses to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Controller) publish(event events.Event) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}

func (c *Controller) infof(format string, v ...interface{}) {
	if c.log != nil {
		c.log.Info(format, v...)
	}
}

func (c *Controller) warnf(format string, v ...interface{}) {
	if c.log != nil {
		c.log.Warn(format, v...)
	}
}

func (c *Controller) errorf(format string, v ...interface{}) {
	if c.log != nil {
		c.log.Error(format, v...)
	}
}
