package audio

import (
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioRegistry implements Registry using PortAudio for enumeration and
// CoreAudio / osascript for the actual switch and volume operations
type PortAudioRegistry struct {
	mu       sync.Mutex
	known    map[Direction]map[int]Device // last enumeration per direction
	selected map[Direction]int
	closed   bool
}

// NewPortAudioRegistry creates a new PortAudio-backed registry
func NewPortAudioRegistry() (*PortAudioRegistry, error) {
	// Initialize PortAudio
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &PortAudioRegistry{
		known:    make(map[Direction]map[int]Device),
		selected: make(map[Direction]int),
	}, nil
}

// Devices returns the available devices for the direction
func (r *PortAudioRegistry) Devices(dir Direction) ([]Device, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("invalid direction: %q", dir)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	defaultDev, err := defaultDevice(dir)
	if err != nil {
		// If we can't get the default device, continue without marking any as default
		defaultDev = nil
	}

	var result []Device
	for i, dev := range devices {
		if channelCount(dev, dir) <= 0 {
			continue
		}

		result = append(result, Device{
			ID:        i,
			Name:      dev.Name,
			Direction: dir,
			IsDefault: defaultDev != nil && dev.Name == defaultDev.Name,
		})
	}

	r.mu.Lock()
	byID := make(map[int]Device, len(result))
	for _, dev := range result {
		byID[dev.ID] = dev
	}
	r.known[dir] = byID
	r.mu.Unlock()

	return result, nil
}

// CurrentSelection returns the last applied device ID for the direction
func (r *PortAudioRegistry) CurrentSelection(dir Direction) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.selected[dir]
	return id, ok
}

// ApplySelection makes deviceID the system default device for the direction.
// The device must appear in the last enumeration returned by Devices.
func (r *PortAudioRegistry) ApplySelection(dir Direction, deviceID int) error {
	if !dir.Valid() {
		return fmt.Errorf("invalid direction: %q", dir)
	}

	r.mu.Lock()
	dev, ok := r.known[dir][deviceID]
	r.mu.Unlock()

	if !ok {
		return &DeviceNotFoundError{Direction: dir, DeviceID: deviceID}
	}

	if err := setSystemDefaultDevice(dev.Name, dir); err != nil {
		return fmt.Errorf("failed to switch %s device to %q: %w", dir, dev.Name, err)
	}

	r.mu.Lock()
	r.selected[dir] = deviceID
	r.mu.Unlock()

	return nil
}

// ApplyVolume sets the system volume for the direction via osascript.
// Levels outside [0,1] are rejected; the selection controller clamps first.
func (r *PortAudioRegistry) ApplyVolume(dir Direction, level float64) error {
	if !dir.Valid() {
		return fmt.Errorf("invalid direction: %q", dir)
	}
	if level < 0 || level > 1 {
		return fmt.Errorf("volume level %v out of range [0,1]", level)
	}

	cmd := exec.Command("osascript", "-e", volumeScript(dir, level))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set %s volume: %w (%s)", dir, err, out)
	}

	return nil
}

// Close terminates PortAudio
func (r *PortAudioRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}

// volumeScript builds the AppleScript statement for a volume change.
// macOS expresses both directions as integers in 0..100.
func volumeScript(dir Direction, level float64) string {
	pct := int(math.Round(level * 100))
	if dir == Input {
		return "set volume input volume " + strconv.Itoa(pct)
	}
	return "set volume output volume " + strconv.Itoa(pct)
}

// channelCount returns the usable channel count of dev for the direction
func channelCount(dev *portaudio.DeviceInfo, dir Direction) int {
	if dir == Input {
		return dev.MaxInputChannels
	}
	return dev.MaxOutputChannels
}

// defaultDevice returns the system default PortAudio device for the direction
func defaultDevice(dir Direction) (*portaudio.DeviceInfo, error) {
	if dir == Input {
		return portaudio.DefaultInputDevice()
	}
	return portaudio.DefaultOutputDevice()
}
