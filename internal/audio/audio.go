package audio

import "fmt"

// Direction partitions audio devices and their selection/volume state
type Direction string

const (
	// Input covers capture devices (the KVM target's audio feed, microphones)
	Input Direction = "input"
	// Output covers playback devices (speakers, headphones)
	Output Direction = "output"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == Input || d == Output
}

// Directions lists both directions in display order
func Directions() []Direction {
	return []Direction{Input, Output}
}

// Device represents an audio device as reported by the OS enumeration.
// Devices are immutable once enumerated; hotplug produces a new enumeration.
type Device struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	IsDefault bool      `json:"is_default"`
}

// Registry owns the canonical device lists and performs the actual OS-level
// device switch and volume change. The selection controller is its sole
// caller for the Apply operations.
type Registry interface {
	// Devices returns the current enumeration for the direction.
	// An empty slice is a valid result, not an error.
	Devices(dir Direction) ([]Device, error)

	// CurrentSelection returns the device ID the registry last applied for
	// the direction, and whether any device has been applied at all.
	CurrentSelection(dir Direction) (int, bool)

	// ApplySelection makes deviceID the active device for the direction.
	ApplySelection(dir Direction, deviceID int) error

	// ApplyVolume sets the system volume for the direction. The level is a
	// normalized scalar in [0,1]; callers clamp before applying.
	ApplyVolume(dir Direction, level float64) error

	// Close releases all resources
	Close() error
}

// DeviceNotFoundError is returned by ApplySelection when the device ID is
// not present in the registry's last enumeration for that direction.
type DeviceNotFoundError struct {
	Direction Direction
	DeviceID  int
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("%s device %d not found in current enumeration", e.Direction, e.DeviceID)
}
