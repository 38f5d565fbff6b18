package audio

import (
	"fmt"
	"sync"
)

// StubRegistry is an in-memory Registry used by tests and by the settings
// page preview when no audio hardware is reachable. Enumerations are set by
// the caller; Apply operations succeed unless a failure is injected.
type StubRegistry struct {
	mu       sync.Mutex
	devices  map[Direction][]Device
	selected map[Direction]int
	volumes  map[Direction]float64

	// FailSelection and FailVolume, when set, make the corresponding Apply
	// operation return the error without changing state.
	FailSelection error
	FailVolume    error
}

// NewStubRegistry creates an empty stub registry
func NewStubRegistry() *StubRegistry {
	return &StubRegistry{
		devices:  make(map[Direction][]Device),
		selected: make(map[Direction]int),
		volumes:  make(map[Direction]float64),
	}
}

// SetDevices replaces the enumeration for the direction (simulated hotplug)
func (r *StubRegistry) SetDevices(dir Direction, devices []Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices[dir] = append([]Device(nil), devices...)
}

// Devices returns the configured enumeration for the direction
func (r *StubRegistry) Devices(dir Direction) ([]Device, error) {
	if !dir.Valid() {
		return nil, fmt.Errorf("invalid direction: %q", dir)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Device(nil), r.devices[dir]...), nil
}

// CurrentSelection returns the last applied device ID for the direction
func (r *StubRegistry) CurrentSelection(dir Direction) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.selected[dir]
	return id, ok
}

// ApplySelection records deviceID as the active device for the direction
func (r *StubRegistry) ApplySelection(dir Direction, deviceID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSelection != nil {
		return r.FailSelection
	}

	for _, dev := range r.devices[dir] {
		if dev.ID == deviceID {
			r.selected[dir] = deviceID
			return nil
		}
	}

	return &DeviceNotFoundError{Direction: dir, DeviceID: deviceID}
}

// ApplyVolume records the volume level for the direction
func (r *StubRegistry) ApplyVolume(dir Direction, level float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailVolume != nil {
		return r.FailVolume
	}

	if level < 0 || level > 1 {
		return fmt.Errorf("volume level %v out of range [0,1]", level)
	}

	r.volumes[dir] = level
	return nil
}

// AppliedVolume returns the last volume level applied for the direction
func (r *StubRegistry) AppliedVolume(dir Direction) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	level, ok := r.volumes[dir]
	return level, ok
}

// Close is a no-op for the stub
func (r *StubRegistry) Close() error {
	return nil
}
