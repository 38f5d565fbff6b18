package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

// Event is emitted once per chord press. The application opens the
// aspect-ratio prompt on each event.
type Event struct{}

// Config holds the registered chord
type Config struct {
	Modifiers []hotkey.Modifier
	Key       hotkey.Key
}

// Manager manages global hotkey registration and events
type Manager struct {
	hk        *hotkey.Hotkey
	config    Config
	eventChan chan Event
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
}

// New creates a new hotkey manager with the default chord (Ctrl+Option+R)
func New() *Manager {
	return &Manager{
		config: Config{
			Modifiers: []hotkey.Modifier{hotkey.ModCtrl, hotkey.ModOption},
			Key:       hotkey.KeyR,
		},
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
	}
}

// FromSettings builds a Config from the persisted modifier flags and key name
func FromSettings(ctrl, shift, alt, cmd bool, key string) (Config, error) {
	var mods []hotkey.Modifier
	if ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if shift {
		mods = append(mods, hotkey.ModShift)
	}
	if alt {
		mods = append(mods, hotkey.ModOption)
	}
	if cmd {
		mods = append(mods, hotkey.ModCmd)
	}
	if len(mods) == 0 {
		return Config{}, fmt.Errorf("at least one modifier is required")
	}

	k, err := ParseKey(key)
	if err != nil {
		return Config{}, err
	}

	return Config{Modifiers: mods, Key: k}, nil
}

// Register registers the hotkey with the system
func (m *Manager) Register(config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("hotkey is already running, call Close() first")
	}

	m.config = config

	// Recreate channels (they may have been closed by a previous Close())
	m.stopChan = make(chan struct{})
	m.eventChan = make(chan Event, 10)

	hk := hotkey.New(m.config.Modifiers, m.config.Key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}

	m.hk = hk
	m.running = true

	m.wg.Add(1)
	go m.listen()

	return nil
}

// RegisterDefault registers the default chord
func (m *Manager) RegisterDefault() error {
	return m.Register(m.config)
}

// listen forwards keydown events to the event channel. Keyup is drained
// and ignored; the prompt opens on press.
func (m *Manager) listen() {
	defer m.wg.Done()

	for {
		select {
		case <-m.hk.Keydown():
			m.eventChan <- Event{}

		case <-m.hk.Keyup():

		case <-m.stopChan:
			return
		}
	}
}

// Events returns the event channel for receiving hotkey events
func (m *Manager) Events() <-chan Event {
	return m.eventChan
}

// Close unregisters the hotkey and stops listening
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	var unregisterErr error

	close(m.stopChan)
	m.wg.Wait()

	if m.hk != nil {
		if err := m.hk.Unregister(); err != nil {
			unregisterErr = fmt.Errorf("failed to unregister hotkey: %w", err)
		}
	}

	// Close event channel to notify consumers of shutdown
	if m.eventChan != nil {
		close(m.eventChan)
		m.eventChan = nil
	}

	// Clear the running flag even if Unregister() failed so a later
	// Register() can succeed
	m.running = false

	return unregisterErr
}

// IsRunning returns whether the hotkey is currently registered and running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// GetConfig returns a deep copy of the current hotkey configuration
func (m *Manager) GetConfig() Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	configCopy := m.config
	if m.config.Modifiers != nil {
		configCopy.Modifiers = make([]hotkey.Modifier, len(m.config.Modifiers))
		copy(configCopy.Modifiers, m.config.Modifiers)
	}

	return configCopy
}
