package notification

import (
	"fmt"
	"os/exec"
	"strings"
)

// Manager sends messages to the macOS notification center. All failures
// here are cosmetic: a notification that cannot be delivered is dropped.
type Manager struct {
	appName string
}

// NewManager creates a new notification manager
func NewManager(appName string) *Manager {
	return &Manager{
		appName: appName,
	}
}

// Send posts a notification via osascript
func (m *Manager) Send(title, message string) error {
	script := fmt.Sprintf(
		`display notification "%s" with title "%s"`,
		escapeAppleScript(message),
		escapeAppleScript(title),
	)

	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

// SwitchFailed announces that the registry rejected a device switch
func (m *Manager) SwitchFailed(deviceName string, reason string) error {
	message := fmt.Sprintf("Could not switch to %s", deviceName)
	if reason != "" {
		message += ": " + reason
	}
	return m.Send(m.appName, message)
}

// DeviceGone announces that the selected device disappeared
func (m *Manager) DeviceGone(direction string) error {
	return m.Send(m.appName,
		fmt.Sprintf("The selected %s device was disconnected.", direction))
}

// NoDevices announces an empty enumeration. Not an error state; the user
// just has nothing to pick from until hardware appears.
func (m *Manager) NoDevices(direction string) error {
	return m.Send(m.appName,
		fmt.Sprintf("No %s devices available.", direction))
}

// AspectApplied announces a confirmed aspect-ratio change
func (m *Manager) AspectApplied(ratio string) error {
	return m.Send(m.appName,
		fmt.Sprintf("Display aspect ratio set to %s.", ratio))
}

// VolumeFailed announces that a volume change did not reach the hardware
func (m *Manager) VolumeFailed(direction string) error {
	return m.Send(m.appName,
		fmt.Sprintf("Could not apply the %s volume. The stored level will be retried on the next change.", direction))
}

// escapeAppleScript escapes special characters for AppleScript
func escapeAppleScript(s string) string {
	// Escape backslashes first to avoid double-escaping
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
