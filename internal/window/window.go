package window

import (
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/events"
)

// Rect is a window rectangle in screen coordinates
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FitToRatio returns the largest rectangle with the given width/height ratio
// that fits inside current, centered on current's center. A non-positive
// ratio returns current unchanged.
func FitToRatio(current Rect, ratio float64) Rect {
	if ratio <= 0 || current.Width <= 0 || current.Height <= 0 {
		return current
	}

	width := float64(current.Width)
	height := width / ratio
	if height > float64(current.Height) {
		height = float64(current.Height)
		width = height * ratio
	}

	w := int(math.Round(width))
	h := int(math.Round(height))

	return Rect{
		X:      current.X + (current.Width-w)/2,
		Y:      current.Y + (current.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// Logger is the subset of the application logger the resizer needs
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Resizer reshapes the application window to the confirmed aspect ratio.
// It observes WindowResizeRequested events; resize failures are logged and
// never fatal (the window simply keeps its old shape).
type Resizer struct {
	appName string
	log     Logger
}

// NewResizer creates a resizer targeting the named application process
func NewResizer(appName string, log Logger) *Resizer {
	return &Resizer{
		appName: appName,
		log:     log,
	}
}

// HandleEvents consumes bus events until the channel closes. ratio supplies
// the currently preferred width/height ratio at the time of each request.
func (r *Resizer) HandleEvents(ch <-chan events.Event, ratio func() float64) {
	for event := range ch {
		if _, ok := event.(events.WindowResizeRequested); !ok {
			continue
		}

		if err := r.Apply(ratio()); err != nil {
			if r.log != nil {
				r.log.Error("window resize failed: %v", err)
			}
		}
	}
}

// Apply resizes the front window of the target application to the largest
// rect of the given ratio that fits its current bounds
func (r *Resizer) Apply(ratio float64) error {
	current, err := r.currentBounds()
	if err != nil {
		return fmt.Errorf("failed to read window bounds: %w", err)
	}

	target := FitToRatio(current, ratio)

	// Never grow beyond the screen
	screenW, screenH := robotgo.GetScreenSize()
	if target.Width > screenW || target.Height > screenH {
		target = FitToRatio(Rect{X: 0, Y: 0, Width: screenW, Height: screenH}, ratio)
	}

	if r.log != nil {
		r.log.Info("resizing %s window to %dx%d at (%d,%d)",
			r.appName, target.Width, target.Height, target.X, target.Y)
	}

	return r.setBounds(target)
}

// currentBounds reads the front window's position and size via System Events
func (r *Resizer) currentBounds() (Rect, error) {
	script := fmt.Sprintf(
		`tell application "System Events" to get {position, size} of front window of process %q`,
		r.appName)

	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to query window bounds: %w", err)
	}

	return parseBounds(strings.TrimSpace(string(out)))
}

// setBounds applies position and size to the front window via System Events
func (r *Resizer) setBounds(target Rect) error {
	script := fmt.Sprintf(
		`tell application "System Events" to tell front window of process %q
set position to {%d, %d}
set size to {%d, %d}
end tell`,
		r.appName, target.X, target.Y, target.Width, target.Height)

	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set window bounds: %w (%s)", err, out)
	}

	return nil
}

// parseBounds parses osascript's "x, y, w, h" list output
func parseBounds(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("unexpected bounds output: %q", s)
	}

	values := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Rect{}, fmt.Errorf("unexpected bounds output: %q", s)
		}
		values[i] = v
	}

	return Rect{X: values[0], Y: values[1], Width: values[2], Height: values[3]}, nil
}
