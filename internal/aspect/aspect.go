package aspect

import (
	"fmt"

	"github.com/TechxArtisanStudio/Openterface-MacOS-sub005/internal/events"
)

// Ratio is a display aspect ratio preset
type Ratio struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Value returns the ratio as a single scalar (width divided by height)
func (r Ratio) Value() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Presets lists the selectable ratios in display order
var Presets = []Ratio{
	{Name: "4:3", Width: 4, Height: 3},
	{Name: "16:9", Width: 16, Height: 9},
	{Name: "16:10", Width: 16, Height: 10},
	{Name: "5:4", Width: 5, Height: 4},
	{Name: "5:3", Width: 5, Height: 3},
	{Name: "21:9", Width: 21, Height: 9},
}

// ParsePreset looks up a preset ratio by name
func ParsePreset(name string) (Ratio, bool) {
	for _, preset := range Presets {
		if preset.Name == name {
			return preset, true
		}
	}
	return Ratio{}, false
}

// Custom builds a non-preset ratio from explicit terms
func Custom(width, height float64) (Ratio, error) {
	if width <= 0 || height <= 0 {
		return Ratio{}, fmt.Errorf("invalid custom ratio %v:%v (both terms must be positive)", width, height)
	}
	return Ratio{
		Name:   fmt.Sprintf("%g:%g", width, height),
		Width:  width,
		Height: height,
	}, nil
}

// Prompter presents a modal aspect-ratio choice and blocks until the user
// responds. ok is false when the dialog was canceled or dismissed.
type Prompter interface {
	Choose(options []string, current string) (choice string, ok bool, err error)
}

// Store persists the confirmed preference. The full ratio is passed so a
// custom choice keeps its terms across sessions, not just its display name.
type Store interface {
	SaveAspectRatio(ratio Ratio, useCustom bool) error
}

// Logger is the subset of the application logger the gate needs
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Gate presents a one-shot modal aspect-ratio choice and applies it
// atomically: on confirmation the preference is persisted and a single
// window-resize intent is broadcast; on cancellation nothing changes and no
// signal is emitted.
type Gate struct {
	prompter Prompter
	store    Store
	bus      *events.Bus
	log      Logger
}

// NewGate creates a gate over the given prompter and preference store.
// The bus and logger may be nil.
func NewGate(prompter Prompter, store Store, bus *events.Bus, log Logger) *Gate {
	return &Gate{
		prompter: prompter,
		store:    store,
		bus:      bus,
		log:      log,
	}
}

// Prompt blocks the calling goroutine on the modal dialog. It returns the
// chosen ratio and true on confirmation, or a zero ratio and false when the
// user canceled. Persistence failures abort the apply: no signal is emitted
// for a preference that could not be saved.
func (g *Gate) Prompt(current string) (Ratio, bool, error) {
	options := make([]string, len(Presets))
	for i, preset := range Presets {
		options[i] = preset.Name
	}

	choice, ok, err := g.prompter.Choose(options, current)
	if err != nil {
		return Ratio{}, false, fmt.Errorf("aspect-ratio prompt failed: %w", err)
	}
	if !ok {
		// Canceled: no persistence change, no signal
		return Ratio{}, false, nil
	}

	ratio, known := ParsePreset(choice)
	if !known {
		return Ratio{}, false, fmt.Errorf("prompt returned unknown ratio %q", choice)
	}

	if err := g.store.SaveAspectRatio(ratio, false); err != nil {
		if g.log != nil {
			g.log.Error("failed to persist aspect ratio %s: %v", ratio.Name, err)
		}
		return Ratio{}, false, fmt.Errorf("failed to persist aspect ratio: %w", err)
	}

	if g.log != nil {
		g.log.Info("aspect ratio confirmed: %s", ratio.Name)
	}

	if g.bus != nil {
		g.bus.Publish(events.AspectRatioChanged{Ratio: ratio.Name})
		g.bus.Publish(events.WindowResizeRequested{})
	}

	return ratio, true, nil
}

// Set applies a ratio without prompting. The settings page confirms its own
// input, so the apply path is shared with Prompt: persist first, then signal.
func (g *Gate) Set(ratio Ratio, useCustom bool) error {
	if ratio.Width <= 0 || ratio.Height <= 0 {
		return fmt.Errorf("invalid ratio %v:%v (both terms must be positive)", ratio.Width, ratio.Height)
	}

	if err := g.store.SaveAspectRatio(ratio, useCustom); err != nil {
		if g.log != nil {
			g.log.Error("failed to persist aspect ratio %s: %v", ratio.Name, err)
		}
		return fmt.Errorf("failed to persist aspect ratio: %w", err)
	}

	if g.log != nil {
		g.log.Info("aspect ratio set: %s", ratio.Name)
	}

	if g.bus != nil {
		g.bus.Publish(events.AspectRatioChanged{Ratio: ratio.Name})
		g.bus.Publish(events.WindowResizeRequested{})
	}

	return nil
}
