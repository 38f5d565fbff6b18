package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// ConflictInfo represents information about a known shortcut conflict
type ConflictInfo struct {
	Name        string
	Description string
	Modifiers   []hotkey.Modifier
	Key         hotkey.Key
}

// knownConflicts contains a list of known macOS shortcuts that might conflict
var knownConflicts = []ConflictInfo{
	{
		Name:        "Spotlight",
		Description: "macOS Spotlight search",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd},
		Key:         hotkey.KeySpace,
	},
	{
		Name:        "Alfred",
		Description: "Alfred launcher (common default)",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd},
		Key:         hotkey.KeySpace,
	},
	{
		Name:        "Raycast",
		Description: "Raycast launcher (common default)",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd},
		Key:         hotkey.KeySpace,
	},
	{
		Name:        "Force Quit",
		Description: "macOS Force Quit",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd, hotkey.ModOption},
		Key:         hotkey.KeyEscape,
	},
	{
		Name:        "Screenshot",
		Description: "macOS full-screen capture",
		Modifiers:   []hotkey.Modifier{hotkey.ModCmd, hotkey.ModShift},
		Key:         hotkey.Key3,
	},
}

// CheckConflicts checks if the given hotkey conflicts with known system shortcuts
func CheckConflicts(modifiers []hotkey.Modifier, key hotkey.Key) []ConflictInfo {
	var conflicts []ConflictInfo

	for _, known := range knownConflicts {
		if hotkeyMatches(modifiers, key, known.Modifiers, known.Key) {
			conflicts = append(conflicts, known)
		}
	}

	return conflicts
}

// hotkeyMatches checks if two hotkey combinations are identical
func hotkeyMatches(mods1 []hotkey.Modifier, key1 hotkey.Key, mods2 []hotkey.Modifier, key2 hotkey.Key) bool {
	if key1 != key2 {
		return false
	}

	if len(mods1) != len(mods2) {
		return false
	}

	modMap1 := make(map[hotkey.Modifier]bool)
	modMap2 := make(map[hotkey.Modifier]bool)

	for _, mod := range mods1 {
		modMap1[mod] = true
	}

	for _, mod := range mods2 {
		modMap2[mod] = true
	}

	for mod := range modMap1 {
		if !modMap2[mod] {
			return false
		}
	}

	return true
}

// FormatHotkey returns a human-readable string representation of the hotkey
func FormatHotkey(modifiers []hotkey.Modifier, key hotkey.Key) string {
	result := ""

	for _, mod := range modifiers {
		switch mod {
		case hotkey.ModCtrl:
			result += "⌃"
		case hotkey.ModShift:
			result += "⇧"
		case hotkey.ModOption:
			result += "⌥"
		case hotkey.ModCmd:
			result += "⌘"
		}
	}

	result += keyToString(key)
	return result
}

// namedKeys maps display names to keys. Letter key codes are not
// contiguous on macOS, so an explicit table is required.
var namedKeys = map[string]hotkey.Key{
	"Space":  hotkey.KeySpace,
	"Esc":    hotkey.KeyEscape,
	"Return": hotkey.KeyReturn,
	"Tab":    hotkey.KeyTab,
	"Delete": hotkey.KeyDelete,
	"A":      hotkey.KeyA, "B": hotkey.KeyB, "C": hotkey.KeyC,
	"D": hotkey.KeyD, "E": hotkey.KeyE, "F": hotkey.KeyF,
	"G": hotkey.KeyG, "H": hotkey.KeyH, "I": hotkey.KeyI,
	"J": hotkey.KeyJ, "K": hotkey.KeyK, "L": hotkey.KeyL,
	"M": hotkey.KeyM, "N": hotkey.KeyN, "O": hotkey.KeyO,
	"P": hotkey.KeyP, "Q": hotkey.KeyQ, "R": hotkey.KeyR,
	"S": hotkey.KeyS, "T": hotkey.KeyT, "U": hotkey.KeyU,
	"V": hotkey.KeyV, "W": hotkey.KeyW, "X": hotkey.KeyX,
	"Y": hotkey.KeyY, "Z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2,
	"3": hotkey.Key3, "4": hotkey.Key4, "5": hotkey.Key5,
	"6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8,
	"9": hotkey.Key9,
}

// ParseKey converts a persisted key name to a hotkey.Key
func ParseKey(name string) (hotkey.Key, error) {
	if k, ok := namedKeys[name]; ok {
		return k, nil
	}

	// Letters are persisted case-insensitively
	if len(name) == 1 {
		if k, ok := namedKeys[strings.ToUpper(name)]; ok {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unsupported hotkey key: %q", name)
}

// keyToString converts a hotkey.Key to a display string
func keyToString(key hotkey.Key) string {
	for name, k := range namedKeys {
		if k == key {
			return name
		}
	}

	return "Unknown"
}
