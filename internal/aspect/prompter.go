package aspect

import (
	"fmt"
	"os/exec"
	"strings"
)

// OsascriptPrompter shows the native macOS list-chooser dialog. The dialog is
// modal by design: Choose blocks until the user confirms or cancels.
type OsascriptPrompter struct {
	Title  string
	Prompt string
}

// NewOsascriptPrompter creates a prompter with the app's dialog strings
func NewOsascriptPrompter() *OsascriptPrompter {
	return &OsascriptPrompter{
		Title:  "Openterface",
		Prompt: "Select the display aspect ratio:",
	}
}

// Choose runs the dialog and returns the chosen option. ok is false when the
// user canceled (osascript prints "false" for a canceled list chooser).
func (p *OsascriptPrompter) Choose(options []string, current string) (string, bool, error) {
	cmd := exec.Command("osascript", "-e", chooseScript(options, current, p.Title, p.Prompt))
	out, err := cmd.Output()
	if err != nil {
		return "", false, fmt.Errorf("failed to run chooser dialog: %w", err)
	}

	choice := strings.TrimSpace(string(out))
	if choice == "false" || choice == "" {
		return "", false, nil
	}

	return choice, true, nil
}

// chooseScript builds the AppleScript statement for the list chooser.
// Ratio names contain no characters that need AppleScript escaping.
func chooseScript(options []string, current, title, prompt string) string {
	quoted := make([]string, len(options))
	for i, opt := range options {
		quoted[i] = `"` + opt + `"`
	}

	script := fmt.Sprintf("choose from list {%s} with title %q with prompt %q",
		strings.Join(quoted, ", "), title, prompt)

	for _, opt := range options {
		if opt == current {
			script += fmt.Sprintf(" default items {%q}", current)
			break
		}
	}

	return script
}
