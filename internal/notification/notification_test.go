package notification

import (
	"strings"
	"testing"
)

func TestNewManager(t *testing.T) {
	manager := NewManager("Openterface")

	if manager == nil {
		t.Fatal("Expected manager to be created")
	}

	if manager.appName != "Openterface" {
		t.Errorf("Expected app name 'Openterface', got '%s'", manager.appName)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`plain text`, `plain text`},
		{`has "quotes"`, `has \"quotes\"`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"tab\there", `tab\there`},
		{`mix "a\b"` + "\n", `mix \"a\\b\"\n`},
	}

	for _, tt := range tests {
		if got := escapeAppleScript(tt.input); got != tt.expected {
			t.Errorf("escapeAppleScript(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestEscapeOrderingAvoidsDoubleEscape(t *testing.T) {
	// A backslash followed by a quote must not become a triple escape
	got := escapeAppleScript(`\"`)
	if got != `\\\"` {
		t.Errorf("Expected %q, got %q", `\\\"`, got)
	}

	if strings.Contains(got, `\\\\`) {
		t.Error("Backslash was escaped twice")
	}
}
