package window

import "testing"

func TestFitToRatioLetterbox(t *testing.T) {
	// A square window reshaped to 16:9 keeps the width and shrinks the height
	current := Rect{X: 0, Y: 0, Width: 900, Height: 900}
	got := FitToRatio(current, 16.0/9.0)

	if got.Width != 900 {
		t.Errorf("Expected width 900, got %d", got.Width)
	}
	if got.Height != 506 {
		t.Errorf("Expected height 506, got %d", got.Height)
	}

	// Centered vertically
	if got.Y != (900-506)/2 {
		t.Errorf("Expected y %d, got %d", (900-506)/2, got.Y)
	}
}

func TestFitToRatioPillarbox(t *testing.T) {
	// A wide window reshaped to 4:3 keeps the height and shrinks the width
	current := Rect{X: 100, Y: 50, Width: 1600, Height: 600}
	got := FitToRatio(current, 4.0/3.0)

	if got.Height != 600 {
		t.Errorf("Expected height 600, got %d", got.Height)
	}
	if got.Width != 800 {
		t.Errorf("Expected width 800, got %d", got.Width)
	}

	// Centered horizontally, offset preserved
	if got.X != 100+(1600-800)/2 {
		t.Errorf("Expected x %d, got %d", 100+(1600-800)/2, got.X)
	}
	if got.Y != 50 {
		t.Errorf("Expected y 50, got %d", got.Y)
	}
}

func TestFitToRatioExactFit(t *testing.T) {
	current := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	got := FitToRatio(current, 16.0/9.0)

	if got != current {
		t.Errorf("Expected unchanged rect, got %+v", got)
	}
}

func TestFitToRatioDegenerate(t *testing.T) {
	current := Rect{X: 10, Y: 20, Width: 800, Height: 600}

	// Non-positive ratio leaves the rect alone
	if got := FitToRatio(current, 0); got != current {
		t.Errorf("Expected unchanged rect for ratio 0, got %+v", got)
	}
	if got := FitToRatio(current, -1); got != current {
		t.Errorf("Expected unchanged rect for negative ratio, got %+v", got)
	}

	// Degenerate rect is returned unchanged
	empty := Rect{}
	if got := FitToRatio(empty, 1.5); got != empty {
		t.Errorf("Expected unchanged empty rect, got %+v", got)
	}
}

func TestParseBounds(t *testing.T) {
	got, err := parseBounds("100, 50, 1280, 720")
	if err != nil {
		t.Fatalf("parseBounds failed: %v", err)
	}

	want := Rect{X: 100, Y: 50, Width: 1280, Height: 720}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestParseBoundsMalformed(t *testing.T) {
	tests := []string{
		"",
		"100, 50",
		"a, b, c, d",
		"100, 50, 1280, 720, 99",
	}

	for _, input := range tests {
		if _, err := parseBounds(input); err == nil {
			t.Errorf("Expected error for input %q", input)
		}
	}
}
