package textfit

import "testing"

func TestWrapPrefersWhitespace(t *testing.T) {
	lines := Wrap("hello brave new world", 11)

	want := []string{"hello brave", "new world"}
	if len(lines) != len(want) {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapHardBreaksLongWord(t *testing.T) {
	lines := Wrap("abcdefghij", 4)

	want := []string{"abcd", "efgh", "ij"}
	if len(lines) != len(want) {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapRespectsNewlines(t *testing.T) {
	lines := Wrap("a\nb", 10)
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("Wrap = %q, want [a b]", lines)
	}
}

func TestWrapZeroWidth(t *testing.T) {
	if lines := Wrap("anything", 0); lines != nil {
		t.Errorf("Wrap at width 0 = %q, want nil", lines)
	}
}

func TestWrapFits(t *testing.T) {
	lines := Wrap("short", 10)
	if len(lines) != 1 || lines[0] != "short" {
		t.Errorf("Wrap = %q, want [short]", lines)
	}
}

func TestTruncateEnd(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello world", 20, "hello world"},
		{"hello world", 8, "hello w…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateEnd(tt.in, tt.width); got != tt.want {
			t.Errorf("TruncateEnd(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTruncateStart(t *testing.T) {
	got := TruncateStart("hello world", 8)
	if got != "…o world" {
		t.Errorf("TruncateStart = %q, want %q", got, "…o world")
	}
	if w := Width(got); w != 8 {
		t.Errorf("width = %d, want 8", w)
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := TruncateMiddle("abcdefghij", 7)
	if got != "abc…hij" {
		t.Errorf("TruncateMiddle = %q, want %q", got, "abc…hij")
	}
	if w := Width(got); w != 7 {
		t.Errorf("width = %d, want 7", w)
	}
}

func TestTruncateWideRunes(t *testing.T) {
	// Each CJK rune is two cells wide.
	got := TruncateEnd("世界世界", 5)
	if w := Width(got); w > 5 {
		t.Errorf("truncated width = %d, want <= 5 (%q)", w, got)
	}
}
