package palette

import (
	"context"
	"testing"
	"time"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RGB
		ok       bool
	}{
		{"with hash", "#E91E63", RGB{233, 30, 99}, true},
		{"without hash", "e91e63", RGB{233, 30, 99}, true},
		{"lowercase", "#e91e63", RGB{233, 30, 99}, true},
		{"mixed case", "#E91e63", RGB{233, 30, 99}, true},
		{"black", "000000", RGB{0, 0, 0}, true},
		{"white", "#FFFFFF", RGB{255, 255, 255}, true},
		{"surrounding spaces", "  #E91E63  ", RGB{233, 30, 99}, true},
		{"not a color", "not-a-color", RGB{}, false},
		{"too short", "#FFF", RGB{}, false},
		{"too long", "#E91E631", RGB{}, false},
		{"empty", "", RGB{}, false},
		{"bad digit", "E91E6Z", RGB{}, false},
		{"sign rejected", "+91E63", RGB{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rgb, ok := ParseHex(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseHex(%q) ok = %v; want %v", tc.input, ok, tc.ok)
			}
			if ok && rgb != tc.expected {
				t.Errorf("ParseHex(%q) = %+v; want %+v", tc.input, rgb, tc.expected)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	rgb := RGB{233, 30, 99}
	if got := rgb.Hex(); got != "#e91e63" {
		t.Errorf("Hex() = %q; want %q", got, "#e91e63")
	}
}

func TestStateSnapshot(t *testing.T) {
	s := NewState()

	if _, applied := s.Snapshot(); applied {
		t.Fatal("new state must have no applied color")
	}

	s.Apply(RGB{233, 30, 99})
	rgb, applied := s.Snapshot()
	if !applied || rgb != (RGB{233, 30, 99}) {
		t.Fatalf("after Apply, Snapshot() = %+v, %v", rgb, applied)
	}

	s.Clear()
	if _, applied := s.Snapshot(); applied {
		t.Fatal("after Clear, state must have no applied color")
	}
}

func TestStateConsume(t *testing.T) {
	canxCtx, canxFn := context.WithCancel(context.Background())
	defer canxFn()

	s := NewState()
	cmds := s.Consume(canxCtx)

	cmds <- ApplyColor{Hex: "#E91E63"}
	waitFor(t, func() bool {
		rgb, applied := s.Snapshot()
		return applied && rgb == RGB{233, 30, 99}
	}, "apply command not consumed")

	cmds <- ClearColor{}
	waitFor(t, func() bool {
		_, applied := s.Snapshot()
		return !applied
	}, "clear command not consumed")

	// Parse failure clears any previous selection.
	cmds <- ApplyColor{Hex: "#E91E63"}
	cmds <- ApplyColor{Hex: "not-a-color"}
	waitFor(t, func() bool {
		_, applied := s.Snapshot()
		return !applied
	}, "unparseable color must clear the selection")
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
