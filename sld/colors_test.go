package sld

import (
	"errors"
	"testing"
)

func TestAllocate_PaletteCount(t *testing.T) {
	for _, name := range []string{"tab10", "tab20", "set2", "viridis", "blues", "rdylgn", "spectral"} {
		for _, count := range []int{1, 2, 5, 12, 25} {
			colors, err := Allocate(Palette(name), count)
			if err != nil {
				t.Fatalf("Allocate(%q, %d) failed: %v", name, count, err)
			}
			if len(colors) != count {
				t.Errorf("Allocate(%q, %d): got %d colors", name, count, len(colors))
			}
			for i, c := range colors {
				if len(c) != 7 || c[0] != '#' {
					t.Errorf("Allocate(%q, %d)[%d] = %q, not a hex color", name, count, i, c)
				}
			}
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	first, err := Allocate(Palette("tab20"), 5)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	second, err := Allocate(Palette("tab20"), 5)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("color %d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestAllocate_SequentialRampDeterministic(t *testing.T) {
	first, _ := Allocate(Palette("viridis"), 7)
	second, _ := Allocate(Palette("viridis"), 7)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("ramp color %d differs between runs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestAllocate_SequentialEndpoints(t *testing.T) {
	colors, err := Allocate(Palette("viridis"), 4)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if colors[0] != "#440154" {
		t.Errorf("first ramp color = %q, want the first anchor #440154", colors[0])
	}
	if colors[len(colors)-1] != "#fde725" {
		t.Errorf("last ramp color = %q, want the last anchor #fde725", colors[len(colors)-1])
	}
}

func TestAllocate_QualitativeCycles(t *testing.T) {
	colors, err := Allocate(Palette("tab10"), 13)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if colors[10] != colors[0] || colors[12] != colors[2] {
		t.Error("expected qualitative palette to cycle past its anchor count")
	}
}

func TestAllocate_ExplicitSequenceIsAuthoritative(t *testing.T) {
	seq := []string{"#ff0000", "#00ff00", "#0000ff"}
	colors, err := Allocate(Colors(seq...), 7)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if len(colors) != len(seq) {
		t.Fatalf("got %d colors, want the sequence's own length %d", len(colors), len(seq))
	}
	for i := range seq {
		if colors[i] != seq[i] {
			t.Errorf("color %d = %q, want %q", i, colors[i], seq[i])
		}
	}
}

func TestAllocate_EntriesKeepOrder(t *testing.T) {
	spec := ColorSpec{Entries: []ColorEntry{
		{Label: "low", Color: "#111111"},
		{Label: "mid", Color: "#222222"},
		{Label: "high", Color: "#333333"},
	}}
	colors, err := Allocate(spec, 99)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	want := []string{"#111111", "#222222", "#333333"}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("color %d = %q, want %q", i, colors[i], want[i])
		}
	}
}

func TestAllocate_Errors(t *testing.T) {
	if _, err := Allocate(Palette("no-such-palette"), 3); !errors.Is(err, ErrConfig) {
		t.Errorf("unknown palette: got %v, want ErrConfig", err)
	}
	if _, err := Allocate(Palette("tab10"), 0); !errors.Is(err, ErrConfig) {
		t.Errorf("zero count: got %v, want ErrConfig", err)
	}
	if _, err := Allocate(Palette("tab10"), -2); !errors.Is(err, ErrConfig) {
		t.Errorf("negative count: got %v, want ErrConfig", err)
	}
	if _, err := Allocate(ColorSpec{}, 3); !errors.Is(err, ErrConfig) {
		t.Errorf("empty spec: got %v, want ErrConfig", err)
	}
}

func TestAllocate_CaseInsensitivePaletteName(t *testing.T) {
	upper, err := Allocate(Palette("RdYlGn"), 5)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	lower, _ := Allocate(Palette("rdylgn"), 5)
	for i := range upper {
		if upper[i] != lower[i] {
			t.Errorf("color %d differs by name case: %q vs %q", i, upper[i], lower[i])
		}
	}
}
