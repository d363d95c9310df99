package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestNoteToFrequency(t *testing.T) {
	tests := []struct {
		note int
		want float64
	}{
		{note: 69, want: 440},
		{note: 81, want: 880},
		{note: 57, want: 220},
		{note: 60, want: 261.6255653005986},
	}

	for _, tt := range tests {
		got := NoteToFrequency(tt.note)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("NoteToFrequency(%d) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestFrequencyToNoteRoundTrip(t *testing.T) {
	for note := 0; note <= MaxNote; note++ {
		if got := FrequencyToNote(NoteToFrequency(note)); got != note {
			t.Fatalf("FrequencyToNote(NoteToFrequency(%d)) = %d", note, got)
		}
	}
}

func TestFrequencyToNoteEdges(t *testing.T) {
	if got := FrequencyToNote(0); got != 0 {
		t.Fatalf("FrequencyToNote(0) = %d, want 0", got)
	}
	if got := FrequencyToNote(1e6); got != MaxNote {
		t.Fatalf("FrequencyToNote(1e6) = %d, want %d", got, MaxNote)
	}
}
