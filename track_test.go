package anim

import (
	"math"
	"slices"
	"testing"
)

func TestTrackValueSize(t *testing.T) {
	tests := []struct {
		track *Track
		want  int
	}{
		{NewNumberTrack(".alpha", []float64{0, 1}, []float64{0, 1}), 1},
		{NewVectorTrack(".position", []float64{0, 1}, make([]float64, 6)), 3},
		{NewColorTrack(".material.color", []float64{0}, []float64{1, 0, 0}), 3},
		{NewQuaternionTrack(".quaternion", []float64{0}, []float64{0, 0, 0, 1}), 4},
		{NewBooleanTrack(".visible", []float64{0, 1}, []bool{true, false}), 1},
		{NewStringTrack(".name", []float64{0, 1}, []string{"a", "b"}), 1},
		{&Track{Name: ".empty"}, 0},
	}
	for _, tt := range tests {
		if got := tt.track.ValueSize(); got != tt.want {
			t.Errorf("%s: ValueSize = %d, want %d", tt.track.Name, got, tt.want)
		}
	}
}

func TestBooleanTrackStoresNumbers(t *testing.T) {
	tr := NewBooleanTrack(".visible", []float64{0, 1, 2}, []bool{true, false, true})
	if !slices.Equal(tr.Values, []float64{1, 0, 1}) {
		t.Errorf("Values = %v", tr.Values)
	}
	if tr.Interpolation != InterpolateDiscrete {
		t.Error("boolean tracks should be discrete")
	}
}

func TestTrackValidate(t *testing.T) {
	tests := []struct {
		name  string
		track *Track
		ok    bool
	}{
		{"valid", NewNumberTrack(".alpha", []float64{0, 1}, []float64{0, 1}), true},
		{"no keys", NewNumberTrack(".alpha", nil, nil), false},
		{"value count", NewNumberTrack(".alpha", []float64{0, 1}, []float64{0, 1, 2}), false},
		{"unsorted", NewNumberTrack(".alpha", []float64{1, 0}, []float64{0, 1}), false},
		{"nan time", NewNumberTrack(".alpha", []float64{0, math.NaN()}, []float64{0, 1}), false},
		{"nan value", NewNumberTrack(".alpha", []float64{0, 1}, []float64{0, math.NaN()}), false},
		{"quaternion size", NewQuaternionTrack(".quaternion", []float64{0}, []float64{0, 0, 1}), false},
		{"strings", NewStringTrack(".name", []float64{0, 1}, []string{"a", "b"}), true},
	}
	for _, tt := range tests {
		err := tt.track.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestTrackShiftScale(t *testing.T) {
	tr := NewNumberTrack(".alpha", []float64{0, 1, 2}, []float64{0, 1, 2})
	tr.Shift(1).Scale(2)
	if !slices.Equal(tr.Times, []float64{2, 4, 6}) {
		t.Errorf("Times = %v", tr.Times)
	}
}

func TestTrackTrim(t *testing.T) {
	tr := NewVectorTrack(".position", []float64{0, 1, 2, 3}, []float64{
		0, 0, 0,
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
	})
	tr.Trim(0.5, 2.5)
	if !slices.Equal(tr.Times, []float64{1, 2}) {
		t.Errorf("Times = %v", tr.Times)
	}
	if !slices.Equal(tr.Values, []float64{1, 1, 1, 2, 2, 2}) {
		t.Errorf("Values = %v", tr.Values)
	}

	past := NewStringTrack(".name", []float64{0, 1}, []string{"a", "b"})
	past.Trim(5, 6)
	if len(past.Times) != 1 || past.Labels[0] != "b" {
		t.Errorf("trim past the end should keep the last key: %v %v", past.Times, past.Labels)
	}
}

func TestTrackOptimize(t *testing.T) {
	tr := NewNumberTrack(".alpha", []float64{0, 1, 2, 3, 4}, []float64{0, 1, 1, 1, 2})
	tr.Optimize()
	if !slices.Equal(tr.Times, []float64{0, 1, 3, 4}) {
		t.Errorf("Times = %v", tr.Times)
	}
	if !slices.Equal(tr.Values, []float64{0, 1, 1, 2}) {
		t.Errorf("Values = %v", tr.Values)
	}

	labels := NewStringTrack(".name", []float64{0, 1, 2, 3, 4}, []string{"a", "a", "b", "b", "b"})
	labels.Optimize()
	if !slices.Equal(labels.Times, []float64{0, 2, 4}) || !slices.Equal(labels.Labels, []string{"a", "b", "b"}) {
		t.Errorf("discrete optimize: %v %v", labels.Times, labels.Labels)
	}

	smooth := NewNumberTrack(".alpha", []float64{0, 1, 2}, []float64{1, 1, 1})
	smooth.Interpolation = InterpolateSmooth
	smooth.Optimize()
	if len(smooth.Times) != 3 {
		t.Error("smooth tracks keep their keys")
	}
}

func TestTrackClone(t *testing.T) {
	tr := NewNumberTrack(".alpha", []float64{0, 1}, []float64{0, 1})
	c := tr.Clone()
	c.Times[1] = 5
	c.Values[1] = 5
	if tr.Times[1] != 1 || tr.Values[1] != 1 {
		t.Error("Clone should not share storage")
	}
}
