package anim

import "testing"

func TestNewClipResetsNegativeDuration(t *testing.T) {
	c := NewClip("walk", -1, []*Track{
		NewNumberTrack(".alpha", []float64{0, 1.5}, []float64{0, 1}),
		NewVectorTrack(".position", []float64{0, 2.5}, make([]float64, 6)),
	}, BlendNormal)
	if c.Duration != 2.5 {
		t.Errorf("Duration = %v, want 2.5", c.Duration)
	}
	if c.UUID == "" {
		t.Error("clip should get a UUID")
	}
}

func TestClipValidate(t *testing.T) {
	good := alphaClip("good", 1, 0, 1)
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	bad := NewClip("bad", 1, []*Track{
		NewNumberTrack(".alpha", nil, nil),
		NewNumberTrack(".beta", []float64{1, 0}, []float64{0, 1}),
	}, BlendNormal)
	bad.Duration = -2
	if err := bad.Validate(); err == nil {
		t.Error("Validate() should fail")
	}
}

func TestClipTrimOptimize(t *testing.T) {
	c := NewClip("c", 2, []*Track{
		NewNumberTrack(".alpha", []float64{0, 1, 2, 3}, []float64{0, 0, 0, 1}),
	}, BlendNormal)
	c.Trim().Optimize()
	tr := c.Tracks[0]
	if len(tr.Times) != 2 || tr.Times[1] != 2 {
		t.Errorf("Times = %v, want [0 2]", tr.Times)
	}
}

func TestClipClone(t *testing.T) {
	c := alphaClip("c", 1, 0, 1)
	d := c.Clone()
	if d.UUID == c.UUID || d.Name != c.Name || d.Duration != c.Duration {
		t.Errorf("clone = %+v", d)
	}
	if d.Tracks[0] == c.Tracks[0] {
		t.Error("Clone should deep-copy tracks")
	}
}

func TestFindClip(t *testing.T) {
	a, b := alphaClip("a", 1, 0, 1), alphaClip("b", 1, 0, 1)
	clips := []*Clip{a, b}
	if FindClip(clips, "b") != b {
		t.Error("FindClip(b)")
	}
	if FindClip(clips, "z") != nil {
		t.Error("FindClip(z) should be nil")
	}
}
