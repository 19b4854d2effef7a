package meadow

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	node := NewGroup("pos")
	node.Position[0] = 10
	node.Position[1] = 20

	g := TweenPosition(node, 100, 200, -5, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(node.Position[0]-100) > 0.5 {
		t.Errorf("X = %f, want ~100", node.Position[0])
	}
	if math.Abs(node.Position[1]-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", node.Position[1])
	}
	if math.Abs(node.Position[2]+5) > 0.01 {
		t.Errorf("Z = %f, want ~-5", node.Position[2])
	}
}

func TestTweenScaleReachesTarget(t *testing.T) {
	node := NewGroup("scale")

	g := TweenScale(node, 2.0, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	for i, s := range node.Scale {
		if math.Abs(s-2.0) > 0.01 {
			t.Errorf("Scale[%d] = %f, want ~2.0", i, s)
		}
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	c := ColorWhite
	target := Color{R: 1, G: 1, B: 1, A: 0}

	g := TweenColor(&c, target, 1.0, ease.Linear)
	g.Update(0.5)
	if math.Abs(c.A-0.5) > 0.01 {
		t.Errorf("A at half time = %f, want ~0.5", c.A)
	}
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(c.A) > 0.01 || math.Abs(c.R-1) > 0.01 {
		t.Errorf("color = %v, want %v", c, target)
	}
}

func TestTweenOpacityMarksDirty(t *testing.T) {
	node := NewGroup("fade")
	node.transformDirty = false

	g := TweenOpacity(node, 0, 1.0, ease.Linear)
	g.Update(0.5)

	if !node.transformDirty {
		t.Error("tween should mark the node dirty")
	}
	if math.Abs(node.Opacity-0.5) > 0.01 {
		t.Errorf("Opacity = %f, want ~0.5", node.Opacity)
	}
}

func TestTweenStopsOnDisposedNode(t *testing.T) {
	node := NewGroup("gone")
	g := TweenOpacity(node, 0, 1.0, ease.Linear)
	node.Dispose()

	g.Update(0.5)
	if !g.Done {
		t.Error("expected Done once the target is disposed")
	}
	if node.Opacity != 1 {
		t.Errorf("Opacity = %f, want 1 (no writes after dispose)", node.Opacity)
	}
}

func TestEaseProgress(t *testing.T) {
	tests := []struct {
		elapsed, duration, want float64
	}{
		{-1, 2, 0},
		{0, 2, 0},
		{1, 2, 0.5},
		{2, 2, 1},
		{5, 2, 1},
		{1, 0, 1},
	}
	for _, tt := range tests {
		got := easeProgress(ease.Linear, tt.elapsed, tt.duration)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("easeProgress(%v, %v) = %v, want %v", tt.elapsed, tt.duration, got, tt.want)
		}
	}
}
