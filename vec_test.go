package isomesh

import "testing"

func TestVecArithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 5, 6)

	if got := a.Add(b); got != V3(5, 7, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V3(3, 3, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); got != V3(2, 4, 6) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Div(2); got != V3(0.5, 1, 1.5) {
		t.Errorf("Div = %v", got)
	}
	if got := a.Neg(); got != V3(-1, -2, -3) {
		t.Errorf("Neg = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %g", got)
	}
}

func TestVecCross(t *testing.T) {
	x := V3(1, 0, 0)
	y := V3(0, 1, 0)
	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := y.Cross(x); got != V3(0, 0, -1) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestVecNormalize(t *testing.T) {
	v := V3(3, 0, 4)
	n := v.Normalize()
	if !n.Approx(V3(0.6, 0, 0.8), 1e-6) {
		t.Errorf("Normalize = %v", n)
	}
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize zero = %v, want zero", got)
	}
}

func TestVecLerp(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(2, 4, 6)
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp 0 = %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp 1 = %v", got)
	}
	if got := a.Lerp(b, 0.5); got != V3(1, 2, 3) {
		t.Errorf("Lerp 0.5 = %v", got)
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := Triangle{A: V3(0, 0, 0), B: V3(1, 0, 0), C: V3(0, 1, 0)}
	if got := tri.Normal(); !got.Approx(V3(0, 0, 1), 1e-6) {
		t.Errorf("Normal = %v, want +z", got)
	}
	degenerate := Triangle{A: V3(0, 0, 0), B: V3(1, 1, 1), C: V3(2, 2, 2)}
	if got := degenerate.Normal(); !got.IsZero() {
		t.Errorf("degenerate Normal = %v, want zero", got)
	}
}
