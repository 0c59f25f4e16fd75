package kmath

import (
	"bytes"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

const tol = 1e-4

func randMat(rng *rand.Rand) (m Mat4) {
	for i := range m {
		m[i] = 2*rng.Float32() - 1
	}
	return m
}

func matEqual(a, b Mat4, tol float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func vecEqual(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol && math32.Abs(a.Z-b.Z) <= tol
}

func TestInverseIdentity(t *testing.T) {
	I := Identity()
	var inv Mat4
	det := Inverse(&inv, &I)
	if det != 1 {
		t.Error("identity determinant not 1", det)
	}
	if inv != I {
		t.Errorf("inverse of identity:\n%s", inv)
	}
}

func TestMulIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	I := Identity()
	for i := 0; i < 100; i++ {
		M := randMat(rng)
		var R Mat4
		Mul(&R, &I, &M)
		if R != M {
			t.Fatalf("I*M != M:\n%s\n!=\n%s", R, M)
		}
		Mul(&R, &M, &I)
		if R != M {
			t.Fatalf("M*I != M:\n%s\n!=\n%s", R, M)
		}
	}
}

func TestMulAliasing(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		A := randMat(rng)
		B := randMat(rng)
		want := A.Mul(B)

		gotA := A
		Mul(&gotA, &gotA, &B)
		if !matEqual(gotA, want, 0) {
			t.Fatal("aliasing r==a gave different product")
		}
		gotB := B
		Mul(&gotB, &A, &gotB)
		if !matEqual(gotB, want, 0) {
			t.Fatal("aliasing r==b gave different product")
		}
		sq := A
		Mul(&sq, &sq, &sq)
		if !matEqual(sq, A.Mul(A), 0) {
			t.Fatal("aliasing r==a==b gave different product")
		}
	}
}

func TestMulSeriesOrder(t *testing.T) {
	T := Translation(1, 2, 3)
	S := Scaling(2, 2, 2)
	var TS Mat4
	MulSeries(&TS, &T, &S)
	// Scale first, translate after.
	got := MulPoint(&TS, Point3(1, 1, 1))
	want := Point3(3, 4, 5)
	if got != want {
		t.Error("T*S applied to point", got, "want", want)
	}
	var R Mat4
	MulSeries(&R, &T)
	if R != T {
		t.Error("single matrix series should copy")
	}
	rng := rand.New(rand.NewSource(3))
	A, B, C := randMat(rng), randMat(rng), randMat(rng)
	MulSeries(&R, &A, &B, &C)
	if !matEqual(R, A.Mul(B).Mul(C), 1e-5) {
		t.Error("series product mismatch")
	}
}

func TestInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	I := Identity()
	for i := 0; i < 100; i++ {
		M := randMat(rng)
		var inv Mat4
		det := Inverse(&inv, &M)
		if math32.Abs(det) < 1e-2 {
			continue // Badly conditioned.
		}
		if got := M.Mul(inv); !matEqual(got, I, 1e-3) {
			t.Fatalf("M*inv(M) not identity:\n%s", got)
		}
		// Aliased input and output.
		alias := M
		Inverse(&alias, &alias)
		if !matEqual(alias, inv, 0) {
			t.Fatal("aliased inverse differs")
		}
	}
}

func TestInverseSingular(t *testing.T) {
	M := Scaling(1, 0, 1)
	var inv Mat4
	det := Inverse(&inv, &M)
	if det != 0 {
		t.Fatal("expected zero determinant, got", det)
	}
	// The unscaled cofactor matrix of diag(1,0,1,1) is diag(0,1,0,0).
	want := Mat4{5: 1}
	if !matEqual(inv, want, 0) {
		t.Errorf("unexpected cofactor matrix:\n%s", inv)
	}
}

func TestTranspose(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	M := randMat(rng)
	T := M
	T.Transpose()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if M.At(row, col) != T.At(col, row) {
				t.Fatal("transpose mismatch at", row, col)
			}
		}
	}
	T.Transpose()
	if T != M {
		t.Error("double transpose not identity operation")
	}
}

func TestRotationOrthogonal(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	I := Identity()
	axes := []ms3.Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, {Y: -1}, {Z: -1}}
	for i := 0; i < 50; i++ {
		axes = append(axes, ms3.Vec{X: 2*rng.Float32() - 1, Y: 2*rng.Float32() - 1, Z: 2*rng.Float32() - 1})
	}
	for _, axis := range axes {
		angle := 360*rng.Float32() - 180
		R := Rotation(angle, axis.X, axis.Y, axis.Z)
		RT := R
		RT.Transpose()
		if got := R.Mul(RT); !matEqual(got, I, tol) {
			t.Errorf("rotation about %v not orthogonal:\n%s", axis, got)
		}
		// Axis is invariant under rotation.
		u, _ := Normalize(axis)
		if got := MulVec3(&R, u); !vecEqual(got, u, tol) {
			t.Errorf("rotation moved its own axis %v -> %v", u, got)
		}
	}
}

func TestRotationSense(t *testing.T) {
	tests := []struct {
		axis, v, want ms3.Vec
	}{
		{axis: ms3.Vec{X: 1}, v: ms3.Vec{Y: 1}, want: ms3.Vec{Z: 1}},
		{axis: ms3.Vec{Y: 1}, v: ms3.Vec{Z: 1}, want: ms3.Vec{X: 1}},
		{axis: ms3.Vec{Z: 1}, v: ms3.Vec{X: 1}, want: ms3.Vec{Y: 1}},
		{axis: ms3.Vec{Z: -1}, v: ms3.Vec{X: 1}, want: ms3.Vec{Y: -1}},
		{axis: ms3.Vec{X: 3}, v: ms3.Vec{Y: 1}, want: ms3.Vec{Z: 1}},
	}
	for _, test := range tests {
		R := Rotation(90, test.axis.X, test.axis.Y, test.axis.Z)
		got := MulVec3(&R, test.v)
		if !vecEqual(got, test.want, tol) {
			t.Errorf("rotate %v by 90 about %v: got %v, want %v", test.v, test.axis, got, test.want)
		}
	}
	// General formula agrees with principal axis rotations in the limit.
	Rx := Rotation(33, 1, 0, 0)
	Rg := Rotation(33, 1, 1e-7, 0)
	if !matEqual(Rx, Rg, 1e-5) {
		t.Errorf("general rotation disagrees with X rotation:\n%s\n%s", Rx, Rg)
	}
	if R := Rotation(45, 0, 0, 0); R != Identity() {
		t.Error("zero axis rotation should be identity")
	}
}

func TestProjectionInvalid(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)
	I := Identity()
	nan := math32.NaN()
	cases := map[string]Mat4{
		"fov NaN":        Perspective(nan, 1, 1, 10),
		"aspect NaN":     Perspective(60, nan, 1, 10),
		"near NaN":       Perspective(60, 1, nan, 10),
		"far NaN":        Perspective(60, 1, 1, nan),
		"frustum NaN":    Frustum(-1, nan, -1, 1, 1, 10),
		"ortho NaN":      Orthographic(-1, 1, -1, 1, nan, 10),
		"fov zero":       Perspective(0, 1, 1, 10),
		"fov 180":        Perspective(180, 1, 1, 10),
		"aspect":         Perspective(60, 0, 1, 10),
		"near>=far":      Perspective(60, 1, 10, 10),
		"near negative":  Perspective(60, 1, -1, 10),
		"frustum width":  Frustum(1, 1, -1, 1, 1, 10),
		"frustum near":   Frustum(-1, 1, -1, 1, 0, 10),
		"ortho height":   Orthographic(-1, 1, 2, 2, 1, 10),
		"ortho depth":    Orthographic(-1, 1, -1, 1, 3, 3),
		"frustum height": Frustum(-1, 1, 2, 2, 1, 10),
	}
	for name, m := range cases {
		if m != I {
			t.Errorf("%s: expected identity, got\n%s", name, m)
		}
	}
	if n := strings.Count(buf.String(), "level=WARN"); n != len(cases) {
		t.Errorf("expected %d warnings, got %d:\n%s", len(cases), n, buf.String())
	}
}

func TestPerspectiveDepth(t *testing.T) {
	const near, far = 0.5, 20
	P := Perspective(60, 1.5, near, far)
	for _, test := range []struct{ z, want float32 }{{-near, -1}, {-far, 1}} {
		p := MulPoint(&P, Point3(0, 0, test.z))
		p.Normalize()
		if math32.Abs(p[2]-test.want) > tol {
			t.Errorf("depth %g mapped to %g, want %g", test.z, p[2], test.want)
		}
	}
	// Top of the field of view maps to NDC y=1.
	top := near * math32.Tan(Radians(30))
	p := MulPoint(&P, Point3(0, top, -near))
	p.Normalize()
	if math32.Abs(p[1]-1) > tol {
		t.Error("top plane mapped to", p[1])
	}
}

func TestOrthographic(t *testing.T) {
	O := Orthographic(-2, 2, -1, 1, 1, 11)
	p := MulPoint(&O, Point3(2, -1, -1))
	want := Point4{1, -1, -1, 1}
	for i := range p {
		if math32.Abs(p[i]-want[i]) > tol {
			t.Fatal("got", p, "want", want)
		}
	}
}

func TestNormalize(t *testing.T) {
	v, ok := Normalize(Vec(3, 0, 4))
	if !ok || !vecEqual(v, Vec(0.6, 0, 0.8), 1e-6) {
		t.Error("bad normalization", v, ok)
	}
	v, ok = Normalize(Vec(1e-8, 0, 0))
	if ok || v != (ms3.Vec{}) {
		t.Error("expected invalid sentinel for tiny vector", v, ok)
	}
	if got := Cross(Vec(1, 0, 0), Vec(0, 1, 0)); got != Vec(0, 0, 1) {
		t.Error("x cross y != z", got)
	}
	if got := VecFrom2Points(Point3(1, 1, 1), Point3(2, 3, 4)); got != Vec(1, 2, 3) {
		t.Error("vector from points", got)
	}
}

func TestPoint4(t *testing.T) {
	p := NewPoint4(2, 4, 6, 2)
	p.Normalize()
	if p != Point3(1, 2, 3) {
		t.Error("homogeneous normalize", p)
	}
	inf := NewPoint4(1, 2, 3, 0)
	inf.Normalize()
	if inf != NewPoint4(1, 2, 3, 0) {
		t.Error("point at infinity modified", inf)
	}
	if d := Distance(Point3(0, 0, 0), Point3(1, 2, 2)); d != 3 {
		t.Error("distance", d)
	}
	if s := Point3(1, 2, 3).String(); s != "1.00000 2.00000 3.00000 1.00000" {
		t.Error("formatting", s)
	}
}

func TestMS3Conversion(t *testing.T) {
	T := Translation(1, 2, 3)
	p := T.MS3().MulPosition(ms3.Vec{X: 1})
	if !vecEqual(p, ms3.Vec{X: 2, Y: 2, Z: 3}, tol) {
		t.Error("row-major translation mismatch", p)
	}
	rng := rand.New(rand.NewSource(3))
	M := randMat(rng)
	if got := FromMS3(M.MS3()); got != M {
		t.Errorf("conversion round trip changed matrix:\n%s\n%s", M, got)
	}
	R := Rotation(30, 1, 1, 0)
	want := ms3.RotationMat4(Radians(30), ms3.Vec{X: 1, Y: 1})
	if !ms3.EqualMat4(R.MS3(), want, tol) {
		t.Error("general rotation disagrees with ms3")
	}
}
