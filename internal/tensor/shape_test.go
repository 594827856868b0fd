package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3, 4}, 24},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeComputeStrides(t *testing.T) {
	got := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ComputeStrides() = %v, want %v", got, want)
		}
	}
}

func TestShapeCount(t *testing.T) {
	s := Shape{2, 3, 4, 5}
	tests := []struct {
		start, end int
		want       int
	}{
		{0, 1, 2},
		{2, 4, 20},
		{0, 4, 120},
		{1, 1, 1},
		{4, 4, 1},
	}
	for _, tt := range tests {
		if got := s.Count(tt.start, tt.end); got != tt.want {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestShapeCountOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Count past the rank should panic")
		}
	}()
	Shape{2, 3}.Count(1, 3)
}

func TestShapeCanonicalAxis(t *testing.T) {
	s := Shape{2, 3, 4, 5}
	tests := []struct {
		axis    int
		want    int
		wantErr bool
	}{
		{1, 1, false},
		{-1, 3, false},
		{-4, 0, false},
		{4, 0, true},
		{-5, 0, true},
	}
	for _, tt := range tests {
		got, err := s.CanonicalAxis(tt.axis)
		if (err != nil) != tt.wantErr {
			t.Errorf("CanonicalAxis(%d) error = %v, wantErr %v", tt.axis, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("CanonicalAxis(%d) = %d, want %d", tt.axis, got, tt.want)
		}
	}
}

func TestShapeEqualAndString(t *testing.T) {
	a := Shape{2, 1, 4}
	b := a.Clone()
	b[1] = 3

	if a.Equal(b) {
		t.Error("shapes with different dimensions should not be equal")
	}
	if !a.Equal(Shape{2, 1, 4}) {
		t.Error("identical shapes should be equal")
	}
	if got := a.String(); got != "(2, 1, 4)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Shape{}).String(); got != "()" {
		t.Errorf("scalar String() = %q", got)
	}
}
