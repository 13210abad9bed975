package linalg

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/structdyn/internal/dynamo"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"2x2", Matrix{{4, 7}, {2, 6}}},
		{"3x3 symmetric", Matrix{{4, 1, 0}, {1, 3, 1}, {0, 1, 2}}},
		{"4x4 beam stiffness like", Matrix{
			{12, 6, -12, 6},
			{6, 4 + 1, -6, 2},
			{-12, -6, 24, 0},
			{6, 2, 0, 8},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Inverse(tt.m)
			if err != nil {
				t.Fatalf("Inverse() error = %v", err)
			}

			back, err := Inverse(inv)
			if err != nil {
				t.Fatalf("Inverse(Inverse()) error = %v", err)
			}
			if diff := cmp.Diff(tt.m, back, approx); diff != "" {
				t.Errorf("Inverse(Inverse(m)) mismatch (-want +got):\n%s", diff)
			}

			prod, err := Multiply(tt.m, inv)
			if err != nil {
				t.Fatalf("Multiply() error = %v", err)
			}
			if diff := cmp.Diff(Identity(len(tt.m)), prod, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("m * Inverse(m) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInverseDoesNotMutateInput(t *testing.T) {
	m := Matrix{{2, 1}, {1, 3}}
	orig := m.Clone()
	if _, err := Inverse(m); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig, m); diff != "" {
		t.Errorf("input mutated:\n%s", diff)
	}
}

func TestInverseZeroPivot(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"zero matrix", NewMatrix(3, 3)},
		{"zero leading pivot", Matrix{{0, 1}, {1, 0}}},
		{"rank deficient", Matrix{{1, 2}, {2, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inverse(tt.m)
			if !errors.Is(err, dynamo.ErrSingularMatrix) {
				t.Errorf("Inverse() error = %v, want dynamo.ErrSingularMatrix", err)
			}
		})
	}
}

func TestDimensionMismatch(t *testing.T) {
	a := NewMatrix(2, 3)
	b := NewMatrix(2, 2)

	if _, err := Sum(a, b); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("Sum() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
	if _, err := Subtract(a, b); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("Subtract() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
	if _, err := Multiply(a, b); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("Multiply() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
	if _, err := Inverse(a); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("Inverse() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
	if _, err := MultiplyVector(a, Vector{1, 2}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("MultiplyVector() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
	if _, err := (Vector{1}).Add(Vector{1, 2}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("Vector.Add() error = %v, want dynamo.ErrDimensionMismatch", err)
	}
}

func TestMultiplyAndTranspose(t *testing.T) {
	a := Matrix{{1, 2, 3}, {4, 5, 6}}
	b := Matrix{{7, 8}, {9, 10}, {11, 12}}

	got, err := Multiply(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := Matrix{{58, 64}, {139, 154}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Multiply() mismatch (-want +got):\n%s", diff)
	}

	at := Transpose(a)
	if at.Rows() != 3 || at.Cols() != 2 || at[2][1] != 6 {
		t.Errorf("Transpose() = %v", at)
	}
}

func TestSumSubtract(t *testing.T) {
	a := Matrix{{1, 2}, {3, 4}}
	b := Matrix{{4, 3}, {2, 1}}

	s, err := Sum(a, b)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Subtract(s, b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, d); diff != "" {
		t.Errorf("Sum then Subtract mismatch:\n%s", diff)
	}
}

func TestCombine(t *testing.T) {
	got, err := Combine([]float64{2, -1}, Vector{1, 2}, Vector{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != -1 || got[1] != 0 {
		t.Errorf("Combine() = %v, want [-1 0]", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		x        float64
		decimals int
		want     float64
	}{
		{0.123456, 3, 0.123},
		{-2.71828, 2, -2.72},
		{5, 0, 5},
		{math.MaxFloat64, 3, math.MaxFloat64},
	}
	for _, tt := range tests {
		if got := Round(tt.x, tt.decimals); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.x, tt.decimals, got, tt.want)
		}
	}
}
