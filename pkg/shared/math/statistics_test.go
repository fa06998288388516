package math

import "testing"

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{1, 2, 3, 4}); !approxEqual(got, 2.5, 1e-9) {
		t.Errorf("Mean() = %v, want 2.5", got)
	}
}

func TestStdDev(t *testing.T) {
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("StdDev(single) = %v, want 0", got)
	}
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !approxEqual(got, 2.138, 1e-2) {
		t.Errorf("StdDev() = %v, want ~2.138", got)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	if got := Percentile(values, 0); got != 10 {
		t.Errorf("p0 = %v, want 10", got)
	}
	if got := Percentile(values, 100); got != 50 {
		t.Errorf("p100 = %v, want 50", got)
	}
	if got := Percentile(values, 50); got != 30 {
		t.Errorf("p50 = %v, want 30", got)
	}
	// Percentile must not mutate the caller's slice.
	if values[0] != 10 {
		t.Error("Percentile mutated input slice")
	}
}
