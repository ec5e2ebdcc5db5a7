package testutil

import "testing"

func TestBruteForceNearestError(t *testing.T) {
	set := []int64{1, 2, 4, -1, -2, -4}

	tests := []struct {
		target int64
		k      int
		want   int64
	}{
		{target: 6, k: 2, want: 0},
		{target: 7, k: 2, want: 1},
		{target: 7, k: 3, want: 0},
		{target: 0, k: 2, want: 0},
		{target: 20, k: 1, want: 16},
	}

	for _, tt := range tests {
		if got := BruteForceNearestError(set, tt.target, tt.k); got != tt.want {
			t.Errorf("target=%d k=%d: got %d, want %d", tt.target, tt.k, got, tt.want)
		}
	}
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
