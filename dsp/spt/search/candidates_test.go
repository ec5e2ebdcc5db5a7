package search

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spt/internal/testutil"
)

func TestNewCandidateSet(t *testing.T) {
	set, err := NewCandidateSet(2)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireIntsEqual(t, set.Values(), []int64{1, 2, 4, 0, -1, -2, -4})
	if !set.HasZero() || set.NumBits() != 2 || set.Len() != 7 {
		t.Fatalf("unexpected set: zero=%v numBits=%d len=%d", set.HasZero(), set.NumBits(), set.Len())
	}

	noZero, err := NewCandidateSet(2, WithoutZero())
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireIntsEqual(t, noZero.Values(), []int64{1, 2, 4, -1, -2, -4})
}

func TestNewCandidateSetInvalid(t *testing.T) {
	for _, nb := range []int{-1, MaxNumBits + 1} {
		if _, err := NewCandidateSet(nb); !errors.Is(err, ErrInvalidNumBits) {
			t.Errorf("numBits=%d: err = %v, want ErrInvalidNumBits", nb, err)
		}
	}
}

func TestCandidateSetValuesIsCopy(t *testing.T) {
	set, _ := NewCandidateSet(1)
	v := set.Values()
	v[0] = 999
	if set.At(0) != 1 {
		t.Fatal("Values did not return a copy")
	}
}
