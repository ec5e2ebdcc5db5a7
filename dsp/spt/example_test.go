package spt_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-spt/dsp/spt"
	"github.com/cwbudde/algo-spt/dsp/spt/alloc"
)

func ExampleApproximate() {
	res, err := spt.Approximate(context.Background(), []float64{0.3, 0.1, -0.05},
		spt.WithStrategy(alloc.Uniform),
		spt.WithBudget(3),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(res.Approx, res.Scale)
	for i := range res.Approx {
		fmt.Println(res.Terms(i))
	}
	// Output:
	// [8 2 -2] 32
	// [+2^3]
	// [+2^1]
	// [-2^1]
}
