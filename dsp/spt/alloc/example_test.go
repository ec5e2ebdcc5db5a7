package alloc_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-spt/dsp/spt/alloc"
)

func ExampleAllocate() {
	taps := []int64{51, 24, 11, 39, 1, 27, 17, 61, 49, 18}

	for _, s := range []alloc.Strategy{alloc.Uniform, alloc.Greedy, alloc.Hybrid} {
		rep, err := alloc.Allocate(context.Background(), taps, alloc.Config{
			Strategy: s,
			Budget:   27,
			NumBits:  6,
		})
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("%-7s cost=%d calls=%d terms=%v\n", s, rep.TotalCost, rep.TotalCalls, rep.TermCounts())
	}
	// Output:
	// uniform cost=1 calls=17 terms=[3 3 3 3 2 3 2 3 3 2]
	// greedy  cost=0 calls=27 terms=[5 2 3 3 1 3 2 3 3 2]
	// hybrid  cost=2 calls=17 terms=[4 2 3 4 0 4 1 4 3 2]
}
