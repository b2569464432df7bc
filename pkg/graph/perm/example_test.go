package perm_test

import (
	"fmt"

	"github.com/matzehuels/okplanar/pkg/graph/perm"
)

func ExampleGenerate() {
	for _, p := range perm.Generate(3, 0) {
		fmt.Println(p)
	}
	// Output:
	// [0 1 2]
	// [1 0 2]
	// [2 0 1]
	// [0 2 1]
	// [1 2 0]
	// [2 1 0]
}

func ExampleCombinations() {
	perm.Combinations(4, 3, func(c []int) bool {
		fmt.Println(c)
		return true
	})
	// Output:
	// [0 1 2]
	// [0 1 3]
	// [0 2 3]
	// [1 2 3]
}
