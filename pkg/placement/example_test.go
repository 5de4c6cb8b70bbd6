package placement_test

import (
	"fmt"

	"github.com/matzehuels/ringplace/pkg/placement"
)

func ExampleGeneratePoints() {
	pts, err := placement.GeneratePoints(4, 10, 10, placement.Point{X: 100, Y: 100})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(pts)
	// Output:
	// [(110, 100) (100, 110) (90, 100) (100, 90)]
}

func ExampleGenerate() {
	res, err := placement.Generate(placement.Request{
		Count:    12,
		Band:     placement.Band{Min: 5, Max: 5},
		Distinct: true,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(len(res.Points()), "points,", len(res.Duplicates()), "duplicate groups")
	// Output:
	// 12 points, 0 duplicate groups
}
