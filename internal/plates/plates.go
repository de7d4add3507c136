// Package plates computes the per-side barbell plate breakdown for a
// total load on a standard 20 kg bar.
package plates

import "math"

// BarWeight is the fixed olympic bar weight in kg.
const BarWeight = 20.0

// Denominations are the available plate weights, largest first.
var Denominations = []float64{20, 10, 5, 2.5, 1.25}

// Plate is a count of one denomination on each side of the bar.
type Plate struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// PerSide returns the load each side of the bar carries, floored at 0
// when the total is below the bar weight.
func PerSide(total float64) float64 {
	return math.Max(0, (total-BarWeight)/2)
}

// Breakdown greedily decomposes the per-side load into plate counts,
// largest denomination first. Remainder below the smallest denomination
// is dropped. Zero counts are omitted.
func Breakdown(total float64) []Plate {
	rem := PerSide(total)

	var out []Plate
	for _, d := range Denominations {
		n := int(math.Floor(rem / d))
		if n == 0 {
			continue
		}
		out = append(out, Plate{Weight: d, Count: n})
		rem -= float64(n) * d
	}
	return out
}
