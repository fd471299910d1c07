package stdlib

import "math"

var constants = map[string]constant{
	"pi":  {math.Pi, "ratio of a circle's circumference to its diameter"},
	"tau": {2 * math.Pi, "2π, one full turn in radians"},
	"e":   {math.E, "Euler's number"},
	"phi": {math.Phi, "golden ratio (1+√5)/2"},
}
