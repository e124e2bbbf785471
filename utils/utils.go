package utils

import (
	"math"
)

func Deg(rads float64) float64 {
	return rads / (math.Pi / 180)
}

func Rad(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// Clamp returns v limited to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MapRangeClamped maps v from the range [inA, inB] onto [outA, outB], clamping
// to the output range. A zero-width input range maps everything to outA.
func MapRangeClamped(v, inA, inB, outA, outB float64) float64 {
	if inA == inB {
		return outA
	}

	t := Clamp((v-inA)/(inB-inA), 0, 1)
	return outA + (outB-outA)*t
}

// InterpTo moves current toward target by a fraction of the remaining distance
// proportional to dt * speed. A non-positive speed jumps straight to the
// target.
func InterpTo(current, target, dt, speed float64) float64 {
	if speed <= 0 {
		return target
	}

	dist := target - current
	if dist*dist < 1e-8 {
		return target
	}

	return current + dist*Clamp(dt*speed, 0, 1)
}
