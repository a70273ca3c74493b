package motion

import "math"

const minSmoothTime = 0.0001

// SmoothDamp moves current toward target like a critically damped spring
// that settles in roughly smoothTime seconds. velocity is the filter's rate
// state and must be carried between calls. The result never passes target.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, maxSpeed, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)
	omega := 2 / smoothTime

	// Polynomial fit of exp(-x), good for the x range a frame produces.
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	originalTarget := target

	maxChange := maxSpeed * smoothTime
	change = math.Max(-maxChange, math.Min(change, maxChange))
	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (originalTarget-current > 0) == (out > originalTarget) {
		out = originalTarget
		*velocity = (out - originalTarget) / dt
	}
	return out
}
