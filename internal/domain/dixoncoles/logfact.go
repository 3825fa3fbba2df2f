package dixoncoles

import "math"

// logFactorialTableSize covers every realistic goal count.
const logFactorialTableSize = 32

// logFactorialTable holds log(n!) for small n. Built once, read-only.
var logFactorialTable = func() [logFactorialTableSize]float64 { //nolint:gochecknoglobals // read-only lookup table
	var t [logFactorialTableSize]float64
	for n := 2; n < logFactorialTableSize; n++ {
		t[n] = t[n-1] + math.Log(float64(n))
	}
	return t
}()

func logFactorial(n int) float64 {
	if n < 0 {
		return 0
	}
	if n < logFactorialTableSize {
		return logFactorialTable[n]
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}
