package nbapomp

import "math"

// logAddExp computes log(exp(a) + exp(b)) without overflow
func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	m := math.Max(a, b)
	return m + math.Log(math.Exp(a-m)+math.Exp(b-m))
}

// logMeanExp computes log(mean(exp(xs))) in log space for numerical
// stability; used to average likelihood replicates and particle weights.
func logMeanExp(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}

	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	if math.IsInf(m, -1) {
		return m
	}

	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - m)
	}
	return m + math.Log(sum/float64(len(xs)))
}

// eloExpectedScore is the classic ELO expected score for a rating pair:
// E = 1 / (1 + 10^((rb-ra)/400))
func eloExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// logistic is the standard sigmoid 1/(1+e^-x)
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
