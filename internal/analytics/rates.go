package analytics

// safeDiv divides a by b, defining division by zero as exactly 0.0.
// Rates for zero-reach groups must never be NaN or Inf.
func safeDiv(a, b int64) float64 {
	if b == 0 {
		return 0.0
	}
	return float64(a) / float64(b)
}

func deriveRates(g *Group) {
	g.LikeRate = safeDiv(g.Likes, g.Reach)
	g.FollowRate = safeDiv(g.FollowsGained, g.Reach)
	g.CaptureRate = safeDiv(g.EmailCaptures, g.Reach)
}

// ComputeRates derives like/follow/capture rates for each group in place.
// Each group is computed independently; there is no cross-group
// normalization.
func ComputeRates(groups []Group) {
	for i := range groups {
		deriveRates(&groups[i])
	}
}

// Weights configures the composite success score. Each weight is expected
// in [0, 1].
type Weights struct {
	Follow  float64 `json:"follow"`
	Capture float64 `json:"capture"`
	Like    float64 `json:"like"`
}

// DefaultWeights favors follower growth over captures over likes.
var DefaultWeights = Weights{Follow: 0.6, Capture: 0.3, Like: 0.1}

// weightEpsilon guards the normalization divisor so an all-zero weight
// vector degenerates to a score of 0.0 instead of a division fault.
const weightEpsilon = 1e-9

// Normalized returns the weights scaled to sum to 1. With all-zero input
// the weights stay zero.
func (w Weights) Normalized() Weights {
	total := w.Follow + w.Capture + w.Like
	if total < weightEpsilon {
		total = weightEpsilon
	}
	return Weights{
		Follow:  w.Follow / total,
		Capture: w.Capture / total,
		Like:    w.Like / total,
	}
}

// Valid reports whether every weight lies in [0, 1].
func (w Weights) Valid() bool {
	for _, v := range []float64{w.Follow, w.Capture, w.Like} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Score sets the composite success score on every group:
// wf*follow_rate + wc*capture_rate + wl*like_rate, with weights normalized
// first. Rates must already be derived.
func Score(groups []Group, w Weights) {
	n := w.Normalized()
	for i := range groups {
		s := n.Follow*groups[i].FollowRate + n.Capture*groups[i].CaptureRate + n.Like*groups[i].LikeRate
		groups[i].Score = &s
	}
}
