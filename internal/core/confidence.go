package core

const (
	// MinConfidence and MaxConfidence bound the per-topic confidence scalar.
	MinConfidence = 0.1
	MaxConfidence = 1.0

	confidencePenalty = 0.12
	confidenceReward  = 0.06
)

// UpdateConfidence applies the bounded confidence heuristic once per chat
// turn: a repeated mistake nudges confidence down, anything else nudges it
// up. The result never leaves [MinConfidence, MaxConfidence].
func UpdateConfidence(prev float64, mistakeRepeated bool) float64 {
	if mistakeRepeated {
		next := prev - confidencePenalty
		if next < MinConfidence {
			return MinConfidence
		}
		return next
	}
	next := prev + confidenceReward
	if next > MaxConfidence {
		return MaxConfidence
	}
	return next
}
