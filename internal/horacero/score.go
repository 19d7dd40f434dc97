package horacero

// Score holds the four incident metrics. Each stays within [0,100].
type Score struct {
	Financial     int `json:"financial"`
	Reputation    int `json:"reputation"`
	Operational   int `json:"operational"`
	DataIntegrity int `json:"dataIntegrity"`
}

// ScoreDelta is a signed per-metric adjustment produced by evaluating
// a decision.
type ScoreDelta struct {
	Financial     int `json:"financial"`
	Reputation    int `json:"reputation"`
	Operational   int `json:"operational"`
	DataIntegrity int `json:"dataIntegrity"`
}

// StartingScore returns the fixed metrics every simulation opens with.
func StartingScore() Score {
	return Score{Financial: 85, Reputation: 90, Operational: 95, DataIntegrity: 90}
}

// Apply adds d to each metric independently and re-clamps to [0,100].
func (s Score) Apply(d ScoreDelta) Score {
	return Score{
		Financial:     clamp(s.Financial + d.Financial),
		Reputation:    clamp(s.Reputation + d.Reputation),
		Operational:   clamp(s.Operational + d.Operational),
		DataIntegrity: clamp(s.DataIntegrity + d.DataIntegrity),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
