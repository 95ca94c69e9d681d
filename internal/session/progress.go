package session

// Totals summarises learner progress across committed records.
type Totals struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Accuracy returns Correct / Total, or 0 for an empty session.
func (t Totals) Accuracy() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Total)
}

// RecomputeTotals folds over state.Records and stores the result in
// state.Totals. A record counts as correct only when IsCorrect is true;
// every other record, including one with IsCorrect unset, counts as
// incorrect.
func RecomputeTotals(state *SessionState) Totals {
	var t Totals
	t.Total = len(state.Records)
	for _, r := range state.Records {
		if r.Correct() {
			t.Correct++
		}
	}
	t.Incorrect = t.Total - t.Correct
	state.Totals = t
	return t
}
