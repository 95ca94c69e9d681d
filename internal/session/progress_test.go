package session

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestRecomputeTotals_Empty(t *testing.T) {
	state := NewSessionState()
	got := RecomputeTotals(state)
	if got != (Totals{}) {
		t.Errorf("totals = %+v, want zero", got)
	}
	if got.Accuracy() != 0 {
		t.Errorf("Accuracy = %v, want 0", got.Accuracy())
	}
}

func TestRecomputeTotals_UngradedCountsAsIncorrect(t *testing.T) {
	state := NewSessionState()
	state.Records[0] = &QuestionRecord{Question: "Q1", Answer: "A1", Feedback: "Wrong", IsCorrect: boolPtr(false)}
	state.Records[1] = &QuestionRecord{Question: "Q2", Answer: "A2", Feedback: "Pending review"}

	got := RecomputeTotals(state)
	want := Totals{Total: 2, Correct: 0, Incorrect: 2}
	if got != want {
		t.Errorf("totals = %+v, want %+v (ungraded must not be excluded)", got, want)
	}
}

func TestRecomputeTotals_SumInvariant(t *testing.T) {
	configs := [][]*bool{
		{},
		{boolPtr(true)},
		{boolPtr(false)},
		{nil},
		{boolPtr(true), boolPtr(false), nil},
		{boolPtr(true), boolPtr(true), boolPtr(true), nil, boolPtr(false)},
	}
	for i, cfg := range configs {
		state := NewSessionState()
		for idx, c := range cfg {
			// Sparse indices on purpose.
			state.Records[idx*3] = &QuestionRecord{Question: "Q", Answer: "A", Feedback: "F", IsCorrect: c}
		}
		got := RecomputeTotals(state)
		if got.Total != got.Correct+got.Incorrect {
			t.Errorf("config %d: %+v violates total == correct + incorrect", i, got)
		}
		if got.Total != len(cfg) {
			t.Errorf("config %d: Total = %d, want %d", i, got.Total, len(cfg))
		}
		if state.Totals != got {
			t.Errorf("config %d: state.Totals not updated", i)
		}
	}
}

func TestRecomputeTotals_Idempotent(t *testing.T) {
	state := NewSessionState()
	state.Records[0] = &QuestionRecord{Question: "Q", Answer: "A", Feedback: "F", IsCorrect: boolPtr(true)}

	first := RecomputeTotals(state)
	second := RecomputeTotals(state)
	if first != second {
		t.Errorf("RecomputeTotals not idempotent: %+v vs %+v", first, second)
	}
}

func TestIsComplete_IgnoresIsCorrect(t *testing.T) {
	tests := []struct {
		name string
		r    *QuestionRecord
		want bool
	}{
		{"nil", nil, false},
		{"empty", &QuestionRecord{}, false},
		{"question only", &QuestionRecord{Question: "Q"}, false},
		{"no feedback", &QuestionRecord{Question: "Q", Answer: "A"}, false},
		{"feedback without verdict", &QuestionRecord{Question: "Q", Answer: "A", Feedback: "F"}, true},
		{"graded", &QuestionRecord{Question: "Q", Answer: "A", Feedback: "F", IsCorrect: boolPtr(false)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.r); got != tt.want {
				t.Errorf("IsComplete = %v, want %v", got, tt.want)
			}
		})
	}
}
