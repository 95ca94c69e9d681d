package session

import "testing"

func completeRecord(q string) *QuestionRecord {
	return &QuestionRecord{Question: q, Answer: "A", Feedback: "F", IsCorrect: boolPtr(true)}
}

func TestGoTo_ClampsAtZero(t *testing.T) {
	state := NewSessionState()

	GoTo(state, Backward)
	if state.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", state.CurrentIndex)
	}

	GoTo(state, Forward)
	GoTo(state, Forward)
	if state.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want 2", state.CurrentIndex)
	}
}

func TestGoTo_BackwardKeepsLaterRecord(t *testing.T) {
	state := NewSessionState()
	state.Records[1] = completeRecord("Q1")
	r2 := completeRecord("Q2")
	state.Records[2] = r2
	state.CurrentIndex = 2

	GoTo(state, Backward)

	if state.CurrentIndex != 1 {
		t.Fatalf("CurrentIndex = %d, want 1", state.CurrentIndex)
	}
	got := state.Records[2]
	if got != r2 || got.Question != "Q2" || got.Answer != "A" || got.Feedback != "F" || !got.Correct() {
		t.Errorf("record at index 2 altered: %+v", got)
	}
}

func TestCommit(t *testing.T) {
	state := NewSessionState()

	if Commit(state, 0, &QuestionRecord{Question: "Q"}) {
		t.Error("incomplete record committed")
	}

	first := completeRecord("Q1")
	if !Commit(state, 0, first) {
		t.Fatal("complete record not committed")
	}
	if Commit(state, 0, completeRecord("Q2")) {
		t.Error("occupied index overwritten")
	}
	if state.Records[0] != first {
		t.Error("record at index 0 replaced")
	}
	if state.Totals.Total != 1 {
		t.Errorf("Totals.Total = %d, want 1", state.Totals.Total)
	}
}

func TestCommit_NilRecordsMap(t *testing.T) {
	state := &SessionState{}
	if !Commit(state, 4, completeRecord("Q")) {
		t.Fatal("expected commit into zero-value state")
	}
	if len(state.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1", len(state.Records))
	}
}

func TestNavigationGuards(t *testing.T) {
	state := NewSessionState()

	if CanAdvance(state) || CanGoBack(state) {
		t.Fatal("empty session should not allow navigation")
	}

	state.Records[0] = completeRecord("Q1")
	if !CanAdvance(state) {
		t.Error("CanAdvance = false with complete record")
	}
	if CanGoBack(state) {
		t.Error("CanGoBack = true at index 0")
	}

	GoTo(state, Forward)
	if CanAdvance(state) || CanGoBack(state) {
		t.Error("navigation allowed from an unvisited index")
	}

	state.Records[1] = completeRecord("Q2")
	if !CanGoBack(state) {
		t.Error("CanGoBack = false at complete index 1")
	}
}

func TestSetDocument(t *testing.T) {
	state := NewSessionState()
	doc := DocumentInfo{Name: "notes.pdf", Type: "application/pdf", Size: 1024}

	if !SetDocument(state, doc) {
		t.Error("first document should be new")
	}
	if SetDocument(state, doc) {
		t.Error("same document reported as new")
	}
	doc.Size = 2048
	if !SetDocument(state, doc) {
		t.Error("changed document should be new")
	}
	if state.Document.Size != 2048 {
		t.Errorf("Document.Size = %d, want 2048", state.Document.Size)
	}
}

func TestNewSessionState(t *testing.T) {
	a, b := NewSessionState(), NewSessionState()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session IDs not unique: %q %q", a.ID, b.ID)
	}
	if a.CurrentIndex != 0 || len(a.Records) != 0 {
		t.Errorf("new state not empty: %+v", a)
	}
}

func TestClone_Independent(t *testing.T) {
	state := NewSessionState()
	state.Records[0] = completeRecord("Q1")
	SetDocument(state, DocumentInfo{Name: "a.md"})

	// Leave a question pending at index 1.
	state.CurrentIndex = 1
	state.pending[1] = &QuestionRecord{Question: "Q2"}

	c := state.Clone()
	c.Records[0].Answer = "changed"
	c.pending[1].Answer = "typed"
	c.Document.Name = "b.md"
	c.Records[5] = completeRecord("Q5")

	if state.Records[0].Answer != "A" {
		t.Error("clone shares committed records")
	}
	if state.pending[1].Answer != "" {
		t.Error("clone shares pending records")
	}
	if state.Document.Name != "a.md" {
		t.Error("clone shares the document")
	}
	if len(state.Records) != 1 {
		t.Error("clone shares the records map")
	}
	if c.ID != state.ID || c.CurrentIndex != 1 || Current(c).Question != "Q2" {
		t.Errorf("clone lost state: %+v", c)
	}
}
