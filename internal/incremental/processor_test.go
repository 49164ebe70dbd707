package incremental

import (
	"testing"

	"grafo/internal/store"
)

type fakeStore struct {
	states map[string]store.ProcessingState
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: make(map[string]store.ProcessingState)}
}

func (f *fakeStore) GetProcessingState(projectID string) (store.ProcessingState, bool, error) {
	s, ok := f.states[projectID]
	return s, ok, nil
}

func (f *fakeStore) UpsertProcessingState(s store.ProcessingState) error {
	f.states[s.ProjectID] = s
	return nil
}

func TestEvaluateFirstRunIsNew(t *testing.T) {
	p := NewProcessor(newFakeStore())
	outcome, err := p.Evaluate("Billing", "Billing.sln", "business", []byte(`{"id":"grafo:cls/1"}`))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if outcome != OutcomeNew {
		t.Errorf("outcome = %q, want new", outcome)
	}
}

func TestEvaluateUnchangedContentIsSkipped(t *testing.T) {
	fs := newFakeStore()
	p := NewProcessor(fs)
	content := []byte(`{"id":"grafo:cls/1"}`)

	if _, err := p.Evaluate("Billing", "Billing.sln", "business", content); err != nil {
		t.Fatalf("first Evaluate returned error: %v", err)
	}
	outcome, err := p.Evaluate("Billing", "Billing.sln", "business", content)
	if err != nil {
		t.Fatalf("second Evaluate returned error: %v", err)
	}
	if outcome != OutcomeSkipped {
		t.Errorf("outcome = %q, want skipped for identical content", outcome)
	}
}

func TestEvaluateChangedContentIsUpdated(t *testing.T) {
	fs := newFakeStore()
	p := NewProcessor(fs)

	if _, err := p.Evaluate("Billing", "Billing.sln", "business", []byte(`{"id":"grafo:cls/1"}`)); err != nil {
		t.Fatalf("first Evaluate returned error: %v", err)
	}
	outcome, err := p.Evaluate("Billing", "Billing.sln", "business", []byte(`{"id":"grafo:cls/2"}`))
	if err != nil {
		t.Fatalf("second Evaluate returned error: %v", err)
	}
	if outcome != OutcomeUpdated {
		t.Errorf("outcome = %q, want updated for changed content", outcome)
	}
}

func TestSummaryRecord(t *testing.T) {
	var s Summary
	s.Record(OutcomeNew)
	s.Record(OutcomeUpdated)
	s.Record(OutcomeSkipped)
	s.Record(OutcomeSkipped)
	if s.Files != 4 || s.New != 1 || s.Updated != 1 || s.Skipped != 2 {
		t.Errorf("summary = %+v, want Files=4 New=1 Updated=1 Skipped=2", s)
	}
}
