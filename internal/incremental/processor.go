package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"grafo/internal/store"
)

// stateStore is the subset of *store.DB the processor needs, narrowed to
// keep this package testable without a real SQLite file.
type stateStore interface {
	GetProcessingState(projectID string) (store.ProcessingState, bool, error)
	UpsertProcessingState(store.ProcessingState) error
}

// Processor evaluates one project at a time against its prior recorded
// state.
type Processor struct {
	db stateStore
}

// NewProcessor builds a Processor backed by db.
func NewProcessor(db stateStore) *Processor {
	return &Processor{db: db}
}

// ContentHash is the canonical SHA-256 digest of a project's node
// sub-stream, hex-encoded.
func ContentHash(nodeStream []byte) string {
	sum := sha256.Sum256(nodeStream)
	return hex.EncodeToString(sum[:])
}

// Evaluate computes projectID's content hash over nodeStream, compares it
// to the stored state, and persists the updated state unless the project
// is unchanged. A Skipped outcome leaves the stored state untouched, since
// nothing new was ingested.
func (p *Processor) Evaluate(projectID, solution, layer string, nodeStream []byte) (Outcome, error) {
	hash := ContentHash(nodeStream)

	prior, existed, err := p.db.GetProcessingState(projectID)
	if err != nil {
		return "", err
	}
	if existed && prior.ContentHash == hash {
		return OutcomeSkipped, nil
	}

	outcome := OutcomeNew
	if existed {
		outcome = OutcomeUpdated
	}
	err = p.db.UpsertProcessingState(store.ProcessingState{
		ProjectID:     projectID,
		Solution:      solution,
		ContentHash:   hash,
		LastProcessed: time.Now().UTC().Format(time.RFC3339),
		Layer:         layer,
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}
