package store

import (
	"database/sql"
	"errors"
)

// ProcessingState is one project's persisted row in processing_states, the
// state IncrementalProcessor (C10) diffs each run's content hash against.
type ProcessingState struct {
	ProjectID     string
	Solution      string
	ContentHash   string
	LastProcessed string
	Layer         string
}

// GetProcessingState looks up a project's prior state. ok is false when the
// project has never been ingested.
func (db *DB) GetProcessingState(projectID string) (ProcessingState, bool, error) {
	var s ProcessingState
	row := db.conn.QueryRow(`SELECT project_id, solution, content_hash, last_processed, layer
		FROM processing_states WHERE project_id = ?`, projectID)
	err := row.Scan(&s.ProjectID, &s.Solution, &s.ContentHash, &s.LastProcessed, &s.Layer)
	if errors.Is(err, sql.ErrNoRows) {
		return ProcessingState{}, false, nil
	}
	if err != nil {
		return ProcessingState{}, false, err
	}
	return s, true, nil
}

// CountProjects returns how many distinct projects have a persisted
// processing state for solution, for C10's `totalInDb` summary field.
func (db *DB) CountProjects(solution string) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM processing_states WHERE solution = ?`, solution).Scan(&count)
	return count, err
}

// UpsertProcessingState records a project's content hash as of this run.
func (db *DB) UpsertProcessingState(s ProcessingState) error {
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO processing_states (project_id, solution, content_hash, last_processed, layer)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(project_id) DO UPDATE SET solution = excluded.solution,
				content_hash = excluded.content_hash, last_processed = excluded.last_processed, layer = excluded.layer`,
			s.ProjectID, s.Solution, s.ContentHash, s.LastProcessed, s.Layer)
		return err
	})
}
