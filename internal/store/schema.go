package store

import "database/sql"

// currentSchemaVersion tracks the store's schema generation.
// v1: nodes, metadata, statistics, processing_states.
const currentSchemaVersion = 1

func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		statements := []string{
			`CREATE TABLE schema_version (version INTEGER NOT NULL)`,
			`INSERT INTO schema_version (version) VALUES (1)`,

			`CREATE TABLE nodes (
				id TEXT PRIMARY KEY,
				solution TEXT NOT NULL,
				type TEXT NOT NULL,
				project TEXT,
				fully_qualified_name TEXT,
				document TEXT NOT NULL
			)`,
			`CREATE INDEX idx_nodes_type ON nodes(type)`,
			`CREATE INDEX idx_nodes_project ON nodes(project)`,
			`CREATE INDEX idx_nodes_fqn ON nodes(fully_qualified_name)`,
			`CREATE INDEX idx_nodes_solution_type ON nodes(solution, type)`,
			// Sparse indexes: only rows whose document actually carries the
			// relationship field are indexed.
			`CREATE INDEX idx_nodes_calls ON nodes(json_extract(document, '$.calls')) WHERE json_extract(document, '$.calls') IS NOT NULL`,
			`CREATE INDEX idx_nodes_uses ON nodes(json_extract(document, '$.uses')) WHERE json_extract(document, '$.uses') IS NOT NULL`,
			`CREATE INDEX idx_nodes_implements ON nodes(json_extract(document, '$.implements')) WHERE json_extract(document, '$.implements') IS NOT NULL`,
			`CREATE INDEX idx_nodes_inherits ON nodes(json_extract(document, '$.inherits')) WHERE json_extract(document, '$.inherits') IS NOT NULL`,
			`CREATE INDEX idx_nodes_contains ON nodes(json_extract(document, '$.contains')) WHERE json_extract(document, '$.contains') IS NOT NULL`,

			`CREATE TABLE metadata (
				id TEXT PRIMARY KEY,
				solution TEXT NOT NULL UNIQUE,
				document TEXT NOT NULL
			)`,

			`CREATE TABLE statistics (
				id TEXT PRIMARY KEY,
				solution TEXT NOT NULL UNIQUE,
				document TEXT NOT NULL
			)`,

			`CREATE TABLE processing_states (
				project_id TEXT PRIMARY KEY,
				solution TEXT NOT NULL,
				content_hash TEXT NOT NULL,
				last_processed TEXT NOT NULL,
				layer TEXT
			)`,
			`CREATE INDEX idx_processing_states_solution ON processing_states(solution)`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// runMigrations is a no-op today; it exists so a future schema bump has a
// home without changing Open's control flow.
func (db *DB) runMigrations() error {
	row := db.conn.QueryRow(`SELECT version FROM schema_version`)
	var version int
	if err := row.Scan(&version); err != nil {
		return err
	}
	if version > currentSchemaVersion {
		db.logger.Warn("store schema is newer than this binary understands", map[string]interface{}{
			"stored_version": version, "binary_version": currentSchemaVersion,
		})
	}
	return nil
}
