package store

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"grafo/internal/logging"
)

// batchSize is the flush threshold for node upserts.
const batchSize = 1000

// nodeLine is the subset of a node document's fields the store needs to
// populate its indexed scalar columns; the full document is kept verbatim
// in the JSON blob column.
type nodeLine struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	Project            string   `json:"project"`
	FullName           string   `json:"fullName"`
	Contains           []string `json:"contains"`
	HasMember          []string `json:"hasMember"`
	Calls              []string `json:"calls"`
	Implements         []string `json:"implements"`
	Inherits           []string `json:"inherits"`
	Uses               []string `json:"uses"`
}

// metadataLine is the stream's first line.
type metadataLine struct {
	Context           string `json:"context"`
	Type              string `json:"type"`
	GeneratedAt       string `json:"generatedAt"`
	SolutionPath      string `json:"solutionPath"`
	ToolVersion       string `json:"toolVersion"`
	NodeCount         int    `json:"nodeCount"`
	RelationshipCount int    `json:"relationshipCount"`
}

// IngestResult is the outcome of one ingest stream.
type IngestResult struct {
	NodesExported      int
	MetadataExported   bool
	StatisticsExported bool
	Duration           time.Duration
	Error              error
}

// IngestStream parses an NDJSON-LD node stream and upserts it into the
// store under solutionName: the metadata line seeds the metadata table,
// every subsequent line is a node upsert, and a statistics document is
// computed from what was actually written and upserted last, so that a
// reader observing only the metadata document is guaranteed every
// referenced node is already present (node writes preceding the
// here: node writes are flushed in each batch before the function returns
// and writes metadata/statistics).
func (db *DB) IngestStream(r io.Reader, solutionName string, logger *logging.Logger) IngestResult {
	start := time.Now()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return IngestResult{Duration: time.Since(start), Error: fmt.Errorf("empty node stream")}
	}
	var meta metadataLine
	if err := json.Unmarshal(scanner.Bytes(), &meta); err != nil {
		return IngestResult{Duration: time.Since(start), Error: fmt.Errorf("metadata line: %w", err)}
	}

	nodesByType := map[string]int{}
	edgesByRelationship := map[string]int{}

	batch := make([]nodeRow, 0, batchSize)
	flushed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		// A failed batch is written again, up to three attempts in all.
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			if err = db.upsertNodeBatch(batch); err == nil {
				break
			}
		}
		if err != nil {
			return err
		}
		flushed += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var n nodeLine
		if err := json.Unmarshal(line, &n); err != nil {
			if logger != nil {
				logger.Warn("skipping unparseable node line", map[string]interface{}{"error": err.Error()})
			}
			continue
		}

		nodesByType[n.Type]++
		edgesByRelationship["contains"] += len(n.Contains)
		edgesByRelationship["hasMember"] += len(n.HasMember)
		edgesByRelationship["calls"] += len(n.Calls)
		edgesByRelationship["implements"] += len(n.Implements)
		edgesByRelationship["inherits"] += len(n.Inherits)
		edgesByRelationship["uses"] += len(n.Uses)

		batch = append(batch, nodeRow{
			id: n.ID, solution: solutionName, typ: n.Type,
			project: n.Project, fqn: n.FullName, document: string(line),
		})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return IngestResult{Duration: time.Since(start), Error: err}
			}
		}
	}
	if err := flush(); err != nil {
		return IngestResult{Duration: time.Since(start), Error: err}
	}
	if err := scanner.Err(); err != nil {
		return IngestResult{NodesExported: flushed, Duration: time.Since(start), Error: err}
	}

	if err := db.upsertMetadata(solutionName, meta); err != nil {
		return IngestResult{NodesExported: flushed, Duration: time.Since(start), Error: err}
	}
	if err := db.upsertStatistics(solutionName, nodesByType, edgesByRelationship); err != nil {
		return IngestResult{NodesExported: flushed, MetadataExported: true, Duration: time.Since(start), Error: err}
	}

	return IngestResult{
		NodesExported:      flushed,
		MetadataExported:   true,
		StatisticsExported: true,
		Duration:           time.Since(start),
	}
}

type nodeRow struct {
	id, solution, typ, project, fqn, document string
}

func (db *DB) upsertNodeBatch(rows []nodeRow) error {
	return db.WithTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO nodes (id, solution, type, project, fully_qualified_name, document)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET solution = excluded.solution, type = excluded.type,
				project = excluded.project, fully_qualified_name = excluded.fully_qualified_name,
				document = excluded.document`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.Exec(row.id, row.solution, row.typ, row.project, row.fqn, row.document); err != nil {
				return fmt.Errorf("upsert node %s: %w", row.id, err)
			}
		}
		return nil
	})
}

func (db *DB) upsertMetadata(solutionName string, meta metadataLine) error {
	doc := map[string]interface{}{
		"context":           meta.Context,
		"generatedAt":       meta.GeneratedAt,
		"solutionPath":      meta.SolutionPath,
		"toolVersion":       meta.ToolVersion,
		"nodeCount":         meta.NodeCount,
		"relationshipCount": meta.RelationshipCount,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	id := "grafo:sln/" + solutionName
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO metadata (id, solution, document) VALUES (?, ?, ?)
			ON CONFLICT(solution) DO UPDATE SET document = excluded.document`, id, solutionName, string(body))
		return err
	})
}

func (db *DB) upsertStatistics(solutionName string, nodesByType, edgesByRelationship map[string]int) error {
	doc := map[string]interface{}{
		"nodesByType":         nodesByType,
		"edgesByRelationship": edgesByRelationship,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	id := "stats:" + solutionName
	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO statistics (id, solution, document) VALUES (?, ?, ?)
			ON CONFLICT(solution) DO UPDATE SET document = excluded.document`, id, solutionName, string(body))
		return err
	})
}

// DeleteSolution purges every node, plus the metadata and statistics
// documents, belonging to solutionName.
func (db *DB) DeleteSolution(solutionName string) error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM nodes WHERE solution = ?`, solutionName); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM metadata WHERE solution = ?`, solutionName); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM statistics WHERE solution = ?`, solutionName); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM processing_states WHERE solution = ?`, solutionName); err != nil {
			return err
		}
		return nil
	})
}
