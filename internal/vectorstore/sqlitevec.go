package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

var identSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SQLiteVecStore is the embedded Vector Store backend, generalized from
// the teacher's internal/store package: SQLite + the sqlite-vec
// extension, one records table and one vec0 virtual table per
// collection, sharing a single database file.
type SQLiteVecStore struct {
	db         *sql.DB
	collection string
}

// OpenSQLiteVec opens (creating if needed) a SQLite database at dbPath
// for the given collection name.
func OpenSQLiteVec(dbPath, collection string) (*SQLiteVecStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open vector store db: %w", err)
	}
	return &SQLiteVecStore{db: db, collection: identSanitizer.ReplaceAllString(collection, "_")}, nil
}

func (s *SQLiteVecStore) recordsTable() string { return "records_" + s.collection }
func (s *SQLiteVecStore) vecTable() string      { return "vec_" + s.collection }

func (s *SQLiteVecStore) EnsureCollection(ctx context.Context, dimension int) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id            TEXT PRIMARY KEY,
    path          TEXT NOT NULL,
    start_line    INTEGER NOT NULL,
    end_line      INTEGER NOT NULL,
    content_hash  TEXT NOT NULL,
    node_type     TEXT NOT NULL DEFAULT '',
    symbol_name   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS %s_path_idx ON %s (path);
CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(
    id TEXT PRIMARY KEY,
    embedding float[%d]
);
`, s.recordsTable(), s.recordsTable(), s.recordsTable(), s.vecTable(), dimension)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *SQLiteVecStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	recStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, path, start_line, end_line, content_hash, node_type, symbol_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   path=excluded.path, start_line=excluded.start_line, end_line=excluded.end_line,
		   content_hash=excluded.content_hash, node_type=excluded.node_type, symbol_name=excluded.symbol_name`,
		s.recordsTable()))
	if err != nil {
		return err
	}
	defer recStmt.Close()

	vecStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, embedding) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET embedding=excluded.embedding`,
		s.vecTable()))
	if err != nil {
		return err
	}
	defer vecStmt.Close()

	for _, r := range records {
		p := r.Payload
		if _, err := recStmt.ExecContext(ctx, r.ID, p.Path, p.StartLine, p.EndLine, p.ContentHash, p.NodeType, p.SymbolName); err != nil {
			return fmt.Errorf("upsert record %s: %w", r.ID, err)
		}
		blob, err := sqlite_vec.SerializeFloat32(r.Vector)
		if err != nil {
			return fmt.Errorf("serialize embedding for %s: %w", r.ID, err)
		}
		if _, err := vecStmt.ExecContext(ctx, r.ID, blob); err != nil {
			return fmt.Errorf("upsert embedding %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteVecStore) DeleteByPaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	placeholders := make([]any, len(paths))
	inClause := ""
	for i, p := range paths {
		placeholders[i] = p
		if i > 0 {
			inClause += ","
		}
		inClause += "?"
	}

	idRows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE path IN (%s)", s.recordsTable(), inClause), placeholders...)
	if err != nil {
		return err
	}
	var ids []string
	for idRows.Next() {
		var id string
		if err := idRows.Scan(&id); err != nil {
			idRows.Close()
			return err
		}
		ids = append(ids, id)
	}
	idRows.Close()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.vecTable()), id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE path IN (%s)", s.recordsTable(), inClause), placeholders...); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteVecStore) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT v.id, v.distance, r.path, r.start_line, r.end_line, r.content_hash, r.node_type, r.symbol_name
		FROM %s v
		JOIN %s r ON r.id = v.id
		WHERE v.embedding MATCH ?
		ORDER BY v.distance
		LIMIT ?
	`, s.vecTable(), s.recordsTable()), blob, k)
	if err != nil {
		// A missing collection (not yet created by any index run) yields
		// zero results rather than an error.
		return nil, nil
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var distance float64
		if err := rows.Scan(&h.ID, &distance, &h.Payload.Path, &h.Payload.StartLine, &h.Payload.EndLine,
			&h.Payload.ContentHash, &h.Payload.NodeType, &h.Payload.SymbolName); err != nil {
			return nil, err
		}
		// vec0 distance is L2 over unit vectors; convert to cosine
		// similarity: cos = 1 - distance^2/2.
		h.Score = 1 - (distance*distance)/2
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (s *SQLiteVecStore) DeleteCollection(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s; DROP TABLE IF EXISTS %s;", s.vecTable(), s.recordsTable()))
	return err
}

func (s *SQLiteVecStore) Close() error {
	return s.db.Close()
}
