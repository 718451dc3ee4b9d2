// Package manifest records discovery results in a SQLite database so other
// tools can inspect what a bundle configuration resolved to.
package manifest

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/cassette/internal/bundle"
)

const schema = `
CREATE TABLE IF NOT EXISTS modules (
	id INTEGER PRIMARY KEY,
	source TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS assets (
	module_id INTEGER NOT NULL REFERENCES modules(id),
	path TEXT NOT NULL,
	file TEXT NOT NULL,
	size INTEGER DEFAULT 0,
	mtime INTEGER NOT NULL DEFAULT 0
);
`

// Writer appends modules to a manifest database. Rows are written in
// batched transactions; Close commits the last batch.
type Writer struct {
	db         *sql.DB
	tx         *sql.Tx
	stmtModule *sql.Stmt
	stmtAsset  *sql.Stmt
	batchSize  int
	count      int
	mu         sync.Mutex
}

// NewWriter opens (creating if needed) the manifest at dbPath.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{
		db:        db,
		batchSize: 1000,
	}
	if err := w.beginTx(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) beginTx() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	w.stmtModule, err = w.tx.Prepare(`INSERT INTO modules (source, kind, path) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	w.stmtAsset, err = w.tx.Prepare(`INSERT INTO assets (module_id, path, file, size, mtime) VALUES (?, ?, ?, ?, ?)`)
	return err
}

func (w *Writer) commitTx() error {
	if w.stmtModule != nil {
		_ = w.stmtModule.Close()
	}
	if w.stmtAsset != nil {
		_ = w.stmtAsset.Close()
	}
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Add records module and its assets under the given source name.
func (w *Writer) Add(sourceName string, m *bundle.Module) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.stmtModule.Exec(sourceName, string(m.Kind()), m.Path())
	if err != nil {
		return fmt.Errorf("insert module %s: %w", m.Path(), err)
	}
	moduleID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert module %s: %w", m.Path(), err)
	}

	for _, a := range m.Assets() {
		var (
			file  string
			size  int64
			mtime int64
		)
		if f := a.File(); f != nil {
			file = f.Path()
			if info, err := f.Stat(); err == nil {
				size = info.Size()
				mtime = info.ModTime().UnixNano()
			}
		}
		if _, err := w.stmtAsset.Exec(moduleID, a.Path(), file, size, mtime); err != nil {
			return fmt.Errorf("insert asset %s: %w", a.Path(), err)
		}
	}

	w.count++
	if w.count >= w.batchSize {
		if err := w.commitTx(); err != nil {
			return err
		}
		if err := w.beginTx(); err != nil {
			return err
		}
		w.count = 0
	}
	return nil
}

// Close commits pending rows and closes the database.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.commitTx(); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_assets_module ON assets(module_id)`); err != nil {
		_ = w.db.Close()
		return fmt.Errorf("create index: %w", err)
	}
	return w.db.Close()
}
