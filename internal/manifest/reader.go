package manifest

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Entry is one asset row joined with its module.
type Entry struct {
	Source string
	Kind   string
	Module string
	Asset  string
	File   string
	Size   int64
}

// Stream calls fn for every asset in the manifest, in the order modules were
// added. Only one row is held at a time.
func Stream(dbPath string, fn func(Entry) error) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	rows, err := db.Query(`
		SELECT m.source, m.kind, m.path, a.path, a.file, a.size
		FROM modules m JOIN assets a ON a.module_id = m.id
		ORDER BY m.id, a.rowid`)
	if err != nil {
		return fmt.Errorf("query manifest: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Source, &e.Kind, &e.Module, &e.Asset, &e.File, &e.Size); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Load reads every entry of the manifest into memory.
func Load(dbPath string) ([]Entry, error) {
	var entries []Entry
	err := Stream(dbPath, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
