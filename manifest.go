package pelprep

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Stages recorded in the manifest.
const (
	StageProcess = "process"
	StageExport  = "export"
)

// Statuses recorded in the manifest.
const (
	StatusOK        = "ok"
	StatusTruncated = "truncated"
	StatusFailed    = "failed"
)

// Manifest is a sqlite database recording the outcome of every item of every
// run, so failures can be reviewed and retried later.
type Manifest struct {
	db *sql.DB
}

// Entry is one row of the manifest.
type Entry struct {
	Name       string
	Stage      string
	InputSHA1  string
	OutputSHA1 string
	Status     string
	Error      string
}

// OpenManifest opens or creates the manifest database in file.
func OpenManifest(file string) (*Manifest, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS item (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL, stage TEXT NOT NULL, input_sha1 TEXT, output_sha1 TEXT, status TEXT NOT NULL, error TEXT, UNIQUE(name, stage))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Manifest{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Record stores the outcome of r for stage, replacing any earlier outcome of
// the same item and stage.
func (m *Manifest) Record(stage string, r Result) error {
	var errText string
	if r.Err != nil {
		errText = r.Err.Error()
	}
	if _, err := m.db.Exec("INSERT OR REPLACE INTO item (name, stage, input_sha1, output_sha1, status, error) VALUES (?, ?, ?, ?, ?, ?)",
		r.Item.String(), stage, nullString(r.InputSHA1), nullString(r.OutputSHA1), r.Status(), nullString(errText)); err != nil {
		return err
	}
	return nil
}

func (m *Manifest) query(query string, args ...interface{}) ([]Entry, error) {
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var in, out, errText sql.NullString
		if err := rows.Scan(&e.Name, &e.Stage, &in, &out, &e.Status, &errText); err != nil {
			return nil, err
		}
		e.InputSHA1, e.OutputSHA1, e.Error = in.String, out.String, errText.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Entries returns every row ordered by stage and insertion.
func (m *Manifest) Entries() ([]Entry, error) {
	return m.query("SELECT name, stage, input_sha1, output_sha1, status, error FROM item ORDER BY stage, id")
}

// Failures returns the rows of failed items.
func (m *Manifest) Failures() ([]Entry, error) {
	return m.query("SELECT name, stage, input_sha1, output_sha1, status, error FROM item WHERE status = ? ORDER BY stage, id", StatusFailed)
}
