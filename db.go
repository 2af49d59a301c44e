package pixelcode

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/bodgit/pixelcode/metadata"
	_ "github.com/mattn/go-sqlite3"
)

// CodeDB stores the code mapping and the metadata mapping
type CodeDB struct {
	db *sql.DB
}

// NewCodeDB opens or creates the database in file
func NewCodeDB(file string) (*CodeDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS code (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sequence (code_id INTEGER NOT NULL, position INTEGER NOT NULL, value TEXT NOT NULL, PRIMARY KEY(code_id, position), FOREIGN KEY(code_id) REFERENCES code(id) ON DELETE CASCADE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS metadata (code TEXT PRIMARY KEY NOT NULL, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS row_code (label TEXT NOT NULL, position INTEGER NOT NULL, value TEXT NOT NULL, PRIMARY KEY(label, position))"); err != nil {
		return nil, err
	}

	return &CodeDB{
		db: db,
	}, nil
}

// Close closes the database
func (db *CodeDB) Close() error {
	return db.db.Close()
}

func readFile(file string, v interface{}) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

// ImportCodes replaces the code mapping with the contents of a codes.json
// file. Keys are normalized as by Normalize.
func (db *CodeDB) ImportCodes(file string) error {
	var codes map[string][]string
	if err := readFile(file, &codes); err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM sequence"); err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM code"); err != nil {
		return err
	}

	for key, seq := range Normalize(codes) {
		if err := addSequence(tx, key, seq); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ImportPixels replaces the metadata mapping with the contents of a
// pixels.json file
func (db *CodeDB) ImportPixels(file string) error {
	meta := metadata.New()
	if err := readFile(file, meta); err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM metadata"); err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM row_code"); err != nil {
		return err
	}

	for _, c := range meta.Keys() {
		v, _ := meta.Metadata(c)
		if _, err := tx.Exec("INSERT INTO metadata (code, data) VALUES (?, ?)", c, []byte(v)); err != nil {
			return err
		}
	}

	for label, codes := range meta.Rows() {
		for i, c := range codes {
			if _, err := tx.Exec("INSERT INTO row_code (label, position, value) VALUES (?, ?, ?)", label, i, c); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func addSequence(e execer, key string, seq []string) error {
	var id int64
	switch err := e.QueryRow("SELECT id FROM code WHERE name = ?", key).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := e.Exec("INSERT INTO code (name) VALUES (?)", key)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
	case nil:
		if _, err := e.Exec("DELETE FROM sequence WHERE code_id = ?", id); err != nil {
			return err
		}
	default:
		return err
	}

	for i, s := range seq {
		if _, err := e.Exec("INSERT INTO sequence (code_id, position, value) VALUES (?, ?, ?)", id, i, s); err != nil {
			return err
		}
	}

	return nil
}

// AddSequence stores seq under key, replacing any existing sequence
func (db *CodeDB) AddSequence(key string, seq []string) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := addSequence(tx, Key(key), seq); err != nil {
		return err
	}

	return tx.Commit()
}

// Sequence returns the sequence stored under key
func (db *CodeDB) Sequence(key string) ([]string, bool, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM code WHERE name = ?", Key(key)).Scan(&id); err {
	case sql.ErrNoRows:
		return nil, false, nil
	case nil:
	default:
		return nil, false, err
	}

	rows, err := db.db.Query("SELECT value FROM sequence WHERE code_id = ? ORDER BY position", id)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	seq := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, false, err
		}
		seq = append(seq, s)
	}

	return seq, true, rows.Err()
}

func (db *CodeDB) codes() (map[string][]string, error) {
	codes := make(map[string][]string)

	keys, err := db.db.Query("SELECT name FROM code")
	if err != nil {
		return nil, err
	}
	defer keys.Close()

	for keys.Next() {
		var key string
		if err := keys.Scan(&key); err != nil {
			return nil, err
		}
		codes[key] = []string{}
	}
	if err := keys.Err(); err != nil {
		return nil, err
	}

	rows, err := db.db.Query("SELECT c.name, s.value FROM sequence AS s JOIN code AS c ON s.code_id = c.id ORDER BY c.name, s.position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		codes[key] = append(codes[key], value)
	}

	return codes, rows.Err()
}

func (db *CodeDB) metadata() (*metadata.DB, error) {
	meta := metadata.New()

	entries, err := db.db.Query("SELECT code, data FROM metadata")
	if err != nil {
		return nil, err
	}
	defer entries.Close()

	for entries.Next() {
		var c string
		var data []byte
		if err := entries.Scan(&c, &data); err != nil {
			return nil, err
		}
		if err := meta.Set(c, data); err != nil {
			return nil, err
		}
	}
	if err := entries.Err(); err != nil {
		return nil, err
	}

	rows, err := db.db.Query("SELECT label, value FROM row_code ORDER BY label, position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]string)
	for rows.Next() {
		var label, value string
		if err := rows.Scan(&label, &value); err != nil {
			return nil, err
		}
		grouped[label] = append(grouped[label], value)
	}
	for label, codes := range grouped {
		meta.SetRow(label, codes)
	}

	return meta, rows.Err()
}

// Snapshot loads both mappings into memory
func (db *CodeDB) Snapshot() (*Snapshot, error) {
	codes, err := db.codes()
	if err != nil {
		return nil, err
	}

	meta, err := db.metadata()
	if err != nil {
		return nil, err
	}

	return NewSnapshot(codes, meta), nil
}

// ExportCodes writes the code mapping to w in codes.json form
func (db *CodeDB) ExportCodes(w io.Writer) error {
	codes, err := db.codes()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(codes)
}
