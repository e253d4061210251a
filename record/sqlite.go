// Package record stores simulation results in a SQLite database.
package record

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/timing/addr"
)

const createLevelsTable = `
CREATE TABLE IF NOT EXISTS levels (
	run_id              TEXT NOT NULL,
	level               TEXT NOT NULL,
	cache_size          INTEGER,
	num_sets            INTEGER,
	num_blocks_per_set  INTEGER,
	num_words_per_block INTEGER,
	addr_bits           INTEGER,
	tag_bits            INTEGER,
	index_bits          INTEGER,
	offset_bits         INTEGER,
	policy              TEXT,
	hit_latency         INTEGER,
	miss_latency        INTEGER,
	accesses            INTEGER,
	hits                INTEGER,
	misses              INTEGER,
	evictions           INTEGER,
	total_latency       INTEGER,
	PRIMARY KEY (run_id, level)
)`

const createRefsTable = `
CREATE TABLE IF NOT EXISTS refs (
	run_id      TEXT NOT NULL,
	level       TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	address     INTEGER NOT NULL,
	tag         INTEGER,
	set_index   INTEGER,
	word_offset INTEGER,
	status      TEXT NOT NULL,
	PRIMARY KEY (run_id, level, seq)
)`

const insertLevel = `INSERT INTO levels VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertRef = `INSERT INTO refs VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteRecorder writes every level it receives into a SQLite database.
// Rows of one Simulator run share a run id.
type SQLiteRecorder struct {
	*sql.DB

	dbName string
	runID  string
	closed bool
}

// NewSQLiteRecorder creates a recorder writing to path. The ".sqlite3"
// extension is added if missing. An empty path picks a unique name.
func NewSQLiteRecorder(path string) *SQLiteRecorder {
	return &SQLiteRecorder{
		dbName: path,
		runID:  xid.New().String(),
	}
}

// RunID returns the id written with every row.
func (r *SQLiteRecorder) RunID() string {
	return r.runID
}

// Path returns the database file name. It is only final after Init.
func (r *SQLiteRecorder) Path() string {
	return r.dbName
}

// Init creates the database file and its tables. The database is closed
// when the program exits through atexit.
func (r *SQLiteRecorder) Init() error {
	if r.dbName == "" {
		r.dbName = "cachesim_" + r.runID
	}
	if !strings.HasSuffix(r.dbName, ".sqlite3") {
		r.dbName += ".sqlite3"
	}

	if _, err := os.Stat(r.dbName); err == nil {
		return fmt.Errorf("file %s already exists", r.dbName)
	}

	db, err := sql.Open("sqlite3", r.dbName)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", r.dbName, err)
	}
	r.DB = db

	for _, stmt := range []string{createLevelsTable, createRefsTable} {
		if _, err := r.Exec(stmt); err != nil {
			r.DB.Close()
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	atexit.Register(func() { _ = r.Close() })

	return nil
}

// RecordLevel stores the level summary and every reference in one
// transaction.
func (r *SQLiteRecorder) RecordLevel(res *sim.LevelResult) error {
	if r.DB == nil || r.closed {
		return fmt.Errorf("recorder for %s is not open", r.dbName)
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := r.writeLevel(tx, res); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit level %s: %w", res.Name, err)
	}

	return nil
}

func (r *SQLiteRecorder) writeLevel(tx *sql.Tx, res *sim.LevelResult) error {
	g := res.Geometry
	cc := res.Cache.Config()
	stats := res.Stats()

	_, err := tx.Exec(insertLevel,
		r.runID, res.Name, cc.Size(),
		g.NumSets, g.NumBlocksPerSet, g.NumWordsPerBlock,
		g.Layout.AddrBits, g.Layout.TagBits, g.Layout.IndexBits, g.Layout.OffsetBits,
		cc.Policy.String(), int64(cc.HitLatency), int64(cc.MissLatency),
		int64(stats.Accesses), int64(stats.Hits), int64(stats.Misses),
		int64(stats.Evictions), int64(res.TotalLatency()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert level %s: %w", res.Name, err)
	}

	stmt, err := tx.Prepare(insertRef)
	if err != nil {
		return fmt.Errorf("failed to prepare reference insert: %w", err)
	}
	defer stmt.Close()

	for i, ref := range res.Refs {
		_, err := stmt.Exec(
			r.runID, res.Name, i, int64(ref.Address),
			nullable(ref.Tag), nullable(ref.Index), nullable(ref.Offset),
			ref.Status.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert reference %d of %s: %w", i, res.Name, err)
		}
	}

	return nil
}

// Close closes the database. Calling it more than once is allowed.
func (r *SQLiteRecorder) Close() error {
	if r.DB == nil || r.closed {
		return nil
	}

	r.closed = true

	return r.DB.Close()
}

func nullable(f addr.Field) any {
	if !f.Present {
		return nil
	}
	return int64(f.Value)
}
