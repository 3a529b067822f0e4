package glitch

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlInsertRun = `INSERT INTO runs (id, tool, input, output, seed, params, created) VALUES (:id, :tool, :input, :output, :seed, :params, :created) ON CONFLICT (id) DO UPDATE SET output=EXCLUDED.output, params=EXCLUDED.params;`
	sqlGetRuns   = `SELECT id,tool,input,output,seed,params,created FROM runs`
)

// OpenJournal given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenJournal(fname string) (*Journal, error) {
	fname, err := ExpandPath(fname)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	j := &Journal{db: db, filename: fname}
	if err := j.init(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// Journal remembers every image the tools have written, along with the
// seed & settings used, so a good result can be made again.
type Journal struct {
	filename string
	db       *sqlx.DB
}

// Run is a single invocation of a tool
type Run struct {
	ID      string
	Tool    string
	Input   string
	Output  string
	Seed    int64
	Params  *Params
	Created time.Time
}

// Filename returns the path to the journal on disk
func (j *Journal) Filename() string {
	return j.filename
}

// Close the underlying database
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record a run. Missing IDs & creation times are filled in.
func (j *Journal) Record(r *Run) error {
	if r.Created.IsZero() {
		r.Created = time.Now()
	}
	if r.ID == "" {
		r.ID = fmt.Sprintf("%s-%d-%04d", r.Tool, r.Created.UnixNano(), rand.Intn(10000))
	}

	row, err := newDBRun(r)
	if err != nil {
		return err
	}

	_, err = j.db.NamedExec(sqlInsertRun, row)
	return err
}

// Runs returns up to `limit` runs, newest first. An empty tool matches
// every tool & a limit below 1 returns everything.
func (j *Journal) Runs(tool string, limit int) ([]*Run, error) {
	qstr := sqlGetRuns
	if tool != "" {
		qstr += " WHERE tool=:tool"
	}
	qstr += " ORDER BY created DESC"
	if limit > 0 {
		qstr += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.NamedQuery(qstr+";", map[string]interface{}{"tool": tool})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Run{}
	r := dbRun{}
	for rows.Next() {
		err = rows.StructScan(&r)
		if err != nil {
			return nil, err
		}

		run, err := r.toRun()
		if err != nil {
			return nil, err
		}
		result = append(result, run)
	}

	return result, rows.Err()
}

// Run returns a single run by ID, or nil if there isn't one
func (j *Journal) Run(id string) (*Run, error) {
	rows, err := j.db.NamedQuery(sqlGetRuns+" WHERE id=:id LIMIT 1;", map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r := dbRun{}
	for rows.Next() { // there's at most one due to LIMIT 1
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		return r.toRun()
	}
	return nil, rows.Err()
}

// init creates our table if it doesn't exist
func (j *Journal) init() error {
	createRuns := `CREATE TABLE IF NOT EXISTS runs(
		id TEXT PRIMARY KEY,
		tool TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		seed INTEGER NOT NULL,
		params TEXT,
		created INTEGER NOT NULL
	    );`
	_, err := j.db.Exec(createRuns)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(`CREATE INDEX IF NOT EXISTS runs_tool ON runs (tool, created);`)
	return err
}

// dbRun is a run as stored, params are encoded into JSON.
type dbRun struct {
	ID      string `db:"id"`
	Tool    string `db:"tool"`
	Input   string `db:"input"`
	Output  string `db:"output"`
	Seed    int64  `db:"seed"`
	Params  string `db:"params"`
	Created int64  `db:"created"`
}

// newDBRun crafts a dbRun struct given a run
func newDBRun(r *Run) (dbRun, error) {
	params := r.Params
	if params == nil {
		params = NewParams()
	}
	data, err := json.Marshal(params)
	if err != nil {
		return dbRun{}, err
	}

	return dbRun{
		ID:      r.ID,
		Tool:    r.Tool,
		Input:   r.Input,
		Output:  r.Output,
		Seed:    r.Seed,
		Params:  string(data),
		Created: r.Created.UnixNano(),
	}, nil
}

func (d *dbRun) toRun() (*Run, error) {
	params := NewParams()
	if d.Params != "" {
		if err := json.Unmarshal([]byte(d.Params), params); err != nil {
			return nil, fmt.Errorf("run %s: %w", d.ID, err)
		}
	}

	return &Run{
		ID:      d.ID,
		Tool:    d.Tool,
		Input:   d.Input,
		Output:  d.Output,
		Seed:    d.Seed,
		Params:  params,
		Created: time.Unix(0, d.Created),
	}, nil
}

// Remember records run in the journal at fpath. An empty fpath is a no-op.
func Remember(fpath string, run *Run) error {
	if fpath == "" {
		return nil
	}

	j, err := OpenJournal(fpath)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer j.Close()

	return j.Record(run)
}
