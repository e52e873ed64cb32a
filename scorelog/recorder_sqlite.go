package scorelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-cz/ringbuf"
	_ "modernc.org/sqlite"

	"github.com/ghthor/webtris/engine"
)

type SqliteRecorder struct {
	ctx context.Context
	db  *sql.DB
}

func NewSqlite(ctx context.Context, filename string) (*SqliteRecorder, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_fk=1", filename))
	if err != nil {
		return nil, err
	}
	// every game session writes through the same handle
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			kind TEXT NOT NULL,
			msg JSON NOT NULL CHECK (json_valid(msg))
		);
		CREATE INDEX IF NOT EXISTS records_kind ON records(kind);
	`)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("error initializing sqlite table: %w", err), db.Close())
	}

	return &SqliteRecorder{
		ctx: ctx,
		db:  db,
	}, nil
}

func (r *SqliteRecorder) Close() error {
	return r.db.Close()
}

func (r *SqliteRecorder) Save(rec Recordable) (Recordable, error) {
	b, err := Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("error marshaling record: %w", err)
	}

	ts := rec.Ts()
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := r.db.ExecContext(r.ctx,
		`INSERT INTO records(ts, kind, msg) VALUES (?, ?, ?)`,
		ts.UTC().Format(time.RFC3339Nano), rec.TypeName(), string(b))
	if err != nil {
		return nil, fmt.Errorf("error saving record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading last insert id: %w", err)
	}
	return rec.SetId(id), nil
}

func (r *SqliteRecorder) query(q string, args ...any) ([]Recordable, error) {
	rows, err := r.db.QueryContext(r.ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("records query error: %w", err)
	}
	defer rows.Close()

	var recs []Recordable
	for rows.Next() {
		var (
			id  int64
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("rows scan error: %w", err)
		}
		rec, err := Unmarshal([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("json decoding record %d: %w", id, err)
		}
		recs = append(recs, rec.SetId(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows unexpected error: %w", err)
	}
	return recs, nil
}

// Recent returns the n newest records, newest first.
func (r *SqliteRecorder) Recent(n int) ([]Recordable, error) {
	return r.query(`
SELECT id, msg
FROM records
ORDER BY ts DESC, id DESC
LIMIT ?
`, n)
}

// Top returns the n best results, highest score first. Ties go to the
// earlier game.
func (r *SqliteRecorder) Top(n int) ([]Result, error) {
	recs, err := r.query(`
SELECT id, msg
FROM records
WHERE kind = ?
ORDER BY json_extract(msg, '$.Payload.Score') DESC, id ASC
LIMIT ?
`, Result{}.TypeName(), n)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(recs))
	for _, rec := range recs {
		if res, ok := rec.(Result); ok {
			results = append(results, res)
		}
	}
	return results, nil
}

// Follow subscribes to a game's events and saves a Result for every game
// over until ctx is done. The subscription exists when Follow returns; wait
// blocks until the follower stops. A follower with nothing left to read only
// wakes up on a write, so the owner of events must close it once ctx is done.
func (r *SqliteRecorder) Follow(ctx context.Context, events *ringbuf.RingBuffer[engine.Event], l *log.Logger) (wait func() error) {
	sub := events.Subscribe(ctx, &ringbuf.SubscribeOpts{
		Name:      "scorelog",
		MaxBehind: events.Size() / 2,
	})

	done := make(chan error, 1)
	go func() {
		for ev := range sub.Seq {
			res, ok := ResultOf(ev)
			if !ok {
				continue
			}
			if _, err := r.Save(res); err != nil {
				l.Error("saving result", "player", res.Player, "score", res.Score, "err", err)
				continue
			}
			l.Info("result saved", "player", res.Player, "score", res.Score, "lines", res.Lines)
		}
		err := sub.Err()
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
		done <- err
	}()
	return func() error { return <-done }
}
