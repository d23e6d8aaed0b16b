// Package journal records gesture outcomes to SQLite. It stores labels,
// point counts, frame numbers and matcher outcomes; stroke samples are never
// written.
package journal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/shapecast/internal/capture"
	"github.com/banshee-data/shapecast/internal/matcher"
	"github.com/banshee-data/shapecast/internal/monitoring"
	"github.com/banshee-data/shapecast/internal/shape"
	"github.com/banshee-data/shapecast/internal/timeutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var logf = monitoring.Tagged("journal")

// Journal is an append-only record of one capture session.
type Journal struct {
	db        *sql.DB
	clock     timeutil.Clock
	sessionID string
}

// MatcherEvent is one stored matcher outcome.
type MatcherEvent struct {
	MatcherID    string
	MatcherName  string
	Label        shape.Label
	Outcome      string
	Remaining    int
	RecordedAtNs int64
}

// Open opens or creates the journal database at path, applies pending
// migrations and starts a new session. Use ":memory:" for a throwaway
// journal. A nil clock uses the real clock.
func Open(path string, clock timeutil.Clock) (*Journal, error) {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	j := &Journal{db: db, clock: clock}
	if err := j.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}

	j.sessionID = uuid.New().String()
	_, err = db.Exec(
		`INSERT INTO sessions (session_id, model_version, started_at_ns) VALUES (?, ?, ?)`,
		j.sessionID, shape.ModelVersion, clock.Now().UnixNano(),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return j, nil
}

func (j *Journal) migrateUp() error {
	m, err := j.newMigrate()
	if err != nil {
		return err
	}
	// m is not closed: closing it would close j.db as well.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Version returns the applied schema version.
func (j *Journal) Version() (uint, error) {
	m, err := j.newMigrate()
	if err != nil {
		return 0, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("journal schema is dirty at version %d", version)
	}
	return version, nil
}

func (j *Journal) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(j.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// SessionID identifies the session this journal writes to.
func (j *Journal) SessionID() string { return j.sessionID }

// Close closes the database.
func (j *Journal) Close() error { return j.db.Close() }

// RecordGesture stores the outcome of one gesture.
func (j *Journal) RecordGesture(r capture.Result) error {
	_, err := j.db.Exec(`
		INSERT INTO gestures (gesture_id, session_id, label, point_count, tick, recorded_at_ns)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.GestureID, j.sessionID, r.Label.String(), r.Points, int64(r.Tick), j.clock.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert gesture %s: %w", r.GestureID, err)
	}
	return nil
}

// RecordMatcherEvent stores one matcher outcome.
func (j *Journal) RecordMatcherEvent(ev matcher.Event) error {
	_, err := j.db.Exec(`
		INSERT INTO matcher_events (session_id, matcher_id, matcher_name, label, outcome, remaining, recorded_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.sessionID, ev.MatcherID, ev.Name, ev.Label.String(), ev.Outcome.String(), len(ev.Remaining), j.clock.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert matcher event for %s: %w", ev.Name, err)
	}
	return nil
}

// OnGesture implements capture.GestureObserver. Write failures are logged.
func (j *Journal) OnGesture(r capture.Result) {
	if err := j.RecordGesture(r); err != nil {
		logf("%v", err)
	}
}

// OnMatcherEvent implements matcher.Observer. Write failures are logged.
func (j *Journal) OnMatcherEvent(ev matcher.Event) {
	if err := j.RecordMatcherEvent(ev); err != nil {
		logf("%v", err)
	}
}

// Summary returns the number of gestures per label in this session. Labels
// never drawn are absent.
func (j *Journal) Summary() (map[shape.Label]int, error) {
	rows, err := j.db.Query(
		`SELECT label, COUNT(*) FROM gestures WHERE session_id = ? GROUP BY label`,
		j.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	out := make(map[shape.Label]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		label, err := shape.ParseLabel(name)
		if err != nil {
			return nil, fmt.Errorf("summary row: %w", err)
		}
		out[label] = n
	}
	return out, rows.Err()
}

// MatcherEvents returns this session's matcher outcomes in recording order.
// An empty name returns events for every matcher.
func (j *Journal) MatcherEvents(name string) ([]MatcherEvent, error) {
	query := `
		SELECT matcher_id, matcher_name, label, outcome, remaining, recorded_at_ns
		FROM matcher_events
		WHERE session_id = ?`
	args := []interface{}{j.sessionID}
	if name != "" {
		query += ` AND matcher_name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY event_id`

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matcher events: %w", err)
	}
	defer rows.Close()

	var out []MatcherEvent
	for rows.Next() {
		var ev MatcherEvent
		var label string
		if err := rows.Scan(&ev.MatcherID, &ev.MatcherName, &label, &ev.Outcome, &ev.Remaining, &ev.RecordedAtNs); err != nil {
			return nil, fmt.Errorf("scan matcher event: %w", err)
		}
		if ev.Label, err = shape.ParseLabel(label); err != nil {
			return nil, fmt.Errorf("matcher event row: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GestureCount returns the number of gestures recorded in this session.
func (j *Journal) GestureCount() (int, error) {
	var n int
	err := j.db.QueryRow(`SELECT COUNT(*) FROM gestures WHERE session_id = ?`, j.sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count gestures: %w", err)
	}
	return n, nil
}
