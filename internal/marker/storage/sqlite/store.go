package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

const schema = `
CREATE TABLE IF NOT EXISTS marker_sessions (
	session_id    TEXT PRIMARY KEY,
	mode          TEXT NOT NULL,
	started_at_ns INTEGER NOT NULL,
	ended_at_ns   INTEGER
);

CREATE TABLE IF NOT EXISTS marker_pose_observations (
	session_id   TEXT NOT NULL REFERENCES marker_sessions(session_id),
	marker_id    INTEGER NOT NULL,
	target       TEXT NOT NULL,
	ts_unix_nanos INTEGER NOT NULL,
	x  REAL NOT NULL,
	y  REAL NOT NULL,
	z  REAL NOT NULL,
	qw REAL NOT NULL,
	qx REAL NOT NULL,
	qy REAL NOT NULL,
	qz REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pose_obs_session
	ON marker_pose_observations(session_id, marker_id, ts_unix_nanos);
`

// Session groups the observations of one coordinator run.
type Session struct {
	SessionID   string
	Mode        string
	StartedAtNs int64
	EndedAtNs   *int64
}

// PoseObservation is one applied pose for one marker in one frame.
type PoseObservation struct {
	SessionID   string
	MarkerID    int
	Target      string
	TSUnixNanos int64
	X, Y, Z     float64
	QW, QX, QY  float64
	QZ          float64
}

// Pose reconstructs the stored placement.
func (o PoseObservation) Pose() marker.Pose {
	return marker.Pose{
		Position:    r3.Vec{X: o.X, Y: o.Y, Z: o.Z},
		Orientation: r3.Rotation(quat.Number{Real: o.QW, Imag: o.QX, Jmag: o.QY, Kmag: o.QZ}),
	}
}

// Store persists sessions and pose observations. It implements the
// pipeline's ObservationSink once a session has been started.
type Store struct {
	db      *sql.DB
	session *Session
}

// Open opens (or creates) the database at path, applies the standard
// pragmas and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database handle, ensuring the schema exists.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// BeginSession records the start of a coordinator run and makes the store
// ready to accept observations.
func (s *Store) BeginSession(mode string) (Session, error) {
	sess := Session{
		SessionID:   uuid.New().String(),
		Mode:        mode,
		StartedAtNs: time.Now().UnixNano(),
	}
	_, err := s.db.Exec(
		`INSERT INTO marker_sessions (session_id, mode, started_at_ns) VALUES (?, ?, ?)`,
		sess.SessionID, sess.Mode, sess.StartedAtNs,
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	s.session = &sess
	return sess, nil
}

// EndSession stamps the active session's end time.
func (s *Store) EndSession() error {
	if s.session == nil {
		return nil
	}
	now := time.Now().UnixNano()
	_, err := s.db.Exec(
		`UPDATE marker_sessions SET ended_at_ns = ? WHERE session_id = ?`,
		now, s.session.SessionID,
	)
	if err != nil {
		return fmt.Errorf("end session %s: %w", s.session.SessionID, err)
	}
	s.session.EndedAtNs = &now
	s.session = nil
	return nil
}

// RecordPose persists one applied pose under the active session.
func (s *Store) RecordPose(markerID int, target string, pose marker.Pose) error {
	if s.session == nil {
		return fmt.Errorf("record pose: no active session")
	}
	q := quat.Number(pose.Orientation)
	_, err := s.db.Exec(
		`INSERT INTO marker_pose_observations
			(session_id, marker_id, target, ts_unix_nanos, x, y, z, qw, qx, qy, qz)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.session.SessionID, markerID, target, time.Now().UnixNano(),
		pose.Position.X, pose.Position.Y, pose.Position.Z,
		q.Real, q.Imag, q.Jmag, q.Kmag,
	)
	if err != nil {
		return fmt.Errorf("insert observation marker %d: %w", markerID, err)
	}
	return nil
}

// SessionObservations returns every observation of a session in insertion
// order.
func (s *Store) SessionObservations(sessionID string) ([]PoseObservation, error) {
	rows, err := s.db.Query(
		`SELECT session_id, marker_id, target, ts_unix_nanos, x, y, z, qw, qx, qy, qz
		FROM marker_pose_observations
		WHERE session_id = ?
		ORDER BY ts_unix_nanos, marker_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []PoseObservation
	for rows.Next() {
		var o PoseObservation
		if err := rows.Scan(&o.SessionID, &o.MarkerID, &o.Target, &o.TSUnixNanos,
			&o.X, &o.Y, &o.Z, &o.QW, &o.QX, &o.QY, &o.QZ); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Sessions lists all recorded sessions, newest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT session_id, mode, started_at_ns, ended_at_ns
		FROM marker_sessions ORDER BY started_at_ns DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var ended sql.NullInt64
		if err := rows.Scan(&sess.SessionID, &sess.Mode, &sess.StartedAtNs, &ended); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if ended.Valid {
			sess.EndedAtNs = &ended.Int64
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
