package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// register the mysql driver
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/darmiel/ticketbind/internal/core"
)

var (
	_ core.SessionIndex   = (*MySQLIndex)(nil)
	_ core.SessionCreator = (*MySQLIndex)(nil)
)

// MySQLIndex persists sessions in MySQL so multiple server instances can
// share one session space.
//
// Expected schema:
//
//	CREATE TABLE sso_session (
//	    id                   VARCHAR(64)  NOT NULL PRIMARY KEY,
//	    owner                VARCHAR(255) NOT NULL,
//	    kind                 VARCHAR(16)  NOT NULL,
//	    created_at           DATETIME(3)  NOT NULL,
//	    max_lifetime_seconds BIGINT       NOT NULL
//	);
type MySQLIndex struct {
	db *sql.DB
}

// NewMySQLIndex opens a connection pool for the given DSN and verifies
// connectivity.
func NewMySQLIndex(ctx context.Context, dsn string) (*MySQLIndex, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}
	return &MySQLIndex{db: db}, nil
}

// NewMySQLIndexFromDB wraps an existing pool. Used by tests.
func NewMySQLIndexFromDB(db *sql.DB) *MySQLIndex {
	return &MySQLIndex{db: db}
}

func (i *MySQLIndex) AllSessions(ctx context.Context) ([]core.Session, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT id, owner, kind, created_at, max_lifetime_seconds
		FROM sso_session
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sessions []core.Session
	for rows.Next() {
		var (
			s               core.Session
			kind            string
			lifetimeSeconds int64
		)
		if err := rows.Scan(&s.ID, &s.Owner, &kind, &s.CreatedAt, &lifetimeSeconds); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		s.Kind = core.SessionKind(kind)
		s.MaxLifetime = time.Duration(lifetimeSeconds) * time.Second
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session rows: %w", err)
	}
	return sessions, nil
}

func (i *MySQLIndex) Create(ctx context.Context, owner string, kind core.SessionKind, maxLifetime time.Duration) (core.Session, error) {
	if owner == "" {
		return core.Session{}, fmt.Errorf("session owner must not be empty")
	}

	prefix := "TGT"
	if kind == core.KindProxyGranted {
		prefix = "PGT"
	}

	s := core.Session{
		ID:          fmt.Sprintf("%s-%s", prefix, uuid.NewString()),
		Owner:       owner,
		CreatedAt:   time.Now().UTC(),
		MaxLifetime: maxLifetime,
		Kind:        kind,
	}

	_, err := i.db.ExecContext(ctx, `
		INSERT INTO sso_session (id, owner, kind, created_at, max_lifetime_seconds)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.Owner, string(s.Kind), s.CreatedAt, int64(s.MaxLifetime/time.Second))
	if err != nil {
		return core.Session{}, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

func (i *MySQLIndex) Remove(ctx context.Context, id string) error {
	if _, err := i.db.ExecContext(ctx, `DELETE FROM sso_session WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session past its configured lifetime and
// returns how many rows were removed.
func (i *MySQLIndex) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := i.db.ExecContext(ctx, `
		DELETE FROM sso_session
		WHERE created_at + INTERVAL max_lifetime_seconds SECOND <= ?
	`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return deleted, nil
}

// Close releases the underlying connection pool.
func (i *MySQLIndex) Close() error {
	return i.db.Close()
}
