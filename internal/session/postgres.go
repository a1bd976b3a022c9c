package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/matching-cli/internal/model"
)

// pgxPool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store over a pgx connection pool, for deployments
// where matching requests may land on different instances.
type PostgresStore struct {
	pool pgxPool
	ttl  time.Duration
}

// NewPostgres connects to the given database and prepares the schema.
func NewPostgres(ctx context.Context, connString string, ttl time.Duration) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "session: connect postgres")
	}

	s := &PostgresStore{pool: pool, ttl: ttl}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS matching_sessions (
	id         TEXT PRIMARY KEY,
	state      JSONB NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matching_sessions_expires_at ON matching_sessions(expires_at);
`

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "session: migrate")
}

func (s *PostgresStore) Put(ctx context.Context, id string, state *model.SessionState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "session: marshal state")
	}

	ttl := s.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO matching_sessions (id, state, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET state = $2, expires_at = $3`,
		id, encoded, time.Now().Add(ttl),
	)
	return eris.Wrapf(err, "session: put %s", id)
}

func (s *PostgresStore) Update(ctx context.Context, id string, state *model.SessionState) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return eris.Wrap(err, "session: marshal state")
	}

	ttl := s.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE matching_sessions SET state = $2, expires_at = $3
		 WHERE id = $1 AND expires_at > now()`,
		id, encoded, time.Now().Add(ttl),
	)
	if err != nil {
		return eris.Wrapf(err, "session: update %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.SessionState, error) {
	var encoded []byte
	err := s.pool.QueryRow(ctx,
		`SELECT state FROM matching_sessions WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&encoded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "session: get %s", id)
	}

	var state model.SessionState
	if err := json.Unmarshal(encoded, &state); err != nil {
		return nil, eris.Wrap(err, "session: unmarshal state")
	}
	return &state, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM matching_sessions WHERE id = $1`, id)
	return eris.Wrapf(err, "session: delete %s", id)
}

// DeleteExpired removes expired rows and returns their ids so callers can
// clean up per-session resources such as upload files. Intended to be run
// periodically.
func (s *PostgresStore) DeleteExpired(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`DELETE FROM matching_sessions WHERE expires_at <= now() RETURNING id`)
	if err != nil {
		return nil, eris.Wrap(err, "session: delete expired")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "session: scan expired id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "session: iterate expired ids")
	}
	return ids, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
