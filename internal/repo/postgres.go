package repo

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/google/uuid"
	"github.com/tinoosan/ja4gate/internal/data"
)

// PostgresRepo implements SightingRepo backed by PostgreSQL. It expects a
// table `sightings` with a unique index on `fingerprint`.
type PostgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo constructs a repository using the provided DSN.
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	r := &PostgresRepo{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewPostgresRepoFromEnv constructs a DSN using component env vars.
// Recognized envs (with defaults):
//
//	POSTGRES_HOST (postgres), POSTGRES_PORT (5432), POSTGRES_DB (ja4gate),
//	POSTGRES_USER (ja4gate), POSTGRES_PASSWORD (empty), POSTGRES_SSLMODE (disable)
//
// Credentials and db name are URL-encoded to handle special characters safely.
func NewPostgresRepoFromEnv() (*PostgresRepo, error) {
	host := getenv("POSTGRES_HOST", "postgres")
	port := getenv("POSTGRES_PORT", "5432")
	db := getenv("POSTGRES_DB", "ja4gate")
	user := getenv("POSTGRES_USER", "ja4gate")
	pass := getenv("POSTGRES_PASSWORD", "")
	ssl := getenv("POSTGRES_SSLMODE", "disable")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	q := url.Values{}
	q.Set("sslmode", ssl)
	u.RawQuery = q.Encode()
	return NewPostgresRepo(u.String())
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func (r *PostgresRepo) Close() error { return r.db.Close() }

func (r *PostgresRepo) ensureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS sightings (
    id UUID PRIMARY KEY,
    fingerprint TEXT NOT NULL UNIQUE,
    raw TEXT NOT NULL DEFAULT '',
    method TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL DEFAULT '',
    remote_addr TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    first_seen TIMESTAMPTZ NOT NULL,
    last_seen TIMESTAMPTZ NOT NULL,
    hits BIGINT NOT NULL DEFAULT 1
);
`)
	return err
}

const sightingCols = `id,fingerprint,raw,method,path,remote_addr,user_agent,first_seen,last_seen,hits`

// List implements SightingReader.List
func (r *PostgresRepo) List(ctx context.Context) (data.Sightings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sightingCols+` FROM sightings ORDER BY first_seen ASC, fingerprint ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out data.Sightings
	for rows.Next() {
		s, err := scanSighting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get implements SightingReader.Get
func (r *PostgresRepo) Get(ctx context.Context, fingerprint string) (*data.Sighting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sightingCols+` FROM sightings WHERE fingerprint=$1`, fingerprint)
	s, err := scanSighting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Upsert implements atomic insert-or-bump keyed on the fingerprint.
func (r *PostgresRepo) Upsert(ctx context.Context, s *data.Sighting) (*data.Sighting, bool, error) {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	hits := s.Hits
	if hits == 0 {
		hits = 1
	}
	// Try insert; on conflict bump the counters and keep first-seen fields.
	var created bool
	row := r.db.QueryRowContext(ctx, `
INSERT INTO sightings (`+sightingCols+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (fingerprint) DO UPDATE
    SET hits = sightings.hits + 1,
        last_seen = EXCLUDED.last_seen
RETURNING `+sightingCols+`, (xmax = 0)
`, id, s.Fingerprint, s.Raw, s.Method, s.Path, s.RemoteAddr, s.UserAgent, s.FirstSeen, s.LastSeen, hits)

	saved, err := scanSightingExtra(row, &created)
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

// Helpers

type rowScanner interface{ Scan(dest ...any) error }

func scanSighting(rs rowScanner) (*data.Sighting, error) {
	var s data.Sighting
	if err := rs.Scan(&s.ID, &s.Fingerprint, &s.Raw, &s.Method, &s.Path, &s.RemoteAddr, &s.UserAgent, &s.FirstSeen, &s.LastSeen, &s.Hits); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSightingExtra(rs rowScanner, created *bool) (*data.Sighting, error) {
	var s data.Sighting
	if err := rs.Scan(&s.ID, &s.Fingerprint, &s.Raw, &s.Method, &s.Path, &s.RemoteAddr, &s.UserAgent, &s.FirstSeen, &s.LastSeen, &s.Hits, created); err != nil {
		return nil, err
	}
	return &s, nil
}
