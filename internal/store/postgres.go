package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdlee-quant/rebound/internal/contracts"
)

// PostgresStore persists run history in PostgreSQL. Position detail is
// stored as JSONB alongside scalar columns used for querying.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the history tables when they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			as_of       DATE PRIMARY KEY,
			cash        DOUBLE PRECISION NOT NULL,
			positions   JSONB NOT NULL,
			closed      JSONB NOT NULL,
			skipped     JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS screening_results (
			as_of       DATE PRIMARY KEY,
			top_k       INTEGER NOT NULL,
			excluded    INTEGER NOT NULL,
			records     JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AppendRun writes the snapshot and screening result in one
// transaction. The primary key on as_of enforces append-only history;
// a conflict surfaces as DuplicateRunError with nothing written.
func (s *PostgresStore) AppendRun(ctx context.Context, snapshot *contracts.PortfolioSnapshot, screening *contracts.ScreeningResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	positions, err := json.Marshal(snapshot.Positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}
	closed, err := json.Marshal(snapshot.Closed)
	if err != nil {
		return fmt.Errorf("failed to marshal closed positions: %w", err)
	}
	skipped, err := json.Marshal(snapshot.Skipped)
	if err != nil {
		return fmt.Errorf("failed to marshal skipped buys: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO portfolio_snapshots (as_of, cash, positions, closed, skipped)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshot.AsOf, snapshot.Cash, positions, closed, skipped)
	if err != nil {
		if isUniqueViolation(err) {
			return &contracts.DuplicateRunError{AsOf: snapshot.AsOf}
		}
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if screening != nil {
		records, err := json.Marshal(screening.Candidates.Records)
		if err != nil {
			return fmt.Errorf("failed to marshal screening records: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO screening_results (as_of, top_k, excluded, records)
			VALUES ($1, $2, $3, $4)
		`, screening.AsOf, screening.TopK, screening.Candidates.Excluded, records)
		if err != nil {
			if isUniqueViolation(err) {
				return &contracts.DuplicateRunError{AsOf: screening.AsOf}
			}
			return fmt.Errorf("failed to insert screening result: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// HasRun reports whether a snapshot exists for the date.
func (s *PostgresStore) HasRun(ctx context.Context, asOf time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM portfolio_snapshots WHERE as_of = $1)",
		asOf,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check run existence: %w", err)
	}
	return exists, nil
}

// LatestSnapshot returns the newest snapshot, or nil when the history
// is empty.
func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*contracts.PortfolioSnapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT as_of, cash, positions, closed, skipped
		FROM portfolio_snapshots
		ORDER BY as_of DESC
		LIMIT 1
	`)

	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return snap, err
}

// SnapshotRange returns snapshots inside [from, to], oldest first.
func (s *PostgresStore) SnapshotRange(ctx context.Context, from, to time.Time) ([]contracts.PortfolioSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT as_of, cash, positions, closed, skipped
		FROM portfolio_snapshots
		WHERE as_of BETWEEN $1 AND $2
		ORDER BY as_of ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []contracts.PortfolioSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}

// LatestScreening returns the newest screening result, or nil when none
// is recorded.
func (s *PostgresStore) LatestScreening(ctx context.Context) (*contracts.ScreeningResult, error) {
	var (
		asOf     time.Time
		topK     int
		excluded int
		raw      []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT as_of, top_k, excluded, records
		FROM screening_results
		ORDER BY as_of DESC
		LIMIT 1
	`).Scan(&asOf, &topK, &excluded, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query screening result: %w", err)
	}

	var records []contracts.DrawdownRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screening records: %w", err)
	}

	return &contracts.ScreeningResult{
		AsOf: asOf,
		TopK: topK,
		Candidates: contracts.CandidateList{
			AsOf:     asOf,
			Records:  records,
			Excluded: excluded,
		},
	}, nil
}

func scanSnapshot(row pgx.Row) (*contracts.PortfolioSnapshot, error) {
	var (
		snap                      contracts.PortfolioSnapshot
		positions, closed, skipped []byte
	)
	if err := row.Scan(&snap.AsOf, &snap.Cash, &positions, &closed, &skipped); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if err := json.Unmarshal(positions, &snap.Positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	if err := json.Unmarshal(closed, &snap.Closed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal closed positions: %w", err)
	}
	if err := json.Unmarshal(skipped, &snap.Skipped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skipped buys: %w", err)
	}
	return &snap, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
