package evalrepo

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/solarcook/internal/domain/efficiency"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id               UUID PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL,
	avg_radiation    DOUBLE PRECISION,
	tw2_with_pcm     DOUBLE PRECISION,
	tw2_without_pcm  DOUBLE PRECISION,
	stagnation_temp  DOUBLE PRECISION,
	include_pcm      BOOLEAN NOT NULL,
	f1               DOUBLE PRECISION,
	f2_without_pcm   DOUBLE PRECISION,
	f2_with_pcm      DOUBLE PRECISION,
	eff_without_pcm  DOUBLE PRECISION,
	eff_with_pcm     DOUBLE PRECISION
);
CREATE INDEX IF NOT EXISTS evaluations_created_at_idx ON evaluations (created_at DESC);
`

// PostgresRepository implements efficiency.HistoryRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the evaluations table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Save inserts one evaluation.
func (r *PostgresRepository) Save(ctx context.Context, rec efficiency.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluations (
			id, created_at, avg_radiation, tw2_with_pcm, tw2_without_pcm,
			stagnation_temp, include_pcm,
			f1, f2_without_pcm, f2_with_pcm, eff_without_pcm, eff_with_pcm
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, rec.ID, rec.CreatedAt, rec.AvgRadiation, rec.Tw2WithPCM, rec.Tw2WithoutPCM,
		rec.StagnationTemp, rec.IncludePCM,
		rec.Result.F1, rec.Result.F2WithoutPCM, rec.Result.F2WithPCM,
		rec.Result.EffWithoutPCM, rec.Result.EffWithPCM)
	return err
}

// Recent returns the newest evaluations first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]efficiency.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, created_at, avg_radiation, tw2_with_pcm, tw2_without_pcm,
		       stagnation_temp, include_pcm,
		       f1, f2_without_pcm, f2_with_pcm, eff_without_pcm, eff_with_pcm
		FROM evaluations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []efficiency.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (efficiency.Record, error) {
	var rec efficiency.Record
	var avg, tw2With, tw2Without sql.NullFloat64
	var tps, f1, f2wo, f2w, effWo, effWith sql.NullFloat64
	if err := row.Scan(
		&rec.ID, &rec.CreatedAt, &avg, &tw2With, &tw2Without,
		&tps, &rec.IncludePCM,
		&f1, &f2wo, &f2w, &effWo, &effWith,
	); err != nil {
		return efficiency.Record{}, err
	}
	rec.AvgRadiation = nullable(avg)
	rec.Tw2WithPCM = nullable(tw2With)
	rec.Tw2WithoutPCM = nullable(tw2Without)
	rec.StagnationTemp = nullable(tps)
	rec.Result = efficiency.Result{
		F1:            nullable(f1),
		F2WithoutPCM:  nullable(f2wo),
		F2WithPCM:     nullable(f2w),
		EffWithoutPCM: nullable(effWo),
		EffWithPCM:    nullable(effWith),
	}
	return rec, nil
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ efficiency.HistoryRepository = (*PostgresRepository)(nil)
