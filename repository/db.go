package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS prescriptions (
	patient_id   UUID PRIMARY KEY,
	name         TEXT,
	age          TEXT,
	gender       TEXT,
	visit_date   DATE,
	doctor_notes TEXT,
	raw_ocr_text TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Open builds a pgx pool from the DSN and verifies connectivity with a ping.
func Open(ctx context.Context, dsn string, maxConns, minConns int32, logger zerolog.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pc.MaxConns = maxConns
	pc.MinConns = minConns
	pc.ConnConfig.RuntimeParams["application_name"] = "prescription-ocr"

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info().Msg("connected to database")
	return pool, nil
}

// Migrate creates the prescriptions table if it does not exist. The primary
// key doubles as the uniqueness guarantee for patient identifiers.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
