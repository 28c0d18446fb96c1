package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/prospect"
	"github.com/sells-group/prospect-cli/pkg/attom"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_scan_run":   `INSERT INTO scan_runs (id, mode, params, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"complete_scan_run": `UPDATE scan_runs SET status = $1, record_count = $2, group_count = $3, coverage = $4, summary = $5, completed_at = $6 WHERE id = $7`,
	"fail_scan_run":     `UPDATE scan_runs SET status = $1, error = $2, completed_at = $3 WHERE id = $4`,
	"get_scan_run":      `SELECT id, mode, params, status, record_count, group_count, coverage, summary, error, created_at, completed_at FROM scan_runs WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	mode         TEXT NOT NULL,
	params       JSONB NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	record_count INTEGER NOT NULL DEFAULT 0,
	group_count  INTEGER NOT NULL DEFAULT 0,
	coverage     JSONB,
	summary      TEXT,
	error        TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_scan_runs_status ON scan_runs(status);
CREATE INDEX IF NOT EXISTS idx_scan_runs_mode ON scan_runs(mode);
CREATE INDEX IF NOT EXISTS idx_scan_runs_postal ON scan_runs((params->>'postal_code'));
CREATE INDEX IF NOT EXISTS idx_scan_runs_created_at ON scan_runs(created_at DESC);

CREATE TABLE IF NOT EXISTS properties (
	attom_id         BIGINT PRIMARY KEY,
	address          TEXT,
	owner_name       TEXT,
	last_sale_amount DOUBLE PRECISION,
	last_sale_date   TEXT,
	value            DOUBLE PRECISION,
	data             JSONB NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_name);
CREATE INDEX IF NOT EXISTS idx_properties_address ON properties(address);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateScanRun(ctx context.Context, mode model.Mode, params model.ScanParams) (*model.ScanRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal params")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scan_runs (id, mode, params, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, string(mode), paramsJSON, string(model.ScanStatusRunning), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert scan run")
	}

	return &model.ScanRun{
		ID:        id,
		Mode:      mode,
		Params:    params,
		Status:    model.ScanStatusRunning,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteScanRun(ctx context.Context, runID string, outcome RunOutcome) error {
	var coverageJSON []byte
	if outcome.Coverage != nil {
		b, err := json.Marshal(outcome.Coverage)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal coverage")
		}
		coverageJSON = b
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE scan_runs SET status = $1, record_count = $2, group_count = $3, coverage = $4, summary = $5, completed_at = $6 WHERE id = $7`,
		string(model.ScanStatusComplete), outcome.RecordCount, outcome.GroupCount,
		coverageJSON, outcome.Summary, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete scan run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("scan_run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailScanRun(ctx context.Context, runID string, scanErr string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE scan_runs SET status = $1, error = $2, completed_at = $3 WHERE id = $4`,
		string(model.ScanStatusFailed), scanErr, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail scan run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("scan_run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetScanRun(ctx context.Context, runID string) (*model.ScanRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, mode, params, status, record_count, group_count, coverage, summary, error, created_at, completed_at
		 FROM scan_runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get scan run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListScanRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error) {
	query := `SELECT id, mode, params, status, record_count, group_count, coverage, summary, error, created_at, completed_at
	          FROM scan_runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Mode != "" {
		query += fmt.Sprintf(` AND mode = $%d`, argIdx)
		args = append(args, string(filter.Mode))
		argIdx++
	}
	if filter.PostalCode != "" {
		query += fmt.Sprintf(` AND params->>'postal_code' = $%d`, argIdx)
		args = append(args, filter.PostalCode)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scan runs")
	}
	defer rows.Close()

	var runs []model.ScanRun
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run row")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list scan runs iterate")
}

// UpsertProperties retains the latest merged record per property, keyed by the
// provider's stable id. Records without an id are skipped.
func (s *PostgresStore) UpsertProperties(ctx context.Context, props []attom.Property) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(props))
	for i := range props {
		p := &props[i]
		if p.Identifier == nil || p.Identifier.AttomID == nil {
			continue
		}
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal property")
		}

		var address, ownerName, saleDate *string
		var saleAmount, value *float64
		if v, ok := prospect.SitusAddress(p); ok {
			address = &v
		}
		if name, src := prospect.OwnerName(p); src != model.NameSourceUnknown {
			ownerName = &name
		}
		if v, ok := prospect.SaleAmount(p); ok {
			saleAmount = &v
		}
		if v, ok := prospect.SaleDateString(p); ok {
			saleDate = &v
		}
		if v, ok := prospect.PropertyValue(p); ok {
			value = &v
		}

		rows = append(rows, []any{
			*p.Identifier.AttomID, address, ownerName, saleAmount, saleDate, value, data, now,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "properties",
		Columns:      []string{"attom_id", "address", "owner_name", "last_sale_amount", "last_sale_date", "value", "data", "updated_at"},
		ConflictKeys: []string{"attom_id"},
	}, rows)
}

func scanPgRun(row pgx.Row) (*model.ScanRun, error) {
	var r model.ScanRun
	var paramsJSON []byte
	var coverageJSON []byte
	var summary, scanErr *string
	var completedAt *time.Time

	err := row.Scan(&r.ID, &r.Mode, &paramsJSON, &r.Status, &r.RecordCount, &r.GroupCount,
		&coverageJSON, &summary, &scanErr, &r.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.New("scan run not found")
		}
		return nil, err
	}

	if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
		return nil, eris.Wrap(err, "unmarshal params")
	}
	if coverageJSON != nil {
		r.Coverage = &model.Coverage{}
		if err := json.Unmarshal(coverageJSON, r.Coverage); err != nil {
			return nil, eris.Wrap(err, "unmarshal coverage")
		}
	}
	if summary != nil {
		r.Summary = *summary
	}
	if scanErr != nil {
		r.Error = *scanErr
	}
	r.CompletedAt = completedAt
	return &r, nil
}
