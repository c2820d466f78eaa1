package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/vestahome/designer-hub/internal/db"
	"github.com/vestahome/designer-hub/internal/model"
)

// Schemas names the Postgres schemas holding each table.
type Schemas struct {
	Projects    string `yaml:"projects_schema" mapstructure:"projects_schema"`
	Submissions string `yaml:"submissions_schema" mapstructure:"submissions_schema"`
}

func (s Schemas) withDefaults() Schemas {
	if s.Projects == "" {
		s.Projects = DefaultProjectsSchema
	}
	if s.Submissions == "" {
		s.Submissions = DefaultSubmissionsSchema
	}
	return s
}

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	schemas Schemas
	closeFn func()

	projects    string
	submissions string
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres connects to connString and returns a store over it.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig, schemas Schemas) (*PostgresStore, error) {
	cfg := db.PoolConfig{URL: connString, MaxConns: 10, MinConns: 2}
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			cfg.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			cfg.MinConns = poolCfg.MinConns
		}
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	s := NewPostgresWithPool(pool, schemas)
	s.closeFn = pool.Close
	return s, nil
}

// NewPostgresWithPool wraps an existing pool. The caller keeps ownership.
func NewPostgresWithPool(pool db.Pool, schemas Schemas) *PostgresStore {
	schemas = schemas.withDefaults()
	return &PostgresStore{
		pool:        pool,
		schemas:     schemas,
		projects:    db.Table(schemas.Projects, ProjectsTable),
		submissions: db.Table(schemas.Submissions, SubmissionsTable),
	}
}

// Pool returns the underlying pool for bulk helpers.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

func (s *PostgresStore) migration() string {
	var b strings.Builder
	for _, schema := range []string{s.schemas.Projects, s.schemas.Submissions} {
		fmt.Fprintf(&b, "CREATE SCHEMA IF NOT EXISTS %s;\n", pgx.Identifier{schema}.Sanitize())
	}
	fmt.Fprintf(&b, `
CREATE TABLE IF NOT EXISTS %[1]s (
	id           TEXT PRIMARY KEY,
	market       TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	sales_person TEXT NOT NULL DEFAULT '',
	designer     TEXT NOT NULL DEFAULT '',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[2]s (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	project_id   TEXT NOT NULL,
	market       TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	submitted_by TEXT NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	answers      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pcs_submitted_by ON %[2]s (submitted_by, submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_pcs_project_id ON %[2]s (project_id);
`, s.projects, s.submissions)
	return b.String()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, s.migration())
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) FindProject(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := s.pool.QueryRow(ctx,
		`SELECT id, market, address, sales_person, designer FROM `+s.projects+` WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Market, &p.Address, &p.SalesPerson, &p.Designer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: find project %s", id)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertProjects(ctx context.Context, projects []model.Project) (int64, error) {
	rows := make([][]any, 0, len(projects))
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			return 0, eris.Wrap(err, "postgres: upsert projects")
		}
		rows = append(rows, []any{p.ID, p.Market, p.Address, p.SalesPerson, p.Designer, time.Now().UTC()})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Schema:       s.schemas.Projects,
		Table:        ProjectsTable,
		Columns:      []string{"id", "market", "address", "sales_person", "designer", "updated_at"},
		ConflictKeys: []string{"id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert projects")
	}
	return n, nil
}

func (s *PostgresStore) InsertSubmission(ctx context.Context, payload map[string]any) (*model.Submission, error) {
	sub, answers, err := newSubmission(payload)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.submissions+` (id, project_id, market, address, submitted_by, submitted_at, answers) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.ProjectID, sub.Market, sub.Address, sub.SubmittedBy, sub.SubmittedAt, answers,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert submission")
	}
	return sub, nil
}

const submissionColumns = `id, project_id, market, address, submitted_by, submitted_at, answers`

func (s *PostgresStore) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM ` + s.submissions + ` WHERE 1=1`
	var args []any
	if filter.SubmittedBy != "" {
		args = append(args, filter.SubmittedBy)
		query += fmt.Sprintf(` AND submitted_by = $%d`, len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(` AND project_id = $%d`, len(args))
	}
	args = append(args, filter.limit(), filter.offset())
	query += fmt.Sprintf(` ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list submissions")
	}
	defer rows.Close()

	var out []model.Submission
	for rows.Next() {
		sub, err := scanPostgresSubmission(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan submission")
		}
		out = append(out, *sub)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list submissions rows")
}

func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+submissionColumns+` FROM `+s.submissions+` WHERE id = $1`, id)
	sub, err := scanPostgresSubmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "postgres: get submission %s", id)
	}
	return sub, nil
}

func scanPostgresSubmission(row scannable) (*model.Submission, error) {
	var sub model.Submission
	var answers []byte
	if err := row.Scan(&sub.ID, &sub.ProjectID, &sub.Market, &sub.Address, &sub.SubmittedBy, &sub.SubmittedAt, &answers); err != nil {
		return nil, err
	}
	if err := decodeAnswers(&sub, answers); err != nil {
		return nil, err
	}
	return &sub, nil
}
