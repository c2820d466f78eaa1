package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/vestahome/designer-hub/internal/model"
)

// SQLiteStore implements Store on modernc.org/sqlite for local development
// and single-host deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn in WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id           TEXT PRIMARY KEY,
	market       TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	sales_person TEXT NOT NULL DEFAULT '',
	designer     TEXT NOT NULL DEFAULT '',
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS project_close_submissions (
	id           TEXT PRIMARY KEY,
	project_id   TEXT NOT NULL,
	market       TEXT NOT NULL DEFAULT '',
	address      TEXT NOT NULL DEFAULT '',
	submitted_by TEXT NOT NULL,
	submitted_at DATETIME NOT NULL,
	answers      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pcs_submitted_by ON project_close_submissions(submitted_by, submitted_at);
CREATE INDEX IF NOT EXISTS idx_pcs_project_id ON project_close_submissions(project_id);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindProject(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, market, address, sales_person, designer FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Market, &p.Address, &p.SalesPerson, &p.Designer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: find project %s", id)
	}
	return &p, nil
}

func (s *SQLiteStore) UpsertProjects(ctx context.Context, projects []model.Project) (int64, error) {
	if len(projects) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert projects")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (id, market, address, sales_person, designer, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			market = excluded.market,
			address = excluded.address,
			sales_person = excluded.sales_person,
			designer = excluded.designer,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert projects")
	}
	defer stmt.Close() //nolint:errcheck

	var n int64
	now := time.Now().UTC()
	for _, p := range projects {
		if err := p.Validate(); err != nil {
			return 0, eris.Wrap(err, "sqlite: upsert projects")
		}
		res, err := stmt.ExecContext(ctx, p.ID, p.Market, p.Address, p.SalesPerson, p.Designer, now)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert project %s", p.ID)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert projects")
	}
	return n, nil
}

func (s *SQLiteStore) InsertSubmission(ctx context.Context, payload map[string]any) (*model.Submission, error) {
	sub, answers, err := newSubmission(payload)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO project_close_submissions (id, project_id, market, address, submitted_by, submitted_at, answers) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.ProjectID, sub.Market, sub.Address, sub.SubmittedBy, sub.SubmittedAt, string(answers),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert submission")
	}
	return sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM project_close_submissions WHERE 1=1`
	var args []any
	if filter.SubmittedBy != "" {
		query += ` AND submitted_by = ?`
		args = append(args, filter.SubmittedBy)
	}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	query += ` ORDER BY submitted_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), filter.offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list submissions")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Submission
	for rows.Next() {
		sub, err := scanSQLiteSubmission(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan submission")
		}
		out = append(out, *sub)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list submissions rows")
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM project_close_submissions WHERE id = ?`, id)
	sub, err := scanSQLiteSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "sqlite: get submission %s", id)
	}
	return sub, nil
}

func scanSQLiteSubmission(row scannable) (*model.Submission, error) {
	var sub model.Submission
	var answers string
	if err := row.Scan(&sub.ID, &sub.ProjectID, &sub.Market, &sub.Address, &sub.SubmittedBy, &sub.SubmittedAt, &answers); err != nil {
		return nil, err
	}
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	if err := decodeAnswers(&sub, []byte(answers)); err != nil {
		return nil, err
	}
	return &sub, nil
}
