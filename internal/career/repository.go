package career

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"zymo/internal/store"
)

var schemas = map[string][]string{
	store.DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS career_applications (
			id           UUID PRIMARY KEY,
			email        TEXT NOT NULL,
			status       TEXT NOT NULL DEFAULT 'received',
			document     JSONB NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_career_applications_email ON career_applications(email)`,
	},
	store.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS career_applications (
			id           TEXT PRIMARY KEY,
			email        TEXT NOT NULL,
			status       TEXT NOT NULL DEFAULT 'received',
			document     TEXT NOT NULL,
			submitted_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_career_applications_email ON career_applications(email)`,
	},
}

// SQLRepository persists applications in Postgres or SQLite. The email
// column is indexed but not unique.
type SQLRepository struct {
	db *store.DB
}

// NewSQLRepository creates a repo.
func NewSQLRepository(db *store.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Migrate creates the applications table when missing.
func (r *SQLRepository) Migrate(ctx context.Context) error {
	stmts, ok := schemas[r.db.Driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", r.db.Driver)
	}
	for _, stmt := range stmts {
		if _, err := r.db.Client.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ExistsByEmail reports whether any application was stored for email.
// The match is exact.
func (r *SQLRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	row := r.db.Client.QueryRowContext(ctx, r.db.Rebind(`
		SELECT 1 FROM career_applications WHERE email = ? LIMIT 1
	`), email)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Insert writes a new application.
func (r *SQLRepository) Insert(ctx context.Context, app *Application) error {
	if app.ID == "" {
		return errors.New("application id required")
	}
	if app.Status == "" {
		app.Status = StatusReceived
	}
	doc, err := json.Marshal(app.Record)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = r.db.Client.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO career_applications (id, email, status, document, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`), app.ID, app.Email, app.Status, string(doc), app.Timestamp.UTC())
	return err
}

// Get returns a single application by id.
func (r *SQLRepository) Get(ctx context.Context, id string) (Application, error) {
	row := r.db.Client.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, status, document FROM career_applications WHERE id = ?
	`), id)
	var (
		app Application
		doc []byte
	)
	if err := row.Scan(&app.ID, &app.Status, &doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrApplicationNotFound
		}
		return Application{}, err
	}
	if err := json.Unmarshal(doc, &app.Record); err != nil {
		return Application{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	return app, nil
}

// UpdateStatus sets the application status.
func (r *SQLRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.Client.ExecContext(ctx, r.db.Rebind(`
		UPDATE career_applications SET status = ? WHERE id = ?
	`), status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
