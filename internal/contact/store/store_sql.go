package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"contactbook/internal/contact/models"
	"contactbook/pkg/platform/tx"
)

// Drivers recognised by SQLStore. Postgres drivers batch phone inserts with unnest.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id       TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name     TEXT NOT NULL UNIQUE,
		birthday TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS contact_phones (
		contact_id TEXT NOT NULL REFERENCES contacts(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		phone      TEXT NOT NULL,
		PRIMARY KEY (contact_id, position)
	)`,
}

// SQLStore persists the directory in two tables. Save replaces the whole
// state in one transaction.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQL wraps db; driver is the name db was opened with.
func NewSQL(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Migrate creates the schema when it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate contacts schema: %w", err)
		}
	}
	return nil
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLStore) conn(ctx context.Context) queryer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *SQLStore) Load(ctx context.Context) (models.Snapshot, error) {
	q := s.conn(ctx)

	rows, err := q.QueryContext(ctx, `SELECT id, name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load contacts: %w", err)
	}
	snap := models.EmptySnapshot()
	index := make(map[string]int)
	for rows.Next() {
		var c models.ContactSnapshot
		if err := rows.Scan(&c.ID, &c.Name, &c.Birthday); err != nil {
			rows.Close()
			return models.Snapshot{}, fmt.Errorf("scan contact: %w", err)
		}
		c.Phones = []string{}
		index[c.ID] = len(snap.Contacts)
		snap.Contacts = append(snap.Contacts, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return models.Snapshot{}, fmt.Errorf("iterate contacts: %w", err)
	}
	rows.Close()

	phones, err := q.QueryContext(ctx, `SELECT contact_id, phone FROM contact_phones ORDER BY contact_id, position`)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("load phones: %w", err)
	}
	defer phones.Close()
	for phones.Next() {
		var contactID, phone string
		if err := phones.Scan(&contactID, &phone); err != nil {
			return models.Snapshot{}, fmt.Errorf("scan phone: %w", err)
		}
		i, ok := index[contactID]
		if !ok {
			continue
		}
		snap.Contacts[i].Phones = append(snap.Contacts[i].Phones, phone)
	}
	if err := phones.Err(); err != nil {
		return models.Snapshot{}, fmt.Errorf("iterate phones: %w", err)
	}
	return snap, nil
}

// Save replaces every row. When ctx already carries a transaction (tx.WithTx)
// the writes join it and the caller owns commit.
func (s *SQLStore) Save(ctx context.Context, snapshot models.Snapshot) error {
	if _, ok := tx.From(ctx); ok {
		return s.replace(ctx, snapshot)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if err := s.replace(tx.WithTx(ctx, sqlTx), snapshot); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLStore) replace(ctx context.Context, snapshot models.Snapshot) error {
	q := s.conn(ctx)
	if _, err := q.ExecContext(ctx, `DELETE FROM contact_phones`); err != nil {
		return fmt.Errorf("clear phones: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}
	for i, c := range snapshot.Contacts {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO contacts (id, position, name, birthday) VALUES ($1, $2, $3, $4)`,
			c.ID, i, c.Name, c.Birthday,
		); err != nil {
			return fmt.Errorf("insert contact %s: %w", c.Name, err)
		}
		if err := s.insertPhones(ctx, q, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLStore) insertPhones(ctx context.Context, q queryer, c models.ContactSnapshot) error {
	if len(c.Phones) == 0 {
		return nil
	}
	if s.driver == DriverPgx || s.driver == DriverPostgres {
		_, err := q.ExecContext(ctx,
			`INSERT INTO contact_phones (contact_id, position, phone)
			 SELECT $1, t.ord - 1, t.phone FROM unnest($2::text[]) WITH ORDINALITY AS t(phone, ord)`,
			c.ID, pq.Array(c.Phones),
		)
		if err != nil {
			return fmt.Errorf("insert phones for %s: %w", c.Name, err)
		}
		return nil
	}
	for pos, phone := range c.Phones {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO contact_phones (contact_id, position, phone) VALUES ($1, $2, $3)`,
			c.ID, pos, phone,
		); err != nil {
			return fmt.Errorf("insert phone for %s: %w", c.Name, err)
		}
	}
	return nil
}
