// Package sqlitestore keeps tasks in a SQLite database (pure Go driver).
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tarefas/internal/model"
	"github.com/Makepad-fr/tarefas/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS tarefas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	titulo TEXT NOT NULL,
	descricao TEXT NOT NULL,
	data TEXT NOT NULL
);
`

// Store is a SQLite-backed task store. Ids are integers rendered as strings.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, titulo, descricao, data FROM tarefas ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			id int64
			t  model.Task
		)
		if err := rows.Scan(&id, &t.Titulo, &t.Descricao, &t.Data); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.ID = model.ID(strconv.FormatInt(id, 10))
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id model.ID) (model.Task, error) {
	n, err := parseID(id)
	if err != nil {
		return model.Task{}, err
	}
	t := model.Task{ID: id}
	err = s.db.QueryRowContext(ctx, `SELECT titulo, descricao, data FROM tarefas WHERE id = ?`, n).
		Scan(&t.Titulo, &t.Descricao, &t.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, store.ErrNotFound
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t model.Task) (model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tarefas (titulo, descricao, data) VALUES (?, ?, ?)`,
		t.Titulo, t.Descricao, t.Data)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = model.ID(strconv.FormatInt(id, 10))
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id model.ID) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM tarefas WHERE id = ?`, n)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// parseID maps non-numeric ids to ErrNotFound; they can't exist here.
func parseID(id model.ID) (int64, error) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return 0, store.ErrNotFound
	}
	return n, nil
}
