package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"coursegen/internal/course"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore keeps courses in a SQLite database. The schema is migrated to
// the latest version on open.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open course database: %w", err)
	}
	// A single connection keeps ":memory:" databases visible to every statement.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	// m is not closed: closing it closes db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate course schema: %w", err)
	}
	return nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	log.Printf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return false
}

// Save replaces any course stored under the same name.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := deleteCourse(ctx, tx, snap.Name); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO courses (id, name, grid_width, grid_depth, cell_size, seed, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID.String(), snap.Name, snap.GridWidth, snap.GridDepth, snap.CellSize, snap.Seed, snap.SavedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert course %q: %w", snap.Name, err)
	}

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO course_cells (course_id, cell_index, height, zone) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cell insert: %w", err)
	}
	defer cellStmt.Close()
	for i, cell := range snap.Cells {
		if _, err := cellStmt.ExecContext(ctx, snap.ID.String(), i, cell.Height, cell.Zone.String()); err != nil {
			return fmt.Errorf("insert cell %d: %w", i, err)
		}
	}

	instStmt, err := tx.PrepareContext(ctx, `INSERT INTO course_instances
		(course_id, seq, id, parent_id, template, kind, lookup_key, pos_x, pos_y, pos_z, yaw, scale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare instance insert: %w", err)
	}
	defer instStmt.Close()
	for i, rec := range snap.Instances {
		var parent sql.NullString
		if rec.ParentID != uuid.Nil {
			parent = sql.NullString{String: rec.ParentID.String(), Valid: true}
		}
		if _, err := instStmt.ExecContext(ctx,
			snap.ID.String(), i, rec.ID.String(), parent, rec.Template, rec.Kind, rec.Key,
			rec.Position[0], rec.Position[1], rec.Position[2], rec.Yaw, rec.Scale,
		); err != nil {
			return fmt.Errorf("insert instance %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit course %q: %w", snap.Name, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (Snapshot, error) {
	var (
		snap    Snapshot
		id      string
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, grid_width, grid_depth, cell_size, seed, saved_at FROM courses WHERE name = ?`, name,
	).Scan(&id, &snap.Name, &snap.GridWidth, &snap.GridDepth, &snap.CellSize, &snap.Seed, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, notFound(name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query course %q: %w", name, err)
	}
	if snap.ID, err = uuid.Parse(id); err != nil {
		return Snapshot{}, fmt.Errorf("parse course id: %w", err)
	}
	snap.SavedAt = time.Unix(0, savedAt).UTC()

	if snap.Cells, err = s.loadCells(ctx, id); err != nil {
		return Snapshot{}, err
	}
	if snap.Instances, err = s.loadInstances(ctx, id); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadCells(ctx context.Context, courseID string) ([]course.Cell, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT height, zone FROM course_cells WHERE course_id = ? ORDER BY cell_index`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	var cells []course.Cell
	for rows.Next() {
		var (
			height float64
			zone   string
		)
		if err := rows.Scan(&height, &zone); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		z, err := course.ParseZone(zone)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", len(cells), err)
		}
		cells = append(cells, course.Cell{Height: height, Zone: z})
	}
	return cells, rows.Err()
}

func (s *SQLiteStore) loadInstances(ctx context.Context, courseID string) ([]InstanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, parent_id, template, kind, lookup_key, pos_x, pos_y, pos_z, yaw, scale
		FROM course_instances WHERE course_id = ? ORDER BY seq`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var records []InstanceRecord
	for rows.Next() {
		var (
			rec    InstanceRecord
			id     string
			parent sql.NullString
			pos    mgl64.Vec3
		)
		if err := rows.Scan(&id, &parent, &rec.Template, &rec.Kind, &rec.Key, &pos[0], &pos[1], &pos[2], &rec.Yaw, &rec.Scale); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse instance id: %w", err)
		}
		if parent.Valid {
			if rec.ParentID, err = uuid.Parse(parent.String); err != nil {
				return nil, fmt.Errorf("parse parent id: %w", err)
			}
		}
		rec.Position = pos
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM courses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query course names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan course name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if err := deleteCourse(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func deleteCourse(ctx context.Context, tx *sql.Tx, name string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM courses WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("query course %q: %w", name, err)
	}
	for _, stmt := range []string{
		`DELETE FROM course_cells WHERE course_id = ?`,
		`DELETE FROM course_instances WHERE course_id = ?`,
		`DELETE FROM courses WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete course %q: %w", name, err)
		}
	}
	return nil
}
