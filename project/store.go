package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT,
		created_at INTEGER NOT NULL,
		modified_at INTEGER NOT NULL,
		deleted_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS projects_owner ON projects (owner_id, modified_at);

	CREATE TABLE IF NOT EXISTS assets (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
		data BLOB NOT NULL,
		PRIMARY KEY (project_id, file_name)
	);

	CREATE TABLE IF NOT EXISTS thumbnails (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		content_type TEXT NOT NULL,
		data BLOB NOT NULL,
		modified_at INTEGER NOT NULL
	);
`

// Store keeps projects and assets in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the store's logger.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the store's time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// OpenStore opens (creating if needed) the SQLite database at dsn and
// applies the schema. Use ":memory:" for a throwaway store.
func OpenStore(dsn string, opts ...StoreOption) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if dsn == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("open store: %s: %w", p, err)
		}
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// migrate adds the deleted_at column to databases created before soft
// deletion existed, then applies the schema.
func migrate(db *sql.DB) error {
	var tables int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'projects'`).Scan(&tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if tables > 0 {
		var cols int
		err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('projects') WHERE name = 'deleted_at'`).Scan(&cols)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if cols == 0 {
			if _, err := db.Exec(`ALTER TABLE projects ADD COLUMN deleted_at INTEGER`); err != nil {
				return fmt.Errorf("migrate: deleted_at: %w", err)
			}
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateProjectID reserves a new project id for owner.
func (s *Store) CreateProjectID(ctx context.Context, owner string) (string, error) {
	id := uuid.NewString()
	ts := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, owner_id, created_at, modified_at) VALUES (?, ?, ?, ?)`,
		id, owner, ts, ts)
	if err != nil {
		return "", fmt.Errorf("create project id: %w", err)
	}
	s.logger.Info("project id created", "id", id, "owner", owner)
	return id, nil
}

// Load returns the project with id. Projects in the trash are not found.
func (s *Store) Load(ctx context.Context, id string) (Project, error) {
	var (
		p          Project
		content    sql.NullString
		createdAt  int64
		modifiedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, content, created_at, modified_at FROM projects
		 WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&p.ID, &p.OwnerID, &p.Title, &content, &createdAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("load %s: %w", id, ErrProjectNotFound)
	}
	if err != nil {
		return Project{}, fmt.Errorf("load %s: %w", id, err)
	}
	if content.Valid {
		p.Content = []byte(content.String)
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.ModifiedAt = time.Unix(0, modifiedAt).UTC()
	return p, nil
}

// ListProjects returns owner's projects, most recently modified first. With
// deleted set it lists the trash instead.
func (s *Store) ListProjects(ctx context.Context, owner string, deleted bool) ([]ProjectSummary, error) {
	q := `SELECT id, owner_id, title, created_at, modified_at, deleted_at FROM projects
		WHERE owner_id = ? AND deleted_at IS NULL ORDER BY modified_at DESC, id`
	if deleted {
		q = `SELECT id, owner_id, title, created_at, modified_at, deleted_at FROM projects
		WHERE owner_id = ? AND deleted_at IS NOT NULL ORDER BY deleted_at DESC, id`
	}
	rows, err := s.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []ProjectSummary{}
	for rows.Next() {
		var (
			p                   ProjectSummary
			createdAt, modified int64
			deletedAt           sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &createdAt, &modified, &deletedAt); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		p.CreatedAt = time.Unix(0, createdAt).UTC()
		p.ModifiedAt = time.Unix(0, modified).UTC()
		if deletedAt.Valid {
			t := time.Unix(0, deletedAt.Int64).UTC()
			p.DeletedAt = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// checkOwner looks up project id and reports whether it is in the trash.
func checkOwner(ctx context.Context, tx *sql.Tx, id, owner string) (deleted bool, err error) {
	var (
		current   string
		deletedAt sql.NullInt64
	)
	err = tx.QueryRowContext(ctx, `SELECT owner_id, deleted_at FROM projects WHERE id = ?`, id).Scan(&current, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrProjectNotFound
	}
	if err != nil {
		return false, err
	}
	if current != owner {
		return false, ErrForbidden
	}
	return deletedAt.Valid, nil
}

// trashOp runs stmt on project id once checkOwner confirms owner holds it
// and its trash state matches inTrash.
func (s *Store) trashOp(ctx context.Context, op, id, owner string, inTrash bool, stmt string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	defer tx.Rollback()

	deleted, err := checkOwner(ctx, tx, id, owner)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if deleted != inTrash {
		return fmt.Errorf("%s %s: %w", op, id, ErrProjectNotFound)
	}
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s %s: commit: %w", op, id, err)
	}
	s.logger.Info("project lifecycle", "op", op, "id", id, "owner", owner)
	return nil
}

// DeleteProject moves project id to the trash. Its content and assets are
// kept until DestroyProject.
func (s *Store) DeleteProject(ctx context.Context, id, owner string) error {
	return s.trashOp(ctx, "delete", id, owner, false,
		`UPDATE projects SET deleted_at = ? WHERE id = ?`, s.now().UnixNano(), id)
}

// RestoreProject takes project id out of the trash.
func (s *Store) RestoreProject(ctx context.Context, id, owner string) error {
	return s.trashOp(ctx, "restore", id, owner, true,
		`UPDATE projects SET deleted_at = NULL WHERE id = ?`, id)
}

// DestroyProject permanently removes a project in the trash together with
// its assets and thumbnail.
func (s *Store) DestroyProject(ctx context.Context, id, owner string) error {
	return s.trashOp(ctx, "destroy", id, owner, true,
		`DELETE FROM projects WHERE id = ?`, id)
}

// SaveThumbnail stores the preview image of project id.
func (s *Store) SaveThumbnail(ctx context.Context, id, owner string, img Image) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("save thumbnail %s: %w", id, ErrEmptyThumbnail)
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save thumbnail %s: %w", id, err)
	}
	defer tx.Rollback()

	deleted, err := checkOwner(ctx, tx, id, owner)
	if err == nil && deleted {
		err = ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("save thumbnail %s: %w", id, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO thumbnails (project_id, content_type, data, modified_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_id) DO UPDATE SET content_type = excluded.content_type, data = excluded.data, modified_at = excluded.modified_at`,
		id, contentType, img.Data, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("save thumbnail %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save thumbnail %s: commit: %w", id, err)
	}
	s.logger.Debug("thumbnail saved", "id", id, "bytes", len(img.Data))
	return nil
}

// Thumbnail returns the preview image of project id.
func (s *Store) Thumbnail(ctx context.Context, id string) (Image, error) {
	var img Image
	err := s.db.QueryRowContext(ctx,
		`SELECT t.content_type, t.data FROM thumbnails t JOIN projects p ON p.id = t.project_id
		 WHERE t.project_id = ? AND p.deleted_at IS NULL`, id,
	).Scan(&img.ContentType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Image{}, fmt.Errorf("thumbnail %s: %w", id, ErrThumbnailNotFound)
	}
	if err != nil {
		return Image{}, fmt.Errorf("thumbnail %s: %w", id, err)
	}
	return img, nil
}

// Save creates or updates the project with id on behalf of owner. Projects
// owned by someone else are rejected with ErrForbidden.
func (s *Store) Save(ctx context.Context, id, owner string, req SaveRequest) (Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Project{}, fmt.Errorf("save %s: %w", id, err)
	}
	defer tx.Rollback()

	ts := s.now().UnixNano()
	deleted, err := checkOwner(ctx, tx, id, owner)
	switch {
	case errors.Is(err, ErrProjectNotFound):
		var title string
		if req.Name != nil {
			title = *req.Name
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO projects (id, owner_id, title, content, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, owner, title, nullableJSON(req.Content), ts, ts)
	case err != nil:
	case deleted:
		err = ErrProjectNotFound
	default:
		if req.Name != nil {
			if _, err = tx.ExecContext(ctx, `UPDATE projects SET title = ? WHERE id = ?`, *req.Name, id); err != nil {
				break
			}
		}
		if req.Content != nil {
			if _, err = tx.ExecContext(ctx, `UPDATE projects SET content = ? WHERE id = ?`, string(req.Content), id); err != nil {
				break
			}
		}
		_, err = tx.ExecContext(ctx, `UPDATE projects SET modified_at = ? WHERE id = ?`, ts, id)
	}
	if err != nil {
		return Project{}, fmt.Errorf("save %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return Project{}, fmt.Errorf("save %s: commit: %w", id, err)
	}
	s.logger.Info("project saved", "id", id, "owner", owner)
	return s.Load(ctx, id)
}

func nullableJSON(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

// SaveAsset stores (or replaces) a file of project id.
func (s *Store) SaveAsset(ctx context.Context, a Asset) error {
	if err := checkAssetName(a.FileName); err != nil {
		return err
	}
	if _, err := s.Load(ctx, a.ProjectID); err != nil {
		return fmt.Errorf("save asset %s: %w", a.FileName, err)
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (project_id, file_name, content_type, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_id, file_name) DO UPDATE SET content_type = excluded.content_type, data = excluded.data`,
		a.ProjectID, a.FileName, contentType, a.Data)
	if err != nil {
		return fmt.Errorf("save asset %s: %w", a.FileName, err)
	}
	s.logger.Debug("asset saved", "project", a.ProjectID, "file", a.FileName, "bytes", len(a.Data))
	return nil
}

// Asset returns a stored file.
func (s *Store) Asset(ctx context.Context, projectID, fileName string) (Asset, error) {
	a := Asset{ProjectID: projectID, FileName: fileName}
	err := s.db.QueryRowContext(ctx,
		`SELECT content_type, data FROM assets WHERE project_id = ? AND file_name = ?`, projectID, fileName,
	).Scan(&a.ContentType, &a.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, fmt.Errorf("asset %s: %w", fileName, ErrAssetNotFound)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("asset %s: %w", fileName, err)
	}
	return a, nil
}

// RenameAsset renames a stored file.
func (s *Store) RenameAsset(ctx context.Context, projectID, oldName, newName string) error {
	if err := checkAssetName(newName); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE assets SET file_name = ? WHERE project_id = ? AND file_name = ?`, newName, projectID, oldName)
	if err != nil {
		return fmt.Errorf("rename asset %s: %w", oldName, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rename asset %s: %w", oldName, ErrAssetNotFound)
	}
	return nil
}

// DeleteAsset removes a stored file.
func (s *Store) DeleteAsset(ctx context.Context, projectID, fileName string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM assets WHERE project_id = ? AND file_name = ?`, projectID, fileName)
	if err != nil {
		return fmt.Errorf("delete asset %s: %w", fileName, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete asset %s: %w", fileName, ErrAssetNotFound)
	}
	return nil
}

func checkAssetName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
