package servagri

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for news
// items and project showcases.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS news (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    full_content TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    is_featured INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    full_content TEXT NOT NULL DEFAULT '',
    images TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'draft',
    is_featured INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);
`)
	return err
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ListNews returns all news items in insertion order. Consumers impose
// their own ordering.
func (s *Store) ListNews() ([]NewsItem, error) {
	rows, err := s.db.Query(`SELECT id, title, date, excerpt, full_content, image, category, status, is_featured, version, created_at FROM news`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NewsItem
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// GetNews returns a single news item by id.
func (s *Store) GetNews(id int) (NewsItem, error) {
	row := s.db.QueryRow(`SELECT id, title, date, excerpt, full_content, image, category, status, is_featured, version, created_at FROM news WHERE id = ?`, id)
	n, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return NewsItem{}, fmt.Errorf("news %d: %w", id, ErrNotFound)
	}
	return n, err
}

// CreateNews inserts a news item, letting the store assign id, version,
// and creation timestamp, and returns the stored row.
func (s *Store) CreateNews(n NewsItem) (NewsItem, error) {
	if err := n.Validate(); err != nil {
		return NewsItem{}, err
	}
	if n.Status == "" {
		n.Status = StatusDraft
	}
	n.Version = 1
	n.CreatedAt = now()
	res, err := s.db.Exec(`INSERT INTO news (title, date, excerpt, full_content, image, category, status, is_featured, version, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Title, n.Date, n.Excerpt, n.FullContent, n.Image, n.Category, n.Status, boolToInt(n.IsFeatured), n.Version, n.CreatedAt)
	if err != nil {
		return NewsItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NewsItem{}, err
	}
	n.ID = int(id)
	return n, nil
}

// UpdateNews replaces all mutable fields of the row matching n.ID,
// provided n.Version matches the stored version. The stored version is
// bumped and the fresh row returned. A stale version yields ErrConflict,
// an unknown id ErrNotFound.
func (s *Store) UpdateNews(n NewsItem) (NewsItem, error) {
	if err := n.Validate(); err != nil {
		return NewsItem{}, err
	}
	res, err := s.db.Exec(`UPDATE news SET title = ?, date = ?, excerpt = ?, full_content = ?, image = ?, category = ?, status = ?, is_featured = ?, version = version + 1 WHERE id = ? AND version = ?`,
		n.Title, n.Date, n.Excerpt, n.FullContent, n.Image, n.Category, n.Status, boolToInt(n.IsFeatured), n.ID, n.Version)
	if err != nil {
		return NewsItem{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return NewsItem{}, err
	}
	if affected == 0 {
		return NewsItem{}, s.missOrConflict("news", n.ID)
	}
	return s.GetNews(n.ID)
}

// DeleteNews removes a news item. Deleting an unknown id is a no-op.
func (s *Store) DeleteNews(id int) error {
	_, err := s.db.Exec(`DELETE FROM news WHERE id = ?`, id)
	return err
}

// ListProjects returns all projects in insertion order.
func (s *Store) ListProjects() ([]ProjectItem, error) {
	rows, err := s.db.Query(`SELECT id, title, date, excerpt, full_content, images, status, is_featured, version, created_at FROM projects`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ProjectItem
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// GetProject returns a single project by id.
func (s *Store) GetProject(id int) (ProjectItem, error) {
	row := s.db.QueryRow(`SELECT id, title, date, excerpt, full_content, images, status, is_featured, version, created_at FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectItem{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

// CreateProject inserts a project, letting the store assign id, version,
// and creation timestamp, and returns the stored row.
func (s *Store) CreateProject(p ProjectItem) (ProjectItem, error) {
	p.Images = FilterEmpty(p.Images)
	if err := p.Validate(true); err != nil {
		return ProjectItem{}, err
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	p.Version = 1
	p.CreatedAt = now()
	images, err := encodeImageList(p.Images)
	if err != nil {
		return ProjectItem{}, err
	}
	res, err := s.db.Exec(`INSERT INTO projects (title, date, excerpt, full_content, images, status, is_featured, version, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Date, p.Excerpt, p.FullContent, images, p.Status, boolToInt(p.IsFeatured), p.Version, p.CreatedAt)
	if err != nil {
		return ProjectItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ProjectItem{}, err
	}
	p.ID = int(id)
	return p, nil
}

// UpdateProject replaces all mutable fields of the row matching p.ID under
// the same version check as UpdateNews.
func (s *Store) UpdateProject(p ProjectItem) (ProjectItem, error) {
	p.Images = FilterEmpty(p.Images)
	if err := p.Validate(false); err != nil {
		return ProjectItem{}, err
	}
	images, err := encodeImageList(p.Images)
	if err != nil {
		return ProjectItem{}, err
	}
	res, err := s.db.Exec(`UPDATE projects SET title = ?, date = ?, excerpt = ?, full_content = ?, images = ?, status = ?, is_featured = ?, version = version + 1 WHERE id = ? AND version = ?`,
		p.Title, p.Date, p.Excerpt, p.FullContent, images, p.Status, boolToInt(p.IsFeatured), p.ID, p.Version)
	if err != nil {
		return ProjectItem{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ProjectItem{}, err
	}
	if affected == 0 {
		return ProjectItem{}, s.missOrConflict("projects", p.ID)
	}
	return s.GetProject(p.ID)
}

// DeleteProject removes a project. Deleting an unknown id is a no-op.
func (s *Store) DeleteProject(id int) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	return err
}

// missOrConflict disambiguates an UPDATE that matched no rows: either the
// id does not exist, or it does and the version token was stale.
func (s *Store) missOrConflict(table string, id int) error {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%s %d: %w", table, id, ErrConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(r rowScanner) (NewsItem, error) {
	var n NewsItem
	var featured int
	if err := r.Scan(&n.ID, &n.Title, &n.Date, &n.Excerpt, &n.FullContent, &n.Image, &n.Category, &n.Status, &featured, &n.Version, &n.CreatedAt); err != nil {
		return NewsItem{}, err
	}
	n.IsFeatured = featured == 1
	return n, nil
}

func scanProject(r rowScanner) (ProjectItem, error) {
	var p ProjectItem
	var featured int
	var images string
	if err := r.Scan(&p.ID, &p.Title, &p.Date, &p.Excerpt, &p.FullContent, &images, &p.Status, &featured, &p.Version, &p.CreatedAt); err != nil {
		return ProjectItem{}, err
	}
	list, err := decodeImageList(images)
	if err != nil {
		return ProjectItem{}, err
	}
	p.Images = list
	p.IsFeatured = featured == 1
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
