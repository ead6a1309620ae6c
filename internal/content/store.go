// Package content is the SQLite-backed store behind the desktop's content
// windows and the database status readout.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DatabaseType is reported by Status.
const DatabaseType = "SQLite"

// Tables lists the content tables in the order Status reports them.
var Tables = []string{
	"job_resources",
	"ai_tools",
	"peak_district_content",
	"waitress_toolkit",
	"journey_planning",
	"relocate_data",
	"site_content",
}

// ErrUnknownTable is returned for a table outside Tables.
var ErrUnknownTable = errors.New("unknown content table")

// Item is one row of any content table.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Rating       float64   `json:"rating,omitempty"`
	IsFeatured   bool      `json:"is_featured,omitempty"`
	LocationFrom string    `json:"location_from,omitempty"`
	LocationTo   string    `json:"location_to,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store wraps the content database.
type Store struct {
	db   *sql.DB
	path string
	log  logrus.FieldLogger
}

// Open opens (creating if needed) the database at path and seeds empty
// tables. An empty path or ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	dsn := path
	memory := path == "" || path == ":memory:"
	if memory {
		dsn = ":memory:"
		path = ":memory:"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, path: path, log: log.WithField("component", "content")}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize content store: %w", err)
	}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed content store: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) init(ctx context.Context) error {
	var b strings.Builder
	for _, table := range Tables {
		fmt.Fprintf(&b, `
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		rating REAL NOT NULL DEFAULT 0,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		location_from TEXT NOT NULL DEFAULT '',
		location_to TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_%s_category ON %s(category);
	`, table, table, table)
	}
	_, err := s.db.ExecContext(ctx, b.String())
	return err
}

func (s *Store) seed(ctx context.Context) error {
	for _, table := range Tables {
		n, err := s.Count(ctx, table)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		for _, it := range seedData[table] {
			if err := s.Insert(ctx, table, it); err != nil {
				return fmt.Errorf("%s: %w", table, err)
			}
		}
		s.log.WithFields(logrus.Fields{"table": table, "rows": len(seedData[table])}).Debug("seeded table")
	}
	return nil
}

func checkTable(table string) error {
	for _, t := range Tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

// Insert adds it to table, assigning an id and timestamp when missing.
func (s *Store) Insert(ctx context.Context, table string, it Item) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if strings.TrimSpace(it.Title) == "" {
		return errors.New("item title is required")
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}
	tags, err := json.Marshal(it.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	query := fmt.Sprintf(`
	INSERT INTO %s (id, title, url, description, category, tags, rating, is_featured, location_from, location_to, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, table)
	_, err = s.db.ExecContext(ctx, query,
		it.ID, it.Title, it.URL, it.Description, it.Category, string(tags),
		it.Rating, it.IsFeatured, it.LocationFrom, it.LocationTo, it.CreatedAt)
	return err
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

// List returns every row of table ordered by rating, then title.
func (s *Store) List(ctx context.Context, table string) ([]Item, error) {
	return s.query(ctx, table, "1=1", "rating DESC, title ASC")
}

func (s *Store) query(ctx context.Context, table, where, order string, args ...any) ([]Item, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
	SELECT id, title, url, description, category, tags, rating, is_featured, location_from, location_to, created_at
	FROM %s WHERE %s ORDER BY %s
	`, table, where, order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var tags string
		if err := rows.Scan(&it.ID, &it.Title, &it.URL, &it.Description, &it.Category,
			&tags, &it.Rating, &it.IsFeatured, &it.LocationFrom, &it.LocationTo, &it.CreatedAt); err != nil {
			return nil, err
		}
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &it.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
