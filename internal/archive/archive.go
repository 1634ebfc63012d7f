package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitegraph/sitegraph/internal/graph"
)

// FileName is the archive database file name inside the data directory.
const FileName = "sitegraph.db"

// ErrCrawlNotFound is returned when a crawl ID does not exist in the archive.
var ErrCrawlNotFound = errors.New("archive: crawl not found")

// Archive stores crawl results in a SQLite database.
type Archive struct {
	db     *sql.DB
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent reads.
	EnableWAL bool
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the crawl archive in dir.
// With CreateIfNotExists unset, a missing database is an error instead.
func Open(dir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	// mode=rw forbids implicit file creation; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// SQLite supports a single writer; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the path of the underlying database file.
func (a *Archive) Path() string {
	return a.dbPath
}

// createTables creates the archive schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- One row per recorded crawl
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_url TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_root ON crawls(root_url);
	CREATE INDEX IF NOT EXISTS idx_crawls_started ON crawls(started_at);

	-- Graph nodes: one row per page per crawl
	CREATE TABLE IF NOT EXISTS pages (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		text_content TEXT NOT NULL,
		PRIMARY KEY (crawl_id, url)
	);

	-- Graph edges: one row per weighted link per crawl
	CREATE TABLE IF NOT EXISTS links (
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		weight INTEGER NOT NULL,
		PRIMARY KEY (crawl_id, source, target)
	);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// CrawlRecord summarizes one archived crawl.
type CrawlRecord struct {
	ID        int64
	RootURL   string
	StartedAt time.Time
	NodeCount int
	EdgeCount int
}

// RecordCrawl stores a completed crawl and its graph in one transaction.
// It returns the new crawl's ID.
func (a *Archive) RecordCrawl(ctx context.Context, rootURL string, g *graph.Graph) (int64, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO crawls (root_url, node_count, edge_count) VALUES (?, ?, ?)`,
		rootURL, g.NodeCount(), g.EdgeCount(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert crawl: %w", err)
	}
	crawlID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("crawl id: %w", err)
	}

	for i, n := range g.Nodes() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (crawl_id, position, url, text_content) VALUES (?, ?, ?, ?)`,
			crawlID, i, n.URL, n.TextContent,
		); err != nil {
			return 0, fmt.Errorf("insert page %s: %w", n.URL, err)
		}
	}
	for i, e := range g.Edges() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (crawl_id, position, source, target, weight) VALUES (?, ?, ?, ?, ?)`,
			crawlID, i, e.Source, e.Target, e.Weight,
		); err != nil {
			return 0, fmt.Errorf("insert link %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit crawl: %w", err)
	}
	return crawlID, nil
}

// Crawls returns the most recent crawl records, newest first.
// limit <= 0 means no limit.
func (a *Archive) Crawls(ctx context.Context, limit int) ([]CrawlRecord, error) {
	query := `
	SELECT id, root_url, started_at, node_count, edge_count
	FROM crawls
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query crawls: %w", err)
	}
	defer rows.Close()

	var records []CrawlRecord
	for rows.Next() {
		var rec CrawlRecord
		var startedAt string
		if err := rows.Scan(&rec.ID, &rec.RootURL, &startedAt, &rec.NodeCount, &rec.EdgeCount); err != nil {
			return nil, fmt.Errorf("scan crawl: %w", err)
		}
		rec.StartedAt = parseTimestamp(startedAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate crawls: %w", err)
	}
	return records, nil
}

// LoadGraph rebuilds the full weighted graph of an archived crawl.
// Edge weights are restored as stored, unlike the node-link JSON load path.
func (a *Archive) LoadGraph(ctx context.Context, crawlID int64) (*graph.Graph, error) {
	var exists int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crawls WHERE id = ?`, crawlID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("look up crawl %d: %w", crawlID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("crawl %d: %w", crawlID, ErrCrawlNotFound)
	}

	g := graph.New()

	rows, err := a.db.QueryContext(ctx,
		`SELECT url, text_content FROM pages WHERE crawl_id = ? ORDER BY position`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var url, text string
		if err := rows.Scan(&url, &text); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		g.AddNode(url, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	edgeRows, err := a.db.QueryContext(ctx,
		`SELECT source, target, weight FROM links WHERE crawl_id = ? ORDER BY position`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var source, target string
		var weight int
		if err := edgeRows.Scan(&source, &target, &weight); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		for range weight {
			if err := g.IncrementEdge(source, target); err != nil {
				return nil, fmt.Errorf("restore link %s -> %s: %w", source, target, err)
			}
		}
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return g, nil
}

// parseTimestamp parses SQLite timestamps, which vary in format depending on
// how the value was written.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
