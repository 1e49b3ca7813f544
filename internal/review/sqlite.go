package review

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const busyTimeout = 5000 // milliseconds

// ErrNotFound is returned when a review or thread id does not exist.
var ErrNotFound = errors.New("review: not found")

// SQLiteStore implements Store over the projection database. The schema is
// created when absent so a fresh database is usable immediately.
type SQLiteStore struct {
	conn   *sql.DB
	author string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path. author is recorded on
// comments and threads written through this store.
func OpenSQLite(path, author string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	if _, err := conn.ExecContext(context.Background(), schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStore{conn: conn, author: author}, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) ListReviews(ctx context.Context, statusFilter string) ([]ReviewSummary, error) {
	q := `SELECT r.review_id, r.title, r.author, r.status,
            COUNT(t.thread_id),
            COALESCE(SUM(CASE WHEN t.status = 'open' THEN 1 ELSE 0 END), 0)
        FROM reviews r
        LEFT JOIN threads t ON t.review_id = r.review_id`
	args := []any{}
	if statusFilter != "" {
		q += " WHERE r.status = ?"
		args = append(args, statusFilter)
	}
	q += " GROUP BY r.review_id ORDER BY r.created_at DESC"

	rows, err := s.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []ReviewSummary
	for rows.Next() {
		var r ReviewSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Status, &r.ThreadCount, &r.OpenThreadCount); err != nil {
			return nil, fmt.Errorf("scan review summary: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetReview(ctx context.Context, reviewID string) (ReviewDetail, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT r.review_id, r.title, r.description, r.author,
            r.initial_commit, COALESCE(r.final_commit, ''), r.created_at, r.status,
            COUNT(t.thread_id),
            COALESCE(SUM(CASE WHEN t.status = 'open' THEN 1 ELSE 0 END), 0)
        FROM reviews r
        LEFT JOIN threads t ON t.review_id = r.review_id
        WHERE r.review_id = ?
        GROUP BY r.review_id`, reviewID)

	var d ReviewDetail
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.Author,
		&d.InitialCommit, &d.FinalCommit, &d.CreatedAt, &d.Status,
		&d.ThreadCount, &d.OpenThreadCount)
	if errors.Is(err, sql.ErrNoRows) {
		return ReviewDetail{}, ErrNotFound
	}
	if err != nil {
		return ReviewDetail{}, fmt.Errorf("get review %s: %w", reviewID, err)
	}
	return d, nil
}

func (s *SQLiteStore) ListThreads(ctx context.Context, reviewID string) ([]Thread, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT t.thread_id, t.file_path,
            t.selection_start, t.selection_end, t.status, COUNT(c.comment_id)
        FROM threads t
        LEFT JOIN comments c ON c.thread_id = t.thread_id
        WHERE t.review_id = ?
        GROUP BY t.thread_id
        ORDER BY t.file_path, t.selection_start`, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var out []Thread
	for rows.Next() {
		var t Thread
		var end sql.NullInt64
		if err := rows.Scan(&t.ID, &t.FilePath, &t.SelectionStart, &end, &t.Status, &t.CommentCount); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		if end.Valid {
			t.SelectionEnd = int(end.Int64)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListComments(ctx context.Context, threadID string) ([]Comment, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT comment_id, author, body, created_at
        FROM comments WHERE thread_id = ? ORDER BY created_at`, threadID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SubmitComment(ctx context.Context, threadID, body string) (Comment, error) {
	var exists int
	err := s.conn.QueryRowContext(ctx, `SELECT 1 FROM threads WHERE thread_id = ?`, threadID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	if err != nil {
		return Comment{}, fmt.Errorf("check thread %s: %w", threadID, err)
	}

	c := Comment{
		ID:        uuid.NewString(),
		Author:    s.author,
		Body:      body,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err = s.conn.ExecContext(ctx, `INSERT INTO comments (comment_id, thread_id, author, body, created_at)
        VALUES (?, ?, ?, ?, ?)`, c.ID, threadID, c.Author, c.Body, c.CreatedAt)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) CreateThread(ctx context.Context, reviewID, filePath string, start, end int, body string) (Thread, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Thread{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	t := Thread{
		ID:             uuid.NewString(),
		FilePath:       filePath,
		SelectionStart: start,
		SelectionEnd:   end,
		Status:         "open",
		CommentCount:   1,
	}

	var selEnd sql.NullInt64
	if end > 0 && end != start {
		selEnd = sql.NullInt64{Int64: int64(end), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO threads
        (thread_id, review_id, file_path, selection_start, selection_end, status, author, created_at)
        VALUES (?, ?, ?, ?, ?, 'open', ?, ?)`,
		t.ID, reviewID, filePath, start, selEnd, s.author, now)
	if err != nil {
		return Thread{}, fmt.Errorf("insert thread: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO comments (comment_id, thread_id, author, body, created_at)
        VALUES (?, ?, ?, ?, ?)`, uuid.NewString(), t.ID, s.author, body, now)
	if err != nil {
		return Thread{}, fmt.Errorf("insert first comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Thread{}, fmt.Errorf("commit thread: %w", err)
	}
	return t, nil
}
