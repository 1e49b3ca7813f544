package review

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "reviews.db"), "tester")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedReview(t *testing.T, s *SQLiteStore, id, status string) {
	t.Helper()
	_, err := s.conn.Exec(`INSERT INTO reviews
        (review_id, title, description, author, initial_commit, final_commit, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, "Title "+id, "desc", "alice", "abc123", "def456", status, "2026-08-01T00:00:00Z")
	require.NoError(t, err)
}

func TestListReviewsFilter(t *testing.T) {
	s := newTestStore(t)
	seedReview(t, s, "r1", "open")
	seedReview(t, s, "r2", "closed")
	ctx := context.Background()

	all, err := s.ListReviews(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := s.ListReviews(ctx, "open")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "r1", open[0].ID)
}

func TestGetReviewNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetReview(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThreadAndCommentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	seedReview(t, s, "r1", "open")
	ctx := context.Background()

	th, err := s.CreateThread(ctx, "r1", "src/main.go", 10, 12, "looks wrong")
	require.NoError(t, err)
	assert.Equal(t, 12, th.SelectionEnd)
	assert.Equal(t, 1, th.CommentCount)

	reply, err := s.SubmitComment(ctx, th.ID, "agreed, will fix")
	require.NoError(t, err)
	assert.Equal(t, "tester", reply.Author)

	threads, err := s.ListThreads(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, 2, threads[0].CommentCount)
	assert.Equal(t, "src/main.go", threads[0].FilePath)

	comments, err := s.ListComments(ctx, th.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "looks wrong", comments[0].Body)
	assert.Equal(t, "agreed, will fix", comments[1].Body)

	detail, err := s.GetReview(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ThreadCount)
	assert.Equal(t, 1, detail.OpenThreadCount)
}

func TestCreateThreadSingleLine(t *testing.T) {
	s := newTestStore(t)
	seedReview(t, s, "r1", "open")

	th, err := s.CreateThread(context.Background(), "r1", "a.go", 5, 5, "note")
	require.NoError(t, err)

	threads, err := s.ListThreads(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, th.ID, threads[0].ID)
	assert.Zero(t, threads[0].SelectionEnd, "single-line selections have no end")
}

func TestSubmitCommentUnknownThread(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SubmitComment(context.Background(), "nope", "body")
	assert.ErrorIs(t, err, ErrNotFound)
}
