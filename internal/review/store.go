package review

import "context"

// Store is the review backend. Read operations serve the UI; SubmitComment
// and CreateThread are the only writes the client performs.
type Store interface {
	// ListReviews returns summaries, newest first. An empty statusFilter
	// returns all reviews.
	ListReviews(ctx context.Context, statusFilter string) ([]ReviewSummary, error)
	GetReview(ctx context.Context, reviewID string) (ReviewDetail, error)
	// ListThreads returns a review's threads ordered by file path and
	// selection start.
	ListThreads(ctx context.Context, reviewID string) ([]Thread, error)
	// ListComments returns a thread's comments oldest first.
	ListComments(ctx context.Context, threadID string) ([]Comment, error)
	SubmitComment(ctx context.Context, threadID, body string) (Comment, error)
	CreateThread(ctx context.Context, reviewID, filePath string, start, end int, body string) (Thread, error)
}
