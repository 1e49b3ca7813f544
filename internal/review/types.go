// Package review provides access to the review projection database:
// reviews, comment threads, and comments, as produced by the review tool.
package review

// ReviewSummary is one row of the review list.
type ReviewSummary struct {
	ID              string
	Title           string
	Author          string
	Status          string
	ThreadCount     int
	OpenThreadCount int
}

// ReviewDetail carries everything the detail screen needs, including the
// commit pair diffs are computed against.
type ReviewDetail struct {
	ID              string
	Title           string
	Description     string
	Author          string
	InitialCommit   string
	FinalCommit     string
	CreatedAt       string
	Status          string
	ThreadCount     int
	OpenThreadCount int
}

// Thread is a comment thread anchored to a line range of a file.
// SelectionEnd is 0 when the selection is a single line.
type Thread struct {
	ID             string
	FilePath       string
	SelectionStart int
	SelectionEnd   int
	Status         string
	CommentCount   int
}

// Comment is a single message in a thread.
type Comment struct {
	ID        string
	Author    string
	Body      string
	CreatedAt string
}
