package vcs

import (
	"context"
	"strings"

	"critview/internal/util"
)

// FileDiff returns the unified diff for one file between two commits, or ""
// when the file did not change. An empty to diffs against the working copy.
func (r *Repo) FileDiff(ctx context.Context, path, from, to string) (string, error) {
	out, err := r.runDiff(ctx, from, to, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", nil
	}
	return out, nil
}

// FullDiff returns the diff for the whole change, all files.
func (r *Repo) FullDiff(ctx context.Context, from, to string) (string, error) {
	return r.runDiff(ctx, from, to, "")
}

func (r *Repo) runDiff(ctx context.Context, from, to, path string) (string, error) {
	var args []string
	switch r.Kind {
	case KindJJ:
		args = []string{"diff", "--git", "--from", from}
		if to != "" {
			args = append(args, "--to", to)
		}
		if path != "" {
			args = append(args, path)
		}
		return util.Run(ctx, r.Dir, "jj", args...)
	default:
		if to != "" {
			args = []string{"diff", from + ".." + to}
		} else {
			args = []string{"diff", from}
		}
		if path != "" {
			args = append(args, "--", path)
		}
		return util.Run(ctx, r.Dir, "git", args...)
	}
}
