package vcs

import (
	"context"
	"strings"

	"critview/internal/util"
)

// FileContent returns the file's lines at the given commit.
func (r *Repo) FileContent(ctx context.Context, path, ref string) ([]string, error) {
	var out string
	var err error
	switch r.Kind {
	case KindJJ:
		out, err = util.Run(ctx, r.Dir, "jj", "file", "show", path, "-r", ref)
	default:
		out, err = util.Run(ctx, r.Dir, "git", "show", ref+":"+path)
	}
	if err != nil {
		return nil, err
	}

	out = strings.TrimSuffix(out, "\n")
	return strings.Split(out, "\n"), nil
}
