package review

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// SplitDiffBundle splits a multi-file unified diff into per-file diff text,
// keyed by the new-side path (old-side for deletions). Reviews store one
// bundle for the whole change; the diff pane wants one diff per file.
func SplitDiffBundle(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]string{}, nil
	}

	files, err := diff.ParseMultiFileDiff([]byte(raw))
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(files))
	for _, fd := range files {
		text, err := diff.PrintFileDiff(fd)
		if err != nil {
			return nil, err
		}
		out[bundleKey(fd)] = string(text)
	}
	return out, nil
}

func bundleKey(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}
