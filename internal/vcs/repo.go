// Package vcs fetches diffs and file content from the repository under
// review. Both jj and git repositories are supported; jj wins when a
// directory has both, since jj colocates with git.
package vcs

import (
	"os"
	"path/filepath"
)

type Kind int

const (
	KindJJ Kind = iota
	KindGit
)

func (k Kind) String() string {
	if k == KindJJ {
		return "jj"
	}
	return "git"
}

// Repo is a handle on a detected repository.
type Repo struct {
	Dir  string
	Kind Kind
}

// Detect reports the VCS kind of dir, checking jj before git.
func Detect(dir string) (Kind, bool) {
	if _, err := os.Stat(filepath.Join(dir, ".jj")); err == nil {
		return KindJJ, true
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return KindGit, true
	}
	return 0, false
}

// Open detects and returns the repository at dir.
func Open(dir string) (*Repo, bool) {
	kind, ok := Detect(dir)
	if !ok {
		return nil, false
	}
	return &Repo{Dir: dir, Kind: kind}, true
}
