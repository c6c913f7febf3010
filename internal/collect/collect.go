package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Collect expands paths into candidate files. Directories are walked
// recursively and every non-directory entry is kept; other paths are kept
// as given, even when they cannot be stat'ed, so the hashing stage decides
// what to do with them. Entries that fail during traversal are skipped.
func Collect(paths []string, opts Options) (Result, error) {
	excludes, err := compile(opts.Exclude)
	if err != nil {
		return Result{}, err
	}

	var res Result
	add := func(p string, info fs.FileInfo) {
		if excludes.match(p) {
			return
		}
		it := Item{Path: p}
		if info != nil {
			it.Size = info.Size()
			it.ModTime = info.ModTime()
		}
		res.Items = append(res.Items, it)
		res.TotalBytes += it.Size
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p, info)
			continue
		}

		_ = filepath.WalkDir(walkRoot(p), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			add(path, fi)
			return nil
		})
	}

	return res, nil
}

// walkRoot makes WalkDir descend into a root that is a symlink to a
// directory. A trailing separator makes the root Lstat resolve the link;
// links below the root are still not followed.
func walkRoot(p string) string {
	li, err := os.Lstat(p)
	if err != nil || li.Mode()&fs.ModeSymlink == 0 {
		return p
	}
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}

type matchers []glob.Glob

func compile(patterns []string) (matchers, error) {
	out := make(matchers, 0, len(patterns))
	for _, pat := range patterns {
		g, err := glob.Compile(pat, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// match tests both the base name and the full path, so "*.txt" and
// "**/thumbs/*" both work.
func (m matchers) match(path string) bool {
	base := filepath.Base(path)
	for _, g := range m {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}
	return false
}
