// Package glob expands the file patterns of a gate run into concrete files.
package glob

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// Expand resolves patterns relative to cwd and returns the absolute paths
// of all matching regular files, deduplicated and sorted. "**" matches any
// number of directories. An entry whose name starts with a dot is only
// matched by a pattern segment that starts with a dot too.
func Expand(patterns []string, cwd string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{}, nil
	}

	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving working directory %s", cwd)
	}

	seen := map[string]struct{}{}
	for _, p := range patterns {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absCwd, p)
		}

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "expanding pattern %q", p)
		}

		base, rest := doublestar.SplitPattern(filepath.ToSlash(p))
		patSegs := strings.Split(rest, "/")
		for _, m := range matches {
			rel := strings.TrimPrefix(strings.TrimPrefix(filepath.ToSlash(m), base), "/")
			if !matchVisible(patSegs, strings.Split(rel, "/")) {
				continue
			}
			seen[m] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// RelativePath returns path relative to cwd for display. Paths outside
// cwd, or equal to it, are shown by their base name.
func RelativePath(path, cwd string) string {
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

func isHidden(seg string) bool {
	return strings.HasPrefix(seg, ".")
}

// matchVisible reports whether path matches the pattern segments when a
// hidden path segment may only be matched by a pattern segment that starts
// with a dot itself. "**" never descends into hidden directories.
func matchVisible(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}

	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchVisible(pattern[1:], path[i:]) {
				return true
			}
			if i < len(path) && isHidden(path[i]) {
				return false
			}
		}
		return false
	}

	if len(path) == 0 {
		return false
	}
	if isHidden(path[0]) && !isHidden(pattern[0]) {
		return false
	}
	ok, err := doublestar.Match(pattern[0], path[0])
	return err == nil && ok && matchVisible(pattern[1:], path[1:])
}
