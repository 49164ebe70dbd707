package graph

import (
	"os"
	"path/filepath"
	"strings"
)

// vcsMarkers are the directory/file names that mark a repository root,
// checked in order while walking upward from the solution path.
var vcsMarkers = []string{".git", ".hg", ".svn"}

// findRepoRoot walks upward from start looking for a version-control
// marker, mirroring the intent of locating a repository root without
// requiring a VCS binary on PATH. If no marker is found before reaching the
// filesystem root, start itself is returned as the fallback.
func findRepoRoot(start string) string {
	dir := start
	for {
		for _, marker := range vcsMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// newLocation builds a Location for a file-bearing node, relative to repoRoot
// with forward-slash normalization.
func newLocation(repoRoot, absPath string, line, column int) *Location {
	rel, err := filepath.Rel(repoRoot, absPath)
	if err != nil {
		rel = absPath
	}
	return &Location{
		AbsolutePath: absPath,
		RelativePath: filepath.ToSlash(rel),
		Line:         line,
		Column:       column,
	}
}

// stem returns a path's filename without its extension, used to match a
// project reference's target path back to a known project.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
