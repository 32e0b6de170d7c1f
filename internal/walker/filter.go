package walker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// compilePatterns compiles the exclusion expressions.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

// shouldExcludeByPattern checks if path, relative to root and slash-separated,
// matches any exclusion regex. Directories are also tried with a trailing slash.
func shouldExcludeByPattern(root, path string, isDir bool, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil
	}

	fPath := filepath.ToSlash(rel)

	for _, re := range patterns {
		if re.MatchString(fPath) || (isDir && re.MatchString(fPath+"/")) {
			return re
		}
	}

	return nil
}

// isHidden reports whether a base name denotes a hidden entry.
func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// ignorer matches paths against a gitignore-style file.
type ignorer struct {
	root    string
	matcher *ignore.GitIgnore
}

// loadIgnorer compiles path, returning nil if path is empty.
func loadIgnorer(root, path string) (*ignorer, error) {
	if path == "" {
		return nil, nil //nolint:nilnil // No ignore file configured
	}

	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ignore file %q: %w", path, err)
	}

	return &ignorer{root: root, matcher: matcher}, nil
}

// matches reports whether path is ignored. Directories are also tried with a
// trailing slash so that patterns like "build/" apply to the directory itself.
func (i *ignorer) matches(path string, isDir bool) bool {
	if i == nil {
		return false
	}

	rel, err := filepath.Rel(i.root, path)
	if err != nil {
		return false
	}

	rel = filepath.ToSlash(rel)

	if i.matcher.MatchesPath(rel) {
		return true
	}

	return isDir && i.matcher.MatchesPath(rel+"/")
}
