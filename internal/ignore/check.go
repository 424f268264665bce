package ignore

import (
	"path/filepath"
	"strings"
)

// IsExcluded reports whether the entry at absPath is excluded. The path is
// made relative to the matcher's root first; paths outside the root are never
// excluded.
func (m *Matcher) IsExcluded(absPath string, isDir bool) bool {
	if m == nil {
		return false
	}

	relativePath, err := filepath.Rel(m.rootDir, absPath)
	if err != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		m.logger.Debug("ignore.IsExcluded: %q is outside root %q", absPath, m.rootDir)
		return false
	}
	return m.Excluded(filepath.ToSlash(relativePath), isDir)
}

// Excluded reports whether relativePath is excluded. The answer depends only
// on the path and the compiled rules.
func (m *Matcher) Excluded(relativePath string, isDir bool) bool {
	if m == nil {
		return false
	}

	relativePath = normalize(relativePath)
	if relativePath == "" {
		return false // Never exclude the root itself
	}

	if m.reserved != "" && (relativePath == m.reserved || strings.HasPrefix(relativePath, m.reserved+"/")) {
		m.logger.Debug("ignore.Excluded: %q is inside the output directory", relativePath)
		return true
	}

	if m.ignoreHidden && hasHiddenSegment(relativePath) {
		m.logger.Debug("ignore.Excluded: %q excluded (hidden rule)", relativePath)
		return true
	}

	if m.ignoreGit && isPathInGitDir(relativePath, isDir) {
		m.logger.Debug("ignore.Excluded: %q excluded (.git rule)", relativePath)
		return true
	}

	if m.engine == EngineGitignore {
		return m.excludedByLibrary(relativePath, isDir)
	}

	for _, r := range m.rules {
		if r.matches(relativePath) {
			m.logger.Debug("ignore.Excluded: %q excluded by rule %q", relativePath, r.raw)
			return true
		}
	}
	return false
}

// matches applies a single rule to a normalized relative path
func (r rule) matches(relativePath string) bool {
	if r.re != nil {
		return r.re.MatchString(relativePath) || r.re.MatchString(baseName(relativePath))
	}

	return relativePath == r.pattern ||
		strings.HasPrefix(relativePath, r.pattern+"/") ||
		strings.HasSuffix(relativePath, "/"+r.pattern) ||
		strings.Contains(relativePath, "/"+r.pattern+"/")
}

// excludedByLibrary delegates to the gitignore engine. Negated rules that
// re-include a path win over earlier exclusions, as in git.
func (m *Matcher) excludedByLibrary(relativePath string, isDir bool) bool {
	if m.repoIgnore == nil {
		return false
	}

	excluded := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("PANIC recovered in gitignore library for path %q: %v", relativePath, r)
				excluded = false
			}
		}()
		if match := m.repoIgnore.Relative(relativePath, isDir); match != nil {
			excluded = match.Ignore()
		}
	}()

	if excluded {
		m.logger.Debug("ignore.Excluded: %q excluded by gitignore engine", relativePath)
	}
	return excluded
}

// hasHiddenSegment reports whether any segment starts with a dot
func hasHiddenSegment(relativePath string) bool {
	for _, part := range strings.Split(relativePath, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// isPathInGitDir checks if a path is inside a .git directory
func isPathInGitDir(relativePath string, isDir bool) bool {
	parts := strings.Split(relativePath, "/")
	for i, part := range parts {
		if part == ".git" {
			// A file merely named .git (a worktree pointer) is not a directory
			if isDir || i < len(parts)-1 {
				return true
			}
		}
	}
	return false
}
