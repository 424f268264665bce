package ignore

import "github.com/bethropolis/dir-snapshot/internal/utils"

// Option functions for configuration
type Option func(*Matcher)

// WithOutputDir sets the reserved output directory, given relative to the
// root with either separator
func WithOutputDir(name string) Option {
	return func(m *Matcher) {
		m.reserved = normalize(name)
	}
}

// WithEngine selects the rule engine. Unknown values fall back to basic.
func WithEngine(engine Engine) Option {
	return func(m *Matcher) {
		if engine == EngineGitignore {
			m.engine = EngineGitignore
			return
		}
		m.engine = EngineBasic
	}
}

// WithHiddenIgnore also excludes any entry with a dot-prefixed path segment
func WithHiddenIgnore(ignore bool) Option {
	return func(m *Matcher) {
		m.ignoreHidden = ignore
	}
}

// WithGitIgnore also excludes anything inside a .git directory
func WithGitIgnore(ignore bool) Option {
	return func(m *Matcher) {
		m.ignoreGit = ignore
	}
}

func WithLogger(logger utils.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}
