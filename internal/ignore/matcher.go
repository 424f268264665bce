package ignore

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bethropolis/dir-snapshot/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// New compiles rules into a Matcher rooted at rootDir. Rules are expected in
// the form ParseRules returns; they are never validated, so any line is
// accepted as a literal or wildcard pattern.
func New(rootDir string, rules []string, opts ...Option) (*Matcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	matcher := &Matcher{
		rootDir:  absRootDir,
		reserved: DefaultOutputDir,
		engine:   EngineBasic,
		logger:   utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(matcher)
	}

	matcher.compile(rules)
	return matcher, nil
}

// compile prepares the rule set for the selected engine
func (m *Matcher) compile(rules []string) {
	m.logger.Debug("ignore.New: Compiling %d rules for root %s (engine: %s, reserved: %q)",
		len(rules), m.rootDir, m.engine, m.reserved)

	if m.engine == EngineGitignore {
		m.repoIgnore = gitignore.New(strings.NewReader(strings.Join(rules, "\n")), m.rootDir,
			func(e gitignore.Error) bool {
				m.logger.Warn("ignore.New: Skipping unparsable rule: %v", e)
				return true
			})
	}

	m.rules = make([]rule, 0, len(rules))
	for _, raw := range rules {
		m.rules = append(m.rules, compileRule(raw))
	}
}

// compileRule turns a raw line into a literal or wildcard rule. In a wildcard
// rule '*' matches any run of characters (separators included), '?' exactly
// one; everything else is literal. A trailing slash is dropped so "dist/"
// behaves like "dist": read strictly as a literal, "dist/" could never match
// a path, since paths are compared without a trailing separator.
func compileRule(raw string) rule {
	pattern := raw
	if trimmed := strings.TrimSuffix(raw, "/"); trimmed != "" {
		pattern = trimmed
	}

	if !strings.ContainsAny(pattern, "*?") {
		return rule{raw: raw, pattern: pattern}
	}

	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, `\*`, ".*")
	expr = strings.ReplaceAll(expr, `\?`, ".")
	return rule{raw: raw, pattern: pattern, re: regexp.MustCompile("(?s)^(?:" + expr + ")$")}
}

// Rules returns the raw rule lines in evaluation order
func (m *Matcher) Rules() []string {
	out := make([]string, len(m.rules))
	for i, r := range m.rules {
		out[i] = r.raw
	}
	return out
}

// RootDir returns the absolute directory relative paths are computed from
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// Reserved returns the always-excluded output directory
func (m *Matcher) Reserved() string {
	return m.reserved
}
