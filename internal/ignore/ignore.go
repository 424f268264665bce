package ignore

import (
	"path"
	"path/filepath"
	"strings"
)

// ParseRules turns the text of an ignore file into rule lines. Lines are
// trimmed; blank lines and lines starting with '#' are dropped. Order is kept.
func ParseRules(content string) []string {
	var rules []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	return rules
}

// NewFromConfig creates a Matcher from a Config struct
func NewFromConfig(cfg Config) (*Matcher, error) {
	options := []Option{
		WithEngine(cfg.Engine),
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithGitIgnore(cfg.IgnoreGit),
	}

	if cfg.OutputDir != "" {
		options = append(options, WithOutputDir(cfg.OutputDir))
	}

	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}

	return New(cfg.RootDir, cfg.Rules, options...)
}

// normalize converts a relative path to the slash form rules are matched
// against. A backslash is a separator only where the OS uses it as one.
func normalize(p string) string {
	if filepath.Separator == '\\' {
		p = strings.ReplaceAll(p, "\\", "/")
	}
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// baseName returns the last segment of a slash path
func baseName(p string) string {
	return path.Base(p)
}
