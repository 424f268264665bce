// Package ignore decides which project entries are left out of a snapshot
package ignore

import (
	"regexp"

	"github.com/bethropolis/dir-snapshot/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// DefaultOutputDir is the reserved name of the directory snapshots are
// written to. It is always excluded so a snapshot never captures older ones.
const DefaultOutputDir = "snapshots"

// Engine selects how rules are interpreted
type Engine string

const (
	// EngineBasic is the literal/wildcard matcher described in the package doc
	EngineBasic Engine = "basic"
	// EngineGitignore hands the rules to a full gitignore implementation
	EngineGitignore Engine = "gitignore"
)

// Matcher is a compiled, read-only rule set. All methods are safe for
// concurrent use.
type Matcher struct {
	rootDir  string
	reserved string
	rules    []rule
	engine   Engine

	// Only set for EngineGitignore
	repoIgnore gitignore.GitIgnore

	ignoreHidden bool
	ignoreGit    bool
	logger       utils.Logger
}

// rule is one compiled exclusion line
type rule struct {
	raw string
	// raw without a trailing slash
	pattern string
	// nil for literal rules
	re *regexp.Regexp
}

// Config holds configuration options for the matcher
type Config struct {
	RootDir      string
	Rules        []string
	OutputDir    string
	Engine       Engine
	IgnoreHidden bool
	IgnoreGit    bool
	Logger       utils.Logger
}
