// Package walker builds the ordered, filtered entry tree a snapshot is made of
package walker

import (
	"io/fs"
	"sync"
)

// Matcher is the exclusion decision the walker consults for every entry
type Matcher interface {
	Excluded(relativePath string, isDir bool) bool
}

// Kind distinguishes directories from everything else
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Entry is one node of the tree. Entries are read-only once BuildTree returns.
type Entry struct {
	Name     string
	Path     string // absolute, host separators
	RelPath  string // relative to the root, forward slashes
	Kind     Kind
	Children []*Entry // directories first, then files, each collated by name
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool {
	return e.Kind == KindDir
}

// Tree is the result of one walk. Files lists every file entry depth-first in
// the same order the tree renders them.
type Tree struct {
	Root    *Entry
	Skipped []SkippedItem

	files   []*Entry
	dirs    int
	fsys    fs.FS
	options WalkOptions
}

// Files returns the file entries in render order
func (t *Tree) Files() []*Entry {
	return t.files
}

// DirCount returns the number of directories below the root
func (t *Tree) DirCount() int {
	return t.dirs
}

// SkippedReason clarifies why a file/directory was not included.
type SkippedReason string

const (
	ReasonIgnoredRule       SkippedReason = "Ignored (Exclusion Rule)"
	ReasonFilteredExtension SkippedReason = "Filtered (Extension Mismatch)"
	ReasonSkippedListError  SkippedReason = "Skipped (Directory Listing Error)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return st.items
}
