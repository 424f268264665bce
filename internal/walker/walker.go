package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildTree walks rootDir once and returns the filtered, ordered tree.
// Failing to list the root itself is fatal; a nested directory that cannot be
// listed is kept as an empty directory and recorded in Tree.Skipped.
func BuildTree(rootDir string, matcher Matcher, opts ...Option) (*Tree, error) {
	startTime := time.Now()

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}

	fsys := options.FS
	if fsys == nil {
		fsys = rootFS(absRootDir)
	}

	info, err := fs.Stat(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("walker: cannot access root directory '%s': %w", absRootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: root '%s' is not a directory", absRootDir)
	}

	w := &treeWalker{
		rootDir:  absRootDir,
		fsys:     fsys,
		matcher:  matcher,
		options:  options,
		collator: newCollator(options),
		tracker:  NewSkippedTracker(64),
	}

	options.Logger.Debug("walker.BuildTree started. Root: %s, Locale: %s", absRootDir, options.Locale)

	root := &Entry{
		Name: filepath.Base(absRootDir),
		Path: absRootDir,
		Kind: KindDir,
	}

	rootChildren, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("walker: cannot list root directory '%s': %w", absRootDir, err)
	}
	if err := w.fill(root, rootChildren); err != nil {
		return nil, err
	}

	tree := &Tree{
		Root:    root,
		Skipped: w.tracker.Items(),
		dirs:    w.dirs,
		fsys:    fsys,
		options: options,
	}
	tree.files = collectFiles(root, nil)

	options.Logger.Debug("walker.BuildTree finished in %s: %d dirs, %d files, %d skipped",
		time.Since(startTime), tree.dirs, len(tree.files), len(tree.Skipped))
	return tree, nil
}

type treeWalker struct {
	rootDir  string
	fsys     fs.FS
	matcher  Matcher
	options  WalkOptions
	collator *collate.Collator
	tracker  *SkippedTracker
	dirs     int
}

// fill adds the surviving children of dir, sorted, and recurses into
// subdirectories
func (w *treeWalker) fill(dir *Entry, children []fs.DirEntry) error {
	for _, d := range children {
		select {
		case <-w.options.Context.Done():
			return w.options.Context.Err()
		default:
		}

		relativePath := d.Name()
		if dir.RelPath != "" {
			relativePath = path.Join(dir.RelPath, d.Name())
		}

		// Symlinks and special files are never followed; they count as files
		isDir := d.IsDir()

		if w.matcher != nil && w.matcher.Excluded(relativePath, isDir) {
			w.options.Logger.Debug("Walker: Ignored %q by matcher rules", relativePath)
			w.tracker.Track(relativePath, ReasonIgnoredRule, isDir)
			continue
		}

		if !isDir && !w.extensionAllowed(relativePath) {
			w.options.Logger.Debug("Walker: Filtered %q by extension", relativePath)
			w.tracker.Track(relativePath, ReasonFilteredExtension, false)
			continue
		}

		entry := &Entry{
			Name:    d.Name(),
			Path:    filepath.Join(w.rootDir, filepath.FromSlash(relativePath)),
			RelPath: relativePath,
			Kind:    KindFile,
		}
		dir.Children = append(dir.Children, entry)

		if !isDir {
			continue
		}

		entry.Kind = KindDir
		w.dirs++

		grandChildren, err := fs.ReadDir(w.fsys, relativePath)
		if err != nil {
			reason := ReasonSkippedListError
			if errors.Is(err, fs.ErrPermission) {
				reason = ReasonSkippedPermError
			}
			w.options.Logger.Warn("Walker: Cannot list %q, keeping it empty: %v", relativePath, err)
			w.tracker.Track(relativePath, reason, true)
			grandChildren = nil
		}

		w.options.Logger.Debug("Walker: Descending into directory %q", relativePath)
		if err := w.fill(entry, grandChildren); err != nil {
			return err
		}
	}

	w.sortChildren(dir.Children)
	return nil
}

func (w *treeWalker) extensionAllowed(relativePath string) bool {
	if len(w.options.ExtensionMap) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(relativePath), "."))
	_, allowed := w.options.ExtensionMap[ext]
	return allowed
}

// sortChildren orders directories before files, then by collated name.
// Names that collate equal fall back to byte order so the result is total.
func (w *treeWalker) sortChildren(children []*Entry) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.Kind != b.Kind {
			return a.Kind == KindDir
		}
		if c := w.collator.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Name < b.Name
	})
}

func newCollator(options WalkOptions) *collate.Collator {
	tag, err := language.Parse(options.Locale)
	if err != nil {
		options.Logger.Warn("Walker: Unknown locale %q, falling back to English: %v", options.Locale, err)
		tag = language.English
	}
	return collate.New(tag)
}

// collectFiles appends the file entries below dir in depth-first render order
func collectFiles(dir *Entry, files []*Entry) []*Entry {
	for _, child := range dir.Children {
		if child.IsDir() {
			files = collectFiles(child, files)
			continue
		}
		files = append(files, child)
	}
	return files
}
