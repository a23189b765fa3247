package scan

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dirsight/internal/safeio"
	t "dirsight/internal/types"
)

// DefaultMaxDepth bounds recursion below the root.
const DefaultMaxDepth = 64

var (
	// ErrNotDirectory is wrapped by PathError when the root is a file.
	ErrNotDirectory = errors.New("scan: not a directory")
	// ErrNotFound is returned by WalkAt when the requested path is missing,
	// excluded, or ignored.
	ErrNotFound = errors.New("scan: path not found")
)

// PathError reports an unusable walk root. It is the only fatal walk error.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("scan: invalid root %q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Entries skipped in every walk regardless of the ignore set.
var denylist = map[string]bool{
	"node_modules":      true,
	"__pycache__":       true,
	".git":              true,
	"venv":              true,
	".venv":             true,
	"build":             true,
	"dist":              true,
	"package-lock.json": true,
	"yarn.lock":         true,
	".DS_Store":         true,
	"Thumbs.db":         true,
	"desktop.ini":       true,
}

// Excluded reports whether an entry name is skipped unconditionally.
func Excluded(name string) bool {
	return strings.HasPrefix(name, ".") || denylist[name]
}

// Options tunes a walk.
type Options struct {
	// MaxDepth caps directory recursion below the root (<=0 uses DefaultMaxDepth).
	MaxDepth int
	Logger   *log.Logger
}

type walker struct {
	fs       *safeio.SafeFS
	ignore   IgnoreSet
	maxDepth int
	log      *log.Logger
}

// Walk enumerates root into an unsummarized node skeleton. Children are
// ordered directories first, then files, each by name. Unreadable
// directories are treated as absent; symlinks leaving the root or closing a
// cycle are skipped.
func Walk(root string, ignore IgnoreSet, opts Options) (*t.Node, error) {
	fsys, err := OpenRoot(root)
	if err != nil {
		return nil, err
	}
	w := newWalker(fsys, ignore, opts)
	node := &t.Node{
		Path:    t.RootPath,
		Name:    filepath.Base(fsys.Root()),
		Kind:    t.KindDirectory,
		AbsPath: fsys.Root(),
	}
	w.fill(node, 0, map[string]bool{fsys.Root(): true})
	return node, nil
}

// WalkAt walks the subtree rooted at rel (relative to root) using the same
// exclusion rules as Walk. Node paths stay relative to root.
func WalkAt(root, rel string, ignore IgnoreSet, opts Options) (*t.Node, error) {
	rel = NormalizePath(rel)
	if rel == t.RootPath {
		return Walk(root, ignore, opts)
	}
	fsys, err := OpenRoot(root)
	if err != nil {
		return nil, err
	}
	w := newWalker(fsys, ignore, opts)

	chain := map[string]bool{fsys.Root(): true}
	segs := strings.Split(rel, "/")
	cur := ""
	var real string
	for i, seg := range segs {
		cur = JoinPath(cur, seg)
		if Excluded(seg) || ignore.Match(cur) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		real, err = fsys.Resolve(filepath.FromSlash(cur))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, rel, err)
		}
		if i < len(segs)-1 {
			if chain[real] {
				return nil, fmt.Errorf("%w: %s: symlink cycle", ErrNotFound, rel)
			}
			chain[real] = true
		}
	}
	info, err := fsys.SafeStat(real)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, rel, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrNotFound, rel)
	}
	node := &t.Node{Path: rel, Name: segs[len(segs)-1], AbsPath: real}
	if !info.IsDir() {
		node.Kind = t.KindFile
		node.Size = info.Size()
		return node, nil
	}
	if chain[real] || len(segs) > w.maxDepth {
		return nil, fmt.Errorf("%w: %s: symlink cycle or too deep", ErrNotFound, rel)
	}
	node.Kind = t.KindDirectory
	chain[real] = true
	if !w.fill(node, len(segs), chain) {
		return nil, fmt.Errorf("%w: %s: directory cannot be listed", ErrNotFound, rel)
	}
	return node, nil
}

// OpenRoot validates root and binds a SafeFS to it.
func OpenRoot(root string) (*safeio.SafeFS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, &PathError{Path: root, Err: errors.New("empty path")}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &PathError{Path: root, Err: ErrNotDirectory}
	}
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}
	return fsys, nil
}

func newWalker(fsys *safeio.SafeFS, ignore IgnoreSet, opts Options) *walker {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &walker{fs: fsys, ignore: ignore, maxDepth: depth, log: logger}
}

// fill lists node's directory and attaches its children. It returns false
// when the directory cannot be listed. chain holds the resolved paths of
// node and its ancestors.
func (w *walker) fill(node *t.Node, depth int, chain map[string]bool) bool {
	entries, err := w.fs.SafeReadDir(node.AbsPath)
	if err != nil {
		w.log.Printf("scan: skip unreadable directory %s: %v", node.Path, err)
		return false
	}
	var dirs, files []*t.Node
	for _, e := range entries {
		name := e.Name()
		if Excluded(name) {
			continue
		}
		rel := JoinPath(node.Path, name)
		if w.ignore.Match(rel) {
			continue
		}
		real, err := w.fs.Resolve(filepath.Join(node.AbsPath, name))
		if err != nil {
			// dangling link or link leaving the root
			continue
		}
		info, err := w.fs.SafeStat(real)
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			if chain[real] {
				w.log.Printf("scan: skip symlink cycle at %s", rel)
				continue
			}
			if depth+1 > w.maxDepth {
				w.log.Printf("scan: skip %s: depth limit %d", rel, w.maxDepth)
				continue
			}
			child := &t.Node{Path: rel, Name: name, Kind: t.KindDirectory, AbsPath: real}
			chain[real] = true
			ok := w.fill(child, depth+1, chain)
			delete(chain, real)
			if ok {
				dirs = append(dirs, child)
			}
		case info.Mode().IsRegular():
			files = append(files, &t.Node{Path: rel, Name: name, Kind: t.KindFile, AbsPath: real, Size: info.Size()})
		}
	}
	sortByName(dirs)
	sortByName(files)
	node.Children = append(dirs, files...)
	return true
}

func sortByName(nodes []*t.Node) {
	sort.Slice(nodes, func(i, j int) bool { return NameLess(nodes[i].Name, nodes[j].Name) })
}

// NameLess orders sibling names case-insensitively, breaking ties on the
// exact name.
func NameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
