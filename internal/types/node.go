package types

// Kind tags a Node as a file or a directory.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// RootPath is the relative path of the root node of every run.
const RootPath = "."

// Node is one file or directory of a single summarization run.
type Node struct {
	// Run-relative path using forward slashes ("." for the root).
	Path string `json:"path"`
	// Display name (base name; the root carries its directory name).
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	// Summary is empty until the scheduler assigns it.
	Summary string `json:"summary,omitempty"`
	// Fallback is set when Summary is placeholder text for a failed node.
	Fallback bool    `json:"fallback,omitempty"`
	Children []*Node `json:"children,omitempty"`

	// Absolute filesystem path (symlinks resolved).
	AbsPath string `json:"-"`
	// File size in bytes; 0 for directories.
	Size int64 `json:"-"`
}

func (n *Node) IsDir() bool { return n != nil && n.Kind == KindDirectory }

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	c := 1
	for _, ch := range n.Children {
		c += ch.Count()
	}
	return c
}

// ShallowCopy copies n without its children slice.
func (n *Node) ShallowCopy() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Children = nil
	return &cp
}

// ContextEntry is one flattened node of a finished run.
type ContextEntry struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Summary string `json:"summary"`
}

// Report is the final product of a run.
type Report struct {
	TreeText string         `json:"tree_text"`
	Overview string         `json:"overview"`
	Context  []ContextEntry `json:"context"`
}
