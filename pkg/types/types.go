package types

// NodeKind classifies what a virtual path denotes.
type NodeKind int

const (
	// NodeInvalid means the path does not resolve to anything.
	NodeInvalid NodeKind = iota
	// NodeDirectory is an internal layer of a virtual tree.
	NodeDirectory
	// NodeFile is a leaf whose contents are generated on demand.
	NodeFile
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeDirectory:
		return "directory"
	case NodeFile:
		return "file"
	default:
		return "invalid"
	}
}

// Attributes holds the derived metadata for a virtual node. Nothing beyond
// type, size, mode and link count exists in this namespace.
type Attributes struct {
	Kind  NodeKind `json:"kind"`
	Size  int64    `json:"size"`
	Mode  uint32   `json:"mode"`
	Nlink uint32   `json:"nlink"`
}

// IsDir reports whether the attributes describe a directory.
func (a *Attributes) IsDir() bool {
	return a.Kind == NodeDirectory
}
