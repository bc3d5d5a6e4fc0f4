package virtual

import (
	"strconv"

	"github.com/synthfs/synthfs/pkg/errors"
	"github.com/synthfs/synthfs/pkg/types"
)

// Derived attribute constants. The namespace is read-only by construction,
// so files never carry write bits.
const (
	DirMode  = 0755
	FileMode = 0444
)

// Namespace is the stateless implementation of types.Namespace. It holds no
// fields: every query re-derives its answer from the path string alone, so a
// single value can serve any number of concurrent requests.
type Namespace struct{}

var _ types.Namespace = (*Namespace)(nil)

// New returns the virtual namespace.
func New() *Namespace {
	return &Namespace{}
}

// AttributesOf classifies the path and derives its metadata.
func (ns *Namespace) AttributesOf(path string) (*types.Attributes, error) {
	n := classify(path)
	switch n.kind {
	case types.NodeDirectory:
		return &types.Attributes{
			Kind:  types.NodeDirectory,
			Mode:  DirMode,
			Nlink: 2,
		}, nil
	case types.NodeFile:
		return &types.Attributes{
			Kind:  types.NodeFile,
			Size:  n.shape.FileSize,
			Mode:  FileMode,
			Nlink: 1,
		}, nil
	default:
		return nil, notFound(path, "attributes")
	}
}

// ListChildren returns the child names of a directory path in ascending
// numeric order. Children are not validated here; a child that would not
// resolve is discovered lazily when its own path is classified.
func (ns *Namespace) ListChildren(path string) ([]string, error) {
	n := classify(path)
	if n.kind != types.NodeDirectory {
		return nil, notFound(path, "list")
	}

	width := n.shape.Width[n.layer]
	children := make([]string, width)
	for i := range children {
		children[i] = strconv.Itoa(i)
	}
	return children, nil
}

// CheckOpen validates an open request against the path. Only read-only
// intent is ever granted; write or append intent is refused before a single
// content byte is generated.
func (ns *Namespace) CheckOpen(path string, wantsWrite bool) error {
	n := classify(path)
	if n.kind != types.NodeFile {
		return notFound(path, "open")
	}
	if wantsWrite {
		return errors.NewError(errors.ErrCodeAccessDenied,
			"namespace is read-only").
			WithPath(path).
			WithComponent("namespace").
			WithOperation("open")
	}
	return nil
}

// ReadRange generates the content window [offset, offset+length) of a file.
// Reading past end of file yields an empty slice, per ordinary file
// semantics. The buffer is allocated per call; nothing is shared between
// invocations.
func (ns *Namespace) ReadRange(path string, offset, length int64) ([]byte, error) {
	n := classify(path)
	if n.kind != types.NodeFile {
		return nil, notFound(path, "read")
	}

	if offset < 0 {
		return []byte{}, nil
	}
	if remaining := n.shape.FileSize - offset; remaining < length {
		length = remaining
	}
	if length <= 0 {
		return []byte{}, nil
	}

	buf := make([]byte, length)
	fill(buf, pathSeed(path), n.shape.FileSize, offset)
	return buf, nil
}

func notFound(path, op string) error {
	return errors.NewError(errors.ErrCodePathNotFound, "no such entry").
		WithPath(path).
		WithComponent("namespace").
		WithOperation(op)
}
