package fuse

import (
	"context"
	"os"
	"sync"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/synthfs/synthfs/internal/metrics"
	"github.com/synthfs/synthfs/pkg/errors"
	"github.com/synthfs/synthfs/pkg/types"
)

// safeIntToUint32 safely converts int to uint32, preventing overflow
func safeIntToUint32(i int) uint32 {
	if i < 0 {
		return 0
	}
	if i > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(i)
}

// FileSystem bridges the virtual namespace to the go-fuse node API. All
// decisions are delegated to the namespace; the only state here is the
// operation counters.
type FileSystem struct {
	namespace types.Namespace
	metrics   *metrics.Collector
	config    *Config

	stats *Stats
}

// Config represents FUSE filesystem configuration.
type Config struct {
	// Ownership reported for every node. The namespace has no ownership
	// model of its own.
	UID uint32
	GID uint32
}

// Stats tracks filesystem operation statistics.
type Stats struct {
	mu sync.Mutex

	Lookups   int64 `json:"lookups"`
	Opens     int64 `json:"opens"`
	Reads     int64 `json:"reads"`
	Readdirs  int64 `json:"readdirs"`
	BytesRead int64 `json:"bytes_read"`
	NotFound  int64 `json:"not_found"`
	Denied    int64 `json:"denied"`
}

// NewFileSystem creates a new FUSE filesystem over the given namespace.
// metrics may be nil.
func NewFileSystem(namespace types.Namespace, collector *metrics.Collector, config *Config) *FileSystem {
	if config == nil {
		config = &Config{
			UID: safeIntToUint32(os.Getuid()),
			GID: safeIntToUint32(os.Getgid()),
		}
	}

	return &FileSystem{
		namespace: namespace,
		metrics:   collector,
		config:    config,
		stats:     &Stats{},
	}
}

// Root returns the root inode. Its virtual path is "/", which the namespace
// never resolves: the mount point itself is not a valid directory, only the
// descriptor trees beneath it are.
func (f *FileSystem) Root() fs.InodeEmbedder {
	return &dirNode{fs: f, path: ""}
}

// GetStats returns a copy of the current operation counters.
func (f *FileSystem) GetStats() *Stats {
	f.stats.mu.Lock()
	defer f.stats.mu.Unlock()

	return &Stats{
		Lookups:   f.stats.Lookups,
		Opens:     f.stats.Opens,
		Reads:     f.stats.Reads,
		Readdirs:  f.stats.Readdirs,
		BytesRead: f.stats.BytesRead,
		NotFound:  f.stats.NotFound,
		Denied:    f.stats.Denied,
	}
}

// errnoFromError maps namespace failures onto host error numbers. Only two
// domain failures exist; anything else would be a programming error and
// surfaces as EIO.
func errnoFromError(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.IsCode(err, errors.ErrCodePathNotFound):
		return syscall.ENOENT
	case errors.IsCode(err, errors.ErrCodeAccessDenied):
		return syscall.EACCES
	default:
		return syscall.EIO
	}
}

func (f *FileSystem) record(op string, errno syscall.Errno) {
	f.stats.mu.Lock()
	switch op {
	case "lookup":
		f.stats.Lookups++
	case "open":
		f.stats.Opens++
	case "read":
		f.stats.Reads++
	case "readdir":
		f.stats.Readdirs++
	}
	switch errno {
	case syscall.ENOENT:
		f.stats.NotFound++
	case syscall.EACCES:
		f.stats.Denied++
	}
	f.stats.mu.Unlock()

	if f.metrics != nil {
		outcome := metrics.OutcomeOK
		switch errno {
		case syscall.ENOENT:
			outcome = metrics.OutcomeNotFound
		case syscall.EACCES:
			outcome = metrics.OutcomeDenied
		}
		f.metrics.RecordOperation(op, outcome)
	}
}

// dirNode represents a directory in the virtual namespace, including the
// mount root (path "").
type dirNode struct {
	fs.Inode
	fs   *FileSystem
	path string
}

var _ fs.NodeLookuper = (*dirNode)(nil)
var _ fs.NodeGetattrer = (*dirNode)(nil)
var _ fs.NodeReaddirer = (*dirNode)(nil)

// fullPath renders the node's virtual path the way the namespace expects it,
// with a leading separator. The seed of every file in a tree depends on this
// exact rendering, so it must stay stable.
func (n *dirNode) fullPath() string {
	if n.path == "" {
		return "/"
	}
	return n.path
}

func (n *dirNode) childPath(name string) string {
	return n.path + "/" + name
}

// Lookup resolves a child by name against the namespace.
func (n *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := n.childPath(name)

	attr, err := n.fs.namespace.AttributesOf(childPath)
	errno := errnoFromError(err)
	n.fs.record("lookup", errno)
	if errno != 0 {
		return nil, errno
	}

	n.fs.fillAttr(attr, &out.Attr)

	if attr.IsDir() {
		child := &dirNode{fs: n.fs, path: childPath}
		return n.NewInode(ctx, child, fs.StableAttr{Mode: fuse.S_IFDIR}), 0
	}

	child := &fileNode{fs: n.fs, path: childPath}
	return n.NewInode(ctx, child, fs.StableAttr{Mode: fuse.S_IFREG}), 0
}

// Getattr derives the directory's attributes. For the mount root this is
// ENOENT: the root itself never resolves, even though its children do.
func (n *dirNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, err := n.fs.namespace.AttributesOf(n.fullPath())
	if err != nil {
		return errnoFromError(err)
	}

	n.fs.fillAttr(attr, &out.Attr)
	return 0
}

// Readdir lists the numbered children of this layer. Entry modes are left
// unset; child types are derived lazily when each child is looked up.
func (n *dirNode) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	names, err := n.fs.namespace.ListChildren(n.fullPath())
	errno := errnoFromError(err)
	n.fs.record("readdir", errno)
	if errno != 0 {
		return nil, errno
	}

	entries := make([]fuse.DirEntry, len(names))
	for i, name := range names {
		entries[i] = fuse.DirEntry{Name: name}
	}
	return fs.NewListDirStream(entries), 0
}

// fileNode represents a virtual file.
type fileNode struct {
	fs.Inode
	fs   *FileSystem
	path string
}

var _ fs.NodeGetattrer = (*fileNode)(nil)
var _ fs.NodeOpener = (*fileNode)(nil)

// Getattr derives the file's attributes from its path.
func (f *fileNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	attr, err := f.fs.namespace.AttributesOf(f.path)
	if err != nil {
		return errnoFromError(err)
	}

	f.fs.fillAttr(attr, &out.Attr)
	return 0
}

// Open enforces the read-only contract before any content is generated.
func (f *fileNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	err := f.fs.namespace.CheckOpen(f.path, wantsWrite(flags))
	errno := errnoFromError(err)
	f.fs.record("open", errno)
	if errno != 0 {
		return nil, 0, errno
	}

	// Content is immutable, so the kernel may cache pages across opens.
	return &fileHandle{fs: f.fs, path: f.path}, fuse.FOPEN_KEEP_CACHE, 0
}

// wantsWrite reports whether the open flags carry any intent beyond plain
// read-only access.
func wantsWrite(flags uint32) bool {
	if flags&uint32(syscall.O_ACCMODE) != uint32(syscall.O_RDONLY) {
		return true
	}
	return flags&uint32(syscall.O_APPEND|syscall.O_TRUNC|syscall.O_CREAT) != 0
}

// fileHandle serves reads for one open file. It carries no buffers of its
// own; every read asks the namespace for a fresh window.
type fileHandle struct {
	fs   *FileSystem
	path string
}

var _ fs.FileReader = (*fileHandle)(nil)

// Read generates the requested window of file content.
func (h *fileHandle) Read(ctx context.Context, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := h.fs.namespace.ReadRange(h.path, off, int64(len(dest)))
	errno := errnoFromError(err)
	h.fs.record("read", errno)
	if errno != 0 {
		return nil, errno
	}

	h.fs.stats.mu.Lock()
	h.fs.stats.BytesRead += int64(len(data))
	h.fs.stats.mu.Unlock()
	if h.fs.metrics != nil {
		h.fs.metrics.RecordRead(int64(len(data)))
	}

	return fuse.ReadResultData(data), 0
}

// fillAttr translates namespace attributes into the FUSE attribute struct.
func (f *FileSystem) fillAttr(attr *types.Attributes, out *fuse.Attr) {
	mode := attr.Mode
	if attr.IsDir() {
		mode |= fuse.S_IFDIR
	} else {
		mode |= fuse.S_IFREG
	}

	out.Mode = mode
	out.Size = uint64(attr.Size)
	out.Nlink = attr.Nlink
	out.Uid = f.config.UID
	out.Gid = f.config.GID
}
