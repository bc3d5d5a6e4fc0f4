//go:build cgofuse
// +build cgofuse

package fuse

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/winfsp/cgofuse/fuse"

	"github.com/synthfs/synthfs/internal/config"
	"github.com/synthfs/synthfs/internal/metrics"
	"github.com/synthfs/synthfs/pkg/errors"
	"github.com/synthfs/synthfs/pkg/types"
)

// CgoFuseFS serves the virtual namespace through cgofuse, for hosts where
// the go-fuse binding is unavailable (macOS, Windows). cgofuse hands every
// callback the full path, which matches the namespace's addressing model
// exactly.
type CgoFuseFS struct {
	fuse.FileSystemBase

	namespace types.Namespace
	metrics   *metrics.Collector
	config    *config.MountConfig

	stats *Stats

	mu      sync.Mutex
	host    *fuse.FileSystemHost
	mounted bool
	done    chan struct{}
}

// NewCgoFuseFS creates a new cgofuse-based filesystem.
func NewCgoFuseFS(namespace types.Namespace, collector *metrics.Collector, cfg *config.MountConfig) *CgoFuseFS {
	if cfg == nil {
		def := config.NewDefault().Mount
		cfg = &def
	}

	return &CgoFuseFS{
		namespace: namespace,
		metrics:   collector,
		config:    cfg,
		stats:     &Stats{},
	}
}

// Mount mounts the filesystem.
func (f *CgoFuseFS) Mount(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mounted {
		return errors.NewError(errors.ErrCodeMountFailed, "filesystem is already mounted").
			WithComponent("fuse")
	}

	f.host = fuse.NewFileSystemHost(f)
	f.done = make(chan struct{})

	options := []string{
		"-o", "ro",
		"-o", "fsname=" + f.config.FSName,
	}
	if f.config.Subtype != "" {
		options = append(options, "-o", "subtype="+f.config.Subtype)
	}
	if f.config.AllowOther {
		options = append(options, "-o", "allow_other")
	}
	switch runtime.GOOS {
	case "darwin":
		options = append(options, "-o", "volname="+f.config.FSName)
	case "windows":
		options = append(options, "-o", "FileSystemName="+f.config.FSName)
	}

	go func() {
		defer close(f.done)
		if ok := f.host.Mount(f.config.MountPoint, options); !ok {
			log.Printf("cgofuse mount at %s failed", f.config.MountPoint)
		}
	}()

	// cgofuse reports mount failures only through the blocking Mount
	// call; give it a moment to fail fast before declaring success.
	time.Sleep(100 * time.Millisecond)
	select {
	case <-f.done:
		return errors.NewError(errors.ErrCodeMountFailed, "failed to mount filesystem").
			WithComponent("fuse")
	default:
	}

	f.mounted = true
	log.Printf("SynthFS mounted at %s", f.config.MountPoint)
	return nil
}

// Unmount unmounts the filesystem.
func (f *CgoFuseFS) Unmount() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mounted {
		return errors.NewError(errors.ErrCodeUnmountFailed, "filesystem is not mounted").
			WithComponent("fuse")
	}

	if f.host != nil && !f.host.Unmount() {
		return errors.NewError(errors.ErrCodeUnmountFailed, "unmount failed").
			WithComponent("fuse")
	}

	f.mounted = false
	log.Printf("Filesystem unmounted")
	return nil
}

// IsMounted reports whether the filesystem is mounted.
func (f *CgoFuseFS) IsMounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

// Wait blocks until the host loop exits.
func (f *CgoFuseFS) Wait() {
	if f.done != nil {
		<-f.done
	}
}

// MountPoint returns the configured mount point.
func (f *CgoFuseFS) MountPoint() string {
	return f.config.MountPoint
}

// GetStats returns a copy of the operation counters.
func (f *CgoFuseFS) GetStats() *Stats {
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

// Getattr derives attributes for a path. The mount root itself is ENOENT by
// contract, even though its descriptor children resolve.
func (f *CgoFuseFS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	attr, err := f.namespace.AttributesOf(path)
	rc := f.record("lookup", err)
	if rc != 0 {
		return rc
	}

	if attr.IsDir() {
		stat.Mode = fuse.S_IFDIR | uint32(attr.Mode)
	} else {
		stat.Mode = fuse.S_IFREG | uint32(attr.Mode)
	}
	stat.Size = attr.Size
	stat.Nlink = attr.Nlink
	return 0
}

// Open enforces the read-only contract.
func (f *CgoFuseFS) Open(path string, flags int) (int, uint64) {
	err := f.namespace.CheckOpen(path, wantsWrite(uint32(flags)))
	if rc := f.record("open", err); rc != 0 {
		return rc, ^uint64(0)
	}
	return 0, 0
}

// Read generates the requested content window.
func (f *CgoFuseFS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	data, err := f.namespace.ReadRange(path, ofst, int64(len(buff)))
	if rc := f.record("read", err); rc != 0 {
		return rc
	}

	f.stats.mu.Lock()
	f.stats.BytesRead += int64(len(data))
	f.stats.mu.Unlock()
	if f.metrics != nil {
		f.metrics.RecordRead(int64(len(data)))
	}

	return copy(buff, data)
}

// Readdir lists the numbered children of a directory layer.
func (f *CgoFuseFS) Readdir(path string, fill func(name string, stat *fuse.Stat_t, ofst int64) bool, ofst int64, fh uint64) int {
	names, err := f.namespace.ListChildren(path)
	if rc := f.record("readdir", err); rc != 0 {
		return rc
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, name := range names {
		if !fill(name, nil, 0) {
			break
		}
	}
	return 0
}

// record updates counters and translates a namespace failure into a cgofuse
// return code.
func (f *CgoFuseFS) record(op string, err error) int {
	rc := 0
	outcome := metrics.OutcomeOK
	switch {
	case errors.IsCode(err, errors.ErrCodePathNotFound):
		rc = -fuse.ENOENT
		outcome = metrics.OutcomeNotFound
	case errors.IsCode(err, errors.ErrCodeAccessDenied):
		rc = -fuse.EACCES
		outcome = metrics.OutcomeDenied
	case err != nil:
		rc = -fuse.EIO
	}

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
	switch rc {
	case -fuse.ENOENT:
		f.stats.NotFound++
	case -fuse.EACCES:
		f.stats.Denied++
	}
	f.stats.mu.Unlock()

	if f.metrics != nil {
		f.metrics.RecordOperation(op, outcome)
	}
	return rc
}
