package fuse

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/synthfs/synthfs/internal/config"
	"github.com/synthfs/synthfs/pkg/errors"
)

// MountManager manages the FUSE mount lifecycle for one filesystem.
type MountManager struct {
	filesystem *FileSystem
	server     *fuse.Server
	config     *config.MountConfig
	mounted    bool
}

// NewMountManager creates a new mount manager.
func NewMountManager(filesystem *FileSystem, cfg *config.MountConfig) *MountManager {
	if cfg == nil {
		def := config.NewDefault().Mount
		cfg = &def
	}

	return &MountManager{
		filesystem: filesystem,
		config:     cfg,
	}
}

// Mount mounts the filesystem at the configured mount point.
func (m *MountManager) Mount(ctx context.Context) error {
	if m.mounted {
		return errors.NewError(errors.ErrCodeMountFailed, "filesystem is already mounted").
			WithComponent("fuse")
	}

	if err := m.validateMountPoint(); err != nil {
		return errors.NewError(errors.ErrCodeMountPoint, "invalid mount point").
			WithComponent("fuse").
			WithCause(err)
	}

	opts := m.buildFUSEOptions()

	server, err := fs.Mount(m.config.MountPoint, m.filesystem.Root(), opts)
	if err != nil {
		return errors.NewError(errors.ErrCodeMountFailed, "failed to mount filesystem").
			WithComponent("fuse").
			WithCause(err)
	}

	m.server = server
	m.mounted = true

	log.Printf("SynthFS mounted at %s", m.config.MountPoint)

	return nil
}

// Unmount unmounts the filesystem.
func (m *MountManager) Unmount() error {
	if !m.mounted || m.server == nil {
		return errors.NewError(errors.ErrCodeUnmountFailed, "filesystem is not mounted").
			WithComponent("fuse")
	}

	log.Printf("Unmounting filesystem at %s", m.config.MountPoint)

	if err := m.server.Unmount(); err != nil {
		log.Printf("Normal unmount failed, trying force unmount: %v", err)
		if forceErr := m.forceUnmount(); forceErr != nil {
			return errors.NewError(errors.ErrCodeUnmountFailed, "unmount failed").
				WithComponent("fuse").
				WithCause(fmt.Errorf("%v (force unmount also failed: %v)", err, forceErr))
		}
	}

	m.mounted = false
	m.server = nil

	log.Printf("Filesystem unmounted")
	return nil
}

// IsMounted reports whether the filesystem is currently mounted.
func (m *MountManager) IsMounted() bool {
	return m.mounted
}

// MountPoint returns the configured mount point.
func (m *MountManager) MountPoint() string {
	return m.config.MountPoint
}

// Wait blocks until the kernel connection is closed, either by Unmount or
// by an external fusermount -u.
func (m *MountManager) Wait() {
	if m.server != nil {
		m.server.Wait()
	}
}

// GetStats returns the filesystem's operation counters.
func (m *MountManager) GetStats() *Stats {
	if m.filesystem != nil {
		return m.filesystem.GetStats()
	}
	return &Stats{}
}

func (m *MountManager) validateMountPoint() error {
	if m.config.MountPoint == "" {
		return fmt.Errorf("mount point cannot be empty")
	}

	info, err := os.Stat(m.config.MountPoint)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("mount point does not exist: %s", m.config.MountPoint)
		}
		return fmt.Errorf("cannot access mount point: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("mount point is not a directory: %s", m.config.MountPoint)
	}

	entries, err := os.ReadDir(m.config.MountPoint)
	if err != nil {
		return fmt.Errorf("cannot read mount point directory: %w", err)
	}
	if len(entries) > 0 {
		log.Printf("Warning: mount point %s is not empty", m.config.MountPoint)
	}

	if m.isAlreadyMounted() {
		return fmt.Errorf("mount point %s is already mounted", m.config.MountPoint)
	}

	return nil
}

func (m *MountManager) buildFUSEOptions() *fs.Options {
	attrTimeout := m.config.AttrTimeout
	entryTimeout := m.config.EntryTimeout

	opts := &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:       m.config.FSName,
			FsName:     m.config.FSName,
			Debug:      m.config.Debug,
			AllowOther: m.config.AllowOther,
		},

		// The namespace is immutable, so attribute and entry caching
		// never goes stale.
		AttrTimeout:  &attrTimeout,
		EntryTimeout: &entryTimeout,

		NullPermissions: true,
	}

	// The namespace cannot be written; tell the kernel so writes are
	// refused before they ever reach the daemon.
	opts.Options = append(opts.Options, "ro")

	if m.config.AllowRoot {
		opts.Options = append(opts.Options, "allow_root")
	}
	if m.config.Subtype != "" {
		opts.Options = append(opts.Options, fmt.Sprintf("subtype=%s", m.config.Subtype))
	}

	return opts
}

func (m *MountManager) isAlreadyMounted() bool {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		// Not a Linux host or /proc unavailable; assume not mounted.
		return false
	}

	return strings.Contains(string(data), " "+filepath.Clean(m.config.MountPoint)+" ")
}

func (m *MountManager) forceUnmount() error {
	// Lazy detach first, then force.
	if err := syscall.Unmount(m.config.MountPoint, 2); err == nil {
		return nil
	}
	return syscall.Unmount(m.config.MountPoint, 1)
}
